// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pushdown

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arrowplan/dfplan/exprarena"
)

func TestInsertAndCombineKeysByFirstRoot(t *testing.T) {
	arena := exprarena.NewArena()
	acc := NewAccumulator()

	e1 := gt(arena, "amount", 10)
	InsertAndCombine(arena, acc, e1)
	require.Len(t, acc, 1)
	require.Contains(t, acc, "amount")

	e2 := gt(arena, "amount", 20)
	InsertAndCombine(arena, acc, e2)
	require.Len(t, acc, 1, "colliding keys should combine rather than overwrite")

	combined := arena.Get(acc["amount"]).(exprarena.BinaryOp)
	require.Equal(t, exprarena.OpAnd, combined.Op)
}

func TestInsertAndCombineNoColumnUsesSentinelKey(t *testing.T) {
	arena := exprarena.NewArena()
	acc := NewAccumulator()

	lit := arena.Add(exprarena.Literal{Value: true})
	InsertAndCombine(arena, acc, lit)
	require.Contains(t, acc, rootKey)
}

func TestTransferToLocalByNameMovesMatchingRoots(t *testing.T) {
	arena := exprarena.NewArena()
	acc := NewAccumulator()
	InsertAndCombine(arena, acc, gt(arena, "amount", 10))
	InsertAndCombine(arena, acc, gt(arena, "id", 5))

	local := TransferToLocalByName(arena, acc, func(name string) bool { return name == "amount" })
	require.Len(t, local, 1)
	require.Len(t, acc, 1)
	require.Contains(t, acc, "id")
}

func TestDrainEmptiesAccumulator(t *testing.T) {
	arena := exprarena.NewArena()
	acc := NewAccumulator()
	InsertAndCombine(arena, acc, gt(arena, "amount", 10))
	InsertAndCombine(arena, acc, gt(arena, "id", 5))

	drained := Drain(acc)
	require.Len(t, drained, 2)
	require.Empty(t, acc)
}

func TestPredicateAtScanCombinesWithExisting(t *testing.T) {
	arena := exprarena.NewArena()
	acc := NewAccumulator()
	existing := gt(arena, "amount", 10)
	InsertAndCombine(arena, acc, gt(arena, "id", 5))

	combined, ok := PredicateAtScan(arena, acc, existing)
	require.True(t, ok)
	require.Empty(t, acc)
	bin, isAnd := arena.Get(combined).(exprarena.BinaryOp)
	require.True(t, isAnd)
	require.Equal(t, exprarena.OpAnd, bin.Op)
}

func TestPredicateAtScanNoSurvivingPredicates(t *testing.T) {
	arena := exprarena.NewArena()
	acc := NewAccumulator()

	_, ok := PredicateAtScan(arena, acc, exprarena.NilHandle)
	require.False(t, ok)
}

func TestCombinePredicatesPanicsOnEmpty(t *testing.T) {
	arena := exprarena.NewArena()
	require.Panics(t, func() { CombinePredicates(arena, nil) })
}
