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

package exprarena

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArenaTakeReplace(t *testing.T) {
	a := NewArena()
	h := a.Add(Column{Name: "x"})

	taken := a.Take(h)
	require.Equal(t, Column{Name: "x"}, taken)
	require.Panics(t, func() { a.Get(h) })

	a.Replace(h, Column{Name: "y"})
	require.Equal(t, Column{Name: "y"}, a.Get(h))
}

func TestArenaGetPanicsOnInvalidHandle(t *testing.T) {
	a := NewArena()
	require.Panics(t, func() { a.Get(Handle(0)) })
	require.Panics(t, func() { a.Get(NilHandle) })
}

func TestClonePreservesShapeWithFreshHandles(t *testing.T) {
	a := NewArena()
	leaf := a.Add(Column{Name: "a"})
	lit := a.Add(Literal{Value: 1})
	root := a.Add(BinaryOp{Op: OpEq, Left: leaf, Right: lit})

	cloned := a.Clone(root)
	require.NotEqual(t, root, cloned)

	clonedExpr := a.Get(cloned).(BinaryOp)
	require.NotEqual(t, leaf, clonedExpr.Left)
	require.NotEqual(t, lit, clonedExpr.Right)
	require.Equal(t, Column{Name: "a"}, a.Get(clonedExpr.Left))
	require.Equal(t, Literal{Value: 1}, a.Get(clonedExpr.Right))

	// Mutating the original's children must not affect the clone.
	a.Replace(leaf, Column{Name: "b"})
	require.Equal(t, Column{Name: "a"}, a.Get(clonedExpr.Left))
}

func TestHasAExpr(t *testing.T) {
	a := NewArena()
	col := a.Add(Column{Name: "amount"})
	agg := a.Add(Aggregate{Func: AggSum, Arg: col})
	lit := a.Add(Literal{Value: 10})
	root := a.Add(BinaryOp{Op: OpGt, Left: agg, Right: lit})

	require.True(t, a.HasAExpr(root, func(e Expr) bool {
		_, ok := e.(Aggregate)
		return ok
	}))
	require.False(t, a.HasAExpr(root, func(e Expr) bool {
		_, ok := e.(Window)
		return ok
	}))
}

func TestAggFuncIsCumulative(t *testing.T) {
	cases := []struct {
		name string
		fn   AggFunc
		want bool
	}{
		{"sum", AggSum, false},
		{"cumsum", AggCumSum, true},
		{"cumcount", AggCumCount, true},
		{"max", AggMax, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.fn.IsCumulative())
		})
	}
}
