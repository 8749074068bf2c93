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

package dfplan

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/arrowplan/dfplan/dfschema"
	"github.com/arrowplan/dfplan/exprarena"
	"github.com/arrowplan/dfplan/planarena"
)

func TestPlannerOptimizePushesPredicateToScan(t *testing.T) {
	lpArena := planarena.NewArena()
	exprArena := exprarena.NewArena()

	sch := dfschema.New(arrow.Field{Name: "amount", Type: arrow.PrimitiveTypes.Float64})

	scan := lpArena.Add(planarena.NewScan(planarena.ScanParquet, planarena.ScanSource{ID: uuid.New(), Path: "orders"}, sch))
	col := exprArena.Add(exprarena.Column{Name: "amount"})
	lit := exprArena.Add(exprarena.Literal{Value: 100})
	pred := exprArena.Add(exprarena.BinaryOp{Op: exprarena.OpGt, Left: col, Right: lit})
	sel := lpArena.Add(planarena.NewSelection(scan, pred))

	planner := New(nil)
	newRoot, stats, err := planner.Optimize(sel, lpArena, exprArena)
	require.NoError(t, err)
	require.Equal(t, 1, stats.PredicatesPushedToScan)

	got, ok := lpArena.Get(newRoot).(*planarena.Scan)
	require.True(t, ok)
	require.True(t, got.Predicate.Valid())
}

func TestPlannerDefaultsToAConfigWhenNil(t *testing.T) {
	p := New(nil)
	require.NotNil(t, p.cfg)
}
