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

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/arrowplan/dfplan/dfschema"
	"github.com/arrowplan/dfplan/exprarena"
	"github.com/arrowplan/dfplan/planarena"
)

func schema(names ...string) *dfschema.Schema {
	fields := make([]arrow.Field, len(names))
	for i, n := range names {
		fields[i] = arrow.Field{Name: n, Type: arrow.BinaryTypes.String, Nullable: true}
	}
	return dfschema.New(fields...)
}

func scanNode(lpArena *planarena.Arena, format planarena.ScanFormat, path string, cols ...string) planarena.Handle {
	return lpArena.Add(planarena.NewScan(format, planarena.ScanSource{ID: uuid.New(), Path: path}, schema(cols...)))
}

func gt(exprArena *exprarena.Arena, col string, lit any) exprarena.Handle {
	c := exprArena.Add(exprarena.Column{Name: col})
	l := exprArena.Add(exprarena.Literal{Value: lit})
	return exprArena.Add(exprarena.BinaryOp{Op: exprarena.OpGt, Left: c, Right: l})
}

// TestParquetScanAbsorbsPredicate covers spec.md §8's scan-absorption
// scenario: a filter directly above a parquet scan ends up merged into the
// scan node itself, with no Selection left in the tree.
func TestParquetScanAbsorbsPredicate(t *testing.T) {
	lpArena := planarena.NewArena()
	exprArena := exprarena.NewArena()

	scan := scanNode(lpArena, planarena.ScanParquet, "orders", "amount", "id")
	pred := gt(exprArena, "amount", 100)
	sel := lpArena.Add(planarena.NewSelection(scan, pred))

	newRoot, stats, err := Optimize(sel, lpArena, exprArena, nil)
	require.NoError(t, err)

	result := lpArena.Get(newRoot)
	got, ok := result.(*planarena.Scan)
	require.True(t, ok, "expected root to be the scan itself, got %T", result)
	require.True(t, got.Predicate.Valid())
	require.Equal(t, 1, stats.PredicatesPushedToScan)
	require.Equal(t, 0, stats.PredicatesApplierLocally)
}

// TestCSVScanWrapsWithSelection covers the CSV special case: the predicate
// cannot be absorbed, so it survives as a Selection directly above the scan.
func TestCSVScanWrapsWithSelection(t *testing.T) {
	lpArena := planarena.NewArena()
	exprArena := exprarena.NewArena()

	scan := scanNode(lpArena, planarena.ScanCSV, "orders.csv", "amount", "id")
	pred := gt(exprArena, "amount", 100)
	sel := lpArena.Add(planarena.NewSelection(scan, pred))

	newRoot, stats, err := Optimize(sel, lpArena, exprArena, nil)
	require.NoError(t, err)

	result := lpArena.Get(newRoot)
	selNode, ok := result.(*planarena.Selection)
	require.True(t, ok, "expected root to remain a Selection, got %T", result)
	inner, ok := lpArena.Get(selNode.Input).(*planarena.Scan)
	require.True(t, ok, "expected the Selection's input to be the scan, got %T", lpArena.Get(selNode.Input))
	require.Equal(t, "orders.csv", inner.Source.Path)
	require.False(t, inner.Predicate.Valid())
	require.Equal(t, 0, stats.PredicatesPushedToScan)
	require.Equal(t, 1, stats.PredicatesApplierLocally)
}

// TestRenameRewritesPredicateAcrossBoundary covers a filter on a renamed
// column crossing a Rename and ending up phrased in terms of the pre-rename
// name at the scan.
func TestRenameRewritesPredicateAcrossBoundary(t *testing.T) {
	lpArena := planarena.NewArena()
	exprArena := exprarena.NewArena()

	scan := scanNode(lpArena, planarena.ScanParquet, "orders", "old_amount", "id")
	rename := lpArena.Add(planarena.NewMapFunction(scan, planarena.Rename{
		Mapping: map[string]string{"old_amount": "amount"},
	}))
	pred := gt(exprArena, "amount", 100)
	sel := lpArena.Add(planarena.NewSelection(rename, pred))

	newRoot, _, err := Optimize(sel, lpArena, exprArena, nil)
	require.NoError(t, err)

	mf, ok := lpArena.Get(newRoot).(*planarena.MapFunction)
	require.True(t, ok, "expected root to be the rename, got %T", lpArena.Get(newRoot))
	pushedScan, ok := lpArena.Get(mf.Input).(*planarena.Scan)
	require.True(t, ok)
	require.True(t, pushedScan.Predicate.Valid())
	roots := Roots(exprArena, pushedScan.Predicate)
	_, hasOldName := roots["old_amount"]
	require.True(t, hasOldName, "expected predicate to be rewritten in terms of the pre-rename column")
}

// TestRenameDemotesUnresolvableColumnToLocal covers spec.md §4.4/§7: a
// predicate whose rewritten column is absent from the Rename's input
// schema becomes local instead of failing the whole pass.
func TestRenameDemotesUnresolvableColumnToLocal(t *testing.T) {
	lpArena := planarena.NewArena()
	exprArena := exprarena.NewArena()

	scan := scanNode(lpArena, planarena.ScanParquet, "orders", "old_amount", "id")
	rename := lpArena.Add(planarena.NewMapFunction(scan, planarena.Rename{
		Mapping: map[string]string{"old_amount": "amount"},
	}))
	pred := gt(exprArena, "bogus_col", 100) // not covered by the rename mapping or the input schema
	sel := lpArena.Add(planarena.NewSelection(rename, pred))

	newRoot, stats, err := Optimize(sel, lpArena, exprArena, nil)
	require.NoError(t, err)

	_, ok := lpArena.Get(newRoot).(*planarena.Selection)
	require.True(t, ok, "expected the unresolvable predicate to stay local above the rename, got %T", lpArena.Get(newRoot))
	require.Equal(t, 1, stats.PredicatesApplierLocally)
}

// TestSelectionTransfersInboundBoundaryPredicateToLocal covers spec.md
// §4.4's Selection rule: a boundary-shaped predicate already sitting in the
// accumulator when it reaches a nested Selection (because an enclosing
// Selection dissolved into it first) must be moved to local at that
// Selection rather than carried further down, even though the nested
// Selection's own predicate keeps pushing as normal.
func TestSelectionTransfersInboundBoundaryPredicateToLocal(t *testing.T) {
	lpArena := planarena.NewArena()
	exprArena := exprarena.NewArena()

	scan := scanNode(lpArena, planarena.ScanParquet, "orders", "amount", "id")
	innerPred := gt(exprArena, "amount", 100)
	innerSel := lpArena.Add(planarena.NewSelection(scan, innerPred))

	rowNumber := exprArena.Add(exprarena.Function{Name: "row_number", Elementwise: false})
	windowExpr := exprArena.Add(exprarena.Window{Func: rowNumber})
	rankLit := exprArena.Add(exprarena.Literal{Value: 1})
	outerPred := exprArena.Add(exprarena.BinaryOp{Op: exprarena.OpGt, Left: windowExpr, Right: rankLit})
	outerSel := lpArena.Add(planarena.NewSelection(innerSel, outerPred))

	newRoot, stats, err := Optimize(outerSel, lpArena, exprArena, nil)
	require.NoError(t, err)

	selNode, ok := lpArena.Get(newRoot).(*planarena.Selection)
	require.True(t, ok, "expected the window predicate to remain local, got %T", lpArena.Get(newRoot))
	pushedScan, ok := lpArena.Get(selNode.Input).(*planarena.Scan)
	require.True(t, ok, "expected the inner predicate to reach the scan, got %T", lpArena.Get(selNode.Input))
	require.True(t, pushedScan.Predicate.Valid())
	require.Equal(t, 1, stats.PredicatesPushedToScan)
	require.Equal(t, 1, stats.PredicatesApplierLocally)
}

// TestFilterStaysAboveAggregateWhenNotGroupKey covers the HAVING-equivalent
// case: a predicate referencing an aggregated value must not commute below
// the Aggregate.
func TestFilterStaysAboveAggregateWhenNotGroupKey(t *testing.T) {
	lpArena := planarena.NewArena()
	exprArena := exprarena.NewArena()

	scan := scanNode(lpArena, planarena.ScanParquet, "orders", "customer", "amount")
	groupCol := exprArena.Add(exprarena.Column{Name: "customer"})
	sumArg := exprArena.Add(exprarena.Column{Name: "amount"})
	sumExpr := exprArena.Add(exprarena.Aggregate{Func: exprarena.AggSum, Arg: sumArg})
	agg := lpArena.Add(planarena.NewAggregate(scan, []exprarena.Handle{groupCol}, []exprarena.Handle{sumExpr}))

	pred := gt(exprArena, "amount", 1000) // references the aggregated column, not a group key
	sel := lpArena.Add(planarena.NewSelection(agg, pred))

	newRoot, stats, err := Optimize(sel, lpArena, exprArena, nil)
	require.NoError(t, err)

	_, ok := lpArena.Get(newRoot).(*planarena.Selection)
	require.True(t, ok, "expected the filter to remain local above the aggregate")
	require.Equal(t, 1, stats.PredicatesApplierLocally)
}

// TestFilterOnGroupKeyStaysAboveAggregate covers spec.md §4.4's literal,
// unconditional rule: even a predicate referencing only group-by columns
// does not cross an Aggregate -- it is always a hard pushdown boundary,
// like Slice and Cache.
func TestFilterOnGroupKeyStaysAboveAggregate(t *testing.T) {
	lpArena := planarena.NewArena()
	exprArena := exprarena.NewArena()

	scan := scanNode(lpArena, planarena.ScanParquet, "orders", "customer", "amount")
	groupCol := exprArena.Add(exprarena.Column{Name: "customer"})
	sumArg := exprArena.Add(exprarena.Column{Name: "amount"})
	sumExpr := exprArena.Add(exprarena.Aggregate{Func: exprarena.AggSum, Arg: sumArg})
	agg := lpArena.Add(planarena.NewAggregate(scan, []exprarena.Handle{groupCol}, []exprarena.Handle{sumExpr}))

	custLit := exprArena.Add(exprarena.Literal{Value: "acme"})
	custCol := exprArena.Add(exprarena.Column{Name: "customer"})
	pred := exprArena.Add(exprarena.BinaryOp{Op: exprarena.OpEq, Left: custCol, Right: custLit})
	sel := lpArena.Add(planarena.NewSelection(agg, pred))

	newRoot, stats, err := Optimize(sel, lpArena, exprArena, nil)
	require.NoError(t, err)

	_, ok := lpArena.Get(newRoot).(*planarena.Selection)
	require.True(t, ok, "expected the filter to remain local above the aggregate, got %T", lpArena.Get(newRoot))
	require.Equal(t, 1, stats.PredicatesApplierLocally)
}

// TestInnerJoinSplitsPredicatesBySide covers spec.md §4.5/§8: a conjunction
// with one clause per side of an inner join ends up pushed independently to
// each side's scan, with nothing left local.
func TestInnerJoinSplitsPredicatesBySide(t *testing.T) {
	lpArena := planarena.NewArena()
	exprArena := exprarena.NewArena()

	left := scanNode(lpArena, planarena.ScanParquet, "orders", "id", "amount")
	right := scanNode(lpArena, planarena.ScanParquet, "customers", "id", "name")
	join := lpArena.Add(planarena.NewJoin(left, right, []string{"id"}, []string{"id"}, planarena.JoinInner))

	leftPred := gt(exprArena, "amount", 100)
	nameCol := exprArena.Add(exprarena.Column{Name: "name"})
	nameLit := exprArena.Add(exprarena.Literal{Value: "acme"})
	rightPred := exprArena.Add(exprarena.BinaryOp{Op: exprarena.OpEq, Left: nameCol, Right: nameLit})
	conj := exprArena.Add(exprarena.BinaryOp{Op: exprarena.OpAnd, Left: leftPred, Right: rightPred})
	sel := lpArena.Add(planarena.NewSelection(join, conj))

	newRoot, stats, err := Optimize(sel, lpArena, exprArena, nil)
	require.NoError(t, err)

	joinNode, ok := lpArena.Get(newRoot).(*planarena.Join)
	require.True(t, ok, "expected root to be the join itself, got %T", lpArena.Get(newRoot))

	leftScan := lpArena.Get(joinNode.Left).(*planarena.Scan)
	rightScan := lpArena.Get(joinNode.Right).(*planarena.Scan)
	require.True(t, leftScan.Predicate.Valid())
	require.True(t, rightScan.Predicate.Valid())
	require.Equal(t, 0, stats.PredicatesApplierLocally)
	require.Equal(t, 2, stats.PredicatesPushedToScan)
}

// TestCountAcrossUnionStaysLocal covers spec.md §8's named edge case: a
// predicate containing a Count marker must not be distributed to Union
// branches, since Count's meaning depends on the row set it was computed
// over.
func TestCountAcrossUnionStaysLocal(t *testing.T) {
	lpArena := planarena.NewArena()
	exprArena := exprarena.NewArena()

	left := scanNode(lpArena, planarena.ScanParquet, "a", "id")
	right := scanNode(lpArena, planarena.ScanParquet, "b", "id")
	union := lpArena.Add(planarena.NewUnion([]planarena.Handle{left, right}))

	count := exprArena.Add(exprarena.Count{})
	lit := exprArena.Add(exprarena.Literal{Value: 0})
	pred := exprArena.Add(exprarena.BinaryOp{Op: exprarena.OpGt, Left: count, Right: lit})
	sel := lpArena.Add(planarena.NewSelection(union, pred))

	newRoot, stats, err := Optimize(sel, lpArena, exprArena, nil)
	require.NoError(t, err)

	_, ok := lpArena.Get(newRoot).(*planarena.Selection)
	require.True(t, ok, "expected the Count predicate to remain local above the union")
	require.Equal(t, 1, stats.PredicatesApplierLocally)
	require.Equal(t, 0, stats.PredicatesPushedToScan)
}

// TestIdempotence covers invariant 3 of spec.md §8: running Optimize again
// on an already-optimized tree changes nothing further.
func TestIdempotence(t *testing.T) {
	lpArena := planarena.NewArena()
	exprArena := exprarena.NewArena()

	scan := scanNode(lpArena, planarena.ScanParquet, "orders", "amount")
	pred := gt(exprArena, "amount", 100)
	sel := lpArena.Add(planarena.NewSelection(scan, pred))

	once, stats1, err := Optimize(sel, lpArena, exprArena, nil)
	require.NoError(t, err)

	twice, stats2, err := Optimize(once, lpArena, exprArena, nil)
	require.NoError(t, err)

	require.Equal(t, once, twice)
	require.Equal(t, stats1.PredicatesPushedToScan, stats2.PredicatesPushedToScan)
	require.Equal(t, 0, stats2.PredicatesApplierLocally)
}
