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
	"github.com/arrowplan/dfplan/exprarena"
	"github.com/arrowplan/dfplan/planarena"
)

// ruleSelection dissolves a Selection into the accumulator: it first moves
// any already-accumulated predicate that can never cross a pushdown
// boundary (an aggregate/window shape, per IsPushdownBoundary) to the local
// list, splits this node's own predicate on its top-level AND connectives
// (so "a AND b" can push a and b independently, to different destinations
// if their column roots differ), inserts each conjunct, and recurses
// directly into the input. The Selection node itself disappears from the
// tree; whatever was transferred to local, or couldn't be absorbed further
// down, is re-introduced as an equivalent Selection directly above via
// optionalApplyPredicate.
func (p *pass) ruleSelection(h planarena.Handle, n *planarena.Selection, acc Accumulator) (planarena.Handle, error) {
	local := TransferToLocalByNode(p.exprArena, acc, IsPushdownBoundary)

	for _, conjunct := range splitConjunction(p.exprArena, n.Predicate) {
		InsertAndCombine(p.exprArena, acc, conjunct)
	}

	result, err := p.pushDown(n.Input, acc)
	if err != nil {
		return planarena.NilHandle, err
	}
	return p.optionalApplyPredicate(result, local)
}

// splitConjunction flattens e's top-level AND tree into its leaf conjuncts.
// A non-AND expression is returned as its own single-element slice.
func splitConjunction(arena *exprarena.Arena, e exprarena.Handle) []exprarena.Handle {
	expr := arena.Get(e)
	bin, ok := expr.(exprarena.BinaryOp)
	if !ok || bin.Op != exprarena.OpAnd {
		return []exprarena.Handle{e}
	}
	left := splitConjunction(arena, bin.Left)
	right := splitConjunction(arena, bin.Right)
	return append(left, right...)
}
