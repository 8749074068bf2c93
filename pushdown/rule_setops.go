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

// ruleUnion pushes a copy of every surviving predicate into each unioned
// branch independently: the branches share a schema, and a row-wise filter
// applied to each branch before concatenation is equivalent to applying it
// to the concatenated result. A predicate built on Count is the exception
// (spec.md §8's "Count across a Union stays local" case): COUNT(*) against
// one branch means something different from COUNT(*) against the unioned
// whole, so it must stay above the Union rather than be distributed.
func (p *pass) ruleUnion(h planarena.Handle, n *planarena.Union, acc Accumulator) (planarena.Handle, error) {
	local := TransferToLocalByNode(p.exprArena, acc, func(arena *exprarena.Arena, e exprarena.Handle) bool {
		return containsCount(arena, e)
	})

	newInputs := make([]planarena.Handle, len(n.InputNodes))
	for i, in := range n.InputNodes {
		branchAcc := NewAccumulator()
		for key, e := range acc {
			if i == 0 {
				branchAcc[key] = e
			} else {
				branchAcc[key] = p.exprArena.Clone(e)
			}
		}
		newIn, err := p.pushDown(in, branchAcc)
		if err != nil {
			return planarena.NilHandle, err
		}
		newInputs[i] = newIn
	}
	p.lpArena.Replace(h, n.WithExprsAndInputs(nil, newInputs))
	return p.optionalApplyPredicate(h, local)
}

// ruleSort lets any predicate that doesn't itself depend on row order cross
// freely: filtering rows never changes the relative order of the rows that
// remain, and the Sort's own By expressions are untouched by anything
// happening to rows it doesn't keep. Sort-boundary predicates (referencing
// a window function, a cumulative aggregate, or an explicit sort marker)
// must stay above the Sort, since their values are only meaningful relative
// to this exact ordering.
func (p *pass) ruleSort(h planarena.Handle, n *planarena.Sort, acc Accumulator) (planarena.Handle, error) {
	local := TransferToLocalByNode(p.exprArena, acc, func(arena *exprarena.Arena, e exprarena.Handle) bool {
		return IsSortBoundary(arena, e)
	})
	newInput, err := p.pushDown(n.Input, acc)
	if err != nil {
		return planarena.NilHandle, err
	}
	p.lpArena.Replace(h, n.WithExprsAndInputs(n.By, []planarena.Handle{newInput}))
	return p.optionalApplyPredicate(h, local)
}
