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

// ruleMapFunction dispatches on the concrete MapFunc a MapFunction node
// wraps. Rename rewrites and continues; Explode and Melt stop pushdown
// entirely (an open design decision recorded in the project's DESIGN.md:
// both restructure row/column shape in ways a surviving predicate can't be
// safely restated across without deeper column-lineage tracking than this
// optimizer keeps); OtherMap defers to its own opt-in flag.
func (p *pass) ruleMapFunction(h planarena.Handle, n *planarena.MapFunction, acc Accumulator) (planarena.Handle, error) {
	switch fn := n.Func.(type) {
	case planarena.Rename:
		return p.ruleRename(h, n, fn, acc)
	case planarena.Explode:
		return p.noPushdownRestartOpt(h, n, acc)
	case planarena.Melt:
		return p.noPushdownRestartOpt(h, n, acc)
	case planarena.OtherMap:
		if !fn.AllowPredicatePD {
			return p.noPushdownRestartOpt(h, n, acc)
		}
		newInput, err := p.pushDown(n.Input, acc)
		if err != nil {
			return planarena.NilHandle, err
		}
		p.lpArena.Replace(h, n.WithExprsAndInputs(nil, []planarena.Handle{newInput}))
		return h, nil
	default:
		return p.noPushdownRestartOpt(h, n, acc)
	}
}

func (p *pass) ruleRename(h planarena.Handle, n *planarena.MapFunction, fn planarena.Rename, acc Accumulator) (planarena.Handle, error) {
	inputSchema, err := p.lpArena.Get(n.Input).Schema(p.lpArena, p.exprArena)
	if err != nil {
		return planarena.NilHandle, err
	}

	inverted := invertRenameMapping(fn.Mapping)
	rewritten := NewAccumulator()
	var local []exprarena.Handle
	for _, e := range acc {
		renamedExpr := renameColumns(p.exprArena, e, inverted)
		if _, ok := firstMissingColumn(p.exprArena, renamedExpr, inputSchema); ok {
			// The rewritten predicate references a name the rename mapping
			// didn't account for; demote it to local rather than fail the
			// whole pass (spec.md §7: unsupported predicate shapes are
			// never promoted to errors). e, not renamedExpr, is what's
			// applied here -- it's still phrased in terms of this node's
			// own (post-rename) output columns.
			local = append(local, e)
			continue
		}
		InsertAndCombine(p.exprArena, rewritten, renamedExpr)
	}
	newInput, err := p.pushDown(n.Input, rewritten)
	if err != nil {
		return planarena.NilHandle, err
	}
	p.lpArena.Replace(h, n.WithExprsAndInputs(nil, []planarena.Handle{newInput}))
	return p.optionalApplyPredicate(h, local)
}
