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

// ruleProjection: a Projection replaces the input's columns outright, so
// any surviving predicate must be rewritten in terms of the projection's
// own output expressions (its aliases) before it can continue downward. If
// any output expression is a definite projection boundary (an aggregate or
// window living inside the projection list itself), nothing can safely
// push past it.
func (p *pass) ruleProjection(h planarena.Handle, n *planarena.Projection, acc Accumulator) (planarena.Handle, error) {
	return p.pushThroughAliasing(h, n, n.Input, n.Outputs, n.Aliases, acc)
}

// ruleLocalProjection behaves identically to ruleProjection: it rewrites
// through aliases and recurses. It keeps every output expression as it is;
// outputs that reference columns missing from the rewritten input are not
// dropped, and the node's schema is not recomputed.
func (p *pass) ruleLocalProjection(h planarena.Handle, n *planarena.LocalProjection, acc Accumulator) (planarena.Handle, error) {
	return p.pushThroughAliasing(h, n, n.Input, n.Outputs, n.Aliases, acc)
}

func (p *pass) pushThroughAliasing(h planarena.Handle, node planarena.Node, input planarena.Handle, outputs []exprarena.Handle, aliases map[string]exprarena.Handle, acc Accumulator) (planarena.Handle, error) {
	for _, e := range outputs {
		if IsDefiniteProjectionBoundary(p.exprArena, e) {
			return p.noPushdownRestartOpt(h, node, acc)
		}
	}
	rewriteThroughAliases(p.exprArena, acc, aliases)
	newInput, err := p.pushDown(input, acc)
	if err != nil {
		return planarena.NilHandle, err
	}
	rewritten := node.WithExprsAndInputs(outputs, []planarena.Handle{newInput})
	p.lpArena.Replace(h, rewritten)
	return h, nil
}

// ruleHStack appends new columns (Outputs/Aliases) to the input's existing
// ones. Unlike Projection, passthrough columns the input already has are
// completely unaffected by HStack, so a predicate that never touches one of
// the newly-added column names can cross unconditionally; only predicates
// that do reference a new column need the alias-boundary check and
// rewrite.
func (p *pass) ruleHStack(h planarena.Handle, n *planarena.HStack, acc Accumulator) (planarena.Handle, error) {
	var blockedLocal []exprarena.Handle
	next := NewAccumulator()
	for _, e := range acc {
		touchesNew := false
		blocked := false
		for name := range Roots(p.exprArena, e) {
			alias, ok := n.Aliases[name]
			if !ok {
				continue
			}
			touchesNew = true
			if IsDefiniteProjectionBoundary(p.exprArena, alias) {
				blocked = true
				break
			}
		}
		switch {
		case blocked:
			blockedLocal = append(blockedLocal, e)
		case touchesNew:
			InsertAndCombine(p.exprArena, next, substituteAllAliases(p.exprArena, e, n.Aliases))
		default:
			InsertAndCombine(p.exprArena, next, e)
		}
	}

	newInput, err := p.pushDown(n.Input, next)
	if err != nil {
		return planarena.NilHandle, err
	}
	rewritten := n.WithExprsAndInputs(n.Outputs, []planarena.Handle{newInput})
	p.lpArena.Replace(h, rewritten)
	return p.optionalApplyPredicate(h, blockedLocal)
}

// ruleExtContext treats predicates referencing only the primary Input the
// same way ruleProjection does (rewrite through aliases, recurse once). Its
// Extra contexts -- additional frames joined into scope for the projection
// expressions to reference -- never receive pushed predicates: spec.md's
// conservative default for multi-context nodes is to leave them untouched
// rather than risk misattributing a predicate to the wrong context.
func (p *pass) ruleExtContext(h planarena.Handle, n *planarena.ExtContext, acc Accumulator) (planarena.Handle, error) {
	for _, e := range n.Outputs {
		if IsDefiniteProjectionBoundary(p.exprArena, e) {
			return p.noPushdownRestartOpt(h, n, acc)
		}
	}
	rewriteThroughAliases(p.exprArena, acc, n.Aliases)

	newInput, err := p.pushDown(n.Input, acc)
	if err != nil {
		return planarena.NilHandle, err
	}
	newExtra := make([]planarena.Handle, len(n.Extra))
	for i, extra := range n.Extra {
		ne, err := p.pushDown(extra, NewAccumulator())
		if err != nil {
			return planarena.NilHandle, err
		}
		newExtra[i] = ne
	}
	rewritten := n.WithExprsAndInputs(n.Outputs, append([]planarena.Handle{newInput}, newExtra...))
	p.lpArena.Replace(h, rewritten)
	return h, nil
}
