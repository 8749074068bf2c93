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
	"github.com/arrowplan/dfplan/dfschema"
	"github.com/arrowplan/dfplan/exprarena"
	"github.com/arrowplan/dfplan/planarena"
)

// side names which input of a Join a predicate depends on.
type side int

const (
	sideNeither side = iota
	sideLeft
	sideRight
	sideBoth
)

// classifySide reports which of the join's two inputs the columns h
// references belong to.
func classifySide(arena *exprarena.Arena, h exprarena.Handle, left, right *dfschema.Schema) side {
	anyLeft, anyRight := false, false
	for name := range Roots(arena, h) {
		if left.HasColumn(name) {
			anyLeft = true
		}
		if right.HasColumn(name) {
			anyRight = true
		}
	}
	switch {
	case anyLeft && anyRight:
		return sideBoth
	case anyLeft:
		return sideLeft
	case anyRight:
		return sideRight
	default:
		return sideNeither
	}
}

// joinDestination is the partitioning table from the design notes: for each
// join kind and predicate dependency class, where the predicate is allowed
// to go. Anything other than sideLeft/sideRight means "apply locally, above
// the join" -- the conservative default whenever pushing could change which
// rows the join kind's null-extension or match semantics would otherwise
// produce.
func joinDestination(how planarena.JoinKind, s side) side {
	switch how {
	case planarena.JoinInner, planarena.JoinCross:
		switch s {
		case sideLeft:
			return sideLeft
		case sideRight:
			return sideRight
		case sideNeither:
			// No column dependency: harmless to evaluate on either side
			// before the join; pushing to the left arbitrarily breaks the
			// tie.
			return sideLeft
		default:
			return sideBoth // sideBoth here is the sentinel for "local"
		}
	case planarena.JoinLeft:
		// A left join preserves every left row, null-extending unmatched
		// right columns. A right-only or both-sided predicate evaluated
		// before the join could discard a right row that a left row needed
		// to match against, turning a matched row into a null-extended one
		// -- so only left-only (and column-free) predicates may cross.
		if s == sideLeft || s == sideNeither {
			return sideLeft
		}
		return sideBoth
	case planarena.JoinOuter:
		// A full outer join preserves unmatched rows from both sides;
		// there's no side a predicate can land on without risking the same
		// kind of match/no-match corruption a left join has on its
		// preserved side, so everything stays local.
		return sideBoth
	case planarena.JoinAntiSemi:
		// Anti/semi joins produce left rows filtered by whether a match
		// exists; filtering the left side before the join is equivalent to
		// filtering it after, but filtering the right side changes which
		// left rows count as matched.
		if s == sideLeft || s == sideNeither {
			return sideLeft
		}
		return sideBoth
	case planarena.JoinAsOf:
		// Conservative default (open design decision, see DESIGN.md):
		// an as-of join's right-side match is the nearest row under an
		// ordering constraint, so filtering the right side before matching
		// can change which row is "nearest." Only left-only predicates are
		// safe to push.
		if s == sideLeft || s == sideNeither {
			return sideLeft
		}
		return sideBoth
	default:
		return sideBoth
	}
}

// ruleJoin partitions acc across Left and Right according to
// joinDestination, recurses into each side with its share, and wraps
// whatever can't safely cross the join in a Selection sitting directly
// above it.
func (p *pass) ruleJoin(h planarena.Handle, n *planarena.Join, acc Accumulator) (planarena.Handle, error) {
	leftSchema, err := p.lpArena.Get(n.Left).Schema(p.lpArena, p.exprArena)
	if err != nil {
		return planarena.NilHandle, err
	}
	rightSchema, err := p.lpArena.Get(n.Right).Schema(p.lpArena, p.exprArena)
	if err != nil {
		return planarena.NilHandle, err
	}

	keyRename := make(map[string]string, len(n.LeftOn))
	for i, leftKey := range n.LeftOn {
		if i < len(n.RightOn) && leftKey != n.RightOn[i] {
			keyRename[leftKey] = n.RightOn[i]
		}
	}

	leftAcc, rightAcc := NewAccumulator(), NewAccumulator()
	var local []exprarena.Handle
	for key, e := range acc {
		s := classifySide(p.exprArena, e, leftSchema, rightSchema)
		switch joinDestination(n.How, s) {
		case sideLeft:
			leftAcc[key] = e
		case sideRight:
			// An equi-join's left_on and right_on may name the same key
			// column differently; a predicate pushed into R must be
			// restated in terms of R's own schema first.
			rewritten := renameColumns(p.exprArena, e, keyRename)
			rightAcc[firstRootKey(p.exprArena, rewritten)] = rewritten
		default:
			local = append(local, e)
		}
	}

	newLeft, err := p.pushDown(n.Left, leftAcc)
	if err != nil {
		return planarena.NilHandle, err
	}
	newRight, err := p.pushDown(n.Right, rightAcc)
	if err != nil {
		return planarena.NilHandle, err
	}
	p.lpArena.Replace(h, n.WithExprsAndInputs(nil, []planarena.Handle{newLeft, newRight}))
	return p.optionalApplyPredicate(h, local)
}
