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

// Package pushdown implements the predicate pushdown optimizer: a single
// traversal over a logical plan tree that carries an accumulator of
// in-flight predicates and, at each node, decides whether those predicates
// may cross the node -- rewriting their column references as needed -- or
// must be applied locally. See spec.md for the full design.
package pushdown

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/arrowplan/dfplan/exprarena"
	"github.com/arrowplan/dfplan/planarena"
)

// pass carries the two arenas and bookkeeping for one Optimize call. It is
// never shared between concurrent passes (spec.md §5: callers running the
// optimizer concurrently must own distinct arenas).
type pass struct {
	lpArena   *planarena.Arena
	exprArena *exprarena.Arena
	stats     Stats
	log       *logrus.Entry
	opts      Options
}

// Options configures behavior spec.md leaves to the caller rather than
// fixing as a hard rule. The zero value is the conservative default.
type Options struct {
	// AllowCSVPredicatePushdown, when true, merges a surviving predicate
	// into a CSV Scan's own Predicate field instead of wrapping the scan
	// in a Selection. CSV readers can't filter themselves; this only
	// makes sense when the caller's own scan executor is known to apply
	// Predicate regardless of format.
	AllowCSVPredicatePushdown bool
}

// Optimize is the optimizer's sole entry point (spec.md §6):
// push_down(node, acc) -> node', starting from an empty accumulator. It
// takes ownership of the subtree rooted at root, rewrites it in place in
// lpArena, and returns the handle of the (possibly different) rewritten
// root. logger may be nil, in which case pushdown logs to logrus's
// standard logger.
func Optimize(root planarena.Handle, lpArena *planarena.Arena, exprArena *exprarena.Arena, logger *logrus.Logger) (planarena.Handle, Stats, error) {
	return OptimizeWithOptions(root, lpArena, exprArena, logger, Options{})
}

// OptimizeWithOptions is Optimize with caller-configurable behavior; see
// Options.
func OptimizeWithOptions(root planarena.Handle, lpArena *planarena.Arena, exprArena *exprarena.Arena, logger *logrus.Logger, opts Options) (planarena.Handle, Stats, error) {
	p := &pass{lpArena: lpArena, exprArena: exprArena, log: newEntry(logger), opts: opts}
	newRoot, err := p.pushDown(root, NewAccumulator())
	if err != nil {
		return planarena.NilHandle, p.stats, errors.Wrap(err, "predicate pushdown")
	}
	p.stats.logSummary(p.log)
	return newRoot, p.stats, nil
}

// pushDown takes ownership of the node at h (vacating its arena slot),
// recurses according to the per-kind rule, writes the rewritten node back
// to h (or to a freshly-added Selection handle wrapping it), and returns
// the handle holding the final result. On every return path -- including
// every error path above the point of failure -- the slot that h refers to
// is left populated, per the recursion invariant in spec.md §3.
func (p *pass) pushDown(h planarena.Handle, acc Accumulator) (planarena.Handle, error) {
	p.stats.NodesVisited++
	node := p.lpArena.Take(h)

	rewritten, err := p.dispatch(h, node, acc)
	if err != nil {
		// Fail fast: put the node back so the arena isn't left with a
		// vacated slot, then propagate. The caller discards the partially
		// rewritten tree, per spec.md §7.
		p.lpArena.Replace(h, node)
		return planarena.NilHandle, err
	}

	// A rule may have wrapped the node in a new Selection at a fresh handle
	// (rewritten != h); copy its final shape back into h so callers that
	// recorded h before recursing still see the rewritten result, and the
	// fresh handle is left to the arena's bookkeeping.
	p.lpArena.Replace(h, p.lpArena.Get(rewritten))
	return h, nil
}

func (p *pass) dispatch(h planarena.Handle, node planarena.Node, acc Accumulator) (planarena.Handle, error) {
	switch n := node.(type) {
	case *planarena.Selection:
		return p.ruleSelection(h, n, acc)
	case *planarena.Scan:
		return p.ruleScan(h, n, acc)
	case *planarena.DataFrameScan:
		return p.ruleDataFrameScan(h, n, acc)
	case *planarena.AnonymousScan:
		return p.ruleAnonymousScan(h, n, acc)
	case *planarena.Projection:
		return p.ruleProjection(h, n, acc)
	case *planarena.LocalProjection:
		return p.ruleLocalProjection(h, n, acc)
	case *planarena.HStack:
		return p.ruleHStack(h, n, acc)
	case *planarena.ExtContext:
		return p.ruleExtContext(h, n, acc)
	case *planarena.MapFunction:
		return p.ruleMapFunction(h, n, acc)
	case *planarena.Join:
		return p.ruleJoin(h, n, acc)
	case *planarena.Aggregate:
		return p.noPushdownRestartOpt(h, node, acc)
	case *planarena.Distinct:
		return p.ruleDistinct(h, n, acc)
	case *planarena.Sort:
		return p.ruleSort(h, n, acc)
	case *planarena.Slice:
		return p.noPushdownRestartOpt(h, node, acc)
	case *planarena.Cache:
		return p.noPushdownRestartOpt(h, node, acc)
	case *planarena.Union:
		return p.ruleUnion(h, n, acc)
	case *planarena.FileSink:
		return p.ruleFileSink(h, n, acc)
	case *planarena.CloudSink:
		return p.ruleCloudSink(h, n, acc)
	case *planarena.PythonScan:
		return p.rulePythonScan(h, n, acc)
	default:
		// An unrecognized node kind cannot safely be pushed through; treat
		// it the way the teacher treats any node it doesn't have a rule
		// for -- stop and apply everything here.
		return p.noPushdownRestartOpt(h, node, acc)
	}
}

// noPushdownRestartOpt recurses into each child with a fresh, empty
// accumulator (the node forbids pushdown entirely), then emits every
// predicate remaining in acc as a local Selection wrapping this node.
func (p *pass) noPushdownRestartOpt(h planarena.Handle, node planarena.Node, acc Accumulator) (planarena.Handle, error) {
	inputs := node.Inputs()
	newInputs := make([]planarena.Handle, len(inputs))
	for i, in := range inputs {
		newIn, err := p.pushDown(in, NewAccumulator())
		if err != nil {
			return planarena.NilHandle, err
		}
		newInputs[i] = newIn
	}
	rewritten := node.WithExprsAndInputs(node.Exprs(), newInputs)
	p.lpArena.Replace(h, rewritten)
	return p.optionalApplyPredicate(h, Drain(acc))
}

// optionalApplyPredicate wraps h in a new Selection combining local, or
// returns h unchanged if local is empty.
//
// pushDown always copies the handle this returns back into h (so a caller
// that recorded h before recursing still sees the final result), which means
// the Selection built here can't use h as its own Input -- that would leave h
// holding a Selection whose Input points at itself. Instead the node
// currently at h is relocated to a fresh handle first, and the Selection
// wraps that.
func (p *pass) optionalApplyPredicate(h planarena.Handle, local []exprarena.Handle) (planarena.Handle, error) {
	if len(local) == 0 {
		return h, nil
	}
	p.stats.PredicatesApplierLocally += len(local)
	predicate := CombinePredicates(p.exprArena, local)
	moved := p.lpArena.Add(p.lpArena.Get(h))
	return p.lpArena.Add(planarena.NewSelection(moved, predicate)), nil
}

// rewriteThroughAliases rewrites every predicate in acc that references one
// of this node's output aliases, replacing each alias reference with the
// aliased expression's defining sub-tree so the predicate ends up phrased
// in terms of the projection's *input* columns. This must run before acc is
// handed to the child recursion (spec.md §9): forgetting this yields
// predicates referencing columns that don't exist below the projection.
func rewriteThroughAliases(arena *exprarena.Arena, acc Accumulator, aliases map[string]exprarena.Handle) {
	if len(aliases) == 0 {
		return
	}
	rewritten := NewAccumulator()
	for _, e := range acc {
		InsertAndCombine(arena, rewritten, substituteAllAliases(arena, e, aliases))
	}
	for key := range acc {
		delete(acc, key)
	}
	for key, e := range rewritten {
		acc[key] = e
	}
}

// substituteAllAliases replaces every Column reference in e whose name is a
// key of aliases with a clone of that alias's defining expression. Unlike a
// single-name substitution, this handles a predicate that spans more than
// one alias in the same expression (e.g. "new_a + new_b > 0").
func substituteAllAliases(arena *exprarena.Arena, e exprarena.Handle, aliases map[string]exprarena.Handle) exprarena.Handle {
	rewritten := e
	for name, alias := range aliases {
		if _, referenced := Roots(arena, rewritten)[name]; !referenced {
			continue
		}
		rewritten = substituteColumn(arena, rewritten, name, alias)
	}
	return rewritten
}

// substituteColumn returns a handle for e with every Column named name
// replaced by a clone of replacement.
func substituteColumn(arena *exprarena.Arena, e exprarena.Handle, name string, replacement exprarena.Handle) exprarena.Handle {
	expr := arena.Get(e)
	if col, ok := expr.(exprarena.Column); ok {
		if col.Name == name {
			return arena.Clone(replacement)
		}
		return e
	}
	children := expr.Children()
	if len(children) == 0 {
		return e
	}
	newChildren := make([]exprarena.Handle, len(children))
	changed := false
	for i, c := range children {
		nc := substituteColumn(arena, c, name, replacement)
		newChildren[i] = nc
		if nc != c {
			changed = true
		}
	}
	if !changed {
		return e
	}
	return arena.Add(expr.WithChildren(newChildren))
}
