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

// ruleScan is the traversal's terminal case for a physical Scan: whatever
// survives in acc at this point either merges into the scan's own Predicate
// (when the format can evaluate a filter itself, e.g. Parquet/IPC row-group
// and predicate pushdown) or gets wrapped in a Selection sitting directly
// above the scan (e.g. CSV, which the teacher's memory.Table -- as opposed
// to memory.FilteredTable -- cannot filter on its own).
func (p *pass) ruleScan(h planarena.Handle, n *planarena.Scan, acc Accumulator) (planarena.Handle, error) {
	local := PartitionByFullContext(p.exprArena, acc)
	local = append(local, localizeUnresolvable(p.exprArena, acc, n.OutputSchema)...)

	if !scanFormatFilters(n.Format) && !p.opts.AllowCSVPredicatePushdown {
		local = append(local, Drain(acc)...)
		p.lpArena.Replace(h, n)
		return p.optionalApplyPredicate(h, local)
	}

	combined, ok := PredicateAtScan(p.exprArena, acc, n.Predicate)
	if ok {
		p.stats.PredicatesPushedToScan++
		cp := *n
		cp.Predicate = combined
		p.lpArena.Replace(h, &cp)
	} else {
		p.lpArena.Replace(h, n)
	}
	return p.optionalApplyPredicate(h, local)
}

// scanFormatFilters reports whether a scan of this format can absorb a
// predicate itself, the way a parquet reader applies row-group/page
// statistics or an in-process IPC reader can filter as it decodes. CSV has
// no such capability and must always have its filtering happen in a
// Selection layered immediately above the scan.
func scanFormatFilters(f planarena.ScanFormat) bool {
	switch f {
	case planarena.ScanCSV:
		return false
	default:
		return true
	}
}

// localizeUnresolvable moves every acc entry referencing a column absent
// from schema into the returned local list. Most rules above a scan pass
// predicates down without checking them against their input's schema
// (only the Rename rule does), so an entry like this can reach a leaf; the
// leaf is the last point the traversal can still recover by localizing
// rather than producing a tree with a dangling column reference.
func localizeUnresolvable(arena *exprarena.Arena, acc Accumulator, schema *dfschema.Schema) []exprarena.Handle {
	var local []exprarena.Handle
	for key, e := range acc {
		if CheckInputSchema(arena, e, schema) {
			continue
		}
		local = append(local, e)
		delete(acc, key)
	}
	return local
}

// ruleDataFrameScan: an in-memory frame can always be filtered in place, so
// every surviving predicate merges into Predicate.
func (p *pass) ruleDataFrameScan(h planarena.Handle, n *planarena.DataFrameScan, acc Accumulator) (planarena.Handle, error) {
	local := localizeUnresolvable(p.exprArena, acc, n.OutputSchema)
	combined, ok := PredicateAtScan(p.exprArena, acc, n.Predicate)
	if ok {
		p.stats.PredicatesPushedToScan++
		cp := *n
		cp.Predicate = combined
		p.lpArena.Replace(h, &cp)
	} else {
		p.lpArena.Replace(h, n)
	}
	return p.optionalApplyPredicate(h, local)
}

// ruleAnonymousScan defers to the caller-supplied AllowsPredicatePushdown,
// mirroring memory.FilteredTable vs. plain memory.Table in the teacher
// codebase: a source opts in to absorbing a filter, or it doesn't.
func (p *pass) ruleAnonymousScan(h planarena.Handle, n *planarena.AnonymousScan, acc Accumulator) (planarena.Handle, error) {
	local := PartitionByFullContext(p.exprArena, acc)
	local = append(local, localizeUnresolvable(p.exprArena, acc, n.OutputSchema)...)
	if !n.Func.AllowsPredicatePushdown() {
		local = append(local, Drain(acc)...)
		p.lpArena.Replace(h, n)
		return p.optionalApplyPredicate(h, local)
	}
	combined, ok := PredicateAtScan(p.exprArena, acc, n.Predicate)
	if ok {
		p.stats.PredicatesPushedToScan++
		cp := *n
		cp.Predicate = combined
		p.lpArena.Replace(h, &cp)
	} else {
		p.lpArena.Replace(h, n)
	}
	return p.optionalApplyPredicate(h, local)
}

// rulePythonScan mirrors ruleAnonymousScan for the foreign-engine case. When
// the foreign engine can serve the scan entirely (CanServeViaForeignEngine),
// this attempts to translate the combined predicate to a string the foreign
// engine accepts; an unsupported predicate shape demotes to local rather
// than failing the whole pass (spec.md §7).
func (p *pass) rulePythonScan(h planarena.Handle, n *planarena.PythonScan, acc Accumulator) (planarena.Handle, error) {
	local := localizeUnresolvable(p.exprArena, acc, n.OutputSchema)
	if !n.Func.AllowsPredicatePushdown() {
		local = append(local, Drain(acc)...)
		p.lpArena.Replace(h, n)
		return p.optionalApplyPredicate(h, local)
	}

	combined, ok := PredicateAtScan(p.exprArena, acc, n.Predicate)
	if !ok {
		p.lpArena.Replace(h, n)
		return p.optionalApplyPredicate(h, local)
	}

	cp := *n
	if n.Func.CanServeViaForeignEngine() {
		if asStr, translateErr := translateToForeignString(p.exprArena, combined); translateErr == nil {
			cp.PredicateStr = asStr
			cp.Predicate = exprarena.NilHandle
			p.stats.PredicatesPushedToScan++
			p.lpArena.Replace(h, &cp)
			return p.optionalApplyPredicate(h, local)
		}
		// Translation failed for this predicate shape: apply the
		// untranslated predicate in a Selection above the scan instead of
		// erroring the whole pass.
		cp.Predicate = exprarena.NilHandle
		p.lpArena.Replace(h, &cp)
		return p.optionalApplyPredicate(h, append(local, combined))
	}
	cp.Predicate = combined
	p.stats.PredicatesPushedToScan++
	p.lpArena.Replace(h, &cp)
	return p.optionalApplyPredicate(h, local)
}

// translateToForeignString renders a predicate as a string a foreign
// engine's own filter syntax would accept. Only the elementwise comparison
// shapes a foreign engine predicate language typically supports are
// translated; anything else returns ErrForeignTranslation so the caller can
// demote the predicate to a local Selection instead.
func translateToForeignString(arena *exprarena.Arena, h exprarena.Handle) (string, error) {
	e := arena.Get(h)
	switch v := e.(type) {
	case exprarena.BinaryOp:
		left, err := translateToForeignString(arena, v.Left)
		if err != nil {
			return "", err
		}
		right, err := translateToForeignString(arena, v.Right)
		if err != nil {
			return "", err
		}
		return left + " " + binOpSymbol(v.Op) + " " + right, nil
	case exprarena.Column:
		return v.Name, nil
	case exprarena.Literal:
		return v.String(), nil
	default:
		return "", ErrForeignTranslation.New(e.String())
	}
}

func binOpSymbol(op exprarena.BinOp) string {
	switch op {
	case exprarena.OpEq:
		return "=="
	case exprarena.OpNeq:
		return "!="
	case exprarena.OpLt:
		return "<"
	case exprarena.OpLte:
		return "<="
	case exprarena.OpGt:
		return ">"
	case exprarena.OpGte:
		return ">="
	case exprarena.OpAnd:
		return "and"
	case exprarena.OpOr:
		return "or"
	default:
		return "?"
	}
}
