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

import "github.com/arrowplan/dfplan/exprarena"

// Accumulator is the set of in-flight predicates carried through the
// traversal, keyed by the short name fingerprint described in spec.md §3.
// Ordering of entries is never observable; nothing in this package ranges
// over an Accumulator expecting a stable order.
type Accumulator map[string]exprarena.Handle

// NewAccumulator returns an empty accumulator.
func NewAccumulator() Accumulator {
	return Accumulator{}
}

// Clone returns a shallow copy (handles are copied, not the expressions
// they reference) so a caller can hand two children independent
// accumulators that happen to start from the same predicates.
func (a Accumulator) Clone() Accumulator {
	out := make(Accumulator, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// InsertAndCombine inserts e into acc, keyed by its first root column name
// (or the "_" sentinel). If the key is already present, the existing and
// new expressions are combined with a logical AND; inserting the exact same
// handle twice is a no-op (spec.md §3: "no duplicates of the same
// expression handle").
func InsertAndCombine(arena *exprarena.Arena, acc Accumulator, e exprarena.Handle) {
	key := firstRootKey(arena, e)
	existing, ok := acc[key]
	if !ok {
		acc[key] = e
		return
	}
	if existing == e {
		return
	}
	acc[key] = arena.Add(exprarena.BinaryOp{Op: exprarena.OpAnd, Left: existing, Right: e})
}

// CombinePredicates left-folds AND over the handles in es, in the order
// given, and returns the resulting expression handle. Panics if es is
// empty; callers must check length first (mirrors the teacher's
// splitConjunction/combine idiom of never calling the fold on nothing).
func CombinePredicates(arena *exprarena.Arena, es []exprarena.Handle) exprarena.Handle {
	if len(es) == 0 {
		panic("pushdown: CombinePredicates called with no expressions")
	}
	combined := es[0]
	for _, e := range es[1:] {
		combined = arena.Add(exprarena.BinaryOp{Op: exprarena.OpAnd, Left: combined, Right: e})
	}
	return combined
}

// TransferToLocalByName moves every (key, e) out of acc for which keep
// returns true on the key, or on any root column name of e, and returns the
// moved expressions as a local list. The second check (re-testing keep
// against every root, not just the map key) matches spec.md §4.2's
// "also move entries whose expression's root set intersects a forbidden-
// names set."
func TransferToLocalByName(arena *exprarena.Arena, acc Accumulator, keep func(name string) bool) []exprarena.Handle {
	var local []exprarena.Handle
	for key, e := range acc {
		if keep(key) {
			local = append(local, e)
			delete(acc, key)
			continue
		}
		matched := false
		for name := range Roots(arena, e) {
			if keep(name) {
				matched = true
				break
			}
		}
		if matched {
			local = append(local, e)
			delete(acc, key)
		}
	}
	return local
}

// TransferToLocalByNode moves every entry out of acc whose expression
// satisfies pred, and returns the moved expressions as a local list.
func TransferToLocalByNode(arena *exprarena.Arena, acc Accumulator, pred func(arena *exprarena.Arena, e exprarena.Handle) bool) []exprarena.Handle {
	var local []exprarena.Handle
	for key, e := range acc {
		if pred(arena, e) {
			local = append(local, e)
			delete(acc, key)
		}
	}
	return local
}

// PartitionByFullContext destructively removes and returns every entry in
// acc whose expression is a full-context expression (aggregate/window):
// such predicates can never be pushed into a scan.
func PartitionByFullContext(arena *exprarena.Arena, acc Accumulator) []exprarena.Handle {
	return TransferToLocalByNode(arena, acc, func(arena *exprarena.Arena, e exprarena.Handle) bool {
		return isFullContext(arena, e)
	})
}

// PredicateAtScan drains every entry in acc, conjuncts them together with
// existing (the scan's already-stored predicate, exprarena.NilHandle if
// none), and returns the combined expression handle plus whether there was
// anything to combine at all.
func PredicateAtScan(arena *exprarena.Arena, acc Accumulator, existing exprarena.Handle) (exprarena.Handle, bool) {
	all := make([]exprarena.Handle, 0, len(acc)+1)
	if existing.Valid() {
		all = append(all, existing)
	}
	for key := range acc {
		all = append(all, acc[key])
		delete(acc, key)
	}
	if len(all) == 0 {
		return exprarena.NilHandle, false
	}
	return CombinePredicates(arena, all), true
}

// Drain empties acc and returns its contents as a slice, in no particular
// order. Used wherever a rule needs to apply everything remaining as a
// single local Selection (no_pushdown_restart_opt).
func Drain(acc Accumulator) []exprarena.Handle {
	out := make([]exprarena.Handle, 0, len(acc))
	for key, e := range acc {
		out = append(out, e)
		delete(acc, key)
	}
	return out
}
