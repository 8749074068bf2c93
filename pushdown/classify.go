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
)

// rootKey is the sentinel accumulator key for a predicate with no column
// roots. Any other predicate is keyed by its first root column name
// (spec.md §3, §9 -- a fingerprint, not a semantic identifier; don't
// re-key without re-auditing combine semantics).
const rootKey = "_"

// Roots returns the set of column names referenced anywhere within the
// expression rooted at h.
func Roots(arena *exprarena.Arena, h exprarena.Handle) map[string]struct{} {
	roots := map[string]struct{}{}
	collectRoots(arena, h, roots)
	return roots
}

func collectRoots(arena *exprarena.Arena, h exprarena.Handle, into map[string]struct{}) {
	e := arena.Get(h)
	if col, ok := e.(exprarena.Column); ok {
		into[col.Name] = struct{}{}
	}
	for _, c := range e.Children() {
		collectRoots(arena, c, into)
	}
}

// firstRootKey returns the accumulator key for a predicate: the name of its
// first root column in traversal order, or rootKey if it has none.
func firstRootKey(arena *exprarena.Arena, h exprarena.Handle) string {
	var found string
	var walk func(exprarena.Handle) bool
	walk = func(h exprarena.Handle) bool {
		e := arena.Get(h)
		if col, ok := e.(exprarena.Column); ok {
			found = col.Name
			return true
		}
		for _, c := range e.Children() {
			if walk(c) {
				return true
			}
		}
		return false
	}
	if walk(h) {
		return found
	}
	return rootKey
}

// CheckInputSchema reports whether every column h references exists in
// schema.
func CheckInputSchema(arena *exprarena.Arena, h exprarena.Handle, schema *dfschema.Schema) bool {
	for name := range Roots(arena, h) {
		if !schema.HasColumn(name) {
			return false
		}
	}
	return true
}

// firstMissingColumn returns the first column h references that isn't
// present in schema, if any.
func firstMissingColumn(arena *exprarena.Arena, h exprarena.Handle, schema *dfschema.Schema) (string, bool) {
	for name := range Roots(arena, h) {
		if !schema.HasColumn(name) {
			return name, true
		}
	}
	return "", false
}

// IsPushdownBoundary reports whether evaluating e depends on more than the
// current row's column values: any aggregate, window, sort, cumulative
// aggregate, or Count marker. Such a predicate must not cross a node whose
// output row set could differ from its input row set.
func IsPushdownBoundary(arena *exprarena.Arena, h exprarena.Handle) bool {
	return arena.HasAExpr(h, func(e exprarena.Expr) bool {
		switch v := e.(type) {
		case exprarena.Aggregate:
			return true
		case exprarena.Window:
			return true
		case exprarena.Sort:
			return true
		case exprarena.Count:
			return true
		case exprarena.Function:
			return !v.Elementwise
		default:
			return false
		}
	})
}

// IsDefiniteProjectionBoundary reports whether e, used as a projection
// expression, would change values such that a filter computed before it
// could no longer be recomputed purely from upstream columns -- e.g.
// aggregations, windows, or anything that collapses or reshapes rows.
func IsDefiniteProjectionBoundary(arena *exprarena.Arena, h exprarena.Handle) bool {
	return arena.HasAExpr(h, func(e exprarena.Expr) bool {
		switch e.(type) {
		case exprarena.Aggregate, exprarena.Window:
			return true
		default:
			return false
		}
	})
}

// IsSortBoundary reports whether e depends on row order: a window, a
// cumulative aggregate, or an explicit Sort marker.
func IsSortBoundary(arena *exprarena.Arena, h exprarena.Handle) bool {
	return arena.HasAExpr(h, func(e exprarena.Expr) bool {
		switch v := e.(type) {
		case exprarena.Window:
			return true
		case exprarena.Sort:
			return true
		case exprarena.Aggregate:
			return v.Func.IsCumulative()
		default:
			return false
		}
	})
}

// isFullContext reports whether e is a full-context expression: an
// aggregate or window whose value depends on more rows than the one it is
// nominally attached to. Full-context predicates can never be pushed into
// a scan.
func isFullContext(arena *exprarena.Arena, h exprarena.Handle) bool {
	e := arena.Get(h)
	switch e.(type) {
	case exprarena.Aggregate, exprarena.Window:
		return true
	default:
		return false
	}
}

// containsCount reports whether e transitively contains a Count marker.
func containsCount(arena *exprarena.Arena, h exprarena.Handle) bool {
	return arena.HasAExpr(h, func(e exprarena.Expr) bool {
		_, ok := e.(exprarena.Count)
		return ok
	})
}
