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

package exprarena

import "fmt"

// Arena is a contiguous, append-only backing store for Expr values,
// addressed by Handle. A slot can be vacated by Take and re-populated by
// Replace, but handles are never reused across an Arena's lifetime: Add
// always appends.
type Arena struct {
	slots []*Expr
}

// NewArena returns an empty expression arena.
func NewArena() *Arena {
	return &Arena{}
}

// Add inserts e and returns its new handle.
func (a *Arena) Add(e Expr) Handle {
	a.slots = append(a.slots, &e)
	return Handle(len(a.slots) - 1)
}

// Get returns the Expr at h without disturbing the slot. It panics on an
// out-of-range or vacated handle, the same "this should never happen, and
// if it does the traversal itself is buggy" contract the teacher's
// arena-adjacent code (e.g. sql.Schema index lookups) assumes of its
// callers.
func (a *Arena) Get(h Handle) Expr {
	e := a.at(h)
	if e == nil {
		panic(fmt.Sprintf("exprarena: get of vacated or invalid handle %d", h))
	}
	return *e
}

// Take removes the Expr at h, vacating the slot, and returns it. Callers
// must Replace or otherwise repopulate the slot before the arena is used
// again, per the recursion invariant in spec.md §3.
func (a *Arena) Take(h Handle) Expr {
	e := a.at(h)
	if e == nil {
		panic(fmt.Sprintf("exprarena: take of vacated or invalid handle %d", h))
	}
	v := *e
	a.slots[h] = nil
	return v
}

// Replace re-populates a (possibly vacated) slot with e.
func (a *Arena) Replace(h Handle, e Expr) {
	if int(h) < 0 || int(h) >= len(a.slots) {
		panic(fmt.Sprintf("exprarena: replace of out-of-range handle %d", h))
	}
	a.slots[h] = &e
}

func (a *Arena) at(h Handle) *Expr {
	if int(h) < 0 || int(h) >= len(a.slots) {
		return nil
	}
	return a.slots[h]
}

// Clone makes a deep-enough copy of the expression rooted at h, inserting
// fresh handles for every sub-expression, and returns the handle of the new
// root. The predicate accumulator never aliases handles across two
// different owners (e.g. an original Selection's predicate and the copy
// pushed into a scan's predicate slot): whichever one keeps living in the
// tree needs its own handles.
func (a *Arena) Clone(h Handle) Handle {
	e := a.Get(h)
	children := e.Children()
	newChildren := make([]Handle, len(children))
	for i, c := range children {
		newChildren[i] = a.Clone(c)
	}
	return a.Add(e.WithChildren(newChildren))
}

// HasAExpr reports whether the expression tree rooted at root contains any
// sub-expression (including root itself) for which pred returns true.
func (a *Arena) HasAExpr(root Handle, pred func(Expr) bool) bool {
	e := a.Get(root)
	if pred(e) {
		return true
	}
	for _, c := range e.Children() {
		if a.HasAExpr(c, pred) {
			return true
		}
	}
	return false
}
