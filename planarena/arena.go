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

package planarena

import "fmt"

// Arena is a contiguous, append-only backing store for Node values,
// addressed by Handle, mirroring exprarena.Arena on the node side of the
// tree.
type Arena struct {
	slots []*Node
}

// NewArena returns an empty plan arena.
func NewArena() *Arena {
	return &Arena{}
}

// Add inserts n and returns its new handle.
func (a *Arena) Add(n Node) Handle {
	a.slots = append(a.slots, &n)
	return Handle(len(a.slots) - 1)
}

// Get returns the Node at h without disturbing the slot.
func (a *Arena) Get(h Handle) Node {
	n := a.at(h)
	if n == nil {
		panic(fmt.Sprintf("planarena: get of vacated or invalid handle %d", h))
	}
	return *n
}

// Take removes the Node at h, vacating the slot, and returns it. The caller
// now owns the node and must Replace the slot (with the same or a
// rewritten node) before any other code reads through h again -- this is
// the recursion invariant spec.md §3 describes: "on every return path the
// slot is re-populated."
func (a *Arena) Take(h Handle) Node {
	n := a.at(h)
	if n == nil {
		panic(fmt.Sprintf("planarena: take of vacated or invalid handle %d", h))
	}
	v := *n
	a.slots[h] = nil
	return v
}

// Replace re-populates a (possibly vacated) slot with n.
func (a *Arena) Replace(h Handle, n Node) {
	if int(h) < 0 || int(h) >= len(a.slots) {
		panic(fmt.Sprintf("planarena: replace of out-of-range handle %d", h))
	}
	a.slots[h] = &n
}

// Populated reports whether h currently refers to a live node, i.e. it has
// been Add-ed and not subsequently Take-n without a matching Replace.
func (a *Arena) Populated(h Handle) bool {
	return a.at(h) != nil
}

func (a *Arena) at(h Handle) *Node {
	if int(h) < 0 || int(h) >= len(a.slots) {
		return nil
	}
	return a.slots[h]
}
