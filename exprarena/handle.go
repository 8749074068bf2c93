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

// Package exprarena is the expression-language collaborator the pushdown
// optimizer borrows mutably. It owns a contiguous arena of expression nodes
// addressed by stable integer handles, mirroring the arena-and-handle shape
// spec.md §9 calls out as preferred: cheap cloning, shared-subtree
// potential, no smart-pointer graph.
package exprarena

// Handle is a stable index into an Arena. NilHandle, Handle(-1), never
// refers to a populated slot and is used as the "no predicate" sentinel on
// nodes like Scan.
type Handle int

// NilHandle is the sentinel for "no expression here".
const NilHandle Handle = -1

// Valid reports whether h could reference a populated slot.
func (h Handle) Valid() bool {
	return h >= 0
}
