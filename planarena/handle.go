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

// Package planarena is the plan-tree collaborator the pushdown optimizer
// borrows mutably: a contiguous arena of logical plan nodes addressed by
// stable integer handles, the sibling of exprarena for the node side of the
// tree.
package planarena

// Handle is a stable index into an Arena.
type Handle int

// NilHandle is the sentinel for "no node here" (e.g. an un-joined side).
const NilHandle Handle = -1

func (h Handle) Valid() bool {
	return h >= 0
}
