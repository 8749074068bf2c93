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

// Stats summarizes one Optimize pass. It is not part of the rewritten tree;
// callers use it for observability (the cmd/dfplan-explain demo) and tests
// assert against it to check where predicates ended up.
type Stats struct {
	NodesVisited int
	// PredicatesPushedToScan counts scan nodes that were left holding a
	// predicate: one per scan, however many accumulated predicates were
	// combined into it, and including a predicate the scan already held
	// before the pass.
	PredicatesPushedToScan int
	// PredicatesApplierLocally counts the accumulator entries wrapped in a
	// Selection above a node instead of being pushed further.
	PredicatesApplierLocally int
}
