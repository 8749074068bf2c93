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

import "github.com/arrowplan/dfplan/planarena"

// ruleDistinct: DistinctAny and DistinctNone only need *some* value-equal
// row (or none at all) to survive, so filtering before or after
// deduplication picks from the same equivalence classes and yields the same
// surviving rows -- the predicate can cross freely. DistinctFirst/Last
// depend on which row of a duplicate group arrives first, which a filter
// applied beneath the Distinct could change (by removing the row that would
// otherwise have been first); those keep forbidding pushdown entirely.
func (p *pass) ruleDistinct(h planarena.Handle, n *planarena.Distinct, acc Accumulator) (planarena.Handle, error) {
	if n.Keep != planarena.DistinctAny && n.Keep != planarena.DistinctNone {
		return p.noPushdownRestartOpt(h, n, acc)
	}
	newInput, err := p.pushDown(n.Input, acc)
	if err != nil {
		return planarena.NilHandle, err
	}
	p.lpArena.Replace(h, n.WithExprsAndInputs(nil, []planarena.Handle{newInput}))
	return h, nil
}
