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

// ruleFileSink and ruleCloudSink are pure pass-throughs: a sink doesn't
// change which rows flow through it, so every surviving predicate just
// keeps traveling down into Input unchanged.
func (p *pass) ruleFileSink(h planarena.Handle, n *planarena.FileSink, acc Accumulator) (planarena.Handle, error) {
	newInput, err := p.pushDown(n.Input, acc)
	if err != nil {
		return planarena.NilHandle, err
	}
	p.lpArena.Replace(h, n.WithExprsAndInputs(nil, []planarena.Handle{newInput}))
	return h, nil
}

func (p *pass) ruleCloudSink(h planarena.Handle, n *planarena.CloudSink, acc Accumulator) (planarena.Handle, error) {
	newInput, err := p.pushDown(n.Input, acc)
	if err != nil {
		return planarena.NilHandle, err
	}
	p.lpArena.Replace(h, n.WithExprsAndInputs(nil, []planarena.Handle{newInput}))
	return h, nil
}
