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

package dfplan

import (
	"github.com/sirupsen/logrus"

	"github.com/arrowplan/dfplan/exprarena"
	"github.com/arrowplan/dfplan/planarena"
	"github.com/arrowplan/dfplan/pushdown"
)

// Planner runs registered optimization passes over a logical plan tree.
// Predicate pushdown is the only pass today; Planner exists as the seam a
// second pass (e.g. projection pushdown, per spec.md's Non-goals) would
// hang off without changing every caller's signature.
type Planner struct {
	cfg *Config
}

// New builds a Planner with cfg. A nil cfg is equivalent to &Config{}.
func New(cfg *Config) *Planner {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Planner{cfg: cfg}
}

// Optimize pushes row-filtering predicates in the tree rooted at root as
// close to their data sources as the pushdown rules allow, returning the
// (possibly different) handle of the rewritten root.
func (p *Planner) Optimize(root planarena.Handle, lpArena *planarena.Arena, exprArena *exprarena.Arena) (planarena.Handle, pushdown.Stats, error) {
	logger := p.cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return pushdown.OptimizeWithOptions(root, lpArena, exprArena, logger, pushdown.Options{
		AllowCSVPredicatePushdown: p.cfg.AllowCSVPredicatePushdown,
	})
}
