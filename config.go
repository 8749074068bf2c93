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

// Package dfplan wires the pushdown optimizer up into something a caller
// can actually configure and run against their own plan tree.
package dfplan

import "github.com/sirupsen/logrus"

// Config for a Planner.
type Config struct {
	// AllowCSVPredicatePushdown, when true, permits a CSV scan's row
	// filter to still be merged into the scan node rather than wrapped in
	// a Selection above it. Off by default: CSV readers in this module
	// can't evaluate a predicate themselves, so the rewritten node would
	// be lying about what it does unless the caller's scan executor knows
	// to honor it anyway.
	AllowCSVPredicatePushdown bool
	// Logger receives structured pushdown diagnostics. If nil, the
	// standard logrus logger is used.
	Logger *logrus.Logger
}
