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

import "github.com/sirupsen/logrus"

// newEntry tags every log line emitted by a pass with "system": "pushdown",
// following the convention auth.NewAuditLog establishes in the teacher
// codebase (auth/audit.go: l.WithField("system", "audit")).
func newEntry(l *logrus.Logger) *logrus.Entry {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return l.WithField("system", "pushdown")
}

func (s *Stats) logSummary(entry *logrus.Entry) {
	entry.WithFields(logrus.Fields{
		"nodes_visited":        s.NodesVisited,
		"predicates_pushed":    s.PredicatesPushedToScan,
		"predicates_localized": s.PredicatesApplierLocally,
	}).Info("predicate pushdown complete")
}
