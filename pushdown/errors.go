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

import goerrors "gopkg.in/src-d/go-errors.v1"

// Error kinds of the optimizer. Unsupported predicate shapes are never
// represented here: per spec.md §7 they are demoted to local application
// instead of erroring. Of these kinds, only ErrForeignTranslation is
// created by code in this package; no rule returns the other four.
var (
	// ErrSchemaMismatch describes a predicate that references a column not
	// present in the expected schema after a rewrite. The rules in this
	// package do not return it: ruleRename and the scan rules localize such
	// a predicate instead.
	ErrSchemaMismatch = goerrors.NewKind("predicate %s references column %q not present in schema after rewrite")

	// ErrMissingArenaSlot describes an arena slot that the traversal expected
	// to be populated and found empty. The arenas panic on such a slot
	// rather than returning this error.
	ErrMissingArenaSlot = goerrors.NewKind("arena slot %d was not populated where the traversal expected a node")

	// ErrJoinPushdown describes a join pushdown condition that cannot be
	// resolved. ruleJoin does not return it: a predicate it cannot push to
	// either side is applied above the join.
	ErrJoinPushdown = goerrors.NewKind("join pushdown: %s")

	// ErrRenamePushdown describes a rename pushdown failure. ruleRename does
	// not return it: a predicate it cannot restate is applied above the
	// rename.
	ErrRenamePushdown = goerrors.NewKind("rename pushdown: %s")

	// ErrForeignTranslation marks a PythonScan predicate shape the foreign
	// engine's string syntax can't express. rulePythonScan treats this as
	// the unsupported-shape case from spec.md §7: it applies the
	// untranslated predicate in a Selection above the scan rather than
	// propagating the error.
	ErrForeignTranslation = goerrors.NewKind("predicate translation to foreign engine failed: %s")
)
