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

import "github.com/arrowplan/dfplan/exprarena"

// renameColumns returns a handle for e with every Column reference rewritten
// according to mapping (old name -> new name). Used by ruleMapFunction to
// translate a predicate phrased in terms of a Rename's output columns back
// into the input's pre-rename names before the predicate is allowed to
// continue downward -- skipping this step is exactly the mistake spec.md §9
// warns about: a predicate left referencing a name that no longer exists
// below the rename.
func renameColumns(arena *exprarena.Arena, e exprarena.Handle, mapping map[string]string) exprarena.Handle {
	expr := arena.Get(e)
	if col, ok := expr.(exprarena.Column); ok {
		if newName, renamed := mapping[col.Name]; renamed {
			return arena.Add(exprarena.Column{Name: newName})
		}
		return e
	}
	children := expr.Children()
	if len(children) == 0 {
		return e
	}
	newChildren := make([]exprarena.Handle, len(children))
	changed := false
	for i, c := range children {
		nc := renameColumns(arena, c, mapping)
		newChildren[i] = nc
		if nc != c {
			changed = true
		}
	}
	if !changed {
		return e
	}
	return arena.Add(expr.WithChildren(newChildren))
}

// invertRenameMapping swaps a Rename's existing-name -> new-name mapping
// into new-name -> existing-name, the direction a predicate sitting above
// the rename needs in order to be restated in terms of the columns that
// exist below it.
func invertRenameMapping(mapping map[string]string) map[string]string {
	inverted := make(map[string]string, len(mapping))
	for from, to := range mapping {
		inverted[to] = from
	}
	return inverted
}
