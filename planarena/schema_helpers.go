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

package planarena

import "github.com/apache/arrow-go/v18/arrow"

// stringField is an intermediate shape used only by placeholderSchema: node
// handlers in this package know column names but not always column types
// (type inference belongs to the expression language, out of scope per
// spec.md §1), so a derived schema carries arrow.BinaryTypes.String as a
// stand-in type for every column it cannot otherwise resolve.
type stringField struct {
	name string
}

func toArrowFields(fields []stringField) []arrow.Field {
	out := make([]arrow.Field, len(fields))
	for i, f := range fields {
		out[i] = arrow.Field{Name: f.name, Type: arrow.BinaryTypes.String, Nullable: true}
	}
	return out
}
