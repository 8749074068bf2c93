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

// Package dfschema derives and manipulates the column schema that flows
// through the plan tree. It wraps arrow.Schema rather than reinventing a
// column-list type, since the node arena this module backs is a dataframe
// engine in the Arrow/Polars lineage.
package dfschema

import (
	"github.com/apache/arrow-go/v18/arrow"
)

// Schema is the output shape of a plan node: an ordered set of named,
// typed columns. It is cheap to construct and is expected to be cached by
// callers the way sql.Node.Schema() is cached in the teacher codebase.
type Schema struct {
	arrow *arrow.Schema
}

// New builds a Schema from a list of fields, in order.
func New(fields ...arrow.Field) *Schema {
	return &Schema{arrow: arrow.NewSchema(fields, nil)}
}

// Wrap adapts an existing arrow.Schema.
func Wrap(s *arrow.Schema) *Schema {
	return &Schema{arrow: s}
}

// Arrow exposes the underlying arrow.Schema for collaborators that want it
// directly (e.g. a scan executor choosing a Parquet read projection).
func (s *Schema) Arrow() *arrow.Schema {
	if s == nil {
		return nil
	}
	return s.arrow
}

// HasColumn reports whether name exists in the schema.
func (s *Schema) HasColumn(name string) bool {
	if s == nil || s.arrow == nil {
		return false
	}
	return len(s.arrow.FieldIndices(name)) > 0
}

// Names returns the column names in schema order.
func (s *Schema) Names() []string {
	if s == nil || s.arrow == nil {
		return nil
	}
	fields := s.arrow.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// Field returns the field at position i.
func (s *Schema) Field(i int) arrow.Field {
	return s.arrow.Field(i)
}

// NumFields returns the number of columns.
func (s *Schema) NumFields() int {
	if s == nil || s.arrow == nil {
		return 0
	}
	return s.arrow.NumFields()
}

// Project returns a new Schema containing only the named columns, in the
// order requested. A name that does not exist in s is silently dropped,
// mirroring the teacher's WithProjections semantics on memory.Table, which
// likewise only narrows columns it actually has.
func (s *Schema) Project(names []string) *Schema {
	if s == nil || s.arrow == nil {
		return New()
	}
	fields := make([]arrow.Field, 0, len(names))
	for _, name := range names {
		idxs := s.arrow.FieldIndices(name)
		if len(idxs) == 0 {
			continue
		}
		fields = append(fields, s.arrow.Field(idxs[0]))
	}
	return New(fields...)
}

// Equal reports whether two schemas have the same column names and types
// in the same order. Used by pushdown tests to assert schema preservation
// (invariant 2 of the optimizer's testable properties).
func (s *Schema) Equal(o *Schema) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.arrow == nil || o.arrow == nil {
		return s.arrow == o.arrow
	}
	return s.arrow.Equal(o.arrow)
}
