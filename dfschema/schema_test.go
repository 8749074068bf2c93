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

package dfschema

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/require"
)

func fields(names ...string) []arrow.Field {
	out := make([]arrow.Field, len(names))
	for i, n := range names {
		out[i] = arrow.Field{Name: n, Type: arrow.BinaryTypes.String, Nullable: true}
	}
	return out
}

func TestHasColumn(t *testing.T) {
	s := New(fields("id", "amount")...)
	require.True(t, s.HasColumn("id"))
	require.False(t, s.HasColumn("missing"))
}

func TestProjectDropsUnknownNamesAndPreservesOrder(t *testing.T) {
	s := New(fields("id", "amount", "customer")...)
	projected := s.Project([]string{"customer", "id", "ghost"})
	require.Equal(t, []string{"customer", "id"}, projected.Names())
}

func TestEqualComparesNamesAndTypes(t *testing.T) {
	a := New(fields("id", "amount")...)
	b := New(fields("id", "amount")...)
	c := New(fields("id")...)
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}

func TestNilSchemaIsSafe(t *testing.T) {
	var s *Schema
	require.False(t, s.HasColumn("x"))
	require.Nil(t, s.Names())
	require.Equal(t, 0, s.NumFields())
}
