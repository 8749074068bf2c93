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

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/arrowplan/dfplan/dfschema"
	"github.com/arrowplan/dfplan/exprarena"
)

func testSchema(names ...string) *dfschema.Schema {
	fields := make([]stringField, len(names))
	for i, n := range names {
		fields[i] = stringField{n}
	}
	return dfschema.New(toArrowFields(fields)...)
}

func TestArenaTakeReplace(t *testing.T) {
	a := NewArena()
	scan := NewScan(ScanParquet, ScanSource{ID: uuid.New(), Path: "t"}, testSchema("a"))
	h := a.Add(scan)

	require.True(t, a.Populated(h))
	taken := a.Take(h)
	require.Equal(t, scan, taken)
	require.False(t, a.Populated(h))
	require.Panics(t, func() { a.Get(h) })

	a.Replace(h, scan)
	require.True(t, a.Populated(h))
}

func TestHStackSchemaAppendsColumns(t *testing.T) {
	exprArena := exprarena.NewArena()
	lpArena := NewArena()

	scan := lpArena.Add(NewScan(ScanParquet, ScanSource{ID: uuid.New(), Path: "t"}, testSchema("a", "b")))
	newCol := exprArena.Add(exprarena.Column{Name: "c"})
	hstack := lpArena.Add(NewHStack(scan, []exprarena.Handle{newCol}, map[string]exprarena.Handle{"c": newCol}))

	schema, err := lpArena.Get(hstack).Schema(lpArena, exprArena)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, schema.Names())
}

func TestJoinSchemaExcludesRightJoinKeys(t *testing.T) {
	exprArena := exprarena.NewArena()
	lpArena := NewArena()

	left := lpArena.Add(NewScan(ScanParquet, ScanSource{ID: uuid.New(), Path: "l"}, testSchema("id", "amount")))
	right := lpArena.Add(NewScan(ScanParquet, ScanSource{ID: uuid.New(), Path: "r"}, testSchema("id", "name")))
	join := lpArena.Add(NewJoin(left, right, []string{"id"}, []string{"id"}, JoinInner))

	schema, err := lpArena.Get(join).Schema(lpArena, exprArena)
	require.NoError(t, err)
	require.Equal(t, []string{"id", "amount", "name"}, schema.Names())
}

func TestRenameSchemaAppliesMapping(t *testing.T) {
	exprArena := exprarena.NewArena()
	lpArena := NewArena()

	scan := lpArena.Add(NewScan(ScanParquet, ScanSource{ID: uuid.New(), Path: "t"}, testSchema("old_name", "amount")))
	mf := lpArena.Add(NewMapFunction(scan, Rename{Mapping: map[string]string{"old_name": "new_name"}}))

	schema, err := lpArena.Get(mf).Schema(lpArena, exprArena)
	require.NoError(t, err)
	require.Equal(t, []string{"new_name", "amount"}, schema.Names())
}

func TestScanFormatString(t *testing.T) {
	cases := []struct {
		format ScanFormat
		want   string
	}{
		{ScanParquet, "parquet"},
		{ScanCSV, "csv"},
		{ScanIPC, "ipc"},
		{ScanOtherFormat, "other"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, tc.format.String())
	}
}
