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
	"fmt"

	"github.com/google/uuid"

	"github.com/arrowplan/dfplan/dfschema"
	"github.com/arrowplan/dfplan/exprarena"
)

// Kind tags the variant a Node holds. The full list matches spec.md §3.
type Kind int

const (
	KindSelection Kind = iota
	KindScan
	KindDataFrameScan
	KindAnonymousScan
	KindProjection
	KindLocalProjection
	KindHStack
	KindExtContext
	KindMapFunction
	KindJoin
	KindAggregate
	KindDistinct
	KindSort
	KindSlice
	KindCache
	KindUnion
	KindFileSink
	KindCloudSink
	KindPythonScan
)

func (k Kind) String() string {
	names := [...]string{
		"Selection", "Scan", "DataFrameScan", "AnonymousScan", "Projection",
		"LocalProjection", "HStack", "ExtContext", "MapFunction", "Join",
		"Aggregate", "Distinct", "Sort", "Slice", "Cache", "Union",
		"FileSink", "CloudSink", "PythonScan",
	}
	if int(k) < 0 || int(k) >= len(names) {
		return "Unknown"
	}
	return names[k]
}

// Node is a tagged-variant plan node, resolved through the arena. Inputs and
// Exprs let the traversal driver recurse and rewrite generically without a
// type switch for every rule that doesn't need kind-specific behavior (e.g.
// FileSink's pure pass-through).
type Node interface {
	Kind() Kind
	Inputs() []Handle
	Exprs() []exprarena.Handle
	// WithExprsAndInputs returns a copy of this node with its expression
	// and input handles replaced, in the order Exprs()/Inputs() reported
	// them.
	WithExprsAndInputs(exprs []exprarena.Handle, inputs []Handle) Node
	// Schema reports this node's output schema. Implementations may assume
	// their inputs' schemas are already resolvable.
	Schema(arena *Arena, exprArena *exprarena.Arena) (*dfschema.Schema, error)
	String() string
}

// ScanFormat distinguishes scan sub-tags that differ in predicate-pushdown
// capability (spec.md §4.4: CSV cannot filter rows itself, others can).
type ScanFormat int

const (
	ScanParquet ScanFormat = iota
	ScanCSV
	ScanIPC
	ScanOtherFormat
)

func (f ScanFormat) String() string {
	switch f {
	case ScanParquet:
		return "parquet"
	case ScanCSV:
		return "csv"
	case ScanIPC:
		return "ipc"
	default:
		return "other"
	}
}

// ScanSource identifies the physical thing a Scan reads from. ID
// disambiguates two scans of different files that happen to share a schema
// shape, without relying on path string comparisons (which break across
// symlinks/aliases).
type ScanSource struct {
	ID   uuid.UUID
	Path string
}

// Scan is a leaf reading rows from an external source in a known format.
// Predicate is exprarena.NilHandle when no predicate has been pushed onto
// the scan yet.
type Scan struct {
	Format       ScanFormat
	Source       ScanSource
	OutputSchema *dfschema.Schema
	Predicate    exprarena.Handle
	Projected    []string // nil means all columns
}

func NewScan(format ScanFormat, source ScanSource, schema *dfschema.Schema) *Scan {
	return &Scan{Format: format, Source: source, OutputSchema: schema, Predicate: exprarena.NilHandle}
}

func (*Scan) Kind() Kind                 { return KindScan }
func (*Scan) Inputs() []Handle           { return nil }
func (s *Scan) Exprs() []exprarena.Handle {
	if !s.Predicate.Valid() {
		return nil
	}
	return []exprarena.Handle{s.Predicate}
}
func (s *Scan) WithExprsAndInputs(exprs []exprarena.Handle, _ []Handle) Node {
	cp := *s
	if len(exprs) > 0 {
		cp.Predicate = exprs[0]
	} else {
		cp.Predicate = exprarena.NilHandle
	}
	return &cp
}
func (s *Scan) Schema(*Arena, *exprarena.Arena) (*dfschema.Schema, error) {
	if s.Projected == nil {
		return s.OutputSchema, nil
	}
	return s.OutputSchema.Project(s.Projected), nil
}
func (s *Scan) String() string {
	return fmt.Sprintf("Scan[%s](%s)", s.Format, s.Source.Path)
}

// DataFrameScan reads from an in-memory dataframe already held by the
// caller. Unlike Scan, it always accepts a predicate -- there is no format
// that can't filter an in-memory frame.
type DataFrameScan struct {
	FrameName    string
	OutputSchema *dfschema.Schema
	Predicate    exprarena.Handle
}

func NewDataFrameScan(name string, schema *dfschema.Schema) *DataFrameScan {
	return &DataFrameScan{FrameName: name, OutputSchema: schema, Predicate: exprarena.NilHandle}
}

func (*DataFrameScan) Kind() Kind       { return KindDataFrameScan }
func (*DataFrameScan) Inputs() []Handle { return nil }
func (d *DataFrameScan) Exprs() []exprarena.Handle {
	if !d.Predicate.Valid() {
		return nil
	}
	return []exprarena.Handle{d.Predicate}
}
func (d *DataFrameScan) WithExprsAndInputs(exprs []exprarena.Handle, _ []Handle) Node {
	cp := *d
	if len(exprs) > 0 {
		cp.Predicate = exprs[0]
	} else {
		cp.Predicate = exprarena.NilHandle
	}
	return &cp
}
func (d *DataFrameScan) Schema(*Arena, *exprarena.Arena) (*dfschema.Schema, error) {
	return d.OutputSchema, nil
}
func (d *DataFrameScan) String() string { return fmt.Sprintf("DataFrameScan[%s]", d.FrameName) }

// AnonymousScanFunc is the caller-supplied behavior behind an AnonymousScan,
// e.g. a user-registered table function. AllowsPredicatePushdown mirrors
// memory.FilteredTable vs. memory.Table in the teacher codebase: some
// sources can absorb a filter, some can't.
type AnonymousScanFunc interface {
	Name() string
	AllowsPredicatePushdown() bool
}

type AnonymousScan struct {
	Func         AnonymousScanFunc
	OutputSchema *dfschema.Schema
	Predicate    exprarena.Handle
}

func NewAnonymousScan(fn AnonymousScanFunc, schema *dfschema.Schema) *AnonymousScan {
	return &AnonymousScan{Func: fn, OutputSchema: schema, Predicate: exprarena.NilHandle}
}

func (*AnonymousScan) Kind() Kind       { return KindAnonymousScan }
func (*AnonymousScan) Inputs() []Handle { return nil }
func (a *AnonymousScan) Exprs() []exprarena.Handle {
	if !a.Predicate.Valid() {
		return nil
	}
	return []exprarena.Handle{a.Predicate}
}
func (a *AnonymousScan) WithExprsAndInputs(exprs []exprarena.Handle, _ []Handle) Node {
	cp := *a
	if len(exprs) > 0 {
		cp.Predicate = exprs[0]
	} else {
		cp.Predicate = exprarena.NilHandle
	}
	return &cp
}
func (a *AnonymousScan) Schema(*Arena, *exprarena.Arena) (*dfschema.Schema, error) {
	return a.OutputSchema, nil
}
func (a *AnonymousScan) String() string { return fmt.Sprintf("AnonymousScan[%s]", a.Func.Name()) }

// Selection applies Predicate to rows coming out of Input.
type Selection struct {
	Input     Handle
	Predicate exprarena.Handle
}

func NewSelection(input Handle, predicate exprarena.Handle) *Selection {
	return &Selection{Input: input, Predicate: predicate}
}

func (*Selection) Kind() Kind                  { return KindSelection }
func (s *Selection) Inputs() []Handle          { return []Handle{s.Input} }
func (s *Selection) Exprs() []exprarena.Handle { return []exprarena.Handle{s.Predicate} }
func (s *Selection) WithExprsAndInputs(exprs []exprarena.Handle, inputs []Handle) Node {
	return &Selection{Input: inputs[0], Predicate: exprs[0]}
}
func (s *Selection) Schema(arena *Arena, exprArena *exprarena.Arena) (*dfschema.Schema, error) {
	return arena.Get(s.Input).Schema(arena, exprArena)
}
func (s *Selection) String() string { return fmt.Sprintf("Selection(input=%d)", s.Input) }

// projectionLike is shared by Projection/LocalProjection/HStack/ExtContext,
// which all carry an input, a list of output expressions, and (for
// ExtContext) extra input contexts, but differ in schema derivation and in
// whether the optimizer is allowed to rewrite through them.
type projectionLike struct {
	Input   Handle
	Outputs []exprarena.Handle
	// Aliases maps an output column name to the expression handle that
	// defines it, when that output is a renaming/computed alias rather
	// than a bare passthrough column. Used by rule_projection.go to
	// rewrite predicates that reference a projection-created alias back
	// to the input's columns.
	Aliases map[string]exprarena.Handle
}

// Projection replaces the input's columns with Outputs entirely.
type Projection struct{ projectionLike }

func NewProjection(input Handle, outputs []exprarena.Handle, aliases map[string]exprarena.Handle) *Projection {
	return &Projection{projectionLike{Input: input, Outputs: outputs, Aliases: aliases}}
}

func (*Projection) Kind() Kind                  { return KindProjection }
func (p *Projection) Inputs() []Handle          { return []Handle{p.Input} }
func (p *Projection) Exprs() []exprarena.Handle { return p.Outputs }
func (p *Projection) WithExprsAndInputs(exprs []exprarena.Handle, inputs []Handle) Node {
	return &Projection{projectionLike{Input: inputs[0], Outputs: exprs, Aliases: p.Aliases}}
}
func (p *Projection) Schema(arena *Arena, exprArena *exprarena.Arena) (*dfschema.Schema, error) {
	return projectionSchema(p.Outputs, exprArena)
}
func (p *Projection) String() string { return fmt.Sprintf("Projection(input=%d)", p.Input) }

// LocalProjection is like Projection. The pushdown optimizer treats it
// exactly as a Projection and does not drop any of its Outputs.
type LocalProjection struct{ projectionLike }

func NewLocalProjection(input Handle, outputs []exprarena.Handle, aliases map[string]exprarena.Handle) *LocalProjection {
	return &LocalProjection{projectionLike{Input: input, Outputs: outputs, Aliases: aliases}}
}

func (*LocalProjection) Kind() Kind                  { return KindLocalProjection }
func (p *LocalProjection) Inputs() []Handle          { return []Handle{p.Input} }
func (p *LocalProjection) Exprs() []exprarena.Handle { return p.Outputs }
func (p *LocalProjection) WithExprsAndInputs(exprs []exprarena.Handle, inputs []Handle) Node {
	return &LocalProjection{projectionLike{Input: inputs[0], Outputs: exprs, Aliases: p.Aliases}}
}
func (p *LocalProjection) Schema(arena *Arena, exprArena *exprarena.Arena) (*dfschema.Schema, error) {
	return projectionSchema(p.Outputs, exprArena)
}
func (p *LocalProjection) String() string { return fmt.Sprintf("LocalProjection(input=%d)", p.Input) }

// HStack appends Outputs as new columns alongside the input's existing
// columns (a "horizontal stack"), rather than replacing them.
type HStack struct{ projectionLike }

func NewHStack(input Handle, outputs []exprarena.Handle, aliases map[string]exprarena.Handle) *HStack {
	return &HStack{projectionLike{Input: input, Outputs: outputs, Aliases: aliases}}
}

func (*HStack) Kind() Kind                  { return KindHStack }
func (h *HStack) Inputs() []Handle          { return []Handle{h.Input} }
func (h *HStack) Exprs() []exprarena.Handle { return h.Outputs }
func (h *HStack) WithExprsAndInputs(exprs []exprarena.Handle, inputs []Handle) Node {
	return &HStack{projectionLike{Input: inputs[0], Outputs: exprs, Aliases: h.Aliases}}
}
func (h *HStack) Schema(arena *Arena, exprArena *exprarena.Arena) (*dfschema.Schema, error) {
	inputSchema, err := arena.Get(h.Input).Schema(arena, exprArena)
	if err != nil {
		return nil, err
	}
	added, err := projectionSchema(h.Outputs, exprArena)
	if err != nil {
		return nil, err
	}
	fields := append(append([]string{}, inputSchema.Names()...), added.Names()...)
	return dfschema.New(append(inputSchema.Arrow().Fields(), added.Arrow().Fields()...)...).Project(fields), nil
}
func (h *HStack) String() string { return fmt.Sprintf("HStack(input=%d)", h.Input) }

// ExtContext is a multi-input projection: Outputs may reference columns from
// Input or from any of Extra.
type ExtContext struct {
	projectionLike
	Extra []Handle
}

func NewExtContext(input Handle, extra []Handle, outputs []exprarena.Handle, aliases map[string]exprarena.Handle) *ExtContext {
	return &ExtContext{projectionLike{Input: input, Outputs: outputs, Aliases: aliases}, extra}
}

func (*ExtContext) Kind() Kind         { return KindExtContext }
func (e *ExtContext) Inputs() []Handle { return append([]Handle{e.Input}, e.Extra...) }
func (e *ExtContext) Exprs() []exprarena.Handle { return e.Outputs }
func (e *ExtContext) WithExprsAndInputs(exprs []exprarena.Handle, inputs []Handle) Node {
	return &ExtContext{projectionLike{Input: inputs[0], Outputs: exprs, Aliases: e.Aliases}, inputs[1:]}
}
func (e *ExtContext) Schema(arena *Arena, exprArena *exprarena.Arena) (*dfschema.Schema, error) {
	return projectionSchema(e.Outputs, exprArena)
}
func (e *ExtContext) String() string { return fmt.Sprintf("ExtContext(input=%d)", e.Input) }

func projectionSchema(outputs []exprarena.Handle, exprArena *exprarena.Arena) (*dfschema.Schema, error) {
	// Output-schema typing is owned by the expression language in a real
	// implementation (spec.md §1: "Out of scope... Schema derivation
	// utilities"); here we only need enough of a Schema to drive pushdown
	// decisions: the schema lists, as untyped placeholder fields, the
	// column names the output expressions reference (their roots, in first-
	// seen order), not the output aliases.
	names := make([]string, 0, len(outputs))
	seen := map[string]bool{}
	for _, h := range outputs {
		for name := range exprRoots(exprArena, h) {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return placeholderSchema(names), nil
}

// MapFunc is the behavior behind a MapFunction node: Rename, Explode, Melt,
// or any other row-preserving transform.
type MapFunc interface {
	mapFuncMarker()
	String() string
}

type Rename struct {
	// Mapping is existing-name -> new-name.
	Mapping map[string]string
}

func (Rename) mapFuncMarker() {}
func (r Rename) String() string { return fmt.Sprintf("rename(%v)", r.Mapping) }

type Explode struct {
	Columns []string
}

func (Explode) mapFuncMarker() {}
func (e Explode) String() string { return fmt.Sprintf("explode(%v)", e.Columns) }

type Melt struct {
	VariableName string
	ValueName    string
	ValueVars    []string
}

func (Melt) mapFuncMarker() {}
func (m Melt) String() string { return fmt.Sprintf("melt(%s,%s)", m.VariableName, m.ValueName) }

type OtherMap struct {
	Name            string
	AllowPredicatePD bool
}

func (OtherMap) mapFuncMarker() {}
func (o OtherMap) String() string { return fmt.Sprintf("map(%s)", o.Name) }

// MapFunction covers Rename, Explode, Melt, and other row-preserving
// transforms that aren't expressed as a Projection.
type MapFunction struct {
	Input Handle
	Func  MapFunc
}

func NewMapFunction(input Handle, fn MapFunc) *MapFunction {
	return &MapFunction{Input: input, Func: fn}
}

func (*MapFunction) Kind() Kind                  { return KindMapFunction }
func (m *MapFunction) Inputs() []Handle          { return []Handle{m.Input} }
func (m *MapFunction) Exprs() []exprarena.Handle { return nil }
func (m *MapFunction) WithExprsAndInputs(_ []exprarena.Handle, inputs []Handle) Node {
	return &MapFunction{Input: inputs[0], Func: m.Func}
}
func (m *MapFunction) Schema(arena *Arena, exprArena *exprarena.Arena) (*dfschema.Schema, error) {
	inputSchema, err := arena.Get(m.Input).Schema(arena, exprArena)
	if err != nil {
		return nil, err
	}
	switch fn := m.Func.(type) {
	case Rename:
		names := inputSchema.Names()
		for i, n := range names {
			if nn, ok := fn.Mapping[n]; ok {
				names[i] = nn
			}
		}
		return placeholderSchema(names), nil
	default:
		return inputSchema, nil
	}
}
func (m *MapFunction) String() string { return fmt.Sprintf("MapFunction[%s](input=%d)", m.Func, m.Input) }

// JoinKind enumerates the join semantics the join handler distinguishes.
type JoinKind int

const (
	JoinInner JoinKind = iota
	JoinLeft
	JoinOuter
	JoinAntiSemi
	JoinCross
	JoinAsOf
)

func (k JoinKind) String() string {
	switch k {
	case JoinInner:
		return "Inner"
	case JoinLeft:
		return "Left"
	case JoinOuter:
		return "Outer"
	case JoinAntiSemi:
		return "AntiSemi"
	case JoinCross:
		return "Cross"
	case JoinAsOf:
		return "AsOf"
	default:
		return "Unknown"
	}
}

// Join combines Left and Right on the paired LeftOn/RightOn key columns.
// AsOfKey, when non-empty, names the as-of ordering key for JoinAsOf.
type Join struct {
	Left, Right      Handle
	LeftOn, RightOn  []string
	How              JoinKind
	AsOfKey          string
}

func NewJoin(left, right Handle, leftOn, rightOn []string, how JoinKind) *Join {
	return &Join{Left: left, Right: right, LeftOn: leftOn, RightOn: rightOn, How: how}
}

func (*Join) Kind() Kind                  { return KindJoin }
func (j *Join) Inputs() []Handle          { return []Handle{j.Left, j.Right} }
func (j *Join) Exprs() []exprarena.Handle { return nil }
func (j *Join) WithExprsAndInputs(_ []exprarena.Handle, inputs []Handle) Node {
	cp := *j
	cp.Left, cp.Right = inputs[0], inputs[1]
	return &cp
}
func (j *Join) Schema(arena *Arena, exprArena *exprarena.Arena) (*dfschema.Schema, error) {
	left, err := arena.Get(j.Left).Schema(arena, exprArena)
	if err != nil {
		return nil, err
	}
	right, err := arena.Get(j.Right).Schema(arena, exprArena)
	if err != nil {
		return nil, err
	}
	onRight := map[string]bool{}
	for _, c := range j.RightOn {
		onRight[c] = true
	}
	names := append([]string{}, left.Names()...)
	for _, n := range right.Names() {
		if !onRight[n] {
			names = append(names, n)
		}
	}
	return placeholderSchema(names), nil
}
func (j *Join) String() string {
	return fmt.Sprintf("Join[%s](left=%d, right=%d)", j.How, j.Left, j.Right)
}

// Aggregate groups Input by GroupBy and computes Aggs. Always a pushdown
// boundary for its input: an aggregation needs the unfiltered group.
type Aggregate struct {
	Input   Handle
	GroupBy []exprarena.Handle
	Aggs    []exprarena.Handle
}

func NewAggregate(input Handle, groupBy, aggs []exprarena.Handle) *Aggregate {
	return &Aggregate{Input: input, GroupBy: groupBy, Aggs: aggs}
}

func (*Aggregate) Kind() Kind         { return KindAggregate }
func (a *Aggregate) Inputs() []Handle { return []Handle{a.Input} }
func (a *Aggregate) Exprs() []exprarena.Handle {
	return append(append([]exprarena.Handle{}, a.GroupBy...), a.Aggs...)
}
func (a *Aggregate) WithExprsAndInputs(exprs []exprarena.Handle, inputs []Handle) Node {
	groupBy := append([]exprarena.Handle{}, exprs[:len(a.GroupBy)]...)
	aggs := append([]exprarena.Handle{}, exprs[len(a.GroupBy):]...)
	return &Aggregate{Input: inputs[0], GroupBy: groupBy, Aggs: aggs}
}
func (a *Aggregate) Schema(arena *Arena, exprArena *exprarena.Arena) (*dfschema.Schema, error) {
	return projectionSchema(append(append([]exprarena.Handle{}, a.GroupBy...), a.Aggs...), exprArena)
}
func (a *Aggregate) String() string { return fmt.Sprintf("Aggregate(input=%d)", a.Input) }

// DistinctKeep controls which duplicate row (if any) a Distinct keeps.
// Only Any and None are eligible for pushdown (spec.md §4.4).
type DistinctKeep int

const (
	DistinctAny DistinctKeep = iota
	DistinctNone
	DistinctFirst
	DistinctLast
)

type Distinct struct {
	Input  Handle
	Keep   DistinctKeep
	Subset []string
}

func NewDistinct(input Handle, keep DistinctKeep, subset []string) *Distinct {
	return &Distinct{Input: input, Keep: keep, Subset: subset}
}

func (*Distinct) Kind() Kind                  { return KindDistinct }
func (d *Distinct) Inputs() []Handle          { return []Handle{d.Input} }
func (d *Distinct) Exprs() []exprarena.Handle { return nil }
func (d *Distinct) WithExprsAndInputs(_ []exprarena.Handle, inputs []Handle) Node {
	cp := *d
	cp.Input = inputs[0]
	return &cp
}
func (d *Distinct) Schema(arena *Arena, exprArena *exprarena.Arena) (*dfschema.Schema, error) {
	return arena.Get(d.Input).Schema(arena, exprArena)
}
func (d *Distinct) String() string { return fmt.Sprintf("Distinct(input=%d)", d.Input) }

// Sort orders Input's rows by By.
type Sort struct {
	Input Handle
	By    []exprarena.Handle
}

func NewSort(input Handle, by []exprarena.Handle) *Sort {
	return &Sort{Input: input, By: by}
}

func (*Sort) Kind() Kind                  { return KindSort }
func (s *Sort) Inputs() []Handle          { return []Handle{s.Input} }
func (s *Sort) Exprs() []exprarena.Handle { return s.By }
func (s *Sort) WithExprsAndInputs(exprs []exprarena.Handle, inputs []Handle) Node {
	return &Sort{Input: inputs[0], By: exprs}
}
func (s *Sort) Schema(arena *Arena, exprArena *exprarena.Arena) (*dfschema.Schema, error) {
	return arena.Get(s.Input).Schema(arena, exprArena)
}
func (s *Sort) String() string { return fmt.Sprintf("Sort(input=%d)", s.Input) }

// Slice takes Len rows starting at Offset. Always a pushdown boundary: it
// changes the row count any predicate below it would see.
type Slice struct {
	Input        Handle
	Offset, Len  int64
}

func NewSlice(input Handle, offset, length int64) *Slice {
	return &Slice{Input: input, Offset: offset, Len: length}
}

func (*Slice) Kind() Kind                  { return KindSlice }
func (s *Slice) Inputs() []Handle          { return []Handle{s.Input} }
func (s *Slice) Exprs() []exprarena.Handle { return nil }
func (s *Slice) WithExprsAndInputs(_ []exprarena.Handle, inputs []Handle) Node {
	cp := *s
	cp.Input = inputs[0]
	return &cp
}
func (s *Slice) Schema(arena *Arena, exprArena *exprarena.Arena) (*dfschema.Schema, error) {
	return arena.Get(s.Input).Schema(arena, exprArena)
}
func (s *Slice) String() string { return fmt.Sprintf("Slice(input=%d, offset=%d, len=%d)", s.Input, s.Offset, s.Len) }

// Cache marks Input's result for reuse by potentially multiple consumers.
// Always a pushdown boundary: a predicate specific to one consumer must not
// leak into the cached, shared result.
type Cache struct {
	Input Handle
	ID    int
}

func NewCache(input Handle, id int) *Cache {
	return &Cache{Input: input, ID: id}
}

func (*Cache) Kind() Kind                  { return KindCache }
func (c *Cache) Inputs() []Handle          { return []Handle{c.Input} }
func (c *Cache) Exprs() []exprarena.Handle { return nil }
func (c *Cache) WithExprsAndInputs(_ []exprarena.Handle, inputs []Handle) Node {
	cp := *c
	cp.Input = inputs[0]
	return &cp
}
func (c *Cache) Schema(arena *Arena, exprArena *exprarena.Arena) (*dfschema.Schema, error) {
	return arena.Get(c.Input).Schema(arena, exprArena)
}
func (c *Cache) String() string { return fmt.Sprintf("Cache(input=%d)", c.Input) }

// Union concatenates the rows of each input, which must share a schema.
type Union struct {
	InputNodes []Handle
}

func NewUnion(inputs []Handle) *Union {
	return &Union{InputNodes: inputs}
}

func (*Union) Kind() Kind                  { return KindUnion }
func (u *Union) Inputs() []Handle          { return u.InputNodes }
func (u *Union) Exprs() []exprarena.Handle { return nil }
func (u *Union) WithExprsAndInputs(_ []exprarena.Handle, inputs []Handle) Node {
	return &Union{InputNodes: inputs}
}
func (u *Union) Schema(arena *Arena, exprArena *exprarena.Arena) (*dfschema.Schema, error) {
	if len(u.InputNodes) == 0 {
		return dfschema.New(), nil
	}
	return arena.Get(u.InputNodes[0]).Schema(arena, exprArena)
}
func (u *Union) String() string { return fmt.Sprintf("Union(%d inputs)", len(u.InputNodes)) }

// FileSink writes Input's rows to Path. A pure pass-through for pushdown.
type FileSink struct {
	Input Handle
	Path  string
}

func NewFileSink(input Handle, path string) *FileSink { return &FileSink{Input: input, Path: path} }

func (*FileSink) Kind() Kind                  { return KindFileSink }
func (f *FileSink) Inputs() []Handle          { return []Handle{f.Input} }
func (f *FileSink) Exprs() []exprarena.Handle { return nil }
func (f *FileSink) WithExprsAndInputs(_ []exprarena.Handle, inputs []Handle) Node {
	cp := *f
	cp.Input = inputs[0]
	return &cp
}
func (f *FileSink) Schema(arena *Arena, exprArena *exprarena.Arena) (*dfschema.Schema, error) {
	return arena.Get(f.Input).Schema(arena, exprArena)
}
func (f *FileSink) String() string { return fmt.Sprintf("FileSink(input=%d, path=%s)", f.Input, f.Path) }

// CloudSink writes Input's rows to a cloud object-store URI. Like FileSink,
// a pure pass-through for pushdown.
type CloudSink struct {
	Input Handle
	URI   string
}

func NewCloudSink(input Handle, uri string) *CloudSink { return &CloudSink{Input: input, URI: uri} }

func (*CloudSink) Kind() Kind                  { return KindCloudSink }
func (c *CloudSink) Inputs() []Handle          { return []Handle{c.Input} }
func (c *CloudSink) Exprs() []exprarena.Handle { return nil }
func (c *CloudSink) WithExprsAndInputs(_ []exprarena.Handle, inputs []Handle) Node {
	cp := *c
	cp.Input = inputs[0]
	return &cp
}
func (c *CloudSink) Schema(arena *Arena, exprArena *exprarena.Arena) (*dfschema.Schema, error) {
	return arena.Get(c.Input).Schema(arena, exprArena)
}
func (c *CloudSink) String() string { return fmt.Sprintf("CloudSink(input=%d, uri=%s)", c.Input, c.URI) }

// PythonScanFunc is the behavior behind a PythonScan: a user-supplied
// foreign-engine scan function (e.g. backed by an external Arrow engine).
type PythonScanFunc interface {
	Name() string
	AllowsPredicatePushdown() bool
	// CanServeViaForeignEngine reports whether this scan could be executed
	// entirely by the foreign engine if a translated predicate string is
	// supplied.
	CanServeViaForeignEngine() bool
}

// PythonScan reads via Func, optionally with a translated predicate string
// already accepted by the foreign engine (PredicateStr) in place of an
// untranslated expression predicate.
type PythonScan struct {
	Func         PythonScanFunc
	OutputSchema *dfschema.Schema
	Predicate    exprarena.Handle
	PredicateStr string
}

func NewPythonScan(fn PythonScanFunc, schema *dfschema.Schema) *PythonScan {
	return &PythonScan{Func: fn, OutputSchema: schema, Predicate: exprarena.NilHandle}
}

func (*PythonScan) Kind() Kind       { return KindPythonScan }
func (*PythonScan) Inputs() []Handle { return nil }
func (p *PythonScan) Exprs() []exprarena.Handle {
	if !p.Predicate.Valid() {
		return nil
	}
	return []exprarena.Handle{p.Predicate}
}
func (p *PythonScan) WithExprsAndInputs(exprs []exprarena.Handle, _ []Handle) Node {
	cp := *p
	if len(exprs) > 0 {
		cp.Predicate = exprs[0]
	} else {
		cp.Predicate = exprarena.NilHandle
	}
	return &cp
}
func (p *PythonScan) Schema(*Arena, *exprarena.Arena) (*dfschema.Schema, error) {
	return p.OutputSchema, nil
}
func (p *PythonScan) String() string { return fmt.Sprintf("PythonScan[%s]", p.Func.Name()) }

// exprRoots collects the column names referenced by the expression rooted
// at h. Duplicated here (rather than imported from pushdown) because
// planarena must not depend on the optimizer package; pushdown's own Roots
// is the canonical, fuller implementation callers outside schema derivation
// should use.
func exprRoots(arena *exprarena.Arena, h exprarena.Handle) map[string]struct{} {
	roots := map[string]struct{}{}
	var walk func(exprarena.Handle)
	walk = func(h exprarena.Handle) {
		e := arena.Get(h)
		if col, ok := e.(exprarena.Column); ok {
			roots[col.Name] = struct{}{}
		}
		for _, c := range e.Children() {
			walk(c)
		}
	}
	walk(h)
	return roots
}

func placeholderSchema(names []string) *dfschema.Schema {
	fields := make([]stringField, len(names))
	for i, n := range names {
		fields[i] = stringField{n}
	}
	return dfschema.New(toArrowFields(fields)...)
}
