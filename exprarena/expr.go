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

package exprarena

import "fmt"

// Kind tags the variant an Expr holds, the way sql.Expression implementations
// in the teacher codebase are distinguished by Go type rather than an
// explicit tag; here we keep an explicit Kind too since the optimizer needs
// to dispatch on node-shape without importing every concrete type.
type Kind int

const (
	KindColumn Kind = iota
	KindLiteral
	KindBinaryOp
	KindUnaryOp
	KindAggregate
	KindWindow
	KindSort
	KindCount
	KindCast
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindColumn:
		return "Column"
	case KindLiteral:
		return "Literal"
	case KindBinaryOp:
		return "BinaryOp"
	case KindUnaryOp:
		return "UnaryOp"
	case KindAggregate:
		return "Aggregate"
	case KindWindow:
		return "Window"
	case KindSort:
		return "Sort"
	case KindCount:
		return "Count"
	case KindCast:
		return "Cast"
	case KindFunction:
		return "Function"
	default:
		return "Unknown"
	}
}

// BinOp enumerates the binary operators the classifier needs to recognize.
// Comparisons and boolean connectives are elementwise; the set is small
// because the optimizer only ever inspects operators, never evaluates them.
type BinOp int

const (
	OpEq BinOp = iota
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
	OpAnd
	OpOr
	OpAdd
	OpSub
	OpMul
	OpDiv
)

// AggFunc enumerates aggregate functions. CumSum and the like are order
// dependent and must be treated as pushdown/sort boundaries.
type AggFunc int

const (
	AggSum AggFunc = iota
	AggMin
	AggMax
	AggMean
	AggCount
	AggCumSum
	AggCumCount
	AggCumMin
	AggCumMax
)

func (f AggFunc) IsCumulative() bool {
	switch f {
	case AggCumSum, AggCumCount, AggCumMin, AggCumMax:
		return true
	default:
		return false
	}
}

// Expr is a tagged-variant expression node. Concrete types implement it;
// the arena stores the interface value directly (no separate vtable of
// handlers), following the "base interface with one handler per kind" shape
// spec.md §9 recommends for languages without native sum types -- here the
// interface itself plays the role of the sum type and pushdown/classify.go
// supplies the per-kind handlers via type switches.
type Expr interface {
	Kind() Kind
	// Children returns the handles of directly nested sub-expressions, in
	// evaluation order. Arena-wide traversals (HasAExpr, Roots) use this to
	// walk transitively without each concrete type reimplementing recursion.
	Children() []Handle
	// WithChildren returns a copy of this Expr with its children replaced,
	// in the same order Children() reported them.
	WithChildren(children []Handle) Expr
	String() string
}

// Column references an input column by name. A Column has no children.
type Column struct {
	Name string
}

func (Column) Kind() Kind                       { return KindColumn }
func (Column) Children() []Handle                { return nil }
func (c Column) WithChildren([]Handle) Expr       { return c }
func (c Column) String() string                   { return c.Name }

// Literal is a constant value. A Literal has no children.
type Literal struct {
	Value any
}

func (Literal) Kind() Kind                  { return KindLiteral }
func (Literal) Children() []Handle           { return nil }
func (l Literal) WithChildren([]Handle) Expr { return l }
func (l Literal) String() string             { return fmt.Sprintf("%v", l.Value) }

// BinaryOp applies Op to Left and Right.
type BinaryOp struct {
	Op          BinOp
	Left, Right Handle
}

func (BinaryOp) Kind() Kind { return KindBinaryOp }
func (b BinaryOp) Children() []Handle {
	return []Handle{b.Left, b.Right}
}
func (b BinaryOp) WithChildren(children []Handle) Expr {
	b.Left, b.Right = children[0], children[1]
	return b
}
func (b BinaryOp) String() string {
	return fmt.Sprintf("(%d %v %d)", b.Left, b.Op, b.Right)
}

// UnaryOp applies Op to Operand (e.g. NOT, IS NULL).
type UnOp int

const (
	OpNot UnOp = iota
	OpIsNull
	OpIsNotNull
)

type UnaryOp struct {
	Op      UnOp
	Operand Handle
}

func (UnaryOp) Kind() Kind            { return KindUnaryOp }
func (u UnaryOp) Children() []Handle  { return []Handle{u.Operand} }
func (u UnaryOp) WithChildren(children []Handle) Expr {
	u.Operand = children[0]
	return u
}
func (u UnaryOp) String() string { return fmt.Sprintf("unary(%d, %d)", u.Op, u.Operand) }

// Aggregate wraps Arg with an aggregate function. Full-context: its value
// depends on every row in the group, not just the current row.
type Aggregate struct {
	Func AggFunc
	Arg  Handle
}

func (Aggregate) Kind() Kind           { return KindAggregate }
func (a Aggregate) Children() []Handle { return []Handle{a.Arg} }
func (a Aggregate) WithChildren(children []Handle) Expr {
	a.Arg = children[0]
	return a
}
func (a Aggregate) String() string { return fmt.Sprintf("agg(%d)", a.Arg) }

// Window evaluates Func over a partition/order context. Order dependent.
type Window struct {
	Func        Handle
	PartitionBy []Handle
	OrderBy     []Handle
}

func (Window) Kind() Kind { return KindWindow }
func (w Window) Children() []Handle {
	out := append([]Handle{w.Func}, w.PartitionBy...)
	return append(out, w.OrderBy...)
}
func (w Window) WithChildren(children []Handle) Expr {
	w.Func = children[0]
	rest := children[1:]
	w.PartitionBy = append([]Handle{}, rest[:len(w.PartitionBy)]...)
	w.OrderBy = append([]Handle{}, rest[len(w.PartitionBy):]...)
	return w
}
func (w Window) String() string { return fmt.Sprintf("window(%d)", w.Func) }

// Sort marks Target for use as a sort key. Depends on row order, by
// definition.
type Sort struct {
	Target     Handle
	Descending bool
}

func (Sort) Kind() Kind           { return KindSort }
func (s Sort) Children() []Handle { return []Handle{s.Target} }
func (s Sort) WithChildren(children []Handle) Expr {
	s.Target = children[0]
	return s
}
func (s Sort) String() string { return fmt.Sprintf("sort(%d)", s.Target) }

// Count is the "number of input rows" marker, e.g. COUNT(*). It has no
// column roots and is meaningless once separated from the row set it was
// computed over (e.g. across a Union).
type Count struct{}

func (Count) Kind() Kind              { return KindCount }
func (Count) Children() []Handle      { return nil }
func (c Count) WithChildren([]Handle) Expr { return c }
func (Count) String() string          { return "count(*)" }

// Cast converts Target to a new type. Elementwise and not order dependent.
type Cast struct {
	Target Handle
	To     string
}

func (Cast) Kind() Kind           { return KindCast }
func (c Cast) Children() []Handle { return []Handle{c.Target} }
func (c Cast) WithChildren(children []Handle) Expr {
	c.Target = children[0]
	return c
}
func (c Cast) String() string { return fmt.Sprintf("cast(%d as %s)", c.Target, c.To) }

// Function is a named function call over Args. Elementwise is false for
// functions like RAND() or anything that isn't a pure function of its
// argument values row by row.
type Function struct {
	Name       string
	Args       []Handle
	Elementwise bool
}

func (Function) Kind() Kind { return KindFunction }
func (f Function) Children() []Handle {
	return append([]Handle{}, f.Args...)
}
func (f Function) WithChildren(children []Handle) Expr {
	f.Args = append([]Handle{}, children...)
	return f
}
func (f Function) String() string { return fmt.Sprintf("%s(...)", f.Name) }
