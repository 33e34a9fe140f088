// Copyright 2021 Dolthub, Inc.
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

package ast

import (
	"fmt"
	"strings"
)

// Argument is the expression sum type: the terms that may appear inside atoms,
// constraints and functors.
type Argument interface {
	Node
	argument()
}

// Variable is a named logic variable, bound by position inside an atom or by
// an equality constraint.
type Variable struct {
	nodeLoc
	Name string
}

var _ Argument = (*Variable)(nil)

// NewVariable returns a variable with the given name.
func NewVariable(name string) *Variable {
	return &Variable{Name: name}
}

func (*Variable) argument() {}

func (v *Variable) String() string {
	return v.Name
}

// Children implements Node.
func (v *Variable) Children() []Node {
	return nil
}

// Equal implements Node.
func (v *Variable) Equal(other Node) bool {
	o, ok := other.(*Variable)
	return ok && v.Name == o.Name
}

// Clone implements Node.
func (v *Variable) Clone() Node {
	cp := &Variable{Name: v.Name}
	cp.loc = v.loc
	return cp
}

// Apply implements Node.
func (v *Variable) Apply(m Mapper) {}

// UnnamedVariable is the underscore: a fresh existential per occurrence. Two
// unnamed variables are never equal.
type UnnamedVariable struct {
	nodeLoc
}

var _ Argument = (*UnnamedVariable)(nil)

func (*UnnamedVariable) argument() {}

func (u *UnnamedVariable) String() string {
	return "_"
}

// Children implements Node.
func (u *UnnamedVariable) Children() []Node {
	return nil
}

// Equal implements Node. Unnamed variables are pairwise distinct.
func (u *UnnamedVariable) Equal(other Node) bool {
	return false
}

// Clone implements Node.
func (u *UnnamedVariable) Clone() Node {
	cp := &UnnamedVariable{}
	cp.loc = u.loc
	return cp
}

// Apply implements Node.
func (u *UnnamedVariable) Apply(m Mapper) {}

// Counter is the auto-increment source. It is forbidden in facts and in
// recursive rules.
type Counter struct {
	nodeLoc
}

var _ Argument = (*Counter)(nil)

func (*Counter) argument() {}

func (c *Counter) String() string {
	return "$"
}

// Children implements Node.
func (c *Counter) Children() []Node {
	return nil
}

// Equal implements Node.
func (c *Counter) Equal(other Node) bool {
	_, ok := other.(*Counter)
	return ok
}

// Clone implements Node.
func (c *Counter) Clone() Node {
	cp := &Counter{}
	cp.loc = c.loc
	return cp
}

// Apply implements Node.
func (c *Counter) Apply(m Mapper) {}

// NumberConstant is an integer literal.
type NumberConstant struct {
	nodeLoc
	Value int64
}

var _ Argument = (*NumberConstant)(nil)

// NewNumberConstant returns a numeric constant.
func NewNumberConstant(value int64) *NumberConstant {
	return &NumberConstant{Value: value}
}

func (*NumberConstant) argument() {}

func (c *NumberConstant) String() string {
	return fmt.Sprintf("%d", c.Value)
}

// Children implements Node.
func (c *NumberConstant) Children() []Node {
	return nil
}

// Equal implements Node.
func (c *NumberConstant) Equal(other Node) bool {
	o, ok := other.(*NumberConstant)
	return ok && c.Value == o.Value
}

// Clone implements Node.
func (c *NumberConstant) Clone() Node {
	cp := &NumberConstant{Value: c.Value}
	cp.loc = c.loc
	return cp
}

// Apply implements Node.
func (c *NumberConstant) Apply(m Mapper) {}

// StringConstant is a symbol literal. The raw text is kept; interning into
// the symbol table happens during lowering.
type StringConstant struct {
	nodeLoc
	Symbol string
}

var _ Argument = (*StringConstant)(nil)

// NewStringConstant returns a symbol constant.
func NewStringConstant(symbol string) *StringConstant {
	return &StringConstant{Symbol: symbol}
}

func (*StringConstant) argument() {}

func (c *StringConstant) String() string {
	return fmt.Sprintf("%q", c.Symbol)
}

// Children implements Node.
func (c *StringConstant) Children() []Node {
	return nil
}

// Equal implements Node.
func (c *StringConstant) Equal(other Node) bool {
	o, ok := other.(*StringConstant)
	return ok && c.Symbol == o.Symbol
}

// Clone implements Node.
func (c *StringConstant) Clone() Node {
	cp := &StringConstant{Symbol: c.Symbol}
	cp.loc = c.loc
	return cp
}

// Apply implements Node.
func (c *StringConstant) Apply(m Mapper) {}

// NullConstant is the null record value.
type NullConstant struct {
	nodeLoc
}

var _ Argument = (*NullConstant)(nil)

func (*NullConstant) argument() {}

func (c *NullConstant) String() string {
	return "nil"
}

// Children implements Node.
func (c *NullConstant) Children() []Node {
	return nil
}

// Equal implements Node.
func (c *NullConstant) Equal(other Node) bool {
	_, ok := other.(*NullConstant)
	return ok
}

// Clone implements Node.
func (c *NullConstant) Clone() Node {
	cp := &NullConstant{}
	cp.loc = c.loc
	return cp
}

// Apply implements Node.
func (c *NullConstant) Apply(m Mapper) {}

// TypeCast asserts the type of a value, e.g. as(x, Name).
type TypeCast struct {
	nodeLoc
	Value    Argument
	TypeName string
}

var _ Argument = (*TypeCast)(nil)

// NewTypeCast returns a cast of value to the named type.
func NewTypeCast(value Argument, typeName string) *TypeCast {
	return &TypeCast{Value: value, TypeName: typeName}
}

func (*TypeCast) argument() {}

func (c *TypeCast) String() string {
	return fmt.Sprintf("as(%s, %s)", c.Value, c.TypeName)
}

// Children implements Node.
func (c *TypeCast) Children() []Node {
	return []Node{c.Value}
}

// Equal implements Node.
func (c *TypeCast) Equal(other Node) bool {
	o, ok := other.(*TypeCast)
	return ok && c.TypeName == o.TypeName && c.Value.Equal(o.Value)
}

// Clone implements Node.
func (c *TypeCast) Clone() Node {
	cp := &TypeCast{Value: c.Value.Clone().(Argument), TypeName: c.TypeName}
	cp.loc = c.loc
	return cp
}

// Apply implements Node.
func (c *TypeCast) Apply(m Mapper) {
	c.Value = mapArgument(m, c.Value)
}

// UnaryFunctor applies a unary operator to an operand.
type UnaryFunctor struct {
	nodeLoc
	Op      UnaryOp
	Operand Argument
}

var _ Argument = (*UnaryFunctor)(nil)

// NewUnaryFunctor returns a unary functor application.
func NewUnaryFunctor(op UnaryOp, operand Argument) *UnaryFunctor {
	return &UnaryFunctor{Op: op, Operand: operand}
}

func (*UnaryFunctor) argument() {}

func (f *UnaryFunctor) String() string {
	if f.Op == UnaryNeg {
		return fmt.Sprintf("-%s", f.Operand)
	}
	return fmt.Sprintf("%s(%s)", f.Op.Symbol(), f.Operand)
}

// Children implements Node.
func (f *UnaryFunctor) Children() []Node {
	return []Node{f.Operand}
}

// Equal implements Node.
func (f *UnaryFunctor) Equal(other Node) bool {
	o, ok := other.(*UnaryFunctor)
	return ok && f.Op == o.Op && f.Operand.Equal(o.Operand)
}

// Clone implements Node.
func (f *UnaryFunctor) Clone() Node {
	cp := &UnaryFunctor{Op: f.Op, Operand: f.Operand.Clone().(Argument)}
	cp.loc = f.loc
	return cp
}

// Apply implements Node.
func (f *UnaryFunctor) Apply(m Mapper) {
	f.Operand = mapArgument(m, f.Operand)
}

// BinaryFunctor applies a binary operator to two operands.
type BinaryFunctor struct {
	nodeLoc
	Op  BinaryOp
	LHS Argument
	RHS Argument
}

var _ Argument = (*BinaryFunctor)(nil)

// NewBinaryFunctor returns a binary functor application.
func NewBinaryFunctor(op BinaryOp, lhs, rhs Argument) *BinaryFunctor {
	return &BinaryFunctor{Op: op, LHS: lhs, RHS: rhs}
}

func (*BinaryFunctor) argument() {}

func (f *BinaryFunctor) String() string {
	if f.Op.infix() {
		return fmt.Sprintf("(%s%s%s)", f.LHS, f.Op.Symbol(), f.RHS)
	}
	return fmt.Sprintf("%s(%s,%s)", f.Op.Symbol(), f.LHS, f.RHS)
}

// Children implements Node.
func (f *BinaryFunctor) Children() []Node {
	return []Node{f.LHS, f.RHS}
}

// Equal implements Node.
func (f *BinaryFunctor) Equal(other Node) bool {
	o, ok := other.(*BinaryFunctor)
	return ok && f.Op == o.Op && f.LHS.Equal(o.LHS) && f.RHS.Equal(o.RHS)
}

// Clone implements Node.
func (f *BinaryFunctor) Clone() Node {
	cp := &BinaryFunctor{Op: f.Op, LHS: f.LHS.Clone().(Argument), RHS: f.RHS.Clone().(Argument)}
	cp.loc = f.loc
	return cp
}

// Apply implements Node.
func (f *BinaryFunctor) Apply(m Mapper) {
	f.LHS = mapArgument(m, f.LHS)
	f.RHS = mapArgument(m, f.RHS)
}

// TernaryFunctor applies a ternary operator to three operands.
type TernaryFunctor struct {
	nodeLoc
	Op   TernaryOp
	Args [3]Argument
}

var _ Argument = (*TernaryFunctor)(nil)

// NewTernaryFunctor returns a ternary functor application.
func NewTernaryFunctor(op TernaryOp, a, b, c Argument) *TernaryFunctor {
	return &TernaryFunctor{Op: op, Args: [3]Argument{a, b, c}}
}

func (*TernaryFunctor) argument() {}

func (f *TernaryFunctor) String() string {
	return fmt.Sprintf("%s(%s,%s,%s)", f.Op.Symbol(), f.Args[0], f.Args[1], f.Args[2])
}

// Children implements Node.
func (f *TernaryFunctor) Children() []Node {
	return []Node{f.Args[0], f.Args[1], f.Args[2]}
}

// Equal implements Node.
func (f *TernaryFunctor) Equal(other Node) bool {
	o, ok := other.(*TernaryFunctor)
	if !ok || f.Op != o.Op {
		return false
	}
	for i := range f.Args {
		if !f.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

// Clone implements Node.
func (f *TernaryFunctor) Clone() Node {
	cp := &TernaryFunctor{Op: f.Op}
	for i := range f.Args {
		cp.Args[i] = f.Args[i].Clone().(Argument)
	}
	cp.loc = f.loc
	return cp
}

// Apply implements Node.
func (f *TernaryFunctor) Apply(m Mapper) {
	for i := range f.Args {
		f.Args[i] = mapArgument(m, f.Args[i])
	}
}

// IsFunctor reports whether the argument is a unary, binary or ternary
// functor application.
func IsFunctor(arg Argument) bool {
	switch arg.(type) {
	case *UnaryFunctor, *BinaryFunctor, *TernaryFunctor:
		return true
	}
	return false
}

// IsConstant reports whether the argument is a number, string or null
// constant.
func IsConstant(arg Argument) bool {
	switch arg.(type) {
	case *NumberConstant, *StringConstant, *NullConstant:
		return true
	}
	return false
}

// RecordInit constructs a record value from its field values.
type RecordInit struct {
	nodeLoc
	Args []Argument
}

var _ Argument = (*RecordInit)(nil)

// NewRecordInit returns a record constructor over the given field values.
func NewRecordInit(args ...Argument) *RecordInit {
	return &RecordInit{Args: args}
}

func (*RecordInit) argument() {}

func (r *RecordInit) String() string {
	parts := make([]string, len(r.Args))
	for i, a := range r.Args {
		parts[i] = a.String()
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Children implements Node.
func (r *RecordInit) Children() []Node {
	children := make([]Node, len(r.Args))
	for i, a := range r.Args {
		children[i] = a
	}
	return children
}

// Equal implements Node.
func (r *RecordInit) Equal(other Node) bool {
	o, ok := other.(*RecordInit)
	return ok && argumentsEqual(r.Args, o.Args)
}

// Clone implements Node.
func (r *RecordInit) Clone() Node {
	cp := &RecordInit{Args: cloneArguments(r.Args)}
	cp.loc = r.loc
	return cp
}

// Apply implements Node.
func (r *RecordInit) Apply(m Mapper) {
	for i := range r.Args {
		r.Args[i] = mapArgument(m, r.Args[i])
	}
}

// Aggregator evaluates an aggregation function over the tuples matched by its
// body, optionally projecting a target expression per tuple.
type Aggregator struct {
	nodeLoc
	Op AggregateOp

	// Target is the aggregated expression; nil for count.
	Target Argument

	// Body is the literal list the aggregation ranges over. After the
	// materialisation transform it is a single atom.
	Body []Literal
}

var _ Argument = (*Aggregator)(nil)

// NewAggregator returns an aggregator with the given operator.
func NewAggregator(op AggregateOp) *Aggregator {
	return &Aggregator{Op: op}
}

func (*Aggregator) argument() {}

func (a *Aggregator) String() string {
	var sb strings.Builder
	sb.WriteString(a.Op.Symbol())
	if a.Target != nil {
		sb.WriteString(" ")
		sb.WriteString(a.Target.String())
	}
	sb.WriteString(" : ")
	if len(a.Body) == 1 {
		sb.WriteString(a.Body[0].String())
		return sb.String()
	}
	parts := make([]string, len(a.Body))
	for i, lit := range a.Body {
		parts[i] = lit.String()
	}
	sb.WriteString("{ " + strings.Join(parts, ",") + " }")
	return sb.String()
}

// Children implements Node.
func (a *Aggregator) Children() []Node {
	var children []Node
	if a.Target != nil {
		children = append(children, a.Target)
	}
	for _, lit := range a.Body {
		children = append(children, lit)
	}
	return children
}

// Equal implements Node.
func (a *Aggregator) Equal(other Node) bool {
	o, ok := other.(*Aggregator)
	if !ok || a.Op != o.Op {
		return false
	}
	if (a.Target == nil) != (o.Target == nil) {
		return false
	}
	if a.Target != nil && !a.Target.Equal(o.Target) {
		return false
	}
	if len(a.Body) != len(o.Body) {
		return false
	}
	for i := range a.Body {
		if !a.Body[i].Equal(o.Body[i]) {
			return false
		}
	}
	return true
}

// Clone implements Node.
func (a *Aggregator) Clone() Node {
	cp := &Aggregator{Op: a.Op}
	if a.Target != nil {
		cp.Target = a.Target.Clone().(Argument)
	}
	cp.Body = make([]Literal, len(a.Body))
	for i, lit := range a.Body {
		cp.Body[i] = lit.Clone().(Literal)
	}
	cp.loc = a.loc
	return cp
}

// Apply implements Node.
func (a *Aggregator) Apply(m Mapper) {
	if a.Target != nil {
		a.Target = mapArgument(m, a.Target)
	}
	for i := range a.Body {
		a.Body[i] = mapLiteral(m, a.Body[i])
	}
}
