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

package plan

import (
	"fmt"
	"strings"
)

// Value is a scalar expression of the emitted program. A nil Value denotes
// an ignored column.
type Value interface {
	fmt.Stringer
	value()
}

// ElementAccess reads the column of the tuple bound at a loop level.
type ElementAccess struct {
	Level  int
	Column int

	// Name optionally carries the attribute name for readability.
	Name string
}

var _ Value = (*ElementAccess)(nil)

// NewElementAccess returns an element access value.
func NewElementAccess(level, column int, name string) *ElementAccess {
	return &ElementAccess{Level: level, Column: column, Name: name}
}

func (*ElementAccess) value() {}

func (v *ElementAccess) String() string {
	return fmt.Sprintf("t%d.%d", v.Level, v.Column)
}

// Number is a numeric literal. Symbol constants are interned into numbers
// before lowering.
type Number struct {
	Value int64
}

var _ Value = (*Number)(nil)

// NewNumber returns a numeric literal value.
func NewNumber(value int64) *Number {
	return &Number{Value: value}
}

func (*Number) value() {}

func (v *Number) String() string {
	return fmt.Sprintf("number(%d)", v.Value)
}

// AutoIncrement yields the next value of the evaluation-wide counter.
type AutoIncrement struct{}

var _ Value = (*AutoIncrement)(nil)

func (*AutoIncrement) value() {}

func (v *AutoIncrement) String() string {
	return "autoinc()"
}

// UnaryOperator applies a unary operator, identified by its surface symbol.
type UnaryOperator struct {
	Op      string
	Operand Value
}

var _ Value = (*UnaryOperator)(nil)

// NewUnaryOperator returns a unary operator value.
func NewUnaryOperator(op string, operand Value) *UnaryOperator {
	return &UnaryOperator{Op: op, Operand: operand}
}

func (*UnaryOperator) value() {}

func (v *UnaryOperator) String() string {
	return fmt.Sprintf("%s(%s)", v.Op, v.Operand)
}

// BinaryOperator applies a binary operator, identified by its surface
// symbol.
type BinaryOperator struct {
	Op  string
	LHS Value
	RHS Value
}

var _ Value = (*BinaryOperator)(nil)

// NewBinaryOperator returns a binary operator value.
func NewBinaryOperator(op string, lhs, rhs Value) *BinaryOperator {
	return &BinaryOperator{Op: op, LHS: lhs, RHS: rhs}
}

func (*BinaryOperator) value() {}

func (v *BinaryOperator) String() string {
	return fmt.Sprintf("(%s %s %s)", v.LHS, v.Op, v.RHS)
}

// TernaryOperator applies a ternary operator, identified by its surface
// symbol.
type TernaryOperator struct {
	Op      string
	A, B, C Value
}

var _ Value = (*TernaryOperator)(nil)

// NewTernaryOperator returns a ternary operator value.
func NewTernaryOperator(op string, a, b, c Value) *TernaryOperator {
	return &TernaryOperator{Op: op, A: a, B: b, C: c}
}

func (*TernaryOperator) value() {}

func (v *TernaryOperator) String() string {
	return fmt.Sprintf("%s(%s,%s,%s)", v.Op, v.A, v.B, v.C)
}

// Pack constructs a record value from component values.
type Pack struct {
	Values []Value
}

var _ Value = (*Pack)(nil)

// NewPack returns a record pack value.
func NewPack(values ...Value) *Pack {
	return &Pack{Values: values}
}

func (*Pack) value() {}

func (v *Pack) String() string {
	return fmt.Sprintf("[%s]", joinValues(v.Values))
}

// joinValues renders a value list; nil values print as underscores.
func joinValues(values []Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		if v == nil {
			parts[i] = "_"
		} else {
			parts[i] = v.String()
		}
	}
	return strings.Join(parts, ",")
}
