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

import "fmt"

// Condition is a boolean expression of the emitted program.
type Condition interface {
	fmt.Stringer
	condition()
}

// And is the conjunction of two conditions.
type And struct {
	LHS Condition
	RHS Condition
}

var _ Condition = (*And)(nil)

// NewAnd returns the conjunction of two conditions.
func NewAnd(lhs, rhs Condition) *And {
	return &And{LHS: lhs, RHS: rhs}
}

func (*And) condition() {}

func (c *And) String() string {
	return fmt.Sprintf("(%s and %s)", c.LHS, c.RHS)
}

// Conjoin appends a condition to a possibly-nil conjunction.
func Conjoin(cond, clause Condition) Condition {
	if cond == nil {
		return clause
	}
	return NewAnd(cond, clause)
}

// BinaryRelation compares two values with an operator, identified by its
// surface symbol.
type BinaryRelation struct {
	Op  string
	LHS Value
	RHS Value
}

var _ Condition = (*BinaryRelation)(nil)

// NewBinaryRelation returns a comparison condition.
func NewBinaryRelation(op string, lhs, rhs Value) *BinaryRelation {
	return &BinaryRelation{Op: op, LHS: lhs, RHS: rhs}
}

func (*BinaryRelation) condition() {}

func (c *BinaryRelation) String() string {
	return fmt.Sprintf("%s %s %s", c.LHS, c.Op, c.RHS)
}

// NotExists is satisfied when the relation holds no tuple matching the
// values; nil values match any column.
type NotExists struct {
	Rel    RelationRef
	Values []Value
}

var _ Condition = (*NotExists)(nil)

// NewNotExists returns a tuple non-membership condition.
func NewNotExists(rel RelationRef) *NotExists {
	return &NotExists{Rel: rel}
}

// AddArg appends a column value; nil matches any column.
func (c *NotExists) AddArg(v Value) {
	c.Values = append(c.Values, v)
}

func (*NotExists) condition() {}

func (c *NotExists) String() string {
	return fmt.Sprintf("not exists %s(%s)", c.Rel.Name(), joinValues(c.Values))
}

// Empty is satisfied when the relation holds no tuples.
type Empty struct {
	Rel RelationRef
}

var _ Condition = (*Empty)(nil)

// NewEmpty returns an emptiness condition.
func NewEmpty(rel RelationRef) *Empty {
	return &Empty{Rel: rel}
}

func (*Empty) condition() {}

func (c *Empty) String() string {
	return fmt.Sprintf("empty(%s)", c.Rel.Name())
}
