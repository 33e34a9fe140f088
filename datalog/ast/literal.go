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

// Literal is the sum type of the elements of a clause body: atoms, negated
// atoms and binary constraints.
type Literal interface {
	Node
	literal()
}

// Atom references a relation with an argument per attribute.
type Atom struct {
	nodeLoc
	Name QualifiedName
	Args []Argument
}

var _ Literal = (*Atom)(nil)

// NewAtom returns an atom over the named relation.
func NewAtom(name QualifiedName, args ...Argument) *Atom {
	return &Atom{Name: name, Args: args}
}

func (*Atom) literal() {}

// Arity returns the number of arguments.
func (a *Atom) Arity() int {
	return len(a.Args)
}

func (a *Atom) String() string {
	parts := make([]string, len(a.Args))
	for i, arg := range a.Args {
		parts[i] = arg.String()
	}
	return fmt.Sprintf("%s(%s)", a.Name, strings.Join(parts, ","))
}

// Children implements Node.
func (a *Atom) Children() []Node {
	children := make([]Node, len(a.Args))
	for i, arg := range a.Args {
		children[i] = arg
	}
	return children
}

// Equal implements Node.
func (a *Atom) Equal(other Node) bool {
	o, ok := other.(*Atom)
	return ok && a.Name.Equal(o.Name) && argumentsEqual(a.Args, o.Args)
}

// Clone implements Node.
func (a *Atom) Clone() Node {
	cp := &Atom{Name: a.Name, Args: cloneArguments(a.Args)}
	cp.loc = a.loc
	return cp
}

// Apply implements Node.
func (a *Atom) Apply(m Mapper) {
	for i := range a.Args {
		a.Args[i] = mapArgument(m, a.Args[i])
	}
}

// Negation is a negated atom; only valid in clause bodies.
type Negation struct {
	nodeLoc
	Atom *Atom
}

var _ Literal = (*Negation)(nil)

// NewNegation returns the negation of the given atom.
func NewNegation(atom *Atom) *Negation {
	return &Negation{Atom: atom}
}

func (*Negation) literal() {}

func (n *Negation) String() string {
	return "!" + n.Atom.String()
}

// Children implements Node.
func (n *Negation) Children() []Node {
	return []Node{n.Atom}
}

// Equal implements Node.
func (n *Negation) Equal(other Node) bool {
	o, ok := other.(*Negation)
	return ok && n.Atom.Equal(o.Atom)
}

// Clone implements Node.
func (n *Negation) Clone() Node {
	cp := &Negation{Atom: n.Atom.Clone().(*Atom)}
	cp.loc = n.loc
	return cp
}

// Apply implements Node.
func (n *Negation) Apply(m Mapper) {
	n.Atom = m.Map(n.Atom).(*Atom)
}

// Constraint is a binary relation between two argument values.
type Constraint struct {
	nodeLoc
	Op  ConstraintOp
	LHS Argument
	RHS Argument
}

var _ Literal = (*Constraint)(nil)

// NewConstraint returns a binary constraint.
func NewConstraint(op ConstraintOp, lhs, rhs Argument) *Constraint {
	return &Constraint{Op: op, LHS: lhs, RHS: rhs}
}

func (*Constraint) literal() {}

// Negate flips the constraint to its complementary operator in place.
func (c *Constraint) Negate() {
	c.Op = c.Op.Negated()
}

func (c *Constraint) String() string {
	if c.Op.functional() {
		return fmt.Sprintf("%s(%s,%s)", c.Op.Symbol(), c.LHS, c.RHS)
	}
	return fmt.Sprintf("%s %s %s", c.LHS, c.Op.Symbol(), c.RHS)
}

// Children implements Node.
func (c *Constraint) Children() []Node {
	return []Node{c.LHS, c.RHS}
}

// Equal implements Node.
func (c *Constraint) Equal(other Node) bool {
	o, ok := other.(*Constraint)
	return ok && c.Op == o.Op && c.LHS.Equal(o.LHS) && c.RHS.Equal(o.RHS)
}

// Clone implements Node.
func (c *Constraint) Clone() Node {
	cp := &Constraint{Op: c.Op, LHS: c.LHS.Clone().(Argument), RHS: c.RHS.Clone().(Argument)}
	cp.loc = c.loc
	return cp
}

// Apply implements Node.
func (c *Constraint) Apply(m Mapper) {
	c.LHS = mapArgument(m, c.LHS)
	c.RHS = mapArgument(m, c.RHS)
}
