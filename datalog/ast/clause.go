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
	"sort"
	"strings"
)

// ExecutionOrder is a user-supplied permutation of the body atoms of one rule
// version. Indices are 1-based as written in the source.
type ExecutionOrder struct {
	nodeLoc
	Order []int
}

var _ Node = (*ExecutionOrder)(nil)

// NewExecutionOrder returns an execution order over the given 1-based atom
// indices.
func NewExecutionOrder(order ...int) *ExecutionOrder {
	return &ExecutionOrder{Order: order}
}

// Size returns the number of indices in the order.
func (e *ExecutionOrder) Size() int {
	return len(e.Order)
}

// IsComplete reports whether the order is a permutation of 1..n.
func (e *ExecutionOrder) IsComplete() bool {
	seen := make(map[int]bool, len(e.Order))
	for _, i := range e.Order {
		if i < 1 || i > len(e.Order) || seen[i] {
			return false
		}
		seen[i] = true
	}
	return true
}

func (e *ExecutionOrder) String() string {
	parts := make([]string, len(e.Order))
	for i, idx := range e.Order {
		parts[i] = fmt.Sprintf("%d", idx)
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// Children implements Node.
func (e *ExecutionOrder) Children() []Node {
	return nil
}

// Equal implements Node.
func (e *ExecutionOrder) Equal(other Node) bool {
	o, ok := other.(*ExecutionOrder)
	if !ok || len(e.Order) != len(o.Order) {
		return false
	}
	for i := range e.Order {
		if e.Order[i] != o.Order[i] {
			return false
		}
	}
	return true
}

// Clone implements Node.
func (e *ExecutionOrder) Clone() Node {
	cp := &ExecutionOrder{Order: append([]int(nil), e.Order...)}
	cp.loc = e.loc
	return cp
}

// Apply implements Node.
func (e *ExecutionOrder) Apply(m Mapper) {}

// ExecutionPlan maps rule versions produced by semi-naive lowering to imposed
// execution orders.
type ExecutionPlan struct {
	nodeLoc
	orders map[int]*ExecutionOrder
}

var _ Node = (*ExecutionPlan)(nil)

// NewExecutionPlan returns an empty execution plan.
func NewExecutionPlan() *ExecutionPlan {
	return &ExecutionPlan{orders: make(map[int]*ExecutionOrder)}
}

// SetOrderFor sets the order for the given rule version.
func (p *ExecutionPlan) SetOrderFor(version int, order *ExecutionOrder) {
	p.orders[version] = order
}

// HasOrderFor reports whether the plan provides an order for the version.
func (p *ExecutionPlan) HasOrderFor(version int) bool {
	_, ok := p.orders[version]
	return ok
}

// OrderFor returns the order for the given version, or nil.
func (p *ExecutionPlan) OrderFor(version int) *ExecutionOrder {
	return p.orders[version]
}

// Versions returns the versions with an order, in ascending order.
func (p *ExecutionPlan) Versions() []int {
	versions := make([]int, 0, len(p.orders))
	for v := range p.orders {
		versions = append(versions, v)
	}
	sort.Ints(versions)
	return versions
}

// MaxVersion returns the largest version with an order, or -1 for an empty
// plan.
func (p *ExecutionPlan) MaxVersion() int {
	max := -1
	for v := range p.orders {
		if v > max {
			max = v
		}
	}
	return max
}

func (p *ExecutionPlan) String() string {
	parts := make([]string, 0, len(p.orders))
	for _, v := range p.Versions() {
		parts = append(parts, fmt.Sprintf("%d:%s", v, p.orders[v]))
	}
	return ".plan " + strings.Join(parts, ", ")
}

// Children implements Node.
func (p *ExecutionPlan) Children() []Node {
	children := make([]Node, 0, len(p.orders))
	for _, v := range p.Versions() {
		children = append(children, p.orders[v])
	}
	return children
}

// Equal implements Node.
func (p *ExecutionPlan) Equal(other Node) bool {
	o, ok := other.(*ExecutionPlan)
	if !ok || len(p.orders) != len(o.orders) {
		return false
	}
	for v, order := range p.orders {
		oo, ok := o.orders[v]
		if !ok || !order.Equal(oo) {
			return false
		}
	}
	return true
}

// Clone implements Node.
func (p *ExecutionPlan) Clone() Node {
	cp := NewExecutionPlan()
	for v, order := range p.orders {
		cp.orders[v] = order.Clone().(*ExecutionOrder)
	}
	cp.loc = p.loc
	return cp
}

// Apply implements Node.
func (p *ExecutionPlan) Apply(m Mapper) {
	for v := range p.orders {
		p.orders[v] = m.Map(p.orders[v]).(*ExecutionOrder)
	}
}

// Clause is a head atom plus a body of literals. A clause with a head and an
// empty body is a fact; one with a non-empty body is a rule. The body is kept
// partitioned into atoms, negations and constraints.
type Clause struct {
	nodeLoc

	Head *Atom

	atoms       []*Atom
	negations   []*Negation
	constraints []*Constraint

	// Plan is the user-declared execution plan, if any.
	Plan *ExecutionPlan

	// FixedPlan marks a clause whose atom order must not be changed.
	FixedPlan bool

	// Generated marks clauses synthesised by transforms; some checks are
	// relaxed for them.
	Generated bool
}

var _ Node = (*Clause)(nil)

// NewClause returns an empty clause.
func NewClause() *Clause {
	return &Clause{}
}

// SetHead sets the head atom.
func (c *Clause) SetHead(head *Atom) {
	c.Head = head
}

// AddToBody appends a literal to the body.
func (c *Clause) AddToBody(lit Literal) {
	switch l := lit.(type) {
	case *Atom:
		c.atoms = append(c.atoms, l)
	case *Negation:
		c.negations = append(c.negations, l)
	case *Constraint:
		c.constraints = append(c.constraints, l)
	default:
		panic(fmt.Sprintf("unsupported literal type %T", lit))
	}
}

// Atoms returns the positive body atoms, in order.
func (c *Clause) Atoms() []*Atom {
	return c.atoms
}

// Negations returns the negated body atoms, in order.
func (c *Clause) Negations() []*Negation {
	return c.negations
}

// Constraints returns the body constraints, in order.
func (c *Clause) Constraints() []*Constraint {
	return c.constraints
}

// BodyLiterals returns all body literals: atoms, then negations, then
// constraints.
func (c *Clause) BodyLiterals() []Literal {
	lits := make([]Literal, 0, len(c.atoms)+len(c.negations)+len(c.constraints))
	for _, a := range c.atoms {
		lits = append(lits, a)
	}
	for _, n := range c.negations {
		lits = append(lits, n)
	}
	for _, cs := range c.constraints {
		lits = append(lits, cs)
	}
	return lits
}

// BodySize returns the number of body literals.
func (c *Clause) BodySize() int {
	return len(c.atoms) + len(c.negations) + len(c.constraints)
}

// IsFact reports whether the clause is a fact: a head, no body, and no
// aggregator within the head.
func (c *Clause) IsFact() bool {
	if c.Head == nil || c.BodySize() != 0 {
		return false
	}
	hasAggregator := false
	Walk(c.Head, func(n Node) {
		if _, ok := n.(*Aggregator); ok {
			hasAggregator = true
		}
	})
	return !hasAggregator
}

// IsRule reports whether the clause is a rule: a head and a non-empty body.
func (c *Clause) IsRule() bool {
	return c.Head != nil && c.BodySize() != 0
}

// CloneHead returns a new clause sharing only a copy of this clause's head
// and flags, with an empty body.
func (c *Clause) CloneHead() *Clause {
	cp := NewClause()
	if c.Head != nil {
		cp.Head = c.Head.Clone().(*Atom)
	}
	if c.Plan != nil {
		cp.Plan = c.Plan.Clone().(*ExecutionPlan)
	}
	cp.FixedPlan = c.FixedPlan
	cp.Generated = c.Generated
	cp.loc = c.loc
	return cp
}

// ReorderAtoms permutes the body atoms such that the atom at position
// order[i] moves to position i. Indices are 0-based.
func (c *Clause) ReorderAtoms(order []int) {
	if len(order) != len(c.atoms) {
		panic("invalid permutation length")
	}
	reordered := make([]*Atom, len(c.atoms))
	for i, idx := range order {
		reordered[i] = c.atoms[idx]
	}
	c.atoms = reordered
}

func (c *Clause) String() string {
	var sb strings.Builder
	if c.Head != nil {
		sb.WriteString(c.Head.String())
	}
	if c.BodySize() > 0 {
		sb.WriteString(" :- \n   ")
		parts := make([]string, 0, c.BodySize())
		for _, lit := range c.BodyLiterals() {
			parts = append(parts, lit.String())
		}
		sb.WriteString(strings.Join(parts, ",\n   "))
	}
	sb.WriteString(".")
	if c.Plan != nil {
		sb.WriteString("\n" + c.Plan.String())
	}
	return sb.String()
}

// Children implements Node.
func (c *Clause) Children() []Node {
	var children []Node
	if c.Head != nil {
		children = append(children, c.Head)
	}
	for _, lit := range c.BodyLiterals() {
		children = append(children, lit)
	}
	if c.Plan != nil {
		children = append(children, c.Plan)
	}
	return children
}

// Equal implements Node.
func (c *Clause) Equal(other Node) bool {
	o, ok := other.(*Clause)
	if !ok {
		return false
	}
	if (c.Head == nil) != (o.Head == nil) {
		return false
	}
	if c.Head != nil && !c.Head.Equal(o.Head) {
		return false
	}
	if len(c.atoms) != len(o.atoms) || len(c.negations) != len(o.negations) ||
		len(c.constraints) != len(o.constraints) {
		return false
	}
	for i := range c.atoms {
		if !c.atoms[i].Equal(o.atoms[i]) {
			return false
		}
	}
	for i := range c.negations {
		if !c.negations[i].Equal(o.negations[i]) {
			return false
		}
	}
	for i := range c.constraints {
		if !c.constraints[i].Equal(o.constraints[i]) {
			return false
		}
	}
	if (c.Plan == nil) != (o.Plan == nil) {
		return false
	}
	if c.Plan != nil && !c.Plan.Equal(o.Plan) {
		return false
	}
	return c.FixedPlan == o.FixedPlan && c.Generated == o.Generated
}

// Clone implements Node.
func (c *Clause) Clone() Node {
	cp := c.CloneHead()
	for _, lit := range c.BodyLiterals() {
		cp.AddToBody(lit.Clone().(Literal))
	}
	return cp
}

// Apply implements Node.
func (c *Clause) Apply(m Mapper) {
	if c.Head != nil {
		c.Head = m.Map(c.Head).(*Atom)
	}
	for i := range c.atoms {
		c.atoms[i] = m.Map(c.atoms[i]).(*Atom)
	}
	for i := range c.negations {
		c.negations[i] = m.Map(c.negations[i]).(*Negation)
	}
	for i := range c.constraints {
		c.constraints[i] = m.Map(c.constraints[i]).(*Constraint)
	}
	if c.Plan != nil {
		c.Plan = m.Map(c.Plan).(*ExecutionPlan)
	}
}
