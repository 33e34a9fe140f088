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

	"github.com/dolthub/go-datalog-engine/datalog"
)

// Operation is a node of the nested loop structure inside an Insert
// statement. Each operation may carry conditions evaluated at its level.
type Operation interface {
	fmt.Stringer

	// AddCondition attaches a condition evaluated at this level.
	AddCondition(c Condition)

	// Condition returns the conjunction of the attached conditions, or
	// nil.
	Condition() Condition

	// Nested returns the operation executed per binding, or nil for the
	// innermost operation.
	Nested() Operation

	operation()
}

// opConditions implements condition collection for operations.
type opConditions struct {
	cond Condition
}

// AddCondition implements Operation.
func (o *opConditions) AddCondition(c Condition) {
	o.cond = Conjoin(o.cond, c)
}

// Condition implements Operation.
func (o *opConditions) Condition() Condition {
	return o.cond
}

// condSuffix renders the attached conditions for display.
func (o *opConditions) condSuffix() string {
	if o.cond == nil {
		return ""
	}
	return " if " + o.cond.String()
}

// Scan iterates the tuples of a relation, binding one per iteration at its
// level. With ExistCheck set, no bindings are consumed below and a single
// membership probe suffices.
type Scan struct {
	opConditions
	Rel        RelationRef
	ExistCheck bool
	nested     Operation
}

var _ Operation = (*Scan)(nil)

// NewScan returns a scan over the relation wrapping the nested operation.
func NewScan(rel RelationRef, nested Operation, existCheck bool) *Scan {
	return &Scan{Rel: rel, nested: nested, ExistCheck: existCheck}
}

func (*Scan) operation() {}

// Nested implements Operation.
func (s *Scan) Nested() Operation {
	return s.nested
}

func (s *Scan) String() string {
	kind := "Scan"
	if s.ExistCheck {
		kind = "ExistsCheck"
	}
	p := datalog.NewTreePrinter()
	_ = p.WriteNode("%s %s%s", kind, s.Rel.Name(), s.condSuffix())
	_ = p.WriteChildren(s.nested.String())
	return trimTrailingNewline(p.String())
}

// Lookup unpacks the record bound at a reference position into a fresh
// level.
type Lookup struct {
	opConditions
	RefLevel  int
	RefColumn int
	Arity     int
	nested    Operation
}

var _ Operation = (*Lookup)(nil)

// NewLookup returns a record unpack of the value at (refLevel, refColumn)
// wrapping the nested operation.
func NewLookup(nested Operation, refLevel, refColumn, arity int) *Lookup {
	return &Lookup{RefLevel: refLevel, RefColumn: refColumn, Arity: arity, nested: nested}
}

func (*Lookup) operation() {}

// Nested implements Operation.
func (l *Lookup) Nested() Operation {
	return l.nested
}

func (l *Lookup) String() string {
	p := datalog.NewTreePrinter()
	_ = p.WriteNode("Lookup t%d.%d/%d%s", l.RefLevel, l.RefColumn, l.Arity, l.condSuffix())
	_ = p.WriteChildren(l.nested.String())
	return trimTrailingNewline(p.String())
}

// AggFunction enumerates the aggregate functions of the plan.
type AggFunction int

const (
	AggMin AggFunction = iota
	AggMax
	AggCount
	AggSum
)

func (f AggFunction) String() string {
	switch f {
	case AggMin:
		return "min"
	case AggMax:
		return "max"
	case AggCount:
		return "count"
	case AggSum:
		return "sum"
	}
	panic("unknown aggregate function")
}

// Aggregate folds the matching tuples of a relation into a single value
// bound at its level.
type Aggregate struct {
	opConditions
	Fn     AggFunction
	Value  Value
	Rel    RelationRef
	nested Operation
}

var _ Operation = (*Aggregate)(nil)

// NewAggregate returns an aggregation over the relation wrapping the nested
// operation. Value is nil for count.
func NewAggregate(nested Operation, fn AggFunction, value Value, rel RelationRef) *Aggregate {
	return &Aggregate{Fn: fn, Value: value, Rel: rel, nested: nested}
}

func (*Aggregate) operation() {}

// Nested implements Operation.
func (a *Aggregate) Nested() Operation {
	return a.nested
}

func (a *Aggregate) String() string {
	p := datalog.NewTreePrinter()
	if a.Value != nil {
		_ = p.WriteNode("Aggregate %s %s %s%s", a.Fn, a.Value, a.Rel.Name(), a.condSuffix())
	} else {
		_ = p.WriteNode("Aggregate %s %s%s", a.Fn, a.Rel.Name(), a.condSuffix())
	}
	_ = p.WriteChildren(a.nested.String())
	return trimTrailingNewline(p.String())
}

// Project is the innermost operation: it assembles the head values and
// inserts the tuple into the target relation.
type Project struct {
	opConditions
	Rel    RelationRef
	Values []Value
}

var _ Operation = (*Project)(nil)

// NewProject returns a projection into the relation.
func NewProject(rel RelationRef) *Project {
	return &Project{Rel: rel}
}

// AddArg appends a head value.
func (p *Project) AddArg(v Value) {
	p.Values = append(p.Values, v)
}

func (*Project) operation() {}

// Nested implements Operation.
func (p *Project) Nested() Operation {
	return nil
}

func (p *Project) String() string {
	return fmt.Sprintf("Project (%s) into %s%s", joinValues(p.Values), p.Rel.Name(), p.condSuffix())
}

func trimTrailingNewline(s string) string {
	if len(s) > 0 && s[len(s)-1] == '\n' {
		return s[:len(s)-1]
	}
	return s
}
