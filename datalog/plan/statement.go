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

// Statement is a node of the emitted relational program.
type Statement interface {
	fmt.Stringer
	statement()
}

// Create allocates a relation.
type Create struct {
	Rel RelationRef
}

var _ Statement = (*Create)(nil)

// NewCreate returns a create statement.
func NewCreate(rel RelationRef) *Create { return &Create{Rel: rel} }

func (*Create) statement() {}

func (s *Create) String() string {
	return fmt.Sprintf("Create %s", s.Rel)
}

// Load fills an input relation from its source.
type Load struct {
	Rel RelationRef
}

var _ Statement = (*Load)(nil)

// NewLoad returns a load statement.
func NewLoad(rel RelationRef) *Load { return &Load{Rel: rel} }

func (*Load) statement() {}

func (s *Load) String() string {
	return fmt.Sprintf("Load %s", s.Rel.Name())
}

// Store writes an output relation to its sink.
type Store struct {
	Rel RelationRef
}

var _ Statement = (*Store)(nil)

// NewStore returns a store statement.
func NewStore(rel RelationRef) *Store { return &Store{Rel: rel} }

func (*Store) statement() {}

func (s *Store) String() string {
	return fmt.Sprintf("Store %s", s.Rel.Name())
}

// PrintSize reports the cardinality of a relation.
type PrintSize struct {
	Rel RelationRef
}

var _ Statement = (*PrintSize)(nil)

// NewPrintSize returns a printsize statement.
func NewPrintSize(rel RelationRef) *PrintSize { return &PrintSize{Rel: rel} }

func (*PrintSize) statement() {}

func (s *PrintSize) String() string {
	return fmt.Sprintf("PrintSize %s", s.Rel.Name())
}

// Drop releases a relation.
type Drop struct {
	Rel RelationRef
}

var _ Statement = (*Drop)(nil)

// NewDrop returns a drop statement.
func NewDrop(rel RelationRef) *Drop { return &Drop{Rel: rel} }

func (*Drop) statement() {}

func (s *Drop) String() string {
	return fmt.Sprintf("Drop %s", s.Rel.Name())
}

// Clear removes all tuples of a relation.
type Clear struct {
	Rel RelationRef
}

var _ Statement = (*Clear)(nil)

// NewClear returns a clear statement.
func NewClear(rel RelationRef) *Clear { return &Clear{Rel: rel} }

func (*Clear) statement() {}

func (s *Clear) String() string {
	return fmt.Sprintf("Clear %s", s.Rel.Name())
}

// Merge adds all tuples of the source relation to the target relation.
type Merge struct {
	Target RelationRef
	Source RelationRef
}

var _ Statement = (*Merge)(nil)

// NewMerge returns a merge statement.
func NewMerge(target, source RelationRef) *Merge {
	return &Merge{Target: target, Source: source}
}

func (*Merge) statement() {}

func (s *Merge) String() string {
	return fmt.Sprintf("Merge %s <- %s", s.Target.Name(), s.Source.Name())
}

// Swap exchanges the contents of two relations.
type Swap struct {
	A RelationRef
	B RelationRef
}

var _ Statement = (*Swap)(nil)

// NewSwap returns a swap statement.
func NewSwap(a, b RelationRef) *Swap { return &Swap{A: a, B: b} }

func (*Swap) statement() {}

func (s *Swap) String() string {
	return fmt.Sprintf("Swap %s %s", s.A.Name(), s.B.Name())
}

// Fact inserts a single constant tuple.
type Fact struct {
	Rel    RelationRef
	Values []Value
}

var _ Statement = (*Fact)(nil)

// NewFact returns a fact statement.
func NewFact(rel RelationRef, values []Value) *Fact {
	return &Fact{Rel: rel, Values: values}
}

func (*Fact) statement() {}

func (s *Fact) String() string {
	return fmt.Sprintf("Fact %s(%s)", s.Rel.Name(), joinValues(s.Values))
}

// Sequence executes its statements in order.
type Sequence struct {
	Stmts []Statement
}

var _ Statement = (*Sequence)(nil)

// NewSequence returns a sequence of the given statements.
func NewSequence(stmts ...Statement) *Sequence {
	return &Sequence{Stmts: stmts}
}

// Add appends a statement.
func (s *Sequence) Add(stmt Statement) {
	s.Stmts = append(s.Stmts, stmt)
}

func (*Sequence) statement() {}

func (s *Sequence) String() string {
	p := datalog.NewTreePrinter()
	_ = p.WriteNode("Sequence")
	children := make([]string, len(s.Stmts))
	for i, stmt := range s.Stmts {
		children[i] = trimTrailingNewline(stmt.String())
	}
	_ = p.WriteChildren(children...)
	return trimTrailingNewline(p.String())
}

// Parallel executes its statements in any order; they have no data
// dependence on each other, a property the lowering preserves.
type Parallel struct {
	Stmts []Statement
}

var _ Statement = (*Parallel)(nil)

// NewParallel returns an empty parallel block.
func NewParallel() *Parallel {
	return &Parallel{}
}

// Add appends a statement.
func (s *Parallel) Add(stmt Statement) {
	s.Stmts = append(s.Stmts, stmt)
}

func (*Parallel) statement() {}

func (s *Parallel) String() string {
	p := datalog.NewTreePrinter()
	_ = p.WriteNode("Parallel")
	children := make([]string, len(s.Stmts))
	for i, stmt := range s.Stmts {
		children[i] = trimTrailingNewline(stmt.String())
	}
	_ = p.WriteChildren(children...)
	return trimTrailingNewline(p.String())
}

// Loop runs body, exit checks and update until an Exit fires.
type Loop struct {
	Body   Statement
	Exit   Statement
	Update Statement
}

var _ Statement = (*Loop)(nil)

// NewLoop returns a loop statement.
func NewLoop(body, exit, update Statement) *Loop {
	return &Loop{Body: body, Exit: exit, Update: update}
}

func (*Loop) statement() {}

func (s *Loop) String() string {
	p := datalog.NewTreePrinter()
	_ = p.WriteNode("Loop")
	_ = p.WriteChildren(
		trimTrailingNewline(s.Body.String()),
		trimTrailingNewline(s.Exit.String()),
		trimTrailingNewline(s.Update.String()),
	)
	return trimTrailingNewline(p.String())
}

// Exit leaves the enclosing loop when its condition holds.
type Exit struct {
	Cond Condition
}

var _ Statement = (*Exit)(nil)

// NewExit returns an exit statement.
func NewExit(cond Condition) *Exit { return &Exit{Cond: cond} }

func (*Exit) statement() {}

func (s *Exit) String() string {
	return fmt.Sprintf("Exit %s", s.Cond)
}

// Insert evaluates a lowered clause: a nested loop structure ending in a
// projection. Origin carries the printed source clause for diagnostics and
// profiling labels.
type Insert struct {
	Origin string
	Op     Operation
}

var _ Statement = (*Insert)(nil)

// NewInsert returns an insert statement over the operation tree.
func NewInsert(origin string, op Operation) *Insert {
	return &Insert{Origin: origin, Op: op}
}

func (*Insert) statement() {}

func (s *Insert) String() string {
	p := datalog.NewTreePrinter()
	_ = p.WriteNode("Insert")
	_ = p.WriteChildren(trimTrailingNewline(s.Op.String()))
	return trimTrailingNewline(p.String())
}

// AppendStmt appends a statement to a possibly-nil sequence, returning the
// combined statement.
func AppendStmt(list, stmt Statement) Statement {
	if stmt == nil {
		return list
	}
	if list == nil {
		return stmt
	}
	if seq, ok := list.(*Sequence); ok {
		seq.Add(stmt)
		return seq
	}
	return NewSequence(list, stmt)
}
