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

// Qualifier is a bit set of relation qualifiers.
type Qualifier uint

const (
	// QualifierInput marks a relation loaded from facts.
	QualifierInput Qualifier = 1 << iota
	// QualifierOutput marks a relation stored on completion.
	QualifierOutput
	// QualifierPrintSize marks a relation whose cardinality is reported.
	QualifierPrintSize
	// QualifierOverridable permits derived components to override clauses.
	QualifierOverridable
	// QualifierEqRel marks a binary equivalence relation.
	QualifierEqRel
	// QualifierBTree requests b-tree storage.
	QualifierBTree
	// QualifierBrie requests brie storage.
	QualifierBrie
	// QualifierData marks a data relation.
	QualifierData
)

// Attribute is a named, typed column of a relation.
type Attribute struct {
	nodeLoc
	Name     string
	TypeName string
}

var _ Node = (*Attribute)(nil)

// NewAttribute returns an attribute with the given name and type name.
func NewAttribute(name, typeName string) *Attribute {
	return &Attribute{Name: name, TypeName: typeName}
}

func (a *Attribute) String() string {
	return a.Name + ":" + a.TypeName
}

// Children implements Node.
func (a *Attribute) Children() []Node {
	return nil
}

// Equal implements Node.
func (a *Attribute) Equal(other Node) bool {
	o, ok := other.(*Attribute)
	return ok && a.Name == o.Name && a.TypeName == o.TypeName
}

// Clone implements Node.
func (a *Attribute) Clone() Node {
	cp := &Attribute{Name: a.Name, TypeName: a.TypeName}
	cp.loc = a.loc
	return cp
}

// Apply implements Node.
func (a *Attribute) Apply(m Mapper) {}

// Relation declares a named relation with a fixed attribute list and owns the
// clauses defining it.
type Relation struct {
	nodeLoc

	Name       QualifiedName
	Attributes []*Attribute
	Qualifier  Qualifier

	clauses []*Clause

	// Directives are the I/O directives attached to the relation. They are
	// carried opaquely; evaluation belongs to the I/O layer.
	Directives []*IODirective
}

var _ Node = (*Relation)(nil)

// NewRelation returns a relation with the given name.
func NewRelation(name QualifiedName) *Relation {
	return &Relation{Name: name}
}

// Arity returns the number of attributes.
func (r *Relation) Arity() int {
	return len(r.Attributes)
}

// AddAttribute appends an attribute.
func (r *Relation) AddAttribute(attr *Attribute) {
	r.Attributes = append(r.Attributes, attr)
}

// AddClause appends a clause to the relation.
func (r *Relation) AddClause(clause *Clause) {
	r.clauses = append(r.clauses, clause)
}

// Clauses returns the clauses of the relation, in order of addition.
func (r *Relation) Clauses() []*Clause {
	return r.clauses
}

// ClauseSize returns the number of clauses.
func (r *Relation) ClauseSize() int {
	return len(r.clauses)
}

// RemoveClause deletes the first clause structurally equal to the given one.
func (r *Relation) RemoveClause(clause *Clause) bool {
	for i, c := range r.clauses {
		if c == clause || c.Equal(clause) {
			r.clauses = append(r.clauses[:i], r.clauses[i+1:]...)
			return true
		}
	}
	return false
}

// IsInput reports whether the relation is loaded from facts.
func (r *Relation) IsInput() bool {
	return r.Qualifier&QualifierInput != 0
}

// IsOutput reports whether the relation is stored on completion.
func (r *Relation) IsOutput() bool {
	return r.Qualifier&QualifierOutput != 0
}

// IsPrintSize reports whether the relation's cardinality is reported.
func (r *Relation) IsPrintSize() bool {
	return r.Qualifier&QualifierPrintSize != 0
}

// IsComputed reports whether the relation contributes to the program result.
func (r *Relation) IsComputed() bool {
	return r.IsOutput() || r.IsPrintSize()
}

// IsOverridable reports whether derived components may override its clauses.
func (r *Relation) IsOverridable() bool {
	return r.Qualifier&QualifierOverridable != 0
}

// IsEqRel reports whether the relation is an equivalence relation.
func (r *Relation) IsEqRel() bool {
	return r.Qualifier&QualifierEqRel != 0
}

// IsBTree reports whether b-tree storage is requested.
func (r *Relation) IsBTree() bool {
	return r.Qualifier&QualifierBTree != 0
}

// IsBrie reports whether brie storage is requested.
func (r *Relation) IsBrie() bool {
	return r.Qualifier&QualifierBrie != 0
}

// IsData reports whether the relation is a data relation.
func (r *Relation) IsData() bool {
	return r.Qualifier&QualifierData != 0
}

func (r *Relation) String() string {
	var sb strings.Builder
	attrs := make([]string, len(r.Attributes))
	for i, a := range r.Attributes {
		attrs[i] = a.String()
	}
	fmt.Fprintf(&sb, ".decl %s(%s)", r.Name, strings.Join(attrs, ","))
	for _, q := range []struct {
		bit  Qualifier
		name string
	}{
		{QualifierInput, "input"},
		{QualifierOutput, "output"},
		{QualifierPrintSize, "printsize"},
		{QualifierOverridable, "overridable"},
		{QualifierEqRel, "eqrel"},
		{QualifierBTree, "btree"},
		{QualifierBrie, "brie"},
		{QualifierData, "data"},
	} {
		if r.Qualifier&q.bit != 0 {
			sb.WriteString(" " + q.name)
		}
	}
	for _, d := range r.Directives {
		sb.WriteString("\n" + d.String())
	}
	for _, c := range r.clauses {
		sb.WriteString("\n" + c.String())
	}
	return sb.String()
}

// Children implements Node.
func (r *Relation) Children() []Node {
	var children []Node
	for _, a := range r.Attributes {
		children = append(children, a)
	}
	for _, d := range r.Directives {
		children = append(children, d)
	}
	for _, c := range r.clauses {
		children = append(children, c)
	}
	return children
}

// Equal implements Node.
func (r *Relation) Equal(other Node) bool {
	o, ok := other.(*Relation)
	if !ok || !r.Name.Equal(o.Name) || r.Qualifier != o.Qualifier {
		return false
	}
	if len(r.Attributes) != len(o.Attributes) || len(r.clauses) != len(o.clauses) ||
		len(r.Directives) != len(o.Directives) {
		return false
	}
	for i := range r.Attributes {
		if !r.Attributes[i].Equal(o.Attributes[i]) {
			return false
		}
	}
	for i := range r.Directives {
		if !r.Directives[i].Equal(o.Directives[i]) {
			return false
		}
	}
	for i := range r.clauses {
		if !r.clauses[i].Equal(o.clauses[i]) {
			return false
		}
	}
	return true
}

// Clone implements Node.
func (r *Relation) Clone() Node {
	cp := NewRelation(r.Name)
	cp.Qualifier = r.Qualifier
	for _, a := range r.Attributes {
		cp.Attributes = append(cp.Attributes, a.Clone().(*Attribute))
	}
	for _, d := range r.Directives {
		cp.Directives = append(cp.Directives, d.Clone().(*IODirective))
	}
	for _, c := range r.clauses {
		cp.clauses = append(cp.clauses, c.Clone().(*Clause))
	}
	cp.loc = r.loc
	return cp
}

// Apply implements Node.
func (r *Relation) Apply(m Mapper) {
	for i := range r.Attributes {
		r.Attributes[i] = m.Map(r.Attributes[i]).(*Attribute)
	}
	for i := range r.Directives {
		r.Directives[i] = m.Map(r.Directives[i]).(*IODirective)
	}
	for i := range r.clauses {
		r.clauses[i] = m.Map(r.clauses[i]).(*Clause)
	}
}
