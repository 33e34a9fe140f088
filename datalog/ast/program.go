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
	"sort"
	"strings"
)

// Program is the root of the IR: type declarations, relations, components,
// instantiations, orphan clauses whose head does not (yet) resolve to a
// relation, and orphan I/O directives.
type Program struct {
	nodeLoc

	types     map[string]TypeDecl
	relations map[string]*Relation

	components     []*Component
	instantiations []*ComponentInit
	clauses        []*Clause
	directives     []*IODirective
}

var _ Node = (*Program)(nil)

// NewProgram returns an empty program.
func NewProgram() *Program {
	return &Program{
		types:     make(map[string]TypeDecl),
		relations: make(map[string]*Relation),
	}
}

// AddType registers a type declaration. A declaration with a name already
// present is dropped and the first one is kept; no diagnostic is recorded for
// the dropped declaration.
func (p *Program) AddType(t TypeDecl) {
	if _, ok := p.types[t.TypeName()]; ok {
		return
	}
	p.types[t.TypeName()] = t
}

// GetType returns the type declaration with the given name, or nil.
func (p *Program) GetType(name string) TypeDecl {
	return p.types[name]
}

// Types returns the type declarations sorted by name.
func (p *Program) Types() []TypeDecl {
	names := make([]string, 0, len(p.types))
	for n := range p.types {
		names = append(names, n)
	}
	sort.Strings(names)
	types := make([]TypeDecl, len(names))
	for i, n := range names {
		types[i] = p.types[n]
	}
	return types
}

// AddRelation registers a relation under its name.
func (p *Program) AddRelation(r *Relation) {
	p.relations[r.Name.String()] = r
}

// GetRelation returns the relation with the given name, or nil.
func (p *Program) GetRelation(name QualifiedName) *Relation {
	return p.relations[name.String()]
}

// RemoveRelation deletes the relation with the given name.
func (p *Program) RemoveRelation(name QualifiedName) bool {
	key := name.String()
	if _, ok := p.relations[key]; !ok {
		return false
	}
	delete(p.relations, key)
	return true
}

// Relations returns the relations sorted by name.
func (p *Program) Relations() []*Relation {
	names := make([]string, 0, len(p.relations))
	for n := range p.relations {
		names = append(names, n)
	}
	sort.Strings(names)
	rels := make([]*Relation, len(names))
	for i, n := range names {
		rels[i] = p.relations[n]
	}
	return rels
}

// RelationNames returns the relation names sorted.
func (p *Program) RelationNames() []string {
	names := make([]string, 0, len(p.relations))
	for n := range p.relations {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// AddComponent appends a top-level component.
func (p *Program) AddComponent(c *Component) {
	p.components = append(p.components, c)
}

// Components returns the top-level components.
func (p *Program) Components() []*Component {
	return p.components
}

// AddInstantiation appends a top-level instantiation.
func (p *Program) AddInstantiation(init *ComponentInit) {
	p.instantiations = append(p.instantiations, init)
}

// Instantiations returns the top-level instantiations.
func (p *Program) Instantiations() []*ComponentInit {
	return p.instantiations
}

// AppendClause appends an orphan clause.
func (p *Program) AppendClause(cl *Clause) {
	p.clauses = append(p.clauses, cl)
}

// OrphanClauses returns the clauses not owned by any relation.
func (p *Program) OrphanClauses() []*Clause {
	return p.clauses
}

// SetOrphanClauses replaces the orphan clause list.
func (p *Program) SetOrphanClauses(clauses []*Clause) {
	p.clauses = clauses
}

// AddDirective appends an orphan I/O directive.
func (p *Program) AddDirective(d *IODirective) {
	p.directives = append(p.directives, d)
}

// Directives returns the orphan I/O directives.
func (p *Program) Directives() []*IODirective {
	return p.directives
}

// RemoveClause deletes the first clause structurally equal to the given one,
// searching the owning relation first, then the orphan list.
func (p *Program) RemoveClause(cl *Clause) bool {
	if cl.Head != nil {
		if rel := p.GetRelation(cl.Head.Name); rel != nil {
			if rel.RemoveClause(cl) {
				return true
			}
		}
	}
	for i, orphan := range p.clauses {
		if orphan == cl || orphan.Equal(cl) {
			p.clauses = append(p.clauses[:i], p.clauses[i+1:]...)
			return true
		}
	}
	return false
}

func (p *Program) String() string {
	var parts []string
	for _, t := range p.Types() {
		parts = append(parts, t.String())
	}
	for _, c := range p.components {
		parts = append(parts, c.String())
	}
	for _, init := range p.instantiations {
		parts = append(parts, init.String())
	}
	for _, r := range p.Relations() {
		parts = append(parts, r.String())
	}
	for _, cl := range p.clauses {
		parts = append(parts, cl.String())
	}
	for _, d := range p.directives {
		parts = append(parts, d.String())
	}
	return strings.Join(parts, "\n")
}

// Children implements Node.
func (p *Program) Children() []Node {
	var children []Node
	for _, t := range p.Types() {
		children = append(children, t)
	}
	for _, r := range p.Relations() {
		children = append(children, r)
	}
	for _, c := range p.components {
		children = append(children, c)
	}
	for _, init := range p.instantiations {
		children = append(children, init)
	}
	for _, cl := range p.clauses {
		children = append(children, cl)
	}
	for _, d := range p.directives {
		children = append(children, d)
	}
	return children
}

// Equal implements Node.
func (p *Program) Equal(other Node) bool {
	o, ok := other.(*Program)
	if !ok {
		return false
	}
	mine, theirs := p.Children(), o.Children()
	if len(mine) != len(theirs) {
		return false
	}
	for i := range mine {
		if !mine[i].Equal(theirs[i]) {
			return false
		}
	}
	return true
}

// Clone implements Node.
func (p *Program) Clone() Node {
	cp := NewProgram()
	for _, t := range p.Types() {
		cp.AddType(t.Clone().(TypeDecl))
	}
	for _, r := range p.Relations() {
		cp.AddRelation(r.Clone().(*Relation))
	}
	for _, c := range p.components {
		cp.components = append(cp.components, c.Clone().(*Component))
	}
	for _, init := range p.instantiations {
		cp.instantiations = append(cp.instantiations, init.Clone().(*ComponentInit))
	}
	for _, cl := range p.clauses {
		cp.clauses = append(cp.clauses, cl.Clone().(*Clause))
	}
	for _, d := range p.directives {
		cp.directives = append(cp.directives, d.Clone().(*IODirective))
	}
	cp.loc = p.loc
	return cp
}

// Apply implements Node.
func (p *Program) Apply(m Mapper) {
	for name, t := range p.types {
		p.types[name] = m.Map(t).(TypeDecl)
	}
	for name, r := range p.relations {
		p.relations[name] = m.Map(r).(*Relation)
	}
	for i := range p.components {
		p.components[i] = m.Map(p.components[i]).(*Component)
	}
	for i := range p.instantiations {
		p.instantiations[i] = m.Map(p.instantiations[i]).(*ComponentInit)
	}
	for i := range p.clauses {
		p.clauses[i] = m.Map(p.clauses[i]).(*Clause)
	}
	for i := range p.directives {
		p.directives[i] = m.Map(p.directives[i]).(*IODirective)
	}
}
