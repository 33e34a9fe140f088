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

// ComponentType names a component together with type parameters: the formal
// parameters at the declaration site, the actual parameters at use sites.
type ComponentType struct {
	Name       string
	TypeParams []string
}

// NewComponentType returns a component type.
func NewComponentType(name string, params ...string) ComponentType {
	return ComponentType{Name: name, TypeParams: params}
}

func (t ComponentType) String() string {
	if len(t.TypeParams) == 0 {
		return t.Name
	}
	return fmt.Sprintf("%s<%s>", t.Name, strings.Join(t.TypeParams, ","))
}

// Equal reports whether both types have the same name and parameters.
func (t ComponentType) Equal(other ComponentType) bool {
	if t.Name != other.Name || len(t.TypeParams) != len(other.TypeParams) {
		return false
	}
	for i := range t.TypeParams {
		if t.TypeParams[i] != other.TypeParams[i] {
			return false
		}
	}
	return true
}

// clone returns a deep copy of the component type.
func (t ComponentType) clone() ComponentType {
	return ComponentType{Name: t.Name, TypeParams: append([]string(nil), t.TypeParams...)}
}

// TypeBinding maps formal component type parameters to actual type names
// during instantiation. The zero value is the empty binding.
type TypeBinding struct {
	binding map[string]string
}

// NewTypeBinding returns an empty binding.
func NewTypeBinding() TypeBinding {
	return TypeBinding{}
}

// Find returns the binding for the given name, or the empty string when the
// name is not bound. Lookup is not recursive; a forwarded parameter is
// followed one step only.
func (b TypeBinding) Find(name string) string {
	return b.binding[name]
}

// Extend returns a binding extended with (formal[i] -> actual[i]) pairs. An
// actual parameter that is itself bound is resolved through the current
// binding one step.
func (b TypeBinding) Extend(formal, actual []string) TypeBinding {
	if len(formal) != len(actual) {
		return b
	}
	ext := TypeBinding{binding: make(map[string]string, len(b.binding)+len(formal))}
	for k, v := range b.binding {
		ext.binding[k] = v
	}
	for i := range formal {
		if fwd := b.Find(actual[i]); fwd != "" {
			ext.binding[formal[i]] = fwd
		} else {
			ext.binding[formal[i]] = actual[i]
		}
	}
	return ext
}

// Component is a parameterised module of relations, clauses, types, nested
// components and nested instantiations, possibly inheriting from base
// components.
type Component struct {
	nodeLoc

	Type  ComponentType
	Bases []ComponentType

	types          []TypeDecl
	relations      []*Relation
	clauses        []*Clause
	directives     []*IODirective
	components     []*Component
	instantiations []*ComponentInit

	overridden map[string]bool
}

var _ Node = (*Component)(nil)

// NewComponent returns a component of the given type.
func NewComponent(typ ComponentType) *Component {
	return &Component{Type: typ, overridden: make(map[string]bool)}
}

// AddBase appends a base component type.
func (c *Component) AddBase(base ComponentType) {
	c.Bases = append(c.Bases, base)
}

// AddType appends a nested type declaration.
func (c *Component) AddType(t TypeDecl) {
	c.types = append(c.types, t)
}

// Types returns the nested type declarations.
func (c *Component) Types() []TypeDecl {
	return c.types
}

// AddRelation appends a relation.
func (c *Component) AddRelation(r *Relation) {
	c.relations = append(c.relations, r)
}

// Relations returns the component's relations.
func (c *Component) Relations() []*Relation {
	return c.relations
}

// AddClause appends a clause.
func (c *Component) AddClause(cl *Clause) {
	c.clauses = append(c.clauses, cl)
}

// Clauses returns the component's clauses.
func (c *Component) Clauses() []*Clause {
	return c.clauses
}

// AddDirective appends an I/O directive.
func (c *Component) AddDirective(d *IODirective) {
	c.directives = append(c.directives, d)
}

// Directives returns the component's I/O directives.
func (c *Component) Directives() []*IODirective {
	return c.directives
}

// AddComponent appends a nested component.
func (c *Component) AddComponent(nested *Component) {
	c.components = append(c.components, nested)
}

// Components returns the nested components.
func (c *Component) Components() []*Component {
	return c.components
}

// AddInstantiation appends a nested instantiation.
func (c *Component) AddInstantiation(init *ComponentInit) {
	c.instantiations = append(c.instantiations, init)
}

// Instantiations returns the nested instantiations.
func (c *Component) Instantiations() []*ComponentInit {
	return c.instantiations
}

// AddOverride records a .override of the named inherited relation.
func (c *Component) AddOverride(name string) {
	c.overridden[name] = true
}

// Overridden returns the set of overridden relation short names.
func (c *Component) Overridden() map[string]bool {
	return c.overridden
}

// OverriddenNames returns the overridden short names, sorted.
func (c *Component) OverriddenNames() []string {
	names := make([]string, 0, len(c.overridden))
	for n := range c.overridden {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (c *Component) String() string {
	var sb strings.Builder
	sb.WriteString(".comp " + c.Type.String())
	if len(c.Bases) > 0 {
		bases := make([]string, len(c.Bases))
		for i, b := range c.Bases {
			bases[i] = b.String()
		}
		sb.WriteString(" : " + strings.Join(bases, ","))
	}
	sb.WriteString(" {\n")
	for _, t := range c.types {
		sb.WriteString(t.String() + "\n")
	}
	for _, r := range c.relations {
		sb.WriteString(r.String() + "\n")
	}
	for _, n := range c.OverriddenNames() {
		sb.WriteString(".override " + n + "\n")
	}
	for _, nested := range c.components {
		sb.WriteString(nested.String() + "\n")
	}
	for _, init := range c.instantiations {
		sb.WriteString(init.String() + "\n")
	}
	for _, cl := range c.clauses {
		sb.WriteString(cl.String() + "\n")
	}
	for _, d := range c.directives {
		sb.WriteString(d.String() + "\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// Children implements Node.
func (c *Component) Children() []Node {
	var children []Node
	for _, t := range c.types {
		children = append(children, t)
	}
	for _, r := range c.relations {
		children = append(children, r)
	}
	for _, cl := range c.clauses {
		children = append(children, cl)
	}
	for _, d := range c.directives {
		children = append(children, d)
	}
	for _, nested := range c.components {
		children = append(children, nested)
	}
	for _, init := range c.instantiations {
		children = append(children, init)
	}
	return children
}

// Equal implements Node.
func (c *Component) Equal(other Node) bool {
	o, ok := other.(*Component)
	if !ok || !c.Type.Equal(o.Type) || len(c.Bases) != len(o.Bases) {
		return false
	}
	for i := range c.Bases {
		if !c.Bases[i].Equal(o.Bases[i]) {
			return false
		}
	}
	if len(c.overridden) != len(o.overridden) {
		return false
	}
	for n := range c.overridden {
		if !o.overridden[n] {
			return false
		}
	}
	mine, theirs := c.Children(), o.Children()
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
func (c *Component) Clone() Node {
	cp := NewComponent(c.Type.clone())
	for _, b := range c.Bases {
		cp.Bases = append(cp.Bases, b.clone())
	}
	for _, t := range c.types {
		cp.types = append(cp.types, t.Clone().(TypeDecl))
	}
	for _, r := range c.relations {
		cp.relations = append(cp.relations, r.Clone().(*Relation))
	}
	for _, cl := range c.clauses {
		cp.clauses = append(cp.clauses, cl.Clone().(*Clause))
	}
	for _, d := range c.directives {
		cp.directives = append(cp.directives, d.Clone().(*IODirective))
	}
	for _, nested := range c.components {
		cp.components = append(cp.components, nested.Clone().(*Component))
	}
	for _, init := range c.instantiations {
		cp.instantiations = append(cp.instantiations, init.Clone().(*ComponentInit))
	}
	for n := range c.overridden {
		cp.overridden[n] = true
	}
	cp.loc = c.loc
	return cp
}

// Apply implements Node.
func (c *Component) Apply(m Mapper) {
	for i := range c.types {
		c.types[i] = m.Map(c.types[i]).(TypeDecl)
	}
	for i := range c.relations {
		c.relations[i] = m.Map(c.relations[i]).(*Relation)
	}
	for i := range c.clauses {
		c.clauses[i] = m.Map(c.clauses[i]).(*Clause)
	}
	for i := range c.directives {
		c.directives[i] = m.Map(c.directives[i]).(*IODirective)
	}
	for i := range c.components {
		c.components[i] = m.Map(c.components[i]).(*Component)
	}
	for i := range c.instantiations {
		c.instantiations[i] = m.Map(c.instantiations[i]).(*ComponentInit)
	}
}

// ComponentInit instantiates a component under an instance name.
type ComponentInit struct {
	nodeLoc
	InstanceName string
	Type         ComponentType
}

var _ Node = (*ComponentInit)(nil)

// NewComponentInit returns an instantiation of the given component type.
func NewComponentInit(instanceName string, typ ComponentType) *ComponentInit {
	return &ComponentInit{InstanceName: instanceName, Type: typ}
}

func (i *ComponentInit) String() string {
	return fmt.Sprintf(".init %s = %s", i.InstanceName, i.Type)
}

// Children implements Node.
func (i *ComponentInit) Children() []Node {
	return nil
}

// Equal implements Node.
func (i *ComponentInit) Equal(other Node) bool {
	o, ok := other.(*ComponentInit)
	return ok && i.InstanceName == o.InstanceName && i.Type.Equal(o.Type)
}

// Clone implements Node.
func (i *ComponentInit) Clone() Node {
	cp := &ComponentInit{InstanceName: i.InstanceName, Type: i.Type.clone()}
	cp.loc = i.loc
	return cp
}

// Apply implements Node.
func (i *ComponentInit) Apply(m Mapper) {}
