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

// TypeDecl is the sum type of .type declarations.
type TypeDecl interface {
	Node
	// TypeName returns the declared name.
	TypeName() string
	typeDecl()
}

// PrimitiveTypeDecl declares a named alias of number or symbol.
type PrimitiveTypeDecl struct {
	nodeLoc
	Name    string
	Numeric bool
}

var _ TypeDecl = (*PrimitiveTypeDecl)(nil)

// NewPrimitiveTypeDecl returns a primitive type declaration.
func NewPrimitiveTypeDecl(name string, numeric bool) *PrimitiveTypeDecl {
	return &PrimitiveTypeDecl{Name: name, Numeric: numeric}
}

func (*PrimitiveTypeDecl) typeDecl() {}

// TypeName implements TypeDecl.
func (t *PrimitiveTypeDecl) TypeName() string {
	return t.Name
}

func (t *PrimitiveTypeDecl) String() string {
	if t.Numeric {
		return fmt.Sprintf(".type %s = number", t.Name)
	}
	return fmt.Sprintf(".type %s", t.Name)
}

// Children implements Node.
func (t *PrimitiveTypeDecl) Children() []Node {
	return nil
}

// Equal implements Node.
func (t *PrimitiveTypeDecl) Equal(other Node) bool {
	o, ok := other.(*PrimitiveTypeDecl)
	return ok && t.Name == o.Name && t.Numeric == o.Numeric
}

// Clone implements Node.
func (t *PrimitiveTypeDecl) Clone() Node {
	cp := &PrimitiveTypeDecl{Name: t.Name, Numeric: t.Numeric}
	cp.loc = t.loc
	return cp
}

// Apply implements Node.
func (t *PrimitiveTypeDecl) Apply(m Mapper) {}

// UnionTypeDecl declares a union of named types.
type UnionTypeDecl struct {
	nodeLoc
	Name    string
	Members []string
}

var _ TypeDecl = (*UnionTypeDecl)(nil)

// NewUnionTypeDecl returns a union type declaration.
func NewUnionTypeDecl(name string, members ...string) *UnionTypeDecl {
	return &UnionTypeDecl{Name: name, Members: members}
}

func (*UnionTypeDecl) typeDecl() {}

// TypeName implements TypeDecl.
func (t *UnionTypeDecl) TypeName() string {
	return t.Name
}

func (t *UnionTypeDecl) String() string {
	return fmt.Sprintf(".type %s = %s", t.Name, strings.Join(t.Members, " | "))
}

// Children implements Node.
func (t *UnionTypeDecl) Children() []Node {
	return nil
}

// Equal implements Node.
func (t *UnionTypeDecl) Equal(other Node) bool {
	o, ok := other.(*UnionTypeDecl)
	if !ok || t.Name != o.Name || len(t.Members) != len(o.Members) {
		return false
	}
	for i := range t.Members {
		if t.Members[i] != o.Members[i] {
			return false
		}
	}
	return true
}

// Clone implements Node.
func (t *UnionTypeDecl) Clone() Node {
	cp := &UnionTypeDecl{Name: t.Name, Members: append([]string(nil), t.Members...)}
	cp.loc = t.loc
	return cp
}

// Apply implements Node.
func (t *UnionTypeDecl) Apply(m Mapper) {}

// RecordField is a named, typed field of a record type.
type RecordField struct {
	Name     string
	TypeName string
}

// RecordTypeDecl declares a record type. Record types are nominal: two record
// types are distinct even with identical field lists.
type RecordTypeDecl struct {
	nodeLoc
	Name   string
	Fields []RecordField
}

var _ TypeDecl = (*RecordTypeDecl)(nil)

// NewRecordTypeDecl returns a record type declaration.
func NewRecordTypeDecl(name string, fields ...RecordField) *RecordTypeDecl {
	return &RecordTypeDecl{Name: name, Fields: fields}
}

func (*RecordTypeDecl) typeDecl() {}

// TypeName implements TypeDecl.
func (t *RecordTypeDecl) TypeName() string {
	return t.Name
}

func (t *RecordTypeDecl) String() string {
	fields := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		fields[i] = f.Name + ":" + f.TypeName
	}
	return fmt.Sprintf(".type %s = [ %s ]", t.Name, strings.Join(fields, ", "))
}

// Children implements Node.
func (t *RecordTypeDecl) Children() []Node {
	return nil
}

// Equal implements Node.
func (t *RecordTypeDecl) Equal(other Node) bool {
	o, ok := other.(*RecordTypeDecl)
	if !ok || t.Name != o.Name || len(t.Fields) != len(o.Fields) {
		return false
	}
	for i := range t.Fields {
		if t.Fields[i] != o.Fields[i] {
			return false
		}
	}
	return true
}

// Clone implements Node.
func (t *RecordTypeDecl) Clone() Node {
	cp := &RecordTypeDecl{Name: t.Name, Fields: append([]RecordField(nil), t.Fields...)}
	cp.loc = t.loc
	return cp
}

// Apply implements Node.
func (t *RecordTypeDecl) Apply(m Mapper) {}
