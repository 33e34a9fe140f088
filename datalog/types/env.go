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

// Package types implements the named type environment of a Datalog program
// and the sub-/super-type lattice operations over it.
//
// Types reference each other by name and are resolved through the
// environment, so recursive record and union types need no special handling
// beyond per-operation seen sets.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// NumberName and SymbolName are the two predefined types, always present in
// an environment.
const (
	NumberName = "number"
	SymbolName = "symbol"
)

// Type is a named type within an environment. Two types are identical iff
// they are the same object; names are unique per environment.
type Type interface {
	fmt.Stringer
	Name() string
	env() *Env
}

// predefinedType backs the builtin number and symbol types.
type predefinedType struct {
	e    *Env
	name string
}

func (t *predefinedType) Name() string { return t.name }
func (t *predefinedType) env() *Env    { return t.e }
func (t *predefinedType) String() string {
	return t.name
}

// Primitive is a named alias of number or symbol, or of another primitive.
type Primitive struct {
	e    *Env
	name string
	base string
}

// Name implements Type.
func (t *Primitive) Name() string { return t.name }

func (t *Primitive) env() *Env { return t.e }

// Base returns the base type of the alias.
func (t *Primitive) Base() Type {
	return t.e.Type(t.base)
}

func (t *Primitive) String() string {
	return fmt.Sprintf("%s <: %s", t.name, t.base)
}

// Union combines a list of member types into an aggregated type.
type Union struct {
	e       *Env
	name    string
	members []string
}

// Name implements Type.
func (t *Union) Name() string { return t.name }

func (t *Union) env() *Env { return t.e }

// Add appends a member type.
func (t *Union) Add(member Type) {
	t.members = append(t.members, member.Name())
}

// Members returns the member types. Unresolvable members are skipped.
func (t *Union) Members() []Type {
	members := make([]Type, 0, len(t.members))
	for _, name := range t.members {
		if m := t.e.Type(name); m != nil {
			members = append(members, m)
		}
	}
	return members
}

func (t *Union) String() string {
	return fmt.Sprintf("%s = %s", t.name, strings.Join(t.members, " | "))
}

// Field is a named, typed record field.
type Field struct {
	Name     string
	TypeName string
}

// Record combines a list of fields into an aggregated type. Record types are
// nominal.
type Record struct {
	e      *Env
	name   string
	fields []Field
}

// Name implements Type.
func (t *Record) Name() string { return t.name }

func (t *Record) env() *Env { return t.e }

// Add appends a field.
func (t *Record) Add(name string, typ Type) {
	t.fields = append(t.fields, Field{Name: name, TypeName: typ.Name()})
}

// Fields returns the record fields.
func (t *Record) Fields() []Field {
	return t.fields
}

// FieldType resolves the type of field i; nil when unresolvable.
func (t *Record) FieldType(i int) Type {
	if i < 0 || i >= len(t.fields) {
		return nil
	}
	return t.e.Type(t.fields[i].TypeName)
}

func (t *Record) String() string {
	if len(t.fields) == 0 {
		return t.name + " = ()"
	}
	fields := make([]string, len(t.fields))
	for i, f := range t.fields {
		fields[i] = f.Name + " : " + f.TypeName
	}
	return fmt.Sprintf("%s = ( %s )", t.name, strings.Join(fields, " , "))
}

// Env enumerates the types of one program and manages their life cycle. It
// always contains the predefined number and symbol types.
type Env struct {
	types map[string]Type
}

// NewEnv returns an environment containing only the predefined types.
func NewEnv() *Env {
	e := &Env{}
	e.Clear()
	return e
}

// Clear re-initialises the environment to the predefined types.
func (e *Env) Clear() {
	e.types = map[string]Type{
		NumberName: &predefinedType{e: e, name: NumberName},
		SymbolName: &predefinedType{e: e, name: SymbolName},
	}
}

// IsType reports whether a type with the given name exists.
func (e *Env) IsType(name string) bool {
	_, ok := e.types[name]
	return ok
}

// Type returns the type with the given name, or nil.
func (e *Env) Type(name string) Type {
	return e.types[name]
}

// NumberType returns the predefined number type.
func (e *Env) NumberType() Type {
	return e.types[NumberName]
}

// SymbolType returns the predefined symbol type.
func (e *Env) SymbolType() Type {
	return e.types[SymbolName]
}

// CreateNumericType creates a named alias of number.
func (e *Env) CreateNumericType(name string) *Primitive {
	t := &Primitive{e: e, name: name, base: NumberName}
	e.add(t)
	return t
}

// CreateSymbolType creates a named alias of symbol.
func (e *Env) CreateSymbolType(name string) *Primitive {
	t := &Primitive{e: e, name: name, base: SymbolName}
	e.add(t)
	return t
}

// CreateUnionType creates an empty union type.
func (e *Env) CreateUnionType(name string) *Union {
	t := &Union{e: e, name: name}
	e.add(t)
	return t
}

// CreateRecordType creates an empty record type.
func (e *Env) CreateRecordType(name string) *Record {
	t := &Record{e: e, name: name}
	e.add(t)
	return t
}

func (e *Env) add(t Type) {
	if _, ok := e.types[t.Name()]; ok {
		panic("registering present type " + t.Name())
	}
	e.types[t.Name()] = t
}

// AllTypes returns the enumerated set of every type in the environment.
func (e *Env) AllTypes() TypeSet {
	res := NewTypeSet()
	for _, t := range e.types {
		res.Insert(t)
	}
	return res
}

func (e *Env) String() string {
	names := make([]string, 0, len(e.types))
	for n := range e.types {
		names = append(names, n)
	}
	sort.Strings(names)
	var sb strings.Builder
	sb.WriteString("Types:\n")
	for _, n := range names {
		sb.WriteString("\t" + e.types[n].String() + "\n")
	}
	return sb.String()
}

// TypeSet represents a set of types. Besides ordinary sets, it can represent
// the set of all types (the bottom of the inference lattice) without
// enumerating it.
type TypeSet struct {
	all   bool
	types map[string]Type
}

// NewTypeSet returns a set containing the given types.
func NewTypeSet(ts ...Type) TypeSet {
	s := TypeSet{types: make(map[string]Type)}
	for _, t := range ts {
		s.types[t.Name()] = t
	}
	return s
}

// AllTypeSet returns the universal set.
func AllTypeSet() TypeSet {
	return TypeSet{all: true, types: make(map[string]Type)}
}

// IsAll reports whether the set is the universal set.
func (s TypeSet) IsAll() bool {
	return s.all
}

// Empty reports whether the set contains no types and is not universal.
func (s TypeSet) Empty() bool {
	return !s.all && len(s.types) == 0
}

// Size returns the number of types in a non-universal set.
func (s TypeSet) Size() int {
	if s.all {
		panic("unable to give size of universe")
	}
	return len(s.types)
}

// Contains reports whether the set includes the given type.
func (s TypeSet) Contains(t Type) bool {
	if s.all {
		return true
	}
	_, ok := s.types[t.Name()]
	return ok
}

// Insert adds a type to the set; a no-op on the universal set.
func (s *TypeSet) Insert(t Type) {
	if s.all {
		return
	}
	if s.types == nil {
		s.types = make(map[string]Type)
	}
	s.types[t.Name()] = t
}

// InsertSet adds every type of the other set. Inserting the universal set
// makes this set universal.
func (s *TypeSet) InsertSet(other TypeSet) {
	if s.all {
		return
	}
	if other.all {
		s.all = true
		s.types = make(map[string]Type)
		return
	}
	for _, t := range other.types {
		s.Insert(t)
	}
}

// Types returns the member types sorted by name. Panics on the universal set.
func (s TypeSet) Types() []Type {
	if s.all {
		panic("unable to enumerate universe")
	}
	names := make([]string, 0, len(s.types))
	for n := range s.types {
		names = append(names, n)
	}
	sort.Strings(names)
	ts := make([]Type, len(names))
	for i, n := range names {
		ts[i] = s.types[n]
	}
	return ts
}

// IsSubsetOf reports whether every member of s is a member of other.
func (s TypeSet) IsSubsetOf(other TypeSet) bool {
	if s.all {
		return other.all
	}
	for _, t := range s.types {
		if !other.Contains(t) {
			return false
		}
	}
	return true
}

// Equal reports set equality.
func (s TypeSet) Equal(other TypeSet) bool {
	if s.all != other.all || len(s.types) != len(other.types) {
		return false
	}
	for n := range s.types {
		if _, ok := other.types[n]; !ok {
			return false
		}
	}
	return true
}

func (s TypeSet) String() string {
	if s.all {
		return "{ - all types - }"
	}
	names := make([]string, 0, len(s.types))
	for n := range s.types {
		names = append(names, n)
	}
	sort.Strings(names)
	return "{" + strings.Join(names, ",") + "}"
}
