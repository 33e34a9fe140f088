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

package types

import "strings"

// isOfRootType reports whether the type derives from the given predefined
// root through primitive base chains and union memberships. The seen set
// breaks cycles in recursive unions.
func isOfRootType(t, root Type, seen map[string]bool) bool {
	if seen[t.Name()] {
		return false
	}
	seen[t.Name()] = true

	switch tt := t.(type) {
	case *predefinedType:
		return t == root
	case *Primitive:
		if t == root {
			return true
		}
		base := tt.Base()
		return base != nil && (base == root || isOfRootType(base, root, seen))
	case *Union:
		members := tt.Members()
		if len(members) == 0 {
			return false
		}
		for _, m := range members {
			if !isOfRootType(m, root, seen) {
				return false
			}
		}
		return true
	}
	return false
}

// IsNumberType reports whether the type derives from number.
func IsNumberType(t Type) bool {
	return isOfRootType(t, t.env().NumberType(), map[string]bool{})
}

// IsSymbolType reports whether the type derives from symbol.
func IsSymbolType(t Type) bool {
	return isOfRootType(t, t.env().SymbolType(), map[string]bool{})
}

// IsRecordType reports whether the type is a record type.
func IsRecordType(t Type) bool {
	_, ok := t.(*Record)
	return ok
}

// IsNumberTypeSet reports whether the set is non-empty, enumerable and
// contains number types only.
func IsNumberTypeSet(s TypeSet) bool {
	return allOfSet(s, IsNumberType)
}

// IsSymbolTypeSet reports whether the set is non-empty, enumerable and
// contains symbol types only.
func IsSymbolTypeSet(s TypeSet) bool {
	return allOfSet(s, IsSymbolType)
}

// IsRecordTypeSet reports whether the set is non-empty, enumerable and
// contains record types only.
func IsRecordTypeSet(s TypeSet) bool {
	return allOfSet(s, IsRecordType)
}

func allOfSet(s TypeSet, pred func(Type) bool) bool {
	if s.Empty() || s.IsAll() {
		return false
	}
	for _, t := range s.Types() {
		if !pred(t) {
			return false
		}
	}
	return true
}

// IsRecursiveType reports whether a record type reaches itself through its
// fields, directly or through unions.
func IsRecursiveType(t Type) bool {
	rec, ok := t.(*Record)
	if !ok {
		return false
	}
	var reaches func(cur Type, seen map[string]bool) bool
	reaches = func(cur Type, seen map[string]bool) bool {
		if cur == t {
			return true
		}
		if seen[cur.Name()] {
			return false
		}
		seen[cur.Name()] = true
		switch tt := cur.(type) {
		case *Union:
			for _, m := range tt.Members() {
				if reaches(m, seen) {
					return true
				}
			}
		case *Record:
			for i := range tt.Fields() {
				if ft := tt.FieldType(i); ft != nil && reaches(ft, seen) {
					return true
				}
			}
		}
		return false
	}
	seen := map[string]bool{rec.Name(): true}
	for i := range rec.Fields() {
		if ft := rec.FieldType(i); ft != nil && reaches(ft, seen) {
			return true
		}
	}
	return false
}

// isMemberOfUnion reports whether target is in the transitive member closure
// of the union.
func isMemberOfUnion(target Type, u *Union, seen map[string]bool) bool {
	if seen[u.Name()] {
		return false
	}
	seen[u.Name()] = true
	for _, m := range u.Members() {
		if m == target {
			return true
		}
		if mu, ok := m.(*Union); ok && isMemberOfUnion(target, mu, seen) {
			return true
		}
	}
	return false
}

// IsSubtypeOf reports whether a is a subtype of b: reflexively, through the
// predefined roots, through primitive base chains, and through transitive
// union membership.
func IsSubtypeOf(a, b Type) bool {
	env := a.env()

	if a == b {
		return true
	}

	if b == env.NumberType() {
		return IsNumberType(a)
	}
	if b == env.SymbolType() {
		return IsSymbolType(a)
	}

	if prim, ok := a.(*Primitive); ok {
		if base := prim.Base(); base != nil && IsSubtypeOf(base, b) {
			return true
		}
	}

	if u, ok := b.(*Union); ok {
		return isMemberOfUnion(a, u, map[string]bool{})
	}

	return false
}

// AreSubtypesOf reports whether every type of s is a subtype of b.
func AreSubtypesOf(s TypeSet, b Type) bool {
	if s.IsAll() {
		return false
	}
	for _, t := range s.Types() {
		if !IsSubtypeOf(t, b) {
			return false
		}
	}
	return true
}

// LeastCommonSupertypes computes the set of least common supertypes of two
// types.
func LeastCommonSupertypes(a, b Type) TypeSet {
	if a == b {
		return NewTypeSet(a)
	}
	if IsSubtypeOf(a, b) {
		return NewTypeSet(b)
	}
	if IsSubtypeOf(b, a) {
		return NewTypeSet(a)
	}

	// no obvious relation: filter all common supertypes down to the least
	superTypes := NewTypeSet()
	for _, cur := range a.env().AllTypes().Types() {
		if IsSubtypeOf(a, cur) && IsSubtypeOf(b, cur) {
			superTypes.Insert(cur)
		}
	}

	res := NewTypeSet()
	for _, cur := range superTypes.Types() {
		least := true
		for _, other := range superTypes.Types() {
			if other != cur && IsSubtypeOf(other, cur) {
				least = false
				break
			}
		}
		if least {
			res.Insert(cur)
		}
	}
	return res
}

// LeastCommonSupertypesOfSet computes the least common supertypes of all
// types in the set.
func LeastCommonSupertypesOfSet(set TypeSet) TypeSet {
	if set.Empty() {
		return set
	}
	if set.IsAll() {
		return NewTypeSet()
	}
	ts := set.Types()
	res := NewTypeSet(ts[0])
	for _, cur := range ts[1:] {
		tmp := NewTypeSet()
		for _, r := range res.Types() {
			tmp.InsertSet(LeastCommonSupertypes(r, cur))
		}
		res = tmp
	}
	return res
}

// PairwiseLeastCommonSupertypes computes the set of pairwise least common
// supertypes of two sets.
func PairwiseLeastCommonSupertypes(a, b TypeSet) TypeSet {
	if a.Empty() {
		return a
	}
	if b.Empty() {
		return b
	}
	if a.IsAll() {
		return b
	}
	if b.IsAll() {
		return a
	}
	res := NewTypeSet()
	for _, x := range a.Types() {
		for _, y := range b.Types() {
			res.InsertSet(LeastCommonSupertypes(x, y))
		}
	}
	return res
}

// GreatestCommonSubtypes computes the set of greatest common subtypes of two
// types.
func GreatestCommonSubtypes(a, b Type) TypeSet {
	if a == b {
		return NewTypeSet(a)
	}
	if IsSubtypeOf(a, b) {
		return NewTypeSet(a)
	}
	if IsSubtypeOf(b, a) {
		return NewTypeSet(b)
	}

	// remaining option: both unions with common subtypes
	res := NewTypeSet()
	ua, okA := a.(*Union)
	_, okB := b.(*Union)
	if okA && okB {
		collectCommonSubtypes(ua, b, &res, map[string]bool{})
	}
	return res
}

// collectCommonSubtypes gathers members of union a that are subtypes of b.
func collectCommonSubtypes(a Type, b Type, res *TypeSet, seen map[string]bool) {
	if seen[a.Name()] {
		return
	}
	seen[a.Name()] = true
	if IsSubtypeOf(a, b) {
		res.Insert(a)
		return
	}
	if u, ok := a.(*Union); ok {
		for _, m := range u.Members() {
			collectCommonSubtypes(m, b, res, seen)
		}
	}
}

// GreatestCommonSubtypesOfSet computes the greatest common subtypes of all
// types in the set.
func GreatestCommonSubtypesOfSet(set TypeSet) TypeSet {
	if set.Empty() {
		return set
	}
	if set.IsAll() {
		return NewTypeSet()
	}
	ts := set.Types()
	res := NewTypeSet(ts[0])
	for _, cur := range ts[1:] {
		tmp := NewTypeSet()
		for _, r := range res.Types() {
			tmp.InsertSet(GreatestCommonSubtypes(r, cur))
		}
		res = tmp
	}
	return res
}

// PairwiseGreatestCommonSubtypes computes the set of pairwise greatest common
// subtypes of two sets. The universal set is the identity.
func PairwiseGreatestCommonSubtypes(a, b TypeSet) TypeSet {
	if a.IsAll() {
		return b
	}
	if b.IsAll() {
		return a
	}
	if a.Empty() {
		return a
	}
	if b.Empty() {
		return b
	}
	res := NewTypeSet()
	for _, x := range a.Types() {
		for _, y := range b.Types() {
			res.InsertSet(GreatestCommonSubtypes(x, y))
		}
	}
	return res
}

// Qualifier returns the unique type qualifier string of a type: i:/s:/r:
// prefixed names, with union and record structure spelled out.
func Qualifier(t Type) string {
	return qualifier(t, map[string]string{})
}

func qualifier(t Type, seen map[string]string) string {
	if q, ok := seen[t.Name()]; ok {
		return q
	}

	base := func() string {
		switch {
		case IsNumberType(t):
			return "i:" + t.Name()
		case IsSymbolType(t):
			return "s:" + t.Name()
		case IsRecordType(t):
			return "r:" + t.Name()
		}
		return "u:" + t.Name()
	}()
	seen[t.Name()] = base

	switch tt := t.(type) {
	case *Union:
		parts := make([]string, 0, len(tt.Members()))
		for _, m := range tt.Members() {
			parts = append(parts, qualifier(m, seen))
		}
		return base + "[" + strings.Join(parts, ",") + "]"
	case *Record:
		parts := make([]string, 0, len(tt.Fields()))
		for i, f := range tt.Fields() {
			ft := tt.FieldType(i)
			q := ""
			if ft != nil {
				q = qualifier(ft, seen)
			}
			parts = append(parts, f.Name+"#"+q)
		}
		return base + "{" + strings.Join(parts, ",") + "}"
	}
	return base
}
