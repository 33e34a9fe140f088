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

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnvPredefinedTypes(t *testing.T) {
	require := require.New(t)

	env := NewEnv()
	require.True(env.IsType("number"))
	require.True(env.IsType("symbol"))
	require.False(env.IsType("lines"))

	require.True(IsNumberType(env.NumberType()))
	require.True(IsSymbolType(env.SymbolType()))
	require.False(IsNumberType(env.SymbolType()))
}

func TestPrimitiveChains(t *testing.T) {
	require := require.New(t)

	env := NewEnv()
	a := env.CreateNumericType("A")
	s := env.CreateSymbolType("S")

	require.True(IsNumberType(a))
	require.False(IsSymbolType(a))
	require.True(IsSymbolType(s))

	require.True(IsSubtypeOf(a, env.NumberType()))
	require.False(IsSubtypeOf(env.NumberType(), a))
	require.False(IsSubtypeOf(a, s))
}

func TestUnionSubtyping(t *testing.T) {
	require := require.New(t)

	env := NewEnv()
	a := env.CreateNumericType("A")
	b := env.CreateNumericType("B")
	c := env.CreateNumericType("C")
	u := env.CreateUnionType("U")
	u.Add(a)
	u.Add(b)

	// membership in the transitive closure
	require.True(IsSubtypeOf(a, u))
	require.True(IsSubtypeOf(b, u))
	require.False(IsSubtypeOf(c, u))

	// a union of number types is a number type
	require.True(IsNumberType(u))

	// nested unions
	w := env.CreateUnionType("W")
	w.Add(u)
	w.Add(c)
	require.True(IsSubtypeOf(a, w))
	require.True(IsSubtypeOf(u, w))
	require.False(IsSubtypeOf(w, u))
}

func TestSubtypeLatticeProperties(t *testing.T) {
	require := require.New(t)

	env := NewEnv()
	a := env.CreateNumericType("A")
	b := env.CreateNumericType("B")
	u := env.CreateUnionType("U")
	u.Add(a)
	u.Add(b)

	all := []Type{env.NumberType(), env.SymbolType(), a, b, u}

	// reflexive
	for _, x := range all {
		require.True(IsSubtypeOf(x, x), "%s must be a subtype of itself", x.Name())
	}

	// transitive
	for _, x := range all {
		for _, y := range all {
			for _, z := range all {
				if IsSubtypeOf(x, y) && IsSubtypeOf(y, z) {
					require.True(IsSubtypeOf(x, z), "%s <: %s <: %s", x.Name(), y.Name(), z.Name())
				}
			}
		}
	}

	// antisymmetric
	for _, x := range all {
		for _, y := range all {
			if x != y && IsSubtypeOf(x, y) {
				require.False(IsSubtypeOf(y, x), "%s and %s", x.Name(), y.Name())
			}
		}
	}
}

func TestGreatestCommonSubtypes(t *testing.T) {
	require := require.New(t)

	env := NewEnv()
	a := env.CreateNumericType("A")
	b := env.CreateNumericType("B")
	u := env.CreateUnionType("U")
	u.Add(a)
	u.Add(b)

	require.Equal("{A}", GreatestCommonSubtypes(a, a).String())
	require.Equal("{A}", GreatestCommonSubtypes(a, u).String())
	require.Equal("{A}", GreatestCommonSubtypes(u, a).String())
	require.Equal("{A}", GreatestCommonSubtypes(a, env.NumberType()).String())
	require.Equal("{}", GreatestCommonSubtypes(a, b).String())
	require.Equal("{}", GreatestCommonSubtypes(a, env.SymbolType()).String())

	// gcs(A, B) is a subtype of both
	for _, x := range []Type{a, u, env.NumberType()} {
		for _, y := range []Type{a, u, env.NumberType()} {
			for _, g := range GreatestCommonSubtypes(x, y).Types() {
				require.True(IsSubtypeOf(g, x))
				require.True(IsSubtypeOf(g, y))
			}
		}
	}

	// common members of two unions
	v := env.CreateUnionType("V")
	v.Add(a)
	require.Equal("{A}", GreatestCommonSubtypes(u, v).String())
}

func TestLeastCommonSupertypes(t *testing.T) {
	require := require.New(t)

	env := NewEnv()
	a := env.CreateNumericType("A")
	b := env.CreateNumericType("B")
	u := env.CreateUnionType("U")
	u.Add(a)
	u.Add(b)

	require.Equal("{U}", LeastCommonSupertypes(a, b).String())
	require.Equal("{U}", LeastCommonSupertypes(a, u).String())
	require.Equal("{number}", LeastCommonSupertypes(a, env.NumberType()).String())

	// both operands are below every least common supertype
	for _, l := range LeastCommonSupertypes(a, b).Types() {
		require.True(IsSubtypeOf(a, l))
		require.True(IsSubtypeOf(b, l))
	}
}

func TestPairwiseSetOperations(t *testing.T) {
	require := require.New(t)

	env := NewEnv()
	a := env.CreateNumericType("A")
	b := env.CreateNumericType("B")
	u := env.CreateUnionType("U")
	u.Add(a)
	u.Add(b)

	all := AllTypeSet()
	require.True(PairwiseGreatestCommonSubtypes(all, NewTypeSet(a)).Equal(NewTypeSet(a)))
	require.True(PairwiseGreatestCommonSubtypes(NewTypeSet(u), NewTypeSet(a)).Equal(NewTypeSet(a)))
	require.True(PairwiseGreatestCommonSubtypes(NewTypeSet(a), NewTypeSet(b)).Empty())
}

func TestRecordTypes(t *testing.T) {
	require := require.New(t)

	env := NewEnv()
	r := env.CreateRecordType("List")
	r.Add("head", env.NumberType())
	r.Add("tail", r)

	require.True(IsRecordType(r))
	require.False(IsNumberType(r))
	require.False(IsSymbolType(r))
	require.True(IsRecursiveType(r))

	flat := env.CreateRecordType("Pair")
	flat.Add("fst", env.NumberType())
	flat.Add("snd", env.NumberType())
	require.False(IsRecursiveType(flat))

	// records are nominal: no subtyping between distinct record types
	require.False(IsSubtypeOf(r, flat))
	require.True(IsSubtypeOf(r, r))
}

func TestTypeSetUniverse(t *testing.T) {
	require := require.New(t)

	env := NewEnv()
	a := env.CreateNumericType("A")

	all := AllTypeSet()
	require.True(all.IsAll())
	require.False(all.Empty())
	require.True(all.Contains(a))

	all.Insert(a)
	require.True(all.IsAll())

	s := NewTypeSet(a)
	s.InsertSet(AllTypeSet())
	require.True(s.IsAll())
}

func TestTypeQualifiers(t *testing.T) {
	require := require.New(t)

	env := NewEnv()
	a := env.CreateNumericType("A")
	s := env.CreateSymbolType("S")
	r := env.CreateRecordType("R")
	r.Add("x", a)

	require.Equal("i:A", Qualifier(a))
	require.Equal("s:S", Qualifier(s))
	require.Equal("r:R{x#i:A}", Qualifier(r))
}
