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
	"testing"

	"github.com/stretchr/testify/require"
)

func testClause() *Clause {
	cl := NewClause()
	cl.SetHead(NewAtom(NewQualifiedName("r"),
		NewVariable("x"),
		NewBinaryFunctor(BinaryAdd, NewVariable("y"), NewNumberConstant(1)),
	))
	cl.AddToBody(NewAtom(NewQualifiedName("s"), NewVariable("x"), NewVariable("y")))
	cl.AddToBody(NewNegation(NewAtom(NewQualifiedName("t"), NewVariable("x"))))
	cl.AddToBody(NewConstraint(ConstraintLT, NewVariable("y"), NewNumberConstant(10)))
	return cl
}

func TestCloneEquality(t *testing.T) {
	require := require.New(t)

	nodes := []Node{
		NewVariable("x"),
		&Counter{},
		NewNumberConstant(42),
		NewStringConstant("hello"),
		&NullConstant{},
		NewTypeCast(NewVariable("v"), "T"),
		NewUnaryFunctor(UnaryOrd, NewStringConstant("a")),
		NewBinaryFunctor(BinaryCat, NewStringConstant("a"), NewVariable("x")),
		NewTernaryFunctor(TernarySubstr, NewStringConstant("abc"), NewNumberConstant(0), NewNumberConstant(1)),
		NewRecordInit(NewVariable("a"), NewNumberConstant(1)),
		NewAtom(NewQualifiedName("a", "b"), NewVariable("x")),
		NewNegation(NewAtom(NewQualifiedName("q"), NewVariable("x"))),
		NewConstraint(ConstraintEQ, NewVariable("x"), NewVariable("y")),
		testClause(),
	}

	for _, n := range nodes {
		cp := n.Clone()
		require.True(n.Equal(cp), "clone of %s must be equal", n)
		require.True(cp.Equal(n), "equality must be symmetric for %s", n)
		require.NotSame(n, cp)
	}
}

func TestUnnamedVariablesNeverEqual(t *testing.T) {
	require := require.New(t)

	u := &UnnamedVariable{}
	require.False(u.Equal(u.Clone()))
	require.False(u.Equal(&UnnamedVariable{}))
}

func TestCloneIsDeep(t *testing.T) {
	require := require.New(t)

	cl := testClause()
	cp := cl.Clone().(*Clause)

	// mutating the copy must not affect the original
	cp.Atoms()[0].Args[0] = NewVariable("z")
	require.Equal("x", cl.Atoms()[0].Args[0].(*Variable).Name)
	require.False(cl.Equal(cp))
}

func TestSubstitutionCommutesWithClone(t *testing.T) {
	require := require.New(t)

	rename := MapperFunc(nil)
	rename = func(n Node) Node {
		if v, ok := n.(*Variable); ok && v.Name == "x" {
			return NewVariable("renamed")
		}
		n.Apply(rename)
		return n
	}

	// apply(clone(n)) == clone(apply(n))
	a := testClause().Clone().(*Clause)
	a.Apply(rename)

	b := testClause()
	b.Apply(rename)
	b = b.Clone().(*Clause)

	require.True(a.Equal(b))
}

func TestClauseFactAndRule(t *testing.T) {
	require := require.New(t)

	fact := NewClause()
	fact.SetHead(NewAtom(NewQualifiedName("f"), NewNumberConstant(1)))
	require.True(fact.IsFact())
	require.False(fact.IsRule())

	rule := testClause()
	require.False(rule.IsFact())
	require.True(rule.IsRule())

	// a headed clause with an aggregator in the head is not a fact
	agg := NewAggregator(AggregateCount)
	agg.Body = []Literal{NewAtom(NewQualifiedName("e"), NewVariable("x"))}
	headed := NewClause()
	headed.SetHead(NewAtom(NewQualifiedName("g"), agg))
	require.False(headed.IsFact())
}

func TestClauseReorderAtoms(t *testing.T) {
	require := require.New(t)

	cl := NewClause()
	cl.SetHead(NewAtom(NewQualifiedName("h")))
	cl.AddToBody(NewAtom(NewQualifiedName("a")))
	cl.AddToBody(NewAtom(NewQualifiedName("b")))
	cl.AddToBody(NewAtom(NewQualifiedName("c")))

	cl.ReorderAtoms([]int{2, 0, 1})

	require.Equal("c", cl.Atoms()[0].Name.String())
	require.Equal("a", cl.Atoms()[1].Name.String())
	require.Equal("b", cl.Atoms()[2].Name.String())
}

func TestQualifiedName(t *testing.T) {
	require := require.New(t)

	n := NewQualifiedName("graph", "edge")
	require.Equal("graph.edge", n.String())
	require.Equal("graph", n.Head())

	q := n.Qualify("problem")
	require.Equal("problem.graph.edge", q.String())
	// the receiver is untouched
	require.Equal("graph.edge", n.String())

	require.True(q.Equal(ParseQualifiedName("problem.graph.edge")))
	require.Equal(0, q.Compare(ParseQualifiedName("problem.graph.edge")))
	require.Negative(NewQualifiedName("a").Compare(NewQualifiedName("a", "b")))
	require.Positive(NewQualifiedName("b").Compare(NewQualifiedName("a", "z")))
}

func TestExecutionOrderComplete(t *testing.T) {
	require := require.New(t)

	require.True(NewExecutionOrder(2, 1, 3).IsComplete())
	require.False(NewExecutionOrder(1, 1, 3).IsComplete())
	require.False(NewExecutionOrder(1, 2, 4).IsComplete())
}

func TestProgramRoundTripEquality(t *testing.T) {
	require := require.New(t)

	p := NewProgram()
	p.AddType(NewPrimitiveTypeDecl("A", false))
	p.AddType(NewUnionTypeDecl("U", "A", "number"))

	rel := NewRelation(NewQualifiedName("r"))
	rel.AddAttribute(NewAttribute("x", "A"))
	rel.Qualifier |= QualifierOutput
	rel.AddClause(testClause())
	p.AddRelation(rel)

	cp := p.Clone().(*Program)
	require.True(p.Equal(cp))

	cp.GetRelation(NewQualifiedName("r")).Qualifier |= QualifierInput
	require.False(p.Equal(cp))
}
