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

package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-datalog-engine/datalog"
	"github.com/dolthub/go-datalog-engine/datalog/ast"
)

func instantiate(t *testing.T, p *ast.Program) *datalog.TranslationUnit {
	t.Helper()
	tu := datalog.NewTranslationUnit(p)
	_, err := instantiateComponents(datalog.NewEmptyContext(), NewDefault(), tu)
	require.NoError(t, err)
	return tu
}

func TestInstantiateSimpleComponent(t *testing.T) {
	require := require.New(t)

	// .comp C<T> { .decl r(x:T)  r("k"). }
	// .init i = C<symbol>
	p := ast.NewProgram()

	comp := ast.NewComponent(ast.NewComponentType("C", "T"))
	rel := ast.NewRelation(ast.NewQualifiedName("r"))
	rel.AddAttribute(ast.NewAttribute("x", "T"))
	comp.AddRelation(rel)

	fact := ast.NewClause()
	fact.SetHead(atom("r", ast.NewStringConstant("k")))
	comp.AddClause(fact)

	p.AddComponent(comp)
	p.AddInstantiation(ast.NewComponentInit("i", ast.NewComponentType("C", "symbol")))

	tu := instantiate(t, p)
	require.Zero(tu.Report.NumErrors(), tu.Report.String())

	inst := p.GetRelation(ast.NewQualifiedName("i", "r"))
	require.NotNil(inst)
	require.Equal(1, inst.Arity())
	require.Equal("symbol", inst.Attributes[0].TypeName)

	require.Equal(1, inst.ClauseSize())
	cl := inst.Clauses()[0]
	require.True(cl.IsFact())
	require.Equal("i.r", cl.Head.Name.String())
	require.True(cl.Head.Args[0].Equal(ast.NewStringConstant("k")))
}

func TestInstantiateInheritanceAndOverride(t *testing.T) {
	require := require.New(t)

	// .comp Base { .decl r(x:number) overridable  r(1). }
	// .comp Derived : Base { .override r  r(2). }
	// .init d = Derived
	p := ast.NewProgram()

	base := ast.NewComponent(ast.NewComponentType("Base"))
	baseRel := ast.NewRelation(ast.NewQualifiedName("r"))
	baseRel.AddAttribute(ast.NewAttribute("x", "number"))
	baseRel.Qualifier |= ast.QualifierOverridable
	base.AddRelation(baseRel)

	baseFact := ast.NewClause()
	baseFact.SetHead(atom("r", ast.NewNumberConstant(1)))
	base.AddClause(baseFact)
	p.AddComponent(base)

	derived := ast.NewComponent(ast.NewComponentType("Derived"))
	derived.AddBase(ast.NewComponentType("Base"))
	derived.AddOverride("r")

	derivedFact := ast.NewClause()
	derivedFact.SetHead(atom("r", ast.NewNumberConstant(2)))
	derived.AddClause(derivedFact)
	p.AddComponent(derived)

	p.AddInstantiation(ast.NewComponentInit("d", ast.NewComponentType("Derived")))

	tu := instantiate(t, p)
	require.Zero(tu.Report.NumErrors(), tu.Report.String())

	inst := p.GetRelation(ast.NewQualifiedName("d", "r"))
	require.NotNil(inst)

	// the base clause is dropped, the derived clause survives
	require.Equal(1, inst.ClauseSize())
	require.True(inst.Clauses()[0].Head.Args[0].Equal(ast.NewNumberConstant(2)))
}

func TestInstantiateForwardedTypeParameter(t *testing.T) {
	require := require.New(t)

	// .comp Inner<U> { .decl r(x:U) }
	// .comp Outer<T> { .init in = Inner<T> }
	// .init o = Outer<number>
	p := ast.NewProgram()

	inner := ast.NewComponent(ast.NewComponentType("Inner", "U"))
	rel := ast.NewRelation(ast.NewQualifiedName("r"))
	rel.AddAttribute(ast.NewAttribute("x", "U"))
	inner.AddRelation(rel)
	p.AddComponent(inner)

	outer := ast.NewComponent(ast.NewComponentType("Outer", "T"))
	outer.AddInstantiation(ast.NewComponentInit("in", ast.NewComponentType("Inner", "T")))
	p.AddComponent(outer)

	p.AddInstantiation(ast.NewComponentInit("o", ast.NewComponentType("Outer", "number")))

	tu := instantiate(t, p)
	require.Zero(tu.Report.NumErrors(), tu.Report.String())

	inst := p.GetRelation(ast.NewQualifiedName("o", "in", "r"))
	require.NotNil(inst)
	require.Equal("number", inst.Attributes[0].TypeName)
}

func TestInstantiateDepthLimit(t *testing.T) {
	require := require.New(t)

	// .comp Loop { .init again = Loop }
	// .init top = Loop
	p := ast.NewProgram()

	loop := ast.NewComponent(ast.NewComponentType("Loop"))
	loop.AddInstantiation(ast.NewComponentInit("again", ast.NewComponentType("Loop")))
	p.AddComponent(loop)
	p.AddInstantiation(ast.NewComponentInit("top", ast.NewComponentType("Loop")))

	tu := datalog.NewTranslationUnit(p)
	a := NewDefault()
	a.InstantiationDepth = 16
	_, err := instantiateComponents(datalog.NewEmptyContext(), a, tu)
	require.NoError(err)

	require.Positive(tu.Report.NumErrors())
	require.True(reportContains(tu.Report, "Component instantiation limit reached"), tu.Report.String())
}

func TestInstantiateBindsOrphanClauses(t *testing.T) {
	require := require.New(t)

	// .comp C { .decl r(x:number) }
	// .init i = C
	// i.r(7).     (top-level clause bound after instantiation)
	p := ast.NewProgram()

	comp := ast.NewComponent(ast.NewComponentType("C"))
	rel := ast.NewRelation(ast.NewQualifiedName("r"))
	rel.AddAttribute(ast.NewAttribute("x", "number"))
	comp.AddRelation(rel)
	p.AddComponent(comp)
	p.AddInstantiation(ast.NewComponentInit("i", ast.NewComponentType("C")))

	orphan := ast.NewClause()
	orphan.SetHead(ast.NewAtom(ast.NewQualifiedName("i", "r"), ast.NewNumberConstant(7)))
	p.AppendClause(orphan)

	instantiate(t, p)

	inst := p.GetRelation(ast.NewQualifiedName("i", "r"))
	require.NotNil(inst)
	require.Equal(1, inst.ClauseSize())
	require.Empty(p.OrphanClauses())
}

func TestInstantiateMissingComponentKeepsGoing(t *testing.T) {
	require := require.New(t)

	p := ast.NewProgram()
	p.AddInstantiation(ast.NewComponentInit("i", ast.NewComponentType("Nope")))

	tu := instantiate(t, p)

	// no relations are produced; the semantic checker reports the missing
	// component reference
	require.Empty(p.Relations())
	require.Zero(tu.Report.NumErrors())
}
