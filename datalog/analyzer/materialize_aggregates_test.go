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

func TestMaterializeAggregateWithRepeatedVariable(t *testing.T) {
	require := require.New(t)

	// .decl e(a:number, b:number) input
	// .decl out(n:number) output
	// out(n) :- n = count : { e(x,x) }.
	p := ast.NewProgram()
	decl(p, "e", ast.QualifierInput, "a:number", "b:number")
	decl(p, "out", ast.QualifierOutput, "n:number")

	agg := ast.NewAggregator(ast.AggregateCount)
	agg.Body = []ast.Literal{atom("e", v("x"), v("x"))}

	cl := ast.NewClause()
	cl.SetHead(atom("out", v("n")))
	cl.AddToBody(eq(v("n"), agg))
	p.GetRelation(ast.NewQualifiedName("out")).AddClause(cl)

	tu := datalog.NewTranslationUnit(p)
	changed, err := materializeAggregationQueries(datalog.NewEmptyContext(), NewDefault(), tu)
	require.NoError(err)
	require.True(changed)

	// a fresh relation __agg_rel_0(x:number) with clause
	// __agg_rel_0(x) :- e(x,x).
	aggRel := p.GetRelation(ast.NewQualifiedName("__agg_rel_0"))
	require.NotNil(aggRel)
	require.Equal(1, aggRel.Arity())
	require.Equal("number", aggRel.Attributes[0].TypeName)

	require.Equal(1, aggRel.ClauseSize())
	aggClause := aggRel.Clauses()[0]
	require.Equal("__agg_rel_0", aggClause.Head.Name.String())
	require.Len(aggClause.Atoms(), 1)
	require.Equal("e", aggClause.Atoms()[0].Name.String())

	// the aggregator in out now ranges over a single atom on the new
	// relation; its variable is local, so the reference uses an underscore
	require.Len(agg.Body, 1)
	ref := agg.Body[0].(*ast.Atom)
	require.Equal("__agg_rel_0", ref.Name.String())
	require.Len(ref.Args, 1)
	_, isUnderscore := ref.Args[0].(*ast.UnnamedVariable)
	require.True(isUnderscore)
}

func TestMaterializeCountPromotesUnderscores(t *testing.T) {
	require := require.New(t)

	// out(n) :- n = count : { e(_, x), f(x) }.
	p := ast.NewProgram()
	decl(p, "e", ast.QualifierInput, "a:number", "b:number")
	decl(p, "f", ast.QualifierInput, "a:number")
	decl(p, "out", ast.QualifierOutput, "n:number")

	agg := ast.NewAggregator(ast.AggregateCount)
	agg.Body = []ast.Literal{
		atom("e", &ast.UnnamedVariable{}, v("x")),
		atom("f", v("x")),
	}

	cl := ast.NewClause()
	cl.SetHead(atom("out", v("n")))
	cl.AddToBody(eq(v("n"), agg))
	p.GetRelation(ast.NewQualifiedName("out")).AddClause(cl)

	tu := datalog.NewTranslationUnit(p)
	changed, err := materializeAggregationQueries(datalog.NewEmptyContext(), NewDefault(), tu)
	require.NoError(err)
	require.True(changed)

	aggRel := p.GetRelation(ast.NewQualifiedName("__agg_rel_0"))
	require.NotNil(aggRel)

	// head holds x plus the promoted underscore
	require.Equal(2, aggRel.Arity())
	body := aggRel.Clauses()[0]
	require.Len(body.Atoms(), 2)
	for _, a := range body.Atoms() {
		for _, arg := range a.Args {
			_, isUnderscore := arg.(*ast.UnnamedVariable)
			require.False(isUnderscore, "underscores must be promoted in count bodies")
		}
	}
}

func TestSingleAtomAggregateNotMaterialized(t *testing.T) {
	require := require.New(t)

	// out(n) :- n = count : e(x, y).
	p := ast.NewProgram()
	decl(p, "e", ast.QualifierInput, "a:number", "b:number")
	decl(p, "out", ast.QualifierOutput, "n:number")

	agg := ast.NewAggregator(ast.AggregateCount)
	agg.Body = []ast.Literal{atom("e", v("x"), v("y"))}

	cl := ast.NewClause()
	cl.SetHead(atom("out", v("n")))
	cl.AddToBody(eq(v("n"), agg))
	p.GetRelation(ast.NewQualifiedName("out")).AddClause(cl)

	tu := datalog.NewTranslationUnit(p)
	changed, err := materializeAggregationQueries(datalog.NewEmptyContext(), NewDefault(), tu)
	require.NoError(err)
	require.False(changed)
	require.Nil(p.GetRelation(ast.NewQualifiedName("__agg_rel_0")))
}

func TestUniqueAggregationVariables(t *testing.T) {
	require := require.New(t)

	// out(x, s) :- f(x), s = sum y : e(x, y).
	// x is used both outside and inside the aggregate target scope
	p := ast.NewProgram()
	decl(p, "e", ast.QualifierInput, "a:number", "b:number")
	decl(p, "f", ast.QualifierInput, "a:number")
	decl(p, "out", ast.QualifierOutput, "a:number", "b:number")

	agg := ast.NewAggregator(ast.AggregateSum)
	agg.Target = v("y")
	agg.Body = []ast.Literal{atom("e", v("x"), v("y"))}

	cl := ast.NewClause()
	cl.SetHead(atom("out", v("x"), v("s")))
	cl.AddToBody(atom("f", v("x")))
	cl.AddToBody(eq(v("s"), agg))
	p.GetRelation(ast.NewQualifiedName("out")).AddClause(cl)

	tu := datalog.NewTranslationUnit(p)
	changed, err := uniqueAggregationVariables(datalog.NewEmptyContext(), NewDefault(), tu)
	require.NoError(err)
	require.True(changed)

	// y is renamed inside the aggregator; x stays
	require.Equal(" y0", agg.Target.(*ast.Variable).Name)
	inner := agg.Body[0].(*ast.Atom)
	require.Equal("x", inner.Args[0].(*ast.Variable).Name)
	require.Equal(" y0", inner.Args[1].(*ast.Variable).Name)

	// variables outside the aggregator are untouched
	require.Equal("x", cl.Head.Args[0].(*ast.Variable).Name)
}
