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

package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-datalog-engine/datalog"
	"github.com/dolthub/go-datalog-engine/datalog/ast"
	"github.com/dolthub/go-datalog-engine/datalog/types"
)

// unionProgram builds:
//
//	.type A  .type B  .type U = A | B
//	.decl a(x:A)  .decl b(x:B)  .decl u(x:U)
func unionProgram() *ast.Program {
	p := ast.NewProgram()
	p.AddType(ast.NewPrimitiveTypeDecl("A", false))
	p.AddType(ast.NewPrimitiveTypeDecl("B", false))
	p.AddType(ast.NewUnionTypeDecl("U", "A", "B"))

	for _, decl := range []struct{ rel, typ string }{
		{"a", "A"}, {"b", "B"}, {"u", "U"},
	} {
		rel := ast.NewRelation(ast.NewQualifiedName(decl.rel))
		rel.AddAttribute(ast.NewAttribute("x", decl.typ))
		p.AddRelation(rel)
	}
	return p
}

// rule builds head(X) :- body(Y).
func rule(head, headVar, body, bodyVar string) *ast.Clause {
	cl := ast.NewClause()
	cl.SetHead(ast.NewAtom(ast.NewQualifiedName(head), ast.NewVariable(headVar)))
	cl.AddToBody(ast.NewAtom(ast.NewQualifiedName(body), ast.NewVariable(bodyVar)))
	return cl
}

func headTypes(t *testing.T, program *ast.Program, cl *ast.Clause) types.TypeSet {
	t.Helper()
	tu := datalog.NewTranslationUnit(program)
	env := TypeEnvironment(tu)
	res := AnalyseTypes(env, cl, program)
	return res[cl.Head.Args[0]]
}

func TestTypeTightening(t *testing.T) {
	tests := []struct {
		name     string
		clause   *ast.Clause
		expected string
	}{
		{"a from u", rule("a", "X", "u", "X"), "{A}"},
		{"b from u", rule("b", "X", "u", "X"), "{B}"},
		{"u from u", rule("u", "X", "u", "X"), "{U}"},
		{"a from b", rule("a", "X", "b", "X"), "{}"},
		{"a unbound", rule("a", "X", "b", "Y"), "{A}"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			program := unionProgram()
			ts := headTypes(t, program, test.clause)
			require.Equal(t, test.expected, ts.String())
		})
	}
}

func TestTypeAnalysisConstants(t *testing.T) {
	require := require.New(t)

	program := unionProgram()
	num := ast.NewRelation(ast.NewQualifiedName("n"))
	num.AddAttribute(ast.NewAttribute("x", "number"))
	program.AddRelation(num)

	// n(X) :- n(X), X = 1.
	cl := ast.NewClause()
	cl.SetHead(ast.NewAtom(ast.NewQualifiedName("n"), ast.NewVariable("X")))
	cl.AddToBody(ast.NewAtom(ast.NewQualifiedName("n"), ast.NewVariable("X")))
	one := ast.NewNumberConstant(1)
	cl.AddToBody(ast.NewConstraint(ast.ConstraintEQ, ast.NewVariable("X"), one))

	tu := datalog.NewTranslationUnit(program)
	env := TypeEnvironment(tu)
	res := AnalyseTypes(env, cl, program)

	require.Equal("{number}", res[cl.Head.Args[0]].String())
	require.Equal("{number}", res[one].String())
}

func TestTypeAnalysisAggregator(t *testing.T) {
	require := require.New(t)

	program := unionProgram()
	num := ast.NewRelation(ast.NewQualifiedName("out"))
	num.AddAttribute(ast.NewAttribute("x", "number"))
	program.AddRelation(num)

	// out(N) :- N = count : u(X).
	agg := ast.NewAggregator(ast.AggregateCount)
	agg.Body = []ast.Literal{ast.NewAtom(ast.NewQualifiedName("u"), ast.NewVariable("X"))}

	cl := ast.NewClause()
	cl.SetHead(ast.NewAtom(ast.NewQualifiedName("out"), ast.NewVariable("N")))
	cl.AddToBody(ast.NewConstraint(ast.ConstraintEQ, ast.NewVariable("N"), agg))

	tu := datalog.NewTranslationUnit(program)
	env := TypeEnvironment(tu)
	res := AnalyseTypes(env, cl, program)

	require.Equal("{number}", res[cl.Head.Args[0]].String())
	require.Equal("{U}", res[agg.Body[0].(*ast.Atom).Args[0]].String())
}

func TestProgramWideTypes(t *testing.T) {
	require := require.New(t)

	program := unionProgram()
	cl := rule("a", "X", "u", "X")
	program.GetRelation(ast.NewQualifiedName("a")).AddClause(cl)

	tu := datalog.NewTranslationUnit(program)
	typing := Types(tu)
	require.Equal("{A}", typing.TypesOf(cl.Head.Args[0]).String())
}
