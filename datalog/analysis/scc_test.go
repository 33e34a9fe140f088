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
)

// declRelation adds .decl name(a:number, b:number) to the program.
func declRelation(p *ast.Program, name string, qualifier ast.Qualifier) *ast.Relation {
	rel := ast.NewRelation(ast.NewQualifiedName(name))
	rel.AddAttribute(ast.NewAttribute("a", "number"))
	rel.AddAttribute(ast.NewAttribute("b", "number"))
	rel.Qualifier = qualifier
	p.AddRelation(rel)
	return rel
}

// addRule adds head(x,y) :- body1(x,y), ..., bodyN(x,y); every atom uses the
// same (x,y) variables since only the dependency structure matters here.
func addRule(p *ast.Program, head string, bodies ...string) *ast.Clause {
	cl := ast.NewClause()
	cl.SetHead(ast.NewAtom(ast.NewQualifiedName(head), ast.NewVariable("x"), ast.NewVariable("y")))
	for _, body := range bodies {
		cl.AddToBody(ast.NewAtom(ast.NewQualifiedName(body), ast.NewVariable("x"), ast.NewVariable("y")))
	}
	p.GetRelation(ast.NewQualifiedName(head)).AddClause(cl)
	return cl
}

// transitiveClosureProgram builds a recursive program with the dependency
// structure of transitive closure:
//
//	.decl e(a:number, b:number) input
//	.decl r(a:number, b:number) output
//	r(x,y) :- e(x,y).
//	r(x,y) :- r(x,y), e(x,y).
func transitiveClosureProgram() *ast.Program {
	p := ast.NewProgram()
	declRelation(p, "e", ast.QualifierInput)
	declRelation(p, "r", ast.QualifierOutput)
	addRule(p, "r", "e")
	addRule(p, "r", "r", "e")
	return p
}

func TestPrecedenceGraph(t *testing.T) {
	require := require.New(t)

	tu := datalog.NewTranslationUnit(transitiveClosureProgram())
	prec := Precedence(tu)

	e := tu.Program.GetRelation(ast.NewQualifiedName("e"))
	r := tu.Program.GetRelation(ast.NewQualifiedName("r"))

	require.True(prec.DependsOn(r, e))
	require.True(prec.DependsOn(r, r))
	require.False(prec.DependsOn(e, r))
	require.True(prec.Reaches(r, r))
	require.False(prec.Reaches(e, e))
}

func TestSCCGraph(t *testing.T) {
	require := require.New(t)

	tu := datalog.NewTranslationUnit(transitiveClosureProgram())
	scc := SCC(tu)

	e := tu.Program.GetRelation(ast.NewQualifiedName("e"))
	r := tu.Program.GetRelation(ast.NewQualifiedName("r"))

	require.Equal(2, scc.NumSCCs())
	require.NotEqual(scc.SCCOf(e), scc.SCCOf(r))
	require.True(scc.IsRecursiveRelation(r))
	require.False(scc.IsRecursiveRelation(e))
}

func TestSCCGroupsMutualRecursion(t *testing.T) {
	require := require.New(t)

	p := ast.NewProgram()
	declRelation(p, "even", ast.QualifierOutput)
	declRelation(p, "odd", 0)
	declRelation(p, "base", ast.QualifierInput)
	addRule(p, "even", "odd")
	addRule(p, "odd", "even")
	addRule(p, "even", "base")

	tu := datalog.NewTranslationUnit(p)
	scc := SCC(tu)

	even := p.GetRelation(ast.NewQualifiedName("even"))
	odd := p.GetRelation(ast.NewQualifiedName("odd"))
	base := p.GetRelation(ast.NewQualifiedName("base"))

	require.Equal(scc.SCCOf(even), scc.SCCOf(odd))
	require.NotEqual(scc.SCCOf(even), scc.SCCOf(base))
	require.True(scc.IsRecursive(scc.SCCOf(even)))

	rels := scc.RelationsOf(scc.SCCOf(even))
	require.Len(rels, 2)
}

func TestTopsortRespectsDependencies(t *testing.T) {
	require := require.New(t)

	p := ast.NewProgram()
	declRelation(p, "a", ast.QualifierInput)
	declRelation(p, "b", 0)
	declRelation(p, "c", ast.QualifierOutput)
	addRule(p, "b", "a")
	addRule(p, "c", "b")

	tu := datalog.NewTranslationUnit(p)
	topsort := Topsort(tu)
	scc := topsort.SCCGraph()

	pos := make(map[int]int)
	for i, id := range topsort.Order() {
		pos[id] = i
	}
	require.Len(pos, 3)

	for _, name := range []struct{ from, to string }{
		{"b", "a"}, {"c", "b"},
	} {
		from := scc.SCCOf(p.GetRelation(ast.NewQualifiedName(name.from)))
		to := scc.SCCOf(p.GetRelation(ast.NewQualifiedName(name.to)))
		require.Less(pos[to], pos[from], "%s must be computed before %s", name.to, name.from)
	}
}

func TestScheduleStepsAndExpiry(t *testing.T) {
	require := require.New(t)

	p := ast.NewProgram()
	declRelation(p, "a", ast.QualifierInput)
	declRelation(p, "b", 0)
	declRelation(p, "c", ast.QualifierOutput)
	addRule(p, "b", "a")
	addRule(p, "c", "b")

	tu := datalog.NewTranslationUnit(p)
	schedule := Schedule(tu)
	steps := schedule.Steps()
	require.Len(steps, 3)

	// every step computes exactly one relation; order a, b, c
	var order []string
	for _, step := range steps {
		require.Len(step.ComputedRelations(), 1)
		require.False(step.IsRecursive())
		order = append(order, step.ComputedRelations()[0].Name.String())
	}
	require.Equal([]string{"a", "b", "c"}, order)

	// a expires once b is computed, b once c is computed; c is an output
	expired := func(i int) []string {
		var names []string
		for _, rel := range steps[i].ExpiredRelations() {
			names = append(names, rel.Name.String())
		}
		return names
	}
	require.Empty(expired(0))
	require.Equal([]string{"a"}, expired(1))
	require.Equal([]string{"b"}, expired(2))
}

func TestScheduleRecursiveStep(t *testing.T) {
	require := require.New(t)

	tu := datalog.NewTranslationUnit(transitiveClosureProgram())
	schedule := Schedule(tu)
	steps := schedule.Steps()
	require.Len(steps, 2)

	require.Equal("e", steps[0].ComputedRelations()[0].Name.String())
	require.False(steps[0].IsRecursive())
	require.Equal("r", steps[1].ComputedRelations()[0].Name.String())
	require.True(steps[1].IsRecursive())

	// e is dead after r is computed
	names := steps[1].ExpiredRelations()
	require.Len(names, 1)
	require.Equal("e", names[0].Name.String())
}

func TestRedundantRelations(t *testing.T) {
	require := require.New(t)

	p := ast.NewProgram()
	declRelation(p, "a", ast.QualifierInput)
	declRelation(p, "out", ast.QualifierOutput)
	declRelation(p, "unused", 0)
	addRule(p, "out", "a")
	addRule(p, "unused", "a")

	tu := datalog.NewTranslationUnit(p)
	redundant := Redundant(tu).Relations()
	require.Len(redundant, 1)
	require.Equal("unused", redundant[0].Name.String())
}

func TestRecursiveClauses(t *testing.T) {
	require := require.New(t)

	p := transitiveClosureProgram()
	tu := datalog.NewTranslationUnit(p)
	recursive := Recursive(tu)

	r := p.GetRelation(ast.NewQualifiedName("r"))
	require.False(recursive.IsRecursive(r.Clauses()[0]))
	require.True(recursive.IsRecursive(r.Clauses()[1]))
}
