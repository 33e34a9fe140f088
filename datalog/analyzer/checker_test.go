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
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-datalog-engine/datalog"
	"github.com/dolthub/go-datalog-engine/datalog/ast"
)

func decl(p *ast.Program, name string, qualifier ast.Qualifier, attrs ...string) *ast.Relation {
	rel := ast.NewRelation(ast.NewQualifiedName(name))
	for _, attr := range attrs {
		parts := strings.SplitN(attr, ":", 2)
		rel.AddAttribute(ast.NewAttribute(parts[0], parts[1]))
	}
	rel.Qualifier = qualifier
	p.AddRelation(rel)
	return rel
}

func check(t *testing.T, p *ast.Program) *datalog.ErrorReport {
	t.Helper()
	tu := datalog.NewTranslationUnit(p)
	_, err := checkSemantics(datalog.NewEmptyContext(), NewDefault(), tu)
	require.NoError(t, err)
	return tu.Report
}

func reportContains(report *datalog.ErrorReport, fragment string) bool {
	return strings.Contains(report.String(), fragment)
}

func TestCheckStratificationFailure(t *testing.T) {
	require := require.New(t)

	// p(x) :- q(x), !p(x).
	p := ast.NewProgram()
	decl(p, "p", ast.QualifierOutput, "x:number")
	decl(p, "q", ast.QualifierInput, "x:number")

	cl := ast.NewClause()
	cl.SetHead(atom("p", v("x")))
	cl.AddToBody(atom("q", v("x")))
	cl.AddToBody(ast.NewNegation(atom("p", v("x"))))
	p.GetRelation(ast.NewQualifiedName("p")).AddClause(cl)

	report := check(t, p)
	require.Positive(report.NumErrors())
	require.True(reportContains(report, "Unable to stratify relation(s) {p}"), report.String())
	require.True(reportContains(report, "has cyclic negation"), report.String())
}

func TestCheckStratifiedNegationPasses(t *testing.T) {
	require := require.New(t)

	// p(x) :- q(x), !r(x).   with r in a lower stratum
	p := ast.NewProgram()
	decl(p, "p", ast.QualifierOutput, "x:number")
	decl(p, "q", ast.QualifierInput, "x:number")
	decl(p, "r", ast.QualifierInput, "x:number")

	cl := ast.NewClause()
	cl.SetHead(atom("p", v("x")))
	cl.AddToBody(atom("q", v("x")))
	cl.AddToBody(ast.NewNegation(atom("r", v("x"))))
	p.GetRelation(ast.NewQualifiedName("p")).AddClause(cl)

	report := check(t, p)
	require.Zero(report.NumErrors(), report.String())
}

func TestCheckUngroundedVariable(t *testing.T) {
	require := require.New(t)

	// p(x) :- !q(x).
	p := ast.NewProgram()
	decl(p, "p", ast.QualifierOutput, "x:number")
	decl(p, "q", ast.QualifierInput, "x:number")

	cl := ast.NewClause()
	cl.SetHead(atom("p", v("x")))
	cl.AddToBody(ast.NewNegation(atom("q", v("x"))))
	p.GetRelation(ast.NewQualifiedName("p")).AddClause(cl)

	report := check(t, p)
	require.True(reportContains(report, "Ungrounded variable x"), report.String())
}

func TestCheckUndefinedRelationSuggests(t *testing.T) {
	require := require.New(t)

	p := ast.NewProgram()
	decl(p, "edge", ast.QualifierInput, "a:number", "b:number")
	decl(p, "path", ast.QualifierOutput, "a:number", "b:number")

	cl := ast.NewClause()
	cl.SetHead(atom("path", v("x"), v("y")))
	cl.AddToBody(atom("edgee", v("x"), v("y")))
	p.GetRelation(ast.NewQualifiedName("path")).AddClause(cl)

	report := check(t, p)
	require.True(reportContains(report, "Undefined relation edgee, maybe you mean edge?"), report.String())
}

func TestCheckArityMismatch(t *testing.T) {
	require := require.New(t)

	p := ast.NewProgram()
	decl(p, "e", ast.QualifierInput, "a:number", "b:number")
	decl(p, "p", ast.QualifierOutput, "a:number")

	cl := ast.NewClause()
	cl.SetHead(atom("p", v("x")))
	cl.AddToBody(atom("e", v("x")))
	p.GetRelation(ast.NewQualifiedName("p")).AddClause(cl)

	report := check(t, p)
	require.True(reportContains(report, "Mismatching arity of relation e"), report.String())
}

func TestCheckUnderscores(t *testing.T) {
	require := require.New(t)

	p := ast.NewProgram()
	decl(p, "e", ast.QualifierInput, "a:number")
	decl(p, "p", ast.QualifierOutput, "a:number")

	// p(_) :- e(x), _ = x.
	cl := ast.NewClause()
	cl.SetHead(atom("p", &ast.UnnamedVariable{}))
	cl.AddToBody(atom("e", v("x")))
	cl.AddToBody(eq(&ast.UnnamedVariable{}, v("x")))
	p.GetRelation(ast.NewQualifiedName("p")).AddClause(cl)

	report := check(t, p)
	require.True(reportContains(report, "Underscore in head of rule"), report.String())
	require.True(reportContains(report, "Underscore in binary relation"), report.String())
}

func TestCheckFactsAreConstant(t *testing.T) {
	require := require.New(t)

	p := ast.NewProgram()
	decl(p, "f", ast.QualifierOutput, "a:number")

	withVar := ast.NewClause()
	withVar.SetHead(atom("f", v("x")))
	p.GetRelation(ast.NewQualifiedName("f")).AddClause(withVar)

	report := check(t, p)
	require.True(reportContains(report, "Variable x in fact"), report.String())

	// constant arithmetic is allowed
	p2 := ast.NewProgram()
	decl(p2, "f", ast.QualifierOutput, "a:number")
	arith := ast.NewClause()
	arith.SetHead(atom("f", ast.NewBinaryFunctor(ast.BinaryAdd,
		ast.NewNumberConstant(1), ast.NewNumberConstant(2))))
	p2.GetRelation(ast.NewQualifiedName("f")).AddClause(arith)

	report2 := check(t, p2)
	require.False(reportContains(report2, "function in fact"), report2.String())
}

func TestCheckConstantRange(t *testing.T) {
	require := require.New(t)

	p := ast.NewProgram()
	decl(p, "f", ast.QualifierOutput, "a:number")
	cl := ast.NewClause()
	cl.SetHead(atom("f", ast.NewNumberConstant(1<<33)))
	p.GetRelation(ast.NewQualifiedName("f")).AddClause(cl)

	report := check(t, p)
	require.True(reportContains(report, "Number constant not in range"), report.String())
}

func TestCheckEqrelShape(t *testing.T) {
	require := require.New(t)

	p := ast.NewProgram()
	decl(p, "eq1", ast.QualifierEqRel|ast.QualifierInput, "a:number")
	decl(p, "eq2", ast.QualifierEqRel|ast.QualifierInput, "a:number", "b:symbol")

	report := check(t, p)
	require.True(reportContains(report, "Equivalence relation eq1 is not binary"), report.String())
	require.True(reportContains(report, "Domains of equivalence relation eq2 are different"), report.String())
}

func TestCheckInputRecordAttribute(t *testing.T) {
	require := require.New(t)

	p := ast.NewProgram()
	p.AddType(ast.NewRecordTypeDecl("R", ast.RecordField{Name: "x", TypeName: "number"}))
	decl(p, "in", ast.QualifierInput, "a:R")
	decl(p, "out", ast.QualifierOutput, "a:R")
	cl := ast.NewClause()
	cl.SetHead(atom("out", v("x")))
	cl.AddToBody(atom("in", v("x")))
	p.GetRelation(ast.NewQualifiedName("out")).AddClause(cl)

	report := check(t, p)
	require.True(reportContains(report, "Input relations must not have record types"), report.String())
	require.True(reportContains(report, "Record types in output relations are not printed verbatim"), report.String())
}

func TestCheckUseOnceVariableWarning(t *testing.T) {
	require := require.New(t)

	p := ast.NewProgram()
	decl(p, "e", ast.QualifierInput, "a:number", "b:number")
	decl(p, "p", ast.QualifierOutput, "a:number")

	cl := ast.NewClause()
	cl.SetHead(atom("p", v("x")))
	cl.AddToBody(atom("e", v("x"), v("lonely")))
	p.GetRelation(ast.NewQualifiedName("p")).AddClause(cl)

	report := check(t, p)
	require.True(reportContains(report, "Variable lonely only occurs once"), report.String())

	// generated clauses are exempt
	p2 := ast.NewProgram()
	decl(p2, "e", ast.QualifierInput, "a:number", "b:number")
	decl(p2, "p", ast.QualifierOutput, "a:number")
	gen := ast.NewClause()
	gen.SetHead(atom("p", v("x")))
	gen.AddToBody(atom("e", v("x"), v("lonely")))
	gen.Generated = true
	p2.GetRelation(ast.NewQualifiedName("p")).AddClause(gen)

	report2 := check(t, p2)
	require.False(reportContains(report2, "only occurs once"), report2.String())
}

func TestCheckNamespaceClashes(t *testing.T) {
	require := require.New(t)

	p := ast.NewProgram()
	p.AddType(ast.NewPrimitiveTypeDecl("thing", false))
	decl(p, "thing", ast.QualifierInput, "a:number")

	report := check(t, p)
	require.True(reportContains(report, "Name clash on relation thing"), report.String())
}

func TestCheckComponentOverrideValidation(t *testing.T) {
	require := require.New(t)

	// .comp Base { .decl r(x:number) }         r is not overridable
	// .comp Derived : Base { .override r }
	p := ast.NewProgram()

	base := ast.NewComponent(ast.NewComponentType("Base"))
	baseRel := ast.NewRelation(ast.NewQualifiedName("r"))
	baseRel.AddAttribute(ast.NewAttribute("x", "number"))
	base.AddRelation(baseRel)
	p.AddComponent(base)

	derived := ast.NewComponent(ast.NewComponentType("Derived"))
	derived.AddBase(ast.NewComponentType("Base"))
	derived.AddOverride("r")
	p.AddComponent(derived)

	report := check(t, p)
	require.True(reportContains(report, "Override of non-overridable relation r"), report.String())
}

func TestCheckComponentInheritanceCycle(t *testing.T) {
	require := require.New(t)

	p := ast.NewProgram()

	a := ast.NewComponent(ast.NewComponentType("A"))
	a.AddBase(ast.NewComponentType("B"))
	p.AddComponent(a)

	b := ast.NewComponent(ast.NewComponentType("B"))
	b.AddBase(ast.NewComponentType("A"))
	p.AddComponent(b)

	report := check(t, p)
	require.True(reportContains(report, "Invalid cycle in inheritance"), report.String())
}

func TestCheckComponentTypeParameterCount(t *testing.T) {
	require := require.New(t)

	p := ast.NewProgram()
	comp := ast.NewComponent(ast.NewComponentType("C", "T"))
	rel := ast.NewRelation(ast.NewQualifiedName("r"))
	rel.AddAttribute(ast.NewAttribute("x", "T"))
	comp.AddRelation(rel)
	p.AddComponent(comp)

	p.AddInstantiation(ast.NewComponentInit("i", ast.NewComponentType("C", "number", "symbol")))
	p.AddInstantiation(ast.NewComponentInit("j", ast.NewComponentType("Missing")))

	report := check(t, p)
	require.True(reportContains(report, "Invalid number of type parameters for component C"), report.String())
	require.True(reportContains(report, "Referencing undefined component Missing"), report.String())
}

func TestCheckExecutionPlanCompleteness(t *testing.T) {
	require := require.New(t)

	p := ast.NewProgram()
	decl(p, "e", ast.QualifierInput, "a:number", "b:number")
	decl(p, "r", ast.QualifierOutput, "a:number", "b:number")

	cl := ast.NewClause()
	cl.SetHead(atom("r", v("x"), v("z")))
	cl.AddToBody(atom("r", v("x"), v("y")))
	cl.AddToBody(atom("e", v("y"), v("z")))
	cl.Plan = ast.NewExecutionPlan()
	cl.Plan.SetOrderFor(0, ast.NewExecutionOrder(1))
	p.GetRelation(ast.NewQualifiedName("r")).AddClause(cl)

	report := check(t, p)
	require.True(reportContains(report, "Invalid execution plan"), report.String())
}

func TestCheckCounterInRecursiveRule(t *testing.T) {
	require := require.New(t)

	p := ast.NewProgram()
	decl(p, "r", ast.QualifierOutput, "a:number", "b:number")
	cl := ast.NewClause()
	cl.SetHead(atom("r", v("x"), &ast.Counter{}))
	cl.AddToBody(atom("r", v("x"), v("y")))
	p.GetRelation(ast.NewQualifiedName("r")).AddClause(cl)

	report := check(t, p)
	require.True(reportContains(report, "Auto-increment functor in a recursive rule"), report.String())
}
