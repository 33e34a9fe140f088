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

	"github.com/dolthub/go-datalog-engine/datalog/ast"
)

// groundedNames solves the clause and projects the result onto variable
// names.
func groundedNames(clause *ast.Clause) map[string]bool {
	res := make(map[string]bool)
	grounded := GroundedTerms(clause)
	ast.WalkVariables(clause, func(v *ast.Variable) {
		if grounded[v] {
			res[v.Name] = true
		}
	})
	return res
}

func TestGroundingPositiveAtoms(t *testing.T) {
	require := require.New(t)

	// r(x, y) :- s(x), t(y).
	cl := ast.NewClause()
	cl.SetHead(ast.NewAtom(ast.NewQualifiedName("r"), ast.NewVariable("x"), ast.NewVariable("y")))
	cl.AddToBody(ast.NewAtom(ast.NewQualifiedName("s"), ast.NewVariable("x")))
	cl.AddToBody(ast.NewAtom(ast.NewQualifiedName("t"), ast.NewVariable("y")))

	grounded := groundedNames(cl)
	require.True(grounded["x"])
	require.True(grounded["y"])
}

func TestGroundingHeadIsNoSource(t *testing.T) {
	require := require.New(t)

	// r(x) :- x < 3.   the head does not ground x
	cl := ast.NewClause()
	cl.SetHead(ast.NewAtom(ast.NewQualifiedName("r"), ast.NewVariable("x")))
	cl.AddToBody(ast.NewConstraint(ast.ConstraintLT, ast.NewVariable("x"), ast.NewNumberConstant(3)))

	require.False(groundedNames(cl)["x"])
}

func TestGroundingNegationIsNoSource(t *testing.T) {
	require := require.New(t)

	// r(x) :- !s(x).
	cl := ast.NewClause()
	cl.SetHead(ast.NewAtom(ast.NewQualifiedName("r"), ast.NewVariable("x")))
	cl.AddToBody(ast.NewNegation(ast.NewAtom(ast.NewQualifiedName("s"), ast.NewVariable("x"))))

	require.False(groundedNames(cl)["x"])
}

func TestGroundingEqualityPropagates(t *testing.T) {
	require := require.New(t)

	// r(y) :- s(x), y = x.
	cl := ast.NewClause()
	cl.SetHead(ast.NewAtom(ast.NewQualifiedName("r"), ast.NewVariable("y")))
	cl.AddToBody(ast.NewAtom(ast.NewQualifiedName("s"), ast.NewVariable("x")))
	cl.AddToBody(ast.NewConstraint(ast.ConstraintEQ, ast.NewVariable("y"), ast.NewVariable("x")))

	grounded := groundedNames(cl)
	require.True(grounded["x"])
	require.True(grounded["y"])

	// an inequality does not propagate
	cl2 := ast.NewClause()
	cl2.SetHead(ast.NewAtom(ast.NewQualifiedName("r"), ast.NewVariable("y")))
	cl2.AddToBody(ast.NewAtom(ast.NewQualifiedName("s"), ast.NewVariable("x")))
	cl2.AddToBody(ast.NewConstraint(ast.ConstraintLT, ast.NewVariable("y"), ast.NewVariable("x")))
	require.False(groundedNames(cl2)["y"])
}

func TestGroundingRecordsPropagateBothWays(t *testing.T) {
	require := require.New(t)

	// r(a) :- s(p), p = [a, b].   unpacking grounds the components
	cl := ast.NewClause()
	cl.SetHead(ast.NewAtom(ast.NewQualifiedName("r"), ast.NewVariable("a")))
	cl.AddToBody(ast.NewAtom(ast.NewQualifiedName("s"), ast.NewVariable("p")))
	cl.AddToBody(ast.NewConstraint(ast.ConstraintEQ, ast.NewVariable("p"),
		ast.NewRecordInit(ast.NewVariable("a"), ast.NewVariable("b"))))

	grounded := groundedNames(cl)
	require.True(grounded["p"])
	require.True(grounded["a"])
	require.True(grounded["b"])
}

func TestGroundingAggregatorGrounds(t *testing.T) {
	require := require.New(t)

	// r(n) :- n = count : e(x).
	agg := ast.NewAggregator(ast.AggregateCount)
	agg.Body = []ast.Literal{ast.NewAtom(ast.NewQualifiedName("e"), ast.NewVariable("x"))}

	cl := ast.NewClause()
	cl.SetHead(ast.NewAtom(ast.NewQualifiedName("r"), ast.NewVariable("n")))
	cl.AddToBody(ast.NewConstraint(ast.ConstraintEQ, ast.NewVariable("n"), agg))

	require.True(groundedNames(cl)["n"])
}

func TestGroundingMonotonicity(t *testing.T) {
	require := require.New(t)

	// adding a positive body atom never ungrounds a variable
	cl := ast.NewClause()
	cl.SetHead(ast.NewAtom(ast.NewQualifiedName("r"), ast.NewVariable("x")))
	cl.AddToBody(ast.NewAtom(ast.NewQualifiedName("s"), ast.NewVariable("x")))

	before := groundedNames(cl)

	extended := cl.Clone().(*ast.Clause)
	extended.AddToBody(ast.NewAtom(ast.NewQualifiedName("t"), ast.NewVariable("z")))

	after := groundedNames(extended)
	for name := range before {
		require.True(after[name], "adding an atom ungrounded %s", name)
	}
}

func TestConstTerms(t *testing.T) {
	require := require.New(t)

	// f(x) :- x = 1 + 2.
	cl := ast.NewClause()
	cl.SetHead(ast.NewAtom(ast.NewQualifiedName("f"), ast.NewVariable("x")))
	sum := ast.NewBinaryFunctor(ast.BinaryAdd, ast.NewNumberConstant(1), ast.NewNumberConstant(2))
	cl.AddToBody(ast.NewConstraint(ast.ConstraintEQ, ast.NewVariable("x"), sum))

	consts := ConstTerms(cl)
	ast.WalkVariables(cl, func(v *ast.Variable) {
		require.True(consts[v], "variable %s should be constant", v.Name)
	})
	require.True(consts[sum])
}
