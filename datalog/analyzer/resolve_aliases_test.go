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

	"github.com/dolthub/go-datalog-engine/datalog/ast"
)

func v(name string) *ast.Variable {
	return ast.NewVariable(name)
}

func atom(name string, args ...ast.Argument) *ast.Atom {
	return ast.NewAtom(ast.NewQualifiedName(name), args...)
}

func eq(lhs, rhs ast.Argument) *ast.Constraint {
	return ast.NewConstraint(ast.ConstraintEQ, lhs, rhs)
}

func TestResolveAliasesUnification(t *testing.T) {
	require := require.New(t)

	// p(a,b) :- p(x,y), r=[x,y], s=r, s=[w,v], [w,v]=[a,b].
	cl := ast.NewClause()
	cl.SetHead(atom("p", v("a"), v("b")))
	cl.AddToBody(atom("p", v("x"), v("y")))
	cl.AddToBody(eq(v("r"), ast.NewRecordInit(v("x"), v("y"))))
	cl.AddToBody(eq(v("s"), v("r")))
	cl.AddToBody(eq(v("s"), ast.NewRecordInit(v("w"), v("v"))))
	cl.AddToBody(eq(ast.NewRecordInit(v("w"), v("v")), ast.NewRecordInit(v("a"), v("b"))))

	resolved := removeTrivialEquality(resolveAliasesClause(cl))

	// expected: p(x,y) :- p(x,y).
	expected := ast.NewClause()
	expected.SetHead(atom("p", v("x"), v("y")))
	expected.AddToBody(atom("p", v("x"), v("y")))

	require.True(resolved.Equal(expected), "got %s", resolved)
}

func TestResolveAliasesOccursCheck(t *testing.T) {
	require := require.New(t)

	// p(x) :- p(x), x = [x, y].   must not loop or substitute
	cl := ast.NewClause()
	cl.SetHead(atom("p", v("x")))
	cl.AddToBody(atom("p", v("x")))
	cl.AddToBody(eq(v("x"), ast.NewRecordInit(v("x"), v("y"))))

	resolved := resolveAliasesClause(cl)
	require.True(resolved.Head.Args[0].Equal(v("x")))
}

func TestResolveAliasesIdempotent(t *testing.T) {
	require := require.New(t)

	cl := ast.NewClause()
	cl.SetHead(atom("p", v("a"), v("b")))
	cl.AddToBody(atom("q", v("x"), v("y")))
	cl.AddToBody(eq(v("a"), v("x")))
	cl.AddToBody(eq(v("b"), v("y")))

	once := removeTrivialEquality(resolveAliasesClause(cl))
	twice := removeTrivialEquality(resolveAliasesClause(once))
	require.True(once.Equal(twice), "once: %s, twice: %s", once, twice)
}

func TestRemoveTrivialEquality(t *testing.T) {
	require := require.New(t)

	cl := ast.NewClause()
	cl.SetHead(atom("p", v("x")))
	cl.AddToBody(atom("q", v("x")))
	cl.AddToBody(eq(v("x"), v("x")))
	cl.AddToBody(ast.NewConstraint(ast.ConstraintNE, v("x"), v("x")))

	res := removeTrivialEquality(cl)
	require.Len(res.Constraints(), 1)
	require.Equal(ast.ConstraintNE, res.Constraints()[0].Op)
}

func TestRemoveComplexTermsInAtoms(t *testing.T) {
	require := require.New(t)

	// p(x) :- q(x + 1).
	cl := ast.NewClause()
	cl.SetHead(atom("p", v("x")))
	cl.AddToBody(atom("q", ast.NewBinaryFunctor(ast.BinaryAdd, v("x"), ast.NewNumberConstant(1))))

	removeComplexTermsInAtoms(cl)

	// the functor is lifted into a fresh variable with an equality
	q := cl.Atoms()[0]
	fresh, ok := q.Args[0].(*ast.Variable)
	require.True(ok, "expected a variable, got %s", q.Args[0])

	require.Len(cl.Constraints(), 1)
	constraint := cl.Constraints()[0]
	require.Equal(ast.ConstraintEQ, constraint.Op)
	require.True(constraint.LHS.Equal(fresh))
	require.True(constraint.RHS.Equal(ast.NewBinaryFunctor(ast.BinaryAdd, v("x"), ast.NewNumberConstant(1))))
}
