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
	"fmt"

	"github.com/dolthub/go-datalog-engine/datalog"
	"github.com/dolthub/go-datalog-engine/datalog/ast"
)

// resolveAliases eliminates variable aliases per clause by unifying over the
// equality constraints, drops the trivial equalities that remain, and lifts
// complex terms out of atom argument positions into fresh variables.
func resolveAliases(ctx *datalog.Context, a *Analyzer, tu *datalog.TranslationUnit) (bool, error) {
	program := tu.Program
	changed := false

	for _, rel := range program.Relations() {
		clauses := append([]*ast.Clause(nil), rel.Clauses()...)
		for _, clause := range clauses {
			noAlias := resolveAliasesClause(clause)
			cleaned := removeTrivialEquality(noAlias)
			removeComplexTermsInAtoms(cleaned)

			if cleaned.Equal(clause) {
				cleaned = clause
			} else {
				changed = true
			}

			rel.RemoveClause(clause)
			rel.AddClause(cleaned)
		}
	}

	return changed, nil
}

// substitution maps variable names to replacement terms.
type substitution map[string]ast.Argument

// singleton returns a substitution of one mapping.
func singleton(name string, term ast.Argument) substitution {
	return substitution{name: term.Clone().(ast.Argument)}
}

// mapper returns the node mapper applying the substitution.
func (s substitution) mapper() ast.Mapper {
	var m ast.MapperFunc
	m = func(n ast.Node) ast.Node {
		if v, ok := n.(*ast.Variable); ok {
			if term, ok := s[v.Name]; ok {
				return term.Clone()
			}
		}
		n.Apply(m)
		return n
	}
	return m
}

// applyToArgument applies the substitution to an owned argument.
func (s substitution) applyToArgument(arg ast.Argument) ast.Argument {
	return s.mapper().Map(arg).(ast.Argument)
}

// compose appends the other substitution to this one, such that applying the
// result equals applying this substitution followed by the other.
func (s substitution) compose(other substitution) {
	for name, term := range s {
		s[name] = other.applyToArgument(term)
	}
	for name, term := range other {
		if _, ok := s[name]; ok {
			continue
		}
		s[name] = term.Clone().(ast.Argument)
	}
}

// equation is a pending equality of the unification worklist.
type equation struct {
	lhs ast.Argument
	rhs ast.Argument
}

func newEquation(lhs, rhs ast.Argument) equation {
	return equation{
		lhs: lhs.Clone().(ast.Argument),
		rhs: rhs.Clone().(ast.Argument),
	}
}

// resolveAliasesClause computes a most-general unifier over the equality
// constraints of the clause and returns the substituted clause.
func resolveAliasesClause(clause *ast.Clause) *ast.Clause {
	isVar := func(arg ast.Argument) bool {
		_, ok := arg.(*ast.Variable)
		return ok
	}
	isRec := func(arg ast.Argument) bool {
		_, ok := arg.(*ast.RecordInit)
		return ok
	}
	occurs := func(a, b ast.Argument) bool {
		res := false
		ast.Walk(b, func(cur ast.Node) {
			if curArg, ok := cur.(ast.Argument); ok && curArg.Equal(a) {
				res = true
			}
		})
		return res
	}

	// extract the equations
	var equations []equation
	ast.Walk(clause, func(n ast.Node) {
		if c, ok := n.(*ast.Constraint); ok && c.Op == ast.ConstraintEQ {
			equations = append(equations, newEquation(c.LHS, c.RHS))
		}
	})

	// compute a unifying substitution
	subst := substitution{}
	newMapping := func(name string, term ast.Argument) {
		mapping := singleton(name, term)
		for i := range equations {
			equations[i].lhs = mapping.applyToArgument(equations[i].lhs)
			equations[i].rhs = mapping.applyToArgument(equations[i].rhs)
		}
		subst.compose(mapping)
	}

	for len(equations) > 0 {
		cur := equations[len(equations)-1]
		equations = equations[:len(equations)-1]

		a, b := cur.lhs, cur.rhs

		// t = t
		if a.Equal(b) {
			continue
		}

		// [..] = [..] decomposes pointwise
		if isRec(a) && isRec(b) {
			recA, recB := a.(*ast.RecordInit), b.(*ast.RecordInit)
			if len(recA.Args) != len(recB.Args) {
				continue
			}
			for i := range recA.Args {
				equations = append(equations, newEquation(recA.Args[i], recB.Args[i]))
			}
			continue
		}

		// literal clash: nothing to do
		if !isVar(a) && !isVar(b) {
			continue
		}

		if isVar(a) && isVar(b) {
			newMapping(a.(*ast.Variable).Name, b)
			continue
		}

		// t = v swaps orientation
		if !isVar(a) {
			equations = append(equations, equation{lhs: b, rhs: a})
			continue
		}

		// v = t with occurs-check
		v := a.(*ast.Variable)
		if occurs(v, b) {
			continue
		}
		newMapping(v.Name, b)
	}

	res := clause.Clone().(*ast.Clause)
	res.Apply(subst.mapper())
	return res
}

// removeTrivialEquality drops t = t constraints from the clause body.
func removeTrivialEquality(clause *ast.Clause) *ast.Clause {
	res := clause.CloneHead()
	for _, lit := range clause.BodyLiterals() {
		if c, ok := lit.(*ast.Constraint); ok && c.Op == ast.ConstraintEQ && c.LHS.Equal(c.RHS) {
			continue
		}
		res.AddToBody(lit.Clone().(ast.Literal))
	}
	return res
}

// removeComplexTermsInAtoms lifts functor arguments out of body atoms into
// fresh variables bound by explicit equality constraints.
func removeComplexTermsInAtoms(clause *ast.Clause) {
	atoms := clause.Atoms()

	// collect the distinct functor terms appearing in atom arguments
	var terms []ast.Argument
	for _, atom := range atoms {
		for _, arg := range atom.Args {
			if !ast.IsFunctor(arg) {
				continue
			}
			duplicate := false
			for _, t := range terms {
				if t.Equal(arg) {
					duplicate = true
					break
				}
			}
			if !duplicate {
				terms = append(terms, arg)
			}
		}
	}

	// substitute each term with a fresh variable
	type replacement struct {
		term ast.Argument
		v    *ast.Variable
	}
	replacements := make([]replacement, len(terms))
	for i, term := range terms {
		replacements[i] = replacement{
			term: term.Clone().(ast.Argument),
			v:    ast.NewVariable(fmt.Sprintf(" _tmp_%d", i)),
		}
	}

	var update ast.MapperFunc
	update = func(n ast.Node) ast.Node {
		for _, r := range replacements {
			if r.term.Equal(n) {
				return r.v.Clone()
			}
		}
		n.Apply(update)
		return n
	}

	for _, atom := range atoms {
		atom.Apply(update)
	}

	for _, r := range replacements {
		clause.AddToBody(ast.NewConstraint(ast.ConstraintEQ,
			r.v.Clone().(ast.Argument), r.term.Clone().(ast.Argument)))
	}
}
