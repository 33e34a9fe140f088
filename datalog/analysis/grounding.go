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

import "github.com/dolthub/go-datalog-engine/datalog/ast"

// The groundedness and constant-ness analyses share a boolean disjunct
// lattice: the value set is {false, true} ordered false below true, the meet
// operation is disjunction. Constraints are monotone updates run to fixpoint.

// boolKey maps an argument to its lattice variable. Named variables share one
// lattice variable per name within a clause; every other argument is its own
// variable.
func boolKey(arg ast.Argument) interface{} {
	if v, ok := arg.(*ast.Variable); ok {
		return "var " + v.Name
	}
	return arg
}

// boolProblem is a list of monotone constraints over a boolean assignment.
type boolProblem struct {
	constraints []func(ass map[interface{}]bool) bool
}

// isTrue forces the variable to true.
func (p *boolProblem) isTrue(k interface{}) {
	p.constraints = append(p.constraints, func(ass map[interface{}]bool) bool {
		if ass[k] {
			return false
		}
		ass[k] = true
		return true
	})
}

// imply adds a => b.
func (p *boolProblem) imply(a, b interface{}) {
	p.constraints = append(p.constraints, func(ass map[interface{}]bool) bool {
		if !ass[a] || ass[b] {
			return false
		}
		ass[b] = true
		return true
	})
}

// implyAll adds a1 /\ ... /\ an => b.
func (p *boolProblem) implyAll(as []interface{}, b interface{}) {
	p.constraints = append(p.constraints, func(ass map[interface{}]bool) bool {
		if ass[b] {
			return false
		}
		for _, a := range as {
			if !ass[a] {
				return false
			}
		}
		ass[b] = true
		return true
	})
}

// solve iterates all constraints to fixpoint. Each variable's value is a
// monotone chain in a finite lattice, so termination is guaranteed.
func (p *boolProblem) solve() map[interface{}]bool {
	ass := make(map[interface{}]bool)
	for changed := true; changed; {
		changed = false
		for _, c := range p.constraints {
			if c(ass) {
				changed = true
			}
		}
	}
	return ass
}

// boolResultFor reads the solved assignment back onto every argument of the
// clause.
func boolResultFor(clause *ast.Clause, ass map[interface{}]bool) map[ast.Argument]bool {
	res := make(map[ast.Argument]bool)
	ast.Walk(clause, func(n ast.Node) {
		if arg, ok := n.(ast.Argument); ok {
			res[arg] = ass[boolKey(arg)]
		}
	})
	return res
}

// GroundedTerms computes, per argument of the clause, whether its value is
// forced by the body: positive body atoms, constants, aggregators and fully
// grounded record initialisers ground; equality and record destructuring
// propagate groundness symmetrically. The head atom and negated atoms are
// not sources.
func GroundedTerms(clause *ast.Clause) map[ast.Argument]bool {
	var p boolProblem

	ignore := make(map[*ast.Atom]bool)

	ast.Walk(clause, func(n ast.Node) {
		switch t := n.(type) {
		case *ast.Clause:
			if t.Head != nil {
				ignore[t.Head] = true
			}

		case *ast.Negation:
			ignore[t.Atom] = true

		case *ast.Atom:
			if ignore[t] {
				return
			}
			for _, arg := range t.Args {
				p.isTrue(boolKey(arg))
			}

		case *ast.Constraint:
			if t.Op != ast.ConstraintEQ {
				return
			}
			lhs, rhs := boolKey(t.LHS), boolKey(t.RHS)
			p.imply(lhs, rhs)
			p.imply(rhs, lhs)

		case *ast.RecordInit:
			rec := boolKey(t)
			var args []interface{}
			for _, arg := range t.Args {
				k := boolKey(arg)
				p.imply(rec, k)
				args = append(args, k)
			}
			p.implyAll(args, rec)

		case *ast.NumberConstant, *ast.StringConstant, *ast.NullConstant:
			p.isTrue(boolKey(t.(ast.Argument)))

		case *ast.Aggregator:
			p.isTrue(boolKey(t))
		}
	})

	return boolResultFor(clause, p.solve())
}

// ConstTerms computes, per argument of the clause, whether it is a constant
// expression: constants are constant, equality links both sides, functors
// propagate constant-ness between operands and result, record initialisers
// between record and components.
func ConstTerms(clause *ast.Clause) map[ast.Argument]bool {
	var p boolProblem

	ast.Walk(clause, func(n ast.Node) {
		switch t := n.(type) {
		case *ast.NumberConstant, *ast.StringConstant, *ast.NullConstant:
			p.isTrue(boolKey(t.(ast.Argument)))

		case *ast.Constraint:
			if t.Op != ast.ConstraintEQ {
				return
			}
			lhs, rhs := boolKey(t.LHS), boolKey(t.RHS)
			p.imply(lhs, rhs)
			p.imply(rhs, lhs)

		case *ast.BinaryFunctor:
			fun := boolKey(t)
			lhs, rhs := boolKey(t.LHS), boolKey(t.RHS)
			p.implyAll([]interface{}{lhs, rhs}, fun)
			p.implyAll([]interface{}{fun, lhs}, rhs)
			p.implyAll([]interface{}{fun, rhs}, lhs)

		case *ast.RecordInit:
			rec := boolKey(t)
			var args []interface{}
			for _, arg := range t.Args {
				k := boolKey(arg)
				p.imply(rec, k)
				args = append(args, k)
			}
			p.implyAll(args, rec)
		}
	})

	return boolResultFor(clause, p.solve())
}
