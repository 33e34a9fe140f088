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

// Variables returns every variable referenced within the tree rooted at n,
// in visitation order.
func Variables(n Node) []*Variable {
	var vars []*Variable
	WalkVariables(n, func(v *Variable) {
		vars = append(vars, v)
	})
	return vars
}

// VariableNames returns the set of variable names referenced within n.
func VariableNames(n Node) map[string]bool {
	names := make(map[string]bool)
	WalkVariables(n, func(v *Variable) {
		names[v.Name] = true
	})
	return names
}

// AtomRelation returns the relation referenced by the atom, or nil when
// undefined.
func AtomRelation(atom *Atom, program *Program) *Relation {
	return program.GetRelation(atom.Name)
}

// HeadRelation returns the relation referenced by the clause head, or nil.
func HeadRelation(clause *Clause, program *Program) *Relation {
	if clause.Head == nil {
		return nil
	}
	return AtomRelation(clause.Head, program)
}

// BodyRelations returns the set of relations referenced in the clause body
// and in aggregators nested in the head, keyed by relation name.
func BodyRelations(clause *Clause, program *Program) map[string]*Relation {
	rels := make(map[string]*Relation)
	collect := func(n Node) {
		WalkAtoms(n, func(atom *Atom) {
			if rel := AtomRelation(atom, program); rel != nil {
				rels[rel.Name.String()] = rel
			}
		})
	}
	for _, lit := range clause.BodyLiterals() {
		collect(lit)
	}
	if clause.Head != nil {
		for _, arg := range clause.Head.Args {
			collect(arg)
		}
	}
	return rels
}

// HasClauseWithNegatedRelation reports whether any clause of relation negates
// negRel, returning a witness literal.
func HasClauseWithNegatedRelation(relation, negRel *Relation, program *Program) (Literal, bool) {
	for _, cl := range relation.Clauses() {
		for _, neg := range cl.Negations() {
			if AtomRelation(neg.Atom, program) == negRel {
				return neg, true
			}
		}
	}
	return nil, false
}

// HasClauseWithAggregatedRelation reports whether any clause of relation
// aggregates over aggRel, returning a witness literal. When several atoms
// qualify, an arbitrary one is returned.
func HasClauseWithAggregatedRelation(relation, aggRel *Relation, program *Program) (Literal, bool) {
	for _, cl := range relation.Clauses() {
		var found Literal
		Walk(cl, func(n Node) {
			agg, ok := n.(*Aggregator)
			if !ok {
				return
			}
			WalkAtoms(agg, func(atom *Atom) {
				if AtomRelation(atom, program) == aggRel {
					found = atom
				}
			})
		})
		if found != nil {
			return found, true
		}
	}
	return nil, false
}

// HasUnnamedVariable reports whether an underscore occurs within the tree
// rooted at n, without descending into aggregators.
func HasUnnamedVariable(n Node) bool {
	switch t := n.(type) {
	case *UnnamedVariable:
		return true
	case *Aggregator:
		return false
	case *TernaryFunctor:
		for i := range t.Args {
			if HasUnnamedVariable(t.Args[i]) {
				return true
			}
		}
		return false
	default:
		for _, child := range n.Children() {
			if HasUnnamedVariable(child) {
				return true
			}
		}
		return false
	}
}

// IsConstantArithExpr reports whether the argument is a numeric constant or
// numeric functor applied to constant arithmetic expressions only.
func IsConstantArithExpr(arg Argument) bool {
	switch t := arg.(type) {
	case *NumberConstant:
		return true
	case *UnaryFunctor:
		return t.Op.IsNumerical() && IsConstantArithExpr(t.Operand)
	case *BinaryFunctor:
		return t.Op.IsNumerical() && IsConstantArithExpr(t.LHS) && IsConstantArithExpr(t.RHS)
	case *TernaryFunctor:
		return t.Op.IsNumerical() && IsConstantArithExpr(t.Args[0]) &&
			IsConstantArithExpr(t.Args[1]) && IsConstantArithExpr(t.Args[2])
	}
	return false
}

// EqualTargets reports whether two argument lists are pairwise structurally
// equal.
func EqualTargets(a, b []Argument) bool {
	return argumentsEqual(a, b)
}
