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

import "strings"

// ruleLiteral is a possibly negated literal inside a DNF clause.
type ruleLiteral struct {
	negated bool
	lit     Literal
}

func (l ruleLiteral) clone() ruleLiteral {
	return ruleLiteral{negated: l.negated, lit: l.lit.Clone().(Literal)}
}

func ruleLiteralsEqual(a, b ruleLiteral) bool {
	return a.negated == b.negated && a.lit.Equal(b.lit)
}

// ruleClause is a conjunction of literals.
type ruleClause []ruleLiteral

// RuleBody maintains a disjunctive-normal-form construction of clause bodies
// while the parser assembles rules. Inserting a literal removes duplicates
// within a clause, and inserting a clause drops clauses subsumed by an
// existing one.
type RuleBody struct {
	dnf []ruleClause
}

// RuleBodyTrue returns the body equivalent to true: one empty clause.
func RuleBodyTrue() *RuleBody {
	return &RuleBody{dnf: []ruleClause{{}}}
}

// RuleBodyFalse returns the body equivalent to false: no clauses.
func RuleBodyFalse() *RuleBody {
	return &RuleBody{}
}

// RuleBodyAtom returns the body consisting of the given atom.
func RuleBodyAtom(atom *Atom) *RuleBody {
	return &RuleBody{dnf: []ruleClause{{ruleLiteral{negated: false, lit: atom}}}}
}

// RuleBodyConstraint returns the body consisting of the given constraint.
func RuleBodyConstraint(constraint *Constraint) *RuleBody {
	return &RuleBody{dnf: []ruleClause{{ruleLiteral{negated: false, lit: constraint}}}}
}

// Negate replaces the body with its negation.
func (b *RuleBody) Negate() {
	res := RuleBodyTrue()
	for _, cur := range b.dnf {
		step := RuleBodyFalse()
		for _, lit := range cur {
			step.dnf = append(step.dnf, ruleClause{
				ruleLiteral{negated: !lit.negated, lit: lit.lit.Clone().(Literal)},
			})
		}
		res.Conjunct(step)
	}
	b.dnf = res.dnf
}

// Conjunct conjoins the other body to this one, consuming it.
func (b *RuleBody) Conjunct(other *RuleBody) {
	var res []ruleClause
	for _, clauseA := range b.dnf {
		for _, clauseB := range other.dnf {
			cur := make(ruleClause, 0, len(clauseA)+len(clauseB))
			for _, lit := range clauseA {
				cur = append(cur, lit.clone())
			}
			for _, lit := range clauseB {
				cur = insertLiteral(cur, lit.clone())
			}
			res = insertClause(res, cur)
		}
	}
	b.dnf = res
}

// Disjunct disjoins the other body to this one, consuming it.
func (b *RuleBody) Disjunct(other *RuleBody) {
	for _, cur := range other.dnf {
		b.dnf = insertClause(b.dnf, cur)
	}
}

// ToClauseBodies converts the DNF into a list of concrete clause bodies.
func (b *RuleBody) ToClauseBodies() []*Clause {
	bodies := make([]*Clause, 0, len(b.dnf))
	for _, cur := range b.dnf {
		clause := NewClause()
		for _, lit := range cur {
			base := lit.lit.Clone().(Literal)
			if lit.negated {
				switch l := base.(type) {
				case *Atom:
					neg := NewNegation(l)
					neg.SetSrcLoc(l.SrcLoc())
					base = neg
				case *Constraint:
					l.Negate()
				}
			}
			clause.AddToBody(base)
		}
		bodies = append(bodies, clause)
	}
	return bodies
}

func (b *RuleBody) String() string {
	clauses := make([]string, len(b.dnf))
	for i, cur := range b.dnf {
		lits := make([]string, len(cur))
		for j, lit := range cur {
			s := lit.lit.String()
			if lit.negated {
				s = "!" + s
			}
			lits[j] = s
		}
		clauses[i] = strings.Join(lits, ",")
	}
	return strings.Join(clauses, ";")
}

// insertLiteral appends a literal to a clause unless a duplicate is present.
func insertLiteral(cl ruleClause, lit ruleLiteral) ruleClause {
	for _, cur := range cl {
		if ruleLiteralsEqual(cur, lit) {
			return cl
		}
	}
	return append(cl, lit)
}

// isSubsetOf reports whether every literal of a occurs in b.
func isSubsetOf(a, b ruleClause) bool {
	if len(a) > len(b) {
		return false
	}
	for _, la := range a {
		found := false
		for _, lb := range b {
			if ruleLiteralsEqual(la, lb) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// insertClause adds a clause to the DNF: subsumed additions are dropped and
// clauses subsumed by the addition are removed.
func insertClause(dnf []ruleClause, cls ruleClause) []ruleClause {
	for _, cur := range dnf {
		if isSubsetOf(cur, cls) {
			return dnf
		}
	}
	res := dnf[:0]
	for _, cur := range dnf {
		if !isSubsetOf(cls, cur) {
			res = append(res, cur)
		}
	}
	return append(res, cls)
}
