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
	"github.com/dolthub/go-datalog-engine/datalog"
	"github.com/dolthub/go-datalog-engine/datalog/ast"
	"github.com/dolthub/go-datalog-engine/datalog/types"
)

const typeAnalysisName = "type-analysis"

// TypeAnalysis carries the inferred type sets of every argument of every
// clause of a program. The lattice value of an argument starts at the set of
// all types (bottom) and descends under the pointwise greatest-common-subtype
// meet; an argument ending with an empty set is a type error.
type TypeAnalysis struct {
	argumentTypes map[ast.Argument]types.TypeSet
}

// Types returns the program-wide type analysis, computing it on first use.
func Types(tu *datalog.TranslationUnit) *TypeAnalysis {
	return tu.Analysis(typeAnalysisName, func(tu *datalog.TranslationUnit) interface{} {
		env := TypeEnvironment(tu)
		ta := &TypeAnalysis{argumentTypes: make(map[ast.Argument]types.TypeSet)}
		for _, rel := range tu.Program.Relations() {
			for _, clause := range rel.Clauses() {
				for arg, ts := range AnalyseTypes(env, clause, tu.Program) {
					ta.argumentTypes[arg] = ts
				}
			}
		}
		return ta
	}).(*TypeAnalysis)
}

// TypesOf returns the inferred type set of the given argument.
func (ta *TypeAnalysis) TypesOf(arg ast.Argument) types.TypeSet {
	if ts, ok := ta.argumentTypes[arg]; ok {
		return ts
	}
	return types.AllTypeSet()
}

// typeKey maps an argument to its lattice variable; named variables share
// one variable per name within a clause.
func typeKey(arg ast.Argument) interface{} {
	if v, ok := arg.(*ast.Variable); ok {
		return "var " + v.Name
	}
	return arg
}

// typeProblem is a list of monotone constraints over a type-set assignment.
type typeProblem struct {
	constraints []func(ass *typeAssignment) bool
}

// typeAssignment maps lattice variables to type sets, defaulting to the
// universal set.
type typeAssignment struct {
	values map[interface{}]types.TypeSet
}

func (a *typeAssignment) get(k interface{}) types.TypeSet {
	if ts, ok := a.values[k]; ok {
		return ts
	}
	return types.AllTypeSet()
}

func (a *typeAssignment) set(k interface{}, ts types.TypeSet) {
	a.values[k] = ts
}

func (p *typeProblem) add(c func(ass *typeAssignment) bool) {
	p.constraints = append(p.constraints, c)
}

// subtypeOfVar constrains the types of a to subtypes of the types of b.
func (p *typeProblem) subtypeOfVar(a, b interface{}) {
	p.add(func(ass *typeAssignment) bool {
		cur := ass.get(a)
		res := types.PairwiseGreatestCommonSubtypes(cur, ass.get(b))
		if res.Equal(cur) {
			return false
		}
		ass.set(a, res)
		return true
	})
}

// subtypeOfType constrains the types of a to subtypes of the fixed type b.
func (p *typeProblem) subtypeOfType(a interface{}, b types.Type) {
	p.add(func(ass *typeAssignment) bool {
		cur := ass.get(a)
		if cur.IsAll() {
			ass.set(a, types.NewTypeSet(b))
			return true
		}
		res := types.NewTypeSet()
		for _, t := range cur.Types() {
			res.InsertSet(types.GreatestCommonSubtypes(t, b))
		}
		if res.Equal(cur) {
			return false
		}
		ass.set(a, res)
		return true
	})
}

// subtypeOfSuperTypes constrains a to subtypes of the least common
// supertypes of the given variables.
func (p *typeProblem) subtypeOfSuperTypes(a interface{}, vars []interface{}) {
	if len(vars) == 1 {
		p.subtypeOfVar(a, vars[0])
		return
	}
	p.add(func(ass *typeAssignment) bool {
		limit := ass.get(a)
		for _, v := range vars {
			limit = types.PairwiseLeastCommonSupertypes(limit, ass.get(v))
		}
		cur := ass.get(a)
		res := types.PairwiseGreatestCommonSubtypes(cur, limit)
		if res.Equal(cur) {
			return false
		}
		ass.set(a, res)
		return true
	})
}

// subtypeOfComponent ties a record init variable b and its component a at
// the given field index: b's candidates are narrowed to record types wide
// enough, a's to the corresponding field types.
func (p *typeProblem) subtypeOfComponent(a, b interface{}, index int) {
	p.add(func(ass *typeAssignment) bool {
		recs := ass.get(b)
		if recs.IsAll() {
			return false
		}

		typesA := types.NewTypeSet()
		typesB := types.NewTypeSet()
		for _, t := range recs.Types() {
			rec, ok := t.(*types.Record)
			if !ok {
				continue
			}
			if len(rec.Fields()) <= index {
				continue
			}
			typesB.Insert(rec)
			if ft := rec.FieldType(index); ft != nil {
				typesA.Insert(ft)
			}
		}

		typesA = types.PairwiseGreatestCommonSubtypes(ass.get(a), typesA)

		changed := false
		if !recs.Equal(typesB) {
			ass.set(b, typesB)
			changed = true
		}
		if !ass.get(a).Equal(typesA) {
			ass.set(a, typesA)
			changed = true
		}
		return changed
	})
}

// solve iterates the constraints to fixpoint.
func (p *typeProblem) solve() *typeAssignment {
	ass := &typeAssignment{values: make(map[interface{}]types.TypeSet)}
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

// AnalyseTypes infers the type set of every argument of one clause by
// monotone constraint solving over the given environment.
func AnalyseTypes(env *types.Env, clause *ast.Clause, program *ast.Program) map[ast.Argument]types.TypeSet {
	var p typeProblem

	ast.Walk(clause, func(n ast.Node) {
		switch t := n.(type) {
		case *ast.Atom:
			// atoms bound each argument by the declared attribute type
			rel := ast.AtomRelation(t, program)
			if rel == nil || rel.Arity() != t.Arity() {
				return
			}
			for i, attr := range rel.Attributes {
				if env.IsType(attr.TypeName) {
					p.subtypeOfType(typeKey(t.Args[i]), env.Type(attr.TypeName))
				}
			}

		case *ast.StringConstant:
			p.subtypeOfType(typeKey(t), env.SymbolType())

		case *ast.NumberConstant:
			p.subtypeOfType(typeKey(t), env.NumberType())

		case *ast.Counter:
			p.subtypeOfType(typeKey(t), env.NumberType())

		case *ast.Constraint:
			lhs, rhs := typeKey(t.LHS), typeKey(t.RHS)
			p.subtypeOfVar(lhs, rhs)
			p.subtypeOfVar(rhs, lhs)

		case *ast.TypeCast:
			if env.IsType(t.TypeName) {
				p.subtypeOfType(typeKey(t), env.Type(t.TypeName))
			}

		case *ast.UnaryFunctor:
			out, in := typeKey(t), typeKey(t.Operand)
			if t.Op.IsNumerical() {
				p.subtypeOfType(out, env.NumberType())
			}
			if t.Op.IsSymbolic() {
				p.subtypeOfType(out, env.SymbolType())
			}
			if t.Op.AcceptsNumbers() {
				p.subtypeOfType(in, env.NumberType())
			}
			if t.Op.AcceptsSymbols() {
				p.subtypeOfType(in, env.SymbolType())
			}

		case *ast.BinaryFunctor:
			cur := typeKey(t)
			if t.Op.IsNumerical() {
				p.subtypeOfType(cur, env.NumberType())
			}
			if t.Op.IsSymbolic() {
				p.subtypeOfType(cur, env.SymbolType())
			}
			p.subtypeOfSuperTypes(cur, []interface{}{typeKey(t.LHS), typeKey(t.RHS)})

		case *ast.TernaryFunctor:
			cur := typeKey(t)
			if t.Op.IsNumerical() {
				p.subtypeOfType(cur, env.NumberType())
			}
			if t.Op.IsSymbolic() {
				p.subtypeOfType(cur, env.SymbolType())
			}
			for i := range t.Args {
				if t.Op.AcceptsNumbers(i) {
					p.subtypeOfType(typeKey(t.Args[i]), env.NumberType())
				}
				if t.Op.AcceptsSymbols(i) {
					p.subtypeOfType(typeKey(t.Args[i]), env.SymbolType())
				}
			}

		case *ast.RecordInit:
			rec := typeKey(t)
			for i, value := range t.Args {
				p.subtypeOfComponent(typeKey(value), rec, i)
			}

		case *ast.Aggregator:
			p.subtypeOfType(typeKey(t), env.NumberType())
			if t.Target != nil {
				p.subtypeOfType(typeKey(t.Target), env.NumberType())
			}
		}
	})

	ass := p.solve()

	res := make(map[ast.Argument]types.TypeSet)
	ast.Walk(clause, func(n ast.Node) {
		if arg, ok := n.(ast.Argument); ok {
			res[arg] = ass.get(typeKey(arg))
		}
	})
	return res
}
