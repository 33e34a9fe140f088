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
	"sort"

	"github.com/dolthub/go-datalog-engine/datalog"
	"github.com/dolthub/go-datalog-engine/datalog/analysis"
	"github.com/dolthub/go-datalog-engine/datalog/ast"
	"github.com/dolthub/go-datalog-engine/datalog/types"
)

// materializeAggregationQueries extracts every aggregation body that is more
// than a plain atom scan into a fresh relation, rewriting the aggregator to
// range over a single atom on it.
func materializeAggregationQueries(ctx *datalog.Context, a *Analyzer, tu *datalog.TranslationUnit) (bool, error) {
	changed := false

	program := tu.Program
	env := analysis.TypeEnvironment(tu)

	counter := 0
	for _, rel := range program.Relations() {
		for _, clause := range rel.Clauses() {
			clause := clause
			ast.WalkAggregators(clause, func(agg *ast.Aggregator) {
				if !needsMaterializedRelation(agg) {
					return
				}
				changed = true
				materializeAggregator(program, env, clause, agg, &counter)
			})
		}
	}

	return changed, nil
}

// materializeAggregator extracts one aggregator body into a fresh relation.
func materializeAggregator(program *ast.Program, env *types.Env, clause *ast.Clause,
	agg *ast.Aggregator, counter *int) {

	// the head carries the variables of the aggregate, sorted by name
	names := make(map[string]bool)
	ast.WalkVariables(agg, func(v *ast.Variable) {
		names[v.Name] = true
	})
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	relName := ast.NewQualifiedName(fmt.Sprintf("__agg_rel_%d", *counter))
	*counter++

	head := ast.NewAtom(relName)
	for _, name := range sorted {
		head.Args = append(head.Args, ast.NewVariable(name))
	}

	aggClause := ast.NewClause()
	aggClause.SetHead(head)
	aggClause.Generated = true
	for _, lit := range agg.Body {
		aggClause.AddToBody(lit.Clone().(ast.Literal))
	}

	// count aggregates promote underscores to fresh variables so the new
	// relation's tuples keep their multiplicity
	if agg.Op == ast.AggregateCount {
		count := 0
		var promote ast.MapperFunc
		promote = func(n ast.Node) ast.Node {
			if _, ok := n.(*ast.UnnamedVariable); ok {
				v := ast.NewVariable(fmt.Sprintf(" _%d", count))
				count++
				head.Args = append(head.Args, v.Clone().(ast.Argument))
				return v
			}
			n.Apply(promote)
			return n
		}
		for _, lit := range aggClause.BodyLiterals() {
			lit.Apply(promote)
		}
	}

	// build the new relation, typing each head argument per the inference
	newRel := ast.NewRelation(relName)
	argTypes := analysis.AnalyseTypes(env, aggClause, program)
	for _, arg := range head.Args {
		typeName := "symbol"
		if types.IsNumberTypeSet(argTypes[arg]) {
			typeName = "number"
		}
		newRel.AddAttribute(ast.NewAttribute(arg.String(), typeName))
	}

	newRel.AddClause(aggClause)
	program.AddRelation(newRel)

	// rewrite the aggregator to reference the new relation; variables local
	// to the aggregate are replaced by underscores in the reference atom
	refAtom := head.Clone().(*ast.Atom)

	varCtr := countOutsideAggregates(clause)
	for i, arg := range refAtom.Args {
		if v, ok := arg.(*ast.Variable); ok && varCtr[v.Name] == 0 {
			refAtom.Args[i] = &ast.UnnamedVariable{}
		}
	}

	agg.Body = []ast.Literal{refAtom}
}

// countOutsideAggregates counts variable usages in the clause outside of
// aggregate bodies. The walk is exhaustive, so usages inside aggregators are
// deducted and target-expression usages re-added; a zero count means the
// variable is local to an aggregate.
func countOutsideAggregates(clause *ast.Clause) map[string]int {
	varCtr := make(map[string]int)
	ast.Walk(clause, func(n ast.Node) {
		arg, ok := n.(ast.Argument)
		if !ok {
			return
		}
		if agg, ok := arg.(*ast.Aggregator); ok {
			ast.WalkVariables(agg, func(v *ast.Variable) {
				varCtr[v.Name]--
			})
			if agg.Target != nil {
				ast.WalkVariables(agg.Target, func(v *ast.Variable) {
					varCtr[v.Name]++
				})
			}
			return
		}
		if v, ok := arg.(*ast.Variable); ok {
			varCtr[v.Name]++
		}
	})
	return varCtr
}

// needsMaterializedRelation reports whether the aggregation body cannot be
// evaluated as a single atom scan.
func needsMaterializedRelation(agg *ast.Aggregator) bool {
	if len(agg.Body) != 1 {
		return true
	}

	atom, ok := agg.Body[0].(*ast.Atom)
	if !ok {
		return true
	}

	// repeated variables need a materialised filter
	duplicates := false
	seen := make(map[string]bool)
	ast.WalkVariables(atom, func(v *ast.Variable) {
		if seen[v.Name] {
			duplicates = true
		}
		seen[v.Name] = true
	})
	return duplicates
}
