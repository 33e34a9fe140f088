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

// Package analyzer transforms and checks a translation unit through batches
// of named rules: component instantiation, semantic checking, and the
// syntactic-sugar elimination passes that prepare a program for lowering.
package analyzer

import (
	"github.com/dolthub/go-datalog-engine/datalog"
)

// DefaultInstantiationDepth bounds nested component instantiation.
const DefaultInstantiationDepth = 1000

// RuleFunc is a rule of the analyzer: it checks or transforms the
// translation unit, reporting whether it changed the IR.
type RuleFunc func(ctx *datalog.Context, a *Analyzer, tu *datalog.TranslationUnit) (bool, error)

// Rule is a named rule of the analyzer.
type Rule struct {
	Name  string
	Apply RuleFunc
}

// Batch is a group of rules applied together. A batch with Iterations > 1 is
// re-applied until its rules report no change or the iteration budget runs
// out.
type Batch struct {
	Desc       string
	Iterations int
	Rules      []Rule
}

// Eval applies the batch to the translation unit.
func (b *Batch) Eval(ctx *datalog.Context, a *Analyzer, tu *datalog.TranslationUnit) error {
	iterations := b.Iterations
	if iterations < 1 {
		iterations = 1
	}
	for i := 0; i < iterations; i++ {
		changed := false
		for _, rule := range b.Rules {
			span, ruleCtx := ctx.Span("analyzer_rule")
			span.SetTag("rule", rule.Name)

			ruleChanged, err := rule.Apply(ruleCtx, a, tu)
			span.Finish()
			if err != nil {
				return err
			}
			if ruleChanged {
				tu.InvalidateAnalyses()
				changed = true
			}
			a.Log(ctx, "%s/%s: applied, changed=%v", b.Desc, rule.Name, ruleChanged)
		}
		if !changed {
			break
		}
	}
	return nil
}

// Analyzer checks a translation unit and desugars it for lowering by
// applying batches of rules.
type Analyzer struct {
	// Debug enables verbose logging of rule application.
	Debug bool

	// InstantiationDepth bounds nested component instantiation.
	InstantiationDepth int

	// Batches of rules to apply, in order.
	Batches []*Batch
}

// NewDefault returns the analyzer with the default batches.
func NewDefault() *Analyzer {
	a := &Analyzer{
		InstantiationDepth: DefaultInstantiationDepth,
	}
	a.Batches = []*Batch{
		{
			Desc:       "instantiation",
			Iterations: 1,
			Rules: []Rule{
				{Name: "instantiate_components", Apply: instantiateComponents},
			},
		},
		{
			Desc:       "checks",
			Iterations: 1,
			Rules: []Rule{
				{Name: "semantic_checker", Apply: checkSemantics},
			},
		},
		{
			Desc:       "desugar",
			Iterations: 1,
			Rules: []Rule{
				{Name: "unique_aggregation_variables", Apply: uniqueAggregationVariables},
				{Name: "resolve_aliases", Apply: resolveAliases},
				{Name: "remove_relation_copies", Apply: removeRelationCopies},
				{Name: "materialize_aggregation_queries", Apply: materializeAggregationQueries},
				{Name: "remove_empty_relations", Apply: removeEmptyRelations},
				{Name: "remove_redundant_relations", Apply: removeRedundantRelations},
			},
		},
		{
			Desc:       "post-checks",
			Iterations: 1,
			Rules: []Rule{
				{Name: "semantic_checker", Apply: checkSemantics},
				{Name: "execution_plan_checker", Apply: checkExecutionPlans},
			},
		},
	}
	return a
}

// Analyze runs every batch over the translation unit. Diagnostics accumulate
// in the unit's report; only internal failures surface as errors.
func (a *Analyzer) Analyze(ctx *datalog.Context, tu *datalog.TranslationUnit) error {
	span, ctx := ctx.Span("analyze")
	defer span.Finish()

	for _, batch := range a.Batches {
		if err := batch.Eval(ctx, a, tu); err != nil {
			return err
		}
	}
	return nil
}

// Log emits a debug message when debug logging is enabled.
func (a *Analyzer) Log(ctx *datalog.Context, msg string, args ...interface{}) {
	if a.Debug {
		ctx.Logger().Debugf(msg, args...)
	}
}
