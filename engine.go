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

// Package dle is a compiler front-end for a Datalog dialect with stratified
// negation, aggregation, record types and parameterised components. It takes
// the parsed program, instantiates components, checks and desugars the IR,
// and lowers it into a relational-algebra plan for a downstream evaluator.
package dle

import (
	"github.com/dolthub/go-datalog-engine/datalog"
	"github.com/dolthub/go-datalog-engine/datalog/analyzer"
	"github.com/dolthub/go-datalog-engine/datalog/ast"
	"github.com/dolthub/go-datalog-engine/datalog/plan"
	"github.com/dolthub/go-datalog-engine/datalog/planbuilder"
)

// Config for the Engine.
type Config struct {
	// Debug enables verbose logging of analyzer rule application.
	Debug bool

	// InstantiationDepth bounds nested component instantiation; zero means
	// the default limit.
	InstantiationDepth int
}

// Engine compiles parsed Datalog programs into relational plans.
type Engine struct {
	Analyzer *analyzer.Analyzer
}

// New returns an engine using the given analyzer and config.
func New(a *analyzer.Analyzer, cfg *Config) *Engine {
	if cfg != nil {
		a.Debug = cfg.Debug
		if cfg.InstantiationDepth > 0 {
			a.InstantiationDepth = cfg.InstantiationDepth
		}
	}
	return &Engine{Analyzer: a}
}

// NewDefault returns an engine with the default analyzer.
func NewDefault() *Engine {
	return New(analyzer.NewDefault(), nil)
}

// Compile analyzes and lowers a parsed program. The returned report carries
// every diagnostic raised along the way; when it contains errors, the plan
// is nil and the error wraps ErrCompilationFailed. Warnings never block
// compilation.
func (e *Engine) Compile(ctx *datalog.Context, program *ast.Program) (plan.Statement, *datalog.ErrorReport, error) {
	tu := datalog.NewTranslationUnit(program)
	stmt, err := e.CompileUnit(ctx, tu)
	return stmt, tu.Report, err
}

// CompileUnit runs the pipeline over an existing translation unit, so
// callers can supply their own symbol table or inspect intermediate state.
func (e *Engine) CompileUnit(ctx *datalog.Context, tu *datalog.TranslationUnit) (plan.Statement, error) {
	if err := e.Analyzer.Analyze(ctx, tu); err != nil {
		return nil, err
	}

	if n := tu.Report.NumErrors(); n > 0 {
		return nil, datalog.ErrCompilationFailed.New(n)
	}

	span, _ := ctx.Span("build_plan")
	defer span.Finish()

	return planbuilder.New(tu).TranslateProgram()
}
