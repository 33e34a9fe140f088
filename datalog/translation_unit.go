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

package datalog

import "github.com/dolthub/go-datalog-engine/datalog/ast"

// TranslationUnit carries one program through the pipeline: the IR, the
// diagnostic report, the symbol table and the cache of analysis results.
//
// The cache is the only mutable state shared between passes. A transform that
// mutates the IR must call InvalidateAnalyses; analyses are recomputed
// lazily on next request.
type TranslationUnit struct {
	Program *ast.Program
	Report  *ErrorReport
	Symbols SymbolTable

	analyses map[string]interface{}
}

// NewTranslationUnit wraps a parsed program.
func NewTranslationUnit(program *ast.Program) *TranslationUnit {
	return &TranslationUnit{
		Program:  program,
		Report:   NewErrorReport(),
		Symbols:  NewSymbolTable(),
		analyses: make(map[string]interface{}),
	}
}

// Analysis returns the cached result for the named analysis, computing and
// caching it on first request.
func (tu *TranslationUnit) Analysis(name string, compute func(*TranslationUnit) interface{}) interface{} {
	if res, ok := tu.analyses[name]; ok {
		return res
	}
	res := compute(tu)
	tu.analyses[name] = res
	return res
}

// InvalidateAnalyses drops every cached analysis result. Transforms call it
// after mutating the IR.
func (tu *TranslationUnit) InvalidateAnalyses() {
	tu.analyses = make(map[string]interface{})
}
