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

// Package analysis implements the lazily computed, cached analyses of a
// translation unit: the type environment, argument type inference,
// groundedness, the precedence graph and everything derived from it.
//
// Analyses are read-only over the IR; results are cached on the translation
// unit and recomputed after a transform invalidates the cache.
package analysis

import (
	"github.com/dolthub/go-datalog-engine/datalog"
	"github.com/dolthub/go-datalog-engine/datalog/ast"
	"github.com/dolthub/go-datalog-engine/datalog/types"
)

const typeEnvName = "type-environment"

// TypeEnvironment returns the type environment of the program, built from
// its type declarations. Faulty declarations (duplicate names, unknown
// members) are tolerated; the checker reports them.
func TypeEnvironment(tu *datalog.TranslationUnit) *types.Env {
	return tu.Analysis(typeEnvName, func(tu *datalog.TranslationUnit) interface{} {
		return buildTypeEnvironment(tu.Program)
	}).(*types.Env)
}

func buildTypeEnvironment(program *ast.Program) *types.Env {
	env := types.NewEnv()

	// create all type symbols first so members can refer forward
	for _, decl := range program.Types() {
		if env.IsType(decl.TypeName()) {
			continue
		}
		switch t := decl.(type) {
		case *ast.PrimitiveTypeDecl:
			if t.Numeric {
				env.CreateNumericType(t.Name)
			} else {
				env.CreateSymbolType(t.Name)
			}
		case *ast.UnionTypeDecl:
			env.CreateUnionType(t.Name)
		case *ast.RecordTypeDecl:
			env.CreateRecordType(t.Name)
		}
	}

	// link symbols in a second step
	for _, decl := range program.Types() {
		switch t := decl.(type) {
		case *ast.UnionTypeDecl:
			ut, ok := env.Type(t.Name).(*types.Union)
			if !ok {
				continue
			}
			for _, member := range t.Members {
				if env.IsType(member) {
					ut.Add(env.Type(member))
				}
			}
		case *ast.RecordTypeDecl:
			rt, ok := env.Type(t.Name).(*types.Record)
			if !ok {
				continue
			}
			for _, f := range t.Fields {
				if env.IsType(f.TypeName) {
					rt.Add(f.Name, env.Type(f.TypeName))
				}
			}
		}
	}

	return env
}
