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
	"github.com/dolthub/go-datalog-engine/datalog"
	"github.com/dolthub/go-datalog-engine/datalog/ast"
)

// removeEmptyRelations deletes non-input relations with no clauses: clauses
// positively depending on an empty relation can never fire and are dropped,
// while negations on an empty relation always hold and are stripped.
// Deleting clauses can empty further relations, so the pass repeats until no
// further relation becomes empty. Empty computed relations are kept; their
// uses are removed once.
func removeEmptyRelations(ctx *datalog.Context, a *Analyzer, tu *datalog.TranslationUnit) (bool, error) {
	program := tu.Program
	changed := false
	done := make(map[*ast.Relation]bool)

	for again := true; again; {
		again = false
		for _, rel := range program.Relations() {
			if rel.ClauseSize() != 0 || rel.IsInput() || done[rel] {
				continue
			}
			done[rel] = true
			removeEmptyRelationUses(program, rel)
			if !rel.IsComputed() {
				program.RemoveRelation(rel.Name)
			}
			changed = true
			again = true
		}
	}

	return changed, nil
}

// removeEmptyRelationUses drops rules with a positive atom on the empty
// relation and strips negations of it from the remaining clauses.
func removeEmptyRelationUses(program *ast.Program, empty *ast.Relation) {
	var clauses []*ast.Clause
	for _, rel := range program.Relations() {
		clauses = append(clauses, rel.Clauses()...)
	}

	for _, cl := range clauses {
		removed := false
		for _, atom := range cl.Atoms() {
			if ast.AtomRelation(atom, program) == empty {
				program.RemoveClause(cl)
				removed = true
				break
			}
		}
		if removed {
			continue
		}

		rewrite := false
		for _, neg := range cl.Negations() {
			if ast.AtomRelation(neg.Atom, program) == empty {
				rewrite = true
				break
			}
		}
		if !rewrite {
			continue
		}

		res := cl.CloneHead()
		for _, lit := range cl.BodyLiterals() {
			if neg, ok := lit.(*ast.Negation); ok {
				if ast.AtomRelation(neg.Atom, program) == empty {
					continue
				}
			}
			res.AddToBody(lit.Clone().(ast.Literal))
		}

		owner := ast.HeadRelation(cl, program)
		program.RemoveClause(cl)
		if owner != nil {
			owner.AddClause(res)
		} else {
			program.AppendClause(res)
		}
	}
}
