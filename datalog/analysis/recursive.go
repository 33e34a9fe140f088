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
)

const recursiveClausesName = "recursive-clauses"

// RecursiveClauses identifies the clauses whose body can reach back to the
// relation defined by their head.
type RecursiveClauses struct {
	recursive map[*ast.Clause]bool
}

// Recursive returns the recursive-clause analysis of the program.
func Recursive(tu *datalog.TranslationUnit) *RecursiveClauses {
	return tu.Analysis(recursiveClausesName, func(tu *datalog.TranslationUnit) interface{} {
		rc := &RecursiveClauses{recursive: make(map[*ast.Clause]bool)}
		for _, rel := range tu.Program.Relations() {
			for _, clause := range rel.Clauses() {
				if computeIsRecursive(clause, tu.Program) {
					rc.recursive[clause] = true
				}
			}
		}
		return rc
	}).(*RecursiveClauses)
}

// IsRecursive reports whether the clause is recursive.
func (rc *RecursiveClauses) IsRecursive(clause *ast.Clause) bool {
	return rc.recursive[clause]
}

// computeIsRecursive checks whether the head relation is reachable from the
// positive body atoms of the clause.
func computeIsRecursive(clause *ast.Clause, program *ast.Program) bool {
	trg := ast.HeadRelation(clause, program)
	if trg == nil {
		return false
	}

	reached := make(map[*ast.Relation]bool)
	var worklist []*ast.Relation

	for _, atom := range clause.Atoms() {
		rel := ast.AtomRelation(atom, program)
		if rel == trg {
			return true
		}
		worklist = append(worklist, rel)
	}

	for len(worklist) > 0 {
		cur := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		// undefined references are reported elsewhere
		if cur == nil {
			continue
		}
		if reached[cur] {
			continue
		}
		reached[cur] = true

		for _, cl := range cur.Clauses() {
			for _, atom := range cl.Atoms() {
				rel := ast.AtomRelation(atom, program)
				if rel == trg {
					return true
				}
				worklist = append(worklist, rel)
			}
		}
	}

	return false
}
