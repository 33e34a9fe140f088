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
	"sort"

	"github.com/dolthub/go-datalog-engine/datalog"
	"github.com/dolthub/go-datalog-engine/datalog/ast"
)

const redundantName = "redundant-relations"

// RedundantRelations identifies relations that do not contribute to any
// computed (output or printsize) relation: everything not reverse-reachable
// from the computed set in the precedence graph.
type RedundantRelations struct {
	redundant []*ast.Relation
}

// Redundant returns the redundant-relation analysis of the program.
func Redundant(tu *datalog.TranslationUnit) *RedundantRelations {
	return tu.Analysis(redundantName, func(tu *datalog.TranslationUnit) interface{} {
		prec := Precedence(tu)

		work := make(relSet)
		notRedundant := make(relSet)

		for _, rel := range tu.Program.Relations() {
			if rel.IsComputed() {
				work.add(rel)
			}
		}

		for len(work) > 0 {
			var u *ast.Relation
			for _, rel := range work {
				if u == nil || rel.Name.Compare(u.Name) < 0 {
					u = rel
				}
			}
			delete(work, u.Name.String())
			notRedundant.add(u)

			for _, pred := range prec.Predecessors(u) {
				if !notRedundant.has(pred) {
					work.add(pred)
				}
			}
		}

		res := &RedundantRelations{}
		for _, rel := range tu.Program.Relations() {
			if !notRedundant.has(rel) {
				res.redundant = append(res.redundant, rel)
			}
		}
		sort.Slice(res.redundant, func(i, j int) bool {
			return res.redundant[i].Name.Compare(res.redundant[j].Name) < 0
		})
		return res
	}).(*RedundantRelations)
}

// Relations returns the redundant relations, sorted by name.
func (r *RedundantRelations) Relations() []*ast.Relation {
	return r.redundant
}
