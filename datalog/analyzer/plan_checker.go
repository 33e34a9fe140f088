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

	"github.com/dolthub/go-datalog-engine/datalog"
	"github.com/dolthub/go-datalog-engine/datalog/analysis"
	"github.com/dolthub/go-datalog-engine/datalog/ast"
)

// checkExecutionPlans verifies that user-declared execution plans only name
// rule versions that semi-naive lowering will produce: one version per
// in-component body atom of each recursive clause.
func checkExecutionPlans(ctx *datalog.Context, a *Analyzer, tu *datalog.TranslationUnit) (bool, error) {
	schedule := analysis.Schedule(tu)
	recursive := analysis.Recursive(tu)

	for _, step := range schedule.Steps() {
		scc := make(map[*ast.Relation]bool)
		for _, rel := range step.ComputedRelations() {
			scc[rel] = true
		}

		for _, rel := range step.ComputedRelations() {
			for _, clause := range rel.Clauses() {
				if !recursive.IsRecursive(clause) || clause.Plan == nil {
					continue
				}

				version := 0
				for _, atom := range clause.Atoms() {
					if dep := ast.AtomRelation(atom, tu.Program); dep != nil && scc[dep] {
						version++
					}
				}
				if version > clause.Plan.MaxVersion() {
					continue
				}

				for _, v := range clause.Plan.Versions() {
					if v < version {
						continue
					}
					tu.Report.AddDiagnostic(datalog.Diagnostic{
						Severity: datalog.SeverityError,
						Primary: datalog.NewLocatedMessage(
							fmt.Sprintf("execution plan for version %d", v),
							clause.Plan.OrderFor(v).SrcLoc()),
						Additional: []datalog.DiagnosticMessage{
							datalog.NewMessage(fmt.Sprintf("only versions 0..%d permitted", version-1)),
						},
					})
				}
			}
		}
	}
	return false, nil
}
