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
	"github.com/dolthub/go-datalog-engine/datalog/ast"
)

// uniqueAggregationVariables renames, within every aggregator carrying a
// target expression, the variables of that expression throughout the
// aggregator; an aggregated variable must not accidentally bind to an
// equally named variable outside the aggregate.
func uniqueAggregationVariables(ctx *datalog.Context, a *Analyzer, tu *datalog.TranslationUnit) (bool, error) {
	changed := false

	aggNumber := 0
	ast.WalkAggregators(tu.Program, func(agg *ast.Aggregator) {
		if agg.Target == nil {
			return
		}

		names := ast.VariableNames(agg.Target)

		ast.WalkVariables(agg, func(v *ast.Variable) {
			if !names[v.Name] {
				return
			}
			v.Name = fmt.Sprintf(" %s%d", v.Name, aggNumber)
			changed = true
		})

		aggNumber++
	})

	return changed, nil
}
