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
	"github.com/dolthub/go-datalog-engine/datalog/analysis"
)

// removeRedundantRelations deletes every relation that no computed (output
// or printsize) relation transitively depends on.
func removeRedundantRelations(ctx *datalog.Context, a *Analyzer, tu *datalog.TranslationUnit) (bool, error) {
	redundant := analysis.Redundant(tu).Relations()
	if len(redundant) == 0 {
		return false, nil
	}
	for _, rel := range redundant {
		tu.Program.RemoveRelation(rel.Name)
	}
	return true, nil
}
