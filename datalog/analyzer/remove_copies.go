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

// removeRelationCopies eliminates relations defined by a single rule of the
// shape r(x...) :- s(x...): every use of r is rewritten to s and r is
// removed. Alias chains are followed transitively; copy cycles degenerate to
// empty relations, keeping the cycle representative with its defining clause
// removed.
func removeRelationCopies(ctx *datalog.Context, a *Analyzer, tu *datalog.TranslationUnit) (bool, error) {
	program := tu.Program

	// collect r -> s direct aliases
	isDirectAliasOf := make(map[string]ast.QualifiedName)
	for _, rel := range program.Relations() {
		if rel.IsComputed() || rel.ClauseSize() != 1 {
			continue
		}
		cl := rel.Clauses()[0]
		if cl.IsFact() || cl.BodySize() != 1 || len(cl.Atoms()) != 1 {
			continue
		}
		atom := cl.Atoms()[0]
		if ast.EqualTargets(cl.Head.Args, atom.Args) {
			isDirectAliasOf[cl.Head.Name.String()] = atom.Name
		}
	}

	// map each alias to its ultimate target, detecting copy cycles
	isAliasOf := make(map[string]ast.QualifiedName)
	cycleReps := make(map[string]ast.QualifiedName)

	for from, to := range isDirectAliasOf {
		visited := map[string]bool{from: true, to.String(): true}
		target := to
		for {
			next, ok := isDirectAliasOf[target.String()]
			if !ok {
				break
			}
			if visited[next.String()] {
				cycleReps[target.String()] = target
				break
			}
			target = next
			visited[target.String()] = true
		}
		isAliasOf[from] = target
	}

	if len(isAliasOf) == 0 {
		return false, nil
	}

	// rewrite every atom according to the alias map
	ast.WalkAtoms(program, func(atom *ast.Atom) {
		if target, ok := isAliasOf[atom.Name.String()]; ok {
			atom.Name = target
		}
	})

	// cyclic aliases become empty relations
	for _, rep := range cycleReps {
		rel := program.GetRelation(rep)
		if rel != nil && rel.ClauseSize() > 0 {
			rel.RemoveClause(rel.Clauses()[0])
		}
	}

	// drop the now unused alias relations
	for from := range isAliasOf {
		if _, cyclic := cycleReps[from]; !cyclic {
			program.RemoveRelation(ast.ParseQualifiedName(from))
		}
	}

	return true, nil
}
