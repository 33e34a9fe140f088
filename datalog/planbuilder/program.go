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

package planbuilder

import (
	"fmt"

	"github.com/dolthub/go-datalog-engine/datalog/analysis"
	"github.com/dolthub/go-datalog-engine/datalog/ast"
	"github.com/dolthub/go-datalog-engine/datalog/plan"
)

// deltaRef and newRef name the temporary tables of semi-naive evaluation.
func (b *Builder) deltaRef(rel *ast.Relation) plan.RelationRef {
	return b.relationRef("delta_"+relationName(rel.Name), rel.Arity(), rel, true)
}

func (b *Builder) newRef(rel *ast.Relation) plan.RelationRef {
	return b.relationRef("new_"+relationName(rel.Name), rel.Arity(), rel, true)
}

// TranslateNonRecursiveRelation computes the non-recursive clauses of a
// relation; nil when it has none.
func (b *Builder) TranslateNonRecursiveRelation(rel *ast.Relation) (plan.Statement, error) {
	recursive := analysis.Recursive(b.tu)

	var res plan.Statement
	for _, clause := range rel.Clauses() {
		if recursive.IsRecursive(clause) {
			continue
		}
		rule, err := b.TranslateClause(clause, 0)
		if err != nil {
			return nil, err
		}
		res = plan.AppendStmt(res, rule)
	}
	return res, nil
}

// nameUnnamedVariables replaces underscores in the positive atoms of a
// clause by uniquely named variables: delta rule versions are clones of the
// same clause, and the variables must keep their identity across them.
func nameUnnamedVariables(clause *ast.Clause) {
	counter := 0
	var instantiate ast.MapperFunc
	instantiate = func(n ast.Node) ast.Node {
		n.Apply(instantiate)
		if _, ok := n.(*ast.UnnamedVariable); ok {
			counter++
			return ast.NewVariable(fmt.Sprintf(" _unnamed_var%d", counter))
		}
		return n
	}
	for _, atom := range clause.Atoms() {
		atom.Apply(instantiate)
	}
}

// TranslateRecursiveRelation emits the semi-naive fixpoint computation of
// one recursive component: preamble (non-recursive clauses, delta seeding),
// the loop of delta rule versions with its exit condition and update block,
// and the postamble dropping the temporary tables.
func (b *Builder) TranslateRecursiveRelation(scc []*ast.Relation) (plan.Statement, error) {
	recursive := analysis.Recursive(b.tu)

	inSCC := make(map[*ast.Relation]bool, len(scc))
	for _, rel := range scc {
		inSCC[rel] = true
	}

	var preamble plan.Statement
	updateTable := plan.NewSequence()
	var postamble plan.Statement

	for _, rel := range scc {
		rrel := b.refForRelation(rel)
		delta := b.deltaRef(rel)
		next := b.newRef(rel)

		updateTable.Add(plan.NewSequence(
			plan.NewMerge(rrel, next),
			plan.NewSwap(delta, next),
			plan.NewClear(next),
		))

		postamble = plan.AppendStmt(postamble, plan.NewSequence(
			plan.NewDrop(delta),
			plan.NewDrop(next),
		))

		nonRecursive, err := b.TranslateNonRecursiveRelation(rel)
		if err != nil {
			return nil, err
		}
		preamble = plan.AppendStmt(preamble, nonRecursive)
		preamble = plan.AppendStmt(preamble, plan.NewMerge(delta, rrel))
	}

	loopBody := plan.NewParallel()

	for _, rel := range scc {
		var relSeq plan.Statement

		for _, clause := range rel.Clauses() {
			if !recursive.IsRecursive(clause) {
				continue
			}

			version := 0
			atoms := clause.Atoms()
			for j, atom := range atoms {
				atomRel := ast.AtomRelation(atom, b.program)
				if atomRel == nil || !inSCC[atomRel] {
					continue
				}

				// delta rule version: write into new_r, read the delta of
				// the chosen atom, and keep only genuinely new tuples
				r1 := clause.Clone().(*ast.Clause)
				r1.Head.Name = ast.NewQualifiedName(b.newRef(rel).Name())
				r1.Atoms()[j].Name = ast.NewQualifiedName(b.deltaRef(atomRel).Name())
				r1.AddToBody(ast.NewNegation(clause.Head.Clone().(*ast.Atom)))

				nameUnnamedVariables(r1)

				// later in-component atoms are restricted to the
				// not-yet-delta part
				for k := j + 1; k < len(atoms); k++ {
					laterRel := ast.AtomRelation(atoms[k], b.program)
					if laterRel == nil || !inSCC[laterRel] {
						continue
					}
					cur := r1.Atoms()[k].Clone().(*ast.Atom)
					cur.Name = ast.NewQualifiedName(b.deltaRef(laterRel).Name())
					r1.AddToBody(ast.NewNegation(cur))
				}

				rule, err := b.TranslateClause(r1, version)
				if err != nil {
					return nil, err
				}
				relSeq = plan.AppendStmt(relSeq, rule)

				version++
			}
		}

		if relSeq == nil {
			continue
		}
		loopBody.Add(relSeq)
	}

	var exitCond plan.Condition
	for _, rel := range scc {
		exitCond = plan.Conjoin(exitCond, plan.NewEmpty(b.newRef(rel)))
	}

	res := plan.NewSequence()
	if preamble != nil {
		res.Add(preamble)
	}
	res.Add(plan.NewLoop(loopBody, plan.NewExit(exitCond), updateTable))
	if postamble != nil {
		res.Add(postamble)
	}
	return res, nil
}

// TranslateProgram lowers the whole program: create every relation, load the
// inputs, run every schedule step dropping expired relations, and store or
// report every output.
func (b *Builder) TranslateProgram() (plan.Statement, error) {
	schedule := analysis.Schedule(b.tu)

	var res plan.Statement

	rels := b.program.Relations()

	for _, rel := range rels {
		rrel := b.refForRelation(rel)
		res = plan.AppendStmt(res, plan.NewCreate(rrel))

		if rel.IsInput() {
			res = plan.AppendStmt(res, plan.NewLoad(rrel))
		}

		if schedule.IsRecursive(rel) {
			res = plan.AppendStmt(res, plan.NewCreate(b.deltaRef(rel)))
			res = plan.AppendStmt(res, plan.NewCreate(b.newRef(rel)))
		}
	}

	var comp plan.Statement
	for _, step := range schedule.Steps() {
		scc := step.ComputedRelations()

		var stmt plan.Statement
		var err error
		if !step.IsRecursive() {
			stmt, err = b.TranslateNonRecursiveRelation(scc[0])
		} else {
			stmt, err = b.TranslateRecursiveRelation(scc)
		}
		if err != nil {
			return nil, err
		}
		comp = plan.AppendStmt(comp, stmt)

		for _, rel := range step.ExpiredRelations() {
			comp = plan.AppendStmt(comp, plan.NewDrop(b.refForRelation(rel)))
		}
	}
	res = plan.AppendStmt(res, comp)

	for _, rel := range rels {
		rrel := b.refForRelation(rel)
		if rel.IsOutput() {
			res = plan.AppendStmt(res, plan.NewStore(rrel))
		}
		if rel.IsPrintSize() {
			res = plan.AppendStmt(res, plan.NewPrintSize(rrel))
		}
	}

	return res, nil
}
