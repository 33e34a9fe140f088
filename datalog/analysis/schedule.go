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

const scheduleName = "relation-schedule"

// ScheduleStep is a single step of the relation schedule: the relations
// computed in the step, the relations no longer needed once the step is
// done, and whether the step needs fixpoint evaluation.
type ScheduleStep struct {
	computed  []*ast.Relation
	expired   []*ast.Relation
	recursive bool
}

// ComputedRelations returns the relations computed in the step, sorted by
// name.
func (s ScheduleStep) ComputedRelations() []*ast.Relation {
	return s.computed
}

// ExpiredRelations returns the relations expired after the step, sorted by
// name.
func (s ScheduleStep) ExpiredRelations() []*ast.Relation {
	return s.expired
}

// IsRecursive reports whether the step needs fixpoint evaluation.
func (s ScheduleStep) IsRecursive() bool {
	return s.recursive
}

// RelationSchedule orders the components of the program into execution steps
// with per-step relation lifetimes.
type RelationSchedule struct {
	topsort *TopsortSCCGraph
	steps   []ScheduleStep
}

// Schedule returns the relation schedule of the program.
func Schedule(tu *datalog.TranslationUnit) *RelationSchedule {
	return tu.Analysis(scheduleName, func(tu *datalog.TranslationUnit) interface{} {
		s := &RelationSchedule{topsort: Topsort(tu)}
		s.run(tu)
		return s
	}).(*RelationSchedule)
}

func (s *RelationSchedule) run(tu *datalog.TranslationUnit) {
	scc := s.topsort.SCCGraph()
	order := s.topsort.Order()
	expiry := s.computeExpiry(tu)

	for i, sccID := range order {
		s.steps = append(s.steps, ScheduleStep{
			computed:  scc.RelationsOf(sccID),
			expired:   expiry[i],
			recursive: scc.IsRecursive(sccID),
		})
	}
}

// computeExpiry walks the schedule in reverse order, tracking the set of
// relations alive before each step: computed relations stay alive until
// every later step depending on them has run. The expiry of a step is the
// set difference of consecutive alive sets.
func (s *RelationSchedule) computeExpiry(tu *datalog.TranslationUnit) [][]*ast.Relation {
	scc := s.topsort.SCCGraph()
	prec := Precedence(tu)
	order := s.topsort.Order()
	n := len(order)

	expiry := make([][]*ast.Relation, n)
	if n == 0 {
		return expiry
	}

	// alive[k] holds the relations alive before the forward step n-k
	alive := make([]relSet, n)
	for i := range alive {
		alive[i] = make(relSet)
	}

	// outputs stay alive to the very end
	for _, rel := range tu.Program.Relations() {
		if rel.IsComputed() {
			alive[0].add(rel)
		}
	}

	for k := 1; k < n; k++ {
		for name, rel := range alive[k-1] {
			alive[k][name] = rel
		}
		for _, rel := range scc.RelationsOf(order[n-k]) {
			for _, pred := range prec.Predecessors(rel) {
				alive[k].add(pred)
			}
		}

		// expired at forward step n-k: alive before it, dead after it
		var expired []*ast.Relation
		for name, rel := range alive[k] {
			if _, ok := alive[k-1][name]; !ok {
				expired = append(expired, rel)
			}
		}
		sort.Slice(expired, func(i, j int) bool {
			return expired[i].Name.Compare(expired[j].Name) < 0
		})
		expiry[n-k] = expired
	}

	return expiry
}

// Steps returns the schedule steps in execution order.
func (s *RelationSchedule) Steps() []ScheduleStep {
	return s.steps
}

// IsRecursive reports whether the relation belongs to a recursive component.
func (s *RelationSchedule) IsRecursive(r *ast.Relation) bool {
	return s.topsort.SCCGraph().IsRecursiveRelation(r)
}
