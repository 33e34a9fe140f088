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
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dolthub/go-datalog-engine/datalog"
	"github.com/dolthub/go-datalog-engine/datalog/ast"
)

const sccGraphName = "scc-graph"

// SCCGraph groups the relations of the precedence graph into strongly
// connected components and carries the condensed component graph.
type SCCGraph struct {
	prec *PrecedenceGraph

	nodeToSCC map[string]int
	relations [][]*ast.Relation
	succ      []map[int]bool
	pred      []map[int]bool
}

// SCC returns the strongly-connected-component graph of the program,
// computed with Gabow's two-stack linear algorithm.
func SCC(tu *datalog.TranslationUnit) *SCCGraph {
	return tu.Analysis(sccGraphName, func(tu *datalog.TranslationUnit) interface{} {
		g := &SCCGraph{
			prec:      Precedence(tu),
			nodeToSCC: make(map[string]int),
		}
		g.run()
		return g
	}).(*SCCGraph)
}

func (g *SCCGraph) run() {
	rels := g.prec.Relations()

	preOrder := make(map[string]int, len(rels))
	for _, rel := range rels {
		preOrder[rel.Name.String()] = -1
		g.nodeToSCC[rel.Name.String()] = -1
	}

	state := &gabowState{
		graph:    g,
		preOrder: preOrder,
	}
	for _, rel := range rels {
		if preOrder[rel.Name.String()] == -1 {
			state.visit(rel)
		}
	}

	numSCCs := state.numSCCs

	// build the condensed graph
	g.succ = make([]map[int]bool, numSCCs)
	g.pred = make([]map[int]bool, numSCCs)
	for i := 0; i < numSCCs; i++ {
		g.succ[i] = make(map[int]bool)
		g.pred[i] = make(map[int]bool)
	}
	for _, u := range rels {
		for _, v := range g.prec.Predecessors(u) {
			sccU := g.nodeToSCC[u.Name.String()]
			sccV := g.nodeToSCC[v.Name.String()]
			if sccU != sccV {
				g.pred[sccU][sccV] = true
				g.succ[sccV][sccU] = true
			}
		}
	}

	// group the relations per component
	g.relations = make([][]*ast.Relation, numSCCs)
	for _, rel := range rels {
		scc := g.nodeToSCC[rel.Name.String()]
		g.relations[scc] = append(g.relations[scc], rel)
	}
}

// gabowState is the traversal state of Gabow's algorithm: two stacks and a
// pre-order counter.
type gabowState struct {
	graph    *SCCGraph
	preOrder map[string]int
	counter  int
	s, p     []*ast.Relation
	numSCCs  int
}

func (st *gabowState) visit(w *ast.Relation) {
	g := st.graph
	key := w.Name.String()

	st.preOrder[key] = st.counter
	st.counter++
	st.s = append(st.s, w)
	st.p = append(st.p, w)

	for _, t := range g.prec.Predecessors(w) {
		tk := t.Name.String()
		if st.preOrder[tk] == -1 {
			st.visit(t)
		} else if g.nodeToSCC[tk] == -1 {
			for st.preOrder[st.p[len(st.p)-1].Name.String()] > st.preOrder[tk] {
				st.p = st.p[:len(st.p)-1]
			}
		}
	}

	if st.p[len(st.p)-1] != w {
		return
	}
	st.p = st.p[:len(st.p)-1]

	for {
		v := st.s[len(st.s)-1]
		st.s = st.s[:len(st.s)-1]
		g.nodeToSCC[v.Name.String()] = st.numSCCs
		if v == w {
			break
		}
	}
	st.numSCCs++
}

// NumSCCs returns the number of components.
func (g *SCCGraph) NumSCCs() int {
	return len(g.relations)
}

// SCCOf returns the component id of a relation.
func (g *SCCGraph) SCCOf(r *ast.Relation) int {
	return g.nodeToSCC[r.Name.String()]
}

// RelationsOf returns the relations grouped in the component, sorted by
// name.
func (g *SCCGraph) RelationsOf(scc int) []*ast.Relation {
	rels := append([]*ast.Relation(nil), g.relations[scc]...)
	sort.Slice(rels, func(i, j int) bool {
		return rels[i].Name.Compare(rels[j].Name) < 0
	})
	return rels
}

// Successors returns the successor components, sorted.
func (g *SCCGraph) Successors(scc int) []int {
	return sortedInts(g.succ[scc])
}

// Predecessors returns the predecessor components, sorted.
func (g *SCCGraph) Predecessors(scc int) []int {
	return sortedInts(g.pred[scc])
}

// IsRecursive reports whether the component needs fixpoint evaluation: more
// than one relation, or a single relation depending on itself.
func (g *SCCGraph) IsRecursive(scc int) bool {
	rels := g.relations[scc]
	if len(rels) == 1 {
		single := rels[0]
		return g.prec.DependsOn(single, single)
	}
	return true
}

// IsRecursiveRelation reports whether the relation's component is recursive.
func (g *SCCGraph) IsRecursiveRelation(r *ast.Relation) bool {
	return g.IsRecursive(g.SCCOf(r))
}

// Output writes the component graph in graphviz format.
func (g *SCCGraph) Output(w io.Writer) {
	fmt.Fprintf(w, "digraph \"scc-graph\" {\n")
	for scc := 0; scc < g.NumSCCs(); scc++ {
		names := make([]string, 0, len(g.relations[scc]))
		for _, rel := range g.RelationsOf(scc) {
			names = append(names, rel.Name.String())
		}
		fmt.Fprintf(w, "\tsnode%d [label = %q,color=black];\n", scc, strings.Join(names, ",\\n"))
	}
	for scc := 0; scc < g.NumSCCs(); scc++ {
		for _, succ := range g.Successors(scc) {
			fmt.Fprintf(w, "\tsnode%d -> snode%d;\n", scc, succ)
		}
	}
	fmt.Fprintf(w, "}\n")
}

func sortedInts(set map[int]bool) []int {
	res := make([]int, 0, len(set))
	for i := range set {
		res = append(res, i)
	}
	sort.Ints(res)
	return res
}
