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

	"github.com/dolthub/go-datalog-engine/datalog"
	"github.com/dolthub/go-datalog-engine/datalog/ast"
)

const precedenceGraphName = "precedence-graph"

// PrecedenceGraph is the use -> def dependency graph of a program's
// relations: relation r points at every relation s referenced in a body of a
// clause defining r, whether positively, under negation, or inside an
// aggregator.
type PrecedenceGraph struct {
	graph *relationGraph
}

// Precedence returns the precedence graph of the program.
func Precedence(tu *datalog.TranslationUnit) *PrecedenceGraph {
	return tu.Analysis(precedenceGraphName, func(tu *datalog.TranslationUnit) interface{} {
		g := newRelationGraph()
		for _, rel := range tu.Program.Relations() {
			g.addNode(rel)
			for _, clause := range rel.Clauses() {
				for _, dep := range ast.BodyRelations(clause, tu.Program) {
					g.addEdge(rel, dep)
				}
			}
		}
		return &PrecedenceGraph{graph: g}
	}).(*PrecedenceGraph)
}

// Predecessors returns the relations the given relation depends on, sorted
// by name.
func (p *PrecedenceGraph) Predecessors(r *ast.Relation) []*ast.Relation {
	return p.graph.successors(r)
}

// DependsOn reports whether r directly depends on s.
func (p *PrecedenceGraph) DependsOn(r, s *ast.Relation) bool {
	return p.graph.hasEdge(r, s)
}

// Reaches reports whether r transitively depends on s.
func (p *PrecedenceGraph) Reaches(r, s *ast.Relation) bool {
	return p.graph.reaches(r, s)
}

// Clique returns the relations mutually dependent with r, including r.
func (p *PrecedenceGraph) Clique(r *ast.Relation) []*ast.Relation {
	return p.graph.clique(r)
}

// Relations returns every relation of the graph, sorted by name.
func (p *PrecedenceGraph) Relations() []*ast.Relation {
	return p.graph.sortedNodes()
}

// Output writes the graph in graphviz format.
func (p *PrecedenceGraph) Output(w io.Writer) {
	fmt.Fprintf(w, "digraph \"dependence-graph\" {\n")
	for _, rel := range p.graph.sortedNodes() {
		fmt.Fprintf(w, "\t%q [label = %q];\n", rel.Name.String(), rel.Name.String())
	}
	for _, rel := range p.graph.sortedNodes() {
		for _, dep := range p.graph.successors(rel) {
			fmt.Fprintf(w, "\t%q -> %q;\n", dep.Name.String(), rel.Name.String())
		}
	}
	fmt.Fprintf(w, "}\n")
}
