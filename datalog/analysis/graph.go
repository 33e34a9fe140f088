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

	"github.com/dolthub/go-datalog-engine/datalog/ast"
)

// relationGraph is a directed graph over relations, keyed by relation name.
type relationGraph struct {
	nodes map[string]*ast.Relation
	edges map[string]map[string]*ast.Relation
}

func newRelationGraph() *relationGraph {
	return &relationGraph{
		nodes: make(map[string]*ast.Relation),
		edges: make(map[string]map[string]*ast.Relation),
	}
}

// addNode registers a relation.
func (g *relationGraph) addNode(r *ast.Relation) {
	key := r.Name.String()
	if _, ok := g.nodes[key]; !ok {
		g.nodes[key] = r
		g.edges[key] = make(map[string]*ast.Relation)
	}
}

// addEdge adds an edge from -> to, registering both nodes.
func (g *relationGraph) addEdge(from, to *ast.Relation) {
	g.addNode(from)
	g.addNode(to)
	g.edges[from.Name.String()][to.Name.String()] = to
}

// contains reports whether the relation is a node of the graph.
func (g *relationGraph) contains(r *ast.Relation) bool {
	_, ok := g.nodes[r.Name.String()]
	return ok
}

// sortedNodes returns the nodes sorted by name.
func (g *relationGraph) sortedNodes() []*ast.Relation {
	names := make([]string, 0, len(g.nodes))
	for n := range g.nodes {
		names = append(names, n)
	}
	sort.Strings(names)
	rels := make([]*ast.Relation, len(names))
	for i, n := range names {
		rels[i] = g.nodes[n]
	}
	return rels
}

// successors returns the direct successors of a node, sorted by name.
func (g *relationGraph) successors(r *ast.Relation) []*ast.Relation {
	edges := g.edges[r.Name.String()]
	names := make([]string, 0, len(edges))
	for n := range edges {
		names = append(names, n)
	}
	sort.Strings(names)
	rels := make([]*ast.Relation, len(names))
	for i, n := range names {
		rels[i] = edges[n]
	}
	return rels
}

// hasEdge reports whether the edge from -> to exists.
func (g *relationGraph) hasEdge(from, to *ast.Relation) bool {
	edges, ok := g.edges[from.Name.String()]
	if !ok {
		return false
	}
	_, ok = edges[to.Name.String()]
	return ok
}

// reaches reports whether to is reachable from from by following edges.
func (g *relationGraph) reaches(from, to *ast.Relation) bool {
	visited := make(map[string]bool)
	var visit func(cur *ast.Relation) bool
	visit = func(cur *ast.Relation) bool {
		key := cur.Name.String()
		if visited[key] {
			return false
		}
		visited[key] = true
		if g.hasEdge(cur, to) {
			return true
		}
		for _, next := range g.successors(cur) {
			if visit(next) {
				return true
			}
		}
		return false
	}
	return visit(from)
}

// clique returns the set of nodes mutually reachable with the given node,
// including the node itself.
func (g *relationGraph) clique(r *ast.Relation) []*ast.Relation {
	var res []*ast.Relation
	for _, other := range g.sortedNodes() {
		if other == r || (g.reaches(r, other) && g.reaches(other, r)) {
			res = append(res, other)
		}
	}
	return res
}
