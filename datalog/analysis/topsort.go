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
	"strings"

	"github.com/dolthub/go-datalog-engine/datalog"
	"github.com/dolthub/go-datalog-engine/datalog/ast"
)

const topsortName = "topological-scc-graph"

// marker colours of the topological sort walk.
type colour int

const (
	white colour = iota
	gray
	black
)

// TopsortSCCGraph is the topologically sorted component graph: dependencies
// come before dependants in the order.
type TopsortSCCGraph struct {
	scc   *SCCGraph
	order []int
}

// Topsort returns the topologically sorted component graph of the program,
// computed by a reverse depth-first marker walk.
func Topsort(tu *datalog.TranslationUnit) *TopsortSCCGraph {
	return tu.Analysis(topsortName, func(tu *datalog.TranslationUnit) interface{} {
		t := &TopsortSCCGraph{scc: SCC(tu)}
		n := t.scc.NumSCCs()
		visited := make([]colour, n)
		for scc := 0; scc < n; scc++ {
			t.reverseDFS(scc, visited)
		}
		return t
	}).(*TopsortSCCGraph)
}

func (t *TopsortSCCGraph) reverseDFS(scc int, visited []colour) {
	switch visited[scc] {
	case gray:
		// the component graph is a DAG by construction
		panic("scc graph is not a DAG")
	case white:
		visited[scc] = gray
		for _, pred := range t.scc.Predecessors(scc) {
			t.reverseDFS(pred, visited)
		}
		visited[scc] = black
		t.order = append(t.order, scc)
	}
}

// SCCGraph returns the underlying component graph.
func (t *TopsortSCCGraph) SCCGraph() *SCCGraph {
	return t.scc
}

// Order returns the component ids in topological order.
func (t *TopsortSCCGraph) Order() []int {
	return t.order
}

// Output writes the sorted components in text format, one bracketed relation
// list per line.
func (t *TopsortSCCGraph) Output(w io.Writer) {
	for _, scc := range t.order {
		names := make([]string, 0)
		for _, rel := range t.scc.RelationsOf(scc) {
			names = append(names, rel.Name.String())
		}
		fmt.Fprintf(w, "[%s]\n", strings.Join(names, ", "))
	}
}

// relSet is a set of relations keyed by name.
type relSet map[string]*ast.Relation

func (s relSet) add(r *ast.Relation) {
	s[r.Name.String()] = r
}

func (s relSet) has(r *ast.Relation) bool {
	_, ok := s[r.Name.String()]
	return ok
}
