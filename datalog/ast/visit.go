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

package ast

// Walk visits every node of the tree rooted at n in depth-first pre-order.
func Walk(n Node, visit func(Node)) {
	if n == nil {
		return
	}
	visit(n)
	for _, child := range n.Children() {
		Walk(child, visit)
	}
}

// WalkPost visits every node of the tree rooted at n in depth-first
// post-order.
func WalkPost(n Node, visit func(Node)) {
	if n == nil {
		return
	}
	for _, child := range n.Children() {
		WalkPost(child, visit)
	}
	visit(n)
}

// WalkAll walks a list of roots in pre-order.
func WalkAll(nodes []Node, visit func(Node)) {
	for _, n := range nodes {
		Walk(n, visit)
	}
}

// WalkVariables visits every variable below n.
func WalkVariables(n Node, visit func(*Variable)) {
	Walk(n, func(cur Node) {
		if v, ok := cur.(*Variable); ok {
			visit(v)
		}
	})
}

// WalkAtoms visits every atom below n, including atoms nested in negations
// and aggregators.
func WalkAtoms(n Node, visit func(*Atom)) {
	Walk(n, func(cur Node) {
		if a, ok := cur.(*Atom); ok {
			visit(a)
		}
	})
}

// WalkAggregators visits every aggregator below n in post-order, so nested
// aggregators are seen before their enclosing one.
func WalkAggregators(n Node, visit func(*Aggregator)) {
	WalkPost(n, func(cur Node) {
		if a, ok := cur.(*Aggregator); ok {
			visit(a)
		}
	})
}
