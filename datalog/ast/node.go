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

// Package ast defines the intermediate representation of Datalog programs:
// a tree of nodes for programs, relations, clauses, literals and arguments.
//
// Nodes are owned by their parent; the tree has no sharing. Clone produces a
// deep, independent copy, Equal compares structure, and Apply rewrites the
// owned children of a node in place through a Mapper.
package ast

import "fmt"

// Node is implemented by every element of the IR.
type Node interface {
	fmt.Stringer

	// SrcLoc returns the source location of the node. Synthesised nodes
	// carry the zero location.
	SrcLoc() SrcLocation

	// SetSrcLoc sets the source location of the node.
	SetSrcLoc(loc SrcLocation)

	// Children returns borrowed references to the direct child nodes.
	Children() []Node

	// Equal reports structural equality: same variant, same primitive
	// payload, pairwise equal children.
	Equal(other Node) bool

	// Clone returns a deep, independent copy of the node.
	Clone() Node

	// Apply replaces each owned child c of the node by m.Map(c).
	Apply(m Mapper)
}

// Mapper rewrites a node into a replacement node. The mapper takes ownership
// of the argument and yields ownership of the result. A mapper that wants to
// rewrite an entire subtree calls Apply on the node before or after deciding
// on a replacement.
type Mapper interface {
	Map(n Node) Node
}

// MapperFunc adapts a function to the Mapper interface.
type MapperFunc func(n Node) Node

// Map implements Mapper.
func (f MapperFunc) Map(n Node) Node {
	return f(n)
}

// BottomUpMapper applies fn to every node of a tree, innermost first.
type BottomUpMapper struct {
	Fn func(n Node) Node
}

// Map implements Mapper.
func (m BottomUpMapper) Map(n Node) Node {
	n.Apply(m)
	return m.Fn(n)
}

// nodeLoc is the embedded location field shared by all node types.
type nodeLoc struct {
	loc SrcLocation
}

func (n *nodeLoc) SrcLoc() SrcLocation {
	return n.loc
}

func (n *nodeLoc) SetSrcLoc(loc SrcLocation) {
	n.loc = loc
}

// mapArgument applies a mapper to an owned argument child.
func mapArgument(m Mapper, arg Argument) Argument {
	if arg == nil {
		return nil
	}
	return m.Map(arg).(Argument)
}

// mapLiteral applies a mapper to an owned literal child.
func mapLiteral(m Mapper, lit Literal) Literal {
	if lit == nil {
		return nil
	}
	return m.Map(lit).(Literal)
}

// cloneArguments deep-clones a list of arguments.
func cloneArguments(args []Argument) []Argument {
	if args == nil {
		return nil
	}
	cp := make([]Argument, len(args))
	for i, a := range args {
		cp[i] = a.Clone().(Argument)
	}
	return cp
}

// argumentsEqual compares two argument lists pairwise.
func argumentsEqual(a, b []Argument) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
