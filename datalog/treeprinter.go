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

package datalog

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// TreePrinter prints a node and its children with tree drawing characters.
// Intended use:
//
//	p := NewTreePrinter()
//	p.WriteNode("Sequence")
//	p.WriteChildren(child1.String(), child2.String())
//	result := p.String()
type TreePrinter struct {
	buf   bytes.Buffer
	stage int
}

const (
	stageNode = iota
	stageChildren
	stageDone
)

// NewTreePrinter returns an empty tree printer.
func NewTreePrinter() *TreePrinter {
	return &TreePrinter{}
}

// ErrNodeAlreadyWritten is returned when WriteNode is called twice.
var ErrNodeAlreadyWritten = errors.New("treeprinter: node already written")

// ErrNodeNotWritten is returned when WriteChildren is called before
// WriteNode.
var ErrNodeNotWritten = errors.New("treeprinter: a node must be written before children")

// ErrChildrenAlreadyWritten is returned when WriteChildren is called twice.
var ErrChildrenAlreadyWritten = errors.New("treeprinter: children already written")

// WriteNode writes the representation of the root node.
func (p *TreePrinter) WriteNode(format string, args ...interface{}) error {
	if p.stage != stageNode {
		return ErrNodeAlreadyWritten
	}
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteRune('\n')
	p.stage = stageChildren
	return nil
}

// WriteChildren writes the representation of the node's children, annotated
// with the appropriate tree drawing characters.
func (p *TreePrinter) WriteChildren(children ...string) error {
	if p.stage < stageChildren {
		return ErrNodeNotWritten
	}
	if p.stage > stageChildren {
		return ErrChildrenAlreadyWritten
	}
	for i, child := range children {
		p.writeChild(child, i == len(children)-1)
	}
	p.stage = stageDone
	return nil
}

func (p *TreePrinter) writeChild(child string, last bool) {
	first, rest := " ├─ ", " │  "
	if last {
		first, rest = " └─ ", "    "
	}
	lines := strings.Split(child, "\n")
	p.buf.WriteString(first)
	p.buf.WriteString(lines[0])
	p.buf.WriteRune('\n')
	for _, line := range lines[1:] {
		if line == "" {
			continue
		}
		p.buf.WriteString(rest)
		p.buf.WriteString(line)
		p.buf.WriteRune('\n')
	}
}

// String returns the printed tree.
func (p *TreePrinter) String() string {
	return p.buf.String()
}
