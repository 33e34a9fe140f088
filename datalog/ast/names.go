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

import "strings"

// QualifiedName is an ordered, non-empty sequence of identifier segments
// naming a relation, e.g. problem.graph.edge. The zero value is the empty
// name. QualifiedName is a value type; all operations are pure.
type QualifiedName struct {
	names []string
}

// NewQualifiedName returns a qualified name made of the given segments.
func NewQualifiedName(names ...string) QualifiedName {
	cp := make([]string, len(names))
	copy(cp, names)
	return QualifiedName{names: cp}
}

// ParseQualifiedName splits a dot-separated identifier into a qualified name.
func ParseQualifiedName(name string) QualifiedName {
	return QualifiedName{names: strings.Split(name, ".")}
}

// Names returns the segments of the name.
func (n QualifiedName) Names() []string {
	cp := make([]string, len(n.names))
	copy(cp, n.names)
	return cp
}

// Head returns the first segment, or the empty string for the empty name.
func (n QualifiedName) Head() string {
	if len(n.names) == 0 {
		return ""
	}
	return n.names[0]
}

// IsEmpty reports whether the name has no segments.
func (n QualifiedName) IsEmpty() bool {
	return len(n.names) == 0
}

// Qualify returns a new name with the given segments prepended.
func (n QualifiedName) Qualify(prefix ...string) QualifiedName {
	cp := make([]string, 0, len(prefix)+len(n.names))
	cp = append(cp, prefix...)
	cp = append(cp, n.names...)
	return QualifiedName{names: cp}
}

// Append returns a new name with the given segments appended.
func (n QualifiedName) Append(suffix ...string) QualifiedName {
	cp := make([]string, 0, len(n.names)+len(suffix))
	cp = append(cp, n.names...)
	cp = append(cp, suffix...)
	return QualifiedName{names: cp}
}

// Equal reports whether both names consist of the same segments.
func (n QualifiedName) Equal(other QualifiedName) bool {
	if len(n.names) != len(other.names) {
		return false
	}
	for i := range n.names {
		if n.names[i] != other.names[i] {
			return false
		}
	}
	return true
}

// Compare orders names lexicographically on their segments.
func (n QualifiedName) Compare(other QualifiedName) int {
	for i := 0; i < len(n.names) && i < len(other.names); i++ {
		if n.names[i] != other.names[i] {
			if n.names[i] < other.names[i] {
				return -1
			}
			return 1
		}
	}
	return len(n.names) - len(other.names)
}

func (n QualifiedName) String() string {
	return strings.Join(n.names, ".")
}
