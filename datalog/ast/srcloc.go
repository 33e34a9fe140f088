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

import "fmt"

// Point is a position within a source file.
type Point struct {
	Line int
	Col  int
}

// Compare returns a negative number, zero, or a positive number when p is
// before, at, or after other.
func (p Point) Compare(other Point) int {
	if p.Line != other.Line {
		return p.Line - other.Line
	}
	return p.Col - other.Col
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// SrcLocation identifies a range of text in a source file. The zero value
// marks a node without a source position, such as nodes synthesised by
// transforms.
type SrcLocation struct {
	Filename string
	Start    Point
	End      Point
}

// IsSet reports whether the location carries an actual source position.
func (l SrcLocation) IsSet() bool {
	return l != SrcLocation{}
}

// Compare orders locations by filename, then start point, then end point.
func (l SrcLocation) Compare(other SrcLocation) int {
	if l.Filename != other.Filename {
		if l.Filename < other.Filename {
			return -1
		}
		return 1
	}
	if c := l.Start.Compare(other.Start); c != 0 {
		return c
	}
	return l.End.Compare(other.End)
}

func (l SrcLocation) String() string {
	return fmt.Sprintf("%s [%s-%s]", l.Filename, l.Start, l.End)
}

// ExtLoc renders the location the way diagnostics reference it.
func (l SrcLocation) ExtLoc() string {
	return fmt.Sprintf("file %s at line %d", l.Filename, l.Start.Line)
}
