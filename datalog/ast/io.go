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

import (
	"fmt"
	"sort"
	"strings"
)

// IODirectiveKind distinguishes .input, .output and .printsize directives.
type IODirectiveKind int

const (
	IOInput IODirectiveKind = iota
	IOOutput
	IOPrintSize
)

func (k IODirectiveKind) String() string {
	switch k {
	case IOInput:
		return ".input"
	case IOOutput:
		return ".output"
	case IOPrintSize:
		return ".printsize"
	}
	panic("unknown I/O directive kind")
}

// IODirective attaches key/value configured I/O to a relation. The front-end
// carries directives opaquely; interpreting them is the I/O layer's job.
type IODirective struct {
	nodeLoc
	Kind  IODirectiveKind
	Names []QualifiedName
	kv    map[string]string
}

var _ Node = (*IODirective)(nil)

// NewIODirective returns a directive of the given kind over the given
// relation names.
func NewIODirective(kind IODirectiveKind, names ...QualifiedName) *IODirective {
	return &IODirective{Kind: kind, Names: names, kv: make(map[string]string)}
}

// Set records a key/value parameter.
func (d *IODirective) Set(key, value string) {
	if d.kv == nil {
		d.kv = make(map[string]string)
	}
	d.kv[key] = value
}

// Get returns the value for a key and whether it is present.
func (d *IODirective) Get(key string) (string, bool) {
	v, ok := d.kv[key]
	return v, ok
}

// Keys returns the parameter keys in sorted order.
func (d *IODirective) Keys() []string {
	keys := make([]string, 0, len(d.kv))
	for k := range d.kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (d *IODirective) String() string {
	names := make([]string, len(d.Names))
	for i, n := range d.Names {
		names[i] = n.String()
	}
	s := fmt.Sprintf("%s %s", d.Kind, strings.Join(names, ","))
	if len(d.kv) == 0 {
		return s
	}
	params := make([]string, 0, len(d.kv))
	for _, k := range d.Keys() {
		params = append(params, fmt.Sprintf("%s=%q", k, d.kv[k]))
	}
	return fmt.Sprintf("%s(%s)", s, strings.Join(params, ","))
}

// Children implements Node.
func (d *IODirective) Children() []Node {
	return nil
}

// Equal implements Node.
func (d *IODirective) Equal(other Node) bool {
	o, ok := other.(*IODirective)
	if !ok || d.Kind != o.Kind || len(d.Names) != len(o.Names) || len(d.kv) != len(o.kv) {
		return false
	}
	for i := range d.Names {
		if !d.Names[i].Equal(o.Names[i]) {
			return false
		}
	}
	for k, v := range d.kv {
		if ov, ok := o.kv[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Clone implements Node.
func (d *IODirective) Clone() Node {
	cp := NewIODirective(d.Kind, d.Names...)
	cp.Names = make([]QualifiedName, len(d.Names))
	copy(cp.Names, d.Names)
	for k, v := range d.kv {
		cp.kv[k] = v
	}
	cp.loc = d.loc
	return cp
}

// Apply implements Node.
func (d *IODirective) Apply(m Mapper) {}
