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
	"github.com/dolthub/go-datalog-engine/datalog"
	"github.com/dolthub/go-datalog-engine/datalog/ast"
)

const componentLookupName = "component-lookup"

// ComponentLookup resolves component names against nested component scopes
// and the global scope.
type ComponentLookup struct {
	globalScope []*ast.Component
	enclosing   map[*ast.Component]*ast.Component
}

// Components returns the component lookup of the program.
func Components(tu *datalog.TranslationUnit) *ComponentLookup {
	return tu.Analysis(componentLookupName, func(tu *datalog.TranslationUnit) interface{} {
		lookup := &ComponentLookup{
			enclosing: make(map[*ast.Component]*ast.Component),
		}
		for _, comp := range tu.Program.Components() {
			lookup.globalScope = append(lookup.globalScope, comp)
			lookup.enclosing[comp] = nil
			lookup.index(comp)
		}
		return lookup
	}).(*ComponentLookup)
}

func (l *ComponentLookup) index(comp *ast.Component) {
	for _, nested := range comp.Components() {
		l.enclosing[nested] = comp
		l.index(nested)
	}
}

// Component resolves a component name from the given scope outward, then in
// the global scope. The active binding is applied to the name first; a
// forwarded parameter is followed one step only, to avoid infinite
// resolution. Returns nil when no component is in scope.
func (l *ComponentLookup) Component(scope *ast.Component, name string, binding ast.TypeBinding) *ast.Component {
	boundName := binding.Find(name)
	if boundName == "" {
		boundName = name
	}

	for searchScope := scope; searchScope != nil; {
		for _, cur := range searchScope.Components() {
			if cur.Type.Name == boundName {
				return cur
			}
		}
		next, ok := l.enclosing[searchScope]
		if !ok {
			break
		}
		searchScope = next
	}

	for _, cur := range l.globalScope {
		if cur.Type.Name == boundName {
			return cur
		}
	}

	return nil
}
