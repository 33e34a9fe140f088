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

package planbuilder

import "github.com/dolthub/go-datalog-engine/datalog/ast"

// location is the position of a value in the loop nest of a lowered rule:
// the loop level and the column of the tuple bound at that level.
type location struct {
	level  int
	column int

	// name optionally carries the attribute name of the column.
	name string
}

// before orders locations by level, then column.
func (l location) before(other location) bool {
	if l.level != other.level {
		return l.level < other.level
	}
	return l.column < other.column
}

// valueIndex records where every variable, record reference and aggregator
// of a rule becomes bound within the loop nest of its lowering.
type valueIndex struct {
	varReferences     map[string][]location
	recordDefinitions map[*ast.RecordInit]location
	recordUnpacks     map[*ast.RecordInit]int

	// aggregators are matched by identity or by structural equality
	aggregatorLocs []aggregatorLoc
}

type aggregatorLoc struct {
	agg *ast.Aggregator
	loc location
}

func newValueIndex() *valueIndex {
	return &valueIndex{
		varReferences:     make(map[string][]location),
		recordDefinitions: make(map[*ast.RecordInit]location),
		recordUnpacks:     make(map[*ast.RecordInit]int),
	}
}

// addVarReference records an occurrence of the variable at a location.
func (idx *valueIndex) addVarReference(v *ast.Variable, level, column int, name string) {
	loc := location{level: level, column: column, name: name}
	refs := idx.varReferences[v.Name]
	for _, cur := range refs {
		if cur.level == loc.level && cur.column == loc.column {
			return
		}
	}
	idx.varReferences[v.Name] = append(refs, loc)
}

// isDefined reports whether the variable has a binding point.
func (idx *valueIndex) isDefined(v *ast.Variable) bool {
	return len(idx.varReferences[v.Name]) > 0
}

// definitionPoint returns the first binding location of the variable.
func (idx *valueIndex) definitionPoint(v *ast.Variable) (location, bool) {
	refs := idx.varReferences[v.Name]
	if len(refs) == 0 {
		return location{}, false
	}
	first := refs[0]
	for _, cur := range refs[1:] {
		if cur.before(first) {
			first = cur
		}
	}
	return first, true
}

// references returns the sorted occurrence list of a variable name.
func (idx *valueIndex) references(name string) []location {
	refs := append([]location(nil), idx.varReferences[name]...)
	for i := 1; i < len(refs); i++ {
		for j := i; j > 0 && refs[j].before(refs[j-1]); j-- {
			refs[j], refs[j-1] = refs[j-1], refs[j]
		}
	}
	return refs
}

// variableNames returns the indexed variable names, sorted.
func (idx *valueIndex) variableNames() []string {
	names := make([]string, 0, len(idx.varReferences))
	for name := range idx.varReferences {
		names = append(names, name)
	}
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
	return names
}

// setRecordDefinition records where a record init value is grounded.
func (idx *valueIndex) setRecordDefinition(rec *ast.RecordInit, level, column int) {
	idx.recordDefinitions[rec] = location{level: level, column: column}
}

// recordDefinition returns the definition point of a record init.
func (idx *valueIndex) recordDefinition(rec *ast.RecordInit) (location, bool) {
	loc, ok := idx.recordDefinitions[rec]
	return loc, ok
}

// setRecordUnpackLevel records the loop level unpacking a record init.
func (idx *valueIndex) setRecordUnpackLevel(rec *ast.RecordInit, level int) {
	idx.recordUnpacks[rec] = level
}

// setAggregatorLocation records the level binding an aggregator's result.
func (idx *valueIndex) setAggregatorLocation(agg *ast.Aggregator, loc location) {
	idx.aggregatorLocs = append(idx.aggregatorLocs, aggregatorLoc{agg: agg, loc: loc})
}

// aggregatorLocation returns the binding location of an aggregator, matched
// by identity or structurally.
func (idx *valueIndex) aggregatorLocation(agg *ast.Aggregator) (location, bool) {
	for _, cur := range idx.aggregatorLocs {
		if cur.agg == agg || cur.agg.Equal(agg) {
			return cur.loc, true
		}
	}
	return location{}, false
}

// isSomethingDefinedOn reports whether any variable or record is first bound
// at the given level.
func (idx *valueIndex) isSomethingDefinedOn(level int) bool {
	for name := range idx.varReferences {
		if refs := idx.references(name); len(refs) > 0 && refs[0].level == level {
			return true
		}
	}
	for _, loc := range idx.recordDefinitions {
		if loc.level == level {
			return true
		}
	}
	return false
}
