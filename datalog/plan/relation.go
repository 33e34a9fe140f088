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

// Package plan defines the relational-algebra program emitted by the
// compiler front-end: a tree of statements over relations, with nested
// operations, values and conditions. The plan carries no back-references to
// the IR; the downstream evaluator consumes it as-is.
package plan

import (
	"fmt"
	"strings"
)

// RelationRef identifies a relation of the emitted program together with the
// metadata the evaluator needs: attribute names, attribute type qualifiers,
// the symbol mask, and storage and role flags. Temporary relations (the
// delta/new tables of semi-naive evaluation) carry an "@" name prefix.
type RelationRef struct {
	name  string
	arity int

	attributes     []string
	typeQualifiers []string
	symbolMask     []bool

	input     bool
	computed  bool
	output    bool
	printSize bool
	eqRel     bool
	btree     bool
	brie      bool
	data      bool
	temp      bool
}

// NewRelationRef returns a bare reference with no metadata.
func NewRelationRef(name string, arity int) RelationRef {
	return RelationRef{name: name, arity: arity}
}

// RelationRefConfig carries the optional metadata of a relation reference.
type RelationRefConfig struct {
	Attributes     []string
	TypeQualifiers []string
	SymbolMask     []bool
	Input          bool
	Computed       bool
	Output         bool
	PrintSize      bool
	EqRel          bool
	BTree          bool
	Brie           bool
	Data           bool
	Temp           bool
}

// NewRelationRefWithConfig returns a fully described relation reference.
func NewRelationRefWithConfig(name string, arity int, cfg RelationRefConfig) RelationRef {
	return RelationRef{
		name:           name,
		arity:          arity,
		attributes:     cfg.Attributes,
		typeQualifiers: cfg.TypeQualifiers,
		symbolMask:     cfg.SymbolMask,
		input:          cfg.Input,
		computed:       cfg.Computed,
		output:         cfg.Output,
		printSize:      cfg.PrintSize,
		eqRel:          cfg.EqRel,
		btree:          cfg.BTree,
		brie:           cfg.Brie,
		data:           cfg.Data,
		temp:           cfg.Temp,
	}
}

// Name returns the relation name, including the temporary prefix.
func (r RelationRef) Name() string { return r.name }

// Arity returns the number of columns.
func (r RelationRef) Arity() int { return r.arity }

// Attr returns the attribute name of column i, or the empty string.
func (r RelationRef) Attr(i int) string {
	if i < 0 || i >= len(r.attributes) {
		return ""
	}
	return r.attributes[i]
}

// TypeQualifier returns the type qualifier of column i, or the empty string.
func (r RelationRef) TypeQualifier(i int) string {
	if i < 0 || i >= len(r.typeQualifiers) {
		return ""
	}
	return r.typeQualifiers[i]
}

// IsSymbolColumn reports whether column i holds symbols.
func (r RelationRef) IsSymbolColumn(i int) bool {
	return i >= 0 && i < len(r.symbolMask) && r.symbolMask[i]
}

// IsInput reports whether the relation is loaded from facts.
func (r RelationRef) IsInput() bool { return r.input }

// IsComputed reports whether the relation contributes to the result.
func (r RelationRef) IsComputed() bool { return r.computed }

// IsOutput reports whether the relation is stored on completion.
func (r RelationRef) IsOutput() bool { return r.output }

// IsPrintSize reports whether the relation's cardinality is reported.
func (r RelationRef) IsPrintSize() bool { return r.printSize }

// IsEqRel reports whether the relation is an equivalence relation.
func (r RelationRef) IsEqRel() bool { return r.eqRel }

// IsBTree reports whether b-tree storage is requested.
func (r RelationRef) IsBTree() bool { return r.btree }

// IsBrie reports whether brie storage is requested.
func (r RelationRef) IsBrie() bool { return r.brie }

// IsData reports whether the relation is a data relation.
func (r RelationRef) IsData() bool { return r.data }

// IsTemp reports whether the relation is a temporary table.
func (r RelationRef) IsTemp() bool { return r.temp }

// Equal compares references by name and arity.
func (r RelationRef) Equal(other RelationRef) bool {
	return r.name == other.name && r.arity == other.arity
}

func (r RelationRef) String() string {
	if len(r.attributes) == 0 {
		return r.name
	}
	return fmt.Sprintf("%s(%s)", r.name, strings.Join(r.attributes, ","))
}
