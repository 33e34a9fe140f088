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

// Package planbuilder lowers a checked, desugared program into the
// relational-algebra plan: per-clause loop nests, non-recursive relation
// computations, and semi-naive fixpoint loops for recursive components.
package planbuilder

import (
	"strings"

	"github.com/dolthub/go-datalog-engine/datalog"
	"github.com/dolthub/go-datalog-engine/datalog/analysis"
	"github.com/dolthub/go-datalog-engine/datalog/ast"
	"github.com/dolthub/go-datalog-engine/datalog/plan"
	"github.com/dolthub/go-datalog-engine/datalog/types"
)

// Builder lowers the program of one translation unit.
type Builder struct {
	tu      *datalog.TranslationUnit
	program *ast.Program
	env     *types.Env
}

// New returns a builder over the translation unit.
func New(tu *datalog.TranslationUnit) *Builder {
	return &Builder{
		tu:      tu,
		program: tu.Program,
		env:     analysis.TypeEnvironment(tu),
	}
}

// relationName flattens a qualified name into the plan namespace.
func relationName(name ast.QualifiedName) string {
	return strings.Join(name.Names(), "-")
}

// relationRef builds the plan reference for a relation. rel may be nil for
// synthetic references such as the delta/new tables of recursive lowering.
func (b *Builder) relationRef(name string, arity int, rel *ast.Relation, temp bool) plan.RelationRef {
	if temp {
		name = "@" + name
	}
	if rel == nil {
		return plan.NewRelationRefWithConfig(name, arity, plan.RelationRefConfig{Temp: temp})
	}

	cfg := plan.RelationRefConfig{
		Input:     rel.IsInput(),
		Computed:  rel.IsComputed(),
		Output:    rel.IsOutput(),
		PrintSize: rel.IsPrintSize(),
		EqRel:     rel.IsEqRel(),
		BTree:     rel.IsBTree(),
		Brie:      rel.IsBrie(),
		Data:      rel.IsData(),
		Temp:      temp,
	}
	for _, attr := range rel.Attributes {
		cfg.Attributes = append(cfg.Attributes, attr.Name)
		if b.env.IsType(attr.TypeName) {
			typ := b.env.Type(attr.TypeName)
			cfg.TypeQualifiers = append(cfg.TypeQualifiers, types.Qualifier(typ))
			cfg.SymbolMask = append(cfg.SymbolMask, types.IsSymbolType(typ))
		} else {
			cfg.TypeQualifiers = append(cfg.TypeQualifiers, "")
			cfg.SymbolMask = append(cfg.SymbolMask, false)
		}
	}
	return plan.NewRelationRefWithConfig(name, arity, cfg)
}

// atomRef builds the plan reference for an atom. Atoms naming temporary
// tables resolve to bare references.
func (b *Builder) atomRef(atom *ast.Atom) plan.RelationRef {
	return b.relationRef(relationName(atom.Name), atom.Arity(), ast.AtomRelation(atom, b.program), false)
}

// refForRelation builds the plan reference for a declared relation.
func (b *Builder) refForRelation(rel *ast.Relation) plan.RelationRef {
	return b.relationRef(relationName(rel.Name), rel.Arity(), rel, false)
}

// translateValue lowers an argument into a plan value; nil for underscores.
func (b *Builder) translateValue(arg ast.Argument, idx *valueIndex) (plan.Value, error) {
	if arg == nil {
		return nil, nil
	}

	switch t := arg.(type) {
	case *ast.Variable:
		loc, ok := idx.definitionPoint(t)
		if !ok {
			return nil, datalog.ErrVariableNotBound.New(t.Name)
		}
		return plan.NewElementAccess(loc.level, loc.column, loc.name), nil

	case *ast.UnnamedVariable:
		return nil, nil

	case *ast.NumberConstant:
		return plan.NewNumber(t.Value), nil

	case *ast.StringConstant:
		return plan.NewNumber(b.tu.Symbols.Lookup(t.Symbol)), nil

	case *ast.NullConstant:
		return plan.NewNumber(0), nil

	case *ast.TypeCast:
		return b.translateValue(t.Value, idx)

	case *ast.Counter:
		return &plan.AutoIncrement{}, nil

	case *ast.UnaryFunctor:
		operand, err := b.translateValue(t.Operand, idx)
		if err != nil {
			return nil, err
		}
		return plan.NewUnaryOperator(t.Op.Symbol(), operand), nil

	case *ast.BinaryFunctor:
		lhs, err := b.translateValue(t.LHS, idx)
		if err != nil {
			return nil, err
		}
		rhs, err := b.translateValue(t.RHS, idx)
		if err != nil {
			return nil, err
		}
		return plan.NewBinaryOperator(t.Op.Symbol(), lhs, rhs), nil

	case *ast.TernaryFunctor:
		a, err := b.translateValue(t.Args[0], idx)
		if err != nil {
			return nil, err
		}
		bb, err := b.translateValue(t.Args[1], idx)
		if err != nil {
			return nil, err
		}
		c, err := b.translateValue(t.Args[2], idx)
		if err != nil {
			return nil, err
		}
		return plan.NewTernaryOperator(t.Op.Symbol(), a, bb, c), nil

	case *ast.RecordInit:
		values := make([]plan.Value, 0, len(t.Args))
		for _, cur := range t.Args {
			v, err := b.translateValue(cur, idx)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		return plan.NewPack(values...), nil

	case *ast.Aggregator:
		loc, ok := idx.aggregatorLocation(t)
		if !ok {
			return nil, datalog.ErrAggregatorNotIndexed.New(t)
		}
		return plan.NewElementAccess(loc.level, loc.column, loc.name), nil
	}

	return nil, datalog.ErrUnsupportedNode.New(arg)
}

// TranslateClause lowers one clause into a plan statement; facts become Fact
// statements, rules become Insert loop nests. version selects the user
// execution plan to honour.
func (b *Builder) TranslateClause(clause *ast.Clause, version int) (plan.Statement, error) {
	if clause.Plan != nil && clause.Plan.HasOrderFor(version) {
		order := clause.Plan.OrderFor(version)

		cp := clause.Clone().(*ast.Clause)
		newOrder := make([]int, order.Size())
		for i, idx := range order.Order {
			newOrder[i] = idx - 1
		}
		cp.ReorderAtoms(newOrder)
		cp.Plan = nil
		cp.FixedPlan = true

		return b.TranslateClause(cp, version)
	}

	head := clause.Head

	if clause.IsFact() {
		values := make([]plan.Value, 0, len(head.Args))
		for _, arg := range head.Args {
			v, err := b.translateValue(arg, newValueIndex())
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		return plan.NewFact(b.atomRef(head), values), nil
	}

	// -- index values in the rule --

	idx := newValueIndex()

	// the nesting order of scans and record unpacks
	type nesting struct {
		atom *ast.Atom
		rec  *ast.RecordInit
	}
	var opNesting []nesting

	level := 0
	for _, atom := range clause.Atoms() {
		atomLevel := level
		opNesting = append(opNesting, nesting{atom: atom})
		level++

		rel := b.atomRef(atom)

		var indexValues func(args []ast.Argument, argLevel int, attrOf func(int) string)
		indexValues = func(args []ast.Argument, argLevel int, attrOf func(int) string) {
			for pos, arg := range args {
				if v, ok := arg.(*ast.Variable); ok {
					idx.addVarReference(v, argLevel, pos, attrOf(pos))
				}
				if rec, ok := arg.(*ast.RecordInit); ok {
					unpackLevel := level
					level++
					opNesting = append(opNesting, nesting{rec: rec})
					idx.setRecordUnpackLevel(rec, unpackLevel)
					idx.setRecordDefinition(rec, argLevel, pos)
					indexValues(rec.Args, unpackLevel, func(int) string { return "" })
				}
			}
		}
		indexValues(atom.Args, atomLevel, rel.Attr)
	}

	// aggregators get their own levels past all atom scans
	var aggregators []*ast.Aggregator
	var aggErr error
	ast.WalkAggregators(clause, func(agg *ast.Aggregator) {
		for _, seen := range aggregators {
			if seen.Equal(agg) {
				return
			}
		}

		aggLevel := level
		level++
		idx.setAggregatorLocation(agg, location{level: aggLevel, column: 0})

		if len(agg.Body) != 1 {
			aggErr = datalog.ErrComplexAggregateBody.New(agg)
			return
		}
		atom, ok := agg.Body[0].(*ast.Atom)
		if !ok {
			aggErr = datalog.ErrComplexAggregateBody.New(agg)
			return
		}
		rel := b.atomRef(atom)
		for pos, arg := range atom.Args {
			if v, ok := arg.(*ast.Variable); ok {
				idx.addVarReference(v, aggLevel, pos, rel.Attr(pos))
			}
		}

		aggregators = append(aggregators, agg)
	})
	if aggErr != nil {
		return nil, aggErr
	}

	// -- build the operation tree, innermost first --

	levelOps := make(map[int]plan.Operation)

	project := plan.NewProject(b.atomRef(head))
	for _, arg := range head.Args {
		v, err := b.translateValue(arg, idx)
		if err != nil {
			return nil, err
		}
		project.AddArg(v)
	}

	var op plan.Operation = project

	// aggregator levels wrap the projection in reverse order
	for i := len(aggregators) - 1; i >= 0; i-- {
		agg := aggregators[i]
		level--

		var fn plan.AggFunction
		switch agg.Op {
		case ast.AggregateMin:
			fn = plan.AggMin
		case ast.AggregateMax:
			fn = plan.AggMax
		case ast.AggregateCount:
			fn = plan.AggCount
		case ast.AggregateSum:
			fn = plan.AggSum
		}

		var value plan.Value
		if agg.Target != nil {
			var err error
			value, err = b.translateValue(agg.Target, idx)
			if err != nil {
				return nil, err
			}
		}

		atom := agg.Body[0].(*ast.Atom)
		rel := b.atomRef(atom)
		aggOp := plan.NewAggregate(op, fn, value, rel)

		for pos, arg := range atom.Args {
			if c, ok := constantIndex(b, arg); ok {
				aggOp.AddCondition(plan.NewBinaryRelation("=",
					plan.NewElementAccess(level, pos, rel.Attr(pos)),
					plan.NewNumber(c)))
			}
		}

		levelOps[level] = aggOp
		op = aggOp
	}

	// atom scans and record unpacks
	for len(opNesting) > 0 {
		cur := opNesting[len(opNesting)-1]
		opNesting = opNesting[:len(opNesting)-1]
		curLevel := len(opNesting)

		switch {
		case cur.atom != nil:
			atom := cur.atom
			rel := b.atomRef(atom)

			// a scan binding nothing below is a pure existence check
			existCheck := !idx.isSomethingDefinedOn(curLevel)
			for _, arg := range atom.Args {
				if _, ok := arg.(*ast.Aggregator); ok {
					existCheck = false
				}
			}

			scan := plan.NewScan(rel, op, existCheck)

			for pos, arg := range atom.Args {
				if c, ok := constantIndex(b, arg); ok {
					scan.AddCondition(plan.NewBinaryRelation("=",
						plan.NewElementAccess(curLevel, pos, rel.Attr(pos)),
						plan.NewNumber(c)))
				} else if agg, ok := arg.(*ast.Aggregator); ok {
					loc, found := idx.aggregatorLocation(agg)
					if !found {
						return nil, datalog.ErrAggregatorNotIndexed.New(agg)
					}
					scan.AddCondition(plan.NewBinaryRelation("=",
						plan.NewElementAccess(curLevel, pos, rel.Attr(pos)),
						plan.NewElementAccess(loc.level, loc.column, loc.name)))
				}
			}

			levelOps[curLevel] = scan
			op = scan

		case cur.rec != nil:
			rec := cur.rec
			loc, ok := idx.recordDefinition(rec)
			if !ok {
				return nil, datalog.ErrRecordNotBound.New(rec)
			}

			lookup := plan.NewLookup(op, loc.level, loc.column, len(rec.Args))

			for pos, arg := range rec.Args {
				if c, ok := constantIndex(b, arg); ok {
					lookup.AddCondition(plan.NewBinaryRelation("=",
						plan.NewElementAccess(curLevel, pos, ""),
						plan.NewNumber(c)))
				}
			}

			levelOps[curLevel] = lookup
			op = lookup
		}
	}

	// attach a condition at the deepest level it references
	attach := func(cond plan.Condition) {
		lvl := conditionLevel(cond)
		if target, ok := levelOps[lvl]; ok {
			target.AddCondition(cond)
			return
		}
		op.AddCondition(cond)
	}

	// cross-level equality between variable occurrences
	for _, name := range idx.variableNames() {
		refs := idx.references(name)
		first := refs[0]
		for _, loc := range refs[1:] {
			attach(plan.NewBinaryRelation("=",
				plan.NewElementAccess(first.level, first.column, first.name),
				plan.NewElementAccess(loc.level, loc.column, loc.name)))
		}
	}

	// constraint literals and negated atoms
	for _, lit := range clause.BodyLiterals() {
		switch t := lit.(type) {
		case *ast.Atom:
			// handled by the scan nesting

		case *ast.Constraint:
			lhs, err := b.translateValue(t.LHS, idx)
			if err != nil {
				return nil, err
			}
			rhs, err := b.translateValue(t.RHS, idx)
			if err != nil {
				return nil, err
			}
			attach(plan.NewBinaryRelation(t.Op.Symbol(), lhs, rhs))

		case *ast.Negation:
			atom := t.Atom
			notExists := plan.NewNotExists(b.atomRef(atom))
			for _, arg := range atom.Args {
				v, err := b.translateValue(arg, idx)
				if err != nil {
					return nil, err
				}
				notExists.AddArg(v)
			}
			attach(notExists)
		}
	}

	return plan.NewInsert(clause.String(), op), nil
}

// constantIndex maps a constant argument to its numeric index: numbers to
// their value, symbols through the symbol table, null to zero.
func constantIndex(b *Builder, arg ast.Argument) (int64, bool) {
	switch t := arg.(type) {
	case *ast.NumberConstant:
		return t.Value, true
	case *ast.StringConstant:
		return b.tu.Symbols.Lookup(t.Symbol), true
	case *ast.NullConstant:
		return 0, true
	}
	return 0, false
}

// conditionLevel returns the deepest loop level a condition references.
func conditionLevel(cond plan.Condition) int {
	switch t := cond.(type) {
	case *plan.And:
		lhs, rhs := conditionLevel(t.LHS), conditionLevel(t.RHS)
		if lhs > rhs {
			return lhs
		}
		return rhs
	case *plan.BinaryRelation:
		lhs, rhs := valueLevel(t.LHS), valueLevel(t.RHS)
		if lhs > rhs {
			return lhs
		}
		return rhs
	case *plan.NotExists:
		lvl := 0
		for _, v := range t.Values {
			if l := valueLevel(v); l > lvl {
				lvl = l
			}
		}
		return lvl
	}
	return 0
}

// valueLevel returns the deepest loop level a value references.
func valueLevel(v plan.Value) int {
	switch t := v.(type) {
	case *plan.ElementAccess:
		return t.Level
	case *plan.UnaryOperator:
		return valueLevel(t.Operand)
	case *plan.BinaryOperator:
		lhs, rhs := valueLevel(t.LHS), valueLevel(t.RHS)
		if lhs > rhs {
			return lhs
		}
		return rhs
	case *plan.TernaryOperator:
		lvl := 0
		for _, cur := range []plan.Value{t.A, t.B, t.C} {
			if l := valueLevel(cur); l > lvl {
				lvl = l
			}
		}
		return lvl
	case *plan.Pack:
		lvl := 0
		for _, cur := range t.Values {
			if l := valueLevel(cur); l > lvl {
				lvl = l
			}
		}
		return lvl
	}
	return 0
}
