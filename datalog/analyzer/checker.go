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

package analyzer

import (
	"fmt"
	"strings"

	"github.com/dolthub/go-datalog-engine/datalog"
	"github.com/dolthub/go-datalog-engine/datalog/analysis"
	"github.com/dolthub/go-datalog-engine/datalog/ast"
	"github.com/dolthub/go-datalog-engine/datalog/types"
	"github.com/dolthub/go-datalog-engine/internal/similartext"
)

// checkSemantics verifies the structural and semantic invariants of the
// program, accumulating diagnostics without mutating the IR.
func checkSemantics(ctx *datalog.Context, a *Analyzer, tu *datalog.TranslationUnit) (bool, error) {
	c := &checker{
		report:  tu.Report,
		program: tu.Program,
		env:     analysis.TypeEnvironment(tu),
		typing:  analysis.Types(tu),
		lookup:  analysis.Components(tu),
		prec:    analysis.Precedence(tu),
		rec:     analysis.Recursive(tu),
	}
	c.checkProgram()
	return false, nil
}

type checker struct {
	report  *datalog.ErrorReport
	program *ast.Program
	env     *types.Env
	typing  *analysis.TypeAnalysis
	lookup  *analysis.ComponentLookup
	prec    *analysis.PrecedenceGraph
	rec     *analysis.RecursiveClauses
}

func (c *checker) checkProgram() {
	c.checkTypes()
	c.checkRules()
	c.checkComponents()
	c.checkNamespaces()

	var clauses []*ast.Clause
	for _, rel := range c.program.Relations() {
		clauses = append(clauses, rel.Clauses()...)
	}

	for _, clause := range clauses {
		c.checkGrounded(clause)
		c.checkArgumentTypes(clause)
	}

	c.checkStratification()
}

// -- grounding --

func (c *checker) checkGrounded(clause *ast.Clause) {
	if clause.IsFact() {
		return
	}

	isGrounded := analysis.GroundedTerms(clause)

	reported := make(map[string]bool)
	for _, v := range ast.Variables(clause) {
		if !isGrounded[v] && !reported[v.Name] {
			reported[v.Name] = true
			c.report.AddError("Ungrounded variable "+v.Name, v.SrcLoc())
		}
	}
}

// -- per-argument type checks --

func (c *checker) checkArgumentTypes(clause *ast.Clause) {
	ast.Walk(clause, func(n ast.Node) {
		switch t := n.(type) {
		case *ast.Variable:
			if c.typing.TypesOf(t).Empty() {
				c.report.AddError("Unable to deduce type for variable "+t.Name, t.SrcLoc())
			}

		case *ast.StringConstant:
			if !types.IsSymbolTypeSet(c.typing.TypesOf(t)) {
				c.report.AddError("Symbol constant (type mismatch)", t.SrcLoc())
			}

		case *ast.NumberConstant:
			if !types.IsNumberTypeSet(c.typing.TypesOf(t)) {
				c.report.AddError("Number constant (type mismatch)", t.SrcLoc())
			}
			if t.Value > 2147483647 || t.Value < -2147483648 {
				c.report.AddError("Number constant not in range [-2^31, 2^31-1]", t.SrcLoc())
			}

		case *ast.NullConstant:
			if !types.IsRecordTypeSet(c.typing.TypesOf(t)) {
				c.report.AddError("Null constant used as a non-record", t.SrcLoc())
			}

		case *ast.RecordInit:
			ts := c.typing.TypesOf(t)
			if types.IsRecordTypeSet(ts) {
				for _, typ := range ts.Types() {
					rec := typ.(*types.Record)
					if len(t.Args) != len(rec.Fields()) {
						c.report.AddError("Wrong number of arguments given to record", t.SrcLoc())
					}
				}
			}

		case *ast.UnaryFunctor:
			c.checkUnaryFunctor(t)

		case *ast.BinaryFunctor:
			c.checkBinaryFunctor(t)

		case *ast.TernaryFunctor:
			c.checkTernaryFunctor(t)

		case *ast.Constraint:
			c.checkConstraintTypes(t)
		}
	})
}

func (c *checker) checkUnaryFunctor(fun *ast.UnaryFunctor) {
	if fun.Op.IsNumerical() && !types.IsNumberTypeSet(c.typing.TypesOf(fun)) {
		c.report.AddError("Non-numeric use for numeric functor", fun.SrcLoc())
	}
	if fun.Op.AcceptsNumbers() && !types.IsNumberTypeSet(c.typing.TypesOf(fun.Operand)) {
		c.report.AddError("Non-numeric argument for numeric functor", fun.Operand.SrcLoc())
	}
	if fun.Op.IsSymbolic() && !types.IsSymbolTypeSet(c.typing.TypesOf(fun)) {
		c.report.AddError("Non-symbolic use for symbolic functor", fun.SrcLoc())
	}
	if fun.Op.AcceptsSymbols() && !types.IsSymbolTypeSet(c.typing.TypesOf(fun.Operand)) {
		c.report.AddError("Non-symbolic argument for symbolic functor", fun.Operand.SrcLoc())
	}
}

func (c *checker) checkBinaryFunctor(fun *ast.BinaryFunctor) {
	if fun.Op.IsNumerical() && !types.IsNumberTypeSet(c.typing.TypesOf(fun)) {
		c.report.AddError("Non-numeric use for numeric functor", fun.SrcLoc())
	}
	if fun.Op.AcceptsNumbers(0) && !types.IsNumberTypeSet(c.typing.TypesOf(fun.LHS)) {
		c.report.AddError("Non-numeric first argument for functor", fun.LHS.SrcLoc())
	}
	if fun.Op.AcceptsNumbers(1) && !types.IsNumberTypeSet(c.typing.TypesOf(fun.RHS)) {
		c.report.AddError("Non-numeric second argument for functor", fun.RHS.SrcLoc())
	}
	if fun.Op.IsSymbolic() && !types.IsSymbolTypeSet(c.typing.TypesOf(fun)) {
		c.report.AddError("Non-symbolic use for symbolic functor", fun.SrcLoc())
	}
	if fun.Op.AcceptsSymbols(0) && !types.IsSymbolTypeSet(c.typing.TypesOf(fun.LHS)) {
		c.report.AddError("Non-symbolic first argument for functor", fun.LHS.SrcLoc())
	}
	if fun.Op.AcceptsSymbols(1) && !types.IsSymbolTypeSet(c.typing.TypesOf(fun.RHS)) {
		c.report.AddError("Non-symbolic second argument for functor", fun.RHS.SrcLoc())
	}
}

func (c *checker) checkTernaryFunctor(fun *ast.TernaryFunctor) {
	ordinals := []string{"first", "second", "third"}
	if fun.Op.IsNumerical() && !types.IsNumberTypeSet(c.typing.TypesOf(fun)) {
		c.report.AddError("Non-numeric use for numeric functor", fun.SrcLoc())
	}
	if fun.Op.IsSymbolic() && !types.IsSymbolTypeSet(c.typing.TypesOf(fun)) {
		c.report.AddError("Non-symbolic use for symbolic functor", fun.SrcLoc())
	}
	for i := range fun.Args {
		if fun.Op.AcceptsNumbers(i) && !types.IsNumberTypeSet(c.typing.TypesOf(fun.Args[i])) {
			c.report.AddError(fmt.Sprintf("Non-numeric %s argument for functor", ordinals[i]), fun.Args[i].SrcLoc())
		}
		if fun.Op.AcceptsSymbols(i) && !types.IsSymbolTypeSet(c.typing.TypesOf(fun.Args[i])) {
			c.report.AddError(fmt.Sprintf("Non-symbolic %s argument for functor", ordinals[i]), fun.Args[i].SrcLoc())
		}
	}
}

func (c *checker) checkConstraintTypes(constraint *ast.Constraint) {
	op := constraint.Op
	if op == ast.ConstraintEQ || op == ast.ConstraintNE {
		return
	}

	if op.IsNumerical() {
		if !types.IsNumberTypeSet(c.typing.TypesOf(constraint.LHS)) {
			c.report.AddError("Non-numerical operand for comparison", constraint.LHS.SrcLoc())
		}
		if !types.IsNumberTypeSet(c.typing.TypesOf(constraint.RHS)) {
			c.report.AddError("Non-numerical operand for comparison", constraint.RHS.SrcLoc())
		}
	} else if op.IsSymbolic() {
		if !types.IsSymbolTypeSet(c.typing.TypesOf(constraint.LHS)) {
			c.report.AddError("Non-string operand for operation", constraint.LHS.SrcLoc())
		}
		if !types.IsSymbolTypeSet(c.typing.TypesOf(constraint.RHS)) {
			c.report.AddError("Non-string operand for operation", constraint.RHS.SrcLoc())
		}
	}
}

// -- stratification --

func (c *checker) checkStratification() {
	for _, cur := range c.prec.Relations() {
		if !c.prec.Reaches(cur, cur) {
			continue
		}
		clique := c.prec.Clique(cur)
		for _, cyclic := range clique {
			lit, hasNegation := ast.HasClauseWithNegatedRelation(cyclic, cur, c.program)
			if !hasNegation {
				var hasAggregation bool
				lit, hasAggregation = ast.HasClauseWithAggregatedRelation(cyclic, cur, c.program)
				if !hasAggregation {
					continue
				}
			}

			names := make([]string, len(clique))
			for i, rel := range clique {
				names[i] = rel.Name.String()
			}
			negOrAgg := "aggregation"
			if hasNegation {
				negOrAgg = "negation"
			}
			c.report.AddDiagnostic(datalog.Diagnostic{
				Severity: datalog.SeverityError,
				Primary:  datalog.NewMessage("Unable to stratify relation(s) {" + strings.Join(names, ",") + "}"),
				Additional: []datalog.DiagnosticMessage{
					datalog.NewLocatedMessage("Relation "+cur.Name.String(), cur.SrcLoc()),
					datalog.NewLocatedMessage("has cyclic "+negOrAgg, lit.SrcLoc()),
				},
			})
			break
		}
	}
}

// -- atoms, literals, arguments --

func (c *checker) checkAtom(atom *ast.Atom) {
	r := c.program.GetRelation(atom.Name)
	if r == nil {
		suggestion := similartext.Find(c.program.RelationNames(), atom.Name.String())
		c.report.AddError("Undefined relation "+atom.Name.String()+suggestion, atom.SrcLoc())
	}

	if r != nil && r.Arity() != atom.Arity() {
		c.report.AddError("Mismatching arity of relation "+atom.Name.String(), atom.SrcLoc())
	}

	for _, arg := range atom.Args {
		c.checkArgument(arg)
	}
}

func (c *checker) checkLiteral(lit ast.Literal) {
	switch t := lit.(type) {
	case *ast.Atom:
		c.checkAtom(t)
	case *ast.Negation:
		c.checkAtom(t.Atom)
	case *ast.Constraint:
		c.checkArgument(t.LHS)
		c.checkArgument(t.RHS)
		// underscores may not appear in constraint value positions
		if ast.HasUnnamedVariable(t) {
			c.report.AddError("Underscore in binary relation", t.SrcLoc())
		}
	}
}

func (c *checker) checkAggregator(agg *ast.Aggregator) {
	for _, lit := range agg.Body {
		c.checkLiteral(lit)
	}
}

func (c *checker) checkArgument(arg ast.Argument) {
	switch t := arg.(type) {
	case *ast.Aggregator:
		c.checkAggregator(t)
	case *ast.UnaryFunctor:
		c.checkArgument(t.Operand)
	case *ast.BinaryFunctor:
		c.checkArgument(t.LHS)
		c.checkArgument(t.RHS)
	case *ast.TernaryFunctor:
		for i := range t.Args {
			c.checkArgument(t.Args[i])
		}
	case *ast.TypeCast:
		c.checkArgument(t.Value)
		if t.TypeName != "number" && t.TypeName != "symbol" && c.program.GetType(t.TypeName) == nil {
			c.report.AddError("Undefined type in type cast "+t.TypeName, t.SrcLoc())
		}
	}
}

// -- facts --

func (c *checker) checkConstant(arg ast.Argument) {
	switch t := arg.(type) {
	case *ast.Variable:
		c.report.AddError("Variable "+t.Name+" in fact", t.SrcLoc())
	case *ast.UnnamedVariable:
		c.report.AddError("Underscore in fact", t.SrcLoc())
	case *ast.Counter:
		c.report.AddError("Counter in fact", t.SrcLoc())
	case *ast.UnaryFunctor:
		if !ast.IsConstantArithExpr(arg) {
			c.report.AddError("Unary function in fact", t.SrcLoc())
		}
	case *ast.BinaryFunctor:
		if !ast.IsConstantArithExpr(arg) {
			c.report.AddError("Binary function in fact", t.SrcLoc())
		}
	case *ast.TernaryFunctor:
		if !ast.IsConstantArithExpr(arg) {
			c.report.AddError("Ternary function in fact", t.SrcLoc())
		}
	case *ast.RecordInit:
		for _, sub := range t.Args {
			c.checkConstant(sub)
		}
	case *ast.NumberConstant, *ast.StringConstant, *ast.NullConstant:
		// fine; the type checker covers constant typing
	}
}

func (c *checker) checkFact(fact *ast.Clause) {
	head := fact.Head
	if head == nil {
		return
	}
	if c.program.GetRelation(head.Name) == nil {
		return // reported by the clause check
	}
	for _, arg := range head.Args {
		c.checkConstant(arg)
	}
}

// -- clauses --

func (c *checker) checkClause(clause *ast.Clause) {
	if clause.Head != nil {
		c.checkAtom(clause.Head)

		if ast.HasUnnamedVariable(clause.Head) {
			c.report.AddError("Underscore in head of rule", clause.Head.SrcLoc())
		}
	}

	for _, lit := range clause.BodyLiterals() {
		c.checkLiteral(lit)
	}

	if clause.IsFact() {
		c.checkFact(clause)
	}

	// use-once variables are suspicious unless the clause was synthesised
	if !clause.Generated {
		varCount := make(map[string]int)
		varPos := make(map[string]*ast.Variable)
		ast.WalkVariables(clause, func(v *ast.Variable) {
			varCount[v.Name]++
			varPos[v.Name] = v
		})
		for name, count := range varCount {
			if count == 1 && !strings.HasPrefix(name, "_") {
				c.report.AddWarning("Variable "+name+" only occurs once", varPos[name].SrcLoc())
			}
		}
	}

	if clause.Plan != nil {
		numAtoms := len(clause.Atoms())
		for _, version := range clause.Plan.Versions() {
			order := clause.Plan.OrderFor(version)
			if order.Size() != numAtoms || !order.IsComplete() {
				c.report.AddError("Invalid execution plan", order.SrcLoc())
			}
		}
	}

	if c.rec.IsRecursive(clause) {
		ast.Walk(clause, func(n ast.Node) {
			if ctr, ok := n.(*ast.Counter); ok {
				c.report.AddError("Auto-increment functor in a recursive rule", ctr.SrcLoc())
			}
		})
	}
}

// -- relations --

func (c *checker) checkRelationDeclaration(relation *ast.Relation) {
	for i, attr := range relation.Attributes {
		typeName := attr.TypeName

		if typeName != "number" && typeName != "symbol" && c.program.GetType(typeName) == nil {
			c.report.AddError("Undefined type in attribute "+attr.Name+":"+typeName, attr.SrcLoc())
		}

		for j := 0; j < i; j++ {
			if attr.Name == relation.Attributes[j].Name {
				c.report.AddError("Doubly defined attribute name "+attr.Name+":"+typeName, attr.SrcLoc())
			}
		}

		if c.env.IsType(typeName) && types.IsRecordType(c.env.Type(typeName)) {
			if relation.IsInput() {
				c.report.AddError("Input relations must not have record types. Attribute "+
					attr.Name+" has record type "+typeName, attr.SrcLoc())
			}
			if relation.IsOutput() {
				c.report.AddWarning("Record types in output relations are not printed verbatim: attribute "+
					attr.Name+" has record type "+typeName, attr.SrcLoc())
			}
		}
	}
}

func (c *checker) checkRelation(relation *ast.Relation) {
	if relation.IsEqRel() {
		if relation.Arity() == 2 {
			if relation.Attributes[0].TypeName != relation.Attributes[1].TypeName {
				c.report.AddError("Domains of equivalence relation "+relation.Name.String()+" are different",
					relation.SrcLoc())
			}
		} else {
			c.report.AddError("Equivalence relation "+relation.Name.String()+" is not binary",
				relation.SrcLoc())
		}
	}

	c.checkRelationDeclaration(relation)

	for _, clause := range relation.Clauses() {
		c.checkClause(clause)
	}

	if relation.ClauseSize() == 0 && !relation.IsInput() {
		c.report.AddWarning("No rules/facts defined for relation "+relation.Name.String(),
			relation.SrcLoc())
	}
}

func (c *checker) checkRules() {
	for _, relation := range c.program.Relations() {
		c.checkRelation(relation)
	}
	for _, clause := range c.program.OrphanClauses() {
		c.checkClause(clause)
	}
}

// -- types --

func (c *checker) checkTypes() {
	for _, decl := range c.program.Types() {
		switch t := decl.(type) {
		case *ast.UnionTypeDecl:
			for _, sub := range t.Members {
				if sub != "number" && sub != "symbol" && c.program.GetType(sub) == nil {
					c.report.AddError("Undefined type "+sub+" in definition of union type "+t.Name,
						t.SrcLoc())
				}
			}
		case *ast.RecordTypeDecl:
			for _, field := range t.Fields {
				if field.TypeName != "number" && field.TypeName != "symbol" &&
					c.program.GetType(field.TypeName) == nil {
					c.report.AddError("Undefined type "+field.TypeName+" in definition of field "+field.Name,
						t.SrcLoc())
				}
			}
			for i := range t.Fields {
				for j := 0; j < i; j++ {
					if t.Fields[j].Name == t.Fields[i].Name {
						c.report.AddError("Doubly defined field name "+t.Fields[i].Name+
							" in definition of type "+t.Name, t.SrcLoc())
					}
				}
			}
		}
	}
}

// -- components --

func (c *checker) checkComponentNameReference(enclosing *ast.Component, name string,
	loc ast.SrcLocation, binding ast.TypeBinding) *ast.Component {

	if forwarded := binding.Find(name); forwarded != "" {
		// a forwarded type parameter is only known at instantiation time
		return nil
	}

	comp := c.lookup.Component(enclosing, name, binding)
	if comp == nil {
		c.report.AddError("Referencing undefined component "+name, loc)
		return nil
	}
	return comp
}

func (c *checker) checkComponentReference(enclosing *ast.Component, typ ast.ComponentType,
	loc ast.SrcLocation, binding ast.TypeBinding) {

	comp := c.checkComponentNameReference(enclosing, typ.Name, loc, binding)
	if comp == nil {
		return
	}

	if len(comp.Type.TypeParams) != len(typ.TypeParams) {
		c.report.AddError("Invalid number of type parameters for component "+typ.Name, loc)
	}
}

func (c *checker) checkComponentInit(enclosing *ast.Component, init *ast.ComponentInit,
	binding ast.TypeBinding) {
	// actual parameters may be any identifier; they are not validated
	c.checkComponentReference(enclosing, init.Type, init.SrcLoc(), binding)
}

func (c *checker) checkComponent(enclosing *ast.Component, component *ast.Component,
	binding ast.TypeBinding) {

	// bind each formal parameter to an unknown placeholder: the actual type
	// is only known at instantiation time
	formals := component.Type.TypeParams
	placeholders := make([]string, len(formals))
	for i := range placeholders {
		placeholders[i] = "<type parameter>"
	}
	activeBinding := binding.Extend(formals, placeholders)

	for _, base := range component.Bases {
		c.checkComponentReference(enclosing, base, component.SrcLoc(), activeBinding)
	}

	// collect the transitive parents
	parents := make(map[*ast.Component]bool)
	var collectParents func(cur *ast.Component)
	collectParents = func(cur *ast.Component) {
		for _, base := range cur.Bases {
			parent := c.lookup.Component(enclosing, base.Name, binding)
			if parent == nil {
				continue
			}
			if !parents[parent] {
				parents[parent] = true
				collectParents(parent)
			}
		}
	}
	collectParents(component)

	for _, relation := range component.Relations() {
		if component.Overridden()[relation.Name.Head()] {
			c.report.AddError("Override of non-inherited relation "+relation.Name.Head()+
				" in component "+component.Type.Name, component.SrcLoc())
		}
	}
	for parent := range parents {
		for _, relation := range parent.Relations() {
			if component.Overridden()[relation.Name.Head()] && !relation.IsOverridable() {
				c.report.AddError("Override of non-overridable relation "+relation.Name.Head()+
					" in component "+component.Type.Name, component.SrcLoc())
			}
		}
	}

	if parents[component] {
		c.report.AddError("Invalid cycle in inheritance for component "+component.Type.Name,
			component.SrcLoc())
	}

	for _, nested := range component.Components() {
		c.checkComponent(component, nested, activeBinding)
	}
	for _, init := range component.Instantiations() {
		c.checkComponentInit(component, init, activeBinding)
	}
}

func (c *checker) checkComponents() {
	for _, component := range c.program.Components() {
		c.checkComponent(nil, component, ast.NewTypeBinding())
	}
	for _, init := range c.program.Instantiations() {
		c.checkComponentInit(nil, init, ast.NewTypeBinding())
	}
}

// -- namespaces --

func (c *checker) checkNamespaces() {
	names := make(map[string]ast.SrcLocation)

	for _, decl := range c.program.Types() {
		name := decl.TypeName()
		if _, ok := names[name]; ok {
			c.report.AddError("Name clash on type "+name, decl.SrcLoc())
		} else {
			names[name] = decl.SrcLoc()
		}
	}

	for _, rel := range c.program.Relations() {
		name := rel.Name.String()
		if _, ok := names[name]; ok {
			c.report.AddError("Name clash on relation "+name, rel.SrcLoc())
		} else {
			names[name] = rel.SrcLoc()
		}
	}

	// nested component and instance names are scoped and not collected
	for _, comp := range c.program.Components() {
		name := comp.Type.Name
		if _, ok := names[name]; ok {
			c.report.AddError("Name clash on component "+name, comp.SrcLoc())
		} else {
			names[name] = comp.SrcLoc()
		}
	}

	for _, init := range c.program.Instantiations() {
		name := init.InstanceName
		if _, ok := names[name]; ok {
			c.report.AddError("Name clash on instantiation "+name, init.SrcLoc())
		} else {
			names[name] = init.SrcLoc()
		}
	}
}
