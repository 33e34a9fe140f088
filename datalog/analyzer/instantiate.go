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
	"github.com/dolthub/go-datalog-engine/datalog"
	"github.com/dolthub/go-datalog-engine/datalog/analysis"
	"github.com/dolthub/go-datalog-engine/datalog/ast"
)

// instantiateComponents expands every .init into concrete relations and
// clauses, honouring inheritance, type parameters and overrides, and
// re-binds orphan clauses whose head resolves to an instantiated relation.
func instantiateComponents(ctx *datalog.Context, a *Analyzer, tu *datalog.TranslationUnit) (bool, error) {
	program := tu.Program
	lookup := analysis.Components(tu)

	inst := &instantiator{
		lookup:   lookup,
		report:   tu.Report,
		maxDepth: a.InstantiationDepth,
	}

	var unbound []*ast.Clause

	for _, init := range program.Instantiations() {
		var orphans []*ast.Clause
		rels := inst.instantiatedRelations(init, nil, &orphans, ast.NewTypeBinding(), inst.maxDepth)
		for _, rel := range rels {
			program.AddRelation(rel)
		}
		for _, cl := range orphans {
			if rel := program.GetRelation(cl.Head.Name); rel != nil {
				rel.AddClause(cl)
			} else {
				unbound = append(unbound, cl)
			}
		}
	}

	// bind the program's orphan clauses where possible
	for _, cl := range program.OrphanClauses() {
		if cl.Head != nil {
			if rel := program.GetRelation(cl.Head.Name); rel != nil {
				rel.AddClause(cl)
				continue
			}
		}
		unbound = append(unbound, cl)
	}
	program.SetOrphanClauses(unbound)

	return true, nil
}

// instantiator holds the state of one component expansion run.
type instantiator struct {
	lookup   *analysis.ComponentLookup
	report   *datalog.ErrorReport
	maxDepth int
}

// instantiatedRelations expands one .init into its relations. Clauses whose
// relation is not produced at this level are appended to orphans for binding
// further out.
func (in *instantiator) instantiatedRelations(init *ast.ComponentInit, enclosing *ast.Component,
	orphans *[]*ast.Clause, binding ast.TypeBinding, depth int) []*ast.Relation {

	var res []*ast.Relation

	if depth == 0 {
		in.report.AddError("Component instantiation limit reached", init.SrcLoc())
		return res
	}

	// an unresolvable component triggers a semantic error elsewhere
	component := in.lookup.Component(enclosing, init.Type.Name, binding)
	if component == nil {
		return res
	}

	activeBinding := binding.Extend(component.Type.TypeParams, init.Type.TypeParams)

	// instantiate nested inits first
	for _, nested := range component.Instantiations() {
		for _, rel := range in.instantiatedRelations(nested, component, orphans, activeBinding, depth-1) {
			in.addChecked(&res, rel)
		}
	}

	// collect relations from bases, then the component itself
	in.collectAllRelations(component, activeBinding, enclosing, &res, orphans, map[string]bool{}, depth)

	// prefix every produced relation name with the instance name
	mapping := make(map[string]ast.QualifiedName)
	for _, rel := range res {
		newName := rel.Name.Qualify(init.InstanceName)
		mapping[rel.Name.String()] = newName
		rel.Name = newName
	}

	rename := func(n ast.Node) {
		ast.WalkAtoms(n, func(atom *ast.Atom) {
			if newName, ok := mapping[atom.Name.String()]; ok {
				atom.Name = newName
			}
		})
	}
	for _, rel := range res {
		rename(rel)
	}
	for _, cl := range *orphans {
		rename(cl)
	}

	return res
}

// collectAllRelations gathers the relations and clauses of the component and
// its bases into res, oldest bases first.
func (in *instantiator) collectAllRelations(component *ast.Component, binding ast.TypeBinding,
	enclosing *ast.Component, res *[]*ast.Relation, orphans *[]*ast.Clause,
	overridden map[string]bool, depth int) {

	for _, base := range component.Bases {
		baseComp := in.lookup.Component(enclosing, base.Name, binding)
		if baseComp == nil {
			continue
		}

		activeBinding := binding.Extend(baseComp.Type.TypeParams, base.TypeParams)

		for _, nested := range baseComp.Instantiations() {
			for _, rel := range in.instantiatedRelations(nested, enclosing, orphans, activeBinding, depth-1) {
				in.addChecked(res, rel)
			}
		}

		superOverridden := make(map[string]bool, len(overridden)+len(component.Overridden()))
		for n := range overridden {
			superOverridden[n] = true
		}
		for n := range component.Overridden() {
			superOverridden[n] = true
		}
		in.collectAllRelations(baseComp, activeBinding, baseComp, res, orphans, superOverridden, depth)
	}

	// the local relations, with attribute types rewritten via the binding
	for _, rel := range component.Relations() {
		cp := rel.Clone().(*ast.Relation)
		for _, attr := range cp.Attributes {
			if forward := binding.Find(attr.TypeName); forward != "" {
				attr.TypeName = forward
			}
		}
		in.addChecked(res, cp)
	}

	index := make(map[string]*ast.Relation, len(*res))
	for _, rel := range *res {
		index[rel.Name.String()] = rel
	}

	// the local clauses, unless overridden by a derived component
	for _, cl := range component.Clauses() {
		if cl.Head == nil || overridden[cl.Head.Name.Head()] {
			continue
		}
		if rel := index[cl.Head.Name.String()]; rel != nil {
			rel.AddClause(cl.Clone().(*ast.Clause))
		} else {
			*orphans = append(*orphans, cl.Clone().(*ast.Clause))
		}
	}

	// orphans that resolve at this level bind here
	remaining := (*orphans)[:0]
	for _, cl := range *orphans {
		if rel := index[cl.Head.Name.String()]; rel != nil {
			rel.AddClause(cl.Clone().(*ast.Clause))
		} else {
			remaining = append(remaining, cl)
		}
	}
	*orphans = remaining
}

// addChecked appends a relation, reporting a redefinition when the name is
// already produced by this instantiation.
func (in *instantiator) addChecked(res *[]*ast.Relation, rel *ast.Relation) {
	for _, existing := range *res {
		if existing.Name.Equal(rel.Name) {
			in.report.AddDiagnostic(datalog.Diagnostic{
				Severity: datalog.SeverityError,
				Primary:  datalog.NewLocatedMessage("Redefinition of relation "+rel.Name.String(), rel.SrcLoc()),
				Additional: []datalog.DiagnosticMessage{
					datalog.NewLocatedMessage("Previous definition", existing.SrcLoc()),
				},
			})
			break
		}
	}
	*res = append(*res, rel)
}
