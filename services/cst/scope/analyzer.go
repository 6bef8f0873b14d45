// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package scope

import (
	"context"
	"sort"

	"github.com/AleutianAI/jscst/services/cst/element"
)

type pass int

const (
	declarePass pass = iota
	resolvePass
)

// ctxCheckInterval is how many nodes are visited between context checks.
const ctxCheckInterval = 1024

// analyzer runs both passes over one Program. Both passes share one
// traversal: the declare pass creates scopes and definitions, the resolve
// pass finds the same scopes by node and records references.
type analyzer struct {
	ctx  context.Context
	opts options
	res  *Result
	pass pass

	visited int
	err     error

	unresolved []*Reference
}

func analyze(ctx context.Context, prog *element.Program, opts options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a := &analyzer{
		ctx:  ctx,
		opts: opts,
		res: &Result{
			scopes: make(map[element.Node]*Scope),
			refs:   make(map[*element.Identifier]*Reference),
			defs:   make(map[*element.Identifier]*Variable),
		},
	}

	a.pass = declarePass
	global := a.enter(Global, prog, nil)
	a.res.Global = global
	a.statements(prog.Body(), global)
	if a.err != nil {
		return nil, a.err
	}
	for _, s := range a.res.Scopes() {
		sortVariables(s)
	}

	a.pass = resolvePass
	a.statements(prog.Body(), global)
	if a.err != nil {
		return nil, a.err
	}

	a.bindAmbient()
	for _, s := range a.res.Scopes() {
		for _, v := range s.Variables {
			sortReferences(v.References)
		}
		for _, v := range s.Ambient {
			sortReferences(v.References)
		}
	}
	return a.res, nil
}

// ===== scope and variable bookkeeping =====

// enter returns the scope block introduces, creating it in the declare pass.
func (a *analyzer) enter(kind Kind, block element.Node, parent *Scope) *Scope {
	if a.pass == resolvePass {
		return a.res.scopes[block]
	}
	s := &Scope{Kind: kind, Block: block, Parent: parent}
	if parent != nil {
		parent.ChildScopes = append(parent.ChildScopes, s)
	}
	a.res.scopes[block] = s
	return s
}

// hoistTarget returns the nearest function or global scope.
func hoistTarget(s *Scope) *Scope {
	for s.Parent != nil && s.Kind != Function {
		s = s.Parent
	}
	return s
}

// declare records a definition of id in s. A definition joins an existing
// variable of the same name and binding class; otherwise it starts a new
// variable.
func (a *analyzer) declare(s *Scope, id *element.Identifier, typ VariableType, decl element.Node) {
	if id == nil || a.pass != declarePass {
		return
	}
	name := id.Name()
	class := typ.bindingClass()

	var v *Variable
	for i := len(s.Variables) - 1; i >= 0; i-- {
		if s.Variables[i].Name == name && s.Variables[i].Type.bindingClass() == class {
			v = s.Variables[i]
			break
		}
	}
	if v == nil {
		v = &Variable{Name: name, Type: typ, Scope: s}
		s.Variables = append(s.Variables, v)
	}
	v.Definitions = append(v.Definitions, &Definition{Node: id, Type: typ, Declaration: decl})
	a.res.defs[id] = v
}

// reference records a use of id from scope s. resolved is the known
// variable for declaration sites; otherwise the scope chain is searched.
func (a *analyzer) reference(id *element.Identifier, s *Scope, flags Flags, resolved *Variable) {
	if id == nil || a.pass != resolvePass {
		return
	}
	if resolved == nil {
		resolved = s.Resolve(id.Name())
	}
	ref := &Reference{Node: id, Flags: flags, From: s, Resolved: resolved}
	s.References = append(s.References, ref)
	a.res.refs[id] = ref
	if resolved != nil {
		resolved.References = append(resolved.References, ref)
		return
	}
	a.unresolved = append(a.unresolved, ref)
}

// bindAmbient offers unresolved references to the ambient resolver and
// collects the rest as Through.
func (a *analyzer) bindAmbient() {
	global := a.res.Global
	ambient := make(map[string]*Variable)
	for _, ref := range a.unresolved {
		name := ref.Node.Name()
		if a.opts.ambient == nil || !a.opts.ambient.IsAmbient(name) {
			a.res.Through = append(a.res.Through, ref)
			continue
		}
		v := ambient[name]
		if v == nil {
			v = &Variable{Name: name, Type: Ambient, Scope: global}
			ambient[name] = v
			global.Ambient = append(global.Ambient, v)
		}
		ref.Resolved = v
		v.References = append(v.References, ref)
	}
	sortReferences(a.res.Through)
}

func sortVariables(s *Scope) {
	sort.SliceStable(s.Variables, func(i, j int) bool {
		return s.Variables[i].Definitions[0].Node.Range().Start < s.Variables[j].Definitions[0].Node.Range().Start
	})
}

func sortReferences(refs []*Reference) {
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].Node.Range().Start < refs[j].Node.Range().Start
	})
}

// ===== traversal =====

func (a *analyzer) statements(body []element.Node, s *Scope) {
	for _, n := range body {
		a.visit(n, s)
	}
}

// children visits every child node of n in s.
func (a *analyzer) children(n element.Node, s *Scope) {
	for _, c := range n.Children() {
		if child, ok := c.(element.Node); ok {
			a.visit(child, s)
		}
	}
}

// visit dispatches on the node variant. Identifiers reached through visit
// are reads; binding and assignment positions are handled by their parents.
func (a *analyzer) visit(n element.Node, s *Scope) {
	if n == nil || a.err != nil {
		return
	}
	a.visited++
	if a.visited%ctxCheckInterval == 0 {
		if err := a.ctx.Err(); err != nil {
			a.err = err
			return
		}
	}

	// Names inside annotations refer to types, not bindings.
	if element.IsType(n.Type()) {
		return
	}

	switch v := n.(type) {
	case *element.Identifier:
		a.reference(v, s, Read, nil)

	case *element.VariableDeclaration:
		a.variableDeclaration(v, s, false)

	case *element.FunctionDeclaration:
		a.declare(hoistTarget(s), v.ID(), FunctionName, v)
		fs := a.enter(Function, v, s)
		a.params(v.Params(), fs, v)
		a.statements(v.Body().Body(), fs)

	case *element.FunctionExpression:
		fs := a.enter(Function, v, s)
		a.declare(fs, v.ID(), FunctionName, v)
		a.params(v.Params(), fs, v)
		a.statements(v.Body().Body(), fs)

	case *element.ArrowFunctionExpression:
		fs := a.enter(Function, v, s)
		a.params(v.Params(), fs, v)
		if body, ok := v.Body().(*element.BlockStatement); ok {
			a.statements(body.Body(), fs)
		} else {
			a.visit(v.Body(), fs)
		}

	case *element.ClassDeclaration:
		a.declare(s, v.ID(), ClassName, v)
		a.class(v, v.Decorators(), v.SuperClass(), v.Body(), s, nil)

	case *element.ClassExpression:
		a.class(v, v.Decorators(), v.SuperClass(), v.Body(), s, v.ID())

	case *element.MethodDefinition:
		a.decorators(v.Decorators(), s)
		if v.Computed() {
			a.visit(v.Key(), s)
		}
		fs := a.enter(Function, v, s)
		a.params(v.Params(), fs, v)
		a.statements(v.Body().Body(), fs)

	case *element.ClassProperty:
		if v.Computed() {
			a.visit(v.Key(), s)
		}
		a.visit(v.Value(), s)

	case *element.StaticBlock:
		fs := a.enter(Function, v, s)
		a.statements(v.Body(), fs)

	case *element.BlockStatement:
		bs := a.enter(Block, v, s)
		a.statements(v.Body(), bs)

	case *element.CatchClause:
		cs := a.enter(Catch, v, s)
		a.pattern(v.Param(), cs, false, func(id *element.Identifier, _ bool) {
			a.declare(cs, id, CatchClauseError, v)
		})
		a.statements(v.Body().Body(), cs)

	case *element.ForStatement:
		decl, lexical := lexicalHead(v.Init())
		if !lexical {
			a.children(v, s)
			return
		}
		hs := a.enter(ForHead, v, s)
		a.variableDeclaration(decl, hs, false)
		a.visit(v.Test(), hs)
		a.visit(v.Update(), hs)
		a.loopBody(v.Body(), hs, decl.Kind())

	case *element.ForInStatement:
		a.forEach(v, v.Left(), v.Right(), v.Body(), s)

	case *element.ForOfStatement:
		a.forEach(v, v.Left(), v.Right(), v.Body(), s)

	case *element.SwitchStatement:
		a.visit(v.Discriminant(), s)
		ss := a.enter(Switch, v, s)
		for _, c := range v.Cases() {
			a.visit(c, ss)
		}

	case *element.WithStatement:
		a.visit(v.Object(), s)
		ws := a.enter(With, v, s)
		a.visit(v.Body(), ws)

	case *element.AssignmentExpression:
		if v.Operator() == "=" {
			a.target(v.Left(), s, Write)
		} else {
			a.target(v.Left(), s, Read|Write)
		}
		a.visit(v.Right(), s)

	case *element.UpdateExpression:
		a.target(v.Argument(), s, Read|Write)

	case *element.MemberExpression:
		a.visit(v.Object(), s)
		if v.Computed() {
			a.visit(v.Property(), s)
		}

	case *element.Property:
		if v.Computed() {
			a.visit(v.Key(), s)
		}
		a.visit(v.Value(), s)

	case *element.LabeledStatement:
		a.visit(v.Body(), s)

	case *element.BreakStatement, *element.ContinueStatement:
		// Labels are not variables.

	case *element.ImportDeclaration:
		for _, spec := range v.Specifiers() {
			a.declare(s, importLocal(spec), ImportBinding, spec)
		}

	case *element.ExportNamedDeclaration:
		a.decorators(v.Decorators(), s)
		if v.Declaration() != nil {
			a.visit(v.Declaration(), s)
			return
		}
		if v.Source() != nil {
			return
		}
		for _, spec := range v.Specifiers() {
			a.reference(spec.LocalIdentifier(), s, Read, nil)
		}

	case *element.ExportAllDeclaration:
		// Re-exports bind nothing locally.

	default:
		a.children(n, s)
	}
}

func (a *analyzer) decorators(ds []*element.Decorator, s *Scope) {
	for _, d := range ds {
		a.visit(d, s)
	}
}

func importLocal(spec element.Node) *element.Identifier {
	switch v := spec.(type) {
	case *element.ImportSpecifier:
		return v.Local()
	case *element.ImportDefaultSpecifier:
		return v.Local()
	case *element.ImportNamespaceSpecifier:
		return v.Local()
	}
	return nil
}

// class handles the parts of a class shared by declarations and
// expressions. A named class expression binds its name in the class scope.
func (a *analyzer) class(n element.Node, ds []*element.Decorator, superClass element.Node, body *element.ClassBody, s *Scope, innerName *element.Identifier) {
	a.decorators(ds, s)
	a.visit(superClass, s)
	cs := a.enter(Class, body, s)
	a.declare(cs, innerName, ClassName, n)
	for _, m := range body.Members() {
		a.visit(m, cs)
	}
}

// params declares every parameter binding in the function scope.
func (a *analyzer) params(params []element.Node, fs *Scope, fn element.Node) {
	for _, p := range params {
		a.pattern(p, fs, false, func(id *element.Identifier, write bool) {
			a.declare(fs, id, Parameter, fn)
			if write {
				a.reference(id, fs, Write, a.res.defs[id])
			}
		})
	}
}

func (a *analyzer) variableDeclaration(decl *element.VariableDeclaration, s *Scope, loopBinding bool) {
	typ, target := Var, hoistTarget(s)
	switch decl.Kind() {
	case "let":
		typ, target = Let, s
	case "const":
		typ, target = Const, s
	}
	for _, d := range decl.Declarations() {
		written := loopBinding || d.Init() != nil
		a.pattern(d.ID(), s, written, func(id *element.Identifier, write bool) {
			a.declare(target, id, typ, d)
			if write {
				a.reference(id, s, Write, a.res.defs[id])
			}
		})
		a.visit(d.Init(), s)
	}
}

// lexicalHead reports whether a loop head declares let or const bindings.
func lexicalHead(n element.Node) (*element.VariableDeclaration, bool) {
	decl, ok := n.(*element.VariableDeclaration)
	if !ok || decl.Kind() == "var" {
		return decl, false
	}
	return decl, true
}

func (a *analyzer) forEach(loop, left, right, body element.Node, s *Scope) {
	decl, lexical := lexicalHead(left)
	if !lexical {
		if decl != nil {
			a.variableDeclaration(decl, s, true)
		} else {
			a.target(left, s, Write)
		}
		a.visit(right, s)
		a.visit(body, s)
		return
	}
	hs := a.enter(ForHead, loop, s)
	a.variableDeclaration(decl, hs, true)
	a.visit(right, hs)
	a.loopBody(body, hs, decl.Kind())
}

// loopBody visits a loop body under a ForHead scope, folding a block body
// into the head scope when the merge policy covers the head's kind.
func (a *analyzer) loopBody(body element.Node, hs *Scope, kind string) {
	block, ok := body.(*element.BlockStatement)
	if ok && a.opts.merge.folds(kind) {
		a.statements(block.Body(), hs)
		return
	}
	a.visit(body, hs)
}

// target visits an assignment target. Identifier leaves get flags; member
// expressions and default values are reads.
func (a *analyzer) target(n element.Node, s *Scope, flags Flags) {
	a.pattern(n, s, true, func(id *element.Identifier, _ bool) {
		a.reference(id, s, flags, nil)
	})
}

// pattern walks a binding or assignment pattern in source order, calling
// leaf for each bound identifier. write tells leaf whether the binding is
// assigned; a default value always assigns.
func (a *analyzer) pattern(n element.Node, s *Scope, write bool, leaf func(id *element.Identifier, write bool)) {
	switch v := n.(type) {
	case nil:
	case *element.Identifier:
		leaf(v, write)
	case *element.ObjectPattern:
		for _, p := range v.Properties() {
			switch prop := p.(type) {
			case *element.Property:
				if prop.Computed() {
					a.visit(prop.Key(), s)
				}
				a.pattern(prop.Value(), s, write, leaf)
			default:
				a.pattern(p, s, write, leaf)
			}
		}
	case *element.ArrayPattern:
		for _, e := range v.Elements() {
			if e != nil {
				a.pattern(e, s, write, leaf)
			}
		}
	case *element.RestElement:
		a.pattern(v.Argument(), s, write, leaf)
	case *element.AssignmentPattern:
		a.pattern(v.Left(), s, true, leaf)
		a.visit(v.Right(), s)
	case *element.ParenthesizedExpression:
		a.pattern(v.Expression(), s, write, leaf)
	default:
		// Member expressions: the object and computed keys are reads.
		a.visit(n, s)
	}
}
