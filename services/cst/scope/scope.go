// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package scope resolves variable scopes over a built element tree.
//
// Description:
//
//	The analysis runs in two passes. The first pass creates one Scope per
//	scope-introducing construct and records every declaration as a
//	Definition of a Variable in the scope that owns it. The second pass
//	resolves every identifier use to the nearest enclosing Variable of that
//	name and records it as a Reference.
//
//	Results are memoized on the Program through the plugin cache, so
//	repeated Acquire calls return the same *Result.
//
// Thread Safety:
//
//	A Result is immutable after analysis and may be read concurrently.
package scope

import (
	"github.com/AleutianAI/jscst/services/cst/element"
)

// Kind classifies a scope.
type Kind string

const (
	Global   Kind = "Global"
	Function Kind = "Function"
	Block    Kind = "Block"
	Catch    Kind = "Catch"
	ForHead  Kind = "ForHead"
	Class    Kind = "Class"
	Switch   Kind = "Switch"
	With     Kind = "With"
)

// VariableType is the declaration kind of a variable.
type VariableType string

const (
	Var              VariableType = "Variable"
	Let              VariableType = "LetVariable"
	Const            VariableType = "ConstVariable"
	FunctionName     VariableType = "FunctionName"
	Parameter        VariableType = "Parameter"
	CatchClauseError VariableType = "CatchClauseError"
	ClassName        VariableType = "ClassName"
	ImportBinding    VariableType = "ImportBinding"

	// Ambient marks a variable supplied by an AmbientResolver. Ambient
	// variables live in Global.Ambient, never in Variables.
	Ambient VariableType = "AmbientVariable"
)

// bindingClass groups the declaration kinds that share one Variable when
// the same name is declared twice in one scope.
func (t VariableType) bindingClass() VariableType {
	switch t {
	case Var, FunctionName, Parameter:
		return Var
	}
	return t
}

// Scope is one node of the scope tree.
type Scope struct {
	Kind Kind

	// Block is the construct that introduced the scope.
	Block element.Node

	// Parent is nil for the global scope.
	Parent *Scope

	// ChildScopes are the directly nested scopes in source order.
	ChildScopes []*Scope

	// Variables are ordered by the position of their first definition.
	Variables []*Variable

	// References are the identifier uses whose innermost scope is this one.
	References []*Reference

	// Ambient holds variables bound by an AmbientResolver. Only set on the
	// global scope.
	Ambient []*Variable
}

// Variable returns the variable a lookup of name in this scope alone finds:
// the most recently declared one, or nil.
func (s *Scope) Variable(name string) *Variable {
	for i := len(s.Variables) - 1; i >= 0; i-- {
		if s.Variables[i].Name == name {
			return s.Variables[i]
		}
	}
	return nil
}

// Resolve walks the scope chain outward from s and returns the nearest
// variable named name, or nil.
func (s *Scope) Resolve(name string) *Variable {
	for sc := s; sc != nil; sc = sc.Parent {
		if v := sc.Variable(name); v != nil {
			return v
		}
	}
	return nil
}

// Through returns the references from this scope and its descendants that
// resolve to no variable declared inside it.
func (s *Scope) Through() []*Reference {
	var out []*Reference
	s.walk(func(sc *Scope) {
		for _, r := range sc.References {
			if r.Resolved == nil || !r.Resolved.Scope.within(s) {
				out = append(out, r)
			}
		}
	})
	return out
}

func (s *Scope) within(ancestor *Scope) bool {
	for sc := s; sc != nil; sc = sc.Parent {
		if sc == ancestor {
			return true
		}
	}
	return false
}

func (s *Scope) walk(fn func(*Scope)) {
	fn(s)
	for _, c := range s.ChildScopes {
		c.walk(fn)
	}
}

// Variable is one binding.
type Variable struct {
	Name string
	Type VariableType

	// Scope is the declaring scope.
	Scope *Scope

	// Definitions are ordered by source position.
	Definitions []*Definition

	// References are ordered by source position.
	References []*Reference
}

// Definition is one declaration site of a variable.
type Definition struct {
	// Node is the declared identifier: a plain binding or a pattern leaf.
	Node *element.Identifier

	Type VariableType

	// Declaration is the construct the identifier belongs to, for example
	// the VariableDeclarator, FunctionDeclaration or CatchClause.
	Declaration element.Node
}

// Flags classify how a reference uses its variable.
type Flags uint8

const (
	Read Flags = 1 << iota
	Write
)

// Reference is one use of an identifier.
type Reference struct {
	Node *element.Identifier

	Flags Flags

	// From is the innermost scope containing the use.
	From *Scope

	// Resolved is nil when no enclosing scope declares the name.
	Resolved *Variable
}

// IsRead reports whether the use reads the variable's value.
func (r *Reference) IsRead() bool { return r.Flags&Read != 0 }

// IsWrite reports whether the use assigns the variable.
func (r *Reference) IsWrite() bool { return r.Flags&Write != 0 }

// IsWriteOnly reports an assignment that does not read the prior value.
func (r *Reference) IsWriteOnly() bool { return r.Flags == Write }

// IsReadOnly reports a plain read.
func (r *Reference) IsReadOnly() bool { return r.Flags == Read }

// IsReadWrite reports a compound assignment or update.
func (r *Reference) IsReadWrite() bool { return r.Flags == Read|Write }

// Result is the output of the scope analysis.
type Result struct {
	// Global is the root scope.
	Global *Scope

	// Through are the references no scope declares and no ambient
	// resolver bound, in source order.
	Through []*Reference

	scopes map[element.Node]*Scope
	refs   map[*element.Identifier]*Reference
	defs   map[*element.Identifier]*Variable
}

// Scope returns the scope introduced by n, or nil.
func (r *Result) Scope(n element.Node) *Scope {
	return r.scopes[n]
}

// Reference returns the reference recorded for id, or nil when id is not a
// use (a property key, a label, a declaration without initializer).
func (r *Result) Reference(id *element.Identifier) *Reference {
	return r.refs[id]
}

// Declared returns the variable id declares, or nil when id is not a
// declaration site.
func (r *Result) Declared(id *element.Identifier) *Variable {
	return r.defs[id]
}

// Scopes returns every scope in pre-order.
func (r *Result) Scopes() []*Scope {
	var out []*Scope
	r.Global.walk(func(s *Scope) { out = append(out, s) })
	return out
}
