// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package element

import "github.com/AleutianAI/jscst/services/cst/token"

// paramTypes are the forms a formal parameter can take.
var paramTypes = []string{
	TypeIdentifier, TypeObjectPattern, TypeArrayPattern,
	TypeAssignmentPattern, TypeRestElement,
}

func (c *Cursor) params() []Node {
	return c.list("(", ")", paramTypes)
}

// propertyKey consumes a property name, computed (`[expr]`) or not.
func (c *Cursor) propertyKey() (Node, bool) {
	if c.optionalPunct("[") != nil {
		key := c.expectExpression()
		c.punct("]")
		return key, true
	}
	return c.ExpectOneOfNode(propertyKeyTypes...), false
}

func (c *Cursor) decorators() []*Decorator {
	var out []*Decorator
	for c.IsNode(TypeDecorator) {
		out = append(out, as[*Decorator](c.ExpectNode(TypeDecorator)))
	}
	return out
}

// Function is implemented by the variants that introduce a function scope
// with parameters.
type Function interface {
	Node
	Params() []Node
}

// function is the shared grammar of function declarations and expressions.
type function struct {
	nodeBase
	async          bool
	generator      bool
	id             *Identifier
	typeParameters *TypeParameterDeclaration
	params         []Node
	returnType     *TypeAnnotation
	body           *BlockStatement
}

func (n *function) grammar(c *Cursor) {
	n.async = c.ExpectOptionalToken(token.Identifier, "async") != nil
	c.keyword("function")
	n.generator = c.optionalPunct("*") != nil
	n.id = as[*Identifier](c.ExpectOptionalNode(TypeIdentifier))
	n.typeParameters = c.typeParameters()
	n.params = c.params()
	n.returnType = c.typeAnnotation()
	n.body = as[*BlockStatement](c.ExpectNode(TypeBlockStatement))
}

// ID returns the function name, or nil.
func (n *function) ID() *Identifier { return n.id }

// TypeParameters returns the generic parameters, or nil.
func (n *function) TypeParameters() *TypeParameterDeclaration { return n.typeParameters }

// ReturnType returns the return annotation, or nil.
func (n *function) ReturnType() *TypeAnnotation { return n.returnType }

// Params returns the formal parameters.
func (n *function) Params() []Node { return n.params }

// Body returns the function body.
func (n *function) Body() *BlockStatement { return n.body }

// Async reports an async function.
func (n *function) Async() bool { return n.async }

// Generator reports a generator function.
func (n *function) Generator() bool { return n.generator }

// FunctionDeclaration is a function statement.
type FunctionDeclaration struct {
	function
}

// FunctionExpression is a function in expression position.
type FunctionExpression struct {
	function
}

// ArrowFunctionExpression is `[async] params => body`.
type ArrowFunctionExpression struct {
	nodeBase
	async          bool
	typeParameters *TypeParameterDeclaration
	params         []Node
	returnType     *TypeAnnotation
	body           Node
}

func (n *ArrowFunctionExpression) grammar(c *Cursor) {
	n.async = c.ExpectOptionalToken(token.Identifier, "async") != nil
	n.typeParameters = c.typeParameters()
	if c.IsNode(TypeIdentifier) {
		n.params = []Node{c.ExpectNode(TypeIdentifier)}
	} else {
		n.params = c.params()
		n.returnType = c.typeAnnotation()
	}
	c.punct("=>")
	if c.IsNode(TypeBlockStatement) {
		n.body = c.ExpectNode(TypeBlockStatement)
	} else {
		n.body = c.expectExpression()
	}
}

// Params returns the formal parameters.
func (n *ArrowFunctionExpression) Params() []Node { return n.params }

// Body returns a *BlockStatement or an expression.
func (n *ArrowFunctionExpression) Body() Node { return n.body }

// Async reports an async arrow.
func (n *ArrowFunctionExpression) Async() bool { return n.async }

// TypeParameters returns the generic parameters, or nil.
func (n *ArrowFunctionExpression) TypeParameters() *TypeParameterDeclaration {
	return n.typeParameters
}

// ReturnType returns the return annotation, or nil.
func (n *ArrowFunctionExpression) ReturnType() *TypeAnnotation { return n.returnType }

// class is the shared grammar of class declarations and expressions.
type class struct {
	nodeBase
	decorators          []*Decorator
	id                  *Identifier
	typeParameters      *TypeParameterDeclaration
	superClass          Node
	superTypeParameters *TypeParameterInstantiation
	body                *ClassBody
}

func (n *class) grammar(c *Cursor) {
	n.decorators = c.decorators()
	c.keyword("class")
	n.id = as[*Identifier](c.ExpectOptionalNode(TypeIdentifier))
	n.typeParameters = c.typeParameters()
	if c.ExpectOptionalToken(token.Keyword, "extends") != nil {
		n.superClass = c.expectExpression()
		n.superTypeParameters = as[*TypeParameterInstantiation](c.ExpectOptionalNode(TypeTypeParameterInstantiation))
	}
	n.body = as[*ClassBody](c.ExpectNode(TypeClassBody))
}

// ID returns the class name, or nil.
func (n *class) ID() *Identifier { return n.id }

// TypeParameters returns the generic parameters, or nil.
func (n *class) TypeParameters() *TypeParameterDeclaration { return n.typeParameters }

// SuperClass returns the extends expression, or nil.
func (n *class) SuperClass() Node { return n.superClass }

// SuperTypeParameters returns the type arguments of the superclass, or nil.
func (n *class) SuperTypeParameters() *TypeParameterInstantiation {
	return n.superTypeParameters
}

// Body returns the class body.
func (n *class) Body() *ClassBody { return n.body }

// Decorators returns the class decorators.
func (n *class) Decorators() []*Decorator { return n.decorators }

// ClassDeclaration is a class statement.
type ClassDeclaration struct {
	class
}

// ClassExpression is a class in expression position.
type ClassExpression struct {
	class
}

// ClassBody is `{ members }`.
type ClassBody struct {
	nodeBase
	members []Node
}

func (n *ClassBody) grammar(c *Cursor) {
	c.punct("{")
	for c.ok() && !c.isPunct("}") {
		if c.optionalPunct(";") != nil {
			continue
		}
		n.members = append(n.members, c.ExpectOneOfNode(TypeMethodDefinition, TypeClassProperty, TypeStaticBlock))
	}
	c.punct("}")
}

// Members returns methods, properties and static blocks in order.
func (n *ClassBody) Members() []Node { return n.members }

// MethodDefinition is a class or object method, getter or setter.
type MethodDefinition struct {
	nodeBase
	decorators []*Decorator
	static     bool
	async      bool
	generator  bool
	kind       string
	key        Node
	computed   bool
	typeParams *TypeParameterDeclaration
	params     []Node
	returnType *TypeAnnotation
	body       *BlockStatement
}

func (n *MethodDefinition) grammar(c *Cursor) {
	n.decorators = c.decorators()
	n.static = c.ExpectOptionalToken(token.Keyword, "static") != nil
	n.async = c.ExpectOptionalToken(token.Identifier, "async") != nil
	n.kind = "method"
	if accessor := c.ExpectOptionalToken(token.Identifier, "get", "set"); accessor != nil {
		n.kind = accessor.Value()
	}
	n.generator = c.optionalPunct("*") != nil
	n.key, n.computed = c.propertyKey()
	if id, ok := n.key.(*Identifier); ok && !n.computed && !n.static && id.Name() == "constructor" {
		n.kind = "constructor"
	}
	n.typeParams = c.typeParameters()
	n.params = c.params()
	n.returnType = c.typeAnnotation()
	n.body = as[*BlockStatement](c.ExpectNode(TypeBlockStatement))
}

// Key returns the method name.
func (n *MethodDefinition) Key() Node { return n.key }

// Computed reports a `[expr]` key.
func (n *MethodDefinition) Computed() bool { return n.computed }

// Kind returns "method", "get", "set" or "constructor".
func (n *MethodDefinition) Kind() string { return n.kind }

// Static reports a static member.
func (n *MethodDefinition) Static() bool { return n.static }

// Async reports an async method.
func (n *MethodDefinition) Async() bool { return n.async }

// Generator reports a generator method.
func (n *MethodDefinition) Generator() bool { return n.generator }

// Params returns the formal parameters.
func (n *MethodDefinition) Params() []Node { return n.params }

// Body returns the method body.
func (n *MethodDefinition) Body() *BlockStatement { return n.body }

// TypeParameters returns the generic parameters, or nil.
func (n *MethodDefinition) TypeParameters() *TypeParameterDeclaration { return n.typeParams }

// ReturnType returns the return annotation, or nil.
func (n *MethodDefinition) ReturnType() *TypeAnnotation { return n.returnType }

// Decorators returns the method decorators.
func (n *MethodDefinition) Decorators() []*Decorator { return n.decorators }

// ClassProperty is a class field, `[static] key [= value]`.
type ClassProperty struct {
	nodeBase
	decorators     []*Decorator
	static         bool
	key            Node
	computed       bool
	typeAnnotation *TypeAnnotation
	value          Node
}

func (n *ClassProperty) grammar(c *Cursor) {
	n.decorators = c.decorators()
	n.static = c.ExpectOptionalToken(token.Keyword, "static") != nil
	n.key, n.computed = c.propertyKey()
	n.typeAnnotation = c.typeAnnotation()
	if c.optionalPunct("=") != nil {
		n.value = c.expectExpression()
	}
	c.semicolon()
}

// Key returns the field name.
func (n *ClassProperty) Key() Node { return n.key }

// Computed reports a `[expr]` key.
func (n *ClassProperty) Computed() bool { return n.computed }

// Value returns the initializer, or nil.
func (n *ClassProperty) Value() Node { return n.value }

// Static reports a static field.
func (n *ClassProperty) Static() bool { return n.static }

// TypeAnnotation returns the field annotation, or nil.
func (n *ClassProperty) TypeAnnotation() *TypeAnnotation { return n.typeAnnotation }

// StaticBlock is `static { ... }` in a class body.
type StaticBlock struct {
	nodeBase
	body []Node
}

func (n *StaticBlock) grammar(c *Cursor) {
	c.keyword("static")
	c.punct("{")
	for c.ok() && !c.isPunct("}") {
		n.body = append(n.body, c.expectStatement())
	}
	c.punct("}")
}

// Body returns the statements of the block.
func (n *StaticBlock) Body() []Node { return n.body }

// Decorator is `@expression`.
type Decorator struct {
	nodeBase
	expression Node
}

func (n *Decorator) grammar(c *Cursor) {
	c.punct("@")
	n.expression = c.expectExpression()
}

// Expression returns the decorator expression.
func (n *Decorator) Expression() Node { return n.expression }
