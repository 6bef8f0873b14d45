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

// Type annotation variants follow the Flow shapes of the Babel AST. They
// own their tokens like every other node but carry no runtime meaning:
// identifiers inside them name types, not variables.

func (c *Cursor) expectType() Node {
	return c.ExpectOneOfNode(annotationTypes...)
}

// typeAnnotation consumes an optional `: type` child.
func (c *Cursor) typeAnnotation() *TypeAnnotation {
	return as[*TypeAnnotation](c.ExpectOptionalNode(TypeTypeAnnotation))
}

func (c *Cursor) typeParameters() *TypeParameterDeclaration {
	return as[*TypeParameterDeclaration](c.ExpectOptionalNode(TypeTypeParameterDeclaration))
}

// typeSequence consumes `[op] type (op type)*`.
func (c *Cursor) typeSequence(op string) []Node {
	c.optionalPunct(op)
	var types []Node
	for c.ok() {
		types = append(types, c.expectType())
		if c.optionalPunct(op) == nil {
			break
		}
	}
	return types
}

// TypeAnnotation is `: type` after a binding, a class field or a
// parameter list.
type TypeAnnotation struct {
	nodeBase
	annotation Node
}

func (n *TypeAnnotation) grammar(c *Cursor) {
	c.punct(":")
	n.annotation = c.expectType()
}

// Annotation returns the annotated type.
func (n *TypeAnnotation) Annotation() Node { return n.annotation }

// TypeAlias is `type Name<params> = type;`.
type TypeAlias struct {
	nodeBase
	id             *Identifier
	typeParameters *TypeParameterDeclaration
	right          Node
}

func (n *TypeAlias) grammar(c *Cursor) {
	c.ExpectToken(token.Identifier, "type")
	n.id = as[*Identifier](c.ExpectNode(TypeIdentifier))
	n.typeParameters = c.typeParameters()
	c.punct("=")
	n.right = c.expectType()
	c.semicolon()
}

// ID returns the alias name.
func (n *TypeAlias) ID() *Identifier { return n.id }

// TypeParameters returns the declared parameters, or nil.
func (n *TypeAlias) TypeParameters() *TypeParameterDeclaration { return n.typeParameters }

// Right returns the aliased type.
func (n *TypeAlias) Right() Node { return n.right }

// TypeParameterDeclaration is `<T, U extends V = W>` on a declaration.
type TypeParameterDeclaration struct {
	nodeBase
	params []*TypeParameter
}

func (n *TypeParameterDeclaration) grammar(c *Cursor) {
	for _, p := range c.list("<", ">", []string{TypeTypeParameter}) {
		n.params = append(n.params, as[*TypeParameter](p))
	}
}

// Params returns the parameters in order.
func (n *TypeParameterDeclaration) Params() []*TypeParameter { return n.params }

// TypeParameter is `Name [extends|: bound] [= default]`.
type TypeParameter struct {
	nodeBase
	name     *Identifier
	bound    Node
	fallback Node
}

func (n *TypeParameter) grammar(c *Cursor) {
	n.name = as[*Identifier](c.ExpectNode(TypeIdentifier))
	if c.ExpectOptionalToken(token.Keyword, "extends") != nil || c.optionalPunct(":") != nil {
		n.bound = c.expectType()
	}
	if c.optionalPunct("=") != nil {
		n.fallback = c.expectType()
	}
}

// Name returns the parameter name.
func (n *TypeParameter) Name() *Identifier { return n.name }

// Bound returns the constraint, or nil.
func (n *TypeParameter) Bound() Node { return n.bound }

// Default returns the default type, or nil.
func (n *TypeParameter) Default() Node { return n.fallback }

// TypeParameterInstantiation is `<type, ...>` after a generic name.
type TypeParameterInstantiation struct {
	nodeBase
	params []Node
}

func (n *TypeParameterInstantiation) grammar(c *Cursor) {
	n.params = c.list("<", ">", annotationTypes)
}

// Params returns the type arguments.
func (n *TypeParameterInstantiation) Params() []Node { return n.params }

// KeywordTypeAnnotation is a predefined type such as `number` or `void`.
// Its Type names the keyword: NumberTypeAnnotation, VoidTypeAnnotation,
// and so on.
type KeywordTypeAnnotation struct {
	nodeBase
	keyword *Token
}

func (n *KeywordTypeAnnotation) grammar(c *Cursor) {
	if c.IsToken(token.Keyword) {
		n.keyword = c.ExpectToken(token.Keyword)
		return
	}
	n.keyword = c.ExpectToken(token.Identifier)
}

// Keyword returns the type keyword.
func (n *KeywordTypeAnnotation) Keyword() string { return n.keyword.value() }

// LiteralTypeAnnotation is a string, number, boolean or null literal used
// as a type.
type LiteralTypeAnnotation struct {
	nodeBase
	sign  *Token
	value *Token
}

func (n *LiteralTypeAnnotation) grammar(c *Cursor) {
	switch n.Type() {
	case TypeStringLiteralTypeAnnotation:
		n.value = c.ExpectToken(token.String)
	case TypeNumberLiteralTypeAnnotation:
		n.sign = c.ExpectOptionalToken(token.Punctuator, "-", "+")
		n.value = c.ExpectToken(token.Numeric)
	case TypeBooleanLiteralTypeAnnotation:
		n.value = c.ExpectToken(token.Boolean)
	default:
		n.value = c.ExpectToken(token.Null)
	}
}

// Value returns the literal text, sign included.
func (n *LiteralTypeAnnotation) Value() string { return n.sign.value() + n.value.value() }

// GenericTypeAnnotation is a named type, `Name` or `ns.Name<args>`.
type GenericTypeAnnotation struct {
	nodeBase
	id             Node
	typeParameters *TypeParameterInstantiation
}

func (n *GenericTypeAnnotation) grammar(c *Cursor) {
	n.id = c.ExpectOneOfNode(TypeIdentifier, TypeQualifiedTypeIdentifier)
	n.typeParameters = as[*TypeParameterInstantiation](c.ExpectOptionalNode(TypeTypeParameterInstantiation))
}

// ID returns an *Identifier or a *QualifiedTypeIdentifier.
func (n *GenericTypeAnnotation) ID() Node { return n.id }

// TypeParameters returns the type arguments, or nil.
func (n *GenericTypeAnnotation) TypeParameters() *TypeParameterInstantiation {
	return n.typeParameters
}

// QualifiedTypeIdentifier is `qualification.id` in a type name.
type QualifiedTypeIdentifier struct {
	nodeBase
	qualification Node
	id            *Identifier
}

func (n *QualifiedTypeIdentifier) grammar(c *Cursor) {
	n.qualification = c.ExpectOneOfNode(TypeIdentifier, TypeQualifiedTypeIdentifier)
	c.punct(".")
	n.id = as[*Identifier](c.ExpectNode(TypeIdentifier))
}

// Qualification returns the left side.
func (n *QualifiedTypeIdentifier) Qualification() Node { return n.qualification }

// ID returns the rightmost name.
func (n *QualifiedTypeIdentifier) ID() *Identifier { return n.id }

// ObjectTypeAnnotation is `{ key: type, ... }`, or `{| ... |}` when exact.
type ObjectTypeAnnotation struct {
	nodeBase
	exact   bool
	members []Node
}

func (n *ObjectTypeAnnotation) grammar(c *Cursor) {
	closing := "}"
	if c.optionalPunct("{|") != nil {
		n.exact = true
		closing = "|}"
	} else {
		c.punct("{")
	}
	for c.ok() && !c.isPunct(closing) {
		if c.optionalPunct(",") != nil || c.optionalPunct(";") != nil {
			continue
		}
		n.members = append(n.members, c.ExpectOneOfNode(TypeObjectTypeProperty, TypeObjectTypeIndexer))
	}
	c.punct(closing)
}

// Exact reports a `{| |}` object type.
func (n *ObjectTypeAnnotation) Exact() bool { return n.exact }

// Members returns properties and indexers in order.
func (n *ObjectTypeAnnotation) Members() []Node { return n.members }

// ObjectTypeProperty is `key[?]: type` in an object type.
type ObjectTypeProperty struct {
	nodeBase
	key      Node
	optional bool
	value    Node
}

func (n *ObjectTypeProperty) grammar(c *Cursor) {
	n.key = c.ExpectOneOfNode(TypeIdentifier, TypeStringLiteral, TypeNumericLiteral)
	n.optional = c.optionalPunct("?") != nil
	if c.optionalPunct(":") != nil {
		n.value = c.expectType()
	}
}

// Key returns the property name.
func (n *ObjectTypeProperty) Key() Node { return n.key }

// Optional reports a `key?:` property.
func (n *ObjectTypeProperty) Optional() bool { return n.optional }

// Value returns the property type, or nil when omitted.
func (n *ObjectTypeProperty) Value() Node { return n.value }

// ObjectTypeIndexer is `[name: key]: value` in an object type.
type ObjectTypeIndexer struct {
	nodeBase
	id    *Identifier
	key   Node
	value Node
}

func (n *ObjectTypeIndexer) grammar(c *Cursor) {
	c.punct("[")
	n.id = as[*Identifier](c.ExpectNode(TypeIdentifier))
	c.punct(":")
	n.key = c.expectType()
	c.punct("]")
	c.punct(":")
	n.value = c.expectType()
}

// ID returns the index name.
func (n *ObjectTypeIndexer) ID() *Identifier { return n.id }

// Key returns the index type.
func (n *ObjectTypeIndexer) Key() Node { return n.key }

// Value returns the value type.
func (n *ObjectTypeIndexer) Value() Node { return n.value }

// ArrayTypeAnnotation is `type[]`.
type ArrayTypeAnnotation struct {
	nodeBase
	elementType Node
}

func (n *ArrayTypeAnnotation) grammar(c *Cursor) {
	n.elementType = c.expectType()
	c.punct("[")
	c.punct("]")
}

// ElementType returns the element type.
func (n *ArrayTypeAnnotation) ElementType() Node { return n.elementType }

// TupleTypeAnnotation is `[type, ...]`.
type TupleTypeAnnotation struct {
	nodeBase
	types []Node
}

func (n *TupleTypeAnnotation) grammar(c *Cursor) {
	n.types = c.list("[", "]", annotationTypes)
}

// Types returns the element types.
func (n *TupleTypeAnnotation) Types() []Node { return n.types }

// UnionTypeAnnotation is `A | B | C`.
type UnionTypeAnnotation struct {
	nodeBase
	types []Node
}

func (n *UnionTypeAnnotation) grammar(c *Cursor) {
	n.types = c.typeSequence("|")
}

// Types returns the members in order.
func (n *UnionTypeAnnotation) Types() []Node { return n.types }

// IntersectionTypeAnnotation is `A & B & C`.
type IntersectionTypeAnnotation struct {
	nodeBase
	types []Node
}

func (n *IntersectionTypeAnnotation) grammar(c *Cursor) {
	n.types = c.typeSequence("&")
}

// Types returns the members in order.
func (n *IntersectionTypeAnnotation) Types() []Node { return n.types }

// NullableTypeAnnotation is the maybe type `?type`.
type NullableTypeAnnotation struct {
	nodeBase
	annotation Node
}

func (n *NullableTypeAnnotation) grammar(c *Cursor) {
	c.punct("?")
	n.annotation = c.expectType()
}

// Annotation returns the wrapped type.
func (n *NullableTypeAnnotation) Annotation() Node { return n.annotation }

// ParenthesizedTypeAnnotation is `(type)`.
type ParenthesizedTypeAnnotation struct {
	nodeBase
	annotation Node
}

func (n *ParenthesizedTypeAnnotation) grammar(c *Cursor) {
	c.punct("(")
	n.annotation = c.expectType()
	c.punct(")")
}

// Annotation returns the wrapped type.
func (n *ParenthesizedTypeAnnotation) Annotation() Node { return n.annotation }

// ExistsTypeAnnotation is the existential type `*`.
type ExistsTypeAnnotation struct {
	nodeBase
}

func (n *ExistsTypeAnnotation) grammar(c *Cursor) {
	c.punct("*")
}

// FunctionTypeAnnotation is `<T>(params) => type`.
type FunctionTypeAnnotation struct {
	nodeBase
	typeParameters *TypeParameterDeclaration
	params         []*FunctionTypeParam
	returnType     Node
}

func (n *FunctionTypeAnnotation) grammar(c *Cursor) {
	n.typeParameters = c.typeParameters()
	for _, p := range c.list("(", ")", []string{TypeFunctionTypeParam}) {
		n.params = append(n.params, as[*FunctionTypeParam](p))
	}
	c.punct("=>")
	n.returnType = c.expectType()
}

// TypeParameters returns the declared parameters, or nil.
func (n *FunctionTypeAnnotation) TypeParameters() *TypeParameterDeclaration {
	return n.typeParameters
}

// Params returns the parameters in order, the rest parameter included.
func (n *FunctionTypeAnnotation) Params() []*FunctionTypeParam { return n.params }

// ReturnType returns the result type.
func (n *FunctionTypeAnnotation) ReturnType() Node { return n.returnType }

// FunctionTypeParam is `[...]name[?]: type` in a function type.
type FunctionTypeParam struct {
	nodeBase
	rest           bool
	name           *Identifier
	optional       bool
	typeAnnotation Node
}

func (n *FunctionTypeParam) grammar(c *Cursor) {
	n.rest = c.optionalPunct("...") != nil
	n.name = as[*Identifier](c.ExpectNode(TypeIdentifier))
	n.optional = c.optionalPunct("?") != nil
	if c.optionalPunct(":") != nil {
		n.typeAnnotation = c.expectType()
	}
}

// Name returns the parameter name.
func (n *FunctionTypeParam) Name() *Identifier { return n.name }

// Rest reports a `...rest` parameter.
func (n *FunctionTypeParam) Rest() bool { return n.rest }

// Optional reports a `name?` parameter.
func (n *FunctionTypeParam) Optional() bool { return n.optional }

// TypeAnnotation returns the parameter type, or nil.
func (n *FunctionTypeParam) TypeAnnotation() Node { return n.typeAnnotation }
