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

import (
	"strings"

	"github.com/AleutianAI/jscst/services/cst/token"
)

// Identifier is a name in expression, binding or property position. A
// binding may carry `?` and a type annotation, which then fall inside its
// range.
type Identifier struct {
	nodeBase
	name           *Token
	optional       bool
	typeAnnotation *TypeAnnotation
}

func (n *Identifier) grammar(c *Cursor) {
	n.name = c.ExpectToken(token.Identifier)
	n.optional = c.optionalPunct("?") != nil
	n.typeAnnotation = c.typeAnnotation()
}

// Name returns the identifier text.
func (n *Identifier) Name() string { return n.name.value() }

// Optional reports an optional parameter `name?`.
func (n *Identifier) Optional() bool { return n.optional }

// TypeAnnotation returns the binding's annotation, or nil.
func (n *Identifier) TypeAnnotation() *TypeAnnotation { return n.typeAnnotation }

// PrivateName is `#name` in a class.
type PrivateName struct {
	nodeBase
	name *Token
}

func (n *PrivateName) grammar(c *Cursor) {
	n.name = c.ExpectToken(token.Identifier)
}

// Name returns the name including the leading '#'.
func (n *PrivateName) Name() string { return n.name.value() }

// ThisExpression is `this`.
type ThisExpression struct {
	nodeBase
}

func (n *ThisExpression) grammar(c *Cursor) {
	c.keyword("this")
}

// Super is `super` in a call or member expression.
type Super struct {
	nodeBase
}

func (n *Super) grammar(c *Cursor) {
	c.keyword("super")
}

// Import is the callee of a dynamic `import(...)`.
type Import struct {
	nodeBase
}

func (n *Import) grammar(c *Cursor) {
	c.keyword("import")
}

// ArrayExpression is `[elements]`. Holes are nil elements.
type ArrayExpression struct {
	nodeBase
	elements []Node
}

func (n *ArrayExpression) grammar(c *Cursor) {
	n.elements = c.elements(argumentTypes)
}

// Elements returns the elements; holes are nil.
func (n *ArrayExpression) Elements() []Node { return n.elements }

// ObjectExpression is `{properties}`.
type ObjectExpression struct {
	nodeBase
	properties []Node
}

func (n *ObjectExpression) grammar(c *Cursor) {
	n.properties = c.list("{", "}", []string{TypeProperty, TypeSpreadElement, TypeMethodDefinition})
}

// Properties returns Property, SpreadElement and MethodDefinition members.
func (n *ObjectExpression) Properties() []Node { return n.properties }

// propertyValueTypes are the values of object literal and pattern
// properties.
var propertyValueTypes = concat(expressionTypes, []string{
	TypeObjectPattern, TypeArrayPattern, TypeAssignmentPattern,
})

// Property is a member of an object literal or object pattern:
// `key: value`, `[key]: value`, shorthand `key`, or shorthand with
// default `key = value` (an AssignmentPattern).
type Property struct {
	nodeBase
	key       Node
	value     Node
	computed  bool
	shorthand bool
}

func (n *Property) grammar(c *Cursor) {
	if c.IsNode(TypeAssignmentPattern) {
		n.value = c.ExpectNode(TypeAssignmentPattern)
		if ap, ok := n.value.(*AssignmentPattern); ok {
			n.key = ap.Left()
		}
		n.shorthand = true
		return
	}

	n.key, n.computed = c.propertyKey()
	if !n.computed && c.IsEnd() {
		if _, ok := n.key.(*Identifier); ok {
			n.value = n.key
			n.shorthand = true
			return
		}
	}
	c.punct(":")
	n.value = c.ExpectOneOfNode(propertyValueTypes...)
}

// Key returns the property key. For shorthand properties it is the same
// node as Value (or the AssignmentPattern's left side).
func (n *Property) Key() Node { return n.key }

// Value returns the property value.
func (n *Property) Value() Node { return n.value }

// Computed reports a `[expr]` key.
func (n *Property) Computed() bool { return n.computed }

// Shorthand reports `{a}` or `{a = 1}`.
func (n *Property) Shorthand() bool { return n.shorthand }

// UnaryExpression is `op argument` for ! ~ + - typeof void delete.
type UnaryExpression struct {
	nodeBase
	operator *Token
	argument Node
}

func (n *UnaryExpression) grammar(c *Cursor) {
	if c.IsToken(token.Keyword) {
		n.operator = c.ExpectToken(token.Keyword, "typeof", "void", "delete")
	} else {
		n.operator = c.ExpectToken(token.Punctuator, "!", "~", "+", "-")
	}
	n.argument = c.expectExpression()
}

// Operator returns the operator text.
func (n *UnaryExpression) Operator() string { return n.operator.value() }

// Argument returns the operand.
func (n *UnaryExpression) Argument() Node { return n.argument }

// UpdateExpression is `++x`, `x++`, `--x` or `x--`.
type UpdateExpression struct {
	nodeBase
	operator *Token
	argument Node
	prefix   bool
}

func (n *UpdateExpression) grammar(c *Cursor) {
	if c.IsToken(token.Punctuator) {
		n.prefix = true
		n.operator = c.ExpectToken(token.Punctuator, "++", "--")
		n.argument = c.ExpectOneOfNode(patternTypes...)
		return
	}
	n.argument = c.ExpectOneOfNode(patternTypes...)
	n.operator = c.ExpectToken(token.Punctuator, "++", "--")
}

// Operator returns "++" or "--".
func (n *UpdateExpression) Operator() string { return n.operator.value() }

// Argument returns the updated target.
func (n *UpdateExpression) Argument() Node { return n.argument }

// Prefix reports a prefix operator.
func (n *UpdateExpression) Prefix() bool { return n.prefix }

// binary is the shared grammar of binary and logical expressions.
type binary struct {
	nodeBase
	left     Node
	operator *Token
	right    Node
}

func (n *binary) grammar(c *Cursor) {
	n.left = c.expectExpression()
	if c.IsToken(token.Keyword) {
		n.operator = c.ExpectToken(token.Keyword, "in", "instanceof")
	} else {
		n.operator = c.ExpectToken(token.Punctuator)
	}
	n.right = c.expectExpression()
}

// Left returns the left operand.
func (n *binary) Left() Node { return n.left }

// Operator returns the operator text.
func (n *binary) Operator() string { return n.operator.value() }

// Right returns the right operand.
func (n *binary) Right() Node { return n.right }

// BinaryExpression is `left op right` for arithmetic, comparison, bitwise,
// in and instanceof operators.
type BinaryExpression struct {
	binary
}

// LogicalExpression is `left op right` for &&, || and ??.
type LogicalExpression struct {
	binary
}

// assignmentTargets are the left sides of assignment expressions.
var assignmentTargets = concat(patternTypes, []string{TypeObjectPattern, TypeArrayPattern})

// AssignmentExpression is `left op right` for = and compound assignment.
type AssignmentExpression struct {
	nodeBase
	left     Node
	operator *Token
	right    Node
}

func (n *AssignmentExpression) grammar(c *Cursor) {
	n.left = c.ExpectOneOfNode(assignmentTargets...)
	n.operator = c.ExpectToken(token.Punctuator)
	n.right = c.expectExpression()
}

// Left returns the assignment target.
func (n *AssignmentExpression) Left() Node { return n.left }

// Operator returns the operator text, "=" for plain assignment.
func (n *AssignmentExpression) Operator() string { return n.operator.value() }

// Right returns the assigned value.
func (n *AssignmentExpression) Right() Node { return n.right }

// ConditionalExpression is `test ? consequent : alternate`.
type ConditionalExpression struct {
	nodeBase
	test       Node
	consequent Node
	alternate  Node
}

func (n *ConditionalExpression) grammar(c *Cursor) {
	n.test = c.expectExpression()
	c.punct("?")
	n.consequent = c.expectExpression()
	c.punct(":")
	n.alternate = c.expectExpression()
}

// Test returns the condition.
func (n *ConditionalExpression) Test() Node { return n.test }

// Consequent returns the value when true.
func (n *ConditionalExpression) Consequent() Node { return n.consequent }

// Alternate returns the value when false.
func (n *ConditionalExpression) Alternate() Node { return n.alternate }

// CallExpression is `callee[?.](arguments)`.
type CallExpression struct {
	nodeBase
	callee    Node
	arguments []Node
	optional  bool
}

func (n *CallExpression) grammar(c *Cursor) {
	n.callee = c.expectExpression()
	n.optional = c.optionalPunct("?.") != nil
	n.arguments = c.list("(", ")", argumentTypes)
}

// Callee returns the called expression.
func (n *CallExpression) Callee() Node { return n.callee }

// Arguments returns the call arguments.
func (n *CallExpression) Arguments() []Node { return n.arguments }

// Optional reports `f?.()`.
func (n *CallExpression) Optional() bool { return n.optional }

// NewExpression is `new callee[(arguments)]`.
type NewExpression struct {
	nodeBase
	callee    Node
	arguments []Node
}

func (n *NewExpression) grammar(c *Cursor) {
	c.keyword("new")
	n.callee = c.expectExpression()
	if c.isPunct("(") {
		n.arguments = c.list("(", ")", argumentTypes)
	}
}

// Callee returns the constructor expression.
func (n *NewExpression) Callee() Node { return n.callee }

// Arguments returns the constructor arguments.
func (n *NewExpression) Arguments() []Node { return n.arguments }

// MemberExpression is `object.property`, `object?.property` or
// `object[property]`.
type MemberExpression struct {
	nodeBase
	object   Node
	property Node
	computed bool
	optional bool
}

func (n *MemberExpression) grammar(c *Cursor) {
	n.object = c.expectExpression()
	n.optional = c.optionalPunct("?.") != nil
	if c.optionalPunct("[") != nil {
		n.computed = true
		n.property = c.expectExpression()
		c.punct("]")
		return
	}
	if !n.optional {
		c.punct(".")
	}
	n.property = c.ExpectOneOfNode(TypeIdentifier, TypePrivateName)
}

// Object returns the accessed object.
func (n *MemberExpression) Object() Node { return n.object }

// Property returns the property: an Identifier or PrivateName for dotted
// access, any expression when computed.
func (n *MemberExpression) Property() Node { return n.property }

// Computed reports `object[property]`.
func (n *MemberExpression) Computed() bool { return n.computed }

// Optional reports `object?.property`.
func (n *MemberExpression) Optional() bool { return n.optional }

// SequenceExpression is `a, b, c`.
type SequenceExpression struct {
	nodeBase
	expressions []Node
}

func (n *SequenceExpression) grammar(c *Cursor) {
	n.expressions = append(n.expressions, c.expectExpression())
	for c.optionalPunct(",") != nil {
		n.expressions = append(n.expressions, c.expectExpression())
	}
}

// Expressions returns the sequence members.
func (n *SequenceExpression) Expressions() []Node { return n.expressions }

// YieldExpression is `yield[*] [argument]`.
type YieldExpression struct {
	nodeBase
	argument Node
	delegate bool
}

func (n *YieldExpression) grammar(c *Cursor) {
	c.keyword("yield")
	n.delegate = c.optionalPunct("*") != nil
	if c.isExpression() {
		n.argument = c.expectExpression()
	}
}

// Argument returns the yielded value, or nil.
func (n *YieldExpression) Argument() Node { return n.argument }

// Delegate reports `yield*`.
func (n *YieldExpression) Delegate() bool { return n.delegate }

// AwaitExpression is `await argument`.
type AwaitExpression struct {
	nodeBase
	argument Node
}

func (n *AwaitExpression) grammar(c *Cursor) {
	c.keyword("await")
	n.argument = c.expectExpression()
}

// Argument returns the awaited value.
func (n *AwaitExpression) Argument() Node { return n.argument }

// SpreadElement is `...argument` in calls, arrays and object literals.
type SpreadElement struct {
	nodeBase
	argument Node
}

func (n *SpreadElement) grammar(c *Cursor) {
	c.punct("...")
	n.argument = c.expectExpression()
}

// Argument returns the spread value.
func (n *SpreadElement) Argument() Node { return n.argument }

// ParenthesizedExpression is `(expression)`.
type ParenthesizedExpression struct {
	nodeBase
	expression Node
}

func (n *ParenthesizedExpression) grammar(c *Cursor) {
	c.punct("(")
	n.expression = c.ExpectOneOfNode(concat(expressionTypes, patternTypes)...)
	c.punct(")")
}

// Expression returns the wrapped expression.
func (n *ParenthesizedExpression) Expression() Node { return n.expression }

// MetaProperty is `new.target` or `import.meta`.
type MetaProperty struct {
	nodeBase
	meta     *Token
	property *Token
}

func (n *MetaProperty) grammar(c *Cursor) {
	n.meta = c.ExpectToken(token.Keyword, "new", "import")
	c.punct(".")
	n.property = c.ExpectToken(token.Identifier)
}

// String returns the dotted form, for example "new.target".
func (n *MetaProperty) String() string {
	return strings.Join([]string{n.meta.value(), n.property.value()}, ".")
}

// TemplateLiteral is a template string. Quasis are the Template tokens;
// expressions sit between them.
type TemplateLiteral struct {
	nodeBase
	quasis      []*Token
	expressions []Node
}

func (n *TemplateLiteral) grammar(c *Cursor) {
	quasi := c.ExpectToken(token.Template)
	n.quasis = append(n.quasis, quasi)
	for c.ok() && strings.HasSuffix(quasi.Value(), "${") {
		n.expressions = append(n.expressions, c.expectExpression())
		quasi = c.ExpectToken(token.Template)
		if quasi == nil {
			return
		}
		n.quasis = append(n.quasis, quasi)
	}
}

// Quasis returns the literal chunks including their delimiters.
func (n *TemplateLiteral) Quasis() []*Token { return n.quasis }

// Expressions returns the substituted expressions.
func (n *TemplateLiteral) Expressions() []Node { return n.expressions }

// TaggedTemplateExpression is tag`template`.
type TaggedTemplateExpression struct {
	nodeBase
	tag   Node
	quasi *TemplateLiteral
}

func (n *TaggedTemplateExpression) grammar(c *Cursor) {
	n.tag = c.expectExpression()
	c.optionalPunct("?.")
	n.quasi = as[*TemplateLiteral](c.ExpectNode(TypeTemplateLiteral))
}

// Tag returns the tag expression.
func (n *TaggedTemplateExpression) Tag() Node { return n.tag }

// Quasi returns the template.
func (n *TaggedTemplateExpression) Quasi() *TemplateLiteral { return n.quasi }
