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

// JSXElement is `<name ...>children</name>` or a self-closing `<name />`.
type JSXElement struct {
	nodeBase
	opening  *JSXOpeningElement
	children []Node
	closing  *JSXClosingElement
}

func (n *JSXElement) grammar(c *Cursor) {
	n.opening = as[*JSXOpeningElement](c.ExpectNode(TypeJSXOpeningElement))
	if n.opening == nil || n.opening.SelfClosing() {
		return
	}
	n.children = c.jsxChildren()
	n.closing = as[*JSXClosingElement](c.ExpectNode(TypeJSXClosingElement))
}

// OpeningElement returns the opening tag.
func (n *JSXElement) OpeningElement() *JSXOpeningElement { return n.opening }

// JSXChildren returns the element content.
func (n *JSXElement) JSXChildren() []Node { return n.children }

// ClosingElement returns the closing tag, or nil when self-closing.
func (n *JSXElement) ClosingElement() *JSXClosingElement { return n.closing }

func (c *Cursor) jsxChildren() []Node {
	var out []Node
	for c.IsOneOfNode(jsxChildTypes...) {
		out = append(out, c.ExpectOneOfNode(jsxChildTypes...))
	}
	return out
}

// JSXFragment is `<>children</>`.
type JSXFragment struct {
	nodeBase
	children []Node
}

func (n *JSXFragment) grammar(c *Cursor) {
	c.ExpectNode(TypeJSXOpeningFragment)
	n.children = c.jsxChildren()
	c.ExpectNode(TypeJSXClosingFragment)
}

// JSXChildren returns the fragment content.
func (n *JSXFragment) JSXChildren() []Node { return n.children }

// JSXOpeningElement is `<name attributes>` or `<name attributes />`.
type JSXOpeningElement struct {
	nodeBase
	name        Node
	attributes  []Node
	selfClosing bool
}

var jsxAttributeTypes = []string{TypeJSXAttribute, TypeJSXSpreadAttribute}

func (n *JSXOpeningElement) grammar(c *Cursor) {
	c.punct("<")
	n.name = c.ExpectOneOfNode(jsxNameTypes...)
	for c.IsOneOfNode(jsxAttributeTypes...) {
		n.attributes = append(n.attributes, c.ExpectOneOfNode(jsxAttributeTypes...))
	}
	switch {
	case c.optionalPunct("/>") != nil:
		n.selfClosing = true
	case c.optionalPunct("/") != nil:
		n.selfClosing = true
		c.punct(">")
	default:
		c.punct(">")
	}
}

// Name returns the tag name.
func (n *JSXOpeningElement) Name() Node { return n.name }

// Attributes returns JSXAttribute and JSXSpreadAttribute members.
func (n *JSXOpeningElement) Attributes() []Node { return n.attributes }

// SelfClosing reports `<name />`.
func (n *JSXOpeningElement) SelfClosing() bool { return n.selfClosing }

// JSXClosingElement is `</name>`.
type JSXClosingElement struct {
	nodeBase
	name Node
}

func (n *JSXClosingElement) grammar(c *Cursor) {
	c.jsxCloseStart()
	n.name = c.ExpectOneOfNode(jsxNameTypes...)
	c.punct(">")
}

// Name returns the tag name.
func (n *JSXClosingElement) Name() Node { return n.name }

// jsxCloseStart consumes `</`, which the lexer may report as one token or
// two.
func (c *Cursor) jsxCloseStart() {
	if c.optionalPunct("</") != nil {
		return
	}
	c.punct("<")
	c.punct("/")
}

// JSXOpeningFragment is `<>`.
type JSXOpeningFragment struct {
	nodeBase
}

func (n *JSXOpeningFragment) grammar(c *Cursor) {
	c.punct("<")
	c.punct(">")
}

// JSXClosingFragment is `</>`.
type JSXClosingFragment struct {
	nodeBase
}

func (n *JSXClosingFragment) grammar(c *Cursor) {
	c.jsxCloseStart()
	c.punct(">")
}

// JSXAttribute is `name` or `name=value`.
type JSXAttribute struct {
	nodeBase
	name  Node
	value Node
}

var jsxAttributeValueTypes = []string{
	TypeStringLiteral, TypeJSXExpressionContainer, TypeJSXElement, TypeJSXFragment,
}

func (n *JSXAttribute) grammar(c *Cursor) {
	n.name = c.ExpectOneOfNode(TypeJSXIdentifier, TypeJSXNamespacedName)
	if c.optionalPunct("=") != nil {
		n.value = c.ExpectOneOfNode(jsxAttributeValueTypes...)
	}
}

// Name returns the attribute name.
func (n *JSXAttribute) Name() Node { return n.name }

// Value returns the attribute value, or nil for a bare attribute.
func (n *JSXAttribute) Value() Node { return n.value }

// jsxSpread is the shared grammar of `{...expression}` in attribute and
// child position.
type jsxSpread struct {
	nodeBase
	expression Node
}

func (n *jsxSpread) grammar(c *Cursor) {
	c.punct("{")
	c.punct("...")
	n.expression = c.expectExpression()
	c.punct("}")
}

// Expression returns the spread value.
func (n *jsxSpread) Expression() Node { return n.expression }

// JSXSpreadAttribute is `{...props}` among attributes.
type JSXSpreadAttribute struct {
	jsxSpread
}

// JSXSpreadChild is `{...children}` among children.
type JSXSpreadChild struct {
	jsxSpread
}

// JSXExpressionContainer is `{expression}`. The expression is nil for an
// empty container such as `{/* comment */}`.
type JSXExpressionContainer struct {
	nodeBase
	expression Node
}

func (n *JSXExpressionContainer) grammar(c *Cursor) {
	c.punct("{")
	if c.isExpression() {
		n.expression = c.expectExpression()
	}
	c.punct("}")
}

// Expression returns the contained expression, or nil.
func (n *JSXExpressionContainer) Expression() Node { return n.expression }

// JSXIdentifier is a tag or attribute name part.
type JSXIdentifier struct {
	nodeBase
	name *Token
}

func (n *JSXIdentifier) grammar(c *Cursor) {
	n.name = c.ExpectToken(token.Identifier)
}

// Name returns the identifier text.
func (n *JSXIdentifier) Name() string { return n.name.value() }

// JSXMemberExpression is `object.property` in a tag name.
type JSXMemberExpression struct {
	nodeBase
	object   Node
	property *JSXIdentifier
}

func (n *JSXMemberExpression) grammar(c *Cursor) {
	n.object = c.ExpectOneOfNode(TypeJSXIdentifier, TypeJSXMemberExpression)
	c.punct(".")
	n.property = as[*JSXIdentifier](c.ExpectNode(TypeJSXIdentifier))
}

// Object returns the qualifier.
func (n *JSXMemberExpression) Object() Node { return n.object }

// Property returns the last name part.
func (n *JSXMemberExpression) Property() *JSXIdentifier { return n.property }

// JSXNamespacedName is `namespace:name`.
type JSXNamespacedName struct {
	nodeBase
	namespace *JSXIdentifier
	name      *JSXIdentifier
}

func (n *JSXNamespacedName) grammar(c *Cursor) {
	n.namespace = as[*JSXIdentifier](c.ExpectNode(TypeJSXIdentifier))
	c.punct(":")
	n.name = as[*JSXIdentifier](c.ExpectNode(TypeJSXIdentifier))
}

// Namespace returns the prefix.
func (n *JSXNamespacedName) Namespace() *JSXIdentifier { return n.namespace }

// Name returns the local part.
func (n *JSXNamespacedName) Name() *JSXIdentifier { return n.name }

// JSXText is literal text between tags.
type JSXText struct {
	nodeBase
	parts []*Token
}

func (n *JSXText) grammar(c *Cursor) {
	for c.ok() && !c.IsEnd() {
		n.parts = append(n.parts, c.ExpectToken(token.JSXText))
	}
}

// Value returns the text as written.
func (n *JSXText) Value() string {
	var b strings.Builder
	for _, p := range n.parts {
		b.WriteString(p.value())
	}
	return b.String()
}

// JSXName returns the dotted or namespaced text of a tag name node.
func JSXName(n Node) string {
	switch v := n.(type) {
	case *JSXIdentifier:
		return v.Name()
	case *JSXMemberExpression:
		return JSXName(v.Object()) + "." + JSXName(v.Property())
	case *JSXNamespacedName:
		return JSXName(v.Namespace()) + ":" + JSXName(v.Name())
	}
	return ""
}
