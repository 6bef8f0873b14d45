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

// ObjectPattern is a destructuring `{a, b: c, ...rest}` target.
type ObjectPattern struct {
	nodeBase
	properties     []Node
	typeAnnotation *TypeAnnotation
}

func (n *ObjectPattern) grammar(c *Cursor) {
	n.properties = c.list("{", "}", []string{TypeProperty, TypeRestElement})
	n.typeAnnotation = c.typeAnnotation()
}

// Properties returns Property and RestElement members.
func (n *ObjectPattern) Properties() []Node { return n.properties }

// TypeAnnotation returns the pattern's annotation, or nil.
func (n *ObjectPattern) TypeAnnotation() *TypeAnnotation { return n.typeAnnotation }

// ArrayPattern is a destructuring `[a, , b, ...rest]` target. Holes are
// nil elements.
type ArrayPattern struct {
	nodeBase
	elements       []Node
	typeAnnotation *TypeAnnotation
}

func (n *ArrayPattern) grammar(c *Cursor) {
	n.elements = c.elements(patternTypes)
	n.typeAnnotation = c.typeAnnotation()
}

// Elements returns the element targets; holes are nil.
func (n *ArrayPattern) Elements() []Node { return n.elements }

// TypeAnnotation returns the pattern's annotation, or nil.
func (n *ArrayPattern) TypeAnnotation() *TypeAnnotation { return n.typeAnnotation }

// RestElement is `...argument` in a pattern or parameter list.
type RestElement struct {
	nodeBase
	argument       Node
	typeAnnotation *TypeAnnotation
}

func (n *RestElement) grammar(c *Cursor) {
	c.punct("...")
	n.argument = c.ExpectOneOfNode(patternTypes...)
	n.typeAnnotation = c.typeAnnotation()
}

// Argument returns the rest target.
func (n *RestElement) Argument() Node { return n.argument }

// TypeAnnotation returns the rest parameter's annotation, or nil.
func (n *RestElement) TypeAnnotation() *TypeAnnotation { return n.typeAnnotation }

// AssignmentPattern is a target with a default value, `left = right`.
type AssignmentPattern struct {
	nodeBase
	left  Node
	right Node
}

func (n *AssignmentPattern) grammar(c *Cursor) {
	n.left = c.ExpectOneOfNode(patternTypes...)
	c.punct("=")
	n.right = c.expectExpression()
}

// Left returns the target.
func (n *AssignmentPattern) Left() Node { return n.left }

// Right returns the default value.
func (n *AssignmentPattern) Right() Node { return n.right }
