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

// VariableDeclaration is `var|let|const declarator, ...;`.
type VariableDeclaration struct {
	nodeBase
	kind         *Token
	declarations []*VariableDeclarator
}

func (n *VariableDeclaration) grammar(c *Cursor) {
	n.kind = c.ExpectToken(token.Keyword, "var", "let", "const")
	for c.ok() {
		n.declarations = append(n.declarations, as[*VariableDeclarator](c.ExpectNode(TypeVariableDeclarator)))
		if c.optionalPunct(",") == nil {
			break
		}
	}
	c.semicolon()
}

// Kind returns "var", "let" or "const".
func (n *VariableDeclaration) Kind() string { return n.kind.value() }

// Declarations returns the declarators.
func (n *VariableDeclaration) Declarations() []*VariableDeclarator { return n.declarations }

// VariableDeclarator is `id [= init]`.
type VariableDeclarator struct {
	nodeBase
	id   Node
	init Node
}

func (n *VariableDeclarator) grammar(c *Cursor) {
	n.id = c.ExpectOneOfNode(TypeIdentifier, TypeObjectPattern, TypeArrayPattern)
	if c.optionalPunct("=") != nil {
		n.init = c.expectExpression()
	}
}

// ID returns the binding: an Identifier or a destructuring pattern.
func (n *VariableDeclarator) ID() Node { return n.id }

// Init returns the initializer, or nil.
func (n *VariableDeclarator) Init() Node { return n.init }
