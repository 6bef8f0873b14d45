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

// ExpressionStatement is `expr;`.
type ExpressionStatement struct {
	nodeBase
	expression Node
}

func (n *ExpressionStatement) grammar(c *Cursor) {
	n.expression = c.expectExpression()
	c.semicolon()
}

// Expression returns the statement's expression.
func (n *ExpressionStatement) Expression() Node { return n.expression }

// BlockStatement is `{ ... }`.
type BlockStatement struct {
	nodeBase
	body []Node
}

func (n *BlockStatement) grammar(c *Cursor) {
	c.punct("{")
	for c.ok() && !c.isPunct("}") {
		n.body = append(n.body, c.expectStatement())
	}
	c.punct("}")
}

// Body returns the statements of the block.
func (n *BlockStatement) Body() []Node { return n.body }

// EmptyStatement is a lone `;`.
type EmptyStatement struct {
	nodeBase
}

func (n *EmptyStatement) grammar(c *Cursor) {
	c.punct(";")
}

// DebuggerStatement is `debugger;`.
type DebuggerStatement struct {
	nodeBase
}

func (n *DebuggerStatement) grammar(c *Cursor) {
	c.keyword("debugger")
	c.semicolon()
}

// WithStatement is `with (object) body`.
type WithStatement struct {
	nodeBase
	object Node
	body   Node
}

func (n *WithStatement) grammar(c *Cursor) {
	c.keyword("with")
	c.punct("(")
	n.object = c.expectExpression()
	c.punct(")")
	n.body = c.expectStatement()
}

// Object returns the scope object expression.
func (n *WithStatement) Object() Node { return n.object }

// Body returns the statement evaluated with the object in scope.
func (n *WithStatement) Body() Node { return n.body }

// ReturnStatement is `return [argument];`.
type ReturnStatement struct {
	nodeBase
	argument Node
}

func (n *ReturnStatement) grammar(c *Cursor) {
	c.keyword("return")
	if c.isExpression() {
		n.argument = c.expectExpression()
	}
	c.semicolon()
}

// Argument returns the returned expression, or nil.
func (n *ReturnStatement) Argument() Node { return n.argument }

// LabeledStatement is `label: body`.
type LabeledStatement struct {
	nodeBase
	label *Identifier
	body  Node
}

func (n *LabeledStatement) grammar(c *Cursor) {
	n.label = as[*Identifier](c.ExpectNode(TypeIdentifier))
	c.punct(":")
	n.body = c.expectStatement()
}

// Label returns the label.
func (n *LabeledStatement) Label() *Identifier { return n.label }

// Body returns the labeled statement.
func (n *LabeledStatement) Body() Node { return n.body }

// jump is the shared grammar of break and continue.
type jump struct {
	nodeBase
	label *Identifier
}

func (n *jump) grammar(c *Cursor) {
	c.ExpectToken(token.Keyword, "break", "continue")
	n.label = as[*Identifier](c.ExpectOptionalNode(TypeIdentifier))
	c.semicolon()
}

// Label returns the target label, or nil.
func (n *jump) Label() *Identifier { return n.label }

// BreakStatement is `break [label];`.
type BreakStatement struct {
	jump
}

// ContinueStatement is `continue [label];`.
type ContinueStatement struct {
	jump
}

// IfStatement is `if (test) consequent [else alternate]`.
type IfStatement struct {
	nodeBase
	test       Node
	consequent Node
	alternate  Node
}

func (n *IfStatement) grammar(c *Cursor) {
	c.keyword("if")
	c.punct("(")
	n.test = c.expectExpression()
	c.punct(")")
	n.consequent = c.expectStatement()
	if c.ExpectOptionalToken(token.Keyword, "else") != nil {
		n.alternate = c.expectStatement()
	}
}

// Test returns the condition.
func (n *IfStatement) Test() Node { return n.test }

// Consequent returns the then branch.
func (n *IfStatement) Consequent() Node { return n.consequent }

// Alternate returns the else branch, or nil.
func (n *IfStatement) Alternate() Node { return n.alternate }

// SwitchStatement is `switch (discriminant) { cases }`.
type SwitchStatement struct {
	nodeBase
	discriminant Node
	cases        []*SwitchCase
}

func (n *SwitchStatement) grammar(c *Cursor) {
	c.keyword("switch")
	c.punct("(")
	n.discriminant = c.expectExpression()
	c.punct(")")
	c.punct("{")
	for c.ok() && !c.isPunct("}") {
		n.cases = append(n.cases, as[*SwitchCase](c.ExpectNode(TypeSwitchCase)))
	}
	c.punct("}")
}

// Discriminant returns the switched expression.
func (n *SwitchStatement) Discriminant() Node { return n.discriminant }

// Cases returns the case clauses.
func (n *SwitchStatement) Cases() []*SwitchCase { return n.cases }

// SwitchCase is `case test: ...` or `default: ...`.
type SwitchCase struct {
	nodeBase
	test       Node
	consequent []Node
}

func (n *SwitchCase) grammar(c *Cursor) {
	if c.ExpectOptionalToken(token.Keyword, "case") != nil {
		n.test = c.expectExpression()
	} else {
		c.keyword("default")
	}
	c.punct(":")
	for c.ok() && !c.IsEnd() {
		n.consequent = append(n.consequent, c.expectStatement())
	}
}

// Test returns the case expression, or nil for default.
func (n *SwitchCase) Test() Node { return n.test }

// Consequent returns the statements of the clause.
func (n *SwitchCase) Consequent() []Node { return n.consequent }

// ThrowStatement is `throw argument;`.
type ThrowStatement struct {
	nodeBase
	argument Node
}

func (n *ThrowStatement) grammar(c *Cursor) {
	c.keyword("throw")
	n.argument = c.expectExpression()
	c.semicolon()
}

// Argument returns the thrown expression.
func (n *ThrowStatement) Argument() Node { return n.argument }

// TryStatement is `try block [catch] [finally block]`.
type TryStatement struct {
	nodeBase
	block     *BlockStatement
	handler   *CatchClause
	finalizer *BlockStatement
}

func (n *TryStatement) grammar(c *Cursor) {
	c.keyword("try")
	n.block = as[*BlockStatement](c.ExpectNode(TypeBlockStatement))
	n.handler = as[*CatchClause](c.ExpectOptionalNode(TypeCatchClause))
	if c.ExpectOptionalToken(token.Keyword, "finally") != nil {
		n.finalizer = as[*BlockStatement](c.ExpectNode(TypeBlockStatement))
	}
}

// Block returns the guarded block.
func (n *TryStatement) Block() *BlockStatement { return n.block }

// Handler returns the catch clause, or nil.
func (n *TryStatement) Handler() *CatchClause { return n.handler }

// Finalizer returns the finally block, or nil.
func (n *TryStatement) Finalizer() *BlockStatement { return n.finalizer }

// CatchClause is `catch [(param)] body`.
type CatchClause struct {
	nodeBase
	param Node
	body  *BlockStatement
}

func (n *CatchClause) grammar(c *Cursor) {
	c.keyword("catch")
	if c.optionalPunct("(") != nil {
		n.param = c.ExpectOneOfNode(TypeIdentifier, TypeObjectPattern, TypeArrayPattern)
		c.punct(")")
	}
	n.body = as[*BlockStatement](c.ExpectNode(TypeBlockStatement))
}

// Param returns the error binding, or nil for `catch {}`.
func (n *CatchClause) Param() Node { return n.param }

// Body returns the handler block.
func (n *CatchClause) Body() *BlockStatement { return n.body }

// WhileStatement is `while (test) body`.
type WhileStatement struct {
	nodeBase
	test Node
	body Node
}

func (n *WhileStatement) grammar(c *Cursor) {
	c.keyword("while")
	c.punct("(")
	n.test = c.expectExpression()
	c.punct(")")
	n.body = c.expectStatement()
}

// Test returns the loop condition.
func (n *WhileStatement) Test() Node { return n.test }

// Body returns the loop body.
func (n *WhileStatement) Body() Node { return n.body }

// DoWhileStatement is `do body while (test);`.
type DoWhileStatement struct {
	nodeBase
	body Node
	test Node
}

func (n *DoWhileStatement) grammar(c *Cursor) {
	c.keyword("do")
	n.body = c.expectStatement()
	c.keyword("while")
	c.punct("(")
	n.test = c.expectExpression()
	c.punct(")")
	c.semicolon()
}

// Body returns the loop body.
func (n *DoWhileStatement) Body() Node { return n.body }

// Test returns the loop condition.
func (n *DoWhileStatement) Test() Node { return n.test }

// ForStatement is `for (init; test; update) body`.
type ForStatement struct {
	nodeBase
	init   Node
	test   Node
	update Node
	body   Node
}

func (n *ForStatement) grammar(c *Cursor) {
	c.keyword("for")
	c.punct("(")
	if c.IsNode(TypeVariableDeclaration) {
		// The declaration may own the separating semicolon.
		n.init = c.ExpectNode(TypeVariableDeclaration)
		c.optionalPunct(";")
	} else {
		if c.isExpression() {
			n.init = c.expectExpression()
		}
		c.punct(";")
	}
	if c.isExpression() {
		n.test = c.expectExpression()
	}
	c.punct(";")
	if c.isExpression() {
		n.update = c.expectExpression()
	}
	c.punct(")")
	n.body = c.expectStatement()
}

// Init returns the initializer (VariableDeclaration or expression), or nil.
func (n *ForStatement) Init() Node { return n.init }

// Test returns the condition, or nil.
func (n *ForStatement) Test() Node { return n.test }

// Update returns the update expression, or nil.
func (n *ForStatement) Update() Node { return n.update }

// Body returns the loop body.
func (n *ForStatement) Body() Node { return n.body }

// forEach is the shared grammar of for-in and for-of.
type forEach struct {
	nodeBase
	await bool
	left  Node
	right Node
	body  Node
}

func (n *forEach) grammar(c *Cursor) {
	c.keyword("for")
	n.await = c.ExpectOptionalToken(token.Keyword, "await") != nil
	c.punct("(")
	n.left = c.ExpectOneOfNode(concat([]string{TypeVariableDeclaration}, patternTypes)...)
	if n.typ == TypeForOfStatement {
		c.ExpectToken(token.Identifier, "of")
	} else {
		c.keyword("in")
	}
	n.right = c.expectExpression()
	c.punct(")")
	n.body = c.expectStatement()
}

// Left returns the loop binding: a VariableDeclaration or a pattern.
func (n *forEach) Left() Node { return n.left }

// Right returns the iterated expression.
func (n *forEach) Right() Node { return n.right }

// Body returns the loop body.
func (n *forEach) Body() Node { return n.body }

// Await reports `for await`.
func (n *forEach) Await() bool { return n.await }

// ForInStatement is `for (left in right) body`.
type ForInStatement struct {
	forEach
}

// ForOfStatement is `for [await] (left of right) body`.
type ForOfStatement struct {
	forEach
}
