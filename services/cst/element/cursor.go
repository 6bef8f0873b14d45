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
	"fmt"
	"strings"

	"github.com/AleutianAI/jscst/services/cst/raw"
	"github.com/AleutianAI/jscst/services/cst/token"
)

// Cursor walks the input of one node: its tokens interleaved by position
// with the raw children reported by the grammar parser.
//
// Description:
//
//	Every Expect method first consumes the non-code tokens in front of it,
//	attaching them to the node, then consumes and attaches the expected
//	item. The first failure is kept; after it every Expect method returns
//	nil and every Is method returns false, so a grammar reads as a straight
//	sequence and the first failure is the one reported.
//
// Thread Safety:
//
//	Not safe for concurrent use. A Cursor lives for one grammar run.
type Cursor struct {
	b      *builder
	node   variant
	tokens []token.Token
	// first is the index of tokens[0] in the builder's token sequence.
	first int
	raws  []*raw.Node

	ti  int
	ri  int
	err error

	// childErr is set when err came from building a child; it is passed
	// up unchanged.
	childErr bool
}

// item is the next piece of input: a token or a raw child.
type item struct {
	tok *token.Token
	ti  int
	raw *raw.Node
}

func (it item) describe() string {
	switch {
	case it.raw != nil:
		return "node " + it.raw.Type
	case it.tok != nil:
		return fmt.Sprintf("%s %q", it.tok.Kind, it.tok.Value)
	}
	return "end of node"
}

// peek returns the next item, skipping non-code tokens when code is set.
func (c *Cursor) peek(code bool) (item, bool) {
	ti := c.ti
	for {
		if c.ri < len(c.raws) && (ti >= len(c.tokens) || c.raws[c.ri].Start <= c.tokens[ti].Range.Start) {
			return item{raw: c.raws[c.ri], ti: ti}, true
		}
		if ti >= len(c.tokens) {
			return item{ti: ti}, false
		}
		if !code || c.tokens[ti].IsCode {
			return item{tok: &c.tokens[ti], ti: ti}, true
		}
		ti++
	}
}

// Err returns the first failure, if any.
func (c *Cursor) Err() error {
	return c.err
}

func (c *Cursor) ok() bool {
	return c.err == nil
}

func (c *Cursor) fail(kind error, expected string, found item) {
	if c.err != nil {
		return
	}
	rng := token.Range{Start: c.node.Range().End, End: c.node.Range().End}
	switch {
	case found.raw != nil:
		rng = token.Range{Start: found.raw.Start, End: found.raw.End}
	case found.tok != nil:
		rng = found.tok.Range
	}
	c.err = &GrammarError{
		Kind:     kind,
		NodeType: c.node.Type(),
		Expected: expected,
		Found:    found.describe(),
		Range:    rng,
	}
}

func (c *Cursor) attachToken(ti int) *Token {
	t := &Token{tok: c.tokens[ti], parent: c.node}
	c.node.base().children = append(c.node.base().children, t)
	c.b.own(c.first+ti, t)
	c.ti = ti + 1
	return t
}

// SkipNonCode consumes the whitespace and comment tokens at the cursor.
func (c *Cursor) SkipNonCode() {
	if c.err != nil {
		return
	}
	for {
		it, ok := c.peek(false)
		if !ok || it.tok == nil || it.tok.IsCode {
			return
		}
		c.attachToken(it.ti)
	}
}

func tokenMatches(t *token.Token, kind token.Kind, literals []string) bool {
	if t.Kind != kind {
		return false
	}
	if len(literals) == 0 {
		return true
	}
	for _, l := range literals {
		if t.Value == l {
			return true
		}
	}
	return false
}

func describeToken(kind token.Kind, literals []string) string {
	if len(literals) == 0 {
		return string(kind)
	}
	return fmt.Sprintf("%s %q", kind, strings.Join(literals, "|"))
}

// IsToken reports whether the next code item is a token of kind whose value
// is one of literals (any value when literals is empty).
func (c *Cursor) IsToken(kind token.Kind, literals ...string) bool {
	if c.err != nil {
		return false
	}
	it, ok := c.peek(true)
	return ok && it.tok != nil && tokenMatches(it.tok, kind, literals)
}

// IsNode reports whether the next code item is a raw child of the given
// type.
func (c *Cursor) IsNode(typ string) bool {
	return c.IsOneOfNode(typ)
}

// IsOneOfNode reports whether the next code item is a raw child of one of
// the given types.
func (c *Cursor) IsOneOfNode(types ...string) bool {
	if c.err != nil {
		return false
	}
	it, ok := c.peek(true)
	return ok && it.raw != nil && contains(types, it.raw.Type)
}

// IsEnd reports whether only non-code tokens remain. It is true after a
// failure.
func (c *Cursor) IsEnd() bool {
	if c.err != nil {
		return true
	}
	_, ok := c.peek(true)
	return !ok
}

// ExpectToken consumes a token of kind whose value is one of literals (any
// value when literals is empty).
func (c *Cursor) ExpectToken(kind token.Kind, literals ...string) *Token {
	if c.err != nil {
		return nil
	}
	c.SkipNonCode()
	it, _ := c.peek(true)
	if it.tok == nil || !tokenMatches(it.tok, kind, literals) {
		c.fail(ErrUnexpectedToken, describeToken(kind, literals), it)
		return nil
	}
	return c.attachToken(it.ti)
}

// ExpectOptionalToken consumes the token if present and returns nil
// otherwise.
func (c *Cursor) ExpectOptionalToken(kind token.Kind, literals ...string) *Token {
	if !c.IsToken(kind, literals...) {
		return nil
	}
	return c.ExpectToken(kind, literals...)
}

// ExpectNode builds and attaches the next raw child, which must have the
// given type.
func (c *Cursor) ExpectNode(typ string) Node {
	return c.ExpectOneOfNode(typ)
}

// ExpectOneOfNode builds and attaches the next raw child, which must have
// one of the given types.
func (c *Cursor) ExpectOneOfNode(types ...string) Node {
	if c.err != nil {
		return nil
	}
	c.SkipNonCode()
	it, _ := c.peek(true)
	// A child of an unknown type is built anyway so the failure names it.
	if it.raw == nil || (!contains(types, it.raw.Type) && newVariant(it.raw.Type) != nil) {
		c.fail(ErrUnexpectedNode, describeTypes(types), it)
		return nil
	}

	child, err := c.b.build(it.raw)
	if err != nil {
		c.err = err
		c.childErr = true
		return nil
	}

	child.base().parent = c.node
	c.node.base().children = append(c.node.base().children, child)
	c.ri++
	for c.ti < len(c.tokens) && c.tokens[c.ti].Range.Start < it.raw.End {
		c.ti++
	}
	return child
}

// ExpectOptionalNode builds the next raw child if it has one of the given
// types and returns nil otherwise.
func (c *Cursor) ExpectOptionalNode(types ...string) Node {
	if !c.IsOneOfNode(types...) {
		return nil
	}
	return c.ExpectOneOfNode(types...)
}

// AssertFullyConsumed consumes trailing non-code tokens and fails if any
// code token or raw child remains.
func (c *Cursor) AssertFullyConsumed() {
	if c.err != nil {
		return
	}
	c.SkipNonCode()
	if it, ok := c.peek(true); ok {
		c.fail(ErrUnconsumedTokens, "", it)
	}
}

func describeTypes(types []string) string {
	if len(types) > 4 {
		return fmt.Sprintf("one of %d node types (%s, ...)", len(types), strings.Join(types[:4], ", "))
	}
	return "node " + strings.Join(types, "|")
}

// ===== grammar helpers =====

func (c *Cursor) expectExpression() Node {
	return c.ExpectOneOfNode(expressionTypes...)
}

func (c *Cursor) isExpression() bool {
	return c.IsOneOfNode(expressionTypes...)
}

func (c *Cursor) expectStatement() Node {
	return c.ExpectOneOfNode(statementTypes...)
}

func (c *Cursor) punct(literal string) *Token {
	return c.ExpectToken(token.Punctuator, literal)
}

func (c *Cursor) optionalPunct(literal string) *Token {
	return c.ExpectOptionalToken(token.Punctuator, literal)
}

func (c *Cursor) isPunct(literals ...string) bool {
	return c.IsToken(token.Punctuator, literals...)
}

func (c *Cursor) keyword(literal string) *Token {
	return c.ExpectToken(token.Keyword, literal)
}

// semicolon consumes an optional statement terminator.
func (c *Cursor) semicolon() {
	c.optionalPunct(";")
}

// list consumes `open item (, item)* ,? closing` where items have one of
// types, and returns the items.
func (c *Cursor) list(open, closing string, types []string) []Node {
	c.punct(open)
	var items []Node
	for c.ok() && !c.isPunct(closing) {
		items = append(items, c.ExpectOneOfNode(types...))
		if !c.isPunct(closing) {
			c.punct(",")
		}
	}
	c.punct(closing)
	return items
}

// elements consumes an array literal or pattern body, where holes are
// reported as nil items.
func (c *Cursor) elements(types []string) []Node {
	c.punct("[")
	var items []Node
	for c.ok() && !c.isPunct("]") {
		if c.isPunct(",") {
			c.punct(",")
			items = append(items, nil)
			continue
		}
		items = append(items, c.ExpectOneOfNode(types...))
		if !c.isPunct("]") {
			c.punct(",")
		}
	}
	c.punct("]")
	return items
}
