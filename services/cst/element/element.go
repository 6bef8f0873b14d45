// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package element builds a lossless concrete syntax tree from a raw syntax
// tree and its normalized token sequence.
//
// Description:
//
//	Every token, whitespace and comments included, is owned by exactly one
//	node. Each node variant declares a grammar: the ordered sequence of
//	tokens and sub-nodes it consumes. Grammars read their input through a
//	Cursor, which interleaves the node's tokens with the raw children the
//	grammar parser reported, and fails on anything unexpected.
//
//	The result is an immutable tree rooted at *Program. Concatenating the
//	values of all tokens in tree order reproduces the source text exactly.
//
// Thread Safety:
//
//	Build is safe for concurrent use on independent inputs. A built tree is
//	immutable and may be read from any number of goroutines.
package element

import (
	"github.com/AleutianAI/jscst/services/cst/token"
)

// Element is a member of the tree: a *Token or a Node.
type Element interface {
	// Range returns the half-open byte range of the element.
	Range() token.Range

	// Parent returns the owning node. Nil only for the Program.
	Parent() Node

	isElement()
}

// Node is a syntactic construct of the tree.
//
// The set of variants is closed; every implementation lives in this package.
// Use a type switch on the concrete pointer types to access typed fields.
type Node interface {
	Element

	// Type returns the ESTree construct name, for example "IfStatement".
	Type() string

	// Children returns the node's tokens and sub-nodes in source order.
	Children() []Element

	base() *nodeBase
}

// variant is a Node with a grammar.
type variant interface {
	Node
	grammar(c *Cursor)
}

// nodeBase carries the state shared by all node variants.
type nodeBase struct {
	typ      string
	rng      token.Range
	parent   Node
	children []Element
}

func (n *nodeBase) Type() string        { return n.typ }
func (n *nodeBase) Range() token.Range  { return n.rng }
func (n *nodeBase) Parent() Node        { return n.parent }
func (n *nodeBase) Children() []Element { return n.children }
func (n *nodeBase) base() *nodeBase     { return n }
func (n *nodeBase) isElement()          {}

// Token is a token attached to the tree.
type Token struct {
	tok    token.Token
	parent Node
}

// Kind returns the token kind.
func (t *Token) Kind() token.Kind { return t.tok.Kind }

// Value returns the token's source text.
func (t *Token) Value() string { return t.tok.Value }

// IsCode reports whether the token carries program syntax.
func (t *Token) IsCode() bool { return t.tok.IsCode }

// Range returns the byte range of the token.
func (t *Token) Range() token.Range { return t.tok.Range }

// Parent returns the node owning the token.
func (t *Token) Parent() Node { return t.parent }

// Token returns the underlying normalized token.
func (t *Token) Token() token.Token { return t.tok }

// String implements fmt.Stringer.
func (t *Token) String() string { return t.tok.String() }

func (t *Token) isElement() {}

// value returns the token's text, or "" for a nil token.
func (t *Token) value() string {
	if t == nil {
		return ""
	}
	return t.tok.Value
}
