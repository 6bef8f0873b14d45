// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package raw defines the raw syntax tree and token array handed from an
// external grammar parser to the CST builder.
//
// A raw tree is lossy: it names each syntactic construct and its byte range,
// but keeps no punctuation, keywords, whitespace or comments. Those live in
// the raw token array. The CST builder reconciles the two.
//
// Node types use ESTree/Babel naming ("VariableDeclaration", "JSXElement").
package raw

import "fmt"

// Node is one construct of the raw syntax tree.
type Node struct {
	// Type is the ESTree construct name.
	Type string

	// Start and End are byte offsets, End exclusive.
	Start int
	End   int

	// Children are the immediate sub-constructs in source order.
	Children []*Node
}

// NewNode creates a node spanning its children.
//
// Used by parser bindings that synthesize wrapper constructs the grammar
// parser does not produce itself. Returns nil when children is empty.
func NewNode(typ string, children ...*Node) *Node {
	if len(children) == 0 {
		return nil
	}
	return &Node{
		Type:     typ,
		Start:    children[0].Start,
		End:      children[len(children)-1].End,
		Children: children,
	}
}

// Len returns the byte length of the node.
func (n *Node) Len() int {
	return n.End - n.Start
}

// String implements fmt.Stringer.
func (n *Node) String() string {
	return fmt.Sprintf("%s[%d,%d)", n.Type, n.Start, n.End)
}

// Token is one lexical token reported by the grammar parser.
//
// Kind uses the token kind names of the token package ("Punctuator",
// "Keyword", "CommentLine", ...). Value is the token's source text.
type Token struct {
	Kind  string
	Value string
	Start int
	End   int
}

// String implements fmt.Stringer.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)[%d,%d)", t.Kind, t.Value, t.Start, t.End)
}

// File is the complete output of one grammar parser run.
type File struct {
	// Source is the parsed text.
	Source []byte

	// Program is the root construct. Its type must be "Program".
	Program *Node

	// Tokens are the lexical tokens in position order. Whitespace between
	// tokens is not reported.
	Tokens []Token
}

// Walk calls fn for n and every descendant in pre-order. Returning false
// from fn skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}
