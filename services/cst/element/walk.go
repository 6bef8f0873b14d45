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

import "strings"

// Walk calls fn for n and every descendant node in pre-order. Returning
// false from fn skips the node's children. Tokens are not visited.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children() {
		if child, ok := c.(Node); ok {
			Walk(child, fn)
		}
	}
}

// Inspect calls fn for e and every descendant element, tokens included, in
// source order. Returning false from fn skips the element's children.
func Inspect(e Element, fn func(Element) bool) {
	if e == nil || !fn(e) {
		return
	}
	n, ok := e.(Node)
	if !ok {
		return
	}
	for _, c := range n.Children() {
		Inspect(c, fn)
	}
}

// Tokens returns every token under n in source order.
func Tokens(n Node) []*Token {
	var out []*Token
	Inspect(n, func(e Element) bool {
		if t, ok := e.(*Token); ok {
			out = append(out, t)
		}
		return true
	})
	return out
}

// SourceCode returns the source text of n, rebuilt from its tokens.
func SourceCode(n Node) string {
	var b strings.Builder
	for _, t := range Tokens(n) {
		b.WriteString(t.Value())
	}
	return b.String()
}

// FirstToken returns the first code token under n, or nil.
func FirstToken(n Node) *Token {
	for _, t := range Tokens(n) {
		if t.IsCode() {
			return t
		}
	}
	return nil
}

// LastToken returns the last code token under n, or nil.
func LastToken(n Node) *Token {
	tokens := Tokens(n)
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].IsCode() {
			return tokens[i]
		}
	}
	return nil
}

// Ancestors returns the chain of parents of e, innermost first.
func Ancestors(e Element) []Node {
	var out []Node
	for p := e.Parent(); p != nil; p = p.Parent() {
		out = append(out, p)
	}
	return out
}
