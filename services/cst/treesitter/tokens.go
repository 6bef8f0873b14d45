// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package treesitter

import (
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/AleutianAI/jscst/services/cst/raw"
	"github.com/AleutianAI/jscst/services/cst/token"
)

// reservedWords are anonymous grammar tokens reported as Keyword.
var reservedWords = map[string]bool{
	"await": true, "break": true, "case": true, "catch": true, "class": true,
	"const": true, "continue": true, "debugger": true, "default": true,
	"delete": true, "do": true, "else": true, "export": true, "extends": true,
	"finally": true, "for": true, "function": true, "if": true, "import": true,
	"in": true, "instanceof": true, "let": true, "new": true, "return": true,
	"static": true, "super": true, "switch": true, "this": true, "throw": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true,
	"with": true, "yield": true,
}

// extractTokens collects the lexical tokens of the tree in source order.
//
// Leaves become tokens. Strings and regular expressions are single tokens
// even though the grammar splits them into fragments. Template literals
// become Template tokens that include their delimiters ("`a${", "}b`"),
// with the substituted expressions tokenized in between. Zero-width leaves
// (automatic semicolons) are dropped.
func extractTokens(root *sitter.Node, src []byte) []raw.Token {
	var out []raw.Token
	emit := func(kind token.Kind, start, end uint32) {
		if end <= start {
			return
		}
		out = append(out, raw.Token{
			Kind:  string(kind),
			Value: string(src[start:end]),
			Start: int(start),
			End:   int(end),
		})
	}

	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if n.IsNamed() {
			switch n.Type() {
			case "string":
				emit(token.String, n.StartByte(), n.EndByte())
				return
			case "regex":
				emit(token.RegularExpression, n.StartByte(), n.EndByte())
				return
			case "template_string":
				visitTemplate(n, emit, visit)
				return
			}
		}
		if n.ChildCount() == 0 {
			emit(leafKind(n, src), n.StartByte(), n.EndByte())
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			visit(n.Child(i))
		}
	}
	visit(root)
	return out
}

func visitTemplate(n *sitter.Node, emit func(token.Kind, uint32, uint32), visit func(*sitter.Node)) {
	pos := n.StartByte()
	for i := 0; i < int(n.ChildCount()); i++ {
		sub := n.Child(i)
		if sub.Type() != "template_substitution" {
			continue
		}
		// The chunk runs through "${".
		emit(token.Template, pos, sub.StartByte()+2)
		for j := 0; j < int(sub.ChildCount()); j++ {
			c := sub.Child(j)
			if !c.IsNamed() && (c.Type() == "${" || c.Type() == "}") {
				continue
			}
			visit(c)
		}
		// The next chunk starts at the closing "}".
		pos = sub.EndByte() - 1
	}
	emit(token.Template, pos, n.EndByte())
}

// leafKind classifies a leaf node.
func leafKind(n *sitter.Node, src []byte) token.Kind {
	if !n.IsNamed() {
		return anonymousKind(n.Type())
	}
	switch n.Type() {
	case "comment", "html_comment":
		text := string(src[n.StartByte():n.EndByte()])
		if strings.HasPrefix(text, "/*") {
			return token.CommentBlock
		}
		return token.CommentLine
	case "hash_bang_line":
		return token.Hashbang
	case "number":
		return token.Numeric
	case "true", "false":
		return token.Boolean
	case "null":
		return token.Null
	case "this", "super", "import":
		return token.Keyword
	case "optional_chain", "empty_statement", "existential_type":
		return token.Punctuator
	case "jsx_text", "html_character_reference":
		return token.JSXText
	}
	return token.Identifier
}

// anonymousKind classifies an anonymous grammar token by its text.
func anonymousKind(text string) token.Kind {
	switch text {
	case "true", "false":
		return token.Boolean
	case "null":
		return token.Null
	}
	if reservedWords[text] {
		return token.Keyword
	}
	if isWord(text) {
		return token.Identifier
	}
	return token.Punctuator
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '_' && r != '$' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
