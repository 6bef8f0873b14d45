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
	"strconv"
	"strings"

	"github.com/AleutianAI/jscst/services/cst/token"
)

// literal is a node made of exactly one code token.
type literal struct {
	nodeBase
	tok *Token
}

// Raw returns the literal's source text.
func (n *literal) Raw() string { return n.tok.value() }

// NumericLiteral is a number or bigint literal.
type NumericLiteral struct {
	literal
}

func (n *NumericLiteral) grammar(c *Cursor) {
	n.tok = c.ExpectToken(token.Numeric)
}

// BigInt reports a literal with the `n` suffix.
func (n *NumericLiteral) BigInt() bool {
	return strings.HasSuffix(n.Raw(), "n")
}

// LegacyOctal reports a literal with a leading zero followed by a digit,
// such as 017 or 08.
func (n *NumericLiteral) LegacyOctal() bool {
	s := n.Raw()
	return len(s) > 1 && s[0] == '0' && s[1] >= '0' && s[1] <= '9'
}

// Value returns the numeric value. Numeric separators are ignored and
// bigint literals are converted to the nearest float64.
func (n *NumericLiteral) Value() (float64, error) {
	s := strings.ReplaceAll(n.Raw(), "_", "")
	s = strings.TrimSuffix(s, "n")
	if n.LegacyOctal() {
		// 017 == 15.
		if v, err := strconv.ParseInt(s[1:], 8, 64); err == nil {
			return float64(v), nil
		}
	}
	if v, err := strconv.ParseInt(s, 0, 64); err == nil {
		return float64(v), nil
	}
	return strconv.ParseFloat(s, 64)
}

// StringLiteral is a single or double quoted string.
type StringLiteral struct {
	literal
}

func (n *StringLiteral) grammar(c *Cursor) {
	n.tok = c.ExpectToken(token.String)
}

// Value returns the text between the quotes with escapes left as written.
func (n *StringLiteral) Value() string {
	raw := n.Raw()
	if len(raw) < 2 {
		return raw
	}
	return raw[1 : len(raw)-1]
}

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	literal
}

func (n *BooleanLiteral) grammar(c *Cursor) {
	n.tok = c.ExpectToken(token.Boolean)
}

// Value returns the literal's truth value.
func (n *BooleanLiteral) Value() bool { return n.Raw() == "true" }

// NullLiteral is `null`.
type NullLiteral struct {
	literal
}

func (n *NullLiteral) grammar(c *Cursor) {
	n.tok = c.ExpectToken(token.Null)
}

// RegExpLiteral is `/pattern/flags`.
type RegExpLiteral struct {
	literal
}

func (n *RegExpLiteral) grammar(c *Cursor) {
	n.tok = c.ExpectToken(token.RegularExpression)
}

// Pattern returns the text between the slashes.
func (n *RegExpLiteral) Pattern() string {
	raw := n.Raw()
	i := strings.LastIndexByte(raw, '/')
	if i <= 0 {
		return ""
	}
	return raw[1:i]
}

// Flags returns the characters after the closing slash.
func (n *RegExpLiteral) Flags() string {
	raw := n.Raw()
	i := strings.LastIndexByte(raw, '/')
	if i < 0 {
		return ""
	}
	return raw[i+1:]
}
