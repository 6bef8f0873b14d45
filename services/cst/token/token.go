// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package token normalizes the raw token array of a grammar parser into a
// gap-free token sequence.
//
// Description:
//
//	The normalized sequence covers every byte of the source exactly once.
//	Code tokens come from the grammar parser; whitespace between them is
//	synthesized into explicit non-code tokens. Concatenating the Value of
//	every token in order reproduces the source byte-for-byte.
//
// Thread Safety:
//
//	All functions are pure. Token values are immutable once produced.
package token

import "fmt"

// Kind classifies a token.
type Kind string

// Code token kinds.
const (
	Punctuator        Kind = "Punctuator"
	Keyword           Kind = "Keyword"
	Identifier        Kind = "Identifier"
	Numeric           Kind = "Numeric"
	String            Kind = "String"
	Template          Kind = "Template"
	RegularExpression Kind = "RegularExpression"
	Boolean           Kind = "Boolean"
	Null              Kind = "Null"
	JSXText           Kind = "JSXText"
)

// Non-code token kinds.
const (
	Whitespace   Kind = "Whitespace"
	CommentLine  Kind = "CommentLine"
	CommentBlock Kind = "CommentBlock"
	Hashbang     Kind = "Hashbang"
)

var knownKinds = map[Kind]bool{
	Punctuator:        true,
	Keyword:           true,
	Identifier:        true,
	Numeric:           true,
	String:            true,
	Template:          true,
	RegularExpression: true,
	Boolean:           true,
	Null:              true,
	JSXText:           true,
	Whitespace:        true,
	CommentLine:       true,
	CommentBlock:      true,
	Hashbang:          true,
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return knownKinds[k]
}

// IsCode reports whether tokens of this kind carry program syntax.
// Whitespace, comments and the hashbang line do not.
func (k Kind) IsCode() bool {
	switch k {
	case Whitespace, CommentLine, CommentBlock, Hashbang:
		return false
	}
	return true
}

// IsComment reports whether the kind is a comment.
func (k Kind) IsComment() bool {
	return k == CommentLine || k == CommentBlock
}

// Range is a half-open byte range [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of bytes in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Contains reports whether other lies within r.
func (r Range) Contains(other Range) bool {
	return other.Start >= r.Start && other.End <= r.End
}

// String implements fmt.Stringer.
func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Token is one normalized token.
type Token struct {
	Kind   Kind
	Value  string
	Range  Range
	IsCode bool
}

// String implements fmt.Stringer.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)%s", t.Kind, t.Value, t.Range)
}

// Is reports whether the token has the given kind and, when value is
// non-empty, the given literal value.
func (t Token) Is(kind Kind, value string) bool {
	if t.Kind != kind {
		return false
	}
	return value == "" || t.Value == value
}
