// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package token

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/AleutianAI/jscst/services/cst/raw"
)

// byteOrderMark is treated as whitespace, as in ECMAScript.
const byteOrderMark = '\uFEFF'

// Normalize reconciles raw tokens with the source text.
//
// Description:
//
//	Validates the raw token array against src and returns the ordered token
//	sequence covering [0, len(src)). Every stretch of source not covered by
//	a raw token becomes one Whitespace token.
//
// Inputs:
//
//	rawTokens - Tokens from the grammar parser, in position order.
//	src       - The source text the tokens were produced from.
//
// Outputs:
//
//	[]Token - Gap-free sequence. Concatenating Values reproduces src.
//	error   - *MalformedTokenStreamError (matching ErrMalformedTokenStream)
//	          when the raw array is unordered, overlapping, has empty or
//	          out-of-bounds tokens, values that differ from the source, or a
//	          gap that is not pure whitespace.
func Normalize(rawTokens []raw.Token, src []byte) ([]Token, error) {
	out := make([]Token, 0, len(rawTokens)*2+1)
	pos := 0

	for i, rt := range rawTokens {
		r := Range{Start: rt.Start, End: rt.End}
		kind := Kind(rt.Kind)

		switch {
		case !kind.Valid():
			return nil, &MalformedTokenStreamError{Index: i, Range: r, Reason: "unknown token kind " + rt.Kind}
		case rt.Start < 0 || rt.End > len(src):
			return nil, &MalformedTokenStreamError{Index: i, Range: r, Reason: "token outside source"}
		case rt.End <= rt.Start:
			return nil, &MalformedTokenStreamError{Index: i, Range: r, Reason: "empty token"}
		case i > 0 && rt.Start < rawTokens[i-1].Start:
			return nil, &MalformedTokenStreamError{Index: i, Range: r, Reason: "token out of order"}
		case rt.Start < pos:
			return nil, &MalformedTokenStreamError{Index: i, Range: r, Reason: "token overlaps previous token"}
		}

		if rt.Start > pos {
			gap, err := whitespaceToken(src, pos, rt.Start, i)
			if err != nil {
				return nil, err
			}
			out = append(out, gap)
		}

		text := string(src[rt.Start:rt.End])
		if rt.Value != "" && rt.Value != text {
			return nil, &MalformedTokenStreamError{Index: i, Range: r, Reason: "token value does not match source"}
		}
		out = append(out, Token{Kind: kind, Value: text, Range: r, IsCode: kind.IsCode()})
		pos = rt.End
	}

	if pos < len(src) {
		gap, err := whitespaceToken(src, pos, len(src), -1)
		if err != nil {
			return nil, err
		}
		out = append(out, gap)
	}
	return out, nil
}

// whitespaceToken synthesizes the non-code token for src[start:end].
func whitespaceToken(src []byte, start, end, index int) (Token, error) {
	text := string(src[start:end])
	if !isWhitespace(text) {
		return Token{}, &MalformedTokenStreamError{
			Index:  index,
			Range:  Range{Start: start, End: end},
			Reason: "source text not covered by any token",
		}
	}
	return Token{
		Kind:   Whitespace,
		Value:  text,
		Range:  Range{Start: start, End: end},
		IsCode: false,
	}, nil
}

func isWhitespace(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if r != byteOrderMark && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// Source concatenates token values. For a normalized sequence this is the
// original source text.
func Source(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Value)
	}
	return b.String()
}
