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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/jscst/services/cst/raw"
)

func rt(kind Kind, src string, start, end int) raw.Token {
	return raw.Token{Kind: string(kind), Value: src[start:end], Start: start, End: end}
}

func TestNormalize_SynthesizesWhitespace(t *testing.T) {
	src := "var  a = 1; // x\n"
	raws := []raw.Token{
		rt(Keyword, src, 0, 3),
		rt(Identifier, src, 5, 6),
		rt(Punctuator, src, 7, 8),
		rt(Numeric, src, 9, 10),
		rt(Punctuator, src, 10, 11),
		rt(CommentLine, src, 12, 16),
	}

	tokens, err := Normalize(raws, []byte(src))
	require.NoError(t, err)

	kinds := make([]Kind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}
	assert.Equal(t, []Kind{
		Keyword, Whitespace, Identifier, Whitespace, Punctuator, Whitespace,
		Numeric, Punctuator, Whitespace, CommentLine, Whitespace,
	}, kinds)

	assert.Equal(t, "  ", tokens[1].Value)
	assert.False(t, tokens[1].IsCode)
	assert.False(t, tokens[9].IsCode)
	assert.True(t, tokens[0].IsCode)
	assert.Equal(t, src, Source(tokens))
}

func TestNormalize_CoversEveryByteOnce(t *testing.T) {
	src := "\tfoo(bar)\n\n"
	raws := []raw.Token{
		rt(Identifier, src, 1, 4),
		rt(Punctuator, src, 4, 5),
		rt(Identifier, src, 5, 8),
		rt(Punctuator, src, 8, 9),
	}
	tokens, err := Normalize(raws, []byte(src))
	require.NoError(t, err)

	pos := 0
	for _, tok := range tokens {
		assert.Equal(t, pos, tok.Range.Start)
		assert.Greater(t, tok.Range.End, tok.Range.Start)
		pos = tok.Range.End
	}
	assert.Equal(t, len(src), pos)
}

func TestNormalize_EmptySource(t *testing.T) {
	tokens, err := Normalize(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, tokens)

	tokens, err = Normalize(nil, []byte("  \n"))
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, Whitespace, tokens[0].Kind)
}

func TestNormalize_Malformed(t *testing.T) {
	src := "a + b"
	tests := []struct {
		name   string
		raws   []raw.Token
		reason string
	}{
		{
			name:   "overlap",
			raws:   []raw.Token{rt(Identifier, src, 0, 3), rt(Punctuator, src, 2, 3), rt(Identifier, src, 4, 5)},
			reason: "token overlaps previous token",
		},
		{
			name:   "out of order",
			raws:   []raw.Token{rt(Identifier, src, 4, 5), rt(Identifier, src, 0, 1)},
			reason: "token out of order",
		},
		{
			name:   "empty token",
			raws:   []raw.Token{{Kind: string(Identifier), Start: 1, End: 1}},
			reason: "empty token",
		},
		{
			name:   "out of bounds",
			raws:   []raw.Token{{Kind: string(Identifier), Start: 4, End: 9}},
			reason: "token outside source",
		},
		{
			name:   "unknown kind",
			raws:   []raw.Token{{Kind: "Bogus", Start: 0, End: 1}},
			reason: "unknown token kind Bogus",
		},
		{
			name:   "value mismatch",
			raws:   []raw.Token{{Kind: string(Identifier), Value: "z", Start: 0, End: 1}},
			reason: "token value does not match source",
		},
		{
			name:   "uncovered code",
			raws:   []raw.Token{rt(Identifier, src, 0, 1), rt(Identifier, src, 4, 5)},
			reason: "source text not covered by any token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Normalize(tt.raws, []byte(src))
			require.Error(t, err)
			assert.Nil(t, tokens)
			assert.True(t, errors.Is(err, ErrMalformedTokenStream))

			var mErr *MalformedTokenStreamError
			require.True(t, errors.As(err, &mErr))
			assert.Equal(t, tt.reason, mErr.Reason)
		})
	}
}

func TestNormalize_TrailingGapNotWhitespace(t *testing.T) {
	src := "a b"
	_, err := Normalize([]raw.Token{rt(Identifier, src, 0, 1)}, []byte(src))
	var mErr *MalformedTokenStreamError
	require.True(t, errors.As(err, &mErr))
	assert.Equal(t, -1, mErr.Index)
	assert.Equal(t, Range{Start: 1, End: 3}, mErr.Range)
}

func TestLineIndex(t *testing.T) {
	li := NewLineIndex([]byte("ab\ncd\n\nx"))
	assert.Equal(t, 4, li.Lines())
	assert.Equal(t, Position{Line: 1, Column: 0}, li.Position(0))
	assert.Equal(t, Position{Line: 1, Column: 2}, li.Position(2))
	assert.Equal(t, Position{Line: 2, Column: 0}, li.Position(3))
	assert.Equal(t, Position{Line: 3, Column: 0}, li.Position(6))
	assert.Equal(t, Position{Line: 4, Column: 0}, li.Position(7))
}
