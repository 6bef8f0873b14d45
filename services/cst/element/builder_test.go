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
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/jscst/services/cst/raw"
	"github.com/AleutianAI/jscst/services/cst/token"
)

// ===== helpers =====

func rtok(kind token.Kind, src string, start, end int) raw.Token {
	return raw.Token{Kind: string(kind), Value: src[start:end], Start: start, End: end}
}

func node(typ string, start, end int, children ...*raw.Node) *raw.Node {
	return &raw.Node{Type: typ, Start: start, End: end, Children: children}
}

func buildRaw(t *testing.T, src string, root *raw.Node, rawTokens []raw.Token) (*Program, error) {
	t.Helper()
	tokens, err := token.Normalize(rawTokens, []byte(src))
	require.NoError(t, err)
	file := &raw.File{Source: []byte(src), Program: root, Tokens: rawTokens}
	return Build(context.Background(), file, tokens)
}

// varFile is `var a = 1;` with its raw tree.
func varFile() (string, *raw.Node, []raw.Token) {
	src := "var a = 1;"
	tokens := []raw.Token{
		rtok(token.Keyword, src, 0, 3),
		rtok(token.Identifier, src, 4, 5),
		rtok(token.Punctuator, src, 6, 7),
		rtok(token.Numeric, src, 8, 9),
		rtok(token.Punctuator, src, 9, 10),
	}
	root := node(TypeProgram, 0, 10,
		node(TypeVariableDeclaration, 0, 10,
			node(TypeVariableDeclarator, 4, 9,
				node(TypeIdentifier, 4, 5),
				node(TypeNumericLiteral, 8, 9),
			),
		),
	)
	return src, root, tokens
}

// ===== tests =====

func TestBuild_VariableDeclaration(t *testing.T) {
	src, root, tokens := varFile()
	prog, err := buildRaw(t, src, root, tokens)
	require.NoError(t, err)

	assert.Equal(t, TypeProgram, prog.Type())
	assert.Nil(t, prog.Parent())
	assert.Equal(t, src, prog.Source())
	assert.NotEqual(t, [16]byte{}, [16]byte(prog.ID()))
	require.NotNil(t, prog.PluginCache())

	require.Len(t, prog.Body(), 1)
	decl, ok := prog.Body()[0].(*VariableDeclaration)
	require.True(t, ok)
	assert.Equal(t, "var", decl.Kind())
	assert.Equal(t, Node(prog), decl.Parent())

	require.Len(t, decl.Declarations(), 1)
	d := decl.Declarations()[0]
	id, ok := d.ID().(*Identifier)
	require.True(t, ok)
	assert.Equal(t, "a", id.Name())
	assert.Equal(t, token.Range{Start: 4, End: 5}, id.Range())

	lit, ok := d.Init().(*NumericLiteral)
	require.True(t, ok)
	v, err := lit.Value()
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
}

func TestBuild_EveryTokenOwnedOnce(t *testing.T) {
	src, root, tokens := varFile()
	prog, err := buildRaw(t, src, root, tokens)
	require.NoError(t, err)

	// var, ws, a, ws, =, ws, 1, ;
	require.Len(t, prog.Tokens(), 8)
	seen := map[*Token]bool{}
	for _, tok := range prog.Tokens() {
		require.NotNil(t, tok)
		require.NotNil(t, tok.Parent())
		assert.False(t, seen[tok])
		seen[tok] = true
	}
	assert.Equal(t, prog.Tokens(), Tokens(prog))
	assert.Equal(t, src, SourceCode(prog))
}

func TestBuild_TokenParents(t *testing.T) {
	src, root, tokens := varFile()
	prog, err := buildRaw(t, src, root, tokens)
	require.NoError(t, err)

	byValue := map[string]*Token{}
	for _, tok := range prog.Tokens() {
		if tok.IsCode() {
			byValue[tok.Value()] = tok
		}
	}
	assert.Equal(t, TypeVariableDeclaration, byValue["var"].Parent().Type())
	assert.Equal(t, TypeIdentifier, byValue["a"].Parent().Type())
	assert.Equal(t, TypeVariableDeclarator, byValue["="].Parent().Type())
	assert.Equal(t, TypeNumericLiteral, byValue["1"].Parent().Type())
	assert.Equal(t, TypeVariableDeclaration, byValue[";"].Parent().Type())

	// Whitespace between the keyword and the declarator belongs to the
	// declaration; whitespace inside the declarator to the declarator.
	ws := prog.ElementAt(3)
	require.NotNil(t, ws)
	assert.Equal(t, token.Whitespace, ws.Kind())
	assert.Equal(t, TypeVariableDeclaration, ws.Parent().Type())
	assert.Equal(t, TypeVariableDeclarator, prog.ElementAt(5).Parent().Type())
	assert.Nil(t, prog.ElementAt(10))
}

func TestBuild_Children(t *testing.T) {
	src, root, tokens := varFile()
	prog, err := buildRaw(t, src, root, tokens)
	require.NoError(t, err)

	decl := prog.Body()[0]
	var kinds []string
	for _, c := range decl.Children() {
		switch v := c.(type) {
		case *Token:
			kinds = append(kinds, string(v.Kind()))
		case Node:
			kinds = append(kinds, v.Type())
		}
	}
	assert.Equal(t, []string{"Keyword", "Whitespace", TypeVariableDeclarator, "Punctuator"}, kinds)

	assert.Equal(t, "var", FirstToken(decl).Value())
	assert.Equal(t, ";", LastToken(decl).Value())
	assert.Equal(t, "a = 1", SourceCode(as[*VariableDeclaration](decl).Declarations()[0]))

	var visited []string
	Walk(prog, func(n Node) bool {
		visited = append(visited, n.Type())
		return true
	})
	assert.Equal(t, []string{
		TypeProgram, TypeVariableDeclaration, TypeVariableDeclarator,
		TypeIdentifier, TypeNumericLiteral,
	}, visited)

	id := as[*VariableDeclaration](decl).Declarations()[0].ID()
	var chain []string
	for _, a := range Ancestors(id) {
		chain = append(chain, a.Type())
	}
	assert.Equal(t, []string{TypeVariableDeclarator, TypeVariableDeclaration, TypeProgram}, chain)
}

func TestBuild_CommentsAreKept(t *testing.T) {
	src := "/* c */ x; // t"
	tokens := []raw.Token{
		rtok(token.CommentBlock, src, 0, 7),
		rtok(token.Identifier, src, 8, 9),
		rtok(token.Punctuator, src, 9, 10),
		rtok(token.CommentLine, src, 11, 15),
	}
	root := node(TypeProgram, 0, 15,
		node(TypeExpressionStatement, 8, 10, node(TypeIdentifier, 8, 9)),
	)
	prog, err := buildRaw(t, src, root, tokens)
	require.NoError(t, err)

	assert.Equal(t, src, SourceCode(prog))
	assert.Equal(t, TypeProgram, prog.ElementAt(0).Parent().Type())
	assert.Equal(t, token.CommentLine, prog.ElementAt(12).Kind())
	assert.Equal(t, TypeProgram, prog.ElementAt(12).Parent().Type())
}

func TestBuild_EmptySource(t *testing.T) {
	prog, err := buildRaw(t, "", node(TypeProgram, 0, 0), nil)
	require.NoError(t, err)
	assert.Empty(t, prog.Body())
	assert.Empty(t, prog.Tokens())
	assert.Nil(t, prog.ElementAt(0))
}

func TestBuild_DistinctProgramIDs(t *testing.T) {
	src, root, tokens := varFile()
	a, err := buildRaw(t, src, root, tokens)
	require.NoError(t, err)
	b, err := buildRaw(t, src, root, tokens)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())
	assert.NotSame(t, a.PluginCache(), b.PluginCache())
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		root     *raw.Node
		tokens   []raw.Token
		wantErr  error
		wantType string
	}{
		{
			name:     "root is not a program",
			src:      "x;",
			root:     node(TypeExpressionStatement, 0, 2, node(TypeIdentifier, 0, 1)),
			tokens:   []raw.Token{rtok(token.Identifier, "x;", 0, 1), rtok(token.Punctuator, "x;", 1, 2)},
			wantErr:  ErrUnexpectedNode,
			wantType: TypeExpressionStatement,
		},
		{
			name:     "root does not span source",
			src:      "x;",
			root:     node(TypeProgram, 0, 1),
			tokens:   []raw.Token{rtok(token.Identifier, "x;", 0, 1), rtok(token.Punctuator, "x;", 1, 2)},
			wantErr:  ErrMisalignedNode,
			wantType: TypeProgram,
		},
		{
			name: "node cuts through a token",
			src:  "ab;",
			root: node(TypeProgram, 0, 3,
				node(TypeExpressionStatement, 0, 3, node(TypeIdentifier, 0, 1)),
			),
			tokens:   []raw.Token{rtok(token.Identifier, "ab;", 0, 2), rtok(token.Punctuator, "ab;", 2, 3)},
			wantErr:  ErrMisalignedNode,
			wantType: TypeExpressionStatement,
		},
		{
			name:     "unknown node type",
			src:      "x;",
			root:     node(TypeProgram, 0, 2, node("Bogus", 0, 2)),
			tokens:   []raw.Token{rtok(token.Identifier, "x;", 0, 1), rtok(token.Punctuator, "x;", 1, 2)},
			wantErr:  ErrUnknownNodeType,
			wantType: "Bogus",
		},
		{
			name:     "unexpected token",
			src:      "x;",
			root:     node(TypeProgram, 0, 2, node(TypeDebuggerStatement, 0, 2)),
			tokens:   []raw.Token{rtok(token.Identifier, "x;", 0, 1), rtok(token.Punctuator, "x;", 1, 2)},
			wantErr:  ErrUnexpectedToken,
			wantType: TypeDebuggerStatement,
		},
		{
			name:     "unconsumed tokens",
			src:      ";;",
			root:     node(TypeProgram, 0, 2, node(TypeEmptyStatement, 0, 2)),
			tokens:   []raw.Token{rtok(token.Punctuator, ";;", 0, 1), rtok(token.Punctuator, ";;", 1, 2)},
			wantErr:  ErrUnconsumedTokens,
			wantType: TypeEmptyStatement,
		},
		{
			name: "missing sub-node",
			src:  "var a = 1;",
			root: node(TypeProgram, 0, 10,
				node(TypeVariableDeclaration, 0, 10,
					node(TypeVariableDeclarator, 4, 9, node(TypeIdentifier, 4, 5)),
				),
			),
			tokens: func() []raw.Token {
				_, _, tokens := varFile()
				return tokens
			}(),
			wantErr:  ErrUnexpectedNode,
			wantType: TypeVariableDeclarator,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := buildRaw(t, tt.src, tt.root, tt.tokens)
			require.Error(t, err)
			assert.Nil(t, prog)
			assert.True(t, errors.Is(err, ErrTreeConstruction), "got %v", err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)

			var tErr *TreeConstructionError
			require.True(t, errors.As(err, &tErr))
			assert.Equal(t, tt.wantType, tErr.Type)
		})
	}
}

func TestBuild_GrammarErrorDetails(t *testing.T) {
	src := "x;"
	tokens := []raw.Token{rtok(token.Identifier, src, 0, 1), rtok(token.Punctuator, src, 1, 2)}
	_, err := buildRaw(t, src, node(TypeProgram, 0, 2, node(TypeDebuggerStatement, 0, 2)), tokens)
	require.Error(t, err)

	var gErr *GrammarError
	require.True(t, errors.As(err, &gErr))
	assert.Equal(t, TypeDebuggerStatement, gErr.NodeType)
	assert.Equal(t, token.Range{Start: 0, End: 1}, gErr.Range)
	assert.Contains(t, gErr.Error(), "debugger")
}

func TestBuild_NilFile(t *testing.T) {
	_, err := Build(context.Background(), nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTreeConstruction))
}

func TestBuild_TokensDoNotCoverSource(t *testing.T) {
	src := "x;"
	file := &raw.File{Source: []byte(src), Program: node(TypeProgram, 0, 2)}
	tokens := []token.Token{{Kind: token.Identifier, Value: "x", Range: token.Range{Start: 0, End: 1}, IsCode: true}}

	_, err := Build(context.Background(), file, tokens)
	require.Error(t, err)
	assert.True(t, errors.Is(err, token.ErrMalformedTokenStream))
}

func TestBuild_CanceledContext(t *testing.T) {
	src, root, rawTokens := varFile()
	tokens, err := token.Normalize(rawTokens, []byte(src))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Build(ctx, &raw.File{Source: []byte(src), Program: root, Tokens: rawTokens}, tokens)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNumericLiteral_Value(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"42", 42},
		{"0x1F", 31},
		{"0o17", 15},
		{"0b101", 5},
		{"017", 15},
		{"1_000", 1000},
		{"1.5e3", 1500},
		{".5", 0.5},
		{"10n", 10},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			lit := &NumericLiteral{}
			lit.tok = &Token{tok: token.Token{Kind: token.Numeric, Value: tt.raw}}
			got, err := lit.Value()
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
