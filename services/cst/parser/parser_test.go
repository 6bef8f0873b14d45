// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package parser

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/jscst/services/cst/element"
	"github.com/AleutianAI/jscst/services/cst/scope"
	"github.com/AleutianAI/jscst/services/cst/treesitter"
)

func TestNew_Defaults(t *testing.T) {
	p := New()
	assert.True(t, p.IsStrictModeEnabled())
	assert.Equal(t, Module, p.SourceType())

	p = New(WithStrictMode(false), WithSourceType(""))
	assert.False(t, p.IsStrictModeEnabled())
	assert.Equal(t, Module, p.SourceType())
}

func TestParser_StrictModeToggle(t *testing.T) {
	p := New()
	p.DisableStrictMode()
	assert.False(t, p.IsStrictModeEnabled())
	p.EnableStrictMode()
	assert.True(t, p.IsStrictModeEnabled())
}

func TestParseSourceType(t *testing.T) {
	for in, want := range map[string]SourceType{"": Module, "module": Module, "Script": Script} {
		got, err := ParseSourceType(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseSourceType("commonjs")
	assert.ErrorIs(t, err, ErrInvalidSourceType)
}

func TestParse_RoundTrip(t *testing.T) {
	src := "#!/usr/bin/env node\n" +
		"import fs from 'fs';\n\n" +
		"// read config\n" +
		"export async function load(path, { encoding = 'utf8' } = {}) {\n" +
		"\tconst text = await fs.promises.readFile(path, encoding);\n" +
		"\treturn JSON.parse(text) ?? {};\n" +
		"}\n"

	prog, err := New().Parse(context.Background(), []byte(src))
	require.NoError(t, err)

	assert.Equal(t, src, prog.Source())
	assert.Equal(t, src, element.SourceCode(prog))
	require.Len(t, prog.Body(), 2)
	assert.IsType(t, &element.ImportDeclaration{}, prog.Body()[0])
	assert.IsType(t, &element.ExportNamedDeclaration{}, prog.Body()[1])

	for i, tok := range prog.Tokens() {
		require.NotNil(t, tok, "token %d has no owner", i)
	}
}

func TestParse_StrictModeViolations(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		construct string
		nodeType  string
	}{
		{"with", "with (o) { x; }", "with statement", element.TypeWithStatement},
		{"legacy octal", "var n = 017;", "legacy octal literal 017", element.TypeNumericLiteral},
		{"leading zero decimal", "var n = 08;", "legacy octal literal 08", element.TypeNumericLiteral},
		{"delete identifier", "var x; delete x;", "delete of an unqualified identifier", element.TypeUnaryExpression},
		{"delete parenthesized", "var x; delete (x);", "delete of an unqualified identifier", element.TypeUnaryExpression},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Parse(context.Background(), []byte(tt.src))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrStrictMode)

			var v *ViolationError
			require.True(t, errors.As(err, &v))
			assert.Equal(t, tt.construct, v.Construct)
			assert.Equal(t, tt.nodeType, v.NodeType)

			prog, err := New(WithStrictMode(false)).Parse(context.Background(), []byte(tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.src, prog.Source())
		})
	}
}

func TestParse_StrictModeAllowed(t *testing.T) {
	for _, src := range []string{
		"delete o.x;",
		"delete o[k];",
		"var n = 0, m = 0.5, h = 0x1f, o = 0o17;",
		"var with_ = 1;",
	} {
		_, err := New().Parse(context.Background(), []byte(src))
		assert.NoError(t, err, src)
	}
}

func TestParse_UseStrictDirective(t *testing.T) {
	p := New(WithStrictMode(false))

	_, err := p.Parse(context.Background(), []byte("'use strict';\nwith (o) {}"))
	assert.ErrorIs(t, err, ErrStrictMode)

	_, err = p.Parse(context.Background(), []byte("f();\n'use strict';\nwith (o) {}"))
	assert.NoError(t, err)
}

func TestParse_ViolationPosition(t *testing.T) {
	src := "let a = 1;\n  with (a) {}\n"
	_, err := New().Parse(context.Background(), []byte(src))

	var v *ViolationError
	require.True(t, errors.As(err, &v))
	assert.Equal(t, 2, v.Position.Line)
	assert.Equal(t, 2, v.Position.Column)
	assert.Equal(t, "with (a) {}", src[v.Range.Start:v.Range.End])
	assert.Equal(t, "2:2: with statement: not allowed in strict mode", v.Error())
}

func TestParse_ScriptRejectsModuleSyntax(t *testing.T) {
	script := New(WithSourceType(Script))
	for _, src := range []string{
		"import a from 'a';",
		"export const b = 1;",
		"export default 1;",
		"export * from 'c';",
	} {
		_, err := script.Parse(context.Background(), []byte(src))
		assert.ErrorIs(t, err, ErrModuleSyntax, src)

		_, err = New().Parse(context.Background(), []byte(src))
		assert.NoError(t, err, src)
	}
}

func TestParse_StageErrors(t *testing.T) {
	ctx := context.Background()

	_, err := New().Parse(ctx, []byte("let = ;"))
	assert.ErrorIs(t, err, treesitter.ErrSyntax)

	_, err = New(WithMaxFileSize(4)).Parse(ctx, []byte("let a = 1;"))
	assert.ErrorIs(t, err, treesitter.ErrFileTooLarge)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = New().Parse(canceled, []byte("a;"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParse_ScopesOnParsedProgram(t *testing.T) {
	prog, err := New().Parse(context.Background(), []byte("let a = 1;\n{ let a = 2; a; }\na;"))
	require.NoError(t, err)

	res, err := scope.Acquire(context.Background(), prog)
	require.NoError(t, err)

	outer := res.Global.Variables[0]
	require.Len(t, res.Global.ChildScopes, 1)
	inner := res.Global.ChildScopes[0].Variables[0]
	assert.NotSame(t, outer, inner)
	assert.Len(t, outer.References, 2)
	assert.Len(t, inner.References, 2)
}

func TestParse_Concurrent(t *testing.T) {
	p := New()
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			prog, err := p.Parse(context.Background(), []byte("const f = (x) => x * 2;"))
			if err == nil && prog.Source() != "const f = (x) => x * 2;" {
				err = errors.New("source mismatch")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestParse_TypeAnnotations(t *testing.T) {
	for _, src := range []string{
		"function f(x: number): string { return '' }",
		"let a: Array<string> = [];",
		"type T = { a: number };",
	} {
		t.Run(src, func(t *testing.T) {
			prog, err := New().Parse(context.Background(), []byte(src))
			require.NoError(t, err)
			assert.Equal(t, src, element.SourceCode(prog))

			_, err = New(WithTypeAnnotations(false)).Parse(context.Background(), []byte(src))
			assert.ErrorIs(t, err, treesitter.ErrSyntax)
		})
	}
}
