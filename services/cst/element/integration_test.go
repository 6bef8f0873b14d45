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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/jscst/services/cst/token"
	"github.com/AleutianAI/jscst/services/cst/treesitter"
)

func parseProgram(t *testing.T, src string) *Program {
	t.Helper()
	ctx := context.Background()
	file, err := treesitter.NewParser().Parse(ctx, []byte(src))
	require.NoError(t, err)
	tokens, err := token.Normalize(file.Tokens, file.Source)
	require.NoError(t, err)
	prog, err := Build(ctx, file, tokens)
	require.NoError(t, err)
	return prog
}

func TestBuild_RoundTrip(t *testing.T) {
	sources := []string{
		"var a = 1;",
		"let x = 1, y;\nconst z = x + y * 2;",
		"function f(a, b = 2, ...c) {\n  return a + b;\n}",
		"const f = (x) => x * 2;",
		"if (a) b(); else c();",
		"while (i < 10) { i++; }",
		"obj.m(1, 2);",
		"const {a, b: [c]} = o;",
		"for (const x of xs) { x; }",
		"for (var k in o) {}",
		"class A extends B { m() { return 1; } }",
		"`a${b}c`;",
		"// leading\n/* block */ a; // trailing\n",
		"try { a(); } catch (e) { b(e); } finally { c(); }",
		"switch (x) { case 1: y(); break; default: z(); }",
		"const el = <div className=\"x\" {...props}>hi {name}</div>;",
		"<>\n  <Foo.Bar a /* note */ b=\"1\" />\n  <br/>\n</>;",
		"function f(x: number): string { return '' }",
		"let a: Array<string> = [];",
		"type T = { a: number };",
		"class C<T> extends B<T> { @d m(x?: T): void {} y: number = 1; }",
	}
	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			prog := parseProgram(t, src)
			assert.Equal(t, src, SourceCode(prog))
			for _, tok := range prog.Tokens() {
				require.NotNil(t, tok)
				require.NotNil(t, tok.Parent())
			}
		})
	}
}

func TestBuild_DestructuringShape(t *testing.T) {
	prog := parseProgram(t, "const {a, b: [c]} = o;")

	decl := as[*VariableDeclaration](prog.Body()[0])
	require.NotNil(t, decl)
	assert.Equal(t, "const", decl.Kind())

	pattern := as[*ObjectPattern](decl.Declarations()[0].ID())
	require.NotNil(t, pattern)
	require.Len(t, pattern.Properties(), 2)

	short := as[*Property](pattern.Properties()[0])
	require.NotNil(t, short)
	assert.True(t, short.Shorthand())
	assert.Equal(t, "a", as[*Identifier](short.Value()).Name())

	pair := as[*Property](pattern.Properties()[1])
	require.NotNil(t, pair)
	assert.False(t, pair.Shorthand())
	assert.Equal(t, "b", as[*Identifier](pair.Key()).Name())
	arr := as[*ArrayPattern](pair.Value())
	require.NotNil(t, arr)
	require.Len(t, arr.Elements(), 1)
	assert.Equal(t, "c", as[*Identifier](arr.Elements()[0]).Name())
}

func TestBuild_FunctionShape(t *testing.T) {
	prog := parseProgram(t, "function f(a, b = 2, ...c) { return a; }")

	fn := as[*FunctionDeclaration](prog.Body()[0])
	require.NotNil(t, fn)
	assert.Equal(t, "f", fn.ID().Name())
	require.Len(t, fn.Params(), 3)
	assert.Equal(t, TypeIdentifier, fn.Params()[0].Type())
	assert.Equal(t, TypeAssignmentPattern, fn.Params()[1].Type())
	assert.Equal(t, TypeRestElement, fn.Params()[2].Type())

	ret := as[*ReturnStatement](fn.Body().Body()[0])
	require.NotNil(t, ret)
	assert.Equal(t, "a", as[*Identifier](ret.Argument()).Name())
}

func TestBuild_TemplateShape(t *testing.T) {
	prog := parseProgram(t, "`a${b}c`;")

	tpl := as[*TemplateLiteral](as[*ExpressionStatement](prog.Body()[0]).Expression())
	require.NotNil(t, tpl)
	require.Len(t, tpl.Quasis(), 2)
	assert.Equal(t, "`a${", tpl.Quasis()[0].Value())
	assert.Equal(t, "}c`", tpl.Quasis()[1].Value())
	require.Len(t, tpl.Expressions(), 1)
	assert.Equal(t, "b", as[*Identifier](tpl.Expressions()[0]).Name())
}
