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
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/jscst/services/cst/raw"
)

func parse(t *testing.T, src string) *raw.File {
	t.Helper()
	file, err := NewParser().Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	return file
}

func tokenValues(file *raw.File) []string {
	out := make([]string, len(file.Tokens))
	for i, tok := range file.Tokens {
		out[i] = tok.Value
	}
	return out
}

func tokenKinds(file *raw.File) []string {
	out := make([]string, len(file.Tokens))
	for i, tok := range file.Tokens {
		out[i] = tok.Kind
	}
	return out
}

func types(nodes []*raw.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Type
	}
	return out
}

func TestParse_VariableDeclaration(t *testing.T) {
	file := parse(t, "var a = 1;")

	assert.Equal(t, []string{"var", "a", "=", "1", ";"}, tokenValues(file))
	assert.Equal(t, []string{"Keyword", "Identifier", "Punctuator", "Numeric", "Punctuator"}, tokenKinds(file))

	prog := file.Program
	assert.Equal(t, "Program", prog.Type)
	assert.Equal(t, 0, prog.Start)
	assert.Equal(t, 10, prog.End)
	require.Len(t, prog.Children, 1)

	decl := prog.Children[0]
	assert.Equal(t, "VariableDeclaration", decl.Type)
	require.Len(t, decl.Children, 1)
	declarator := decl.Children[0]
	assert.Equal(t, "VariableDeclarator", declarator.Type)
	assert.Equal(t, []string{"Identifier", "NumericLiteral"}, types(declarator.Children))
}

func TestParse_ProgramSpansWholeSource(t *testing.T) {
	file := parse(t, "\n\n  a;\n\n")
	assert.Equal(t, 0, file.Program.Start)
	assert.Equal(t, 7, file.Program.End)
}

func TestParse_Comments(t *testing.T) {
	file := parse(t, "// hi\n/* block */ x;")
	require.GreaterOrEqual(t, len(file.Tokens), 3)
	assert.Equal(t, "CommentLine", file.Tokens[0].Kind)
	assert.Equal(t, "// hi", file.Tokens[0].Value)
	assert.Equal(t, "CommentBlock", file.Tokens[1].Kind)
	assert.Equal(t, []string{"ExpressionStatement"}, types(file.Program.Children))
}

func TestParse_StringIsOneToken(t *testing.T) {
	file := parse(t, `f("a\nb");`)
	assert.Equal(t, []string{"f", "(", `"a\nb"`, ")", ";"}, tokenValues(file))
	assert.Equal(t, "String", file.Tokens[2].Kind)
}

func TestParse_TemplateTokens(t *testing.T) {
	file := parse(t, "`a${b}c`;")
	assert.Equal(t, []string{"`a${", "b", "}c`", ";"}, tokenValues(file))
	assert.Equal(t, "Template", file.Tokens[0].Kind)
	assert.Equal(t, "Template", file.Tokens[2].Kind)

	stmt := file.Program.Children[0]
	require.Len(t, stmt.Children, 1)
	tpl := stmt.Children[0]
	assert.Equal(t, "TemplateLiteral", tpl.Type)
	assert.Equal(t, []string{"Identifier"}, types(tpl.Children))
}

func TestParse_ForOfSynthesizesDeclaration(t *testing.T) {
	file := parse(t, "for (const x of y) {}")
	loop := file.Program.Children[0]
	assert.Equal(t, "ForOfStatement", loop.Type)
	require.Len(t, loop.Children, 3)

	decl := loop.Children[0]
	assert.Equal(t, "VariableDeclaration", decl.Type)
	assert.Equal(t, 5, decl.Start)
	assert.Equal(t, 12, decl.End)
	assert.Equal(t, []string{"VariableDeclarator"}, types(decl.Children))
	assert.Equal(t, []string{"Identifier", "BlockStatement"}, types(loop.Children[1:]))
}

func TestParse_ForInWithoutDeclaration(t *testing.T) {
	file := parse(t, "for (k in o) ;")
	loop := file.Program.Children[0]
	assert.Equal(t, "ForInStatement", loop.Type)
	assert.Equal(t, []string{"Identifier", "Identifier", "EmptyStatement"}, types(loop.Children))
}

func TestParse_IfHeadIsNotParenthesized(t *testing.T) {
	file := parse(t, "if (a) b; else c;")
	stmt := file.Program.Children[0]
	assert.Equal(t, "IfStatement", stmt.Type)
	assert.Equal(t, []string{"Identifier", "ExpressionStatement", "ExpressionStatement"}, types(stmt.Children))
}

func TestParse_LogicalExpression(t *testing.T) {
	file := parse(t, "a && b;")
	expr := file.Program.Children[0].Children[0]
	assert.Equal(t, "LogicalExpression", expr.Type)
}

func TestParse_DestructuringAssignment(t *testing.T) {
	file := parse(t, "({a, b: c} = d);")
	paren := file.Program.Children[0].Children[0]
	require.Equal(t, "ParenthesizedExpression", paren.Type)
	assign := paren.Children[0]
	assert.Equal(t, "AssignmentExpression", assign.Type)
	pattern := assign.Children[0]
	assert.Equal(t, "ObjectPattern", pattern.Type)
	assert.Equal(t, []string{"Property", "Property"}, types(pattern.Children))
	assert.Equal(t, []string{"Identifier"}, types(pattern.Children[0].Children))
}

func TestParse_JSXSelfClosing(t *testing.T) {
	file := parse(t, `<Foo bar="x" />;`)
	el := file.Program.Children[0].Children[0]
	assert.Equal(t, "JSXElement", el.Type)
	require.Len(t, el.Children, 1)

	opening := el.Children[0]
	assert.Equal(t, "JSXOpeningElement", opening.Type)
	assert.Equal(t, el.Start, opening.Start)
	assert.Equal(t, el.End, opening.End)
	assert.Equal(t, []string{"JSXIdentifier", "JSXAttribute"}, types(opening.Children))
	assert.Equal(t, []string{"JSXIdentifier", "StringLiteral"}, types(opening.Children[1].Children))
}

func TestParse_Hashbang(t *testing.T) {
	file := parse(t, "#!/usr/bin/env node\nx;")
	require.NotEmpty(t, file.Tokens)
	assert.Equal(t, "Hashbang", file.Tokens[0].Kind)
	assert.Equal(t, []string{"ExpressionStatement"}, types(file.Program.Children))
}

func TestParse_Errors(t *testing.T) {
	p := NewParser(WithMaxFileSize(16))

	_, err := p.Parse(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrInvalidContent))

	_, err = p.Parse(context.Background(), []byte{0xff, 0xfe})
	assert.True(t, errors.Is(err, ErrInvalidContent))

	_, err = p.Parse(context.Background(), []byte("var aVeryLongName = 1;"))
	assert.True(t, errors.Is(err, ErrFileTooLarge))

	_, err = p.Parse(context.Background(), []byte("var = ;"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSyntax))
	var sErr *SyntaxError
	require.True(t, errors.As(err, &sErr))
	assert.Equal(t, 1, sErr.Line)
}

func TestParse_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewParser().Parse(ctx, []byte("a;"))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestParse_AnnotatedParameter(t *testing.T) {
	file := parse(t, "function f(x: number): string { return '' }")
	fn := file.Program.Children[0]
	assert.Equal(t, "FunctionDeclaration", fn.Type)
	assert.Equal(t, []string{"Identifier", "Identifier", "TypeAnnotation", "BlockStatement"}, types(fn.Children))

	x := fn.Children[1]
	assert.Equal(t, 11, x.Start)
	assert.Equal(t, 20, x.End, "the binding owns its annotation")
	require.Len(t, x.Children, 1)
	assert.Equal(t, "TypeAnnotation", x.Children[0].Type)
	assert.Equal(t, []string{"NumberTypeAnnotation"}, types(x.Children[0].Children))
	assert.Equal(t, []string{"StringTypeAnnotation"}, types(fn.Children[2].Children))
}

func TestParse_AnnotatedDeclarator(t *testing.T) {
	file := parse(t, "let a: Array<string> = [];")
	declarator := file.Program.Children[0].Children[0]
	assert.Equal(t, "VariableDeclarator", declarator.Type)
	assert.Equal(t, []string{"Identifier", "ArrayExpression"}, types(declarator.Children))

	ann := declarator.Children[0].Children[0]
	require.Equal(t, "TypeAnnotation", ann.Type)
	generic := ann.Children[0]
	assert.Equal(t, "GenericTypeAnnotation", generic.Type)
	assert.Equal(t, []string{"Identifier", "TypeParameterInstantiation"}, types(generic.Children))
	assert.Equal(t, []string{"StringTypeAnnotation"}, types(generic.Children[1].Children))
}

func TestParse_TypeAlias(t *testing.T) {
	file := parse(t, "type T = { a: number };")
	assert.Equal(t, []string{"type", "T", "=", "{", "a", ":", "number", "}", ";"}, tokenValues(file))

	alias := file.Program.Children[0]
	assert.Equal(t, "TypeAlias", alias.Type)
	assert.Equal(t, []string{"Identifier", "ObjectTypeAnnotation"}, types(alias.Children))
	prop := alias.Children[1].Children[0]
	assert.Equal(t, "ObjectTypeProperty", prop.Type)
	assert.Equal(t, []string{"Identifier", "NumberTypeAnnotation"}, types(prop.Children))
}

func TestParse_UnionIsFlattened(t *testing.T) {
	file := parse(t, "type U = A | B | ?C;")
	union := file.Program.Children[0].Children[1]
	assert.Equal(t, "UnionTypeAnnotation", union.Type)
	assert.Equal(t, []string{"GenericTypeAnnotation", "GenericTypeAnnotation", "NullableTypeAnnotation"}, types(union.Children))
}

func TestParse_DecoratorsMoveIntoMethod(t *testing.T) {
	file := parse(t, "class A { @d m() {} }")
	body := file.Program.Children[0].Children[1]
	require.Equal(t, "ClassBody", body.Type)
	require.Len(t, body.Children, 1)
	method := body.Children[0]
	assert.Equal(t, "MethodDefinition", method.Type)
	assert.Equal(t, 10, method.Start)
	assert.Equal(t, "Decorator", method.Children[0].Type)
}

func TestParse_TypeScriptOnlySyntaxIsUnsupported(t *testing.T) {
	for _, src := range []string{
		"interface I { a: number }",
		"enum E { A }",
		"let a = b as C;",
	} {
		_, err := NewParser().Parse(context.Background(), []byte(src))
		require.Error(t, err, src)
		assert.True(t, errors.Is(err, ErrUnsupportedSyntax), "%s: %v", src, err)
	}
}

func TestParse_PlainJavaScriptGrammar(t *testing.T) {
	p := NewParser(WithTypeAnnotations(false))

	file, err := p.Parse(context.Background(), []byte("a < b > (c);"))
	require.NoError(t, err)
	expr := file.Program.Children[0].Children[0]
	assert.Equal(t, "BinaryExpression", expr.Type)

	_, err = p.Parse(context.Background(), []byte("let a: number = 1;"))
	assert.True(t, errors.Is(err, ErrSyntax))
}
