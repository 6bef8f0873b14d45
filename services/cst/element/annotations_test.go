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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnotations_RoundTrip(t *testing.T) {
	sources := []string{
		"function f(x: number): string { return '' }",
		"let a: Array<string> = [];",
		"type T = { a: number };",
		"const g = (a: ?string, ...rest: Array<number>): void => {};",
		"type U<K, V = mixed> = { [key: K]: V, name?: string };",
		"type Fn = (a: number, b?: string) => boolean;",
		"type Lit = 'a' | 1 | -2 | true | null;",
		"type Both = A & B;",
		"type Tuple = [number, string];",
		"type List = number[];",
		"type Q = ns.Inner<*>;",
		"let { a }: { a: number } = o;",
		"try {} catch (e: mixed) {}",
		"import type { A } from 'a';\nexport type B = A;",
		"function id<T: Object>(x: T = y): T { return x; }",
	}
	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			prog := parseProgram(t, src)
			assert.Equal(t, src, SourceCode(prog))
			for _, tok := range prog.Tokens() {
				require.NotNil(t, tok.Parent())
			}
		})
	}
}

func TestAnnotations_FunctionShape(t *testing.T) {
	prog := parseProgram(t, "function f(x: number): string { return '' }")

	fn := as[*FunctionDeclaration](prog.Body()[0])
	require.NotNil(t, fn)
	require.Len(t, fn.Params(), 1)

	x := as[*Identifier](fn.Params()[0])
	require.NotNil(t, x)
	assert.Equal(t, "x", x.Name())
	assert.Equal(t, "x: number", SourceCode(x))
	require.NotNil(t, x.TypeAnnotation())
	assert.Equal(t, TypeNumberTypeAnnotation, x.TypeAnnotation().Annotation().Type())

	require.NotNil(t, fn.ReturnType())
	ret := as[*KeywordTypeAnnotation](fn.ReturnType().Annotation())
	require.NotNil(t, ret)
	assert.Equal(t, TypeStringTypeAnnotation, ret.Type())
	assert.Equal(t, "string", ret.Keyword())
	assert.Nil(t, fn.TypeParameters())
}

func TestAnnotations_GenericShape(t *testing.T) {
	prog := parseProgram(t, "let a: Array<string> = [];")

	decl := as[*VariableDeclaration](prog.Body()[0])
	require.NotNil(t, decl)
	declarator := decl.Declarations()[0]
	id := as[*Identifier](declarator.ID())
	require.NotNil(t, id)
	assert.Equal(t, "a", id.Name())
	assert.Equal(t, TypeArrayExpression, declarator.Init().Type())

	generic := as[*GenericTypeAnnotation](id.TypeAnnotation().Annotation())
	require.NotNil(t, generic)
	assert.Equal(t, "Array", as[*Identifier](generic.ID()).Name())
	require.NotNil(t, generic.TypeParameters())
	require.Len(t, generic.TypeParameters().Params(), 1)
	assert.Equal(t, TypeStringTypeAnnotation, generic.TypeParameters().Params()[0].Type())
}

func TestAnnotations_TypeAliasShape(t *testing.T) {
	prog := parseProgram(t, "type T = { a: number };")

	alias := as[*TypeAlias](prog.Body()[0])
	require.NotNil(t, alias)
	assert.True(t, IsStatement(alias.Type()))
	assert.Equal(t, "T", alias.ID().Name())
	assert.Nil(t, alias.TypeParameters())

	obj := as[*ObjectTypeAnnotation](alias.Right())
	require.NotNil(t, obj)
	assert.False(t, obj.Exact())
	require.Len(t, obj.Members(), 1)
	prop := as[*ObjectTypeProperty](obj.Members()[0])
	require.NotNil(t, prop)
	assert.Equal(t, "a", as[*Identifier](prop.Key()).Name())
	assert.False(t, prop.Optional())
	assert.Equal(t, TypeNumberTypeAnnotation, prop.Value().Type())
}

func TestAnnotations_UnionOfLiterals(t *testing.T) {
	prog := parseProgram(t, "type Lit = 'a' | -2 | null;")

	union := as[*UnionTypeAnnotation](as[*TypeAlias](prog.Body()[0]).Right())
	require.NotNil(t, union)
	require.Len(t, union.Types(), 3)
	assert.Equal(t, []string{
		TypeStringLiteralTypeAnnotation,
		TypeNumberLiteralTypeAnnotation,
		TypeNullLiteralTypeAnnotation,
	}, []string{union.Types()[0].Type(), union.Types()[1].Type(), union.Types()[2].Type()})
	assert.Equal(t, "-2", as[*LiteralTypeAnnotation](union.Types()[1]).Value())
}

func TestAnnotations_ParameterForms(t *testing.T) {
	prog := parseProgram(t, "function g(a?: number, b: string = 'x', ...c: Array<T>) {}")

	fn := as[*FunctionDeclaration](prog.Body()[0])
	require.NotNil(t, fn)
	require.Len(t, fn.Params(), 3)

	a := as[*Identifier](fn.Params()[0])
	require.NotNil(t, a)
	assert.True(t, a.Optional())
	assert.Equal(t, "a?: number", SourceCode(a))

	def := as[*AssignmentPattern](fn.Params()[1])
	require.NotNil(t, def)
	b := as[*Identifier](def.Left())
	require.NotNil(t, b)
	assert.False(t, b.Optional())
	assert.Equal(t, TypeStringTypeAnnotation, b.TypeAnnotation().Annotation().Type())

	rest := as[*RestElement](fn.Params()[2])
	require.NotNil(t, rest)
	assert.Equal(t, "c", as[*Identifier](rest.Argument()).Name())
	require.NotNil(t, rest.TypeAnnotation())
}

func TestAnnotations_ClassMembers(t *testing.T) {
	prog := parseProgram(t, "class C<T> extends B<T> { @d m(x: T): void {} y: number = 1; }")

	cls := as[*ClassDeclaration](prog.Body()[0])
	require.NotNil(t, cls)
	assert.Equal(t, "C", cls.ID().Name())
	require.NotNil(t, cls.TypeParameters())
	require.Len(t, cls.TypeParameters().Params(), 1)
	assert.Equal(t, "T", cls.TypeParameters().Params()[0].Name().Name())
	assert.Equal(t, "B", as[*Identifier](cls.SuperClass()).Name())
	require.NotNil(t, cls.SuperTypeParameters())

	members := cls.Body().Members()
	require.Len(t, members, 2)
	m := as[*MethodDefinition](members[0])
	require.NotNil(t, m)
	require.Len(t, m.Decorators(), 1)
	assert.Equal(t, TypeVoidTypeAnnotation, m.ReturnType().Annotation().Type())

	y := as[*ClassProperty](members[1])
	require.NotNil(t, y)
	require.NotNil(t, y.TypeAnnotation())
	assert.Equal(t, TypeNumericLiteral, y.Value().Type())
}

func TestAnnotations_ImportKind(t *testing.T) {
	prog := parseProgram(t, "import type { A } from 'a';\nimport typeof B from 'b';\nimport C from 'c';")

	var kinds []string
	for _, stmt := range prog.Body() {
		kinds = append(kinds, as[*ImportDeclaration](stmt).ImportKind())
	}
	assert.Equal(t, []string{"type", "typeof", "value"}, kinds)
}

func TestIsType(t *testing.T) {
	assert.True(t, IsType(TypeTypeAnnotation))
	assert.True(t, IsType(TypeGenericTypeAnnotation))
	assert.True(t, IsType(TypeTypeAlias))
	assert.False(t, IsType(TypeIdentifier))
	assert.False(t, IsType(TypeVariableDeclaration))
}
