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

// attributeNames renders attributes as their names, and spreads as "...".
func attributeNames(attrs []Node) []string {
	out := make([]string, len(attrs))
	for i, a := range attrs {
		switch v := a.(type) {
		case *JSXAttribute:
			out[i] = JSXName(v.Name())
		case *JSXSpreadAttribute:
			out[i] = "..."
		default:
			out[i] = a.Type()
		}
	}
	return out
}

func TestJSXOpeningElement(t *testing.T) {
	tests := []struct {
		name        string
		src         string
		tag         string
		attrs       []string
		selfClosing bool
	}{
		{
			name:        "self-closing without space",
			src:         "<a/>;",
			tag:         "a",
			attrs:       []string{},
			selfClosing: true,
		},
		{
			name:  "explicit close",
			src:   "<a></a>;",
			tag:   "a",
			attrs: []string{},
		},
		{
			name:        "void element",
			src:         "<br />;",
			tag:         "br",
			attrs:       []string{},
			selfClosing: true,
		},
		{
			name:  "member name with spread between attributes",
			src:   `<Foo.Bar a="1" {...props} b={2}></Foo.Bar>;`,
			tag:   "Foo.Bar",
			attrs: []string{"a", "...", "b"},
		},
		{
			name:        "namespaced names",
			src:         `<svg:rect xlink:href="#r" />;`,
			tag:         "svg:rect",
			attrs:       []string{"xlink:href"},
			selfClosing: true,
		},
		{
			name:        "comments between attributes",
			src:         "<div /* first */ id=\"x\" /* second */ {...rest} /* third */ hidden />;",
			tag:         "div",
			attrs:       []string{"id", "...", "hidden"},
			selfClosing: true,
		},
		{
			name:  "nested member name",
			src:   "<A.B.C on></A.B.C>;",
			tag:   "A.B.C",
			attrs: []string{"on"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := parseProgram(t, tt.src)
			assert.Equal(t, tt.src, SourceCode(prog))

			stmt := as[*ExpressionStatement](prog.Body()[0])
			require.NotNil(t, stmt)
			el := as[*JSXElement](stmt.Expression())
			require.NotNil(t, el)

			opening := el.OpeningElement()
			require.NotNil(t, opening)
			assert.Equal(t, tt.tag, JSXName(opening.Name()))
			assert.Equal(t, tt.attrs, attributeNames(opening.Attributes()))
			assert.Equal(t, tt.selfClosing, opening.SelfClosing())

			if tt.selfClosing {
				assert.Nil(t, el.ClosingElement())
				assert.Equal(t, el.Range(), opening.Range())
			} else {
				require.NotNil(t, el.ClosingElement())
				assert.Equal(t, tt.tag, JSXName(el.ClosingElement().Name()))
			}
		})
	}
}

func TestJSXAttribute_Values(t *testing.T) {
	prog := parseProgram(t, `<input type="text" value={v} disabled />;`)
	el := as[*JSXElement](as[*ExpressionStatement](prog.Body()[0]).Expression())
	require.NotNil(t, el)
	attrs := el.OpeningElement().Attributes()
	require.Len(t, attrs, 3)

	assert.Equal(t, TypeStringLiteral, as[*JSXAttribute](attrs[0]).Value().Type())
	container := as[*JSXExpressionContainer](as[*JSXAttribute](attrs[1]).Value())
	require.NotNil(t, container)
	assert.Equal(t, "v", as[*Identifier](container.Expression()).Name())
	assert.Nil(t, as[*JSXAttribute](attrs[2]).Value())
}
