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
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/AleutianAI/jscst/services/cst/raw"
)

// keywordTypes maps predefined type keywords to their annotation construct.
// TypeScript's unknown and never stand in for Flow's mixed and empty.
var keywordTypes = map[string]string{
	"any":     "AnyTypeAnnotation",
	"number":  "NumberTypeAnnotation",
	"string":  "StringTypeAnnotation",
	"boolean": "BooleanTypeAnnotation",
	"void":    "VoidTypeAnnotation",
	"symbol":  "SymbolTypeAnnotation",
	"bigint":  "BigIntTypeAnnotation",
	"mixed":   "MixedTypeAnnotation",
	"unknown": "MixedTypeAnnotation",
	"empty":   "EmptyTypeAnnotation",
	"never":   "EmptyTypeAnnotation",
}

func unsupportedType(n *sitter.Node) error {
	return newSyntaxError(n, ErrUnsupportedSyntax, fmt.Sprintf("no mapping for type %s", n.Type()))
}

// typeNode converts a grammar node in type position.
func (cv *converter) typeNode(n *sitter.Node) (*raw.Node, error) {
	switch n.Type() {
	case "predefined_type":
		out, ok := keywordTypes[cv.text(n)]
		if !ok {
			return nil, unsupportedType(n)
		}
		return span(out, n, nil), nil

	case "type_identifier", "nested_type_identifier":
		id, err := cv.qualifiedName(n)
		if err != nil {
			return nil, err
		}
		return span("GenericTypeAnnotation", n, []*raw.Node{id}), nil

	case "generic_type":
		name := n.ChildByFieldName("name")
		args := n.ChildByFieldName("type_arguments")
		if name == nil || args == nil {
			return nil, newSyntaxError(n, ErrSyntax, "incomplete generic type")
		}
		id, err := cv.qualifiedName(name)
		if err != nil {
			return nil, err
		}
		inst, err := cv.typeArguments(args)
		if err != nil {
			return nil, err
		}
		return span("GenericTypeAnnotation", n, []*raw.Node{id, inst}), nil

	case "literal_type":
		return cv.literalType(n)

	case "object_type":
		var members []*raw.Node
		for _, c := range namedChildren(n) {
			var (
				m   *raw.Node
				err error
			)
			switch c.Type() {
			case "property_signature":
				m, err = cv.propertySignature(c)
			case "index_signature":
				m, err = cv.indexSignature(c)
			default:
				err = unsupportedType(c)
			}
			if err != nil {
				return nil, err
			}
			members = append(members, m)
		}
		return span("ObjectTypeAnnotation", n, members), nil

	case "array_type":
		return cv.wrapTypes("ArrayTypeAnnotation", n, namedChildren(n))

	case "tuple_type":
		return cv.wrapTypes("TupleTypeAnnotation", n, namedChildren(n))

	case "union_type":
		return cv.wrapTypes("UnionTypeAnnotation", n, flattenTypes(n))

	case "intersection_type":
		return cv.wrapTypes("IntersectionTypeAnnotation", n, flattenTypes(n))

	case "flow_maybe_type":
		return cv.wrapTypes("NullableTypeAnnotation", n, namedChildren(n))

	case "parenthesized_type":
		return cv.wrapTypes("ParenthesizedTypeAnnotation", n, namedChildren(n))

	case "existential_type":
		return span("ExistsTypeAnnotation", n, nil), nil

	case "function_type":
		return cv.functionType(n)
	}
	return nil, unsupportedType(n)
}

func (cv *converter) text(n *sitter.Node) string {
	return string(cv.src[n.StartByte():n.EndByte()])
}

// wrapTypes converts every child as a type under one construct.
func (cv *converter) wrapTypes(typ string, n *sitter.Node, kids []*sitter.Node) (*raw.Node, error) {
	children := make([]*raw.Node, 0, len(kids))
	for _, c := range kids {
		t, err := cv.typeNode(c)
		if err != nil {
			return nil, err
		}
		children = append(children, t)
	}
	return span(typ, n, children), nil
}

// flattenTypes collects the operands of a left-nested union or
// intersection chain.
func flattenTypes(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for _, c := range namedChildren(n) {
		if c.Type() == n.Type() {
			out = append(out, flattenTypes(c)...)
			continue
		}
		out = append(out, c)
	}
	return out
}

func (cv *converter) literalType(n *sitter.Node) (*raw.Node, error) {
	kids := namedChildren(n)
	if len(kids) != 1 {
		return nil, unsupportedType(n)
	}
	switch kids[0].Type() {
	case "string":
		return span("StringLiteralTypeAnnotation", n, nil), nil
	case "number", "unary_expression":
		return span("NumberLiteralTypeAnnotation", n, nil), nil
	case "true", "false":
		return span("BooleanLiteralTypeAnnotation", n, nil), nil
	case "null":
		return span("NullLiteralTypeAnnotation", n, nil), nil
	case "undefined":
		id := span("Identifier", kids[0], nil)
		return span("GenericTypeAnnotation", n, []*raw.Node{id}), nil
	}
	return nil, unsupportedType(kids[0])
}

// qualifiedName converts a possibly dotted type name.
func (cv *converter) qualifiedName(n *sitter.Node) (*raw.Node, error) {
	switch n.Type() {
	case "identifier", "type_identifier", "property_identifier":
		return span("Identifier", n, nil), nil
	case "nested_type_identifier", "nested_identifier", "member_expression":
		var parts []*raw.Node
		for _, c := range namedChildren(n) {
			part, err := cv.qualifiedName(c)
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
		}
		return span("QualifiedTypeIdentifier", n, parts), nil
	}
	return nil, unsupportedType(n)
}

func (cv *converter) typeArguments(n *sitter.Node) (*raw.Node, error) {
	return cv.wrapTypes("TypeParameterInstantiation", n, namedChildren(n))
}

func (cv *converter) typeParameters(n *sitter.Node) (*raw.Node, error) {
	var params []*raw.Node
	for _, c := range namedChildren(n) {
		p, err := cv.typeParameter(c)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return span("TypeParameterDeclaration", n, params), nil
}

// typeParameter converts `T extends Bound = Default`, splicing the
// constraint and default wrappers.
func (cv *converter) typeParameter(n *sitter.Node) (*raw.Node, error) {
	name := n.ChildByFieldName("name")
	if n.Type() != "type_parameter" || name == nil {
		return nil, unsupportedType(n)
	}
	children := []*raw.Node{span("Identifier", name, nil)}
	for _, field := range []string{"constraint", "value"} {
		wrapper := n.ChildByFieldName(field)
		if wrapper == nil {
			continue
		}
		for _, c := range namedChildren(wrapper) {
			t, err := cv.typeNode(c)
			if err != nil {
				return nil, err
			}
			children = append(children, t)
		}
	}
	return span("TypeParameter", n, children), nil
}

// typeAnnotation converts `: type`.
func (cv *converter) typeAnnotation(n *sitter.Node) (*raw.Node, error) {
	kids := namedChildren(n)
	if n.Type() != "type_annotation" || len(kids) != 1 {
		return nil, unsupportedType(n)
	}
	t, err := cv.typeNode(kids[0])
	if err != nil {
		return nil, err
	}
	return span("TypeAnnotation", n, []*raw.Node{t}), nil
}

// innerType converts the type of a `: type` wrapper without the wrapper.
// The colon then belongs to the enclosing construct.
func (cv *converter) innerType(n *sitter.Node) (*raw.Node, error) {
	kids := namedChildren(n)
	if n.Type() != "type_annotation" || len(kids) != 1 {
		return nil, unsupportedType(n)
	}
	return cv.typeNode(kids[0])
}

func (cv *converter) propertySignature(n *sitter.Node) (*raw.Node, error) {
	var children []*raw.Node
	for _, c := range namedChildren(n) {
		var (
			converted *raw.Node
			err       error
		)
		switch c.Type() {
		case "property_identifier":
			converted = span("Identifier", c, nil)
		case "string":
			converted = span("StringLiteral", c, nil)
		case "number":
			converted = span("NumericLiteral", c, nil)
		case "type_annotation":
			converted, err = cv.innerType(c)
		default:
			err = unsupportedType(c)
		}
		if err != nil {
			return nil, err
		}
		children = append(children, converted)
	}
	return span("ObjectTypeProperty", n, children), nil
}

func (cv *converter) indexSignature(n *sitter.Node) (*raw.Node, error) {
	name := n.ChildByFieldName("name")
	key := n.ChildByFieldName("index_type")
	value := n.ChildByFieldName("type")
	if name == nil || key == nil || value == nil {
		return nil, unsupportedType(n)
	}
	keyType, err := cv.typeNode(key)
	if err != nil {
		return nil, err
	}
	valueType, err := cv.innerType(value)
	if err != nil {
		return nil, err
	}
	return span("ObjectTypeIndexer", n, []*raw.Node{span("Identifier", name, nil), keyType, valueType}), nil
}

// functionType converts `<T>(a: A, ...rest: R) => B`.
func (cv *converter) functionType(n *sitter.Node) (*raw.Node, error) {
	var children []*raw.Node
	for _, c := range namedChildren(n) {
		switch c.Type() {
		case "type_parameters":
			tp, err := cv.typeParameters(c)
			if err != nil {
				return nil, err
			}
			children = append(children, tp)
		case "formal_parameters":
			for _, p := range namedChildren(c) {
				fp, err := cv.functionTypeParam(p)
				if err != nil {
					return nil, err
				}
				children = append(children, fp)
			}
		default:
			t, err := cv.typeNode(c)
			if err != nil {
				return nil, err
			}
			children = append(children, t)
		}
	}
	return span("FunctionTypeAnnotation", n, children), nil
}

func (cv *converter) functionTypeParam(n *sitter.Node) (*raw.Node, error) {
	pattern := n.ChildByFieldName("pattern")
	if pattern == nil || n.ChildByFieldName("value") != nil {
		return nil, unsupportedType(n)
	}
	if pattern.Type() == "rest_pattern" {
		kids := namedChildren(pattern)
		if len(kids) != 1 {
			return nil, unsupportedType(pattern)
		}
		pattern = kids[0]
	}
	if pattern.Type() != "identifier" {
		return nil, unsupportedType(pattern)
	}
	children := []*raw.Node{span("Identifier", pattern, nil)}
	if ann := n.ChildByFieldName("type"); ann != nil {
		t, err := cv.innerType(ann)
		if err != nil {
			return nil, err
		}
		children = append(children, t)
	}
	return span("FunctionTypeParam", n, children), nil
}

// typeAlias converts `type Name<T> = type;`.
func (cv *converter) typeAlias(n *sitter.Node) ([]*raw.Node, error) {
	name := n.ChildByFieldName("name")
	value := n.ChildByFieldName("value")
	if name == nil || value == nil {
		return nil, newSyntaxError(n, ErrSyntax, "incomplete type alias")
	}
	children := []*raw.Node{span("Identifier", name, nil)}
	if params := n.ChildByFieldName("type_parameters"); params != nil {
		tp, err := cv.typeParameters(params)
		if err != nil {
			return nil, err
		}
		children = append(children, tp)
	}
	t, err := cv.typeNode(value)
	if err != nil {
		return nil, err
	}
	return one("TypeAlias", n, append(children, t))
}

// parameter converts a formal parameter. The binding's range grows over
// `?` and the annotation so they belong to it, and a default value wraps
// the binding in an AssignmentPattern.
func (cv *converter) parameter(n *sitter.Node) ([]*raw.Node, error) {
	pattern := n.ChildByFieldName("pattern")
	if pattern == nil {
		return nil, newSyntaxError(n, ErrUnsupportedSyntax, "parameter without a binding")
	}
	for _, c := range namedChildren(n) {
		switch c.Type() {
		case "accessibility_modifier", "override_modifier", "decorator":
			return nil, newSyntaxError(c, ErrUnsupportedSyntax, fmt.Sprintf("no mapping for %s", c.Type()))
		}
	}
	converted, err := cv.convert(pattern, inPattern)
	if err != nil {
		return nil, err
	}
	if len(converted) != 1 {
		return nil, newSyntaxError(pattern, ErrUnsupportedSyntax, "unexpected parameter shape")
	}
	binding := converted[0]

	var end int
	if n.Type() == "optional_parameter" {
		for i := 0; i < int(n.ChildCount()); i++ {
			if c := n.Child(i); !c.IsNamed() && c.Type() == "?" {
				end = int(c.EndByte())
			}
		}
	}
	if ann := n.ChildByFieldName("type"); ann != nil {
		t, err := cv.typeAnnotation(ann)
		if err != nil {
			return nil, err
		}
		binding.Children = append(binding.Children, t)
		end = t.End
	}
	if end > binding.End {
		binding.End = end
	}

	value := n.ChildByFieldName("value")
	if value == nil {
		return []*raw.Node{binding}, nil
	}
	right, err := cv.convert(value, 0)
	if err != nil {
		return nil, err
	}
	return one("AssignmentPattern", n, append([]*raw.Node{binding}, right...))
}

// annotated converts declarators and catch clauses, folding a type
// annotation into the binding it follows.
func (cv *converter) annotated(typ string, n *sitter.Node) ([]*raw.Node, error) {
	var children []*raw.Node
	for _, c := range namedChildren(n) {
		if c.Type() == "type_annotation" && len(children) > 0 {
			t, err := cv.typeAnnotation(c)
			if err != nil {
				return nil, err
			}
			binding := children[len(children)-1]
			binding.Children = append(binding.Children, t)
			binding.End = t.End
			continue
		}
		pos := position(0)
		if len(children) == 0 {
			pos = inPattern
		}
		converted, err := cv.convert(c, pos)
		if err != nil {
			return nil, err
		}
		children = append(children, converted...)
	}
	return one(typ, n, children)
}
