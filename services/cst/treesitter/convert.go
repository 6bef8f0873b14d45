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

// position flags describe where a grammar node sits. They change the ESTree
// construct some grammar nodes map to.
type position uint8

const (
	// inPattern marks binding and assignment targets: object and array
	// literals become patterns, assignments become AssignmentPattern.
	inPattern position = 1 << iota

	// inJSXName marks JSX element and attribute names.
	inJSXName

	// inJSXAttributes marks the attribute list of a JSX opening tag.
	inJSXAttributes
)

// renamed maps grammar nodes whose children convert without position flags
// to their ESTree construct.
var renamed = map[string]string{
	"expression_statement":            "ExpressionStatement",
	"statement_block":                 "BlockStatement",
	"empty_statement":                 "EmptyStatement",
	"debugger_statement":              "DebuggerStatement",
	"return_statement":                "ReturnStatement",
	"labeled_statement":               "LabeledStatement",
	"break_statement":                 "BreakStatement",
	"continue_statement":              "ContinueStatement",
	"throw_statement":                 "ThrowStatement",
	"try_statement":                   "TryStatement",
	"switch_case":                     "SwitchCase",
	"switch_default":                  "SwitchCase",
	"variable_declaration":            "VariableDeclaration",
	"lexical_declaration":             "VariableDeclaration",
	"function_declaration":            "FunctionDeclaration",
	"generator_function_declaration":  "FunctionDeclaration",
	"function":                        "FunctionExpression",
	"function_expression":             "FunctionExpression",
	"generator_function":              "FunctionExpression",
	"arrow_function":                  "ArrowFunctionExpression",
	"class_declaration":               "ClassDeclaration",
	"class":                           "ClassExpression",
	"method_definition":               "MethodDefinition",
	"field_definition":                "ClassProperty",
	"public_field_definition":         "ClassProperty",
	"decorator":                       "Decorator",
	"ternary_expression":              "ConditionalExpression",
	"new_expression":                  "NewExpression",
	"unary_expression":                "UnaryExpression",
	"update_expression":               "UpdateExpression",
	"yield_expression":                "YieldExpression",
	"await_expression":                "AwaitExpression",
	"meta_property":                   "MetaProperty",
	"subscript_expression":            "MemberExpression",
	"augmented_assignment_expression": "AssignmentExpression",
	"parenthesized_expression":        "ParenthesizedExpression",
	"template_string":                 "TemplateLiteral",
	"import_statement":                "ImportDeclaration",
	"import_specifier":                "ImportSpecifier",
	"namespace_import":                "ImportNamespaceSpecifier",
	"export_specifier":                "ExportSpecifier",
	"private_property_identifier":     "PrivateName",
	"number":                          "NumericLiteral",
	"string":                          "StringLiteral",
	"regex":                           "RegExpLiteral",
	"true":                            "BooleanLiteral",
	"false":                           "BooleanLiteral",
	"null":                            "NullLiteral",
	"this":                            "ThisExpression",
	"super":                           "Super",
	"import":                          "Import",
	"jsx_text":                        "JSXText",
	"html_character_reference":        "JSXText",
}

// leaves are renamed grammar nodes whose children are lexical fragments.
var leaves = map[string]bool{
	"string": true,
	"regex":  true,
	"number": true,
}

// identifiers are the grammar's aliases of identifier. type_identifier
// reaches convert only as a class name; type positions go through typeNode.
var identifiers = map[string]bool{
	"identifier":           true,
	"type_identifier":      true,
	"property_identifier":  true,
	"statement_identifier": true,
	"undefined":            true,
}

// spliced grammar nodes have no ESTree counterpart; their children are
// attached to the enclosing construct.
var spliced = map[string]bool{
	"arguments":              true,
	"else_clause":            true,
	"finally_clause":         true,
	"class_heritage":         true,
	"computed_property_name": true,
	"named_imports":          true,
	"export_clause":          true,
	"switch_body":            true,
	"namespace_export":       true,
	"import_attribute":       true,
	"template_substitution":  true,
}

// ignored grammar nodes carry tokens only.
var ignored = map[string]bool{
	"comment":         true,
	"html_comment":    true,
	"hash_bang_line":  true,
	"optional_chain":  true,
	"string_fragment": true,
	"escape_sequence": true,
	"regex_pattern":   true,
	"regex_flags":     true,
}

// parenthesizedHeads are statements whose parenthesized head is syntax of
// the statement, not a ParenthesizedExpression.
var parenthesizedHeads = map[string]bool{
	"if_statement":     true,
	"while_statement":  true,
	"do_statement":     true,
	"switch_statement": true,
	"with_statement":   true,
}

var headStatements = map[string]string{
	"if_statement":     "IfStatement",
	"while_statement":  "WhileStatement",
	"do_statement":     "DoWhileStatement",
	"switch_statement": "SwitchStatement",
	"with_statement":   "WithStatement",
}

type converter struct {
	src []byte
}

func (cv *converter) program(root *sitter.Node) (*raw.Node, error) {
	children, err := cv.children(root, 0)
	if err != nil {
		return nil, err
	}
	return &raw.Node{Type: "Program", Start: 0, End: len(cv.src), Children: children}, nil
}

// namedChildren returns the named children of n, comments excluded.
func namedChildren(n *sitter.Node) []*sitter.Node {
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if ignored[c.Type()] {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (cv *converter) children(n *sitter.Node, pos position) ([]*raw.Node, error) {
	return cv.convertAll(namedChildren(n), pos)
}

func (cv *converter) convertAll(nodes []*sitter.Node, pos position) ([]*raw.Node, error) {
	var out []*raw.Node
	for _, c := range nodes {
		converted, err := cv.convert(c, pos)
		if err != nil {
			return nil, err
		}
		out = append(out, converted...)
	}
	return out, nil
}

func span(typ string, n *sitter.Node, children []*raw.Node) *raw.Node {
	return &raw.Node{
		Type:     typ,
		Start:    int(n.StartByte()),
		End:      int(n.EndByte()),
		Children: children,
	}
}

func one(typ string, n *sitter.Node, children []*raw.Node) ([]*raw.Node, error) {
	return []*raw.Node{span(typ, n, children)}, nil
}

func sameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

// convert maps one grammar node to zero or more raw constructs.
func (cv *converter) convert(n *sitter.Node, pos position) ([]*raw.Node, error) {
	typ := n.Type()

	switch {
	case ignored[typ]:
		return nil, nil
	case spliced[typ]:
		return cv.children(n, 0)
	case identifiers[typ]:
		if pos&inJSXName != 0 {
			return one("JSXIdentifier", n, nil)
		}
		return one("Identifier", n, nil)
	case leaves[typ]:
		return one(renamed[typ], n, nil)
	case parenthesizedHeads[typ]:
		return cv.headStatement(n)
	}

	switch typ {
	case "formal_parameters":
		return cv.children(n, inPattern)

	case "required_parameter", "optional_parameter":
		return cv.parameter(n)

	case "variable_declarator":
		return cv.annotated("VariableDeclarator", n)

	case "catch_clause":
		return cv.annotated("CatchClause", n)

	case "type_annotation":
		t, err := cv.typeAnnotation(n)
		if err != nil {
			return nil, err
		}
		return []*raw.Node{t}, nil

	case "type_parameters":
		tp, err := cv.typeParameters(n)
		if err != nil {
			return nil, err
		}
		return []*raw.Node{tp}, nil

	case "type_alias_declaration":
		return cv.typeAlias(n)

	case "extends_clause":
		return cv.extendsClause(n)

	case "class_body":
		return cv.classBody(n)

	case "shorthand_property_identifier", "shorthand_property_identifier_pattern":
		id := span("Identifier", n, nil)
		return one("Property", n, []*raw.Node{id})

	case "object_assignment_pattern":
		return cv.objectAssignmentPattern(n)

	case "object", "object_pattern":
		if typ == "object_pattern" || pos&inPattern != 0 {
			children, err := cv.children(n, inPattern)
			if err != nil {
				return nil, err
			}
			return one("ObjectPattern", n, children)
		}
		children, err := cv.children(n, 0)
		if err != nil {
			return nil, err
		}
		return one("ObjectExpression", n, children)

	case "array", "array_pattern":
		if typ == "array_pattern" || pos&inPattern != 0 {
			children, err := cv.children(n, inPattern)
			if err != nil {
				return nil, err
			}
			return one("ArrayPattern", n, children)
		}
		children, err := cv.children(n, 0)
		if err != nil {
			return nil, err
		}
		return one("ArrayExpression", n, children)

	case "pair", "pair_pattern":
		valuePos := pos & inPattern
		if typ == "pair_pattern" {
			valuePos = inPattern
		}
		return cv.keyed("Property", n, 0, valuePos)

	case "assignment_expression":
		if pos&inPattern != 0 {
			return cv.keyed("AssignmentPattern", n, inPattern, 0)
		}
		return cv.keyed("AssignmentExpression", n, inPattern, 0)

	case "assignment_pattern":
		return cv.keyed("AssignmentPattern", n, inPattern, 0)

	case "rest_pattern":
		children, err := cv.children(n, inPattern)
		if err != nil {
			return nil, err
		}
		return one("RestElement", n, children)

	case "spread_element":
		if pos&inPattern != 0 {
			children, err := cv.children(n, inPattern)
			if err != nil {
				return nil, err
			}
			return one("RestElement", n, children)
		}
		children, err := cv.children(n, 0)
		if err != nil {
			return nil, err
		}
		return one("SpreadElement", n, children)

	case "binary_expression":
		out := "BinaryExpression"
		if op := n.ChildByFieldName("operator"); op != nil {
			switch op.Type() {
			case "&&", "||", "??":
				out = "LogicalExpression"
			}
		}
		children, err := cv.children(n, 0)
		if err != nil {
			return nil, err
		}
		return one(out, n, children)

	case "call_expression":
		out := "CallExpression"
		if args := n.ChildByFieldName("arguments"); args != nil && args.Type() == "template_string" {
			out = "TaggedTemplateExpression"
		}
		children, err := cv.children(n, 0)
		if err != nil {
			return nil, err
		}
		return one(out, n, children)

	case "member_expression", "nested_identifier":
		if pos&inJSXName != 0 {
			children, err := cv.children(n, inJSXName)
			if err != nil {
				return nil, err
			}
			return one("JSXMemberExpression", n, children)
		}
		children, err := cv.children(n, 0)
		if err != nil {
			return nil, err
		}
		return one("MemberExpression", n, children)

	case "sequence_expression":
		children, err := cv.sequence(n)
		if err != nil {
			return nil, err
		}
		return one("SequenceExpression", n, children)

	case "for_statement":
		return cv.forStatement(n)

	case "for_in_statement":
		return cv.forInStatement(n)

	case "class_static_block":
		return cv.staticBlock(n)

	case "import_clause":
		return cv.importClause(n)

	case "export_statement":
		return cv.exportStatement(n)

	case "jsx_element":
		return cv.jsxElement(n)

	case "jsx_self_closing_element":
		opening, err := cv.jsxOpening(n)
		if err != nil {
			return nil, err
		}
		return one("JSXElement", n, []*raw.Node{opening})

	case "jsx_opening_element":
		opening, err := cv.jsxOpening(n)
		if err != nil {
			return nil, err
		}
		return []*raw.Node{opening}, nil

	case "jsx_closing_element":
		if !hasJSXName(n) {
			return one("JSXClosingFragment", n, nil)
		}
		children, err := cv.children(n, inJSXName)
		if err != nil {
			return nil, err
		}
		return one("JSXClosingElement", n, children)

	case "jsx_attribute":
		return cv.keyed("JSXAttribute", n, inJSXName, 0)

	case "jsx_namespace_name":
		children, err := cv.children(n, inJSXName)
		if err != nil {
			return nil, err
		}
		return one("JSXNamespacedName", n, children)

	case "jsx_expression":
		return cv.jsxExpression(n, pos)
	}

	if out, ok := renamed[typ]; ok {
		children, err := cv.children(n, 0)
		if err != nil {
			return nil, err
		}
		return one(out, n, children)
	}

	return nil, newSyntaxError(n, ErrUnsupportedSyntax, fmt.Sprintf("no mapping for %s", typ))
}

// keyed converts the first named child with keyPos and the rest with
// restPos.
func (cv *converter) keyed(typ string, n *sitter.Node, keyPos, restPos position) ([]*raw.Node, error) {
	kids := namedChildren(n)
	if len(kids) == 0 {
		return one(typ, n, nil)
	}
	key, err := cv.convert(kids[0], keyPos)
	if err != nil {
		return nil, err
	}
	rest, err := cv.convertAll(kids[1:], restPos)
	if err != nil {
		return nil, err
	}
	return one(typ, n, append(key, rest...))
}

func (cv *converter) headStatement(n *sitter.Node) ([]*raw.Node, error) {
	var children []*raw.Node
	for _, c := range namedChildren(n) {
		var (
			converted []*raw.Node
			err       error
		)
		if c.Type() == "parenthesized_expression" {
			converted, err = cv.children(c, 0)
		} else {
			converted, err = cv.convert(c, 0)
		}
		if err != nil {
			return nil, err
		}
		children = append(children, converted...)
	}
	return one(headStatements[n.Type()], n, children)
}

// objectAssignmentPattern maps `{a = 1}` to Property(AssignmentPattern).
func (cv *converter) objectAssignmentPattern(n *sitter.Node) ([]*raw.Node, error) {
	kids := namedChildren(n)
	var children []*raw.Node
	for i, c := range kids {
		if i == 0 && c.Type() == "shorthand_property_identifier_pattern" {
			children = append(children, span("Identifier", c, nil))
			continue
		}
		pos := position(0)
		if i == 0 {
			pos = inPattern
		}
		converted, err := cv.convert(c, pos)
		if err != nil {
			return nil, err
		}
		children = append(children, converted...)
	}
	assign := span("AssignmentPattern", n, children)
	return one("Property", n, []*raw.Node{assign})
}

// sequence flattens nested sequence expressions.
func (cv *converter) sequence(n *sitter.Node) ([]*raw.Node, error) {
	var out []*raw.Node
	for _, c := range namedChildren(n) {
		if c.Type() == "sequence_expression" {
			nested, err := cv.sequence(c)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
			continue
		}
		converted, err := cv.convert(c, 0)
		if err != nil {
			return nil, err
		}
		out = append(out, converted...)
	}
	return out, nil
}

// forStatement splices the statement wrappers the grammar puts around the
// init and test clauses.
func (cv *converter) forStatement(n *sitter.Node) ([]*raw.Node, error) {
	body := n.ChildByFieldName("body")
	var children []*raw.Node
	for _, c := range namedChildren(n) {
		var (
			converted []*raw.Node
			err       error
		)
		isClause := c.Type() == "expression_statement" || c.Type() == "empty_statement"
		if isClause && !sameNode(c, body) {
			converted, err = cv.children(c, 0)
		} else {
			converted, err = cv.convert(c, 0)
		}
		if err != nil {
			return nil, err
		}
		children = append(children, converted...)
	}
	return one("ForStatement", n, children)
}

// forInStatement picks ForIn or ForOf from the operator and synthesizes the
// VariableDeclaration the grammar leaves implicit in `for (const x of y)`.
func (cv *converter) forInStatement(n *sitter.Node) ([]*raw.Node, error) {
	var kind, operator *sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.IsNamed() {
			continue
		}
		switch c.Type() {
		case "var", "let", "const":
			if kind == nil {
				kind = c
			}
		case "in", "of":
			if operator == nil {
				operator = c
			}
		}
	}
	if operator == nil {
		return nil, newSyntaxError(n, ErrSyntax, "for loop without in or of")
	}

	out := "ForInStatement"
	if operator.Type() == "of" {
		out = "ForOfStatement"
	}

	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	body := n.ChildByFieldName("body")
	if left == nil || right == nil || body == nil {
		return nil, newSyntaxError(n, ErrSyntax, "incomplete for loop head")
	}

	leftNodes, err := cv.convert(left, inPattern)
	if err != nil {
		return nil, err
	}
	if kind != nil {
		declParts := leftNodes
		if value := n.ChildByFieldName("value"); value != nil {
			init, err := cv.convert(value, 0)
			if err != nil {
				return nil, err
			}
			declParts = append(declParts, init...)
		}
		declarator := raw.NewNode("VariableDeclarator", declParts...)
		leftNodes = []*raw.Node{{
			Type:     "VariableDeclaration",
			Start:    int(kind.StartByte()),
			End:      declarator.End,
			Children: []*raw.Node{declarator},
		}}
	}

	rightNodes, err := cv.convert(right, 0)
	if err != nil {
		return nil, err
	}
	bodyNodes, err := cv.convert(body, 0)
	if err != nil {
		return nil, err
	}

	children := append(leftNodes, rightNodes...)
	children = append(children, bodyNodes...)
	return one(out, n, children)
}

// extendsClause keeps the superclass type arguments next to the
// superclass expression.
func (cv *converter) extendsClause(n *sitter.Node) ([]*raw.Node, error) {
	kids := namedChildren(n)
	if len(kids) == 0 || len(kids) > 2 {
		return nil, newSyntaxError(n, ErrUnsupportedSyntax, "class extends more than one type")
	}
	out, err := cv.convert(kids[0], 0)
	if err != nil {
		return nil, err
	}
	if len(kids) == 2 {
		if kids[1].Type() != "type_arguments" {
			return nil, newSyntaxError(kids[1], ErrUnsupportedSyntax, "class extends more than one type")
		}
		inst, err := cv.typeArguments(kids[1])
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, nil
}

// classBody moves the decorators the grammar lists before a method into
// the method itself.
func (cv *converter) classBody(n *sitter.Node) ([]*raw.Node, error) {
	var (
		members    []*raw.Node
		decorators []*raw.Node
	)
	for _, c := range namedChildren(n) {
		converted, err := cv.convert(c, 0)
		if err != nil {
			return nil, err
		}
		if c.Type() == "decorator" {
			decorators = append(decorators, converted...)
			continue
		}
		if len(decorators) > 0 && len(converted) == 1 {
			member := converted[0]
			member.Children = append(decorators, member.Children...)
			member.Start = decorators[0].Start
			decorators = nil
		}
		members = append(members, converted...)
	}
	if len(decorators) > 0 {
		return nil, newSyntaxError(n, ErrSyntax, "decorator without a class member")
	}
	return one("ClassBody", n, members)
}

func (cv *converter) staticBlock(n *sitter.Node) ([]*raw.Node, error) {
	var children []*raw.Node
	for _, c := range namedChildren(n) {
		var (
			converted []*raw.Node
			err       error
		)
		if c.Type() == "statement_block" {
			converted, err = cv.children(c, 0)
		} else {
			converted, err = cv.convert(c, 0)
		}
		if err != nil {
			return nil, err
		}
		children = append(children, converted...)
	}
	return one("StaticBlock", n, children)
}

func (cv *converter) importClause(n *sitter.Node) ([]*raw.Node, error) {
	var out []*raw.Node
	for _, c := range namedChildren(n) {
		if c.Type() == "identifier" {
			id := span("Identifier", c, nil)
			out = append(out, span("ImportDefaultSpecifier", c, []*raw.Node{id}))
			continue
		}
		converted, err := cv.convert(c, 0)
		if err != nil {
			return nil, err
		}
		out = append(out, converted...)
	}
	return out, nil
}

func (cv *converter) exportStatement(n *sitter.Node) ([]*raw.Node, error) {
	out := "ExportNamedDeclaration"
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch {
		case !c.IsNamed() && c.Type() == "default":
			out = "ExportDefaultDeclaration"
		case !c.IsNamed() && c.Type() == "*", c.Type() == "namespace_export":
			out = "ExportAllDeclaration"
		}
	}
	children, err := cv.children(n, 0)
	if err != nil {
		return nil, err
	}
	return one(out, n, children)
}

// hasJSXName reports whether a JSX tag names an element. Fragment tags
// have no name.
func hasJSXName(n *sitter.Node) bool {
	for _, c := range namedChildren(n) {
		switch c.Type() {
		case "jsx_attribute", "jsx_expression":
		default:
			return true
		}
	}
	return false
}

func (cv *converter) jsxElement(n *sitter.Node) ([]*raw.Node, error) {
	out := "JSXElement"
	kids := namedChildren(n)
	if len(kids) > 0 && kids[0].Type() == "jsx_opening_element" && !hasJSXName(kids[0]) {
		out = "JSXFragment"
	}
	children, err := cv.convertAll(kids, 0)
	if err != nil {
		return nil, err
	}
	return one(out, n, children)
}

// jsxOpening converts an opening or self-closing tag.
func (cv *converter) jsxOpening(n *sitter.Node) (*raw.Node, error) {
	if !hasJSXName(n) {
		return span("JSXOpeningFragment", n, nil), nil
	}
	var children []*raw.Node
	for _, c := range namedChildren(n) {
		pos := inJSXName
		if c.Type() == "jsx_attribute" || c.Type() == "jsx_expression" {
			pos = inJSXAttributes
		}
		converted, err := cv.convert(c, pos)
		if err != nil {
			return nil, err
		}
		children = append(children, converted...)
	}
	return span("JSXOpeningElement", n, children), nil
}

func (cv *converter) jsxExpression(n *sitter.Node, pos position) ([]*raw.Node, error) {
	kids := namedChildren(n)
	if len(kids) == 1 && kids[0].Type() == "spread_element" {
		out := "JSXSpreadChild"
		if pos&inJSXAttributes != 0 {
			out = "JSXSpreadAttribute"
		}
		children, err := cv.children(kids[0], 0)
		if err != nil {
			return nil, err
		}
		return one(out, n, children)
	}
	children, err := cv.convertAll(kids, 0)
	if err != nil {
		return nil, err
	}
	return one("JSXExpressionContainer", n, children)
}
