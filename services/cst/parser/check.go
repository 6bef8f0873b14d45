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
	"github.com/AleutianAI/jscst/services/cst/element"
	"github.com/AleutianAI/jscst/services/cst/token"
)

// check returns the first violation in source order, or nil.
func check(prog *element.Program, strict, script bool) *ViolationError {
	var found element.Node
	var construct string
	var kind error

	element.Walk(prog, func(n element.Node) bool {
		if found != nil {
			return false
		}
		if c, k := violation(n, strict, script); c != "" {
			found, construct, kind = n, c, k
			return false
		}
		return true
	})
	if found == nil {
		return nil
	}

	rng := found.Range()
	return &ViolationError{
		Kind:      kind,
		Construct: construct,
		NodeType:  found.Type(),
		Range:     rng,
		Position:  token.NewLineIndex([]byte(prog.Source())).Position(rng.Start),
	}
}

func violation(n element.Node, strict, script bool) (string, error) {
	switch n := n.(type) {
	case *element.WithStatement:
		if strict {
			return "with statement", ErrStrictMode
		}
	case *element.NumericLiteral:
		if strict && n.LegacyOctal() {
			return "legacy octal literal " + n.Raw(), ErrStrictMode
		}
	case *element.UnaryExpression:
		if strict && n.Operator() == "delete" && isIdentifier(n.Argument()) {
			return "delete of an unqualified identifier", ErrStrictMode
		}
	case *element.ImportDeclaration:
		if script {
			return "import declaration", ErrModuleSyntax
		}
	case *element.ExportNamedDeclaration, *element.ExportDefaultDeclaration, *element.ExportAllDeclaration:
		if script {
			return "export declaration", ErrModuleSyntax
		}
	}
	return "", nil
}

func isIdentifier(n element.Node) bool {
	for {
		switch v := n.(type) {
		case *element.Identifier:
			return true
		case *element.ParenthesizedExpression:
			n = v.Expression()
		default:
			return false
		}
	}
}

// hasUseStrict reports a "use strict" directive in the program prologue.
func hasUseStrict(prog *element.Program) bool {
	for _, stmt := range prog.Body() {
		es, ok := stmt.(*element.ExpressionStatement)
		if !ok {
			return false
		}
		lit, ok := es.Expression().(*element.StringLiteral)
		if !ok {
			return false
		}
		if lit.Value() == "use strict" {
			return true
		}
	}
	return false
}
