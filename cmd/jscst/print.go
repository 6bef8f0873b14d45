// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/AleutianAI/jscst/services/cst/element"
	"github.com/AleutianAI/jscst/services/cst/scope"
	"github.com/AleutianAI/jscst/services/cst/token"
)

// printTokens writes one line per token: position, kind and quoted value.
func printTokens(w io.Writer, prog *element.Program, codeOnly bool) error {
	bw := bufio.NewWriter(w)
	lines := token.NewLineIndex([]byte(prog.Source()))
	for _, t := range prog.Tokens() {
		if codeOnly && !t.IsCode() {
			continue
		}
		pos := lines.Position(t.Range().Start)
		fmt.Fprintf(bw, "%d:%d\t%-18s %q\n", pos.Line, pos.Column, t.Kind(), t.Value())
	}
	return bw.Flush()
}

// printTree writes the node hierarchy, two spaces per level.
func printTree(w io.Writer, prog *element.Program, withTokens bool) error {
	bw := bufio.NewWriter(w)
	depth := func(e element.Element) int {
		return len(element.Ancestors(e))
	}
	element.Inspect(prog, func(e element.Element) bool {
		indent := strings.Repeat("  ", depth(e))
		switch e := e.(type) {
		case *element.Token:
			if withTokens {
				fmt.Fprintf(bw, "%s%s %q\n", indent, e.Kind(), e.Value())
			}
		case element.Node:
			fmt.Fprintf(bw, "%s%s %s\n", indent, e.Type(), e.Range())
		}
		return true
	})
	return bw.Flush()
}

// printScopes writes the scope tree with each variable's declaration kind
// and references, followed by the references no scope declares.
func printScopes(w io.Writer, prog *element.Program, res *scope.Result) error {
	bw := bufio.NewWriter(w)
	lines := token.NewLineIndex([]byte(prog.Source()))
	at := func(id *element.Identifier) string {
		pos := lines.Position(id.Range().Start)
		return fmt.Sprintf("%d:%d", pos.Line, pos.Column)
	}

	var walk func(s *scope.Scope, depth int)
	walk = func(s *scope.Scope, depth int) {
		indent := strings.Repeat("  ", depth)
		fmt.Fprintf(bw, "%s%s %s\n", indent, s.Kind, s.Block.Range())
		for _, v := range append(append([]*scope.Variable{}, s.Variables...), s.Ambient...) {
			fmt.Fprintf(bw, "%s  %s %s", indent, v.Type, v.Name)
			for _, d := range v.Definitions {
				fmt.Fprintf(bw, " def@%s", at(d.Node))
			}
			for _, r := range v.References {
				fmt.Fprintf(bw, " %s@%s", flags(r), at(r.Node))
			}
			fmt.Fprintln(bw)
		}
		for _, c := range s.ChildScopes {
			walk(c, depth+1)
		}
	}
	walk(res.Global, 0)

	if len(res.Through) > 0 {
		fmt.Fprintln(bw, "unresolved:")
		for _, r := range res.Through {
			fmt.Fprintf(bw, "  %s %s@%s\n", r.Node.Name(), flags(r), at(r.Node))
		}
	}
	return bw.Flush()
}

func flags(r *scope.Reference) string {
	switch {
	case r.IsReadWrite():
		return "rw"
	case r.IsWrite():
		return "w"
	default:
		return "r"
	}
}
