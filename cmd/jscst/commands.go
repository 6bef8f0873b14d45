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
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/jscst/services/cst/element"
	"github.com/AleutianAI/jscst/services/cst/scope"
)

// errCheckFailed is returned by check when any file fails.
var errCheckFailed = errors.New("check failed")

// maxSourceRead bounds reads from stdin; files are bounded by the parser.
const maxSourceRead = 64 << 20

func newTokensCmd(a *app) *cobra.Command {
	var codeOnly bool
	cmd := &cobra.Command{
		Use:   "tokens FILE",
		Short: "Print the normalized token sequence",
		Long:  "Print every token with its position and kind. FILE may be - for stdin.",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().BoolVar(&codeOnly, "code", false, "omit whitespace and comment tokens")
	cmd.RunE = a.run(func(cmd *cobra.Command, args []string) error {
		prog, err := a.parse(cmd, args[0])
		if err != nil {
			return err
		}
		return printTokens(cmd.OutOrStdout(), prog, codeOnly)
	})
	return cmd
}

func newTreeCmd(a *app) *cobra.Command {
	var withTokens bool
	cmd := &cobra.Command{
		Use:   "tree FILE",
		Short: "Print the element tree",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().BoolVar(&withTokens, "tokens", false, "include tokens under their owning node")
	cmd.RunE = a.run(func(cmd *cobra.Command, args []string) error {
		prog, err := a.parse(cmd, args[0])
		if err != nil {
			return err
		}
		return printTree(cmd.OutOrStdout(), prog, withTokens)
	})
	return cmd
}

func newScopesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scopes FILE",
		Short: "Print the scope tree with variables and references",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.run(func(cmd *cobra.Command, args []string) error {
		prog, err := a.parse(cmd, args[0])
		if err != nil {
			return err
		}
		res, err := scope.AcquireWith(cmd.Context(), prog, a.scopes)
		if err != nil {
			return err
		}
		return printScopes(cmd.OutOrStdout(), prog, res)
	})
	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	var withScopes bool
	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Parse files and verify the tree owns every byte",
		Long: `Parse each file, verify that every token has exactly one owner and that
the tree reproduces the source, and optionally run scope analysis. Files
are checked in parallel; results are printed in argument order.`,
		Args: cobra.MinimumNArgs(1),
	}
	cmd.Flags().BoolVar(&withScopes, "scopes", false, "also run scope analysis")
	cmd.RunE = a.run(func(cmd *cobra.Command, args []string) error {
		results := make([]checkResult, len(args))

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(runtime.GOMAXPROCS(0))
		for i, path := range args {
			g.Go(func() error {
				results[i] = a.check(ctx, cmd, path, withScopes)
				return nil
			})
		}
		_ = g.Wait()

		out := cmd.OutOrStdout()
		failed := 0
		for _, r := range results {
			if r.err != nil {
				failed++
				fmt.Fprintf(out, "%s: %v\n", r.path, r.err)
				continue
			}
			fmt.Fprintf(out, "%s: ok (%d nodes, %d tokens)\n", r.path, r.nodes, r.tokens)
		}
		if failed > 0 {
			return fmt.Errorf("%w: %d of %d files", errCheckFailed, failed, len(args))
		}
		return nil
	})
	return cmd
}

type checkResult struct {
	path   string
	nodes  int
	tokens int
	err    error
}

func (a *app) check(ctx context.Context, cmd *cobra.Command, path string, withScopes bool) checkResult {
	r := checkResult{path: path}
	src, err := readSource(cmd, path)
	if err != nil {
		r.err = err
		return r
	}
	prog, err := a.parser.Parse(ctx, src)
	if err != nil {
		r.err = err
		return r
	}
	if err := verifyOwnership(prog, string(src)); err != nil {
		r.err = err
		return r
	}
	if withScopes {
		if _, err := scope.AcquireWith(ctx, prog, a.scopes); err != nil {
			r.err = err
			return r
		}
	}
	element.Walk(prog, func(element.Node) bool {
		r.nodes++
		return true
	})
	r.tokens = len(prog.Tokens())
	return r
}

// verifyOwnership checks that each token has one owner reachable from the
// root and that the tree reproduces src.
func verifyOwnership(prog *element.Program, src string) error {
	seen := make(map[*element.Token]bool, len(prog.Tokens()))
	for _, t := range element.Tokens(prog) {
		if seen[t] {
			return fmt.Errorf("token %s owned twice", t)
		}
		seen[t] = true
	}
	for i, t := range prog.Tokens() {
		if t == nil || !seen[t] {
			return fmt.Errorf("token #%d is not in the tree", i)
		}
	}
	if len(seen) != len(prog.Tokens()) {
		return fmt.Errorf("tree holds %d tokens, program has %d", len(seen), len(prog.Tokens()))
	}
	if got := element.SourceCode(prog); got != src {
		return fmt.Errorf("tree reproduces %d bytes, source has %d", len(got), len(src))
	}
	return nil
}

func (a *app) parse(cmd *cobra.Command, path string) (*element.Program, error) {
	src, err := readSource(cmd, path)
	if err != nil {
		return nil, err
	}
	prog, err := a.parser.Parse(cmd.Context(), src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return prog, nil
}

func readSource(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), maxSourceRead))
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
