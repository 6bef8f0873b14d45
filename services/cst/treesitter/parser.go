// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package treesitter binds the tree-sitter JavaScript grammars to the raw
// syntax tree and token array consumed by the CST builder.
//
// The default grammar is tsx, which reads JSX and Flow-style type
// annotations (`x: number`, `type T = {...}`, generics). Annotations become
// *TypeAnnotation constructs; TypeScript-only syntax such as interfaces,
// enums and `as` casts is rejected with ErrUnsupportedSyntax. The plain
// JavaScript grammar is available for sources where `a < b > (c)` must read
// as comparisons.
//
// tree-sitter produces a concrete tree whose node names follow the grammar
// ("lexical_declaration", "statement_block"). The binding renames them to
// ESTree constructs, drops grammar-internal wrappers, synthesizes the few
// ESTree constructs the grammar lacks, and extracts the lexical tokens from
// the leaves. Whitespace is never reported; comments and the hashbang line
// are.
package treesitter

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/jscst/services/cst/raw"
)

// DefaultMaxFileSize is the default content limit (10MB).
const DefaultMaxFileSize = 10 * 1024 * 1024

// Parser parses JavaScript (with JSX and type annotations) into a raw.File.
//
// Description:
//
//	Each Parse call creates its own tree-sitter parser instance, parses the
//	content, refuses trees containing ERROR or MISSING nodes, and converts
//	the concrete tree into ESTree-shaped raw nodes plus raw tokens.
//
// Thread Safety:
//
//	Parser is safe for concurrent use.
type Parser struct {
	options Options
}

// Options configures Parser behavior.
type Options struct {
	// MaxFileSize is the maximum content size in bytes.
	// Default: 10MB
	MaxFileSize int

	// TypeAnnotations selects the tsx grammar, which accepts type
	// annotations. When false the plain JavaScript grammar is used.
	// Default: true
	TypeAnnotations bool

	// Logger receives debug output. Default: slog.Default().
	Logger *slog.Logger
}

// Option is a functional option for configuring Parser.
type Option func(*Options)

// WithMaxFileSize sets the maximum content size.
func WithMaxFileSize(size int) Option {
	return func(o *Options) {
		o.MaxFileSize = size
	}
}

// WithTypeAnnotations selects between the tsx grammar (true) and the plain
// JavaScript grammar (false).
func WithTypeAnnotations(enabled bool) Option {
	return func(o *Options) {
		o.TypeAnnotations = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// NewParser creates a Parser with the given options.
func NewParser(opts ...Option) *Parser {
	options := Options{MaxFileSize: DefaultMaxFileSize, TypeAnnotations: true}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	return &Parser{options: options}
}

// Parse converts content into a raw syntax tree and token array.
//
// Inputs:
//
//	ctx     - Context for cancellation. Checked before and after parsing.
//	content - JavaScript source. Must be valid UTF-8.
//
// Outputs:
//
//	*raw.File - Program spanning the whole content, plus tokens.
//	error     - ErrInvalidContent, ErrFileTooLarge, or a *SyntaxError
//	            matching ErrSyntax or ErrUnsupportedSyntax.
func (p *Parser) Parse(ctx context.Context, content []byte) (*raw.File, error) {
	start := time.Now()
	ctx, span := startParseSpan(ctx, len(content))
	defer span.End()

	file, err := p.parse(ctx, content)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		recordParseMetrics(ctx, time.Since(start), 0, false)
		return nil, err
	}

	span.SetAttributes(attribute.Int("token_count", len(file.Tokens)))
	span.SetStatus(codes.Ok, "")
	recordParseMetrics(ctx, time.Since(start), len(file.Tokens), true)
	p.options.Logger.Debug("treesitter parse complete",
		slog.Int("bytes", len(content)),
		slog.Int("tokens", len(file.Tokens)),
		slog.Duration("duration", time.Since(start)),
	)
	return file, nil
}

func (p *Parser) parse(ctx context.Context, content []byte) (*raw.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled before start: %w", err)
	}
	if content == nil || !utf8.Valid(content) {
		return nil, ErrInvalidContent
	}
	if p.options.MaxFileSize > 0 && len(content) > p.options.MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, len(content), p.options.MaxFileSize)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	if p.options.TypeAnnotations {
		parser.SetLanguage(tsx.GetLanguage())
	} else {
		parser.SetLanguage(javascript.GetLanguage())
	}

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled after tree-sitter: %w", err)
	}

	root := tree.RootNode()
	if root.HasError() {
		return nil, firstSyntaxError(root, content)
	}

	conv := &converter{src: content}
	program, err := conv.program(root)
	if err != nil {
		return nil, err
	}

	return &raw.File{
		Source:  content,
		Program: program,
		Tokens:  extractTokens(root, content),
	}, nil
}

// firstSyntaxError finds the first ERROR or MISSING node in document order.
func firstSyntaxError(root *sitter.Node, content []byte) error {
	var found *sitter.Node
	var visit func(n *sitter.Node) bool
	visit = func(n *sitter.Node) bool {
		if n.IsError() || n.IsMissing() {
			found = n
			return true
		}
		if !n.HasError() {
			return false
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if visit(n.Child(i)) {
				return true
			}
		}
		return false
	}

	if !visit(root) {
		found = root
	}

	msg := "unexpected input"
	if found.IsMissing() {
		msg = fmt.Sprintf("missing %s", found.Type())
	} else if end := int(found.EndByte()); end > int(found.StartByte()) && end <= len(content) {
		msg = fmt.Sprintf("unexpected %s", truncate(string(content[found.StartByte():end]), 40))
	}
	return newSyntaxError(found, ErrSyntax, msg)
}

func newSyntaxError(n *sitter.Node, kind error, msg string) *SyntaxError {
	pt := n.StartPoint()
	return &SyntaxError{
		Line:    int(pt.Row) + 1,
		Column:  int(pt.Column),
		Offset:  int(n.StartByte()),
		Message: msg,
		Kind:    kind,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%q...", s[:n])
}
