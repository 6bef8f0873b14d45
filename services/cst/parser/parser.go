// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package parser turns JavaScript source into a lossless element tree.
//
// A Parser runs the three stages in order: the tree-sitter binding yields
// the raw tree and tokens, token.Normalize fills the whitespace gaps, and
// element.Build constructs the tree. It then applies the checks the
// grammar parser does not make: strict-mode restrictions and, for scripts,
// the ban on import and export.
//
// # Usage
//
//	p := parser.New(parser.WithSourceType(parser.Script))
//	prog, err := p.Parse(ctx, src)
//	if err != nil {
//	    return fmt.Errorf("parse %s: %w", path, err)
//	}
//	res, err := scope.Acquire(ctx, prog)
package parser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/jscst/services/cst/element"
	"github.com/AleutianAI/jscst/services/cst/telemetry"
	"github.com/AleutianAI/jscst/services/cst/token"
	"github.com/AleutianAI/jscst/services/cst/treesitter"
)

// SourceType selects module or script goal.
type SourceType string

const (
	// Module allows import and export declarations.
	Module SourceType = "module"

	// Script rejects import and export declarations with ErrModuleSyntax.
	Script SourceType = "script"
)

// ParseSourceType converts "module" or "script" (case-insensitive). The
// empty string is Module.
func ParseSourceType(s string) (SourceType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Module):
		return Module, nil
	case string(Script):
		return Script, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSourceType, s)
}

// Options configures a Parser.
type Options struct {
	// SourceType is Module or Script. Default: Module
	SourceType SourceType

	// MaxFileSize limits the source size in bytes; 0 disables the limit.
	// Default: treesitter.DefaultMaxFileSize
	MaxFileSize int

	// StrictMode is the initial strict mode setting. Default: true
	StrictMode bool

	// TypeAnnotations accepts Flow-style type annotations. Default: true
	TypeAnnotations bool

	// Logger receives debug output. Default: slog.Default()
	Logger *slog.Logger
}

// Option is a functional option for configuring Parser.
type Option func(*Options)

// WithSourceType sets the source type.
func WithSourceType(t SourceType) Option {
	return func(o *Options) {
		o.SourceType = t
	}
}

// WithMaxFileSize sets the source size limit.
func WithMaxFileSize(size int) Option {
	return func(o *Options) {
		o.MaxFileSize = size
	}
}

// WithStrictMode sets the initial strict mode.
func WithStrictMode(enabled bool) Option {
	return func(o *Options) {
		o.StrictMode = enabled
	}
}

// WithTypeAnnotations enables or disables type annotation syntax.
func WithTypeAnnotations(enabled bool) Option {
	return func(o *Options) {
		o.TypeAnnotations = enabled
	}
}

// WithLogger sets the logger. It is passed to every stage and to the
// plugin cache of the parsed programs.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// Parser parses JavaScript source into *element.Program.
//
// Thread Safety:
//
//	Safe for concurrent use. Strict mode may be toggled while parses run;
//	each parse uses the setting read at its start.
type Parser struct {
	options Options
	strict  atomic.Bool
	binding *treesitter.Parser
}

// New creates a Parser. Strict mode is on unless WithStrictMode(false) is
// given.
func New(opts ...Option) *Parser {
	options := Options{
		SourceType:      Module,
		MaxFileSize:     treesitter.DefaultMaxFileSize,
		StrictMode:      true,
		TypeAnnotations: true,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.SourceType == "" {
		options.SourceType = Module
	}

	p := &Parser{
		options: options,
		binding: treesitter.NewParser(
			treesitter.WithMaxFileSize(options.MaxFileSize),
			treesitter.WithTypeAnnotations(options.TypeAnnotations),
			treesitter.WithLogger(options.Logger),
		),
	}
	p.strict.Store(options.StrictMode)
	return p
}

// IsStrictModeEnabled reports the current strict mode setting.
func (p *Parser) IsStrictModeEnabled() bool {
	return p.strict.Load()
}

// EnableStrictMode turns strict mode on for later parses.
func (p *Parser) EnableStrictMode() {
	p.strict.Store(true)
}

// DisableStrictMode turns strict mode off for later parses. A source with
// a "use strict" directive is still checked.
func (p *Parser) DisableStrictMode() {
	p.strict.Store(false)
}

// SourceType returns the configured source type.
func (p *Parser) SourceType() SourceType {
	return p.options.SourceType
}

// Parse builds the element tree of src.
//
// Description:
//
//	Runs the grammar parser, the token normalizer and the tree builder,
//	then walks the tree for strict-mode and module-syntax violations. No
//	tree is returned when any stage fails.
//
// Inputs:
//
//	ctx - Context for cancellation and tracing.
//	src - JavaScript source, valid UTF-8.
//
// Outputs:
//
//	*element.Program - The tree, owning every byte of src.
//	error            - The failing stage's error, wrapped: a
//	                   *treesitter.SyntaxError, a token or element
//	                   construction error, or a *ViolationError matching
//	                   ErrStrictMode or ErrModuleSyntax.
//
// Example:
//
//	prog, err := parser.New().Parse(ctx, []byte("let a = 1;"))
//	if err != nil {
//	    return err
//	}
//	fmt.Println(prog.Source() == "let a = 1;") // true
func (p *Parser) Parse(ctx context.Context, src []byte) (*element.Program, error) {
	strict := p.IsStrictModeEnabled()
	ctx, span := telemetry.StartSpan(ctx, tracerName, "Parser.Parse",
		trace.WithAttributes(
			attribute.Int("bytes", len(src)),
			attribute.String("source_type", string(p.options.SourceType)),
			attribute.Bool("strict_mode", strict),
		),
	)
	defer span.End()

	start := time.Now()
	prog, err := p.parse(ctx, src, strict)
	if err != nil {
		telemetry.RecordError(span, err)
		recordParse(time.Since(start), err)
		return nil, err
	}

	span.SetAttributes(attribute.String("program_id", prog.ID().String()))
	telemetry.SetSpanOK(span)
	recordParse(time.Since(start), nil)
	telemetry.LoggerWithTrace(ctx, p.options.Logger).Debug("source parsed",
		slog.String("program_id", prog.ID().String()),
		slog.Int("bytes", len(src)),
		slog.Bool("strict_mode", strict),
		slog.Duration("duration", time.Since(start)),
	)
	return prog, nil
}

func (p *Parser) parse(ctx context.Context, src []byte, strict bool) (*element.Program, error) {
	file, err := p.binding.Parse(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("parsing source: %w", err)
	}
	tokens, err := token.Normalize(file.Tokens, file.Source)
	if err != nil {
		return nil, fmt.Errorf("normalizing tokens: %w", err)
	}
	prog, err := element.Build(ctx, file, tokens, element.WithLogger(p.options.Logger))
	if err != nil {
		return nil, fmt.Errorf("building tree: %w", err)
	}
	if v := check(prog, strict || hasUseStrict(prog), p.options.SourceType == Script); v != nil {
		violations.WithLabelValues(v.Kind.Error()).Inc()
		return nil, v
	}
	return prog, nil
}
