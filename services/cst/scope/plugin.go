// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package scope

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/jscst/services/cst/element"
	"github.com/AleutianAI/jscst/services/cst/plugin"
)

// ErrInvalidLoopBodyMerge indicates an unknown loop body merge policy.
var ErrInvalidLoopBodyMerge = errors.New("invalid loop body merge policy")

// LoopBodyMerge decides when the block body of a for, for-in or for-of loop
// with a let or const head shares the head's ForHead scope instead of
// getting its own Block scope.
type LoopBodyMerge string

const (
	// MergeLet folds the body only under a let head.
	MergeLet LoopBodyMerge = "let"

	// MergeLexical folds the body under let and const heads.
	MergeLexical LoopBodyMerge = "lexical"

	// MergeNone never folds; the body always gets a Block scope.
	MergeNone LoopBodyMerge = "none"
)

// ParseLoopBodyMerge converts a configuration value to a policy.
func ParseLoopBodyMerge(s string) (LoopBodyMerge, error) {
	switch m := LoopBodyMerge(s); m {
	case MergeLet, MergeLexical, MergeNone:
		return m, nil
	case "":
		return MergeLet, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidLoopBodyMerge, s)
}

func (m LoopBodyMerge) folds(kind string) bool {
	switch m {
	case MergeNone:
		return false
	case MergeLexical:
		return kind == "let" || kind == "const"
	}
	return kind == "let"
}

// AmbientResolver binds names that no scope declares, such as host globals.
type AmbientResolver interface {
	IsAmbient(name string) bool
}

// AmbientTable is an AmbientResolver over a fixed set of names.
type AmbientTable map[string]struct{}

// NewAmbientTable returns a table holding names.
func NewAmbientTable(names ...string) AmbientTable {
	t := make(AmbientTable, len(names))
	for _, n := range names {
		t[n] = struct{}{}
	}
	return t
}

// IsAmbient implements AmbientResolver.
func (t AmbientTable) IsAmbient(name string) bool {
	_, ok := t[name]
	return ok
}

type options struct {
	merge   LoopBodyMerge
	ambient AmbientResolver
	logger  *slog.Logger
}

// Option configures a Plugin.
type Option func(*options)

// WithLoopBodyMerge sets the loop body folding policy. Default MergeLet.
func WithLoopBodyMerge(m LoopBodyMerge) Option {
	return func(o *options) {
		o.merge = m
	}
}

// WithAmbientResolver binds otherwise unresolved references through r.
func WithAmbientResolver(r AmbientResolver) Option {
	return func(o *options) {
		o.ambient = r
	}
}

// WithLogger sets the logger. Default slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Plugin is the scope analysis plugin.
//
// Description:
//
//	Plugin identity is the pointer: two Plugins built with the same
//	options still keep separate cache slots on a Program. Share one Plugin
//	value to share results.
//
// Thread Safety:
//
//	Safe for concurrent use.
type Plugin struct {
	options options
}

// New creates a scope plugin.
//
// Outputs:
//
//	*Plugin - The plugin.
//	error   - ErrInvalidLoopBodyMerge when WithLoopBodyMerge was given a
//	          value ParseLoopBodyMerge would reject.
func New(opts ...Option) (*Plugin, error) {
	o := options{merge: MergeLet}
	for _, opt := range opts {
		opt(&o)
	}
	merge, err := ParseLoopBodyMerge(string(o.merge))
	if err != nil {
		return nil, err
	}
	o.merge = merge
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return &Plugin{options: o}, nil
}

// Default is the plugin used by Acquire.
var Default = &Plugin{options: options{merge: MergeLet, logger: slog.Default()}}

// Name implements plugin.Plugin.
func (p *Plugin) Name() string {
	return "scopes"
}

// Analyze implements plugin.Plugin. Call Acquire or AcquireWith instead to
// get the memoized result.
func (p *Plugin) Analyze(ctx context.Context, prog *element.Program) (*Result, error) {
	start := time.Now()
	ctx, span := startAnalysisSpan(ctx, prog.ID().String())
	defer span.End()

	res, err := analyze(ctx, prog, p.options)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		recordAnalysisMetrics(ctx, time.Since(start), 0, 0, false)
		return nil, fmt.Errorf("scope analysis: %w", err)
	}

	scopes := len(res.Scopes())
	span.SetAttributes(
		attribute.Int("scope_count", scopes),
		attribute.Int("unresolved", len(res.Through)),
	)
	span.SetStatus(codes.Ok, "")
	recordAnalysisMetrics(ctx, time.Since(start), scopes, len(res.Through), true)
	p.options.logger.Debug("scopes analyzed",
		slog.String("program_id", prog.ID().String()),
		slog.Int("scopes", scopes),
		slog.Int("unresolved", len(res.Through)),
		slog.Duration("duration", time.Since(start)),
	)
	return res, nil
}

// Acquire returns the memoized scope analysis of prog using Default.
func Acquire(ctx context.Context, prog *element.Program) (*Result, error) {
	return AcquireWith(ctx, prog, Default)
}

// AcquireWith returns the memoized scope analysis of prog for p.
func AcquireWith(ctx context.Context, prog *element.Program, p *Plugin) (*Result, error) {
	return plugin.Acquire[*element.Program, *Result](ctx, prog, p)
}
