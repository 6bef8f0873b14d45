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
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/jscst/services/cst/plugin"
	"github.com/AleutianAI/jscst/services/cst/raw"
	"github.com/AleutianAI/jscst/services/cst/token"
)

// BuildOption configures Build.
type BuildOption func(*buildOptions)

type buildOptions struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for build summaries and handed to the
// plugin cache of the built Program.
func WithLogger(logger *slog.Logger) BuildOption {
	return func(o *buildOptions) {
		o.logger = logger
	}
}

// builder holds the state of one Build call.
type builder struct {
	ctx    context.Context
	tokens []token.Token
	// owned[i] is the element that took tokens[i].
	owned []*Token
	nodes int
}

// Build constructs the tree for file from its normalized tokens.
//
// Description:
//
//	Walks the raw tree in pre-order. Each raw node becomes its variant,
//	whose grammar consumes the node's tokens and raw children; a child is
//	attached to its parent only after its own grammar succeeded. The root
//	must be a Program spanning the whole source.
//
// Inputs:
//
//	ctx    - Context for cancellation and tracing.
//	file   - Raw tree and source from the grammar parser.
//	tokens - Output of token.Normalize for the same file.
//
// Outputs:
//
//	*Program - The complete tree. Nil on error.
//	error    - A *TreeConstructionError naming the innermost node that
//	           could not be built; no partial tree is returned.
//
// Example:
//
//	tokens, err := token.Normalize(file.Tokens, file.Source)
//	if err != nil {
//	    return err
//	}
//	prog, err := element.Build(ctx, file, tokens)
func Build(ctx context.Context, file *raw.File, tokens []token.Token, opts ...BuildOption) (*Program, error) {
	options := buildOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	start := time.Now()
	ctx, span := startBuildSpan(ctx, len(tokens))
	defer span.End()

	prog, nodes, err := build(ctx, file, tokens)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		recordBuildMetrics(ctx, time.Since(start), 0, false)
		return nil, err
	}

	prog.id = uuid.New()
	prog.cache = plugin.NewCache(options.logger)

	span.SetAttributes(
		attribute.String("program_id", prog.id.String()),
		attribute.Int("node_count", nodes),
	)
	span.SetStatus(codes.Ok, "")
	recordBuildMetrics(ctx, time.Since(start), nodes, true)
	options.logger.Debug("tree built",
		slog.String("program_id", prog.id.String()),
		slog.Int("nodes", nodes),
		slog.Int("tokens", len(tokens)),
		slog.Duration("duration", time.Since(start)),
	)
	return prog, nil
}

func build(ctx context.Context, file *raw.File, tokens []token.Token) (*Program, int, error) {
	if file == nil || file.Program == nil {
		return nil, 0, &TreeConstructionError{
			Type:  TypeProgram,
			Cause: fmt.Errorf("%w: no root node", ErrUnexpectedNode),
		}
	}
	root := file.Program
	rootRange := token.Range{Start: root.Start, End: root.End}

	if root.Type != TypeProgram {
		return nil, 0, &TreeConstructionError{
			Type:  root.Type,
			Range: rootRange,
			Cause: &GrammarError{Kind: ErrUnexpectedNode, NodeType: "root", Expected: "node Program", Found: "node " + root.Type, Range: rootRange},
		}
	}
	if root.Start != 0 || root.End != len(file.Source) {
		return nil, 0, &TreeConstructionError{
			Type:  root.Type,
			Range: rootRange,
			Cause: fmt.Errorf("%w: root must span [0,%d)", ErrMisalignedNode, len(file.Source)),
		}
	}
	if err := checkCoverage(tokens, len(file.Source)); err != nil {
		return nil, 0, &TreeConstructionError{Type: root.Type, Range: rootRange, Cause: err}
	}

	b := &builder{
		ctx:    ctx,
		tokens: tokens,
		owned:  make([]*Token, len(tokens)),
	}
	v, err := b.build(root)
	if err != nil {
		return nil, 0, err
	}

	prog := v.(*Program)
	prog.source = file.Source
	prog.tokens = b.owned
	return prog, b.nodes, nil
}

// checkCoverage verifies the tokens tile [0, size).
func checkCoverage(tokens []token.Token, size int) error {
	pos := 0
	for i, t := range tokens {
		if t.Range.Start != pos || t.Range.End <= t.Range.Start {
			return fmt.Errorf("%w: token #%d at %s does not follow offset %d", token.ErrMalformedTokenStream, i, t.Range, pos)
		}
		pos = t.Range.End
	}
	if pos != size {
		return fmt.Errorf("%w: tokens end at %d, source has %d bytes", token.ErrMalformedTokenStream, pos, size)
	}
	return nil
}

// boundary returns the index of the first token starting at or after off,
// and whether off falls on a token boundary.
func (b *builder) boundary(off int) (int, bool) {
	i := sort.Search(len(b.tokens), func(k int) bool {
		return b.tokens[k].Range.Start >= off
	})
	if i == len(b.tokens) {
		end := 0
		if len(b.tokens) > 0 {
			end = b.tokens[len(b.tokens)-1].Range.End
		}
		return i, off == end
	}
	return i, b.tokens[i].Range.Start == off
}

func (b *builder) own(i int, t *Token) {
	b.owned[i] = t
}

// align checks the raw node and its children against the token grid and
// returns the node's token index range.
func (b *builder) align(r *raw.Node) (int, int, error) {
	if r.End < r.Start {
		return 0, 0, fmt.Errorf("%w: negative range", ErrMisalignedNode)
	}
	first, ok := b.boundary(r.Start)
	if !ok {
		return 0, 0, fmt.Errorf("%w: start %d cuts through a token", ErrMisalignedNode, r.Start)
	}
	last, ok := b.boundary(r.End)
	if !ok {
		return 0, 0, fmt.Errorf("%w: end %d cuts through a token", ErrMisalignedNode, r.End)
	}

	prevEnd := r.Start
	for _, c := range r.Children {
		if c == nil {
			return 0, 0, fmt.Errorf("%w: nil child", ErrMisalignedNode)
		}
		if c.Start < r.Start || c.End > r.End {
			return 0, 0, fmt.Errorf("%w: child %s outside parent", ErrMisalignedNode, c)
		}
		if c.Start < prevEnd {
			return 0, 0, fmt.Errorf("%w: child %s overlaps previous sibling", ErrMisalignedNode, c)
		}
		if _, ok := b.boundary(c.Start); !ok {
			return 0, 0, fmt.Errorf("%w: child %s cuts through a token", ErrMisalignedNode, c)
		}
		if _, ok := b.boundary(c.End); !ok {
			return 0, 0, fmt.Errorf("%w: child %s cuts through a token", ErrMisalignedNode, c)
		}
		prevEnd = c.End
	}
	return first, last, nil
}

// build constructs the variant for r.
func (b *builder) build(r *raw.Node) (variant, error) {
	rng := token.Range{Start: r.Start, End: r.End}
	fail := func(cause error) (variant, error) {
		return nil, &TreeConstructionError{Type: r.Type, Range: rng, Cause: cause}
	}

	if err := b.ctx.Err(); err != nil {
		return fail(err)
	}

	v := newVariant(r.Type)
	if v == nil {
		return fail(fmt.Errorf("%w: %s", ErrUnknownNodeType, r.Type))
	}
	first, last, err := b.align(r)
	if err != nil {
		return fail(err)
	}

	nb := v.base()
	nb.typ = r.Type
	nb.rng = rng

	c := &Cursor{
		b:      b,
		node:   v,
		tokens: b.tokens[first:last],
		first:  first,
		raws:   r.Children,
	}
	v.grammar(c)
	c.AssertFullyConsumed()

	if c.err != nil {
		if c.childErr {
			return nil, c.err
		}
		return fail(c.err)
	}
	b.nodes++
	return v, nil
}
