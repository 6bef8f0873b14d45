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
	"errors"
	"fmt"

	"github.com/AleutianAI/jscst/services/cst/token"
)

// Sentinel errors for tree construction failures.
//
// Grammar failures (the first three) are always reported wrapped in a
// *TreeConstructionError, so both errors.Is(err, ErrTreeConstruction) and
// errors.Is(err, ErrUnexpectedToken) hold for the same error.
var (
	// ErrUnexpectedToken indicates a grammar expected a token of a given
	// kind or literal and found something else.
	ErrUnexpectedToken = errors.New("unexpected token")

	// ErrUnexpectedNode indicates a grammar expected a sub-node of a given
	// type and found something else.
	ErrUnexpectedNode = errors.New("unexpected node")

	// ErrUnconsumedTokens indicates a grammar finished while tokens or
	// sub-nodes of its node remained.
	ErrUnconsumedTokens = errors.New("unconsumed tokens")

	// ErrTreeConstruction indicates the tree could not be built.
	ErrTreeConstruction = errors.New("tree construction failed")

	// ErrMisalignedNode indicates a raw node whose range cuts through a
	// token, lies outside its parent, or overlaps a sibling.
	ErrMisalignedNode = errors.New("misaligned node")

	// ErrUnknownNodeType indicates a raw node type with no variant.
	ErrUnknownNodeType = errors.New("unknown node type")
)

// GrammarError describes a failed grammar expectation.
type GrammarError struct {
	// Kind is ErrUnexpectedToken, ErrUnexpectedNode or ErrUnconsumedTokens.
	Kind error

	// NodeType is the type of the node whose grammar failed.
	NodeType string

	// Expected describes what the grammar asked for.
	Expected string

	// Found describes what was there instead.
	Found string

	// Range is where the unexpected input starts.
	Range token.Range
}

// Error implements error.
func (e *GrammarError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("%s in %s: %s at %s", e.Kind, e.NodeType, e.Found, e.Range)
	}
	return fmt.Sprintf("%s in %s: expected %s, found %s at %s", e.Kind, e.NodeType, e.Expected, e.Found, e.Range)
}

// Unwrap returns the sentinel kind.
func (e *GrammarError) Unwrap() error {
	return e.Kind
}

// TreeConstructionError reports the node that could not be built.
//
// Example:
//
//	prog, err := element.Build(ctx, file, tokens)
//	var tErr *element.TreeConstructionError
//	if errors.As(err, &tErr) {
//	    fmt.Printf("%s at %s: %v\n", tErr.Type, tErr.Range, tErr.Cause)
//	}
type TreeConstructionError struct {
	// Type is the raw node type being built.
	Type string

	// Range is the raw node's byte range.
	Range token.Range

	// Cause is the underlying failure: a *GrammarError, a misalignment,
	// an unknown type, or context cancellation.
	Cause error
}

// Error implements error.
func (e *TreeConstructionError) Error() string {
	return fmt.Sprintf("%s: %s%s: %v", ErrTreeConstruction, e.Type, e.Range, e.Cause)
}

// Unwrap exposes both ErrTreeConstruction and the cause.
func (e *TreeConstructionError) Unwrap() []error {
	return []error{ErrTreeConstruction, e.Cause}
}
