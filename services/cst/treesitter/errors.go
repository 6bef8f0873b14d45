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
	"errors"
	"fmt"
)

// Sentinel errors for binding failures.
var (
	// ErrSyntax indicates the source does not parse. tree-sitter recovers
	// from errors by inserting ERROR and MISSING nodes; the binding refuses
	// such trees because they cannot be mapped to raw constructs.
	ErrSyntax = errors.New("syntax error")

	// ErrInvalidContent indicates the content is nil or not valid UTF-8.
	ErrInvalidContent = errors.New("invalid content")

	// ErrFileTooLarge indicates the content exceeds the configured limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrUnsupportedSyntax indicates a construct the grammar accepts but the
	// binding has no raw mapping for (Flow annotations, using declarations).
	ErrUnsupportedSyntax = errors.New("unsupported syntax")
)

// SyntaxError locates a binding failure in the source.
//
// Example:
//
//	file, err := p.Parse(ctx, src)
//	var sErr *treesitter.SyntaxError
//	if errors.As(err, &sErr) {
//	    fmt.Printf("%d:%d: %s\n", sErr.Line, sErr.Column, sErr.Message)
//	}
type SyntaxError struct {
	// Line is 1-indexed.
	Line int

	// Column is the 0-indexed byte column.
	Column int

	// Offset is the byte offset of the failing construct.
	Offset int

	// Message describes the failure.
	Message string

	// Kind is ErrSyntax or ErrUnsupportedSyntax.
	Kind error
}

// Error implements error.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s", e.Line, e.Column, e.Kind, e.Message)
}

// Unwrap returns the sentinel kind.
func (e *SyntaxError) Unwrap() error {
	return e.Kind
}
