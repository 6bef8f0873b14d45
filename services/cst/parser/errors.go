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
	"errors"
	"fmt"

	"github.com/AleutianAI/jscst/services/cst/token"
)

var (
	// ErrStrictMode indicates a construct that strict mode code may not
	// contain.
	ErrStrictMode = errors.New("not allowed in strict mode")

	// ErrModuleSyntax indicates import or export in a script.
	ErrModuleSyntax = errors.New("import and export require a module")

	// ErrInvalidSourceType is returned by ParseSourceType.
	ErrInvalidSourceType = errors.New("invalid source type")
)

// ViolationError locates a construct rejected after the tree was built.
//
// Example:
//
//	_, err := p.Parse(ctx, src)
//	var v *parser.ViolationError
//	if errors.As(err, &v) && errors.Is(err, parser.ErrStrictMode) {
//	    fmt.Printf("%d:%d: %s\n", v.Position.Line, v.Position.Column, v.Construct)
//	}
type ViolationError struct {
	// Kind is ErrStrictMode or ErrModuleSyntax.
	Kind error

	// Construct names what was rejected, for example "with statement".
	Construct string

	// NodeType is the ESTree type of the rejected node.
	NodeType string

	// Range is the byte range of the rejected node.
	Range token.Range

	// Position is the start of Range.
	Position token.Position
}

// Error implements error.
func (e *ViolationError) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s", e.Position.Line, e.Position.Column, e.Construct, e.Kind)
}

// Unwrap returns Kind.
func (e *ViolationError) Unwrap() error {
	return e.Kind
}
