// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package token

import (
	"errors"
	"fmt"
)

// ErrMalformedTokenStream indicates that the grammar parser produced a token
// array that cannot describe the source: tokens out of order, overlapping,
// empty, outside the source, or separated by non-whitespace text.
//
// It is fatal. The grammar parser violated its contract and there is no
// recovery.
var ErrMalformedTokenStream = errors.New("malformed token stream")

// MalformedTokenStreamError describes where normalization failed.
//
// Example:
//
//	tokens, err := token.Normalize(file.Tokens, file.Source)
//	var mErr *token.MalformedTokenStreamError
//	if errors.As(err, &mErr) {
//	    fmt.Printf("bad token #%d at %s: %s\n", mErr.Index, mErr.Range, mErr.Reason)
//	}
type MalformedTokenStreamError struct {
	// Index is the position of the offending raw token, or -1 when the
	// problem is a gap after the last token.
	Index int

	// Range is the byte range of the offending token or gap.
	Range Range

	// Reason describes the violation.
	Reason string
}

// Error implements error.
func (e *MalformedTokenStreamError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s at %s", ErrMalformedTokenStream, e.Reason, e.Range)
	}
	return fmt.Sprintf("%s: token #%d %s: %s", ErrMalformedTokenStream, e.Index, e.Range, e.Reason)
}

// Unwrap returns ErrMalformedTokenStream so errors.Is matches.
func (e *MalformedTokenStreamError) Unwrap() error {
	return ErrMalformedTokenStream
}
