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

import "sort"

// Position is a 1-indexed line and 0-indexed byte column.
type Position struct {
	Line   int
	Column int
}

// LineIndex maps byte offsets to line/column positions.
type LineIndex struct {
	// lineStarts[i] is the offset of the first byte of line i+1.
	lineStarts []int
}

// NewLineIndex builds an index over src.
func NewLineIndex(src []byte) *LineIndex {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{lineStarts: starts}
}

// Position returns the line/column of offset.
func (li *LineIndex) Position(offset int) Position {
	line := sort.Search(len(li.lineStarts), func(i int) bool {
		return li.lineStarts[i] > offset
	})
	if line == 0 {
		return Position{Line: 1, Column: offset}
	}
	return Position{Line: line, Column: offset - li.lineStarts[line-1]}
}

// Lines returns the number of lines in the indexed text.
func (li *LineIndex) Lines() int {
	return len(li.lineStarts)
}
