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
	"sort"

	"github.com/google/uuid"

	"github.com/AleutianAI/jscst/services/cst/plugin"
)

// Program is the root of a tree.
//
// Description:
//
//	Program owns every token of the source, directly or through its
//	descendants, and the plugin cache holding analyses derived from the
//	tree. Each built Program has a unique ID used in logs and spans.
//
// Thread Safety:
//
//	Read-only after Build. The plugin cache synchronizes itself.
type Program struct {
	nodeBase
	body []Node

	id     uuid.UUID
	source []byte
	tokens []*Token
	cache  *plugin.Cache
}

func (n *Program) grammar(c *Cursor) {
	for c.ok() {
		c.SkipNonCode()
		if c.IsEnd() {
			return
		}
		n.body = append(n.body, c.expectStatement())
	}
}

// Body returns the top-level statements.
func (n *Program) Body() []Node { return n.body }

// ID returns the unique identifier of this tree.
func (n *Program) ID() uuid.UUID { return n.id }

// Source returns the source text.
func (n *Program) Source() string { return string(n.source) }

// Tokens returns every token of the tree in source order.
func (n *Program) Tokens() []*Token { return n.tokens }

// PluginCache returns the cache of derived analyses.
func (n *Program) PluginCache() *plugin.Cache { return n.cache }

// ElementAt returns the token containing offset, or nil when offset is
// outside the source.
func (n *Program) ElementAt(offset int) *Token {
	i := sort.Search(len(n.tokens), func(k int) bool {
		return n.tokens[k].Range().End > offset
	})
	if i == len(n.tokens) || n.tokens[i].Range().Start > offset {
		return nil
	}
	return n.tokens[i]
}

// as converts n to T, returning the zero T when n has another type.
func as[T Node](n Node) T {
	t, _ := n.(T)
	return t
}
