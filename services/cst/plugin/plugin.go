// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package plugin memoizes derived analyses on the root of a tree.
//
// Description:
//
//	A Plugin computes a value from a tree root (the Host). Acquire runs the
//	plugin at most once per (root, plugin) pair and returns the stored
//	result on every later call, including a stored error. Plugins are
//	identified by their value, which must be comparable; use pointer types.
//	Two distinct plugin values with the same Name are distinct entries.
//
// Thread Safety:
//
//	Acquire is safe for concurrent use. Concurrent callers for the same
//	(root, plugin) pair wait for a single analysis.
package plugin

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

// Host is a tree root that owns a plugin cache.
type Host interface {
	PluginCache() *Cache
}

// Plugin derives a value of type T from a host of type H.
type Plugin[H Host, T any] interface {
	// Name labels metrics and logs. It is not used for identity.
	Name() string

	// Analyze computes the value. It is called at most once per host.
	Analyze(ctx context.Context, host H) (T, error)
}

// Cache stores plugin results for one host.
type Cache struct {
	mu     sync.Mutex
	slots  map[any]*slot
	flight singleflight.Group
	logger *slog.Logger
}

type slot struct {
	// key names the singleflight flight for this slot.
	key   string
	done  bool
	value any
	err   error
}

// NewCache creates an empty cache. A nil logger uses slog.Default().
func NewCache(logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		slots:  make(map[any]*slot),
		logger: logger,
	}
}

// Len returns the number of completed analyses.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, s := range c.slots {
		if s.done {
			n++
		}
	}
	return n
}

// Has reports whether p has a stored result.
func (c *Cache) Has(p any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.slots[p]
	return ok && s.done
}

// lookup returns the slot for p, creating it if needed.
func (c *Cache) lookup(p any) *slot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.slots[p]
	if !ok {
		s = &slot{key: uuid.NewString()}
		c.slots[p] = s
	}
	return s
}

// snapshot copies the slot state under the lock.
func (c *Cache) snapshot(s *slot) slot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *s
}

func (c *Cache) store(s *slot, value any, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s.value, s.err, s.done = value, err, true
}

// Acquire returns the result of p for host, running p.Analyze if no result
// is stored yet.
//
// Description:
//
//	The first call runs the analysis; its value or error is stored on the
//	host's cache. Later calls return the stored outcome without running
//	the plugin again. Concurrent first calls share one analysis.
//	Cancellation of the analyzing caller's context is not stored; the next
//	caller runs the analysis afresh, and a concurrent caller whose own
//	context is still live retries instead of returning that cancellation.
//
// Inputs:
//
//	ctx  - Context for cancellation and tracing.
//	host - The tree root. Its PluginCache must be non-nil.
//	p    - The plugin. Must be comparable (a pointer).
//
// Outputs:
//
//	T     - The analysis result.
//	error - The analysis error, stored or fresh.
func Acquire[H Host, T any](ctx context.Context, host H, p Plugin[H, T]) (T, error) {
	var zero T
	cache := host.PluginCache()
	name := p.Name()

	s := cache.lookup(p)
	if stored := cache.snapshot(s); stored.done {
		cacheHits.WithLabelValues(name).Inc()
		cache.logger.Debug("plugin cache hit", slog.String("plugin", name))
		t, _ := stored.value.(T)
		return t, stored.err
	}

	ctx, span := tracer.Start(ctx, "plugin.Acquire",
		trace.WithAttributes(attribute.String("plugin", name)),
	)
	defer span.End()

	analyze := func() (any, error) {
		// A flight that finished between the check above and this one has
		// already stored the result.
		if stored := cache.snapshot(s); stored.done {
			cacheHits.WithLabelValues(name).Inc()
			return stored.value, stored.err
		}

		cacheMisses.WithLabelValues(name).Inc()
		start := time.Now()
		value, err := p.Analyze(ctx, host)
		analysisDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

		if isCancellation(err) {
			return value, err
		}
		analysesTotal.WithLabelValues(name, outcome(err)).Inc()
		cache.store(s, value, err)
		cache.logger.Debug("plugin analysis complete",
			slog.String("plugin", name),
			slog.Duration("duration", time.Since(start)),
			slog.Bool("failed", err != nil),
		)
		return value, err
	}

	// A waiter shares the leader's outcome, including a cancellation of the
	// leader's context. A waiter whose own context is live starts over.
	var (
		value  any
		err    error
		shared bool
	)
	for {
		value, err, shared = cache.flight.Do(s.key, analyze)
		if !shared || !isCancellation(err) || ctx.Err() != nil {
			break
		}
		cache.logger.Debug("plugin analysis canceled by another caller, retrying",
			slog.String("plugin", name),
		)
	}

	span.SetAttributes(attribute.Bool("shared", shared))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	t, ok := value.(T)
	if !ok {
		return zero, err
	}
	return t, err
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
