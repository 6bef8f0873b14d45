// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "module", cfg.Parser.SourceType)
	assert.True(t, cfg.Parser.StrictMode)
	assert.True(t, cfg.Parser.TypeAnnotations)
	assert.Equal(t, 10*1024*1024, cfg.Parser.MaxFileSize)
	assert.Equal(t, "let", cfg.Scopes.LoopBodyMerge)
	assert.Empty(t, cfg.Scopes.Ambient)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
	assert.Equal(t, "none", cfg.Telemetry.MetricExporter)
	assert.NoError(t, cfg.Validate())
}

func TestParse_MergesOverDefaults(t *testing.T) {
	data := []byte(`
parser:
  source_type: script
scopes:
  ambient: [console, window]
logging:
  level: debug
`)
	cfg, err := Parse(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, "script", cfg.Parser.SourceType)
	assert.True(t, cfg.Parser.StrictMode, "unset keys keep their default")
	assert.Equal(t, 10*1024*1024, cfg.Parser.MaxFileSize)
	assert.Equal(t, []string{"console", "window"}, cfg.Scopes.Ambient)
	assert.Equal(t, "let", cfg.Scopes.LoopBodyMerge)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"source type", "parser:\n  source_type: commonjs\n"},
		{"negative size", "parser:\n  max_file_size: -1\n"},
		{"loop merge", "scopes:\n  loop_body_merge: all\n"},
		{"empty ambient", "scopes:\n  ambient: ['']\n"},
		{"log level", "logging:\n  level: trace\n"},
		{"trace exporter", "telemetry:\n  trace_exporter: zipkin\n"},
		{"metric exporter", "telemetry:\n  metric_exporter: statsd\n"},
		{"otlp without endpoint", "telemetry:\n  trace_exporter: otlp\n  otlp_endpoint: ''\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(context.Background(), []byte(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := Parse(context.Background(), []byte("parser:\n  strict: false\n"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "decoding configuration")
}

func TestParse_OTLP(t *testing.T) {
	cfg, err := Parse(context.Background(), []byte("telemetry:\n  trace_exporter: otlp\n  otlp_endpoint: collector:4317\n"))
	require.NoError(t, err)
	assert.Equal(t, "otlp", cfg.Telemetry.TraceExporter)
	assert.Equal(t, "collector:4317", cfg.Telemetry.OTLPEndpoint)
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("empty path", func(t *testing.T) {
		cfg, err := Load(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "jscst.yaml")
		require.NoError(t, os.WriteFile(path, []byte("parser:\n  strict_mode: false\n"), 0o600))

		cfg, err := Load(ctx, path)
		require.NoError(t, err)
		assert.False(t, cfg.Parser.StrictMode)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := Load(ctx, filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("too large", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "big.yaml")
		big := bytes.Repeat([]byte("#"), MaxFileSize+1)
		require.NoError(t, os.WriteFile(path, big, 0o600))

		_, err := Load(ctx, path)
		assert.ErrorIs(t, err, ErrFileTooLarge)
	})

	t.Run("invalid", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("parser:\n  source_type: ts\n"), 0o600))

		_, err := Load(ctx, path)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}
