// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the jscst configuration.
//
// The defaults live in an embedded YAML document. A user file is decoded
// over them, so it only names the keys it changes; unknown keys are
// rejected. The merged result is checked with validator struct tags.
//
// Thread Safety:
//
//	All exported functions are safe for concurrent use.
package config

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"
)

// MaxFileSize is the largest configuration file Load accepts (1MB).
const MaxFileSize = 1024 * 1024

//go:embed default.yaml
var defaultYAML []byte

// Sentinel errors.
var (
	// ErrInvalidConfig indicates a value failed validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrFileTooLarge indicates the file exceeds MaxFileSize.
	ErrFileTooLarge = errors.New("configuration file too large")
)

var (
	loadErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jscst_config_load_errors_total",
		Help: "Configuration load failures by stage",
	}, []string{"stage"})

	loadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "jscst_config_load_duration_seconds",
		Help:    "Duration of configuration loading",
		Buckets: []float64{0.0001, 0.001, 0.01, 0.1},
	})
)

var tracer = otel.Tracer("jscst.config")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config is the root of the configuration document.
type Config struct {
	Parser    Parser    `yaml:"parser"`
	Scopes    Scopes    `yaml:"scopes"`
	Logging   Logging   `yaml:"logging"`
	Telemetry Telemetry `yaml:"telemetry"`
}

// Parser configures source parsing.
type Parser struct {
	// SourceType is "module" or "script".
	SourceType string `yaml:"source_type" validate:"required,oneof=module script"`

	// StrictMode enables the strict-mode checks.
	StrictMode bool `yaml:"strict_mode"`

	// MaxFileSize limits the source size in bytes; 0 means no limit.
	MaxFileSize int `yaml:"max_file_size" validate:"gte=0"`

	// TypeAnnotations accepts Flow-style type annotations.
	TypeAnnotations bool `yaml:"type_annotations"`
}

// Scopes configures scope analysis.
type Scopes struct {
	// LoopBodyMerge is "let", "lexical" or "none".
	LoopBodyMerge string `yaml:"loop_body_merge" validate:"omitempty,oneof=let lexical none"`

	// Ambient lists host-provided global names.
	Ambient []string `yaml:"ambient" validate:"dive,required"`
}

// Logging configures pkg/logging.
type Logging struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	JSON   bool   `yaml:"json"`
	LogDir string `yaml:"log_dir"`
}

// Telemetry configures the otel exporters.
type Telemetry struct {
	TraceExporter  string `yaml:"trace_exporter" validate:"required,oneof=none stdout otlp"`
	MetricExporter string `yaml:"metric_exporter" validate:"required,oneof=none stdout prometheus"`
	OTLPEndpoint   string `yaml:"otlp_endpoint" validate:"required_if=TraceExporter otlp"`
	OTLPInsecure   bool   `yaml:"otlp_insecure"`
}

// Default returns the embedded defaults.
func Default() Config {
	var cfg Config
	if err := decode(defaultYAML, &cfg); err != nil {
		panic(fmt.Sprintf("embedded default.yaml: %v", err))
	}
	return cfg
}

// Load reads the file at path over the defaults and validates the result.
// An empty path returns the defaults.
//
// Inputs:
//
//	ctx  - Context for tracing.
//	path - YAML file, at most MaxFileSize bytes. May be "".
//
// Outputs:
//
//	Config - The merged configuration.
//	error  - Read, decode or validation failure. Validation failures
//	         match ErrInvalidConfig.
func Load(ctx context.Context, path string) (Config, error) {
	ctx, span := tracer.Start(ctx, "config.Load",
		trace.WithAttributes(attribute.String("path", path)),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		loadDuration.Observe(time.Since(start).Seconds())
	}()

	if path == "" {
		span.SetAttributes(attribute.String("source", "embedded"))
		return Default(), nil
	}

	data, err := readFile(path)
	if err != nil {
		return Config{}, fail(span, "read", err)
	}
	cfg, err := Parse(ctx, data)
	if err != nil {
		return Config{}, fail(span, "parse", err)
	}
	span.SetAttributes(attribute.String("source", "file"))
	span.SetStatus(codes.Ok, "")
	return cfg, nil
}

// Parse decodes data over the defaults and validates the result.
func Parse(ctx context.Context, data []byte) (Config, error) {
	_, span := tracer.Start(ctx, "config.Parse",
		trace.WithAttributes(attribute.Int("yaml_size", len(data))),
	)
	defer span.End()

	cfg := Default()
	if err := decode(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the struct tags of every section.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("%w: %s fails %q (got %v)", ErrInvalidConfig, f.Namespace(), f.Tag(), f.Value())
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, info.Size(), MaxFileSize)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return data, nil
}

func fail(span trace.Span, stage string, err error) error {
	loadErrors.WithLabelValues(stage).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, stage+" failed")
	return fmt.Errorf("loading configuration: %w", err)
}
