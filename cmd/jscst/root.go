// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/jscst/pkg/logging"
	"github.com/AleutianAI/jscst/services/cst/config"
	"github.com/AleutianAI/jscst/services/cst/parser"
	"github.com/AleutianAI/jscst/services/cst/scope"
	"github.com/AleutianAI/jscst/services/cst/telemetry"
)

// app holds the flags and the per-run state shared by the commands.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath  string
	sourceType  string
	noStrict    bool
	noTypes     bool
	logLevel    string
	jsonLogs    bool
	metricsAddr string

	cfg      config.Config
	logger   *logging.Logger
	parser   *parser.Parser
	scopes   *scope.Plugin
	shutdown func(context.Context) error
	metrics  *http.Server
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "jscst",
		Short: "Inspect the lossless syntax tree and scopes of JavaScript source",
		Long: `jscst parses JavaScript (ES2015+, JSX and Flow-style type annotations)
into a concrete syntax tree that owns every byte of the source, whitespace
and comments included, and resolves the identifiers of the tree to their
declarations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "YAML configuration file (defaults are embedded)")
	flags.StringVar(&a.sourceType, "source-type", "", "module or script (overrides parser.source_type)")
	flags.BoolVar(&a.noStrict, "no-strict", false, "disable strict mode checks")
	flags.BoolVar(&a.noTypes, "no-type-annotations", false, "parse with the plain JavaScript grammar")
	flags.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (overrides logging.level)")
	flags.BoolVar(&a.jsonLogs, "json-logs", false, "write logs as JSON")
	flags.StringVar(&a.metricsAddr, "metrics-addr", "", "serve /metrics on this address while the command runs")

	root.AddCommand(
		newTokensCmd(a),
		newTreeCmd(a),
		newScopesCmd(a),
		newCheckCmd(a),
	)
	return root
}

// run wraps a command body with setup and teardown of the shared state.
func (a *app) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		if err := a.setup(cmd); err != nil {
			return err
		}
		defer func() {
			if cerr := a.teardown(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		return fn(cmd, args)
	}
}

func (a *app) setup(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := config.Load(ctx, a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("source-type") {
		cfg.Parser.SourceType = a.sourceType
	}
	if a.noStrict {
		cfg.Parser.StrictMode = false
	}
	if a.noTypes {
		cfg.Parser.TypeAnnotations = false
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if a.jsonLogs {
		cfg.Logging.JSON = true
	}
	a.cfg = cfg

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	a.logger = logging.New(logging.Config{
		Level:   level,
		JSON:    cfg.Logging.JSON,
		LogDir:  cfg.Logging.LogDir,
		Service: "jscst",
		Output:  a.stderr,
	})

	tcfg := telemetry.DefaultConfig()
	tcfg.TraceExporter = cfg.Telemetry.TraceExporter
	tcfg.MetricExporter = cfg.Telemetry.MetricExporter
	tcfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	tcfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	tcfg.Output = a.stderr
	a.shutdown, err = telemetry.Init(ctx, tcfg)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	if err := a.serveMetrics(); err != nil {
		return err
	}

	sourceType, err := parser.ParseSourceType(cfg.Parser.SourceType)
	if err != nil {
		return err
	}
	a.parser = parser.New(
		parser.WithSourceType(sourceType),
		parser.WithStrictMode(cfg.Parser.StrictMode),
		parser.WithTypeAnnotations(cfg.Parser.TypeAnnotations),
		parser.WithMaxFileSize(cfg.Parser.MaxFileSize),
		parser.WithLogger(a.logger.Slog()),
	)

	merge, err := scope.ParseLoopBodyMerge(cfg.Scopes.LoopBodyMerge)
	if err != nil {
		return err
	}
	a.scopes, err = scope.New(
		scope.WithLoopBodyMerge(merge),
		scope.WithAmbientResolver(scope.NewAmbientTable(cfg.Scopes.Ambient...)),
		scope.WithLogger(a.logger.Slog()),
	)
	if err != nil {
		return err
	}

	a.logger.Debug("configuration loaded",
		"config", a.configPath,
		"source_type", cfg.Parser.SourceType,
		"strict_mode", cfg.Parser.StrictMode,
		"type_annotations", cfg.Parser.TypeAnnotations,
		"loop_body_merge", cfg.Scopes.LoopBodyMerge,
	)
	return nil
}

func (a *app) serveMetrics() error {
	if a.metricsAddr == "" {
		return nil
	}
	handler := telemetry.MetricsHandler()
	if handler == nil {
		return errors.New("--metrics-addr requires telemetry.metric_exporter: prometheus")
	}
	ln, err := net.Listen("tcp", a.metricsAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.metricsAddr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	a.metrics = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := a.metrics.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Warn("metrics server stopped", "error", err)
		}
	}()
	return nil
}

func (a *app) teardown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var errs []error
	if a.metrics != nil {
		errs = append(errs, a.metrics.Shutdown(ctx))
		a.metrics = nil
	}
	if a.shutdown != nil {
		errs = append(errs, a.shutdown(ctx))
		a.shutdown = nil
	}
	if a.logger != nil {
		errs = append(errs, a.logger.Close())
	}
	return errors.Join(errs...)
}
