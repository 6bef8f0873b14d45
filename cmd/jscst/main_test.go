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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/jscst/services/cst/parser"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestTokens(t *testing.T) {
	path := writeFile(t, "a.js", "let a = 1;")

	out, _, err := execute(t, "", "tokens", path)
	require.NoError(t, err)
	got := lines(out)
	require.Len(t, got, 8)
	assert.Equal(t, "1:0\tKeyword            \"let\"", got[0])
	assert.Equal(t, "1:3\tWhitespace         \" \"", got[1])
	assert.Equal(t, "1:9\tPunctuator         \";\"", got[7])

	out, _, err = execute(t, "", "tokens", "--code", path)
	require.NoError(t, err)
	assert.Len(t, lines(out), 5)
}

func TestTokens_Stdin(t *testing.T) {
	out, _, err := execute(t, "x\n// done\n", "tokens", "-")
	require.NoError(t, err)
	got := lines(out)
	require.Len(t, got, 4)
	assert.Contains(t, got[2], "2:0\tCommentLine")
}

func TestTree(t *testing.T) {
	path := writeFile(t, "a.js", "f(1);")

	out, _, err := execute(t, "", "tree", path)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Program [0,5)",
		"  ExpressionStatement [0,5)",
		"    CallExpression [0,4)",
		"      Identifier [0,1)",
		"      NumericLiteral [2,3)",
	}, lines(out))

	out, _, err = execute(t, "", "tree", "--tokens", path)
	require.NoError(t, err)
	assert.Contains(t, out, "        Identifier \"f\"")
	assert.Contains(t, out, "      Punctuator \"(\"")
}

func TestScopes(t *testing.T) {
	path := writeFile(t, "a.js", "let a = 1;\n{ let a = 2; a; }\nb = a;\n")

	out, _, err := execute(t, "", "scopes", path)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Global [0,36)",
		"  LetVariable a def@1:4 w@1:4 r@3:4",
		"  Block [11,28)",
		"    LetVariable a def@2:6 w@2:6 r@2:13",
		"unresolved:",
		"  b w@3:0",
	}, lines(out))
}

func TestScopes_AmbientFromConfig(t *testing.T) {
	cfg := writeFile(t, "jscst.yaml", "scopes:\n  ambient: [console]\n")
	path := writeFile(t, "a.js", "console.log(1);")

	out, _, err := execute(t, "", "scopes", "--config", cfg, path)
	require.NoError(t, err)
	assert.Contains(t, out, "AmbientVariable console r@1:0")
	assert.NotContains(t, out, "unresolved:")
}

func TestCheck(t *testing.T) {
	good := writeFile(t, "good.js", "class A { #x = 1; get x() { return this.#x; } }\n")
	jsx := writeFile(t, "view.js", "const v = <div className=\"a\">{x}</div>;\n")

	out, _, err := execute(t, "", "check", "--scopes", good, jsx)
	require.NoError(t, err)
	got := lines(out)
	require.Len(t, got, 2)
	assert.True(t, strings.HasPrefix(got[0], good+": ok ("))
	assert.True(t, strings.HasPrefix(got[1], jsx+": ok ("))
}

func TestCheck_Failures(t *testing.T) {
	good := writeFile(t, "good.js", "a;")
	strict := writeFile(t, "strict.js", "with (o) {}")
	missing := filepath.Join(t.TempDir(), "missing.js")

	out, _, err := execute(t, "", "check", good, strict, missing)
	require.ErrorIs(t, err, errCheckFailed)
	assert.Contains(t, err.Error(), "2 of 3 files")

	got := lines(out)
	require.Len(t, got, 3)
	assert.Contains(t, got[0], "ok")
	assert.Contains(t, got[1], "with statement")
	assert.Contains(t, got[2], "reading")

	out, _, err = execute(t, "", "check", "--no-strict", strict)
	require.NoError(t, err)
	assert.Contains(t, out, "ok")
}

func TestSourceTypeFlag(t *testing.T) {
	path := writeFile(t, "m.js", "export default 1;")

	_, _, err := execute(t, "", "tree", "--source-type", "script", path)
	assert.ErrorIs(t, err, parser.ErrModuleSyntax)

	_, _, err = execute(t, "", "tree", "--source-type", "cjs", path)
	assert.ErrorIs(t, err, parser.ErrInvalidSourceType)

	_, _, err = execute(t, "", "tree", path)
	assert.NoError(t, err)
}

func TestDebugLogging(t *testing.T) {
	path := writeFile(t, "a.js", "a;")

	_, stderr, err := execute(t, "", "tree", "--log-level", "debug", "--json-logs", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, `"msg":"source parsed"`)
	assert.Contains(t, stderr, `"service":"jscst"`)

	_, stderr, err = execute(t, "", "tree", path)
	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestInvalidConfig(t *testing.T) {
	cfg := writeFile(t, "bad.yaml", "logging:\n  level: loud\n")
	path := writeFile(t, "a.js", "a;")

	_, _, err := execute(t, "", "tree", "--config", cfg, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestMetricsAddrRequiresPrometheus(t *testing.T) {
	path := writeFile(t, "a.js", "a;")
	_, _, err := execute(t, "", "tree", "--metrics-addr", "127.0.0.1:0", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metric_exporter")
}
