package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// testEnv is an isolated config and data directory for CLI tests.
type testEnv struct {
	t         *testing.T
	configDir string
	dataDir   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	tempDir := t.TempDir()
	return &testEnv{
		t:         t,
		configDir: filepath.Join(tempDir, "config"),
		dataDir:   filepath.Join(tempDir, "data"),
	}
}

// cmdResult holds the outcome of one CLI invocation.
type cmdResult struct {
	stdout   string
	stderr   string
	exitCode int
}

// runWithInput executes mermaid-store in-process against the env's
// directories.
func (e *testEnv) runWithInput(stdin string, args ...string) cmdResult {
	e.t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...)
	code := run(full, strings.NewReader(stdin), &stdout, &stderr)
	return cmdResult{stdout: stdout.String(), stderr: stderr.String(), exitCode: code}
}

func (e *testEnv) run(args ...string) cmdResult {
	e.t.Helper()
	return e.runWithInput("", args...)
}

// mustRun executes a command and fails the test on a non-zero exit code.
func (e *testEnv) mustRun(args ...string) cmdResult {
	e.t.Helper()
	res := e.run(args...)
	require.Equal(e.t, exitSuccess, res.exitCode, "mermaid-store %v failed: %s", args, res.stderr)
	return res
}

func (e *testEnv) writeFile(name, content string) string {
	e.t.Helper()
	path := filepath.Join(e.t.TempDir(), name)
	require.NoError(e.t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func parseJSON[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(s), &v), "output: %s", s)
	return v
}
