package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gridline version ")
}

func TestValidateCommand(t *testing.T) {
	out, err := run(t, "validate", "--strict")
	require.NoError(t, err)
	assert.Contains(t, out, "Graph is valid")

	_, err = run(t, "validate", t.TempDir())
	assert.Error(t, err)
}

func TestGraphCommand(t *testing.T) {
	t.Setenv("GRIDLINE_SESSION_BACKEND", "memory")
	t.Setenv("GRIDLINE_ARCHIVE_BACKEND", "memory")

	out, err := run(t, "graph")
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, "start((\"start\"))")
	assert.Contains(t, out, "verification -.-> contact_verification")
}
