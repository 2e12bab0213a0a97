// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootRequiresInputAndTarget(t *testing.T) {
	_, err := execute(t, "only-input.txt")
	assert.Error(t, err)
}

func TestConfigPrintsDefaults(t *testing.T) {
	out, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "base_url: https://sci-hub.st")
	assert.Contains(t, out, "user_agent: reference-archive/0.1")
	assert.Contains(t, out, "headless: true")
}

func TestConfigPrintsReadableDurations(t *testing.T) {
	out, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "timeout: 1m0s")
	assert.Contains(t, out, "settle_grace: 1s")
	assert.NotContains(t, out, "60000000000")
}

func TestConfigReadsEnvironment(t *testing.T) {
	t.Setenv("REFERENCE_ARCHIVE_MIRROR_BASE_URL", "https://mirror.example")
	out, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "base_url: https://mirror.example")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "reference-archive dev\n", out)
}

func TestVerifyReportsInvalidPDF(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1.pdf"), []byte("<html>captcha</html>"), 0o644))

	out, err := execute(t, "verify", dir)
	assert.Error(t, err)
	assert.Contains(t, out, "1.pdf")
	assert.Contains(t, out, "1 checked, 1 invalid")
}

func TestVerifyEmptyDirectory(t *testing.T) {
	out, err := execute(t, "verify", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "0 checked, 0 invalid")
}
