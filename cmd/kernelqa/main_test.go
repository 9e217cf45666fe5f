package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath, storePath, mask = "", "", nil
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCPUInfo(t *testing.T) {
	out, err := execute(t, "cpuinfo")
	require.NoError(t, err)
	assert.Contains(t, out, "kernelqa level:")
	assert.Contains(t, out, "32f_x2_dot_prod_32f")
	assert.Contains(t, out, "runnable implementations")
}

func TestTestCommand(t *testing.T) {
	out, err := execute(t, "test", "-k", "^32i_x2_add_32i$", "--vlen", "64", "--iterations", "2")
	require.NoError(t, err)
	assert.Equal(t, "ok\t1 kernels\n", out)
}

func TestTestCommandBadPattern(t *testing.T) {
	_, err := execute(t, "test", "-k", "(")
	assert.Error(t, err)
}

func TestProfileAndHistory(t *testing.T) {
	dir := t.TempDir()
	prefs := filepath.Join(dir, "prefs.txt")
	db := filepath.Join(dir, "db")

	out, err := execute(t, "profile", "-k", "^32f_x2_add_32f$", "--vlen", "64", "--iterations", "3",
		"-f", "bench", "-o", prefs, "--store", db)
	require.NoError(t, err)
	assert.Contains(t, out, "BenchmarkKernel/32f_x2_add_32f/generic/aligned\t3\t")

	data, err := os.ReadFile(prefs)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# kernel best_aligned best_unaligned\n32f_x2_add_32f "))

	out, err = execute(t, "history", "--store", db)
	require.NoError(t, err)
	assert.Contains(t, out, "1 runs on")
	assert.Contains(t, out, "profile")
	assert.Contains(t, out, "32f_x2_add_32f")
}

func TestHistoryNeedsStore(t *testing.T) {
	_, err := execute(t, "history")
	assert.Error(t, err)
}

func TestHistoryRejectsUnknownMask(t *testing.T) {
	_, err := execute(t, "history", "--store", filepath.Join(t.TempDir(), "db"), "--mask", "avx3")
	assert.ErrorContains(t, err, `unknown feature "avx3"`)
}

func TestCompare(t *testing.T) {
	dir := t.TempDir()
	before := filepath.Join(dir, "old.txt")
	after := filepath.Join(dir, "new.txt")
	require.NoError(t, os.WriteFile(before, []byte("BenchmarkKernel/k/generic/aligned\t10\t400.0 ns/op\n"), 0o644))
	require.NoError(t, os.WriteFile(after, []byte("BenchmarkKernel/k/generic/aligned\t10\t100.0 ns/op\n"), 0o644))

	out, err := execute(t, "compare", before, after)
	require.NoError(t, err)
	assert.Contains(t, out, "BenchmarkKernel/k/generic/aligned")
	assert.Contains(t, out, "4.00x")

	require.NoError(t, os.WriteFile(after, []byte("BenchmarkKernel/other/generic/aligned\t10\t100.0 ns/op\n"), 0o644))
	_, err = execute(t, "compare", before, after)
	assert.Error(t, err)
}
