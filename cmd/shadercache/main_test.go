package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const triangle = `@vertex
fn main(@builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_CompileListStatClear(t *testing.T) {
	dir := t.TempDir()
	cache := filepath.Join(dir, "cache", "shader_bytecode.bin")
	src := filepath.Join(dir, "tri.wgsl")
	require.NoError(t, os.WriteFile(src, []byte(triangle), 0o644))
	out := filepath.Join(dir, "out")

	code, stdout, stderr := runCLI(t, "-cache", cache, "compile", "-validate=false", "-o", out, src)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "compiled\t"+src)

	spv, err := os.ReadFile(filepath.Join(out, "tri.spv"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x03, 0x02, 0x23, 0x07}, spv[:4])

	code, stdout, _ = runCLI(t, "-cache", cache, "compile", "-validate=false", src)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "cached\t"+src)

	code, stdout, _ = runCLI(t, "-cache", cache, "list")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "KEY")
	assert.Contains(t, stdout, src)

	code, stdout, _ = runCLI(t, "-cache", cache, "stat")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "entries: 1")

	code, stdout, stderr = runCLI(t, "-cache", cache, "clear", "nope")
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "removed 0 entries")
	assert.Contains(t, stderr, "not cached: nope")

	code, stdout, _ = runCLI(t, "-cache", cache, "clear")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "removed 1 entries")

	code, stdout, _ = runCLI(t, "-cache", cache, "stat")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "entries: 0")
}

func TestRun_CompileErrorIsReported(t *testing.T) {
	dir := t.TempDir()
	cache := filepath.Join(dir, "cache.bin")
	src := filepath.Join(dir, "bad.wgsl")
	require.NoError(t, os.WriteFile(src, []byte("fn main( {"), 0o644))

	code, _, stderr := runCLI(t, "-cache", cache, "compile", src)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "bad.wgsl")
}

func TestRun_Usage(t *testing.T) {
	code, _, stderr := runCLI(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "no command specified")

	dir := t.TempDir()
	code, _, stderr = runCLI(t, "-cache", filepath.Join(dir, "cache", "c.bin"), "frobnicate")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown command "frobnicate"`)

	_, err := os.Stat(filepath.Join(dir, "cache"))
	assert.ErrorIs(t, err, os.ErrNotExist, "an unknown command must not touch the cache")
}
