package main

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v2"

	"github.com/mrhapile/distzip/pkg/types"
)

func entryNames(t *testing.T, path string) []string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()
	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

func makeDist(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "dist", "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dist", "a.txt"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dist", "sub", "b.txt"), []byte("b"), 0644))
}

func TestExecute_ZeroArgumentDefaults(t *testing.T) {
	dir := t.TempDir()
	makeDist(t, dir)
	chdir(t, dir)

	var stdout, stderr bytes.Buffer
	code := execute(nil, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	assert.Equal(t, []string{"a.txt", "sub/b.txt"}, entryNames(t, filepath.Join(dir, "dist.zip")))
	assert.Contains(t, stdout.String(), "Adding: sub/b.txt")
	assert.Contains(t, stdout.String(), "Success!")
}

func TestExecute_MissingSourceIsSoftByDefault(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "dist.zip")
	require.NoError(t, os.WriteFile(out, []byte("old"), 0644))

	var stdout, stderr bytes.Buffer
	code := execute([]string{"-s", filepath.Join(dir, "dist"), "-o", out}, &stdout, &stderr)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout.String(), "Removed old")
	assert.Contains(t, stdout.String(), "directory not found!")

	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestExecute_MissingSourceStrict(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "dist.zip")
	require.NoError(t, os.WriteFile(out, []byte("old"), 0644))

	var stdout, stderr bytes.Buffer
	code := execute([]string{
		"--source", filepath.Join(dir, "dist"),
		"--output", out,
		"--strict",
		"--check-source-first",
	}, &stdout, &stderr)
	assert.Equal(t, exitMissingSource, code)
	assert.NotContains(t, stdout.String(), "Removed old")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}

func TestExecute_ConfigFileAndManifest(t *testing.T) {
	dir := t.TempDir()
	makeDist(t, dir)
	chdir(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".distzip.yaml"), []byte(`
output: www.zip
manifest: www.manifest.yaml
quiet: true
`), 0644))

	var stdout, stderr bytes.Buffer
	code := execute(nil, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())
	assert.NotContains(t, stdout.String(), "Adding")

	assert.Equal(t, []string{"a.txt", "sub/b.txt"}, entryNames(t, filepath.Join(dir, "www.zip")))

	data, err := os.ReadFile(filepath.Join(dir, "www.manifest.yaml"))
	require.NoError(t, err)
	var m types.ArchiveManifest
	require.NoError(t, yaml.Unmarshal(data, &m))
	assert.Equal(t, 2, m.TotalFiles)
}

func TestExecute_FlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	makeDist(t, dir)
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.yaml"), []byte("output: from-config.zip\n"), 0644))

	var stdout, stderr bytes.Buffer
	code := execute([]string{"--config", "custom.yaml", "-o", "from-flag.zip"}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	_, err := os.Stat(filepath.Join(dir, "from-flag.zip"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "from-config.zip"))
	assert.True(t, os.IsNotExist(err))
}

func TestExecute_FatalError(t *testing.T) {
	dir := t.TempDir()
	makeDist(t, dir)
	out := filepath.Join(dir, "occupied")
	require.NoError(t, os.MkdirAll(out, 0755))

	var stdout, stderr bytes.Buffer
	code := execute([]string{"-s", filepath.Join(dir, "dist"), "-o", out}, &stdout, &stderr)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stdout.String(), "failed to remove previous archive")
}

func TestExecute_RejectsArguments(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := execute([]string{"extra"}, &stdout, &stderr)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr.String(), "Error:")
}

func TestExecute_InvalidConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := execute([]string{"--source", ""}, &stdout, &stderr)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr.String(), "source directory must not be empty")
}

func TestExecute_ManifestInsideSourceRejected(t *testing.T) {
	dir := t.TempDir()
	makeDist(t, dir)
	chdir(t, dir)

	var stdout, stderr bytes.Buffer
	code := execute([]string{"--manifest", "dist/manifest.yaml"}, &stdout, &stderr)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr.String(), "must not be inside source directory")

	_, err := os.Stat(filepath.Join(dir, "dist.zip"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "dist", "manifest.yaml"))
	assert.True(t, os.IsNotExist(err))
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir for older toolchains).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
