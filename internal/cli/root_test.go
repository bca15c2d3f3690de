package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: {backend: bdb}\n"), 0o644))

	_, err := execute(t, "--config", path, "write", "1", "-o", filepath.Join(t.TempDir(), "x.ttl"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = execute(t, "--format", "rdfxml", "write")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestOpenStoreLoadsConfiguration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: {backend: bdb}\n"), 0o644))

	opts := &RootOptions{ConfigPath: path}
	store, _, err := opts.openStore(&bytes.Buffer{})
	require.Error(t, err)
	assert.Nil(t, store)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Nil(t, opts.settings(), "a failed load leaves no configuration behind")

	opts = &RootOptions{Format: "ntriples"}
	store, _, err = opts.openStore(&bytes.Buffer{})
	require.NoError(t, err)
	defer store.Close()
	require.NotNil(t, opts.settings())
	assert.Equal(t, "ntriples", opts.settings().Format)
}

func TestWriteReadReachable(t *testing.T) {
	dir := t.TempDir()
	poses := filepath.Join(dir, "pose.ttl")

	out, err := execute(t, "write", "2", "--output", poses)
	require.NoError(t, err)
	assert.Contains(t, out, "Producing 2 poses")
	data, err := os.ReadFile(poses)
	require.NoError(t, err)
	assert.Contains(t, string(data), "@prefix spatial: <"+NSSpatial+"> .")
	assert.Contains(t, string(data), "spatial:SpatialRelationship")

	prefix := filepath.Join(dir, "copy")
	out, err = execute(t, "read", poses, "--output-prefix", prefix)
	require.NoError(t, err)
	assert.Contains(t, out, "42 statements")
	assert.FileExists(t, prefix+".ttl")
	nt, err := os.ReadFile(prefix + ".nt")
	require.NoError(t, err)
	assert.Equal(t, 2*StatementsPerPose, strings.Count(string(nt), "\n"))

	out, err = execute(t, "--format", "ntriples", "reachable", prefix+".nt", PoseURI(1))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, StatementsPerPose)
	assert.True(t, strings.HasPrefix(lines[0], "<"+PoseURI(1)+">"), lines[0])
}

func TestReadFailures(t *testing.T) {
	_, err := execute(t, "read", filepath.Join(t.TempDir(), "missing.ttl"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	broken := filepath.Join(t.TempDir(), "broken.nt")
	require.NoError(t, os.WriteFile(broken, []byte("not n-triples\n"), 0o644))
	_, err = execute(t, "read", broken)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestWriteWithSQLiteConfig(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "rdfpose.yaml")
	require.NoError(t, os.WriteFile(config, []byte(`
storage:
  backend: sqlite
  options: file='`+filepath.Join(dir, "poses.db")+`'
format: ntriples
namespaces:
  test: http://test.arvida.de/
`), 0o644))

	target := filepath.Join(dir, "pose.nt")
	_, err := execute(t, "--config", config, "write", "1", "-o", target)
	require.NoError(t, err)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, StatementsPerPose, strings.Count(string(data), " .\n"))
	assert.FileExists(t, filepath.Join(dir, "poses.db"))

	_, err = execute(t, "write", "many")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
