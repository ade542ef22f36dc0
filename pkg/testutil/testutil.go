// Package testutil provides helpers for tests that exercise callout
// scripts: scratch environments laid out like a real root filesystem and
// executable fixture scripts.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/virtkit/mdevman/pkg/paths"
)

// ScratchEnv is a throwaway mdevman environment rooted in a temp directory
type ScratchEnv struct {
	Root string
	Env  paths.Env
}

// NewScratchEnv creates a scratch environment with the standard directory
// layout pre-created
func NewScratchEnv(t *testing.T) *ScratchEnv {
	t.Helper()
	root := t.TempDir()
	env := paths.NewWithRoot(root)

	for _, dir := range env.CalloutDirs() {
		require.NoError(t, os.MkdirAll(dir, 0755))
	}
	for _, dir := range env.NotificationDirs() {
		require.NoError(t, os.MkdirAll(dir, 0755))
	}
	require.NoError(t, os.MkdirAll(env.PersistBase(), 0755))
	require.NoError(t, os.MkdirAll(env.MdevBase(), 0755))
	require.NoError(t, os.MkdirAll(env.ParentBase(), 0755))

	return &ScratchEnv{Root: root, Env: env}
}

// CalloutDir returns the first (most specific) callout script directory
func (s *ScratchEnv) CalloutDir() string {
	return s.Env.CalloutDirs()[0]
}

// NotifierDir returns the first notification script directory
func (s *ScratchEnv) NotifierDir() string {
	return s.Env.NotificationDirs()[0]
}

// WriteScript writes an executable shell script into dir and returns its
// path. The body is appended to a "#!/bin/sh" shebang line.
func WriteScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return path
}

// ReadLines reads a recording file written by a fixture script, returning
// an empty string if the file does not exist
func ReadLines(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return ""
	}
	require.NoError(t, err)
	return string(data)
}
