// Package testutil provides filesystem fixtures and assertions for
// exercising the engine against real, isolated temp trees.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TempRoots creates an isolated source and destination root pair
func TempRoots(t *testing.T) (source, dest string) {
	t.Helper()
	base := t.TempDir()
	source = filepath.Join(base, "source")
	dest = filepath.Join(base, "dest")
	require.NoError(t, os.MkdirAll(source, 0755))
	require.NoError(t, os.MkdirAll(dest, 0755))
	return source, dest
}

// WriteFile writes content under root, creating parent directories
func WriteFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// Mkdir creates a directory under root
func Mkdir(t *testing.T, root, rel string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(path, 0755))
	return path
}

// Symlink creates a symlink at root/rel pointing at target
func Symlink(t *testing.T, target, root, rel string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.Symlink(target, path))
	return path
}

// ReadFile returns the file's content, following symlinks
func ReadFile(t *testing.T, root, rel string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(root, rel))
	require.NoError(t, err)
	return string(content)
}

// AssertSymlinkTarget asserts that path is a symlink with exactly the
// given literal target string
func AssertSymlinkTarget(t *testing.T, path, wantTarget string) {
	t.Helper()
	fi, err := os.Lstat(path)
	require.NoError(t, err, "expected %s to exist", path)
	require.NotZero(t, fi.Mode()&os.ModeSymlink, "expected %s to be a symlink", path)
	target, err := os.Readlink(path)
	require.NoError(t, err)
	assert.Equal(t, wantTarget, target)
}

// AssertNotExists asserts that nothing exists at path, not even a
// broken link
func AssertNotExists(t *testing.T, path string) {
	t.Helper()
	_, err := os.Lstat(path)
	assert.True(t, os.IsNotExist(err), "expected %s not to exist", path)
}

// AssertRegularFile asserts path is a plain file with the given content
func AssertRegularFile(t *testing.T, path, wantContent string) {
	t.Helper()
	fi, err := os.Lstat(path)
	require.NoError(t, err, "expected %s to exist", path)
	require.Zero(t, fi.Mode()&os.ModeSymlink, "expected %s to be a regular file, not a link", path)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, wantContent, string(content))
}

// CountingReporter records every reported line, so tests can assert
// how many mutations a run performed
type CountingReporter struct {
	MutationLines []string
	NoticeLines   []string
}

func (r *CountingReporter) Mutation(format string, args ...interface{}) {
	r.MutationLines = append(r.MutationLines, fmt.Sprintf(format, args...))
}

func (r *CountingReporter) Notice(format string, args ...interface{}) {
	r.NoticeLines = append(r.NoticeLines, fmt.Sprintf(format, args...))
}

// Mutations returns the number of reported mutations
func (r *CountingReporter) Mutations() int { return len(r.MutationLines) }

// Reset clears all recorded lines
func (r *CountingReporter) Reset() {
	r.MutationLines = nil
	r.NoticeLines = nil
}
