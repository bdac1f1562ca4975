package main

import (
	"path/filepath"
	"testing"

	"github.com/confman/confman/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runConfman(t *testing.T, args ...string) error {
	t.Helper()
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestSyncCommand(t *testing.T) {
	src, dest := testutil.TempRoots(t)
	testutil.WriteFile(t, src, ".vimrc", "set ai\n")

	require.NoError(t, runConfman(t, "sync", src, dest))
	assert.Equal(t, "set ai\n", testutil.ReadFile(t, dest, ".vimrc"))
}

func TestCheckCommandDoesNotMutate(t *testing.T) {
	src, dest := testutil.TempRoots(t)
	testutil.WriteFile(t, src, ".vimrc", "set ai\n")

	require.NoError(t, runConfman(t, "check", src, dest))
	testutil.AssertNotExists(t, filepath.Join(dest, ".vimrc"))
}

func TestSyncCommandFailsOnConflict(t *testing.T) {
	src, dest := testutil.TempRoots(t)
	testutil.WriteFile(t, src, "rc", "new")
	testutil.WriteFile(t, dest, "rc", "old")

	err := runConfman(t, "sync", src, dest)
	require.Error(t, err)
}

func TestTreeCommand(t *testing.T) {
	src, dest := testutil.TempRoots(t)
	testutil.WriteFile(t, src, "rc.copy", "x")

	require.NoError(t, runConfman(t, "--no-color", "tree", src, dest))
	testutil.AssertNotExists(t, filepath.Join(dest, "rc"))
}

func TestSyncCommandWithTagOptions(t *testing.T) {
	src, dest := testutil.TempRoots(t)
	testutil.WriteFile(t, src, "conf.p.toml", `
[[rule]]
when = { tags = ["desktop"] }
redirect = "desktop"

[[rule]]
ignore = true
`)
	testutil.WriteFile(t, src, "_desktop", "desktop flavor\n")

	require.NoError(t, runConfman(t, "--tag", "desktop", "sync", src, dest))
	assert.Equal(t, "desktop flavor\n", testutil.ReadFile(t, dest, "conf"))
}

func TestVersionCommand(t *testing.T) {
	require.NoError(t, runConfman(t, "version"))
}
