package actions_test

import (
	"path/filepath"
	"testing"

	"github.com/confman/confman/pkg/actions"
	"github.com/confman/confman/pkg/errors"
	"github.com/confman/confman/pkg/testutil"
	"github.com/confman/confman/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopy_CreatesDestination(t *testing.T) {
	source, dest := testutil.TempRoots(t)
	testutil.WriteFile(t, source, "vimrc.copy", "set ai\n")
	reporter := &testutil.CountingReporter{}
	env := newEnv(source, dest, types.Policy{}, reporter)

	action := actions.NewCopy(env, ".", "vimrc.copy", "vimrc")
	require.NoError(t, action.Validate())
	require.NoError(t, action.Apply())

	testutil.AssertRegularFile(t, filepath.Join(dest, "vimrc"), "set ai\n")
	assert.Equal(t, 1, reporter.Mutations())
}

func TestCopy_RewritesOnDifferingContent(t *testing.T) {
	source, dest := testutil.TempRoots(t)
	testutil.WriteFile(t, source, "rc.copy", "new")
	testutil.WriteFile(t, dest, "rc", "old")
	reporter := &testutil.CountingReporter{}
	env := newEnv(source, dest, types.Policy{}, reporter)

	action := actions.NewCopy(env, ".", "rc.copy", "rc")
	require.NoError(t, action.Validate())
	require.NoError(t, action.Apply())

	testutil.AssertRegularFile(t, filepath.Join(dest, "rc"), "new")
	require.Len(t, reporter.MutationLines, 1)
	assert.Contains(t, reporter.MutationLines[0], "updated")
}

func TestCopy_IdenticalContentIsNoOp(t *testing.T) {
	source, dest := testutil.TempRoots(t)
	testutil.WriteFile(t, source, "rc.copy", "same")
	testutil.WriteFile(t, dest, "rc", "same")
	reporter := &testutil.CountingReporter{}
	env := newEnv(source, dest, types.Policy{}, reporter)

	action := actions.NewCopy(env, ".", "rc.copy", "rc")
	require.NoError(t, action.Validate())
	require.NoError(t, action.Apply())

	assert.Zero(t, reporter.Mutations())
}

func TestCopy_MissingSourceFailsValidate(t *testing.T) {
	source, dest := testutil.TempRoots(t)
	env := newEnv(source, dest, types.Policy{}, nil)

	action := actions.NewCopy(env, ".", "gone.copy", "gone")
	err := action.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMissingSource))
}

func TestCopy_RefusesSymlinkDestination(t *testing.T) {
	source, dest := testutil.TempRoots(t)
	target := testutil.WriteFile(t, source, "rc.copy", "content")
	testutil.Symlink(t, target, dest, "rc")
	env := newEnv(source, dest, types.Policy{}, nil)

	action := actions.NewCopy(env, ".", "rc.copy", "rc")
	err := action.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDestinationIsLink))
}

func TestCopyOnce_NeverRewritesExistingDestination(t *testing.T) {
	source, dest := testutil.TempRoots(t)
	testutil.WriteFile(t, source, "muttrc.once", "X")
	testutil.WriteFile(t, dest, "muttrc", "Y")
	reporter := &testutil.CountingReporter{}
	env := newEnv(source, dest, types.Policy{}, reporter)

	action := actions.NewCopyOnce(env, ".", "muttrc.once", "muttrc")
	require.NoError(t, action.Validate())
	require.NoError(t, action.Apply())

	testutil.AssertRegularFile(t, filepath.Join(dest, "muttrc"), "Y")
	assert.Zero(t, reporter.Mutations())
	require.Len(t, reporter.NoticeLines, 1)
	assert.Contains(t, reporter.NoticeLines[0], "not updated")
}

func TestCopyOnce_SeedsMissingDestination(t *testing.T) {
	source, dest := testutil.TempRoots(t)
	testutil.WriteFile(t, source, "muttrc.once", "X")
	reporter := &testutil.CountingReporter{}
	env := newEnv(source, dest, types.Policy{}, reporter)

	action := actions.NewCopyOnce(env, ".", "muttrc.once", "muttrc")
	require.NoError(t, action.Validate())
	require.NoError(t, action.Apply())

	testutil.AssertRegularFile(t, filepath.Join(dest, "muttrc"), "X")
	assert.Equal(t, 1, reporter.Mutations())
}

func TestEmpty_CreatesEmptyFile(t *testing.T) {
	source, dest := testutil.TempRoots(t)
	reporter := &testutil.CountingReporter{}
	env := newEnv(source, dest, types.Policy{}, reporter)

	action := actions.NewEmpty(env, ".", "signature")
	require.NoError(t, action.Validate())
	require.NoError(t, action.Apply())

	testutil.AssertRegularFile(t, filepath.Join(dest, "signature"), "")
	assert.Equal(t, 1, reporter.Mutations())
}

func TestEmpty_LeavesExistingContentAlone(t *testing.T) {
	source, dest := testutil.TempRoots(t)
	testutil.WriteFile(t, dest, "signature", "-- \nme")
	reporter := &testutil.CountingReporter{}
	env := newEnv(source, dest, types.Policy{}, reporter)

	action := actions.NewEmpty(env, ".", "signature")
	require.NoError(t, action.Validate())
	require.NoError(t, action.Apply())

	testutil.AssertRegularFile(t, filepath.Join(dest, "signature"), "-- \nme")
	assert.Zero(t, reporter.Mutations())
}

func TestEmpty_BrokenLinkDestinationFails(t *testing.T) {
	source, dest := testutil.TempRoots(t)
	testutil.Symlink(t, "does-not-exist", dest, "signature")
	env := newEnv(source, dest, types.Policy{}, nil)

	action := actions.NewEmpty(env, ".", "signature")
	err := action.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBrokenLink))
}

func TestText_WritesLiteralContent(t *testing.T) {
	source, dest := testutil.TempRoots(t)
	reporter := &testutil.CountingReporter{}
	env := newEnv(source, dest, types.Policy{}, reporter)

	action := actions.NewText(env, ".", "motd", "generated for this host\n")
	require.NoError(t, action.Validate())
	require.NoError(t, action.Apply())
	require.NoError(t, action.Apply())

	testutil.AssertRegularFile(t, filepath.Join(dest, "motd"), "generated for this host\n")
	assert.Equal(t, 1, reporter.Mutations(), "second apply must be a no-op")
}

func TestText_DescribeShowsGeneratedSource(t *testing.T) {
	source, dest := testutil.TempRoots(t)
	env := newEnv(source, dest, types.Policy{}, nil)

	assert.Equal(t, "Text: (generated) => motd", actions.NewText(env, ".", "motd", "x").Describe())
	assert.Equal(t, "Copy: rc.copy => rc", actions.NewCopy(env, ".", "rc.copy", "rc").Describe())
}
