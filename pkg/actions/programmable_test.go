package actions_test

import (
	"path/filepath"
	"testing"

	"github.com/confman/confman/pkg/actions"
	"github.com/confman/confman/pkg/errors"
	"github.com/confman/confman/pkg/filesystem"
	"github.com/confman/confman/pkg/testutil"
	"github.com/confman/confman/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOptionsEnv(source, dest string, opts types.Options, reporter types.Reporter) *actions.Env {
	return &actions.Env{
		FS:         filesystem.NewOS(),
		SourceRoot: source,
		DestRoot:   dest,
		Options:    opts,
		Reporter:   reporter,
	}
}

func TestProgrammable_RedirectResolvesToSymlinkProxy(t *testing.T) {
	source, dest := testutil.TempRoots(t)
	testutil.WriteFile(t, source, "xorg.conf.p.toml", `
[[rule]]
when = { tags = ["desktop"] }
redirect = "xorg-desktop.conf"
`)
	testutil.WriteFile(t, source, "_xorg-desktop.conf", "Section \"Device\"\n")
	reporter := &testutil.CountingReporter{}
	opts := types.Options{"tags": []string{"desktop"}}
	env := newOptionsEnv(source, dest, opts, reporter)

	action := actions.NewProgrammable(env, ".", "xorg.conf.p.toml", "xorg.conf")
	require.NoError(t, action.Validate())

	proxy := action.Proxy()
	require.NotNil(t, proxy)
	assert.Equal(t, "symlink", proxy.Kind())
	assert.Equal(t, "_xorg-desktop.conf", proxy.SourceName())
	assert.Contains(t, action.Describe(), "PROXY Symlink")

	require.NoError(t, action.Apply())
	assert.Equal(t, "Section \"Device\"\n", testutil.ReadFile(t, dest, "xorg.conf"))
	assert.Equal(t, 1, reporter.Mutations())
}

func TestProgrammable_IgnoreSignalHasNoProxy(t *testing.T) {
	source, dest := testutil.TempRoots(t)
	testutil.WriteFile(t, source, "conf.p.toml", `
[[rule]]
ignore = true
`)
	reporter := &testutil.CountingReporter{}
	env := newOptionsEnv(source, dest, nil, reporter)

	action := actions.NewProgrammable(env, ".", "conf.p.toml", "conf")
	require.NoError(t, action.Validate())
	assert.Nil(t, action.Proxy())
	assert.Contains(t, action.Describe(), "ignored")

	require.NoError(t, action.Apply())
	testutil.AssertNotExists(t, filepath.Join(dest, "conf"))
	assert.Zero(t, reporter.Mutations())
}

func TestProgrammable_EmptySignalCreatesEmptyFile(t *testing.T) {
	source, dest := testutil.TempRoots(t)
	testutil.WriteFile(t, source, "conf.p.toml", `
[[rule]]
empty = true
`)
	env := newOptionsEnv(source, dest, nil, nil)

	action := actions.NewProgrammable(env, ".", "conf.p.toml", "conf")
	require.NoError(t, action.Validate())
	require.NoError(t, action.Apply())

	testutil.AssertRegularFile(t, filepath.Join(dest, "conf"), "")
}

func TestProgrammable_TemplateSignalRendersContent(t *testing.T) {
	source, dest := testutil.TempRoots(t)
	testutil.WriteFile(t, source, "gitconfig.p.toml", `
[[rule]]
template = "gitconfig"
[rule.vars]
email = "me@example.net"
`)
	testutil.WriteFile(t, source, "_gitconfig", "# {{.warning}}\n[user]\n\temail = {{.email}}\n")
	env := newOptionsEnv(source, dest, nil, nil)

	action := actions.NewProgrammable(env, ".", "gitconfig.p.toml", "gitconfig")
	require.NoError(t, action.Validate())
	require.NoError(t, action.Apply())

	content := testutil.ReadFile(t, dest, "gitconfig")
	assert.Contains(t, content, "email = me@example.net")
	assert.Contains(t, content, "DO NOT EDIT")
}

func TestProgrammable_UnknownResultFailsValidate(t *testing.T) {
	source, dest := testutil.TempRoots(t)
	testutil.WriteFile(t, source, "conf.p.toml", `
[[rule]]
when = { tags = ["server"] }
ignore = true
`)
	env := newOptionsEnv(source, dest, types.Options{"tags": []string{"desktop"}}, nil)

	action := actions.NewProgrammable(env, ".", "conf.p.toml", "conf")
	err := action.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrScriptResolution))
}

func TestProgrammable_MissingSourceFailsValidate(t *testing.T) {
	source, dest := testutil.TempRoots(t)
	env := newOptionsEnv(source, dest, nil, nil)

	action := actions.NewProgrammable(env, ".", "gone.p.toml", "gone")
	err := action.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMissingSource))
}

func TestProgrammable_ApplyBeforeValidateIsAnError(t *testing.T) {
	source, dest := testutil.TempRoots(t)
	env := newOptionsEnv(source, dest, nil, nil)

	action := actions.NewProgrammable(env, ".", "conf.p.toml", "conf")
	err := action.Apply()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInternal))
}
