package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/confman/confman/pkg/config"
	"github.com/confman/confman/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	profile, err := config.Load("")
	require.NoError(t, err)

	hostname, _ := os.Hostname()
	assert.Equal(t, hostname, profile.Options.Hostname())
	assert.Empty(t, profile.Options.Tags())
	assert.False(t, profile.Policy.ForceSame)
}

func TestLoad_TomlProfile(t *testing.T) {
	path := writeProfile(t, "work.toml", `
hostname = "workstation"
tags = ["desktop", "linux"]
force_same = true
shell = "zsh"
`)

	profile, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "workstation", profile.Options.Hostname())
	assert.Equal(t, []string{"desktop", "linux"}, profile.Options.Tags())
	assert.True(t, profile.Policy.ForceSame)

	shell, ok := profile.Options.String("shell")
	require.True(t, ok)
	assert.Equal(t, "zsh", shell)

	// the policy key stays out of the options bag
	_, ok = profile.Options["force_same"]
	assert.False(t, ok)
}

func TestLoad_YamlProfile(t *testing.T) {
	path := writeProfile(t, "laptop.yaml", `
hostname: laptop
tags:
  - laptop
  - linux
`)

	profile, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "laptop", profile.Options.Hostname())
	assert.Equal(t, []string{"laptop", "linux"}, profile.Options.Tags())
	assert.False(t, profile.Policy.ForceSame)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLoad_UnsupportedFormatFails(t *testing.T) {
	path := writeProfile(t, "profile.ini", "hostname=x")
	_, err := config.Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestOverride(t *testing.T) {
	path := writeProfile(t, "base.toml", `
hostname = "base"
tags = ["linux"]
`)
	profile, err := config.Load(path)
	require.NoError(t, err)

	require.NoError(t, profile.Override(
		[]string{"desktop", "linux"}, "elsewhere", []string{"shell=fish"}, true))

	assert.Equal(t, "elsewhere", profile.Options.Hostname())
	assert.Equal(t, []string{"linux", "desktop"}, profile.Options.Tags(), "tags append without duplicates")
	shell, _ := profile.Options.String("shell")
	assert.Equal(t, "fish", shell)
	assert.True(t, profile.Policy.ForceSame)
}

func TestOverride_MalformedOption(t *testing.T) {
	profile, err := config.Load("")
	require.NoError(t, err)

	err = profile.Override(nil, "", []string{"no-equals"}, false)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}
