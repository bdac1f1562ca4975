// Package actions implements the synchronization strategies: one
// Action instance per classified source entry, with a read-only
// Validate pass and a mutating, idempotent Apply pass.
package actions

import (
	"bytes"
	"path/filepath"

	"github.com/confman/confman/pkg/errors"
	"github.com/confman/confman/pkg/types"
)

// Env is the shared, read-only view every action gets: the filesystem,
// the two roots, the options bag for programmable entries, the policy
// knobs and the reporter.
type Env struct {
	FS         types.FS
	SourceRoot string
	DestRoot   string
	Options    types.Options
	Policy     types.Policy
	Reporter   types.Reporter
}

func (e *Env) reporter() types.Reporter {
	if e.Reporter == nil {
		return types.NopReporter{}
	}
	return e.Reporter
}

// Action is one synchronization strategy bound to one source entry.
//
// Validate is a read-only precondition check; it must not mutate the
// filesystem. Apply performs the mutation and is idempotent: a second
// run with no external change has no additional effect.
type Action interface {
	Kind() string
	Describe() string
	RelDir() string
	SourceName() string
	DestName() string
	Validate() error
	Apply() error
}

// base carries the identity every action shares
type base struct {
	env        *Env
	relDir     string
	sourceName string
	destName   string
}

func (b *base) RelDir() string     { return b.relDir }
func (b *base) SourceName() string { return b.sourceName }
func (b *base) DestName() string   { return b.destName }

func (b *base) sourcePath() string {
	return filepath.Clean(filepath.Join(b.env.SourceRoot, b.relDir, b.sourceName))
}

func (b *base) destPath() string {
	return filepath.Clean(filepath.Join(b.env.DestRoot, b.relDir, b.destName))
}

// makeDestDirs creates the destination's parent directories
func (b *base) makeDestDirs() *errors.ConfmanError {
	dir := filepath.Dir(b.destPath())
	if err := b.env.FS.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create directory %q", dir)
	}
	return nil
}

// fail stamps an error with the offending action's identity
func fail(a Action, err *errors.ConfmanError) *errors.ConfmanError {
	return err.
		WithDetail("action", a.Kind()).
		WithDetail("dir", a.RelDir()).
		WithDetail("source", a.SourceName()).
		WithDetail("destination", a.DestName())
}

// sameContents compares two files byte for byte
func sameContents(fs types.FS, a, b string) (bool, error) {
	ca, err := fs.ReadFile(a)
	if err != nil {
		return false, err
	}
	cb, err := fs.ReadFile(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ca, cb), nil
}
