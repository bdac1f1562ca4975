package actions

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/confman/confman/pkg/errors"
	"github.com/confman/confman/pkg/logging"
)

// Symlink links the destination to the source file. It is the
// catch-all strategy: any filename no other rule claims ends up here.
type Symlink struct {
	base
}

// NewSymlink creates a symlink action for one source entry
func NewSymlink(env *Env, relDir, sourceName, destName string) *Symlink {
	return &Symlink{base{env: env, relDir: relDir, sourceName: sourceName, destName: destName}}
}

func (a *Symlink) Kind() string { return "symlink" }

func (a *Symlink) Describe() string {
	return "Symlink: " + a.sourceName + " => " + a.destName
}

// Validate checks that the source exists and that the destination, if
// present, is either a symlink or (under the force-same policy) a
// plain file with identical contents.
func (a *Symlink) Validate() error {
	source := a.sourcePath()
	if _, err := a.env.FS.Stat(source); err != nil {
		return fail(a, errors.Newf(errors.ErrMissingSource, "source %q does not exist", source))
	}

	dest := a.destPath()
	fi, err := a.env.FS.Lstat(dest)
	if err != nil {
		return nil // nothing in the way
	}
	if fi.Mode()&fs.ModeSymlink != 0 {
		return nil // apply repairs or keeps existing links
	}

	if a.env.Policy.ForceSame {
		same, err := sameContents(a.env.FS, dest, source)
		if err != nil {
			return fail(a, errors.Wrapf(err, errors.ErrFileAccess, "cannot compare %q with %q", dest, source))
		}
		if same {
			return nil
		}
	}

	return fail(a, errors.Newf(errors.ErrDestinationConflict,
		"destination %q exists and is not a link", dest).
		WithHint("diff %q %q && rm %q", dest, source, dest))
}

// Apply creates or repairs the link. The link target is expressed
// relative to the destination's own directory so the tree survives
// being mounted at a different absolute path.
func (a *Symlink) Apply() error {
	logger := logging.GetLogger("actions.symlink")
	source := a.sourcePath()
	dest := a.destPath()

	fi, err := a.env.FS.Lstat(dest)
	if err == nil {
		if fi.Mode()&fs.ModeSymlink != 0 {
			if a.linkCorrect(dest, source) {
				logger.Debug().Str("dest", dest).Msg("link already correct")
				return nil
			}
			if err := a.env.FS.Remove(dest); err != nil {
				return fail(a, errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot remove stale link %q", dest))
			}
			a.env.reporter().Mutation("link target altered: %s", dest)
		} else {
			// validate let this through, so the contents matched
			// under the force-same policy
			if err := a.env.FS.Remove(dest); err != nil {
				return fail(a, errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot remove file %q", dest))
			}
			a.env.reporter().Mutation("link target was a file with same contents: %s", dest)
		}
	} else {
		if cerr := a.makeDestDirs(); cerr != nil {
			return fail(a, cerr)
		}
	}

	relSource, err := filepath.Rel(filepath.Dir(dest), source)
	if err != nil {
		return fail(a, errors.Wrapf(err, errors.ErrSymlinkCreate,
			"cannot express %q relative to %q", source, filepath.Dir(dest)))
	}
	if err := a.env.FS.Symlink(relSource, dest); err != nil {
		return fail(a, errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot create link %q", dest))
	}

	a.env.reporter().Mutation("created new link: %s => %s", dest, source)
	return nil
}

// linkCorrect reports whether dest resolves to the same file as
// source, by identity rather than by path string
func (a *Symlink) linkCorrect(dest, source string) bool {
	di, err := a.env.FS.Stat(dest) // follows the link; fails when broken
	if err != nil {
		return false
	}
	si, err := a.env.FS.Stat(source)
	if err != nil {
		return false
	}
	return os.SameFile(di, si)
}
