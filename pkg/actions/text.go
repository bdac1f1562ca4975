package actions

import (
	"bytes"
	"io/fs"

	"github.com/confman/confman/pkg/errors"
	"github.com/confman/confman/pkg/logging"
)

// Text writes desired content to the destination as a regular file.
// Content is either a literal (text outcomes of programmable entries)
// or read from the source file during Validate (the copy variants).
// A symlink destination is never silently replaced by a file.
type Text struct {
	base
	content  []byte
	fromFile bool // read content from the source file during Validate
	once     bool // never rewrite an existing destination
	kindName string
	title    string
}

// NewText creates a text action carrying literal content. There is no
// source file; the content is synthesized.
func NewText(env *Env, relDir, destName, text string) *Text {
	return &Text{
		base:     base{env: env, relDir: relDir, destName: destName},
		content:  []byte(text),
		kindName: "text",
		title:    "Text",
	}
}

// NewCopy creates a copy action: destination content mirrors the
// source file, rewritten whenever they differ.
func NewCopy(env *Env, relDir, sourceName, destName string) *Text {
	return &Text{
		base:     base{env: env, relDir: relDir, sourceName: sourceName, destName: destName},
		fromFile: true,
		kindName: "copy",
		title:    "Copy",
	}
}

// NewCopyOnce creates a copy action that seeds the destination only
// when it does not exist yet; an existing destination is never
// rewritten, whatever its content.
func NewCopyOnce(env *Env, relDir, sourceName, destName string) *Text {
	return &Text{
		base:     base{env: env, relDir: relDir, sourceName: sourceName, destName: destName},
		fromFile: true,
		once:     true,
		kindName: "copy-once",
		title:    "CopyOnce",
	}
}

// NewEmpty creates an empty action: ensure the destination exists,
// empty if absent, with the once-only semantics of CopyOnce.
func NewEmpty(env *Env, relDir, destName string) *Text {
	return &Text{
		base:     base{env: env, relDir: relDir, destName: destName},
		once:     true,
		kindName: "empty",
		title:    "Empty",
	}
}

func (a *Text) Kind() string { return a.kindName }

func (a *Text) Describe() string {
	source := a.sourceName
	if source == "" {
		source = "(generated)"
	}
	return a.title + ": " + source + " => " + a.destName
}

// Validate loads the desired content and refuses destinations that are
// currently symlinks.
func (a *Text) Validate() error {
	if a.fromFile {
		source := a.sourcePath()
		if _, err := a.env.FS.Stat(source); err != nil {
			return fail(a, errors.Newf(errors.ErrMissingSource, "source %q does not exist", source))
		}
		content, err := a.env.FS.ReadFile(source)
		if err != nil {
			return fail(a, errors.Wrapf(err, errors.ErrFileAccess, "cannot read source %q", source))
		}
		a.content = content
	}

	return a.checkDestNotLink()
}

// Apply writes the content, honoring the once-only policy and the
// no-op on identical content.
func (a *Text) Apply() error {
	logger := logging.GetLogger("actions." + a.kindName)
	dest := a.destPath()

	_, lerr := a.env.FS.Lstat(dest)
	if lerr == nil {
		if err := a.checkDestNotLink(); err != nil {
			return err
		}
		if a.once {
			a.env.reporter().Notice("already exists, not updated: %s", dest)
			return nil
		}
		existing, err := a.env.FS.ReadFile(dest)
		if err != nil {
			return fail(a, errors.Wrapf(err, errors.ErrFileAccess, "cannot read destination %q", dest))
		}
		if bytes.Equal(existing, a.content) {
			logger.Debug().Str("dest", dest).Msg("content already up to date")
			return nil
		}
		if err := a.env.FS.WriteFile(dest, a.content, 0644); err != nil {
			return fail(a, errors.Wrapf(err, errors.ErrFileWrite, "cannot write %q", dest))
		}
		a.env.reporter().Mutation("updated: %s", dest)
		return nil
	}

	if cerr := a.makeDestDirs(); cerr != nil {
		return fail(a, cerr)
	}
	if err := a.env.FS.WriteFile(dest, a.content, 0644); err != nil {
		return fail(a, errors.Wrapf(err, errors.ErrFileWrite, "cannot write %q", dest))
	}
	a.env.reporter().Mutation("created: %s", dest)
	return nil
}

// checkDestNotLink rejects symlink destinations. For the empty
// variant a dangling link gets its own error, since "ensure the file
// exists" cannot be satisfied through a broken link.
func (a *Text) checkDestNotLink() error {
	dest := a.destPath()
	fi, err := a.env.FS.Lstat(dest)
	if err != nil {
		return nil
	}
	if fi.Mode()&fs.ModeSymlink == 0 {
		return nil
	}
	if a.kindName == "empty" {
		if _, err := a.env.FS.Stat(dest); err != nil {
			return fail(a, errors.Newf(errors.ErrBrokenLink, "destination %q is a broken link", dest))
		}
	}
	return fail(a, errors.Newf(errors.ErrDestinationIsLink,
		"destination %q is a link, refusing to replace it with a file", dest))
}
