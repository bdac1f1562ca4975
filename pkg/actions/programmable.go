package actions

import (
	stderrors "errors"
	"path/filepath"

	"github.com/confman/confman/pkg/errors"
	"github.com/confman/confman/pkg/logging"
	"github.com/confman/confman/pkg/script"
)

// Programmable defers to a concrete action chosen by evaluating the
// entry's embedded rule set against the options bag. The proxy is
// resolved exactly once, during Validate; Apply is a pass-through.
type Programmable struct {
	base
	resolved bool
	proxy    Action // nil when the rule set resolved to ignore
}

// NewProgrammable creates a programmable action for one rule-set entry
func NewProgrammable(env *Env, relDir, sourceName, destName string) *Programmable {
	return &Programmable{base: base{env: env, relDir: relDir, sourceName: sourceName, destName: destName}}
}

func (a *Programmable) Kind() string { return "programmable" }

func (a *Programmable) Describe() string {
	switch {
	case !a.resolved:
		return "Programmable: " + a.sourceName + " => PROXY (unresolved)"
	case a.proxy == nil:
		return "Programmable: " + a.sourceName + " => PROXY (ignored)"
	}
	return "Programmable: " + a.sourceName + " => PROXY " + a.proxy.Describe()
}

// Proxy exposes the resolved delegate for diagnostics; nil before
// Validate or when the rule set said ignore
func (a *Programmable) Proxy() Action { return a.proxy }

// Validate evaluates the rule set, constructs the proxy from the
// resulting signal and validates it
func (a *Programmable) Validate() error {
	logger := logging.GetLogger("actions.programmable")
	source := a.sourcePath()

	body, err := a.env.FS.ReadFile(source)
	if err != nil {
		return fail(a, errors.Newf(errors.ErrMissingSource, "source %q does not exist", source))
	}

	// templates and redirect targets live next to the entry, behind
	// the hidden prefix
	load := func(name string) (string, error) {
		raw, err := a.env.FS.ReadFile(filepath.Join(a.env.SourceRoot, a.relDir, script.HiddenPrefix+name))
		return string(raw), err
	}

	fwd, err := script.Eval(a.sourceName, body, a.env.Options, load)
	if err != nil {
		var cerr *errors.ConfmanError
		if !stderrors.As(err, &cerr) {
			cerr = errors.Wrap(err, errors.ErrScriptResolution, "rule set evaluation failed")
		}
		return fail(a, cerr)
	}

	switch fwd.Kind {
	case script.KindRedirect:
		a.proxy = NewSymlink(a.env, a.relDir, fwd.Filename, a.destName)
	case script.KindEmpty:
		a.proxy = NewEmpty(a.env, a.relDir, a.destName)
	case script.KindText:
		a.proxy = NewText(a.env, a.relDir, a.destName, fwd.Text)
	case script.KindIgnore:
		a.proxy = nil
	default:
		return fail(a, errors.Newf(errors.ErrScriptResolution, "unknown signal %v", fwd.Kind))
	}
	a.resolved = true

	logger.Debug().
		Str("entry", a.sourceName).
		Str("signal", fwd.Kind.String()).
		Msg("proxy resolved")

	if a.proxy != nil {
		return a.proxy.Validate()
	}
	return nil
}

// Apply delegates to the proxy resolved during Validate
func (a *Programmable) Apply() error {
	if !a.resolved {
		return fail(a, errors.New(errors.ErrInternal, "apply called before validate"))
	}
	if a.proxy != nil {
		return a.proxy.Apply()
	}
	return nil
}
