// Package source implements the synchronization orchestrator: walk
// the source tree, resolve every entry to exactly one action through
// the classification registry, then run the two-phase validate/apply
// protocol. No filesystem mutation happens until every action in the
// tree has passed validation.
package source

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/confman/confman/pkg/actions"
	"github.com/confman/confman/pkg/errors"
	"github.com/confman/confman/pkg/filesystem"
	"github.com/confman/confman/pkg/logging"
	"github.com/confman/confman/pkg/rules"
	"github.com/confman/confman/pkg/types"
	"github.com/rs/zerolog"
)

// State tracks the run through its phases. Applied is terminal; a new
// Analyze starts a fresh run.
type State int

const (
	Unanalyzed State = iota
	Analyzed
	Validated
	Applied
)

func (s State) String() string {
	switch s {
	case Unanalyzed:
		return "unanalyzed"
	case Analyzed:
		return "analyzed"
	case Validated:
		return "validated"
	case Applied:
		return "applied"
	}
	return "invalid"
}

// Params configures a ConfigSource. Source and Dest are required;
// everything else has a default.
type Params struct {
	Source   string
	Dest     string
	Rules    []rules.Rule   // nil means rules.Default()
	Options  types.Options  // opaque bag passed to programmable entries
	Policy   types.Policy
	Reporter types.Reporter // nil means log-backed reporter
	FS       types.FS       // nil means the OS filesystem
}

// ConfigSource owns one synchronization run from a source tree to a
// destination tree
type ConfigSource struct {
	env      *actions.Env
	registry []rules.Rule
	state    State
	logger   zerolog.Logger

	dirs    []string                // relative directories in walk order
	tree    map[string]*dirEntries  // relative directory -> destination mapping
	ignored []actions.Action
}

// dirEntries keeps one directory's destination mapping plus insertion
// order for deterministic iteration
type dirEntries struct {
	names  []string
	byDest map[string]actions.Action
}

// New creates a ConfigSource. Both roots get "~" expanded.
func New(p Params) (*ConfigSource, error) {
	if p.Source == "" || p.Dest == "" {
		return nil, errors.New(errors.ErrInvalidInput, "source and destination roots are required")
	}

	source, err := expandUser(p.Source)
	if err != nil {
		return nil, err
	}
	dest, err := expandUser(p.Dest)
	if err != nil {
		return nil, err
	}

	fs := p.FS
	if fs == nil {
		fs = filesystem.NewOS()
	}
	registry := p.Rules
	if registry == nil {
		registry = rules.Default()
	}
	logger := logging.GetLogger("source")
	reporter := p.Reporter
	if reporter == nil {
		reporter = logReporter{logger: logger}
	}

	return &ConfigSource{
		env: &actions.Env{
			FS:         fs,
			SourceRoot: source,
			DestRoot:   dest,
			Options:    p.Options,
			Policy:     p.Policy,
			Reporter:   reporter,
		},
		registry: registry,
		logger:   logger,
	}, nil
}

// State returns the phase the run is in
func (c *ConfigSource) State() State { return c.state }

// Sync runs the whole protocol: analyze, validate, apply
func (c *ConfigSource) Sync() error {
	if err := c.Analyze(); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}
	return c.Apply()
}

// Analyze walks the source tree and classifies every entry, building
// the conflict-checked destination mapping. Allowed from a fresh or an
// applied ConfigSource; it always starts a new run.
func (c *ConfigSource) Analyze() error {
	if c.state != Unanalyzed && c.state != Applied {
		return errors.Newf(errors.ErrInternal, "analyze called in state %s", c.state)
	}

	c.dirs = nil
	c.tree = make(map[string]*dirEntries)
	c.ignored = nil
	c.state = Unanalyzed

	if err := c.walk(c.env.SourceRoot); err != nil {
		return err
	}

	c.state = Analyzed
	c.logger.Debug().
		Int("directories", len(c.dirs)).
		Int("ignored", len(c.ignored)).
		Msg("source tree analyzed")
	return nil
}

// Validate runs the read-only precondition pass over every action,
// failing fast on the first error. Nothing has been mutated when it
// returns an error.
func (c *ConfigSource) Validate() error {
	if c.state != Analyzed {
		return errors.Newf(errors.ErrInternal, "validate called in state %s", c.state)
	}

	if err := c.each(actions.Action.Validate); err != nil {
		return err
	}

	c.state = Validated
	return nil
}

// Apply runs the mutation pass over every action
func (c *ConfigSource) Apply() error {
	if c.state != Validated {
		return errors.Newf(errors.ErrInternal, "apply called in state %s", c.state)
	}

	if err := c.each(actions.Action.Apply); err != nil {
		return err
	}

	c.state = Applied
	return nil
}

// walk recurses depth-first through the source tree, directories in
// discovery order, entries in directory order
func (c *ConfigSource) walk(dir string) error {
	relDir, err := filepath.Rel(c.env.SourceRoot, dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "cannot relativize %q", dir)
	}

	entries, err := c.env.FS.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read directory %q", dir)
	}

	var subdirs []string
	for _, entry := range entries {
		name := entry.Name()

		if entry.IsDir() {
			if strings.HasSuffix(name, rules.DirAsFileSuffix) {
				// treat-as-file marker: classify, never recurse
				if err := c.add(relDir, name, strings.TrimSuffix(name, rules.DirAsFileSuffix)); err != nil {
					return err
				}
				continue
			}
			if c.dirIgnored(name) {
				c.ignored = append(c.ignored, actions.NewIgnore(c.env, relDir, name))
				continue
			}
			subdirs = append(subdirs, filepath.Join(dir, name))
			continue
		}

		if err := c.add(relDir, name, name); err != nil {
			return err
		}
	}

	for _, sub := range subdirs {
		if err := c.walk(sub); err != nil {
			return err
		}
	}
	return nil
}

// dirIgnored applies the registry's ignore verdicts to a directory
// name, so hidden and VCS directories are not traversed
func (c *ConfigSource) dirIgnored(name string) bool {
	for i := range c.registry {
		verdict := c.registry[i].Classify(name)
		if verdict.Kind == rules.Ignored {
			return true
		}
		if verdict.Kind == rules.Matched {
			return false
		}
	}
	return false
}

// add classifies one entry and inserts its action into the tree.
// classifyName differs from sourceName only for treat-as-file
// directories, whose marker is stripped before classification.
func (c *ConfigSource) add(relDir, sourceName, classifyName string) error {
	rule, verdict, err := rules.Resolve(c.registry, classifyName)
	if err != nil {
		return err
	}

	if verdict.Kind == rules.Ignored {
		c.ignored = append(c.ignored, rule.New(c.env, relDir, sourceName, ""))
		c.logger.Debug().Str("dir", relDir).Str("name", sourceName).Msg("entry ignored")
		return nil
	}

	entries, ok := c.tree[relDir]
	if !ok {
		entries = &dirEntries{byDest: make(map[string]actions.Action)}
		c.tree[relDir] = entries
		c.dirs = append(c.dirs, relDir)
	}

	if existing, ok := entries.byDest[verdict.Dest]; ok {
		return errors.Newf(errors.ErrClassificationConflict,
			"conflict in %q: %q and %q both resolve to destination %q",
			relDir, sourceName, existing.SourceName(), verdict.Dest)
	}

	action := rule.New(c.env, relDir, sourceName, verdict.Dest)
	entries.byDest[verdict.Dest] = action
	entries.names = append(entries.names, verdict.Dest)

	c.logger.Debug().
		Str("dir", relDir).
		Str("name", sourceName).
		Str("dest", verdict.Dest).
		Str("rule", rule.Name).
		Msg("entry classified")
	return nil
}

// each visits every action, directories in walk order, entries in
// insertion order, stopping at the first error
func (c *ConfigSource) each(visit func(actions.Action) error) error {
	for _, dir := range c.dirs {
		entries := c.tree[dir]
		for _, dest := range entries.names {
			if err := visit(entries.byDest[dest]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Walk exposes the resolved tree for diagnostics, in iteration order
func (c *ConfigSource) Walk(fn func(relDir string, action actions.Action)) {
	for _, dir := range c.dirs {
		entries := c.tree[dir]
		for _, dest := range entries.names {
			fn(dir, entries.byDest[dest])
		}
	}
}

// Ignored returns the entries classification excluded, for diagnostics
func (c *ConfigSource) Ignored() []actions.Action {
	return c.ignored
}

// String renders the resolved tree one action per line
func (c *ConfigSource) String() string {
	var b strings.Builder
	c.Walk(func(relDir string, action actions.Action) {
		b.WriteString(relDir)
		b.WriteString(": ")
		b.WriteString(action.Describe())
		b.WriteString("\n")
	})
	return b.String()
}

// logReporter sends action lines to the component logger
type logReporter struct {
	logger zerolog.Logger
}

func (r logReporter) Mutation(format string, args ...interface{}) {
	r.logger.Info().Msgf(format, args...)
}

func (r logReporter) Notice(format string, args ...interface{}) {
	r.logger.Info().Msgf(format, args...)
}

// expandUser resolves a leading "~" to the current user's home
func expandUser(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrConfigLoad, "cannot resolve home directory")
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
