// Package rules holds the ordered classification registry: a fixed
// sequence of pure verdict functions, consulted first-match-wins, that
// decide which action type owns a filename and what destination name
// results. Classification never touches the filesystem.
package rules

import (
	"strings"

	"github.com/confman/confman/pkg/actions"
	"github.com/confman/confman/pkg/errors"
	"github.com/confman/confman/pkg/script"
)

// Filename markers. A suffix selects the action type; the hidden
// prefix excludes a file from classification entirely.
const (
	ScriptSuffix    = ".p.toml"
	EmptySuffix     = ".empty"
	CopyOnceSuffix  = ".once"
	CopySuffix      = ".copy"
	DirAsFileSuffix = ".F"
	HiddenPrefix    = script.HiddenPrefix
)

// Version-control metadata names that are never synchronized
var vcsNames = []string{".git", ".gitignore"}

// VerdictKind is the tri-state outcome of classifying a filename
type VerdictKind int

const (
	// NoMatch means the rule does not claim the filename
	NoMatch VerdictKind = iota
	// Ignored means the rule claims the filename and excludes it
	Ignored
	// Matched means the rule claims the filename; Dest holds the
	// resulting destination name
	Matched
)

// Verdict is a classification outcome
type Verdict struct {
	Kind VerdictKind
	Dest string
}

func noMatch() Verdict            { return Verdict{Kind: NoMatch} }
func ignored() Verdict            { return Verdict{Kind: Ignored} }
func matched(dest string) Verdict { return Verdict{Kind: Matched, Dest: dest} }

// Rule pairs a pure classify function with the factory for its action
// type. Rules are consulted in slice order; the first Ignored or
// Matched verdict wins.
type Rule struct {
	Name     string
	Classify func(filename string) Verdict
	New      func(env *actions.Env, relDir, sourceName, destName string) actions.Action
}

// stripSuffix returns the destination name for a marker suffix, or
// NoMatch when the suffix is absent or nothing would remain of the name
func stripSuffix(filename, suffix string) Verdict {
	if !strings.HasSuffix(filename, suffix) {
		return noMatch()
	}
	dest := strings.TrimSuffix(filename, suffix)
	if dest == "" {
		return noMatch()
	}
	return matched(dest)
}

// Default returns the registry in its canonical order, most specific
// first, with the symlink catch-all last.
func Default() []Rule {
	return []Rule{
		{
			Name: "programmable",
			Classify: func(filename string) Verdict {
				return stripSuffix(filename, ScriptSuffix)
			},
			New: func(env *actions.Env, relDir, sourceName, destName string) actions.Action {
				return actions.NewProgrammable(env, relDir, sourceName, destName)
			},
		},
		{
			Name: "ignore",
			Classify: func(filename string) Verdict {
				if strings.HasPrefix(filename, HiddenPrefix) {
					return ignored()
				}
				for _, name := range vcsNames {
					if filename == name {
						return ignored()
					}
				}
				return noMatch()
			},
			New: func(env *actions.Env, relDir, sourceName, _ string) actions.Action {
				return actions.NewIgnore(env, relDir, sourceName)
			},
		},
		{
			Name: "empty",
			Classify: func(filename string) Verdict {
				return stripSuffix(filename, EmptySuffix)
			},
			New: func(env *actions.Env, relDir, _, destName string) actions.Action {
				return actions.NewEmpty(env, relDir, destName)
			},
		},
		{
			Name: "copy-once",
			Classify: func(filename string) Verdict {
				return stripSuffix(filename, CopyOnceSuffix)
			},
			New: func(env *actions.Env, relDir, sourceName, destName string) actions.Action {
				return actions.NewCopyOnce(env, relDir, sourceName, destName)
			},
		},
		{
			Name: "copy",
			Classify: func(filename string) Verdict {
				return stripSuffix(filename, CopySuffix)
			},
			New: func(env *actions.Env, relDir, sourceName, destName string) actions.Action {
				return actions.NewCopy(env, relDir, sourceName, destName)
			},
		},
		{
			// the catch-all: destination name equals source name
			Name: "symlink",
			Classify: func(filename string) Verdict {
				return matched(filename)
			},
			New: func(env *actions.Env, relDir, sourceName, destName string) actions.Action {
				return actions.NewSymlink(env, relDir, sourceName, destName)
			},
		},
	}
}

// Resolve runs the registry over a filename and returns the winning
// rule with its verdict. A filename no rule claims is a configuration
// error, not a soft skip.
func Resolve(registry []Rule, filename string) (*Rule, Verdict, error) {
	for i := range registry {
		verdict := registry[i].Classify(filename)
		if verdict.Kind != NoMatch {
			return &registry[i], verdict, nil
		}
	}
	return nil, noMatch(), errors.Newf(errors.ErrNoActionFound, "no action found for %q", filename)
}
