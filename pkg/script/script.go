// Package script evaluates the rule set embedded in a programmable
// entry and resolves it to exactly one Forwarder signal.
//
// A rule set is a TOML document holding an ordered list of [[rule]]
// tables. Each rule has an optional "when" clause matched against the
// options bag and exactly one outcome key: redirect, empty, ignore,
// text or template. The first rule whose when clause matches wins;
// a run that matches no rule is a configuration error, never a silent
// no-op.
package script

import (
	"github.com/confman/confman/pkg/errors"
	"github.com/confman/confman/pkg/logging"
	"github.com/confman/confman/pkg/template"
	"github.com/confman/confman/pkg/types"
	toml "github.com/pelletier/go-toml/v2"
)

// HiddenPrefix marks a source file as raw material for redirect and
// template outcomes, excluded from classification
const HiddenPrefix = "_"

// TemplateLoader reads the body of a named template from the entry's
// own directory. It is the only filesystem capability a rule set gets.
type TemplateLoader func(name string) (string, error)

type ruleSet struct {
	Rules []rule `toml:"rule"`
}

type rule struct {
	When     *when                  `toml:"when"`
	Redirect string                 `toml:"redirect"`
	Empty    bool                   `toml:"empty"`
	Ignore   bool                   `toml:"ignore"`
	Text     string                 `toml:"text"`
	Template string                 `toml:"template"`
	Vars     map[string]interface{} `toml:"vars"`
	Strict   *bool                  `toml:"strict"`
	Warn     *bool                  `toml:"warn"`
}

type when struct {
	Tags     []string `toml:"tags"`
	Hostname string   `toml:"hostname"`
	Option   string   `toml:"option"`
	Equals   string   `toml:"equals"`
}

// matches reports whether every stated condition holds against the bag
func (w *when) matches(opts types.Options) bool {
	if w == nil {
		return true
	}
	for _, tag := range w.Tags {
		if !opts.HasTag(tag) {
			return false
		}
	}
	if w.Hostname != "" && w.Hostname != opts.Hostname() {
		return false
	}
	if w.Option != "" {
		val, ok := opts.String(w.Option)
		if !ok || val != w.Equals {
			return false
		}
	}
	return true
}

// outcomes returns the list of outcome keys the rule sets
func (r *rule) outcomes() []string {
	var set []string
	if r.Redirect != "" {
		set = append(set, "redirect")
	}
	if r.Empty {
		set = append(set, "empty")
	}
	if r.Ignore {
		set = append(set, "ignore")
	}
	if r.Text != "" {
		set = append(set, "text")
	}
	if r.Template != "" {
		set = append(set, "template")
	}
	return set
}

// Eval resolves the rule set in body against the options bag and
// returns the single Forwarder signal it produces. name identifies the
// entry in errors and logs.
func Eval(name string, body []byte, opts types.Options, load TemplateLoader) (Forwarder, error) {
	logger := logging.GetLogger("script")

	var rs ruleSet
	if err := toml.Unmarshal(body, &rs); err != nil {
		return Forwarder{}, errors.Wrapf(err, errors.ErrScriptResolution,
			"cannot parse rule set %q", name)
	}

	for i, r := range rs.Rules {
		if !r.When.matches(opts) {
			continue
		}

		set := r.outcomes()
		if len(set) != 1 {
			return Forwarder{}, errors.Newf(errors.ErrScriptResolution,
				"rule %d of %q must set exactly one of redirect, empty, ignore, text, template (got %d)",
				i+1, name, len(set)).WithDetail("outcomes", set)
		}

		fwd, err := r.resolve(name, opts, load)
		if err != nil {
			return Forwarder{}, err
		}

		logger.Debug().
			Str("entry", name).
			Int("rule", i+1).
			Str("signal", fwd.Kind.String()).
			Msg("rule set resolved")
		return fwd, nil
	}

	return Forwarder{}, errors.Newf(errors.ErrScriptResolution,
		"unknown result: no rule of %q matched the options", name)
}

func (r *rule) resolve(name string, opts types.Options, load TemplateLoader) (Forwarder, error) {
	switch {
	case r.Redirect != "":
		return Forwarder{Kind: KindRedirect, Filename: HiddenPrefix + r.Redirect}, nil

	case r.Empty:
		return Forwarder{Kind: KindEmpty}, nil

	case r.Ignore:
		return Forwarder{Kind: KindIgnore}, nil

	case r.Text != "":
		text, err := r.render(name, r.Text, opts)
		if err != nil {
			return Forwarder{}, err
		}
		return Forwarder{Kind: KindText, Text: text}, nil

	default: // template
		if load == nil {
			return Forwarder{}, errors.Newf(errors.ErrScriptResolution,
				"rule set %q uses a template but no loader is available", name)
		}
		body, err := load(r.Template)
		if err != nil {
			return Forwarder{}, errors.Wrapf(err, errors.ErrScriptResolution,
				"cannot load template %q for rule set %q", r.Template, name)
		}
		text, err := r.render(r.Template, body, opts)
		if err != nil {
			return Forwarder{}, err
		}
		return Forwarder{Kind: KindText, Text: text}, nil
	}
}

// render expands a text or template outcome. Explicit rule vars win
// over options bag values.
func (r *rule) render(name, body string, opts types.Options) (string, error) {
	data := make(map[string]interface{}, len(opts)+len(r.Vars))
	for k, v := range opts {
		data[k] = v
	}
	for k, v := range r.Vars {
		data[k] = v
	}

	strict := true
	if r.Strict != nil {
		strict = *r.Strict
	}
	warn := true
	if r.Warn != nil {
		warn = *r.Warn
	}

	return template.New(name, body).Render(data, strict, warn)
}
