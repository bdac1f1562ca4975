// Package config loads synchronization profiles: the options bag
// handed to programmable entries plus the engine policy knobs.
// Profiles layer defaults, an optional TOML or YAML profile file, and
// CLI overrides, in that order.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/confman/confman/pkg/errors"
	"github.com/confman/confman/pkg/logging"
	"github.com/confman/confman/pkg/types"
)

// forceSameKey is the profile key for the symlink force-same policy;
// everything else in a profile belongs to the options bag
const forceSameKey = "force_same"

// Profile is a loaded synchronization profile
type Profile struct {
	Options types.Options
	Policy  types.Policy
}

// Load reads a profile file. An empty path yields the defaults: the
// machine's hostname, no tags, conservative policy.
func Load(path string) (*Profile, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	hostname, _ := os.Hostname()
	defaults := map[string]interface{}{
		"hostname":   hostname,
		forceSameKey: false,
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "cannot load defaults")
	}

	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot load profile %q", path)
		}
		logger.Debug().Str("path", path).Msg("profile loaded")
	}

	options := types.Options{}
	for key, value := range k.All() {
		if key == forceSameKey {
			continue
		}
		options[key] = value
	}

	return &Profile{
		Options: options,
		Policy:  types.Policy{ForceSame: k.Bool(forceSameKey)},
	}, nil
}

// Override applies CLI-level settings on top of the profile. Tags are
// appended, a non-empty hostname replaces the profile's, and each kv
// is a "key=value" pair added to the bag.
func (p *Profile) Override(tags []string, hostname string, kvs []string, forceSame bool) error {
	if len(tags) > 0 {
		merged := p.Options.Tags()
		for _, tag := range tags {
			if !p.Options.HasTag(tag) {
				merged = append(merged, tag)
			}
		}
		p.Options["tags"] = merged
	}

	if hostname != "" {
		p.Options["hostname"] = hostname
	}

	for _, kv := range kvs {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return errors.Newf(errors.ErrInvalidInput, "option %q is not of the form key=value", kv)
		}
		p.Options[key] = value
	}

	if forceSame {
		p.Policy.ForceSame = true
	}
	return nil
}

// parserFor picks the koanf parser by file extension
func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	}
	return nil, errors.Newf(errors.ErrConfigParse, "unsupported profile format %q", filepath.Ext(path))
}
