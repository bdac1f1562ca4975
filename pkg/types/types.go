// Package types holds the shared contracts of the synchronization
// engine: the filesystem seam, the options bag passed to programmable
// entries, the policy knobs, and the reporter that carries the
// human-readable line each action emits.
package types

import (
	"fmt"
	"io/fs"
)

// FS abstracts filesystem operations so the engine can be exercised
// against an isolated tree in tests
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)
	Remove(name string) error
	ReadDir(name string) ([]fs.DirEntry, error)
}

// Options is the opaque bag of values the caller passes down to every
// programmable entry. Its schema (tags, hostname, free-form keys) is
// defined by the caller, not by the engine.
type Options map[string]interface{}

// Tags returns the "tags" entry as a string slice, tolerating both
// []string and the []interface{} that config parsers produce
func (o Options) Tags() []string {
	switch v := o["tags"].(type) {
	case []string:
		return v
	case []interface{}:
		tags := make([]string, 0, len(v))
		for _, item := range v {
			tags = append(tags, fmt.Sprint(item))
		}
		return tags
	}
	return nil
}

// HasTag reports whether the given tag is present in the bag
func (o Options) HasTag(tag string) bool {
	for _, t := range o.Tags() {
		if t == tag {
			return true
		}
	}
	return false
}

// Hostname returns the "hostname" entry, or ""
func (o Options) Hostname() string {
	s, _ := o.String("hostname")
	return s
}

// String returns the value under key rendered as a string
func (o Options) String(key string) (string, bool) {
	v, ok := o[key]
	if !ok {
		return "", false
	}
	return fmt.Sprint(v), true
}

// Policy carries the behavior knobs that historical versions of the
// tool disagreed on
type Policy struct {
	// ForceSame allows a plain-file destination with byte-identical
	// content to be replaced by a symlink
	ForceSame bool
}

// Reporter receives the human-readable line describing what each
// action did. Mutation lines describe filesystem changes; Notice lines
// describe decisions that changed nothing.
type Reporter interface {
	Mutation(format string, args ...interface{})
	Notice(format string, args ...interface{})
}

// NopReporter discards all lines
type NopReporter struct{}

func (NopReporter) Mutation(format string, args ...interface{}) {}
func (NopReporter) Notice(format string, args ...interface{})   {}
