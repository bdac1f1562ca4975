package actions

// Ignore records an entry that classification excluded. It has no
// destination and no effect; it only exists so diagnostics can show
// what was skipped and why.
type Ignore struct {
	base
}

// NewIgnore creates an ignore record for one source entry
func NewIgnore(env *Env, relDir, sourceName string) *Ignore {
	return &Ignore{base{env: env, relDir: relDir, sourceName: sourceName}}
}

func (a *Ignore) Kind() string { return "ignore" }

func (a *Ignore) Describe() string {
	return "Ignore: " + a.sourceName + " => IGNORED"
}

func (a *Ignore) Validate() error { return nil }
func (a *Ignore) Apply() error    { return nil }
