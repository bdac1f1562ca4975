package script

// Kind tags the outcome of evaluating a programmable entry
type Kind int

const (
	// KindRedirect treats the entry as a symlink to another source file
	KindRedirect Kind = iota + 1
	// KindEmpty ensures the destination exists, empty if absent
	KindEmpty
	// KindText sets the destination's desired content to a literal
	KindText
	// KindIgnore does nothing for the entry
	KindIgnore
)

func (k Kind) String() string {
	switch k {
	case KindRedirect:
		return "redirect"
	case KindEmpty:
		return "empty"
	case KindText:
		return "text"
	case KindIgnore:
		return "ignore"
	}
	return "unknown"
}

// Forwarder is the tagged result of evaluating a programmable entry's
// rule set. Exactly one of the payload fields is meaningful, selected
// by Kind: Filename for redirects, Text for literal content.
type Forwarder struct {
	Kind     Kind
	Filename string
	Text     string
}
