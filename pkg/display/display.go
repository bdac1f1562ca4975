// Package display renders the resolved action tree for humans: one
// section per source directory, one badge-prefixed line per action.
// Styling degrades to plain text when stdout is not a terminal.
package display

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/confman/confman/pkg/actions"
	"github.com/confman/confman/pkg/source"
)

var (
	dirStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	ignoredStyle = lipgloss.NewStyle().Faint(true)

	kindStyles = map[string]lipgloss.Style{
		"symlink":      lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"copy":         lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"copy-once":    lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		"empty":        lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		"text":         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"programmable": lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		"ignore":       lipgloss.NewStyle().Faint(true),
	}
)

// ColorEnabled reports whether styled output makes sense on f
func ColorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	return termenv.NewOutput(f).ColorProfile() != termenv.Ascii
}

// Renderer renders resolved trees
type Renderer struct {
	colored bool
}

// NewRenderer creates a renderer; colored selects styled or plain text
func NewRenderer(colored bool) *Renderer {
	return &Renderer{colored: colored}
}

// Tree renders the resolved action tree of a ConfigSource, including
// the entries classification ignored
func (r *Renderer) Tree(c *source.ConfigSource) string {
	var b strings.Builder

	lastDir := ""
	first := true
	c.Walk(func(relDir string, action actions.Action) {
		if relDir != lastDir || first {
			if !first {
				b.WriteString("\n")
			}
			b.WriteString(r.styled(dirStyle, relDir))
			b.WriteString("\n")
			lastDir = relDir
			first = false
		}
		b.WriteString("  ")
		b.WriteString(r.badge(action.Kind()))
		b.WriteString(" ")
		b.WriteString(action.Describe())
		b.WriteString("\n")
	})

	ignored := c.Ignored()
	if len(ignored) > 0 {
		if !first {
			b.WriteString("\n")
		}
		b.WriteString(r.styled(dirStyle, "ignored"))
		b.WriteString("\n")
		for _, action := range ignored {
			line := "  " + action.RelDir() + "/" + action.SourceName()
			b.WriteString(r.styled(ignoredStyle, line))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// badge renders the action kind marker, e.g. "[symlink]"
func (r *Renderer) badge(kind string) string {
	text := "[" + kind + "]"
	style, ok := kindStyles[kind]
	if !ok {
		return text
	}
	return r.styled(style, text)
}

func (r *Renderer) styled(style lipgloss.Style, text string) string {
	if !r.colored {
		return text
	}
	return style.Render(text)
}
