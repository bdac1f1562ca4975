// Package template implements the render helper exposed to
// programmable entries. Templates use text/template syntax; strict
// mode demands a value for every placeholder, non-strict mode leaves
// missing placeholders verbatim in the output.
package template

import (
	"bytes"
	"sort"
	"strings"
	"text/template"
	"text/template/parse"

	"github.com/confman/confman/pkg/errors"
)

// Warning is the content of the auto-injected "warning" variable
const Warning = "DO NOT EDIT THIS FILE, EDIT THE TEMPLATE INSTEAD"

// WarningVar is the variable name the warn flag injects unless the
// caller already supplied one
const WarningVar = "warning"

// Template is a parsed template body ready to render
type Template struct {
	name string
	body string
}

// New creates a template from a literal body. The name only shows up
// in error messages.
func New(name, body string) *Template {
	return &Template{name: name, body: body}
}

// Render expands the template with the given variables.
//
// With strict set, every placeholder must have a variable; missing
// ones fail the render. Without strict, missing placeholders are left
// verbatim. With warn set, the "warning" variable is injected unless
// the caller supplied it.
func (t *Template) Render(vars map[string]interface{}, strict, warn bool) (string, error) {
	tmpl, err := template.New(t.name).Option("missingkey=error").Parse(t.body)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrTemplateRender, "cannot parse template %q", t.name)
	}

	data := make(map[string]interface{}, len(vars)+1)
	for k, v := range vars {
		data[k] = v
	}
	if warn {
		if _, ok := data[WarningVar]; !ok {
			data[WarningVar] = Warning
		}
	}

	missing := missingFields(tmpl, data)
	if len(missing) > 0 {
		if strict {
			return "", errors.Newf(errors.ErrTemplateRender,
				"template %q is missing variables: %s", t.name, strings.Join(missing, ", ")).
				WithDetail("missing", missing)
		}
		// leave the placeholder text untouched in the output
		for _, name := range missing {
			data[name] = "{{." + name + "}}"
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrapf(err, errors.ErrTemplateRender, "cannot render template %q", t.name)
	}
	return buf.String(), nil
}

// missingFields returns the sorted top-level field names referenced by
// the template but absent from data
func missingFields(tmpl *template.Template, data map[string]interface{}) []string {
	refs := make(map[string]struct{})
	if tmpl.Tree != nil {
		collectFields(tmpl.Tree.Root, refs)
	}

	var missing []string
	for name := range refs {
		if _, ok := data[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

func collectFields(node parse.Node, refs map[string]struct{}) {
	switch n := node.(type) {
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, item := range n.Nodes {
			collectFields(item, refs)
		}
	case *parse.ActionNode:
		collectPipe(n.Pipe, refs)
	case *parse.IfNode:
		collectBranch(&n.BranchNode, refs)
	case *parse.RangeNode:
		collectBranch(&n.BranchNode, refs)
	case *parse.WithNode:
		collectBranch(&n.BranchNode, refs)
	case *parse.TemplateNode:
		collectPipe(n.Pipe, refs)
	}
}

func collectBranch(branch *parse.BranchNode, refs map[string]struct{}) {
	collectPipe(branch.Pipe, refs)
	collectFields(branch.List, refs)
	collectFields(branch.ElseList, refs)
}

func collectPipe(pipe *parse.PipeNode, refs map[string]struct{}) {
	if pipe == nil {
		return
	}
	for _, cmd := range pipe.Cmds {
		for _, arg := range cmd.Args {
			switch a := arg.(type) {
			case *parse.FieldNode:
				if len(a.Ident) > 0 {
					refs[a.Ident[0]] = struct{}{}
				}
			case *parse.PipeNode:
				collectPipe(a, refs)
			}
		}
	}
}
