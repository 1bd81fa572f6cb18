// Package pattern holds the fixed library of prompt design patterns used to
// seed prompt generation. Every pattern wraps the user's task description in
// pattern-specific instructions; expansion is pure string construction.
//
//	base := pattern.Expand("summarize meeting notes", "Persona")
//
// Pattern selection is advisory: an empty or unknown name silently yields the
// default instruction.
package pattern

import (
	"bytes"
	"strings"
	"text/template"
)

// Built-in pattern names.
const (
	Persona     = "persona"
	Flipped     = "flipped"
	NShot       = "n-shot"
	Directional = "directional"
	Template    = "template"
	Meta        = "meta"
)

// None is the front-end sentinel for "no pattern". It is not a pattern and
// expands to the default instruction like any other unknown name.
const None = "None"

// Pattern describes one entry of the library.
type Pattern struct {
	Name        string
	Description string
	tmpl        *template.Template
}

// Render expands the pattern for task.
func (p Pattern) Render(task string) string {
	return render(p.tmpl, task)
}

var builtins = []Pattern{ //nolint:gochecknoglobals
	{Name: Persona, Description: "Assign the model a role, identity or point of view", tmpl: TmplPersona},
	{Name: Flipped, Description: "Have the model ask questions until it can do the task", tmpl: TmplFlipped},
	{Name: NShot, Description: "Teach the behavior with three worked examples", tmpl: TmplNShot},
	{Name: Directional, Description: "Give explicit style, tone and structure directions", tmpl: TmplDirectional},
	{Name: Template, Description: "Produce a reusable template with placeholders", tmpl: TmplTemplate},
	{Name: Meta, Description: "Tell the model how to approach and reason about the task", tmpl: TmplMeta},
}

// Names returns the built-in pattern names in display order.
func Names() []string {
	names := make([]string, len(builtins))
	for i, p := range builtins {
		names[i] = p.Name
	}
	return names
}

// All returns the built-in patterns in display order.
func All() []Pattern {
	out := make([]Pattern, len(builtins))
	copy(out, builtins)
	return out
}

// Normalize trims and lowercases a pattern name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Lookup finds a built-in pattern by name, ignoring case and surrounding
// whitespace.
func Lookup(name string) (Pattern, bool) {
	n := Normalize(name)
	for _, p := range builtins {
		if p.Name == n {
			return p, true
		}
	}
	return Pattern{}, false
}

// Default returns the instruction used when no pattern applies.
func Default(task string) string {
	return render(TmplDefault, task)
}

// Expand wraps task in the instructions of the named pattern. An empty or
// unknown name yields Default(task).
func Expand(task, name string) string {
	p, ok := Lookup(name)
	if !ok {
		return Default(task)
	}
	return p.Render(task)
}

func render(tmpl *template.Template, task string) string {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Task string }{task}); err != nil {
		// Templates only reference .Task, so this is unreachable in practice.
		return "Given the following task, create a useful prompt: " + task
	}
	return buf.String()
}
