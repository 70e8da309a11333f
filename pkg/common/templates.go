package common

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// ParseTemplate parses a template with the sprig function map installed.
// Missing keys render as empty strings.
func ParseTemplate(name string, text string) (*template.Template, error) {
	return template.New(name).
		Option("missingkey=zero").
		Funcs(sprig.TxtFuncMap()).
		Parse(text)
}

// ProcessTemplate processes a template with the given arguments.
//
// Parameters:
//   - text: The template to process
//   - args: Map of variable names to their values
//
// Returns:
//   - The processed template string with substituted variables
//   - An error if template processing fails
func ProcessTemplate(text string, args map[string]interface{}) (string, error) {
	tmpl, err := ParseTemplate("text", text)
	if err != nil {
		return "", err
	}
	return ExecuteTemplate(tmpl, args)
}

// ExecuteTemplate renders an already parsed template
func ExecuteTemplate(tmpl *template.Template, args map[string]interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, args); err != nil {
		return "", err
	}

	// missingkey=zero still prints "<no value>" for map lookups,
	// see https://github.com/golang/go/issues/24963
	return strings.ReplaceAll(buf.String(), "<no value>", ""), nil
}
