// Package renderer turns ledgers and hash chains into markdown reports.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/hashledger"
)

//go:embed templates/*.md
var embedded embed.FS

var templates, _ = fs.Sub(embedded, "templates")

// funcs are available to every template.
var funcs = template.FuncMap{
	"short": shortHash,
	"cell":  cell,
}

// Verification is the outcome of checking a hash chain, ready to be rendered.
type Verification struct {
	Valid        bool                   `json:"valid"`
	FirstInvalid int                    `json:"first_invalid_index"`
	Blocks       int                    `json:"blocks"`
	Scheme       string                 `json:"scheme"`
	Violations   []hashledger.Violation `json:"violations"`
}

// NewVerification verifies c. If all is true every violation is collected,
// otherwise only the first one.
func NewVerification(c *hashledger.HashChain, all bool) *Verification {
	v := &Verification{
		FirstInvalid: -1,
		Blocks:       c.Len(),
		Scheme:       c.Scheme().String(),
		Violations:   []hashledger.Violation{},
	}
	violations := c.Audit()
	v.Valid = len(violations) == 0
	if !v.Valid {
		v.FirstInvalid = violations[0].Index
		if !all {
			violations = violations[:1]
		}
		v.Violations = violations
	}
	return v
}

// RenderVerification renders the Verification struct to a markdown string.
func RenderVerification(v *Verification) string {
	partials := map[string]string{
		"verification_title":      "verification_title.md",
		"verification_violations": "verification_violations.md",
	}
	return renderTemplate("verification", "verification.md", partials, v)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			content, err = fs.ReadFile(templates, file)
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
