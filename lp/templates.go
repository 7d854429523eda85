package lp

import (
	"bytes"
	"strings"
	"text/template"
)

func TemplateToString(tmpl *template.Template, data interface{}) string {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		panic(err)
	}
	return buf.String()
}

func joinLits(ls []Literal, sep string) string {
	parts := make([]string, len(ls))
	for i, l := range ls {
		parts[i] = l.String()
	}
	return strings.Join(parts, sep)
}

func joinAtoms(as []Atom, sep string) string {
	parts := make([]string, len(as))
	for i, a := range as {
		parts[i] = a.String()
	}
	return strings.Join(parts, sep)
}

func NewTemplate(name, content string) *template.Template {
	tmpl, err := template.New(name).Funcs(
		template.FuncMap{"joinTerms": joinTerms, "joinLits": joinLits, "joinAtoms": joinAtoms}).Parse(content)
	if err != nil {
		panic(err)
	}
	return tmpl
}

var (
	atomTemplate       *template.Template
	factTemplate       *template.Template
	ruleTemplate       *template.Template
	constraintTemplate *template.Template
	choiceTemplate     *template.Template
	rawTemplate        *template.Template
)

// Rendering a literal goes back through atomTemplate, so the templates are
// built in init rather than in their declarations.
func init() {
	atomTemplate = NewTemplate("atom",
		`{{ .Predicate }}{{ if .Args }}({{ joinTerms .Args ", " }}){{ end }}`)

	factTemplate = NewTemplate("fact", `{{ .Head }}.`)

	ruleTemplate = NewTemplate("rule", `{{ .Head }} :- {{ joinLits .Body ", " }}.`)

	constraintTemplate = NewTemplate("constraint", `:- {{ joinLits .Body ", " }}.`)

	choiceTemplate = NewTemplate("choice",
		`{{ .Lower }} { {{ joinAtoms .Elements "; " }} } {{ .Upper }}{{ if .Body }} :- {{ joinLits .Body ", " }}{{ end }}.`)

	rawTemplate = NewTemplate("raw", `
{{- if .Name }}% begin {{ .Name }}
{{ end -}}
{{ .Text }}
{{- if .Name }}
% end {{ .Name }}{{ end }}`)
}
