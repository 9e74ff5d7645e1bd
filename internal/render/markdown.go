package render

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/dshills/xerex/internal/schema"
)

type markdownRenderer struct{}

var mdTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"mark": func(s schema.Status) string {
		switch s {
		case schema.StatusPass:
			return "✓"
		case schema.StatusWarn:
			return "⚠️"
		}
		return "❌"
	},
}).Parse(`# {{ .Banner }}

**Verdict:** {{ .Summary.Verdict }}
**Files:** {{ .Summary.Files }} | **Passed:** {{ .Summary.Passed }} | **Failed:** {{ .Summary.Failed }} | **Warnings:** {{ .Summary.Warnings }}
{{ range .Files }}
---

## {{ .Path }}
{{ range .Checks }}
- {{ mark .Status }} **{{ .Name }}**: {{ .Message }}
{{- end }}
{{ end }}
---
*Profile: {{ .Input.Profile }} | Expected version: {{ .Input.ExpectedVersion }} | Min rules: {{ .Input.MinRules }}*
`))

func (r *markdownRenderer) Render(report *schema.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := mdTemplate.Execute(&buf, report); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.Bytes(), nil
}
