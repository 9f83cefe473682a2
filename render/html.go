package render

import (
	"html/template"
	"io"
)

var resultTemplate = template.Must(template.New("result").Parse(
	`<p class="result-{{.Class}}"><strong>{{.Headline}}</strong></p>
{{- if .HasBody}}
<pre class="result-{{.Class}}">{{.Body}}</pre>
{{- end}}
`))

// HTML writes the block as result-container markup. Headline and body are
// escaped.
func HTML(w io.Writer, b Block) error {
	return resultTemplate.Execute(w, struct {
		Block
		Class string
	}{b, b.Style.String()})
}
