package report

import (
	"bytes"
	"html/template"
	"io"
	"path/filepath"
	"sort"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/nuvai/nuvai/internal/types"
)

var htmlTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"sevClass": sevClass,
}).Parse(`<!DOCTYPE html>
<html><head><meta charset="UTF-8"><title>Scan Report</title>
<style>
body { font-family: sans-serif; padding: 20px; color: #2c3e50; }
h2 { color: #B30000; font-size: 1.1em; margin-bottom: 4px; }
.meta { color: #7f8c8d; }
.summary td { padding: 2px 12px 2px 0; }
.sev-critical, .sev-high, .sev-error { color: #B30000; }
.sev-medium, .sev-warning { color: #b7791f; }
.sev-info, .sev-tip { color: #2471a3; }
.path { font-family: monospace; color: #555; }
pre { overflow-x: auto; }
</style>
</head><body>
<h1>{{.Title}}</h1>
<p class="meta">Generated {{.Generated}}{{if .Root}} for <span class="path">{{.Root}}</span>{{end}}{{if .FilesScanned}}, {{.FilesScanned}} files scanned{{end}}</p>
<table class="summary">{{range .Summary}}<tr><td class="{{sevClass .Severity}}">{{.Severity}}</td><td>{{.Count}}</td></tr>{{end}}</table>
<hr>
{{range .Findings}}<h2 class="{{sevClass .Severity}}">[{{.Severity}}] {{.Category}}</h2>
{{if .Path}}<p class="path">{{.Path}}</p>{{end}}<p><strong>Description:</strong> {{.Message}}</p>
<p><strong>Recommendation:</strong> {{.Recommendation}}</p><hr>
{{end}}{{if .Sources}}<h1>Sources</h1>
{{range .Sources}}<h3 class="path">{{.Path}}</h3>
{{.Body}}
{{end}}{{end}}</body></html>
`))

type htmlSource struct {
	Path string
	Body template.HTML
}

type htmlView struct {
	Title        string
	Generated    string
	Root         string
	FilesScanned int
	Summary      []SeverityCount
	Findings     []types.Finding
	Sources      []htmlSource
}

// WriteHTML renders r as a standalone HTML document. Sources, when present,
// are listed after the findings with syntax highlighting.
func WriteHTML(w io.Writer, r Report) error {
	v := htmlView{
		Title:        Title,
		Generated:    r.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC"),
		Root:         r.Root,
		FilesScanned: r.FilesScanned,
		Summary:      Summarize(r.Findings),
		Findings:     r.Findings,
	}
	paths := make([]string, 0, len(r.Sources))
	for p := range r.Sources {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		v.Sources = append(v.Sources, htmlSource{Path: p, Body: highlightHTML(r.Sources[p], p)})
	}
	return htmlTmpl.Execute(w, v)
}

func sevClass(s types.Severity) string {
	switch s {
	case types.SevCritical:
		return "sev-critical"
	case types.SevHigh:
		return "sev-high"
	case types.SevError:
		return "sev-error"
	case types.SevMedium:
		return "sev-medium"
	case types.SevWarning:
		return "sev-warning"
	case types.SevTip:
		return "sev-tip"
	}
	return "sev-info"
}

// highlightHTML returns code as highlighted HTML with inline styles. When
// highlighting fails the code is escaped into a plain <pre> block.
func highlightHTML(code, filename string) template.HTML {
	plain := template.HTML("<pre>" + template.HTMLEscapeString(code) + "</pre>")

	lexer := lexers.Match(filename)
	if lexer == nil {
		if ext := filepath.Ext(filename); ext != "" {
			lexer = lexers.Match("file" + ext)
		}
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("github")
	if style == nil {
		style = styles.Fallback
	}
	formatter := chromahtml.New(chromahtml.WithLineNumbers(true), chromahtml.TabWidth(4))

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return plain
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return plain
	}
	return template.HTML(buf.String()) //nolint:gosec // chroma escapes token text
}
