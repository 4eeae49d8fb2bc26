package report

import (
	"bytes"
	"html/template"

	"github.com/pkg/errors"
)

// The PDF export is the browser's print pipeline: the server renders a
// self-contained printable HTML document and the client prints it.
var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Inter, sans-serif; color: #000; }
h1 { text-align: center; }
table { width: 100%; border-collapse: collapse; }
th, td { border: 1px solid #444; padding: 6px 10px; text-align: left; }
th { background: #eee; text-transform: uppercase; font-size: 12px; }
</style>
</head>
<body onload="window.print()">
<h1>{{.Title}}</h1>
<table>
<thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

type printDoc struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// ExportPrintHTML renders the printable HTML document for a table. Numeric
// cells are formatted as currency the same way the report page displays
// them.
func ExportPrintHTML(t *Table, title string) ([]byte, error) {
	doc := printDoc{Title: title, Headers: t.Headers}
	for _, row := range t.Rows {
		cells := make([]string, 0, len(t.Headers))
		for _, header := range t.Headers {
			value, _ := Lookup(row, header)
			cells = append(cells, FormatCell(header, value))
		}
		doc.Rows = append(doc.Rows, cells)
	}

	var buf bytes.Buffer
	if err := printTemplate.Execute(&buf, doc); err != nil {
		return nil, errors.Wrap(err, "render print document")
	}
	return buf.Bytes(), nil
}
