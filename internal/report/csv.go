package report

import (
	"bytes"
	"strings"
)

// utf8BOM lets spreadsheet software detect the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ExportCSV serializes a table as UTF-8 CSV with a BOM, CRLF line endings
// and every data field quoted. Embedded quotes are doubled.
func ExportCSV(t *Table) []byte {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	buf.WriteString(strings.Join(t.Headers, ","))
	for _, row := range t.Rows {
		buf.WriteString("\r\n")
		for i, header := range t.Headers {
			if i > 0 {
				buf.WriteByte(',')
			}
			value, _ := Lookup(row, header)
			buf.WriteByte('"')
			buf.WriteString(strings.ReplaceAll(rawCell(value), `"`, `""`))
			buf.WriteByte('"')
		}
	}
	buf.WriteString("\r\n")
	return buf.Bytes()
}
