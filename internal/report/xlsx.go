package report

import (
	"bytes"
	"strconv"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/pkg/errors"
)

const sheetName = "Relatório"

// ExportXLSX serializes a table as a single-sheet workbook.
func ExportXLSX(t *Table) ([]byte, error) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheetName)

	for col, header := range t.Headers {
		f.SetCellValue(sheetName, cellRef(col, 1), header)
	}
	for i, row := range t.Rows {
		for col, header := range t.Headers {
			value, _ := Lookup(row, header)
			f.SetCellValue(sheetName, cellRef(col, i+2), value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, errors.Wrap(err, "write workbook")
	}
	return buf.Bytes(), nil
}

func cellRef(col, row int) string {
	return excelize.ToAlphaString(col) + strconv.Itoa(row)
}
