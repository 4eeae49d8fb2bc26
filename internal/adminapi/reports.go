package adminapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/canevoj/standarium/internal/report"
	"github.com/canevoj/standarium/internal/webserver"
)

var reportTitles = map[string]string{
	report.TypeSales:     "Relatório de Vendas",
	report.TypePurchases: "Relatório de Compras",
	report.TypeStock:     "Relatório de Estoque",
}

func registerReportRoutes() {
	webserver.ApiGET("/reports/:type", getReport)
	webserver.ApiGET("/reports/:type/export", exportReport)
}

func getReport(c echo.Context) error {
	table, err := report.Build(c.Param("type"), GetSession(c).Store().GetProducts())
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REPORT", err.Error(), nil)
	}
	return ok(c, table)
}

func exportReport(c echo.Context) error {
	reportType := c.Param("type")
	table, err := report.Build(reportType, GetSession(c).Store().GetProducts())
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REPORT", err.Error(), nil)
	}

	switch c.QueryParam("format") {
	case "csv", "":
		c.Response().Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="relatorio-%s.csv"`, reportType))
		return c.Blob(http.StatusOK, "text/csv; charset=utf-8", report.ExportCSV(table))

	case "xlsx":
		data, err := report.ExportXLSX(table)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "EXPORT_FAILED", "Unable to build spreadsheet", err.Error())
		}
		c.Response().Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="relatorio-%s.xlsx"`, reportType))
		return c.Blob(http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)

	case "pdf":
		// The printable document drives the browser's print-to-PDF flow.
		data, err := report.ExportPrintHTML(table, reportTitles[reportType])
		if err != nil {
			return fail(c, http.StatusInternalServerError, "EXPORT_FAILED", "Unable to build print document", err.Error())
		}
		return c.HTMLBlob(http.StatusOK, data)
	}
	return fail(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv, xlsx or pdf", nil)
}
