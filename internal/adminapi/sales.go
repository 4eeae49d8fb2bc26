package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/canevoj/standarium/internal/domain"
	"github.com/canevoj/standarium/internal/webserver"
)

type salePayload struct {
	ProductID  int64   `json:"product_id,string"`
	Name       string  `json:"name"`
	CostTotal  float64 `json:"cost_total"`
	SaleValue  float64 `json:"sale_value"`
	SaleDate   string  `json:"sale_date"`
	SaleMethod string  `json:"sale_method"`
	Qty        int     `json:"qty"`
}

func registerSaleRoutes() {
	webserver.ApiGET("/sales", listSales)
	webserver.ApiPOST("/sales", createSale)
	webserver.ApiPUT("/sales/:id", updateSale)
	webserver.ApiDELETE("/sales/:id", deleteSale)
}

func listSales(c echo.Context) error {
	return ok(c, rendererFor(GetSession(c)).Sales())
}

func (p *salePayload) toSale() *domain.Sale {
	return &domain.Sale{
		ProductID:  p.ProductID,
		Name:       p.Name,
		CostTotal:  p.CostTotal,
		SaleValue:  p.SaleValue,
		SaleDate:   p.SaleDate,
		SaleMethod: p.SaleMethod,
		Qty:        p.Qty,
	}
}

// createSale records a standalone sale, one not backed by an inventory
// product. Product-backed sale rows are projected by the gateway instead.
func createSale(c echo.Context) error {
	var payload salePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse sale", err.Error())
	}
	id, err := GetGateway(c).Save(GetSession(c), domain.CollectionSales, payload.toSale(), 0)
	if err != nil {
		return failSync(c, err)
	}
	return ok(c, echo.Map{"id": id})
}

func updateSale(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid sale ID", nil)
	}
	var payload salePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse sale", err.Error())
	}
	if _, err := GetGateway(c).Save(GetSession(c), domain.CollectionSales, payload.toSale(), id); err != nil {
		return failSync(c, err)
	}
	return ok(c, echo.Map{"id": id})
}

func deleteSale(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid sale ID", nil)
	}
	if err := GetGateway(c).Remove(GetSession(c), domain.CollectionSales, id); err != nil {
		return failSync(c, err)
	}
	return ok(c, nil)
}
