package adminapi

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/canevoj/standarium/internal/domain"
	"github.com/canevoj/standarium/internal/report"
	"github.com/canevoj/standarium/internal/webserver"
)

type productPayload struct {
	Name           string   `json:"name"`
	Kind           string   `json:"kind"`
	CostTotal      float64  `json:"cost_total"`
	Qty            int      `json:"qty"`
	SuggestedPrice *float64 `json:"suggested_price"`
	PurchaseDate   string   `json:"purchase_date"`
	PurchaseMethod string   `json:"purchase_method"`
	Status         string   `json:"status"`
	SaleValue      *float64 `json:"sale_value"`
	SaleDate       *string  `json:"sale_date"`
	SaleMethod     *string  `json:"sale_method"`
	QtySold        *int     `json:"qty_sold"`
	Description    string   `json:"description"`
}

func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiPOST("/products", createProduct)
	webserver.ApiPUT("/products/:id", updateProduct)
	webserver.ApiDELETE("/products/:id", deleteProduct)
	webserver.ApiPOST("/products/import", importProducts)
}

// listProducts serves the session's product snapshot. The store is the source
// of truth after sign-in; the database is never queried on reads.
func listProducts(c echo.Context) error {
	return ok(c, GetSession(c).Store().GetProducts())
}

func (p *productPayload) toProduct() *domain.Product {
	return &domain.Product{
		Name:           p.Name,
		Kind:           p.Kind,
		CostTotal:      p.CostTotal,
		Qty:            p.Qty,
		SuggestedPrice: p.SuggestedPrice,
		PurchaseDate:   p.PurchaseDate,
		PurchaseMethod: p.PurchaseMethod,
		Status:         p.Status,
		SaleValue:      p.SaleValue,
		SaleDate:       p.SaleDate,
		SaleMethod:     p.SaleMethod,
		QtySold:        p.QtySold,
		Description:    p.Description,
	}
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if payload.Name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Product name is required", nil)
	}
	id, err := GetGateway(c).Save(GetSession(c), domain.CollectionProducts, payload.toProduct(), 0)
	if err != nil {
		return failSync(c, err)
	}
	opLog(c, "product.create", payload.Name)
	return ok(c, echo.Map{"id": id})
}

func updateProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if _, err := GetGateway(c).Save(GetSession(c), domain.CollectionProducts, payload.toProduct(), id); err != nil {
		return failSync(c, err)
	}
	return ok(c, echo.Map{"id": id})
}

func deleteProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if err := GetGateway(c).Remove(GetSession(c), domain.CollectionProducts, id); err != nil {
		return failSync(c, err)
	}
	opLog(c, "product.delete", c.Param("id"))
	return ok(c, nil)
}

// importProducts ingests an uploaded CSV and persists each parsed row through
// the gateway so the usual normalization and snapshot flow applies.
func importProducts(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Missing file upload", nil)
	}
	src, err := file.Open()
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to open upload", err.Error())
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to read upload", err.Error())
	}

	products, err := report.ImportProductsCSV(data)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_CSV", "Unable to parse CSV", err.Error())
	}

	sess := GetSession(c)
	gw := GetGateway(c)
	imported := 0
	for i := range products {
		if _, err := gw.Save(sess, domain.CollectionProducts, &products[i], 0); err != nil {
			return failSync(c, err)
		}
		imported++
	}
	opLog(c, "product.import", fmt.Sprintf("%d rows", imported))
	return ok(c, echo.Map{"imported": imported})
}
