package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/canevoj/standarium/internal/render"
	"github.com/canevoj/standarium/internal/webserver"
)

func registerPageRoutes() {
	webserver.ApiGET("/dashboard", getDashboard)
	webserver.ApiGET("/inventory", getInventory)
	webserver.ApiGET("/servicelist", getServiceList)
	webserver.ApiGET("/checklist", getChecklist)
	webserver.ApiPOST("/checklist/quote", postChecklistQuote)
	webserver.ApiGET("/session/banner", getSessionBanner)
}

func getDashboard(c echo.Context) error {
	view := rendererFor(GetSession(c)).Dashboard(c.QueryParam("period"))
	return ok(c, view)
}

func getInventory(c echo.Context) error {
	query := render.InventoryQuery{
		Filter:       c.QueryParam("filter"),
		PurchaseDate: c.QueryParam("purchase_date"),
		SortBy:       c.QueryParam("sort"),
		Descending:   c.QueryParam("order") == "desc",
	}
	return ok(c, rendererFor(GetSession(c)).Inventory(query))
}

func getServiceList(c echo.Context) error {
	return ok(c, rendererFor(GetSession(c)).Services())
}

func getChecklist(c echo.Context) error {
	return ok(c, rendererFor(GetSession(c)).Checklist())
}

type quotePayload struct {
	CheckedIDs []int64 `json:"checked_ids"`
	Labor      float64 `json:"labor"`
}

func postChecklistQuote(c echo.Context) error {
	var payload quotePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse quote request", err.Error())
	}
	components := rendererFor(GetSession(c)).Checklist()
	markup := float64(GetApp(c).GetSettingsInt64Value("bizural", "MarkupPercent"))
	return ok(c, render.QuoteChecklist(components, payload.CheckedIDs, payload.Labor, markup))
}

// getSessionBanner returns and clears the pending error banner, so each
// failure message is shown once.
func getSessionBanner(c echo.Context) error {
	sess := GetSession(c)
	banner := sess.Banner()
	sess.ClearBanner()
	return ok(c, echo.Map{"banner": banner})
}
