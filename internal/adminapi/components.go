package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/canevoj/standarium/internal/domain"
	"github.com/canevoj/standarium/internal/webserver"
)

type componentPayload struct {
	Name string  `json:"name"`
	Cost float64 `json:"cost"`
}

func registerComponentRoutes() {
	webserver.ApiGET("/components", listComponents)
	webserver.ApiPOST("/components", createComponent)
	webserver.ApiPUT("/components/:id", updateComponent)
	webserver.ApiDELETE("/components/:id", deleteComponent)
}

func listComponents(c echo.Context) error {
	return ok(c, GetSession(c).Store().GetComponents())
}

func createComponent(c echo.Context) error {
	var payload componentPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse component", err.Error())
	}
	if payload.Name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Component name is required", nil)
	}
	entity := &domain.Component{Name: payload.Name, Cost: payload.Cost}
	id, err := GetGateway(c).Save(GetSession(c), domain.CollectionComponents, entity, 0)
	if err != nil {
		return failSync(c, err)
	}
	return ok(c, echo.Map{"id": id})
}

func updateComponent(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid component ID", nil)
	}
	var payload componentPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse component", err.Error())
	}
	entity := &domain.Component{Name: payload.Name, Cost: payload.Cost}
	if _, err := GetGateway(c).Save(GetSession(c), domain.CollectionComponents, entity, id); err != nil {
		return failSync(c, err)
	}
	return ok(c, echo.Map{"id": id})
}

func deleteComponent(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid component ID", nil)
	}
	if err := GetGateway(c).Remove(GetSession(c), domain.CollectionComponents, id); err != nil {
		return failSync(c, err)
	}
	return ok(c, nil)
}
