package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/canevoj/standarium/internal/domain"
	"github.com/canevoj/standarium/internal/webserver"
)

type servicePayload struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

func registerServiceRoutes() {
	webserver.ApiGET("/services", listServices)
	webserver.ApiPOST("/services", createService)
	webserver.ApiPUT("/services/:id", updateService)
	webserver.ApiDELETE("/services/:id", deleteService)
}

func listServices(c echo.Context) error {
	return ok(c, GetSession(c).Store().GetServices())
}

func (p *servicePayload) toService() *domain.Service {
	return &domain.Service{Name: p.Name, Price: p.Price, Description: p.Description}
}

func createService(c echo.Context) error {
	var payload servicePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse service", err.Error())
	}
	if payload.Name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Service name is required", nil)
	}
	id, err := GetGateway(c).Save(GetSession(c), domain.CollectionServices, payload.toService(), 0)
	if err != nil {
		return failSync(c, err)
	}
	return ok(c, echo.Map{"id": id})
}

func updateService(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid service ID", nil)
	}
	var payload servicePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse service", err.Error())
	}
	if _, err := GetGateway(c).Save(GetSession(c), domain.CollectionServices, payload.toService(), id); err != nil {
		return failSync(c, err)
	}
	return ok(c, echo.Map{"id": id})
}

func deleteService(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid service ID", nil)
	}
	if err := GetGateway(c).Remove(GetSession(c), domain.CollectionServices, id); err != nil {
		return failSync(c, err)
	}
	return ok(c, nil)
}
