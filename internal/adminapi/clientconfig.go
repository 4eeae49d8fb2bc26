package adminapi

import (
	"github.com/labstack/echo/v4"

	"github.com/canevoj/standarium/internal/webserver"
)

func registerClientConfigRoutes() {
	webserver.PubGET("/client-config", getClientConfig)
}

// getClientConfig serves the bootstrap configuration the web client fetches
// before sign-in. Only values safe to expose belong here.
func getClientConfig(c echo.Context) error {
	cfg := GetApp(c).Config()
	return ok(c, echo.Map{
		"app_id":     cfg.System.Appid,
		"api_base":   "/api",
		"ai_enabled": cfg.AI.BackendURL != "",
		"location":   cfg.System.Location,
	})
}
