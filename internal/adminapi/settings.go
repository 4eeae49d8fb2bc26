package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/canevoj/standarium/internal/domain"
	"github.com/canevoj/standarium/internal/webserver"
)

// quoteRules is the decoded business-rule section of sys_config.
type quoteRules struct {
	MarkupPercent int `json:"markup_percent" mapstructure:"MarkupPercent"`
}

func registerSettingsRoutes() {
	webserver.ApiGET("/system/settings", listSettings)
	webserver.ApiPUT("/system/settings", putSetting)
	webserver.ApiGET("/system/quote-rules", getQuoteRules)
}

func listSettings(c echo.Context) error {
	var rows []domain.SysConfig
	if err := GetDB(c).Order("sort, id").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query settings", err.Error())
	}
	return ok(c, rows)
}

type settingPayload struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

func putSetting(c echo.Context) error {
	var payload settingPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse setting", err.Error())
	}
	if payload.Type == "" || payload.Name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Setting type and name are required", nil)
	}
	if err := GetApp(c).Settings().Set(payload.Type, payload.Name, payload.Value); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save setting", err.Error())
	}
	opLog(c, "setting.update", payload.Type+"."+payload.Name)
	return ok(c, nil)
}

func getQuoteRules(c echo.Context) error {
	var rules quoteRules
	if err := GetApp(c).Settings().DecodeSection("bizural", &rules); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to decode business rules", err.Error())
	}
	return ok(c, rules)
}
