package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/canevoj/standarium/internal/domain"
	"github.com/canevoj/standarium/internal/webserver"
)

func registerOpLogRoutes() {
	webserver.ApiGET("/system/oplog", listOpLog)
}

// listOpLog serves the operation log, newest first, with optional free-text
// filtering over the action description.
func listOpLog(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.SysOprLog{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		db = db.Where("LOWER(opt_desc) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query operation log", err.Error())
	}

	var rows []domain.SysOprLog
	if err := db.Order("opt_time DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query operation log", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}
