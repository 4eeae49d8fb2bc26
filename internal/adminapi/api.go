// Package adminapi implements the REST surface: auth, collection CRUD, the
// derived pages, reports and the AI endpoints. Handlers register their routes
// through the webserver package and answer in a uniform JSON envelope.
package adminapi

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/canevoj/standarium/internal/aigw"
	"github.com/canevoj/standarium/internal/app"
	"github.com/canevoj/standarium/internal/render"
	"github.com/canevoj/standarium/internal/syncd"
	"github.com/canevoj/standarium/internal/webserver"
)

type apiResponse struct {
	Success bool        `json:"success"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Detail  interface{} `json:"detail,omitempty"`
}

type pagedResponse struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, apiResponse{Success: true, Data: data})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, apiResponse{
		Success: false, Code: code, Message: message, Detail: detail,
	})
}

func paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, pagedResponse{
		Success: true, Data: rows, Total: total, Page: page, PageSize: pageSize,
	})
}

// failSync maps a sync gateway error to the right HTTP status: auth errors
// are the caller's fault, everything else is a remote-store failure.
func failSync(c echo.Context, err error) error {
	switch {
	case err == syncd.ErrAuthRequired:
		return fail(c, http.StatusUnauthorized, "AUTH_REQUIRED", err.Error(), nil)
	case err == syncd.ErrNotFound:
		return fail(c, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case err == syncd.ErrUnknownCollection:
		return fail(c, http.StatusBadRequest, "INVALID_COLLECTION", err.Error(), nil)
	case syncd.IsAuthError(err):
		return fail(c, http.StatusUnauthorized, "AUTH_FAILED", err.Error(), nil)
	}
	return fail(c, http.StatusInternalServerError, "SYNC_ERROR", err.Error(), nil)
}

// opLog records the calling principal's action in the audit trail.
func opLog(c echo.Context, action, desc string) {
	name := ""
	if sess := GetSession(c); sess != nil {
		name = sess.Email
	}
	GetApp(c).OpLog(name, c.RealIP(), action, desc)
}

func parsePagination(c echo.Context) (page, pageSize int) {
	page, pageSize = 1, 20
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	if ps, err := strconv.Atoi(c.QueryParam("perPage")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func GetApp(c echo.Context) app.AppContext {
	return c.Get(webserver.ContextKeyApp).(app.AppContext)
}

func GetDB(c echo.Context) *gorm.DB {
	return GetApp(c).DB()
}

func GetGateway(c echo.Context) *syncd.Gateway {
	return c.Get(webserver.ContextKeyGateway).(*syncd.Gateway)
}

func GetAI(c echo.Context) *aigw.Client {
	return c.Get(webserver.ContextKeyAI).(*aigw.Client)
}

// GetSession returns the signed-in principal's session, set by the JWT
// middleware. Nil on unauthenticated routes.
func GetSession(c echo.Context) *syncd.Session {
	sess, _ := c.Get(webserver.ContextKeySession).(*syncd.Session)
	return sess
}

// renderers maps a live session to its renderer. Renderers attach to the
// session bus lazily on first page request; creation is serialized so
// concurrent first requests share one renderer. Entries drop on sign-out and
// when the gateway sweeps the session idle.
var (
	renderersMu sync.Mutex
	renderers   = make(map[*syncd.Session]*render.Renderer)
)

func rendererFor(sess *syncd.Session) *render.Renderer {
	renderersMu.Lock()
	if r, attached := renderers[sess]; attached {
		renderersMu.Unlock()
		return r
	}
	r := render.New(sess.Store())
	renderers[sess] = r
	renderersMu.Unlock()

	sess.OnClose(func() { dropRenderer(sess) })
	return r
}

func dropRenderer(sess *syncd.Session) {
	renderersMu.Lock()
	r := renderers[sess]
	delete(renderers, sess)
	renderersMu.Unlock()
	if r != nil {
		r.Close()
	}
}

// InitRouter registers every adminapi route on the webserver.
func InitRouter() {
	registerAuthRoutes()
	registerProductRoutes()
	registerServiceRoutes()
	registerComponentRoutes()
	registerSaleRoutes()
	registerPageRoutes()
	registerReportRoutes()
	registerAIRoutes()
	registerClientConfigRoutes()
	registerOpLogRoutes()
	registerSettingsRoutes()
}
