// Package webserver owns the admin HTTP server: an echo instance with JWT
// session auth, request logging, prometheus middleware and the /api route
// helpers the handler packages register themselves through.
package webserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/canevoj/standarium/internal/aigw"
	"github.com/canevoj/standarium/internal/app"
	"github.com/canevoj/standarium/internal/syncd"
)

// Context keys used by the handler packages.
const (
	ContextKeyApp     = "appctx"
	ContextKeyGateway = "gateway"
	ContextKeyAI      = "aigw"
	ContextKeySession = "session"
)

type WebServer struct {
	root    *echo.Echo
	appctx  app.AppContext
	gateway *syncd.Gateway
	ai      *aigw.Client
	api     *echo.Group
	public  *echo.Group
}

var server *WebServer

// Init builds the package-level server. Call once at startup, before the
// handler packages register their routes.
func Init(appctx app.AppContext, gateway *syncd.Gateway, ai *aigw.Client) {
	server = NewWebServer(appctx, gateway, ai)
}

func NewWebServer(appctx app.AppContext, gateway *syncd.Gateway, ai *aigw.Client) *WebServer {
	s := &WebServer{
		root:    echo.New(),
		appctx:  appctx,
		gateway: gateway,
		ai:      ai,
	}
	s.root.HideBanner = true
	s.root.Debug = appctx.Config().System.Debug
	s.root.JSONSerializer = newJSONSerializer()

	s.root.Use(middleware.Recover())
	s.root.Use(echoprometheus.NewMiddleware("standarium"))
	s.root.Use(requestLogger())
	s.root.Use(s.injectContext)

	s.root.GET("/metrics", echoprometheus.NewHandler())

	// Auth routes and the client bootstrap config sit outside the JWT guard.
	s.public = s.root.Group("/api")

	s.api = s.root.Group("/api")
	s.api.Use(echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			sess, err := gateway.Authenticate(auth)
			if err != nil {
				return nil, err
			}
			c.Set(ContextKeySession, sess)
			return sess, nil
		},
	}))
	return s
}

func (s *WebServer) injectContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Set(ContextKeyApp, s.appctx)
		c.Set(ContextKeyGateway, s.gateway)
		c.Set(ContextKeyAI, s.ai)
		return next(c)
	}
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			zap.L().Info("http request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	})
}

// Listen starts the admin server and blocks.
func Listen() error {
	web := server.appctx.Config().Web
	addr := fmt.Sprintf("%s:%d", web.Host, web.Port)
	zap.L().Info("starting admin server", zap.String("listen", addr))
	server.root.Server.ReadHeaderTimeout = 10 * time.Second
	err := server.root.Start(addr)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Handler exposes the underlying router, mainly for httptest.
func Handler() http.Handler {
	return server.root
}

// ApiGET registers a JWT-protected GET route under /api.
func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}

// PubGET registers an unauthenticated GET route under /api.
func PubGET(path string, h echo.HandlerFunc) {
	server.public.GET(path, h)
}

// PubPOST registers an unauthenticated POST route under /api.
func PubPOST(path string, h echo.HandlerFunc) {
	server.public.POST(path, h)
}
