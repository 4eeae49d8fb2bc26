package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/canevoj/standarium/internal/webserver"
)

type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResult struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

func registerAuthRoutes() {
	webserver.PubPOST("/auth/signup", postSignUp)
	webserver.PubPOST("/auth/signin", postSignIn)
	webserver.ApiPOST("/auth/signout", postSignOut)
}

func postSignUp(c echo.Context) error {
	var payload credentialsPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse credentials", err.Error())
	}
	sess, token, err := GetGateway(c).SignUp(strings.TrimSpace(payload.Email), payload.Password)
	if err != nil {
		return fail(c, http.StatusBadRequest, "SIGNUP_FAILED", err.Error(), nil)
	}
	return ok(c, authResult{Token: token, Email: sess.Email})
}

func postSignIn(c echo.Context) error {
	var payload credentialsPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse credentials", err.Error())
	}
	sess, token, err := GetGateway(c).SignIn(strings.TrimSpace(payload.Email), payload.Password)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "SIGNIN_FAILED", err.Error(), nil)
	}
	GetApp(c).OpLog(sess.Email, c.RealIP(), "signin", "principal signed in")
	return ok(c, authResult{Token: token, Email: sess.Email})
}

func postSignOut(c echo.Context) error {
	sess := GetSession(c)
	if sess != nil {
		opLog(c, "signout", "principal signed out")
		dropRenderer(sess)
		GetGateway(c).SignOut(sess)
	}
	return ok(c, nil)
}
