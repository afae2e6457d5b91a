package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxUserID extracts the authenticated user identity injected by the Auth
// middleware and performs a fast-fail check before any service call: a
// missing user_id means the middleware did not run on this route.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}

// ctxRole returns the session role; empty on unauthenticated requests.
func ctxRole(c echo.Context) string {
	role, _ := c.Get("role").(string)
	return role
}
