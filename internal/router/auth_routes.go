package router

import (
	"github.com/labstack/echo/v4"

	"github.com/medazero01-art/scuderiarentals/internal/handler"
	"github.com/medazero01-art/scuderiarentals/internal/middleware"
)

// RegisterAuth registers the authentication endpoints.  Register and login
// live under /v1/auth and are open (optionally throttled by the supplied
// rate limiter, the only surface worth throttling); /v1/auth/me requires a
// valid access token.  The token itself is the whole credential: there is
// no server-side session to create or destroy, so there is no logout
// endpoint.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	if limiter != nil {
		g.Use(limiter)
	}
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.GET("/me", a.Me, middleware.JWTAuth(jwtSecret))
}
