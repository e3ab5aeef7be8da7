package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // the Echo web framework handles routing

	"github.com/medazero01-art/scuderiarentals/internal/handler"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check,
// used by load balancers and monitoring systems to verify the service is
// up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}
