package router

import (
	"github.com/labstack/echo/v4"

	"github.com/medazero01-art/scuderiarentals/internal/handler"
	"github.com/medazero01-art/scuderiarentals/internal/middleware"
	"github.com/medazero01-art/scuderiarentals/internal/model"
)

// RegisterCars registers the inventory endpoints.  The catalogue listing
// is public (and cached when a cache middleware is supplied); fetching a
// single car requires authentication; create, update and delete are
// admin-only.
func RegisterCars(e *echo.Echo, h *handler.CarHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	if cache != nil {
		e.GET("/v1/cars", h.List, cache)
	} else {
		e.GET("/v1/cars", h.List)
	}

	auth := e.Group("/v1/cars", middleware.JWTAuth(jwtSecret))
	auth.GET("/:id", h.Get)

	admin := e.Group("/v1/cars",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	admin.POST("", h.Create)
	admin.PUT("/:id", h.Update)
	admin.DELETE("/:id", h.Delete)
}
