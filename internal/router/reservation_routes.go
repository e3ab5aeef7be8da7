package router

import (
	"github.com/labstack/echo/v4"

	"github.com/medazero01-art/scuderiarentals/internal/handler"
	"github.com/medazero01-art/scuderiarentals/internal/middleware"
	"github.com/medazero01-art/scuderiarentals/internal/model"
)

// RegisterReservations registers the reservation engine's endpoints.
// Creating a reservation and listing one's own require authentication;
// the full listing and status decisions are admin-only; the approved-date
// calendar for a car is public (and cached when a cache middleware is
// supplied) so guests can see blocked ranges before signing up.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	auth := e.Group("/v1/reservations", middleware.JWTAuth(jwtSecret))
	auth.POST("", h.Create)
	auth.GET("/my-reservations", h.ListMine)

	admin := e.Group("/v1/reservations",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	admin.GET("", h.ListAll)
	admin.PUT("/:id/status", h.UpdateStatus)

	if cache != nil {
		e.GET("/v1/reservations/car/:carId/approved", h.ListApprovedForCar, cache)
	} else {
		e.GET("/v1/reservations/car/:carId/approved", h.ListApprovedForCar)
	}
}
