package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medazero01-art/scuderiarentals/internal/model"
	"github.com/medazero01-art/scuderiarentals/internal/repository"
)

// CarHandler implements the inventory endpoints.  Reads are open (list) or
// merely authenticated (get by id); mutations run behind the admin role
// middleware and therefore never re-check the role here.
type CarHandler struct {
	Cars *repository.CarRepo
}

func NewCarHandler(cars *repository.CarRepo) *CarHandler {
	if cars == nil {
		panic("nil repository passed to NewCarHandler")
	}
	return &CarHandler{Cars: cars}
}

// carReq is the payload for create and update.  Available is a pointer so
// an omitted flag defaults to true instead of false.
type carReq struct {
	Name        string  `json:"name" validate:"required"`
	Year        *uint16 `json:"year"`
	PricePerDay float64 `json:"pricePerDay" validate:"required,gt=0"`
	Available   *bool   `json:"available"`
	ImageURL    string  `json:"imageUrl" validate:"required"`
	Description *string `json:"description"`
}

func (r carReq) toModel() model.Car {
	available := true
	if r.Available != nil {
		available = *r.Available
	}
	return model.Car{
		Name:        strings.TrimSpace(r.Name),
		Year:        r.Year,
		PricePerDay: r.PricePerDay,
		Available:   available,
		ImageURL:    strings.TrimSpace(r.ImageURL),
		Description: r.Description,
	}
}

// List handles GET /v1/cars.  The inventory listing is public.
func (h *CarHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cars, err := h.Cars.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	views := make([]model.CarView, 0, len(cars))
	for _, car := range cars {
		views = append(views, car.View())
	}
	return c.JSON(http.StatusOK, views)
}

// Get handles GET /v1/cars/:id.
func (h *CarHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	car, err := h.Cars.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrCarNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, car.View())
}

// Create handles POST /v1/cars (admin).
func (h *CarHandler) Create(c echo.Context) error {
	var req carReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, imageUrl and a positive pricePerDay are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m := req.toModel()
	car, err := h.Cars.Create(ctx, &m)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create car failed"})
	}
	return c.JSON(http.StatusCreated, car.View())
}

// Update handles PUT /v1/cars/:id (admin).
func (h *CarHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}
	var req carReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, imageUrl and a positive pricePerDay are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m := req.toModel()
	car, err := h.Cars.Update(ctx, id, &m)
	if err != nil {
		if err == repository.ErrCarNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update car failed"})
	}
	return c.JSON(http.StatusOK, car.View())
}

// Delete handles DELETE /v1/cars/:id (admin).  Reservations referencing
// the deleted car remain; listings substitute the Deleted tombstone.
func (h *CarHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Cars.Delete(ctx, id); err != nil {
		if err == repository.ErrCarNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete car failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "car deleted"})
}
