package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medazero01-art/scuderiarentals/internal/model"
	"github.com/medazero01-art/scuderiarentals/internal/queue"
	"github.com/medazero01-art/scuderiarentals/internal/repository"
	queue_publisher "github.com/medazero01-art/scuderiarentals/internal/service"
	"github.com/medazero01-art/scuderiarentals/internal/utils"
)

// ReservationHandler implements the reservation engine's HTTP surface.
// All methods assume JWT authentication (and, where applicable, the admin
// role) has been enforced by middleware.  The engine reads the inventory
// for the price lookup but never mutates it.
type ReservationHandler struct {
	Reservations *repository.ReservationRepo
	Cars         *repository.CarRepo
}

func NewReservationHandler(reservations *repository.ReservationRepo, cars *repository.CarRepo) *ReservationHandler {
	if reservations == nil || cars == nil {
		panic("nil repository passed to NewReservationHandler")
	}
	return &ReservationHandler{Reservations: reservations, Cars: cars}
}

type createReservationReq struct {
	CarID     uint64    `json:"carId" validate:"required"`
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required"`
}

type updateStatusReq struct {
	Status string `json:"status"`
}

// Create handles POST /v1/reservations.  The total price is captured from
// the car's current daily rate: billable days are the absolute span
// between the dates rounded up, floored at one day.  Date ordering is not
// validated.  No conflict check is made against approved reservations on
// the same car; the status starts as pending and an admin decides later.
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "carId, startDate and endDate are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	car, err := h.Cars.GetByID(ctx, req.CarID)
	if err != nil {
		if err == repository.ErrCarNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	res := model.Reservation{
		CarID:      car.ID,
		UserID:     userID,
		StartDate:  req.StartDate.UTC(),
		EndDate:    req.EndDate.UTC(),
		TotalPrice: utils.TotalPrice(req.StartDate, req.EndDate, car.PricePerDay),
		Status:     model.StatusPending,
	}
	if err := h.Reservations.Create(ctx, &res); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
	}

	return c.JSON(http.StatusCreated, model.ReservationView{
		ID:         res.ID,
		CarID:      res.CarID,
		UserID:     res.UserID,
		StartDate:  res.StartDate,
		EndDate:    res.EndDate,
		TotalPrice: res.TotalPrice,
		Status:     res.Status,
		CreatedAt:  res.CreatedAt,
	})
}

// ListMine handles GET /v1/reservations/my-reservations.  Each entry has
// its car expanded inline, newest first; a deleted car expands to the
// tombstone rather than failing the listing.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Reservations.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "fetch reservations failed"})
	}
	return c.JSON(http.StatusOK, list)
}

// ListAll handles GET /v1/reservations (admin).  Both car and user are
// expanded inline with the same tombstone substitution.
func (h *ReservationHandler) ListAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Reservations.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "fetch reservations failed"})
	}
	return c.JSON(http.StatusOK, list)
}

// UpdateStatus handles PUT /v1/reservations/:id/status (admin).  Only
// approved, rejected and completed are settable; pending is the creation
// default, never a target.  The prior status is overwritten without a
// transition check and without any overlap check against other approved
// reservations on the same car.
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !model.SettableStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	view, err := h.Reservations.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		if err == repository.ErrReservationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update status failed"})
	}

	// Best effort: notify downstream consumers of the decision.  A broker
	// outage must never fail the admin's request.
	ev := queue.ReservationStatusEvent{
		ReservationID: view.ID,
		CarID:         view.CarID,
		UserID:        view.UserID,
		Status:        view.Status,
		StartDate:     view.StartDate.Format(time.RFC3339),
		EndDate:       view.EndDate.Format(time.RFC3339),
		TotalPrice:    view.TotalPrice,
		DecidedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if view.Car != nil {
		ev.CarName = view.Car.Name
	}
	_ = queue_publisher.PublishReservationStatus(ctx, ev)

	return c.JSON(http.StatusOK, view)
}

// ListApprovedForCar handles GET /v1/reservations/car/:carId/approved.
// Public: returns only the date spans of approved reservations so a
// client calendar can block them out.  Purely advisory; the server does
// not enforce these ranges at booking time.
func (h *ReservationHandler) ListApprovedForCar(c echo.Context) error {
	carID, ok := pathID(c, "carId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ranges, err := h.Reservations.ListApprovedForCar(ctx, carID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "fetch approved dates failed"})
	}
	return c.JSON(http.StatusOK, ranges)
}
