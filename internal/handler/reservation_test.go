package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medazero01-art/scuderiarentals/internal/handler"
	"github.com/medazero01-art/scuderiarentals/internal/repository"
)

func newReservationHandler(t *testing.T) (*handler.ReservationHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return handler.NewReservationHandler(
		repository.NewReservationRepo(db),
		repository.NewCarRepo(db),
	), mock
}

// reservationContext builds an echo context carrying the identity the JWT
// middleware would have injected.
func reservationContext(e *echo.Echo, method, target, body string, userID float64, role string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID) // JWT numeric claims decode as float64
	c.Set("role", role)
	return c, rec
}

func TestCreateReservationComputesPrice(t *testing.T) {
	e := newEcho()
	h, mock := newReservationHandler(t)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	// Price lookup reads the car's current rate.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id,name,year,price_per_day,available,image_url,description,created_at,updated_at FROM cars WHERE id=? LIMIT 1`)).
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "year", "price_per_day", "available", "image_url", "description", "created_at", "updated_at"}).
			AddRow(2, "Alpine A110", nil, 50.0, true, "https://img/a110.png", nil, now, now))

	// Two billable days at 50/day must persist exactly 100.
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO reservations (car_id, user_id, start_date, end_date, total_price, status) VALUES (?,?,?,?,?,?)`)).
		WithArgs(uint64(2), uint64(5), start, end, 100.0, "pending").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id,car_id,user_id,start_date,end_date,total_price,status,created_at,updated_at FROM reservations WHERE id=?`)).
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "car_id", "user_id", "start_date", "end_date", "total_price", "status", "created_at", "updated_at"}).
			AddRow(9, 2, 5, start, end, 100.0, "pending", now, now))

	c, rec := reservationContext(e, http.MethodPost, "/v1/reservations",
		`{"carId":2,"startDate":"2024-01-01T00:00:00Z","endDate":"2024-01-03T00:00:00Z"}`, 5, "user")
	require.NoError(t, h.Create(c))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 100.0, resp["totalPrice"])
	assert.Equal(t, "pending", resp["status"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationReversedDatesStillBilled(t *testing.T) {
	e := newEcho()
	h, mock := newReservationHandler(t)

	start := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id,name,year,price_per_day,available,image_url,description,created_at,updated_at FROM cars WHERE id=? LIMIT 1`)).
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "year", "price_per_day", "available", "image_url", "description", "created_at", "updated_at"}).
			AddRow(2, "Alpine A110", nil, 50.0, true, "https://img/a110.png", nil, now, now))

	// |end - start| is four days; the reversed order is not rejected.
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO reservations`)).
		WithArgs(uint64(2), uint64(5), start, end, 200.0, "pending").
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id,car_id,user_id,start_date,end_date,total_price,status,created_at,updated_at FROM reservations WHERE id=?`)).
		WithArgs(uint64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "car_id", "user_id", "start_date", "end_date", "total_price", "status", "created_at", "updated_at"}).
			AddRow(10, 2, 5, start, end, 200.0, "pending", now, now))

	c, rec := reservationContext(e, http.MethodPost, "/v1/reservations",
		`{"carId":2,"startDate":"2024-01-05T00:00:00Z","endDate":"2024-01-01T00:00:00Z"}`, 5, "user")
	require.NoError(t, h.Create(c))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationCarMissing(t *testing.T) {
	e := newEcho()
	h, mock := newReservationHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id,name,year,price_per_day,available,image_url,description,created_at,updated_at FROM cars WHERE id=? LIMIT 1`)).
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "year", "price_per_day", "available", "image_url", "description", "created_at", "updated_at"}))

	c, rec := reservationContext(e, http.MethodPost, "/v1/reservations",
		`{"carId":404,"startDate":"2024-01-01T00:00:00Z","endDate":"2024-01-03T00:00:00Z"}`, 5, "user")
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "car not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Only approved, rejected and completed are settable targets; anything
// else fails before touching the database, so the reservation is left
// unchanged.
func TestUpdateStatusRejectsInvalidTargets(t *testing.T) {
	e := newEcho()
	h, mock := newReservationHandler(t)

	for _, status := range []string{"pending", "CONFIRMED", "cancelled", ""} {
		c, rec := reservationContext(e, http.MethodPut, "/v1/reservations/9/status",
			`{"status":"`+status+`"}`, 1, "admin")
		c.SetParamNames("id")
		c.SetParamValues("9")
		require.NoError(t, h.UpdateStatus(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code, "status %q should be rejected", status)
		assert.Contains(t, rec.Body.String(), "invalid status")
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusUnknownReservation(t *testing.T) {
	e := newEcho()
	h, mock := newReservationHandler(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE reservations SET status=? WHERE id=?`)).
		WithArgs("approved", uint64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`(?s)SELECT.*FROM reservations r.*WHERE r\.id=\? LIMIT 1`).
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{
			"r.id", "r.car_id", "r.user_id", "r.start_date", "r.end_date", "r.total_price", "r.status", "r.created_at",
			"c.id", "c.name", "c.year", "c.price_per_day", "c.available", "c.image_url", "c.description",
			"u.id", "u.username", "u.email", "u.phone_number",
		}))

	c, rec := reservationContext(e, http.MethodPut, "/v1/reservations/404/status",
		`{"status":"approved"}`, 1, "admin")
	c.SetParamNames("id")
	c.SetParamValues("404")
	require.NoError(t, h.UpdateStatus(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListApprovedForCarPublic(t *testing.T) {
	e := newEcho()
	h, mock := newReservationHandler(t)

	s1 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	e1 := time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT start_date, end_date FROM reservations WHERE car_id=? AND status=? ORDER BY start_date`)).
		WithArgs(uint64(2), "approved").
		WillReturnRows(sqlmock.NewRows([]string{"start_date", "end_date"}).AddRow(s1, e1))

	// No identity on the context: the endpoint is unauthenticated.
	req := httptest.NewRequest(http.MethodGet, "/v1/reservations/car/2/approved", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("carId")
	c.SetParamValues("2")
	require.NoError(t, h.ListApprovedForCar(c))

	require.Equal(t, http.StatusOK, rec.Code)
	var ranges []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ranges))
	require.Len(t, ranges, 1)
	assert.Equal(t, "2024-05-01T00:00:00Z", ranges[0]["startDate"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
