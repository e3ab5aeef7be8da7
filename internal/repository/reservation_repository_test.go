package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/medazero01-art/scuderiarentals/internal/model"
	repo "github.com/medazero01-art/scuderiarentals/internal/repository"
)

var expandedCols = []string{
	"r.id", "r.car_id", "r.user_id", "r.start_date", "r.end_date", "r.total_price", "r.status", "r.created_at",
	"c.id", "c.name", "c.year", "c.price_per_day", "c.available", "c.image_url", "c.description",
	"u.id", "u.username", "u.email", "u.phone_number",
}

func TestReservationRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	r := repo.NewReservationRepo(db)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO reservations (car_id, user_id, start_date, end_date, total_price, status) VALUES (?,?,?,?,?,?)`)).
		WithArgs(uint64(2), uint64(5), start, end, 100.0, "pending").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id,car_id,user_id,start_date,end_date,total_price,status,created_at,updated_at FROM reservations WHERE id=?`)).
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "car_id", "user_id", "start_date", "end_date", "total_price", "status", "created_at", "updated_at"}).
			AddRow(9, 2, 5, start, end, 100.0, "pending", now, now))

	res := model.Reservation{CarID: 2, UserID: 5, StartDate: start, EndDate: end, TotalPrice: 100, Status: model.StatusPending}
	require.NoError(t, r.Create(context.Background(), &res))
	require.Equal(t, uint64(9), res.ID)
	require.Equal(t, "pending", res.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepoListByUserExpandsCar(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	r := repo.NewReservationRepo(db)

	start := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(expandedCols).
		AddRow(11, 2, 5, start, end, 100.0, "approved", now,
			2, "Alpine A110", 2022, 50.0, true, "https://img/a110.png", nil,
			5, "dave", "dave@example.com", "0612345678")
	mock.ExpectQuery(`(?s)SELECT.*FROM reservations r.*LEFT JOIN cars c.*WHERE r\.user_id=\? ORDER BY r\.created_at DESC`).
		WithArgs(uint64(5)).WillReturnRows(rows)

	list, err := r.ListByUser(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Car)
	require.Equal(t, "Alpine A110", list[0].Car.Name)
	require.Equal(t, 50.0, list[0].Car.PricePerDay)
	// Own listings never embed the caller back into each row.
	require.Nil(t, list[0].User)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A reservation whose car and user rows were deleted expands to the
// tombstone views instead of failing the listing.
func TestReservationRepoListAllTombstones(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	r := repo.NewReservationRepo(db)

	start := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(expandedCols).
		AddRow(12, 99, 98, start, end, 60.0, "pending", now,
			nil, nil, nil, nil, nil, nil, nil,
			nil, nil, nil, nil)
	mock.ExpectQuery(`(?s)SELECT.*FROM reservations r.*ORDER BY r\.created_at DESC`).
		WillReturnRows(rows)

	list, err := r.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Car)
	require.Equal(t, "Deleted", list[0].Car.Name)
	require.Equal(t, 0.0, list[0].Car.PricePerDay)
	require.Empty(t, list[0].Car.ImageURL)
	require.NotNil(t, list[0].User)
	require.Equal(t, "Deleted", list[0].User.Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepoUpdateStatusMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	r := repo.NewReservationRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE reservations SET status=? WHERE id=?`)).
		WithArgs("approved", uint64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`(?s)SELECT.*FROM reservations r.*WHERE r\.id=\? LIMIT 1`).
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows(expandedCols))

	_, err = r.UpdateStatus(context.Background(), 404, "approved")
	require.ErrorIs(t, err, repo.ErrReservationNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepoListApprovedForCar(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	r := repo.NewReservationRepo(db)

	s1 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	e1 := time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC)
	s2 := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	e2 := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT start_date, end_date FROM reservations WHERE car_id=? AND status=? ORDER BY start_date`)).
		WithArgs(uint64(2), "approved").
		WillReturnRows(sqlmock.NewRows([]string{"start_date", "end_date"}).
			AddRow(s1, e1).AddRow(s2, e2))

	ranges, err := r.ListApprovedForCar(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, ranges, 2)
	require.Equal(t, s1, ranges[0].StartDate)
	require.Equal(t, e2, ranges[1].EndDate)
	require.NoError(t, mock.ExpectationsWereMet())
}
