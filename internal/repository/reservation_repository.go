package repository

import (
	"context"
	"database/sql"

	"github.com/medazero01-art/scuderiarentals/internal/model"
)

// ReservationRepo provides persistence for reservations, including the
// joined listings that expand the referenced car and user inline.  A car
// or user deleted after the reservation was made leaves a dangling
// reference; listings substitute the model tombstones instead of failing.
// All timestamp columns are stored in UTC.
type ReservationRepo struct{ DB *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{DB: db} }

// Create inserts a new pending reservation and queries the row back to
// populate generated columns.  TotalPrice must already be computed by the
// caller from the car's rate at creation time; it is never derived again.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	result, err := r.DB.ExecContext(ctx,
		"INSERT INTO reservations (car_id, user_id, start_date, end_date, total_price, status) VALUES (?,?,?,?,?,?)",
		res.CarID, res.UserID, res.StartDate, res.EndDate, res.TotalPrice, res.Status)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return r.DB.QueryRowContext(ctx,
		"SELECT id,car_id,user_id,start_date,end_date,total_price,status,created_at,updated_at FROM reservations WHERE id=?",
		res.ID).
		Scan(&res.ID, &res.CarID, &res.UserID, &res.StartDate, &res.EndDate,
			&res.TotalPrice, &res.Status, &res.CreatedAt, &res.UpdatedAt)
}

// expandedColumns selects the reservation row plus the LEFT JOINed car and
// user columns used for inline expansion.  Joined columns are nullable:
// NULL means the referenced entity has been deleted.
const expandedColumns = `
	r.id, r.car_id, r.user_id, r.start_date, r.end_date, r.total_price, r.status, r.created_at,
	c.id, c.name, c.year, c.price_per_day, c.available, c.image_url, c.description,
	u.id, u.username, u.email, u.phone_number`

const expandedFrom = `
	FROM reservations r
	LEFT JOIN cars c ON c.id = r.car_id
	LEFT JOIN users u ON u.id = r.user_id`

// scanExpanded reads one joined row into a ReservationView, substituting
// tombstones for missing references.
func scanExpanded(row interface{ Scan(...any) error }) (model.ReservationView, error) {
	var (
		v model.ReservationView

		carID    sql.NullInt64
		carName  sql.NullString
		carYear  sql.NullInt32
		carPrice sql.NullFloat64
		carAvail sql.NullBool
		carImage sql.NullString
		carDesc  sql.NullString

		userID    sql.NullInt64
		username  sql.NullString
		userEmail sql.NullString
		userPhone sql.NullString
	)
	err := row.Scan(
		&v.ID, &v.CarID, &v.UserID, &v.StartDate, &v.EndDate, &v.TotalPrice, &v.Status, &v.CreatedAt,
		&carID, &carName, &carYear, &carPrice, &carAvail, &carImage, &carDesc,
		&userID, &username, &userEmail, &userPhone,
	)
	if err != nil {
		return model.ReservationView{}, err
	}

	if carID.Valid {
		cv := model.CarView{
			ID:          uint64(carID.Int64),
			Name:        carName.String,
			PricePerDay: carPrice.Float64,
			Available:   carAvail.Bool,
			ImageURL:    carImage.String,
		}
		if carYear.Valid {
			y := uint16(carYear.Int32)
			cv.Year = &y
		}
		if carDesc.Valid {
			d := carDesc.String
			cv.Description = &d
		}
		v.Car = &cv
	} else {
		tomb := model.DeletedCar()
		v.Car = &tomb
	}

	if userID.Valid {
		uv := model.UserView{
			ID:          uint64(userID.Int64),
			Username:    username.String,
			Email:       userEmail.String,
			PhoneNumber: userPhone.String,
		}
		v.User = &uv
	} else {
		tomb := model.DeletedUser()
		v.User = &tomb
	}
	return v, nil
}

// ListByUser returns the caller's reservations newest first, with the car
// expanded inline.  The user expansion is dropped from the payload: the
// caller already knows who they are.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.ReservationView, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT"+expandedColumns+expandedFrom+" WHERE r.user_id=? ORDER BY r.created_at DESC, r.id DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ReservationView, 0)
	for rows.Next() {
		v, err := scanExpanded(rows)
		if err != nil {
			return nil, err
		}
		v.User = nil
		out = append(out, v)
	}
	return out, rows.Err()
}

// ListAll returns every reservation newest first with both car and user
// expanded.  Intended for the admin overview.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]model.ReservationView, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT"+expandedColumns+expandedFrom+" ORDER BY r.created_at DESC, r.id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ReservationView, 0)
	for rows.Next() {
		v, err := scanExpanded(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// GetExpanded fetches a single reservation with both expansions applied.
func (r *ReservationRepo) GetExpanded(ctx context.Context, id uint64) (model.ReservationView, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT"+expandedColumns+expandedFrom+" WHERE r.id=? LIMIT 1", id)
	v, err := scanExpanded(row)
	if err == sql.ErrNoRows {
		return model.ReservationView{}, ErrReservationNotFound
	}
	return v, err
}

// UpdateStatus overwrites the status unconditionally and returns the
// updated row with expansions.  Validity of the target status is the
// handler's concern; no transition graph is enforced here and no overlap
// check is made against other approved reservations.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, status string) (model.ReservationView, error) {
	if _, err := r.DB.ExecContext(ctx, "UPDATE reservations SET status=? WHERE id=?", status, id); err != nil {
		return model.ReservationView{}, err
	}
	// Zero affected rows is ambiguous (unknown id vs unchanged status);
	// GetExpanded settles it by returning ErrReservationNotFound when the
	// row does not exist.
	return r.GetExpanded(ctx, id)
}

// ListApprovedForCar returns the date spans of approved reservations for a
// car.  This feeds the public availability calendar; it is advisory only
// and nothing prevents a new reservation over a returned range.
func (r *ReservationRepo) ListApprovedForCar(ctx context.Context, carID uint64) ([]model.DateRange, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT start_date, end_date FROM reservations WHERE car_id=? AND status=? ORDER BY start_date",
		carID, model.StatusApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.DateRange, 0)
	for rows.Next() {
		var dr model.DateRange
		if err := rows.Scan(&dr.StartDate, &dr.EndDate); err != nil {
			return nil, err
		}
		out = append(out, dr)
	}
	return out, rows.Err()
}
