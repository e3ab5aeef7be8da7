package repository

import (
	"context"
	"database/sql"

	"github.com/medazero01-art/scuderiarentals/internal/model"
)

// CarRepo provides CRUD operations on the `cars` table.  Mutations are
// restricted to admins at the handler layer; the repository itself has no
// notion of roles.
type CarRepo struct{ DB *sql.DB }

func NewCarRepo(db *sql.DB) *CarRepo { return &CarRepo{DB: db} }

const carColumns = "id,name,year,price_per_day,available,image_url,description,created_at,updated_at"

func scanCar(row interface{ Scan(...any) error }) (model.Car, error) {
	var (
		c    model.Car
		year sql.NullInt32
		desc sql.NullString
	)
	err := row.Scan(&c.ID, &c.Name, &year, &c.PricePerDay, &c.Available,
		&c.ImageURL, &desc, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return model.Car{}, err
	}
	if year.Valid {
		y := uint16(year.Int32)
		c.Year = &y
	}
	if desc.Valid {
		d := desc.String
		c.Description = &d
	}
	return c, nil
}

// Create inserts a car and returns the stored row.
func (r *CarRepo) Create(ctx context.Context, c *model.Car) (model.Car, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO cars (name, year, price_per_day, available, image_url, description) VALUES (?,?,?,?,?,?)",
		c.Name, yearArg(c.Year), c.PricePerDay, c.Available, c.ImageURL, descArg(c.Description))
	if err != nil {
		return model.Car{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Car{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a single car.  Missing rows map to ErrCarNotFound.
func (r *CarRepo) GetByID(ctx context.Context, id uint64) (model.Car, error) {
	row := r.DB.QueryRowContext(ctx, "SELECT "+carColumns+" FROM cars WHERE id=? LIMIT 1", id)
	c, err := scanCar(row)
	if err == sql.ErrNoRows {
		return model.Car{}, ErrCarNotFound
	}
	return c, err
}

// List returns the whole inventory, newest first.
func (r *CarRepo) List(ctx context.Context) ([]model.Car, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+carColumns+" FROM cars ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cars := make([]model.Car, 0)
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, c)
	}
	return cars, rows.Err()
}

// Update overwrites the mutable columns of a car and returns the stored
// row.  The reservation engine never calls this; price changes do not
// ripple into existing reservations.
func (r *CarRepo) Update(ctx context.Context, id uint64, c *model.Car) (model.Car, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE cars SET name=?, year=?, price_per_day=?, available=?, image_url=?, description=? WHERE id=?",
		c.Name, yearArg(c.Year), c.PricePerDay, c.Available, c.ImageURL, descArg(c.Description), id)
	if err != nil {
		return model.Car{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Zero rows can mean either no such id or an identical row; probe to tell apart.
		if _, gerr := r.GetByID(ctx, id); gerr != nil {
			return model.Car{}, gerr
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a car.  Reservations that reference it are kept and will
// expand to the Deleted tombstone in listings.
func (r *CarRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM cars WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCarNotFound
	}
	return nil
}

func yearArg(y *uint16) any {
	if y == nil {
		return nil
	}
	return *y
}

func descArg(d *string) any {
	if d == nil {
		return nil
	}
	return *d
}
