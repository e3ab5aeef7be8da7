package model

import "time"

// Car mirrors a row in the `cars` table.  The Available flag is advisory:
// it is shown to clients but never checked against existing reservations.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name of the car.
//  Year        – optional model year (nil when unknown).
//  PricePerDay – daily rental rate, positive.
//  Available   – advisory availability flag.
//  ImageURL    – reference to the car's picture.
//  Description – optional free text.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Car struct {
	ID          uint64     // cars.id
	Name        string     // cars.name
	Year        *uint16    // cars.year (nullable)
	PricePerDay float64    // cars.price_per_day
	Available   bool       // cars.available
	ImageURL    string     // cars.image_url
	Description *string    // cars.description (nullable)
	CreatedAt   time.Time  // cars.created_at
	UpdatedAt   time.Time  // cars.updated_at
}

// CarView is the JSON shape of a car in API responses.
type CarView struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Year        *uint16 `json:"year,omitempty"`
	PricePerDay float64 `json:"pricePerDay"`
	Available   bool    `json:"available"`
	ImageURL    string  `json:"imageUrl"`
	Description *string `json:"description,omitempty"`
}

// View projects a Car into its public shape.
func (c Car) View() CarView {
	return CarView{
		ID:          c.ID,
		Name:        c.Name,
		Year:        c.Year,
		PricePerDay: c.PricePerDay,
		Available:   c.Available,
		ImageURL:    c.ImageURL,
		Description: c.Description,
	}
}

// DeletedCar returns the tombstone substituted when a reservation
// references a car that has since been removed from the inventory.
func DeletedCar() CarView {
	return CarView{Name: "Deleted", PricePerDay: 0, ImageURL: ""}
}
