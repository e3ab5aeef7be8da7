package model

import "time"

// Reservation statuses.  A reservation is created as StatusPending; the
// three remaining values are admin-settable.  No transition graph is
// enforced: any settable status may overwrite any prior one.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCompleted = "completed"
)

// SettableStatus reports whether s may be assigned through the status
// update endpoint.  "pending" is the creation default only and is never a
// valid target.
func SettableStatus(s string) bool {
	switch s {
	case StatusApproved, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

// Reservation records a user's booking of a car for a date range.  The
// total price is derived once at creation from the car's daily rate and is
// not recomputed when the rate changes later.
//
// Fields:
//  ID         – primary key identifier.
//  CarID      – car being reserved.
//  UserID     – user who made the reservation.
//  StartDate  – first day of the rental.
//  EndDate    – last day of the rental.
//  TotalPrice – rental days × price per day, captured at creation.
//  Status     – pending, approved, rejected or completed.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Reservation struct {
	ID         uint64    // reservations.id
	CarID      uint64    // reservations.car_id
	UserID     uint64    // reservations.user_id
	StartDate  time.Time // reservations.start_date
	EndDate    time.Time // reservations.end_date
	TotalPrice float64   // reservations.total_price
	Status     string    // reservations.status
	CreatedAt  time.Time // reservations.created_at
	UpdatedAt  time.Time // reservations.updated_at
}

// ReservationView is the JSON shape of a reservation.  Car and User are
// expanded inline when the listing calls for it; a dangling reference is
// replaced by the corresponding tombstone view rather than failing the
// whole listing.
type ReservationView struct {
	ID         uint64    `json:"id"`
	CarID      uint64    `json:"carId"`
	UserID     uint64    `json:"userId"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	TotalPrice float64   `json:"totalPrice"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	Car        *CarView  `json:"car,omitempty"`
	User       *UserView `json:"user,omitempty"`
}

// DateRange is the minimal projection returned by the public availability
// calendar: just the span of an approved reservation.
type DateRange struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}
