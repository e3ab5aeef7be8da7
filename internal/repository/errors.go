// Package repository implements MySQL persistence for users, cars and
// reservations.  This file defines sentinel error values shared across the
// repositories so that handlers can map failure scenarios to HTTP status
// codes without inspecting driver errors.
package repository

import "errors"

// Registration uniqueness violations.  The registration flow probes the
// three unique identity columns in a fixed order (username, then email,
// then phone number) and reports the first one already taken.
var (
	ErrUsernameExists = errors.New("username already taken")
	ErrEmailExists    = errors.New("email already used")
	ErrPhoneExists    = errors.New("phone number already used")
)

// ErrCarNotFound is returned when a car id does not exist in the
// inventory.  Handlers translate it into an HTTP 404 response.
var ErrCarNotFound = errors.New("car not found")

// ErrReservationNotFound is returned when a reservation id does not
// exist.  Handlers translate it into an HTTP 404 response.
var ErrReservationNotFound = errors.New("reservation not found")
