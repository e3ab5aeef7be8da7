package utils

import (
	"math"
	"time"
)

// RentalDays computes the number of billable days between two dates: the
// absolute span rounded up to whole days, never less than one.  Dates are
// deliberately not validated for ordering; an end before start is charged
// by its absolute duration, and a zero span still bills a single day.
func RentalDays(start, end time.Time) int {
	span := end.Sub(start)
	if span < 0 {
		span = -span
	}
	days := int(math.Ceil(span.Hours() / 24))
	if days < 1 {
		days = 1
	}
	return days
}

// TotalPrice is the rental charge captured at reservation time: billable
// days times the car's daily rate as of that moment.  Later rate changes
// never reprice an existing reservation.
func TotalPrice(start, end time.Time, pricePerDay float64) float64 {
	return float64(RentalDays(start, end)) * pricePerDay
}
