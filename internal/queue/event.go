// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationStatusEvent is published whenever an admin decides on a
// reservation (approved, rejected or completed).  It carries enough
// information for downstream consumers to log or notify without querying
// the primary database.
type ReservationStatusEvent struct {
    ReservationID uint64  `json:"reservation_id"`
    CarID         uint64  `json:"car_id"`
    CarName       string  `json:"car_name"`
    UserID        uint64  `json:"user_id"`
    Status        string  `json:"status"`
    StartDate     string  `json:"start_date"`
    EndDate       string  `json:"end_date"`
    TotalPrice    float64 `json:"total_price"`
    DecidedAt     string  `json:"decided_at"`
}
