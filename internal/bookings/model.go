package bookings

import "time"

// Booking lifecycle states.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Booking is a passenger's request to occupy seats on a trip.
type Booking struct {
	ID            string    `json:"id"`
	TripID        string    `json:"trip_id"`
	PassengerID   string    `json:"passenger_id"`
	SeatsBooked   int       `json:"seats_booked"`
	TotalPrice    float64   `json:"total_price"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	PaymentMethod *string   `json:"payment_method,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TripSummary is the trip detail embedded in booking listings.
type TripSummary struct {
	ID            string    `json:"id"`
	Departure     string    `json:"departure"`
	Destination   string    `json:"destination"`
	DepartureTime time.Time `json:"departure_time"`
	DriverID      string    `json:"driver_id"`
	Status        string    `json:"status"`
}

// PassengerSummary is the profile detail embedded in driver triage listings.
type PassengerSummary struct {
	UserID   string  `json:"user_id"`
	FullName string  `json:"full_name"`
	Rating   float64 `json:"rating"`
	Phone    *string `json:"phone,omitempty"`
}

// BookingWithTrip joins a booking with its trip summary.
type BookingWithTrip struct {
	Booking
	Trip TripSummary `json:"trip"`
}

// BookingRequest is a driver-side view of a booking with the passenger.
type BookingRequest struct {
	BookingWithTrip
	Passenger *PassengerSummary `json:"passenger,omitempty"`
}

// CreateRequest is the body for POST /bookings.
type CreateRequest struct {
	TripID string `json:"trip_id"`
	Seats  int    `json:"seats"`
}

// StatusRequest is the body for PATCH /bookings/{id}/status.
type StatusRequest struct {
	Status string `json:"status"` // confirmed | cancelled
}

// BookingLists is the upcoming/past partition returned by GET /bookings/mine.
type BookingLists struct {
	Upcoming []BookingWithTrip `json:"upcoming"`
	Past     []BookingWithTrip `json:"past"`
}

// IsPast reports whether a booking belongs on the past tab: the trip has
// departed, or the booking reached a terminal status.
func IsPast(b BookingWithTrip, now time.Time) bool {
	if b.Status == StatusCompleted || b.Status == StatusCancelled {
		return true
	}
	return !b.Trip.DepartureTime.After(now)
}

// Partition splits bookings into disjoint, exhaustive upcoming/past lists.
func Partition(all []BookingWithTrip, now time.Time) BookingLists {
	lists := BookingLists{Upcoming: []BookingWithTrip{}, Past: []BookingWithTrip{}}
	for _, b := range all {
		if IsPast(b, now) {
			lists.Past = append(lists.Past, b)
		} else {
			lists.Upcoming = append(lists.Upcoming, b)
		}
	}
	return lists
}

// TotalPrice computes a booking's price at creation time.
func TotalPrice(seats int, pricePerSeat float64) float64 {
	return float64(seats) * pricePerSeat
}
