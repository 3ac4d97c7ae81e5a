package trips

import "time"

// Trip lifecycle states.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// Trip is a driver-published ride offer.
type Trip struct {
	ID             string    `json:"id"`
	DriverID       string    `json:"driver_id"`
	Departure      string    `json:"departure"`
	Destination    string    `json:"destination"`
	DepartureTime  time.Time `json:"departure_time"`
	AvailableSeats int       `json:"available_seats"`
	PricePerSeat   float64   `json:"price_per_seat"`
	VehicleModel   string    `json:"vehicle_model"`
	VehicleColor   *string   `json:"vehicle_color,omitempty"`
	VehiclePlate   *string   `json:"vehicle_plate,omitempty"`
	Status         string    `json:"status"`
	Description    *string   `json:"description,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PublishRequest is the body for POST /trips.
type PublishRequest struct {
	Departure      string    `json:"departure"`
	Destination    string    `json:"destination"`
	DepartureTime  time.Time `json:"departure_time"`
	AvailableSeats int       `json:"available_seats"`
	PricePerSeat   float64   `json:"price_per_seat"`
	VehicleModel   string    `json:"vehicle_model"`
	VehicleColor   *string   `json:"vehicle_color,omitempty"`
	VehiclePlate   *string   `json:"vehicle_plate,omitempty"`
	Description    *string   `json:"description,omitempty"`
}

// SearchQuery holds the GET /trips/search filters.
type SearchQuery struct {
	Departure   string
	Destination string
	Date        *time.Time // matches the whole day when set
}
