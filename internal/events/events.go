package events

// BookingCreatedEvent is published to booking.created.
type BookingCreatedEvent struct {
	BookingID   string  `json:"booking_id"`
	TripID      string  `json:"trip_id"`
	PassengerID string  `json:"passenger_id"`
	Seats       int     `json:"seats"`
	TotalPrice  float64 `json:"total_price"`
	CreatedAt   string  `json:"created_at"`
}

// BookingStatusChangedEvent is published to booking.status_changed.
type BookingStatusChangedEvent struct {
	BookingID   string `json:"booking_id"`
	TripID      string `json:"trip_id"`
	PassengerID string `json:"passenger_id"`
	OldStatus   string `json:"old_status"`
	NewStatus   string `json:"new_status"`
	ChangedAt   string `json:"changed_at"`
}

// MessageCreatedEvent is published to message.created.
type MessageCreatedEvent struct {
	MessageID string `json:"message_id"`
	BookingID string `json:"booking_id"`
	SenderID  string `json:"sender_id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// RatingCreatedEvent is published to rating.created.
type RatingCreatedEvent struct {
	RatingID    string `json:"rating_id"`
	BookingID   string `json:"booking_id"`
	RaterID     string `json:"rater_id"`
	RatedUserID string `json:"rated_user_id"`
	Rating      int    `json:"rating"`
	CreatedAt   string `json:"created_at"`
}
