package messages

import "time"

// Message is one entry in a booking's conversation.
type Message struct {
	ID        string     `json:"id"`
	BookingID string     `json:"booking_id"`
	SenderID  string     `json:"sender_id"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}

// OtherParty is the counterpart profile shown on a conversation.
type OtherParty struct {
	UserID   string  `json:"user_id"`
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone,omitempty"`
	PhotoURL *string `json:"photo_url,omitempty"`
}

// Conversation is one per-booking thread in the inbox listing.
type Conversation struct {
	BookingID     string     `json:"booking_id"`
	BookingStatus string     `json:"booking_status"`
	TripID        string     `json:"trip_id"`
	Departure     string     `json:"departure"`
	Destination   string     `json:"destination"`
	DepartureTime time.Time  `json:"departure_time"`
	IsDriver      bool       `json:"is_driver"`
	OtherParty    OtherParty `json:"other_party"`
	LastMessage   *Message   `json:"last_message,omitempty"`
	UnreadCount   int        `json:"unread_count"`
}

// SendRequest is the body for POST /messages/bookings/{id}.
type SendRequest struct {
	Content string `json:"content"`
}
