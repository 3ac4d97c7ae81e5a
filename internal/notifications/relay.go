package notifications

import (
	"context"
	"encoding/json"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"carpool-service/internal/events"
	"carpool-service/pkg/kafka"
)

// Relay consumes domain events, filters them by membership, and fans the
// resulting notifications out to the in-memory store and websocket hub.
// Best-effort push: no acknowledgment, retry, or replay.
type Relay struct {
	db    *pgxpool.Pool
	kafka *kafka.Client
	store *Store
	hub   *Hub
}

// NewRelay creates the notification relay.
func NewRelay(db *pgxpool.Pool, k *kafka.Client, store *Store, hub *Hub) *Relay {
	return &Relay{db: db, kafka: k, store: store, hub: hub}
}

// Start begins consuming booking and message events in the background.
func (r *Relay) Start(ctx context.Context) {
	r.kafka.Subscribe(ctx, kafka.TopicBookingCreated, "notify-booking-created", func(data []byte) error {
		var ev events.BookingCreatedEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return err
		}
		return r.onBookingCreated(ctx, ev)
	})

	r.kafka.Subscribe(ctx, kafka.TopicBookingStatusChanged, "notify-booking-status", func(data []byte) error {
		var ev events.BookingStatusChangedEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return err
		}
		return r.onBookingStatusChanged(ctx, ev)
	})

	r.kafka.Subscribe(ctx, kafka.TopicMessageCreated, "notify-message-created", func(data []byte) error {
		var ev events.MessageCreatedEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return err
		}
		return r.onMessageCreated(ctx, ev)
	})
}

// onBookingCreated alerts the owning trip's driver about a new request.
func (r *Relay) onBookingCreated(ctx context.Context, ev events.BookingCreatedEvent) error {
	var driverID, departure, destination string
	err := r.db.QueryRow(ctx,
		`SELECT driver_id, departure, destination FROM trips WHERE id=$1`, ev.TripID).
		Scan(&driverID, &departure, &destination)
	if err != nil {
		log.Printf("[notify] booking.created for unknown trip %s", ev.TripID)
		return nil
	}

	r.push(driverID, TypeBooking, "New booking request", routeLabel(departure, destination), "/driver")
	return nil
}

// onBookingStatusChanged alerts the passenger when the driver confirmed or
// cancelled. Events without an actual status change are dropped.
func (r *Relay) onBookingStatusChanged(ctx context.Context, ev events.BookingStatusChangedEvent) error {
	title, ok := StatusTitle(ev.OldStatus, ev.NewStatus)
	if !ok {
		return nil
	}

	var departure, destination string
	err := r.db.QueryRow(ctx,
		`SELECT departure, destination FROM trips WHERE id=$1`, ev.TripID).
		Scan(&departure, &destination)
	if err != nil {
		log.Printf("[notify] booking.status_changed for unknown trip %s", ev.TripID)
		return nil
	}

	r.push(ev.PassengerID, TypeBooking, title, routeLabel(departure, destination), "/bookings")
	return nil
}

// onMessageCreated alerts the conversation party that did not send the
// message, and mirrors the message onto the booking's live chat channel.
func (r *Relay) onMessageCreated(ctx context.Context, ev events.MessageCreatedEvent) error {
	r.hub.Broadcast(BookingChannel(ev.BookingID), map[string]any{
		"kind":       "message",
		"message_id": ev.MessageID,
		"booking_id": ev.BookingID,
		"sender_id":  ev.SenderID,
		"content":    ev.Content,
		"created_at": ev.CreatedAt,
	})

	var passengerID, driverID string
	err := r.db.QueryRow(ctx,
		`SELECT b.passenger_id, t.driver_id
		 FROM bookings b JOIN trips t ON t.id = b.trip_id
		 WHERE b.id=$1`, ev.BookingID).Scan(&passengerID, &driverID)
	if err != nil {
		log.Printf("[notify] message.created for unknown booking %s", ev.BookingID)
		return nil
	}

	recipient, ok := MessageRecipient(ev.SenderID, passengerID, driverID)
	if !ok {
		return nil
	}

	var senderName string
	if err := r.db.QueryRow(ctx,
		`SELECT full_name FROM profiles WHERE user_id=$1`, ev.SenderID).Scan(&senderName); err != nil {
		senderName = "User"
	}

	r.push(recipient, TypeMessage, "Message from "+senderName,
		Truncate(ev.Content, 50), "/messages?booking="+ev.BookingID)
	return nil
}

func (r *Relay) push(userID, typ, title, description, link string) {
	n := r.store.Add(userID, typ, title, description, link)
	r.hub.Broadcast(UserChannel(userID), map[string]any{
		"kind":         "notification",
		"notification": n,
	})
	log.Printf("[notify] %s → user %s: %s", typ, userID, title)
}

// ---- pure filtering helpers ----

// StatusTitle maps a booking status transition to notification wording.
// Only genuine pending → confirmed/cancelled transitions notify.
func StatusTitle(oldStatus, newStatus string) (string, bool) {
	if oldStatus == newStatus {
		return "", false
	}
	switch newStatus {
	case "confirmed":
		return "Booking confirmed", true
	case "cancelled":
		return "Booking declined", true
	default:
		return "", false
	}
}

// MessageRecipient picks the conversation party to notify. The sender is
// never notified; a sender outside the conversation notifies nobody.
func MessageRecipient(senderID, passengerID, driverID string) (string, bool) {
	switch senderID {
	case passengerID:
		return driverID, true
	case driverID:
		return passengerID, true
	default:
		return "", false
	}
}

// Truncate shortens a preview to max runes with an ellipsis.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func routeLabel(departure, destination string) string {
	return departure + " → " + destination
}
