package messages

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"carpool-service/internal/bookings"
	"carpool-service/internal/events"
	"carpool-service/pkg/kafka"
)

var (
	ErrNotParticipant  = errors.New("not a participant in this conversation")
	ErrEmptyMessage    = errors.New("message content is required")
	ErrBookingNotFound = errors.New("booking not found")
)

// Service contains conversation business logic. Conversation membership is
// implicit: a booking's passenger and the owning trip's driver.
type Service struct {
	db    *pgxpool.Pool
	kafka *kafka.Client
}

// NewService creates a message service.
func NewService(db *pgxpool.Pool, k *kafka.Client) *Service {
	return &Service{db: db, kafka: k}
}

// Parties returns the passenger and driver of a booking's conversation.
func (s *Service) Parties(ctx context.Context, bookingID string) (passengerID, driverID string, err error) {
	err = s.db.QueryRow(ctx,
		`SELECT b.passenger_id, t.driver_id
		 FROM bookings b JOIN trips t ON t.id = b.trip_id
		 WHERE b.id=$1`, bookingID).Scan(&passengerID, &driverID)
	if err != nil {
		return "", "", ErrBookingNotFound
	}
	return passengerID, driverID, nil
}

func (s *Service) requireParticipant(ctx context.Context, bookingID, userID string) error {
	passengerID, driverID, err := s.Parties(ctx, bookingID)
	if err != nil {
		return err
	}
	if userID != passengerID && userID != driverID {
		return ErrNotParticipant
	}
	return nil
}

// Thread returns a booking's messages in chronological order. Member-only.
func (s *Service) Thread(ctx context.Context, userID, bookingID string) ([]Message, error) {
	if err := s.requireParticipant(ctx, bookingID, userID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx,
		`SELECT id,booking_id,sender_id,content,created_at,read_at
		 FROM messages WHERE booking_id=$1 ORDER BY created_at ASC`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := []Message{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.BookingID, &m.SenderID, &m.Content, &m.CreatedAt, &m.ReadAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// Send appends a message to a booking's conversation and publishes
// message.created.
func (s *Service) Send(ctx context.Context, userID, bookingID, content string) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if err := s.requireParticipant(ctx, bookingID, userID); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	now := time.Now()
	_, err := s.db.Exec(ctx,
		`INSERT INTO messages (id,booking_id,sender_id,content,created_at) VALUES ($1,$2,$3,$4,$5)`,
		id, bookingID, userID, content, now)
	if err != nil {
		return nil, err
	}

	msg := &Message{ID: id, BookingID: bookingID, SenderID: userID, Content: content, CreatedAt: now}

	go func() {
		ev := events.MessageCreatedEvent{
			MessageID: id,
			BookingID: bookingID,
			SenderID:  userID,
			Content:   content,
			CreatedAt: now.Format(time.RFC3339),
		}
		if err := s.kafka.Publish(context.Background(), kafka.TopicMessageCreated, bookingID, ev); err != nil {
			log.Printf("[messages] failed to publish message.created: %v", err)
		}
	}()

	return msg, nil
}

// MarkRead stamps read_at on the viewer's unread incoming messages. Already
// read threads are a no-op. Returns the number of messages touched.
func (s *Service) MarkRead(ctx context.Context, userID, bookingID string) (int64, error) {
	if err := s.requireParticipant(ctx, bookingID, userID); err != nil {
		return 0, err
	}
	tag, err := s.db.Exec(ctx,
		`UPDATE messages SET read_at=$1
		 WHERE booking_id=$2 AND sender_id <> $3 AND read_at IS NULL`,
		time.Now(), bookingID, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Conversations merges the user's passenger-side and driver-side bookings
// into an inbox, excluding cancelled bookings, most recent activity first.
func (s *Service) Conversations(ctx context.Context, userID string) ([]Conversation, error) {
	rows, err := s.db.Query(ctx,
		`SELECT b.id, b.status, b.passenger_id,
		        t.id, t.departure, t.destination, t.departure_time, t.driver_id,
		        p.user_id, p.full_name, p.phone, p.photo_url
		 FROM bookings b
		 JOIN trips t ON t.id = b.trip_id
		 JOIN profiles p ON p.user_id = CASE WHEN b.passenger_id = $1 THEN t.driver_id ELSE b.passenger_id END
		 WHERE (b.passenger_id = $1 OR t.driver_id = $1) AND b.status <> $2`,
		userID, bookings.StatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	convs := []Conversation{}
	for rows.Next() {
		var c Conversation
		var passengerID, driverID string
		if err := rows.Scan(&c.BookingID, &c.BookingStatus, &passengerID,
			&c.TripID, &c.Departure, &c.Destination, &c.DepartureTime, &driverID,
			&c.OtherParty.UserID, &c.OtherParty.FullName, &c.OtherParty.Phone, &c.OtherParty.PhotoURL); err != nil {
			return nil, err
		}
		c.IsDriver = passengerID != userID
		convs = append(convs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range convs {
		last, unread, err := s.lastAndUnread(ctx, convs[i].BookingID, userID)
		if err != nil {
			return nil, err
		}
		convs[i].LastMessage = last
		convs[i].UnreadCount = unread
	}

	sortByActivity(convs)
	return convs, nil
}

func (s *Service) lastAndUnread(ctx context.Context, bookingID, userID string) (*Message, int, error) {
	var m Message
	err := s.db.QueryRow(ctx,
		`SELECT id,booking_id,sender_id,content,created_at,read_at
		 FROM messages WHERE booking_id=$1 ORDER BY created_at DESC LIMIT 1`, bookingID).
		Scan(&m.ID, &m.BookingID, &m.SenderID, &m.Content, &m.CreatedAt, &m.ReadAt)
	var last *Message
	if err == nil {
		last = &m
	}

	var unread int
	err = s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM messages
		 WHERE booking_id=$1 AND sender_id <> $2 AND read_at IS NULL`, bookingID, userID).
		Scan(&unread)
	if err != nil {
		return last, 0, err
	}
	return last, unread, nil
}

// sortByActivity orders conversations by last message time, falling back to
// departure time for threads with no messages yet.
func sortByActivity(convs []Conversation) {
	activity := func(c Conversation) time.Time {
		if c.LastMessage != nil {
			return c.LastMessage.CreatedAt
		}
		return c.DepartureTime
	}
	sort.Slice(convs, func(i, j int) bool {
		return activity(convs[i]).After(activity(convs[j]))
	})
}
