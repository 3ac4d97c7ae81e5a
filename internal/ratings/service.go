package ratings

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"carpool-service/internal/events"
	"carpool-service/pkg/kafka"
	"carpool-service/pkg/validation"
)

var (
	ErrAlreadyRated    = errors.New("you have already rated this trip")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrBookingNotFound = errors.New("booking not found")
	ErrNotParticipant  = errors.New("only the booking's passenger or driver may rate")
	ErrWrongRatedUser  = errors.New("rated user must be the other party of the booking")
	ErrTripNotOver     = errors.New("trip is not completed yet")
)

const pgUniqueViolation = "23505"

// Service contains rating business logic.
type Service struct {
	db    *pgxpool.Pool
	kafka *kafka.Client
}

// NewService creates a rating service.
func NewService(db *pgxpool.Pool, k *kafka.Client) *Service {
	return &Service{db: db, kafka: k}
}

// Submit records a rating for the other party of a past booking. The rated
// user is derived from the booking, never taken from the request. The
// (booking, rater) pair is unique; a duplicate surfaces as ErrAlreadyRated.
func (s *Service) Submit(ctx context.Context, raterID string, req SubmitRequest) (*Rating, error) {
	if !validation.ValidateRating(req.Rating) {
		return nil, ErrInvalidRating
	}

	var passengerID, driverID, bookingStatus string
	var departureTime time.Time
	err := s.db.QueryRow(ctx,
		`SELECT b.passenger_id, t.driver_id, b.status, t.departure_time
		 FROM bookings b JOIN trips t ON t.id = b.trip_id
		 WHERE b.id=$1`, req.BookingID).
		Scan(&passengerID, &driverID, &bookingStatus, &departureTime)
	if err != nil {
		return nil, ErrBookingNotFound
	}
	ratedUserID, ok := Counterparty(raterID, passengerID, driverID)
	if !ok {
		return nil, ErrNotParticipant
	}
	if req.RatedUserID != "" && req.RatedUserID != ratedUserID {
		return nil, ErrWrongRatedUser
	}
	if bookingStatus != "completed" && departureTime.After(time.Now()) {
		return nil, ErrTripNotOver
	}

	id := uuid.New().String()
	now := time.Now()
	var comment *string
	if req.Comment != nil {
		if c := strings.TrimSpace(*req.Comment); c != "" {
			comment = &c
		}
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO ratings (id,booking_id,rater_id,rated_user_id,rating,comment,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		id, req.BookingID, raterID, ratedUserID, req.Rating, comment, now)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, ErrAlreadyRated
		}
		return nil, err
	}

	rating := &Rating{
		ID: id, BookingID: req.BookingID, RaterID: raterID,
		RatedUserID: ratedUserID, Rating: req.Rating,
		Comment: comment, CreatedAt: now,
	}

	go func() {
		ev := events.RatingCreatedEvent{
			RatingID:    id,
			BookingID:   req.BookingID,
			RaterID:     raterID,
			RatedUserID: ratedUserID,
			Rating:      req.Rating,
			CreatedAt:   now.Format(time.RFC3339),
		}
		if err := s.kafka.Publish(context.Background(), kafka.TopicRatingCreated, id, ev); err != nil {
			log.Printf("[ratings] failed to publish rating.created: %v", err)
		}
	}()

	return rating, nil
}

// ListForUser returns the reviews received by a user, newest first.
func (s *Service) ListForUser(ctx context.Context, ratedUserID string) ([]Review, error) {
	rows, err := s.db.Query(ctx,
		`SELECT r.id,r.booking_id,r.rater_id,r.rated_user_id,r.rating,r.comment,r.created_at,
		        p.full_name, p.photo_url
		 FROM ratings r
		 LEFT JOIN profiles p ON p.user_id = r.rater_id
		 WHERE r.rated_user_id=$1
		 ORDER BY r.created_at DESC`, ratedUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []Review{}
	for rows.Next() {
		var rv Review
		var name *string
		if err := rows.Scan(&rv.ID, &rv.BookingID, &rv.RaterID, &rv.RatedUserID,
			&rv.Rating.Rating, &rv.Comment, &rv.CreatedAt, &name, &rv.RaterPhoto); err != nil {
			return nil, err
		}
		if name != nil {
			rv.RaterName = *name
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

// StartAggregator consumes rating.created and keeps the rated profile's
// running average current.
func (s *Service) StartAggregator(ctx context.Context) {
	s.kafka.Subscribe(ctx, kafka.TopicRatingCreated, "rating-aggregator", func(data []byte) error {
		var ev events.RatingCreatedEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return err
		}
		log.Printf("[ratings] received rating.created: user=%s score=%d", ev.RatedUserID, ev.Rating)

		_, err := s.db.Exec(ctx,
			`UPDATE profiles
			 SET rating=(SELECT ROUND(AVG(rating)::numeric, 2) FROM ratings WHERE rated_user_id=$1),
			     updated_at=NOW()
			 WHERE user_id=$1`, ev.RatedUserID)
		return err
	})
}

// Counterparty resolves who a booking party rates: the passenger rates the
// driver and the driver rates the passenger. A rater outside the booking
// rates nobody.
func Counterparty(raterID, passengerID, driverID string) (string, bool) {
	switch raterID {
	case passengerID:
		return driverID, true
	case driverID:
		return passengerID, true
	default:
		return "", false
	}
}

// IsUniqueViolation reports whether err is a postgres duplicate-key error.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
