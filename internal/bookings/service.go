package bookings

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"carpool-service/internal/events"
	"carpool-service/internal/trips"
	"carpool-service/pkg/kafka"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrNotEnoughSeats  = errors.New("not enough seats available")
	ErrOwnTrip         = errors.New("cannot book your own trip")
	ErrTripNotBookable = errors.New("trip is not bookable")
	ErrInvalidSeats    = errors.New("seats must be at least 1")
	ErrNotTripDriver   = errors.New("only the trip driver may update this booking")
	ErrInvalidStatus   = errors.New("status must be confirmed or cancelled")
	ErrNotPending      = errors.New("booking is no longer pending")
)

// Service contains booking business logic.
type Service struct {
	db    *pgxpool.Pool
	trips *trips.Service
	kafka *kafka.Client
}

// NewService creates a booking service.
func NewService(db *pgxpool.Pool, tripSvc *trips.Service, k *kafka.Client) *Service {
	return &Service{db: db, trips: tripSvc, kafka: k}
}

// Create inserts a pending booking and decrements the trip's seats in one
// transaction. The decrement is conditional on enough seats remaining, so
// concurrent requests cannot oversubscribe a trip.
func (s *Service) Create(ctx context.Context, passengerID string, req CreateRequest) (*Booking, error) {
	if req.Seats < 1 {
		return nil, ErrInvalidSeats
	}

	trip, err := s.trips.GetByID(ctx, req.TripID)
	if err != nil {
		return nil, err
	}
	if trip.DriverID == passengerID {
		return nil, ErrOwnTrip
	}
	if trip.Status != trips.StatusActive || !trip.DepartureTime.After(time.Now()) {
		return nil, ErrTripNotBookable
	}
	if req.Seats > trip.AvailableSeats {
		return nil, ErrNotEnoughSeats
	}

	id := uuid.New().String()
	total := TotalPrice(req.Seats, trip.PricePerSeat)
	now := time.Now()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE trips SET available_seats = available_seats - $1, updated_at=$2
		 WHERE id=$3 AND status=$4 AND available_seats >= $1`,
		req.Seats, now, req.TripID, trips.StatusActive)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotEnoughSeats
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO bookings (id,trip_id,passenger_id,seats_booked,total_price,status,payment_status)
		 VALUES ($1,$2,$3,$4,$5,$6,'pending')`,
		id, req.TripID, passengerID, req.Seats, total, StatusPending)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.trips.Invalidate(ctx, req.TripID)

	booking := &Booking{
		ID: id, TripID: req.TripID, PassengerID: passengerID,
		SeatsBooked: req.Seats, TotalPrice: total,
		Status: StatusPending, PaymentStatus: "pending",
		CreatedAt: now, UpdatedAt: now,
	}

	go func() {
		ev := events.BookingCreatedEvent{
			BookingID:   id,
			TripID:      req.TripID,
			PassengerID: passengerID,
			Seats:       req.Seats,
			TotalPrice:  total,
			CreatedAt:   now.Format(time.RFC3339),
		}
		if err := s.kafka.Publish(context.Background(), kafka.TopicBookingCreated, id, ev); err != nil {
			log.Printf("[bookings] failed to publish booking.created: %v", err)
		}
	}()

	return booking, nil
}

// GetByID fetches a booking by primary key.
func (s *Service) GetByID(ctx context.Context, id string) (*Booking, error) {
	var b Booking
	err := s.db.QueryRow(ctx,
		`SELECT id,trip_id,passenger_id,seats_booked,total_price,status,payment_status,payment_method,created_at,updated_at
		 FROM bookings WHERE id=$1`, id).
		Scan(&b.ID, &b.TripID, &b.PassengerID, &b.SeatsBooked, &b.TotalPrice,
			&b.Status, &b.PaymentStatus, &b.PaymentMethod, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, ErrBookingNotFound
	}
	return &b, nil
}

// ListMine returns the passenger's bookings split into upcoming and past.
func (s *Service) ListMine(ctx context.Context, passengerID string) (*BookingLists, error) {
	rows, err := s.db.Query(ctx,
		`SELECT b.id,b.trip_id,b.passenger_id,b.seats_booked,b.total_price,b.status,
		        b.payment_status,b.payment_method,b.created_at,b.updated_at,
		        t.id,t.departure,t.destination,t.departure_time,t.driver_id,t.status
		 FROM bookings b JOIN trips t ON t.id = b.trip_id
		 WHERE b.passenger_id=$1
		 ORDER BY t.departure_time ASC`, passengerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []BookingWithTrip
	for rows.Next() {
		var b BookingWithTrip
		if err := rows.Scan(&b.ID, &b.TripID, &b.PassengerID, &b.SeatsBooked, &b.TotalPrice,
			&b.Status, &b.PaymentStatus, &b.PaymentMethod, &b.CreatedAt, &b.UpdatedAt,
			&b.Trip.ID, &b.Trip.Departure, &b.Trip.Destination, &b.Trip.DepartureTime,
			&b.Trip.DriverID, &b.Trip.Status); err != nil {
			return nil, err
		}
		all = append(all, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lists := Partition(all, time.Now())
	return &lists, nil
}

// ListRequests returns bookings on the driver's trips, newest first, joined
// with the passenger's profile.
func (s *Service) ListRequests(ctx context.Context, driverID string) ([]BookingRequest, error) {
	rows, err := s.db.Query(ctx,
		`SELECT b.id,b.trip_id,b.passenger_id,b.seats_booked,b.total_price,b.status,
		        b.payment_status,b.payment_method,b.created_at,b.updated_at,
		        t.id,t.departure,t.destination,t.departure_time,t.driver_id,t.status,
		        p.user_id,p.full_name,p.rating,p.phone
		 FROM bookings b
		 JOIN trips t ON t.id = b.trip_id
		 LEFT JOIN profiles p ON p.user_id = b.passenger_id
		 WHERE t.driver_id=$1
		 ORDER BY b.created_at DESC`, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []BookingRequest{}
	for rows.Next() {
		var r BookingRequest
		var pUserID, pFullName *string
		var pRating *float64
		var pPhone *string
		if err := rows.Scan(&r.ID, &r.TripID, &r.PassengerID, &r.SeatsBooked, &r.TotalPrice,
			&r.Status, &r.PaymentStatus, &r.PaymentMethod, &r.CreatedAt, &r.UpdatedAt,
			&r.Trip.ID, &r.Trip.Departure, &r.Trip.Destination, &r.Trip.DepartureTime,
			&r.Trip.DriverID, &r.Trip.Status,
			&pUserID, &pFullName, &pRating, &pPhone); err != nil {
			return nil, err
		}
		if pUserID != nil {
			r.Passenger = &PassengerSummary{
				UserID: *pUserID, FullName: *pFullName, Rating: *pRating, Phone: pPhone,
			}
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

// SetStatus transitions a pending booking to confirmed or cancelled. Only
// the owning trip's driver may do this; cancelling returns the seats.
func (s *Service) SetStatus(ctx context.Context, driverID, bookingID, status string) (*Booking, error) {
	if status != StatusConfirmed && status != StatusCancelled {
		return nil, ErrInvalidStatus
	}

	booking, err := s.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	var tripDriverID string
	err = s.db.QueryRow(ctx, `SELECT driver_id FROM trips WHERE id=$1`, booking.TripID).Scan(&tripDriverID)
	if err != nil {
		return nil, ErrBookingNotFound
	}
	if tripDriverID != driverID {
		return nil, ErrNotTripDriver
	}

	now := time.Now()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE bookings SET status=$1, updated_at=$2 WHERE id=$3 AND status=$4`,
		status, now, bookingID, StatusPending)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotPending
	}

	if status == StatusCancelled {
		_, err = tx.Exec(ctx,
			`UPDATE trips SET available_seats = available_seats + $1, updated_at=$2 WHERE id=$3`,
			booking.SeatsBooked, now, booking.TripID)
		if err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.trips.Invalidate(ctx, booking.TripID)

	go func() {
		ev := events.BookingStatusChangedEvent{
			BookingID:   bookingID,
			TripID:      booking.TripID,
			PassengerID: booking.PassengerID,
			OldStatus:   StatusPending,
			NewStatus:   status,
			ChangedAt:   now.Format(time.RFC3339),
		}
		if err := s.kafka.Publish(context.Background(), kafka.TopicBookingStatusChanged, bookingID, ev); err != nil {
			log.Printf("[bookings] failed to publish booking.status_changed: %v", err)
		}
	}()

	return s.GetByID(ctx, bookingID)
}
