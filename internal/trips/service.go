package trips

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	rredis "carpool-service/pkg/redis"
	"carpool-service/pkg/validation"
)

var (
	ErrTripNotFound = errors.New("trip not found")
	ErrInvalidTrip  = errors.New("invalid trip")
)

const tripColumns = `id,driver_id,departure,destination,departure_time,available_seats,
	price_per_seat,vehicle_model,vehicle_color,vehicle_plate,status,description,created_at,updated_at`

// Service contains trip business logic.
type Service struct {
	db    *pgxpool.Pool
	redis *rredis.Client
}

// NewService creates a trip service.
func NewService(db *pgxpool.Pool, r *rredis.Client) *Service {
	return &Service{db: db, redis: r}
}

// Publish creates a new active trip for the driver.
func (s *Service) Publish(ctx context.Context, driverID string, req PublishRequest) (*Trip, error) {
	if !validation.ValidatePlace(req.Departure) ||
		!validation.ValidatePlace(req.Destination) ||
		!validation.ValidateSeats(req.AvailableSeats) ||
		!validation.ValidatePrice(req.PricePerSeat) ||
		!validation.ValidateName(req.VehicleModel) ||
		!validation.ValidateDepartureTime(req.DepartureTime, time.Now()) {
		return nil, ErrInvalidTrip
	}

	id := uuid.New().String()
	_, err := s.db.Exec(ctx,
		`INSERT INTO trips (id,driver_id,departure,destination,departure_time,available_seats,
		                    price_per_seat,vehicle_model,vehicle_color,vehicle_plate,status,description)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		id, driverID, strings.TrimSpace(req.Departure), strings.TrimSpace(req.Destination),
		req.DepartureTime, req.AvailableSeats, req.PricePerSeat,
		strings.TrimSpace(req.VehicleModel), req.VehicleColor, req.VehiclePlate,
		StatusActive, req.Description)
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches a trip, serving from the Redis cache when possible.
func (s *Service) GetByID(ctx context.Context, id string) (*Trip, error) {
	if cached, err := s.redis.GetCachedTrip(ctx, id); err == nil && cached != nil {
		var t Trip
		if json.Unmarshal(cached, &t) == nil {
			return &t, nil
		}
	}

	t, err := s.getByIDFromDB(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(t); err == nil {
		if err := s.redis.CacheTrip(ctx, id, data); err != nil {
			log.Printf("[trips] cache write failed for %s: %v", id, err)
		}
	}
	return t, nil
}

func (s *Service) getByIDFromDB(ctx context.Context, id string) (*Trip, error) {
	row := s.db.QueryRow(ctx, `SELECT `+tripColumns+` FROM trips WHERE id=$1`, id)
	t, err := scanTrip(row)
	if err != nil {
		return nil, ErrTripNotFound
	}
	return t, nil
}

// ListActive returns bookable trips: active, seats left, departing in the
// future, soonest first.
func (s *Service) ListActive(ctx context.Context, limit int) ([]Trip, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := s.db.Query(ctx,
		`SELECT `+tripColumns+` FROM trips
		 WHERE status=$1 AND available_seats > 0 AND departure_time > NOW()
		 ORDER BY departure_time ASC LIMIT $2`, StatusActive, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTrips(rows)
}

// Search filters active trips by place substrings and an optional day.
func (s *Service) Search(ctx context.Context, q SearchQuery) ([]Trip, error) {
	sql := `SELECT ` + tripColumns + ` FROM trips
		WHERE status=$1 AND available_seats > 0 AND departure_time > NOW()`
	args := []any{StatusActive}

	if dep := strings.TrimSpace(q.Departure); dep != "" {
		args = append(args, "%"+dep+"%")
		sql += ` AND departure ILIKE $` + strconv.Itoa(len(args))
	}
	if dst := strings.TrimSpace(q.Destination); dst != "" {
		args = append(args, "%"+dst+"%")
		sql += ` AND destination ILIKE $` + strconv.Itoa(len(args))
	}
	if q.Date != nil {
		dayStart := q.Date.Truncate(24 * time.Hour)
		args = append(args, dayStart)
		sql += ` AND departure_time >= $` + strconv.Itoa(len(args))
		args = append(args, dayStart.Add(24*time.Hour))
		sql += ` AND departure_time < $` + strconv.Itoa(len(args))
	}
	sql += ` ORDER BY departure_time ASC LIMIT 50`

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTrips(rows)
}

// ListByDriver returns all trips published by the driver, soonest first.
func (s *Service) ListByDriver(ctx context.Context, driverID string) ([]Trip, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+tripColumns+` FROM trips WHERE driver_id=$1 ORDER BY departure_time ASC`,
		driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTrips(rows)
}

// Invalidate drops a trip from the cache. Called by the booking paths that
// mutate seat counts.
func (s *Service) Invalidate(ctx context.Context, tripID string) {
	if err := s.redis.InvalidateTrip(ctx, tripID); err != nil {
		log.Printf("[trips] cache invalidation failed for %s: %v", tripID, err)
	}
}

// StartCompletionSweeper periodically marks departed active trips as
// completed and credits the driver's trip counter.
func (s *Service) StartCompletionSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweepCompleted(ctx)
			}
		}
	}()
}

func (s *Service) sweepCompleted(ctx context.Context) {
	rows, err := s.db.Query(ctx,
		`UPDATE trips SET status=$1, updated_at=NOW()
		 WHERE status=$2 AND departure_time <= NOW()
		 RETURNING id, driver_id`, StatusCompleted, StatusActive)
	if err != nil {
		log.Printf("[trips] completion sweep failed: %v", err)
		return
	}
	type done struct{ id, driverID string }
	var completed []done
	for rows.Next() {
		var d done
		if err := rows.Scan(&d.id, &d.driverID); err == nil {
			completed = append(completed, d)
		}
	}
	rows.Close()

	for _, d := range completed {
		if _, err := s.db.Exec(ctx,
			`UPDATE profiles SET total_trips = total_trips + 1, updated_at=NOW() WHERE user_id=$1`,
			d.driverID); err != nil {
			log.Printf("[trips] total_trips bump failed for driver %s: %v", d.driverID, err)
		}
		s.Invalidate(ctx, d.id)
		log.Printf("[trips] trip %s completed", d.id)
	}
}

// ---- helpers ----

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*Trip, error) {
	var t Trip
	err := row.Scan(&t.ID, &t.DriverID, &t.Departure, &t.Destination, &t.DepartureTime,
		&t.AvailableSeats, &t.PricePerSeat, &t.VehicleModel, &t.VehicleColor, &t.VehiclePlate,
		&t.Status, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func scanTrips(rows pgx.Rows) ([]Trip, error) {
	trips := []Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, *t)
	}
	return trips, rows.Err()
}

