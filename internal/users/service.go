package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"carpool-service/pkg/jwt"
	"carpool-service/pkg/validation"
)

var (
	ErrEmailTaken         = errors.New("email already exists")
	ErrPhoneTaken         = errors.New("phone already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrInvalidInput       = errors.New("invalid input")
)

const pgUniqueViolation = "23505"

// Service contains account and profile business logic.
type Service struct {
	db *pgxpool.Pool
}

// NewService creates a user service backed by the given pool.
func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

// Register creates an account plus its profile row and returns a JWT.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if !validation.ValidateName(req.FullName) ||
		!validation.ValidateEmail(req.Email) ||
		!validation.ValidatePhone(req.Phone) ||
		!validation.ValidatePassword(req.Password) {
		return nil, ErrInvalidInput
	}

	var exists bool
	_ = s.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE email=$1)", req.Email).Scan(&exists)
	if exists {
		return nil, ErrEmailTaken
	}
	_ = s.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE phone=$1)", req.Phone).Scan(&exists)
	if exists {
		return nil, ErrPhoneTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	userID := uuid.New().String()
	profileID := uuid.New().String()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO users (id,email,phone,password_hash) VALUES ($1,$2,$3,$4)`,
		userID, req.Email, req.Phone, string(hash))
	if err != nil {
		// Two registrations can pass the precheck at once; the unique
		// constraints decide the loser.
		if conflict := registerConflict(err); conflict != nil {
			return nil, conflict
		}
		return nil, err
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO profiles (id,user_id,full_name,phone) VALUES ($1,$2,$3,$4)`,
		profileID, userID, strings.TrimSpace(req.FullName), req.Phone)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	token, err := jwt.Generate(userID, req.Email, false)
	if err != nil {
		return nil, err
	}

	phone := req.Phone
	return &AuthResponse{
		Token: token,
		Profile: &Profile{
			ID: profileID, UserID: userID,
			FullName: strings.TrimSpace(req.FullName), Phone: &phone,
			Rating: 5.0,
		},
	}, nil
}

// Login authenticates an account and returns a JWT with its profile.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var userID, hash string
	err := s.db.QueryRow(ctx,
		`SELECT id,password_hash FROM users WHERE email=$1`, req.Email).
		Scan(&userID, &hash)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	p, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	token, err := jwt.Generate(userID, req.Email, p.IsAdmin)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, Profile: p}, nil
}

// GetProfile fetches a profile by the owning user id.
func (s *Service) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	var p Profile
	err := s.db.QueryRow(ctx,
		`SELECT id,user_id,full_name,phone,photo_url,rating,total_trips,verified,is_admin,created_at,updated_at
		 FROM profiles WHERE user_id=$1`, userID).
		Scan(&p.ID, &p.UserID, &p.FullName, &p.Phone, &p.PhotoURL,
			&p.Rating, &p.TotalTrips, &p.Verified, &p.IsAdmin, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, ErrProfileNotFound
	}
	return &p, nil
}

// UpdateProfile applies a self-edit to the caller's profile.
func (s *Service) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*Profile, error) {
	if !validation.ValidateName(req.FullName) {
		return nil, ErrInvalidInput
	}
	if req.Phone != nil && *req.Phone != "" && !validation.ValidatePhone(*req.Phone) {
		return nil, ErrInvalidInput
	}

	tag, err := s.db.Exec(ctx,
		`UPDATE profiles SET full_name=$1, phone=$2, photo_url=$3, updated_at=$4 WHERE user_id=$5`,
		strings.TrimSpace(req.FullName), req.Phone, req.PhotoURL, time.Now(), userID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrProfileNotFound
	}
	return s.GetProfile(ctx, userID)
}

// registerConflict maps a users-table duplicate-key error to the taken
// sentinel for the colliding column. Nil for any other error.
func registerConflict(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return nil
	}
	if strings.Contains(pgErr.ConstraintName, "phone") {
		return ErrPhoneTaken
	}
	return ErrEmailTaken
}

// IsAdmin reports whether the user's profile carries the admin flag.
func (s *Service) IsAdmin(ctx context.Context, userID string) (bool, error) {
	var isAdmin bool
	err := s.db.QueryRow(ctx,
		`SELECT is_admin FROM profiles WHERE user_id=$1`, userID).Scan(&isAdmin)
	if err != nil {
		return false, ErrProfileNotFound
	}
	return isAdmin, nil
}
