package users

import "time"

// Profile is the public identity attached to an account.
type Profile struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	FullName   string    `json:"full_name"`
	Phone      *string   `json:"phone,omitempty"`
	PhotoURL   *string   `json:"photo_url,omitempty"`
	Rating     float64   `json:"rating"`
	TotalTrips int       `json:"total_trips"`
	Verified   bool      `json:"verified"`
	IsAdmin    bool      `json:"is_admin"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// RegisterRequest is the body for POST /users/register.
type RegisterRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// LoginRequest is the body for POST /users/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest is the body for PATCH /users/me.
type UpdateProfileRequest struct {
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone,omitempty"`
	PhotoURL *string `json:"photo_url,omitempty"`
}

// AuthResponse is returned on register / login.
type AuthResponse struct {
	Token   string   `json:"token"`
	Profile *Profile `json:"profile,omitempty"`
}
