package validation

import (
	"regexp"
	"strings"
	"time"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
)

func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	return email != "" && emailRegex.MatchString(email) && len(email) <= 200
}

func ValidatePhone(phone string) bool {
	phone = strings.TrimSpace(phone)
	return phone != "" && phoneRegex.MatchString(phone) && len(phone) <= 50
}

func ValidateName(name string) bool {
	name = strings.TrimSpace(name)
	return len(name) >= 2 && len(name) <= 200
}

func ValidatePassword(password string) bool {
	return len(password) >= 6 && len(password) <= 100
}

// ValidatePlace checks a free-text departure/destination name.
func ValidatePlace(place string) bool {
	place = strings.TrimSpace(place)
	return len(place) >= 2 && len(place) <= 200
}

// ValidateSeats bounds a trip's seat capacity.
func ValidateSeats(seats int) bool {
	return seats >= 1 && seats <= 8
}

func ValidatePrice(price float64) bool {
	return price >= 0
}

// ValidateRating checks a 1-5 star score.
func ValidateRating(rating int) bool {
	return rating >= 1 && rating <= 5
}

// ValidateDepartureTime requires a strictly future departure.
func ValidateDepartureTime(t, now time.Time) bool {
	return t.After(now)
}
