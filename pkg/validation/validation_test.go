package validation

import (
	"testing"
	"time"
)

func TestValidateEmail(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"rider@example.com", true},
		{"a.b+c@mail.co", true},
		{"", false},
		{"no-at-sign", false},
		{"@missing-local.com", false},
		{"trailing@dot.", false},
	}
	for _, c := range cases {
		if got := ValidateEmail(c.email); got != c.want {
			t.Errorf("ValidateEmail(%q) = %v, want %v", c.email, got, c.want)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	cases := []struct {
		phone string
		want  bool
	}{
		{"+22996123456", true},
		{"22996123456", true},
		{"", false},
		{"0123", false}, // leading zero
		{"not-a-number", false},
	}
	for _, c := range cases {
		if got := ValidatePhone(c.phone); got != c.want {
			t.Errorf("ValidatePhone(%q) = %v, want %v", c.phone, got, c.want)
		}
	}
}

func TestValidateSeats(t *testing.T) {
	for seats, want := range map[int]bool{0: false, 1: true, 4: true, 8: true, 9: false, -1: false} {
		if got := ValidateSeats(seats); got != want {
			t.Errorf("ValidateSeats(%d) = %v, want %v", seats, got, want)
		}
	}
}

func TestValidateRating(t *testing.T) {
	for rating, want := range map[int]bool{0: false, 1: true, 5: true, 6: false} {
		if got := ValidateRating(rating); got != want {
			t.Errorf("ValidateRating(%d) = %v, want %v", rating, got, want)
		}
	}
}

func TestValidateDepartureTime(t *testing.T) {
	now := time.Now()
	if ValidateDepartureTime(now.Add(-time.Minute), now) {
		t.Error("past departure accepted")
	}
	if ValidateDepartureTime(now, now) {
		t.Error("departure equal to now accepted")
	}
	if !ValidateDepartureTime(now.Add(time.Hour), now) {
		t.Error("future departure rejected")
	}
}

func TestValidatePlace(t *testing.T) {
	if ValidatePlace(" ") || ValidatePlace("x") {
		t.Error("too-short place accepted")
	}
	if !ValidatePlace("Cotonou") {
		t.Error("valid place rejected")
	}
}
