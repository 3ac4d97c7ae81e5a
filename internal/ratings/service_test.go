package ratings

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestCounterparty(t *testing.T) {
	const passenger, driver = "p1", "d1"

	if got, ok := Counterparty(passenger, passenger, driver); !ok || got != driver {
		t.Errorf("passenger must rate the driver, got (%q, %v)", got, ok)
	}
	if got, ok := Counterparty(driver, passenger, driver); !ok || got != passenger {
		t.Errorf("driver must rate the passenger, got (%q, %v)", got, ok)
	}
	// A rater cannot pick themselves or any third profile as the target;
	// the rated user is fixed by the booking, so an outsider resolves to nobody.
	if got, ok := Counterparty("stranger", passenger, driver); ok {
		t.Errorf("outsider resolved to %q, want no counterparty", got)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "ratings_booking_rater_unique"}
	if !IsUniqueViolation(dup) {
		t.Error("duplicate-key error not detected")
	}
	if !IsUniqueViolation(fmt.Errorf("insert: %w", dup)) {
		t.Error("wrapped duplicate-key error not detected")
	}

	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("foreign-key violation misread as duplicate")
	}
	if IsUniqueViolation(errors.New("connection refused")) {
		t.Error("plain error misread as duplicate")
	}
	if IsUniqueViolation(nil) {
		t.Error("nil misread as duplicate")
	}
}
