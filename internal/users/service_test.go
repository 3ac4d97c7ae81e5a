package users

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestRegisterConflict(t *testing.T) {
	emailDup := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	phoneDup := &pgconn.PgError{Code: "23505", ConstraintName: "users_phone_key"}

	if got := registerConflict(emailDup); !errors.Is(got, ErrEmailTaken) {
		t.Errorf("email collision mapped to %v", got)
	}
	if got := registerConflict(phoneDup); !errors.Is(got, ErrPhoneTaken) {
		t.Errorf("phone collision mapped to %v", got)
	}
	if got := registerConflict(fmt.Errorf("insert: %w", phoneDup)); !errors.Is(got, ErrPhoneTaken) {
		t.Errorf("wrapped collision mapped to %v", got)
	}

	if got := registerConflict(&pgconn.PgError{Code: "23503"}); got != nil {
		t.Errorf("foreign-key violation mapped to %v", got)
	}
	if got := registerConflict(errors.New("connection refused")); got != nil {
		t.Errorf("plain error mapped to %v", got)
	}
}
