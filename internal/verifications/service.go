package verifications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound        = errors.New("verification not found")
	ErrNotAdmin        = errors.New("administrators only")
	ErrNotPending      = errors.New("verification is not pending")
	ErrReasonRequired  = errors.New("rejection reason is required")
	ErrInvalidDocument = errors.New("invalid document type")
)

const verificationColumns = `id,user_id,document_type,document_url,selfie_url,status,
	rejection_reason,verified_at,created_at,updated_at`

// Service contains identity verification business logic. Admin checks are
// enforced here against the acting profile's is_admin flag.
type Service struct {
	db *pgxpool.Pool
}

// NewService creates a verification service.
func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

// Submit records a pending verification with already-uploaded document URLs.
func (s *Service) Submit(ctx context.Context, userID, documentType, documentURL string, selfieURL *string) (*Verification, error) {
	if !DocumentTypes[documentType] {
		return nil, ErrInvalidDocument
	}

	id := uuid.New().String()
	_, err := s.db.Exec(ctx,
		`INSERT INTO identity_verifications (id,user_id,document_type,document_url,selfie_url,status)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		id, userID, documentType, documentURL, selfieURL, StatusPending)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches a verification by primary key.
func (s *Service) GetByID(ctx context.Context, id string) (*Verification, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+verificationColumns+` FROM identity_verifications WHERE id=$1`, id)
	return scanVerification(row)
}

// Latest returns the user's most recent submission, or nil if none exists.
func (s *Service) Latest(ctx context.Context, userID string) (*Verification, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+verificationColumns+` FROM identity_verifications
		 WHERE user_id=$1 ORDER BY created_at DESC LIMIT 1`, userID)
	v, err := scanVerification(row)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return v, err
}

// List returns the full review queue, newest first, with submitter profiles.
func (s *Service) List(ctx context.Context, adminID string) ([]QueueEntry, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx,
		`SELECT v.id,v.user_id,v.document_type,v.document_url,v.selfie_url,v.status,
		        v.rejection_reason,v.verified_at,v.created_at,v.updated_at,
		        p.full_name, p.phone
		 FROM identity_verifications v
		 LEFT JOIN profiles p ON p.user_id = v.user_id
		 ORDER BY v.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []QueueEntry{}
	for rows.Next() {
		var e QueueEntry
		var name *string
		var phone *string
		if err := rows.Scan(&e.ID, &e.UserID, &e.DocumentType, &e.DocumentURL, &e.SelfieURL,
			&e.Status, &e.RejectionReason, &e.VerifiedAt, &e.CreatedAt, &e.UpdatedAt,
			&name, &phone); err != nil {
			return nil, err
		}
		if name != nil {
			e.Submitter = &SubmitterSummary{FullName: *name, Phone: phone}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Approve transitions a pending verification to approved, stamps
// verified_at, and flips the owning profile's verified flag.
func (s *Service) Approve(ctx context.Context, adminID, id string) (*Verification, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	v, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE identity_verifications SET status=$1, verified_at=$2, updated_at=$2
		 WHERE id=$3 AND status=$4`,
		StatusApproved, now, id, StatusPending)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotPending
	}

	_, err = tx.Exec(ctx,
		`UPDATE profiles SET verified=TRUE, updated_at=$1 WHERE user_id=$2`, now, v.UserID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// Reject transitions a pending verification to rejected with a reason.
func (s *Service) Reject(ctx context.Context, adminID, id, reason string) (*Verification, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}

	tag, err := s.db.Exec(ctx,
		`UPDATE identity_verifications SET status=$1, rejection_reason=$2, updated_at=$3
		 WHERE id=$4 AND status=$5`,
		StatusRejected, reason, time.Now(), id, StatusPending)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := s.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrNotPending
	}
	return s.GetByID(ctx, id)
}

func (s *Service) requireAdmin(ctx context.Context, userID string) error {
	var isAdmin bool
	err := s.db.QueryRow(ctx, `SELECT is_admin FROM profiles WHERE user_id=$1`, userID).Scan(&isAdmin)
	if err != nil || !isAdmin {
		return ErrNotAdmin
	}
	return nil
}

func scanVerification(row pgx.Row) (*Verification, error) {
	var v Verification
	err := row.Scan(&v.ID, &v.UserID, &v.DocumentType, &v.DocumentURL, &v.SelfieURL,
		&v.Status, &v.RejectionReason, &v.VerifiedAt, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	return &v, nil
}
