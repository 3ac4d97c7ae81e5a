package verifications

import "time"

// Verification review states.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Accepted document types.
var DocumentTypes = map[string]bool{
	"national_id":     true,
	"passport":        true,
	"driving_licence": true,
}

// Verification is an admin-reviewed identity document submission.
type Verification struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	DocumentType    string     `json:"document_type"`
	DocumentURL     string     `json:"document_url"`
	SelfieURL       *string    `json:"selfie_url,omitempty"`
	Status          string     `json:"status"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	VerifiedAt      *time.Time `json:"verified_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// SubmitterSummary is the profile detail shown on the admin queue.
type SubmitterSummary struct {
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone,omitempty"`
}

// QueueEntry is a verification joined with its submitter.
type QueueEntry struct {
	Verification
	Submitter *SubmitterSummary `json:"submitter,omitempty"`
}

// RejectRequest is the body for PATCH /verifications/{id}/reject.
type RejectRequest struct {
	Reason string `json:"reason"`
}
