package ratings

import "time"

// Rating is a post-trip 1-5 score, one per party per booking.
type Rating struct {
	ID          string    `json:"id"`
	BookingID   string    `json:"booking_id"`
	RaterID     string    `json:"rater_id"`
	RatedUserID string    `json:"rated_user_id"`
	Rating      int       `json:"rating"`
	Comment     *string   `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Review is a rating joined with its author, shown on a profile.
type Review struct {
	Rating
	RaterName  string  `json:"rater_name"`
	RaterPhoto *string `json:"rater_photo,omitempty"`
}

// SubmitRequest is the body for POST /ratings. RatedUserID is optional; the
// server derives the rated user from the booking and rejects a mismatch.
type SubmitRequest struct {
	BookingID   string  `json:"booking_id"`
	RatedUserID string  `json:"rated_user_id,omitempty"`
	Rating      int     `json:"rating"`
	Comment     *string `json:"comment,omitempty"`
}
