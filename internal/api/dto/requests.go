package dto

import "time"

// EnrollRequest is the body for POST /api/offers/{id}/enroll.
// EnrolledAt is optional; the server uses the current time when omitted.
type EnrollRequest struct {
	EnrolledAt *time.Time `json:"enrolled_at,omitempty"`
}
