// Package referral defines the domain model for opportunity referral
// requests: the status lifecycle, the per-requester referral index, and the
// validation rules applied before a request ever reaches the network.
//
// Status lifecycle:
//
//	SUBMITTED ──► REVIEWED ──► ACCEPTED
//	                  │
//	                  └──────► DECLINED
//
// ACCEPTED and DECLINED are decided states. A resubmission by the requester
// reopens the referral: the record is overwritten and its status resets to
// SUBMITTED. Only the backend moves a referral between statuses; clients
// display the last value they fetched.
package referral

import "fmt"

// Status values mirror the referral_status enum in PostgreSQL.
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusReviewed  Status = "reviewed"
	StatusAccepted  Status = "accepted"
	StatusDeclined  Status = "declined"
)

// reviewTransitions lists every (from → to) pair a reviewer may perform.
// Resubmission resets to SUBMITTED through the upsert path, not through a
// review transition.
var reviewTransitions = map[Status][]Status{
	StatusSubmitted: {StatusReviewed},
	StatusReviewed:  {StatusAccepted, StatusDeclined},
	// ACCEPTED and DECLINED have no outgoing review transitions
}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusSubmitted, StatusReviewed, StatusAccepted, StatusDeclined:
		return st, nil
	}
	return "", fmt.Errorf("unknown referral status %q", s)
}

// IsReviewTransitionAllowed returns true when a reviewer may move a referral
// from → to.
func IsReviewTransitionAllowed(from, to Status) bool {
	allowed, ok := reviewTransitions[from]
	if !ok {
		return false // decided state — reopening requires a resubmission
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsDecided returns true when status is ACCEPTED or DECLINED.
func IsDecided(s Status) bool { return s == StatusAccepted || s == StatusDeclined }
