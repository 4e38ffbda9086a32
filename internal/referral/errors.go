package referral

import "fmt"

// ErrNotFound is returned when a referral is missing or does not belong to
// the requester. At the access layer, absence is normalised to a nil
// referral instead; only the store surfaces this sentinel.
var ErrNotFound = fmt.Errorf("referral not found")

// ValidationError wraps a user-facing validation message. It is shown
// inline next to the offending field, never as a toast.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// ForbiddenError means the requester's account role is not eligible to hold
// referrals. The message is specific and user-actionable, distinct from
// generic failure wording.
type ForbiddenError struct{ Msg string }

func (e *ForbiddenError) Error() string { return e.Msg }

// TransientError is a network or server failure that the user may retry.
// The triggering surface stays open and usable.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

func (e *TransientError) Unwrap() error { return e.Err }
