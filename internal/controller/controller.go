// Package controller owns in-memory referral state for a consumer surface:
// either one opportunity (detail view, composition surface) or the full
// "my applications" list.
//
// Error policy: validation errors are returned to the immediate caller so
// the form can react inline; every other failure is absorbed into
// controller state plus a failure notification and is not propagated.
//
// Concurrency: operations are awaited request/response cycles. Two racing
// Submit calls for the same opportunity are allowed; the last response
// observed wins on the in-memory record.
package controller

import (
	"context"
	"errors"
	"sync"

	"github.com/rohitmhetre02/AlumConnect-sub004/internal/client"
	"github.com/rohitmhetre02/AlumConnect-sub004/internal/referral"
)

// Controller tracks one requester's referral for one opportunity.
type Controller struct {
	api      *client.Client
	notifier Notifier

	opportunityID string

	mu         sync.Mutex
	ref        *referral.Referral
	loading    bool
	submitting bool
	err        error
}

// New returns a Controller for one opportunity.
func New(api *client.Client, notifier Notifier, opportunityID string) *Controller {
	return &Controller{api: api, notifier: notifier, opportunityID: opportunityID}
}

// Load fetches the requester's referral for the opportunity. Absence is not
// an error: after a 404 the held referral and the error state are both nil.
// When the session has no role the network is skipped entirely and state
// stays empty — a deliberate short-circuit, not a failure.
func (c *Controller) Load(ctx context.Context) *referral.Referral {
	if c.api.Session().Role == "" {
		return nil
	}

	c.mu.Lock()
	c.loading = true
	c.err = nil
	c.mu.Unlock()

	ref, err := c.api.FetchReferral(ctx, c.opportunityID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.err = err
		c.notifier.Failure("could not load your referral request, please retry")
		return nil
	}
	c.ref = ref
	return ref
}

// Submit validates the proposal and sends the referral. A ValidationError
// is returned without any network call so the composition surface can show
// it inline. Transient and forbidden failures are stored and notified, and
// Submit returns (nil, nil): the caller keeps the form open, the toast has
// already fired. On success the held referral is replaced wholesale with
// whatever the backend returned.
func (c *Controller) Submit(ctx context.Context, proposal string, resume *client.ResumeFile) (*referral.Referral, error) {
	if err := referral.ValidateProposal(proposal); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.submitting = true
	c.err = nil
	c.mu.Unlock()

	ref, err := c.api.SubmitReferral(ctx, c.opportunityID, proposal, resume)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false

	if err != nil {
		var ve *referral.ValidationError
		if errors.As(err, &ve) {
			return nil, ve
		}
		c.err = err
		// a forbidden submission is not retryable; show the backend's
		// explanation rather than inviting a retry
		var fe *referral.ForbiddenError
		if errors.As(err, &fe) {
			c.notifier.Failure(fe.Msg)
		} else {
			c.notifier.Failure("referral request failed, please retry")
		}
		return nil, nil
	}

	c.ref = ref
	c.notifier.Success("referral request sent")
	return ref, nil
}

// Referral returns the currently held record, nil when none exists.
func (c *Controller) Referral() *referral.Referral {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ref
}

// Loading reports whether a fetch is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Submitting reports whether a submission is in flight.
func (c *Controller) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Err returns the last absorbed failure, nil after a successful operation.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// ListController tracks the requester's full referral history and the index
// derived from it.
type ListController struct {
	api      *client.Client
	notifier Notifier

	mu      sync.Mutex
	list    []referral.ReferralWithOpportunity
	index   referral.Index
	loading bool
	err     error
}

// NewList returns a ListController.
func NewList(api *client.Client, notifier Notifier) *ListController {
	return &ListController{api: api, notifier: notifier}
}

// LoadAll fetches the full referral history and rebuilds the index. A
// role-ineligible account ends up with an empty list and a ForbiddenError
// in state — shown as a dedicated empty-state explanation, not a toast.
// Sessions without a role skip the network entirely.
func (c *ListController) LoadAll(ctx context.Context) []referral.ReferralWithOpportunity {
	if c.api.Session().Role == "" {
		return nil
	}

	c.mu.Lock()
	c.loading = true
	c.err = nil
	c.mu.Unlock()

	list, err := c.api.FetchAllReferrals(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false

	if err != nil {
		var fe *referral.ForbiddenError
		if errors.As(err, &fe) {
			c.list = []referral.ReferralWithOpportunity{}
			c.index = referral.Index{}
			c.err = fe
			return c.list
		}
		c.err = err
		c.notifier.Failure("could not load your referral requests, please retry")
		return nil
	}

	c.list = list
	c.index = referral.BuildIndex(list)
	return list
}

// Referrals returns the held history list.
func (c *ListController) Referrals() []referral.ReferralWithOpportunity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list
}

// Index returns the opportunityId → referral index for the held list.
func (c *ListController) Index() referral.Index {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Loading reports whether a fetch is in flight.
func (c *ListController) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the last absorbed failure. After a 403 this is the
// *referral.ForbiddenError carrying the backend's explanation.
func (c *ListController) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
