// Package store persists referral records. It is transport-agnostic: the
// HTTP API and the reminder sweep both sit on top of it.
//
// One row exists per (opportunity_id, user_id) pair, enforced by a unique
// constraint; Upsert relies on it so a resubmission overwrites rather than
// duplicates.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rohitmhetre02/AlumConnect-sub004/internal/referral"
)

// Store encapsulates all referral persistence.
type Store struct {
	pool *pgxpool.Pool
}

// New returns a configured Store.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const referralCols = `id, opportunity_id, proposal, resume_url, resume_file_name,
	       status, submitted_at, updated_at`

// lookupErr maps single-row lookup failures: only an absent row becomes
// referral.ErrNotFound; a pool or connection failure stays an operational
// error so it is never mistaken for a missing referral.
func lookupErr(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return referral.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// GetForUser returns the user's referral for one opportunity.
// Returns referral.ErrNotFound when no row exists for the pair.
func (s *Store) GetForUser(ctx context.Context, userID, opportunityID string) (*referral.Referral, error) {
	var r referral.Referral
	err := s.pool.QueryRow(ctx,
		`SELECT `+referralCols+`
		 FROM referrals
		 WHERE opportunity_id = $1 AND user_id = $2`,
		opportunityID, userID,
	).Scan(
		&r.ID, &r.OpportunityID, &r.Proposal, &r.ResumeURL, &r.ResumeFileName,
		&r.Status, &r.SubmittedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, lookupErr("getForUser", err)
	}
	return &r, nil
}

// ListForUser returns all of the user's referrals joined with the
// opportunities they target, newest activity first.
func (s *Store) ListForUser(ctx context.Context, userID string) ([]referral.ReferralWithOpportunity, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT r.id, r.opportunity_id, r.proposal, r.resume_url, r.resume_file_name,
		        r.status, r.submitted_at, r.updated_at,
		        o.id, o.title, o.company, o.type, COALESCE(o.location, ''), o.is_remote,
		        o.skills, o.deadline, o.posted_at, o.posted_by, o.contact_email
		 FROM referrals r
		 JOIN opportunities o ON o.id = r.opportunity_id
		 WHERE r.user_id = $1
		 ORDER BY r.updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listForUser query: %w", err)
	}
	defer rows.Close()

	list := make([]referral.ReferralWithOpportunity, 0)
	for rows.Next() {
		var rw referral.ReferralWithOpportunity
		if err := rows.Scan(
			&rw.ID, &rw.OpportunityID, &rw.Proposal, &rw.ResumeURL, &rw.ResumeFileName,
			&rw.Status, &rw.SubmittedAt, &rw.UpdatedAt,
			&rw.Opportunity.ID, &rw.Opportunity.Title, &rw.Opportunity.Company,
			&rw.Opportunity.Type, &rw.Opportunity.Location, &rw.Opportunity.IsRemote,
			&rw.Opportunity.Skills, &rw.Opportunity.Deadline, &rw.Opportunity.PostedAt,
			&rw.Opportunity.PostedBy, &rw.Opportunity.ContactEmail,
		); err != nil {
			return nil, fmt.Errorf("listForUser scan: %w", err)
		}
		list = append(list, rw)
	}
	return list, rows.Err()
}

// Upsert creates the user's referral for an opportunity, or overwrites the
// existing one. A resubmission replaces the proposal, resets the status to
// SUBMITTED and bumps updated_at. When the resume arguments are nil the
// previously stored resume is kept untouched.
func (s *Store) Upsert(ctx context.Context, userID, opportunityID, proposal string, resumeURL, resumeFileName *string) (*referral.Referral, error) {
	if err := referral.ValidateProposal(proposal); err != nil {
		return nil, err
	}

	var r referral.Referral
	err := s.pool.QueryRow(ctx,
		`INSERT INTO referrals (id, opportunity_id, user_id, proposal,
		                        resume_url, resume_file_name, status)
		 VALUES ($1, $2, $3, $4, $5, $6, 'submitted')
		 ON CONFLICT (opportunity_id, user_id) DO UPDATE
		 SET proposal         = EXCLUDED.proposal,
		     resume_url       = COALESCE(EXCLUDED.resume_url, referrals.resume_url),
		     resume_file_name = COALESCE(EXCLUDED.resume_file_name, referrals.resume_file_name),
		     status           = 'submitted',
		     updated_at       = NOW()
		 RETURNING `+referralCols,
		uuid.NewString(), opportunityID, userID, proposal, resumeURL, resumeFileName,
	).Scan(
		&r.ID, &r.OpportunityID, &r.Proposal, &r.ResumeURL, &r.ResumeFileName,
		&r.Status, &r.SubmittedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert referral: %w", err)
	}
	return &r, nil
}

// Review transitions a referral to a new status. The store is the status
// authority: the transition table in the referral package is enforced here,
// never in clients.
// Returns referral.ErrNotFound when the referral does not exist, and a
// ValidationError when the state machine rejects the transition.
func (s *Store) Review(ctx context.Context, referralID string, newStatus referral.Status) (*referral.Referral, error) {
	var currentStr string
	err := s.pool.QueryRow(ctx,
		`SELECT status FROM referrals WHERE id = $1`,
		referralID,
	).Scan(&currentStr)
	if err != nil {
		return nil, lookupErr("review lookup", err)
	}

	current, _ := referral.ParseStatus(currentStr)
	if !referral.IsReviewTransitionAllowed(current, newStatus) {
		return nil, &referral.ValidationError{
			Msg: fmt.Sprintf("transition %s → %s is not allowed", current, newStatus),
		}
	}

	var r referral.Referral
	err = s.pool.QueryRow(ctx,
		`UPDATE referrals
		 SET status     = $1::referral_status,
		     updated_at = NOW()
		 WHERE id = $2
		 RETURNING `+referralCols,
		string(newStatus), referralID,
	).Scan(
		&r.ID, &r.OpportunityID, &r.Proposal, &r.ResumeURL, &r.ResumeFileName,
		&r.Status, &r.SubmittedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("review update: %w", err)
	}

	slog.Info("referral reviewed", "referralId", r.ID, "from", current, "to", newStatus)
	return &r, nil
}

// ListStale returns referrals that have been sitting in SUBMITTED since
// before the cutoff. Used by the review-reminder sweep.
func (s *Store) ListStale(ctx context.Context, cutoff time.Time) ([]referral.Referral, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+referralCols+`
		 FROM referrals
		 WHERE status = 'submitted' AND updated_at < $1
		 ORDER BY updated_at ASC`,
		cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("listStale query: %w", err)
	}
	defer rows.Close()

	var stale []referral.Referral
	for rows.Next() {
		var r referral.Referral
		if err := rows.Scan(
			&r.ID, &r.OpportunityID, &r.Proposal, &r.ResumeURL, &r.ResumeFileName,
			&r.Status, &r.SubmittedAt, &r.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("listStale scan: %w", err)
		}
		stale = append(stale, r)
	}
	return stale, rows.Err()
}
