// Package reminder wires up the cron job that nudges reviewers about
// referrals sitting in SUBMITTED for too long.
package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/rohitmhetre02/AlumConnect-sub004/internal/referral"
	"github.com/rohitmhetre02/AlumConnect-sub004/internal/store"
)

// Sweeper wraps robfig/cron and manages the reminder loop.
type Sweeper struct {
	cron      *cron.Cron
	store     *store.Store
	rdb       *redis.Client
	spec      string        // cron spec, e.g. "@every 24h"
	olderThan time.Duration // referral age in SUBMITTED before a reminder fires
}

// New creates a Sweeper that fires every intervalHours hours and flags
// referrals unreviewed for more than staleDays days.
func New(st *store.Store, rdb *redis.Client, intervalHours, staleDays int) *Sweeper {
	return &Sweeper{
		cron:      cron.New(cron.WithLogger(cron.DefaultLogger)),
		store:     st,
		rdb:       rdb,
		spec:      fmt.Sprintf("@every %dh", intervalHours),
		olderThan: time.Duration(staleDays) * 24 * time.Hour,
	}
}

// Start registers the job and starts the scheduler. Also runs one sweep
// immediately so a restart does not delay pending reminders by a full tick.
func (s *Sweeper) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runSweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[reminder] Cron started — spec: %s", s.spec)

	go s.runSweep(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Sweeper) Stop() {
	s.cron.Stop()
	log.Println("[reminder] Cron stopped")
}

// runSweep finds stale submitted referrals and publishes one
// CMD_REVIEW_REMINDER per referral for the notification pipeline.
func (s *Sweeper) runSweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.olderThan)

	stale, err := s.store.ListStale(ctx, cutoff)
	if err != nil {
		log.Printf("[reminder] ListStale error: %v", err)
		return
	}
	if len(stale) == 0 {
		log.Println("[reminder] No stale referrals — nothing to do")
		return
	}

	log.Printf("[reminder] %d referral(s) awaiting review since before %s",
		len(stale), cutoff.UTC().Format(time.RFC3339))

	for _, r := range stale {
		s.publishReminder(ctx, r)
	}
}

func (s *Sweeper) publishReminder(ctx context.Context, r referral.Referral) {
	payload, _ := json.Marshal(map[string]string{
		"type":          "CMD_REVIEW_REMINDER",
		"referralId":    r.ID,
		"opportunityId": r.OpportunityID,
		"submittedAt":   r.SubmittedAt.UTC().Format(time.RFC3339),
	})
	if err := s.rdb.Publish(ctx, "CMD_REVIEW_REMINDER", payload).Err(); err != nil {
		log.Printf("[reminder] publish CMD_REVIEW_REMINDER failed for %s: %v", r.ID, err)
	}
}
