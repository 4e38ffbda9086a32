// alumconnect-referral-service
//
// Opportunity referral tracking for the AlumConnect platform:
//   - one referral per (opportunity, requester) pair, upsert on resubmission
//   - submitted → reviewed → accepted/declined lifecycle, reviewer-driven
//   - multipart submission with optional resume attachment
//   - myReferrals query joined with opportunity metadata
//
// Publishes EVENT_REFERRAL_SUBMITTED / EVENT_REFERRAL_REVIEWED to Redis for
// Gateway SSE forward, and CMD_REVIEW_REMINDER from the cron sweep.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rohitmhetre02/AlumConnect-sub004/internal/config"
	"github.com/rohitmhetre02/AlumConnect-sub004/internal/db"
	"github.com/rohitmhetre02/AlumConnect-sub004/internal/httpapi"
	"github.com/rohitmhetre02/AlumConnect-sub004/internal/reminder"
	"github.com/rohitmhetre02/AlumConnect-sub004/internal/store"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	if err := godotenv.Load(); err != nil {
		log.Println("[referral-service] No .env file, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[referral-service] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[referral-service] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[referral-service] PostgreSQL: %v", err)
	}
	defer pool.Close()
	log.Println("[referral-service] PostgreSQL connected ✓")

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[referral-service] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[referral-service] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[referral-service] Redis connected ✓")

	// ── Wiring ───────────────────────────────────────────────────────────────
	st := store.New(pool)

	h := httpapi.NewHandler(
		st,
		&httpapi.RedisPublisher{RDB: rdb},
		&httpapi.DiskUploader{Dir: cfg.ResumeDir, BaseURL: cfg.ResumeBaseURL},
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	h.RegisterRoutes(mux)

	// ── Review reminder cron ─────────────────────────────────────────────────
	sweeper := reminder.New(st, rdb, cfg.ReminderIntervalHours, cfg.ReviewReminderDays)
	if err := sweeper.Start(ctx); err != nil {
		log.Fatalf("[referral-service] Reminder cron: %v", err)
	}
	defer sweeper.Stop()

	// ── HTTP server ──────────────────────────────────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("[referral-service] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[referral-service] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[referral-service] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[referral-service] Shutdown error: %v", err)
	}
	log.Println("[referral-service] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "referral-service",
		"version": version,
	})
}
