// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits with an
// error.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration for the referral service.
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string

	ResumeDir     string // where the local uploader stores resume files
	ResumeBaseURL string // public prefix the stored resumes are served under

	ReminderIntervalHours int // how often the review-reminder cron fires
	ReviewReminderDays    int // days in SUBMITTED before a reminder is sent
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	port := os.Getenv("REFERRAL_PORT")
	if port == "" {
		port = "8083"
	}

	resumeDir := os.Getenv("RESUME_DIR")
	if resumeDir == "" {
		resumeDir = "./uploads/resumes"
	}

	resumeBaseURL := os.Getenv("RESUME_BASE_URL")
	if resumeBaseURL == "" {
		resumeBaseURL = "/files/resumes"
	}

	interval := 24
	if s := os.Getenv("REMINDER_INTERVAL_HOURS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("REMINDER_INTERVAL_HOURS must be a positive integer, got %q", s)
		}
		interval = v
	}

	staleDays := 3
	if s := os.Getenv("REVIEW_REMINDER_DAYS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("REVIEW_REMINDER_DAYS must be a positive integer, got %q", s)
		}
		staleDays = v
	}

	return &Config{
		Port:                  port,
		DatabaseURL:           dbURL,
		RedisURL:              redisURL,
		ResumeDir:             resumeDir,
		ResumeBaseURL:         resumeBaseURL,
		ReminderIntervalHours: interval,
		ReviewReminderDays:    staleDays,
	}, nil
}
