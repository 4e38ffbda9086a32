// Package httpapi implements the HTTP surface of the referral service.
//
// All routes expect x-user-id and x-user-role headers forwarded by the
// Gateway after authentication.
//
// Routes:
//
//	GET  /api/opportunities/{opportunityId}/referrals/me → the caller's referral | 404
//	POST /api/opportunities/{opportunityId}/referrals    → create/overwrite referral (multipart)
//	GET  /api/opportunities/referrals/me                 → all of the caller's referrals
//	POST /api/admin/referrals/{id}/review                → reviewer status transition
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/rohitmhetre02/AlumConnect-sub004/internal/referral"
)

// ReferralStore is the persistence surface the handlers need. *store.Store
// satisfies it; tests plug in an in-memory fake.
type ReferralStore interface {
	GetForUser(ctx context.Context, userID, opportunityID string) (*referral.Referral, error)
	ListForUser(ctx context.Context, userID string) ([]referral.ReferralWithOpportunity, error)
	Upsert(ctx context.Context, userID, opportunityID, proposal string, resumeURL, resumeFileName *string) (*referral.Referral, error)
	Review(ctx context.Context, referralID string, newStatus referral.Status) (*referral.Referral, error)
}

// Publisher emits referral lifecycle events for the Gateway SSE forward.
// Publishing is non-fatal: a failed publish is logged, never surfaced.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Uploader hands a resume attachment to the file-storage collaborator and
// returns the URL it is served under.
type Uploader interface {
	SaveResume(ctx context.Context, userID, filename string, r io.Reader) (string, error)
}

// Event channels published on referral mutations.
const (
	EventReferralSubmitted = "EVENT_REFERRAL_SUBMITTED"
	EventReferralReviewed  = "EVENT_REFERRAL_REVIEWED"
)

// forbiddenMsg is the explanatory message for role-ineligible accounts. The
// wording is deliberately specific — clients show it as-is instead of a
// generic failure.
const forbiddenMsg = "referral requests are available to student and alumni accounts only"

// Handler holds shared dependencies.
type Handler struct {
	store   ReferralStore
	events  Publisher
	uploads Uploader
}

// NewHandler returns a configured Handler.
func NewHandler(store ReferralStore, events Publisher, uploads Uploader) *Handler {
	return &Handler{store: store, events: events, uploads: uploads}
}

// RegisterRoutes mounts all referral routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/opportunities/", h.handleOpportunityReferrals)
	mux.HandleFunc("/api/admin/referrals/", h.handleReview)
}

// ─── Route dispatch ──────────────────────────────────────────────────────────

// handleOpportunityReferrals dispatches the three referral routes under
// /api/opportunities/. The path segment after "opportunities" is either the
// literal "referrals" (list-all route) or an opportunity id.
func (h *Handler) handleOpportunityReferrals(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch {
	case len(parts) == 4 && parts[2] == "referrals" && parts[3] == "me":
		// GET /api/opportunities/referrals/me
		if r.Method != http.MethodGet {
			jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.listMyReferrals(w, r)

	case len(parts) == 5 && parts[3] == "referrals" && parts[4] == "me":
		// GET /api/opportunities/{id}/referrals/me
		if r.Method != http.MethodGet {
			jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.getMyReferral(w, r, parts[2])

	case len(parts) == 4 && parts[3] == "referrals":
		// POST /api/opportunities/{id}/referrals
		if r.Method != http.MethodPost {
			jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.submitReferral(w, r, parts[2])

	default:
		jsonError(w, "invalid path", http.StatusNotFound)
	}
}

// ─── Individual handlers ─────────────────────────────────────────────────────

func (h *Handler) getMyReferral(w http.ResponseWriter, r *http.Request, opportunityID string) {
	userID, ok := h.requireEligible(w, r)
	if !ok {
		return
	}

	ref, err := h.store.GetForUser(r.Context(), userID, opportunityID)
	if err != nil {
		if errors.Is(err, referral.ErrNotFound) {
			jsonError(w, "no referral found for this opportunity", http.StatusNotFound)
			return
		}
		log.Printf("[referral] getMyReferral error: %v", err)
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}

	jsonOK(w, ref)
}

func (h *Handler) listMyReferrals(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireEligible(w, r)
	if !ok {
		return
	}

	list, err := h.store.ListForUser(r.Context(), userID)
	if err != nil {
		log.Printf("[referral] listMyReferrals error: %v", err)
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}

	jsonOK(w, list)
}

func (h *Handler) submitReferral(w http.ResponseWriter, r *http.Request, opportunityID string) {
	userID, ok := h.requireEligible(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, referral.MaxResumeSize+1<<20)
	if err := r.ParseMultipartForm(referral.MaxResumeSize); err != nil {
		jsonError(w, "invalid multipart body", http.StatusBadRequest)
		return
	}

	proposal := r.FormValue("proposal")
	if err := referral.ValidateProposal(proposal); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var resumeURL, resumeFileName *string
	file, header, err := r.FormFile("resume")
	switch {
	case err == nil:
		defer file.Close()
		if !referral.IsAcceptedResume(header.Filename) {
			jsonError(w, fmt.Sprintf("unsupported resume type %q", header.Filename), http.StatusBadRequest)
			return
		}
		if header.Size > referral.MaxResumeSize {
			jsonError(w, "resume exceeds the 25 MB limit", http.StatusBadRequest)
			return
		}
		url, err := h.uploads.SaveResume(r.Context(), userID, header.Filename, file)
		if err != nil {
			log.Printf("[referral] resume upload error: %v", err)
			jsonError(w, "resume upload failed", http.StatusInternalServerError)
			return
		}
		resumeURL = &url
		resumeFileName = &header.Filename
	case errors.Is(err, http.ErrMissingFile):
		// no resume part — keep whatever was stored before
	default:
		jsonError(w, "invalid resume part", http.StatusBadRequest)
		return
	}

	ref, err := h.store.Upsert(r.Context(), userID, opportunityID, proposal, resumeURL, resumeFileName)
	if err != nil {
		var ve *referral.ValidationError
		if errors.As(err, &ve) {
			jsonError(w, ve.Msg, http.StatusBadRequest)
			return
		}
		log.Printf("[referral] submitReferral error: %v", err)
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}

	h.publish(r.Context(), EventReferralSubmitted, map[string]string{
		"type":          EventReferralSubmitted,
		"referralId":    ref.ID,
		"opportunityId": ref.OpportunityID,
		"userId":        userID,
		"status":        string(ref.Status),
	})

	jsonOK(w, ref)
}

// handleReview handles POST /api/admin/referrals/{id}/review.
func (h *Handler) handleReview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 5 || parts[4] != "review" {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}
	referralID := parts[3]

	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}
	if r.Header.Get("x-user-role") != "admin" {
		jsonError(w, "reviewing referrals requires an admin account", http.StatusForbidden)
		return
	}

	var body struct {
		NewStatus string `json:"newStatus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.NewStatus == "" {
		jsonError(w, "body must contain newStatus", http.StatusBadRequest)
		return
	}

	newStatus, err := referral.ParseStatus(body.NewStatus)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ref, err := h.store.Review(r.Context(), referralID, newStatus)
	if err != nil {
		if errors.Is(err, referral.ErrNotFound) {
			jsonError(w, "referral not found", http.StatusNotFound)
			return
		}
		var ve *referral.ValidationError
		if errors.As(err, &ve) {
			jsonError(w, ve.Msg, http.StatusBadRequest)
			return
		}
		log.Printf("[referral] review error: %v", err)
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}

	h.publish(r.Context(), EventReferralReviewed, map[string]string{
		"type":          EventReferralReviewed,
		"referralId":    ref.ID,
		"opportunityId": ref.OpportunityID,
		"status":        string(ref.Status),
		"reviewedBy":    userID,
		"at":            time.Now().UTC().Format(time.RFC3339),
	})

	jsonOK(w, ref)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// eligibleRoles are the account roles permitted to hold referrals.
var eligibleRoles = map[string]bool{"student": true, "alumni": true}

// requireEligible extracts the caller identity and rejects missing or
// role-ineligible accounts. Returns the user id and whether to proceed.
func (h *Handler) requireEligible(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return "", false
	}
	if !eligibleRoles[r.Header.Get("x-user-role")] {
		jsonError(w, forbiddenMsg, http.StatusForbidden)
		return "", false
	}
	return userID, true
}

// publish emits an event; failures are logged and swallowed.
func (h *Handler) publish(ctx context.Context, channel string, fields map[string]string) {
	payload, _ := json.Marshal(fields)
	if err := h.events.Publish(ctx, channel, payload); err != nil {
		log.Printf("[referral] publish %s failed: %v", channel, err)
	}
}

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
