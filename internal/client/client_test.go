package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rohitmhetre02/AlumConnect-sub004/internal/client"
	"github.com/rohitmhetre02/AlumConnect-sub004/internal/referral"
)

var testSession = client.SessionContext{UserID: "user-1", Role: "student"}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func sampleReferral(oppID string, status referral.Status) referral.Referral {
	now := time.Now().UTC().Truncate(time.Second)
	return referral.Referral{
		ID:            "ref-1",
		OpportunityID: oppID,
		Proposal:      "I'm a strong fit",
		Status:        status,
		SubmittedAt:   now,
		UpdatedAt:     now,
	}
}

// ── FetchReferral ──────────────────────────────────────────────────────────

func TestFetchReferral_Found(t *testing.T) {
	want := sampleReferral("opp-1", referral.StatusSubmitted)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/opportunities/opp-1/referrals/me" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("x-user-id"); got != "user-1" {
			t.Errorf("x-user-id = %q, want user-1", got)
		}
		writeJSON(w, http.StatusOK, want)
	}))
	defer srv.Close()

	c := client.New(srv.URL, testSession)
	got, err := c.FetchReferral(context.Background(), "opp-1")
	if err != nil {
		t.Fatalf("FetchReferral error: %v", err)
	}
	if got == nil || got.ID != want.ID || got.Status != want.Status {
		t.Errorf("FetchReferral = %+v, want %+v", got, want)
	}
}

// Absence is an expected empty state: a 404 yields (nil, nil), not an error.
func TestFetchReferral_NotFoundIsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no referral found for this opportunity"})
	}))
	defer srv.Close()

	c := client.New(srv.URL, testSession)
	got, err := c.FetchReferral(context.Background(), "opp-3")
	if err != nil {
		t.Fatalf("FetchReferral after 404: error = %v, want nil", err)
	}
	if got != nil {
		t.Errorf("FetchReferral after 404 = %+v, want nil", got)
	}
}

func TestFetchReferral_ServerFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "database error"})
	}))
	defer srv.Close()

	c := client.New(srv.URL, testSession)
	_, err := c.FetchReferral(context.Background(), "opp-1")

	var te *referral.TransientError
	if !errors.As(err, &te) {
		t.Fatalf("FetchReferral error = %T (%v), want *TransientError", err, err)
	}
	if !strings.Contains(te.Error(), "database error") {
		t.Errorf("transient error should carry the backend description, got %q", te.Error())
	}
}

// ── FetchAllReferrals ──────────────────────────────────────────────────────

func TestFetchAllReferrals_List(t *testing.T) {
	list := []referral.ReferralWithOpportunity{
		{Referral: sampleReferral("opp-1", referral.StatusReviewed), Opportunity: referral.Opportunity{ID: "opp-1", Title: "Backend Engineer"}},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/opportunities/referrals/me" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		writeJSON(w, http.StatusOK, list)
	}))
	defer srv.Close()

	c := client.New(srv.URL, testSession)
	got, err := c.FetchAllReferrals(context.Background())
	if err != nil {
		t.Fatalf("FetchAllReferrals error: %v", err)
	}
	if len(got) != 1 || got[0].Opportunity.Title != "Backend Engineer" {
		t.Errorf("FetchAllReferrals = %+v", got)
	}
}

// A 403 is translated to an empty list plus a ForbiddenError carrying the
// backend's explanatory message — never a bare failure.
func TestFetchAllReferrals_ForbiddenRole(t *testing.T) {
	const explanation = "referral requests are available to student and alumni accounts only"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": explanation})
	}))
	defer srv.Close()

	c := client.New(srv.URL, client.SessionContext{UserID: "user-2", Role: "faculty"})
	got, err := c.FetchAllReferrals(context.Background())

	if got == nil || len(got) != 0 {
		t.Errorf("forbidden fetch should yield an empty (non-nil) list, got %v", got)
	}
	var fe *referral.ForbiddenError
	if !errors.As(err, &fe) {
		t.Fatalf("error = %T (%v), want *ForbiddenError", err, err)
	}
	if fe.Msg != explanation {
		t.Errorf("ForbiddenError.Msg = %q, want %q", fe.Msg, explanation)
	}
}

// ── SubmitReferral ─────────────────────────────────────────────────────────

// Submitting an empty or whitespace-only proposal never issues a request.
func TestSubmitReferral_EmptyProposalNoNetworkCall(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	c := client.New(srv.URL, testSession)
	for _, p := range []string{"", "   "} {
		_, err := c.SubmitReferral(context.Background(), "opp-1", p, nil)
		var ve *referral.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("SubmitReferral(%q) error = %T, want *ValidationError", p, err)
		}
	}
	if hits != 0 {
		t.Errorf("server was hit %d times, want 0", hits)
	}
}

func TestSubmitReferral_MultipartWithResume(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("server could not parse multipart body: %v", err)
		}
		if got := r.FormValue("proposal"); got != "I'm a strong fit" {
			t.Errorf("proposal field = %q", got)
		}
		file, header, err := r.FormFile("resume")
		if err != nil {
			t.Fatalf("resume part missing: %v", err)
		}
		defer file.Close()
		if header.Filename != "resume.pdf" {
			t.Errorf("resume filename = %q, want resume.pdf", header.Filename)
		}
		writeJSON(w, http.StatusOK, sampleReferral("opp-1", referral.StatusSubmitted))
	}))
	defer srv.Close()

	c := client.New(srv.URL, testSession)
	resume := &client.ResumeFile{Name: "resume.pdf", Content: strings.NewReader("%PDF-1.4")}
	got, err := c.SubmitReferral(context.Background(), "opp-1", "I'm a strong fit", resume)
	if err != nil {
		t.Fatalf("SubmitReferral error: %v", err)
	}
	if got.Status != referral.StatusSubmitted {
		t.Errorf("status = %s, want submitted", got.Status)
	}
}

// With no file attached the request carries no resume part at all.
func TestSubmitReferral_NoResumeOmitsPart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("server could not parse multipart body: %v", err)
		}
		if _, _, err := r.FormFile("resume"); !errors.Is(err, http.ErrMissingFile) {
			t.Errorf("expected missing resume part, got err = %v", err)
		}
		writeJSON(w, http.StatusOK, sampleReferral("opp-1", referral.StatusSubmitted))
	}))
	defer srv.Close()

	c := client.New(srv.URL, testSession)
	got, err := c.SubmitReferral(context.Background(), "opp-1", "I'm a strong fit", nil)
	if err != nil {
		t.Fatalf("SubmitReferral error: %v", err)
	}
	if got.ResumeURL != nil {
		t.Errorf("resumeUrl = %v, want nil (backend returned none)", *got.ResumeURL)
	}
}

// A backend 400 surfaces as a ValidationError with the backend's message.
func TestSubmitReferral_BackendRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": `unsupported resume type "virus.exe"`})
	}))
	defer srv.Close()

	c := client.New(srv.URL, testSession)
	_, err := c.SubmitReferral(context.Background(), "opp-1", "proposal", nil)

	var ve *referral.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %T (%v), want *ValidationError", err, err)
	}
	if !strings.Contains(ve.Msg, "virus.exe") {
		t.Errorf("validation message = %q, want the backend description", ve.Msg)
	}
}
