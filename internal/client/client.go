// Package client is the typed boundary over the referral REST endpoints.
//
// Absence of a referral is an expected empty state, not a failure: a 404 on
// the single-referral fetch is normalised to (nil, nil). A 403 means the
// account role cannot hold referrals and is translated into a
// ForbiddenError carrying the backend's explanatory message. Everything
// else non-success becomes a retryable TransientError.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/rohitmhetre02/AlumConnect-sub004/internal/referral"
)

const httpTimeout = 15 * time.Second

// SessionContext identifies the requester. It is injected explicitly —
// eligibility short-circuits are pure functions of this value, never of
// ambient process state.
type SessionContext struct {
	UserID string
	Role   string
}

// ResumeFile is an attachment chosen on the composition surface.
type ResumeFile struct {
	Name    string
	Content io.Reader
}

// Client calls the referral service on behalf of one session.
type Client struct {
	baseURL string
	session SessionContext
	client  *http.Client
}

// New constructs a Client with a shared HTTP client.
func New(baseURL string, session SessionContext) *Client {
	return &Client{
		baseURL: baseURL,
		session: session,
		client:  &http.Client{Timeout: httpTimeout},
	}
}

// Session returns the injected session context.
func (c *Client) Session() SessionContext { return c.session }

// FetchReferral returns the session user's referral for one opportunity,
// or (nil, nil) when none exists.
func (c *Client) FetchReferral(ctx context.Context, opportunityID string) (*referral.Referral, error) {
	endpoint := fmt.Sprintf("%s/api/opportunities/%s/referrals/me",
		c.baseURL, url.PathEscape(opportunityID))

	resp, err := c.do(ctx, http.MethodGet, endpoint, "", nil)
	if err != nil {
		return nil, &referral.TransientError{Op: "fetch referral", Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var ref referral.Referral
		if err := json.NewDecoder(resp.Body).Decode(&ref); err != nil {
			return nil, &referral.TransientError{Op: "decode referral", Err: err}
		}
		return &ref, nil
	case http.StatusNotFound:
		return nil, nil
	case http.StatusForbidden:
		return nil, &referral.ForbiddenError{Msg: apiError(resp)}
	default:
		return nil, &referral.TransientError{
			Op:  "fetch referral",
			Err: fmt.Errorf("referral service returned %d: %s", resp.StatusCode, apiError(resp)),
		}
	}
}

// FetchAllReferrals returns the session user's full referral history joined
// with opportunity metadata. A 403 yields an empty list plus a
// ForbiddenError so callers can show the explanation as an empty state.
func (c *Client) FetchAllReferrals(ctx context.Context) ([]referral.ReferralWithOpportunity, error) {
	endpoint := c.baseURL + "/api/opportunities/referrals/me"

	resp, err := c.do(ctx, http.MethodGet, endpoint, "", nil)
	if err != nil {
		return nil, &referral.TransientError{Op: "fetch referrals", Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var list []referral.ReferralWithOpportunity
		if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
			return nil, &referral.TransientError{Op: "decode referrals", Err: err}
		}
		return list, nil
	case http.StatusForbidden:
		return []referral.ReferralWithOpportunity{}, &referral.ForbiddenError{Msg: apiError(resp)}
	default:
		return nil, &referral.TransientError{
			Op:  "fetch referrals",
			Err: fmt.Errorf("referral service returned %d: %s", resp.StatusCode, apiError(resp)),
		}
	}
}

// SubmitReferral creates or overwrites the session user's referral for an
// opportunity. An empty post-trim proposal fails locally — no request is
// made. The resume part is sent only when a file is attached.
func (c *Client) SubmitReferral(ctx context.Context, opportunityID, proposal string, resume *ResumeFile) (*referral.Referral, error) {
	if err := referral.ValidateProposal(proposal); err != nil {
		return nil, err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("proposal", proposal); err != nil {
		return nil, &referral.TransientError{Op: "encode proposal", Err: err}
	}
	if resume != nil {
		part, err := mw.CreateFormFile("resume", resume.Name)
		if err != nil {
			return nil, &referral.TransientError{Op: "encode resume", Err: err}
		}
		if _, err := io.Copy(part, resume.Content); err != nil {
			return nil, &referral.TransientError{Op: "encode resume", Err: err}
		}
	}
	if err := mw.Close(); err != nil {
		return nil, &referral.TransientError{Op: "encode request", Err: err}
	}

	endpoint := fmt.Sprintf("%s/api/opportunities/%s/referrals",
		c.baseURL, url.PathEscape(opportunityID))

	resp, err := c.do(ctx, http.MethodPost, endpoint, mw.FormDataContentType(), &body)
	if err != nil {
		return nil, &referral.TransientError{Op: "submit referral", Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var ref referral.Referral
		if err := json.NewDecoder(resp.Body).Decode(&ref); err != nil {
			return nil, &referral.TransientError{Op: "decode referral", Err: err}
		}
		return &ref, nil
	case http.StatusBadRequest:
		return nil, &referral.ValidationError{Msg: apiError(resp)}
	case http.StatusForbidden:
		return nil, &referral.ForbiddenError{Msg: apiError(resp)}
	default:
		return nil, &referral.TransientError{
			Op:  "submit referral",
			Err: fmt.Errorf("referral service returned %d: %s", resp.StatusCode, apiError(resp)),
		}
	}
}

// do issues a request with the session identity headers attached.
func (c *Client) do(ctx context.Context, method, endpoint, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-user-id", c.session.UserID)
	req.Header.Set("x-user-role", c.session.Role)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.client.Do(req)
}

// apiError extracts the {"error": ...} message from a non-success response,
// falling back to the raw body, then the status text.
func apiError(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(raw) == 0 {
		return http.StatusText(resp.StatusCode)
	}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return string(bytes.TrimSpace(raw))
}
