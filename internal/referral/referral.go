package referral

import "time"

// OpportunityType values mirror the opportunity_type enum in PostgreSQL.
type OpportunityType string

const (
	TypeFullTime   OpportunityType = "full-time"
	TypePartTime   OpportunityType = "part-time"
	TypeContract   OpportunityType = "contract"
	TypeInternship OpportunityType = "internship"
)

// Opportunity is a posted job/internship listing. It is created and
// moderated elsewhere; the referral subsystem treats it as read-only.
type Opportunity struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Company      string          `json:"company"`
	Type         OpportunityType `json:"type"`
	Location     string          `json:"location,omitempty"`
	IsRemote     bool            `json:"isRemote"`
	Skills       []string        `json:"skills"`
	Deadline     *time.Time      `json:"deadline,omitempty"`
	PostedAt     *time.Time      `json:"postedAt,omitempty"`
	PostedBy     string          `json:"postedBy"`
	ContactEmail string          `json:"contactEmail"`
}

// Referral is one requester's referral request against one opportunity.
// At most one exists per (opportunityId, requester) pair; resubmitting
// overwrites the existing record.
//
// This is the single wire shape for referral payloads. Any other shape on
// the wire is a backend contract violation, not something callers probe for.
type Referral struct {
	ID             string    `json:"id"`
	OpportunityID  string    `json:"opportunityId"`
	Proposal       string    `json:"proposal"`
	ResumeURL      *string   `json:"resumeUrl"`
	ResumeFileName *string   `json:"resumeFileName"`
	Status         Status    `json:"status"`
	SubmittedAt    time.Time `json:"submittedAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ReferralWithOpportunity is the "my applications" list row: a referral
// joined with the opportunity it targets.
type ReferralWithOpportunity struct {
	Referral
	Opportunity Opportunity `json:"opportunity"`
}
