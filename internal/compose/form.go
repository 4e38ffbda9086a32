// Package compose models the referral composition surface: the modal form
// that creates or updates the requester's referral for exactly one
// opportunity at a time.
package compose

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rohitmhetre02/AlumConnect-sub004/internal/client"
	"github.com/rohitmhetre02/AlumConnect-sub004/internal/controller"
	"github.com/rohitmhetre02/AlumConnect-sub004/internal/referral"
)

// Form captures a free-text proposal and an optional resume attachment.
// Opened over an existing referral it pre-fills the proposal and shows the
// stored resume filename; opened over none it starts blank.
type Form struct {
	ctrl *controller.Controller

	open         bool
	proposal     string
	resumeName   string
	resumeData   []byte
	storedResume string
	inlineMsg    string
}

// NewForm returns a closed Form bound to one opportunity's controller.
func NewForm(ctrl *controller.Controller) *Form {
	return &Form{ctrl: ctrl}
}

// Open opens the form, pre-filling from an existing referral when given.
func (f *Form) Open(existing *referral.Referral) {
	f.open = true
	f.inlineMsg = ""
	f.resumeName = ""
	f.resumeData = nil
	if existing != nil {
		f.proposal = existing.Proposal
		if existing.ResumeFileName != nil {
			f.storedResume = *existing.ResumeFileName
		} else {
			f.storedResume = ""
		}
		return
	}
	f.proposal = ""
	f.storedResume = ""
}

// SetProposal replaces the proposal text and clears any inline message.
func (f *Form) SetProposal(s string) {
	f.proposal = s
	f.inlineMsg = ""
}

// Attach records the chosen resume file. Only the advertised document
// extensions are accepted; the 25 MB ceiling is enforced by the upload
// collaborator, not re-checked here. The contents are buffered up front so
// a retry after a failed submission sends the same bytes again.
func (f *Form) Attach(name string, content io.Reader) error {
	if !referral.IsAcceptedResume(name) {
		return fmt.Errorf("unsupported resume type %q", name)
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return fmt.Errorf("read resume %q: %w", name, err)
	}
	f.resumeName = name
	f.resumeData = data
	return nil
}

// Submit sends the form through the controller. An empty proposal sets the
// inline message and returns the validation error without any network call.
// On a transient failure the form stays open with input intact; the
// failure toast has already fired. On success the form closes and the new
// referral is returned so listing views can update their badges.
func (f *Form) Submit(ctx context.Context) (*referral.Referral, error) {
	var resume *client.ResumeFile
	if f.resumeData != nil {
		// fresh reader per attempt: a failed submission must not consume
		// the attachment
		resume = &client.ResumeFile{Name: f.resumeName, Content: bytes.NewReader(f.resumeData)}
	}
	ref, err := f.ctrl.Submit(ctx, f.proposal, resume)
	if err != nil {
		var ve *referral.ValidationError
		if errors.As(err, &ve) {
			f.inlineMsg = ve.Msg
		}
		return nil, err
	}
	if ref == nil {
		// absorbed failure, keep the form open for a retry
		return nil, nil
	}

	f.open = false
	f.inlineMsg = ""
	return ref, nil
}

// Cancel closes the form. Refused while a submission is in flight.
func (f *Form) Cancel() error {
	if f.ctrl.Submitting() {
		return fmt.Errorf("cannot cancel while a submission is in flight")
	}
	f.open = false
	return nil
}

// IsOpen reports whether the form is showing.
func (f *Form) IsOpen() bool { return f.open }

// Proposal returns the current proposal text.
func (f *Form) Proposal() string { return f.proposal }

// StoredResumeName returns the filename of the resume already on the
// referral, "" when none.
func (f *Form) StoredResumeName() string { return f.storedResume }

// InlineMessage returns the validation message shown next to the proposal
// field, "" when none.
func (f *Form) InlineMessage() string { return f.inlineMsg }
