package referral

import (
	"path/filepath"
	"strings"
)

// MaxResumeSize is the resume size ceiling advertised to the user (25 MB).
// The upload collaborator is the enforcement point; the composition surface
// only forwards the chosen file.
const MaxResumeSize = 25 << 20

// acceptedResumeExts are the document formats a resume attachment may use.
var acceptedResumeExts = []string{
	".pdf", ".doc", ".docx", ".txt", ".rtf", ".ppt", ".pptx", ".xls", ".xlsx",
}

// ValidateProposal rejects an empty or whitespace-only proposal. Called
// before any network I/O — a failing proposal never produces a request.
func ValidateProposal(proposal string) error {
	if strings.TrimSpace(proposal) == "" {
		return &ValidationError{Msg: "proposal must not be empty"}
	}
	return nil
}

// IsAcceptedResume reports whether the filename carries one of the accepted
// document extensions (case-insensitive).
func IsAcceptedResume(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, a := range acceptedResumeExts {
		if ext == a {
			return true
		}
	}
	return false
}

// AcceptedResumeExts returns the advertised extension list, e.g. for the
// file picker's accept attribute.
func AcceptedResumeExts() []string {
	out := make([]string, len(acceptedResumeExts))
	copy(out, acceptedResumeExts)
	return out
}
