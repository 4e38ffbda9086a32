package httpapi

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DiskUploader stores resume attachments on the local filesystem and serves
// them under BaseURL. Stored names are prefixed with a fresh UUID so two
// users uploading "resume.pdf" never collide.
type DiskUploader struct {
	Dir     string
	BaseURL string
}

// SaveResume writes the attachment to disk and returns its public URL.
func (u *DiskUploader) SaveResume(ctx context.Context, userID, filename string, r io.Reader) (string, error) {
	if err := os.MkdirAll(u.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	stored := uuid.NewString() + "_" + filepath.Base(filename)
	path := filepath.Join(u.Dir, stored)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create resume file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write resume file: %w", err)
	}

	return u.BaseURL + "/" + stored, nil
}
