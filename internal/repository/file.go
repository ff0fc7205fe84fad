package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"studio/internal/models"
)

// FileDraftRepository keeps one JSON file per session so a draft outlives the
// process that saved it.
type FileDraftRepository struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

type fileDraft struct {
	Form      models.BookingForm `json:"form"`
	ExpiresAt time.Time          `json:"expires_at,omitempty"`
}

// NewFileDraftRepository creates dir if needed.
func NewFileDraftRepository(dir string, ttl time.Duration) (*FileDraftRepository, error) {
	if dir == "" {
		return nil, errors.New("draft directory is empty")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create draft directory: %w", err)
	}
	return &FileDraftRepository{dir: dir, ttl: ttl, now: time.Now}, nil
}

// Dir returns the directory drafts are written to.
func (r *FileDraftRepository) Dir() string { return r.dir }

func (r *FileDraftRepository) path(session string) string {
	return filepath.Join(r.dir, url.PathEscape(session)+".json")
}

func (r *FileDraftRepository) GetDraft(ctx context.Context, session string) (*models.BookingForm, error) {
	data, err := os.ReadFile(r.path(session))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read draft file: %w", err)
	}

	var d fileDraft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	if !d.ExpiresAt.IsZero() && r.now().After(d.ExpiresAt) {
		_ = os.Remove(r.path(session))
		return nil, nil
	}
	return &d.Form, nil
}

// SaveDraft writes through a temporary file so a crash never leaves half a draft.
func (r *FileDraftRepository) SaveDraft(ctx context.Context, session string, form models.BookingForm) error {
	d := fileDraft{Form: form}
	if r.ttl > 0 {
		d.ExpiresAt = r.now().Add(r.ttl)
	}
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	tmp, err := os.CreateTemp(r.dir, ".draft-*")
	if err != nil {
		return fmt.Errorf("failed to create draft file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write draft file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to close draft file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path(session)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to store draft file: %w", err)
	}
	return nil
}

func (r *FileDraftRepository) ClearDraft(ctx context.Context, session string) error {
	if err := os.Remove(r.path(session)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete draft file: %w", err)
	}
	return nil
}
