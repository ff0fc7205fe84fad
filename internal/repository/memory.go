package repository

import (
	"context"
	"sync"
	"time"

	"studio/internal/models"
)

// MemoryDraftRepository keeps drafts for the lifetime of the process.
type MemoryDraftRepository struct {
	drafts sync.Map
	ttl    time.Duration
	now    func() time.Time
}

type draftEntry struct {
	form      models.BookingForm
	expiresAt time.Time
}

func NewMemoryDraftRepository(ttl time.Duration) *MemoryDraftRepository {
	return &MemoryDraftRepository{
		ttl: ttl,
		now: time.Now,
	}
}

func (r *MemoryDraftRepository) GetDraft(ctx context.Context, session string) (*models.BookingForm, error) {
	val, ok := r.drafts.Load(session)
	if !ok {
		return nil, nil
	}
	entry := val.(draftEntry)
	if !entry.expiresAt.IsZero() && r.now().After(entry.expiresAt) {
		r.drafts.Delete(session)
		return nil, nil
	}
	form := entry.form
	return &form, nil
}

func (r *MemoryDraftRepository) SaveDraft(ctx context.Context, session string, form models.BookingForm) error {
	entry := draftEntry{form: form}
	if r.ttl > 0 {
		entry.expiresAt = r.now().Add(r.ttl)
	}
	r.drafts.Store(session, entry)
	return nil
}

func (r *MemoryDraftRepository) ClearDraft(ctx context.Context, session string) error {
	r.drafts.Delete(session)
	return nil
}
