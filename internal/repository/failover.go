package repository

import (
	"context"
	"sync/atomic"
	"time"

	"studio/internal/domain"
	"studio/internal/models"

	"github.com/rs/zerolog"
)

const recoveryInterval = time.Minute

// FailoverDraftRepository prefers primary and switches to fallback after the
// first primary error, probing primary again once recoveryInterval has passed.
type FailoverDraftRepository struct {
	primary   domain.DraftRepository
	fallback  domain.DraftRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
	now       func() time.Time
}

func NewFailoverDraftRepository(primary, fallback domain.DraftRepository, logger *zerolog.Logger) *FailoverDraftRepository {
	return &FailoverDraftRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		now:      time.Now,
	}
}

// usePrimary reports whether the next call should go to primary.
func (r *FailoverDraftRepository) usePrimary() bool {
	if !r.isDown.Load() {
		return true
	}
	return r.now().Sub(time.Unix(0, r.lastCheck.Load())) > recoveryInterval
}

func (r *FailoverDraftRepository) markResult(err error) {
	if err == nil {
		if r.isDown.Swap(false) {
			r.logger.Info().Msg("Primary draft repository recovered")
		}
		return
	}
	if !r.isDown.Swap(true) {
		r.logger.Error().Err(err).Msg("Primary draft repository failed, falling back to memory")
	}
	r.lastCheck.Store(r.now().UnixNano())
}

func (r *FailoverDraftRepository) GetDraft(ctx context.Context, session string) (*models.BookingForm, error) {
	if r.usePrimary() {
		form, err := r.primary.GetDraft(ctx, session)
		r.markResult(err)
		if err == nil {
			return form, nil
		}
	}
	return r.fallback.GetDraft(ctx, session)
}

func (r *FailoverDraftRepository) SaveDraft(ctx context.Context, session string, form models.BookingForm) error {
	if r.usePrimary() {
		err := r.primary.SaveDraft(ctx, session, form)
		r.markResult(err)
		if err == nil {
			return nil
		}
	}
	return r.fallback.SaveDraft(ctx, session, form)
}

func (r *FailoverDraftRepository) ClearDraft(ctx context.Context, session string) error {
	// The fallback may hold a copy written while primary was down.
	fallbackErr := r.fallback.ClearDraft(ctx, session)
	if !r.usePrimary() {
		return fallbackErr
	}
	err := r.primary.ClearDraft(ctx, session)
	r.markResult(err)
	if err != nil {
		return fallbackErr
	}
	return nil
}
