package repository

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"studio/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetDraft(ctx context.Context, session string) (*models.BookingForm, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingForm), args.Error(1)
}

func (m *mockRepo) SaveDraft(ctx context.Context, session string, form models.BookingForm) error {
	args := m.Called(ctx, session, form)
	return args.Error(0)
}

func (m *mockRepo) ClearDraft(ctx context.Context, session string) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func TestFailoverDraftRepository(t *testing.T) {
	primary := new(mockRepo)
	fallback := new(mockRepo)
	logger := zerolog.New(io.Discard)
	repo := NewFailoverDraftRepository(primary, fallback, &logger)
	ctx := context.Background()
	form := models.BookingForm{ClientName: "Ann", Phone: "+1"}

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	t.Run("PrimarySuccess", func(t *testing.T) {
		primary.On("GetDraft", ctx, "a").Return(&form, nil).Once()

		got, err := repo.GetDraft(ctx, "a")
		assert.NoError(t, err)
		assert.Equal(t, &form, got)
		primary.AssertExpectations(t)
	})

	t.Run("PrimaryFailFallbackSuccess", func(t *testing.T) {
		primary.On("GetDraft", ctx, "b").Return(nil, errors.New("fail")).Once()
		fallback.On("GetDraft", ctx, "b").Return(&form, nil).Once()

		got, err := repo.GetDraft(ctx, "b")
		assert.NoError(t, err)
		assert.Equal(t, &form, got)
		assert.True(t, repo.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("StaysOnFallbackBeforeInterval", func(t *testing.T) {
		fallback.On("SaveDraft", ctx, "c", form).Return(nil).Once()

		assert.NoError(t, repo.SaveDraft(ctx, "c", form))
		primary.AssertNotCalled(t, "SaveDraft", ctx, "c", form)
		fallback.AssertExpectations(t)
	})

	t.Run("RecoveryAttempt", func(t *testing.T) {
		now = now.Add(2 * time.Minute)
		primary.On("GetDraft", ctx, "d").Return(nil, nil).Once()

		got, err := repo.GetDraft(ctx, "d")
		assert.NoError(t, err)
		assert.Nil(t, got)
		assert.False(t, repo.isDown.Load())
		primary.AssertExpectations(t)
	})

	t.Run("RecoveryAttemptFail", func(t *testing.T) {
		repo.isDown.Store(true)
		repo.lastCheck.Store(now.Add(-2 * time.Minute).UnixNano())

		primary.On("GetDraft", ctx, "e").Return(nil, errors.New("still fail")).Once()
		fallback.On("GetDraft", ctx, "e").Return(nil, nil).Once()

		_, err := repo.GetDraft(ctx, "e")
		assert.NoError(t, err)
		assert.True(t, repo.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("SaveDraftFailover", func(t *testing.T) {
		repo.isDown.Store(false)
		primary.On("SaveDraft", ctx, "f", form).Return(errors.New("fail")).Once()
		fallback.On("SaveDraft", ctx, "f", form).Return(nil).Once()

		assert.NoError(t, repo.SaveDraft(ctx, "f", form))
		assert.True(t, repo.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("ClearDraftClearsBoth", func(t *testing.T) {
		repo.isDown.Store(false)
		fallback.On("ClearDraft", ctx, "g").Return(nil).Once()
		primary.On("ClearDraft", ctx, "g").Return(nil).Once()

		assert.NoError(t, repo.ClearDraft(ctx, "g"))
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("ClearDraftAlreadyDown", func(t *testing.T) {
		repo.isDown.Store(true)
		repo.lastCheck.Store(now.UnixNano())
		fallback.On("ClearDraft", ctx, "h").Return(nil).Once()

		assert.NoError(t, repo.ClearDraft(ctx, "h"))
		primary.AssertNotCalled(t, "ClearDraft", ctx, "h")
		fallback.AssertExpectations(t)
	})
}
