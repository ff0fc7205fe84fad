package repository

import (
	"context"
	"testing"
	"time"

	"studio/internal/config"
	"studio/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisDraftRepository(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := NewRedisClient(config.RedisConfig{Address: s.Addr()})

	repo := NewRedisDraftRepository(client, time.Hour)
	ctx := context.Background()
	form := models.BookingForm{
		ClientName:    "Ann",
		Phone:         "@ann",
		PreferredDate: "2026-10-20",
		PreferredTime: "14:00",
	}

	t.Run("SaveAndGetDraft", func(t *testing.T) {
		require.NoError(t, repo.SaveDraft(ctx, "default", form))

		got, err := repo.GetDraft(ctx, "default")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, form, *got)
		assert.True(t, s.Exists("booking_draft:default"))
	})

	t.Run("GetMissingDraft", func(t *testing.T) {
		got, err := repo.GetDraft(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("DraftExpires", func(t *testing.T) {
		require.NoError(t, repo.SaveDraft(ctx, "short", form))
		s.FastForward(time.Hour + time.Second)

		got, err := repo.GetDraft(ctx, "short")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("ClearDraft", func(t *testing.T) {
		require.NoError(t, repo.SaveDraft(ctx, "gone", form))
		require.NoError(t, repo.ClearDraft(ctx, "gone"))

		got, _ := repo.GetDraft(ctx, "gone")
		assert.Nil(t, got)
	})

	t.Run("CorruptDraft", func(t *testing.T) {
		require.NoError(t, s.Set("booking_draft:broken", "{not json"))
		_, err := repo.GetDraft(ctx, "broken")
		assert.Error(t, err)
	})

	t.Run("NilClient", func(t *testing.T) {
		repo := NewRedisDraftRepository(nil, time.Hour)
		_, err := repo.GetDraft(ctx, "default")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "redis client is nil")
		assert.Error(t, repo.SaveDraft(ctx, "default", form))
		assert.Error(t, repo.ClearDraft(ctx, "default"))
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, Ping(ctx, client))
	})

	t.Run("Close", func(t *testing.T) {
		assert.NoError(t, Close(client))
		assert.NoError(t, Close(nil))
	})
}
