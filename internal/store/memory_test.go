package store

import (
	"context"
	"testing"

	"medintake/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	sess := &model.Session{
		ID:      "s1",
		Base:    []string{"q1", "q2"},
		Answers: map[string]string{"q1": "yes"},
		Status:  model.SessionInProgress,
	}
	require.NoError(t, s.Put(ctx, sess))

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sess.Base, got.Base)
	assert.Equal(t, sess.Answers, got.Answers)
}

func TestMemoryStoreNotFound(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
}

func TestMemoryStoreReturnsIndependentCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	sess := &model.Session{
		ID:      "s1",
		Base:    []string{"q1"},
		Answers: map[string]string{},
	}
	require.NoError(t, s.Put(ctx, sess))

	// Mutating the original after Put must not leak into the store.
	sess.Answers["q1"] = "leaked"
	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got.Answers)

	// Mutating a Get result must not change the stored session.
	got.Base = append(got.Base, "q2")
	got.Answers["q1"] = "leaked"
	again, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"q1"}, again.Base)
	assert.Empty(t, again.Answers)
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, &model.Session{ID: "s1"}))
	require.NoError(t, s.Delete(ctx, "s1"))
	_, err := s.Get(ctx, "s1")
	assert.ErrorIs(t, err, model.ErrSessionNotFound)

	// Deleting an absent session is not an error.
	assert.NoError(t, s.Delete(ctx, "s1"))
}
