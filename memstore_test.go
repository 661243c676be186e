package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStoreLikes(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	a := seedProfile(store, 1, "A")
	b := seedProfile(store, 2, "B")

	created, err := store.CreateLike(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, created)

	// Unique per ordered pair: the second insert is rejected quietly
	created, err = store.CreateLike(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, created)

	// The opposite direction is a distinct edge
	has, err := store.HasLike(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, has)

	deleted, err := store.DeleteLike(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.DeleteLike(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestMemStoreMatchUniqueness(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	seedProfile(store, 1, "A")
	seedProfile(store, 2, "B")

	m, err := store.CreateMatch(ctx, 1, 2, 66.5)
	require.NoError(t, err)

	_, err = store.CreateMatch(ctx, 1, 2, 10)
	assert.ErrorIs(t, err, ErrMatchExists)

	// Pair lookup is order-insensitive
	byPair, err := store.GetMatchByPair(ctx, 2, 1)
	require.NoError(t, err)
	require.NotNil(t, byPair)
	assert.Equal(t, m.ID, byPair.ID)
	assert.Equal(t, 66.5, byPair.CompatibilityScore)

	// Absent pair is (nil, nil), not an error
	byPair, err = store.GetMatchByPair(ctx, 1, 99)
	require.NoError(t, err)
	assert.Nil(t, byPair)
}

func TestMemStoreMatchUniquenessInvertedOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	seedProfile(store, 3, "A")
	seedProfile(store, 5, "B")

	// The store canonicalizes the pair itself; inverted arguments must
	// not mint a second match for the same two profiles.
	m, err := store.CreateMatch(ctx, 5, 3, 80)
	require.NoError(t, err)
	assert.Equal(t, 3, m.User1ID)
	assert.Equal(t, 5, m.User2ID)

	_, err = store.CreateMatch(ctx, 3, 5, 80)
	assert.ErrorIs(t, err, ErrMatchExists)

	matches, err := store.ListMatchesForProfile(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestMemStoreMessages(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	seedProfile(store, 1, "A")
	seedProfile(store, 2, "B")
	match, err := store.CreateMatch(ctx, 1, 2, 50)
	require.NoError(t, err)

	for _, text := range []string{"first", "second", "third"} {
		_, err := store.CreateMessage(ctx, match.ID, 1, text)
		require.NoError(t, err)
	}

	t.Run("Creation order", func(t *testing.T) {
		msgs, err := store.ListMessages(ctx, match.ID, 0)
		require.NoError(t, err)
		require.Len(t, msgs, 3)
		assert.Equal(t, "first", msgs[0].Message)
		assert.Equal(t, "third", msgs[2].Message)
	})

	t.Run("Limit keeps the newest", func(t *testing.T) {
		msgs, err := store.ListMessages(ctx, match.ID, 2)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, "second", msgs[0].Message)
	})

	t.Run("Read flag", func(t *testing.T) {
		msgs, _ := store.ListMessages(ctx, match.ID, 0)
		require.False(t, msgs[0].IsRead)

		require.NoError(t, store.MarkMessageRead(ctx, msgs[0].ID))
		got, err := store.GetMessage(ctx, msgs[0].ID)
		require.NoError(t, err)
		assert.True(t, got.IsRead)
	})

	t.Run("Unknown match rejected", func(t *testing.T) {
		_, err := store.CreateMessage(ctx, 999, 1, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemStoreReplaceSuggestions(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	seedProfile(store, 1, "A")

	require.NoError(t, store.ReplaceSuggestions(ctx, 1, []int{4, 2, 9}))
	assert.Equal(t, []int{4, 2, 9}, store.CachedSuggestions(1))

	// Wholesale replacement, not a merge
	require.NoError(t, store.ReplaceSuggestions(ctx, 1, []int{7}))
	assert.Equal(t, []int{7}, store.CachedSuggestions(1))
}

func TestMemStoreProfileEnumeration(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	for _, id := range []int{4, 1, 3, 2} {
		seedProfile(store, id, "P")
	}

	profiles, err := store.ListProfilesExcept(ctx, 3)
	require.NoError(t, err)
	require.Len(t, profiles, 3)
	// Ascending id order regardless of insertion order
	assert.Equal(t, 1, profiles[0].ID)
	assert.Equal(t, 2, profiles[1].ID)
	assert.Equal(t, 4, profiles[2].ID)
}
