package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileBatchFn(t *testing.T) {
	store := NewMemStore()
	a := seedProfile(store, 1, "A")
	b := seedProfile(store, 2, "B")

	batch := profileBatchFn(store)
	results := batch(context.Background(), []int{a.ID, 999, b.ID})
	require.Len(t, results, 3)

	require.NoError(t, results[0].Error)
	assert.Equal(t, "A", results[0].Data.DisplayName)

	// Absent key fails only its own slot
	assert.ErrorIs(t, results[1].Error, ErrNotFound)

	require.NoError(t, results[2].Error)
	assert.Equal(t, "B", results[2].Data.DisplayName)
}

func TestDataLoaderMiddleware(t *testing.T) {
	store := NewMemStore()
	p := seedProfile(store, 1, "A")

	var loaded *Profile
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dl := GetDataLoadersFromContext(r.Context())
		require.NotNil(t, dl, "middleware must inject loaders")

		got, err := dl.ProfileLoader.Load(r.Context(), p.ID)()
		require.NoError(t, err)
		loaded = got
	})

	w := httptest.NewRecorder()
	DataLoaderMiddleware(store)(inner).ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	require.NotNil(t, loaded)
	assert.Equal(t, p.ID, loaded.ID)
}

func TestLoadProfileFallback(t *testing.T) {
	store := NewMemStore()
	p := seedProfile(store, 1, "A")

	// No loaders in context: falls back to a direct store read
	got, err := loadProfile(context.Background(), store, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = loadProfile(context.Background(), store, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
