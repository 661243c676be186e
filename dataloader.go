package main

import (
	"context"
	"net/http"
	"time"

	"github.com/graph-gophers/dataloader/v7"
)

// Per-request batched profile loading. Match and suggestion views resolve
// both participants of every row; the loader collapses those lookups into
// one ListProfilesByIDs call per request.

// DataLoaderContextKey is the key used to store dataloaders in context
type DataLoaderContextKey string

const dataLoaderKey DataLoaderContextKey = "dataloader"

// DataLoaders holds all the dataloaders for the application
type DataLoaders struct {
	ProfileLoader *dataloader.Loader[int, *Profile]
}

// NewDataLoaders creates new dataloaders backed by the store
func NewDataLoaders(store Store) *DataLoaders {
	return &DataLoaders{
		ProfileLoader: dataloader.NewBatchedLoader(
			profileBatchFn(store),
			dataloader.WithWait[int, *Profile](4*time.Millisecond),
		),
	}
}

// GetDataLoadersFromContext retrieves dataloaders from context
func GetDataLoadersFromContext(ctx context.Context) *DataLoaders {
	if dl, ok := ctx.Value(dataLoaderKey).(*DataLoaders); ok {
		return dl
	}
	return nil
}

// DataLoaderMiddleware injects fresh dataloaders into every request context
// so batching and caching never leak across requests.
func DataLoaderMiddleware(store Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), dataLoaderKey, NewDataLoaders(store))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func profileBatchFn(store Store) dataloader.BatchFunc[int, *Profile] {
	return func(ctx context.Context, keys []int) []*dataloader.Result[*Profile] {
		results := make([]*dataloader.Result[*Profile], len(keys))

		profiles, err := store.ListProfilesByIDs(ctx, keys)
		if err != nil {
			for i := range results {
				results[i] = &dataloader.Result[*Profile]{Error: err}
			}
			return results
		}

		for i, key := range keys {
			if p, ok := profiles[key]; ok {
				results[i] = &dataloader.Result[*Profile]{Data: p}
			} else {
				results[i] = &dataloader.Result[*Profile]{Error: ErrNotFound}
			}
		}
		return results
	}
}

// loadProfile resolves a profile through the request's dataloader when one
// is present, falling back to a direct store read otherwise.
func loadProfile(ctx context.Context, store Store, profileID int) (*Profile, error) {
	if dl := GetDataLoadersFromContext(ctx); dl != nil {
		return dl.ProfileLoader.Load(ctx, profileID)()
	}
	return store.GetProfile(ctx, profileID)
}
