package main

import (
	"net/http"
	"strconv"
	"strings"
)

// Like endpoints.
//
// TERMINOLOGY
// like: create a directed edge liker -> liked (idempotent).
// unlike: the liker deletes their own edge.
// A like that completes a reciprocal pair promotes it into a Match.

// A dispatcher router for all /profiles/{id}/... requests
func profileActionsRouter(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := strings.Trim(r.URL.Path, "/")
		parts := strings.Split(path, "/")
		if len(parts) != 3 || parts[0] != "profiles" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}

		switch parts[2] {
		case "like":
			likeHandler(store).ServeHTTP(w, r)
		case "unlike":
			unlikeHandler(store).ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	}
}

func targetProfileID(r *http.Request) (int, bool) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 {
		return 0, false
	}
	id, err := strconv.Atoi(parts[1])
	return id, err == nil
}

// POST /profiles/{id}/like
// Records the like and, when it completes a reciprocal pair, reports the
// resulting match. Liking twice is a no-op.
func likeHandler(store Store) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		targetID, ok := targetProfileID(r)
		if !ok {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		me, ok := requireProfile(w, r, store)
		if !ok {
			return
		}

		target, err := store.GetProfile(r.Context(), targetID)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		created, err := likeProfile(r.Context(), store, me.ID, target.ID)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		match, isNew, err := findOrCreateMatch(r.Context(), store, me, target)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		resp := map[string]interface{}{
			"liked":        true,
			"is_new_match": isNew,
		}
		if match != nil {
			resp["match"] = newMatchView(r.Context(), store, match)
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		writeJSON(w, status, resp)
	})
}

// POST /profiles/{id}/unlike
func unlikeHandler(store Store) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		targetID, ok := targetProfileID(r)
		if !ok {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		me, ok := requireProfile(w, r, store)
		if !ok {
			return
		}

		deleted, err := store.DeleteLike(r.Context(), me.ID, targetID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if !deleted {
			writeError(w, http.StatusNotFound, "like_not_found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"unliked": true})
	})
}
