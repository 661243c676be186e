package main

import (
	"context"
	"log"
	"math"
	"net/http"
)

// suggestionView is a candidate profile with its rounded score attached.
type suggestionView struct {
	*Profile
	CompatibilityScore float64 `json:"compatibility_score"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// requireProfile resolves the authenticated caller's own profile.
func requireProfile(w http.ResponseWriter, r *http.Request, store Store) (*Profile, bool) {
	userID := r.Context().Value(userIDKey).(int)
	profile, err := store.GetProfileByUserID(r.Context(), userID)
	if err == ErrNotFound {
		writeError(w, http.StatusNotFound, "profile_not_found")
		return nil, false
	} else if err != nil {
		writeStoreError(w, err)
		return nil, false
	}
	return profile, true
}

// GET /suggestions - top compatible candidates for the caller
func suggestionsHandler(store Store) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		profile, ok := requireProfile(w, r, store)
		if !ok {
			return
		}

		suggestions, err := getTopSuggestions(r.Context(), store, profile, defaultSuggestionLimit)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		views := make([]suggestionView, 0, len(suggestions))
		ids := make([]int, 0, len(suggestions))
		for _, s := range suggestions {
			views = append(views, suggestionView{Profile: s.Profile, CompatibilityScore: round2(s.Score)})
			ids = append(ids, s.Profile.ID)
		}

		// Write-through cache refresh: replace-all, best effort. The ranker
		// result above is what the caller gets either way.
		if err := store.ReplaceSuggestions(context.WithoutCancel(r.Context()), profile.ID, ids); err != nil {
			log.Println("suggestion cache refresh failed:", err)
		}

		writeJSON(w, http.StatusOK, views)
	})
}
