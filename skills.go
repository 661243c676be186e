package main

import "net/http"

// GET /skills?category=frontend - reference skills users pick tags from
func skillsHandler(store Store) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}

		skills, err := store.ListSkills(r.Context(), r.URL.Query().Get("category"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string][]*Skill{"skills": skills})
	})
}
