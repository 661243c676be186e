package main

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// matchView is a match with both participant profiles resolved.
type matchView struct {
	ID                 int       `json:"id"`
	User1              *Profile  `json:"user1,omitempty"`
	User2              *Profile  `json:"user2,omitempty"`
	CompatibilityScore float64   `json:"compatibility_score"`
	CreatedAt          time.Time `json:"created_at"`
}

// newMatchView resolves both participants through the request's dataloader
// so a page of matches costs one batched profile query.
func newMatchView(ctx context.Context, store Store, m *Match) matchView {
	view := matchView{
		ID:                 m.ID,
		CompatibilityScore: m.CompatibilityScore,
		CreatedAt:          m.CreatedAt,
	}
	if p, err := loadProfile(ctx, store, m.User1ID); err == nil {
		view.User1 = p
	}
	if p, err := loadProfile(ctx, store, m.User2ID); err == nil {
		view.User2 = p
	}
	return view
}

// GET /matches - the caller's matches, best score first
func matchesHandler(store Store) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		me, ok := requireProfile(w, r, store)
		if !ok {
			return
		}

		matches, err := store.ListMatchesForProfile(r.Context(), me.ID)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		views := make([]matchView, 0, len(matches))
		for _, m := range matches {
			views = append(views, newMatchView(r.Context(), store, m))
		}
		writeJSON(w, http.StatusOK, map[string][]matchView{"matches": views})
	})
}

// A dispatcher router for /matches/{id}/... requests
func matchActionsRouter(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 3 || parts[0] != "matches" || r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}

		switch parts[2] {
		case "other":
			matchOtherUserHandler(store).ServeHTTP(w, r)
		case "messages":
			matchMessagesHandler(store).ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	}
}

// loadMatchForParticipant parses /matches/{id}/... and verifies the caller
// is one of the match's participants.
func loadMatchForParticipant(w http.ResponseWriter, r *http.Request, store Store, me *Profile) (*Match, bool) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	matchID, err := strconv.Atoi(parts[1])
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return nil, false
	}

	match, err := store.GetMatch(r.Context(), matchID)
	if err != nil {
		writeStoreError(w, err)
		return nil, false
	}
	if !match.HasParticipant(me.ID) {
		writeError(w, http.StatusForbidden, "access_denied")
		return nil, false
	}
	return match, true
}

// GET /matches/{id}/other - the peer profile of a match
func matchOtherUserHandler(store Store) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		me, ok := requireProfile(w, r, store)
		if !ok {
			return
		}
		match, ok := loadMatchForParticipant(w, r, store, me)
		if !ok {
			return
		}

		other, err := loadProfile(r.Context(), store, match.OtherParticipant(me.ID))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, other)
	})
}

// GET /matches/{id}/messages?limit=50 - chat history in creation order
func matchMessagesHandler(store Store) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		me, ok := requireProfile(w, r, store)
		if !ok {
			return
		}
		match, ok := loadMatchForParticipant(w, r, store, me)
		if !ok {
			return
		}

		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
				limit = n
			}
		}

		messages, err := store.ListMessages(r.Context(), match.ID, limit)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string][]*ChatMessage{"messages": messages})
	})
}

// POST /messages/{id}/read - the recipient marks a message as read
func markMessageReadHandler(store Store) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 3 || parts[0] != "messages" || parts[2] != "read" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		messageID, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}

		me, ok := requireProfile(w, r, store)
		if !ok {
			return
		}

		msg, err := store.GetMessage(r.Context(), messageID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		match, err := store.GetMatch(r.Context(), msg.MatchID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		// Only the recipient flips the read flag
		if !match.HasParticipant(me.ID) || msg.SenderID == me.ID {
			writeError(w, http.StatusForbidden, "access_denied")
			return
		}

		if err := store.MarkMessageRead(r.Context(), messageID); err != nil {
			writeStoreError(w, err)
			return
		}
		msg.IsRead = true
		writeJSON(w, http.StatusOK, msg)
	})
}
