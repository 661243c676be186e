package main

import (
	"log"
	"net/http"
	"os"
)

// JWT secret from environment variable or fallback
func getJWTSecret() []byte {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return []byte(secret)
	}
	return []byte("your_secret_key_please_change_in_production")
}

var jwtSecret = getJWTSecret()

// chatJoinPolicy reads CHAT_JOIN_POLICY: "verified" (default) requires the
// connecting identity to be a participant of the match; "open" only
// requires the match to exist and is meant for local socket testing. The
// flag is read once here, never from inside the chat core.
func chatJoinPolicy() bool {
	if os.Getenv("CHAT_JOIN_POLICY") == "open" {
		log.Println("Warning: chat join policy is existence-only; do not use in deployments")
		return false
	}
	return true
}

func main() {
	store := openStore()
	hub := newChatHub(store, chatJoinPolicy())

	mux := http.NewServeMux()

	// Matching endpoints
	mux.Handle("/suggestions", suggestionsHandler(store))
	mux.Handle("/profiles/", profileActionsRouter(store)) // POST /profiles/{id}/(like|unlike)
	mux.Handle("/matches", matchesHandler(store))
	mux.Handle("/matches/", matchActionsRouter(store)) // GET /matches/{id}/(other|messages)

	// Chat
	mux.Handle("/ws/chat/", wsChatHandler(hub))             // WebSocket, per match
	mux.Handle("/messages/", markMessageReadHandler(store)) // POST /messages/{id}/read

	// Reference data
	mux.Handle("/skills", skillsHandler(store))

	// Health check endpoint for Docker
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	handler := withCORS(DataLoaderMiddleware(store)(mux))
	log.Default().Println("Starting CodeMatch backend on port " + port + "...")
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatal(err)
	}
}
