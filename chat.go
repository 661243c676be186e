package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Real-time chat for matched pairs. Every live connection belongs to
// exactly one per-match broadcast group; every accepted message is
// persisted first and then fanned out to the whole group, including the
// sender. Persist + fanout happen under the room lock, which is what gives
// the per-match ordering guarantee. Rooms of different matches never share
// a lock, so their pipelines run fully in parallel.

// ChatEvent is a server-sent event on the chat socket.
type ChatEvent struct {
	Type            string `json:"type"` // "connection_established" | "message" | "error"
	Message         string `json:"message,omitempty"`
	SenderID        int    `json:"sender_id,omitempty"`
	SenderProfileID int    `json:"sender_profile_id,omitempty"`
	SenderName      string `json:"sender_name,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
	MessageID       int64  `json:"message_id,omitempty"`
}

const (
	eventConnected = "connection_established"
	eventMessage   = "message"
	eventError     = "error"
)

// chatSendRequest is the only inbound payload while joined.
type chatSendRequest struct {
	Message string `json:"message"`
}

// chatClient is one live connection. A connection's session state (its
// match and resolved profile) is owned by the connection alone; broadcasts
// from other connections reach it only through the send channel.
type chatClient struct {
	id      string // connection id, for log correlation
	profile *Profile
	room    *chatRoom
	conn    *websocket.Conn
	send    chan ChatEvent
}

// chatRoom is the broadcast group of one match.
type chatRoom struct {
	matchID int
	mu      sync.Mutex
	members map[*chatClient]bool
}

// ChatHub tracks the live rooms, keyed by match id.
type ChatHub struct {
	store Store
	// verifyParticipant selects the join policy: participant-verified in
	// deployments, existence-only for local socket testing. The policy is
	// fixed at construction; core logic never inspects the environment.
	verifyParticipant bool

	mu    sync.Mutex
	rooms map[int]*chatRoom
}

func newChatHub(store Store, verifyParticipant bool) *ChatHub {
	return &ChatHub{
		store:             store,
		verifyParticipant: verifyParticipant,
		rooms:             make(map[int]*chatRoom),
	}
}

func (h *ChatHub) join(matchID int, c *chatClient) *chatRoom {
	// The hub lock is held across the member insertion. Releasing it after
	// the lookup would let a concurrent leave() empty the room and drop it
	// from h.rooms before the new member lands, stranding the member in a
	// room no longer reachable by later joins.
	h.mu.Lock()
	room, ok := h.rooms[matchID]
	if !ok {
		room = &chatRoom{matchID: matchID, members: make(map[*chatClient]bool)}
		h.rooms[matchID] = room
	}
	room.mu.Lock()
	room.members[c] = true
	room.mu.Unlock()
	h.mu.Unlock()

	c.room = room
	return room
}

func (h *ChatHub) leave(c *chatClient) {
	room := c.room
	if room == nil {
		return
	}

	// Lock order is always hub -> room so an empty room can be removed
	// without racing a concurrent join.
	h.mu.Lock()
	room.mu.Lock()
	delete(room.members, c)
	if len(room.members) == 0 {
		delete(h.rooms, room.matchID)
	}
	room.mu.Unlock()
	h.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// For development: allow the Vite dev origin ws://localhost:5173
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GET /ws/chat/{matchID}
// Connection lifecycle: Connecting -> Authorizing -> Joined -> Closed.
// Authorization requires the match to exist and, under the
// participant-verified policy, the caller's identity to resolve to one of
// its two participants. A failed check terminates the connection without a
// confirmation event.
func wsChatHandler(hub *ChatHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 3 || parts[0] != "ws" || parts[1] != "chat" {
			http.NotFound(w, r)
			return
		}
		matchID, err := strconv.Atoi(parts[2])
		if err != nil {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}

		// Identity comes from the transport-level session; it may be absent.
		userID, hasIdentity := getUserIDFromRequest(r)

		match, err := hub.store.GetMatch(r.Context(), matchID)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		var profile *Profile
		if hub.verifyParticipant {
			if !hasIdentity {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			profile, err = hub.store.GetProfileByUserID(r.Context(), userID)
			if err != nil || !match.HasParticipant(profile.ID) {
				writeError(w, http.StatusForbidden, "access_denied")
				return
			}
		} else if hasIdentity {
			// Existence-only policy still resolves the profile when it can,
			// so sent messages are attributed and persisted.
			if p, err := hub.store.GetProfileByUserID(r.Context(), userID); err == nil {
				profile = p
			}
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WS upgrade error for match %d: %v", matchID, err)
			return
		}

		client := &chatClient{
			id:      uuid.NewString(),
			profile: profile,
			conn:    conn,
			send:    make(chan ChatEvent, 16),
		}
		// Confirm to this connection only. Queued before the room
		// registration so no broadcast can get in front of it.
		client.send <- ChatEvent{Type: eventConnected, Message: "Connected to chat"}
		hub.join(matchID, client)

		// Start writer
		go clientWriter(client)
		// Start reader (blocks)
		clientReader(hub, client)
	}
}

func clientReader(hub *ChatHub, c *chatClient) {
	defer func() {
		hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(1 << 20)
	_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var req chatSendRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			c.trySend(ChatEvent{Type: eventError, Message: "Invalid JSON format"})
			continue
		}

		text := strings.TrimSpace(req.Message)
		if text == "" {
			c.trySend(ChatEvent{Type: eventError, Message: "Message cannot be empty"})
			continue
		}

		c.room.deliver(hub.store, c, text)
	}
}

// deliver persists one accepted message and broadcasts it to the whole
// group. The room lock is held across both steps so members observe every
// message of this match in acceptance order.
func (room *chatRoom) deliver(store Store, sender *chatClient, text string) {
	room.mu.Lock()
	defer room.mu.Unlock()

	evt := ChatEvent{Type: eventMessage, Message: text}

	if sender.profile != nil {
		msg, err := store.CreateMessage(context.Background(), room.matchID, sender.profile.ID, text)
		if err != nil {
			log.Printf("chat %s: save failed for match %d: %v", sender.id, room.matchID, err)
			sender.trySend(ChatEvent{Type: eventError, Message: "Failed to save message"})
			return
		}
		evt.MessageID = msg.ID
		evt.SenderID = sender.profile.UserID
		evt.SenderProfileID = sender.profile.ID
		evt.SenderName = sender.profile.DisplayName
		evt.CreatedAt = msg.CreatedAt.Format(time.RFC3339Nano)
	} else {
		// Anonymous connection under the existence-only policy: relay
		// without persisting so the socket can be exercised end to end.
		evt.SenderName = "Test User"
		evt.CreatedAt = time.Now().Format(time.RFC3339Nano)
	}

	for member := range room.members {
		member.trySend(evt)
	}
}

// trySend queues an event without blocking; a slow consumer with a full
// buffer drops the event rather than stalling the room.
func (c *chatClient) trySend(evt ChatEvent) {
	select {
	case c.send <- evt:
	default:
	}
}

func clientWriter(c *chatClient) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case evt, ok := <-c.send:
			if !ok {
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(evt); err != nil {
				return
			}
		case <-ticker.C:
			// ping to keep the connection alive
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
