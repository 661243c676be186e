package main

import "context"

// Store is the persistence boundary consumed by the matching engine and the
// HTTP/WebSocket handlers. Two implementations exist: PGStore (Postgres,
// the production path) and MemStore (development fallback and tests).
//
// Lookups return ErrNotFound for absent rows. CreateMatch returns
// ErrMatchExists when the canonical pair is already taken; callers are
// expected to reread and treat the conflict as success.
type Store interface {
	// Profiles
	GetProfile(ctx context.Context, profileID int) (*Profile, error)
	GetProfileByUserID(ctx context.Context, userID int) (*Profile, error)
	// ListProfilesExcept enumerates all profiles except the given one, in
	// ascending id order. The stable order matters: the suggestion ranker's
	// tie-break follows it.
	ListProfilesExcept(ctx context.Context, profileID int) ([]*Profile, error)
	// ListProfilesByIDs batch-loads profiles; absent ids are simply missing
	// from the result map.
	ListProfilesByIDs(ctx context.Context, ids []int) (map[int]*Profile, error)

	// Skills (immutable reference data)
	ListSkills(ctx context.Context, category string) ([]*Skill, error)

	// Likes
	CreateLike(ctx context.Context, likerID, likedID int) (created bool, err error)
	DeleteLike(ctx context.Context, likerID, likedID int) (deleted bool, err error)
	HasLike(ctx context.Context, likerID, likedID int) (bool, error)

	// Matches
	GetMatch(ctx context.Context, matchID int) (*Match, error)
	// GetMatchByPair looks up the match for an unordered pair; returns
	// (nil, nil) when no match exists.
	GetMatchByPair(ctx context.Context, a, b int) (*Match, error)
	// CreateMatch inserts the canonical pair (user1 < user2) with the score
	// frozen at creation time.
	CreateMatch(ctx context.Context, user1, user2 int, score float64) (*Match, error)
	ListMatchesForProfile(ctx context.Context, profileID int) ([]*Match, error)
	// MatchedProfileIDs returns the set of profiles already matched with
	// profileID, for candidate filtering.
	MatchedProfileIDs(ctx context.Context, profileID int) (map[int]struct{}, error)

	// Chat messages
	CreateMessage(ctx context.Context, matchID, senderID int, text string) (*ChatMessage, error)
	// ListMessages returns up to limit messages for a match in creation
	// order (oldest first). limit <= 0 means no limit.
	ListMessages(ctx context.Context, matchID, limit int) ([]*ChatMessage, error)
	GetMessage(ctx context.Context, messageID int64) (*ChatMessage, error)
	MarkMessageRead(ctx context.Context, messageID int64) error

	// Suggestion cache: replace-all write path. The ranker stays the source
	// of truth; this is a read optimization only.
	ReplaceSuggestions(ctx context.Context, profileID int, suggestedIDs []int) error
}
