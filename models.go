package main

import "time"

// Developer type tags. The same tags double as teammate preferences,
// where "any" is additionally allowed.
const (
	TypeFrontend  = "frontend"
	TypeBackend   = "backend"
	TypeFullstack = "fullstack"
	TypeDevops    = "devops"
	TypeMobile    = "mobile"
	TypeData      = "data"
	TypeML        = "ml"
	TypeOther     = "other"

	PreferenceAny = "any"
)

// Availability tags.
const (
	AvailabilityPartTime = "part-time"
	AvailabilityFullTime = "full-time"
	AvailabilityWeekends = "weekends"
	AvailabilityFlexible = "flexible"
)

// Profile represents a developer's matchable attributes. The identity
// (user_id) is issued by the external auth service; this backend only
// references it.
type Profile struct {
	ID                 int       `json:"id"`
	UserID             int       `json:"user_id"`
	DisplayName        string    `json:"display_name"`
	DeveloperType      string    `json:"developer_type"`
	TeammatePreference string    `json:"teammate_preference"`
	Skills             []string  `json:"skills"`      // skill slugs the developer has
	LookingFor         []string  `json:"looking_for"` // skill slugs wanted in a teammate
	YearsOfExperience  int       `json:"years_of_experience"`
	Availability       string    `json:"availability"`
	CreatedAt          time.Time `json:"created_at"`
}

// Skill is immutable reference data users pick their tags from.
type Skill struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Category string `json:"category"`
	Icon     string `json:"icon,omitempty"`
}

// Like is a directed edge from one profile to another, unique per ordered pair.
type Like struct {
	ID        int       `json:"id"`
	LikerID   int       `json:"liker_id"`
	LikedID   int       `json:"liked_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Match is the mutual pairing created once reciprocal likes exist.
// User1ID always holds the lower profile id so every unordered pair has a
// single storage representation. The compatibility score is computed once
// at creation time and never updated afterwards.
type Match struct {
	ID                 int       `json:"id"`
	User1ID            int       `json:"user1_id"`
	User2ID            int       `json:"user2_id"`
	CompatibilityScore float64   `json:"compatibility_score"`
	CreatedAt          time.Time `json:"created_at"`
}

// HasParticipant reports whether profileID occupies one of the match's two slots.
func (m *Match) HasParticipant(profileID int) bool {
	return m.User1ID == profileID || m.User2ID == profileID
}

// OtherParticipant returns the peer of profileID, or 0 when profileID is
// not part of the match.
func (m *Match) OtherParticipant(profileID int) int {
	switch profileID {
	case m.User1ID:
		return m.User2ID
	case m.User2ID:
		return m.User1ID
	}
	return 0
}

// ChatMessage belongs to exactly one match and is authored by one of its
// two participants. Messages are ordered by creation time.
type ChatMessage struct {
	ID        int64     `json:"id"`
	MatchID   int       `json:"match_id"`
	SenderID  int       `json:"sender_id"` // profile id
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// canonicalPair orders two profile ids so the lower one comes first.
func canonicalPair(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}
