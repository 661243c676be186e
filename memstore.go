package main

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemStore is an in-memory Store used by the test suite and as the
// development fallback when DATABASE_URL is not set. It enforces the same
// invariants as the Postgres store: unique directed like edges, a unique
// canonical match pair, and creation-ordered messages.
type MemStore struct {
	mu sync.RWMutex

	profiles      map[int]*Profile
	skills        []*Skill
	likes         map[[2]int]*Like
	matches       map[int]*Match
	matchByPair   map[[2]int]int // canonical pair -> match id
	messages      map[int64]*ChatMessage
	messagesOrder map[int][]int64 // match id -> message ids in creation order
	suggestions   map[int][]int

	nextProfileID int
	nextSkillID   int
	nextLikeID    int
	nextMatchID   int
	nextMessageID int64
}

func NewMemStore() *MemStore {
	return &MemStore{
		profiles:      make(map[int]*Profile),
		likes:         make(map[[2]int]*Like),
		matches:       make(map[int]*Match),
		matchByPair:   make(map[[2]int]int),
		messages:      make(map[int64]*ChatMessage),
		messagesOrder: make(map[int][]int64),
		suggestions:   make(map[int][]int),
	}
}

// AddProfile inserts or replaces a profile. A zero ID assigns the next
// free one. Returns the stored profile.
func (s *MemStore) AddProfile(p *Profile) *Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		s.nextProfileID++
		p.ID = s.nextProfileID
	} else if p.ID > s.nextProfileID {
		s.nextProfileID = p.ID
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	s.profiles[p.ID] = p
	return p
}

// AddSkill registers a reference skill.
func (s *MemStore) AddSkill(sk *Skill) *Skill {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sk.ID == 0 {
		s.nextSkillID++
		sk.ID = s.nextSkillID
	}
	s.skills = append(s.skills, sk)
	return sk
}

func (s *MemStore) GetProfile(_ context.Context, profileID int) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[profileID]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *MemStore) GetProfileByUserID(_ context.Context, userID int) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemStore) ListProfilesExcept(_ context.Context, profileID int) ([]*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Profile, 0, len(s.profiles))
	for id, p := range s.profiles {
		if id != profileID {
			out = append(out, p)
		}
	}
	// Ascending id = creation order; the ranker's tie-break depends on it.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) ListProfilesByIDs(_ context.Context, ids []int) (map[int]*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int]*Profile, len(ids))
	for _, id := range ids {
		if p, ok := s.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (s *MemStore) ListSkills(_ context.Context, category string) ([]*Skill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Skill, 0, len(s.skills))
	for _, sk := range s.skills {
		if category == "" || sk.Category == category {
			out = append(out, sk)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *MemStore) CreateLike(_ context.Context, likerID, likedID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]int{likerID, likedID}
	if _, ok := s.likes[key]; ok {
		return false, nil
	}
	s.nextLikeID++
	s.likes[key] = &Like{
		ID:        s.nextLikeID,
		LikerID:   likerID,
		LikedID:   likedID,
		CreatedAt: time.Now(),
	}
	return true, nil
}

func (s *MemStore) DeleteLike(_ context.Context, likerID, likedID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]int{likerID, likedID}
	if _, ok := s.likes[key]; !ok {
		return false, nil
	}
	delete(s.likes, key)
	return true, nil
}

func (s *MemStore) HasLike(_ context.Context, likerID, likedID int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.likes[[2]int{likerID, likedID}]
	return ok, nil
}

func (s *MemStore) GetMatch(_ context.Context, matchID int) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matches[matchID]
	if !ok {
		return nil, ErrNotFound
	}
	return m, nil
}

func (s *MemStore) GetMatchByPair(_ context.Context, a, b int) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u1, u2 := canonicalPair(a, b)
	id, ok := s.matchByPair[[2]int{u1, u2}]
	if !ok {
		return nil, nil
	}
	return s.matches[id], nil
}

func (s *MemStore) CreateMatch(_ context.Context, user1, user2 int, score float64) (*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Uniqueness is per unordered pair; canonicalize here rather than
	// trusting the caller, like the unique index on the canonical columns
	// does in Postgres.
	user1, user2 = canonicalPair(user1, user2)
	key := [2]int{user1, user2}
	if _, ok := s.matchByPair[key]; ok {
		return nil, ErrMatchExists
	}
	s.nextMatchID++
	m := &Match{
		ID:                 s.nextMatchID,
		User1ID:            user1,
		User2ID:            user2,
		CompatibilityScore: score,
		CreatedAt:          time.Now(),
	}
	s.matches[m.ID] = m
	s.matchByPair[key] = m.ID
	return m, nil
}

func (s *MemStore) ListMatchesForProfile(_ context.Context, profileID int) ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Match, 0)
	for _, m := range s.matches {
		if m.HasParticipant(profileID) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CompatibilityScore != out[j].CompatibilityScore {
			return out[i].CompatibilityScore > out[j].CompatibilityScore
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemStore) MatchedProfileIDs(_ context.Context, profileID int) (map[int]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int]struct{})
	for _, m := range s.matches {
		if m.HasParticipant(profileID) {
			out[m.OtherParticipant(profileID)] = struct{}{}
		}
	}
	return out, nil
}

func (s *MemStore) CreateMessage(_ context.Context, matchID, senderID int, text string) (*ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[matchID]; !ok {
		return nil, ErrNotFound
	}
	s.nextMessageID++
	msg := &ChatMessage{
		ID:        s.nextMessageID,
		MatchID:   matchID,
		SenderID:  senderID,
		Message:   text,
		CreatedAt: time.Now(),
	}
	s.messages[msg.ID] = msg
	s.messagesOrder[matchID] = append(s.messagesOrder[matchID], msg.ID)
	return msg, nil
}

func (s *MemStore) ListMessages(_ context.Context, matchID, limit int) ([]*ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.messagesOrder[matchID]
	if limit > 0 && len(ids) > limit {
		ids = ids[len(ids)-limit:]
	}
	out := make([]*ChatMessage, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.messages[id])
	}
	return out, nil
}

func (s *MemStore) GetMessage(_ context.Context, messageID int64) (*ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msg, ok := s.messages[messageID]
	if !ok {
		return nil, ErrNotFound
	}
	return msg, nil
}

func (s *MemStore) MarkMessageRead(_ context.Context, messageID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.messages[messageID]
	if !ok {
		return ErrNotFound
	}
	msg.IsRead = true
	return nil
}

func (s *MemStore) ReplaceSuggestions(_ context.Context, profileID int, suggestedIDs []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	replacement := make([]int, len(suggestedIDs))
	copy(replacement, suggestedIDs)
	s.suggestions[profileID] = replacement
	return nil
}

// CachedSuggestions returns the last replace-all snapshot for a profile.
func (s *MemStore) CachedSuggestions(profileID int) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.suggestions[profileID]
}
