package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// PGStore implements Store on top of Postgres. Skill tags live in jsonb
// columns on profiles; match uniqueness is enforced by a unique index on
// the canonical (user1_id, user2_id) pair with user1_id < user2_id.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

const profileColumns = `id, user_id, display_name, developer_type, teammate_preference,
       skills, looking_for, years_of_experience, availability, created_at`

func scanProfile(row interface{ Scan(...any) error }) (*Profile, error) {
	var p Profile
	var skills, lookingFor []byte
	err := row.Scan(
		&p.ID, &p.UserID, &p.DisplayName, &p.DeveloperType, &p.TeammatePreference,
		&skills, &lookingFor, &p.YearsOfExperience, &p.Availability, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal(skills, &p.Skills)
	_ = json.Unmarshal(lookingFor, &p.LookingFor)
	return &p, nil
}

func (s *PGStore) GetProfile(ctx context.Context, profileID int) (*Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, profileID)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return p, err
}

func (s *PGStore) GetProfileByUserID(ctx context.Context, userID int) (*Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return p, err
}

func (s *PGStore) ListProfilesExcept(ctx context.Context, profileID int) ([]*Profile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id <> $1 ORDER BY id`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PGStore) ListProfilesByIDs(ctx context.Context, ids []int) (map[int]*Profile, error) {
	out := make(map[int]*Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id IN (`+strings.Join(placeholders, ", ")+`)`,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

func (s *PGStore) ListSkills(ctx context.Context, category string) ([]*Skill, error) {
	q := `SELECT id, name, slug, category, COALESCE(icon, '') FROM skills`
	args := []any{}
	if category != "" {
		q += ` WHERE category = $1`
		args = append(args, category)
	}
	q += ` ORDER BY category, name`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Skill
	for rows.Next() {
		var sk Skill
		if err := rows.Scan(&sk.ID, &sk.Name, &sk.Slug, &sk.Category, &sk.Icon); err != nil {
			return nil, err
		}
		out = append(out, &sk)
	}
	return out, rows.Err()
}

func (s *PGStore) CreateLike(ctx context.Context, likerID, likedID int) (bool, error) {
	var id int
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO likes (liker_id, liked_id)
		VALUES ($1, $2)
		ON CONFLICT (liker_id, liked_id) DO NOTHING
		RETURNING id
	`, likerID, likedID).Scan(&id)
	if err == sql.ErrNoRows {
		// Edge already exists
		return false, nil
	}
	return err == nil, err
}

func (s *PGStore) DeleteLike(ctx context.Context, likerID, likedID int) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM likes WHERE liker_id = $1 AND liked_id = $2`, likerID, likedID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *PGStore) HasLike(ctx context.Context, likerID, likedID int) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM likes WHERE liker_id = $1 AND liked_id = $2)`,
		likerID, likedID).Scan(&exists)
	return exists, err
}

func (s *PGStore) GetMatch(ctx context.Context, matchID int) (*Match, error) {
	var m Match
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user1_id, user2_id, compatibility_score, created_at
		FROM matches WHERE id = $1
	`, matchID).Scan(&m.ID, &m.User1ID, &m.User2ID, &m.CompatibilityScore, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *PGStore) GetMatchByPair(ctx context.Context, a, b int) (*Match, error) {
	var m Match
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user1_id, user2_id, compatibility_score, created_at
		FROM matches
		WHERE user1_id = LEAST($1::int, $2::int) AND user2_id = GREATEST($1::int, $2::int)
		LIMIT 1
	`, a, b).Scan(&m.ID, &m.User1ID, &m.User2ID, &m.CompatibilityScore, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *PGStore) CreateMatch(ctx context.Context, user1, user2 int, score float64) (*Match, error) {
	user1, user2 = canonicalPair(user1, user2)
	m := Match{User1ID: user1, User2ID: user2, CompatibilityScore: score}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO matches (user1_id, user2_id, compatibility_score)
		VALUES ($1, $2, $3)
		ON CONFLICT (user1_id, user2_id) DO NOTHING
		RETURNING id, created_at
	`, user1, user2, score).Scan(&m.ID, &m.CreatedAt)
	if err == sql.ErrNoRows {
		// Race: someone else created first
		return nil, ErrMatchExists
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *PGStore) ListMatchesForProfile(ctx context.Context, profileID int) ([]*Match, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user1_id, user2_id, compatibility_score, created_at
		FROM matches
		WHERE user1_id = $1 OR user2_id = $1
		ORDER BY compatibility_score DESC, id
	`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.ID, &m.User1ID, &m.User2ID, &m.CompatibilityScore, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (s *PGStore) MatchedProfileIDs(ctx context.Context, profileID int) (map[int]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT CASE WHEN user1_id = $1 THEN user2_id ELSE user1_id END
		FROM matches
		WHERE user1_id = $1 OR user2_id = $1
	`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int]struct{})
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = struct{}{}
	}
	return out, rows.Err()
}

func (s *PGStore) CreateMessage(ctx context.Context, matchID, senderID int, text string) (*ChatMessage, error) {
	msg := ChatMessage{MatchID: matchID, SenderID: senderID, Message: text}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO chat_messages (match_id, sender_id, message)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, matchID, senderID, text).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *PGStore) ListMessages(ctx context.Context, matchID, limit int) ([]*ChatMessage, error) {
	// A limit keeps the newest messages; the page itself is still returned
	// oldest first.
	q := `
		SELECT id, match_id, sender_id, message, is_read, created_at
		FROM chat_messages
		WHERE match_id = $1
		ORDER BY created_at, id`
	args := []any{matchID}
	if limit > 0 {
		q = `
		SELECT id, match_id, sender_id, message, is_read, created_at
		FROM (
			SELECT id, match_id, sender_id, message, is_read, created_at
			FROM chat_messages
			WHERE match_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		) newest
		ORDER BY created_at, id`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*ChatMessage
	for rows.Next() {
		var m ChatMessage
		if err := rows.Scan(&m.ID, &m.MatchID, &m.SenderID, &m.Message, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (s *PGStore) GetMessage(ctx context.Context, messageID int64) (*ChatMessage, error) {
	var m ChatMessage
	err := s.db.QueryRowContext(ctx, `
		SELECT id, match_id, sender_id, message, is_read, created_at
		FROM chat_messages WHERE id = $1
	`, messageID).Scan(&m.ID, &m.MatchID, &m.SenderID, &m.Message, &m.IsRead, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *PGStore) MarkMessageRead(ctx context.Context, messageID int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE chat_messages SET is_read = TRUE WHERE id = $1`, messageID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) ReplaceSuggestions(ctx context.Context, profileID int, suggestedIDs []int) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM match_suggestions WHERE profile_id = $1`, profileID); err != nil {
			return err
		}
		for rank, id := range suggestedIDs {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO match_suggestions (profile_id, suggested_profile_id, rank)
				VALUES ($1, $2, $3)
			`, profileID, id, rank); err != nil {
				return err
			}
		}
		return nil
	})
}
