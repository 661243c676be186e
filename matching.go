package main

import (
	"context"
	"sort"
)

const defaultSuggestionLimit = 10

// Suggestion pairs a candidate profile with its computed compatibility score.
type Suggestion struct {
	Profile *Profile
	Score   float64
}

// getTopSuggestions ranks all other profiles by compatibility with p.
// Candidates already matched with p are excluded; candidates with a score
// of zero or less are dropped. The result is sorted by score descending,
// ties broken by the stores' stable enumeration order, and truncated to
// limit. Read-only: the suggestion cache is a separate write path.
func getTopSuggestions(ctx context.Context, store Store, p *Profile, limit int) ([]Suggestion, error) {
	if limit <= 0 {
		limit = defaultSuggestionLimit
	}

	candidates, err := store.ListProfilesExcept(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	matched, err := store.MatchedProfileIDs(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	suggestions := make([]Suggestion, 0, len(candidates))
	for _, candidate := range candidates {
		if _, ok := matched[candidate.ID]; ok {
			continue
		}
		score := compatibilityScore(p, candidate)
		if score <= 0 {
			continue
		}
		suggestions = append(suggestions, Suggestion{Profile: candidate, Score: score})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}

// likeProfile records a directed like edge. Liking twice is a no-op that
// returns created=false; liking yourself is ErrSelfLike.
func likeProfile(ctx context.Context, store Store, likerID, likedID int) (bool, error) {
	if likerID == likedID {
		return false, ErrSelfLike
	}
	return store.CreateLike(ctx, likerID, likedID)
}

// findOrCreateMatch promotes a reciprocal-like pair into a Match exactly
// once. Returns (nil, false, nil) when the likes are not mutual and
// (match, false, nil) when the match already existed. The compatibility
// score is computed from the canonical ordering and frozen at creation;
// a concurrent double-create is resolved by rereading the winning row.
func findOrCreateMatch(ctx context.Context, store Store, a, b *Profile) (*Match, bool, error) {
	aLikesB, err := store.HasLike(ctx, a.ID, b.ID)
	if err != nil {
		return nil, false, err
	}
	bLikesA, err := store.HasLike(ctx, b.ID, a.ID)
	if err != nil {
		return nil, false, err
	}
	if !aLikesB || !bLikesA {
		return nil, false, nil
	}

	if match, err := store.GetMatchByPair(ctx, a.ID, b.ID); err != nil {
		return nil, false, err
	} else if match != nil {
		return match, false, nil
	}

	user1, user2 := a, b
	if user2.ID < user1.ID {
		user1, user2 = user2, user1
	}
	score := compatibilityScore(user1, user2)

	match, err := store.CreateMatch(ctx, user1.ID, user2.ID, score)
	if err == ErrMatchExists {
		// Lost the creation race: the unique pair constraint rejected us,
		// so the winning row is the match.
		match, err = store.GetMatchByPair(ctx, a.ID, b.ID)
		if err != nil {
			return nil, false, err
		}
		return match, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return match, true, nil
}
