package ranking

import (
	"math/rand"
	"sort"
)

// SuggestionInput is the graph snapshot a suggestion run reads.
type SuggestionInput struct {
	UserID uint
	// Friends of the target user.
	Friends []uint
	// FriendsOf maps each of the target's friends to their own friends.
	FriendsOf map[uint][]uint
	// Pending holds everyone with a request to or from the target.
	Pending []uint
	// AllUsers is the fallback pool.
	AllUsers []uint
	// Limit bounds the fallback list.
	Limit int
}

// Suggestion is a candidate friend and the number of mutual friends.
type Suggestion struct {
	UserID  uint
	Mutuals int
}

// Suggest counts friends-of-friends for the target, excluding the target,
// their friends, and anyone with a pending request either way. Candidates are
// ordered by mutual count, then by ascending id. When no candidate exists it
// falls back to a shuffled sample of every other eligible user with a zero
// count.
func Suggest(in SuggestionInput, rng *rand.Rand) []Suggestion {
	excluded := make(map[uint]struct{}, len(in.Friends)+len(in.Pending)+1)
	excluded[in.UserID] = struct{}{}
	for _, id := range in.Friends {
		excluded[id] = struct{}{}
	}
	for _, id := range in.Pending {
		excluded[id] = struct{}{}
	}

	counts := make(map[uint]int)
	for _, friend := range in.Friends {
		for _, fof := range in.FriendsOf[friend] {
			if _, skip := excluded[fof]; skip {
				continue
			}
			counts[fof]++
		}
	}

	if len(counts) > 0 {
		out := make([]Suggestion, 0, len(counts))
		for id, n := range counts {
			out = append(out, Suggestion{UserID: id, Mutuals: n})
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].Mutuals != out[j].Mutuals {
				return out[i].Mutuals > out[j].Mutuals
			}
			return out[i].UserID < out[j].UserID
		})
		return out
	}

	return fallback(in, excluded, rng)
}

func fallback(in SuggestionInput, excluded map[uint]struct{}, rng *rand.Rand) []Suggestion {
	limit := in.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	pool := make([]uint, 0, len(in.AllUsers))
	for _, id := range in.AllUsers {
		if _, skip := excluded[id]; skip {
			continue
		}
		pool = append(pool, id)
	}
	sort.Slice(pool, func(i, j int) bool { return pool[i] < pool[j] })
	if rng != nil {
		rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	}
	if len(pool) > limit {
		pool = pool[:limit]
	}
	out := make([]Suggestion, len(pool))
	for i, id := range pool {
		out[i] = Suggestion{UserID: id}
	}
	return out
}
