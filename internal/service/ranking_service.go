package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"kinship/internal/cache"
	"kinship/internal/events"
	"kinship/internal/models"
	"kinship/internal/observability"
	"kinship/internal/ranking"

	"github.com/redis/go-redis/v9"
)

type TrendingPost struct {
	PostID       uint               `json:"post_id"`
	Author       models.UserSummary `json:"author"`
	LikeCount    int                `json:"like_count"`
	CommentCount int                `json:"comment_count"`
	CreatedAt    time.Time          `json:"created_at"`
	Score        float64            `json:"score"`
}

type FriendSuggestion struct {
	User    models.UserSummary `json:"user"`
	Mutuals int                `json:"mutual_friends"`
}

type RankingOptions struct {
	TrendingLimit   int
	TrendingTTL     time.Duration
	SuggestionLimit int
	// Rand seeds the fallback shuffle. Nil uses a time-seeded source.
	Rand *rand.Rand
}

// RankingService loads graph snapshots for the ranking algorithms. It never
// writes to the store.
type RankingService struct {
	graph
	rdb  *redis.Client
	opts RankingOptions

	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

func NewRankingService(uow *events.UnitOfWork, rdb *redis.Client, opts RankingOptions) *RankingService {
	if opts.TrendingLimit <= 0 {
		opts.TrendingLimit = ranking.DefaultLimit
	}
	if opts.SuggestionLimit <= 0 {
		opts.SuggestionLimit = ranking.DefaultLimit
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &RankingService{
		graph: newGraph(uow),
		rdb:   rdb,
		opts:  opts,
		rng:   rng,
		now:   time.Now,
	}
}

// TrendingPosts returns the highest scoring posts. The result may be served
// from Redis for up to TrendingTTL.
func (s *RankingService) TrendingPosts(ctx context.Context) ([]TrendingPost, error) {
	var out []TrendingPost
	err := cache.Aside(ctx, s.rdb, cache.TrendingKey, &out, s.opts.TrendingTTL, func() error {
		var err error
		out, err = s.trending(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RankingService) trending(ctx context.Context) ([]TrendingPost, error) {
	st := s.read()
	stats, err := st.Posts.EngagementStats(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	scored := ranking.Trending(stats, s.now(), s.opts.TrendingLimit)
	observability.RankingDuration.WithLabelValues("trending").Observe(time.Since(start).Seconds())

	authorIDs := make([]uint, 0, len(scored))
	for _, p := range scored {
		authorIDs = append(authorIDs, p.Stats.UserID)
	}
	authors, err := st.Users.GetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.UserSummary, len(authors))
	for i := range authors {
		byID[authors[i].ID] = authors[i].Summary()
	}

	out := make([]TrendingPost, 0, len(scored))
	for _, p := range scored {
		out = append(out, TrendingPost{
			PostID:       p.Stats.PostID,
			Author:       byID[p.Stats.UserID],
			LikeCount:    p.Stats.LikeCount,
			CommentCount: p.Stats.CommentCount,
			CreatedAt:    p.Stats.CreatedAt,
			Score:        p.Score,
		})
	}
	return out, nil
}

// FriendSuggestions ranks friends-of-friends for userID by mutual count,
// falling back to a random sample of strangers.
func (s *RankingService) FriendSuggestions(ctx context.Context, userID uint) ([]FriendSuggestion, error) {
	st := s.read()
	if _, err := st.Users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	friends, err := st.Friends.FriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	friendsOf, err := st.Friends.FriendIDsOf(ctx, friends)
	if err != nil {
		return nil, err
	}
	pending, err := st.Friends.PendingCounterpartIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	all, err := st.Users.ListIDs(ctx)
	if err != nil {
		return nil, err
	}

	in := ranking.SuggestionInput{
		UserID:    userID,
		Friends:   friends,
		FriendsOf: friendsOf,
		Pending:   pending,
		AllUsers:  all,
		Limit:     s.opts.SuggestionLimit,
	}

	start := time.Now()
	s.mu.Lock()
	ranked := ranking.Suggest(in, s.rng)
	s.mu.Unlock()
	observability.RankingDuration.WithLabelValues("suggestions").Observe(time.Since(start).Seconds())

	ids := make([]uint, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.UserID)
	}
	users, err := st.Users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.UserSummary, len(users))
	for i := range users {
		byID[users[i].ID] = users[i].Summary()
	}

	out := make([]FriendSuggestion, 0, len(ranked))
	for _, r := range ranked {
		if u, ok := byID[r.UserID]; ok {
			out = append(out, FriendSuggestion{User: u, Mutuals: r.Mutuals})
		}
	}
	return out, nil
}
