// Package ranking holds the stateless scoring algorithms behind the trending
// feed and friend suggestions. Callers load the snapshots; nothing here
// touches storage.
package ranking

import (
	"math"
	"sort"
	"time"

	"kinship/internal/models"
)

// DefaultLimit bounds both ranked lists when the caller passes no limit.
const DefaultLimit = 10

// Scored is a post with its trending score.
type Scored struct {
	Stats models.PostStats
	Score float64
}

// TrendingScore is (likes + comments) / (minutes + 2)^1.5, where minutes is
// the whole number of minutes between createdAt and now, floored at zero.
func TrendingScore(s models.PostStats, now time.Time) float64 {
	minutes := math.Floor(now.Sub(s.CreatedAt).Minutes())
	if minutes < 0 {
		minutes = 0
	}
	engagement := float64(s.LikeCount + s.CommentCount)
	return engagement / math.Pow(minutes+2, 1.5)
}

// Trending scores every post against the same now and returns the top limit
// by descending score. Equal scores keep their input order.
func Trending(posts []models.PostStats, now time.Time, limit int) []Scored {
	if limit <= 0 {
		limit = DefaultLimit
	}
	scored := make([]Scored, len(posts))
	for i, p := range posts {
		scored[i] = Scored{Stats: p, Score: TrendingScore(p, now)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
