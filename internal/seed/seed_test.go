package seed

import (
	"context"
	"testing"

	"kinship/internal/events"
	"kinship/internal/models"
	"kinship/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type countingBus struct{ n int }

func (b *countingBus) Release(_ context.Context, evs []models.DomainEvent) { b.n += len(evs) }

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestSeed_BuildsConsistentGraph(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	bus := &countingBus{}
	uow := events.NewUnitOfWork(db, bus)

	opts := DefaultOptions()
	opts.NumUsers = 8
	opts.RandomSeed = 42
	sum, err := Seed(context.Background(), uow, opts)
	require.NoError(t, err)

	assert.Equal(t, 8, sum.Users)
	assert.Equal(t, 8*opts.PostsPerUser, sum.Posts)
	assert.Equal(t, int64(sum.Users), countRows(t, db, &models.User{}))
	assert.Equal(t, int64(sum.Posts), countRows(t, db, &models.Post{}))
	assert.Equal(t, int64(2*sum.Friends), countRows(t, db, &models.Friendship{}))
	assert.Equal(t, int64(sum.Requests), countRows(t, db, &models.FriendRequest{}))
	assert.Equal(t, int64(sum.Requests), countRows(t, db, &models.FriendRequestMeta{}))
	assert.Positive(t, bus.n)

	// No pair is both friends and pending.
	var overlap int64
	require.NoError(t, db.Raw(`SELECT COUNT(*) FROM friend_requests r
		JOIN friendships f ON f.user_id = r.sender_id AND f.friend_id = r.receiver_id`).Scan(&overlap).Error)
	assert.Zero(t, overlap)

	// Nobody likes their own post.
	var selfLikes int64
	require.NoError(t, db.Raw(`SELECT COUNT(*) FROM post_likes l
		JOIN posts p ON p.id = l.post_id WHERE p.user_id = l.user_id`).Scan(&selfLikes).Error)
	assert.Zero(t, selfLikes)
}

func TestSeed_Clean(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	uow := events.NewUnitOfWork(db, nil)
	testutil.CreateUser(t, db, "leftover")

	opts := Options{NumUsers: 3, PostsPerUser: 1, ShouldClean: true, RandomSeed: 1}
	_, err := Seed(context.Background(), uow, opts)
	require.NoError(t, err)

	var n int64
	require.NoError(t, db.Model(&models.User{}).Where("username = ?", "leftover").Count(&n).Error)
	assert.Zero(t, n)
	assert.Equal(t, int64(3), countRows(t, db, &models.User{}))
}

func TestFactory_Reproducible(t *testing.T) {
	names := func() []string {
		db := testutil.NewSQLiteDB(t)
		f, err := NewFactory(events.NewUnitOfWork(db, nil), 99)
		require.NoError(t, err)
		var out []string
		for i := 0; i < 3; i++ {
			u, err := f.CreateUser(context.Background(), i)
			require.NoError(t, err)
			out = append(out, u.Username)
		}
		return out
	}
	assert.Equal(t, names(), names())
}
