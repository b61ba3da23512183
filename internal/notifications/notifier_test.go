package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_NilRedisIsNoop(t *testing.T) {
	n := NewNotifier(nil)
	err := n.PublishUser(context.Background(), 1, "test payload")
	assert.NoError(t, err)
	assert.NoError(t, n.StartPatternSubscriber(context.Background(), func(string, string) {}))
}

func TestUserChannel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		userID   uint
		expected string
	}{
		{1, "notifications:user:1"},
		{100, "notifications:user:100"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, UserChannel(tt.userID))
		id, ok := ParseUserChannel(tt.expected)
		assert.True(t, ok)
		assert.Equal(t, tt.userID, id)
	}

	for _, bad := range []string{"chat:conv:1", "notifications:user:", "notifications:user:abc", "notifications:user:0"} {
		_, ok := ParseUserChannel(bad)
		assert.False(t, ok, bad)
	}
}

func TestNotifier_BreakerOpensOnRepeatedFailures(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer func() { _ = rdb.Close() }()
	n := NewNotifier(rdb)

	require.NoError(t, n.PublishUser(context.Background(), 1, "ok"))
	mr.Close()

	for i := 0; i < 5; i++ {
		err := n.PublishUser(context.Background(), 1, "down")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrCircuitOpen)
	}
	assert.ErrorIs(t, n.PublishUser(context.Background(), 1, "down"), ErrCircuitOpen)
}

func TestNotifier_PatternSubscriberRoutesByRecipient(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	n := NewNotifier(rdb)

	type delivery struct {
		userID  uint
		payload string
	}
	got := make(chan delivery, 2)
	require.NoError(t, n.StartPatternSubscriber(t.Context(), func(channel, payload string) {
		id, ok := ParseUserChannel(channel)
		if ok {
			got <- delivery{id, payload}
		}
	}))

	require.NoError(t, n.PublishUser(t.Context(), 7, `{"kind":"FRIEND_REQUEST"}`))

	select {
	case d := <-got:
		assert.Equal(t, uint(7), d.userID)
		assert.JSONEq(t, `{"kind":"FRIEND_REQUEST"}`, d.payload)
	case <-time.After(2 * time.Second):
		t.Fatal("no message delivered")
	}
}
