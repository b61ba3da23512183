package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"kinship/internal/models"
	"kinship/internal/repository"
	"kinship/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_Create_Validation(t *testing.T) {
	t.Parallel()
	_, uow, _ := newTestUnit(t)
	svc := NewPostService(uow)

	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"too long", strings.Repeat("x", maxPostContent+1)},
	}
	for _, tt := range tests {
		_, err := svc.Create(context.Background(), CreatePostInput{UserID: 1, Content: tt.content})
		assertValidationError(t, err)
	}
}

func TestPostService_SearchEmptyQuery(t *testing.T) {
	t.Parallel()
	_, uow, _ := newTestUnit(t)
	_, err := NewPostService(uow).Search(context.Background(), "  ", 10, 0)
	assertValidationError(t, err)
}

func TestPostService_Delete_Ownership(t *testing.T) {
	t.Parallel()

	t.Run("owner can delete", func(t *testing.T) {
		t.Parallel()
		_, uow, _ := newTestUnit(t)
		posts := noopPostRepo()
		posts.lockForUpdateFn = func(context.Context, uint) (*models.Post, error) {
			return &models.Post{ID: 1, UserID: 1}, nil
		}
		svc := NewPostService(uow)
		svc.stores = stubStores(repository.Stores{Users: noopUserRepo(), Posts: posts})
		assert.NoError(t, svc.Delete(context.Background(), 1, 1))
	})

	t.Run("non-owner returns unauthorized", func(t *testing.T) {
		t.Parallel()
		_, uow, _ := newTestUnit(t)
		posts := noopPostRepo()
		posts.lockForUpdateFn = func(context.Context, uint) (*models.Post, error) {
			return &models.Post{ID: 1, UserID: 10}, nil
		}
		posts.deleteFn = func(context.Context, uint) error {
			t.Error("delete must not be called")
			return nil
		}
		svc := NewPostService(uow)
		svc.stores = stubStores(repository.Stores{Users: noopUserRepo(), Posts: posts})
		assertUnauthorizedError(t, svc.Delete(context.Background(), 1, 1))
	})
}

func TestPostService_LikePost_SelfLike(t *testing.T) {
	t.Parallel()
	_, uow, bus := newTestUnit(t)
	posts := noopPostRepo()
	posts.lockForUpdateFn = func(context.Context, uint) (*models.Post, error) {
		return &models.Post{ID: 5, UserID: 7}, nil
	}
	added := false
	posts.addLikeFn = func(context.Context, uint, uint) error {
		added = true
		return nil
	}

	svc := NewPostService(uow)
	svc.stores = stubStores(repository.Stores{Users: noopUserRepo(), Posts: posts})
	assertCode(t, svc.LikePost(context.Background(), 7, 5), models.CodeInvalidState)
	assert.False(t, added)
	assert.Empty(t, bus.Events())
}

func TestPostService_LikeLifecycle(t *testing.T) {
	t.Parallel()
	db, uow, bus := newTestUnit(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	fan := testutil.CreateUser(t, db, "fan")
	svc := NewPostService(uow)

	post, err := svc.Create(ctx, CreatePostInput{UserID: owner.ID, Content: " hello "})
	require.NoError(t, err)
	assert.Equal(t, "hello", post.Content)
	require.NotNil(t, post.User)
	assert.Equal(t, owner.ID, post.User.ID)

	require.NoError(t, svc.LikePost(ctx, fan.ID, post.ID))
	assertInvalidState(t, svc.LikePost(ctx, fan.ID, post.ID), "already liked")

	got, err := svc.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikesCount)

	likers, err := svc.Likers(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, likers, 1)
	assert.Equal(t, fan.ID, likers[0].ID)

	require.NoError(t, svc.UnlikePost(ctx, fan.ID, post.ID))
	assertInvalidState(t, svc.UnlikePost(ctx, fan.ID, post.ID), "The user has not liked this post")

	got, err = svc.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.LikesCount)

	evs := bus.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, models.EventPostLike, evs[0].Kind)
	assert.Equal(t, fan.ID, evs[0].ActorID)
	assert.Equal(t, owner.ID, evs[0].RecipientID)
	assert.Equal(t, fmt.Sprintf("/posts/%d", post.ID), evs[0].Link)
}

func TestPostService_LikeUnknownPost(t *testing.T) {
	t.Parallel()
	db, uow, _ := newTestUnit(t)
	fan := testutil.CreateUser(t, db, "fan")
	assertCode(t, NewPostService(uow).LikePost(context.Background(), fan.ID, 999), models.CodeNotFound)
}

func TestPostService_DeleteCascades(t *testing.T) {
	t.Parallel()
	db, uow, _ := newTestUnit(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	fan := testutil.CreateUser(t, db, "fan")
	post := testutil.CreatePost(t, db, owner.ID, "p")
	comment := testutil.CreateComment(t, db, fan.ID, post.ID, "c")

	svc := NewPostService(uow)
	require.NoError(t, svc.LikePost(ctx, fan.ID, post.ID))
	require.NoError(t, NewCommentService(uow).LikeComment(ctx, owner.ID, comment.ID))

	require.NoError(t, svc.Delete(ctx, owner.ID, post.ID))
	assert.Equal(t, int64(0), count(t, db, &models.PostLike{}, "post_id = ?", post.ID))
	assert.Equal(t, int64(0), count(t, db, &models.Comment{}, "post_id = ?", post.ID))
	assert.Equal(t, int64(0), count(t, db, &models.CommentLike{}, "comment_id = ?", comment.ID))

	_, err := svc.Get(ctx, post.ID)
	assertCode(t, err, models.CodeNotFound)
}

func TestPostService_ListAndSearch(t *testing.T) {
	t.Parallel()
	db, uow, _ := newTestUnit(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	svc := NewPostService(uow)

	for _, c := range []string{"Gopher meetup", "lunch", "gophers everywhere"} {
		_, err := svc.Create(ctx, CreatePostInput{UserID: owner.ID, Content: c})
		require.NoError(t, err)
	}

	posts, err := svc.ListByUser(ctx, ListPostsInput{UserID: owner.ID, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, posts, 3)

	found, err := svc.Search(ctx, "GOPHER", 10, 0)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	_, err = svc.ListByUser(ctx, ListPostsInput{UserID: 404})
	assertCode(t, err, models.CodeNotFound)
}

func TestPostService_Update(t *testing.T) {
	t.Parallel()
	db, uow, bus := newTestUnit(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	other := testutil.CreateUser(t, db, "other")
	post := testutil.CreatePost(t, db, owner.ID, "before")
	svc := NewPostService(uow)

	updated, err := svc.Update(ctx, UpdatePostInput{UserID: owner.ID, PostID: post.ID, Content: "  after  "})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Content)
	assert.Equal(t, owner.ID, updated.User.ID)

	_, err = svc.Update(ctx, UpdatePostInput{UserID: other.ID, PostID: post.ID, Content: "mine now"})
	assertUnauthorizedError(t, err)

	_, err = svc.Update(ctx, UpdatePostInput{UserID: owner.ID, PostID: 999, Content: "ghost"})
	assertCode(t, err, models.CodeNotFound)

	_, err = svc.Update(ctx, UpdatePostInput{UserID: owner.ID, PostID: post.ID, Content: " "})
	assertValidationError(t, err)

	got, err := svc.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Content)
	assert.Empty(t, bus.Events())
}

func TestPostService_List(t *testing.T) {
	t.Parallel()
	db, uow, _ := newTestUnit(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, db, "a")
	b := testutil.CreateUser(t, db, "b")
	first := testutil.CreatePost(t, db, a.ID, "first")
	second := testutil.CreatePost(t, db, b.ID, "second")
	svc := NewPostService(uow)
	require.NoError(t, svc.LikePost(ctx, b.ID, first.ID))

	posts, err := svc.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)
	assert.Equal(t, 1, posts[1].LikesCount)

	page, err := svc.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, first.ID, page[0].ID)
}

func TestPostService_UnlikeUnknownUser(t *testing.T) {
	t.Parallel()
	db, uow, _ := newTestUnit(t)
	owner := testutil.CreateUser(t, db, "owner")
	post := testutil.CreatePost(t, db, owner.ID, "p")

	err := NewPostService(uow).UnlikePost(context.Background(), 999, post.ID)
	assertCode(t, err, models.CodeNotFound)
}
