package repository

import (
	"context"
	"testing"

	"kinship/internal/models"
	"kinship/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_Integration(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author")
	reader := testutil.CreateUser(t, db, "reader")
	post := testutil.CreatePost(t, db, author.ID, "post")

	first := &models.Comment{PostID: post.ID, UserID: reader.ID, Content: "first"}
	require.NoError(t, repo.Create(ctx, first))
	second := &models.Comment{PostID: post.ID, UserID: author.ID, Content: "second"}
	require.NoError(t, repo.Create(ctx, second))

	t.Run("Likes", func(t *testing.T) {
		require.NoError(t, repo.AddLike(ctx, first.ID, author.ID))
		requireCode(t, repo.AddLike(ctx, first.ID, author.ID), models.CodeInvalidState)

		got, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.LikesCount)

		likers, err := repo.Likers(ctx, first.ID)
		require.NoError(t, err)
		require.Len(t, likers, 1)
		assert.Equal(t, author.ID, likers[0].ID)
	})

	t.Run("ListByPost newest first", func(t *testing.T) {
		comments, err := repo.ListByPost(ctx, post.ID)
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, second.ID, comments[0].ID)
		require.NotNil(t, comments[1].User)
		assert.Equal(t, "reader", comments[1].User.Username)
	})

	t.Run("ListByUser", func(t *testing.T) {
		comments, err := repo.ListByUser(ctx, reader.ID)
		require.NoError(t, err)
		require.Len(t, comments, 1)
		assert.Equal(t, first.ID, comments[0].ID)
		assert.Equal(t, 1, comments[0].LikesCount)

		none, err := repo.ListByUser(ctx, 9999)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("Update content", func(t *testing.T) {
		first.Content = "edited"
		require.NoError(t, repo.Update(ctx, first))
		got, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "edited", got.Content)
	})

	t.Run("Delete removes likes", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, first.ID))
		var n int64
		db.Model(&models.CommentLike{}).Where("comment_id = ?", first.ID).Count(&n)
		assert.Zero(t, n)

		_, err := repo.GetByID(ctx, first.ID)
		requireCode(t, err, models.CodeNotFound)
	})
}
