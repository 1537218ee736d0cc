package content

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/subs/backend/internal/apperr"
	"github.com/emilythestrangee/subs/backend/internal/models"
	"github.com/emilythestrangee/subs/backend/internal/testutil"
)

func TestStore(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewStore(db)
	ctx := context.Background()

	t.Run("users", func(t *testing.T) {
		user := testutil.CreateUser(t, db, "store_user")

		found, err := store.FindUserByUsername(ctx, "store_user")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)

		_, err = store.FindUserByID(ctx, -1)
		assert.ErrorIs(t, err, ErrUserNotFound)
		assert.ErrorIs(t, err, apperr.ErrNotFound)

		emailTaken, usernameTaken, err := store.Taken(ctx, user.Email, "someone_else")
		require.NoError(t, err)
		assert.True(t, emailTaken)
		assert.False(t, usernameTaken)

		dup := &models.User{Username: "store_user", Email: "other@example.com", Password: "x"}
		err = store.CreateUser(ctx, dup)
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})

	t.Run("sub lookup ignores case", func(t *testing.T) {
		seed := testutil.NewSeed(t, db)

		sub, err := store.FindSubWithPosts(ctx, "SUB"+seed.Sub.Name[3:])
		require.NoError(t, err)
		assert.Equal(t, seed.Sub.ID, sub.ID)
		require.Len(t, sub.Posts, 1)
		assert.Equal(t, seed.Post.ID, sub.Posts[0].ID)

		_, err = store.FindSub(ctx, "does_not_exist")
		assert.ErrorIs(t, err, ErrSubNotFound)

		err = store.CreateSub(ctx, &models.Sub{Name: seed.Sub.Name, Title: "again", UserID: seed.User.ID})
		assert.ErrorIs(t, err, apperr.ErrConflict)

		// the index on lower(name) rejects a case variant without a prior lookup
		err = store.CreateSub(ctx, &models.Sub{Name: strings.ToUpper(seed.Sub.Name), Title: "shouting", UserID: seed.User.ID})
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})

	t.Run("post identity", func(t *testing.T) {
		seed := testutil.NewSeed(t, db)

		assert.Len(t, seed.Post.Identifier, 8)
		assert.NotEmpty(t, seed.Post.Slug)

		_, err := store.FindPost(ctx, seed.Post.Identifier, "wrong_slug")
		assert.ErrorIs(t, err, ErrPostNotFound)

		post, err := store.FindPostWithVotes(ctx, seed.Post.Identifier, seed.Post.Slug)
		require.NoError(t, err)
		assert.Equal(t, "/r/"+seed.Sub.Name+"/"+post.Identifier+"/"+post.Slug, post.URL)
	})

	t.Run("update keeps the slug", func(t *testing.T) {
		seed := testutil.NewSeed(t, db)
		post := seed.Post
		post.Title = "A completely different title"
		post.Body = "edited"

		require.NoError(t, store.UpdatePost(ctx, post))
		require.NoError(t, store.ReloadPost(ctx, post))
		assert.Equal(t, "A completely different title", post.Title)
		assert.Equal(t, "edited", post.Body)
		assert.Equal(t, seed.Post.Slug, post.Slug)
	})

	t.Run("thread lists comments newest first", func(t *testing.T) {
		seed := testutil.NewSeed(t, db)
		second := &models.Comment{Body: "second", PostID: seed.Post.ID, UserID: seed.User.ID}
		require.NoError(t, store.CreateComment(ctx, second))

		thread, err := store.FindPostThread(ctx, seed.Post.Identifier, seed.Post.Slug)
		require.NoError(t, err)
		require.Len(t, thread.Comments, 2)
		assert.Equal(t, second.ID, thread.Comments[0].ID)
		assert.Equal(t, seed.Comment.ID, thread.Comments[1].ID)
		require.NotNil(t, thread.Comments[0].User)
	})

	t.Run("thread without comments has an empty list", func(t *testing.T) {
		seed := testutil.NewSeed(t, db)
		require.NoError(t, store.DeleteComment(ctx, seed.Comment))

		thread, err := store.FindPostThread(ctx, seed.Post.Identifier, seed.Post.Slug)
		require.NoError(t, err)
		assert.NotNil(t, thread.Comments)
		assert.Empty(t, thread.Comments)
	})

	t.Run("comment on a missing post", func(t *testing.T) {
		user := testutil.CreateUser(t, db, "store_orphan")
		err := store.CreateComment(ctx, &models.Comment{Body: "x", PostID: -1, UserID: user.ID})
		assert.ErrorIs(t, err, ErrPostNotFound)
	})

	t.Run("deleting a post cascades", func(t *testing.T) {
		seed := testutil.NewSeed(t, db)
		voter := testutil.CreateUser(t, db, "store_cascade")
		require.NoError(t, db.Create(&models.Vote{UserID: voter.ID, PostID: &seed.Post.ID, Value: 1}).Error)
		require.NoError(t, db.Create(&models.Vote{UserID: voter.ID, CommentID: &seed.Comment.ID, Value: -1}).Error)

		require.NoError(t, store.DeletePost(ctx, seed.Post))

		_, err := store.FindComment(ctx, seed.Comment.Identifier)
		assert.ErrorIs(t, err, ErrCommentNotFound)

		var n int64
		require.NoError(t, db.Model(&models.Vote{}).Where("user_id = ?", voter.ID).Count(&n).Error)
		assert.Zero(t, n)
	})
}
