// Package testutil starts a throwaway postgres for storage tests and seeds
// the rows those tests vote on.
package testutil

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/emilythestrangee/subs/backend/internal/database"
	"github.com/emilythestrangee/subs/backend/internal/models"
)

const postgresImage = "postgres:16-alpine"

// Logger discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// NewDB starts postgres in a container, migrates it and returns a gorm
// handle. The test is skipped under -short or when no container runtime is
// reachable.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres-backed test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase("subs_test"),
		postgres.WithUsername("subs"),
		postgres.WithPassword("subs"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Open(dsn, Logger(), time.Second)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Seed is a user, a sub owned by them, one post in it and one comment on it.
type Seed struct {
	User    *models.User
	Sub     *models.Sub
	Post    *models.Post
	Comment *models.Comment
}

var seq atomic.Int64

// NewSeed inserts a fresh Seed with unique names so tests sharing a
// database stay independent.
func NewSeed(t *testing.T, db *gorm.DB) Seed {
	t.Helper()

	n := seq.Add(1)
	user := CreateUser(t, db, fmt.Sprintf("author%d", n))

	sub := &models.Sub{Name: fmt.Sprintf("sub%d", n), Title: "Test sub", UserID: user.ID}
	require.NoError(t, db.Create(sub).Error)

	post := &models.Post{Title: fmt.Sprintf("Post number %d", n), Body: "body", SubID: sub.ID, UserID: user.ID}
	require.NoError(t, db.Create(post).Error)

	comment := &models.Comment{Body: "first", PostID: post.ID, UserID: user.ID}
	require.NoError(t, db.Create(comment).Error)

	return Seed{User: user, Sub: sub, Post: post, Comment: comment}
}

// CreateUser inserts a user whose password is "password".
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
