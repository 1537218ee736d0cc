package handlers

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/emilythestrangee/subs/backend/internal/auth"
	"github.com/emilythestrangee/subs/backend/internal/content"
	"github.com/emilythestrangee/subs/backend/internal/votes"
)

// Handler combines all handler types
type Handler struct {
	Auth    *AuthHandler
	Sub     *SubHandler
	Post    *PostHandler
	Comment *CommentHandler
	User    *UserHandler
	Vote    *VoteHandler

	Store *content.Store
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB, tokens *auth.Tokens, cookieSecure bool, logger *slog.Logger) *Handler {
	logger = logger.With("component", "handlers")

	store := content.NewStore(db)
	voteService := votes.NewService(store, votes.NewLedger(db, logger), logger)

	return &Handler{
		Auth:    NewAuthHandler(store, tokens, cookieSecure, logger),
		Sub:     NewSubHandler(store, logger),
		Post:    NewPostHandler(store, logger),
		Comment: NewCommentHandler(store, logger),
		User:    NewUserHandler(store, logger),
		Vote:    NewVoteHandler(voteService, logger),
		Store:   store,
	}
}
