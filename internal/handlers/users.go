package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/subs/backend/internal/content"
	"github.com/emilythestrangee/subs/backend/internal/middleware"
	"github.com/emilythestrangee/subs/backend/internal/models"
	"github.com/emilythestrangee/subs/backend/internal/votes"
)

type UserHandler struct {
	store  *content.Store
	logger *slog.Logger
}

func NewUserHandler(store *content.Store, logger *slog.Logger) *UserHandler {
	return &UserHandler{store: store, logger: logger}
}

// GetUserProfile returns a user's public profile with their posts and comments
func (h *UserHandler) GetUserProfile(c *gin.Context) {
	ctx := c.Request.Context()

	user, err := h.store.FindUserByUsername(ctx, c.Param("username"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	posts, err := h.store.UserPosts(ctx, user.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	comments, err := h.store.UserComments(ctx, user.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	viewer, _ := middleware.CurrentUser(c)
	votes.AnnotatePosts(viewer, posts)
	votes.AnnotateComments(viewer, comments)
	for i := range comments {
		if comments[i].Post != nil {
			votes.Annotate(viewer, comments[i].Post)
		}
	}

	if posts == nil {
		posts = []models.Post{}
	}
	if comments == nil {
		comments = []models.Comment{}
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"username":  user.Username,
			"createdAt": user.CreatedAt,
		},
		"posts":    posts,
		"comments": comments,
	})
}
