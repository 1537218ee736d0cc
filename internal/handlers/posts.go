package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/subs/backend/internal/apperr"
	"github.com/emilythestrangee/subs/backend/internal/content"
	"github.com/emilythestrangee/subs/backend/internal/middleware"
	"github.com/emilythestrangee/subs/backend/internal/models"
	"github.com/emilythestrangee/subs/backend/internal/votes"
)

var (
	errNotPostOwner    = apperr.Forbidden("you can only change your own posts")
	errNotCommentOwner = apperr.Forbidden("you can only change your own comments")
)

type PostHandler struct {
	store  *content.Store
	logger *slog.Logger
}

func NewPostHandler(store *content.Store, logger *slog.Logger) *PostHandler {
	return &PostHandler{store: store, logger: logger}
}

// GetPosts returns the newest posts across every sub.
func (h *PostHandler) GetPosts(c *gin.Context) {
	posts, err := h.store.ListPosts(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	viewer, _ := middleware.CurrentUser(c)
	votes.AnnotatePosts(viewer, posts)

	// If no posts, return empty array not null
	if posts == nil {
		posts = []models.Post{}
	}
	c.JSON(http.StatusOK, posts)
}

// GetPost returns a single post with its sub and votes.
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.store.FindPostWithVotes(c.Request.Context(), c.Param("identifier"), c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	viewer, _ := middleware.CurrentUser(c)
	votes.Annotate(viewer, post)

	c.JSON(http.StatusOK, post)
}

// CreatePost submits a post into an existing sub.
func (h *PostHandler) CreatePost(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var input models.CreatePostRequest
	if err := bindJSON(c, &input); err != nil {
		respondError(c, h.logger, err)
		return
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		respondError(c, h.logger, apperr.Fields(apperr.KindInvalidInput, map[string]string{
			"title": "title must not be empty",
		}))
		return
	}

	sub, err := h.store.FindSub(c.Request.Context(), input.Sub)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	post := models.Post{
		Title:  title,
		Body:   sanitizeBody(input.Body),
		SubID:  sub.ID,
		UserID: user.ID,
	}
	if err := h.store.CreatePost(c.Request.Context(), &post); err != nil {
		respondError(c, h.logger, err)
		return
	}

	// Reload with sub and author
	if err := h.store.ReloadPost(c.Request.Context(), &post); err != nil {
		respondError(c, h.logger, err)
		return
	}
	votes.Annotate(user, &post)

	c.JSON(http.StatusCreated, post)
}

// UpdatePost edits the title or body of a post (owner only)
func (h *PostHandler) UpdatePost(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var input models.UpdatePostRequest
	if err := bindJSON(c, &input); err != nil {
		respondError(c, h.logger, err)
		return
	}

	post, err := h.store.FindPost(c.Request.Context(), c.Param("identifier"), c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if post.UserID != user.ID {
		respondError(c, h.logger, errNotPostOwner)
		return
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			respondError(c, h.logger, apperr.Fields(apperr.KindInvalidInput, map[string]string{
				"title": "title must not be empty",
			}))
			return
		}
		post.Title = title
	}
	if input.Body != nil {
		post.Body = sanitizeBody(*input.Body)
	}

	if err := h.store.UpdatePost(c.Request.Context(), post); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.store.ReloadPost(c.Request.Context(), post); err != nil {
		respondError(c, h.logger, err)
		return
	}
	votes.Annotate(user, post)

	c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post with its comments and votes (owner only)
func (h *PostHandler) DeletePost(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	post, err := h.store.FindPost(c.Request.Context(), c.Param("identifier"), c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if post.UserID != user.ID {
		respondError(c, h.logger, errNotPostOwner)
		return
	}

	if err := h.store.DeletePost(c.Request.Context(), post); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}
