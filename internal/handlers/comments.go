package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/subs/backend/internal/apperr"
	"github.com/emilythestrangee/subs/backend/internal/content"
	"github.com/emilythestrangee/subs/backend/internal/middleware"
	"github.com/emilythestrangee/subs/backend/internal/models"
	"github.com/emilythestrangee/subs/backend/internal/votes"
)

var errEmptyComment = apperr.Fields(apperr.KindInvalidInput, map[string]string{
	"body": "body must not be empty",
})

type CommentHandler struct {
	store  *content.Store
	logger *slog.Logger
}

func NewCommentHandler(store *content.Store, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{store: store, logger: logger}
}

// GetComments returns all comments for a post, newest first
func (h *CommentHandler) GetComments(c *gin.Context) {
	post, err := h.store.FindPost(c.Request.Context(), c.Param("identifier"), c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	comments, err := h.store.ListComments(c.Request.Context(), post.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	viewer, _ := middleware.CurrentUser(c)
	votes.AnnotateComments(viewer, comments)

	if comments == nil {
		comments = []models.Comment{}
	}
	c.JSON(http.StatusOK, comments)
}

// CreateComment creates a new comment on a post
func (h *CommentHandler) CreateComment(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var input models.CommentRequest
	if err := bindJSON(c, &input); err != nil {
		respondError(c, h.logger, err)
		return
	}
	body := sanitizeBody(input.Body)
	if body == "" {
		respondError(c, h.logger, errEmptyComment)
		return
	}

	post, err := h.store.FindPost(c.Request.Context(), c.Param("identifier"), c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	comment := models.Comment{
		Body:   body,
		PostID: post.ID,
		UserID: user.ID,
	}
	if err := h.store.CreateComment(c.Request.Context(), &comment); err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.store.ReloadComment(c.Request.Context(), &comment); err != nil {
		respondError(c, h.logger, err)
		return
	}
	votes.Tally(&comment)
	votes.ProjectViewer(user, &comment)

	c.JSON(http.StatusCreated, comment)
}

// UpdateComment updates a comment (owner only)
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var input models.CommentRequest
	if err := bindJSON(c, &input); err != nil {
		respondError(c, h.logger, err)
		return
	}
	body := sanitizeBody(input.Body)
	if body == "" {
		respondError(c, h.logger, errEmptyComment)
		return
	}

	comment, err := h.store.FindComment(c.Request.Context(), c.Param("identifier"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if comment.UserID != user.ID {
		respondError(c, h.logger, errNotCommentOwner)
		return
	}

	comment.Body = body
	if err := h.store.UpdateComment(c.Request.Context(), comment); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.store.ReloadComment(c.Request.Context(), comment); err != nil {
		respondError(c, h.logger, err)
		return
	}

	votes.Tally(comment)
	votes.ProjectViewer(user, comment)

	c.JSON(http.StatusOK, comment)
}

// DeleteComment deletes a comment and its votes (owner only)
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	comment, err := h.store.FindComment(c.Request.Context(), c.Param("identifier"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if comment.UserID != user.ID {
		respondError(c, h.logger, errNotCommentOwner)
		return
	}

	if err := h.store.DeleteComment(c.Request.Context(), comment); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
