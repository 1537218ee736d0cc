package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/subs/backend/internal/apperr"
	"github.com/emilythestrangee/subs/backend/internal/content"
	"github.com/emilythestrangee/subs/backend/internal/middleware"
	"github.com/emilythestrangee/subs/backend/internal/models"
	"github.com/emilythestrangee/subs/backend/internal/votes"
)

var subName = regexp.MustCompile(`^[A-Za-z0-9_]{2,32}$`)

type SubHandler struct {
	store  *content.Store
	logger *slog.Logger
}

func NewSubHandler(store *content.Store, logger *slog.Logger) *SubHandler {
	return &SubHandler{store: store, logger: logger}
}

func (h *SubHandler) CreateSub(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var input models.CreateSubRequest
	if err := bindJSON(c, &input); err != nil {
		respondError(c, h.logger, err)
		return
	}
	name := strings.TrimSpace(input.Name)
	title := strings.TrimSpace(input.Title)

	errs := map[string]string{}
	switch {
	case name == "":
		errs["name"] = "name must not be empty"
	case !subName.MatchString(name):
		errs["name"] = "name must be 2-32 letters, digits or underscores"
	}
	if title == "" {
		errs["title"] = "title must not be empty"
	}
	if len(errs) > 0 {
		respondError(c, h.logger, apperr.Fields(apperr.KindInvalidInput, errs))
		return
	}

	_, err := h.store.FindSub(c.Request.Context(), name)
	if err == nil {
		respondError(c, h.logger, apperr.Fields(apperr.KindConflict, map[string]string{"name": "sub already exists"}))
		return
	}
	if !errors.Is(err, content.ErrSubNotFound) {
		respondError(c, h.logger, err)
		return
	}

	sub := models.Sub{
		Name:        name,
		Title:       title,
		Description: sanitizeBody(input.Description),
		UserID:      user.ID,
	}
	if err := h.store.CreateSub(c.Request.Context(), &sub); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, sub)
}

// GetSub returns a sub with its newest posts.
func (h *SubHandler) GetSub(c *gin.Context) {
	sub, err := h.store.FindSubWithPosts(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	viewer, _ := middleware.CurrentUser(c)
	votes.AnnotatePosts(viewer, sub.Posts)

	c.JSON(http.StatusOK, sub)
}
