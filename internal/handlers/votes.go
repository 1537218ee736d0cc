package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/subs/backend/internal/apperr"
	"github.com/emilythestrangee/subs/backend/internal/middleware"
	"github.com/emilythestrangee/subs/backend/internal/votes"
)

var errMissingValue = apperr.Fields(apperr.KindInvalidInput, map[string]string{
	"value": "value is required",
})

type VoteHandler struct {
	votes  *votes.Service
	logger *slog.Logger
}

func NewVoteHandler(service *votes.Service, logger *slog.Logger) *VoteHandler {
	return &VoteHandler{votes: service, logger: logger}
}

type voteInput struct {
	Identifier        string `json:"identifier" binding:"required"`
	Slug              string `json:"slug" binding:"required"`
	CommentIdentifier string `json:"commentIdentifier"`
	Value             *int   `json:"value"`
}

// request turns the body into the post or comment variant it addresses.
func (in voteInput) request() votes.Request {
	if comment := strings.TrimSpace(in.CommentIdentifier); comment != "" {
		return votes.CommentVote{
			Identifier:        in.Identifier,
			Slug:              in.Slug,
			CommentIdentifier: comment,
		}
	}
	return votes.PostVote{Identifier: in.Identifier, Slug: in.Slug}
}

// Vote applies the viewer's vote on a post or one of its comments and
// returns the whole post, comments included, as the viewer now sees it.
func (h *VoteHandler) Vote(c *gin.Context) {
	viewer, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated"})
		return
	}

	var input voteInput
	if err := bindJSON(c, &input); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if input.Value == nil {
		respondError(c, h.logger, errMissingValue)
		return
	}

	post, err := h.votes.Vote(c.Request.Context(), viewer, input.request(), *input.Value)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, post)
}
