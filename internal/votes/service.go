package votes

import (
	"context"
	"log/slog"

	"github.com/emilythestrangee/subs/backend/internal/apperr"
	"github.com/emilythestrangee/subs/backend/internal/models"
)

// Request addresses a vote. It is either a PostVote or a CommentVote.
type Request interface {
	post() (identifier, slug string)
}

// PostVote votes on the post itself.
type PostVote struct {
	Identifier string
	Slug       string
}

func (r PostVote) post() (string, string) { return r.Identifier, r.Slug }

// CommentVote votes on one comment of the addressed post.
type CommentVote struct {
	Identifier        string
	Slug              string
	CommentIdentifier string
}

func (r CommentVote) post() (string, string) { return r.Identifier, r.Slug }

// ContentStore is the read side of the content store the service needs.
type ContentStore interface {
	FindPost(ctx context.Context, identifier, slug string) (*models.Post, error)
	FindComment(ctx context.Context, identifier string) (*models.Comment, error)
	FindPostThread(ctx context.Context, identifier, slug string) (*models.Post, error)
}

type Service struct {
	content ContentStore
	ledger  *Ledger
	logger  *slog.Logger
}

func NewService(content ContentStore, ledger *Ledger, logger *slog.Logger) *Service {
	return &Service{content: content, ledger: ledger, logger: logger.With("component", "votes.Service")}
}

// Vote applies value for viewer and returns the addressed post re-read with
// its comments, sub and votes, scored and projected for viewer.
func (s *Service) Vote(ctx context.Context, viewer *models.User, req Request, value int) (*models.Post, error) {
	if viewer == nil {
		return nil, apperr.Unauthorized("unauthenticated")
	}
	if _, err := ParseValue(value); err != nil {
		return nil, err
	}

	target, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	if _, err := s.ledger.Apply(ctx, viewer.ID, target, value); err != nil {
		return nil, err
	}

	identifier, slug := req.post()
	post, err := s.content.FindPostThread(ctx, identifier, slug)
	if err != nil {
		return nil, err
	}
	Annotate(viewer, post)
	return post, nil
}

func (s *Service) resolve(ctx context.Context, req Request) (Target, error) {
	identifier, slug := req.post()
	post, err := s.content.FindPost(ctx, identifier, slug)
	if err != nil {
		return nil, err
	}

	switch r := req.(type) {
	case PostVote:
		return PostTarget{PostID: post.ID}, nil
	case CommentVote:
		comment, err := s.content.FindComment(ctx, r.CommentIdentifier)
		if err != nil {
			return nil, err
		}
		if comment.PostID != post.ID {
			return nil, ErrTargetNotFound
		}
		return CommentTarget{CommentID: comment.ID}, nil
	default:
		return nil, ErrTargetNotFound
	}
}
