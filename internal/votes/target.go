// Package votes holds the vote ledger and the viewer projection: how a user's
// vote moves their single vote record, how a score is derived from records,
// and how the viewer's own vote is attached to loaded posts and comments.
package votes

import "github.com/emilythestrangee/subs/backend/internal/models"

type Kind string

const (
	KindPost    Kind = "post"
	KindComment Kind = "comment"
)

// Target is the post or comment a vote applies to. Only PostTarget and
// CommentTarget implement it.
type Target interface {
	Kind() Kind
	ID() int

	column() string
	assign(*models.Vote)
}

type PostTarget struct {
	PostID int
}

func (t PostTarget) Kind() Kind     { return KindPost }
func (t PostTarget) ID() int        { return t.PostID }
func (t PostTarget) column() string { return "post_id" }

func (t PostTarget) assign(v *models.Vote) {
	id := t.PostID
	v.PostID = &id
	v.CommentID = nil
}

type CommentTarget struct {
	CommentID int
}

func (t CommentTarget) Kind() Kind     { return KindComment }
func (t CommentTarget) ID() int        { return t.CommentID }
func (t CommentTarget) column() string { return "comment_id" }

func (t CommentTarget) assign(v *models.Vote) {
	id := t.CommentID
	v.CommentID = &id
	v.PostID = nil
}

func newRecord(voterID int, target Target, value Value) *models.Vote {
	rec := &models.Vote{UserID: voterID, Value: int(value)}
	target.assign(rec)
	return rec
}
