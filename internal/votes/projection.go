package votes

import (
	"github.com/samber/lo"

	"github.com/emilythestrangee/subs/backend/internal/models"
)

// Scoreable is a post or comment whose votes were loaded with it.
type Scoreable interface {
	VoteRecords() []models.Vote
	SetScore(int)
	SetViewerVote(int)
}

// Tally sets each entity's score to the sum of its loaded votes.
func Tally(entities ...Scoreable) {
	for _, e := range entities {
		e.SetScore(lo.Reduce(e.VoteRecords(), func(sum int, v models.Vote, _ int) int {
			return sum + v.Value
		}, 0))
	}
}

// ProjectViewer sets each entity's viewer vote from its loaded votes. It
// never queries or writes, and does nothing for an anonymous viewer.
func ProjectViewer(viewer *models.User, entities ...Scoreable) {
	if viewer == nil {
		return
	}
	for _, e := range entities {
		rec, ok := lo.Find(e.VoteRecords(), func(v models.Vote) bool { return v.UserID == viewer.ID })
		if ok {
			e.SetViewerVote(rec.Value)
		} else {
			e.SetViewerVote(0)
		}
	}
}

// Annotate tallies and projects posts and any comments loaded with them.
func Annotate(viewer *models.User, posts ...*models.Post) {
	for _, p := range posts {
		entities := make([]Scoreable, 0, len(p.Comments)+1)
		entities = append(entities, p)
		for i := range p.Comments {
			entities = append(entities, &p.Comments[i])
		}
		Tally(entities...)
		ProjectViewer(viewer, entities...)
	}
}

// AnnotatePosts is Annotate over a loaded slice.
func AnnotatePosts(viewer *models.User, posts []models.Post) {
	for i := range posts {
		Annotate(viewer, &posts[i])
	}
}

// AnnotateComments tallies and projects a loaded slice of comments.
func AnnotateComments(viewer *models.User, comments []models.Comment) {
	entities := lo.Map(comments, func(_ models.Comment, i int) Scoreable { return &comments[i] })
	Tally(entities...)
	ProjectViewer(viewer, entities...)
}
