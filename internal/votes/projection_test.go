package votes

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/emilythestrangee/subs/backend/internal/models"
)

func votesBy(values map[int]int) []models.Vote {
	var out []models.Vote
	for user, v := range values {
		out = append(out, models.Vote{UserID: user, Value: v})
	}
	return out
}

func TestTally(t *testing.T) {
	post := &models.Post{Votes: votesBy(map[int]int{1: 1, 2: 1, 3: -1})}
	empty := &models.Comment{}

	Tally(post, empty)

	assert.Equal(t, 1, post.Score)
	assert.Equal(t, 0, empty.Score)
}

func TestProjectViewer(t *testing.T) {
	viewer := &models.User{ID: 2}
	post := &models.Post{Votes: votesBy(map[int]int{1: 1, 2: -1})}
	comment := &models.Comment{Votes: votesBy(map[int]int{1: 1})}

	ProjectViewer(viewer, post, comment)

	assert.Equal(t, -1, post.ViewerVote)
	assert.Equal(t, 0, comment.ViewerVote)
	assert.Len(t, post.Votes, 2, "projection never touches the vote collection")
}

func TestProjectViewerAnonymous(t *testing.T) {
	post := &models.Post{Votes: votesBy(map[int]int{1: 1, 2: -1})}

	ProjectViewer(nil, post)

	assert.Equal(t, 0, post.ViewerVote)
}

func TestAnnotateIncludesComments(t *testing.T) {
	viewer := &models.User{ID: 1}
	post := &models.Post{
		Votes: votesBy(map[int]int{1: 1, 2: 1}),
		Comments: []models.Comment{
			{Votes: votesBy(map[int]int{1: -1})},
			{Votes: votesBy(map[int]int{2: 1, 3: 1})},
		},
	}

	Annotate(viewer, post)

	assert.Equal(t, 2, post.Score)
	assert.Equal(t, 1, post.ViewerVote)
	assert.Equal(t, -1, post.Comments[0].Score)
	assert.Equal(t, -1, post.Comments[0].ViewerVote)
	assert.Equal(t, 2, post.Comments[1].Score)
	assert.Equal(t, 0, post.Comments[1].ViewerVote)
}

func TestAnnotateSlices(t *testing.T) {
	viewer := &models.User{ID: 9}
	posts := []models.Post{
		{Votes: votesBy(map[int]int{9: 1})},
		{Votes: votesBy(map[int]int{8: -1})},
	}
	comments := []models.Comment{
		{Votes: votesBy(map[int]int{9: -1, 8: -1})},
	}

	AnnotatePosts(viewer, posts)
	AnnotateComments(viewer, comments)

	assert.Equal(t, 1, posts[0].Score)
	assert.Equal(t, 1, posts[0].ViewerVote)
	assert.Equal(t, -1, posts[1].Score)
	assert.Equal(t, 0, posts[1].ViewerVote)
	assert.Equal(t, -2, comments[0].Score)
	assert.Equal(t, -1, comments[0].ViewerVote)
}
