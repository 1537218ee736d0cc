package votes

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/emilythestrangee/subs/backend/internal/models"
	"github.com/emilythestrangee/subs/backend/internal/testutil"
)

func countRecords(t *testing.T, db *gorm.DB, voterID int, target Target) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Vote{}).
		Where(map[string]any{"user_id": voterID, target.column(): target.ID()}).
		Count(&n).Error)
	return n
}

func TestLedger(t *testing.T) {
	db := testutil.NewDB(t)
	ledger := NewLedger(db, testutil.Logger())
	ctx := context.Background()

	t.Run("repeat vote is idempotent", func(t *testing.T) {
		seed := testutil.NewSeed(t, db)
		voter := testutil.CreateUser(t, db, "idem")
		target := PostTarget{PostID: seed.Post.ID}

		first, err := ledger.Apply(ctx, voter.ID, target, 1)
		require.NoError(t, err)
		assert.Equal(t, ActionCreate, first.Action)

		second, err := ledger.Apply(ctx, voter.ID, target, 1)
		require.NoError(t, err)
		assert.Equal(t, ActionNone, second.Action)
		assert.Equal(t, first.Record.ID, second.Record.ID)

		assert.EqualValues(t, 1, countRecords(t, db, voter.ID, target))
		rec, err := ledger.Record(ctx, voter.ID, target)
		require.NoError(t, err)
		assert.Equal(t, 1, rec.Value)
	})

	t.Run("up, down, clear leaves no record", func(t *testing.T) {
		seed := testutil.NewSeed(t, db)
		voter := testutil.CreateUser(t, db, "flipper")
		target := CommentTarget{CommentID: seed.Comment.ID}

		_, err := ledger.Apply(ctx, voter.ID, target, 1)
		require.NoError(t, err)

		out, err := ledger.Apply(ctx, voter.ID, target, -1)
		require.NoError(t, err)
		assert.Equal(t, ActionUpdate, out.Action)
		assert.Equal(t, -1, out.Record.Value)

		out, err = ledger.Apply(ctx, voter.ID, target, 0)
		require.NoError(t, err)
		assert.Equal(t, ActionDelete, out.Action)
		assert.Nil(t, out.Record)

		assert.Zero(t, countRecords(t, db, voter.ID, target))
	})

	t.Run("clearing without a vote fails", func(t *testing.T) {
		seed := testutil.NewSeed(t, db)
		voter := testutil.CreateUser(t, db, "nobody")

		_, err := ledger.Apply(ctx, voter.ID, PostTarget{PostID: seed.Post.ID}, 0)
		assert.ErrorIs(t, err, ErrNoVoteToClear)
	})

	t.Run("invalid value is rejected before any write", func(t *testing.T) {
		seed := testutil.NewSeed(t, db)
		target := PostTarget{PostID: seed.Post.ID}

		_, err := ledger.Apply(ctx, seed.User.ID, target, 2)
		assert.ErrorIs(t, err, ErrInvalidVoteValue)
		assert.Zero(t, countRecords(t, db, seed.User.ID, target))
	})

	t.Run("missing target", func(t *testing.T) {
		seed := testutil.NewSeed(t, db)

		_, err := ledger.Apply(ctx, seed.User.ID, PostTarget{PostID: 1 << 30}, 1)
		assert.ErrorIs(t, err, ErrTargetNotFound)

		_, err = ledger.Apply(ctx, seed.User.ID, nil, 1)
		assert.ErrorIs(t, err, ErrTargetNotFound)
	})

	t.Run("scenario", func(t *testing.T) {
		seed := testutil.NewSeed(t, db)
		a := testutil.CreateUser(t, db, "scenario_a")
		b := testutil.CreateUser(t, db, "scenario_b")
		target := PostTarget{PostID: seed.Post.ID}

		score := func() int {
			s, err := ledger.AggregateScore(ctx, target)
			require.NoError(t, err)
			return s
		}

		assert.Equal(t, 0, score())

		_, err := ledger.Apply(ctx, a.ID, target, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, score())

		_, err = ledger.Apply(ctx, b.ID, target, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, score())

		_, err = ledger.Apply(ctx, a.ID, target, -1)
		require.NoError(t, err)
		assert.Equal(t, 0, score())

		_, err = ledger.Apply(ctx, a.ID, target, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, score())
		assert.Zero(t, countRecords(t, db, a.ID, target))
	})

	t.Run("aggregate equals sum of records", func(t *testing.T) {
		seed := testutil.NewSeed(t, db)
		target := CommentTarget{CommentID: seed.Comment.ID}
		rng := rand.New(rand.NewSource(42))

		voters := make([]*models.User, 6)
		for i := range voters {
			voters[i] = testutil.CreateUser(t, db, fmt.Sprintf("sum_voter_%d", i))
		}

		for range 60 {
			voter := voters[rng.Intn(len(voters))]
			_, err := ledger.Apply(ctx, voter.ID, target, rng.Intn(3)-1)
			if err != nil {
				require.ErrorIs(t, err, ErrNoVoteToClear)
			}

			var records []models.Vote
			require.NoError(t, db.Where("comment_id = ?", seed.Comment.ID).Find(&records).Error)
			want := 0
			for _, r := range records {
				assert.Contains(t, []int{-1, 1}, r.Value, "zero is never stored")
				want += r.Value
			}

			got, err := ledger.AggregateScore(ctx, target)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("post and comment records are independent", func(t *testing.T) {
		seed := testutil.NewSeed(t, db)
		voter := testutil.CreateUser(t, db, "independent")

		_, err := ledger.Apply(ctx, voter.ID, PostTarget{PostID: seed.Post.ID}, 1)
		require.NoError(t, err)
		_, err = ledger.Apply(ctx, voter.ID, CommentTarget{CommentID: seed.Comment.ID}, -1)
		require.NoError(t, err)

		postScore, err := ledger.AggregateScore(ctx, PostTarget{PostID: seed.Post.ID})
		require.NoError(t, err)
		commentScore, err := ledger.AggregateScore(ctx, CommentTarget{CommentID: seed.Comment.ID})
		require.NoError(t, err)

		assert.Equal(t, 1, postScore)
		assert.Equal(t, -1, commentScore)
	})

	t.Run("concurrent votes keep one record", func(t *testing.T) {
		seed := testutil.NewSeed(t, db)
		voter := testutil.CreateUser(t, db, "racer")
		target := PostTarget{PostID: seed.Post.ID}

		var wg sync.WaitGroup
		errs := make(chan error, 16)
		for i := range 16 {
			wg.Add(1)
			go func(value int) {
				defer wg.Done()
				_, err := ledger.Apply(ctx, voter.ID, target, value)
				errs <- err
			}(1 - 2*(i%2))
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			assert.NoError(t, err)
		}
		assert.EqualValues(t, 1, countRecords(t, db, voter.ID, target))
	})
}

func TestUniqueIndexGuardsLedger(t *testing.T) {
	db := testutil.NewDB(t)
	seed := testutil.NewSeed(t, db)
	postID := seed.Post.ID

	require.NoError(t, db.Create(&models.Vote{UserID: seed.User.ID, PostID: &postID, Value: 1}).Error)

	err := db.Create(&models.Vote{UserID: seed.User.ID, PostID: &postID, Value: -1}).Error
	assert.Error(t, err, "second record for the same voter and post")

	err = db.Create(&models.Vote{UserID: seed.User.ID, Value: 1}).Error
	assert.Error(t, err, "record without a target")

	commentID := seed.Comment.ID
	err = db.Create(&models.Vote{UserID: seed.User.ID, PostID: &postID, CommentID: &commentID, Value: 1}).Error
	assert.Error(t, err, "record with two targets")

	err = db.Create(&models.Vote{UserID: seed.User.ID, CommentID: &commentID, Value: 0}).Error
	assert.Error(t, err, "zero is never stored")
}
