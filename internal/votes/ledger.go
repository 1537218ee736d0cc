package votes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/subs/backend/internal/database"
	"github.com/emilythestrangee/subs/backend/internal/models"
)

// maxAttempts bounds how often Apply re-evaluates after losing an insert race.
const maxAttempts = 3

var errInsertRaced = errors.New("concurrent vote insert")

// Outcome is the state of a (voter, target) pair after Apply. Record is nil
// once the vote has been cleared.
type Outcome struct {
	Action Action
	Record *models.Vote
}

// Ledger owns the vote records. Every transition runs in one transaction
// that locks the voter's existing record; first votes are inserted with
// ON CONFLICT DO NOTHING against the (voter, target) unique index.
type Ledger struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewLedger(db *gorm.DB, logger *slog.Logger) *Ledger {
	return &Ledger{db: db, logger: logger.With("component", "votes.Ledger")}
}

func (l *Ledger) Apply(ctx context.Context, voterID int, target Target, requested int) (Outcome, error) {
	value, err := ParseValue(requested)
	if err != nil {
		return Outcome{}, err
	}
	if target == nil {
		return Outcome{}, ErrTargetNotFound
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		out, err := l.apply(ctx, voterID, target, value)
		if errors.Is(err, errInsertRaced) {
			voteInsertRaces.Inc()
			l.logger.Debug("vote insert raced, retrying",
				"voter", voterID, "target", target.Kind(), "id", target.ID(), "attempt", attempt)
			continue
		}
		if err != nil {
			return Outcome{}, err
		}

		votesApplied.WithLabelValues(string(target.Kind()), out.Action.String()).Inc()
		l.logger.Debug("vote applied",
			"voter", voterID, "target", target.Kind(), "id", target.ID(),
			"value", int(value), "action", out.Action.String())
		return out, nil
	}
	return Outcome{}, fmt.Errorf("apply vote: %w", errInsertRaced)
}

func (l *Ledger) apply(ctx context.Context, voterID int, target Target, value Value) (Outcome, error) {
	var out Outcome
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := findRecord(tx.Clauses(clause.Locking{Strength: "UPDATE"}), voterID, target)
		if err != nil {
			return err
		}

		current := Clear
		if existing != nil {
			current = Value(existing.Value)
		}

		action, err := Transition(current, value)
		if err != nil {
			return err
		}
		out.Action = action

		switch action {
		case ActionNone:
			out.Record = existing
		case ActionCreate:
			rec := newRecord(voterID, target, value)
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: target.column()}},
				DoNothing: true,
			}).Create(rec)
			if database.IsForeignKeyViolation(res.Error) {
				return ErrTargetNotFound
			}
			if res.Error != nil {
				return fmt.Errorf("insert vote: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return errInsertRaced
			}
			out.Record = rec
		case ActionUpdate:
			if err := tx.Model(existing).Update("value", int(value)).Error; err != nil {
				return fmt.Errorf("update vote: %w", err)
			}
			out.Record = existing
		case ActionDelete:
			if err := tx.Delete(existing).Error; err != nil {
				return fmt.Errorf("delete vote: %w", err)
			}
		}
		return nil
	})
	return out, err
}

// Record returns the voter's record on target, or nil when there is none.
func (l *Ledger) Record(ctx context.Context, voterID int, target Target) (*models.Vote, error) {
	return findRecord(l.db.WithContext(ctx), voterID, target)
}

// AggregateScore sums every vote on target. It always reads the ledger.
func (l *Ledger) AggregateScore(ctx context.Context, target Target) (int, error) {
	var score int64
	err := l.db.WithContext(ctx).
		Model(&models.Vote{}).
		Select("COALESCE(SUM(value), 0)").
		Where(map[string]any{target.column(): target.ID()}).
		Scan(&score).Error
	if err != nil {
		return 0, fmt.Errorf("aggregate score: %w", err)
	}
	return int(score), nil
}

func findRecord(tx *gorm.DB, voterID int, target Target) (*models.Vote, error) {
	var rec models.Vote
	err := tx.
		Where(map[string]any{"user_id": voterID, target.column(): target.ID()}).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find vote: %w", err)
	}
	return &rec, nil
}
