package votes

import (
	"github.com/emilythestrangee/subs/backend/internal/apperr"
)

var (
	ErrInvalidVoteValue = apperr.Fields(apperr.KindInvalidInput, map[string]string{
		"value": "value must be -1, 0 or 1",
	})
	ErrTargetNotFound = apperr.NotFound("vote target not found")
	ErrNoVoteToClear  = apperr.NotFound("vote not found")
)

type Value int

const (
	Down  Value = -1
	Clear Value = 0
	Up    Value = 1
)

func ParseValue(n int) (Value, error) {
	switch v := Value(n); v {
	case Down, Clear, Up:
		return v, nil
	default:
		return 0, ErrInvalidVoteValue
	}
}

type Action int

const (
	ActionNone Action = iota
	ActionCreate
	ActionUpdate
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	default:
		return "none"
	}
}

// Transition decides what happens to a voter's record on a target. current is
// the stored value, or Clear when the voter has no record.
func Transition(current, requested Value) (Action, error) {
	switch {
	case current == Clear && requested == Clear:
		return ActionNone, ErrNoVoteToClear
	case current == Clear:
		return ActionCreate, nil
	case requested == Clear:
		return ActionDelete, nil
	case requested == current:
		return ActionNone, nil
	default:
		return ActionUpdate, nil
	}
}
