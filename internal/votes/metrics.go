package votes

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	votesApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "subs_votes_applied_total",
		Help: "Votes applied to the ledger, by target kind and resulting action.",
	}, []string{"target", "action"})

	voteInsertRaces = promauto.NewCounter(prometheus.CounterOpts{
		Name: "subs_vote_insert_races_total",
		Help: "Vote inserts that lost a race against a concurrent insert and were re-evaluated.",
	})
)
