// Package metrics registers the process-wide prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "formanet",
		Name:      "dispatch_total",
		Help:      "Dossier dispatch attempts by outcome.",
	}, []string{"outcome"})

	DecayedCandidatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "formanet",
		Name:      "decayed_candidates_total",
		Help:      "Candidates whose motivation index was decremented.",
	})

	DecayRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "formanet",
		Name:      "decay_runs_total",
		Help:      "Motivation decay job runs by result.",
	}, []string{"result"})
)

const (
	OutcomeMatched   = "matched"
	OutcomeUnmatched = "unmatched"

	ResultOK    = "ok"
	ResultError = "error"
)
