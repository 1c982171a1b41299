// Package maintenance hosts the periodic jobs that keep candidate data
// healthy. The only job today is motivation decay.
package maintenance

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/formanet/formanet/internal/audit/domain"
	"github.com/formanet/formanet/internal/clock"
	"github.com/formanet/formanet/internal/config"
	"github.com/formanet/formanet/internal/metrics"
	onboardingdomain "github.com/formanet/formanet/internal/onboarding/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultInterval       = time.Hour
	defaultInactivityDays = 7
	defaultStep           = 10
	defaultBatchSize      = 100
	claimTimeout          = 5 * time.Second
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Tuning   *config.TuningHolder
	Clock    clock.Clock
	AuditSvc auditdomain.Service
}

// Job decrements the motivation index of candidates that have been inactive
// for longer than the configured window.
type Job struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	auditSvc auditdomain.Service
	tuning   *config.TuningHolder
}

type DecayDetail struct {
	ID      snowflake.ID `json:"id"`
	OrgID   snowflake.ID `json:"-"`
	Company string       `json:"company"`
	Old     int          `json:"old"`
	New     int          `json:"new"`
}

type DecayResult struct {
	Processed int           `json:"processed"`
	Details   []DecayDetail `json:"details"`
}

func New(p Params) *Job {
	return &Job{
		db:       p.DB,
		log:      p.Log.Named("maintenance.decay"),
		clock:    p.Clock,
		auditSvc: p.AuditSvc,
		tuning:   p.Tuning,
	}
}

type settings struct {
	interval       time.Duration
	inactivityDays int
	step           int
	batchSize      int
}

// settings resolves the current tuning against the defaults. Read once per
// run so a hot reload never changes semantics mid-run.
func (j *Job) settings() settings {
	s := settings{
		interval:       defaultInterval,
		inactivityDays: defaultInactivityDays,
		step:           defaultStep,
		batchSize:      defaultBatchSize,
	}
	t := j.tuning.Get()
	if parsed, err := time.ParseDuration(t.Interval); err == nil && parsed > 0 {
		s.interval = parsed
	}
	if t.InactivityDays > 0 {
		s.inactivityDays = t.InactivityDays
	}
	if t.Step > 0 {
		s.step = t.Step
	}
	if t.BatchSize > 0 {
		s.batchSize = t.BatchSize
	}
	return s
}

type claimedCandidate struct {
	ID              snowflake.ID
	OrgID           snowflake.ID
	Company         string
	MotivationIndex int
}

// RunDecay claims and decrements inactive candidates in batches until no
// eligible row remains. Batches are claimed with SKIP LOCKED so overlapping
// runs never double-decrement the same candidate.
func (j *Job) RunDecay(ctx context.Context) (*DecayResult, error) {
	s := j.settings()
	cutoff := j.clock.Now().AddDate(0, 0, -s.inactivityDays)
	result := &DecayResult{Details: []DecayDetail{}}

	// Keyset cursor over candidate ids. A decremented candidate usually
	// stays eligible (score still > 0, last_activity_at untouched), so each
	// claim must start past the previous batch or one run would decrement
	// the same rows again.
	var afterID snowflake.ID

	for {
		batch, err := j.decayBatch(ctx, s, cutoff, afterID)
		if err != nil {
			metrics.DecayRunsTotal.WithLabelValues(metrics.ResultError).Inc()
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		result.Details = append(result.Details, batch...)
		result.Processed += len(batch)
		for _, detail := range batch {
			metrics.DecayedCandidatesTotal.Inc()
			j.appendAudit(ctx, detail)
		}
		afterID = batch[len(batch)-1].ID
		if len(batch) < s.batchSize {
			break
		}
	}

	metrics.DecayRunsTotal.WithLabelValues(metrics.ResultOK).Inc()
	j.log.Info("decay run finished", zap.Int("processed", result.Processed))
	return result, nil
}

func (j *Job) decayBatch(ctx context.Context, s settings, cutoff time.Time, afterID snowflake.ID) ([]DecayDetail, error) {
	claimCtx, cancel := context.WithTimeout(ctx, claimTimeout)
	defer cancel()

	var details []DecayDetail
	err := j.db.WithContext(claimCtx).Transaction(func(tx *gorm.DB) error {
		claimed, err := j.claimCandidates(claimCtx, tx, s.batchSize, cutoff, afterID)
		if err != nil {
			return err
		}
		now := j.clock.Now()
		for _, candidate := range claimed {
			newScore := candidate.MotivationIndex - s.step
			if newScore < 0 {
				newScore = 0
			}
			// Only the score moves. The inactivity timestamp is owned by the
			// recruitment workflow, so a decay pass never resets its own
			// trigger window.
			if err := tx.Exec(
				`UPDATE candidates SET motivation_index = ?, updated_at = ? WHERE id = ?`,
				newScore, now, candidate.ID,
			).Error; err != nil {
				return err
			}
			details = append(details, DecayDetail{
				ID:      candidate.ID,
				OrgID:   candidate.OrgID,
				Company: candidate.Company,
				Old:     candidate.MotivationIndex,
				New:     newScore,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return details, nil
}

func (j *Job) claimCandidates(ctx context.Context, tx *gorm.DB, batchSize int, cutoff time.Time, afterID snowflake.ID) ([]claimedCandidate, error) {
	query := `SELECT id, org_id, company, motivation_index
	 FROM candidates
	 WHERE status NOT IN (?, ?, ?)
	   AND motivation_index > 0
	   AND last_activity_at < ?
	   AND id > ?
	 ORDER BY id`
	if tx.Dialector.Name() == "postgres" {
		query += `
	 FOR UPDATE SKIP LOCKED`
	}
	query += `
	 LIMIT ?`

	var claimed []claimedCandidate
	err := tx.WithContext(ctx).Raw(query,
		onboardingdomain.CandidateStatusSigned,
		onboardingdomain.CandidateStatusRejected,
		onboardingdomain.CandidateStatusWithdrawn,
		cutoff,
		afterID,
		batchSize,
	).Scan(&claimed).Error
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

func (j *Job) appendAudit(ctx context.Context, detail DecayDetail) {
	candidateID := detail.ID.String()
	err := j.auditSvc.AuditLog(ctx, &detail.OrgID, string(auditdomain.ActorTypeSystem), nil,
		"candidate.motivation_decayed", "candidate", &candidateID, map[string]any{
			"old":    detail.Old,
			"new":    detail.New,
			"reason": "inactivity timeout",
		})
	if err != nil {
		j.log.Warn("decay audit entry failed", zap.Error(err))
	}
}

// RunForever runs the decay job on an interval until ctx is cancelled. The
// interval is re-read each cycle so a tuning reload takes effect on the next
// wait, not only after a restart.
func (j *Job) RunForever(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(j.settings().interval):
		}
		if _, err := j.RunDecay(ctx); err != nil {
			j.log.Warn("decay run failed", zap.Error(err))
		}
	}
}
