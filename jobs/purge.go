package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/tourhub/tourhub/internal/authz"
	jobmetrics "github.com/tourhub/tourhub/internal/jobs"
	"github.com/tourhub/tourhub/internal/shared"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// maxPurgeRounds bounds the batches a single run processes per entity.
const maxPurgeRounds = 100

// Purger removes soft-deleted entities of one type. *crud.Service satisfies it.
type Purger interface {
	Entity() string
	PurgeSoftDeleted(ctx context.Context, actor *authz.Actor, cutoff time.Time, batch int) shared.Result[int]
}

// PurgeJob hard-deletes rows soft-deleted before now minus the retention.
type PurgeJob struct {
	Purgers   []Purger
	Retention time.Duration
	BatchSize int
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
	clock     func() time.Time
}

// NewPurgeJob initialises the purge handler.
func NewPurgeJob(purgers []Purger, retention time.Duration, batchSize int, logger *slog.Logger, metrics *jobmetrics.Metrics) *PurgeJob {
	return &PurgeJob{
		Purgers:   purgers,
		Retention: retention,
		BatchSize: batchSize,
		Logger:    logger,
		Metrics:   metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes TaskListingsPurge.
func (j *PurgeJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("purge: handler not configured")
	}
	var payload PurgePayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	_, err := j.Run(ctx, payload)
	return err
}

// Run purges every configured entity concurrently and returns the number of
// rows removed per entity.
func (j *PurgeJob) Run(ctx context.Context, payload PurgePayload) (counts map[string]int, resultErr error) {
	tracker := j.metrics().Track(TaskListingsPurge)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	retention := payload.Retention
	if retention <= 0 {
		retention = j.Retention
	}
	if retention <= 0 {
		return nil, errors.New("purge: retention must be positive")
	}
	batch := payload.BatchSize
	if batch <= 0 {
		batch = j.BatchSize
	}
	_, batch = shared.NormalizePage(1, batch)

	start := j.now()
	cutoff := start.Add(-retention)
	logger := j.log().With(slog.Time("cutoff", cutoff), slog.Int("batch_size", batch))
	logger.Info("starting purge")

	purgers := j.selected(payload.Entities)
	results := make([]int, len(purgers))
	g, gctx := errgroup.WithContext(ctx)
	for i, purger := range purgers {
		g.Go(func() error {
			removed, err := j.purgeEntity(gctx, purger, cutoff, batch)
			results[i] = removed
			if err != nil {
				return fmt.Errorf("purge %s: %w", purger.Entity(), err)
			}
			return nil
		})
	}
	resultErr = g.Wait()

	counts = make(map[string]int, len(purgers))
	total := 0
	for i, purger := range purgers {
		counts[purger.Entity()] = results[i]
		total += results[i]
	}
	if resultErr != nil {
		logger.Error("purge failed", slog.Any("error", resultErr), slog.Int("purged", total))
		return counts, resultErr
	}
	logger.Info("completed purge",
		slog.Int("entities", len(purgers)),
		slog.Int("purged", total),
		slog.Duration("duration", time.Since(start)),
	)
	return counts, nil
}

func (j *PurgeJob) purgeEntity(ctx context.Context, purger Purger, cutoff time.Time, batch int) (int, error) {
	actor := authz.System()
	removed := 0
	for round := 0; round < maxPurgeRounds; round++ {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		n, err := purger.PurgeSoftDeleted(ctx, actor, cutoff, batch).Unwrap()
		removed += n
		j.metrics().AddPurged(purger.Entity(), n)
		if err != nil {
			return removed, err
		}
		if n < batch {
			break
		}
	}
	if removed > 0 {
		j.log().Info("purged soft-deleted rows", slog.String("entity", purger.Entity()), slog.Int("count", removed))
	}
	return removed, nil
}

func (j *PurgeJob) selected(entities []string) []Purger {
	if len(entities) == 0 {
		return j.Purgers
	}
	out := make([]Purger, 0, len(entities))
	for _, purger := range j.Purgers {
		if slices.Contains(entities, purger.Entity()) {
			out = append(out, purger)
		}
	}
	return out
}

func (j *PurgeJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *PurgeJob) log() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskListingsPurge))
	}
	return slog.Default().With(slog.String("job", TaskListingsPurge))
}

func (j *PurgeJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}

// WithClock overrides the job clock.
func (j *PurgeJob) WithClock(clock func() time.Time) {
	j.clock = clock
}
