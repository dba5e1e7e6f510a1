package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/meridian-erp/meridian-erp/internal/dashboard"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSessionSweep removes sessions that sat idle past the limit.
	TaskSessionSweep = "session:sweep"
	// TaskDashboardWarm refreshes the dashboard summary cache.
	TaskDashboardWarm = "dashboard:warm"
)

// SessionSweepPayload configures a session sweep run.
type SessionSweepPayload struct {
	IdleLimit time.Duration `json:"idle_limit"`
}

// NewSessionSweepTask constructs a session sweep task.
func NewSessionSweepTask(payload SessionSweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSessionSweep, data), nil
}

// NewDashboardWarmTask constructs a dashboard warm task.
func NewDashboardWarmTask() *asynq.Task {
	return asynq.NewTask(TaskDashboardWarm, nil)
}

type sweepSession struct {
	Token    string    `json:"token"`
	LastSeen time.Time `json:"last_seen"`
}

// SessionSweeper deletes redis-backed sessions whose last activity is older
// than the idle limit. Redis TTL already caps absolute lifetime; the sweep
// stops an abandoned login from staying valid until then.
type SessionSweeper struct {
	Client *redis.Client
	Logger *slog.Logger
}

// Handle processes TaskSessionSweep tasks.
func (s SessionSweeper) Handle(ctx context.Context, t *asynq.Task) error {
	var payload SessionSweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.IdleLimit <= 0 {
		return asynq.SkipRetry
	}

	cutoff := time.Now().Add(-payload.IdleLimit)
	var swept, scanned int
	iter := s.Client.Scan(ctx, 0, "session:*", 200).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		scanned++
		raw, err := s.Client.Get(ctx, key).Bytes()
		if err != nil {
			continue
		}
		var sess sweepSession
		if err := json.Unmarshal(raw, &sess); err != nil {
			continue
		}
		if sess.Token == "" || sess.LastSeen.IsZero() || sess.LastSeen.After(cutoff) {
			continue
		}
		if err := s.Client.Del(ctx, key).Err(); err != nil {
			s.Logger.Warn("sweep session", slog.String("key", key), slog.Any("error", err))
			continue
		}
		swept++
	}
	if err := iter.Err(); err != nil {
		return err
	}
	s.Logger.Info("session sweep complete", slog.Int("scanned", scanned), slog.Int("swept", swept))
	return nil
}

// SummaryRebuilder recomputes the dashboard summary ahead of demand.
type SummaryRebuilder interface {
	Rebuild(ctx context.Context) (*dashboard.Summary, error)
}

// DashboardWarmer refreshes the dashboard cache on a schedule so the first
// page load of the morning does not pay the fan-out cost.
type DashboardWarmer struct {
	Rebuilder SummaryRebuilder
	Logger    *slog.Logger
}

// Handle processes TaskDashboardWarm tasks.
func (d DashboardWarmer) Handle(ctx context.Context, t *asynq.Task) error {
	if _, err := d.Rebuilder.Rebuild(ctx); err != nil {
		d.Logger.Warn("dashboard warm", slog.Any("error", err))
		return err
	}
	d.Logger.Info("dashboard cache warmed")
	return nil
}

// TaskIdempotencyCleanup prunes processed idempotency keys past retention.
const TaskIdempotencyCleanup = "idempotency:cleanup"

// IdempotencyCleanupPayload configures a cleanup run.
type IdempotencyCleanupPayload struct {
	Retention time.Duration `json:"retention"`
}

// NewIdempotencyCleanupTask constructs a cleanup task.
func NewIdempotencyCleanupTask(payload IdempotencyCleanupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskIdempotencyCleanup, data), nil
}

// KeyCleaner removes idempotency keys older than a cutoff.
type KeyCleaner interface {
	Cleanup(ctx context.Context, olderThan time.Duration) error
}

// IdempotencyCleaner keeps the idempotency table from growing unbounded.
type IdempotencyCleaner struct {
	Store  KeyCleaner
	Logger *slog.Logger
}

// Handle processes TaskIdempotencyCleanup tasks.
func (c IdempotencyCleaner) Handle(ctx context.Context, t *asynq.Task) error {
	var payload IdempotencyCleanupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Retention <= 0 {
		payload.Retention = 7 * 24 * time.Hour
	}
	if err := c.Store.Cleanup(ctx, payload.Retention); err != nil {
		c.Logger.Warn("idempotency cleanup", slog.Any("error", err))
		return err
	}
	c.Logger.Info("idempotency cleanup complete")
	return nil
}
