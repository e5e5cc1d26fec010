// Package retention implements the scheduled sweep that removes temporary
// messages whose expiry has passed.
package retention

import (
	"context"
	"log/slog"
)

// DefaultSchedule runs the sweep once a minute.
const DefaultSchedule = "* * * * *"

// Purger is the subset of the conversation store the sweep needs.
type Purger interface {
	ConversationID() string
	PurgeExpired() int
}

// SweepJob walks the registered stores and purges expired messages.
type SweepJob struct {
	Stores       []Purger
	Logger       *slog.Logger
	ScheduleExpr string // empty = DefaultSchedule
}

// Name implements cron.Job.
func (j *SweepJob) Name() string { return "retention_sweep" }

// Schedule implements cron.Job.
func (j *SweepJob) Schedule() string {
	if j.ScheduleExpr != "" {
		return j.ScheduleExpr
	}
	return DefaultSchedule
}

// Run purges expired messages from every registered store.
func (j *SweepJob) Run(ctx context.Context) error {
	for _, store := range j.Stores {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if n := store.PurgeExpired(); n > 0 {
			j.Logger.Info("purged expired messages",
				"conversation", store.ConversationID(), "count", n)
		}
	}
	return nil
}
