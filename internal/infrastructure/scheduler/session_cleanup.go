package scheduler

import (
	"context"
	"time"
)

// SessionCleanupJob is the job name of the stale session purge
const SessionCleanupJob = "session-cleanup"

// SessionPurger deletes sessions no longer usable at the given instant
type SessionPurger interface {
	PurgeStaleSessions(ctx context.Context, now time.Time) (int64, error)
}

// SessionCleanupExecutor purges expired and invalidated sessions
type SessionCleanupExecutor struct {
	purger SessionPurger
	now    func() time.Time
}

// NewSessionCleanupExecutor creates a new SessionCleanupExecutor
func NewSessionCleanupExecutor(purger SessionPurger) *SessionCleanupExecutor {
	return &SessionCleanupExecutor{purger: purger, now: time.Now}
}

// Execute implements JobExecutor
func (e *SessionCleanupExecutor) Execute(ctx context.Context, _ *Job) error {
	_, err := e.purger.PurgeStaleSessions(ctx, e.now())
	return err
}
