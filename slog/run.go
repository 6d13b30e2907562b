package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/leadscout"
)

// Ensure LoggingRunService implements leadscout.RunService.
var _ leadscout.RunService = (*LoggingRunService)(nil)

// LoggingRunService wraps a RunService with logging of archive writes and lookups.
type LoggingRunService struct {
	next   leadscout.RunService
	logger *slog.Logger
}

// NewLoggingRunService creates a new LoggingRunService.
func NewLoggingRunService(next leadscout.RunService, logger *slog.Logger) *LoggingRunService {
	return &LoggingRunService{next: next, logger: logger}
}

// CreateRun logs the archived run and delegates.
func (s *LoggingRunService) CreateRun(ctx context.Context, run *leadscout.Run) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("create run",
			"id", run.ID,
			"status", run.Status,
			"leads", len(run.Leads),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateRun(ctx, run)
}

// FindRunByID delegates to the wrapped service, logging failures.
func (s *LoggingRunService) FindRunByID(ctx context.Context, id string) (run *leadscout.Run, err error) {
	defer func(begin time.Time) {
		if err != nil && leadscout.ErrorCode(err) != leadscout.ENOTFOUND {
			s.logger.Error("find run", "id", id, "duration", time.Since(begin), "err", err)
		}
	}(time.Now())
	return s.next.FindRunByID(ctx, id)
}

// FindRuns delegates to the wrapped service, logging failures.
func (s *LoggingRunService) FindRuns(ctx context.Context, filter leadscout.RunFilter) (runs []*leadscout.Run, err error) {
	defer func(begin time.Time) {
		if err != nil {
			s.logger.Error("find runs", "duration", time.Since(begin), "err", err)
		}
	}(time.Now())
	return s.next.FindRuns(ctx, filter)
}
