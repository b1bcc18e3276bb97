package workers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/habitflow/habitflow/internal/queue"
)

// DefaultScanInterval is how often a miss-due scan job is enqueued. Hourly
// scans keep up with midnight rolling through each time zone, and the
// unique constraint on notifications absorbs the overlap.
const DefaultScanInterval = 1 * time.Hour

// MissDueScheduler periodically enqueues miss-due scan jobs.
type MissDueScheduler struct {
	jobQueue queue.JobQueue
	logger   *zap.Logger
	interval time.Duration
}

// NewMissDueScheduler creates a new scheduler. A non-positive interval
// falls back to DefaultScanInterval.
func NewMissDueScheduler(jobQueue queue.JobQueue, logger *zap.Logger, interval time.Duration) *MissDueScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = DefaultScanInterval
	}
	return &MissDueScheduler{
		jobQueue: jobQueue,
		logger:   logger,
		interval: interval,
	}
}

// ScheduleScanJob enqueues a single scan job. The job expires after one
// interval so a backlog of stale scans cannot pile up behind a slow worker.
func (s *MissDueScheduler) ScheduleScanJob(ctx context.Context) error {
	job := queue.NewJob(queue.JobTypeMissDueScan, nil)
	notAfter := time.Now().Add(s.interval)
	job.NotAfter = &notAfter

	if err := s.jobQueue.Enqueue(ctx, job); err != nil {
		return fmt.Errorf("failed to enqueue scan job: %w", err)
	}

	s.logger.Info("scheduled_missdue_scan_job",
		zap.String("job_id", job.ID.String()),
		zap.Time("expires", notAfter),
	)
	return nil
}

// Start enqueues a scan immediately and then once per interval until ctx is
// cancelled.
func (s *MissDueScheduler) Start(ctx context.Context) error {
	if err := s.ScheduleScanJob(ctx); err != nil {
		s.logger.Error("initial_missdue_scan_schedule_failed", zap.Error(err))
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.ScheduleScanJob(ctx); err != nil {
				s.logger.Error("missdue_scan_schedule_failed", zap.Error(err))
			}
		}
	}
}
