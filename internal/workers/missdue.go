package workers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/habitflow/habitflow/internal/habits"
	"github.com/habitflow/habitflow/internal/models"
	"github.com/habitflow/habitflow/internal/queue"
)

// NotificationStore persists miss-due notifications. Create reports whether a
// new row was inserted; a duplicate for the same (habit, date, type) returns
// false without error, which is what makes repeated scans safe.
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) (bool, error)
}

// UserLister enumerates users that own at least one habit.
type UserLister interface {
	ListWithHabits(ctx context.Context) ([]*models.User, error)
}

// MissDueScanner turns queue jobs into miss-due notifications. A scan job
// fans out into one job per user with habits; a user job inspects the
// previous local day and records a notification for every planned habit
// that has no check-in.
type MissDueScanner struct {
	habitStore   habits.HabitStore
	checkinStore habits.CheckinStore
	userStore    habits.UserStore
	notifStore   NotificationStore
	userLister   UserLister
	jobQueue     queue.JobQueue
	logger       *zap.Logger
	now          func() time.Time
}

// NewMissDueScanner creates a new miss-due scanner
func NewMissDueScanner(
	habitStore habits.HabitStore,
	checkinStore habits.CheckinStore,
	userStore habits.UserStore,
	notifStore NotificationStore,
	userLister UserLister,
	jobQueue queue.JobQueue,
	logger *zap.Logger,
) *MissDueScanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MissDueScanner{
		habitStore:   habitStore,
		checkinStore: checkinStore,
		userStore:    userStore,
		notifStore:   notifStore,
		userLister:   userLister,
		jobQueue:     jobQueue,
		logger:       logger,
		now:          time.Now,
	}
}

// ProcessScanJob fans a scan job out into one per-user job. The per-user
// jobs inherit the scan's LocalDate so a backfill scan targets the same day
// for everyone.
func (s *MissDueScanner) ProcessScanJob(ctx context.Context, job *queue.Job) error {
	users, err := s.userLister.ListWithHabits(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users with habits: %w", err)
	}

	enqueued := 0
	for _, user := range users {
		userID := user.ID
		userJob := queue.NewJob(queue.JobTypeMissDueUser, &userID)
		userJob.LocalDate = job.LocalDate

		// Expire per-user jobs that linger longer than a day; the next
		// scan covers the same ground.
		notAfter := s.now().Add(24 * time.Hour)
		userJob.NotAfter = &notAfter

		if err := s.jobQueue.Enqueue(ctx, userJob); err != nil {
			s.logger.Warn("failed_to_enqueue_missdue_user_job",
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
			continue
		}
		enqueued++
	}

	s.logger.Info("missdue_scan_fanned_out",
		zap.Int("users", len(users)),
		zap.Int("enqueued", enqueued),
	)
	return nil
}

// ProcessUserJob scans one user's habits for a missed planned day and
// records notifications. The target day is the job's LocalDate when set,
// otherwise yesterday in the user's time zone.
func (s *MissDueScanner) ProcessUserJob(ctx context.Context, job *queue.Job) error {
	if job.UserID == nil {
		return fmt.Errorf("user_id is required for miss-due user job")
	}
	userID := job.UserID.String()

	date, ok, err := s.resolveScanDate(ctx, userID, job.LocalDate)
	if err != nil {
		return err
	}
	if !ok {
		// No usable time zone; there is no local day to evaluate.
		s.logger.Debug("skipping_missdue_scan_without_time_zone",
			zap.String("user_id", userID),
		)
		return nil
	}

	planned, err := s.habitStore.ListForDay(ctx, userID, habits.DayMask(date))
	if err != nil {
		return fmt.Errorf("failed to list habits for day: %w", err)
	}

	created := 0
	for _, habit := range planned {
		if habit.DeadlineDate != nil && date.After(habits.DateOf(*habit.DeadlineDate)) {
			continue
		}
		if date.Before(habits.DateOf(habit.CreatedAtUtc)) {
			// The habit did not exist yet on the target day.
			continue
		}

		exists, err := s.checkinStore.Exists(ctx, habit.ID, userID, date)
		if err != nil {
			return fmt.Errorf("failed to check for check-in: %w", err)
		}
		if exists {
			continue
		}

		inserted, err := s.notifStore.Create(ctx, &models.Notification{
			UserID:       userID,
			HabitID:      habit.ID,
			LocalDate:    date,
			Type:         models.NotificationTypeMissDue,
			Content:      fmt.Sprintf("You missed %q on %s.", habit.Title, date.Format("2006-01-02")),
			CreatedAtUtc: s.now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}
		if inserted {
			created++
		}
	}

	s.logger.Info("missdue_user_scan_complete",
		zap.String("user_id", userID),
		zap.String("date", date.Format("2006-01-02")),
		zap.Int("planned_habits", len(planned)),
		zap.Int("notifications_created", created),
	)
	return nil
}

// resolveScanDate picks the local day to evaluate. Explicit dates pass
// through unchanged; otherwise the user's time zone decides what
// "yesterday" means. Users without a valid time zone are skipped rather
// than retried, since retrying cannot fix the missing setting.
func (s *MissDueScanner) resolveScanDate(ctx context.Context, userID string, explicit *time.Time) (time.Time, bool, error) {
	if explicit != nil {
		return habits.DateOf(*explicit), true, nil
	}

	zoneID, err := s.userStore.GetTimeZone(ctx, userID)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to get time zone: %w", err)
	}
	if zoneID == "" {
		return time.Time{}, false, nil
	}
	loc, err := time.LoadLocation(zoneID)
	if err != nil {
		s.logger.Warn("invalid_time_zone_on_user",
			zap.String("user_id", userID),
			zap.String("time_zone_id", zoneID),
		)
		return time.Time{}, false, nil
	}

	local := s.now().In(loc)
	yesterday := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return yesterday, true, nil
}

// ProcessJob processes a job based on its type
func (s *MissDueScanner) ProcessJob(ctx context.Context, msg *queue.Message) error {
	job := msg.Job

	// Respect NotBefore; the delayed exchange normally handles this, but a
	// job can still arrive early after a broker restart.
	if !job.ShouldProcess() {
		if job.IsExpired() {
			s.logger.Info("dropping_expired_job", zap.String("job_id", job.ID.String()))
			if ackErr := msg.Ack(); ackErr != nil {
				s.logger.Warn("failed_to_ack_expired_job", zap.Error(ackErr))
			}
			return nil
		}
		if nackErr := msg.Nack(true); nackErr != nil {
			s.logger.Warn("failed_to_requeue_early_job", zap.Error(nackErr))
		}
		return nil
	}

	var err error
	switch job.Type {
	case queue.JobTypeMissDueScan:
		err = s.ProcessScanJob(ctx, job)
	case queue.JobTypeMissDueUser:
		err = s.ProcessUserJob(ctx, job)
	default:
		if nackErr := msg.Nack(false); nackErr != nil { // Unknown job type, send to DLQ
			s.logger.Warn("failed_to_nack_unknown_job", zap.Error(nackErr))
		}
		return fmt.Errorf("unknown job type: %s", job.Type)
	}

	if err != nil {
		return s.handleJobError(msg, job, err)
	}

	if ackErr := msg.Ack(); ackErr != nil {
		return fmt.Errorf("failed to ack job: %w", ackErr)
	}
	return nil
}

// handleJobError retries transient failures and dead-letters the rest.
func (s *MissDueScanner) handleJobError(msg *queue.Message, job *queue.Job, err error) error {
	if job.CanRetry() {
		job.IncrementRetry()
		s.logger.Warn("missdue_job_failed_will_retry",
			zap.String("job_id", job.ID.String()),
			zap.String("job_type", string(job.Type)),
			zap.Int("attempt", job.RetryCount),
			zap.Int("max_retries", job.MaxRetries),
			zap.Error(err),
		)
		if nackErr := msg.Nack(true); nackErr != nil {
			s.logger.Warn("failed_to_nack_job", zap.Error(nackErr))
		}
		return fmt.Errorf("job failed (will retry): %w", err)
	}

	s.logger.Error("missdue_job_failed_sending_to_dlq",
		zap.String("job_id", job.ID.String()),
		zap.String("job_type", string(job.Type)),
		zap.Error(err),
	)
	if nackErr := msg.Nack(false); nackErr != nil {
		s.logger.Warn("failed_to_nack_job_to_dlq", zap.Error(nackErr))
	}
	return fmt.Errorf("job failed (max retries): %w", err)
}
