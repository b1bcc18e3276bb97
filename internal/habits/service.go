package habits

import (
	"time"

	"go.uber.org/zap"
)

const (
	// MaxHabitsPerUser caps live habits per user. The check is
	// read-then-write without coordination, so concurrent creates by the
	// same user can transiently exceed it.
	MaxHabitsPerUser = 20
	// MaxCalendarRangeDays caps the inclusive day span of calendar and
	// check-in range queries.
	MaxCalendarRangeDays = 90
	// MaxProgressWindowDays caps the rolling progress window.
	MaxProgressWindowDays = 90

	MaxTitleLength       = 80
	MaxDescriptionLength = 280
	MaxTargetValue       = 100
	MaxTargetUnitLength  = 32

	MinPageSize     = 1
	MaxPageSize     = 100
	DefaultPageSize = 20
)

// Service implements the habit scheduling and progress-scoring engine over
// injected persistence collaborators. It holds no mutable state; every
// operation is request-scoped and honors context cancellation through the
// store calls.
type Service struct {
	habits   HabitStore
	checkins CheckinStore
	users    UserStore
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a habit service. logger may be nil.
func NewService(habitStore HabitStore, checkinStore CheckinStore, userStore UserStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		habits:   habitStore,
		checkins: checkinStore,
		users:    userStore,
		logger:   logger,
		now:      time.Now,
	}
}

// today returns the current UTC calendar date.
func (s *Service) today() time.Time {
	return DateOf(s.now().UTC())
}
