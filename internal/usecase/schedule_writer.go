package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-doctor-scheduling/internal/domain/repository"
	"go-doctor-scheduling/internal/observability/metrics"
	"go-doctor-scheduling/internal/service"
	"go-doctor-scheduling/pkg/interval"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// scheduleWriter runs schedule mutations of one doctor one at a time.
//
// Flow:
// 1. Per-doctor lock (local mutex + Redis)
// 2. Begin transaction
// 3. Lock the doctor row FOR UPDATE, which also proves the doctor exists
// 4. Run the mutation
// 5. Commit; any error before this rolls everything back
type scheduleWriter struct {
	db                *gorm.DB
	log               *logrus.Logger
	doctorProfileRepo repository.DoctorProfileRepository
	lockService       *service.ScheduleLockService
	metrics           *metrics.SchedulingMetrics
	loc               *time.Location
	now               func() time.Time
}

func (w *scheduleWriter) write(ctx context.Context, doctorID uuid.UUID, operation string, fn func(tx *gorm.DB) error) (err error) {
	defer func() { w.metrics.ObserveMutation(operation, err) }()

	return w.lockService.WithDoctorLock(ctx, doctorID, func() error {
		tx := w.db.WithContext(ctx).Begin()
		if tx.Error != nil {
			w.log.Warnf("Failed to begin transaction for %s: %+v", operation, tx.Error)
			return tx.Error
		}
		defer tx.Rollback()

		doctor, err := w.doctorProfileRepo.FindByUserIDForUpdate(tx, doctorID)
		if err != nil {
			w.log.Warnf("Failed to lock doctor %s: %+v", doctorID, err)
			return err
		}
		if doctor == nil {
			return ErrDoctorNotFound
		}

		if err := fn(tx); err != nil {
			return err
		}

		if err := tx.Commit().Error; err != nil {
			w.log.Warnf("Failed commit transaction for %s: %+v", operation, err)
			return err
		}
		return nil
	})
}

// recurringOccurrenceEnded reports whether the next occurrence of weekday on
// or after today has already ended. Only today's occurrence can have ended,
// so a recurring entry is frozen just for the rest of its own day.
func (w *scheduleWriter) recurringOccurrenceEnded(weekday time.Weekday, end time.Duration) bool {
	now := w.now().In(w.loc)
	today := dateOnly(now, w.loc)
	next := today.AddDate(0, 0, (int(weekday)-int(today.Weekday())+7)%7)
	return atClock(next, end, w.loc).Before(now)
}

// oneTimeEnded reports whether date+end is already before now.
func (w *scheduleWriter) oneTimeEnded(date time.Time, end time.Duration) bool {
	return atClock(date, end, w.loc).Before(w.now())
}

// weeklyEntry is the part of a recurring slot or break the overlap check
// looks at.
type weeklyEntry struct {
	id      int
	weekday time.Weekday
	span    interval.Interval
	active  bool
}

// findWeeklyOverlap reports whether candidate overlaps another active entry
// on the same weekday. Entries with the candidate's id are skipped.
func findWeeklyOverlap(candidate weeklyEntry, existing []weeklyEntry) bool {
	if !candidate.active {
		return false
	}
	for _, e := range existing {
		if !e.active || e.weekday != candidate.weekday {
			continue
		}
		if candidate.id != 0 && e.id == candidate.id {
			continue
		}
		if e.span.Overlaps(candidate.span) {
			return true
		}
	}
	return false
}

// templateHasOverlap checks a batch of new entries against each other.
func templateHasOverlap(entries []weeklyEntry) bool {
	for i := range entries {
		if findWeeklyOverlap(entries[i], entries[i+1:]) {
			return true
		}
	}
	return false
}

// civilDate keeps only the calendar date, as UTC midnight, which is how
// DATE columns round-trip through the driver.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique violation
// on a constraint containing the specified name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
