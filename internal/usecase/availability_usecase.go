package usecase

import (
	"context"
	"time"

	"go-doctor-scheduling/config"
	"go-doctor-scheduling/internal/domain/entity"
	"go-doctor-scheduling/internal/domain/repository"
	"go-doctor-scheduling/internal/observability/metrics"
	"go-doctor-scheduling/pkg/interval"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// maxAvailabilityRangeDays bounds public range queries.
const maxAvailabilityRangeDays = 31

type AvailabilityUsecase interface {
	IsSlotAvailable(ctx context.Context, doctorID uuid.UUID, date time.Time, start, end time.Duration) (bool, error)
	IsAppointmentTimeAvailable(ctx context.Context, doctorID uuid.UUID, at time.Time) (bool, error)
	GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, date time.Time, slotDuration time.Duration) ([]time.Duration, error)
	GetAvailableSlotsInRange(ctx context.Context, doctorID uuid.UUID, start, end time.Time, slotDuration time.Duration) ([]entity.DayAvailability, error)
	GetFullSchedule(ctx context.Context, doctorID uuid.UUID) (*entity.FullSchedule, error)
	GetScheduleForRange(ctx context.Context, doctorID uuid.UUID, start, end time.Time) (*entity.FullSchedule, error)
}

type availabilityUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	doctorProfileRepo repository.DoctorProfileRepository
	recurringRepo     repository.RecurringScheduleRepository
	breakRepo         repository.RecurringBreakRepository
	oneTimeRepo       repository.OneTimeSlotRepository
	appointmentRepo   repository.AppointmentRepository
	metrics           *metrics.SchedulingMetrics

	slotDuration time.Duration
	loc          *time.Location
	now          func() time.Time
}

func NewAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorProfileRepo repository.DoctorProfileRepository,
	recurringRepo repository.RecurringScheduleRepository,
	breakRepo repository.RecurringBreakRepository,
	oneTimeRepo repository.OneTimeSlotRepository,
	appointmentRepo repository.AppointmentRepository,
	m *metrics.SchedulingMetrics,
	cfg config.ScheduleConfig,
) AvailabilityUsecase {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &availabilityUsecase{
		db:                db,
		log:               log,
		doctorProfileRepo: doctorProfileRepo,
		recurringRepo:     recurringRepo,
		breakRepo:         breakRepo,
		oneTimeRepo:       oneTimeRepo,
		appointmentRepo:   appointmentRepo,
		metrics:           m,
		slotDuration:      cfg.SlotDuration,
		loc:               loc,
		now:               time.Now,
	}
}

// IsSlotAvailable reports whether [start, end) on date lies inside one
// available window and overlaps no break, blackout or booked appointment.
// Booked appointments occupy the configured default slot duration.
func (u *availabilityUsecase) IsSlotAvailable(ctx context.Context, doctorID uuid.UUID, date time.Time, start, end time.Duration) (available bool, err error) {
	began := time.Now()
	defer func() { u.metrics.ObserveAvailability("point", err, time.Since(began).Seconds()) }()

	if start >= end {
		return false, nil
	}

	day := u.startOfDay(date)
	if !u.atClock(day, start).After(u.now()) {
		return false, nil
	}

	snap, err := u.loadSnapshot(ctx, doctorID, entity.DateRange{Start: day, End: day}, u.slotDuration)
	if err != nil {
		return false, err
	}

	slot := interval.New(start, end)
	contained := false
	for _, w := range snap.windows(day) {
		if w.Contains(slot) {
			contained = true
			break
		}
	}
	if !contained {
		return false, nil
	}

	for _, ex := range snap.exclusions(day, u.loc, u.slotDuration) {
		if slot.Overlaps(ex) {
			return false, nil
		}
	}
	return true, nil
}

// IsAppointmentTimeAvailable checks an appointment of the default slot
// duration starting at the given instant.
func (u *availabilityUsecase) IsAppointmentTimeAvailable(ctx context.Context, doctorID uuid.UUID, at time.Time) (bool, error) {
	local := at.In(u.loc)
	start := clockOf(local)
	return u.IsSlotAvailable(ctx, doctorID, local, start, start+u.slotDuration)
}

func (u *availabilityUsecase) GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, date time.Time, slotDuration time.Duration) (starts []time.Duration, err error) {
	began := time.Now()
	defer func() { u.metrics.ObserveAvailability("slots", err, time.Since(began).Seconds()) }()

	if slotDuration <= 0 {
		return nil, ErrInvalidDuration
	}

	day := u.startOfDay(date)
	snap, err := u.loadSnapshot(ctx, doctorID, entity.DateRange{Start: day, End: day}, slotDuration)
	if err != nil {
		return nil, err
	}

	return u.resolveDay(snap, day, slotDuration), nil
}

// GetAvailableSlotsInRange resolves every date in [start, end] against one
// snapshot fetched up front.
func (u *availabilityUsecase) GetAvailableSlotsInRange(ctx context.Context, doctorID uuid.UUID, start, end time.Time, slotDuration time.Duration) (result []entity.DayAvailability, err error) {
	began := time.Now()
	defer func() { u.metrics.ObserveAvailability("slots_range", err, time.Since(began).Seconds()) }()

	if slotDuration <= 0 {
		return nil, ErrInvalidDuration
	}

	rng, err := u.dateRange(start, end)
	if err != nil {
		return nil, err
	}
	if len(rng.Days()) > maxAvailabilityRangeDays {
		return nil, ErrInvalidDateRange
	}

	snap, err := u.loadSnapshot(ctx, doctorID, rng, slotDuration)
	if err != nil {
		return nil, err
	}

	for _, d := range rng.Days() {
		result = append(result, entity.DayAvailability{
			Date:   d,
			Starts: u.resolveDay(snap, d, slotDuration),
		})
	}
	return result, nil
}

func (u *availabilityUsecase) GetFullSchedule(ctx context.Context, doctorID uuid.UUID) (*entity.FullSchedule, error) {
	db := u.db.WithContext(ctx)
	if err := u.ensureDoctor(db, doctorID); err != nil {
		return nil, err
	}

	recurring, err := u.recurringRepo.FindByDoctorID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find recurring slots for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	oneTime, err := u.oneTimeRepo.FindByDoctorID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find one-time slots for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	breaks, err := u.breakRepo.FindByDoctorID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find recurring breaks for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return &entity.FullSchedule{
		RecurringSlots:  recurring,
		OneTimeSlots:    oneTime,
		RecurringBreaks: breaks,
	}, nil
}

// GetScheduleForRange keeps recurring entries whose weekday occurs in
// [start, end] and one-time entries dated inside it. Inactive recurring
// entries are included; callers read the Active flag.
func (u *availabilityUsecase) GetScheduleForRange(ctx context.Context, doctorID uuid.UUID, start, end time.Time) (*entity.FullSchedule, error) {
	rng, err := u.dateRange(start, end)
	if err != nil {
		return nil, err
	}

	db := u.db.WithContext(ctx)
	if err := u.ensureDoctor(db, doctorID); err != nil {
		return nil, err
	}

	weekdays := rng.Weekdays()

	recurring, err := u.recurringRepo.FindByDoctorID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find recurring slots for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	breaks, err := u.breakRepo.FindByDoctorID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find recurring breaks for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	oneTime, err := u.oneTimeRepo.FindByDoctorAndDateRange(db, doctorID, rng.Start, rng.End)
	if err != nil {
		u.log.Warnf("Failed to find one-time slots for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	result := &entity.FullSchedule{
		RecurringSlots:  []entity.RecurringSchedule{},
		OneTimeSlots:    []entity.OneTimeSlot{},
		RecurringBreaks: []entity.RecurringBreak{},
	}
	for _, r := range recurring {
		if weekdays[r.DayOfWeek] {
			result.RecurringSlots = append(result.RecurringSlots, r)
		}
	}
	for _, b := range breaks {
		if weekdays[b.DayOfWeek] {
			result.RecurringBreaks = append(result.RecurringBreaks, b)
		}
	}
	for _, o := range oneTime {
		if rng.Contains(dateOnly(o.Date, u.loc)) {
			result.OneTimeSlots = append(result.OneTimeSlots, o)
		}
	}
	return result, nil
}

// =============================================================================
// Snapshot
// =============================================================================

// scheduleSnapshot is everything the resolver needs for a date range, read
// once at the start of a call.
type scheduleSnapshot struct {
	recurring    map[time.Weekday][]interval.Interval
	breaks       map[time.Weekday][]interval.Interval
	extra        map[string][]interval.Interval
	blackouts    map[string][]interval.Interval
	appointments []time.Time
}

// windows returns the available windows of day: active recurring slots for
// its weekday plus available one-time slots on its date.
func (s *scheduleSnapshot) windows(day time.Time) []interval.Interval {
	out := make([]interval.Interval, 0, len(s.recurring[day.Weekday()])+len(s.extra[dateKey(day)]))
	out = append(out, s.recurring[day.Weekday()]...)
	out = append(out, s.extra[dateKey(day)]...)
	return out
}

// exclusions returns breaks, blackouts and the windows occupied by booked
// appointments, each appointment holding [start, start+occupancy).
func (s *scheduleSnapshot) exclusions(day time.Time, loc *time.Location, occupancy time.Duration) []interval.Interval {
	out := make([]interval.Interval, 0, len(s.breaks[day.Weekday()])+len(s.blackouts[dateKey(day)])+len(s.appointments))
	out = append(out, s.breaks[day.Weekday()]...)
	out = append(out, s.blackouts[dateKey(day)]...)
	for _, at := range s.appointments {
		offset := offsetFrom(day, at, loc)
		out = append(out, interval.New(offset, offset+occupancy))
	}
	return out
}

func (u *availabilityUsecase) loadSnapshot(ctx context.Context, doctorID uuid.UUID, rng entity.DateRange, occupancy time.Duration) (*scheduleSnapshot, error) {
	db := u.db.WithContext(ctx)
	if err := u.ensureDoctor(db, doctorID); err != nil {
		return nil, err
	}

	snap := &scheduleSnapshot{
		recurring: make(map[time.Weekday][]interval.Interval),
		breaks:    make(map[time.Weekday][]interval.Interval),
		extra:     make(map[string][]interval.Interval),
		blackouts: make(map[string][]interval.Interval),
	}

	for weekday := range rng.Weekdays() {
		slots, err := u.recurringRepo.FindActiveByDoctorAndDay(db, doctorID, weekday)
		if err != nil {
			u.log.Warnf("Failed to find recurring slots for doctor %s on %s: %+v", doctorID, weekday, err)
			return nil, err
		}
		for _, s := range slots {
			snap.recurring[weekday] = append(snap.recurring[weekday], interval.New(entity.Clock(s.StartTime), entity.Clock(s.EndTime)))
		}

		breaks, err := u.breakRepo.FindActiveByDoctorAndDay(db, doctorID, weekday)
		if err != nil {
			u.log.Warnf("Failed to find recurring breaks for doctor %s on %s: %+v", doctorID, weekday, err)
			return nil, err
		}
		for _, b := range breaks {
			snap.breaks[weekday] = append(snap.breaks[weekday], interval.New(entity.Clock(b.StartTime), entity.Clock(b.EndTime)))
		}
	}

	var oneTime []entity.OneTimeSlot
	var err error
	if rng.Start.Equal(rng.End) {
		oneTime, err = u.oneTimeRepo.FindByDoctorAndDate(db, doctorID, rng.Start)
	} else {
		oneTime, err = u.oneTimeRepo.FindByDoctorAndDateRange(db, doctorID, rng.Start, rng.End)
	}
	if err != nil {
		u.log.Warnf("Failed to find one-time slots for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	for _, o := range oneTime {
		key := dateKey(o.Date)
		iv := interval.New(entity.Clock(o.StartTime), entity.Clock(o.EndTime))
		if o.Available {
			snap.extra[key] = append(snap.extra[key], iv)
		} else {
			snap.blackouts[key] = append(snap.blackouts[key], iv)
		}
	}

	// An appointment that starts before midnight can still occupy the first
	// minutes of the range.
	from := rng.Start.Add(-occupancy)
	to := rng.End.AddDate(0, 0, 1)
	appointments, err := u.appointmentRepo.FindActiveByDoctorBetween(db, doctorID, from, to)
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	for _, a := range appointments {
		if a.IsActive() {
			snap.appointments = append(snap.appointments, a.AppointmentTime)
		}
	}

	return snap, nil
}

// resolveDay subtracts exclusions from every available window, enumerates
// starts per remaining piece and drops starts that are not in the future.
func (u *availabilityUsecase) resolveDay(snap *scheduleSnapshot, day time.Time, slotDuration time.Duration) []time.Duration {
	exclusions := snap.exclusions(day, u.loc, slotDuration)

	var starts []time.Duration
	for _, window := range snap.windows(day) {
		for _, piece := range interval.Subtract(window, exclusions) {
			starts = append(starts, interval.EnumerateStarts(piece, slotDuration, slotDuration)...)
		}
	}

	now := u.now()
	result := make([]time.Duration, 0, len(starts))
	for _, s := range interval.Dedupe(starts) {
		if u.atClock(day, s).After(now) {
			result = append(result, s)
		}
	}
	return result
}

// =============================================================================
// Helpers
// =============================================================================

func (u *availabilityUsecase) ensureDoctor(db *gorm.DB, doctorID uuid.UUID) error {
	doctor, err := u.doctorProfileRepo.FindByUserID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}
	return nil
}

func (u *availabilityUsecase) dateRange(start, end time.Time) (entity.DateRange, error) {
	rng := entity.DateRange{Start: u.startOfDay(start), End: u.startOfDay(end)}
	if rng.Start.After(rng.End) {
		return rng, ErrInvalidDateRange
	}
	return rng, nil
}

func (u *availabilityUsecase) startOfDay(date time.Time) time.Time {
	return dateOnly(date, u.loc)
}

// atClock returns the instant at time-of-day offset on day. Offsets past
// 24h roll into the following date.
func (u *availabilityUsecase) atClock(day time.Time, offset time.Duration) time.Time {
	return atClock(day, offset, u.loc)
}

// dateOnly keeps the calendar date of t, as written, at midnight in loc.
func dateOnly(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func atClock(day time.Time, offset time.Duration, loc *time.Location) time.Time {
	h := int(offset / time.Hour)
	m := int((offset % time.Hour) / time.Minute)
	s := int((offset % time.Minute) / time.Second)
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, s, 0, loc)
}

// clockOf returns the wall-clock time of t as an offset from its midnight.
func clockOf(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
}

// offsetFrom expresses instant t as a wall-clock offset from the midnight
// starting day, in loc. The result is negative for earlier dates.
func offsetFrom(day time.Time, t time.Time, loc *time.Location) time.Duration {
	local := t.In(loc)
	a := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return a.Sub(b) + clockOf(local)
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
