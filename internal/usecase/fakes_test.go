package usecase

import (
	"errors"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"go-doctor-scheduling/config"
	"go-doctor-scheduling/internal/domain/entity"
	"go-doctor-scheduling/internal/service"
	"go-doctor-scheduling/pkg/interval"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// =============================================================================
// Test fixtures
// =============================================================================

// testNow is a Tuesday; 2030-01-07 is the following Monday.
var testNow = time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC)

var errInjected = errors.New("injected failure")

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newMockDB returns a gorm handle whose SQL traffic is checked by sqlmock.
// Repositories are faked, so only transaction control reaches the mock.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Discard,
	})
	require.NoError(t, err)
	return db, mock
}

func clk(t *testing.T, s string) datatypes.Time {
	t.Helper()
	d, err := interval.ParseClock(s)
	require.NoError(t, err)
	return entity.NewClock(d)
}

func offset(t *testing.T, s string) time.Duration {
	t.Helper()
	d, err := interval.ParseClock(s)
	require.NoError(t, err)
	return d
}

func offsets(t *testing.T, values ...string) []time.Duration {
	t.Helper()
	out := make([]time.Duration, 0, len(values))
	for _, v := range values {
		out = append(out, offset(t, v))
	}
	return out
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testScheduleConfig() config.ScheduleConfig {
	return config.ScheduleConfig{SlotDuration: 30 * time.Minute, Location: time.UTC}
}

func newTestLockService(t *testing.T) *service.ScheduleLockService {
	t.Helper()
	svc := service.NewScheduleLockService(nil, quietLogger(), nil, config.LockConfig{
		Wait:          time.Second,
		RetryInterval: 5 * time.Millisecond,
	})
	t.Cleanup(svc.Stop)
	return svc
}

// =============================================================================
// In-memory store
// =============================================================================

type fakeStore struct {
	mu           sync.Mutex
	nextID       int
	doctors      map[uuid.UUID]*entity.DoctorProfile
	recurring    []entity.RecurringSchedule
	breaks       []entity.RecurringBreak
	oneTime      []entity.OneTimeSlot
	appointments []entity.Appointment
	requests     []entity.SlotRemovalRequest
	audits       []entity.AuditLog

	// failRecurringCreateAfter makes the n-th recurring create fail (1-based).
	failRecurringCreateAfter int
	recurringCreates         int
	appointmentCreateErr     error
	findErr                  error
}

func newFakeStore(doctorIDs ...uuid.UUID) *fakeStore {
	s := &fakeStore{doctors: make(map[uuid.UUID]*entity.DoctorProfile)}
	for _, id := range doctorIDs {
		s.doctors[id] = &entity.DoctorProfile{UserID: id, FullName: "Dr. Test", Specialization: "General"}
	}
	return s
}

func (s *fakeStore) id() int {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) addRecurring(doctorID uuid.UUID, day time.Weekday, start, end datatypes.Time) entity.RecurringSchedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := entity.RecurringSchedule{ID: s.id(), DoctorID: doctorID, DayOfWeek: day, StartTime: start, EndTime: end, Active: true}
	s.recurring = append(s.recurring, r)
	return r
}

func (s *fakeStore) addBreak(doctorID uuid.UUID, day time.Weekday, start, end datatypes.Time) entity.RecurringBreak {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := entity.RecurringBreak{ID: s.id(), DoctorID: doctorID, DayOfWeek: day, StartTime: start, EndTime: end, Active: true}
	s.breaks = append(s.breaks, b)
	return b
}

func (s *fakeStore) addOneTime(doctorID uuid.UUID, d time.Time, start, end datatypes.Time, available bool) entity.OneTimeSlot {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := entity.OneTimeSlot{ID: s.id(), DoctorID: doctorID, Date: d, StartTime: start, EndTime: end, Available: available}
	s.oneTime = append(s.oneTime, o)
	return o
}

func (s *fakeStore) addAppointment(doctorID uuid.UUID, at time.Time, status entity.AppointmentStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments = append(s.appointments, entity.Appointment{
		ID: uuid.New(), DoctorID: doctorID, PatientID: uuid.New(), AppointmentTime: at, Status: status,
	})
}

// =============================================================================
// Doctor profile
// =============================================================================

type fakeDoctorProfileRepo struct{ s *fakeStore }

func (r *fakeDoctorProfileRepo) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.findErr != nil {
		return nil, r.s.findErr
	}
	return r.s.doctors[userID], nil
}

func (r *fakeDoctorProfileRepo) FindByUserIDForUpdate(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	return r.FindByUserID(db, userID)
}

// =============================================================================
// Recurring schedule
// =============================================================================

type fakeRecurringRepo struct{ s *fakeStore }

func (r *fakeRecurringRepo) Create(db *gorm.DB, slot *entity.RecurringSchedule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.recurringCreates++
	if r.s.failRecurringCreateAfter > 0 && r.s.recurringCreates >= r.s.failRecurringCreateAfter {
		return errInjected
	}
	slot.ID = r.s.id()
	r.s.recurring = append(r.s.recurring, *slot)
	return nil
}

func (r *fakeRecurringRepo) FindByID(db *gorm.DB, id int) (*entity.RecurringSchedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.recurring {
		if e.ID == id {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeRecurringRepo) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.RecurringSchedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.RecurringSchedule
	for _, e := range r.s.recurring {
		if e.DoctorID == doctorID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeRecurringRepo) FindActiveByDoctorAndDay(db *gorm.DB, doctorID uuid.UUID, day time.Weekday) ([]entity.RecurringSchedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.findErr != nil {
		return nil, r.s.findErr
	}
	var out []entity.RecurringSchedule
	for _, e := range r.s.recurring {
		if e.DoctorID == doctorID && e.DayOfWeek == day && e.Active {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeRecurringRepo) Update(db *gorm.DB, slot *entity.RecurringSchedule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.recurring {
		if r.s.recurring[i].ID == slot.ID {
			r.s.recurring[i] = *slot
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeRecurringRepo) Delete(db *gorm.DB, id int) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.recurring {
		if r.s.recurring[i].ID == id {
			r.s.recurring = append(r.s.recurring[:i], r.s.recurring[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeRecurringRepo) DeleteAllByDoctorID(db *gorm.DB, doctorID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.recurring[:0]
	var n int64
	for _, e := range r.s.recurring {
		if e.DoctorID == doctorID {
			n++
			continue
		}
		kept = append(kept, e)
	}
	r.s.recurring = kept
	return n, nil
}

// =============================================================================
// Recurring break
// =============================================================================

type fakeBreakRepo struct{ s *fakeStore }

func (r *fakeBreakRepo) Create(db *gorm.DB, brk *entity.RecurringBreak) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	brk.ID = r.s.id()
	r.s.breaks = append(r.s.breaks, *brk)
	return nil
}

func (r *fakeBreakRepo) FindByID(db *gorm.DB, id int) (*entity.RecurringBreak, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.breaks {
		if e.ID == id {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeBreakRepo) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.RecurringBreak, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.RecurringBreak
	for _, e := range r.s.breaks {
		if e.DoctorID == doctorID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeBreakRepo) FindActiveByDoctorAndDay(db *gorm.DB, doctorID uuid.UUID, day time.Weekday) ([]entity.RecurringBreak, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.RecurringBreak
	for _, e := range r.s.breaks {
		if e.DoctorID == doctorID && e.DayOfWeek == day && e.Active {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeBreakRepo) Update(db *gorm.DB, brk *entity.RecurringBreak) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.breaks {
		if r.s.breaks[i].ID == brk.ID {
			r.s.breaks[i] = *brk
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeBreakRepo) Delete(db *gorm.DB, id int) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.breaks {
		if r.s.breaks[i].ID == id {
			r.s.breaks = append(r.s.breaks[:i], r.s.breaks[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeBreakRepo) DeleteAllByDoctorID(db *gorm.DB, doctorID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.breaks[:0]
	var n int64
	for _, e := range r.s.breaks {
		if e.DoctorID == doctorID {
			n++
			continue
		}
		kept = append(kept, e)
	}
	r.s.breaks = kept
	return n, nil
}

// =============================================================================
// One-time slot
// =============================================================================

type fakeOneTimeRepo struct{ s *fakeStore }

func (r *fakeOneTimeRepo) Create(db *gorm.DB, slot *entity.OneTimeSlot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	slot.ID = r.s.id()
	r.s.oneTime = append(r.s.oneTime, *slot)
	return nil
}

func (r *fakeOneTimeRepo) FindByID(db *gorm.DB, id int) (*entity.OneTimeSlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.oneTime {
		if e.ID == id {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeOneTimeRepo) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.OneTimeSlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.OneTimeSlot
	for _, e := range r.s.oneTime {
		if e.DoctorID == doctorID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeOneTimeRepo) FindByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, d time.Time) ([]entity.OneTimeSlot, error) {
	return r.FindByDoctorAndDateRange(db, doctorID, d, d)
}

func (r *fakeOneTimeRepo) FindByDoctorAndDateRange(db *gorm.DB, doctorID uuid.UUID, start, end time.Time) ([]entity.OneTimeSlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	from, to := start.Format("2006-01-02"), end.Format("2006-01-02")
	var out []entity.OneTimeSlot
	for _, e := range r.s.oneTime {
		key := e.Date.Format("2006-01-02")
		if e.DoctorID == doctorID && key >= from && key <= to {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeOneTimeRepo) Update(db *gorm.DB, slot *entity.OneTimeSlot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.oneTime {
		if r.s.oneTime[i].ID == slot.ID {
			r.s.oneTime[i] = *slot
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeOneTimeRepo) Delete(db *gorm.DB, id int) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.oneTime {
		if r.s.oneTime[i].ID == id {
			r.s.oneTime = append(r.s.oneTime[:i], r.s.oneTime[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeOneTimeRepo) DeleteAllByDoctorID(db *gorm.DB, doctorID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.oneTime[:0]
	var n int64
	for _, e := range r.s.oneTime {
		if e.DoctorID == doctorID {
			n++
			continue
		}
		kept = append(kept, e)
	}
	r.s.oneTime = kept
	return n, nil
}

// =============================================================================
// Appointment
// =============================================================================

type fakeAppointmentRepo struct{ s *fakeStore }

func (r *fakeAppointmentRepo) Create(db *gorm.DB, appointment *entity.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.appointmentCreateErr != nil {
		return r.s.appointmentCreateErr
	}
	appointment.ID = uuid.New()
	r.s.appointments = append(r.s.appointments, *appointment)
	return nil
}

func (r *fakeAppointmentRepo) FindActiveByDoctorBetween(db *gorm.DB, doctorID uuid.UUID, from, to time.Time) ([]entity.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Appointment
	for _, a := range r.s.appointments {
		if a.DoctorID != doctorID || !a.IsActive() {
			continue
		}
		if !a.AppointmentTime.Before(from) && a.AppointmentTime.Before(to) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppointmentTime.Before(out[j].AppointmentTime) })
	return out, nil
}

// =============================================================================
// Slot removal request
// =============================================================================

type fakeRemovalRepo struct{ s *fakeStore }

func (r *fakeRemovalRepo) Create(db *gorm.DB, request *entity.SlotRemovalRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	request.ID = int64(r.s.id())
	r.s.requests = append(r.s.requests, *request)
	return nil
}

func (r *fakeRemovalRepo) FindByID(db *gorm.DB, id int64) (*entity.SlotRemovalRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.requests {
		if e.ID == id {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeRemovalRepo) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.SlotRemovalRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.SlotRemovalRequest
	for _, e := range r.s.requests {
		if e.DoctorID == doctorID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeRemovalRepo) FindAll(db *gorm.DB, filter *entity.RemovalRequestFilter) ([]entity.SlotRemovalRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.SlotRemovalRequest
	for _, e := range r.s.requests {
		if filter != nil && filter.Status != "" && string(e.Status) != filter.Status {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeRemovalRepo) ExistsPending(db *gorm.DB, doctorID uuid.UUID, slotType entity.SlotType, slotID int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.requests {
		if e.DoctorID == doctorID && e.SlotType == slotType && e.SlotID == slotID && e.IsPending() {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRemovalRepo) Review(db *gorm.DB, id int64, status entity.RemovalRequestStatus, reviewerID uuid.UUID, reviewedAt time.Time, note string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.requests {
		e := &r.s.requests[i]
		if e.ID == id && e.IsPending() {
			e.Status = status
			e.ReviewerID = &reviewerID
			e.ReviewedAt = &reviewedAt
			e.AdminNote = note
			return 1, nil
		}
	}
	return 0, nil
}

// =============================================================================
// Audit log
// =============================================================================

type fakeAuditLogRepo struct{ s *fakeStore }

func (r *fakeAuditLogRepo) Create(db *gorm.DB, log *entity.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	log.ID = int64(r.s.id())
	r.s.audits = append(r.s.audits, *log)
	return nil
}

func (r *fakeAuditLogRepo) FindAll(db *gorm.DB, limit int) ([]entity.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := append([]entity.AuditLog(nil), r.s.audits...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeAuditLogRepo) FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.audits {
		if e.ID == id {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) auditActions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.audits))
	for _, a := range s.audits {
		out = append(out, a.Action)
	}
	return out
}
