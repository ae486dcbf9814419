package usecase

import (
	"context"
	"testing"
	"time"

	"go-doctor-scheduling/internal/domain/entity"
	"go-doctor-scheduling/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scheduleFixture struct {
	uc       *doctorScheduleUsecase
	store    *fakeStore
	mock     sqlmock.Sqlmock
	doctorID uuid.UUID
}

func newScheduleFixture(t *testing.T) *scheduleFixture {
	t.Helper()
	doctorID := uuid.New()
	store := newFakeStore(doctorID)
	db, mock := newMockDB(t)
	log := quietLogger()

	uc := NewDoctorScheduleUsecase(
		db,
		log,
		&fakeDoctorProfileRepo{store},
		&fakeRecurringRepo{store},
		&fakeBreakRepo{store},
		&fakeOneTimeRepo{store},
		service.NewAuditService(log, &fakeAuditLogRepo{store}),
		newTestLockService(t),
		nil,
		testScheduleConfig(),
	).(*doctorScheduleUsecase)
	uc.now = func() time.Time { return testNow }

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	return &scheduleFixture{uc: uc, store: store, mock: mock, doctorID: doctorID}
}

func (f *scheduleFixture) expectCommit() {
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
}

func (f *scheduleFixture) expectRollback() {
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
}

// =============================================================================
// Recurring slots
// =============================================================================

func TestCreateRecurringSlot(t *testing.T) {
	f := newScheduleFixture(t)
	f.expectCommit()

	created, err := f.uc.CreateRecurringSlot(context.Background(), f.doctorID, &entity.RecurringSchedule{
		DayOfWeek: time.Monday,
		StartTime: clk(t, "09:00"),
		EndTime:   clk(t, "12:00"),
		Active:    true,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, f.doctorID, created.DoctorID)
	assert.Len(t, f.store.recurring, 1)
	assert.Equal(t, []string{entity.AuditActionRecurringSlotCreate}, f.store.auditActions())
}

func TestCreateRecurringSlot_IgnoresCallerSuppliedOwner(t *testing.T) {
	f := newScheduleFixture(t)
	f.expectCommit()

	created, err := f.uc.CreateRecurringSlot(context.Background(), f.doctorID, &entity.RecurringSchedule{
		ID:        99,
		DoctorID:  uuid.New(),
		DayOfWeek: time.Monday,
		StartTime: clk(t, "09:00"),
		EndTime:   clk(t, "10:00"),
		Active:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, f.doctorID, created.DoctorID)
	assert.NotEqual(t, 99, created.ID)
}

func TestCreateRecurringSlot_Overlap(t *testing.T) {
	f := newScheduleFixture(t)
	f.store.addRecurring(f.doctorID, time.Monday, clk(t, "09:00"), clk(t, "12:00"))
	f.expectRollback()

	_, err := f.uc.CreateRecurringSlot(context.Background(), f.doctorID, &entity.RecurringSchedule{
		DayOfWeek: time.Monday,
		StartTime: clk(t, "11:00"),
		EndTime:   clk(t, "13:00"),
		Active:    true,
	})
	assert.ErrorIs(t, err, ErrScheduleOverlap)
	assert.Len(t, f.store.recurring, 1)
	assert.Empty(t, f.store.auditActions())
}

func TestCreateRecurringSlot_AdjacentAndOtherDayAllowed(t *testing.T) {
	f := newScheduleFixture(t)
	f.store.addRecurring(f.doctorID, time.Monday, clk(t, "09:00"), clk(t, "12:00"))
	f.expectCommit()
	f.expectCommit()

	_, err := f.uc.CreateRecurringSlot(context.Background(), f.doctorID, &entity.RecurringSchedule{
		DayOfWeek: time.Monday, StartTime: clk(t, "12:00"), EndTime: clk(t, "13:00"), Active: true,
	})
	require.NoError(t, err)

	_, err = f.uc.CreateRecurringSlot(context.Background(), f.doctorID, &entity.RecurringSchedule{
		DayOfWeek: time.Thursday, StartTime: clk(t, "09:00"), EndTime: clk(t, "12:00"), Active: true,
	})
	require.NoError(t, err)
}

func TestCreateRecurringSlot_InactiveSkipsOverlapCheck(t *testing.T) {
	f := newScheduleFixture(t)
	f.store.addRecurring(f.doctorID, time.Monday, clk(t, "09:00"), clk(t, "12:00"))
	f.expectCommit()

	_, err := f.uc.CreateRecurringSlot(context.Background(), f.doctorID, &entity.RecurringSchedule{
		DayOfWeek: time.Monday, StartTime: clk(t, "10:00"), EndTime: clk(t, "11:00"), Active: false,
	})
	require.NoError(t, err)
}

func TestCreateRecurringSlot_RejectedBeforeAnyWrite(t *testing.T) {
	f := newScheduleFixture(t)

	tests := []struct {
		name    string
		slot    entity.RecurringSchedule
		wantErr error
	}{
		{
			name:    "start equals end",
			slot:    entity.RecurringSchedule{DayOfWeek: time.Monday, StartTime: clk(t, "10:00"), EndTime: clk(t, "10:00")},
			wantErr: ErrInvalidTimeRange,
		},
		{
			name:    "start after end",
			slot:    entity.RecurringSchedule{DayOfWeek: time.Monday, StartTime: clk(t, "11:00"), EndTime: clk(t, "10:00")},
			wantErr: ErrInvalidTimeRange,
		},
		{
			// testNow is Tuesday 08:00, so today's 06:00-07:30 occurrence is over.
			name:    "today's occurrence already ended",
			slot:    entity.RecurringSchedule{DayOfWeek: time.Tuesday, StartTime: clk(t, "06:00"), EndTime: clk(t, "07:30"), Active: true},
			wantErr: ErrPastScheduleEdit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot := tt.slot
			_, err := f.uc.CreateRecurringSlot(context.Background(), f.doctorID, &slot)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, f.store.recurring)
}

func TestCreateRecurringSlot_TodayStillRunningIsEditable(t *testing.T) {
	f := newScheduleFixture(t)
	f.expectCommit()

	_, err := f.uc.CreateRecurringSlot(context.Background(), f.doctorID, &entity.RecurringSchedule{
		DayOfWeek: time.Tuesday, StartTime: clk(t, "07:00"), EndTime: clk(t, "09:00"), Active: true,
	})
	require.NoError(t, err)
}

func TestCreateRecurringSlot_UnknownDoctor(t *testing.T) {
	f := newScheduleFixture(t)
	f.expectRollback()

	_, err := f.uc.CreateRecurringSlot(context.Background(), uuid.New(), &entity.RecurringSchedule{
		DayOfWeek: time.Monday, StartTime: clk(t, "09:00"), EndTime: clk(t, "10:00"), Active: true,
	})
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestUpdateRecurringSlot(t *testing.T) {
	f := newScheduleFixture(t)
	existing := f.store.addRecurring(f.doctorID, time.Monday, clk(t, "09:00"), clk(t, "12:00"))
	f.store.addRecurring(f.doctorID, time.Monday, clk(t, "13:00"), clk(t, "15:00"))
	f.expectCommit()

	// Moving within its own old range must not count as overlapping itself.
	updated, err := f.uc.UpdateRecurringSlot(context.Background(), f.doctorID, existing.ID, &entity.RecurringSchedule{
		DayOfWeek: time.Monday, StartTime: clk(t, "08:00"), EndTime: clk(t, "13:00"), Active: true,
	})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, updated.ID)
	assert.Equal(t, clk(t, "08:00"), updated.StartTime)
	assert.Equal(t, []string{entity.AuditActionRecurringSlotUpdate}, f.store.auditActions())
}

func TestUpdateRecurringSlot_Failures(t *testing.T) {
	f := newScheduleFixture(t)
	other := f.store.addRecurring(uuid.New(), time.Monday, clk(t, "09:00"), clk(t, "12:00"))
	mine := f.store.addRecurring(f.doctorID, time.Monday, clk(t, "09:00"), clk(t, "12:00"))
	neighbour := f.store.addRecurring(f.doctorID, time.Monday, clk(t, "13:00"), clk(t, "15:00"))
	endedToday := f.store.addRecurring(f.doctorID, time.Tuesday, clk(t, "06:00"), clk(t, "07:00"))

	tests := []struct {
		name    string
		id      int
		slot    entity.RecurringSchedule
		wantErr error
	}{
		{
			name:    "not found",
			id:      12345,
			slot:    entity.RecurringSchedule{DayOfWeek: time.Monday, StartTime: clk(t, "09:00"), EndTime: clk(t, "10:00"), Active: true},
			wantErr: ErrScheduleEntryNotFound,
		},
		{
			name:    "owned by another doctor",
			id:      other.ID,
			slot:    entity.RecurringSchedule{DayOfWeek: time.Monday, StartTime: clk(t, "09:00"), EndTime: clk(t, "10:00"), Active: true},
			wantErr: ErrScheduleNotOwned,
		},
		{
			name:    "overlaps neighbour",
			id:      mine.ID,
			slot:    entity.RecurringSchedule{DayOfWeek: time.Monday, StartTime: clk(t, "09:00"), EndTime: clk(t, "14:00"), Active: true},
			wantErr: ErrScheduleOverlap,
		},
		{
			name:    "stored occurrence already ended",
			id:      endedToday.ID,
			slot:    entity.RecurringSchedule{DayOfWeek: time.Wednesday, StartTime: clk(t, "06:00"), EndTime: clk(t, "07:00"), Active: true},
			wantErr: ErrPastScheduleEdit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.expectRollback()
			slot := tt.slot
			_, err := f.uc.UpdateRecurringSlot(context.Background(), f.doctorID, tt.id, &slot)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	got, err := (&fakeRecurringRepo{f.store}).FindByID(nil, neighbour.ID)
	require.NoError(t, err)
	assert.Equal(t, clk(t, "13:00"), got.StartTime)
}

func TestDeleteRecurringSlot(t *testing.T) {
	f := newScheduleFixture(t)
	mine := f.store.addRecurring(f.doctorID, time.Monday, clk(t, "09:00"), clk(t, "12:00"))
	other := f.store.addRecurring(uuid.New(), time.Monday, clk(t, "09:00"), clk(t, "12:00"))

	f.expectRollback()
	err := f.uc.DeleteRecurringSlot(context.Background(), f.doctorID, other.ID)
	assert.ErrorIs(t, err, ErrScheduleNotOwned)

	f.expectCommit()
	err = f.uc.DeleteRecurringSlot(context.Background(), f.doctorID, mine.ID)
	require.NoError(t, err)
	assert.Len(t, f.store.recurring, 1)
	assert.Equal(t, []string{entity.AuditActionRecurringSlotDelete}, f.store.auditActions())

	f.expectRollback()
	err = f.uc.DeleteRecurringSlot(context.Background(), f.doctorID, mine.ID)
	assert.ErrorIs(t, err, ErrScheduleEntryNotFound)
}

// =============================================================================
// Recurring breaks
// =============================================================================

func TestRecurringBreakLifecycle(t *testing.T) {
	f := newScheduleFixture(t)
	// A break does not need to sit inside a working window, and may overlap
	// working time.
	f.store.addRecurring(f.doctorID, time.Monday, clk(t, "09:00"), clk(t, "12:00"))

	f.expectCommit()
	brk, err := f.uc.CreateRecurringBreak(context.Background(), f.doctorID, &entity.RecurringBreak{
		DayOfWeek: time.Monday, StartTime: clk(t, "10:00"), EndTime: clk(t, "10:30"), Active: true,
	})
	require.NoError(t, err)

	f.expectRollback()
	_, err = f.uc.CreateRecurringBreak(context.Background(), f.doctorID, &entity.RecurringBreak{
		DayOfWeek: time.Monday, StartTime: clk(t, "10:15"), EndTime: clk(t, "10:45"), Active: true,
	})
	assert.ErrorIs(t, err, ErrScheduleOverlap)

	f.expectCommit()
	updated, err := f.uc.UpdateRecurringBreak(context.Background(), f.doctorID, brk.ID, &entity.RecurringBreak{
		DayOfWeek: time.Monday, StartTime: clk(t, "10:15"), EndTime: clk(t, "10:45"), Active: true,
	})
	require.NoError(t, err)
	assert.Equal(t, clk(t, "10:45"), updated.EndTime)

	f.expectCommit()
	require.NoError(t, f.uc.DeleteRecurringBreak(context.Background(), f.doctorID, brk.ID))
	assert.Empty(t, f.store.breaks)

	assert.Equal(t, []string{
		entity.AuditActionRecurringBreakCreate,
		entity.AuditActionRecurringBreakUpdate,
		entity.AuditActionRecurringBreakDelete,
	}, f.store.auditActions())
}

// =============================================================================
// One-time slots
// =============================================================================

func TestOneTimeSlotLifecycle(t *testing.T) {
	f := newScheduleFixture(t)

	f.expectCommit()
	slot, err := f.uc.CreateOneTimeSlot(context.Background(), f.doctorID, &entity.OneTimeSlot{
		Date:      time.Date(2030, 1, 7, 15, 30, 0, 0, time.UTC),
		StartTime: clk(t, "09:00"),
		EndTime:   clk(t, "10:00"),
		Available: false,
	})
	require.NoError(t, err)
	assert.Equal(t, date(2030, 1, 7), slot.Date, "date is truncated to the calendar day")

	// One-time entries may overlap each other; the resolver reconciles them.
	f.expectCommit()
	_, err = f.uc.CreateOneTimeSlot(context.Background(), f.doctorID, &entity.OneTimeSlot{
		Date: date(2030, 1, 7), StartTime: clk(t, "09:30"), EndTime: clk(t, "11:00"), Available: true,
	})
	require.NoError(t, err)

	f.expectCommit()
	updated, err := f.uc.UpdateOneTimeSlot(context.Background(), f.doctorID, slot.ID, &entity.OneTimeSlot{
		Date: date(2030, 1, 8), StartTime: clk(t, "09:00"), EndTime: clk(t, "09:30"), Available: true,
	})
	require.NoError(t, err)
	assert.Equal(t, date(2030, 1, 8), updated.Date)
	assert.True(t, updated.Available)

	f.expectCommit()
	require.NoError(t, f.uc.DeleteOneTimeSlot(context.Background(), f.doctorID, slot.ID))
	assert.Len(t, f.store.oneTime, 1)
}

func TestOneTimeSlot_PastEditRejected(t *testing.T) {
	f := newScheduleFixture(t)
	past := f.store.addOneTime(f.doctorID, date(2029, 12, 31), clk(t, "09:00"), clk(t, "10:00"), true)

	_, err := f.uc.CreateOneTimeSlot(context.Background(), f.doctorID, &entity.OneTimeSlot{
		Date: date(2029, 12, 31), StartTime: clk(t, "09:00"), EndTime: clk(t, "10:00"), Available: true,
	})
	assert.ErrorIs(t, err, ErrPastScheduleEdit)

	// Today, ended at 07:00 while testNow is 08:00.
	_, err = f.uc.CreateOneTimeSlot(context.Background(), f.doctorID, &entity.OneTimeSlot{
		Date: date(2030, 1, 1), StartTime: clk(t, "06:00"), EndTime: clk(t, "07:00"), Available: false,
	})
	assert.ErrorIs(t, err, ErrPastScheduleEdit)

	f.expectRollback()
	_, err = f.uc.UpdateOneTimeSlot(context.Background(), f.doctorID, past.ID, &entity.OneTimeSlot{
		Date: date(2030, 1, 7), StartTime: clk(t, "09:00"), EndTime: clk(t, "10:00"), Available: true,
	})
	assert.ErrorIs(t, err, ErrPastScheduleEdit)

	f.expectRollback()
	err = f.uc.DeleteOneTimeSlot(context.Background(), f.doctorID, past.ID)
	assert.ErrorIs(t, err, ErrPastScheduleEdit)
}

// =============================================================================
// Bulk operations
// =============================================================================

func TestReplaceWeek(t *testing.T) {
	f := newScheduleFixture(t)
	f.store.addRecurring(f.doctorID, time.Monday, clk(t, "09:00"), clk(t, "12:00"))
	f.store.addRecurring(f.doctorID, time.Friday, clk(t, "09:00"), clk(t, "12:00"))
	otherDoctor := uuid.New()
	f.store.addRecurring(otherDoctor, time.Monday, clk(t, "09:00"), clk(t, "12:00"))
	f.expectCommit()

	created, err := f.uc.ReplaceWeek(context.Background(), f.doctorID, []entity.RecurringSchedule{
		{ID: 1, DayOfWeek: time.Tuesday, StartTime: clk(t, "08:00"), EndTime: clk(t, "12:00"), Active: true},
		{DayOfWeek: time.Tuesday, StartTime: clk(t, "12:00"), EndTime: clk(t, "16:00"), Active: true},
		{DayOfWeek: time.Thursday, StartTime: clk(t, "10:00"), EndTime: clk(t, "14:00"), Active: true},
	})
	require.NoError(t, err)
	require.Len(t, created, 3)

	mine, _ := (&fakeRecurringRepo{f.store}).FindByDoctorID(nil, f.doctorID)
	assert.Len(t, mine, 3)
	for _, s := range mine {
		assert.NotEqual(t, time.Monday, s.DayOfWeek)
		assert.NotEqual(t, time.Friday, s.DayOfWeek)
	}
	theirs, _ := (&fakeRecurringRepo{f.store}).FindByDoctorID(nil, otherDoctor)
	assert.Len(t, theirs, 1)
	assert.Equal(t, []string{entity.AuditActionScheduleReplaceWeek}, f.store.auditActions())
}

func TestReplaceWeek_MalformedEntryLeavesWeekIntact(t *testing.T) {
	f := newScheduleFixture(t)
	f.store.addRecurring(f.doctorID, time.Monday, clk(t, "09:00"), clk(t, "12:00"))
	f.store.addRecurring(f.doctorID, time.Friday, clk(t, "09:00"), clk(t, "12:00"))
	before := append([]entity.RecurringSchedule(nil), f.store.recurring...)

	_, err := f.uc.ReplaceWeek(context.Background(), f.doctorID, []entity.RecurringSchedule{
		{DayOfWeek: time.Tuesday, StartTime: clk(t, "08:00"), EndTime: clk(t, "12:00"), Active: true},
		{DayOfWeek: time.Wednesday, StartTime: clk(t, "15:00"), EndTime: clk(t, "14:00"), Active: true},
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
	assert.Equal(t, before, f.store.recurring)
}

func TestReplaceWeek_OverlappingTemplate(t *testing.T) {
	f := newScheduleFixture(t)

	_, err := f.uc.ReplaceWeek(context.Background(), f.doctorID, []entity.RecurringSchedule{
		{DayOfWeek: time.Tuesday, StartTime: clk(t, "08:00"), EndTime: clk(t, "12:00"), Active: true},
		{DayOfWeek: time.Tuesday, StartTime: clk(t, "11:00"), EndTime: clk(t, "13:00"), Active: true},
	})
	assert.ErrorIs(t, err, ErrScheduleOverlap)
}

func TestReplaceWeek_InsertFailureRollsBack(t *testing.T) {
	f := newScheduleFixture(t)
	f.store.addRecurring(f.doctorID, time.Monday, clk(t, "09:00"), clk(t, "12:00"))
	f.store.failRecurringCreateAfter = 2
	f.expectRollback()

	_, err := f.uc.ReplaceWeek(context.Background(), f.doctorID, []entity.RecurringSchedule{
		{DayOfWeek: time.Tuesday, StartTime: clk(t, "08:00"), EndTime: clk(t, "12:00"), Active: true},
		{DayOfWeek: time.Thursday, StartTime: clk(t, "08:00"), EndTime: clk(t, "12:00"), Active: true},
	})
	assert.ErrorIs(t, err, errInjected)
	assert.Empty(t, f.store.auditActions())
}

func TestImportTemplate(t *testing.T) {
	f := newScheduleFixture(t)
	f.store.addRecurring(f.doctorID, time.Monday, clk(t, "09:00"), clk(t, "12:00"))
	f.store.addBreak(f.doctorID, time.Monday, clk(t, "10:00"), clk(t, "10:30"))
	f.store.addOneTime(f.doctorID, date(2030, 1, 7), clk(t, "14:00"), clk(t, "15:00"), true)
	sourceDoctor := uuid.New()
	f.expectCommit()

	got, err := f.uc.ImportTemplate(context.Background(), f.doctorID, &entity.ScheduleTemplate{
		RecurringSlots: []entity.RecurringSchedule{
			{ID: 500, DoctorID: sourceDoctor, DayOfWeek: time.Wednesday, StartTime: clk(t, "09:00"), EndTime: clk(t, "17:00"), Active: true},
		},
		RecurringBreaks: []entity.RecurringBreak{
			{ID: 501, DoctorID: sourceDoctor, DayOfWeek: time.Wednesday, StartTime: clk(t, "12:00"), EndTime: clk(t, "13:00"), Active: true},
		},
		OneTimeSlots: []entity.OneTimeSlot{
			{ID: 502, DoctorID: sourceDoctor, Date: date(2030, 1, 9), StartTime: clk(t, "09:00"), EndTime: clk(t, "12:00"), Available: false},
		},
	})
	require.NoError(t, err)

	require.Len(t, got.RecurringSlots, 1)
	require.Len(t, got.RecurringBreaks, 1)
	require.Len(t, got.OneTimeSlots, 1)
	assert.Equal(t, f.doctorID, got.RecurringSlots[0].DoctorID)
	assert.Equal(t, f.doctorID, got.RecurringBreaks[0].DoctorID)
	assert.Equal(t, f.doctorID, got.OneTimeSlots[0].DoctorID)
	assert.NotEqual(t, 500, got.RecurringSlots[0].ID)
	assert.NotEqual(t, 501, got.RecurringBreaks[0].ID)
	assert.NotEqual(t, 502, got.OneTimeSlots[0].ID)

	assert.Len(t, f.store.recurring, 1)
	assert.Len(t, f.store.breaks, 1)
	assert.Len(t, f.store.oneTime, 1)
	assert.Equal(t, time.Wednesday, f.store.recurring[0].DayOfWeek)
}

func TestImportTemplate_Validation(t *testing.T) {
	f := newScheduleFixture(t)

	_, err := f.uc.ImportTemplate(context.Background(), f.doctorID, &entity.ScheduleTemplate{
		RecurringBreaks: []entity.RecurringBreak{
			{DayOfWeek: time.Monday, StartTime: clk(t, "12:00"), EndTime: clk(t, "12:00"), Active: true},
		},
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = f.uc.ImportTemplate(context.Background(), f.doctorID, &entity.ScheduleTemplate{
		OneTimeSlots: []entity.OneTimeSlot{
			{Date: date(2029, 6, 1), StartTime: clk(t, "09:00"), EndTime: clk(t, "10:00"), Available: true},
		},
	})
	assert.ErrorIs(t, err, ErrPastScheduleEdit)
}
