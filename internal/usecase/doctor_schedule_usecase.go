package usecase

import (
	"context"
	"strconv"
	"time"

	"go-doctor-scheduling/config"
	"go-doctor-scheduling/internal/domain/entity"
	"go-doctor-scheduling/internal/domain/repository"
	"go-doctor-scheduling/internal/observability/metrics"
	"go-doctor-scheduling/internal/service"
	"go-doctor-scheduling/pkg/interval"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	auditEntityRecurringSlot  = "doctor_recurring_schedule"
	auditEntityRecurringBreak = "doctor_recurring_break"
	auditEntityOneTimeSlot    = "doctor_one_time_slot"
	auditEntitySchedule       = "doctor_schedule"
)

type DoctorScheduleUsecase interface {
	CreateRecurringSlot(ctx context.Context, doctorID uuid.UUID, slot *entity.RecurringSchedule) (*entity.RecurringSchedule, error)
	UpdateRecurringSlot(ctx context.Context, doctorID uuid.UUID, slotID int, slot *entity.RecurringSchedule) (*entity.RecurringSchedule, error)
	DeleteRecurringSlot(ctx context.Context, doctorID uuid.UUID, slotID int) error

	CreateRecurringBreak(ctx context.Context, doctorID uuid.UUID, brk *entity.RecurringBreak) (*entity.RecurringBreak, error)
	UpdateRecurringBreak(ctx context.Context, doctorID uuid.UUID, breakID int, brk *entity.RecurringBreak) (*entity.RecurringBreak, error)
	DeleteRecurringBreak(ctx context.Context, doctorID uuid.UUID, breakID int) error

	CreateOneTimeSlot(ctx context.Context, doctorID uuid.UUID, slot *entity.OneTimeSlot) (*entity.OneTimeSlot, error)
	UpdateOneTimeSlot(ctx context.Context, doctorID uuid.UUID, slotID int, slot *entity.OneTimeSlot) (*entity.OneTimeSlot, error)
	DeleteOneTimeSlot(ctx context.Context, doctorID uuid.UUID, slotID int) error

	ReplaceWeek(ctx context.Context, doctorID uuid.UUID, slots []entity.RecurringSchedule) ([]entity.RecurringSchedule, error)
	ImportTemplate(ctx context.Context, doctorID uuid.UUID, template *entity.ScheduleTemplate) (*entity.FullSchedule, error)
}

type doctorScheduleUsecase struct {
	scheduleWriter
	recurringRepo repository.RecurringScheduleRepository
	breakRepo     repository.RecurringBreakRepository
	oneTimeRepo   repository.OneTimeSlotRepository
	auditService  service.AuditService
}

func NewDoctorScheduleUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorProfileRepo repository.DoctorProfileRepository,
	recurringRepo repository.RecurringScheduleRepository,
	breakRepo repository.RecurringBreakRepository,
	oneTimeRepo repository.OneTimeSlotRepository,
	auditService service.AuditService,
	lockService *service.ScheduleLockService,
	m *metrics.SchedulingMetrics,
	cfg config.ScheduleConfig,
) DoctorScheduleUsecase {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &doctorScheduleUsecase{
		scheduleWriter: scheduleWriter{
			db:                db,
			log:               log,
			doctorProfileRepo: doctorProfileRepo,
			lockService:       lockService,
			metrics:           m,
			loc:               loc,
			now:               time.Now,
		},
		recurringRepo: recurringRepo,
		breakRepo:     breakRepo,
		oneTimeRepo:   oneTimeRepo,
		auditService:  auditService,
	}
}

// =============================================================================
// Recurring slots
// =============================================================================

func (u *doctorScheduleUsecase) CreateRecurringSlot(ctx context.Context, doctorID uuid.UUID, slot *entity.RecurringSchedule) (*entity.RecurringSchedule, error) {
	candidate := recurringEntry(slot)
	if !candidate.span.Valid() {
		return nil, ErrInvalidTimeRange
	}
	if u.recurringOccurrenceEnded(slot.DayOfWeek, candidate.span.End) {
		return nil, ErrPastScheduleEdit
	}

	created := &entity.RecurringSchedule{
		DoctorID:  doctorID,
		DayOfWeek: slot.DayOfWeek,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
		Active:    slot.Active,
	}

	err := u.write(ctx, doctorID, entity.AuditActionRecurringSlotCreate, func(tx *gorm.DB) error {
		if err := u.checkRecurringOverlap(tx, doctorID, candidate); err != nil {
			return err
		}

		if err := u.recurringRepo.Create(tx, created); err != nil {
			u.log.Warnf("Failed to create recurring slot: %+v", err)
			return err
		}

		return u.auditService.LogCreate(ctx, tx, doctorID, entity.AuditActionRecurringSlotCreate, auditEntityRecurringSlot, strconv.Itoa(created.ID), created)
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Recurring slot created: id=%d, doctor=%s, day=%s", created.ID, doctorID, created.DayOfWeek)
	return created, nil
}

func (u *doctorScheduleUsecase) UpdateRecurringSlot(ctx context.Context, doctorID uuid.UUID, slotID int, slot *entity.RecurringSchedule) (*entity.RecurringSchedule, error) {
	candidate := recurringEntry(slot)
	candidate.id = slotID
	if !candidate.span.Valid() {
		return nil, ErrInvalidTimeRange
	}
	if u.recurringOccurrenceEnded(slot.DayOfWeek, candidate.span.End) {
		return nil, ErrPastScheduleEdit
	}

	var updated *entity.RecurringSchedule
	err := u.write(ctx, doctorID, entity.AuditActionRecurringSlotUpdate, func(tx *gorm.DB) error {
		existing, err := u.recurringRepo.FindByID(tx, slotID)
		if err != nil {
			u.log.Warnf("Failed to find recurring slot %d: %+v", slotID, err)
			return err
		}
		if existing == nil {
			return ErrScheduleEntryNotFound
		}
		if existing.DoctorID != doctorID {
			return ErrScheduleNotOwned
		}
		if u.recurringOccurrenceEnded(existing.DayOfWeek, entity.Clock(existing.EndTime)) {
			return ErrPastScheduleEdit
		}

		if err := u.checkRecurringOverlap(tx, doctorID, candidate); err != nil {
			return err
		}

		old := *existing
		existing.DayOfWeek = slot.DayOfWeek
		existing.StartTime = slot.StartTime
		existing.EndTime = slot.EndTime
		existing.Active = slot.Active

		if err := u.recurringRepo.Update(tx, existing); err != nil {
			u.log.Warnf("Failed to update recurring slot %d: %+v", slotID, err)
			return err
		}
		updated = existing

		return u.auditService.LogUpdate(ctx, tx, doctorID, entity.AuditActionRecurringSlotUpdate, auditEntityRecurringSlot, strconv.Itoa(slotID), old, existing)
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (u *doctorScheduleUsecase) DeleteRecurringSlot(ctx context.Context, doctorID uuid.UUID, slotID int) error {
	return u.write(ctx, doctorID, entity.AuditActionRecurringSlotDelete, func(tx *gorm.DB) error {
		existing, err := u.recurringRepo.FindByID(tx, slotID)
		if err != nil {
			u.log.Warnf("Failed to find recurring slot %d: %+v", slotID, err)
			return err
		}
		if existing == nil {
			return ErrScheduleEntryNotFound
		}
		if existing.DoctorID != doctorID {
			return ErrScheduleNotOwned
		}
		if u.recurringOccurrenceEnded(existing.DayOfWeek, entity.Clock(existing.EndTime)) {
			return ErrPastScheduleEdit
		}

		if _, err := u.recurringRepo.Delete(tx, slotID); err != nil {
			u.log.Warnf("Failed to delete recurring slot %d: %+v", slotID, err)
			return err
		}

		return u.auditService.LogDelete(ctx, tx, doctorID, entity.AuditActionRecurringSlotDelete, auditEntityRecurringSlot, strconv.Itoa(slotID), existing)
	})
}

func (u *doctorScheduleUsecase) checkRecurringOverlap(tx *gorm.DB, doctorID uuid.UUID, candidate weeklyEntry) error {
	if !candidate.active {
		return nil
	}
	others, err := u.recurringRepo.FindActiveByDoctorAndDay(tx, doctorID, candidate.weekday)
	if err != nil {
		u.log.Warnf("Failed to find recurring slots for overlap check: %+v", err)
		return err
	}
	entries := make([]weeklyEntry, len(others))
	for i := range others {
		entries[i] = recurringEntry(&others[i])
	}
	if findWeeklyOverlap(candidate, entries) {
		return ErrScheduleOverlap
	}
	return nil
}

// =============================================================================
// Recurring breaks
// =============================================================================

func (u *doctorScheduleUsecase) CreateRecurringBreak(ctx context.Context, doctorID uuid.UUID, brk *entity.RecurringBreak) (*entity.RecurringBreak, error) {
	candidate := breakEntry(brk)
	if !candidate.span.Valid() {
		return nil, ErrInvalidTimeRange
	}
	if u.recurringOccurrenceEnded(brk.DayOfWeek, candidate.span.End) {
		return nil, ErrPastScheduleEdit
	}

	created := &entity.RecurringBreak{
		DoctorID:  doctorID,
		DayOfWeek: brk.DayOfWeek,
		StartTime: brk.StartTime,
		EndTime:   brk.EndTime,
		Active:    brk.Active,
	}

	err := u.write(ctx, doctorID, entity.AuditActionRecurringBreakCreate, func(tx *gorm.DB) error {
		if err := u.checkBreakOverlap(tx, doctorID, candidate); err != nil {
			return err
		}

		if err := u.breakRepo.Create(tx, created); err != nil {
			u.log.Warnf("Failed to create recurring break: %+v", err)
			return err
		}

		return u.auditService.LogCreate(ctx, tx, doctorID, entity.AuditActionRecurringBreakCreate, auditEntityRecurringBreak, strconv.Itoa(created.ID), created)
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Recurring break created: id=%d, doctor=%s, day=%s", created.ID, doctorID, created.DayOfWeek)
	return created, nil
}

func (u *doctorScheduleUsecase) UpdateRecurringBreak(ctx context.Context, doctorID uuid.UUID, breakID int, brk *entity.RecurringBreak) (*entity.RecurringBreak, error) {
	candidate := breakEntry(brk)
	candidate.id = breakID
	if !candidate.span.Valid() {
		return nil, ErrInvalidTimeRange
	}
	if u.recurringOccurrenceEnded(brk.DayOfWeek, candidate.span.End) {
		return nil, ErrPastScheduleEdit
	}

	var updated *entity.RecurringBreak
	err := u.write(ctx, doctorID, entity.AuditActionRecurringBreakUpdate, func(tx *gorm.DB) error {
		existing, err := u.breakRepo.FindByID(tx, breakID)
		if err != nil {
			u.log.Warnf("Failed to find recurring break %d: %+v", breakID, err)
			return err
		}
		if existing == nil {
			return ErrScheduleEntryNotFound
		}
		if existing.DoctorID != doctorID {
			return ErrScheduleNotOwned
		}
		if u.recurringOccurrenceEnded(existing.DayOfWeek, entity.Clock(existing.EndTime)) {
			return ErrPastScheduleEdit
		}

		if err := u.checkBreakOverlap(tx, doctorID, candidate); err != nil {
			return err
		}

		old := *existing
		existing.DayOfWeek = brk.DayOfWeek
		existing.StartTime = brk.StartTime
		existing.EndTime = brk.EndTime
		existing.Active = brk.Active

		if err := u.breakRepo.Update(tx, existing); err != nil {
			u.log.Warnf("Failed to update recurring break %d: %+v", breakID, err)
			return err
		}
		updated = existing

		return u.auditService.LogUpdate(ctx, tx, doctorID, entity.AuditActionRecurringBreakUpdate, auditEntityRecurringBreak, strconv.Itoa(breakID), old, existing)
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (u *doctorScheduleUsecase) DeleteRecurringBreak(ctx context.Context, doctorID uuid.UUID, breakID int) error {
	return u.write(ctx, doctorID, entity.AuditActionRecurringBreakDelete, func(tx *gorm.DB) error {
		existing, err := u.breakRepo.FindByID(tx, breakID)
		if err != nil {
			u.log.Warnf("Failed to find recurring break %d: %+v", breakID, err)
			return err
		}
		if existing == nil {
			return ErrScheduleEntryNotFound
		}
		if existing.DoctorID != doctorID {
			return ErrScheduleNotOwned
		}
		if u.recurringOccurrenceEnded(existing.DayOfWeek, entity.Clock(existing.EndTime)) {
			return ErrPastScheduleEdit
		}

		if _, err := u.breakRepo.Delete(tx, breakID); err != nil {
			u.log.Warnf("Failed to delete recurring break %d: %+v", breakID, err)
			return err
		}

		return u.auditService.LogDelete(ctx, tx, doctorID, entity.AuditActionRecurringBreakDelete, auditEntityRecurringBreak, strconv.Itoa(breakID), existing)
	})
}

func (u *doctorScheduleUsecase) checkBreakOverlap(tx *gorm.DB, doctorID uuid.UUID, candidate weeklyEntry) error {
	if !candidate.active {
		return nil
	}
	others, err := u.breakRepo.FindActiveByDoctorAndDay(tx, doctorID, candidate.weekday)
	if err != nil {
		u.log.Warnf("Failed to find recurring breaks for overlap check: %+v", err)
		return err
	}
	entries := make([]weeklyEntry, len(others))
	for i := range others {
		entries[i] = breakEntry(&others[i])
	}
	if findWeeklyOverlap(candidate, entries) {
		return ErrScheduleOverlap
	}
	return nil
}

// =============================================================================
// One-time slots
// =============================================================================

// One-time slots are not checked for overlap; the resolver reconciles them
// at read time.

func (u *doctorScheduleUsecase) CreateOneTimeSlot(ctx context.Context, doctorID uuid.UUID, slot *entity.OneTimeSlot) (*entity.OneTimeSlot, error) {
	span := interval.New(entity.Clock(slot.StartTime), entity.Clock(slot.EndTime))
	if !span.Valid() {
		return nil, ErrInvalidTimeRange
	}
	if u.oneTimeEnded(slot.Date, span.End) {
		return nil, ErrPastScheduleEdit
	}

	created := &entity.OneTimeSlot{
		DoctorID:  doctorID,
		Date:      civilDate(slot.Date),
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
		Available: slot.Available,
	}

	err := u.write(ctx, doctorID, entity.AuditActionOneTimeSlotCreate, func(tx *gorm.DB) error {
		if err := u.oneTimeRepo.Create(tx, created); err != nil {
			u.log.Warnf("Failed to create one-time slot: %+v", err)
			return err
		}

		return u.auditService.LogCreate(ctx, tx, doctorID, entity.AuditActionOneTimeSlotCreate, auditEntityOneTimeSlot, strconv.Itoa(created.ID), created)
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("One-time slot created: id=%d, doctor=%s, date=%s, available=%t", created.ID, doctorID, dateKey(created.Date), created.Available)
	return created, nil
}

func (u *doctorScheduleUsecase) UpdateOneTimeSlot(ctx context.Context, doctorID uuid.UUID, slotID int, slot *entity.OneTimeSlot) (*entity.OneTimeSlot, error) {
	span := interval.New(entity.Clock(slot.StartTime), entity.Clock(slot.EndTime))
	if !span.Valid() {
		return nil, ErrInvalidTimeRange
	}
	if u.oneTimeEnded(slot.Date, span.End) {
		return nil, ErrPastScheduleEdit
	}

	var updated *entity.OneTimeSlot
	err := u.write(ctx, doctorID, entity.AuditActionOneTimeSlotUpdate, func(tx *gorm.DB) error {
		existing, err := u.oneTimeRepo.FindByID(tx, slotID)
		if err != nil {
			u.log.Warnf("Failed to find one-time slot %d: %+v", slotID, err)
			return err
		}
		if existing == nil {
			return ErrScheduleEntryNotFound
		}
		if existing.DoctorID != doctorID {
			return ErrScheduleNotOwned
		}
		if u.oneTimeEnded(existing.Date, entity.Clock(existing.EndTime)) {
			return ErrPastScheduleEdit
		}

		old := *existing
		existing.Date = civilDate(slot.Date)
		existing.StartTime = slot.StartTime
		existing.EndTime = slot.EndTime
		existing.Available = slot.Available

		if err := u.oneTimeRepo.Update(tx, existing); err != nil {
			u.log.Warnf("Failed to update one-time slot %d: %+v", slotID, err)
			return err
		}
		updated = existing

		return u.auditService.LogUpdate(ctx, tx, doctorID, entity.AuditActionOneTimeSlotUpdate, auditEntityOneTimeSlot, strconv.Itoa(slotID), old, existing)
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (u *doctorScheduleUsecase) DeleteOneTimeSlot(ctx context.Context, doctorID uuid.UUID, slotID int) error {
	return u.write(ctx, doctorID, entity.AuditActionOneTimeSlotDelete, func(tx *gorm.DB) error {
		existing, err := u.oneTimeRepo.FindByID(tx, slotID)
		if err != nil {
			u.log.Warnf("Failed to find one-time slot %d: %+v", slotID, err)
			return err
		}
		if existing == nil {
			return ErrScheduleEntryNotFound
		}
		if existing.DoctorID != doctorID {
			return ErrScheduleNotOwned
		}
		if u.oneTimeEnded(existing.Date, entity.Clock(existing.EndTime)) {
			return ErrPastScheduleEdit
		}

		if _, err := u.oneTimeRepo.Delete(tx, slotID); err != nil {
			u.log.Warnf("Failed to delete one-time slot %d: %+v", slotID, err)
			return err
		}

		return u.auditService.LogDelete(ctx, tx, doctorID, entity.AuditActionOneTimeSlotDelete, auditEntityOneTimeSlot, strconv.Itoa(slotID), existing)
	})
}

// =============================================================================
// Bulk operations
// =============================================================================

// ReplaceWeek swaps the doctor's recurring slots for slots. The whole input
// is validated before the first write; the delete and every insert share one
// transaction.
func (u *doctorScheduleUsecase) ReplaceWeek(ctx context.Context, doctorID uuid.UUID, slots []entity.RecurringSchedule) ([]entity.RecurringSchedule, error) {
	if err := validateRecurringSlots(slots); err != nil {
		return nil, err
	}

	created := make([]entity.RecurringSchedule, 0, len(slots))
	err := u.write(ctx, doctorID, entity.AuditActionScheduleReplaceWeek, func(tx *gorm.DB) error {
		deleted, err := u.recurringRepo.DeleteAllByDoctorID(tx, doctorID)
		if err != nil {
			u.log.Warnf("Failed to delete recurring slots of doctor %s: %+v", doctorID, err)
			return err
		}

		for _, s := range slots {
			slot := entity.RecurringSchedule{
				DoctorID:  doctorID,
				DayOfWeek: s.DayOfWeek,
				StartTime: s.StartTime,
				EndTime:   s.EndTime,
				Active:    s.Active,
			}
			if err := u.recurringRepo.Create(tx, &slot); err != nil {
				u.log.Warnf("Failed to create recurring slot during week replace: %+v", err)
				return err
			}
			created = append(created, slot)
		}

		return u.auditService.LogUpdate(ctx, tx, doctorID, entity.AuditActionScheduleReplaceWeek, auditEntitySchedule, doctorID.String(),
			map[string]interface{}{"recurring_slots_deleted": deleted},
			map[string]interface{}{"recurring_slots": created},
		)
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Week replaced: doctor=%s, slots=%d", doctorID, len(created))
	return created, nil
}

// ImportTemplate replaces all three categories of the doctor's schedule with
// the template. Entries are re-parented to doctorID and always inserted as
// new rows.
func (u *doctorScheduleUsecase) ImportTemplate(ctx context.Context, doctorID uuid.UUID, template *entity.ScheduleTemplate) (*entity.FullSchedule, error) {
	if err := validateRecurringSlots(template.RecurringSlots); err != nil {
		return nil, err
	}
	if err := validateRecurringBreaks(template.RecurringBreaks); err != nil {
		return nil, err
	}
	for _, o := range template.OneTimeSlots {
		end := entity.Clock(o.EndTime)
		if !interval.New(entity.Clock(o.StartTime), end).Valid() {
			return nil, ErrInvalidTimeRange
		}
		if u.oneTimeEnded(o.Date, end) {
			return nil, ErrPastScheduleEdit
		}
	}

	result := &entity.FullSchedule{
		RecurringSlots:  make([]entity.RecurringSchedule, 0, len(template.RecurringSlots)),
		OneTimeSlots:    make([]entity.OneTimeSlot, 0, len(template.OneTimeSlots)),
		RecurringBreaks: make([]entity.RecurringBreak, 0, len(template.RecurringBreaks)),
	}

	err := u.write(ctx, doctorID, entity.AuditActionScheduleImport, func(tx *gorm.DB) error {
		if _, err := u.recurringRepo.DeleteAllByDoctorID(tx, doctorID); err != nil {
			u.log.Warnf("Failed to clear recurring slots of doctor %s: %+v", doctorID, err)
			return err
		}
		if _, err := u.breakRepo.DeleteAllByDoctorID(tx, doctorID); err != nil {
			u.log.Warnf("Failed to clear recurring breaks of doctor %s: %+v", doctorID, err)
			return err
		}
		if _, err := u.oneTimeRepo.DeleteAllByDoctorID(tx, doctorID); err != nil {
			u.log.Warnf("Failed to clear one-time slots of doctor %s: %+v", doctorID, err)
			return err
		}

		for _, s := range template.RecurringSlots {
			slot := entity.RecurringSchedule{
				DoctorID:  doctorID,
				DayOfWeek: s.DayOfWeek,
				StartTime: s.StartTime,
				EndTime:   s.EndTime,
				Active:    s.Active,
			}
			if err := u.recurringRepo.Create(tx, &slot); err != nil {
				u.log.Warnf("Failed to import recurring slot: %+v", err)
				return err
			}
			result.RecurringSlots = append(result.RecurringSlots, slot)
		}
		for _, b := range template.RecurringBreaks {
			brk := entity.RecurringBreak{
				DoctorID:  doctorID,
				DayOfWeek: b.DayOfWeek,
				StartTime: b.StartTime,
				EndTime:   b.EndTime,
				Active:    b.Active,
			}
			if err := u.breakRepo.Create(tx, &brk); err != nil {
				u.log.Warnf("Failed to import recurring break: %+v", err)
				return err
			}
			result.RecurringBreaks = append(result.RecurringBreaks, brk)
		}
		for _, o := range template.OneTimeSlots {
			slot := entity.OneTimeSlot{
				DoctorID:  doctorID,
				Date:      civilDate(o.Date),
				StartTime: o.StartTime,
				EndTime:   o.EndTime,
				Available: o.Available,
			}
			if err := u.oneTimeRepo.Create(tx, &slot); err != nil {
				u.log.Warnf("Failed to import one-time slot: %+v", err)
				return err
			}
			result.OneTimeSlots = append(result.OneTimeSlots, slot)
		}

		return u.auditService.LogCreate(ctx, tx, doctorID, entity.AuditActionScheduleImport, auditEntitySchedule, doctorID.String(), map[string]interface{}{
			"recurring_slots":  len(result.RecurringSlots),
			"recurring_breaks": len(result.RecurringBreaks),
			"one_time_slots":   len(result.OneTimeSlots),
		})
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Schedule template imported: doctor=%s, recurring=%d, breaks=%d, one_time=%d",
		doctorID, len(result.RecurringSlots), len(result.RecurringBreaks), len(result.OneTimeSlots))
	return result, nil
}

// =============================================================================
// Helpers
// =============================================================================

func recurringEntry(s *entity.RecurringSchedule) weeklyEntry {
	return weeklyEntry{
		id:      s.ID,
		weekday: s.DayOfWeek,
		span:    interval.New(entity.Clock(s.StartTime), entity.Clock(s.EndTime)),
		active:  s.Active,
	}
}

func breakEntry(b *entity.RecurringBreak) weeklyEntry {
	return weeklyEntry{
		id:      b.ID,
		weekday: b.DayOfWeek,
		span:    interval.New(entity.Clock(b.StartTime), entity.Clock(b.EndTime)),
		active:  b.Active,
	}
}

// validateRecurringSlots rejects bad ranges and overlaps inside a batch.
// Incoming ids are ignored.
func validateRecurringSlots(slots []entity.RecurringSchedule) error {
	entries := make([]weeklyEntry, len(slots))
	for i := range slots {
		entries[i] = recurringEntry(&slots[i])
		entries[i].id = 0
		if !entries[i].span.Valid() {
			return ErrInvalidTimeRange
		}
	}
	if templateHasOverlap(entries) {
		return ErrScheduleOverlap
	}
	return nil
}

func validateRecurringBreaks(breaks []entity.RecurringBreak) error {
	entries := make([]weeklyEntry, len(breaks))
	for i := range breaks {
		entries[i] = breakEntry(&breaks[i])
		entries[i].id = 0
		if !entries[i].span.Valid() {
			return ErrInvalidTimeRange
		}
	}
	if templateHasOverlap(entries) {
		return ErrScheduleOverlap
	}
	return nil
}
