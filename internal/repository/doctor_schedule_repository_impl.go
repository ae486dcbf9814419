package repository

import (
	"errors"
	"time"

	"go-doctor-scheduling/internal/domain/entity"
	domainRepo "go-doctor-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =============================================================================
// Recurring schedule
// =============================================================================

type recurringScheduleRepository struct{}

func NewRecurringScheduleRepository() domainRepo.RecurringScheduleRepository {
	return &recurringScheduleRepository{}
}

func (r *recurringScheduleRepository) Create(db *gorm.DB, slot *entity.RecurringSchedule) error {
	return db.Create(slot).Error
}

func (r *recurringScheduleRepository) FindByID(db *gorm.DB, id int) (*entity.RecurringSchedule, error) {
	var slot entity.RecurringSchedule
	err := db.Where("id = ?", id).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *recurringScheduleRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.RecurringSchedule, error) {
	var slots []entity.RecurringSchedule
	err := db.Where("doctor_id = ?", doctorID).Order("day_of_week ASC, start_time ASC").Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *recurringScheduleRepository) FindActiveByDoctorAndDay(db *gorm.DB, doctorID uuid.UUID, day time.Weekday) ([]entity.RecurringSchedule, error) {
	var slots []entity.RecurringSchedule
	err := db.Where("doctor_id = ? AND day_of_week = ? AND active = ?", doctorID, int(day), true).
		Order("start_time ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *recurringScheduleRepository) Update(db *gorm.DB, slot *entity.RecurringSchedule) error {
	return db.Save(slot).Error
}

func (r *recurringScheduleRepository) Delete(db *gorm.DB, id int) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.RecurringSchedule{})
	return result.RowsAffected, result.Error
}

func (r *recurringScheduleRepository) DeleteAllByDoctorID(db *gorm.DB, doctorID uuid.UUID) (int64, error) {
	result := db.Where("doctor_id = ?", doctorID).Delete(&entity.RecurringSchedule{})
	return result.RowsAffected, result.Error
}

// =============================================================================
// Recurring break
// =============================================================================

type recurringBreakRepository struct{}

func NewRecurringBreakRepository() domainRepo.RecurringBreakRepository {
	return &recurringBreakRepository{}
}

func (r *recurringBreakRepository) Create(db *gorm.DB, brk *entity.RecurringBreak) error {
	return db.Create(brk).Error
}

func (r *recurringBreakRepository) FindByID(db *gorm.DB, id int) (*entity.RecurringBreak, error) {
	var brk entity.RecurringBreak
	err := db.Where("id = ?", id).First(&brk).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &brk, nil
}

func (r *recurringBreakRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.RecurringBreak, error) {
	var breaks []entity.RecurringBreak
	err := db.Where("doctor_id = ?", doctorID).Order("day_of_week ASC, start_time ASC").Find(&breaks).Error
	if err != nil {
		return nil, err
	}
	return breaks, nil
}

func (r *recurringBreakRepository) FindActiveByDoctorAndDay(db *gorm.DB, doctorID uuid.UUID, day time.Weekday) ([]entity.RecurringBreak, error) {
	var breaks []entity.RecurringBreak
	err := db.Where("doctor_id = ? AND day_of_week = ? AND active = ?", doctorID, int(day), true).
		Order("start_time ASC").
		Find(&breaks).Error
	if err != nil {
		return nil, err
	}
	return breaks, nil
}

func (r *recurringBreakRepository) Update(db *gorm.DB, brk *entity.RecurringBreak) error {
	return db.Save(brk).Error
}

func (r *recurringBreakRepository) Delete(db *gorm.DB, id int) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.RecurringBreak{})
	return result.RowsAffected, result.Error
}

func (r *recurringBreakRepository) DeleteAllByDoctorID(db *gorm.DB, doctorID uuid.UUID) (int64, error) {
	result := db.Where("doctor_id = ?", doctorID).Delete(&entity.RecurringBreak{})
	return result.RowsAffected, result.Error
}

// =============================================================================
// One-time slot
// =============================================================================

type oneTimeSlotRepository struct{}

func NewOneTimeSlotRepository() domainRepo.OneTimeSlotRepository {
	return &oneTimeSlotRepository{}
}

func (r *oneTimeSlotRepository) Create(db *gorm.DB, slot *entity.OneTimeSlot) error {
	return db.Create(slot).Error
}

func (r *oneTimeSlotRepository) FindByID(db *gorm.DB, id int) (*entity.OneTimeSlot, error) {
	var slot entity.OneTimeSlot
	err := db.Where("id = ?", id).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *oneTimeSlotRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.OneTimeSlot, error) {
	var slots []entity.OneTimeSlot
	err := db.Where("doctor_id = ?", doctorID).Order("date ASC, start_time ASC").Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *oneTimeSlotRepository) FindByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]entity.OneTimeSlot, error) {
	var slots []entity.OneTimeSlot
	err := db.Where("doctor_id = ? AND date = ?", doctorID, date.Format("2006-01-02")).
		Order("start_time ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *oneTimeSlotRepository) FindByDoctorAndDateRange(db *gorm.DB, doctorID uuid.UUID, start, end time.Time) ([]entity.OneTimeSlot, error) {
	var slots []entity.OneTimeSlot
	err := db.Where("doctor_id = ? AND date BETWEEN ? AND ?", doctorID, start.Format("2006-01-02"), end.Format("2006-01-02")).
		Order("date ASC, start_time ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *oneTimeSlotRepository) Update(db *gorm.DB, slot *entity.OneTimeSlot) error {
	return db.Save(slot).Error
}

func (r *oneTimeSlotRepository) Delete(db *gorm.DB, id int) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.OneTimeSlot{})
	return result.RowsAffected, result.Error
}

func (r *oneTimeSlotRepository) DeleteAllByDoctorID(db *gorm.DB, doctorID uuid.UUID) (int64, error) {
	result := db.Where("doctor_id = ?", doctorID).Delete(&entity.OneTimeSlot{})
	return result.RowsAffected, result.Error
}
