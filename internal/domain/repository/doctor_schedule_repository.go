package repository

import (
	"time"

	"go-doctor-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecurringScheduleRepository interface {
	Create(db *gorm.DB, slot *entity.RecurringSchedule) error
	FindByID(db *gorm.DB, id int) (*entity.RecurringSchedule, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.RecurringSchedule, error)
	FindActiveByDoctorAndDay(db *gorm.DB, doctorID uuid.UUID, day time.Weekday) ([]entity.RecurringSchedule, error)
	Update(db *gorm.DB, slot *entity.RecurringSchedule) error
	Delete(db *gorm.DB, id int) (int64, error)
	DeleteAllByDoctorID(db *gorm.DB, doctorID uuid.UUID) (int64, error)
}

type RecurringBreakRepository interface {
	Create(db *gorm.DB, brk *entity.RecurringBreak) error
	FindByID(db *gorm.DB, id int) (*entity.RecurringBreak, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.RecurringBreak, error)
	FindActiveByDoctorAndDay(db *gorm.DB, doctorID uuid.UUID, day time.Weekday) ([]entity.RecurringBreak, error)
	Update(db *gorm.DB, brk *entity.RecurringBreak) error
	Delete(db *gorm.DB, id int) (int64, error)
	DeleteAllByDoctorID(db *gorm.DB, doctorID uuid.UUID) (int64, error)
}

type OneTimeSlotRepository interface {
	Create(db *gorm.DB, slot *entity.OneTimeSlot) error
	FindByID(db *gorm.DB, id int) (*entity.OneTimeSlot, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.OneTimeSlot, error)
	FindByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]entity.OneTimeSlot, error)
	FindByDoctorAndDateRange(db *gorm.DB, doctorID uuid.UUID, start, end time.Time) ([]entity.OneTimeSlot, error)
	Update(db *gorm.DB, slot *entity.OneTimeSlot) error
	Delete(db *gorm.DB, id int) (int64, error)
	DeleteAllByDoctorID(db *gorm.DB, doctorID uuid.UUID) (int64, error)
}
