package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RecurringSchedule is a standing weekly working window.
type RecurringSchedule struct {
	ID        int            `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID  uuid.UUID      `gorm:"type:uuid;not null;index:idx_recurring_doctor_day" json:"doctor_id"`
	DayOfWeek time.Weekday   `gorm:"type:smallint;not null;index:idx_recurring_doctor_day" json:"day_of_week"`
	StartTime datatypes.Time `gorm:"type:time;not null" json:"start_time"`
	EndTime   datatypes.Time `gorm:"type:time;not null" json:"end_time"`
	Active    bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (RecurringSchedule) TableName() string {
	return "doctor_recurring_schedules"
}

// RecurringBreak is a standing weekly exclusion carved out of working time.
type RecurringBreak struct {
	ID        int            `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID  uuid.UUID      `gorm:"type:uuid;not null;index:idx_break_doctor_day" json:"doctor_id"`
	DayOfWeek time.Weekday   `gorm:"type:smallint;not null;index:idx_break_doctor_day" json:"day_of_week"`
	StartTime datatypes.Time `gorm:"type:time;not null" json:"start_time"`
	EndTime   datatypes.Time `gorm:"type:time;not null" json:"end_time"`
	Active    bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (RecurringBreak) TableName() string {
	return "doctor_recurring_breaks"
}

// OneTimeSlot is a date-specific override. Available=true adds working time
// on that date, Available=false blacks the window out.
type OneTimeSlot struct {
	ID        int            `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID  uuid.UUID      `gorm:"type:uuid;not null;index:idx_one_time_doctor_date" json:"doctor_id"`
	Date      time.Time      `gorm:"type:date;not null;index:idx_one_time_doctor_date" json:"date"`
	StartTime datatypes.Time `gorm:"type:time;not null" json:"start_time"`
	EndTime   datatypes.Time `gorm:"type:time;not null" json:"end_time"`
	Available bool           `gorm:"not null" json:"available"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (OneTimeSlot) TableName() string {
	return "doctor_one_time_slots"
}

// Clock returns the time-of-day as an offset from midnight.
func Clock(t datatypes.Time) time.Duration {
	return time.Duration(t)
}

// NewClock builds a time-of-day value from an offset from midnight.
func NewClock(d time.Duration) datatypes.Time {
	return datatypes.Time(d)
}

// FullSchedule groups every schedule entry of one doctor.
type FullSchedule struct {
	RecurringSlots  []RecurringSchedule
	OneTimeSlots    []OneTimeSlot
	RecurringBreaks []RecurringBreak
}

// ScheduleTemplate is an importable bundle of schedule entries. Incoming ids
// and doctor ids are ignored on import.
type ScheduleTemplate struct {
	RecurringSlots  []RecurringSchedule
	RecurringBreaks []RecurringBreak
	OneTimeSlots    []OneTimeSlot
}

// DayAvailability holds the bookable start times of one calendar date.
type DayAvailability struct {
	Date   time.Time
	Starts []time.Duration
}
