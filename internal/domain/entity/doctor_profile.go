package entity

import "github.com/google/uuid"

// DoctorProfile is the doctor identity every schedule entry hangs off.
// Account data lives with the identity collaborator; only what the
// schedule views need is mapped here.
type DoctorProfile struct {
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	FullName       string    `gorm:"type:varchar(255);not null" json:"full_name"`
	Specialization string    `gorm:"type:varchar(100);not null;index" json:"specialization"`

	// Relationships
	RecurringSchedules []RecurringSchedule `gorm:"foreignKey:DoctorID" json:"recurring_schedules,omitempty"`
	RecurringBreaks    []RecurringBreak    `gorm:"foreignKey:DoctorID" json:"recurring_breaks,omitempty"`
	OneTimeSlots       []OneTimeSlot       `gorm:"foreignKey:DoctorID" json:"one_time_slots,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}
