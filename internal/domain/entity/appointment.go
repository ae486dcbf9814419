package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusBooked      AppointmentStatus = "booked"
	AppointmentStatusRescheduled AppointmentStatus = "rescheduled"
	AppointmentStatusCompleted   AppointmentStatus = "completed"
	AppointmentStatusCancelled   AppointmentStatus = "cancelled"
)

// ActiveAppointmentStatuses are the statuses that occupy a doctor's time.
var ActiveAppointmentStatuses = []AppointmentStatus{
	AppointmentStatusBooked,
	AppointmentStatusRescheduled,
}

// Appointment is owned by the booking workflow; the scheduling core only
// reads it, except for the guarded insert in the booking usecase.
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	AppointmentTime time.Time         `gorm:"type:timestamptz;not null;index" json:"appointment_time"`
	Status          AppointmentStatus `gorm:"type:varchar(20);not null;default:'booked'" json:"status"`
	Deleted         bool              `gorm:"not null;default:false" json:"deleted"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsActive checks if the appointment still blocks the doctor's time
func (a *Appointment) IsActive() bool {
	if a.Deleted {
		return false
	}
	return a.Status == AppointmentStatusBooked || a.Status == AppointmentStatusRescheduled
}
