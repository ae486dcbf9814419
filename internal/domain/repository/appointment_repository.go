package repository

import (
	"time"

	"go-doctor-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	// FindActiveByDoctorBetween returns non-deleted booked/rescheduled
	// appointments with start in [from, to).
	FindActiveByDoctorBetween(db *gorm.DB, doctorID uuid.UUID, from, to time.Time) ([]entity.Appointment, error)
}
