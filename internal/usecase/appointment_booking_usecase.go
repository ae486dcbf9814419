package usecase

import (
	"context"
	"time"

	"go-doctor-scheduling/internal/domain/entity"
	"go-doctor-scheduling/internal/domain/repository"
	"go-doctor-scheduling/internal/observability/metrics"
	"go-doctor-scheduling/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const auditEntityAppointment = "appointment"

type AppointmentBookingUsecase interface {
	BookAppointment(ctx context.Context, patientID, doctorID uuid.UUID, at time.Time) (*entity.Appointment, error)
}

type appointmentBookingUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	availability    AvailabilityUsecase
	auditService    service.AuditService
	metrics         *metrics.SchedulingMetrics
}

func NewAppointmentBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	availability AvailabilityUsecase,
	auditService service.AuditService,
	m *metrics.SchedulingMetrics,
) AppointmentBookingUsecase {
	return &appointmentBookingUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		availability:    availability,
		auditService:    auditService,
		metrics:         m,
	}
}

// BookAppointment books at for the patient.
//
// Flow:
//  1. Pre-check the time against the resolver (advisory)
//  2. Insert the appointment
//  3. If the insert hits the active (doctor, time) unique index, another
//     booking won the race -> ErrSlotConflict; callers re-fetch availability
func (u *appointmentBookingUsecase) BookAppointment(ctx context.Context, patientID, doctorID uuid.UUID, at time.Time) (appointment *entity.Appointment, err error) {
	defer func() { u.metrics.ObserveMutation(entity.AuditActionAppointmentBook, err) }()

	at = at.Truncate(time.Minute)

	available, err := u.availability.IsAppointmentTimeAvailable(ctx, doctorID, at)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, ErrSlotUnavailable
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment = &entity.Appointment{
		DoctorID:        doctorID,
		PatientID:       patientID,
		AppointmentTime: at,
		Status:          entity.AppointmentStatusBooked,
	}

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		if isDuplicateKeyError(err, "appointments_doctor_time") {
			u.log.Infof("Booking conflict: doctor=%s, time=%s", doctorID, at)
			return nil, ErrSlotConflict
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, patientID, entity.AuditActionAppointmentBook, auditEntityAppointment, appointment.ID.String(), appointment); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Appointment booked: id=%s, doctor=%s, patient=%s, time=%s", appointment.ID, doctorID, patientID, at)
	return appointment, nil
}
