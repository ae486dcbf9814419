package repository

import (
	"go-doctor-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorProfileRepository interface {
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error)
	// FindByUserIDForUpdate locks the doctor row for the rest of the transaction.
	FindByUserIDForUpdate(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error)
}
