package repository

import (
	"time"

	"go-doctor-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SlotRemovalRequestRepository interface {
	Create(db *gorm.DB, request *entity.SlotRemovalRequest) error
	FindByID(db *gorm.DB, id int64) (*entity.SlotRemovalRequest, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.SlotRemovalRequest, error)
	FindAll(db *gorm.DB, filter *entity.RemovalRequestFilter) ([]entity.SlotRemovalRequest, error)
	ExistsPending(db *gorm.DB, doctorID uuid.UUID, slotType entity.SlotType, slotID int) (bool, error)
	// Review moves a PENDING request to status. Returns 0 affected rows when
	// the request was no longer pending.
	Review(db *gorm.DB, id int64, status entity.RemovalRequestStatus, reviewerID uuid.UUID, reviewedAt time.Time, note string) (int64, error)
}
