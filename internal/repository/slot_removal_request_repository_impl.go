package repository

import (
	"errors"
	"time"

	"go-doctor-scheduling/internal/domain/entity"
	domainRepo "go-doctor-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type slotRemovalRequestRepository struct{}

func NewSlotRemovalRequestRepository() domainRepo.SlotRemovalRequestRepository {
	return &slotRemovalRequestRepository{}
}

func (r *slotRemovalRequestRepository) Create(db *gorm.DB, request *entity.SlotRemovalRequest) error {
	return db.Omit("Doctor").Create(request).Error
}

func (r *slotRemovalRequestRepository) FindByID(db *gorm.DB, id int64) (*entity.SlotRemovalRequest, error) {
	var request entity.SlotRemovalRequest
	err := db.Preload("Doctor").Where("id = ?", id).First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

func (r *slotRemovalRequestRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.SlotRemovalRequest, error) {
	var requests []entity.SlotRemovalRequest
	err := db.Where("doctor_id = ?", doctorID).Order("requested_at DESC").Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *slotRemovalRequestRepository) FindAll(db *gorm.DB, filter *entity.RemovalRequestFilter) ([]entity.SlotRemovalRequest, error) {
	var requests []entity.SlotRemovalRequest
	query := db.Preload("Doctor")
	if filter != nil && filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	err := query.Order("requested_at ASC").Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *slotRemovalRequestRepository) ExistsPending(db *gorm.DB, doctorID uuid.UUID, slotType entity.SlotType, slotID int) (bool, error) {
	var count int64
	err := db.Model(&entity.SlotRemovalRequest{}).
		Where("doctor_id = ? AND slot_type = ? AND slot_id = ? AND status = ?", doctorID, slotType, slotID, entity.RemovalRequestStatusPending).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Review atomically moves a request out of PENDING.
// Returns affected rows: 1 = success, 0 = already reviewed (prevents double review race).
func (r *slotRemovalRequestRepository) Review(db *gorm.DB, id int64, status entity.RemovalRequestStatus, reviewerID uuid.UUID, reviewedAt time.Time, note string) (int64, error) {
	result := db.Model(&entity.SlotRemovalRequest{}).
		Where("id = ? AND status = ?", id, entity.RemovalRequestStatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewer_id": reviewerID,
			"reviewed_at": reviewedAt,
			"admin_note":  note,
		})
	return result.RowsAffected, result.Error
}
