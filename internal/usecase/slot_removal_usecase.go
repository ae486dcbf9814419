package usecase

import (
	"context"
	"strconv"
	"time"

	"go-doctor-scheduling/config"
	"go-doctor-scheduling/internal/domain/entity"
	"go-doctor-scheduling/internal/domain/repository"
	"go-doctor-scheduling/internal/observability/metrics"
	"go-doctor-scheduling/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const auditEntityRemovalRequest = "slot_removal_request"

type SlotRemovalUsecase interface {
	CreateRemovalRequest(ctx context.Context, doctorID uuid.UUID, slotType entity.SlotType, slotID int, reason string) (*entity.SlotRemovalRequest, error)
	GetMyRemovalRequests(ctx context.Context, doctorID uuid.UUID) ([]entity.SlotRemovalRequest, error)
	GetRemovalRequests(ctx context.Context, filter *entity.RemovalRequestFilter) ([]entity.SlotRemovalRequest, error)
	ApproveRemovalRequest(ctx context.Context, reviewerID uuid.UUID, requestID int64, note string) (*entity.SlotRemovalRequest, error)
	RejectRemovalRequest(ctx context.Context, reviewerID uuid.UUID, requestID int64, note string) (*entity.SlotRemovalRequest, error)
}

type slotRemovalUsecase struct {
	scheduleWriter
	removalRepo   repository.SlotRemovalRequestRepository
	recurringRepo repository.RecurringScheduleRepository
	breakRepo     repository.RecurringBreakRepository
	oneTimeRepo   repository.OneTimeSlotRepository
	auditService  service.AuditService
}

func NewSlotRemovalUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorProfileRepo repository.DoctorProfileRepository,
	removalRepo repository.SlotRemovalRequestRepository,
	recurringRepo repository.RecurringScheduleRepository,
	breakRepo repository.RecurringBreakRepository,
	oneTimeRepo repository.OneTimeSlotRepository,
	auditService service.AuditService,
	lockService *service.ScheduleLockService,
	m *metrics.SchedulingMetrics,
	cfg config.ScheduleConfig,
) SlotRemovalUsecase {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &slotRemovalUsecase{
		scheduleWriter: scheduleWriter{
			db:                db,
			log:               log,
			doctorProfileRepo: doctorProfileRepo,
			lockService:       lockService,
			metrics:           m,
			loc:               loc,
			now:               time.Now,
		},
		removalRepo:   removalRepo,
		recurringRepo: recurringRepo,
		breakRepo:     breakRepo,
		oneTimeRepo:   oneTimeRepo,
		auditService:  auditService,
	}
}

// CreateRemovalRequest files a PENDING request for an entry the doctor owns.
// At most one PENDING request may exist per entry; the partial unique index
// on slot_removal_requests backs the pre-check under concurrency.
func (u *slotRemovalUsecase) CreateRemovalRequest(ctx context.Context, doctorID uuid.UUID, slotType entity.SlotType, slotID int, reason string) (*entity.SlotRemovalRequest, error) {
	if !slotType.IsValid() {
		return nil, ErrInvalidSlotType
	}

	request := &entity.SlotRemovalRequest{
		DoctorID:    doctorID,
		SlotType:    slotType,
		SlotID:      slotID,
		Reason:      reason,
		Status:      entity.RemovalRequestStatusPending,
		RequestedAt: u.now(),
	}

	err := u.write(ctx, doctorID, entity.AuditActionRemovalRequestCreate, func(tx *gorm.DB) error {
		owner, err := u.findEntryOwner(tx, slotType, slotID)
		if err != nil {
			return err
		}
		if owner != doctorID {
			return ErrScheduleNotOwned
		}

		exists, err := u.removalRepo.ExistsPending(tx, doctorID, slotType, slotID)
		if err != nil {
			u.log.Warnf("Failed to check pending removal requests: %+v", err)
			return err
		}
		if exists {
			return ErrDuplicateRemovalRequest
		}

		if err := u.removalRepo.Create(tx, request); err != nil {
			if isDuplicateKeyError(err, "pending") {
				return ErrDuplicateRemovalRequest
			}
			u.log.Warnf("Failed to create removal request: %+v", err)
			return err
		}

		return u.auditService.LogCreate(ctx, tx, doctorID, entity.AuditActionRemovalRequestCreate, auditEntityRemovalRequest, strconv.FormatInt(request.ID, 10), request)
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Removal request created: id=%d, doctor=%s, slot=%s/%d", request.ID, doctorID, slotType, slotID)
	return request, nil
}

func (u *slotRemovalUsecase) GetMyRemovalRequests(ctx context.Context, doctorID uuid.UUID) ([]entity.SlotRemovalRequest, error) {
	requests, err := u.removalRepo.FindByDoctorID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find removal requests of doctor %s: %+v", doctorID, err)
		return nil, err
	}
	return requests, nil
}

func (u *slotRemovalUsecase) GetRemovalRequests(ctx context.Context, filter *entity.RemovalRequestFilter) ([]entity.SlotRemovalRequest, error) {
	if filter != nil && filter.Status != "" && !entity.RemovalRequestStatus(filter.Status).IsValid() {
		return nil, ErrInvalidRemovalStatus
	}

	requests, err := u.removalRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to find removal requests: %+v", err)
		return nil, err
	}
	return requests, nil
}

// ApproveRemovalRequest marks the request APPROVED and deletes the entry it
// points at in the same transaction. An entry that is already gone is not an
// error.
func (u *slotRemovalUsecase) ApproveRemovalRequest(ctx context.Context, reviewerID uuid.UUID, requestID int64, note string) (*entity.SlotRemovalRequest, error) {
	return u.review(ctx, reviewerID, requestID, note, entity.RemovalRequestStatusApproved, entity.AuditActionRemovalRequestApprove)
}

func (u *slotRemovalUsecase) RejectRemovalRequest(ctx context.Context, reviewerID uuid.UUID, requestID int64, note string) (*entity.SlotRemovalRequest, error) {
	return u.review(ctx, reviewerID, requestID, note, entity.RemovalRequestStatusRejected, entity.AuditActionRemovalRequestReject)
}

func (u *slotRemovalUsecase) review(ctx context.Context, reviewerID uuid.UUID, requestID int64, note string, status entity.RemovalRequestStatus, action string) (*entity.SlotRemovalRequest, error) {
	request, err := u.removalRepo.FindByID(u.db.WithContext(ctx), requestID)
	if err != nil {
		u.log.Warnf("Failed to find removal request %d: %+v", requestID, err)
		return nil, err
	}
	if request == nil {
		return nil, ErrRemovalRequestNotFound
	}
	if !request.IsPending() {
		return nil, ErrRemovalRequestNotPending
	}

	reviewedAt := u.now()
	err = u.write(ctx, request.DoctorID, action, func(tx *gorm.DB) error {
		// Conditional update: 0 rows means another admin got there first.
		affected, err := u.removalRepo.Review(tx, requestID, status, reviewerID, reviewedAt, note)
		if err != nil {
			u.log.Warnf("Failed to review removal request %d: %+v", requestID, err)
			return err
		}
		if affected == 0 {
			return ErrRemovalRequestNotPending
		}

		if status == entity.RemovalRequestStatusApproved {
			deleted, err := u.deleteEntry(tx, request.SlotType, request.SlotID)
			if err != nil {
				u.log.Warnf("Failed to delete %s entry %d: %+v", request.SlotType, request.SlotID, err)
				return err
			}
			if deleted == 0 {
				u.log.Warnf("Removal request %d approved but %s entry %d no longer exists", requestID, request.SlotType, request.SlotID)
			}
		}

		return u.auditService.LogUpdate(ctx, tx, reviewerID, action, auditEntityRemovalRequest, strconv.FormatInt(requestID, 10),
			map[string]interface{}{"status": request.Status},
			map[string]interface{}{"status": status, "admin_note": note},
		)
	})
	if err != nil {
		return nil, err
	}

	request.Status = status
	request.ReviewerID = &reviewerID
	request.ReviewedAt = &reviewedAt
	request.AdminNote = note

	u.log.Infof("Removal request %d %s by %s", requestID, status, reviewerID)
	return request, nil
}

// findEntryOwner returns the doctor owning the referenced schedule entry.
func (u *slotRemovalUsecase) findEntryOwner(tx *gorm.DB, slotType entity.SlotType, slotID int) (uuid.UUID, error) {
	switch slotType {
	case entity.SlotTypeRecurring:
		slot, err := u.recurringRepo.FindByID(tx, slotID)
		if err != nil {
			return uuid.Nil, err
		}
		if slot == nil {
			return uuid.Nil, ErrScheduleEntryNotFound
		}
		return slot.DoctorID, nil
	case entity.SlotTypeBreak:
		brk, err := u.breakRepo.FindByID(tx, slotID)
		if err != nil {
			return uuid.Nil, err
		}
		if brk == nil {
			return uuid.Nil, ErrScheduleEntryNotFound
		}
		return brk.DoctorID, nil
	case entity.SlotTypeOneTime:
		slot, err := u.oneTimeRepo.FindByID(tx, slotID)
		if err != nil {
			return uuid.Nil, err
		}
		if slot == nil {
			return uuid.Nil, ErrScheduleEntryNotFound
		}
		return slot.DoctorID, nil
	}
	return uuid.Nil, ErrInvalidSlotType
}

func (u *slotRemovalUsecase) deleteEntry(tx *gorm.DB, slotType entity.SlotType, slotID int) (int64, error) {
	switch slotType {
	case entity.SlotTypeRecurring:
		return u.recurringRepo.Delete(tx, slotID)
	case entity.SlotTypeBreak:
		return u.breakRepo.Delete(tx, slotID)
	case entity.SlotTypeOneTime:
		return u.oneTimeRepo.Delete(tx, slotID)
	}
	return 0, ErrInvalidSlotType
}
