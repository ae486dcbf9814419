package entity

import (
	"time"

	"github.com/google/uuid"
)

// SlotType identifies which schedule table a removal request points at
type SlotType string

const (
	SlotTypeRecurring SlotType = "RECURRING"
	SlotTypeOneTime   SlotType = "ONE_TIME"
	SlotTypeBreak     SlotType = "BREAK"
)

// IsValid checks if the slot type is known
func (t SlotType) IsValid() bool {
	switch t {
	case SlotTypeRecurring, SlotTypeOneTime, SlotTypeBreak:
		return true
	}
	return false
}

// RemovalRequestStatus represents the review state of a removal request
type RemovalRequestStatus string

const (
	RemovalRequestStatusPending  RemovalRequestStatus = "PENDING"
	RemovalRequestStatusApproved RemovalRequestStatus = "APPROVED"
	RemovalRequestStatusRejected RemovalRequestStatus = "REJECTED"
)

// IsValid checks if the status is known
func (s RemovalRequestStatus) IsValid() bool {
	switch s {
	case RemovalRequestStatusPending, RemovalRequestStatusApproved, RemovalRequestStatusRejected:
		return true
	}
	return false
}

// SlotRemovalRequest is a doctor's request to retire a schedule entry that
// may have dependent bookings. Only an administrator moves it out of PENDING.
type SlotRemovalRequest struct {
	ID          int64                `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID    uuid.UUID            `gorm:"type:uuid;not null;index" json:"doctor_id"`
	SlotType    SlotType             `gorm:"type:varchar(20);not null" json:"slot_type"`
	SlotID      int                  `gorm:"not null" json:"slot_id"`
	Reason      string               `gorm:"type:varchar(1000)" json:"reason,omitempty"`
	Status      RemovalRequestStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	RequestedAt time.Time            `gorm:"not null" json:"requested_at"`
	ReviewedAt  *time.Time           `json:"reviewed_at,omitempty"`
	ReviewerID  *uuid.UUID           `gorm:"type:uuid" json:"reviewer_id,omitempty"`
	AdminNote   string               `gorm:"type:text" json:"admin_note,omitempty"`

	// Relationships
	Doctor *DoctorProfile `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (SlotRemovalRequest) TableName() string {
	return "slot_removal_requests"
}

// IsPending checks if the request still awaits review
func (r *SlotRemovalRequest) IsPending() bool {
	return r.Status == RemovalRequestStatusPending
}
