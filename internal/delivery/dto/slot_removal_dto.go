package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateRemovalRequest struct {
	SlotType string `json:"slot_type" validate:"required,oneof=RECURRING ONE_TIME BREAK"`
	SlotID   int    `json:"slot_id" validate:"required,min=1"`
	Reason   string `json:"reason" validate:"max=1000"`
}

type ReviewRemovalRequest struct {
	AdminNote string `json:"admin_note" validate:"max=1000"`
}

// Response DTOs

type RemovalRequestResponse struct {
	ID          int64                  `json:"id"`
	DoctorID    uuid.UUID              `json:"doctor_id"`
	Doctor      *DoctorSummaryResponse `json:"doctor,omitempty"`
	SlotType    string                 `json:"slot_type"`
	SlotID      int                    `json:"slot_id"`
	Reason      string                 `json:"reason,omitempty"`
	Status      string                 `json:"status"`
	RequestedAt time.Time              `json:"requested_at"`
	ReviewedAt  *time.Time             `json:"reviewed_at,omitempty"`
	ReviewerID  *uuid.UUID             `json:"reviewer_id,omitempty"`
	AdminNote   string                 `json:"admin_note,omitempty"`
}
