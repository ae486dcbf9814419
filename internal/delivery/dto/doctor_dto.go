package dto

import (
	"github.com/google/uuid"
)

// Response DTOs

type DoctorSummaryResponse struct {
	UserID         uuid.UUID `json:"user_id"`
	FullName       string    `json:"full_name"`
	Specialization string    `json:"specialization"`
}
