package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type RecurringSlotRequest struct {
	DayOfWeek string `json:"day_of_week" validate:"required,weekday"`
	StartTime string `json:"start_time" validate:"required,clock"` // Format: HH:MM
	EndTime   string `json:"end_time" validate:"required,clock"`   // Format: HH:MM
	Active    *bool  `json:"active"`                               // defaults to true
}

type RecurringBreakRequest struct {
	DayOfWeek string `json:"day_of_week" validate:"required,weekday"`
	StartTime string `json:"start_time" validate:"required,clock"`
	EndTime   string `json:"end_time" validate:"required,clock"`
	Active    *bool  `json:"active"`
}

type OneTimeSlotRequest struct {
	Date      string `json:"date" validate:"required,calendar_date"` // Format: YYYY-MM-DD
	StartTime string `json:"start_time" validate:"required,clock"`   // Format: HH:MM
	EndTime   string `json:"end_time" validate:"required,clock"`     // Format: HH:MM
	Available *bool  `json:"available" validate:"required"`
}

type ReplaceWeekRequest struct {
	Slots []RecurringSlotRequest `json:"slots" validate:"dive"`
}

type ImportTemplateRequest struct {
	RecurringSlots  []RecurringSlotRequest  `json:"recurring_slots" validate:"dive"`
	RecurringBreaks []RecurringBreakRequest `json:"recurring_breaks" validate:"dive"`
	OneTimeSlots    []OneTimeSlotRequest    `json:"one_time_slots" validate:"dive"`
}

// Response DTOs

type RecurringSlotResponse struct {
	ID        int       `json:"id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	DayOfWeek string    `json:"day_of_week"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RecurringBreakResponse struct {
	ID        int       `json:"id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	DayOfWeek string    `json:"day_of_week"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OneTimeSlotResponse struct {
	ID        int       `json:"id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Available bool      `json:"available"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type FullScheduleResponse struct {
	RecurringSlots  []RecurringSlotResponse  `json:"recurring_slots"`
	OneTimeSlots    []OneTimeSlotResponse    `json:"one_time_slots"`
	RecurringBreaks []RecurringBreakResponse `json:"recurring_breaks"`
}
