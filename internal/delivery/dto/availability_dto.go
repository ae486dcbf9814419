package dto

import "github.com/google/uuid"

// Response DTOs

type AvailableSlotsResponse struct {
	DoctorID        uuid.UUID `json:"doctor_id"`
	Date            string    `json:"date"`
	DurationMinutes int       `json:"duration_minutes"`
	Slots           []string  `json:"slots"` // HH:MM start times
}

type DayAvailabilityResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

type AvailableSlotsRangeResponse struct {
	DoctorID        uuid.UUID                 `json:"doctor_id"`
	StartDate       string                    `json:"start_date"`
	EndDate         string                    `json:"end_date"`
	DurationMinutes int                       `json:"duration_minutes"`
	Days            []DayAvailabilityResponse `json:"days"`
}

type SlotAvailabilityResponse struct {
	DoctorID  uuid.UUID `json:"doctor_id"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Available bool      `json:"available"`
}
