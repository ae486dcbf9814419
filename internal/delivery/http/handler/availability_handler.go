package handler

import (
	"net/http"
	"strconv"
	"time"

	"go-doctor-scheduling/internal/converter"
	"go-doctor-scheduling/internal/delivery/dto"
	"go-doctor-scheduling/internal/usecase"
	"go-doctor-scheduling/pkg/interval"
	"go-doctor-scheduling/pkg/response"
)

// AvailabilityHandler answers read-only availability questions about any
// doctor.
type AvailabilityHandler struct {
	availabilityUsecase usecase.AvailabilityUsecase
	defaultDuration     time.Duration
}

func NewAvailabilityHandler(availabilityUsecase usecase.AvailabilityUsecase, defaultDuration time.Duration) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityUsecase: availabilityUsecase,
		defaultDuration:     defaultDuration,
	}
}

func (h *AvailabilityHandler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathUUID(w, r, "doctorId", "doctor")
	if !ok {
		return
	}

	date, err := converter.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, err, "Failed to get available slots")
		return
	}
	duration, ok := h.durationQuery(w, r)
	if !ok {
		return
	}

	starts, err := h.availabilityUsecase.GetAvailableSlots(r.Context(), doctorID, date, duration)
	if err != nil {
		writeError(w, err, "Failed to get available slots")
		return
	}

	response.Success(w, http.StatusOK, "Available slots retrieved successfully", dto.AvailableSlotsResponse{
		DoctorID:        doctorID,
		Date:            converter.FormatDate(date),
		DurationMinutes: int(duration / time.Minute),
		Slots:           converter.StartsToClocks(starts),
	})
}

func (h *AvailabilityHandler) GetAvailableSlotsRange(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathUUID(w, r, "doctorId", "doctor")
	if !ok {
		return
	}

	start, end, err := dateRangeQuery(r)
	if err != nil {
		writeError(w, err, "Failed to get available slots")
		return
	}
	duration, ok := h.durationQuery(w, r)
	if !ok {
		return
	}

	days, err := h.availabilityUsecase.GetAvailableSlotsInRange(r.Context(), doctorID, start, end, duration)
	if err != nil {
		writeError(w, err, "Failed to get available slots")
		return
	}

	response.Success(w, http.StatusOK, "Available slots retrieved successfully", dto.AvailableSlotsRangeResponse{
		DoctorID:        doctorID,
		StartDate:       converter.FormatDate(start),
		EndDate:         converter.FormatDate(end),
		DurationMinutes: int(duration / time.Minute),
		Days:            converter.DaysToResponses(days),
	})
}

func (h *AvailabilityHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathUUID(w, r, "doctorId", "doctor")
	if !ok {
		return
	}

	query := r.URL.Query()
	date, err := converter.ParseDate(query.Get("date"))
	if err != nil {
		writeError(w, err, "Failed to check availability")
		return
	}
	start, err := converter.ParseClock(query.Get("start_time"))
	if err != nil {
		writeError(w, err, "Failed to check availability")
		return
	}
	end, err := converter.ParseClock(query.Get("end_time"))
	if err != nil {
		writeError(w, err, "Failed to check availability")
		return
	}

	available, err := h.availabilityUsecase.IsSlotAvailable(r.Context(), doctorID, date, start, end)
	if err != nil {
		writeError(w, err, "Failed to check availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability checked successfully", dto.SlotAvailabilityResponse{
		DoctorID:  doctorID,
		Date:      converter.FormatDate(date),
		StartTime: interval.FormatClock(start),
		EndTime:   interval.FormatClock(end),
		Available: available,
	})
}

func (h *AvailabilityHandler) GetDoctorSchedule(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathUUID(w, r, "doctorId", "doctor")
	if !ok {
		return
	}

	start, end, err := dateRangeQuery(r)
	if err != nil {
		writeError(w, err, "Failed to get schedule")
		return
	}

	schedule, err := h.availabilityUsecase.GetScheduleForRange(r.Context(), doctorID, start, end)
	if err != nil {
		writeError(w, err, "Failed to get schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule retrieved successfully", converter.FullScheduleToResponse(schedule))
}

// durationQuery reads duration_minutes, falling back to the configured slot
// duration when absent.
func (h *AvailabilityHandler) durationQuery(w http.ResponseWriter, r *http.Request) (time.Duration, bool) {
	raw := r.URL.Query().Get("duration_minutes")
	if raw == "" {
		return h.defaultDuration, true
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		response.BadRequest(w, "duration_minutes must be a positive integer")
		return 0, false
	}
	return time.Duration(minutes) * time.Minute, true
}

func dateRangeQuery(r *http.Request) (time.Time, time.Time, error) {
	query := r.URL.Query()
	start, err := converter.ParseDate(query.Get("start_date"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := converter.ParseDate(query.Get("end_date"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
