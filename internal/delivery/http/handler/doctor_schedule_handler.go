package handler

import (
	"encoding/json"
	"net/http"

	"go-doctor-scheduling/internal/converter"
	"go-doctor-scheduling/internal/delivery/dto"
	"go-doctor-scheduling/internal/usecase"
	"go-doctor-scheduling/pkg/response"
	"go-doctor-scheduling/pkg/validator"
)

// DoctorScheduleHandler serves the authenticated doctor's own schedule. The
// doctor is always the caller; no route takes a doctor id.
type DoctorScheduleHandler struct {
	scheduleUsecase     usecase.DoctorScheduleUsecase
	availabilityUsecase usecase.AvailabilityUsecase
	validator           *validator.CustomValidator
}

func NewDoctorScheduleHandler(
	scheduleUsecase usecase.DoctorScheduleUsecase,
	availabilityUsecase usecase.AvailabilityUsecase,
	validator *validator.CustomValidator,
) *DoctorScheduleHandler {
	return &DoctorScheduleHandler{
		scheduleUsecase:     scheduleUsecase,
		availabilityUsecase: availabilityUsecase,
		validator:           validator,
	}
}

// decode reads and validates a JSON body. It writes the error response
// itself and reports whether the handler should continue.
func (h *DoctorScheduleHandler) decode(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return false
	}
	if err := h.validator.Validate(req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return false
	}
	return true
}

func (h *DoctorScheduleHandler) GetMySchedule(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	schedule, err := h.availabilityUsecase.GetFullSchedule(r.Context(), doctorID)
	if err != nil {
		writeError(w, err, "Failed to get schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule retrieved successfully", converter.FullScheduleToResponse(schedule))
}

func (h *DoctorScheduleHandler) GetMyScheduleRange(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := currentUserID(w, r)
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

// =============================================================================
// Recurring slots
// =============================================================================

func (h *DoctorScheduleHandler) CreateRecurringSlot(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.RecurringSlotRequest
	if !h.decode(w, r, &req) {
		return
	}

	slot, err := converter.RecurringSlotFromRequest(&req)
	if err != nil {
		writeError(w, err, "Failed to create recurring slot")
		return
	}

	created, err := h.scheduleUsecase.CreateRecurringSlot(r.Context(), doctorID, slot)
	if err != nil {
		writeError(w, err, "Failed to create recurring slot")
		return
	}

	response.Success(w, http.StatusCreated, "Recurring slot created successfully", converter.RecurringSlotToResponse(created))
}

func (h *DoctorScheduleHandler) UpdateRecurringSlot(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	slotID, ok := pathInt(w, r, "id", "slot")
	if !ok {
		return
	}

	var req dto.RecurringSlotRequest
	if !h.decode(w, r, &req) {
		return
	}

	slot, err := converter.RecurringSlotFromRequest(&req)
	if err != nil {
		writeError(w, err, "Failed to update recurring slot")
		return
	}

	updated, err := h.scheduleUsecase.UpdateRecurringSlot(r.Context(), doctorID, slotID, slot)
	if err != nil {
		writeError(w, err, "Failed to update recurring slot")
		return
	}

	response.Success(w, http.StatusOK, "Recurring slot updated successfully", converter.RecurringSlotToResponse(updated))
}

func (h *DoctorScheduleHandler) DeleteRecurringSlot(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	slotID, ok := pathInt(w, r, "id", "slot")
	if !ok {
		return
	}

	if err := h.scheduleUsecase.DeleteRecurringSlot(r.Context(), doctorID, slotID); err != nil {
		writeError(w, err, "Failed to delete recurring slot")
		return
	}

	response.Success(w, http.StatusOK, "Recurring slot deleted successfully", nil)
}

func (h *DoctorScheduleHandler) ReplaceWeek(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.ReplaceWeekRequest
	if !h.decode(w, r, &req) {
		return
	}

	slots, err := converter.RecurringSlotsFromRequests(req.Slots)
	if err != nil {
		writeError(w, err, "Failed to replace week")
		return
	}

	created, err := h.scheduleUsecase.ReplaceWeek(r.Context(), doctorID, slots)
	if err != nil {
		writeError(w, err, "Failed to replace week")
		return
	}

	response.Success(w, http.StatusOK, "Weekly schedule replaced successfully", converter.RecurringSlotsToResponses(created))
}

// =============================================================================
// Recurring breaks
// =============================================================================

func (h *DoctorScheduleHandler) CreateRecurringBreak(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.RecurringBreakRequest
	if !h.decode(w, r, &req) {
		return
	}

	brk, err := converter.RecurringBreakFromRequest(&req)
	if err != nil {
		writeError(w, err, "Failed to create break")
		return
	}

	created, err := h.scheduleUsecase.CreateRecurringBreak(r.Context(), doctorID, brk)
	if err != nil {
		writeError(w, err, "Failed to create break")
		return
	}

	response.Success(w, http.StatusCreated, "Break created successfully", converter.RecurringBreakToResponse(created))
}

func (h *DoctorScheduleHandler) UpdateRecurringBreak(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	breakID, ok := pathInt(w, r, "id", "break")
	if !ok {
		return
	}

	var req dto.RecurringBreakRequest
	if !h.decode(w, r, &req) {
		return
	}

	brk, err := converter.RecurringBreakFromRequest(&req)
	if err != nil {
		writeError(w, err, "Failed to update break")
		return
	}

	updated, err := h.scheduleUsecase.UpdateRecurringBreak(r.Context(), doctorID, breakID, brk)
	if err != nil {
		writeError(w, err, "Failed to update break")
		return
	}

	response.Success(w, http.StatusOK, "Break updated successfully", converter.RecurringBreakToResponse(updated))
}

func (h *DoctorScheduleHandler) DeleteRecurringBreak(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	breakID, ok := pathInt(w, r, "id", "break")
	if !ok {
		return
	}

	if err := h.scheduleUsecase.DeleteRecurringBreak(r.Context(), doctorID, breakID); err != nil {
		writeError(w, err, "Failed to delete break")
		return
	}

	response.Success(w, http.StatusOK, "Break deleted successfully", nil)
}

// =============================================================================
// One-time slots
// =============================================================================

func (h *DoctorScheduleHandler) CreateOneTimeSlot(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.OneTimeSlotRequest
	if !h.decode(w, r, &req) {
		return
	}

	slot, err := converter.OneTimeSlotFromRequest(&req)
	if err != nil {
		writeError(w, err, "Failed to create one-time slot")
		return
	}

	created, err := h.scheduleUsecase.CreateOneTimeSlot(r.Context(), doctorID, slot)
	if err != nil {
		writeError(w, err, "Failed to create one-time slot")
		return
	}

	response.Success(w, http.StatusCreated, "One-time slot created successfully", converter.OneTimeSlotToResponse(created))
}

func (h *DoctorScheduleHandler) UpdateOneTimeSlot(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	slotID, ok := pathInt(w, r, "id", "slot")
	if !ok {
		return
	}

	var req dto.OneTimeSlotRequest
	if !h.decode(w, r, &req) {
		return
	}

	slot, err := converter.OneTimeSlotFromRequest(&req)
	if err != nil {
		writeError(w, err, "Failed to update one-time slot")
		return
	}

	updated, err := h.scheduleUsecase.UpdateOneTimeSlot(r.Context(), doctorID, slotID, slot)
	if err != nil {
		writeError(w, err, "Failed to update one-time slot")
		return
	}

	response.Success(w, http.StatusOK, "One-time slot updated successfully", converter.OneTimeSlotToResponse(updated))
}

func (h *DoctorScheduleHandler) DeleteOneTimeSlot(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	slotID, ok := pathInt(w, r, "id", "slot")
	if !ok {
		return
	}

	if err := h.scheduleUsecase.DeleteOneTimeSlot(r.Context(), doctorID, slotID); err != nil {
		writeError(w, err, "Failed to delete one-time slot")
		return
	}

	response.Success(w, http.StatusOK, "One-time slot deleted successfully", nil)
}

// =============================================================================
// Template import
// =============================================================================

func (h *DoctorScheduleHandler) ImportTemplate(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.ImportTemplateRequest
	if !h.decode(w, r, &req) {
		return
	}

	template, err := converter.TemplateFromRequest(&req)
	if err != nil {
		writeError(w, err, "Failed to import schedule")
		return
	}

	schedule, err := h.scheduleUsecase.ImportTemplate(r.Context(), doctorID, template)
	if err != nil {
		writeError(w, err, "Failed to import schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule imported successfully", converter.FullScheduleToResponse(schedule))
}
