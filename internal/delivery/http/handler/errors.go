package handler

import (
	"errors"
	"net/http"
	"strconv"

	"go-doctor-scheduling/internal/converter"
	"go-doctor-scheduling/internal/delivery/http/middleware"
	"go-doctor-scheduling/internal/service"
	"go-doctor-scheduling/internal/usecase"
	"go-doctor-scheduling/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// writeError maps usecase errors onto HTTP responses. Anything unknown is a
// 500 with fallback as the message.
func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrDoctorNotFound):
		response.NotFound(w, "Doctor not found")
	case errors.Is(err, usecase.ErrScheduleEntryNotFound):
		response.NotFound(w, "Schedule entry not found")
	case errors.Is(err, usecase.ErrRemovalRequestNotFound):
		response.NotFound(w, "Removal request not found")
	case errors.Is(err, usecase.ErrAuditLogNotFound):
		response.NotFound(w, "Audit log not found")

	case errors.Is(err, usecase.ErrScheduleNotOwned):
		response.Forbidden(w, "Schedule entry belongs to another doctor")

	case errors.Is(err, usecase.ErrInvalidTimeRange):
		response.BadRequest(w, "Start time must be before end time")
	case errors.Is(err, usecase.ErrPastScheduleEdit):
		response.BadRequest(w, "Cannot modify a schedule that has already ended")
	case errors.Is(err, usecase.ErrInvalidSlotType):
		response.BadRequest(w, "Invalid slot type, use RECURRING, ONE_TIME or BREAK")
	case errors.Is(err, usecase.ErrInvalidDuration):
		response.BadRequest(w, "Slot duration must be positive")
	case errors.Is(err, usecase.ErrInvalidDateRange):
		response.BadRequest(w, "Invalid date range")
	case errors.Is(err, usecase.ErrInvalidRemovalStatus):
		response.BadRequest(w, "Invalid status, use PENDING, APPROVED or REJECTED")
	case errors.Is(err, converter.ErrInvalidTimeFormat),
		errors.Is(err, converter.ErrInvalidDateFormat),
		errors.Is(err, converter.ErrInvalidDayOfWeek):
		response.BadRequest(w, err.Error())

	case errors.Is(err, usecase.ErrScheduleOverlap):
		response.Conflict(w, "Schedule overlaps an existing entry")
	case errors.Is(err, usecase.ErrDuplicateRemovalRequest):
		response.Conflict(w, "A pending removal request already exists for this entry")
	case errors.Is(err, usecase.ErrRemovalRequestNotPending):
		response.Conflict(w, "Removal request has already been reviewed")
	case errors.Is(err, usecase.ErrSlotUnavailable):
		response.Conflict(w, "Requested time is not available")
	case errors.Is(err, usecase.ErrSlotConflict):
		response.Conflict(w, "Requested time was just booked, please pick another slot")
	case errors.Is(err, service.ErrLockNotAcquired):
		response.Conflict(w, "Schedule is being modified, please retry")

	default:
		response.InternalServerError(w, fallback)
	}
}

func currentUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not authenticated")
		return uuid.Nil, false
	}
	return userID, true
}

func pathInt(w http.ResponseWriter, r *http.Request, name, label string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid "+label+" ID")
		return 0, false
	}
	return id, true
}

func pathUUID(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.BadRequest(w, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}
