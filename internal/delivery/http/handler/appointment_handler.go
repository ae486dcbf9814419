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

type AppointmentHandler struct {
	bookingUsecase usecase.AppointmentBookingUsecase
	validator      *validator.CustomValidator
}

func NewAppointmentHandler(bookingUsecase usecase.AppointmentBookingUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		bookingUsecase: bookingUsecase,
		validator:      validator,
	}
}

func (h *AppointmentHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	patientID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.bookingUsecase.BookAppointment(r.Context(), patientID, req.DoctorID, req.AppointmentTime)
	if err != nil {
		writeError(w, err, "Failed to book appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", converter.AppointmentToResponse(appointment))
}
