package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"go-doctor-scheduling/internal/converter"
	"go-doctor-scheduling/internal/delivery/dto"
	"go-doctor-scheduling/internal/domain/entity"
	"go-doctor-scheduling/internal/usecase"
	"go-doctor-scheduling/pkg/response"
	"go-doctor-scheduling/pkg/validator"

	"github.com/google/uuid"
)

type SlotRemovalHandler struct {
	removalUsecase usecase.SlotRemovalUsecase
	validator      *validator.CustomValidator
}

func NewSlotRemovalHandler(removalUsecase usecase.SlotRemovalUsecase, validator *validator.CustomValidator) *SlotRemovalHandler {
	return &SlotRemovalHandler{
		removalUsecase: removalUsecase,
		validator:      validator,
	}
}

// CreateRemovalRequest files a removal request for one of the caller's own
// schedule entries.
func (h *SlotRemovalHandler) CreateRemovalRequest(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.CreateRemovalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	request, err := h.removalUsecase.CreateRemovalRequest(r.Context(), doctorID, entity.SlotType(req.SlotType), req.SlotID, req.Reason)
	if err != nil {
		writeError(w, err, "Failed to create removal request")
		return
	}

	response.Success(w, http.StatusCreated, "Removal request created successfully", converter.RemovalRequestToResponse(request))
}

func (h *SlotRemovalHandler) GetMyRemovalRequests(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	requests, err := h.removalUsecase.GetMyRemovalRequests(r.Context(), doctorID)
	if err != nil {
		writeError(w, err, "Failed to get removal requests")
		return
	}

	response.Success(w, http.StatusOK, "Removal requests retrieved successfully", converter.RemovalRequestsToResponses(requests))
}

func (h *SlotRemovalHandler) GetRemovalRequests(w http.ResponseWriter, r *http.Request) {
	filter := &entity.RemovalRequestFilter{Status: r.URL.Query().Get("status")}

	requests, err := h.removalUsecase.GetRemovalRequests(r.Context(), filter)
	if err != nil {
		writeError(w, err, "Failed to get removal requests")
		return
	}

	response.Success(w, http.StatusOK, "Removal requests retrieved successfully", converter.RemovalRequestsToResponses(requests))
}

func (h *SlotRemovalHandler) ApproveRemovalRequest(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.removalUsecase.ApproveRemovalRequest, "Removal request approved successfully")
}

func (h *SlotRemovalHandler) RejectRemovalRequest(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.removalUsecase.RejectRemovalRequest, "Removal request rejected successfully")
}

type reviewFunc func(ctx context.Context, reviewerID uuid.UUID, requestID int64, note string) (*entity.SlotRemovalRequest, error)

func (h *SlotRemovalHandler) review(w http.ResponseWriter, r *http.Request, fn reviewFunc, message string) {
	reviewerID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	requestID, ok := pathInt(w, r, "id", "removal request")
	if !ok {
		return
	}

	// The note is optional, so an empty body is fine.
	var req dto.ReviewRemovalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	request, err := fn(r.Context(), reviewerID, int64(requestID), req.AdminNote)
	if err != nil {
		writeError(w, err, "Failed to review removal request")
		return
	}

	response.Success(w, http.StatusOK, message, converter.RemovalRequestToResponse(request))
}
