package converter

import (
	"go-doctor-scheduling/internal/delivery/dto"
	"go-doctor-scheduling/internal/domain/entity"
)

// RemovalRequestToResponse converts a SlotRemovalRequest entity to RemovalRequestResponse DTO
func RemovalRequestToResponse(request *entity.SlotRemovalRequest) *dto.RemovalRequestResponse {
	if request == nil {
		return nil
	}

	return &dto.RemovalRequestResponse{
		ID:          request.ID,
		DoctorID:    request.DoctorID,
		Doctor:      DoctorProfileToSummary(request.Doctor),
		SlotType:    string(request.SlotType),
		SlotID:      request.SlotID,
		Reason:      request.Reason,
		Status:      string(request.Status),
		RequestedAt: request.RequestedAt,
		ReviewedAt:  request.ReviewedAt,
		ReviewerID:  request.ReviewerID,
		AdminNote:   request.AdminNote,
	}
}

// RemovalRequestsToResponses converts a slice of SlotRemovalRequest entities to slice of RemovalRequestResponse DTOs
func RemovalRequestsToResponses(requests []entity.SlotRemovalRequest) []dto.RemovalRequestResponse {
	responses := make([]dto.RemovalRequestResponse, len(requests))
	for i := range requests {
		responses[i] = *RemovalRequestToResponse(&requests[i])
	}
	return responses
}
