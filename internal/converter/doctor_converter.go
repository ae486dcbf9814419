package converter

import (
	"go-doctor-scheduling/internal/delivery/dto"
	"go-doctor-scheduling/internal/domain/entity"
)

// DoctorProfileToSummary converts a DoctorProfile entity to DoctorSummaryResponse DTO
func DoctorProfileToSummary(profile *entity.DoctorProfile) *dto.DoctorSummaryResponse {
	if profile == nil {
		return nil
	}

	return &dto.DoctorSummaryResponse{
		UserID:         profile.UserID,
		FullName:       profile.FullName,
		Specialization: profile.Specialization,
	}
}
