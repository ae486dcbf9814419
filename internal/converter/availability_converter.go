package converter

import (
	"time"

	"go-doctor-scheduling/internal/delivery/dto"
	"go-doctor-scheduling/internal/domain/entity"
	"go-doctor-scheduling/pkg/interval"
)

// StartsToClocks renders slot start offsets as HH:MM strings.
func StartsToClocks(starts []time.Duration) []string {
	clocks := make([]string, len(starts))
	for i, s := range starts {
		clocks[i] = interval.FormatClock(s)
	}
	return clocks
}

// DaysToResponses converts a slice of DayAvailability entities to slice of DayAvailabilityResponse DTOs
func DaysToResponses(days []entity.DayAvailability) []dto.DayAvailabilityResponse {
	responses := make([]dto.DayAvailabilityResponse, len(days))
	for i, day := range days {
		responses[i] = dto.DayAvailabilityResponse{
			Date:  FormatDate(day.Date),
			Slots: StartsToClocks(day.Starts),
		}
	}
	return responses
}
