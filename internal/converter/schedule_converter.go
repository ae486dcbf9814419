package converter

import (
	"errors"
	"strings"
	"time"

	"go-doctor-scheduling/internal/delivery/dto"
	"go-doctor-scheduling/internal/domain/entity"
	"go-doctor-scheduling/pkg/interval"
)

const dateLayout = "2006-01-02"

var (
	ErrInvalidTimeFormat = errors.New("invalid time format, use HH:MM")
	ErrInvalidDateFormat = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidDayOfWeek  = errors.New("invalid day of week")
)

var weekdayNames = map[string]time.Weekday{
	"SUNDAY":    time.Sunday,
	"MONDAY":    time.Monday,
	"TUESDAY":   time.Tuesday,
	"WEDNESDAY": time.Wednesday,
	"THURSDAY":  time.Thursday,
	"FRIDAY":    time.Friday,
	"SATURDAY":  time.Saturday,
}

// ParseWeekday accepts MONDAY..SUNDAY in any case.
func ParseWeekday(s string) (time.Weekday, error) {
	day, ok := weekdayNames[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return 0, ErrInvalidDayOfWeek
	}
	return day, nil
}

func FormatWeekday(d time.Weekday) string {
	return strings.ToUpper(d.String())
}

// ParseDate reads a YYYY-MM-DD calendar date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return d, nil
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseClock reads HH:MM into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	d, err := interval.ParseClock(s)
	if err != nil {
		return 0, ErrInvalidTimeFormat
	}
	return d, nil
}

func parseClockPair(start, end string) (time.Duration, time.Duration, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, 0, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, 0, err
	}
	return s, e, nil
}

// RecurringSlotFromRequest converts a RecurringSlotRequest DTO to a RecurringSchedule entity
func RecurringSlotFromRequest(req *dto.RecurringSlotRequest) (*entity.RecurringSchedule, error) {
	day, err := ParseWeekday(req.DayOfWeek)
	if err != nil {
		return nil, err
	}
	start, end, err := parseClockPair(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	return &entity.RecurringSchedule{
		DayOfWeek: day,
		StartTime: entity.NewClock(start),
		EndTime:   entity.NewClock(end),
		Active:    req.Active == nil || *req.Active,
	}, nil
}

// RecurringBreakFromRequest converts a RecurringBreakRequest DTO to a RecurringBreak entity
func RecurringBreakFromRequest(req *dto.RecurringBreakRequest) (*entity.RecurringBreak, error) {
	day, err := ParseWeekday(req.DayOfWeek)
	if err != nil {
		return nil, err
	}
	start, end, err := parseClockPair(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	return &entity.RecurringBreak{
		DayOfWeek: day,
		StartTime: entity.NewClock(start),
		EndTime:   entity.NewClock(end),
		Active:    req.Active == nil || *req.Active,
	}, nil
}

// OneTimeSlotFromRequest converts a OneTimeSlotRequest DTO to a OneTimeSlot entity
func OneTimeSlotFromRequest(req *dto.OneTimeSlotRequest) (*entity.OneTimeSlot, error) {
	date, err := ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	start, end, err := parseClockPair(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	return &entity.OneTimeSlot{
		Date:      date,
		StartTime: entity.NewClock(start),
		EndTime:   entity.NewClock(end),
		Available: req.Available != nil && *req.Available,
	}, nil
}

// RecurringSlotsFromRequests converts the slots of a week replacement
func RecurringSlotsFromRequests(reqs []dto.RecurringSlotRequest) ([]entity.RecurringSchedule, error) {
	slots := make([]entity.RecurringSchedule, len(reqs))
	for i := range reqs {
		slot, err := RecurringSlotFromRequest(&reqs[i])
		if err != nil {
			return nil, err
		}
		slots[i] = *slot
	}
	return slots, nil
}

// TemplateFromRequest converts an ImportTemplateRequest DTO to a ScheduleTemplate entity
func TemplateFromRequest(req *dto.ImportTemplateRequest) (*entity.ScheduleTemplate, error) {
	slots, err := RecurringSlotsFromRequests(req.RecurringSlots)
	if err != nil {
		return nil, err
	}

	breaks := make([]entity.RecurringBreak, len(req.RecurringBreaks))
	for i := range req.RecurringBreaks {
		brk, err := RecurringBreakFromRequest(&req.RecurringBreaks[i])
		if err != nil {
			return nil, err
		}
		breaks[i] = *brk
	}

	oneTime := make([]entity.OneTimeSlot, len(req.OneTimeSlots))
	for i := range req.OneTimeSlots {
		slot, err := OneTimeSlotFromRequest(&req.OneTimeSlots[i])
		if err != nil {
			return nil, err
		}
		oneTime[i] = *slot
	}

	return &entity.ScheduleTemplate{
		RecurringSlots:  slots,
		RecurringBreaks: breaks,
		OneTimeSlots:    oneTime,
	}, nil
}

// RecurringSlotToResponse converts a RecurringSchedule entity to RecurringSlotResponse DTO
func RecurringSlotToResponse(slot *entity.RecurringSchedule) *dto.RecurringSlotResponse {
	if slot == nil {
		return nil
	}

	return &dto.RecurringSlotResponse{
		ID:        slot.ID,
		DoctorID:  slot.DoctorID,
		DayOfWeek: FormatWeekday(slot.DayOfWeek),
		StartTime: interval.FormatClock(entity.Clock(slot.StartTime)),
		EndTime:   interval.FormatClock(entity.Clock(slot.EndTime)),
		Active:    slot.Active,
		CreatedAt: slot.CreatedAt,
		UpdatedAt: slot.UpdatedAt,
	}
}

// RecurringSlotsToResponses converts a slice of RecurringSchedule entities to slice of RecurringSlotResponse DTOs
func RecurringSlotsToResponses(slots []entity.RecurringSchedule) []dto.RecurringSlotResponse {
	responses := make([]dto.RecurringSlotResponse, len(slots))
	for i := range slots {
		responses[i] = *RecurringSlotToResponse(&slots[i])
	}
	return responses
}

// RecurringBreakToResponse converts a RecurringBreak entity to RecurringBreakResponse DTO
func RecurringBreakToResponse(brk *entity.RecurringBreak) *dto.RecurringBreakResponse {
	if brk == nil {
		return nil
	}

	return &dto.RecurringBreakResponse{
		ID:        brk.ID,
		DoctorID:  brk.DoctorID,
		DayOfWeek: FormatWeekday(brk.DayOfWeek),
		StartTime: interval.FormatClock(entity.Clock(brk.StartTime)),
		EndTime:   interval.FormatClock(entity.Clock(brk.EndTime)),
		Active:    brk.Active,
		CreatedAt: brk.CreatedAt,
		UpdatedAt: brk.UpdatedAt,
	}
}

func RecurringBreaksToResponses(breaks []entity.RecurringBreak) []dto.RecurringBreakResponse {
	responses := make([]dto.RecurringBreakResponse, len(breaks))
	for i := range breaks {
		responses[i] = *RecurringBreakToResponse(&breaks[i])
	}
	return responses
}

// OneTimeSlotToResponse converts a OneTimeSlot entity to OneTimeSlotResponse DTO
func OneTimeSlotToResponse(slot *entity.OneTimeSlot) *dto.OneTimeSlotResponse {
	if slot == nil {
		return nil
	}

	return &dto.OneTimeSlotResponse{
		ID:        slot.ID,
		DoctorID:  slot.DoctorID,
		Date:      FormatDate(slot.Date),
		StartTime: interval.FormatClock(entity.Clock(slot.StartTime)),
		EndTime:   interval.FormatClock(entity.Clock(slot.EndTime)),
		Available: slot.Available,
		CreatedAt: slot.CreatedAt,
		UpdatedAt: slot.UpdatedAt,
	}
}

func OneTimeSlotsToResponses(slots []entity.OneTimeSlot) []dto.OneTimeSlotResponse {
	responses := make([]dto.OneTimeSlotResponse, len(slots))
	for i := range slots {
		responses[i] = *OneTimeSlotToResponse(&slots[i])
	}
	return responses
}

// FullScheduleToResponse converts a FullSchedule entity to FullScheduleResponse DTO
func FullScheduleToResponse(schedule *entity.FullSchedule) *dto.FullScheduleResponse {
	if schedule == nil {
		return nil
	}

	return &dto.FullScheduleResponse{
		RecurringSlots:  RecurringSlotsToResponses(schedule.RecurringSlots),
		OneTimeSlots:    OneTimeSlotsToResponses(schedule.OneTimeSlots),
		RecurringBreaks: RecurringBreaksToResponses(schedule.RecurringBreaks),
	}
}
