package usecase

import "errors"

// Not found
var (
	ErrDoctorNotFound         = errors.New("doctor not found")
	ErrScheduleEntryNotFound  = errors.New("schedule entry not found")
	ErrRemovalRequestNotFound = errors.New("slot removal request not found")
	ErrAuditLogNotFound       = errors.New("audit log not found")
)

// Ownership
var (
	ErrScheduleNotOwned = errors.New("schedule entry does not belong to this doctor")
)

// Invalid input
var (
	ErrInvalidTimeRange = errors.New("start time must be before end time")
	ErrPastScheduleEdit = errors.New("cannot modify a schedule entry in the past")
	ErrInvalidSlotType  = errors.New("invalid slot type, use RECURRING, ONE_TIME or BREAK")
	ErrInvalidDuration  = errors.New("slot duration must be positive")
	ErrInvalidDateRange = errors.New("start date must not be after end date")
)

// Conflicts
var (
	ErrScheduleOverlap          = errors.New("schedule entry overlaps an existing entry")
	ErrDuplicateRemovalRequest  = errors.New("a pending removal request already exists for this entry")
	ErrRemovalRequestNotPending = errors.New("slot removal request has already been reviewed")
	ErrSlotUnavailable          = errors.New("requested time is not available")
	ErrSlotConflict             = errors.New("requested time was booked concurrently")
)

var ErrInvalidRemovalStatus = errors.New("invalid status, use PENDING, APPROVED or REJECTED")
