package model

import (
	"time"

	"terras/internal/domains/booking/schedule"
	"terras/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID              = "id"
	FieldRoomID          = "room_id"
	FieldRoomName        = "room_name"
	FieldBuildingName    = "building_name"
	FieldUserID          = "user_id"
	FieldUserName        = "user_name"
	FieldStartDate       = "start_date"
	FieldEndDate         = "end_date"
	FieldStartMinute     = "start_minute"
	FieldEndMinute       = "end_minute"
	FieldActivityName    = "activity_name"
	FieldActivityType    = "activity_type"
	FieldDescription     = "description"
	FieldAttachmentURL   = "attachment_url"
	FieldAttachmentName  = "attachment_name"
	FieldStatus          = "status"
	FieldRejectionReason = "rejection_reason"
	FieldApprovedBy      = "approved_by"
	FieldApprovedAt      = "approved_at"
	FieldRejectedBy      = "rejected_by"
	FieldRejectedAt      = "rejected_at"
)

// Booking statuses. Pending bookings await an admin decision; only approved
// bookings occupy the room's schedule.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// transitions holds the allowed status moves. Rejected and cancelled are
// terminal.
var transitions = map[string][]string{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusCancelled},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}

	return false
}

type Booking struct {
	ID              string     `db:"id"`
	RoomID          string     `db:"room_id"`
	RoomName        string     `db:"room_name"`
	BuildingName    string     `db:"building_name"`
	UserID          string     `db:"user_id"`
	UserName        string     `db:"user_name"`
	StartDate       time.Time  `db:"start_date"`
	EndDate         time.Time  `db:"end_date"`
	StartMinute     int        `db:"start_minute"`
	EndMinute       int        `db:"end_minute"`
	ActivityName    string     `db:"activity_name"`
	ActivityType    string     `db:"activity_type"`
	Description     string     `db:"description"`
	AttachmentURL   string     `db:"attachment_url"`
	AttachmentName  string     `db:"attachment_name"`
	Status          string     `db:"status"`
	RejectionReason *string    `db:"rejection_reason"`
	ApprovedBy      *string    `db:"approved_by"`
	ApprovedAt      *time.Time `db:"approved_at"`
	RejectedBy      *string    `db:"rejected_by"`
	RejectedAt      *time.Time `db:"rejected_at"`
	model.Metadata
}

// Slot projects the booking onto its schedule footprint.
func (b Booking) Slot() schedule.Slot {
	return schedule.Slot{
		BookingID:    b.ID,
		StartDate:    b.StartDate,
		EndDate:      b.EndDate,
		StartMinute:  b.StartMinute,
		EndMinute:    b.EndMinute,
		ActivityName: b.ActivityName,
	}
}
