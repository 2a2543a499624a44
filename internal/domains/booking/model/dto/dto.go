package dto

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/google/uuid"

	"terras/internal/domains/booking/model"
	"terras/internal/domains/booking/schedule"
	roomModel "terras/internal/domains/room/model"
	"terras/shared"
	gDto "terras/shared/dto"
	"terras/shared/failure"
	gModel "terras/shared/model"
	"terras/shared/timezone"
)

const dateLayout = "2006-01-02"

type CreateBookingRequest struct {
	RoomID         string `json:"room_id"         validate:"required"`
	StartDate      string `json:"start_date"      validate:"required"`
	EndDate        string `json:"end_date"        validate:"required"`
	StartTime      string `json:"start_time"      validate:"required"`
	EndTime        string `json:"end_time"        validate:"required"`
	ActivityName   string `json:"activity_name"   validate:"required,max=150"`
	ActivityType   string `json:"activity_type"   validate:"omitempty,max=50"`
	Description    string `json:"description"     validate:"omitempty,max=2000"`
	AttachmentName string `json:"attachment_name" validate:"omitempty,max=150"`
	AttachmentData string `json:"attachment_data" validate:"omitempty"`
}

// ToModel parses and validates the schedule fields and builds a pending
// booking. Room and user names are snapshotted at creation time.
func (c *CreateBookingRequest) ToModel(userID, userName string, room roomModel.Room) (model.Booking, error) {
	startDate, err := time.Parse(dateLayout, c.StartDate)
	if err != nil {
		return model.Booking{}, failure.BadRequestFromString("invalid start_date, expected YYYY-MM-DD") // nolint:wrapcheck
	}

	endDate, err := time.Parse(dateLayout, c.EndDate)
	if err != nil {
		return model.Booking{}, failure.BadRequestFromString("invalid end_date, expected YYYY-MM-DD") // nolint:wrapcheck
	}

	if endDate.Before(startDate) {
		return model.Booking{}, failure.BadRequestFromString("end_date must not be before start_date") // nolint:wrapcheck
	}

	startMinute, err := schedule.ClockMinutes(c.StartTime)
	if err != nil {
		return model.Booking{}, err
	}

	endMinute, err := schedule.ClockMinutes(c.EndTime)
	if err != nil {
		return model.Booking{}, err
	}

	if err := schedule.ValidateTimeRange(startMinute, endMinute); err != nil {
		return model.Booking{}, err
	}

	return model.Booking{
		ID:             uuid.NewString(),
		RoomID:         room.ID,
		RoomName:       room.Name,
		BuildingName:   room.BuildingName,
		UserID:         userID,
		UserName:       userName,
		StartDate:      schedule.DateOnly(startDate),
		EndDate:        schedule.DateOnly(endDate),
		StartMinute:    startMinute,
		EndMinute:      endMinute,
		ActivityName:   c.ActivityName,
		ActivityType:   c.ActivityType,
		Description:    c.Description,
		AttachmentName: c.AttachmentName,
		Status:         model.StatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  userID,
			ModifiedBy: userID,
		},
	}, nil
}

// DecodeAttachment decodes the base64 attachment payload, tolerating an
// optional data URI prefix.
func (c *CreateBookingRequest) DecodeAttachment() ([]byte, error) {
	data := c.AttachmentData

	if idx := strings.Index(data, ";base64,"); idx != -1 {
		data = data[idx+len(";base64,"):]
	}

	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, failure.BadRequestFromString("attachment_data is not valid base64") // nolint:wrapcheck
	}

	return decoded, nil
}

type UpdateBookingRequest struct {
	StartDate    string `json:"start_date"    validate:"omitempty"`
	EndDate      string `json:"end_date"      validate:"omitempty"`
	StartTime    string `json:"start_time"    validate:"omitempty"`
	EndTime      string `json:"end_time"      validate:"omitempty"`
	ActivityName string `db:"activity_name" json:"activity_name" validate:"omitempty,max=150"`
	ActivityType string `db:"activity_type" json:"activity_type" validate:"omitempty,max=50"`
	Description  string `db:"description"   json:"description"   validate:"omitempty,max=2000"`
}

// HasSchedule reports whether the update touches any date or time field,
// which forces a fresh conflict scan.
func (u UpdateBookingRequest) HasSchedule() bool {
	return u.StartDate != "" || u.EndDate != "" || u.StartTime != "" || u.EndTime != ""
}

type RejectBookingRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// ConflictDetails is the payload attached to scheduling conflict failures.
type ConflictDetails struct {
	BookingID    string `json:"booking_id"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	ActivityName string `json:"activity_name"`
}

func ConflictDetailsFrom(conflict *schedule.Conflict) ConflictDetails {
	return ConflictDetails{
		BookingID:    conflict.BookingID,
		Date:         conflict.Date.Format(dateLayout),
		StartTime:    schedule.FormatClock(conflict.StartMinute),
		EndTime:      schedule.FormatClock(conflict.EndMinute),
		ActivityName: conflict.ActivityName,
	}
}

type BookingResponse struct {
	ID              string  `json:"id"`
	RoomID          string  `json:"room_id"`
	RoomName        string  `json:"room_name"`
	BuildingName    string  `json:"building_name"`
	UserID          string  `json:"user_id"`
	UserName        string  `json:"user_name"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	ActivityName    string  `json:"activity_name"`
	ActivityType    string  `json:"activity_type,omitempty"`
	Description     string  `json:"description,omitempty"`
	AttachmentURL   string  `json:"attachment_url,omitempty"`
	AttachmentName  string  `json:"attachment_name,omitempty"`
	Status          string  `json:"status"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	RejectedBy      *string `json:"rejected_by,omitempty"`
	RejectedAt      *string `json:"rejected_at,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(booking model.Booking) {
	r.ID = booking.ID
	r.RoomID = booking.RoomID
	r.RoomName = booking.RoomName
	r.BuildingName = booking.BuildingName
	r.UserID = booking.UserID
	r.UserName = booking.UserName
	r.StartDate = booking.StartDate.Format(dateLayout)
	r.EndDate = booking.EndDate.Format(dateLayout)
	r.StartTime = schedule.FormatClock(booking.StartMinute)
	r.EndTime = schedule.FormatClock(booking.EndMinute)
	r.ActivityName = booking.ActivityName
	r.ActivityType = booking.ActivityType
	r.Description = booking.Description
	r.AttachmentURL = booking.AttachmentURL
	r.AttachmentName = booking.AttachmentName
	r.Status = booking.Status
	r.RejectionReason = booking.RejectionReason
	r.ApprovedBy = booking.ApprovedBy
	r.RejectedBy = booking.RejectedBy

	if booking.ApprovedAt != nil {
		approvedAt := timezone.Format(*booking.ApprovedAt, time.RFC3339)
		r.ApprovedAt = &approvedAt
	}

	if booking.RejectedAt != nil {
		rejectedAt := timezone.Format(*booking.RejectedAt, time.RFC3339)
		r.RejectedAt = &rejectedAt
	}

	r.Metadata.FromModel(booking.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
