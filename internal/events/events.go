package events

//go:generate go run go.uber.org/mock/mockgen -source=./events.go -destination=./mocks/publisher_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"terras/infras/kafka"
)

// TopicBookingActivity carries every booking lifecycle event. The activity
// consumer turns them into audit rows.
const TopicBookingActivity = "terras.booking.activity"

const (
	TypeBookingCreated   = "booking_created"
	TypeBookingApproved  = "booking_approved"
	TypeBookingRejected  = "booking_rejected"
	TypeBookingCancelled = "booking_cancelled"
)

// BookingEvent is the wire payload for booking lifecycle events.
type BookingEvent struct {
	Type         string            `json:"type"`
	BookingID    string            `json:"booking_id"`
	RoomID       string            `json:"room_id"`
	RoomName     string            `json:"room_name"`
	ActorID      string            `json:"actor_id"`
	ActorName    string            `json:"actor_name"`
	ActorRole    string            `json:"actor_role"`
	ActivityName string            `json:"activity_name"`
	Details      map[string]string `json:"details,omitempty"`
	OccurredAt   time.Time         `json:"occurred_at"`
}

type Publisher interface {
	PublishBookingEvent(ctx context.Context, event BookingEvent) error
}

type publisherImpl struct {
	client kafka.Client
}

func NewPublisher(client kafka.Client) Publisher {
	return &publisherImpl{client: client}
}

func (p *publisherImpl) PublishBookingEvent(ctx context.Context, event BookingEvent) error {
	message := kafka.Message{
		Key:   event.BookingID,
		Value: event,
	}

	if err := p.client.SendMessages(ctx, TopicBookingActivity, message); err != nil {
		return fmt.Errorf("failed to publish booking event: %w", err)
	}

	return nil
}
