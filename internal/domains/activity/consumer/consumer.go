package consumer

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"

	"terras/infras/kafka"
	"terras/infras/otel"
	"terras/internal/domains/activity/model"
	"terras/internal/domains/activity/service"
	"terras/internal/events"
	"terras/shared/constant"
	gModel "terras/shared/model"
)

const targetTypeBooking = "booking"

// actions maps event types to the audit verb shown in the activity feed.
var actions = map[string]string{
	events.TypeBookingCreated:   "created a booking",
	events.TypeBookingApproved:  "approved a booking",
	events.TypeBookingRejected:  "rejected a booking",
	events.TypeBookingCancelled: "cancelled a booking",
}

// Consumer turns booking lifecycle events into activity log rows. Booking
// writes never wait on it; a lost event costs an audit row, not a booking.
type Consumer struct {
	client  kafka.Client
	service service.Activity
	otel    otel.Otel
}

func New(client kafka.Client, service service.Activity, otel otel.Otel) *Consumer {
	return &Consumer{
		client:  client,
		service: service,
		otel:    otel,
	}
}

// Run consumes the booking activity topic until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) {
	log.Info().Str("topic", events.TopicBookingActivity).Msg("activity consumer started")

	c.client.Consume(ctx, constant.Empty, events.TopicBookingActivity, c.handle)
}

func (c *Consumer) handle(msg kafkaGo.Message) {
	ctx, scope := c.otel.NewScope(context.Background(), constant.OtelEventScopeName, constant.OtelEventScopeName+".bookingActivity")
	defer scope.End()

	decoded, err := kafka.DecodeKafkaMessage[events.BookingEvent](msg)
	if err != nil {
		log.Error().Err(err).Msg("failed to decode booking event")

		return
	}

	event, ok := decoded.Value.(events.BookingEvent)
	if !ok {
		log.Error().Str("key", decoded.Key).Msg("unexpected booking event payload")

		return
	}

	action, ok := actions[event.Type]
	if !ok {
		log.Warn().Str("type", event.Type).Msg("skipping unknown booking event type")

		return
	}

	details := constant.Empty
	if len(event.Details) > 0 {
		raw, marshalErr := json.Marshal(event.Details)
		if marshalErr != nil {
			log.Error().Err(marshalErr).Msg("failed to marshal event details")
		} else {
			details = string(raw)
		}
	}

	activity := model.ActivityLog{
		ID:           uuid.NewString(),
		ActivityType: event.Type,
		ActorID:      event.ActorID,
		ActorName:    event.ActorName,
		ActorRole:    event.ActorRole,
		Action:       action,
		TargetType:   targetTypeBooking,
		TargetName:   event.RoomName,
		TargetID:     event.BookingID,
		Details:      details,
		Metadata: gModel.Metadata{
			CreatedAt:  event.OccurredAt,
			ModifiedAt: event.OccurredAt,
			CreatedBy:  event.ActorID,
			ModifiedBy: event.ActorID,
		},
	}

	if err := c.service.Record(ctx, activity); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("bookingID", event.BookingID).Msg("failed to persist activity log")
	}
}
