// Package event carries booking lifecycle events over an in-process
// watermill Pub/Sub. Delivery is asynchronous and best-effort; nothing in the
// core waits on a subscriber.
package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"github.com/roamly/roamly/internal/logger"
	"github.com/roamly/roamly/internal/travel"
)

const outputChannelBuffer = 64

type Bus struct {
	l      *logger.Logger
	pubsub *gochannel.GoChannel
}

func NewBus(l *logger.Logger) *Bus {
	//nolint:exhaustruct
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: outputChannelBuffer},
		newLoggerAdapter(l),
	)

	return &Bus{l: l, pubsub: pubsub}
}

func (b *Bus) PublishBookingCreated(ctx context.Context, booking travel.Booking) error {
	e := BookingCreated{
		Header:  NewHeader(),
		Booking: booking,
	}

	return b.publish(ctx, TopicBookingCreated, e.Type(), e)
}

func (b *Bus) PublishBookingStatusChanged(
	ctx context.Context,
	booking travel.Booking,
	oldStatus travel.BookingStatus,
) error {
	e := BookingStatusChanged{
		Header:    NewHeader(),
		OldStatus: oldStatus,
		NewStatus: booking.Status,
		Booking:   booking,
	}

	return b.publish(ctx, TopicBookingStatusChanged, e.Type(), e)
}

func (b *Bus) PublishBookingDeleted(ctx context.Context, booking travel.Booking) error {
	e := BookingDeleted{
		Header:  NewHeader(),
		Booking: booking,
	}

	return b.publish(ctx, TopicBookingDeleted, e.Type(), e)
}

func (b *Bus) publish(ctx context.Context, topic, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}

	msg := message.NewMessage(uuid.NewString(), data)
	msg.SetContext(ctx)
	msg.Metadata.Set("type", eventType)

	if err := b.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s to %s: %w", eventType, topic, err)
	}

	return nil
}

func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	messages, err := b.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", topic, err)
	}

	return messages, nil
}

func (b *Bus) Close() error {
	if err := b.pubsub.Close(); err != nil {
		return fmt.Errorf("close pubsub: %w", err)
	}

	return nil
}
