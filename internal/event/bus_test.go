package event

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamly/roamly/internal/logger"
	"github.com/roamly/roamly/internal/travel"
)

func testLogger() *logger.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return logger.New(l)
}

func testBooking() travel.Booking {
	//nolint:exhaustruct
	return travel.Booking{
		ID:         7,
		UserID:     1,
		PackageID:  3,
		TotalPrice: 96000,
		Status:     travel.StatusConfirmed,
	}
}

func TestBookingCreatedRoundTrip(t *testing.T) {
	t.Parallel()

	bus := NewBus(testLogger())
	defer func() { require.NoError(t, bus.Close()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	messages, err := bus.Subscribe(ctx, TopicBookingCreated)
	require.NoError(t, err)

	require.NoError(t, bus.PublishBookingCreated(ctx, testBooking()))

	select {
	case msg := <-messages:
		msg.Ack()

		assert.Equal(t, "BookingCreated", msg.Metadata.Get("type"))

		var e BookingCreated
		require.NoError(t, json.Unmarshal(msg.Payload, &e))
		assert.Equal(t, 7, e.Booking.ID)
		assert.NotEmpty(t, e.Header.ID)
		assert.False(t, e.Header.PublishedAt.IsZero())
	case <-ctx.Done():
		t.Fatal("no event arrived")
	}
}

func TestBookingStatusChangedRoundTrip(t *testing.T) {
	t.Parallel()

	bus := NewBus(testLogger())
	defer func() { require.NoError(t, bus.Close()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	messages, err := bus.Subscribe(ctx, TopicBookingStatusChanged)
	require.NoError(t, err)

	b := testBooking()
	b.Status = travel.StatusCancelled

	require.NoError(t, bus.PublishBookingStatusChanged(ctx, b, travel.StatusConfirmed))

	select {
	case msg := <-messages:
		msg.Ack()

		var e BookingStatusChanged
		require.NoError(t, json.Unmarshal(msg.Payload, &e))
		assert.Equal(t, travel.StatusConfirmed, e.OldStatus)
		assert.Equal(t, travel.StatusCancelled, e.NewStatus)
	case <-ctx.Done():
		t.Fatal("no event arrived")
	}
}

func TestBookingDeletedRoundTrip(t *testing.T) {
	t.Parallel()

	bus := NewBus(testLogger())
	defer func() { require.NoError(t, bus.Close()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	messages, err := bus.Subscribe(ctx, TopicBookingDeleted)
	require.NoError(t, err)

	require.NoError(t, bus.PublishBookingDeleted(ctx, testBooking()))

	select {
	case msg := <-messages:
		msg.Ack()

		assert.Equal(t, "BookingDeleted", msg.Metadata.Get("type"))

		var e BookingDeleted
		require.NoError(t, json.Unmarshal(msg.Payload, &e))
		assert.Equal(t, 7, e.Booking.ID)
	case <-ctx.Done():
		t.Fatal("no event arrived")
	}
}

func TestTopicsAreIndependent(t *testing.T) {
	t.Parallel()

	bus := NewBus(testLogger())
	defer func() { require.NoError(t, bus.Close()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	statusChanges, err := bus.Subscribe(ctx, TopicBookingStatusChanged)
	require.NoError(t, err)

	require.NoError(t, bus.PublishBookingCreated(ctx, testBooking()))

	select {
	case msg := <-statusChanges:
		t.Fatalf("created event leaked onto the status topic: %s", msg.Payload)
	case <-time.After(100 * time.Millisecond):
	}
}
