package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/roamly/roamly/internal/travel"
)

const (
	TopicBookingCreated       = "booking.created"
	TopicBookingStatusChanged = "booking.status_changed"
	TopicBookingDeleted       = "booking.deleted"
)

type Header struct {
	ID          string    `json:"id"`
	PublishedAt time.Time `json:"published_at"`
}

func NewHeader() Header {
	return Header{
		ID:          uuid.NewString(),
		PublishedAt: time.Now().UTC(),
	}
}

type BookingCreated struct {
	Header  Header         `json:"header"`
	Booking travel.Booking `json:"booking"`
}

func (BookingCreated) Type() string { return "BookingCreated" }

type BookingStatusChanged struct {
	Header    Header               `json:"header"`
	OldStatus travel.BookingStatus `json:"old_status"`
	NewStatus travel.BookingStatus `json:"new_status"`
	Booking   travel.Booking       `json:"booking"`
}

func (BookingStatusChanged) Type() string { return "BookingStatusChanged" }

type BookingDeleted struct {
	Header  Header         `json:"header"`
	Booking travel.Booking `json:"booking"`
}

func (BookingDeleted) Type() string { return "BookingDeleted" }
