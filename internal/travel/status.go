package travel

// BookingStatus is a closed enumeration. Cancelled and Completed are terminal.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the status machine allows moving to next:
// pending -> confirmed | cancelled, confirmed -> cancelled | completed.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCancelled || next == StatusCompleted
	case StatusCancelled, StatusCompleted:
		return false
	default:
		return false
	}
}

// CanCancelBooking is the capability query backing UI affordances. It must
// stay consistent with CanTransitionTo(StatusCancelled).
func CanCancelBooking(b Booking) bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}
