package travel

import (
	"errors"
	"fmt"
)

var ErrTravelerCount = errors.New("invalid traveler count")

// TotalPrice computes the frozen booking total: package price at creation time
// multiplied by the traveler count.
func TotalPrice(packagePrice float64, travelers int) (float64, error) {
	if travelers < MinTravelers {
		return 0, fmt.Errorf("number of travelers must be at least %d, got %d: %w",
			MinTravelers, travelers, ErrTravelerCount)
	}

	return packagePrice * float64(travelers), nil
}
