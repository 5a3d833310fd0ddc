package travel

import (
	"net/mail"
	"time"
)

func IsValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}

func IsValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)

	return err == nil
}

// IsValidPhone accepts exactly ten digits, matching the booking form contract.
func IsValidPhone(phone string) bool {
	if len(phone) != 10 {
		return false
	}

	for _, r := range phone {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

func (d Destination) Validate() error {
	inputErr := NewInputError()

	if d.ID < 1 {
		inputErr.AddError("id", "provide a positive id")
	}

	if d.Name == "" {
		inputErr.AddError("name", "provide a name")
	}

	if d.Country == "" {
		inputErr.AddError("country", "provide a country")
	}

	if !IsValidRating(d.Rating) {
		inputErr.AddError("rating", "rating must be an integer between 1 and 5")
	}

	return inputErr.ErrOrNil()
}

func (p Package) Validate() error {
	inputErr := NewInputError()

	if p.ID < 1 {
		inputErr.AddError("id", "provide a positive id")
	}

	if p.DestinationID < 1 {
		inputErr.AddError("destinationId", "provide a positive destination id")
	}

	if p.Name == "" {
		inputErr.AddError("name", "provide a name")
	}

	if p.Duration < 1 {
		inputErr.AddError("duration", "duration must be at least one day")
	}

	if p.Price < 0 {
		inputErr.AddError("price", "price must not be negative")
	}

	if p.AvailableFrom.IsZero() || p.AvailableTo.IsZero() {
		inputErr.AddError("availableFrom", "provide an availability window")
	} else if p.AvailableFrom.After(p.AvailableTo) {
		inputErr.AddError("availableFrom", "availableFrom must not be after availableTo")
	}

	return inputErr.ErrOrNil()
}

func (b Booking) Validate() error {
	inputErr := NewInputError()

	if b.ID < 1 {
		inputErr.AddError("id", "provide a positive id")
	}

	if b.UserID < 1 {
		inputErr.AddError("userId", "provide a positive user id")
	}

	if b.PackageID < 1 {
		inputErr.AddError("packageId", "provide a positive package id")
	}

	if b.NumberOfTravelers < MinTravelers || b.NumberOfTravelers > MaxTravelers {
		inputErr.AddError("numberOfTravelers", "number of travelers must be between 1 and 10")
	}

	if b.TravelDate.IsZero() {
		inputErr.AddError("travelDate", "provide a travel date")
	}

	if b.TotalPrice < 0 {
		inputErr.AddError("totalPrice", "total price must not be negative")
	}

	if b.BookingDate.IsZero() {
		inputErr.AddError("bookingDate", "provide a booking date")
	}

	if !b.Status.Valid() {
		inputErr.AddError("status", "unknown booking status")
	}

	return inputErr.ErrOrNil()
}

func (u User) Validate() error {
	inputErr := NewInputError()

	if u.ID < 1 {
		inputErr.AddError("id", "provide a positive id")
	}

	if u.Name == "" {
		inputErr.AddError("name", "provide a name")
	}

	if !IsValidEmail(u.Email) {
		inputErr.AddError("email", "provide a valid email")
	}

	return inputErr.ErrOrNil()
}

// Shape predicates over the entities. Total: invalid shape yields false,
// never an error.

func IsDestination(d Destination) bool { return d.Validate() == nil }

func IsPackage(p Package) bool { return p.Validate() == nil }

func IsBooking(b Booking) bool { return b.Validate() == nil }

func IsUser(u User) bool { return u.Validate() == nil }

// IsPackageAvailable reports whether at falls inside the availability window,
// both ends inclusive.
func IsPackageAvailable(pkg Package, at time.Time) bool {
	return !at.Before(pkg.AvailableFrom) && !at.After(pkg.AvailableTo)
}

// DaysUntilAvailable rounds up to whole days and clamps at zero for packages
// that are already open.
func DaysUntilAvailable(pkg Package, now time.Time) int {
	diff := pkg.AvailableFrom.Sub(now)
	if diff <= 0 {
		return 0
	}

	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) != 0 {
		days++
	}

	return days
}
