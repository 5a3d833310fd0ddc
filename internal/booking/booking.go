// Package booking owns the only mutable entity store. It assigns booking
// identity, enforces the status state machine and announces lifecycle changes
// on the event bus.
package booking

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/roamly/roamly/internal/logger"
	"github.com/roamly/roamly/internal/travel"
)

type idGenerator interface {
	GetID(ctx context.Context) (int, error)
}

type packageFinder interface {
	ByID(id int) (*travel.Package, error)
}

type destinationFinder interface {
	ByID(id int) (*travel.Destination, error)
}

type publisher interface {
	PublishBookingCreated(ctx context.Context, booking travel.Booking) error
	PublishBookingStatusChanged(ctx context.Context, booking travel.Booking, oldStatus travel.BookingStatus) error
	PublishBookingDeleted(ctx context.Context, booking travel.Booking) error
}

type Manager struct {
	mu           sync.Mutex
	l            *logger.Logger
	destinations destinationFinder
	packages     packageFinder
	idGenerator  idGenerator
	pub          publisher

	bookings []travel.Booking
}

// New builds a Manager. pub may be nil when no event bus is wired, e.g. in
// tests.
func New(
	l *logger.Logger,
	destinations destinationFinder,
	packages packageFinder,
	idGenerator idGenerator,
	pub publisher,
) *Manager {
	//nolint:exhaustruct
	return &Manager{
		l:            l,
		destinations: destinations,
		packages:     packages,
		idGenerator:  idGenerator,
		pub:          pub,
	}
}

// CreateInput carries the caller-supplied part of a booking. The repository
// always assigns the id; denormalized names default to the catalog entries
// when left blank, and the status defaults to confirmed.
type CreateInput struct {
	UserID            int                  `json:"userId"`
	PackageID         int                  `json:"packageId"`
	PackageName       string               `json:"packageName,omitempty"`
	DestinationName   string               `json:"destinationName,omitempty"`
	NumberOfTravelers int                  `json:"numberOfTravelers"`
	TravelDate        time.Time            `json:"travelDate"`
	SpecialRequests   string               `json:"specialRequests,omitempty"`
	Status            travel.BookingStatus `json:"status,omitempty"`
}

func (in *CreateInput) validate() error {
	inputErr := travel.NewInputError()

	if in.UserID < 1 {
		inputErr.AddError("userId", "provide a positive user id")
	}

	if in.PackageID < 1 {
		inputErr.AddError("packageId", "provide a positive package id")
	}

	if in.NumberOfTravelers < travel.MinTravelers || in.NumberOfTravelers > travel.MaxTravelers {
		inputErr.AddError("numberOfTravelers", "number of travelers must be between 1 and 10")
	}

	if in.TravelDate.IsZero() {
		inputErr.AddError("travelDate", "provide a travel date")
	}

	if in.Status != "" && !in.Status.Valid() {
		inputErr.AddError("status", "unknown booking status")
	}

	return inputErr.ErrOrNil()
}

// Create validates the input, freezes the total price at the current package
// price and stores the new booking. The constructed record is re-checked with
// the booking shape predicate so a malformed record can never enter the store.
func (m *Manager) Create(ctx context.Context, input CreateInput) (*travel.Booking, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	pkg, err := m.packages.ByID(input.PackageID)
	if err != nil {
		return nil, fmt.Errorf("look up package %d: %w", input.PackageID, err)
	}

	if pkg == nil {
		inputErr := travel.NewInputError()
		inputErr.AddError("packageId", "package does not exist")

		return nil, inputErr
	}

	record, err := m.buildBooking(ctx, input, *pkg)
	if err != nil {
		return nil, err
	}

	if !travel.IsBooking(record) {
		return nil, fmt.Errorf("constructed booking failed validation: %w", record.Validate())
	}

	m.mu.Lock()
	m.bookings = append(m.bookings, record)
	m.mu.Unlock()

	m.publishCreated(ctx, record)

	return &record, nil
}

func (m *Manager) buildBooking(ctx context.Context, input CreateInput, pkg travel.Package) (travel.Booking, error) {
	var zero travel.Booking

	id, err := m.idGenerator.GetID(ctx)
	if err != nil {
		return zero, fmt.Errorf("%w: %w", travel.ErrNextID, err)
	}

	totalPrice, err := travel.TotalPrice(pkg.Price, input.NumberOfTravelers)
	if err != nil {
		return zero, fmt.Errorf("compute total price: %w", err)
	}

	status := input.Status
	if status == "" {
		status = travel.StatusConfirmed
	}

	packageName := input.PackageName
	if packageName == "" {
		packageName = pkg.Name
	}

	destinationName := input.DestinationName
	if destinationName == "" {
		destinationName = m.lookupDestinationName(pkg.DestinationID)
	}

	return travel.Booking{
		ID:                id,
		UserID:            input.UserID,
		PackageID:         input.PackageID,
		PackageName:       packageName,
		DestinationName:   destinationName,
		NumberOfTravelers: input.NumberOfTravelers,
		TravelDate:        input.TravelDate,
		SpecialRequests:   input.SpecialRequests,
		TotalPrice:        totalPrice,
		BookingDate:       time.Now().UTC(),
		Status:            status,
	}, nil
}

func (m *Manager) lookupDestinationName(destinationID int) string {
	dest, err := m.destinations.ByID(destinationID)
	if err != nil || dest == nil {
		m.l.LogWarn("Could not denormalize destination %d for booking", destinationID)

		return ""
	}

	return dest.Name
}

// UpdateStatus replaces the status field only, enforcing the transition
// table. An absent id is a nil result, not an error.
func (m *Manager) UpdateStatus(ctx context.Context, id int, status travel.BookingStatus) (*travel.Booking, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	if !status.Valid() {
		inputErr := travel.NewInputError()
		inputErr.AddError("status", "unknown booking status")

		return nil, inputErr
	}

	m.mu.Lock()

	idx := m.indexOf(id)
	if idx < 0 {
		m.mu.Unlock()

		return nil, nil
	}

	current := m.bookings[idx]
	if !current.Status.CanTransitionTo(status) {
		m.mu.Unlock()

		return nil, fmt.Errorf("booking %d: %s -> %s: %w", id, current.Status, status, travel.ErrInvalidTransition)
	}

	updated := current
	updated.Status = status
	m.bookings[idx] = updated
	m.mu.Unlock()

	m.publishStatusChanged(ctx, updated, current.Status)

	return &updated, nil
}

// Cancel transitions a booking to cancelled. A missing booking is reported as
// absent with no error; terminal states are rejected.
func (m *Manager) Cancel(ctx context.Context, id int) (*travel.Booking, error) {
	return m.UpdateStatus(ctx, id, travel.StatusCancelled)
}

// CanCancel is the capability query for UI affordances; it never mutates.
func (m *Manager) CanCancel(id int) (bool, error) {
	if err := validateID(id); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return false, nil
	}

	return travel.CanCancelBooking(m.bookings[idx]), nil
}

func (m *Manager) List() []travel.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.bookings)
}

func (m *Manager) ListByUser(userID int) ([]travel.Booking, error) {
	if userID < 1 {
		inputErr := travel.NewInputError()
		inputErr.AddError("userId", "user id must be at least 1")

		return nil, inputErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]travel.Booking, 0)

	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}

	return out, nil
}

func (m *Manager) ByID(id int) (*travel.Booking, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return nil, nil
	}

	found := m.bookings[idx]

	return &found, nil
}

// Delete removes a booking outright. This is the administrative removal path,
// not the user-facing cancel flow; the freed id is never reassigned.
func (m *Manager) Delete(ctx context.Context, id int) (bool, error) {
	if err := validateID(id); err != nil {
		return false, err
	}

	m.mu.Lock()

	idx := m.indexOf(id)
	if idx < 0 {
		m.mu.Unlock()

		return false, nil
	}

	removed := m.bookings[idx]
	m.bookings = append(m.bookings[:idx], m.bookings[idx+1:]...)
	m.mu.Unlock()

	m.publishDeleted(ctx, removed)

	return true, nil
}

// indexOf must be called with the mutex held.
func (m *Manager) indexOf(id int) int {
	for i, b := range m.bookings {
		if b.ID == id {
			return i
		}
	}

	return -1
}

func (m *Manager) publishCreated(ctx context.Context, b travel.Booking) {
	if m.pub == nil {
		return
	}

	if err := m.pub.PublishBookingCreated(ctx, b); err != nil {
		m.l.LogErrorf("Could not publish booking created event for %d: %v", b.ID, err.Error())
	}
}

func (m *Manager) publishStatusChanged(ctx context.Context, b travel.Booking, oldStatus travel.BookingStatus) {
	if m.pub == nil {
		return
	}

	if err := m.pub.PublishBookingStatusChanged(ctx, b, oldStatus); err != nil {
		m.l.LogErrorf("Could not publish status change event for %d: %v", b.ID, err.Error())
	}
}

func (m *Manager) publishDeleted(ctx context.Context, b travel.Booking) {
	if m.pub == nil {
		return
	}

	if err := m.pub.PublishBookingDeleted(ctx, b); err != nil {
		m.l.LogErrorf("Could not publish booking deleted event for %d: %v", b.ID, err.Error())
	}
}

func validateID(id int) error {
	if id >= 1 {
		return nil
	}

	inputErr := travel.NewInputError()
	inputErr.AddError("id", "id must be at least 1")

	return inputErr
}
