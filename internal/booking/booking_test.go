package booking

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamly/roamly/internal/idgen/simple"
	"github.com/roamly/roamly/internal/logger"
	"github.com/roamly/roamly/internal/travel"
)

func testLogger() *logger.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return logger.New(l)
}

type stubCatalog struct {
	destinations map[int]travel.Destination
	packages     map[int]travel.Package
}

func (s *stubCatalog) destByID(id int) (*travel.Destination, error) {
	if d, ok := s.destinations[id]; ok {
		return &d, nil
	}

	return nil, nil
}

func (s *stubCatalog) pkgByID(id int) (*travel.Package, error) {
	if p, ok := s.packages[id]; ok {
		return &p, nil
	}

	return nil, nil
}

type destFinderFunc func(id int) (*travel.Destination, error)

func (f destFinderFunc) ByID(id int) (*travel.Destination, error) { return f(id) }

type pkgFinderFunc func(id int) (*travel.Package, error)

func (f pkgFinderFunc) ByID(id int) (*travel.Package, error) { return f(id) }

type recordingPublisher struct {
	created       []travel.Booking
	statusChanges []travel.BookingStatus
	deleted       []travel.Booking
}

func (r *recordingPublisher) PublishBookingCreated(_ context.Context, b travel.Booking) error {
	r.created = append(r.created, b)

	return nil
}

func (r *recordingPublisher) PublishBookingStatusChanged(
	_ context.Context,
	b travel.Booking,
	oldStatus travel.BookingStatus,
) error {
	r.statusChanges = append(r.statusChanges, oldStatus, b.Status)

	return nil
}

func (r *recordingPublisher) PublishBookingDeleted(_ context.Context, b travel.Booking) error {
	r.deleted = append(r.deleted, b)

	return nil
}

func testCatalog() *stubCatalog {
	return &stubCatalog{
		destinations: map[int]travel.Destination{
			//nolint:exhaustruct
			1: {ID: 1, Name: "Goa", Country: "India", Rating: 4},
		},
		packages: map[int]travel.Package{
			//nolint:exhaustruct
			7: {
				ID:            7,
				DestinationID: 1,
				Name:          "Goa Beach Escape",
				Duration:      5,
				Price:         50000,
				AvailableFrom: time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
				AvailableTo:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
			},
		},
	}
}

func newTestManager(pub *recordingPublisher) *Manager {
	cat := testCatalog()

	var p publisher
	if pub != nil {
		p = pub
	}

	return New(testLogger(), destFinderFunc(cat.destByID), pkgFinderFunc(cat.pkgByID), simple.New(), p)
}

func validInput() CreateInput {
	//nolint:exhaustruct
	return CreateInput{
		UserID:            1,
		PackageID:         7,
		NumberOfTravelers: 3,
		TravelDate:        time.Date(2025, 12, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateFreezesTotalPriceAndDefaults(t *testing.T) {
	t.Parallel()

	m := newTestManager(nil)

	created, err := m.Create(context.Background(), validInput())
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, 1, created.ID)
	assert.InDelta(t, 150000, created.TotalPrice, 0.001, "3 travelers at 50000 each")
	assert.Equal(t, travel.StatusConfirmed, created.Status, "status defaults to confirmed")
	assert.Equal(t, "Goa Beach Escape", created.PackageName)
	assert.Equal(t, "Goa", created.DestinationName)
	assert.False(t, created.BookingDate.IsZero())
}

func TestCreateKeepsCallerSuppliedFields(t *testing.T) {
	t.Parallel()

	m := newTestManager(nil)

	input := validInput()
	input.Status = travel.StatusPending
	input.PackageName = "My custom label"

	created, err := m.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, travel.StatusPending, created.Status)
	assert.Equal(t, "My custom label", created.PackageName)
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*CreateInput)
		field  string
	}{
		{name: "missing user", mutate: func(in *CreateInput) { in.UserID = 0 }, field: "userId"},
		{name: "missing package", mutate: func(in *CreateInput) { in.PackageID = 0 }, field: "packageId"},
		{name: "zero travelers", mutate: func(in *CreateInput) { in.NumberOfTravelers = 0 }, field: "numberOfTravelers"},
		{name: "too many travelers", mutate: func(in *CreateInput) { in.NumberOfTravelers = 11 }, field: "numberOfTravelers"},
		{name: "missing travel date", mutate: func(in *CreateInput) { in.TravelDate = time.Time{} }, field: "travelDate"},
		{name: "bad status", mutate: func(in *CreateInput) { in.Status = "archived" }, field: "status"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := newTestManager(nil)

			input := validInput()
			tt.mutate(&input)

			_, err := m.Create(context.Background(), input)
			require.Error(t, err)

			inputErr := travel.IsInputError(err)
			require.NotNil(t, inputErr)
			assert.Contains(t, inputErr.Fields(), tt.field)
		})
	}
}

func TestCreateUnknownPackage(t *testing.T) {
	t.Parallel()

	m := newTestManager(nil)

	input := validInput()
	input.PackageID = 404

	_, err := m.Create(context.Background(), input)
	require.Error(t, err)

	inputErr := travel.IsInputError(err)
	require.NotNil(t, inputErr)
	assert.Contains(t, inputErr.Fields(), "packageId")
}

func TestIDsAreMonotonicAndNeverReused(t *testing.T) {
	t.Parallel()

	m := newTestManager(nil)
	ctx := context.Background()

	first, err := m.Create(ctx, validInput())
	require.NoError(t, err)

	second, err := m.Create(ctx, validInput())
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)

	removed, err := m.Delete(ctx, second.ID)
	require.NoError(t, err)
	require.True(t, removed)

	third, err := m.Create(ctx, validInput())
	require.NoError(t, err)
	assert.Greater(t, third.ID, second.ID, "deleted ids are not handed out again")
}

func TestUpdateStatusEnforcesTransitions(t *testing.T) {
	t.Parallel()

	m := newTestManager(nil)
	ctx := context.Background()

	created, err := m.Create(ctx, validInput())
	require.NoError(t, err)

	completed, err := m.UpdateStatus(ctx, created.ID, travel.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, travel.StatusCompleted, completed.Status)

	_, err = m.UpdateStatus(ctx, created.ID, travel.StatusCancelled)
	require.ErrorIs(t, err, travel.ErrInvalidTransition, "completed is terminal")

	_, err = m.UpdateStatus(ctx, created.ID, "archived")
	require.Error(t, err)
	assert.NotNil(t, travel.IsInputError(err))

	absent, err := m.UpdateStatus(ctx, 404, travel.StatusCancelled)
	require.NoError(t, err)
	assert.Nil(t, absent)
}

func TestCancelFlow(t *testing.T) {
	t.Parallel()

	m := newTestManager(nil)
	ctx := context.Background()

	created, err := m.Create(ctx, validInput())
	require.NoError(t, err)

	can, err := m.CanCancel(created.ID)
	require.NoError(t, err)
	assert.True(t, can)

	cancelled, err := m.Cancel(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, travel.StatusCancelled, cancelled.Status)

	can, err = m.CanCancel(created.ID)
	require.NoError(t, err)
	assert.False(t, can)

	_, err = m.Cancel(ctx, created.ID)
	require.ErrorIs(t, err, travel.ErrInvalidTransition)

	absent, err := m.Cancel(ctx, 404)
	require.NoError(t, err)
	assert.Nil(t, absent, "cancelling an unknown booking is a quiet no-op")
}

func TestListByUser(t *testing.T) {
	t.Parallel()

	m := newTestManager(nil)
	ctx := context.Background()

	input := validInput()
	_, err := m.Create(ctx, input)
	require.NoError(t, err)

	input.UserID = 2
	_, err = m.Create(ctx, input)
	require.NoError(t, err)

	mine, err := m.ListByUser(1)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	nobody, err := m.ListByUser(3)
	require.NoError(t, err)
	assert.Empty(t, nobody)

	_, err = m.ListByUser(0)
	require.Error(t, err)

	assert.Len(t, m.List(), 2)
}

func TestByID(t *testing.T) {
	t.Parallel()

	m := newTestManager(nil)
	ctx := context.Background()

	created, err := m.Create(ctx, validInput())
	require.NoError(t, err)

	found, err := m.ByID(created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	absent, err := m.ByID(404)
	require.NoError(t, err)
	assert.Nil(t, absent)

	_, err = m.ByID(0)
	require.Error(t, err)
}

func TestListReturnsACopy(t *testing.T) {
	t.Parallel()

	m := newTestManager(nil)

	created, err := m.Create(context.Background(), validInput())
	require.NoError(t, err)

	listed := m.List()
	listed[0].Status = travel.StatusCompleted

	found, err := m.ByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, travel.StatusConfirmed, found.Status)
}

func TestLifecycleEventsArePublished(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{created: nil, statusChanges: nil, deleted: nil}
	m := newTestManager(pub)
	ctx := context.Background()

	created, err := m.Create(ctx, validInput())
	require.NoError(t, err)
	require.Len(t, pub.created, 1)
	assert.Equal(t, created.ID, pub.created[0].ID)

	_, err = m.Cancel(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []travel.BookingStatus{travel.StatusConfirmed, travel.StatusCancelled}, pub.statusChanges)

	removed, err := m.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, removed)
	require.Len(t, pub.deleted, 1)
	assert.Equal(t, created.ID, pub.deleted[0].ID)

	_, err = m.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, pub.deleted, 1, "deleting an absent booking publishes nothing")
}

type failingIDGen struct {
	err error
}

func (f failingIDGen) GetID(context.Context) (int, error) { return 0, f.err }

func TestCreateReportsIDGeneratorFailure(t *testing.T) {
	t.Parallel()

	cat := testCatalog()
	cause := errors.New("counter exhausted")

	m := New(testLogger(), destFinderFunc(cat.destByID), pkgFinderFunc(cat.pkgByID), failingIDGen{err: cause}, nil)

	_, err := m.Create(context.Background(), validInput())
	require.ErrorIs(t, err, travel.ErrNextID)
	require.ErrorIs(t, err, cause, "the generator's own error stays in the chain")
}
