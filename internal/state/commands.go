package state

import (
	"slices"

	"github.com/thoas/go-funk"

	"github.com/roamly/roamly/internal/query"
	"github.com/roamly/roamly/internal/travel"
)

func (s *Store) SetUser(u *travel.User) {
	s.Update(Patch{User: Set(u)}) //nolint:exhaustruct
}

func (s *Store) SelectDestination(d *travel.Destination) {
	s.Update(Patch{SelectedDestination: Set(d)}) //nolint:exhaustruct
}

func (s *Store) SelectPackage(p *travel.Package) {
	s.Update(Patch{SelectedPackage: Set(p)}) //nolint:exhaustruct
}

func (s *Store) SetLoading(isLoading bool) {
	s.Update(Patch{IsLoading: Set(isLoading)}) //nolint:exhaustruct
}

func (s *Store) SetError(msg string) {
	s.Update(Patch{Error: Set(msg)}) //nolint:exhaustruct
}

func (s *Store) ClearError() {
	s.SetError("")
}

func (s *Store) SetSearchTerm(term string) {
	s.Update(Patch{SearchTerm: Set(term)}) //nolint:exhaustruct
}

// AddToCart appends to the cart. The read-modify-write runs when the patch is
// applied, not when it is enqueued, so queued cart commands compose and never
// lose entries.
func (s *Store) AddToCart(b travel.Booking) {
	//nolint:exhaustruct
	s.Update(Patch{transform: func(snap Snapshot) Snapshot {
		snap.Cart = append(slices.Clone(snap.Cart), b)

		return snap
	}})
}

func (s *Store) RemoveFromCart(bookingID int) {
	//nolint:exhaustruct
	s.Update(Patch{transform: func(snap Snapshot) Snapshot {
		snap.Cart = funk.Filter(snap.Cart, func(b travel.Booking) bool {
			return b.ID != bookingID
		}).([]travel.Booking)

		return snap
	}})
}

func (s *Store) ClearCart() {
	s.Update(Patch{Cart: Set([]travel.Booking{})}) //nolint:exhaustruct
}

// FilterPatch merges into the current filter criteria, leaving unset fields
// as they are.
type FilterPatch struct {
	PriceMin    Field[float64]
	PriceMax    Field[float64]
	MinRating   Field[int]
	DurationMin Field[int]
	DurationMax Field[int]
	SortField   Field[string]
	SortOrder   Field[query.Order]
}

func (s *Store) SetFilters(p FilterPatch) {
	//nolint:exhaustruct
	s.Update(Patch{transform: func(snap Snapshot) Snapshot {
		merged := snap.Filters
		merged.PriceMin = p.PriceMin.apply(merged.PriceMin)
		merged.PriceMax = p.PriceMax.apply(merged.PriceMax)
		merged.MinRating = p.MinRating.apply(merged.MinRating)
		merged.DurationMin = p.DurationMin.apply(merged.DurationMin)
		merged.DurationMax = p.DurationMax.apply(merged.DurationMax)
		merged.SortField = p.SortField.apply(merged.SortField)
		merged.SortOrder = p.SortOrder.apply(merged.SortOrder)

		snap.Filters = merged

		return snap
	}})
}

func (s *Store) ResetFilters() {
	s.Update(Patch{Filters: Set(DefaultFilters())}) //nolint:exhaustruct
}
