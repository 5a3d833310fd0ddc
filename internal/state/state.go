// Package state holds the single live snapshot of cross-cutting UI state.
// Every update replaces the whole snapshot and is broadcast to all observers
// in subscription order, one update fully processed before the next.
package state

import (
	"github.com/roamly/roamly/internal/query"
	"github.com/roamly/roamly/internal/travel"
)

// Filters is the cross-cutting search/filter criteria.
type Filters struct {
	PriceMin    float64     `json:"priceMin"`
	PriceMax    float64     `json:"priceMax"`
	MinRating   int         `json:"minRating"`
	DurationMin int         `json:"durationMin"`
	DurationMax int         `json:"durationMax"`
	SortField   string      `json:"sortField"`
	SortOrder   query.Order `json:"sortOrder"`
}

func DefaultFilters() Filters {
	return Filters{
		PriceMin:    0,
		PriceMax:    1000000,
		MinRating:   0,
		DurationMin: 1,
		DurationMax: 30,
		SortField:   "name",
		SortOrder:   query.OrderAsc,
	}
}

// Snapshot is one immutable version of the application state. An empty Error
// means no error.
type Snapshot struct {
	User                *travel.User        `json:"user"`
	SelectedDestination *travel.Destination `json:"selectedDestination"`
	SelectedPackage     *travel.Package     `json:"selectedPackage"`
	Cart                []travel.Booking    `json:"cart"`
	IsLoading           bool                `json:"isLoading"`
	Error               string              `json:"error,omitempty"`
	SearchTerm          string              `json:"searchTerm"`
	Filters             Filters             `json:"filters"`
}

func initialSnapshot() Snapshot {
	return Snapshot{
		User:                nil,
		SelectedDestination: nil,
		SelectedPackage:     nil,
		Cart:                []travel.Booking{},
		IsLoading:           false,
		Error:               "",
		SearchTerm:          "",
		Filters:             DefaultFilters(),
	}
}
