package catalog

import (
	_ "embed"
	"slices"
	"strings"

	"github.com/thoas/go-funk"

	"github.com/roamly/roamly/internal/logger"
	"github.com/roamly/roamly/internal/query"
	"github.com/roamly/roamly/internal/travel"
)

//go:embed data/destinations.json
var destinationSeed []byte

var destinationSearchFields = []string{"Name", "Country", "Description"}

type Destinations struct {
	l     *logger.Logger
	items []travel.Destination
}

// NewDestinations seeds the catalog from the bundled data.
func NewDestinations(conf Config) *Destinations {
	return NewDestinationsFromJSON(conf, destinationSeed)
}

func NewDestinationsFromJSON(conf Config, data []byte) *Destinations {
	items := decodeRecords[travel.Destination](conf.L, "destination", data)

	conf.L.LogInfo("Destination catalog loaded with %d entries", len(items))

	return &Destinations{l: conf.L, items: items}
}

// All returns the catalog in insertion order. The slice is a copy; the
// catalog itself is never mutated after load.
func (d *Destinations) All() []travel.Destination {
	return slices.Clone(d.items)
}

// ByID returns the destination or a nil "absent" result. An id below 1 is an
// input-contract violation, not an absence.
func (d *Destinations) ByID(id int) (*travel.Destination, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	for _, item := range d.items {
		if item.ID == id {
			found := item

			return &found, nil
		}
	}

	return nil, nil
}

func (d *Destinations) ByMinRating(min int) ([]travel.Destination, error) {
	if min < 0 || min > travel.MaxRating {
		inputErr := travelInputError()
		inputErr.AddError("minRating", "minimum rating must be between 0 and 5")

		return nil, inputErr
	}

	out := make([]travel.Destination, 0, len(d.items))

	for _, item := range d.items {
		if item.Rating >= min {
			out = append(out, item)
		}
	}

	return out, nil
}

// ByCountry matches the country exactly, ignoring case.
func (d *Destinations) ByCountry(country string) []travel.Destination {
	out := make([]travel.Destination, 0, len(d.items))

	for _, item := range d.items {
		if strings.EqualFold(item.Country, country) {
			out = append(out, item)
		}
	}

	return out
}

func (d *Destinations) Search(term string) []travel.Destination {
	return query.FilterBySearchTerm(d.items, term, destinationSearchFields)
}

// Countries lists the distinct countries in order of first appearance.
func (d *Destinations) Countries() []string {
	out := make([]string, 0, len(d.items))

	for _, item := range d.items {
		if !funk.ContainsString(out, item.Country) {
			out = append(out, item.Country)
		}
	}

	return out
}

// WithPackageCount pairs a destination with the number of packages that
// reference it.
type WithPackageCount struct {
	travel.Destination
	PackageCount int `json:"packageCount"`
}

func (d *Destinations) WithPackageCounts(packages *Packages) []WithPackageCount {
	grouped := query.GroupBy(packages.items, "DestinationID")

	out := make([]WithPackageCount, 0, len(d.items))

	for _, item := range d.items {
		out = append(out, WithPackageCount{
			Destination:  item,
			PackageCount: len(grouped[item.ID]),
		})
	}

	return out
}
