package catalog

import (
	_ "embed"
	"slices"
	"time"

	"github.com/roamly/roamly/internal/logger"
	"github.com/roamly/roamly/internal/query"
	"github.com/roamly/roamly/internal/travel"
)

//go:embed data/packages.json
var packageSeed []byte

var packageSearchFields = []string{"Name", "Description"}

type Packages struct {
	l     *logger.Logger
	items []travel.Package
}

// NewPackages seeds the catalog from the bundled data.
func NewPackages(conf Config) *Packages {
	return NewPackagesFromJSON(conf, packageSeed)
}

func NewPackagesFromJSON(conf Config, data []byte) *Packages {
	items := decodeRecords[travel.Package](conf.L, "package", data)

	conf.L.LogInfo("Package catalog loaded with %d entries", len(items))

	return &Packages{l: conf.L, items: items}
}

func (p *Packages) All() []travel.Package {
	return slices.Clone(p.items)
}

func (p *Packages) ByID(id int) (*travel.Package, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	for _, item := range p.items {
		if item.ID == id {
			found := item

			return &found, nil
		}
	}

	return nil, nil
}

func (p *Packages) ByDestination(destinationID int) ([]travel.Package, error) {
	if err := validateID(destinationID); err != nil {
		return nil, err
	}

	out := make([]travel.Package, 0, len(p.items))

	for _, item := range p.items {
		if item.DestinationID == destinationID {
			out = append(out, item)
		}
	}

	return out, nil
}

func (p *Packages) Search(term string) []travel.Package {
	return query.FilterBySearchTerm(p.items, term, packageSearchFields)
}

func (p *Packages) ByPriceRange(min, max float64) ([]travel.Package, error) {
	if err := validateRange("priceRange", min, max); err != nil {
		return nil, err
	}

	out := make([]travel.Package, 0, len(p.items))

	for _, item := range p.items {
		if item.Price >= min && item.Price <= max {
			out = append(out, item)
		}
	}

	return out, nil
}

func (p *Packages) ByCategory(category travel.PriceCategory) ([]travel.Package, error) {
	if !category.Valid() {
		inputErr := travelInputError()
		inputErr.AddError("category", "unknown price category")

		return nil, inputErr
	}

	out := make([]travel.Package, 0, len(p.items))

	for _, item := range p.items {
		if travel.PriceCategoryOf(item.Price) == category {
			out = append(out, item)
		}
	}

	return out, nil
}

func (p *Packages) ByDurationRange(min, max int) ([]travel.Package, error) {
	if err := validateRange("durationRange", float64(min), float64(max)); err != nil {
		return nil, err
	}

	out := make([]travel.Package, 0, len(p.items))

	for _, item := range p.items {
		if item.Duration >= min && item.Duration <= max {
			out = append(out, item)
		}
	}

	return out, nil
}

// AvailableAt filters on the inclusive availability window.
func (p *Packages) AvailableAt(at time.Time) []travel.Package {
	out := make([]travel.Package, 0, len(p.items))

	for _, item := range p.items {
		if travel.IsPackageAvailable(item, at) {
			out = append(out, item)
		}
	}

	return out
}

func (p *Packages) Available() []travel.Package {
	return p.AvailableAt(time.Now().UTC())
}
