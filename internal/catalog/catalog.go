// Package catalog holds the read-only destination and package catalogs. Both
// are seeded once at startup from bundled JSON; a seed that fails validation
// leaves the catalog empty so the rest of the application keeps working with
// zero results instead of crashing.
package catalog

import (
	"github.com/roamly/roamly/internal/logger"
)

type Config struct {
	L *logger.Logger
}

func validateID(id int) error {
	if id >= 1 {
		return nil
	}

	inputErr := travelInputError()
	inputErr.AddError("id", "id must be at least 1")

	return inputErr
}

func validateRange(name string, min, max float64) error {
	inputErr := travelInputError()

	if min < 0 {
		inputErr.AddError(name, "min must not be negative")
	}

	if max < min {
		inputErr.AddError(name, "max must not be less than min")
	}

	return inputErr.ErrOrNil()
}
