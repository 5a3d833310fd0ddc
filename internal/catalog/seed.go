package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"

	"github.com/mitchellh/mapstructure"

	"github.com/roamly/roamly/internal/logger"
	"github.com/roamly/roamly/internal/travel"
)

const seedDateLayout = "2006-01-02"

func travelInputError() *travel.InputError {
	return travel.NewInputError()
}

// decodeRecords turns a JSON array into validated entities. It fails closed:
// any record that does not decode or validate poisons the whole seed, every
// diagnostic is logged, and the caller gets an empty catalog.
func decodeRecords[T interface{ Validate() error }](l *logger.Logger, kind string, data []byte) []T {
	var raws []map[string]any

	if err := json.Unmarshal(data, &raws); err != nil {
		l.LogErrorf("Could not parse %s seed, catalog stays empty: %v", kind, err.Error())

		return nil
	}

	out := make([]T, 0, len(raws))

	var diagnostics []string

	for i, raw := range raws {
		rec, err := decodeRecord[T](raw)
		if err != nil {
			diagnostics = append(diagnostics, fmt.Sprintf("record %d: %v", i, err.Error()))

			continue
		}

		if err := rec.Validate(); err != nil {
			diagnostics = append(diagnostics, fmt.Sprintf("record %d: %v", i, err.Error()))

			continue
		}

		out = append(out, rec)
	}

	if len(diagnostics) > 0 {
		for _, d := range diagnostics {
			l.LogErrorf("Invalid %s seed %s", kind, d)
		}

		l.LogErrorf("%s seed rejected (%d invalid of %d), catalog stays empty", kind, len(diagnostics), len(raws))

		return nil
	}

	return out
}

func decodeRecord[T any](raw map[string]any) (T, error) {
	var rec T

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &rec,
		ErrorUnused: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(seedDateLayout),
			wholeNumberHook,
		),
	})
	if err != nil {
		return rec, fmt.Errorf("build decoder: %w", err)
	}

	if err := dec.Decode(raw); err != nil {
		return rec, err
	}

	return rec, nil
}

// wholeNumberHook maps JSON numbers onto integer fields, rejecting fractional
// values instead of truncating them.
func wholeNumberHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.Float64 || to.Kind() != reflect.Int {
		return data, nil
	}

	f, ok := data.(float64)
	if !ok {
		return data, nil
	}

	if f != math.Trunc(f) {
		return nil, fmt.Errorf("expected a whole number, got %v", f)
	}

	return int(f), nil
}
