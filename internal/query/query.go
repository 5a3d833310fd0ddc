// Package query implements generic in-memory filter/sort/group operations
// over slices of entity structs. Fields are addressed by exported field name;
// none of the operations mutate their input.
package query

import (
	"reflect"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Collators keep internal buffers, so comparisons are serialized.
var (
	collatorMu sync.Mutex
	collator   = collate.New(language.English)
)

func compareStrings(a, b string) int {
	collatorMu.Lock()
	defer collatorMu.Unlock()

	return collator.CompareString(a, b)
}

// FilterBySearchTerm keeps items where any of the named string fields contains
// term, case-insensitively. A blank term keeps everything. Non-string and
// unknown fields are skipped per item.
func FilterBySearchTerm[T any](items []T, term string, fields []string) []T {
	if strings.TrimSpace(term) == "" {
		return slices.Clone(items)
	}

	needle := strings.ToLower(term)
	out := make([]T, 0, len(items))

	for _, item := range items {
		if matchesAny(item, needle, fields) {
			out = append(out, item)
		}
	}

	return out
}

func matchesAny[T any](item T, needle string, fields []string) bool {
	v := structValue(item)
	if !v.IsValid() {
		return false
	}

	for _, name := range fields {
		f := v.FieldByName(name)
		if !f.IsValid() || f.Kind() != reflect.String {
			continue
		}

		if strings.Contains(strings.ToLower(f.String()), needle) {
			return true
		}
	}

	return false
}

// SortBy returns a stably sorted copy. Strings compare locale-aware, numeric
// fields numerically, time fields chronologically; any other field type
// compares equal, leaving the relative order unchanged.
func SortBy[T any](items []T, field string, order Order) []T {
	out := slices.Clone(items)

	sort.SliceStable(out, func(i, j int) bool {
		cmp := compareField(out[i], out[j], field)
		if order == OrderDesc {
			return cmp > 0
		}

		return cmp < 0
	})

	return out
}

var timeType = reflect.TypeOf(time.Time{})

//nolint:cyclop // one arm per supported field kind
func compareField[T any](a, b T, field string) int {
	av := fieldValue(a, field)
	bv := fieldValue(b, field)

	if !av.IsValid() || !bv.IsValid() {
		return 0
	}

	switch av.Kind() {
	case reflect.String:
		return compareStrings(av.String(), bv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return compareOrdered(av.Int(), bv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return compareOrdered(av.Uint(), bv.Uint())
	case reflect.Float32, reflect.Float64:
		return compareOrdered(av.Float(), bv.Float())
	case reflect.Struct:
		if av.Type() == timeType {
			return compareTimes(av.Interface().(time.Time), bv.Interface().(time.Time))
		}

		return 0
	default:
		return 0
	}
}

func compareOrdered[N int64 | uint64 | float64](a, b N) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

// GroupBy partitions items by the named field, preserving input order within
// each group. Unknown and non-comparable fields produce an empty map.
func GroupBy[T any](items []T, field string) map[any][]T {
	groups := make(map[any][]T)

	for _, item := range items {
		f := fieldValue(item, field)
		if !f.IsValid() || !f.Type().Comparable() {
			continue
		}

		key := f.Interface()
		groups[key] = append(groups[key], item)
	}

	return groups
}

func structValue[T any](item T) reflect.Value {
	v := reflect.ValueOf(item)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}
		}

		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return reflect.Value{}
	}

	return v
}

func fieldValue[T any](item T, field string) reflect.Value {
	v := structValue(item)
	if !v.IsValid() {
		return reflect.Value{}
	}

	return v.FieldByName(field)
}
