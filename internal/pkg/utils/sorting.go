package utils

import (
	"sort"
	"strconv"
	"strings"

	"allergy-register-service/internal/pkg/constvars"
)

// SortState mirrors the three-way column sort the tables use: descending
// first, ascending second, cleared third.
type SortState struct {
	Key       string
	Direction string
}

// CycleSortOrder advances the sort state for a column: nil -> desc -> asc -> nil.
func CycleSortOrder(current *SortState, key string) *SortState {
	if current == nil || current.Key != key {
		return &SortState{Key: key, Direction: constvars.SortDirectionDesc}
	}
	if current.Direction == constvars.SortDirectionDesc {
		return &SortState{Key: key, Direction: constvars.SortDirectionAsc}
	}
	return nil
}

// SortRows sorts a copy of rows by the given state using the field accessor.
// The comparison is generic: numeric when both values parse as numbers,
// chronological when both parse as dates, otherwise string order.
func SortRows[T any](rows []T, state *SortState, field func(row T, key string) string) []T {
	if state == nil || state.Key == "" || state.Direction == "" {
		return rows
	}
	sorted := make([]T, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		cmp := CompareValues(field(sorted[i], state.Key), field(sorted[j], state.Key))
		if state.Direction == constvars.SortDirectionDesc {
			return cmp > 0
		}
		return cmp < 0
	})
	return sorted
}

// ApplyFilters keeps rows whose fields exactly match every non-empty filter.
func ApplyFilters[T any](rows []T, filters map[string]string, field func(row T, key string) string) []T {
	active := map[string]string{}
	for key, value := range filters {
		if value != "" {
			active[key] = value
		}
	}
	if len(active) == 0 {
		return rows
	}

	filtered := make([]T, 0, len(rows))
	for _, row := range rows {
		matches := true
		for key, value := range active {
			if field(row, key) != value {
				matches = false
				break
			}
		}
		if matches {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// CompareValues orders two cell values. Empty values sort first.
func CompareValues(a, b string) int {
	if a == "" && b == "" {
		return 0
	}
	if a == "" {
		return -1
	}
	if b == "" {
		return 1
	}

	numA, errA := strconv.ParseFloat(a, 64)
	numB, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case numA < numB:
			return -1
		case numA > numB:
			return 1
		default:
			return 0
		}
	}

	timeA, okA := ParseFlexibleTime(a)
	timeB, okB := ParseFlexibleTime(b)
	if okA && okB {
		switch {
		case timeA.Before(timeB):
			return -1
		case timeA.After(timeB):
			return 1
		default:
			return 0
		}
	}

	return strings.Compare(a, b)
}
