package utils

import (
	"testing"

	"allergy-register-service/internal/pkg/constvars"

	"github.com/stretchr/testify/assert"
)

type testRow struct {
	Name  string
	Count string
	Date  string
}

func testRowField(row testRow, key string) string {
	switch key {
	case "name":
		return row.Name
	case "count":
		return row.Count
	case "date":
		return row.Date
	}
	return ""
}

func TestCompareValues(t *testing.T) {
	t.Run("Numeric Comparison Wins Over Lexicographic", func(t *testing.T) {
		assert.Equal(t, -1, CompareValues("2", "10"))
		assert.Equal(t, 1, CompareValues("10", "2"))
	})

	t.Run("Chronological Comparison", func(t *testing.T) {
		assert.Equal(t, -1, CompareValues("2024-01-01", "2024-02-01"))
		assert.Equal(t, 1, CompareValues("01/03/2024", "2024-01-01"))
	})

	t.Run("Empty Values Sort First", func(t *testing.T) {
		assert.Equal(t, -1, CompareValues("", "anything"))
		assert.Equal(t, 1, CompareValues("anything", ""))
		assert.Equal(t, 0, CompareValues("", ""))
	})

	t.Run("String Fallback", func(t *testing.T) {
		assert.Equal(t, -1, CompareValues("apple", "banana"))
	})
}

func TestSortRows(t *testing.T) {
	rows := []testRow{
		{Name: "Peanut", Count: "3", Date: "2024-03-01"},
		{Name: "Amoxicillin", Count: "10", Date: "2024-01-01"},
		{Name: "Milk", Count: "2", Date: "2024-02-01"},
	}

	t.Run("Ascending Numeric", func(t *testing.T) {
		sorted := SortRows(rows, &SortState{Key: "count", Direction: constvars.SortDirectionAsc}, testRowField)
		assert.Equal(t, []string{"2", "3", "10"}, []string{sorted[0].Count, sorted[1].Count, sorted[2].Count})
	})

	t.Run("Descending Date", func(t *testing.T) {
		sorted := SortRows(rows, &SortState{Key: "date", Direction: constvars.SortDirectionDesc}, testRowField)
		assert.Equal(t, "2024-03-01", sorted[0].Date)
		assert.Equal(t, "2024-01-01", sorted[2].Date)
	})

	t.Run("Nil State Returns Input Order", func(t *testing.T) {
		sorted := SortRows(rows, nil, testRowField)
		assert.Equal(t, rows, sorted)
	})

	t.Run("Input Slice Untouched", func(t *testing.T) {
		SortRows(rows, &SortState{Key: "name", Direction: constvars.SortDirectionAsc}, testRowField)
		assert.Equal(t, "Peanut", rows[0].Name)
	})
}

func TestApplyFilters(t *testing.T) {
	rows := []testRow{
		{Name: "Peanut", Count: "3"},
		{Name: "Milk", Count: "3"},
		{Name: "Peanut", Count: "1"},
	}

	t.Run("Exact Match On Every Filter", func(t *testing.T) {
		filtered := ApplyFilters(rows, map[string]string{"name": "Peanut", "count": "3"}, testRowField)
		assert.Len(t, filtered, 1)
	})

	t.Run("Empty Filter Values Ignored", func(t *testing.T) {
		filtered := ApplyFilters(rows, map[string]string{"name": ""}, testRowField)
		assert.Len(t, filtered, 3)
	})
}

func TestCycleSortOrder(t *testing.T) {
	state := CycleSortOrder(nil, "name")
	assert.Equal(t, constvars.SortDirectionDesc, state.Direction)

	state = CycleSortOrder(state, "name")
	assert.Equal(t, constvars.SortDirectionAsc, state.Direction)

	state = CycleSortOrder(state, "name")
	assert.Nil(t, state)
}
