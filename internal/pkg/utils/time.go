package utils

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

var (
	slashDateTimePattern = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})(?:\s+(\d{2}):(\d{2}))?$`)
	isoMinutePattern     = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})T(\d{2}):(\d{2})$`)
	isoDatePattern       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

var parseLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
}

// ParseFlexibleTime accepts the date shapes the register deals with: full FHIR
// instants, minute-precision ISO strings, bare dates and DD/MM/YYYY forms.
func ParseFlexibleTime(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range parseLayouts {
		if parsed, err := time.ParseInLocation(layout, trimmed, time.Local); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// ToFHIRDateTime coerces user input to a FHIR dateTime with the local timezone
// offset (e.g. 2024-03-01T10:30:00+08:00). Unparseable input yields "", so a
// malformed date is omitted from the written resource instead of blocking the
// submission.
func ToFHIRDateTime(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}

	if m := slashDateTimePattern.FindStringSubmatch(trimmed); m != nil {
		return buildLocalDateTime(m[3], m[2], m[1], m[4], m[5])
	}
	if m := isoMinutePattern.FindStringSubmatch(trimmed); m != nil {
		return buildLocalDateTime(m[1], m[2], m[3], m[4], m[5])
	}
	if isoDatePattern.MatchString(trimmed) {
		return buildLocalDateTime(trimmed[0:4], trimmed[5:7], trimmed[8:10], "00", "00")
	}

	if parsed, ok := ParseFlexibleTime(trimmed); ok {
		return parsed.In(time.Local).Format("2006-01-02T15:04:05-07:00")
	}
	return ""
}

func buildLocalDateTime(year, month, day, hour, minute string) string {
	if hour == "" {
		hour = "00"
	}
	if minute == "" {
		minute = "00"
	}
	parsed, err := time.ParseInLocation("2006-01-02T15:04", fmt.Sprintf("%s-%s-%sT%s:%s", year, month, day, hour, minute), time.Local)
	if err != nil {
		return ""
	}
	return parsed.Format("2006-01-02T15:04:05-07:00")
}

// DateOnly projects an ISO timestamp to date precision (first 10 characters).
func DateOnly(value string) string {
	if len(value) < 10 {
		return value
	}
	return value[:10]
}

// FormatDate renders dd/MM/yyyy, the report display convention.
func FormatDate(value string) string {
	parsed, ok := ParseFlexibleTime(value)
	if !ok {
		return ""
	}
	return parsed.Format("02/01/2006")
}

// FormatDateTime renders dd/MM/yyyy HH:mm.
func FormatDateTime(value string) string {
	parsed, ok := ParseFlexibleTime(value)
	if !ok {
		return ""
	}
	return parsed.Format("02/01/2006 15:04")
}

// FormatReactionOnset phrases the distance between the reaction start and a
// reference time as "N min", "N hrs" or "N days".
func FormatReactionOnset(startTime, referenceTime string) string {
	start, ok := ParseFlexibleTime(startTime)
	if !ok {
		return ""
	}
	reference := time.Now()
	if referenceTime != "" {
		parsed, ok := ParseFlexibleTime(referenceTime)
		if !ok {
			return ""
		}
		reference = parsed
	}

	minutes := math.Abs(math.Round(start.Sub(reference).Minutes()))
	switch {
	case minutes < 60:
		return fmt.Sprintf("%d min", int(minutes))
	case minutes < 1440:
		return fmt.Sprintf("%d hrs", maxInt(1, int(math.Round(minutes/60))))
	default:
		return fmt.Sprintf("%d days", maxInt(1, int(math.Round(minutes/1440))))
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
