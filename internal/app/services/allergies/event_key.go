package allergies

import (
	"fmt"
	"strconv"
	"strings"
)

// CanonicalEventKey rewrites a composite event id to its canonical
// "<allergyId>#<seq>" form. Both "~" and "#" are accepted as the delimiter on
// input; a missing or invalid sequence defaults to 1. ok is false when the id
// carries no allergy id segment.
func CanonicalEventKey(eventID string) (string, bool) {
	allergyID, seq, ok := SplitEventKey(eventID)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s#%d", allergyID, seq), true
}

// SplitEventKey breaks a composite event id into the resource id and the
// 1-based reaction sequence.
func SplitEventKey(eventID string) (string, int, bool) {
	delimiter := "#"
	if strings.Contains(eventID, "~") {
		delimiter = "~"
	}
	parts := strings.SplitN(eventID, delimiter, 2)
	allergyID := parts[0]
	if allergyID == "" {
		return "", 0, false
	}

	seq := 1
	if len(parts) == 2 {
		if parsed, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil && parsed > 0 {
			seq = parsed
		}
	}
	return allergyID, seq, true
}
