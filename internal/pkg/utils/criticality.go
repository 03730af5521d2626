package utils

import "strings"

// Canonical risk labels. Distinct from the raw FHIR criticality codes
// (high/low) and from clinicalStatus (active/resolved).
const (
	CriticalityHighRisk  = "High Risk"
	CriticalityLowRisk   = "Low Risk"
	CriticalityDelabeled = "Delabeled"
)

// Known raw forms seen in shared-server and legacy demo data. Checked before
// the substring rules so values like "unable-to-assess" land on a canonical
// label instead of passing through.
var criticalityLabels = map[string]string{
	"high":             CriticalityHighRisk,
	"high risk":        CriticalityHighRisk,
	"low":              CriticalityLowRisk,
	"low risk":         CriticalityLowRisk,
	"delabeled":        CriticalityDelabeled,
	"unable-to-assess": CriticalityLowRisk,
}

// NormalizeCriticality is forgiving on read: several raw forms collapse onto
// each canonical label, and anything unrecognized passes through unchanged.
func NormalizeCriticality(value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if label, ok := criticalityLabels[normalized]; ok {
		return label
	}
	switch {
	case strings.Contains(normalized, "high"):
		return CriticalityHighRisk
	case strings.Contains(normalized, "low"):
		return CriticalityLowRisk
	case strings.Contains(normalized, "delabel"):
		return CriticalityDelabeled
	}
	return value
}

// CriticalityToCode is strict on write: only the three canonical labels map to
// FHIR codes, so passthrough values are never written back as invented codes.
func CriticalityToCode(label string) (string, bool) {
	switch NormalizeCriticality(label) {
	case CriticalityHighRisk:
		return "high", true
	case CriticalityLowRisk:
		return "low", true
	case CriticalityDelabeled:
		return "delabeled", true
	}
	return "", false
}
