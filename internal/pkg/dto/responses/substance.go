package responses

import "strconv"

// SubstanceRow aggregates every AllergyIntolerance resource that shares a
// substance name for one patient. ID is the comma-joined list of underlying
// resource ids; GroupIDs carries them split out for event expansion.
type SubstanceRow struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	EventsCount        int      `json:"eventsCount"`
	VerificationStatus string   `json:"verificationStatus"`
	Criticality        string   `json:"criticality"`
	LastReportDate     string   `json:"lastReportDate,omitempty"`
	GroupIDs           []string `json:"_groupIds"`
}

func (r SubstanceRow) Field(key string) string {
	switch key {
	case "id":
		return r.ID
	case "name":
		return r.Name
	case "eventsCount":
		return strconv.Itoa(r.EventsCount)
	case "verificationStatus":
		return r.VerificationStatus
	case "criticality":
		return r.Criticality
	case "lastReportDate":
		return r.LastReportDate
	}
	return ""
}
