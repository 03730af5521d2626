package responses

import "strconv"

// EventRow is one clinical event: a single reaction expanded out of an
// AllergyIntolerance resource. ID uses the per-resource local index
// ("<resourceId>#<localIndex+1>"); Seq is the global 1..N position across the
// whole substance group ordered by onset.
type EventRow struct {
	ID                       string   `json:"id"`
	Seq                      int      `json:"seq"`
	SubstanceID              string   `json:"substanceId"`
	SubstanceName            string   `json:"substanceName"`
	Date                     string   `json:"date,omitempty"`
	Notes                    string   `json:"notes"`
	TreatingDoctor           string   `json:"treatingDoctor"`
	DoctorRole               string   `json:"doctorRole"`
	RiskSubstanceName        string   `json:"riskSubstanceName"`
	VerificationStatus       string   `json:"verificationStatus"`
	Criticality              string   `json:"criticality"`
	ReactionStartTime        string   `json:"reactionStartTime,omitempty"`
	Manifestations           []string `json:"manifestations"`
	ClinicalManagement       string   `json:"clinicalManagement"`
	AutoInjectorPrescribed   *bool    `json:"autoInjectorPrescribed,omitempty"`
	PatientMustAvoid         string   `json:"patientMustAvoid"`
	TestResults              string   `json:"testResults"`
	TestMethod               string   `json:"testMethod"`
	Outcome                  string   `json:"outcome"`
	Comments                 string   `json:"comments"`
	Severity                 string   `json:"severity"`
	InitialExposureTime      string   `json:"initialExposureTime"`
	ReactionOnsetDescription string   `json:"reactionOnsetDescription"`
	FirstOnset               string   `json:"firstOnset"`
	LastOnset                string   `json:"lastOnset,omitempty"`
}

func (r EventRow) Field(key string) string {
	switch key {
	case "id":
		return r.ID
	case "seq":
		return strconv.Itoa(r.Seq)
	case "substanceName":
		return r.SubstanceName
	case "date":
		return r.Date
	case "severity":
		return r.Severity
	case "criticality":
		return r.Criticality
	case "verificationStatus":
		return r.VerificationStatus
	case "treatingDoctor":
		return r.TreatingDoctor
	case "outcome":
		return r.Outcome
	}
	return ""
}

// EventDetail is the single-event view addressed by composite id.
type EventDetail struct {
	ID                       string   `json:"id"`
	PatientID                string   `json:"patientId"`
	Seq                      int      `json:"seq"`
	SubstanceID              string   `json:"substanceId"`
	SubstanceName            string   `json:"substanceName"`
	Date                     string   `json:"date,omitempty"`
	TreatingDoctor           string   `json:"treatingDoctor,omitempty"`
	DoctorRole               string   `json:"doctorRole,omitempty"`
	Notes                    string   `json:"notes"`
	ClinicalManagement       string   `json:"clinicalManagement,omitempty"`
	ReactionStartTime        string   `json:"reactionStartTime,omitempty"`
	ReactionOnsetDescription string   `json:"reactionOnsetDescription"`
	Manifestations           []string `json:"manifestations"`
	VerificationStatus       string   `json:"verificationStatus"`
	Criticality              string   `json:"criticality"`
	Severity                 string   `json:"severity,omitempty"`
	TestMethod               string   `json:"testMethod,omitempty"`
	Outcome                  string   `json:"outcome,omitempty"`
	Comments                 string   `json:"comments,omitempty"`
	RiskSubstanceName        string   `json:"riskSubstanceName"`
	InitialExposureTime      string   `json:"initialExposureTime,omitempty"`
	FirstReactionOnset       string   `json:"firstReactionOnset,omitempty"`
	FirstOnset               string   `json:"firstOnset,omitempty"`
	LastOnset                string   `json:"lastOnset,omitempty"`
	AutoInjectorPrescribed   *bool    `json:"autoInjectorPrescribed,omitempty"`
	TestResults              string   `json:"testResults,omitempty"`
	PatientMustAvoid         string   `json:"patientMustAvoid,omitempty"`
}

// CreateEventResult is the write pipeline's return value: the composite id of
// the appended reaction and the owning resource id.
type CreateEventResult struct {
	ID          string `json:"id"`
	SubstanceID string `json:"substanceId"`
}
