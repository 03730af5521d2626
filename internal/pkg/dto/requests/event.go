package requests

import "encoding/json"

// CreateEvent is the event-entry form payload. Patient fields are only used
// when the submission targets a new patient.
type CreateEvent struct {
	PatientName string `json:"patientName"`
	URN         string `json:"urn"`
	MedicareID  string `json:"medicareId"`
	Gender      string `json:"gender"`
	DOB         string `json:"dob"`

	SubstanceName      string               `json:"substanceName" validate:"required"`
	EventDate          string               `json:"eventDate"`
	Severity           string               `json:"severity" validate:"omitempty,oneof=High Medium Low"`
	Manifestations     []ManifestationInput `json:"manifestations"`
	VerificationStatus string               `json:"verificationStatus" validate:"omitempty,oneof=Confirmed Unconfirmed Refuted"`
	Criticality        string               `json:"criticality"`

	RiskSubstanceName        string `json:"riskSubstanceName"`
	ClinicalManagement       string `json:"clinicalManagement"`
	TestMethod               string `json:"testMethod"`
	TestResults              string `json:"testResults"`
	Outcome                  string `json:"outcome"`
	FirstOnset               string `json:"firstOnset"`
	PatientMustAvoid         string `json:"patientMustAvoid"`
	AutoInjectorPrescribed   *bool  `json:"autoInjectorPrescribed"`
	TreatingDoctor           string `json:"treatingDoctor"`
	TreatingDoctorRole       string `json:"treatingDoctorRole"`
	InitialExposureTime      string `json:"initialExposureTime"`
	ReactionOnsetDescription string `json:"reactionOnsetDescription"`
	Comments                 string `json:"comments"`
	ReactionStartTime        string `json:"reactionStartTime"`
	LastOnset                string `json:"lastOnset"`
}

// ManifestationInput accepts either a bare symptom string or a structured
// coded item, matching what the entry form submits.
type ManifestationInput struct {
	Text         string `json:"text"`
	Display      string `json:"display"`
	Code         string `json:"code"`
	System       string `json:"system"`
	CodingSystem string `json:"codingSystem"`
}

func (m *ManifestationInput) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		m.Text = text
		return nil
	}

	type inputAlias ManifestationInput
	var alias inputAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*m = ManifestationInput(alias)
	return nil
}

// IsEmpty reports whether the item carries no usable content.
func (m ManifestationInput) IsEmpty() bool {
	return m.Text == "" && m.Display == "" && m.Code == ""
}
