package fhir_dto

import "encoding/json"

// AllergyIntolerance follows the register's storage convention: one resource
// per (patient, substance) pair, with every clinical event appended to the
// reaction array. Reaction order is insertion order and defines the event's
// 1-based sequence number, so reactions are never resorted before writing.
type AllergyIntolerance struct {
	ResourceType       string            `json:"resourceType,omitempty"`
	ID                 string            `json:"id,omitempty"`
	Meta               *Meta             `json:"meta,omitempty"`
	ClinicalStatus     *CodeableConcept  `json:"clinicalStatus,omitempty"`
	VerificationStatus *CodeableConcept  `json:"verificationStatus,omitempty"`
	Type               string            `json:"type,omitempty"`
	Category           []string          `json:"category,omitempty"`
	Criticality        string            `json:"criticality,omitempty"`
	Code               *CodeableConcept  `json:"code,omitempty"`
	Patient            *Reference        `json:"patient,omitempty"`
	Asserter           *Reference        `json:"asserter,omitempty"`
	RecordedDate       string            `json:"recordedDate,omitempty"`
	PatientInstruction string            `json:"patientInstruction,omitempty"`
	Note               []Annotation      `json:"note,omitempty"`
	Reaction           []AllergyReaction `json:"reaction,omitempty"`
}

type AllergyReaction struct {
	Substance     *CodeableConcept `json:"substance,omitempty"`
	Manifestation []Manifestation  `json:"manifestation,omitempty"`
	Description   string           `json:"description,omitempty"`
	Onset         string           `json:"onset,omitempty"`
	Severity      string           `json:"severity,omitempty"`
	Note          []Annotation     `json:"note,omitempty"`
}

// Manifestation tolerates the shapes found in shared-server data: a proper
// CodeableConcept, a flat {text|display|code} object, or a bare string.
type Manifestation struct {
	Coding  []Coding `json:"coding,omitempty"`
	Text    string   `json:"text,omitempty"`
	Display string   `json:"display,omitempty"`
	Code    string   `json:"code,omitempty"`
}

func (m *Manifestation) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		m.Text = text
		return nil
	}

	type manifestationAlias Manifestation
	var alias manifestationAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*m = Manifestation(alias)
	return nil
}

// Label resolves the display string for any of the accepted shapes, in the
// same precedence the legacy data was read with.
func (m Manifestation) Label() string {
	if m.Text != "" {
		return m.Text
	}
	if m.Display != "" {
		return m.Display
	}
	if m.Code != "" {
		return m.Code
	}
	if len(m.Coding) > 0 {
		if m.Coding[0].Display != "" {
			return m.Coding[0].Display
		}
		return m.Coding[0].Code
	}
	return ""
}
