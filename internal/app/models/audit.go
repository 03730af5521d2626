package models

import "time"

// EventAudit is one audit-trail document per successful write against the
// FHIR server.
type EventAudit struct {
	RequestID   string    `bson:"request_id"`
	Action      string    `bson:"action"`
	PatientID   string    `bson:"patient_id"`
	AllergyID   string    `bson:"allergy_id,omitempty"`
	EventID     string    `bson:"event_id,omitempty"`
	Substance   string    `bson:"substance,omitempty"`
	SubmittedBy string    `bson:"submitted_by,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
}
