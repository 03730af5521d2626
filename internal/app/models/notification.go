package models

import "time"

// EventNotification is the message published to the downstream queue after an
// event is recorded.
type EventNotification struct {
	Event       string    `json:"event"`
	EventID     string    `json:"event_id"`
	PatientID   string    `json:"patient_id"`
	SubstanceID string    `json:"substance_id"`
	Substance   string    `json:"substance"`
	RecordedAt  time.Time `json:"recorded_at"`
}
