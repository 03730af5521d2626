package fhir_dto

import "encoding/json"

type FHIRBundle struct {
	ResourceType string  `json:"resourceType"`
	ID           string  `json:"id,omitempty"`
	Type         string  `json:"type,omitempty"`
	Total        int     `json:"total,omitempty"`
	Entry        []Entry `json:"entry,omitempty"`
}

type Entry struct {
	FullURL  string          `json:"fullUrl,omitempty"`
	Resource json.RawMessage `json:"resource"`
}
