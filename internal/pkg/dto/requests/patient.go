package requests

import "allergy-register-service/internal/pkg/utils"

// PatientSearch carries the search-page inputs. Identifier values are
// normalized before being turned into FHIR query parameters.
type PatientSearch struct {
	URN        string
	Name       string
	MedicareID string
	Gender     string
	Sort       *utils.SortState
}

// ListOptions is the shared client-side filter/sort envelope applied after
// aggregation.
type ListOptions struct {
	Filters map[string]string
	Sort    *utils.SortState
}
