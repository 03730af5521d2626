package patients

import (
	"strings"

	"allergy-register-service/internal/pkg/constvars"
	"allergy-register-service/internal/pkg/dto/responses"
	"allergy-register-service/internal/pkg/fhir_dto"
)

// MapPatientToRow flattens a Patient resource into the search-table row shape.
func MapPatientToRow(patient *fhir_dto.Patient) responses.PatientRow {
	return responses.PatientRow{
		ID:         patient.ID,
		URN:        identifierValue(patient, constvars.FhirSystemURN, constvars.FhirSystemURNLegacy),
		MedicareID: identifierValue(patient, constvars.FhirSystemMedicare, constvars.FhirSystemMedicareLegacy),
		Name:       patientDisplayName(patient),
		Gender:     capitalize(patient.Gender),
		DOB:        patient.BirthDate,
	}
}

func MapPatientsToRows(patients []fhir_dto.Patient) []responses.PatientRow {
	rows := make([]responses.PatientRow, 0, len(patients))
	for i := range patients {
		rows = append(rows, MapPatientToRow(&patients[i]))
	}
	return rows
}

// identifierValue resolves the value for an identifier system: an exact match
// on the canonical URI first, then a case-insensitive match against the legacy
// bare-string system used by older seeded records.
func identifierValue(patient *fhir_dto.Patient, system, legacySystem string) string {
	for _, identifier := range patient.Identifier {
		if identifier.System == system {
			return identifier.Value
		}
	}
	for _, identifier := range patient.Identifier {
		if strings.EqualFold(identifier.System, legacySystem) {
			return identifier.Value
		}
	}
	return ""
}

func patientDisplayName(patient *fhir_dto.Patient) string {
	if len(patient.Name) == 0 {
		return "Unknown"
	}
	name := patient.Name[0]
	if name.Text != "" {
		return name.Text
	}
	parts := make([]string, 0, len(name.Given)+1)
	parts = append(parts, name.Given...)
	if name.Family != "" {
		parts = append(parts, name.Family)
	}
	if joined := strings.TrimSpace(strings.Join(parts, " ")); joined != "" {
		return joined
	}
	return "Unknown"
}

func capitalize(value string) string {
	if value == "" {
		return ""
	}
	return strings.ToUpper(value[:1]) + value[1:]
}
