package contracts

import (
	"context"
	"net/url"

	"allergy-register-service/internal/pkg/dto/requests"
	"allergy-register-service/internal/pkg/dto/responses"
	"allergy-register-service/internal/pkg/fhir_dto"
)

type PatientUsecase interface {
	SearchPatients(ctx context.Context, request *requests.PatientSearch) ([]responses.PatientRow, error)
	// FindPatientByID returns (nil, nil) when the patient does not exist.
	FindPatientByID(ctx context.Context, patientID string) (*responses.PatientRow, error)
}

type PatientFhirClient interface {
	CreatePatient(ctx context.Context, request *fhir_dto.Patient) (*fhir_dto.Patient, error)
	// FindPatientByID returns (nil, nil) on 404.
	FindPatientByID(ctx context.Context, patientID string) (*fhir_dto.Patient, error)
	SearchPatients(ctx context.Context, params url.Values) ([]fhir_dto.Patient, error)
}
