package contracts

import (
	"context"
	"net/url"

	"allergy-register-service/internal/pkg/dto/requests"
	"allergy-register-service/internal/pkg/dto/responses"
	"allergy-register-service/internal/pkg/fhir_dto"
)

type AllergyUsecase interface {
	FetchSubstances(ctx context.Context, patientID string, options *requests.ListOptions) ([]responses.SubstanceRow, error)
	FetchEvents(ctx context.Context, substanceID string, options *requests.ListOptions) ([]responses.EventRow, error)
	// FetchEventByID returns (nil, nil) when the resource or the reaction
	// sequence does not exist.
	FetchEventByID(ctx context.Context, eventID string) (*responses.EventDetail, error)
	CreateEvent(ctx context.Context, patientID string, request *requests.CreateEvent) (*responses.CreateEventResult, error)
}

type AllergyFhirClient interface {
	CreateAllergyIntolerance(ctx context.Context, request *fhir_dto.AllergyIntolerance) (*fhir_dto.AllergyIntolerance, error)
	UpdateAllergyIntolerance(ctx context.Context, request *fhir_dto.AllergyIntolerance) (*fhir_dto.AllergyIntolerance, error)
	// FindAllergyIntoleranceByID returns (nil, nil) on 404.
	FindAllergyIntoleranceByID(ctx context.Context, allergyID string) (*fhir_dto.AllergyIntolerance, error)
	SearchAllergyIntolerances(ctx context.Context, params url.Values) ([]fhir_dto.AllergyIntolerance, error)
}
