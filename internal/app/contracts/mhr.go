package contracts

import (
	"context"

	"allergy-register-service/internal/pkg/dto/responses"
)

type MhrUsecase interface {
	// GetSnapshot returns (nil, nil) when no summary record exists for the
	// patient.
	GetSnapshot(ctx context.Context, patientID string) (*responses.MHRSnapshot, error)
}
