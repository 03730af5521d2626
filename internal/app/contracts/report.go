package contracts

import (
	"context"

	"allergy-register-service/internal/pkg/dto/responses"
)

type ReportUsecase interface {
	// GetEventReport returns (nil, nil) when the event does not exist.
	GetEventReport(ctx context.Context, eventID string) (*responses.EventReport, error)
	ArchiveEventReport(ctx context.Context, eventID string) (*responses.ArchivedReport, error)
}

type ReportArchive interface {
	StoreDocument(ctx context.Context, objectName string, body []byte) error
	PresignDocument(ctx context.Context, objectName string) (string, error)
}
