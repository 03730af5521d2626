package contracts

import (
	"context"

	"allergy-register-service/internal/app/models"
)

type AuditRepository interface {
	RecordSubmission(ctx context.Context, audit *models.EventAudit) error
}
