package contracts

import (
	"context"

	"allergy-register-service/internal/app/models"
)

type EventNotifier interface {
	PublishEventRecorded(ctx context.Context, notification *models.EventNotification) error
}
