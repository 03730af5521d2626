package contracts

import (
	"context"

	"allergy-register-service/internal/app/models"
	"allergy-register-service/internal/pkg/dto/requests"
	"allergy-register-service/internal/pkg/dto/responses"
)

type AuthUsecase interface {
	CreateSession(ctx context.Context, request *requests.CreateSession) (*responses.Session, error)
	DestroySession(ctx context.Context, token string) error
	// ResolveSession validates a bearer token and returns the stored session,
	// or an error when the token is missing, invalid or expired.
	ResolveSession(ctx context.Context, token string) (*models.Session, error)
}

type SessionRepository interface {
	CreateSession(ctx context.Context, session *models.Session) error
	// GetSession returns (nil, nil) when the session does not exist.
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
}
