package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"allergy-register-service/internal/app/config"
	"allergy-register-service/internal/app/contracts"
	"allergy-register-service/internal/app/models"
	"allergy-register-service/internal/pkg/constvars"
	"allergy-register-service/internal/pkg/dto/requests"
	"allergy-register-service/internal/pkg/dto/responses"
	"allergy-register-service/internal/pkg/exceptions"
	"allergy-register-service/internal/pkg/utils"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

var (
	authUsecaseInstance contracts.AuthUsecase
	onceAuthUsecase     sync.Once
)

type authUsecase struct {
	SessionRepository contracts.SessionRepository
	Log               *zap.Logger
	JWTSecret         []byte
	SessionTTL        time.Duration
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func NewAuthUsecase(sessionRepository contracts.SessionRepository, logger *zap.Logger, internalConfig *config.InternalConfig) contracts.AuthUsecase {
	onceAuthUsecase.Do(func() {
		authUsecaseInstance = &authUsecase{
			SessionRepository: sessionRepository,
			Log:               logger,
			JWTSecret:         []byte(internalConfig.JWT.Secret),
			SessionTTL:        time.Duration(internalConfig.Session.ExpTimeInHour) * time.Hour,
		}
	})
	return authUsecaseInstance
}

func (uc *authUsecase) CreateSession(ctx context.Context, request *requests.CreateSession) (*responses.Session, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("authUsecase.CreateSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	roleLabel, ok := RoleLabel(request.RoleID)
	if !ok {
		return nil, exceptions.ErrInvalidRole(errors.New("unknown role id: " + request.RoleID))
	}

	now := time.Now()
	session := &models.Session{
		ID:          utils.GenerateSessionID(),
		RoleID:      request.RoleID,
		RoleLabel:   roleLabel,
		DisplayName: request.DisplayName,
		CreatedAt:   now,
		ExpiresAt:   now.Add(uc.SessionTTL),
	}

	if err := uc.SessionRepository.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	token, err := uc.signToken(session)
	if err != nil {
		return nil, exceptions.ErrTokenGenerate(err)
	}

	uc.Log.Info("authUsecase.CreateSession succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, session.ID),
	)
	return &responses.Session{
		Token:       token,
		RoleID:      session.RoleID,
		RoleLabel:   session.RoleLabel,
		DisplayName: session.DisplayName,
		ExpiresAt:   session.ExpiresAt.Format(time.RFC3339),
	}, nil
}

func (uc *authUsecase) DestroySession(ctx context.Context, token string) error {
	session, err := uc.ResolveSession(ctx, token)
	if err != nil {
		return err
	}
	return uc.SessionRepository.DeleteSession(ctx, session.ID)
}

func (uc *authUsecase) ResolveSession(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, exceptions.ErrTokenMissing(errors.New("empty bearer token"))
	}

	claims := new(sessionClaims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return uc.JWTSecret, nil
	})
	if err != nil || !parsed.Valid || claims.SessionID == "" {
		return nil, exceptions.ErrTokenInvalidOrExpired(err)
	}

	session, err := uc.SessionRepository.GetSession(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, exceptions.ErrTokenInvalidOrExpired(errors.New("session not found"))
	}
	return session, nil
}

func (uc *authUsecase) signToken(session *models.Session) (string, error) {
	claims := sessionClaims{
		SessionID: session.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(uc.JWTSecret)
}
