package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"allergy-register-service/internal/app/contracts"
	"allergy-register-service/internal/app/models"
	"allergy-register-service/internal/pkg/constvars"
	"allergy-register-service/internal/pkg/exceptions"

	"github.com/redis/go-redis/v9"
)

type sessionRedisRepository struct {
	RedisClient *redis.Client
}

func NewSessionRedisRepository(redisClient *redis.Client) contracts.SessionRepository {
	return &sessionRedisRepository{
		RedisClient: redisClient,
	}
}

func (r *sessionRedisRepository) CreateSession(ctx context.Context, session *models.Session) error {
	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	key := fmt.Sprintf(constvars.RedisSessionKeyFormat, session.ID)
	ttl := time.Until(session.ExpiresAt)
	if err := r.RedisClient.Set(ctx, key, sessionJSON, ttl).Err(); err != nil {
		return exceptions.ErrRedisSet(err)
	}
	return nil
}

func (r *sessionRedisRepository) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	key := fmt.Sprintf(constvars.RedisSessionKeyFormat, sessionID)
	sessionJSON, err := r.RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, exceptions.ErrRedisGet(err, key)
	}

	session := new(models.Session)
	if err := json.Unmarshal([]byte(sessionJSON), session); err != nil {
		return nil, exceptions.ErrCannotParseJSON(err)
	}
	return session, nil
}

func (r *sessionRedisRepository) DeleteSession(ctx context.Context, sessionID string) error {
	key := fmt.Sprintf(constvars.RedisSessionKeyFormat, sessionID)
	if err := r.RedisClient.Del(ctx, key).Err(); err != nil {
		return exceptions.ErrRedisDelete(err)
	}
	return nil
}
