package audit

import (
	"context"
	"time"

	"allergy-register-service/internal/app/contracts"
	"allergy-register-service/internal/app/models"
	"allergy-register-service/internal/pkg/constvars"
	"allergy-register-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type mongoAuditRepository struct {
	Collection *mongo.Collection
	Log        *zap.Logger
}

func NewMongoAuditRepository(client *mongo.Client, dbName string, logger *zap.Logger) contracts.AuditRepository {
	return &mongoAuditRepository{
		Collection: client.Database(dbName).Collection(constvars.MongoCollectionEventAudit),
		Log:        logger,
	}
}

func (r *mongoAuditRepository) RecordSubmission(ctx context.Context, audit *models.EventAudit) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	if audit.CreatedAt.IsZero() {
		audit.CreatedAt = time.Now()
	}
	if audit.RequestID == "" {
		audit.RequestID = requestID
	}

	if _, err := r.Collection.InsertOne(ctx, audit); err != nil {
		r.Log.Error("mongoAuditRepository.RecordSubmission error inserting document",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}
