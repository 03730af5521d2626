package utils

import (
	"allergy-register-service/internal/pkg/constvars"

	"go.uber.org/zap"
)

// LogBusinessEvent emits a structured record for domain-level happenings
// (event recorded, patient created) separate from request access logs.
func LogBusinessEvent(log *zap.Logger, eventName, requestID string, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String(constvars.LoggingEventNameKey, eventName),
		zap.String(constvars.LoggingRequestIDKey, requestID),
	}, fields...)
	log.Info(constvars.LoggingBusinessPrefix, allFields...)
}
