package config

import (
	"allergy-register-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "allergy_register"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "defaultPassword"),
		},
		Minio: Minio{
			Port:     utils.GetEnvString("MINIO_PORT", "9000"),
			Host:     utils.GetEnvString("MINIO_HOST", "localhost"),
			Username: utils.GetEnvString("MINIO_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MINIO_PASSWORD", "defaultPassword"),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                       utils.GetEnvString("APP_ENV", "development"),
			Port:                      utils.GetEnvString("APP_PORT", ":8080"),
			Version:                   utils.GetEnvString("APP_VERSION", "v1.0"),
			Address:                   utils.GetEnvString("APP_ADDRESS", "localhost"),
			Timezone:                  utils.GetEnvString("APP_TIMEZONE", "Australia/Sydney"),
			EndpointPrefix:            utils.GetEnvString("APP_ENDPOINT_PREFIX", "/api/v1"),
			MaxRequests:               utils.GetEnvInt("APP_MAX_REQUEST", 100),
			ShutdownTimeoutInSeconds:  utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT_IN_SECONDS", 10),
			MaxTimeRequestsPerSeconds: utils.GetEnvInt("APP_MAX_TIME_REQUESTS_PER_SECONDS", 10),
		},
		FHIR: AppFHIR{
			BaseUrl:                utils.GetEnvString("FHIR_BASE_URL", "http://localhost:5555/fhir"),
			SearchTimeoutInSeconds: utils.GetEnvInt("FHIR_SEARCH_TIMEOUT_IN_SECONDS", 15),
			MaxRequestsPerSecond:   utils.GetEnvInt("FHIR_MAX_REQUESTS_PER_SECOND", 20),
			RequestBurst:           utils.GetEnvInt("FHIR_REQUEST_BURST", 40),
		},
		JWT: AppJWT{
			Secret:        utils.GetEnvString("JWT_SECRET", "anyjwt"),
			ExpTimeInHour: utils.GetEnvInt("JWT_EXP_TIME_IN_HOUR", 8),
		},
		Session: AppSession{
			ExpTimeInHour: utils.GetEnvInt("SESSION_EXP_TIME_IN_HOUR", 8),
		},
		Notification: AppNotification{
			EventQueue: utils.GetEnvString("APP_RABBITMQ_EVENT_QUEUE", "allergy-events"),
		},
		Report: AppReport{
			BucketName:                utils.GetEnvString("APP_REPORT_BUCKET_NAME", "allergy-reports"),
			PresignedUrlExpiryInHours: utils.GetEnvInt("APP_REPORT_PRESIGNED_URL_EXPIRY_IN_HOURS", 24),
		},
	}
}
