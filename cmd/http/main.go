package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"allergy-register-service/internal/app/config"
	"allergy-register-service/internal/app/delivery/http/controllers"
	"allergy-register-service/internal/app/delivery/http/middlewares"
	"allergy-register-service/internal/app/delivery/http/routers"
	"allergy-register-service/internal/app/drivers/database"
	"allergy-register-service/internal/app/drivers/logger"
	"allergy-register-service/internal/app/drivers/messaging"
	"allergy-register-service/internal/app/drivers/storage"
	allergiesFhir "allergy-register-service/internal/app/services/fhir/allergies"
	patientsFhir "allergy-register-service/internal/app/services/fhir/patients"

	"allergy-register-service/internal/app/services/allergies"
	"allergy-register-service/internal/app/services/auth"
	"allergy-register-service/internal/app/services/mhr"
	"allergy-register-service/internal/app/services/patients"
	"allergy-register-service/internal/app/services/reports"
	"allergy-register-service/internal/app/services/shared/audit"
	"allergy-register-service/internal/app/services/shared/cache"
	"allergy-register-service/internal/app/services/shared/notifier"
	"allergy-register-service/internal/app/services/shared/reportstore"
	"allergy-register-service/internal/pkg/dto/responses"

	"github.com/go-chi/chi/v5"
	"github.com/minio/minio-go/v7"
	"golang.org/x/time/rate"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewLogrusLogger(internalConfig)
	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	mongoClient := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQConnection := messaging.NewRabbitMQ(driverConfig)
	minioClient := storage.NewMinio(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrap := config.Bootstrap{
		Router:         chiRouter,
		Redis:          redisClient,
		Mongo:          mongoClient,
		Logger:         zapLogger,
		RabbitMQ:       rabbitMQConnection,
		InternalConfig: internalConfig,
		DriverConfig:   driverConfig,
	}

	bootstrapTheApp(bootstrap, minioClient)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	err = bootstrap.Shutdown(shutdownCtx)
	if err != nil {
		log.Fatalf("Error closing drivers: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapTheApp(bootstrap config.Bootstrap, minioClient *minio.Client) {
	// FHIR clients share a rate limiter so the upstream server sees one budget.
	fhirLimiter := rate.NewLimiter(
		rate.Limit(bootstrap.InternalConfig.FHIR.MaxRequestsPerSecond),
		bootstrap.InternalConfig.FHIR.RequestBurst,
	)
	searchTimeout := time.Duration(bootstrap.InternalConfig.FHIR.SearchTimeoutInSeconds) * time.Second

	patientFhirClient := patientsFhir.NewPatientFhirClient(
		bootstrap.InternalConfig.FHIR.BaseUrl, bootstrap.Logger, fhirLimiter, searchTimeout,
	)
	allergyFhirClient := allergiesFhir.NewAllergyFhirClient(
		bootstrap.InternalConfig.FHIR.BaseUrl, bootstrap.Logger, fhirLimiter, searchTimeout,
	)

	// Shared infrastructure
	patientCache := cache.New[responses.PatientRow]()
	eventCache := cache.New[responses.EventDetail]()
	auditRepository := audit.NewMongoAuditRepository(bootstrap.Mongo, bootstrap.DriverConfig.MongoDB.DbName, bootstrap.Logger)
	eventNotifier, err := notifier.NewRabbitMQNotifier(bootstrap.RabbitMQ, bootstrap.InternalConfig.Notification.EventQueue, bootstrap.Logger)
	if err != nil {
		panic(err)
	}
	reportArchive := reportstore.NewMinioReportArchive(
		minioClient,
		bootstrap.InternalConfig.Report.BucketName,
		time.Duration(bootstrap.InternalConfig.Report.PresignedUrlExpiryInHours)*time.Hour,
	)

	// Auth
	sessionRepository := auth.NewSessionRedisRepository(bootstrap.Redis)
	authUsecase := auth.NewAuthUsecase(sessionRepository, bootstrap.Logger, bootstrap.InternalConfig)
	authController := controllers.NewAuthController(bootstrap.Logger, authUsecase)

	// Patient
	patientUsecase := patients.NewPatientUsecase(patientFhirClient, patientCache, bootstrap.Logger)

	// Allergy
	allergyUsecase := allergies.NewAllergyUsecase(
		allergyFhirClient,
		patientFhirClient,
		patientCache,
		eventCache,
		auditRepository,
		eventNotifier,
		bootstrap.Logger,
	)
	allergyController := controllers.NewAllergyController(bootstrap.Logger, allergyUsecase)

	// MHR
	mhrUsecase := mhr.NewMhrUsecase(bootstrap.Logger)

	patientController := controllers.NewPatientController(bootstrap.Logger, patientUsecase, allergyUsecase, mhrUsecase)

	// Report
	reportUsecase := reports.NewReportUsecase(allergyUsecase, patientUsecase, mhrUsecase, reportArchive, bootstrap.Logger)
	reportController := controllers.NewReportController(bootstrap.Logger, reportUsecase)

	// Middlewares
	middlewares := middlewares.NewMiddlewares(bootstrap.Logger, authUsecase, bootstrap.InternalConfig)

	routers.SetupRoutes(
		bootstrap.Router,
		bootstrap.Logger,
		bootstrap.InternalConfig,
		middlewares,
		authController,
		patientController,
		allergyController,
		reportController,
	)
}
