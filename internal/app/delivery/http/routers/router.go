package routers

import (
	"net/http"
	"time"

	"allergy-register-service/internal/app/config"
	"allergy-register-service/internal/app/delivery/http/controllers"
	"allergy-register-service/internal/app/delivery/http/middlewares"
	"allergy-register-service/internal/pkg/constvars"
	"allergy-register-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

func SetupRoutes(
	router *chi.Mux,
	logger *zap.Logger,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	authController *controllers.AuthController,
	patientController *controllers.PatientController,
	allergyController *controllers.AllergyController,
	reportController *controllers.ReportController,
) {

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	// Rate limiting middleware using httprate
	rateLimiter := httprate.LimitByIP(internalConfig.App.MaxRequests, time.Second)
	router.Use(rateLimiter)

	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging(logger))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.HealthCheckResponseMessage, nil)
	})

	router.Route(internalConfig.App.EndpointPrefix, func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			attachAuthRoutes(r, middlewares, authController)
		})

		r.Route("/patients", func(r chi.Router) {
			attachPatientRoutes(r, middlewares, patientController, allergyController)
		})

		r.Route("/substances", func(r chi.Router) {
			attachSubstanceRoutes(r, middlewares, allergyController)
		})

		r.Route("/events", func(r chi.Router) {
			attachEventRoutes(r, middlewares, allergyController, reportController)
		})
	})
}
