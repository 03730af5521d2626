package routers

import (
	"allergy-register-service/internal/app/delivery/http/controllers"
	"allergy-register-service/internal/app/delivery/http/middlewares"
	"allergy-register-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
)

func attachSubstanceRoutes(router chi.Router, middlewares *middlewares.Middlewares, allergyController *controllers.AllergyController) {
	router.With(middlewares.Authenticate).Get("/{"+constvars.URLParamSubstanceID+"}/events", allergyController.GetEvents)
}

func attachEventRoutes(
	router chi.Router,
	middlewares *middlewares.Middlewares,
	allergyController *controllers.AllergyController,
	reportController *controllers.ReportController,
) {
	router.With(middlewares.Authenticate).Get("/{"+constvars.URLParamEventID+"}", allergyController.GetEventByID)
	router.With(middlewares.Authenticate).Get("/{"+constvars.URLParamEventID+"}/report", reportController.GetEventReport)
	router.With(middlewares.Authenticate).Post("/{"+constvars.URLParamEventID+"}/report/archive", reportController.ArchiveEventReport)
}
