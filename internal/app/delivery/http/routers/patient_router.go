package routers

import (
	"allergy-register-service/internal/app/delivery/http/controllers"
	"allergy-register-service/internal/app/delivery/http/middlewares"
	"allergy-register-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
)

func attachPatientRoutes(
	router chi.Router,
	middlewares *middlewares.Middlewares,
	patientController *controllers.PatientController,
	allergyController *controllers.AllergyController,
) {
	router.With(middlewares.Authenticate).Get("/", patientController.SearchPatients)
	router.With(middlewares.Authenticate).Get("/{"+constvars.URLParamPatientID+"}", patientController.FindPatientByID)
	router.With(middlewares.Authenticate).Get("/{"+constvars.URLParamPatientID+"}/substances", patientController.GetSubstances)
	router.With(middlewares.Authenticate).Get("/{"+constvars.URLParamPatientID+"}/mhr", patientController.GetMhrSnapshot)
	router.With(middlewares.Authenticate).Post("/{"+constvars.URLParamPatientID+"}/events", allergyController.CreateEvent)
}
