package routers

import (
	"allergy-register-service/internal/app/delivery/http/controllers"
	"allergy-register-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachAuthRoutes(router chi.Router, middlewares *middlewares.Middlewares, authController *controllers.AuthController) {
	router.Post("/sessions", authController.CreateSession)
	router.With(middlewares.Authenticate).Delete("/sessions", authController.DestroySession)
}
