package controllers

import (
	"context"
	"net/http"
	"time"

	"allergy-register-service/internal/app/contracts"
	"allergy-register-service/internal/app/delivery/http/middlewares"
	"allergy-register-service/internal/pkg/constvars"
	"allergy-register-service/internal/pkg/dto/requests"
	"allergy-register-service/internal/pkg/exceptions"
	"allergy-register-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type AuthController struct {
	Log         *zap.Logger
	AuthUsecase contracts.AuthUsecase
}

func NewAuthController(logger *zap.Logger, authUsecase contracts.AuthUsecase) *AuthController {
	return &AuthController{
		Log:         logger,
		AuthUsecase: authUsecase,
	}
}

func (ctrl *AuthController) CreateSession(w http.ResponseWriter, r *http.Request) {
	request := new(requests.CreateSession)
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	err = utils.ValidateStruct(request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), controllerRequestTimeout*time.Second)
	defer cancel()

	session, err := ctrl.AuthUsecase.CreateSession(ctx, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CreateSessionSuccessMessage, session)
}

func (ctrl *AuthController) DestroySession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), controllerRequestTimeout*time.Second)
	defer cancel()

	err := ctrl.AuthUsecase.DestroySession(ctx, middlewares.BearerToken(r))
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.DestroySessionSuccessMessage, nil)
}
