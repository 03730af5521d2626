package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"allergy-register-service/internal/app/contracts"
	"allergy-register-service/internal/pkg/constvars"
	"allergy-register-service/internal/pkg/dto/requests"
	"allergy-register-service/internal/pkg/exceptions"
	"allergy-register-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type AllergyController struct {
	Log            *zap.Logger
	AllergyUsecase contracts.AllergyUsecase
}

func NewAllergyController(logger *zap.Logger, allergyUsecase contracts.AllergyUsecase) *AllergyController {
	return &AllergyController{
		Log:            logger,
		AllergyUsecase: allergyUsecase,
	}
}

func (ctrl *AllergyController) GetEvents(w http.ResponseWriter, r *http.Request) {
	substanceID := chi.URLParam(r, constvars.URLParamSubstanceID)
	options := parseListOptions(r, map[string]string{
		constvars.QueryParamSubstance:    "substanceName",
		constvars.QueryParamCriticality:  "criticality",
		constvars.QueryParamVerification: "verificationStatus",
	})

	ctx, cancel := context.WithTimeout(r.Context(), controllerRequestTimeout*time.Second)
	defer cancel()

	rows, err := ctrl.AllergyUsecase.FetchEvents(ctx, substanceID, options)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetEventsSuccessMessage, rows)
}

func (ctrl *AllergyController) GetEventByID(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, constvars.URLParamEventID)

	ctx, cancel := context.WithTimeout(r.Context(), controllerRequestTimeout*time.Second)
	defer cancel()

	event, err := ctrl.AllergyUsecase.FetchEventByID(ctx, eventID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	if event == nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrEventNotFound(errors.New("event "+eventID)))
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetEventSuccessMessage, event)
}

func (ctrl *AllergyController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, constvars.URLParamPatientID)

	request := new(requests.CreateEvent)
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

	result, err := ctrl.AllergyUsecase.CreateEvent(ctx, patientID, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CreateEventSuccessMessage, result)
}
