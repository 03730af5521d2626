package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"allergy-register-service/internal/app/contracts"
	"allergy-register-service/internal/pkg/constvars"
	"allergy-register-service/internal/pkg/exceptions"
	"allergy-register-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReportController struct {
	Log           *zap.Logger
	ReportUsecase contracts.ReportUsecase
}

func NewReportController(logger *zap.Logger, reportUsecase contracts.ReportUsecase) *ReportController {
	return &ReportController{
		Log:           logger,
		ReportUsecase: reportUsecase,
	}
}

func (ctrl *ReportController) GetEventReport(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, constvars.URLParamEventID)

	ctx, cancel := context.WithTimeout(r.Context(), controllerRequestTimeout*time.Second)
	defer cancel()

	report, err := ctrl.ReportUsecase.GetEventReport(ctx, eventID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	if report == nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrEventNotFound(errors.New("event "+eventID)))
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetEventReportSuccessMessage, report)
}

func (ctrl *ReportController) ArchiveEventReport(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, constvars.URLParamEventID)

	ctx, cancel := context.WithTimeout(r.Context(), controllerRequestTimeout*time.Second)
	defer cancel()

	archived, err := ctrl.ReportUsecase.ArchiveEventReport(ctx, eventID)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.ArchiveReportSuccessMessage, archived)
}
