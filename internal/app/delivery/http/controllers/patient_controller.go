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
	"go.uber.org/zap"
)

type PatientController struct {
	Log            *zap.Logger
	PatientUsecase contracts.PatientUsecase
	AllergyUsecase contracts.AllergyUsecase
	MhrUsecase     contracts.MhrUsecase
}

func NewPatientController(
	logger *zap.Logger,
	patientUsecase contracts.PatientUsecase,
	allergyUsecase contracts.AllergyUsecase,
	mhrUsecase contracts.MhrUsecase,
) *PatientController {
	return &PatientController{
		Log:            logger,
		PatientUsecase: patientUsecase,
		AllergyUsecase: allergyUsecase,
		MhrUsecase:     mhrUsecase,
	}
}

func (ctrl *PatientController) SearchPatients(w http.ResponseWriter, r *http.Request) {
	request := &requests.PatientSearch{
		URN:        r.URL.Query().Get(constvars.QueryParamURN),
		Name:       r.URL.Query().Get(constvars.QueryParamName),
		MedicareID: r.URL.Query().Get(constvars.QueryParamMedicareID),
		Gender:     r.URL.Query().Get(constvars.QueryParamGender),
		Sort:       parseSortState(r),
	}

	ctx, cancel := context.WithTimeout(r.Context(), controllerRequestTimeout*time.Second)
	defer cancel()

	rows, err := ctrl.PatientUsecase.SearchPatients(ctx, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SearchPatientsSuccessMessage, rows)
}

func (ctrl *PatientController) FindPatientByID(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, constvars.URLParamPatientID)

	ctx, cancel := context.WithTimeout(r.Context(), controllerRequestTimeout*time.Second)
	defer cancel()

	patient, err := ctrl.PatientUsecase.FindPatientByID(ctx, patientID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	if patient == nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrPatientNotFound(errors.New("patient "+patientID)))
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetPatientSuccessMessage, patient)
}

func (ctrl *PatientController) GetSubstances(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, constvars.URLParamPatientID)
	options := parseListOptions(r, map[string]string{
		constvars.QueryParamName:         "name",
		constvars.QueryParamCriticality:  "criticality",
		constvars.QueryParamVerification: "verificationStatus",
	})

	ctx, cancel := context.WithTimeout(r.Context(), controllerRequestTimeout*time.Second)
	defer cancel()

	rows, err := ctrl.AllergyUsecase.FetchSubstances(ctx, patientID, options)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetSubstancesSuccessMessage, rows)
}

func (ctrl *PatientController) GetMhrSnapshot(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, constvars.URLParamPatientID)

	ctx, cancel := context.WithTimeout(r.Context(), controllerRequestTimeout*time.Second)
	defer cancel()

	snapshot, err := ctrl.MhrUsecase.GetSnapshot(ctx, patientID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	// No snapshot is a normal outcome, not an error.
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetMhrSnapshotSuccessMessage, snapshot)
}
