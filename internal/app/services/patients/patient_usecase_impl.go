package patients

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"allergy-register-service/internal/app/contracts"
	"allergy-register-service/internal/app/services/shared/cache"
	"allergy-register-service/internal/pkg/constvars"
	"allergy-register-service/internal/pkg/dto/requests"
	"allergy-register-service/internal/pkg/dto/responses"
	"allergy-register-service/internal/pkg/utils"

	"go.uber.org/zap"
)

var (
	patientUsecaseInstance contracts.PatientUsecase
	oncePatientUsecase     sync.Once
)

type patientUsecase struct {
	PatientFhirClient contracts.PatientFhirClient
	PatientCache      *cache.InflightCache[responses.PatientRow]
	Log               *zap.Logger
}

func NewPatientUsecase(
	patientFhirClient contracts.PatientFhirClient,
	patientCache *cache.InflightCache[responses.PatientRow],
	logger *zap.Logger,
) contracts.PatientUsecase {
	oncePatientUsecase.Do(func() {
		patientUsecaseInstance = &patientUsecase{
			PatientFhirClient: patientFhirClient,
			PatientCache:      patientCache,
			Log:               logger,
		}
	})
	return patientUsecaseInstance
}

func (uc *patientUsecase) SearchPatients(ctx context.Context, request *requests.PatientSearch) ([]responses.PatientRow, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("patientUsecase.SearchPatients called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	params := buildPatientSearchParams(request)
	patients, err := uc.PatientFhirClient.SearchPatients(ctx, params)
	if err != nil {
		return nil, err
	}

	rows := MapPatientsToRows(patients)
	rows = utils.SortRows(rows, request.Sort, responses.PatientRow.Field)

	uc.Log.Info("patientUsecase.SearchPatients succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("total", len(rows)),
	)
	return rows, nil
}

func (uc *patientUsecase) FindPatientByID(ctx context.Context, patientID string) (*responses.PatientRow, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("patientUsecase.FindPatientByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	row, found, err := uc.PatientCache.GetOrFetch(ctx, patientID, func(ctx context.Context) (responses.PatientRow, bool, error) {
		patient, err := uc.PatientFhirClient.FindPatientByID(ctx, patientID)
		if err != nil {
			return responses.PatientRow{}, false, err
		}
		if patient == nil {
			return responses.PatientRow{}, false, nil
		}
		return MapPatientToRow(patient), true, nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &row, nil
}

// buildPatientSearchParams translates the search form into FHIR query
// parameters. Identifier searches match the canonical system and the legacy
// bare-string system in one OR-joined parameter.
func buildPatientSearchParams(request *requests.PatientSearch) url.Values {
	params := url.Values{}
	params.Set(constvars.FhirParamCount, constvars.FhirPatientPageSize)

	if urn := utils.NormalizeIdentifierValue(request.URN); urn != "" {
		params.Set(constvars.FhirParamIdentifier, strings.Join([]string{
			constvars.FhirSystemURN + "|" + urn,
			constvars.FhirSystemURNLegacy + "|" + urn,
		}, ","))
	}
	if medicare := utils.NormalizeIdentifierValue(request.MedicareID); medicare != "" {
		params.Add(constvars.FhirParamIdentifier, strings.Join([]string{
			constvars.FhirSystemMedicare + "|" + medicare,
			constvars.FhirSystemMedicareLegacy + "|" + medicare,
		}, ","))
	}
	if name := strings.TrimSpace(request.Name); name != "" {
		params.Set(constvars.FhirParamName, name)
	}
	if gender := strings.ToLower(strings.TrimSpace(request.Gender)); isSearchableGender(gender) {
		params.Set(constvars.FhirParamGender, gender)
	}
	if sortParam := fhirSortParam(request.Sort); sortParam != "" {
		params.Set(constvars.FhirParamSort, sortParam)
	}
	return params
}

func isSearchableGender(gender string) bool {
	switch gender {
	case "male", "female", "other", "unknown":
		return true
	}
	return false
}

// fhirSortParam maps the table sort to a server-side _sort where the FHIR
// search supports it. Other columns are sorted client-side after mapping.
func fhirSortParam(state *utils.SortState) string {
	if state == nil {
		return ""
	}
	var param string
	switch state.Key {
	case "name":
		param = constvars.FhirSortNameParam
	case "dob":
		param = constvars.FhirSortBirthdate
	default:
		return ""
	}
	if state.Direction == constvars.SortDirectionDesc {
		return "-" + param
	}
	return param
}
