package reports

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"allergy-register-service/internal/app/contracts"
	"allergy-register-service/internal/pkg/constvars"
	"allergy-register-service/internal/pkg/dto/responses"
	"allergy-register-service/internal/pkg/exceptions"
	"allergy-register-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var (
	reportUsecaseInstance contracts.ReportUsecase
	onceReportUsecase     sync.Once
)

var objectNameSanitizer = regexp.MustCompile(`[#\s]+`)

type reportUsecase struct {
	AllergyUsecase contracts.AllergyUsecase
	PatientUsecase contracts.PatientUsecase
	MhrUsecase     contracts.MhrUsecase
	ReportArchive  contracts.ReportArchive
	Log            *zap.Logger
}

func NewReportUsecase(
	allergyUsecase contracts.AllergyUsecase,
	patientUsecase contracts.PatientUsecase,
	mhrUsecase contracts.MhrUsecase,
	reportArchive contracts.ReportArchive,
	logger *zap.Logger,
) contracts.ReportUsecase {
	onceReportUsecase.Do(func() {
		reportUsecaseInstance = &reportUsecase{
			AllergyUsecase: allergyUsecase,
			PatientUsecase: patientUsecase,
			MhrUsecase:     mhrUsecase,
			ReportArchive:  reportArchive,
			Log:            logger,
		}
	})
	return reportUsecaseInstance
}

func (uc *reportUsecase) GetEventReport(ctx context.Context, eventID string) (*responses.EventReport, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("reportUsecase.GetEventReport called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEventIDKey, eventID),
	)

	event, err := uc.AllergyUsecase.FetchEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, nil
	}

	var patient *responses.PatientRow
	var mhrSnapshot *responses.MHRSnapshot
	if event.PatientID != "" {
		patient, err = uc.PatientUsecase.FindPatientByID(ctx, event.PatientID)
		if err != nil {
			return nil, err
		}
		mhrSnapshot, err = uc.MhrUsecase.GetSnapshot(ctx, event.PatientID)
		if err != nil {
			return nil, err
		}
	}

	return assembleReport(event, patient, mhrSnapshot), nil
}

func (uc *reportUsecase) ArchiveEventReport(ctx context.Context, eventID string) (*responses.ArchivedReport, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("reportUsecase.ArchiveEventReport called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEventIDKey, eventID),
	)

	report, err := uc.GetEventReport(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, exceptions.ErrEventNotFound(fmt.Errorf("event %q", eventID))
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	objectName := fmt.Sprintf(constvars.ReportDocumentNameFormat, sanitizeObjectName(report.ReportID))
	if err := uc.ReportArchive.StoreDocument(ctx, objectName, reportJSON); err != nil {
		return nil, err
	}
	url, err := uc.ReportArchive.PresignDocument(ctx, objectName)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("reportUsecase.ArchiveEventReport succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("object_name", objectName),
	)
	return &responses.ArchivedReport{ObjectName: objectName, URL: url}, nil
}

// assembleReport merges the event, the patient row and the MHR defaults into
// the printable section layout. MHR values only fill gaps the event left.
func assembleReport(event *responses.EventDetail, patient *responses.PatientRow, mhrSnapshot *responses.MHRSnapshot) *responses.EventReport {
	treatingDoctor := event.TreatingDoctor
	doctorRole := event.DoctorRole
	patientAvoid := event.PatientMustAvoid
	firstOnset := firstNonEmpty(event.FirstReactionOnset, event.FirstOnset)
	if mhrSnapshot != nil {
		treatingDoctor = firstNonEmpty(treatingDoctor, mhrSnapshot.TreatingDoctor)
		doctorRole = firstNonEmpty(doctorRole, mhrSnapshot.TreatingDoctorRole)
		patientAvoid = firstNonEmpty(patientAvoid, mhrSnapshot.PatientMustAvoid)
		if substance, ok := mhrSnapshot.Substances[event.SubstanceName]; ok {
			firstOnset = firstNonEmpty(firstOnset, substance.FirstOnset)
		}
	}

	onsetDisplay := event.ReactionOnsetDescription
	if onsetDisplay == "" && event.ReactionStartTime != "" {
		onsetDisplay = utils.FormatReactionOnset(event.ReactionStartTime, event.InitialExposureTime)
	}

	report := &responses.EventReport{
		ReportID:    event.ID,
		GeneratedAt: utils.FormatDateTime(time.Now().Format(time.RFC3339)),
		EventInformation: responses.ReportEventSection{
			SubstanceName:       event.SubstanceName,
			Severity:            event.Severity,
			InitialExposureTime: displayDateTime(event.InitialExposureTime),
			ReactionStartTime:   displayDateTime(event.ReactionStartTime),
			ReactionOnsetTime:   onsetDisplay,
			Manifestations:      event.Manifestations,
			ClinicalManagement:  event.ClinicalManagement,
		},
		RiskOfReactionStatus: responses.ReportRiskSection{
			SubstanceName:      firstNonEmpty(event.RiskSubstanceName, event.SubstanceName),
			VerificationStatus: event.VerificationStatus,
			Criticality:        event.Criticality,
			FirstReactionOnset: displayDateTime(firstOnset),
			LastReactionOnset:  displayDateTime(event.LastOnset),
		},
		InvestigationDetails: responses.ReportInvestSection{
			TestMethod:       event.TestMethod,
			TestResults:      event.TestResults,
			Outcome:          event.Outcome,
			PatientMustAvoid: patientAvoid,
			Comments:         event.Comments,
			AutoInjector:     autoInjectorDisplay(event.AutoInjectorPrescribed),
		},
	}

	basic := responses.ReportBasicSection{
		TreatingDoctor: treatingDoctor,
		DoctorRole:     doctorRole,
		DateOfReport:   utils.FormatDate(event.Date),
	}
	if patient != nil {
		basic.PatientName = patient.Name
		basic.Gender = patient.Gender
		basic.DateOfBirth = utils.FormatDate(patient.DOB)
		basic.URN = patient.URN
		basic.MedicareID = patient.MedicareID
	}
	report.BasicInformation = basic

	return report
}

// displayDateTime prefers the dd/MM/yyyy HH:mm rendering but keeps the raw
// value when it does not parse, rather than blanking a stored field.
func displayDateTime(value string) string {
	if value == "" {
		return ""
	}
	if formatted := utils.FormatDateTime(value); formatted != "" {
		return formatted
	}
	return value
}

func autoInjectorDisplay(prescribed *bool) string {
	if prescribed == nil {
		return ""
	}
	if *prescribed {
		return "Yes"
	}
	return "No"
}

func sanitizeObjectName(value string) string {
	return strings.ToLower(objectNameSanitizer.ReplaceAllString(value, "-"))
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
