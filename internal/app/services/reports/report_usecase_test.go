package reports

import (
	"context"
	"testing"

	"allergy-register-service/internal/pkg/dto/requests"
	"allergy-register-service/internal/pkg/dto/responses"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeAllergyUsecase struct {
	event *responses.EventDetail
}

func (f *fakeAllergyUsecase) FetchSubstances(ctx context.Context, patientID string, options *requests.ListOptions) ([]responses.SubstanceRow, error) {
	return nil, nil
}

func (f *fakeAllergyUsecase) FetchEvents(ctx context.Context, substanceID string, options *requests.ListOptions) ([]responses.EventRow, error) {
	return nil, nil
}

func (f *fakeAllergyUsecase) FetchEventByID(ctx context.Context, eventID string) (*responses.EventDetail, error) {
	return f.event, nil
}

func (f *fakeAllergyUsecase) CreateEvent(ctx context.Context, patientID string, request *requests.CreateEvent) (*responses.CreateEventResult, error) {
	return nil, nil
}

type fakePatientUsecase struct {
	patient *responses.PatientRow
}

func (f *fakePatientUsecase) SearchPatients(ctx context.Context, request *requests.PatientSearch) ([]responses.PatientRow, error) {
	return nil, nil
}

func (f *fakePatientUsecase) FindPatientByID(ctx context.Context, patientID string) (*responses.PatientRow, error) {
	return f.patient, nil
}

type fakeMhrUsecase struct {
	snapshot *responses.MHRSnapshot
}

func (f *fakeMhrUsecase) GetSnapshot(ctx context.Context, patientID string) (*responses.MHRSnapshot, error) {
	return f.snapshot, nil
}

type fakeReportArchive struct {
	storedName string
	storedBody []byte
}

func (f *fakeReportArchive) StoreDocument(ctx context.Context, objectName string, body []byte) error {
	f.storedName = objectName
	f.storedBody = body
	return nil
}

func (f *fakeReportArchive) PresignDocument(ctx context.Context, objectName string) (string, error) {
	return "https://archive.example/" + objectName, nil
}

func newTestReportUsecase(event *responses.EventDetail, patient *responses.PatientRow, snapshot *responses.MHRSnapshot) (*reportUsecase, *fakeReportArchive) {
	archive := &fakeReportArchive{}
	usecase := &reportUsecase{
		AllergyUsecase: &fakeAllergyUsecase{event: event},
		PatientUsecase: &fakePatientUsecase{patient: patient},
		MhrUsecase:     &fakeMhrUsecase{snapshot: snapshot},
		ReportArchive:  archive,
		Log:            zap.NewNop(),
	}
	return usecase, archive
}

func testEvent() *responses.EventDetail {
	return &responses.EventDetail{
		ID:                 "ai-1#1",
		PatientID:          "p2",
		Seq:                1,
		SubstanceName:      "Amoxicillin",
		Date:               "2024-03-01",
		Severity:           "High",
		ReactionStartTime:  "2024-03-01T10:30",
		Manifestations:     []string{"Hives"},
		VerificationStatus: "confirmed",
		Criticality:        "High Risk",
		LastOnset:          "2024-03-01T10:30",
	}
}

func TestGetEventReport(t *testing.T) {
	t.Run("Missing Event Is Nil Without Error", func(t *testing.T) {
		usecase, _ := newTestReportUsecase(nil, nil, nil)

		report, err := usecase.GetEventReport(context.Background(), "ai-404#1")
		assert.NoError(t, err)
		assert.Nil(t, report)
	})

	t.Run("Patient Row Fills The Basic Section", func(t *testing.T) {
		usecase, _ := newTestReportUsecase(testEvent(), &responses.PatientRow{
			Name:       "Sarah Chen",
			Gender:     "Female",
			DOB:        "1985-04-12",
			URN:        "URN-001",
			MedicareID: "2950156481",
		}, nil)

		report, err := usecase.GetEventReport(context.Background(), "ai-1#1")
		assert.NoError(t, err)
		assert.Equal(t, "ai-1#1", report.ReportID)
		assert.Equal(t, "Sarah Chen", report.BasicInformation.PatientName)
		assert.Equal(t, "12/04/1985", report.BasicInformation.DateOfBirth)
		assert.Equal(t, "01/03/2024", report.BasicInformation.DateOfReport)
		assert.Equal(t, "URN-001", report.BasicInformation.URN)
	})

	t.Run("MHR Defaults Fill Gaps Only", func(t *testing.T) {
		event := testEvent()
		event.TreatingDoctor = "Dr On The Record"
		snapshot := &responses.MHRSnapshot{
			TreatingDoctor:     "Dr Janet Hays",
			TreatingDoctorRole: "Allergist",
			PatientMustAvoid:   "Avoid aminopenicillins.",
			Substances: map[string]responses.MHRSubstanceSnapshot{
				"Amoxicillin": {FirstOnset: "2015-07-15T22:20:00"},
			},
		}
		usecase, _ := newTestReportUsecase(event, nil, snapshot)

		report, err := usecase.GetEventReport(context.Background(), "ai-1#1")
		assert.NoError(t, err)
		assert.Equal(t, "Dr On The Record", report.BasicInformation.TreatingDoctor, "event value wins over MHR")
		assert.Equal(t, "Allergist", report.BasicInformation.DoctorRole)
		assert.Equal(t, "Avoid aminopenicillins.", report.InvestigationDetails.PatientMustAvoid)
		assert.Equal(t, "15/07/2015 22:20", report.RiskOfReactionStatus.FirstReactionOnset)
	})

	t.Run("Onset Display Derived From Start And Exposure Times", func(t *testing.T) {
		event := testEvent()
		event.InitialExposureTime = "2024-03-01T10:00"
		usecase, _ := newTestReportUsecase(event, nil, nil)

		report, err := usecase.GetEventReport(context.Background(), "ai-1#1")
		assert.NoError(t, err)
		assert.Equal(t, "30 min", report.EventInformation.ReactionOnsetTime)
	})

	t.Run("Risk Section Falls Back To The Substance Name", func(t *testing.T) {
		usecase, _ := newTestReportUsecase(testEvent(), nil, nil)

		report, err := usecase.GetEventReport(context.Background(), "ai-1#1")
		assert.NoError(t, err)
		assert.Equal(t, "Amoxicillin", report.RiskOfReactionStatus.SubstanceName)
	})
}

func TestArchiveEventReport(t *testing.T) {
	t.Run("Object Name Is Sanitized And Presigned", func(t *testing.T) {
		usecase, archive := newTestReportUsecase(testEvent(), nil, nil)

		archived, err := usecase.ArchiveEventReport(context.Background(), "ai-1#1")
		assert.NoError(t, err)
		assert.NotContains(t, archived.ObjectName, "#")
		assert.Contains(t, archived.ObjectName, "ai-1-1")
		assert.Equal(t, "https://archive.example/"+archived.ObjectName, archived.URL)
		assert.NotEmpty(t, archive.storedBody)
	})

	t.Run("Missing Event Fails", func(t *testing.T) {
		usecase, _ := newTestReportUsecase(nil, nil, nil)

		_, err := usecase.ArchiveEventReport(context.Background(), "ai-404#1")
		assert.Error(t, err)
	})
}
