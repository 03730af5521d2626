package allergies

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"allergy-register-service/internal/app/models"
	"allergy-register-service/internal/app/services/shared/cache"
	"allergy-register-service/internal/pkg/dto/requests"
	"allergy-register-service/internal/pkg/dto/responses"
	"allergy-register-service/internal/pkg/fhir_dto"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeAllergyClient struct {
	byID          map[string]*fhir_dto.AllergyIntolerance
	failingIDs    map[string]bool
	searchResults []fhir_dto.AllergyIntolerance
	searchParams  url.Values
	created       *fhir_dto.AllergyIntolerance
	updated       *fhir_dto.AllergyIntolerance
	nextID        string
}

func (f *fakeAllergyClient) CreateAllergyIntolerance(ctx context.Context, request *fhir_dto.AllergyIntolerance) (*fhir_dto.AllergyIntolerance, error) {
	created := *request
	created.ID = f.nextID
	f.created = &created
	return &created, nil
}

func (f *fakeAllergyClient) UpdateAllergyIntolerance(ctx context.Context, request *fhir_dto.AllergyIntolerance) (*fhir_dto.AllergyIntolerance, error) {
	updated := *request
	f.updated = &updated
	return &updated, nil
}

func (f *fakeAllergyClient) FindAllergyIntoleranceByID(ctx context.Context, allergyID string) (*fhir_dto.AllergyIntolerance, error) {
	if f.failingIDs[allergyID] {
		return nil, errors.New("upstream read failed")
	}
	allergy, ok := f.byID[allergyID]
	if !ok {
		return nil, nil
	}
	copied := *allergy
	return &copied, nil
}

func (f *fakeAllergyClient) SearchAllergyIntolerances(ctx context.Context, params url.Values) ([]fhir_dto.AllergyIntolerance, error) {
	f.searchParams = params
	return f.searchResults, nil
}

type fakePatientClient struct {
	created *fhir_dto.Patient
	nextID  string
}

func (f *fakePatientClient) CreatePatient(ctx context.Context, request *fhir_dto.Patient) (*fhir_dto.Patient, error) {
	created := *request
	created.ID = f.nextID
	f.created = &created
	return &created, nil
}

func (f *fakePatientClient) FindPatientByID(ctx context.Context, patientID string) (*fhir_dto.Patient, error) {
	return nil, nil
}

func (f *fakePatientClient) SearchPatients(ctx context.Context, params url.Values) ([]fhir_dto.Patient, error) {
	return nil, nil
}

type fakeAuditRepository struct {
	audits []*models.EventAudit
}

func (f *fakeAuditRepository) RecordSubmission(ctx context.Context, audit *models.EventAudit) error {
	f.audits = append(f.audits, audit)
	return nil
}

type fakeEventNotifier struct {
	notifications []*models.EventNotification
}

func (f *fakeEventNotifier) PublishEventRecorded(ctx context.Context, notification *models.EventNotification) error {
	f.notifications = append(f.notifications, notification)
	return nil
}

func newTestUsecase(allergyClient *fakeAllergyClient, patientClient *fakePatientClient) (*allergyUsecase, *fakeAuditRepository, *fakeEventNotifier) {
	auditRepository := &fakeAuditRepository{}
	eventNotifier := &fakeEventNotifier{}
	usecase := &allergyUsecase{
		AllergyFhirClient: allergyClient,
		PatientFhirClient: patientClient,
		PatientCache:      cache.New[responses.PatientRow](),
		EventCache:        cache.New[responses.EventDetail](),
		AuditRepository:   auditRepository,
		EventNotifier:     eventNotifier,
		Log:               zap.NewNop(),
	}
	return usecase, auditRepository, eventNotifier
}

func TestFetchEvents(t *testing.T) {
	allergyClient := &fakeAllergyClient{
		byID: map[string]*fhir_dto.AllergyIntolerance{
			"ai-1": {
				ID:   "ai-1",
				Code: codeText("Peanut"),
				Reaction: []fhir_dto.AllergyReaction{
					{Onset: "2024-02-01"},
					{Onset: "2024-01-01"},
				},
			},
			"ai-2": {
				ID:   "ai-2",
				Code: codeText("Peanut"),
				Reaction: []fhir_dto.AllergyReaction{
					{Onset: "2024-03-01"},
				},
			},
		},
		failingIDs: map[string]bool{"ai-broken": true},
	}
	usecase, _, _ := newTestUsecase(allergyClient, &fakePatientClient{})

	t.Run("Global Sequence Across A Comma Joined Group", func(t *testing.T) {
		rows, err := usecase.FetchEvents(context.Background(), "ai-1,ai-2", nil)

		assert.NoError(t, err)
		assert.Len(t, rows, 3)
		assert.Equal(t, []string{"ai-1#2", "ai-1#1", "ai-2#1"}, []string{rows[0].ID, rows[1].ID, rows[2].ID})
		assert.Equal(t, []int{1, 2, 3}, []int{rows[0].Seq, rows[1].Seq, rows[2].Seq})
	})

	t.Run("Unreadable Resource Is Skipped", func(t *testing.T) {
		rows, err := usecase.FetchEvents(context.Background(), "ai-broken,ai-2", nil)

		assert.NoError(t, err)
		assert.Len(t, rows, 1)
		assert.Equal(t, "ai-2#1", rows[0].ID)
	})

	t.Run("Missing Resource Is Skipped", func(t *testing.T) {
		rows, err := usecase.FetchEvents(context.Background(), "ai-gone", nil)

		assert.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestFetchEventByID(t *testing.T) {
	allergyClient := &fakeAllergyClient{
		byID: map[string]*fhir_dto.AllergyIntolerance{
			"ai-1": {
				ID:      "ai-1",
				Code:    codeText("Amoxicillin"),
				Patient: &fhir_dto.Reference{Reference: "Patient/p2"},
				Reaction: []fhir_dto.AllergyReaction{
					{Onset: "2024-01-01"},
					{Onset: "2024-02-01"},
				},
			},
		},
	}
	usecase, _, _ := newTestUsecase(allergyClient, &fakePatientClient{})

	t.Run("Tilde Form Resolves To The Same Event", func(t *testing.T) {
		detail, err := usecase.FetchEventByID(context.Background(), "ai-1~2")

		assert.NoError(t, err)
		if assert.NotNil(t, detail) {
			assert.Equal(t, "ai-1#2", detail.ID)
			assert.Equal(t, 2, detail.Seq)
			assert.Equal(t, "p2", detail.PatientID)
		}
	})

	t.Run("Sequence Out Of Range Is Not Found", func(t *testing.T) {
		detail, err := usecase.FetchEventByID(context.Background(), "ai-1#5")

		assert.NoError(t, err)
		assert.Nil(t, detail)
	})

	t.Run("Unknown Resource Is Not Found", func(t *testing.T) {
		detail, err := usecase.FetchEventByID(context.Background(), "ai-404#1")

		assert.NoError(t, err)
		assert.Nil(t, detail)
	})

	t.Run("Empty Identifier Is Invalid", func(t *testing.T) {
		_, err := usecase.FetchEventByID(context.Background(), "#2")
		assert.Error(t, err)
	})
}

func TestCreateEvent(t *testing.T) {
	t.Run("New Patient And New Substance", func(t *testing.T) {
		allergyClient := &fakeAllergyClient{byID: map[string]*fhir_dto.AllergyIntolerance{}, nextID: "ai-new"}
		patientClient := &fakePatientClient{nextID: "p-new"}
		usecase, auditRepository, eventNotifier := newTestUsecase(allergyClient, patientClient)

		result, err := usecase.CreateEvent(context.Background(), "new", &requests.CreateEvent{
			PatientName:        "Jamie Smith",
			URN:                "URN-77",
			Gender:             "Female",
			SubstanceName:      "Penicillin",
			EventDate:          "2024-03-01",
			Severity:           "High",
			VerificationStatus: "Confirmed",
			Criticality:        "High Risk",
		})

		assert.NoError(t, err)
		assert.Equal(t, "ai-new#1", result.ID)
		assert.Equal(t, "ai-new", result.SubstanceID)

		if assert.NotNil(t, patientClient.created) {
			name := patientClient.created.Name[0]
			assert.Equal(t, []string{"Jamie"}, name.Given)
			assert.Equal(t, "Smith", name.Family)
			assert.Equal(t, "female", patientClient.created.Gender)
			assert.Len(t, patientClient.created.Identifier, 2, "canonical and legacy URN systems")
		}

		if assert.NotNil(t, allergyClient.created) {
			created := allergyClient.created
			assert.Equal(t, "Penicillin", created.Code.Text)
			assert.Equal(t, "Patient/p-new", created.Patient.Reference)
			assert.Equal(t, []string{"medication"}, created.Category)
			assert.Equal(t, "allergy", created.Type)
			assert.Equal(t, "high", created.Criticality)
			assert.Len(t, created.Reaction, 1)
			assert.Equal(t, "severe", created.Reaction[0].Severity)
		}

		assert.Len(t, auditRepository.audits, 2, "patient creation plus event creation")
		assert.Len(t, eventNotifier.notifications, 1)
		assert.Equal(t, "ai-new#1", eventNotifier.notifications[0].EventID)
	})

	t.Run("Second Event Appends To The Existing Resource", func(t *testing.T) {
		existing := &fhir_dto.AllergyIntolerance{
			ID:   "ai-1",
			Code: codeText("Penicillin"),
			Meta: &fhir_dto.Meta{VersionID: "3"},
			Reaction: []fhir_dto.AllergyReaction{
				{Onset: "2024-01-01"},
			},
		}
		allergyClient := &fakeAllergyClient{
			byID:          map[string]*fhir_dto.AllergyIntolerance{"ai-1": existing},
			searchResults: []fhir_dto.AllergyIntolerance{*existing},
		}
		usecase, auditRepository, _ := newTestUsecase(allergyClient, &fakePatientClient{})

		result, err := usecase.CreateEvent(context.Background(), "p2", &requests.CreateEvent{
			SubstanceName: "penicillin",
			EventDate:     "2024-03-01",
		})

		assert.NoError(t, err)
		assert.Equal(t, "ai-1#2", result.ID)
		assert.Nil(t, allergyClient.created, "no new resource for a known substance")
		if assert.NotNil(t, allergyClient.updated) {
			assert.Len(t, allergyClient.updated.Reaction, 2)
			assert.Contains(t, allergyClient.updated.Category, "medication")
		}
		assert.Len(t, auditRepository.audits, 1, "no patient creation audit for an existing patient")
	})

	t.Run("Substance Match Is Case Insensitive On Coding Display", func(t *testing.T) {
		existing := &fhir_dto.AllergyIntolerance{
			ID: "ai-2",
			Code: &fhir_dto.CodeableConcept{
				Coding: []fhir_dto.Coding{{Display: "Milk (Dairy)"}},
			},
		}
		allergyClient := &fakeAllergyClient{
			byID:          map[string]*fhir_dto.AllergyIntolerance{"ai-2": existing},
			searchResults: []fhir_dto.AllergyIntolerance{*existing},
		}
		usecase, _, _ := newTestUsecase(allergyClient, &fakePatientClient{})

		result, err := usecase.CreateEvent(context.Background(), "p2", &requests.CreateEvent{
			SubstanceName: "milk (dairy)",
		})

		assert.NoError(t, err)
		assert.Equal(t, "ai-2#1", result.ID)
		assert.NotNil(t, allergyClient.updated)
	})

	t.Run("Delabeled Criticality Resolves The Clinical Status", func(t *testing.T) {
		allergyClient := &fakeAllergyClient{byID: map[string]*fhir_dto.AllergyIntolerance{}, nextID: "ai-3"}
		usecase, _, _ := newTestUsecase(allergyClient, &fakePatientClient{})

		_, err := usecase.CreateEvent(context.Background(), "p2", &requests.CreateEvent{
			SubstanceName: "Amoxicillin",
			Criticality:   "Delabeled",
		})

		assert.NoError(t, err)
		if assert.NotNil(t, allergyClient.created) {
			assert.Equal(t, "", allergyClient.created.Criticality)
			if assert.NotNil(t, allergyClient.created.ClinicalStatus) {
				assert.Equal(t, "resolved", allergyClient.created.ClinicalStatus.Coding[0].Code)
			}
		}
	})

	t.Run("Search Is Scoped By Patient And Code Text", func(t *testing.T) {
		allergyClient := &fakeAllergyClient{byID: map[string]*fhir_dto.AllergyIntolerance{}, nextID: "ai-4"}
		usecase, _, _ := newTestUsecase(allergyClient, &fakePatientClient{})

		_, err := usecase.CreateEvent(context.Background(), "p9", &requests.CreateEvent{SubstanceName: "Shrimp"})

		assert.NoError(t, err)
		assert.Equal(t, "p9", allergyClient.searchParams.Get("patient"))
		assert.Equal(t, "Shrimp", allergyClient.searchParams.Get("code:text"))
	})
}

func TestInferAllergyCategory(t *testing.T) {
	cases := map[string]string{
		"Penicillin VK": "medication",
		"Amoxicillin":   "medication",
		"Peanut":        "food",
		"Milk (dairy)":  "food",
		"Latex":         "",
	}
	for substance, expected := range cases {
		assert.Equal(t, expected, inferAllergyCategory(substance), fmt.Sprintf("substance %q", substance))
	}
}

func TestSplitGroupIDs(t *testing.T) {
	assert.Equal(t, []string{"ai-1", "ai-2"}, splitGroupIDs("ai-1, ai-2"))
	assert.Equal(t, []string{"ai-1"}, splitGroupIDs("ai-1"))
	assert.Empty(t, splitGroupIDs(" , "))
}
