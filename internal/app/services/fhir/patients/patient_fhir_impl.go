package patients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"allergy-register-service/internal/app/contracts"
	"allergy-register-service/internal/pkg/constvars"
	"allergy-register-service/internal/pkg/exceptions"
	"allergy-register-service/internal/pkg/fhir_dto"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	patientFhirClientInstance contracts.PatientFhirClient
	oncePatientFhirClient     sync.Once
)

type patientFhirClient struct {
	BaseURL       string
	Log           *zap.Logger
	HTTPClient    *http.Client
	Limiter       *rate.Limiter
	SearchTimeout time.Duration
}

func NewPatientFhirClient(baseURL string, logger *zap.Logger, limiter *rate.Limiter, searchTimeout time.Duration) contracts.PatientFhirClient {
	oncePatientFhirClient.Do(func() {
		patientFhirClientInstance = &patientFhirClient{
			BaseURL:       baseURL + "/" + constvars.ResourcePatient,
			Log:           logger,
			HTTPClient:    &http.Client{},
			Limiter:       limiter,
			SearchTimeout: searchTimeout,
		}
	})
	return patientFhirClientInstance
}

func (c *patientFhirClient) CreatePatient(ctx context.Context, request *fhir_dto.Patient) (*fhir_dto.Patient, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("patientFhirClient.CreatePatient called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	requestJSON, err := json.Marshal(request)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, c.BaseURL, bytes.NewBuffer(requestJSON))
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)

	resp, err := c.do(ctx, req)
	if err != nil {
		c.Log.Error("patientFhirClient.CreatePatient error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusCreated && resp.StatusCode != constvars.StatusOK {
		status, body := drainFailure(resp)
		c.Log.Error("patientFhirClient.CreatePatient FHIR error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingFhirStatusKey, status),
		)
		return nil, exceptions.ErrCreateFHIRResource(constvars.ResourcePatient, status, body)
	}

	patientFhir := new(fhir_dto.Patient)
	if err := json.NewDecoder(resp.Body).Decode(patientFhir); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourcePatient)
	}

	c.Log.Info("patientFhirClient.CreatePatient succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientFhir.ID),
	)
	return patientFhir, nil
}

func (c *patientFhirClient) FindPatientByID(ctx context.Context, patientID string) (*fhir_dto.Patient, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("patientFhirClient.FindPatientByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, fmt.Sprintf("%s/%s", c.BaseURL, url.PathEscape(patientID)), nil)
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationFHIRJSON)

	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == constvars.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != constvars.StatusOK {
		status, body := drainFailure(resp)
		return nil, exceptions.ErrGetFHIRResource(constvars.ResourcePatient, status, body)
	}

	patientFhir := new(fhir_dto.Patient)
	if err := json.NewDecoder(resp.Body).Decode(patientFhir); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourcePatient)
	}
	if patientFhir.ResourceType != constvars.ResourcePatient {
		return nil, nil
	}
	return patientFhir, nil
}

func (c *patientFhirClient) SearchPatients(ctx context.Context, params url.Values) ([]fhir_dto.Patient, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("patientFhirClient.SearchPatients called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueryKey, params.Encode()),
	)

	searchCtx, cancel := context.WithTimeout(ctx, c.SearchTimeout)
	defer cancel()

	searchURL := c.BaseURL
	if encoded := params.Encode(); encoded != "" {
		searchURL += "?" + encoded
	}
	req, err := http.NewRequestWithContext(searchCtx, constvars.MethodGet, searchURL, nil)
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationFHIRJSON)

	resp, err := c.do(searchCtx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		status, body := drainFailure(resp)
		c.Log.Error("patientFhirClient.SearchPatients FHIR error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingFhirStatusKey, status),
		)
		return nil, exceptions.ErrSearchFHIRResource(constvars.ResourcePatient, status, body)
	}

	var bundle fhir_dto.FHIRBundle
	if err := json.NewDecoder(resp.Body).Decode(&bundle); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourcePatient)
	}

	patients := make([]fhir_dto.Patient, 0, len(bundle.Entry))
	for _, entry := range bundle.Entry {
		var patient fhir_dto.Patient
		if err := json.Unmarshal(entry.Resource, &patient); err != nil {
			continue
		}
		if patient.ResourceType != constvars.ResourcePatient {
			continue
		}
		patients = append(patients, patient)
	}

	c.Log.Info("patientFhirClient.SearchPatients succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("total", len(patients)),
	)
	return patients, nil
}

func (c *patientFhirClient) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	return resp, nil
}

// drainFailure reads the failed response and prefers the OperationOutcome
// diagnostics over the raw body text when the server sent one.
func drainFailure(resp *http.Response) (int, string) {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, ""
	}
	var outcome fhir_dto.OperationOutcome
	if err := json.Unmarshal(bodyBytes, &outcome); err == nil && len(outcome.Issue) > 0 && outcome.Issue[0].Diagnostics != "" {
		return resp.StatusCode, outcome.Issue[0].Diagnostics
	}
	return resp.StatusCode, string(bodyBytes)
}
