package allergies

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
	allergyFhirClientInstance contracts.AllergyFhirClient
	onceAllergyFhirClient     sync.Once
)

type allergyFhirClient struct {
	BaseURL       string
	Log           *zap.Logger
	HTTPClient    *http.Client
	Limiter       *rate.Limiter
	SearchTimeout time.Duration
}

func NewAllergyFhirClient(baseURL string, logger *zap.Logger, limiter *rate.Limiter, searchTimeout time.Duration) contracts.AllergyFhirClient {
	onceAllergyFhirClient.Do(func() {
		allergyFhirClientInstance = &allergyFhirClient{
			BaseURL:       baseURL + "/" + constvars.ResourceAllergyIntolerance,
			Log:           logger,
			HTTPClient:    &http.Client{},
			Limiter:       limiter,
			SearchTimeout: searchTimeout,
		}
	})
	return allergyFhirClientInstance
}

func (c *allergyFhirClient) CreateAllergyIntolerance(ctx context.Context, request *fhir_dto.AllergyIntolerance) (*fhir_dto.AllergyIntolerance, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("allergyFhirClient.CreateAllergyIntolerance called",
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
		c.Log.Error("allergyFhirClient.CreateAllergyIntolerance error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusCreated && resp.StatusCode != constvars.StatusOK {
		status, body := drainFailure(resp)
		c.Log.Error("allergyFhirClient.CreateAllergyIntolerance FHIR error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingFhirStatusKey, status),
		)
		return nil, exceptions.ErrCreateFHIRResource(constvars.ResourceAllergyIntolerance, status, body)
	}

	allergyFhir := new(fhir_dto.AllergyIntolerance)
	if err := json.NewDecoder(resp.Body).Decode(allergyFhir); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceAllergyIntolerance)
	}

	c.Log.Info("allergyFhirClient.CreateAllergyIntolerance succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAllergyIDKey, allergyFhir.ID),
	)
	return allergyFhir, nil
}

func (c *allergyFhirClient) UpdateAllergyIntolerance(ctx context.Context, request *fhir_dto.AllergyIntolerance) (*fhir_dto.AllergyIntolerance, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("allergyFhirClient.UpdateAllergyIntolerance called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAllergyIDKey, request.ID),
	)

	requestJSON, err := json.Marshal(request)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPut, fmt.Sprintf("%s/%s", c.BaseURL, url.PathEscape(request.ID)), bytes.NewBuffer(requestJSON))
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)
	// Conditional update. The versionId was captured on read, so a concurrent
	// writer makes the server reject this PUT instead of losing their reactions.
	if request.Meta != nil && request.Meta.VersionID != "" {
		req.Header.Set(constvars.HeaderIfMatch, fmt.Sprintf(`W/"%s"`, request.Meta.VersionID))
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		c.Log.Error("allergyFhirClient.UpdateAllergyIntolerance error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK && resp.StatusCode != constvars.StatusCreated {
		status, body := drainFailure(resp)
		c.Log.Error("allergyFhirClient.UpdateAllergyIntolerance FHIR error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingFhirStatusKey, status),
		)
		return nil, exceptions.ErrUpdateFHIRResource(constvars.ResourceAllergyIntolerance, status, body)
	}

	allergyFhir := new(fhir_dto.AllergyIntolerance)
	if err := json.NewDecoder(resp.Body).Decode(allergyFhir); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceAllergyIntolerance)
	}

	c.Log.Info("allergyFhirClient.UpdateAllergyIntolerance succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAllergyIDKey, allergyFhir.ID),
	)
	return allergyFhir, nil
}

func (c *allergyFhirClient) FindAllergyIntoleranceByID(ctx context.Context, allergyID string) (*fhir_dto.AllergyIntolerance, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("allergyFhirClient.FindAllergyIntoleranceByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAllergyIDKey, allergyID),
	)

	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, fmt.Sprintf("%s/%s", c.BaseURL, url.PathEscape(allergyID)), nil)
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
		return nil, exceptions.ErrGetFHIRResource(constvars.ResourceAllergyIntolerance, status, body)
	}

	allergyFhir := new(fhir_dto.AllergyIntolerance)
	if err := json.NewDecoder(resp.Body).Decode(allergyFhir); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceAllergyIntolerance)
	}
	if allergyFhir.ResourceType != constvars.ResourceAllergyIntolerance {
		return nil, nil
	}
	return allergyFhir, nil
}

func (c *allergyFhirClient) SearchAllergyIntolerances(ctx context.Context, params url.Values) ([]fhir_dto.AllergyIntolerance, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("allergyFhirClient.SearchAllergyIntolerances called",
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
		c.Log.Error("allergyFhirClient.SearchAllergyIntolerances FHIR error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingFhirStatusKey, status),
		)
		return nil, exceptions.ErrSearchFHIRResource(constvars.ResourceAllergyIntolerance, status, body)
	}

	var bundle fhir_dto.FHIRBundle
	if err := json.NewDecoder(resp.Body).Decode(&bundle); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceAllergyIntolerance)
	}

	allergies := make([]fhir_dto.AllergyIntolerance, 0, len(bundle.Entry))
	for _, entry := range bundle.Entry {
		var allergy fhir_dto.AllergyIntolerance
		if err := json.Unmarshal(entry.Resource, &allergy); err != nil {
			continue
		}
		if allergy.ResourceType != constvars.ResourceAllergyIntolerance {
			continue
		}
		allergies = append(allergies, allergy)
	}

	c.Log.Info("allergyFhirClient.SearchAllergyIntolerances succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("total", len(allergies)),
	)
	return allergies, nil
}

func (c *allergyFhirClient) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	return resp, nil
}

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
