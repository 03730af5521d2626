package allergies

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"allergy-register-service/internal/pkg/constvars"
	"allergy-register-service/internal/pkg/fhir_dto"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func newTestClient(server *httptest.Server) *allergyFhirClient {
	return &allergyFhirClient{
		BaseURL:       server.URL + "/" + constvars.ResourceAllergyIntolerance,
		Log:           zap.NewNop(),
		HTTPClient:    server.Client(),
		Limiter:       rate.NewLimiter(rate.Inf, 1),
		SearchTimeout: 5 * time.Second,
	}
}

func TestUpdateAllergyIntolerance(t *testing.T) {
	t.Run("Sends Conditional If-Match From The Read Version", func(t *testing.T) {
		var gotIfMatch string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotIfMatch = r.Header.Get("If-Match")
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/AllergyIntolerance/ai-1", r.URL.Path)

			var body fhir_dto.AllergyIntolerance
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			body.Meta.VersionID = "4"
			json.NewEncoder(w).Encode(body)
		}))
		defer server.Close()

		client := newTestClient(server)
		updated, err := client.UpdateAllergyIntolerance(context.Background(), &fhir_dto.AllergyIntolerance{
			ResourceType: constvars.ResourceAllergyIntolerance,
			ID:           "ai-1",
			Meta:         &fhir_dto.Meta{VersionID: "3"},
		})

		assert.NoError(t, err)
		assert.Equal(t, `W/"3"`, gotIfMatch)
		assert.Equal(t, "4", updated.Meta.VersionID)
	})

	t.Run("No If-Match Without A Version", func(t *testing.T) {
		var gotIfMatch string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotIfMatch = r.Header.Get("If-Match")
			json.NewEncoder(w).Encode(fhir_dto.AllergyIntolerance{ResourceType: constvars.ResourceAllergyIntolerance, ID: "ai-1"})
		}))
		defer server.Close()

		client := newTestClient(server)
		_, err := client.UpdateAllergyIntolerance(context.Background(), &fhir_dto.AllergyIntolerance{ID: "ai-1"})

		assert.NoError(t, err)
		assert.Equal(t, "", gotIfMatch)
	})

	t.Run("Version Conflict Surfaces The Operation Outcome", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"resourceType": "OperationOutcome",
				"issue":        []map[string]string{{"diagnostics": "version conflict"}},
			})
		}))
		defer server.Close()

		client := newTestClient(server)
		_, err := client.UpdateAllergyIntolerance(context.Background(), &fhir_dto.AllergyIntolerance{ID: "ai-1"})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "version conflict")
	})
}

func TestFindAllergyIntoleranceByID(t *testing.T) {
	t.Run("Not Found Is Nil Without Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := newTestClient(server)
		allergy, err := client.FindAllergyIntoleranceByID(context.Background(), "missing")

		assert.NoError(t, err)
		assert.Nil(t, allergy)
	})

	t.Run("Wrong Resource Type Is Treated As Missing", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"resourceType": "OperationOutcome"})
		}))
		defer server.Close()

		client := newTestClient(server)
		allergy, err := client.FindAllergyIntoleranceByID(context.Background(), "ai-1")

		assert.NoError(t, err)
		assert.Nil(t, allergy)
	})
}

func TestSearchAllergyIntolerances(t *testing.T) {
	t.Run("Decodes Bundle Entries And Skips Foreign Resources", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "p2", r.URL.Query().Get("patient"))
			json.NewEncoder(w).Encode(map[string]interface{}{
				"resourceType": "Bundle",
				"entry": []map[string]interface{}{
					{"resource": map[string]interface{}{"resourceType": "AllergyIntolerance", "id": "ai-1"}},
					{"resource": map[string]interface{}{"resourceType": "OperationOutcome"}},
					{"resource": map[string]interface{}{"resourceType": "AllergyIntolerance", "id": "ai-2"}},
				},
			})
		}))
		defer server.Close()

		client := newTestClient(server)
		params := url.Values{}
		params.Set("patient", "p2")
		allergies, err := client.SearchAllergyIntolerances(context.Background(), params)

		assert.NoError(t, err)
		assert.Len(t, allergies, 2)
		assert.Equal(t, "ai-1", allergies[0].ID)
		assert.Equal(t, "ai-2", allergies[1].ID)
	})
}
