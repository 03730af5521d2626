package constvars

type contextKey string

const (
	CONTEXT_REQUEST_ID_KEY           contextKey = "requestID"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY contextKey = "isClientRequestID"
	CONTEXT_SESSION_DATA_KEY         contextKey = "sessionData"
)

const (
	LoggingRequestIDKey   = "request_id"
	LoggingEndpointKey    = "endpoint"
	LoggingMethodKey      = "method"
	LoggingRemoteAddrKey  = "remote_addr"
	LoggingUserAgentKey   = "user_agent"
	LoggingQueryKey       = "query"
	LoggingStatusCodeKey  = "status_code"
	LoggingDurationKey    = "duration"
	LoggingSuccessKey     = "success"
	LoggingErrorTypeKey   = "error_type"
	LoggingPatientIDKey   = "patient_id"
	LoggingAllergyIDKey   = "allergy_id"
	LoggingEventIDKey     = "event_id"
	LoggingSubstanceKey   = "substance"
	LoggingSessionIDKey   = "session_id"
	LoggingCacheKey       = "cache_key"
	LoggingFhirStatusKey  = "fhir_status"
	LoggingResourceKey    = "resource"
	LoggingEventNameKey   = "event"
	LoggingBusinessPrefix = "business_event"
)
