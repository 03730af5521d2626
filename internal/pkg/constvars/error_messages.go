package constvars

// Client-facing messages. Kept deliberately generic so server internals never
// leak to the caller.
const (
	ErrClientSomethingWrongWithApplication = "Something went wrong with the application, please try again later"
	ErrClientCannotProcessRequest          = "Cannot process your request, please check your input"
	ErrClientServerLongRespond             = "Server takes too long to respond, please try again later"
	ErrClientNotAuthorized                 = "You are not authorized to perform this action"
	ErrClientNotLoggedIn                   = "Your session has expired, please log in again"
	ErrClientPatientNotFound               = "Patient not found"
	ErrClientEventNotFound                 = "Event not found"
	ErrClientReportNotFound                = "Report not found"
	ErrClientFailedCreatePatient           = "Failed to create Patient"
	ErrClientFailedCreateAllergy           = "Failed to create AllergyIntolerance"
	ErrClientFailedUpdateAllergy           = "Failed to update AllergyIntolerance"
)

// Developer messages, logged and shown outside production only.
const (
	ErrDevValidationFailed             = "Request validation failed"
	ErrDevCannotParseJSON              = "Failed to parse JSON request body"
	ErrDevCannotMarshalJSON            = "Failed to marshal value to JSON"
	ErrDevBuildHTTPRequest             = "Failed to build HTTP request"
	ErrDevSendHTTPRequest              = "Failed to send HTTP request"
	ErrDevDecodeResponse               = "Failed to decode %s response body"
	ErrDevFHIRSearchFailed             = "FHIR %s search failed: status %d body %s"
	ErrDevFHIRGetFailed                = "FHIR get %s failed: status %d body %s"
	ErrDevFHIRCreateFailed             = "FHIR create %s failed: status %d body %s"
	ErrDevFHIRUpdateFailed             = "FHIR update %s failed: status %d body %s"
	ErrDevMissingRequestID             = "Request ID missing from context"
	ErrDevMissingSessionData           = "Session data missing from context"
	ErrDevInvalidRole                  = "Role is not part of the role catalogue"
	ErrDevAuthTokenMissing             = "Authorization token is missing"
	ErrDevAuthTokenInvalidOrExpired    = "Authorization token is invalid or expired"
	ErrDevAuthGenerateToken            = "Failed to sign session token"
	ErrDevRedisSet                     = "Failed to set value in Redis"
	ErrDevRedisGet                     = "Failed to get value from Redis, key: %s"
	ErrDevRedisDelete                  = "Failed to delete value from Redis"
	ErrDevMongoDBInsertDocument        = "Failed to insert document into MongoDB"
	ErrDevMinioCreateObject            = "Failed to store object in bucket %s"
	ErrDevMinioPresignObject           = "Failed to presign object URL in bucket %s"
	ErrDevRabbitMQPublish              = "Failed to publish message to queue %s"
	ErrDevEventIdentifierInvalid       = "Event identifier has no allergy id segment"
	ErrDevServerDeadlineExceeded       = "Server deadline exceeded"
	ErrDevPatientSearchIdentifierEmpty = "Identifier normalized to empty value"
)
