package constvars

const (
	AppEnvDevelopment = "development"
	AppEnvProduction  = "production"
)

const (
	RedisSessionKeyFormat = "session:%s"
)

const (
	MongoCollectionEventAudit = "event_audit"
)

const (
	AuditActionEventCreated   = "event_created"
	AuditActionPatientCreated = "patient_created"
)

const (
	ReportDocumentNameFormat = "event-reports/%s.json"
)
