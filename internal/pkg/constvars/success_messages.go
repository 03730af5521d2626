package constvars

const (
	SearchPatientsSuccessMessage   = "Successfully searched patients"
	GetPatientSuccessMessage       = "Successfully fetched patient"
	GetSubstancesSuccessMessage    = "Successfully fetched substances"
	GetEventsSuccessMessage        = "Successfully fetched events"
	GetEventSuccessMessage         = "Successfully fetched event"
	CreateEventSuccessMessage      = "Successfully recorded event"
	CreateSessionSuccessMessage    = "Successfully created session"
	DestroySessionSuccessMessage   = "Successfully destroyed session"
	GetMhrSnapshotSuccessMessage   = "Successfully fetched MHR snapshot"
	GetEventReportSuccessMessage   = "Successfully assembled event report"
	ArchiveReportSuccessMessage    = "Successfully archived event report"
	HealthCheckResponseMessage     = "Service is healthy"
	EventRecordedNotificationEvent = "allergy.event.recorded"
)
