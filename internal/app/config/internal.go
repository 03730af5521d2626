package config

type InternalConfig struct {
	App          App
	FHIR         AppFHIR
	JWT          AppJWT
	Session      AppSession
	Notification AppNotification
	Report       AppReport
}

type App struct {
	Env                       string
	Port                      string
	Version                   string
	Address                   string
	Timezone                  string
	EndpointPrefix            string
	MaxRequests               int
	ShutdownTimeoutInSeconds  int
	MaxTimeRequestsPerSeconds int
}

type AppFHIR struct {
	BaseUrl                string
	SearchTimeoutInSeconds int
	MaxRequestsPerSecond   int
	RequestBurst           int
}

type AppJWT struct {
	Secret        string
	ExpTimeInHour int
}

type AppSession struct {
	ExpTimeInHour int
}

type AppNotification struct {
	EventQueue string
}

type AppReport struct {
	BucketName                string
	PresignedUrlExpiryInHours int
}
