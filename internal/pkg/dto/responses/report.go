package responses

// EventReport is the printable projection of one event. Section order is
// fixed: Basic Information, Event Information, Risk of Reaction Status,
// Investigation Details.
type EventReport struct {
	ReportID             string              `json:"reportId"`
	GeneratedAt          string              `json:"generatedAt"`
	BasicInformation     ReportBasicSection  `json:"basicInformation"`
	EventInformation     ReportEventSection  `json:"eventInformation"`
	RiskOfReactionStatus ReportRiskSection   `json:"riskOfReactionStatus"`
	InvestigationDetails ReportInvestSection `json:"investigationDetails"`
}

type ReportBasicSection struct {
	PatientName    string `json:"patientName"`
	Gender         string `json:"gender"`
	DateOfBirth    string `json:"dateOfBirth"`
	TreatingDoctor string `json:"treatingDoctor"`
	DoctorRole     string `json:"doctorRole"`
	DateOfReport   string `json:"dateOfReport"`
	URN            string `json:"urn"`
	MedicareID     string `json:"medicareId"`
}

type ReportEventSection struct {
	SubstanceName       string   `json:"substanceName"`
	Severity            string   `json:"severity"`
	InitialExposureTime string   `json:"initialExposureTime"`
	ReactionStartTime   string   `json:"reactionStartTime"`
	ReactionOnsetTime   string   `json:"reactionOnsetTime"`
	Manifestations      []string `json:"manifestations"`
	ClinicalManagement  string   `json:"clinicalManagement"`
}

type ReportRiskSection struct {
	SubstanceName      string `json:"substanceName"`
	VerificationStatus string `json:"verificationStatus"`
	Criticality        string `json:"criticality"`
	FirstReactionOnset string `json:"firstReactionOnset"`
	LastReactionOnset  string `json:"lastReactionOnset"`
}

type ReportInvestSection struct {
	TestMethod       string `json:"testMethod"`
	TestResults      string `json:"testResults"`
	Outcome          string `json:"outcome"`
	PatientMustAvoid string `json:"patientMustAvoid"`
	Comments         string `json:"comments"`
	AutoInjector     string `json:"autoInjector"`
}

// ArchivedReport points at the stored report document.
type ArchivedReport struct {
	ObjectName string `json:"objectName"`
	URL        string `json:"url"`
}
