package responses

// MHRSnapshot carries per-patient defaults sourced from the external summary
// record: the treating doctor, the standing avoid-statement and per-substance
// status defaults used to prefill the entry form and the report.
type MHRSnapshot struct {
	TreatingDoctor     string                          `json:"treatingDoctor"`
	TreatingDoctorRole string                          `json:"treatingDoctorRole"`
	PatientMustAvoid   string                          `json:"patientMustAvoid"`
	Substances         map[string]MHRSubstanceSnapshot `json:"substances"`
}

type MHRSubstanceSnapshot struct {
	VerificationStatus string `json:"verificationStatus"`
	Criticality        string `json:"criticality"`
	FirstOnset         string `json:"firstOnset"`
}
