package constvars

const (
	ResourcePatient            = "Patient"
	ResourceAllergyIntolerance = "AllergyIntolerance"
)

// Identifier systems the register depends on. The bare-string forms are kept
// for interoperability with data seeded without full system URIs.
const (
	FhirSystemURN            = "urn:oid:1.2.36.146.595.217.0.1"
	FhirSystemURNLegacy      = "URN"
	FhirSystemMedicare       = "http://ns.ehealth.gov.au/id/medicare-number"
	FhirSystemMedicareLegacy = "AUS-MEDICARE"

	FhirSystemAllergyVerification   = "http://terminology.hl7.org/CodeSystem/allergyintolerance-verification"
	FhirSystemAllergyClinicalStatus = "http://terminology.hl7.org/CodeSystem/allergyintolerance-clinical"
	FhirSystemSNOMED                = "http://snomed.info/sct"
)

const (
	FhirClinicalStatusActive   = "active"
	FhirClinicalStatusResolved = "resolved"
)

const (
	FhirVerificationConfirmed   = "confirmed"
	FhirVerificationUnconfirmed = "unconfirmed"
	FhirVerificationRefuted     = "refuted"
)

const (
	FhirCriticalityHigh           = "high"
	FhirCriticalityLow            = "low"
	FhirCriticalityUnableToAssess = "unable-to-assess"
)

const (
	FhirSeverityMild     = "mild"
	FhirSeverityModerate = "moderate"
	FhirSeveritySevere   = "severe"
)

const (
	FhirAllergyTypeAllergy        = "allergy"
	FhirAllergyCategoryMedication = "medication"
	FhirAllergyCategoryFood       = "food"
)

const (
	FhirParamIdentifier  = "identifier"
	FhirParamName        = "name"
	FhirParamGender      = "gender"
	FhirParamPatient     = "patient"
	FhirParamCodeText    = "code:text"
	FhirParamCount       = "_count"
	FhirParamSort        = "_sort"
	FhirSortLastUpdated  = "-_lastUpdated"
	FhirSortNameParam    = "name"
	FhirSortBirthdate    = "birthdate"
	FhirPatientPageSize  = "50"
	FhirAllergyPageSize  = "100"
	FhirAllergyFindLimit = "10"
)
