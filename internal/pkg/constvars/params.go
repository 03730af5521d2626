package constvars

const (
	URLParamPatientID   = "patientID"
	URLParamSubstanceID = "substanceID"
	URLParamEventID     = "eventID"
)

const (
	QueryParamURN        = "urn"
	QueryParamName       = "name"
	QueryParamMedicareID = "medicareId"
	QueryParamGender     = "gender"
	QueryParamSort       = "sort"
	QueryParamOrder      = "order"

	QueryParamCriticality  = "criticality"
	QueryParamVerification = "verificationStatus"
	QueryParamSubstance    = "substanceName"
)

const (
	SortDirectionAsc  = "asc"
	SortDirectionDesc = "desc"
)

// Placeholder patient id meaning "create the patient as part of the event
// submission".
const NewPatientPlaceholder = "new"
