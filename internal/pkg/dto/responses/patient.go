package responses

// PatientRow is the flat projection the search table and report header use.
type PatientRow struct {
	ID         string `json:"id"`
	URN        string `json:"urn"`
	MedicareID string `json:"medicareId"`
	Name       string `json:"name"`
	Gender     string `json:"gender"`
	DOB        string `json:"dob,omitempty"`
}

func (r PatientRow) Field(key string) string {
	switch key {
	case "id":
		return r.ID
	case "urn":
		return r.URN
	case "medicareId":
		return r.MedicareID
	case "name":
		return r.Name
	case "gender":
		return r.Gender
	case "dob":
		return r.DOB
	}
	return ""
}
