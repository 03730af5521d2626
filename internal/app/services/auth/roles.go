package auth

// Role is one entry of the clinician role catalogue offered at login.
type Role struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// RoleOptions is ordered for display; the first entry is the default role.
var RoleOptions = []Role{
	{ID: "gp", Label: "Allergist"},
	{ID: "general-practitioner", Label: "General Practitioner"},
	{ID: "emergency-physician", Label: "Emergency Physician"},
	{ID: "allergy-specialist", Label: "Specialist"},
}

func DefaultRoleID() string {
	return RoleOptions[0].ID
}

// RoleLabel resolves a role id to its display label. ok is false when the id
// is not part of the catalogue.
func RoleLabel(roleID string) (string, bool) {
	for _, role := range RoleOptions {
		if role.ID == roleID {
			return role.Label, true
		}
	}
	return "", false
}
