package responses

type Session struct {
	Token       string `json:"token"`
	RoleID      string `json:"roleId"`
	RoleLabel   string `json:"roleLabel"`
	DisplayName string `json:"displayName"`
	ExpiresAt   string `json:"expiresAt"`
}
