package requests

type CreateSession struct {
	RoleID      string `json:"roleId" validate:"required"`
	DisplayName string `json:"displayName" validate:"required"`
}
