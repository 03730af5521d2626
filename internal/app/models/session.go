package models

import "time"

// Session is what the Redis session store holds per logged-in clinician.
type Session struct {
	ID          string    `json:"id"`
	RoleID      string    `json:"role_id"`
	RoleLabel   string    `json:"role_label"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}
