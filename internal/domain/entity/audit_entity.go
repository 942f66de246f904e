package entity

import "time"

const (
	AuditRegister     = "register"
	AuditLogin        = "login"
	AuditLoginFailed  = "login_failed"
	AuditLogout       = "logout"
	AuditFarmerDelete = "farmer_delete"
)

// AuditLog is an append-only record of an authentication or admin event.
type AuditLog struct {
	ID        string
	UserID    string
	Username  string
	Action    string
	IP        string
	UserAgent string
	Metadata  map[string]any
	CreatedAt time.Time
}
