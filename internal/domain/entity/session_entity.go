package entity

import "time"

// Session is the server-side half of an issued credential.
// A token is accepted only while a session with its SessionID exists.
type Session struct {
	UserID    string
	SessionID string
	Username  string
	Role      Role
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
