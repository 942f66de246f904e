package entity

import (
	"strings"
	"time"
)

// User is the identity record shared by admins and farmers.
// Password holds a bcrypt hash, never the plain text.
type User struct {
	ID        string
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Address   string
	Role      Role
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) IsAdmin() bool  { return u.Role == RoleAdmin }
func (u *User) IsFarmer() bool { return u.Role == RoleFarmer }
