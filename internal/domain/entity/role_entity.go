package entity

// Role is the authorization role of a user. It is fixed at creation.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleFarmer Role = "farmer"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleFarmer
}
