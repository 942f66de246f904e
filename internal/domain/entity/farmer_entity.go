package entity

import "time"

// FarmerProfile extends a farmer-role User one-to-one.
// User and CropsCount are populated by repository reads.
type FarmerProfile struct {
	ID        string
	UserID    string
	FarmName  string
	FarmSize  *float64
	Location  string
	CreatedAt time.Time
	UpdatedAt time.Time

	User       *User
	CropsCount int
}

func (f *FarmerProfile) OwnerUserID() string { return f.UserID }

func (f *FarmerProfile) FullName() string {
	if f.User == nil {
		return ""
	}
	return f.User.FullName()
}
