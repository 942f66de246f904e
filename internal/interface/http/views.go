package handlers

import (
	"time"

	"github.com/oksasatya/shamba-farm/internal/application"
	"github.com/oksasatya/shamba-farm/internal/domain/entity"
	"github.com/oksasatya/shamba-farm/pkg/helpers"
)

type UserView struct {
	ID         string      `json:"id"`
	Username   string      `json:"username"`
	Email      string      `json:"email"`
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	Phone      string      `json:"phone"`
	Address    string      `json:"address"`
	Role       entity.Role `json:"role"`
	DateJoined time.Time   `json:"date_joined"`
}

func toUserView(u *entity.User) UserView {
	return UserView{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Phone:      u.Phone,
		Address:    u.Address,
		Role:       u.Role,
		DateJoined: u.CreatedAt,
	}
}

type FarmerView struct {
	ID         string    `json:"id"`
	User       *UserView `json:"user"`
	FullName   string    `json:"full_name"`
	FarmName   string    `json:"farm_name"`
	FarmSize   *float64  `json:"farm_size"`
	Location   string    `json:"location"`
	CropsCount int       `json:"crops_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toFarmerView(f *entity.FarmerProfile) FarmerView {
	v := FarmerView{
		ID:         f.ID,
		FullName:   f.FullName(),
		FarmName:   f.FarmName,
		FarmSize:   f.FarmSize,
		Location:   f.Location,
		CropsCount: f.CropsCount,
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
	}
	if f.User != nil {
		u := toUserView(f.User)
		v.User = &u
	}
	return v
}

func toFarmerViews(in []entity.FarmerProfile) []FarmerView {
	out := make([]FarmerView, 0, len(in))
	for i := range in {
		out = append(out, toFarmerView(&in[i]))
	}
	return out
}

type CropView struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	CropType            string    `json:"crop_type"`
	CropTypeDisplay     string    `json:"crop_type_display"`
	Quantity            float64   `json:"quantity"`
	Unit                string    `json:"unit"`
	PlantingDate        *string   `json:"planting_date"`
	ExpectedHarvestDate *string   `json:"expected_harvest_date"`
	Status              string    `json:"status"`
	StatusDisplay       string    `json:"status_display"`
	Notes               string    `json:"notes"`
	Farmer              string    `json:"farmer"`
	FarmerName          string    `json:"farmer_name"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func toCropView(c *entity.Crop) CropView {
	return CropView{
		ID:                  c.ID,
		Name:                c.Name,
		CropType:            string(c.Type),
		CropTypeDisplay:     c.Type.Display(),
		Quantity:            c.Quantity,
		Unit:                c.Unit,
		PlantingDate:        helpers.FormatDate(c.PlantingDate),
		ExpectedHarvestDate: helpers.FormatDate(c.ExpectedHarvestDate),
		Status:              string(c.Status),
		StatusDisplay:       c.Status.Display(),
		Notes:               c.Notes,
		Farmer:              c.FarmerID,
		FarmerName:          c.FarmerName,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}

func toCropViews(in []entity.Crop) []CropView {
	out := make([]CropView, 0, len(in))
	for i := range in {
		out = append(out, toCropView(&in[i]))
	}
	return out
}

// AccountView is the user returned by register and login. Farmers carry their profile.
type AccountView struct {
	UserView
	FarmerProfile *FarmerView `json:"farmer_profile,omitempty"`
}

type AuthView struct {
	User      AccountView `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

func toAuthView(res *application.AuthResult) AuthView {
	acc := AccountView{UserView: toUserView(res.User)}
	if res.Farmer != nil {
		fv := toFarmerView(res.Farmer)
		acc.FarmerProfile = &fv
	}
	return AuthView{User: acc, Token: res.Token, ExpiresAt: res.ExpiresAt}
}

type AdminDashboardView struct {
	TotalFarmers int            `json:"total_farmers"`
	TotalCrops   int            `json:"total_crops"`
	CropsByType  map[string]int `json:"crops_by_type"`
	RecentCrops  []CropView     `json:"recent_crops"`
}

type FarmerDashboardView struct {
	TotalCrops    int            `json:"total_crops"`
	CropsByType   map[string]int `json:"crops_by_type"`
	CropsByStatus map[string]int `json:"crops_by_status"`
	RecentCrops   []CropView     `json:"recent_crops"`
}

type FarmerCountView struct {
	FarmerID  string `json:"farmer_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Count     int    `json:"count"`
}

type MonthCountView struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type CropStatisticsView struct {
	CropsByFarmer []FarmerCountView `json:"crops_by_farmer"`
	CropsByMonth  []MonthCountView  `json:"crops_by_month"`
}

func nonNil(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return m
}
