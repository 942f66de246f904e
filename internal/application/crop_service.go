package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/shamba-farm/internal/domain/entity"
	"github.com/oksasatya/shamba-farm/internal/domain/policy"
	"github.com/oksasatya/shamba-farm/internal/domain/repository"
	"github.com/oksasatya/shamba-farm/pkg/apperr"
	"github.com/oksasatya/shamba-farm/pkg/helpers"
)

// CropInput is the full crop payload for create and PUT. FarmerID is read
// only on create by an admin.
type CropInput struct {
	FarmerID            string   `json:"farmer_id"`
	Name                string   `json:"name" binding:"required,notblank,max=100"`
	CropType            string   `json:"crop_type" binding:"required,croptype"`
	Quantity            *float64 `json:"quantity" binding:"required,decimal2"`
	Unit                string   `json:"unit" binding:"omitempty,max=20"`
	PlantingDate        string   `json:"planting_date" binding:"omitempty,date"`
	ExpectedHarvestDate string   `json:"expected_harvest_date" binding:"omitempty,date"`
	Status              string   `json:"status" binding:"omitempty,cropstatus"`
	Notes               string   `json:"notes"`
}

// CropPatch is a partial crop update. An empty date string clears the date.
type CropPatch struct {
	Name                *string  `json:"name" binding:"omitempty,notblank,max=100"`
	CropType            *string  `json:"crop_type" binding:"omitempty,croptype"`
	Quantity            *float64 `json:"quantity" binding:"omitempty,decimal2"`
	Unit                *string  `json:"unit" binding:"omitempty,notblank,max=20"`
	PlantingDate        *string  `json:"planting_date" binding:"omitempty,date"`
	ExpectedHarvestDate *string  `json:"expected_harvest_date" binding:"omitempty,date"`
	Status              *string  `json:"status" binding:"omitempty,cropstatus"`
	Notes               *string  `json:"notes"`
}

// CropListFilter holds the exact-match query filters of the crop list.
type CropListFilter struct {
	CropType string
	Status   string
}

type CropService struct {
	Store  repository.Store
	Logger *logrus.Logger
}

func NewCropService(store repository.Store, logger *logrus.Logger) *CropService {
	return &CropService{Store: store, Logger: logger}
}

// List returns every crop to admins and only the caller's crops to farmers.
func (s *CropService) List(ctx context.Context, p policy.Principal, f CropListFilter) ([]entity.Crop, error) {
	if err := policy.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	filter := repository.CropFilter{
		Type:   entity.CropType(strings.TrimSpace(f.CropType)),
		Status: entity.CropStatus(strings.TrimSpace(f.Status)),
	}
	if !policy.IsAdmin(p) {
		farmer, err := s.Store.Farmers().GetByUserID(ctx, p.UserID)
		if err != nil {
			return nil, err
		}
		filter.FarmerID = farmer.ID
	}
	return s.Store.Crops().List(ctx, filter)
}

// Create adds a crop for the calling farmer, or for in.FarmerID when the caller is an admin.
func (s *CropService) Create(ctx context.Context, p policy.Principal, in CropInput) (*entity.Crop, error) {
	if err := policy.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	var (
		farmer *entity.FarmerProfile
		err    error
	)
	if policy.IsFarmer(p) {
		farmer, err = s.Store.Farmers().GetByUserID(ctx, p.UserID)
	} else {
		if strings.TrimSpace(in.FarmerID) == "" {
			return nil, apperr.Field("farmer_id", "farmer_id is required for admin")
		}
		farmer, err = s.Store.Farmers().GetByID(ctx, strings.TrimSpace(in.FarmerID))
	}
	if err != nil {
		return nil, err
	}

	c := &entity.Crop{FarmerID: farmer.ID}
	if err := applyCropInput(c, in); err != nil {
		return nil, err
	}
	if err := s.Store.Crops().Create(ctx, c); err != nil {
		return nil, err
	}
	return s.Store.Crops().GetByID(ctx, c.ID)
}

func (s *CropService) Get(ctx context.Context, p policy.Principal, id string) (*entity.Crop, error) {
	return s.authorized(ctx, p, id)
}

// Update replaces every writable field of the crop.
func (s *CropService) Update(ctx context.Context, p policy.Principal, id string, in CropInput) (*entity.Crop, error) {
	c, err := s.authorized(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := applyCropInput(c, in); err != nil {
		return nil, err
	}
	return s.save(ctx, c)
}

func (s *CropService) Patch(ctx context.Context, p policy.Principal, id string, in CropPatch) (*entity.Crop, error) {
	c, err := s.authorized(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := validate(in); err != nil {
		return nil, err
	}
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.CropType != nil {
		c.Type = entity.CropType(*in.CropType)
	}
	if in.Quantity != nil {
		c.Quantity = *in.Quantity
	}
	if in.Unit != nil {
		c.Unit = strings.TrimSpace(*in.Unit)
	}
	if in.PlantingDate != nil {
		c.PlantingDate, _ = helpers.ParseDate(*in.PlantingDate)
	}
	if in.ExpectedHarvestDate != nil {
		c.ExpectedHarvestDate, _ = helpers.ParseDate(*in.ExpectedHarvestDate)
	}
	if in.Status != nil {
		c.Status = entity.CropStatus(*in.Status)
	}
	if in.Notes != nil {
		c.Notes = *in.Notes
	}
	return s.save(ctx, c)
}

func (s *CropService) Delete(ctx context.Context, p policy.Principal, id string) error {
	c, err := s.authorized(ctx, p, id)
	if err != nil {
		return err
	}
	return s.Store.Crops().Delete(ctx, c.ID)
}

// authorized loads the crop and checks the caller may act on it.
func (s *CropService) authorized(ctx context.Context, p policy.Principal, id string) (*entity.Crop, error) {
	if err := policy.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	c, err := s.Store.Crops().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeCrop(p, c); err != nil {
		if errors.Is(err, apperr.ErrForbidden) {
			helpers.LogInfo(s.Logger, "crop access denied", logrus.Fields{"user_id": p.UserID, "crop_id": id})
		}
		return nil, err
	}
	return c, nil
}

func (s *CropService) save(ctx context.Context, c *entity.Crop) (*entity.Crop, error) {
	if err := s.Store.Crops().Update(ctx, c); err != nil {
		return nil, err
	}
	return s.Store.Crops().GetByID(ctx, c.ID)
}

// applyCropInput validates in and copies it onto c, filling the unit and status defaults.
func applyCropInput(c *entity.Crop, in CropInput) error {
	if err := validate(in); err != nil {
		return err
	}
	planted, _ := helpers.ParseDate(in.PlantingDate)
	harvest, _ := helpers.ParseDate(in.ExpectedHarvestDate)

	c.Name = strings.TrimSpace(in.Name)
	c.Type = entity.CropType(in.CropType)
	c.Quantity = *in.Quantity
	c.Unit = strings.TrimSpace(in.Unit)
	if c.Unit == "" {
		c.Unit = entity.DefaultCropUnit
	}
	c.PlantingDate = planted
	c.ExpectedHarvestDate = harvest
	c.Status = entity.CropStatus(in.Status)
	if c.Status == "" {
		c.Status = entity.StatusPlanted
	}
	c.Notes = in.Notes
	return nil
}
