package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/shamba-farm/internal/domain/entity"
	"github.com/oksasatya/shamba-farm/internal/domain/policy"
	"github.com/oksasatya/shamba-farm/internal/domain/repository"
)

const (
	adminRecentCrops  = 10
	farmerRecentCrops = 5
	topFarmersLimit   = 10
)

type AdminDashboard struct {
	TotalFarmers int
	TotalCrops   int
	CropsByType  map[string]int
	RecentCrops  []entity.Crop
}

type FarmerDashboard struct {
	TotalCrops    int
	CropsByType   map[string]int
	CropsByStatus map[string]int
	RecentCrops   []entity.Crop
}

type CropStatistics struct {
	CropsByFarmer []entity.FarmerCropCount
	CropsByMonth  []entity.MonthCount
}

// DashboardService computes read-only aggregates from current state on every call.
type DashboardService struct {
	Store  repository.Store
	Logger *logrus.Logger
}

func NewDashboardService(store repository.Store, logger *logrus.Logger) *DashboardService {
	return &DashboardService{Store: store, Logger: logger}
}

func (s *DashboardService) Admin(ctx context.Context, p policy.Principal) (*AdminDashboard, error) {
	if err := policy.RequireAdmin(p); err != nil {
		return nil, err
	}
	farmers, err := s.Store.Farmers().Count(ctx)
	if err != nil {
		return nil, err
	}
	crops := s.Store.Crops()
	total, err := crops.Count(ctx, "")
	if err != nil {
		return nil, err
	}
	byType, err := crops.CountByType(ctx, "")
	if err != nil {
		return nil, err
	}
	recent, err := crops.List(ctx, repository.CropFilter{Limit: adminRecentCrops})
	if err != nil {
		return nil, err
	}
	return &AdminDashboard{TotalFarmers: farmers, TotalCrops: total, CropsByType: byType, RecentCrops: recent}, nil
}

func (s *DashboardService) Farmer(ctx context.Context, p policy.Principal) (*FarmerDashboard, error) {
	if err := policy.RequireFarmer(p); err != nil {
		return nil, err
	}
	farmer, err := s.Store.Farmers().GetByUserID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	crops := s.Store.Crops()
	total, err := crops.Count(ctx, farmer.ID)
	if err != nil {
		return nil, err
	}
	byType, err := crops.CountByType(ctx, farmer.ID)
	if err != nil {
		return nil, err
	}
	byStatus, err := crops.CountByStatus(ctx, farmer.ID)
	if err != nil {
		return nil, err
	}
	recent, err := crops.List(ctx, repository.CropFilter{FarmerID: farmer.ID, Limit: farmerRecentCrops})
	if err != nil {
		return nil, err
	}
	return &FarmerDashboard{TotalCrops: total, CropsByType: byType, CropsByStatus: byStatus, RecentCrops: recent}, nil
}

func (s *DashboardService) CropStatistics(ctx context.Context, p policy.Principal) (*CropStatistics, error) {
	if err := policy.RequireAdmin(p); err != nil {
		return nil, err
	}
	top, err := s.Store.Crops().TopFarmers(ctx, topFarmersLimit)
	if err != nil {
		return nil, err
	}
	months, err := s.Store.Crops().CountByMonth(ctx)
	if err != nil {
		return nil, err
	}
	return &CropStatistics{CropsByFarmer: top, CropsByMonth: months}, nil
}
