package repository

import (
	"context"

	"github.com/oksasatya/shamba-farm/internal/domain/entity"
)

// CropFilter narrows crop reads. Zero fields do not filter; Limit <= 0 means no limit.
type CropFilter struct {
	FarmerID string
	Type     entity.CropType
	Status   entity.CropStatus
	Limit    int
}

// CropRepository persists crops. Reads resolve FarmerUserID and FarmerName
// and are ordered newest-created first.
type CropRepository interface {
	Create(ctx context.Context, c *entity.Crop) error
	GetByID(ctx context.Context, id string) (*entity.Crop, error)
	List(ctx context.Context, f CropFilter) ([]entity.Crop, error)
	Update(ctx context.Context, c *entity.Crop) error
	Delete(ctx context.Context, id string) error

	// Aggregates. An empty farmerID covers every farmer.
	Count(ctx context.Context, farmerID string) (int, error)
	CountByType(ctx context.Context, farmerID string) (map[string]int, error)
	CountByStatus(ctx context.Context, farmerID string) (map[string]int, error)
	TopFarmers(ctx context.Context, limit int) ([]entity.FarmerCropCount, error)
	CountByMonth(ctx context.Context) ([]entity.MonthCount, error)
}
