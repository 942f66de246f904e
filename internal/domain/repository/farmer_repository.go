package repository

import (
	"context"

	"github.com/oksasatya/shamba-farm/internal/domain/entity"
)

// FarmerRepository persists farmer profiles. Reads embed the owning user
// and the profile's crop count.
type FarmerRepository interface {
	Create(ctx context.Context, f *entity.FarmerProfile) error
	GetByID(ctx context.Context, id string) (*entity.FarmerProfile, error)
	GetByUserID(ctx context.Context, userID string) (*entity.FarmerProfile, error)
	List(ctx context.Context) ([]entity.FarmerProfile, error)
	Update(ctx context.Context, f *entity.FarmerProfile) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
