package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/shamba-farm/internal/domain/entity"
	"github.com/oksasatya/shamba-farm/internal/domain/policy"
	"github.com/oksasatya/shamba-farm/internal/domain/repository"
	"github.com/oksasatya/shamba-farm/pkg/apperr"
)

// ProfileService is the caller's own user record and farmer profile.
type ProfileService struct {
	Store  repository.Store
	Logger *logrus.Logger
}

func NewProfileService(store repository.Store, logger *logrus.Logger) *ProfileService {
	return &ProfileService{Store: store, Logger: logger}
}

func (s *ProfileService) GetMe(ctx context.Context, p policy.Principal) (*entity.User, error) {
	if err := policy.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	return s.Store.Users().GetByID(ctx, p.UserID)
}

func (s *ProfileService) UpdateMe(ctx context.Context, p policy.Principal, in UserUpdateInput) (*entity.User, error) {
	if err := policy.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	fields := map[string]string{}
	if err := mergeFields(fields, validate(in)); err != nil {
		return nil, err
	}
	if err := mergeFields(fields, checkEmail(in.Email)); err != nil {
		return nil, err
	}
	if err := apperr.Validation(fields); err != nil {
		return nil, err
	}

	u, err := s.Store.Users().GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	applyUserUpdate(u, in)
	if err := s.Store.Users().Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *ProfileService) GetFarmerProfile(ctx context.Context, p policy.Principal) (*entity.FarmerProfile, error) {
	if err := policy.RequireFarmer(p); err != nil {
		return nil, err
	}
	return s.Store.Farmers().GetByUserID(ctx, p.UserID)
}

func (s *ProfileService) UpdateFarmerProfile(ctx context.Context, p policy.Principal, in FarmerUpdateInput) (*entity.FarmerProfile, error) {
	if err := policy.RequireFarmer(p); err != nil {
		return nil, err
	}
	f, err := s.Store.Farmers().GetByUserID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeFarmer(p, f); err != nil {
		return nil, err
	}
	return updateFarmer(ctx, s.Store, f, in)
}
