package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/shamba-farm/internal/domain/entity"
	"github.com/oksasatya/shamba-farm/internal/domain/policy"
	"github.com/oksasatya/shamba-farm/internal/domain/repository"
	"github.com/oksasatya/shamba-farm/pkg/apperr"
	"github.com/oksasatya/shamba-farm/pkg/helpers"
	"github.com/oksasatya/shamba-farm/pkg/validation"
)

// FarmerCreateInput is the admin payload for a new farmer account and profile.
type FarmerCreateInput struct {
	Username        string   `json:"username" binding:"required,notblank,max=150,username"`
	Email           string   `json:"email" binding:"required,email,max=254"`
	Password        string   `json:"password" binding:"required"`
	ConfirmPassword string   `json:"confirm_password"`
	FirstName       string   `json:"first_name" binding:"required,notblank,max=150"`
	LastName        string   `json:"last_name" binding:"required,notblank,max=150"`
	Phone           string   `json:"phone" binding:"max=15"`
	Address         string   `json:"address"`
	FarmName        string   `json:"farm_name" binding:"max=200"`
	FarmSize        *float64 `json:"farm_size" binding:"omitempty,decimal2"`
	Location        string   `json:"location" binding:"max=200"`
}

// UserUpdateInput is a partial update of a user's contact fields. Nil fields are left unchanged.
type UserUpdateInput struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name" binding:"omitempty,max=150"`
	Email     *string `json:"email" binding:"omitempty,max=254"`
	Phone     *string `json:"phone" binding:"omitempty,max=15"`
	Address   *string `json:"address"`
}

// FarmerUpdateInput is a partial update of a farmer's user and profile fields.
type FarmerUpdateInput struct {
	UserUpdateInput
	FarmName *string  `json:"farm_name" binding:"omitempty,max=200"`
	FarmSize *float64 `json:"farm_size" binding:"omitempty,decimal2"`
	Location *string  `json:"location" binding:"omitempty,max=200"`
}

type FarmerService struct {
	Store    repository.Store
	Sessions repository.SessionRepository
	Logger   *logrus.Logger
}

func NewFarmerService(store repository.Store, sessions repository.SessionRepository, logger *logrus.Logger) *FarmerService {
	return &FarmerService{Store: store, Sessions: sessions, Logger: logger}
}

func (s *FarmerService) List(ctx context.Context, p policy.Principal) ([]entity.FarmerProfile, error) {
	if err := policy.RequireAdmin(p); err != nil {
		return nil, err
	}
	return s.Store.Farmers().List(ctx)
}

// Create adds a farmer user and a populated profile in one transaction.
func (s *FarmerService) Create(ctx context.Context, p policy.Principal, in FarmerCreateInput) (*entity.FarmerProfile, error) {
	if err := policy.RequireAdmin(p); err != nil {
		return nil, err
	}
	in.Username = strings.TrimSpace(in.Username)
	fields := map[string]string{}
	if err := mergeFields(fields, validate(in)); err != nil {
		return nil, err
	}
	if _, bad := fields["password"]; !bad {
		if err := mergeFields(fields, checkNewPassword(in.Username, in.Password, in.ConfirmPassword, false)); err != nil {
			return nil, err
		}
	}
	if err := apperr.Validation(fields); err != nil {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{
		Username:  in.Username,
		Email:     strings.TrimSpace(in.Email),
		Password:  hash,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Phone:     strings.TrimSpace(in.Phone),
		Address:   in.Address,
		Role:      entity.RoleFarmer,
		IsActive:  true,
	}
	f := &entity.FarmerProfile{
		FarmName: strings.TrimSpace(in.FarmName),
		FarmSize: in.FarmSize,
		Location: strings.TrimSpace(in.Location),
	}
	err = s.Store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.Users().Create(ctx, u); err != nil {
			if errors.Is(err, apperr.ErrConflict) {
				return apperr.Field("username", "a user with that username already exists")
			}
			return err
		}
		f.UserID = u.ID
		return tx.Farmers().Create(ctx, f)
	})
	if err != nil {
		return nil, err
	}
	return s.Store.Farmers().GetByID(ctx, f.ID)
}

func (s *FarmerService) Get(ctx context.Context, p policy.Principal, id string) (*entity.FarmerProfile, error) {
	if err := policy.RequireAdmin(p); err != nil {
		return nil, err
	}
	return s.Store.Farmers().GetByID(ctx, id)
}

func (s *FarmerService) Update(ctx context.Context, p policy.Principal, id string, in FarmerUpdateInput) (*entity.FarmerProfile, error) {
	if err := policy.RequireAdmin(p); err != nil {
		return nil, err
	}
	f, err := s.Store.Farmers().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return updateFarmer(ctx, s.Store, f, in)
}

// Delete removes the profile and then its user in one transaction and ends the user's session.
func (s *FarmerService) Delete(ctx context.Context, p policy.Principal, id string, client ClientInfo) error {
	if err := policy.RequireAdmin(p); err != nil {
		return err
	}
	var removed *entity.FarmerProfile
	err := s.Store.WithinTx(ctx, func(tx repository.Store) error {
		f, err := tx.Farmers().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.Farmers().Delete(ctx, f.ID); err != nil {
			return err
		}
		if err := tx.Users().Delete(ctx, f.UserID); err != nil {
			return err
		}
		removed = f
		return nil
	})
	if err != nil {
		return err
	}

	if s.Sessions != nil {
		if err := s.Sessions.Delete(ctx, removed.UserID); err != nil {
			helpers.LogError(s.Logger, "drop session of deleted farmer failed", err, logrus.Fields{"user_id": removed.UserID})
		}
	}
	username := ""
	if removed.User != nil {
		username = removed.User.Username
	}
	recordAudit(ctx, s.Store.Audit(), s.Logger, &entity.AuditLog{
		UserID: p.UserID, Username: p.Username, Action: entity.AuditFarmerDelete,
		IP: client.IP, UserAgent: client.UserAgent,
		Metadata: map[string]any{"farmer_id": removed.ID, "farmer_user_id": removed.UserID, "farmer_username": username},
	})
	return nil
}

// updateFarmer validates every field first and then writes the user and the
// profile in one transaction, so either both change or neither does.
func updateFarmer(ctx context.Context, store repository.Store, f *entity.FarmerProfile, in FarmerUpdateInput) (*entity.FarmerProfile, error) {
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
	err := store.WithinTx(ctx, func(tx repository.Store) error {
		// Patch the rows as they are now; f may be stale by the time we write.
		fresh, err := tx.Farmers().GetByID(ctx, f.ID)
		if err != nil {
			return err
		}
		if fresh.User == nil {
			return fmt.Errorf("farmer %s has no user: %w", f.ID, apperr.ErrNotFound)
		}
		u := *fresh.User
		applyUserUpdate(&u, in.UserUpdateInput)
		profile := *fresh
		if in.FarmName != nil {
			profile.FarmName = strings.TrimSpace(*in.FarmName)
		}
		if in.FarmSize != nil {
			size := *in.FarmSize
			profile.FarmSize = &size
		}
		if in.Location != nil {
			profile.Location = strings.TrimSpace(*in.Location)
		}
		if err := tx.Users().Update(ctx, &u); err != nil {
			return err
		}
		return tx.Farmers().Update(ctx, &profile)
	})
	if err != nil {
		return nil, err
	}
	return store.Farmers().GetByID(ctx, f.ID)
}

func applyUserUpdate(u *entity.User, in UserUpdateInput) {
	if in.FirstName != nil {
		u.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		u.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Email != nil {
		u.Email = strings.TrimSpace(*in.Email)
	}
	if in.Phone != nil {
		u.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		u.Address = *in.Address
	}
}

// checkEmail accepts a blank email, which clears it.
func checkEmail(email *string) error {
	if email == nil || strings.TrimSpace(*email) == "" {
		return nil
	}
	if err := validation.Var(strings.TrimSpace(*email), "email"); err != nil {
		return apperr.Field("email", "enter a valid email address")
	}
	return nil
}
