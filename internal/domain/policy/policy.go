// Package policy holds the capability checks evaluated before every
// role-gated or object-level operation.
package policy

import (
	"github.com/oksasatya/shamba-farm/internal/domain/entity"
	"github.com/oksasatya/shamba-farm/pkg/apperr"
)

// Principal is the authenticated caller, passed explicitly into services.
// The zero value is anonymous.
type Principal struct {
	UserID   string
	Username string
	Role     entity.Role
}

func (p Principal) Authenticated() bool { return p.UserID != "" && p.Role.Valid() }

// Owned is implemented by resources that resolve to a single owning user.
type Owned interface {
	OwnerUserID() string
}

var (
	_ Owned = (*entity.FarmerProfile)(nil)
	_ Owned = (*entity.Crop)(nil)
)

func IsAdmin(p Principal) bool  { return p.Authenticated() && p.Role == entity.RoleAdmin }
func IsFarmer(p Principal) bool { return p.Authenticated() && p.Role == entity.RoleFarmer }

// IsOwnerOrAdmin grants admins everything and owners their own resources.
func IsOwnerOrAdmin[T Owned](p Principal, obj T) bool {
	if !p.Authenticated() {
		return false
	}
	if p.Role == entity.RoleAdmin {
		return true
	}
	owner := obj.OwnerUserID()
	return owner != "" && owner == p.UserID
}

// IsCropOwnerOrAdmin is IsOwnerOrAdmin fixed to crops.
func IsCropOwnerOrAdmin(p Principal, c *entity.Crop) bool {
	return IsOwnerOrAdmin(p, c)
}

func RequireAuthenticated(p Principal) error {
	if !p.Authenticated() {
		return apperr.ErrUnauthorized
	}
	return nil
}

func RequireAdmin(p Principal) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if !IsAdmin(p) {
		return apperr.ErrForbidden
	}
	return nil
}

func RequireFarmer(p Principal) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if !IsFarmer(p) {
		return apperr.ErrForbidden
	}
	return nil
}

// RequireRole passes when the caller holds any of roles.
func RequireRole(p Principal, roles ...entity.Role) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	for _, r := range roles {
		if p.Role == r {
			return nil
		}
	}
	return apperr.ErrForbidden
}

func AuthorizeCrop(p Principal, c *entity.Crop) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if !IsCropOwnerOrAdmin(p, c) {
		return apperr.ErrForbidden
	}
	return nil
}

func AuthorizeFarmer(p Principal, f *entity.FarmerProfile) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if !IsOwnerOrAdmin(p, f) {
		return apperr.ErrForbidden
	}
	return nil
}
