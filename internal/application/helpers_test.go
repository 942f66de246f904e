package application

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/shamba-farm/internal/domain/entity"
	"github.com/oksasatya/shamba-farm/internal/domain/policy"
	"github.com/oksasatya/shamba-farm/internal/infrastructure/memory"
	"github.com/oksasatya/shamba-farm/pkg/helpers"
)

const testPassword = "Harvest-Season-42"

type fixture struct {
	store     *memory.Store
	sessions  *memory.SessionRepository
	jwt       *helpers.JWTManager
	auth      *AuthService
	farmers   *FarmerService
	profiles  *ProfileService
	crops     *CropService
	dashboard *DashboardService
	admin     policy.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := memory.NewStore()
	sessions := memory.NewSessionRepository()
	jwt := helpers.NewJWTManager("test-secret", time.Hour, "shamba-test")

	f := &fixture{
		store:     store,
		sessions:  sessions,
		jwt:       jwt,
		auth:      NewAuthService(store, sessions, jwt, logger),
		farmers:   NewFarmerService(store, sessions, logger),
		profiles:  NewProfileService(store, logger),
		crops:     NewCropService(store, logger),
		dashboard: NewDashboardService(store, logger),
	}

	hash, err := helpers.HashPasswordCost(testPassword, 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	admin := &entity.User{Username: "admin", Email: "admin@example.com", Password: hash, Role: entity.RoleAdmin, IsActive: true}
	if err := store.Users().Create(context.Background(), admin); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	f.admin = policy.Principal{UserID: admin.ID, Username: admin.Username, Role: entity.RoleAdmin}
	return f
}

// register signs up a farmer and returns its principal and profile.
func (f *fixture) register(t *testing.T, username string) (policy.Principal, *entity.FarmerProfile) {
	t.Helper()
	res, err := f.auth.Register(context.Background(), RegisterInput{
		Username:        username,
		Email:           username + "@example.com",
		Password:        testPassword,
		ConfirmPassword: testPassword,
		FirstName:       "First",
		LastName:        username,
	}, ClientInfo{})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return policy.Principal{UserID: res.User.ID, Username: username, Role: entity.RoleFarmer}, res.Farmer
}

func (f *fixture) crop(t *testing.T, p policy.Principal, name string, typ entity.CropType) *entity.Crop {
	t.Helper()
	qty := 10.0
	c, err := f.crops.Create(context.Background(), p, CropInput{Name: name, CropType: string(typ), Quantity: &qty})
	if err != nil {
		t.Fatalf("create crop %s: %v", name, err)
	}
	return c
}

func ptr[T any](v T) *T { return &v }
