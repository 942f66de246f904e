package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oksasatya/shamba-farm/internal/domain/entity"
	"github.com/oksasatya/shamba-farm/internal/domain/repository"
	"github.com/oksasatya/shamba-farm/pkg/apperr"
)

func seedFarmer(t *testing.T, s *Store, username string) (*entity.User, *entity.FarmerProfile) {
	t.Helper()
	ctx := context.Background()
	u := &entity.User{Username: username, FirstName: "F", LastName: username, Role: entity.RoleFarmer, IsActive: true}
	if err := s.Users().Create(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	f := &entity.FarmerProfile{UserID: u.ID}
	if err := s.Farmers().Create(ctx, f); err != nil {
		t.Fatalf("create farmer: %v", err)
	}
	return u, f
}

func TestUserCreateDuplicateUsername(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	if err := s.Users().Create(ctx, &entity.User{Username: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Users().Create(ctx, &entity.User{Username: "a"}); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestWithinTxRollsBack(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(tx repository.Store) error {
		u := &entity.User{Username: "ghost"}
		if err := tx.Users().Create(ctx, u); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := s.Users().GetByUsername(ctx, "ghost"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected rollback, got %v", err)
	}
}

func TestWithinTxRollsBackOnCancelledContext(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.WithinTx(ctx, func(tx repository.Store) error {
		return tx.Users().Create(context.Background(), &entity.User{Username: "late"})
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := s.Users().GetByUsername(context.Background(), "late"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("cancelled tx leaked a write: %v", err)
	}
}

func TestUserDeleteCascades(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	u, f := seedFarmer(t, s, "jk")
	if err := s.Crops().Create(ctx, &entity.Crop{FarmerID: f.ID, Name: "Maize", Type: entity.CropCereals, Status: entity.StatusPlanted}); err != nil {
		t.Fatal(err)
	}
	if err := s.Users().Delete(ctx, u.ID); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.Farmers().Count(ctx); n != 0 {
		t.Fatalf("expected no farmers, got %d", n)
	}
	if n, _ := s.Crops().Count(ctx, ""); n != 0 {
		t.Fatalf("expected no crops, got %d", n)
	}
}

func TestCropReadsResolveOwner(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	u, f := seedFarmer(t, s, "jk")
	c := &entity.Crop{FarmerID: f.ID, Name: "Beans", Type: entity.CropLegumes, Status: entity.StatusGrowing}
	if err := s.Crops().Create(ctx, c); err != nil {
		t.Fatal(err)
	}
	got, err := s.Crops().GetByID(ctx, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.FarmerUserID != u.ID || got.FarmerName != "F jk" {
		t.Fatalf("unexpected owner fields %+v", got)
	}
	fp, _ := s.Farmers().GetByID(ctx, f.ID)
	if fp.CropsCount != 1 || fp.User == nil || fp.User.Username != "jk" {
		t.Fatalf("unexpected farmer read %+v", fp)
	}
}

func TestCropListFiltersAndOrder(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	_, f1 := seedFarmer(t, s, "a")
	_, f2 := seedFarmer(t, s, "b")

	base := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	for i, spec := range []struct {
		farmer string
		typ    entity.CropType
	}{{f1.ID, entity.CropCereals}, {f1.ID, entity.CropFruits}, {f2.ID, entity.CropCereals}} {
		at := base.AddDate(0, i, 0)
		s.Now = func() time.Time { return at }
		if err := s.Crops().Create(ctx, &entity.Crop{FarmerID: spec.farmer, Name: "x", Type: spec.typ, Status: entity.StatusPlanted}); err != nil {
			t.Fatal(err)
		}
	}

	all, _ := s.Crops().List(ctx, repository.CropFilter{})
	if len(all) != 3 || !all[0].CreatedAt.After(all[1].CreatedAt) {
		t.Fatalf("expected newest first, got %+v", all)
	}
	cereals, _ := s.Crops().List(ctx, repository.CropFilter{Type: entity.CropCereals})
	if len(cereals) != 2 {
		t.Fatalf("expected 2 cereals, got %d", len(cereals))
	}
	mine, _ := s.Crops().List(ctx, repository.CropFilter{FarmerID: f1.ID, Limit: 1})
	if len(mine) != 1 || mine[0].Type != entity.CropFruits {
		t.Fatalf("unexpected limited list %+v", mine)
	}

	months, _ := s.Crops().CountByMonth(ctx)
	if len(months) != 3 || months[0].Month != "2024-01" || months[2].Month != "2024-03" {
		t.Fatalf("unexpected months %+v", months)
	}
	top, _ := s.Crops().TopFarmers(ctx, 10)
	if len(top) != 2 || top[0].FarmerID != f1.ID || top[0].Count != 2 {
		t.Fatalf("unexpected top farmers %+v", top)
	}
	byType, _ := s.Crops().CountByType(ctx, f1.ID)
	if byType["cereals"] != 1 || byType["fruits"] != 1 {
		t.Fatalf("unexpected by type %+v", byType)
	}
}

func TestSessionRepositoryExpiry(t *testing.T) {
	r := NewSessionRepository()
	now := time.Now()
	r.Now = func() time.Time { return now }
	ctx := context.Background()
	_ = r.Save(ctx, &entity.Session{UserID: "u", SessionID: "s", ExpiresAt: now.Add(time.Minute)})
	if _, err := r.Get(ctx, "u"); err != nil {
		t.Fatalf("expected live session, got %v", err)
	}
	r.Now = func() time.Time { return now.Add(2 * time.Minute) }
	if _, err := r.Get(ctx, "u"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected expired session, got %v", err)
	}
	if err := r.Delete(ctx, "missing"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}
