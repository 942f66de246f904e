package application

import (
	"context"
	"errors"
	"testing"

	"github.com/oksasatya/shamba-farm/internal/domain/entity"
	"github.com/oksasatya/shamba-farm/internal/domain/policy"
	"github.com/oksasatya/shamba-farm/pkg/apperr"
)

func validFarmerInput(username string) FarmerCreateInput {
	return FarmerCreateInput{
		Username:  username,
		Email:     username + "@example.com",
		Password:  testPassword,
		FirstName: "Wanjiru",
		LastName:  "Mwangi",
		FarmName:  "Green Acres",
		FarmSize:  ptr(12.5),
		Location:  "Nakuru",
	}
}

func TestFarmerCreateByAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := f.farmers.Create(ctx, f.admin, validFarmerInput("wmwangi"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got.User == nil || got.User.Role != entity.RoleFarmer || got.FullName() != "Wanjiru Mwangi" {
		t.Fatalf("unexpected farmer %+v", got)
	}
	if got.FarmSize == nil || *got.FarmSize != 12.5 || got.FarmName != "Green Acres" {
		t.Fatalf("profile fields not stored: %+v", got)
	}

	_, err = f.farmers.Create(ctx, f.admin, validFarmerInput("wmwangi"))
	if apperr.Fields(err)["username"] == "" {
		t.Fatalf("duplicate username: expected username field error, got %v", err)
	}
	if n, _ := f.store.Farmers().Count(ctx); n != 1 {
		t.Fatalf("expected 1 farmer after rejected duplicate, got %d", n)
	}
}

func TestFarmerCreateValidation(t *testing.T) {
	f := newFixture(t)
	in := validFarmerInput("x")
	in.FirstName = ""
	in.Password = "short"
	in.FarmSize = ptr(0.0)

	_, err := f.farmers.Create(context.Background(), f.admin, in)
	fields := apperr.Fields(err)
	for _, k := range []string{"first_name", "password", "farm_size"} {
		if fields[k] == "" {
			t.Errorf("expected error on %s, got %v", k, fields)
		}
	}
}

func TestFarmerManagementIsAdminOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	farmer, profile := f.register(t, "jkamau")

	if _, err := f.farmers.List(ctx, farmer); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("list: got %v", err)
	}
	if _, err := f.farmers.Get(ctx, farmer, profile.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("get: got %v", err)
	}
	if err := f.farmers.Delete(ctx, farmer, profile.ID, ClientInfo{}); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("delete: got %v", err)
	}
	if _, err := f.farmers.List(ctx, policy.Principal{}); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("anonymous list: got %v", err)
	}
	if _, err := f.farmers.Get(ctx, f.admin, "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("missing: got %v", err)
	}
}

func TestFarmerDeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	farmer, profile := f.register(t, "jkamau")
	f.crop(t, farmer, "Maize", entity.CropCereals)

	if err := f.farmers.Delete(ctx, f.admin, profile.ID, ClientInfo{IP: "10.0.0.9"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.store.Users().GetByID(ctx, farmer.UserID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("user should be gone, got %v", err)
	}
	if n, _ := f.store.Crops().Count(ctx, ""); n != 0 {
		t.Fatalf("crops should cascade, got %d", n)
	}
	if _, err := f.sessions.Get(ctx, farmer.UserID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("session should be dropped, got %v", err)
	}
	logs := f.store.AuditLogs()
	if last := logs[len(logs)-1]; last.Action != entity.AuditFarmerDelete || last.UserID != f.admin.UserID {
		t.Fatalf("unexpected audit entry %+v", last)
	}
}

func TestFarmerUpdateIsAllOrNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	farmer, profile := f.register(t, "jkamau")

	_, err := f.profiles.UpdateFarmerProfile(ctx, farmer, FarmerUpdateInput{
		UserUpdateInput: UserUpdateInput{FirstName: ptr("Changed"), Email: ptr("broken")},
		FarmSize:        ptr(-3.0),
	})
	fields := apperr.Fields(err)
	if fields["email"] == "" || fields["farm_size"] == "" {
		t.Fatalf("expected both errors collected, got %v", err)
	}
	if u := mustUser(t, f, farmer.UserID); u.FirstName != "First" {
		t.Fatalf("user must be untouched after a rejected update, got %q", u.FirstName)
	}

	got, err := f.profiles.UpdateFarmerProfile(ctx, farmer, FarmerUpdateInput{
		UserUpdateInput: UserUpdateInput{FirstName: ptr("Joseph"), Phone: ptr("+254700000000")},
		FarmName:        ptr("Kamau Farm"),
		FarmSize:        ptr(3.25),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.ID != profile.ID || got.FarmName != "Kamau Farm" || *got.FarmSize != 3.25 {
		t.Fatalf("profile not updated: %+v", got)
	}
	if got.User.FirstName != "Joseph" || got.User.Phone != "+254700000000" || got.User.LastName != "jkamau" {
		t.Fatalf("user not merged: %+v", got.User)
	}
	if got.User.Role != entity.RoleFarmer {
		t.Fatal("role must not change")
	}
}

func TestAdminFarmerUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, profile := f.register(t, "jkamau")

	got, err := f.farmers.Update(ctx, f.admin, profile.ID, FarmerUpdateInput{Location: ptr("Eldoret")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Location != "Eldoret" {
		t.Fatalf("location not updated: %+v", got)
	}
}

func TestProfileSelfService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	farmer, _ := f.register(t, "jkamau")

	me, err := f.profiles.UpdateMe(ctx, f.admin, UserUpdateInput{LastName: ptr("Root"), Email: ptr("")})
	if err != nil {
		t.Fatalf("admin update me: %v", err)
	}
	if me.LastName != "Root" || me.Email != "" || me.Role != entity.RoleAdmin {
		t.Fatalf("unexpected admin record %+v", me)
	}

	if _, err := f.profiles.GetFarmerProfile(ctx, f.admin); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("admin farmer profile: got %v", err)
	}
	fp, err := f.profiles.GetFarmerProfile(ctx, farmer)
	if err != nil || fp.UserID != farmer.UserID {
		t.Fatalf("farmer profile: %+v %v", fp, err)
	}
	u, err := f.profiles.GetMe(ctx, farmer)
	if err != nil || u.Username != "jkamau" {
		t.Fatalf("get me: %+v %v", u, err)
	}
}

func TestFarmSizeMustFitTwoDecimals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	farmer, _ := f.register(t, "jkamau")

	for _, size := range []float64{0, 0.001, 0.004, 1.239, 1e12} {
		_, err := f.profiles.UpdateFarmerProfile(ctx, farmer, FarmerUpdateInput{FarmSize: ptr(size)})
		if apperr.Fields(err)["farm_size"] == "" {
			t.Fatalf("farm_size %v: expected farm_size error, got %v", size, err)
		}
	}

	in := validFarmerInput("wmwangi")
	in.FarmSize = ptr(1e12)
	if _, err := f.farmers.Create(ctx, f.admin, in); apperr.Fields(err)["farm_size"] == "" {
		t.Fatalf("admin create: expected farm_size error, got %v", err)
	}
}

func TestFarmerUpdateDoesNotRevertConcurrentChanges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, profile := f.register(t, "jkamau")

	stale, err := f.store.Farmers().GetByID(ctx, profile.ID)
	if err != nil {
		t.Fatalf("load farmer: %v", err)
	}
	u := mustUser(t, f, stale.UserID)
	u.Phone = "+254711111111"
	if err := f.store.Users().Update(ctx, u); err != nil {
		t.Fatalf("concurrent phone change: %v", err)
	}

	got, err := updateFarmer(ctx, f.store, stale, FarmerUpdateInput{FarmName: ptr("Kamau Farm")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.FarmName != "Kamau Farm" {
		t.Fatalf("farm name not updated: %+v", got)
	}
	if got.User.Phone != "+254711111111" {
		t.Fatalf("stale read overwrote phone: %q", got.User.Phone)
	}
}
