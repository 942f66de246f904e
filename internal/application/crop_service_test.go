package application

import (
	"context"
	"errors"
	"testing"

	"github.com/oksasatya/shamba-farm/internal/domain/entity"
	"github.com/oksasatya/shamba-farm/pkg/apperr"
	"github.com/oksasatya/shamba-farm/pkg/helpers"
)

func TestCropRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	farmer, profile := f.register(t, "jkamau")

	in := CropInput{
		Name:                "Hass Avocado",
		CropType:            "fruits",
		Quantity:            ptr(120.5),
		Unit:                "crates",
		PlantingDate:        "2024-03-01",
		ExpectedHarvestDate: "2024-11-15",
		Status:              "growing",
		Notes:               "east block",
	}
	created, err := f.crops.Create(ctx, farmer, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := f.crops.Get(ctx, farmer, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != in.Name || string(got.Type) != in.CropType || got.Quantity != *in.Quantity ||
		got.Unit != in.Unit || string(got.Status) != in.Status || got.Notes != in.Notes {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if *helpers.FormatDate(got.PlantingDate) != in.PlantingDate || *helpers.FormatDate(got.ExpectedHarvestDate) != in.ExpectedHarvestDate {
		t.Fatalf("dates mismatch: %v %v", got.PlantingDate, got.ExpectedHarvestDate)
	}
	if got.FarmerID != profile.ID || got.FarmerName != "First jkamau" {
		t.Fatalf("owner mismatch: %+v", got)
	}
}

func TestCropDefaults(t *testing.T) {
	f := newFixture(t)
	farmer, _ := f.register(t, "jkamau")
	c := f.crop(t, farmer, "Maize", entity.CropCereals)
	if c.Unit != entity.DefaultCropUnit || c.Status != entity.StatusPlanted || c.PlantingDate != nil {
		t.Fatalf("unexpected defaults %+v", c)
	}
}

func TestCropNonPositiveQuantityRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	farmer, _ := f.register(t, "jkamau")

	for _, q := range []float64{0, -1, -0.01, 0.001, 0.004, 1.239, 1e8, 1e12} {
		_, err := f.crops.Create(ctx, farmer, CropInput{Name: "Beans", CropType: "legumes", Quantity: ptr(q)})
		if apperr.Fields(err)["quantity"] == "" {
			t.Fatalf("quantity %v: expected quantity error, got %v", q, err)
		}
	}
	if _, err := f.crops.Create(ctx, farmer, CropInput{Name: "Beans", CropType: "legumes"}); apperr.Fields(err)["quantity"] == "" {
		t.Fatalf("missing quantity: got %v", err)
	}
	if n, _ := f.store.Crops().Count(ctx, ""); n != 0 {
		t.Fatalf("no crop may be persisted, got %d", n)
	}
}

func TestAdminCropCreateRequiresFarmerID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, profile := f.register(t, "jkamau")

	_, err := f.crops.Create(ctx, f.admin, CropInput{Name: "Tea", CropType: "cash_crops", Quantity: ptr(5.0)})
	if apperr.Fields(err)["farmer_id"] != "farmer_id is required for admin" {
		t.Fatalf("expected farmer_id error, got %v", err)
	}
	if n, _ := f.store.Crops().Count(ctx, ""); n != 0 {
		t.Fatalf("no crop may be persisted, got %d", n)
	}

	if _, err := f.crops.Create(ctx, f.admin, CropInput{FarmerID: "nope", Name: "Tea", CropType: "cash_crops", Quantity: ptr(5.0)}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("unknown farmer: got %v", err)
	}
	c, err := f.crops.Create(ctx, f.admin, CropInput{FarmerID: profile.ID, Name: "Tea", CropType: "cash_crops", Quantity: ptr(5.0)})
	if err != nil {
		t.Fatalf("admin create: %v", err)
	}
	if c.FarmerID != profile.ID {
		t.Fatalf("crop attached to wrong farmer: %+v", c)
	}
}

func TestCropAccessByNonOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner, _ := f.register(t, "owner")
	other, _ := f.register(t, "intruder")
	c := f.crop(t, owner, "Maize", entity.CropCereals)

	if _, err := f.crops.Get(ctx, other, c.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("get: got %v", err)
	}
	if _, err := f.crops.Patch(ctx, other, c.ID, CropPatch{Name: ptr("Stolen")}); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("patch: got %v", err)
	}
	if _, err := f.crops.Update(ctx, other, c.ID, CropInput{Name: "Stolen", CropType: "other", Quantity: ptr(1.0)}); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("update: got %v", err)
	}
	if err := f.crops.Delete(ctx, other, c.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("delete: got %v", err)
	}

	still, err := f.store.Crops().GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("crop must still exist: %v", err)
	}
	if still.Name != "Maize" {
		t.Fatalf("crop must be untouched, got %q", still.Name)
	}
	if _, err := f.crops.Get(ctx, other, "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("missing: got %v", err)
	}
}

func TestCropOwnerAndAdminMutations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner, _ := f.register(t, "owner")
	c := f.crop(t, owner, "Maize", entity.CropCereals)

	patched, err := f.crops.Patch(ctx, owner, c.ID, CropPatch{Status: ptr("harvested"), Quantity: ptr(42.0)})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if _, err := f.crops.Patch(ctx, owner, c.ID, CropPatch{Quantity: ptr(1.239)}); apperr.Fields(err)["quantity"] == "" {
		t.Fatalf("three decimals must be rejected, got %v", err)
	}
	if patched.Status != entity.StatusHarvested || patched.Quantity != 42 || patched.Name != "Maize" {
		t.Fatalf("unexpected patch result %+v", patched)
	}
	if _, err := f.crops.Patch(ctx, owner, c.ID, CropPatch{Quantity: ptr(0.0)}); apperr.Fields(err)["quantity"] == "" {
		t.Fatalf("zero quantity patch: got %v", err)
	}

	updated, err := f.crops.Update(ctx, f.admin, c.ID, CropInput{Name: "Sorghum", CropType: "cereals", Quantity: ptr(7.0)})
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if updated.Name != "Sorghum" || updated.Status != entity.StatusPlanted || updated.FarmerUserID != owner.UserID {
		t.Fatalf("unexpected update result %+v", updated)
	}

	if err := f.crops.Delete(ctx, owner, c.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := f.crops.Get(ctx, owner, c.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestCropListIsRoleScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, _ := f.register(t, "alpha")
	b, _ := f.register(t, "bravo")
	f.crop(t, a, "Maize", entity.CropCereals)
	f.crop(t, a, "Beans", entity.CropLegumes)
	f.crop(t, b, "Wheat", entity.CropCereals)

	mine, err := f.crops.List(ctx, a, CropListFilter{})
	if err != nil || len(mine) != 2 {
		t.Fatalf("farmer list: %d %v", len(mine), err)
	}
	for _, c := range mine {
		if c.FarmerUserID != a.UserID {
			t.Fatalf("farmer saw foreign crop %+v", c)
		}
	}
	all, _ := f.crops.List(ctx, f.admin, CropListFilter{})
	if len(all) != 3 || all[0].Name != "Wheat" {
		t.Fatalf("admin list should be newest first, got %+v", all)
	}
	cereals, _ := f.crops.List(ctx, f.admin, CropListFilter{CropType: "cereals", Status: "planted"})
	if len(cereals) != 2 {
		t.Fatalf("filtered list: got %d", len(cereals))
	}
	none, _ := f.crops.List(ctx, f.admin, CropListFilter{CropType: "trees"})
	if len(none) != 0 {
		t.Fatalf("unknown filter should match nothing, got %d", len(none))
	}
}

func TestCropQuantityKeepsTwoDecimals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	farmer, _ := f.register(t, "jkamau")

	for _, q := range []float64{0.01, 0.07, 1.24, 99999999.99} {
		c, err := f.crops.Create(ctx, farmer, CropInput{Name: "Beans", CropType: "legumes", Quantity: ptr(q)})
		if err != nil {
			t.Fatalf("quantity %v: %v", q, err)
		}
		if c.Quantity != q {
			t.Fatalf("quantity %v stored as %v", q, c.Quantity)
		}
	}
}
