package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/shamba-farm/internal/domain/entity"
	"github.com/oksasatya/shamba-farm/pkg/apperr"
	"github.com/oksasatya/shamba-farm/pkg/helpers"
)

func TestRegisterCreatesOwnedProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, profile := f.register(t, "jkamau")
	if profile == nil || profile.UserID != p.UserID {
		t.Fatalf("expected profile owned by new user, got %+v", profile)
	}
	stored, err := f.store.Farmers().GetByUserID(ctx, p.UserID)
	if err != nil {
		t.Fatalf("profile lookup: %v", err)
	}
	if stored.ID != profile.ID || stored.OwnerUserID() != p.UserID {
		t.Fatalf("unexpected stored profile %+v", stored)
	}
	u, _ := f.store.Users().GetByID(ctx, p.UserID)
	if u.Role != entity.RoleFarmer || u.Password == testPassword {
		t.Fatalf("unexpected user %+v", u)
	}
	if _, err := f.sessions.Get(ctx, p.UserID); err != nil {
		t.Fatalf("expected session after register: %v", err)
	}
}

func TestRegisterRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "taken")

	_, err := f.auth.Register(ctx, RegisterInput{
		Username: "taken", Email: "x@example.com", Password: testPassword, ConfirmPassword: testPassword,
	}, ClientInfo{})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("duplicate username: expected conflict, got %v", err)
	}

	_, err = f.auth.Register(ctx, RegisterInput{
		Username: "weak", Email: "not-an-email", Password: "12345678", ConfirmPassword: "12345679",
	}, ClientInfo{})
	fields := apperr.Fields(err)
	for _, k := range []string{"email", "password", "confirm_password"} {
		if fields[k] == "" {
			t.Errorf("expected error on %s, got %v", k, fields)
		}
	}
	if _, err := f.store.Users().GetByUsername(ctx, "weak"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("rejected registration must not persist a user, got %v", err)
	}

	long := strings.Repeat("Harvest-Season-", 6)
	_, err = f.auth.Register(ctx, RegisterInput{
		Username: "verbose", Email: "v@example.com", Password: long, ConfirmPassword: long,
	}, ClientInfo{})
	if !errors.Is(err, apperr.ErrValidation) || !strings.Contains(apperr.Fields(err)["password"], "too long") {
		t.Fatalf("password over 72 bytes: expected validation error, got %v", err)
	}
}

func TestLoginReusesLiveSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, _ := f.register(t, "jkamau")
	first, _ := f.sessions.Get(ctx, p.UserID)

	res, err := f.auth.Login(ctx, LoginInput{Username: "jkamau", Password: testPassword}, ClientInfo{IP: "10.0.0.1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Token != first.Token {
		t.Fatal("expected login to reuse the live credential")
	}
	if res.Farmer == nil || res.Farmer.UserID != p.UserID {
		t.Fatalf("expected embedded farmer profile, got %+v", res.Farmer)
	}

	if err := f.auth.Logout(ctx, p.UserID, first.SessionID, ClientInfo{}); err != nil {
		t.Fatalf("logout: %v", err)
	}
	res2, err := f.auth.Login(ctx, LoginInput{Username: "jkamau", Password: testPassword}, ClientInfo{})
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if res2.Token == first.Token {
		t.Fatal("expected a fresh credential after logout")
	}
}

func TestLoginFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, _ := f.register(t, "jkamau")

	if _, err := f.auth.Login(ctx, LoginInput{Username: "jkamau", Password: "wrong-password"}, ClientInfo{}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad password: got %v", err)
	}
	if _, err := f.auth.Login(ctx, LoginInput{Username: "nobody", Password: testPassword}, ClientInfo{}); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("unknown user: got %v", err)
	}
	if _, err := f.auth.Login(ctx, LoginInput{}, ClientInfo{}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("empty payload: got %v", err)
	}

	// is_active is never updated through the API, so seed a disabled account directly.
	hash := mustUser(t, f, p.UserID).Password
	disabled := &entity.User{Username: "dormant", Password: hash, Role: entity.RoleFarmer, IsActive: false}
	if err := f.store.Users().Create(ctx, disabled); err != nil {
		t.Fatal(err)
	}
	if _, err := f.auth.Login(ctx, LoginInput{Username: "dormant", Password: testPassword}, ClientInfo{}); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("inactive: got %v", err)
	}

	failures := 0
	for _, e := range f.store.AuditLogs() {
		if e.Action == entity.AuditLoginFailed {
			failures++
		}
	}
	if failures != 3 {
		t.Errorf("expected 3 login_failed audit entries, got %d", failures)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, _ := f.register(t, "jkamau")
	sess, _ := f.sessions.Get(ctx, p.UserID)

	for i := 0; i < 2; i++ {
		if err := f.auth.Logout(ctx, p.UserID, sess.SessionID, ClientInfo{}); err != nil {
			t.Fatalf("logout %d: %v", i+1, err)
		}
	}
	if _, err := f.sessions.Get(ctx, p.UserID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected session gone, got %v", err)
	}
}

func TestLogoutLeavesNewerSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, _ := f.register(t, "jkamau")

	if err := f.auth.Logout(ctx, p.UserID, "stale-sid", ClientInfo{}); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := f.sessions.Get(ctx, p.UserID); err != nil {
		t.Fatalf("live session must survive a stale logout: %v", err)
	}
}

func mustUser(t *testing.T, f *fixture, id string) *entity.User {
	t.Helper()
	u, err := f.store.Users().GetByID(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestUnknownUserStillPaysForBcrypt(t *testing.T) {
	hashed, err := helpers.HashPassword(testPassword)
	if err != nil {
		t.Fatal(err)
	}
	dummyCost, err := bcrypt.Cost([]byte(dummyPasswordHash()))
	if err != nil {
		t.Fatalf("dummy hash is not a bcrypt hash: %v", err)
	}
	realCost, _ := bcrypt.Cost([]byte(hashed))
	if dummyCost != realCost {
		t.Fatalf("dummy cost %d, real cost %d", dummyCost, realCost)
	}
	if helpers.CompareHashAndPassword(dummyPasswordHash(), testPassword) {
		t.Fatal("dummy hash must not match real passwords")
	}
}
