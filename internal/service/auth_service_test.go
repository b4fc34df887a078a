package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ambava-store/internal/config"
	"github.com/ambava-store/internal/models"
)

type recordingRoleBinder struct {
	bound map[uint][]string
}

func (b *recordingRoleBinder) SetStaffRoles(userID uint, roles []string) error {
	if b.bound == nil {
		b.bound = make(map[uint][]string)
	}
	b.bound[userID] = roles
	return nil
}

func newStaffAuthTestService(f *serviceFixture, staff config.StaffConfig) (*StaffAuthService, *recordingRoleBinder) {
	cfg := &config.Config{
		StaffJWT: config.JWTConfig{SecretKey: "staff-test-secret", ExpireHours: 2},
		Staff:    staff,
	}
	binder := &recordingRoleBinder{}
	return NewStaffAuthService(cfg, f.userRepo, f.store, binder), binder
}

func TestEnsureDefaultStaffCreatesAndLogsIn(t *testing.T) {
	f := setupServiceFixture(t)
	svc, binder := newStaffAuthTestService(f, config.StaffConfig{
		Username: "store.manager",
		Email:    "Manager@HouseOfAmbava.com",
		Password: "Bandhani#2024",
		Role:     "fulfillment",
	})
	ctx := context.Background()

	user, err := svc.EnsureDefaultStaff(ctx)
	if err != nil {
		t.Fatalf("ensure staff failed: %v", err)
	}
	if user == nil || !user.IsStaff || user.StaffRole != "fulfillment" || user.Email != "manager@houseofambava.com" {
		t.Fatalf("unexpected staff user: %+v", user)
	}
	if got := binder.bound[user.ID]; len(got) != 1 || got[0] != "fulfillment" {
		t.Fatalf("expected role bound, got %v", got)
	}

	// 再次执行不会重复创建
	again, err := svc.EnsureDefaultStaff(ctx)
	if err != nil || again.ID != user.ID {
		t.Fatalf("expected same staff user, got %+v err=%v", again, err)
	}
	var count int64
	f.db.Model(&models.User{}).Where("is_staff = ?", true).Count(&count)
	if count != 1 {
		t.Fatalf("expected one staff user, got %d", count)
	}

	session, err := svc.Login(ctx, "store.manager", "Bandhani#2024")
	if err != nil {
		t.Fatalf("staff login failed: %v", err)
	}
	claims, err := svc.ParseJWT(session.Token)
	if err != nil {
		t.Fatalf("parse staff token failed: %v", err)
	}
	if claims.StaffID != user.ID || claims.Role != "fulfillment" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestEnsureDefaultStaffSkippedWithoutCredentials(t *testing.T) {
	f := setupServiceFixture(t)
	svc, _ := newStaffAuthTestService(f, config.StaffConfig{Username: "admin"})
	user, err := svc.EnsureDefaultStaff(context.Background())
	if err != nil || user != nil {
		t.Fatalf("expected no seeding, got %+v err=%v", user, err)
	}
}

func TestEnsureDefaultStaffRefusesCustomerUsername(t *testing.T) {
	f := setupServiceFixture(t)
	f.createUser(t, "admin")
	svc, _ := newStaffAuthTestService(f, config.StaffConfig{Username: "admin", Password: "secret-pass"})
	if _, err := svc.EnsureDefaultStaff(context.Background()); !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("expected username conflict, got %v", err)
	}
}

func TestStaffLoginRejectsCustomers(t *testing.T) {
	f := setupServiceFixture(t)
	customers := newUserAuthTestService(f, nil)
	signupTestUser(t, customers, "anaya", "anaya@example.com")

	svc, _ := newStaffAuthTestService(f, config.StaffConfig{})
	if _, err := svc.Login(context.Background(), "anaya", "Silk-Saree-2024"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected customer rejected, got %v", err)
	}
	if _, err := svc.ParseJWT("not-a-token"); err == nil {
		t.Fatalf("expected parse failure")
	}
}

func TestEnsureDefaultStaffUnknownRoleFallsBackToOwner(t *testing.T) {
	f := setupServiceFixture(t)
	svc, binder := newStaffAuthTestService(f, config.StaffConfig{
		Username: "founder",
		Password: "Chikankari#2024",
		Role:     "superuser",
	})

	user, err := svc.EnsureDefaultStaff(context.Background())
	if err != nil {
		t.Fatalf("ensure staff failed: %v", err)
	}
	if user.StaffRole != "owner" {
		t.Fatalf("unknown role should fall back to owner, got %q", user.StaffRole)
	}
	if got := binder.bound[user.ID]; len(got) != 1 || got[0] != "owner" {
		t.Fatalf("expected owner bound, got %v", got)
	}
}
