package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ambava-store/internal/config"
	"github.com/ambava-store/internal/models"
)

func newTestOTPService(f *serviceFixture) *OTPService {
	return NewOTPService(config.OTPConfig{DemoMode: true}, f.store, nil, NewIdentityResolver(f.userRepo, f.db))
}

func TestOTPRequestRateLimited(t *testing.T) {
	f := setupServiceFixture(t)
	now := time.Now()
	f.store.SetClock(func() time.Time { return now })
	svc := newTestOTPService(f)

	result, err := svc.RequestOTP(context.Background(), "98765 43210")
	if err != nil {
		t.Fatalf("request otp failed: %v", err)
	}
	if result.Phone != "+919876543210" || result.DemoCode != "123456" {
		t.Fatalf("unexpected issue result: %+v", result)
	}
	if _, err := svc.RequestOTP(context.Background(), "+919876543210"); !errors.Is(err, ErrOTPRateLimited) {
		t.Fatalf("second request within window want rate limited, got %v", err)
	}

	now = now.Add(61 * time.Second)
	if _, err := svc.RequestOTP(context.Background(), "9876543210"); err != nil {
		t.Fatalf("request after window failed: %v", err)
	}
}

func TestOTPVerifyIsSingleUse(t *testing.T) {
	f := setupServiceFixture(t)
	svc := newTestOTPService(f)
	ctx := context.Background()

	if _, err := svc.RequestOTP(ctx, "9876543210"); err != nil {
		t.Fatalf("request otp failed: %v", err)
	}
	if _, err := svc.VerifyOTP(ctx, "9876543210", "000000"); !errors.Is(err, ErrOTPInvalidOrExpired) {
		t.Fatalf("wrong code want invalid, got %v", err)
	}
	user, err := svc.VerifyOTP(ctx, "9876543210", "123456")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if _, err := svc.VerifyOTP(ctx, "9876543210", "123456"); !errors.Is(err, ErrOTPInvalidOrExpired) {
		t.Fatalf("reused code want invalid, got %v", err)
	}

	if user.Username != "9876543210" {
		t.Fatalf("first login username want 9876543210 got %s", user.Username)
	}
	profile, err := f.userRepo.GetProfile(user.ID)
	if err != nil || profile == nil {
		t.Fatalf("load profile failed: %v", err)
	}
	if profile.PhoneValue() != "+919876543210" {
		t.Fatalf("profile phone want +919876543210 got %s", profile.PhoneValue())
	}
}

func TestOTPVerifyReturnsExistingUser(t *testing.T) {
	f := setupServiceFixture(t)
	svc := newTestOTPService(f)
	ctx := context.Background()

	if _, err := svc.RequestOTP(ctx, "9876543210"); err != nil {
		t.Fatalf("request otp failed: %v", err)
	}
	first, err := svc.VerifyOTP(ctx, "9876543210", "123456")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	f.store.Del(ctx, otpRateKey("+919876543210"))
	if _, err := svc.RequestOTP(ctx, "+91 98765 43210"); err != nil {
		t.Fatalf("second request failed: %v", err)
	}
	second, err := svc.VerifyOTP(ctx, "98765-43210", "123456")
	if err != nil {
		t.Fatalf("second verify failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("same phone should resolve to same user: %d vs %d", first.ID, second.ID)
	}
}

func TestOTPVerifyValidation(t *testing.T) {
	f := setupServiceFixture(t)
	svc := newTestOTPService(f)
	_, err := svc.VerifyOTP(context.Background(), "123", "")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Fields["phone"] == "" || verr.Fields["otp"] == "" {
		t.Fatalf("expected phone and otp errors: %+v", verr.Fields)
	}
}

func verifyDemoOTP(t *testing.T, svc *OTPService, phone string) (*models.User, error) {
	t.Helper()
	if _, err := svc.RequestOTP(context.Background(), phone); err != nil {
		t.Fatalf("request otp failed: %v", err)
	}
	return svc.VerifyOTP(context.Background(), phone, "123456")
}

func TestOTPVerifyRenamesLegacyPhoneUsername(t *testing.T) {
	f := setupServiceFixture(t)
	legacy := &models.User{Username: "phone_+919876543210", Status: "active"}
	if err := f.db.Create(legacy).Error; err != nil {
		t.Fatalf("create legacy user failed: %v", err)
	}

	user, err := verifyDemoOTP(t, newTestOTPService(f), "9876543210")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if user.ID != legacy.ID {
		t.Fatalf("legacy user should be matched: want %d got %d", legacy.ID, user.ID)
	}
	stored, _ := f.userRepo.GetByID(legacy.ID)
	if stored.Username != "9876543210" {
		t.Fatalf("username want 9876543210 got %s", stored.Username)
	}
	profile, _ := f.userRepo.GetProfile(legacy.ID)
	if profile.PhoneValue() != "+919876543210" {
		t.Fatalf("phone should be saved on profile, got %q", profile.PhoneValue())
	}
	var count int64
	f.db.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Fatalf("no new user should be created, got %d users", count)
	}
}

func TestOTPVerifyStaffLeavesAccountUntouched(t *testing.T) {
	f := setupServiceFixture(t)
	staff := &models.User{Username: "phone_+919812345678", Status: "active", IsStaff: true}
	if err := f.db.Create(staff).Error; err != nil {
		t.Fatalf("create staff failed: %v", err)
	}

	if _, err := verifyDemoOTP(t, newTestOTPService(f), "9812345678"); !errors.Is(err, ErrAdminLoginForbidden) {
		t.Fatalf("staff want forbidden, got %v", err)
	}
	stored, _ := f.userRepo.GetByID(staff.ID)
	if stored.Username != "phone_+919812345678" {
		t.Fatalf("staff username must not be renamed, got %s", stored.Username)
	}
	if profile, _ := f.userRepo.GetProfile(staff.ID); profile != nil {
		t.Fatalf("staff profile must not be created: %+v", profile)
	}
}
