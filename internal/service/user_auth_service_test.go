package service

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/ambava-store/internal/config"
	"github.com/ambava-store/internal/models"
)

type recordingResetMailer struct {
	to       string
	resetURL string
	err      error
}

func (m *recordingResetMailer) SendPasswordReset(_ context.Context, to, _ string, resetURL string) error {
	m.to = to
	m.resetURL = resetURL
	return m.err
}

func newUserAuthTestService(f *serviceFixture, mailer PasswordResetMailer) *UserAuthService {
	cfg := &config.Config{
		UserJWT: config.JWTConfig{SecretKey: "user-test-secret", ExpireHours: 1},
		Site:    config.SiteConfig{Name: "House of Ambava", BaseURL: "https://shop.test/"},
		Security: config.SecurityConfig{
			LoginRateLimit: config.RateLimitConfig{WindowSeconds: 900, MaxAttempts: 3},
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 8},
		},
	}
	return NewUserAuthService(cfg, f.userRepo, f.store, mailer)
}

func signupTestUser(t *testing.T, svc *UserAuthService, username, email string) *UserSession {
	t.Helper()
	session, err := svc.Signup(context.Background(), SignupInput{
		Username:        username,
		Email:           email,
		Password:        "Silk-Saree-2024",
		ConfirmPassword: "Silk-Saree-2024",
		FirstName:       "Anaya",
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	return session
}

func TestSignupIssuesSession(t *testing.T) {
	f := setupServiceFixture(t)
	svc := newUserAuthTestService(f, nil)

	session := signupTestUser(t, svc, "anaya", "anaya@example.com")
	if session.Token == "" || session.User.ID == 0 {
		t.Fatalf("expected token and user, got %+v", session)
	}
	claims, err := svc.ParseUserJWT(session.Token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != session.User.ID || claims.Username != "anaya" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	profile, err := f.userRepo.GetProfile(session.User.ID)
	if err != nil || profile == nil {
		t.Fatalf("expected profile created, err=%v", err)
	}
}

func TestSignupCollectsFieldErrors(t *testing.T) {
	f := setupServiceFixture(t)
	svc := newUserAuthTestService(f, nil)
	signupTestUser(t, svc, "anaya", "anaya@example.com")

	_, err := svc.Signup(context.Background(), SignupInput{
		Username:        "anaya",
		Email:           "anaya@example.com",
		Password:        "short",
		ConfirmPassword: "different",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"username", "email", "password", "confirm_password"} {
		if verr.Fields[field] == "" {
			t.Fatalf("expected error on %s, got %v", field, verr.Fields)
		}
	}
}

func TestLoginRejectsStaffAndWrongPassword(t *testing.T) {
	f := setupServiceFixture(t)
	svc := newUserAuthTestService(f, nil)
	session := signupTestUser(t, svc, "anaya", "anaya@example.com")
	ctx := context.Background()

	if _, err := svc.Login(ctx, LoginInput{Username: "anaya", Password: "nope", ClientIP: "10.0.0.1"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := svc.Login(ctx, LoginInput{Username: "anaya", Password: "Silk-Saree-2024", ClientIP: "10.0.0.1"}); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := f.userRepo.UpdateFields(session.User.ID, map[string]interface{}{"is_staff": true}); err != nil {
		t.Fatalf("promote staff failed: %v", err)
	}
	if _, err := svc.Login(ctx, LoginInput{Username: "anaya", Password: "Silk-Saree-2024", ClientIP: "10.0.0.1"}); !errors.Is(err, ErrAdminLoginForbidden) {
		t.Fatalf("expected staff rejected, got %v", err)
	}
}

func TestLoginBlockedAfterRepeatedFailures(t *testing.T) {
	f := setupServiceFixture(t)
	svc := newUserAuthTestService(f, nil)
	signupTestUser(t, svc, "anaya", "anaya@example.com")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _ = svc.Login(ctx, LoginInput{Username: "anaya", Password: "wrong", ClientIP: "10.0.0.2"})
	}
	_, err := svc.Login(ctx, LoginInput{Username: "anaya", Password: "Silk-Saree-2024", ClientIP: "10.0.0.2"})
	var limited *LoginRateLimitedError
	if !errors.As(err, &limited) || !errors.Is(err, ErrLoginRateLimited) {
		t.Fatalf("expected login rate limited, got %v", err)
	}
	if limited.RetryMinutes() < 1 {
		t.Fatalf("retry minutes should be at least 1")
	}

	if _, err := svc.Login(ctx, LoginInput{Username: "anaya", Password: "Silk-Saree-2024", ClientIP: "10.0.0.3"}); err != nil {
		t.Fatalf("other client should not be blocked: %v", err)
	}
}

func TestUpdateProfileMigratesLegacyUsername(t *testing.T) {
	f := setupServiceFixture(t)
	svc := newUserAuthTestService(f, nil)
	user := f.createUser(t, "phone_legacy01")

	updated, err := svc.UpdateProfile(context.Background(), user.ID, ProfileInput{
		FirstName: "Meera",
		Email:     "meera@example.com",
		Phone:     "+91 98765 43210",
	})
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if updated.Username != "9876543210" {
		t.Fatalf("expected username migrated, got %s", updated.Username)
	}
	if updated.Profile == nil || updated.Profile.Phone == nil || *updated.Profile.Phone != "+919876543210" {
		t.Fatalf("expected normalized phone on profile, got %+v", updated.Profile)
	}

	other := f.createUser(t, "ravi")
	_, err = svc.UpdateProfile(context.Background(), other.ID, ProfileInput{
		FirstName: "Ravi",
		Email:     "meera@example.com",
		Phone:     "9876543210",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["email"] == "" || verr.Fields["phone"] == "" {
		t.Fatalf("expected email and phone conflicts, got %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	f := setupServiceFixture(t)
	mailer := &recordingResetMailer{}
	svc := newUserAuthTestService(f, mailer)
	session := signupTestUser(t, svc, "anaya", "anaya@example.com")
	ctx := context.Background()

	if err := svc.RequestPasswordReset(ctx, "anaya@example.com"); err != nil {
		t.Fatalf("request reset failed: %v", err)
	}
	if mailer.to != "anaya@example.com" {
		t.Fatalf("expected reset mail sent, got %q", mailer.to)
	}
	if err := svc.RequestPasswordReset(ctx, "anaya@example.com"); !errors.Is(err, ErrPasswordResetTooFrequent) {
		t.Fatalf("expected too frequent, got %v", err)
	}

	link, err := url.Parse(mailer.resetURL)
	if err != nil {
		t.Fatalf("parse reset url failed: %v", err)
	}
	if link.Host != "shop.test" || link.Path != "/account/reset-password/" {
		t.Fatalf("unexpected reset url: %s", mailer.resetURL)
	}
	uid := link.Query().Get("uid")
	token := link.Query().Get("token")

	err = svc.ConfirmPasswordReset(ctx, PasswordResetConfirmInput{UID: uid, Token: token, Password: "New-Lehenga-77", ConfirmPassword: "mismatch"})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["confirm_password"] == "" {
		t.Fatalf("expected mismatch error, got %v", err)
	}
	if err := svc.ConfirmPasswordReset(ctx, PasswordResetConfirmInput{UID: uid, Token: token, Password: "New-Lehenga-77", ConfirmPassword: "New-Lehenga-77"}); err != nil {
		t.Fatalf("confirm reset failed: %v", err)
	}
	// 密码变更后同一链接失效
	if err := svc.ConfirmPasswordReset(ctx, PasswordResetConfirmInput{UID: uid, Token: token, Password: "Another-Kurti-88", ConfirmPassword: "Another-Kurti-88"}); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected reused token rejected, got %v", err)
	}

	var reloaded models.User
	if err := f.db.First(&reloaded, session.User.ID).Error; err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if reloaded.TokenVersion != session.User.TokenVersion+1 {
		t.Fatalf("expected token version bumped, got %d", reloaded.TokenVersion)
	}
	if _, err := svc.Login(ctx, LoginInput{Username: "anaya", Password: "New-Lehenga-77", ClientIP: "10.0.0.9"}); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}

func TestPasswordResetUnknownEmailIsSilent(t *testing.T) {
	f := setupServiceFixture(t)
	mailer := &recordingResetMailer{}
	svc := newUserAuthTestService(f, mailer)

	if err := svc.RequestPasswordReset(context.Background(), "ghost@example.com"); err != nil {
		t.Fatalf("expected silent success, got %v", err)
	}
	if mailer.to != "" {
		t.Fatalf("no mail expected for unknown email")
	}
	if err := svc.ConfirmPasswordReset(context.Background(), PasswordResetConfirmInput{UID: "!!", Token: "x", Password: "a", ConfirmPassword: "a"}); !errors.Is(err, ErrResetLinkInvalid) {
		t.Fatalf("expected invalid link, got %v", err)
	}
}
