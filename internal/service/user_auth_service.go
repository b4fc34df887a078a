package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ambava-store/internal/cache"
	"github.com/ambava-store/internal/config"
	"github.com/ambava-store/internal/constants"
	"github.com/ambava-store/internal/logger"
	"github.com/ambava-store/internal/models"
	"github.com/ambava-store/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultUserJWTExpireHours   = 168
	defaultLoginWindowSeconds   = 900
	defaultLoginMaxAttempts     = 5
	defaultResetTokenTTLMinutes = 60
	defaultResetIntervalSeconds = 120
)

// PasswordResetMailer 密码重置邮件投递
type PasswordResetMailer interface {
	SendPasswordReset(ctx context.Context, to, name, resetURL string) error
}

// UserAuthService 用户认证服务
type UserAuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
	store    cache.Store
	mailer   PasswordResetMailer
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository, store cache.Store, mailer PasswordResetMailer) *UserAuthService {
	return &UserAuthService{
		cfg:      cfg,
		userRepo: userRepo,
		store:    store,
		mailer:   mailer,
	}
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Username     string `json:"username"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// UserSession 登录成功后签发的会话
type UserSession struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// LoginInput 账号密码登录参数
type LoginInput struct {
	Username string
	Password string
	ClientIP string
}

// SignupInput 注册参数
type SignupInput struct {
	Username        string `json:"username" validate:"notblank,max=150"`
	Email           string `json:"email" validate:"notblank,email,max=254"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	FirstName       string `json:"first_name" validate:"max=150"`
	LastName        string `json:"last_name" validate:"max=150"`
}

// ProfileInput 资料更新参数
type ProfileInput struct {
	FirstName string `json:"first_name" validate:"notblank,max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Email     string `json:"email" validate:"notblank,email,max=254"`
	Phone     string `json:"phone"`
}

// PasswordResetConfirmInput 重置密码确认参数
type PasswordResetConfirmInput struct {
	UID             string
	Token           string
	Password        string
	ConfirmPassword string
}

type passwordResetClaims struct {
	UserID      uint   `json:"uid"`
	Fingerprint string `json:"fp"`
	jwt.RegisteredClaims
}

// GenerateUserJWT 生成用户 JWT Token
func (s *UserAuthService) GenerateUserJWT(user *models.User, expireHours int) (string, time.Time, error) {
	resolvedHours := expireHours
	if resolvedHours <= 0 {
		resolvedHours = resolveUserJWTExpireHours(s.cfg.UserJWT)
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(resolvedHours) * time.Hour)
	claims := UserJWTClaims{
		UserID:       user.ID,
		Username:     user.Username,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.UserJWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseUserJWT 解析用户 JWT Token
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.UserJWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*UserJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// IssueSession 为已认证用户签发会话并刷新鉴权快照
func (s *UserAuthService) IssueSession(ctx context.Context, user *models.User) (*UserSession, error) {
	if user == nil {
		return nil, ErrNotFound
	}
	token, expiresAt, err := s.GenerateUserJWT(user, 0)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{"last_login_at": now}); err != nil {
		return nil, err
	}
	if err := cache.SetUserAuthState(ctx, s.store, cache.BuildUserAuthState(user)); err != nil {
		logger.Warnw("user_auth_state_cache_set_failed", "user_id", user.ID, "error", err)
	}
	return &UserSession{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// Login 账号密码登录，连续失败达到上限后按 IP 暂时封禁
func (s *UserAuthService) Login(ctx context.Context, input LoginInput) (*UserSession, error) {
	if err := s.checkLoginBlocked(ctx, input.ClientIP); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(input.Username)
	fields := &ValidationError{}
	if username == "" {
		fields.Add("username", "Username is required.")
	}
	if input.Password == "" {
		fields.Add("password", "Password is required.")
	}
	if err := fields.OrNil(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.HasUsablePassword() ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		s.recordLoginFailure(ctx, input.ClientIP)
		logger.Infow("user_login_failed", "username", username, "client_ip", input.ClientIP)
		return nil, ErrInvalidCredentials
	}
	if strings.ToLower(user.Status) != constants.UserStatusActive {
		return nil, ErrUserDisabled
	}
	if user.IsStaff {
		return nil, ErrAdminLoginForbidden
	}

	s.clearLoginFailures(ctx, input.ClientIP)
	return s.IssueSession(ctx, user)
}

// Signup 注册账号并直接登录
func (s *UserAuthService) Signup(ctx context.Context, input SignupInput) (*UserSession, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)

	fields := validateStruct(input)
	if input.Password != "" {
		if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
			fields.Add("password", passwordErrorMessage(err))
		}
		if input.ConfirmPassword != "" && input.Password != input.ConfirmPassword {
			fields.Add("confirm_password", "Passwords do not match.")
		}
	}
	if input.Username != "" {
		exists, err := s.userRepo.UsernameExists(input.Username)
		if err != nil {
			return nil, err
		}
		if exists {
			fields.Set("username", "Username already taken.")
		}
	}
	if input.Email != "" {
		existing, err := s.userRepo.GetByEmail(input.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			fields.Set("email", "Email already registered.")
		}
	}
	if err := fields.OrNil(); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: string(hashedPassword),
		Status:       constants.UserStatusActive,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	profile := &models.UserProfile{UserID: user.ID}
	if err := s.userRepo.SaveProfile(profile); err != nil {
		return nil, err
	}
	user.Profile = profile
	logger.Infow("user_signed_up", "user_id", user.ID, "email", logger.MaskEmail(user.Email))

	return s.IssueSession(ctx, user)
}

// GetProfile 获取用户及资料
func (s *UserAuthService) GetProfile(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	profile, err := s.userRepo.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	user.Profile = profile
	return user, nil
}

// UpdateProfile 更新姓名、邮箱与手机号，历史自动用户名顺带迁移为手机号
func (s *UserAuthService) UpdateProfile(ctx context.Context, userID uint, input ProfileInput) (*models.User, error) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)

	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	fields := validateStruct(input)
	if input.Email != "" {
		taken, err := s.userRepo.EmailTakenByOther(input.Email, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			fields.Set("email", "This email is already in use.")
		}
	}
	phone := ""
	if input.Phone != "" {
		normalized, err := NormalizePhone(input.Phone)
		if err != nil {
			fields.Add("phone", "Enter a valid 10-digit phone number.")
		} else {
			taken, err := s.userRepo.PhoneTakenByOther(normalized, userID)
			if err != nil {
				return nil, err
			}
			if taken {
				fields.Add("phone", "This phone number is linked to another account.")
			}
			phone = normalized
		}
	}
	if err := fields.OrNil(); err != nil {
		return nil, err
	}

	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.Email = input.Email
	if phone != "" && isLegacyPhoneUsername(user.Username) {
		digits := localPhoneDigits(phone)
		existing, err := s.userRepo.GetByUsername(digits)
		if err != nil {
			return nil, err
		}
		if existing == nil || existing.ID == user.ID {
			user.Username = digits
		}
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	profile := user.Profile
	if profile == nil {
		profile = &models.UserProfile{UserID: user.ID}
	}
	if phone != "" {
		profile.Phone = &phone
	}
	if err := s.userRepo.SaveProfile(profile); err != nil {
		return nil, err
	}
	user.Profile = profile
	return user, nil
}

// RequestPasswordReset 发送重置链接，邮箱未注册时同样返回成功
func (s *UserAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		fields := &ValidationError{}
		fields.Add("email", "Email is required.")
		return fields
	}

	interval := time.Duration(positiveOrDefault(s.cfg.Security.PasswordReset.IntervalSeconds, defaultResetIntervalSeconds)) * time.Second
	acquired, err := s.store.SetNX(ctx, "pwd_reset:"+strings.ToLower(email), "1", interval)
	if err != nil {
		return err
	}
	if !acquired {
		return ErrPasswordResetTooFrequent
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		logger.Infow("password_reset_unknown_email", "email", logger.MaskEmail(email))
		return nil
	}
	if s.mailer == nil {
		return ErrEmailServiceNotConfigured
	}

	uid, token, err := s.GeneratePasswordResetToken(user)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(user.FirstName)
	if name == "" {
		name = user.Username
	}
	if err := s.mailer.SendPasswordReset(ctx, user.Email, name, s.passwordResetURL(uid, token)); err != nil {
		logger.Errorw("password_reset_email_failed", "user_id", user.ID, "error", err)
		return fmt.Errorf("%w: %v", ErrResetEmailFailed, err)
	}
	logger.Infow("password_reset_requested", "user_id", user.ID)
	return nil
}

// ConfirmPasswordReset 校验重置链接并设置新密码，旧会话同时失效
func (s *UserAuthService) ConfirmPasswordReset(ctx context.Context, input PasswordResetConfirmInput) error {
	uid := strings.TrimSpace(input.UID)
	token := strings.TrimSpace(input.Token)
	if uid == "" || token == "" {
		return ErrResetLinkInvalid
	}

	fields := &ValidationError{}
	if input.Password == "" {
		fields.Add("password", "Password is required.")
	} else if input.Password != input.ConfirmPassword {
		fields.Add("confirm_password", "Passwords do not match.")
	}
	if err := fields.OrNil(); err != nil {
		return err
	}

	userID, err := decodeResetUID(uid)
	if err != nil {
		return ErrResetLinkInvalid
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrResetLinkInvalid
	}
	if !s.checkPasswordResetToken(user, token) {
		return ErrResetTokenInvalid
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		fields.Add("password", passwordErrorMessage(err))
		return fields
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashedPassword)
	user.TokenVersion++
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	if err := cache.DelUserAuthState(ctx, s.store, user.ID); err != nil {
		logger.Warnw("user_auth_state_cache_delete_failed", "user_id", user.ID, "error", err)
	}
	logger.Infow("password_reset_completed", "user_id", user.ID)
	return nil
}

// GeneratePasswordResetToken 生成重置链接参数，密码变更后令牌自动失效
func (s *UserAuthService) GeneratePasswordResetToken(user *models.User) (string, string, error) {
	ttl := time.Duration(positiveOrDefault(s.cfg.Security.PasswordReset.TokenTTLMinutes, defaultResetTokenTTLMinutes)) * time.Minute
	now := time.Now()
	claims := passwordResetClaims{
		UserID:      user.ID,
		Fingerprint: passwordFingerprint(user),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.resetSecret())
	if err != nil {
		return "", "", err
	}
	return encodeResetUID(user.ID), token, nil
}

// ResolveAuthState 读取鉴权快照，缓存未命中时回源数据库
func (s *UserAuthService) ResolveAuthState(ctx context.Context, userID uint) (*cache.UserAuthState, error) {
	state, hit, err := cache.GetUserAuthState(ctx, s.store, userID)
	if err != nil {
		logger.Warnw("user_auth_state_cache_get_failed", "user_id", userID, "error", err)
	}
	if hit && state != nil {
		return state, nil
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	state = cache.BuildUserAuthState(user)
	if err := cache.SetUserAuthState(ctx, s.store, state); err != nil {
		logger.Warnw("user_auth_state_cache_set_failed", "user_id", userID, "error", err)
	}
	return state, nil
}

func (s *UserAuthService) checkPasswordResetToken(user *models.User, token string) bool {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &passwordResetClaims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.resetSecret(), nil
	})
	if err != nil || !parsed.Valid {
		return false
	}
	return claims.UserID == user.ID && claims.Fingerprint == passwordFingerprint(user)
}

func (s *UserAuthService) resetSecret() []byte {
	secret := strings.TrimSpace(s.cfg.Security.PasswordReset.Secret)
	if secret == "" {
		secret = s.cfg.UserJWT.SecretKey
	}
	return []byte(secret)
}

func (s *UserAuthService) passwordResetURL(uid, token string) string {
	base := strings.TrimRight(strings.TrimSpace(s.cfg.Site.BaseURL), "/")
	query := url.Values{}
	query.Set("uid", uid)
	query.Set("token", token)
	return base + "/account/reset-password/?" + query.Encode()
}

func loginFailKey(clientIP string) string {
	return "login_fail:" + clientIP
}

func loginBlockKey(clientIP string) string {
	return "login_block:" + clientIP
}

func (s *UserAuthService) loginLimits() (time.Duration, int64) {
	limit := s.cfg.Security.LoginRateLimit
	window := time.Duration(positiveOrDefault(limit.WindowSeconds, defaultLoginWindowSeconds)) * time.Second
	return window, int64(positiveOrDefault(limit.MaxAttempts, defaultLoginMaxAttempts))
}

func (s *UserAuthService) checkLoginBlocked(ctx context.Context, clientIP string) error {
	if s.store == nil || clientIP == "" {
		return nil
	}
	raw, found, err := s.store.Get(ctx, loginBlockKey(clientIP))
	if err != nil || !found {
		return nil
	}
	until, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	remaining := time.Until(time.Unix(until, 0))
	if remaining <= 0 {
		return nil
	}
	return &LoginRateLimitedError{RetryAfter: remaining}
}

func (s *UserAuthService) recordLoginFailure(ctx context.Context, clientIP string) {
	if s.store == nil || clientIP == "" {
		return
	}
	window, maxAttempts := s.loginLimits()
	count, ttl, err := s.store.Incr(ctx, loginFailKey(clientIP), window)
	if err != nil {
		logger.Warnw("user_login_failure_record_failed", "client_ip", clientIP, "error", err)
		return
	}
	if count < maxAttempts {
		return
	}
	if ttl <= 0 {
		ttl = window
	}
	until := time.Now().Add(ttl).Unix()
	if err := s.store.Set(ctx, loginBlockKey(clientIP), strconv.FormatInt(until, 10), ttl); err != nil {
		logger.Warnw("user_login_block_set_failed", "client_ip", clientIP, "error", err)
	}
}

func (s *UserAuthService) clearLoginFailures(ctx context.Context, clientIP string) {
	if s.store == nil || clientIP == "" {
		return
	}
	_ = s.store.Del(ctx, loginFailKey(clientIP), loginBlockKey(clientIP))
}

func passwordFingerprint(user *models.User) string {
	lastLogin := ""
	if user.LastLoginAt != nil {
		lastLogin = strconv.FormatInt(user.LastLoginAt.Unix(), 10)
	}
	sum := sha256.Sum256([]byte(user.PasswordHash + "|" + lastLogin + "|" + strconv.FormatUint(user.TokenVersion, 10)))
	return hex.EncodeToString(sum[:8])
}

func encodeResetUID(userID uint) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(uint64(userID), 10)))
}

func decodeResetUID(uid string) (uint, error) {
	raw, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, ErrResetLinkInvalid
	}
	return uint(id), nil
}

func resolveUserJWTExpireHours(cfg config.JWTConfig) int {
	return positiveOrDefault(cfg.ExpireHours, defaultUserJWTExpireHours)
}

func positiveOrDefault(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}
