package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ambava-store/internal/authz"
	"github.com/ambava-store/internal/cache"
	"github.com/ambava-store/internal/config"
	"github.com/ambava-store/internal/constants"
	"github.com/ambava-store/internal/logger"
	"github.com/ambava-store/internal/models"
	"github.com/ambava-store/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const defaultStaffJWTExpireHours = 12

// StaffRoleBinder 员工角色绑定（casbin）
type StaffRoleBinder interface {
	SetStaffRoles(userID uint, roles []string) error
}

// StaffAuthService 员工认证服务
type StaffAuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
	store    cache.Store
	roles    StaffRoleBinder
}

// NewStaffAuthService 创建员工认证服务
func NewStaffAuthService(cfg *config.Config, userRepo repository.UserRepository, store cache.Store, roles StaffRoleBinder) *StaffAuthService {
	return &StaffAuthService{
		cfg:      cfg,
		userRepo: userRepo,
		store:    store,
		roles:    roles,
	}
}

// StaffJWTClaims 员工 JWT 声明
type StaffJWTClaims struct {
	StaffID      uint   `json:"staff_id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateJWT 生成员工 JWT Token
func (s *StaffAuthService) GenerateJWT(user *models.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(time.Duration(positiveOrDefault(s.cfg.StaffJWT.ExpireHours, defaultStaffJWTExpireHours)) * time.Hour)

	claims := StaffJWTClaims{
		StaffID:      user.ID,
		Username:     user.Username,
		Role:         user.StaffRole,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.StaffJWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseJWT 解析员工 JWT Token
func (s *StaffAuthService) ParseJWT(tokenString string) (*StaffJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &StaffJWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.StaffJWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*StaffJWTClaims); ok && token.Valid && claims.StaffID != 0 {
		return claims, nil
	}
	return nil, errors.New("invalid staff token")
}

// Login 员工登录，非员工账号一律视为凭证错误
func (s *StaffAuthService) Login(ctx context.Context, username, password string) (*UserSession, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsStaff || !user.HasUsablePassword() ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		logger.Infow("staff_login_failed", "username", username)
		return nil, ErrInvalidCredentials
	}
	if strings.ToLower(user.Status) != constants.UserStatusActive {
		return nil, ErrUserDisabled
	}

	if err := s.syncRole(user); err != nil {
		return nil, err
	}
	token, expiresAt, err := s.GenerateJWT(user)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{"last_login_at": now}); err != nil {
		return nil, err
	}
	if err := cache.SetUserAuthState(ctx, s.store, cache.BuildUserAuthState(user)); err != nil {
		logger.Warnw("staff_auth_state_cache_set_failed", "user_id", user.ID, "error", err)
	}
	logger.Infow("staff_login", "user_id", user.ID, "role", user.StaffRole)
	return &UserSession{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// EnsureDefaultStaff 按配置创建或更新默认员工账号
func (s *StaffAuthService) EnsureDefaultStaff(ctx context.Context) (*models.User, error) {
	staffCfg := s.cfg.Staff
	if !staffCfg.Enabled() {
		return nil, nil
	}
	username := strings.TrimSpace(staffCfg.Username)
	role := strings.ToLower(strings.TrimSpace(staffCfg.Role))
	if role == "" {
		role = authz.RoleOwner
	}
	if !authz.IsBuiltinRole(role) {
		logger.Warnw("staff_seed_unknown_role", "role", role, "fallback", authz.RoleOwner)
		role = authz.RoleOwner
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if user != nil && !user.IsStaff {
		logger.Warnw("staff_seed_username_taken", "username", username, "user_id", user.ID)
		return nil, ErrUsernameExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(staffCfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	if user == nil {
		user = &models.User{
			Username:     username,
			Email:        strings.ToLower(strings.TrimSpace(staffCfg.Email)),
			PasswordHash: string(hashed),
			IsStaff:      true,
			StaffRole:    role,
			Status:       constants.UserStatusActive,
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, err
		}
		logger.Infow("staff_seed_created", "user_id", user.ID, "username", username, "role", role)
	} else if user.StaffRole != role || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(staffCfg.Password)) != nil {
		user.StaffRole = role
		user.PasswordHash = string(hashed)
		user.TokenVersion++
		if err := s.userRepo.Update(user); err != nil {
			return nil, err
		}
		_ = cache.DelUserAuthState(ctx, s.store, user.ID)
		logger.Infow("staff_seed_updated", "user_id", user.ID, "username", username, "role", role)
	}

	if err := s.syncRole(user); err != nil {
		return nil, err
	}
	return user, nil
}

// SyncAllRoles 将所有员工账号的角色同步到授权策略
func (s *StaffAuthService) SyncAllRoles() error {
	staff, err := s.userRepo.ListStaff()
	if err != nil {
		return err
	}
	for i := range staff {
		if err := s.syncRole(&staff[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *StaffAuthService) syncRole(user *models.User) error {
	if s.roles == nil || user == nil {
		return nil
	}
	if err := s.roles.SetStaffRoles(user.ID, []string{user.StaffRole}); err != nil {
		logger.Errorw("staff_role_sync_failed", "user_id", user.ID, "role", user.StaffRole, "error", err)
		return err
	}
	return nil
}
