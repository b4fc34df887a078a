package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/ambava-store/internal/constants"
	"github.com/ambava-store/internal/logger"
	"github.com/ambava-store/internal/models"
	"github.com/ambava-store/internal/repository"

	"gorm.io/gorm"
)

// IdentityMatchKind 身份匹配方式
type IdentityMatchKind int

const (
	NotFound IdentityMatchKind = iota
	FoundByPhone
	FoundByLegacyUsername
	FoundByEmail
	FoundByProviderID
)

func (k IdentityMatchKind) String() string {
	switch k {
	case FoundByPhone:
		return "phone"
	case FoundByLegacyUsername:
		return "legacy_username"
	case FoundByEmail:
		return "email"
	case FoundByProviderID:
		return "provider_id"
	default:
		return "not_found"
	}
}

// IdentityClaim 登录渠道提供的身份声明
type IdentityClaim struct {
	Phone      string // 已规范化的手机号
	Provider   string
	ProviderID string
	Email      string
	FirstName  string
	LastName   string
}

// IdentityMatch 身份匹配结果
type IdentityMatch struct {
	Kind    IdentityMatchKind
	User    *models.User
	Profile *models.UserProfile
}

// IdentityStrategy 单一匹配规则
type IdentityStrategy interface {
	Match(repo repository.UserRepository, claim IdentityClaim) (IdentityMatch, error)
}

// IdentityStrategyFunc 函数形式的匹配规则
type IdentityStrategyFunc func(repo repository.UserRepository, claim IdentityClaim) (IdentityMatch, error)

// Match 实现 IdentityStrategy
func (f IdentityStrategyFunc) Match(repo repository.UserRepository, claim IdentityClaim) (IdentityMatch, error) {
	return f(repo, claim)
}

// PhoneStrategies 手机号登录匹配顺序
func PhoneStrategies() []IdentityStrategy {
	return []IdentityStrategy{
		IdentityStrategyFunc(matchByPhone),
		IdentityStrategyFunc(matchByLegacyPhoneUsername),
		IdentityStrategyFunc(matchByPhoneDigitsUsername),
	}
}

// ProviderStrategies 第三方登录匹配顺序
func ProviderStrategies() []IdentityStrategy {
	return []IdentityStrategy{
		IdentityStrategyFunc(matchByProviderID),
		IdentityStrategyFunc(matchByEmail),
		IdentityStrategyFunc(matchByLegacyProviderUsername),
	}
}

func matchByPhone(repo repository.UserRepository, claim IdentityClaim) (IdentityMatch, error) {
	if claim.Phone == "" {
		return IdentityMatch{}, nil
	}
	profile, err := repo.GetProfileByPhone(claim.Phone)
	if err != nil || profile == nil {
		return IdentityMatch{}, err
	}
	user, err := repo.GetByID(profile.UserID)
	if err != nil || user == nil {
		return IdentityMatch{}, err
	}
	return IdentityMatch{Kind: FoundByPhone, User: user, Profile: profile}, nil
}

func matchByLegacyPhoneUsername(repo repository.UserRepository, claim IdentityClaim) (IdentityMatch, error) {
	if claim.Phone == "" {
		return IdentityMatch{}, nil
	}
	user, err := repo.GetByUsername("phone_" + claim.Phone)
	if err != nil || user == nil {
		return IdentityMatch{}, err
	}
	return IdentityMatch{Kind: FoundByLegacyUsername, User: user}, nil
}

func matchByPhoneDigitsUsername(repo repository.UserRepository, claim IdentityClaim) (IdentityMatch, error) {
	if claim.Phone == "" {
		return IdentityMatch{}, nil
	}
	user, err := repo.GetByUsername(localPhoneDigits(claim.Phone))
	if err != nil || user == nil {
		return IdentityMatch{}, err
	}
	return IdentityMatch{Kind: FoundByLegacyUsername, User: user}, nil
}

func matchByProviderID(repo repository.UserRepository, claim IdentityClaim) (IdentityMatch, error) {
	if claim.Provider == "" || claim.ProviderID == "" {
		return IdentityMatch{}, nil
	}
	profile, err := repo.GetProfileByProviderID(claim.Provider, claim.ProviderID)
	if err != nil || profile == nil {
		return IdentityMatch{}, err
	}
	user, err := repo.GetByID(profile.UserID)
	if err != nil || user == nil {
		return IdentityMatch{}, err
	}
	return IdentityMatch{Kind: FoundByProviderID, User: user, Profile: profile}, nil
}

func matchByEmail(repo repository.UserRepository, claim IdentityClaim) (IdentityMatch, error) {
	if strings.TrimSpace(claim.Email) == "" {
		return IdentityMatch{}, nil
	}
	user, err := repo.GetByEmail(claim.Email)
	if err != nil || user == nil {
		return IdentityMatch{}, err
	}
	return IdentityMatch{Kind: FoundByEmail, User: user}, nil
}

func matchByLegacyProviderUsername(repo repository.UserRepository, claim IdentityClaim) (IdentityMatch, error) {
	if claim.Provider == "" || claim.ProviderID == "" {
		return IdentityMatch{}, nil
	}
	user, err := repo.GetByUsername(providerUsername(claim.Provider, claim.ProviderID))
	if err != nil || user == nil {
		return IdentityMatch{}, err
	}
	return IdentityMatch{Kind: FoundByLegacyUsername, User: user}, nil
}

func providerUsername(provider, providerID string) string {
	prefix := provider
	if provider == constants.OAuthProviderFacebook {
		prefix = "fb"
	}
	return prefix + "_" + providerID
}

// IdentityResolver 将各登录渠道的身份声明合并到同一用户
type IdentityResolver struct {
	userRepo repository.UserRepository
	db       *gorm.DB
}

// NewIdentityResolver 创建身份解析器
func NewIdentityResolver(userRepo repository.UserRepository, db *gorm.DB) *IdentityResolver {
	return &IdentityResolver{userRepo: userRepo, db: db}
}

// Resolve 依次执行匹配规则，返回首个命中结果
func Resolve(repo repository.UserRepository, strategies []IdentityStrategy, claim IdentityClaim) (IdentityMatch, error) {
	for _, strategy := range strategies {
		match, err := strategy.Match(repo, claim)
		if err != nil {
			return IdentityMatch{}, err
		}
		if match.Kind != NotFound && match.User != nil {
			return match, nil
		}
	}
	return IdentityMatch{Kind: NotFound}, nil
}

func (r *IdentityResolver) withTx(fn func(repo *repository.GormUserRepository) error) error {
	if r.db == nil {
		if gormRepo, ok := r.userRepo.(*repository.GormUserRepository); ok {
			return fn(gormRepo)
		}
		return fmt.Errorf("identity resolver requires gorm repository")
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(repository.NewUserRepository(tx))
	})
}

// ResolvePhone 手机号登录：查找或创建用户，并把手机号写入资料；命中员工账号时不做任何写入
func (r *IdentityResolver) ResolvePhone(phone string) (*models.User, IdentityMatchKind, error) {
	var user *models.User
	var kind IdentityMatchKind
	err := r.withTx(func(repo *repository.GormUserRepository) error {
		match, err := Resolve(repo, PhoneStrategies(), IdentityClaim{Phone: phone})
		if err != nil {
			return err
		}
		if match.User != nil && match.User.IsStaff {
			return ErrAdminLoginForbidden
		}
		kind = match.Kind
		digits := localPhoneDigits(phone)

		switch match.Kind {
		case FoundByPhone:
			user = match.User
			user.Profile = match.Profile
			if isLegacyPhoneUsername(user.Username) {
				if err := renameToPhoneDigits(repo, user, digits); err != nil {
					return err
				}
			}
			return nil
		case FoundByLegacyUsername:
			user = match.User
			if user.Username != digits {
				if err := renameToPhoneDigits(repo, user, digits); err != nil {
					return err
				}
			}
		default:
			user = &models.User{
				Username: digits,
				Status:   constants.UserStatusActive,
			}
			if err := repo.Create(user); err != nil {
				return err
			}
		}

		profile, err := ensureProfile(repo, user.ID)
		if err != nil {
			return err
		}
		if profile.PhoneValue() == "" {
			value := phone
			profile.Phone = &value
			if err := repo.SaveProfile(profile); err != nil {
				return err
			}
		}
		user.Profile = profile
		return nil
	})
	if err != nil {
		return nil, NotFound, err
	}
	logger.Infow("identity_resolved", "channel", "phone", "match", kind.String(), "user_id", user.ID)
	return user, kind, nil
}

// ResolveProvider 第三方登录：查找或创建用户，补全空白资料并绑定第三方 ID；员工账号直接拒绝
func (r *IdentityResolver) ResolveProvider(claim IdentityClaim) (*models.User, IdentityMatchKind, error) {
	var user *models.User
	var kind IdentityMatchKind
	err := r.withTx(func(repo *repository.GormUserRepository) error {
		match, err := Resolve(repo, ProviderStrategies(), claim)
		if err != nil {
			return err
		}
		if match.User != nil && match.User.IsStaff {
			return ErrAdminLoginForbidden
		}
		kind = match.Kind
		user = match.User
		if user == nil {
			username, err := uniqueUsername(repo, providerBaseUsername(claim))
			if err != nil {
				return err
			}
			user = &models.User{
				Username:  username,
				Email:     strings.TrimSpace(claim.Email),
				FirstName: strings.TrimSpace(claim.FirstName),
				LastName:  strings.TrimSpace(claim.LastName),
				Status:    constants.UserStatusActive,
			}
			if err := repo.Create(user); err != nil {
				return err
			}
		}

		fields := backfillUser(user, claim)
		if len(fields) > 0 {
			fields["updated_at"] = time.Now()
			if err := repo.UpdateFields(user.ID, fields); err != nil {
				return err
			}
		}

		profile := match.Profile
		if profile == nil {
			if profile, err = ensureProfile(repo, user.ID); err != nil {
				return err
			}
		}
		if claim.ProviderID != "" && profile.ProviderID(claim.Provider) == "" {
			profile.SetProviderID(claim.Provider, claim.ProviderID)
			if err := repo.SaveProfile(profile); err != nil {
				return err
			}
		}
		user.Profile = profile
		return nil
	})
	if err != nil {
		return nil, NotFound, err
	}
	logger.Infow("identity_resolved", "channel", claim.Provider, "match", kind.String(), "user_id", user.ID)
	return user, kind, nil
}

func renameToPhoneDigits(repo repository.UserRepository, user *models.User, digits string) error {
	if len(digits) != 10 || user.Username == digits {
		return nil
	}
	taken, err := repo.UsernameExists(digits)
	if err != nil || taken {
		return err
	}
	if err := repo.UpdateFields(user.ID, map[string]interface{}{"username": digits}); err != nil {
		return err
	}
	user.Username = digits
	return nil
}

func ensureProfile(repo repository.UserRepository, userID uint) (*models.UserProfile, error) {
	profile, err := repo.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}
	profile = &models.UserProfile{UserID: userID}
	if err := repo.SaveProfile(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// backfillUser 只填充空白字段，不覆盖已有值
func backfillUser(user *models.User, claim IdentityClaim) map[string]interface{} {
	fields := map[string]interface{}{}
	if strings.TrimSpace(user.FirstName) == "" && strings.TrimSpace(claim.FirstName) != "" {
		user.FirstName = strings.TrimSpace(claim.FirstName)
		fields["first_name"] = user.FirstName
	}
	if strings.TrimSpace(user.LastName) == "" && strings.TrimSpace(claim.LastName) != "" {
		user.LastName = strings.TrimSpace(claim.LastName)
		fields["last_name"] = user.LastName
	}
	if strings.TrimSpace(user.Email) == "" && strings.TrimSpace(claim.Email) != "" {
		user.Email = strings.TrimSpace(claim.Email)
		fields["email"] = user.Email
	}
	return fields
}

func providerBaseUsername(claim IdentityClaim) string {
	email := strings.TrimSpace(claim.Email)
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return providerUsername(claim.Provider, claim.ProviderID)
}

// uniqueUsername 用户名冲突时追加数字后缀
func uniqueUsername(repo repository.UserRepository, base string) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		base = "user"
	}
	candidate := base
	for n := 1; ; n++ {
		taken, err := repo.UsernameExists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, n)
	}
}
