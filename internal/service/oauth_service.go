package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/ambava-store/internal/cache"
	"github.com/ambava-store/internal/constants"
	"github.com/ambava-store/internal/logger"
	"github.com/ambava-store/internal/models"
	"github.com/ambava-store/internal/oauth"
)

const oauthStateTTL = 10 * time.Minute

// OAuthProviderLookup 提供方查找
type OAuthProviderLookup interface {
	Get(name string) (oauth.Provider, bool)
}

// OAuthService 第三方登录编排：state 校验、换取资料、身份合并
type OAuthService struct {
	providers OAuthProviderLookup
	store     cache.Store
	identity  *IdentityResolver
}

// NewOAuthService 创建第三方登录服务
func NewOAuthService(providers OAuthProviderLookup, store cache.Store, identity *IdentityResolver) *OAuthService {
	return &OAuthService{providers: providers, store: store, identity: identity}
}

func oauthStateKey(state string) string {
	return "oauth_state:" + state
}

func (s *OAuthService) provider(name string) (oauth.Provider, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if !oauth.Supported(name) {
		return nil, ErrOAuthProviderUnsupported
	}
	provider, ok := s.providers.Get(name)
	if !ok {
		return nil, ErrOAuthNotConfigured
	}
	return provider, nil
}

// AuthURL 生成授权地址，state 一次性存入 KV
func (s *OAuthService) AuthURL(ctx context.Context, providerName string) (string, error) {
	provider, err := s.provider(providerName)
	if err != nil {
		return "", err
	}
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	state := hex.EncodeToString(buf)
	if err := s.store.Set(ctx, oauthStateKey(state), provider.Name(), oauthStateTTL); err != nil {
		return "", err
	}
	return provider.AuthCodeURL(state), nil
}

// CompleteOAuth 校验 state、换取资料并合并身份；员工账号绑定后拒绝登录
func (s *OAuthService) CompleteOAuth(ctx context.Context, providerName, state, code string) (*models.User, error) {
	provider, err := s.provider(providerName)
	if err != nil {
		return nil, err
	}
	if err := s.consumeState(ctx, provider.Name(), state); err != nil {
		return nil, err
	}

	profile, err := provider.Exchange(ctx, code)
	if err != nil {
		logger.Warnw("oauth_exchange_failed", "provider", provider.Name(), "error", err)
		return nil, fmt.Errorf("%w: %v", ErrOAuthExchange, err)
	}

	user, _, err := s.identity.ResolveProvider(IdentityClaim{
		Provider:   provider.Name(),
		ProviderID: profile.ID,
		Email:      profile.Email,
		FirstName:  profile.FirstName,
		LastName:   profile.LastName,
	})
	if err != nil {
		return nil, err
	}
	if user.IsStaff {
		return nil, ErrAdminLoginForbidden
	}
	if user.Status == constants.UserStatusDisabled {
		return nil, ErrUserDisabled
	}
	return user, nil
}

func (s *OAuthService) consumeState(ctx context.Context, providerName, state string) error {
	state = strings.TrimSpace(state)
	if state == "" {
		return ErrOAuthStateInvalid
	}
	stored, found, err := s.store.Get(ctx, oauthStateKey(state))
	if err != nil {
		return err
	}
	if !found || stored != providerName {
		return ErrOAuthStateInvalid
	}
	return s.store.Del(ctx, oauthStateKey(state))
}
