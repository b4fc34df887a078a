package oauth

import (
	"strings"
	"time"

	"github.com/ambava-store/internal/config"
	"github.com/ambava-store/internal/constants"
)

// Registry 已配置的登录提供方
type Registry struct {
	providers map[string]Provider
}

// NewRegistry 按配置注册提供方，缺少 client id/secret 的跳过
func NewRegistry(cfg config.OAuthConfig) *Registry {
	opts := Options{}
	if cfg.TimeoutSeconds > 0 {
		opts.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	registry := &Registry{providers: map[string]Provider{}}
	if clientConfigured(cfg.Google) {
		registry.Register(NewGoogle(cfg.Google, opts))
	}
	if clientConfigured(cfg.Facebook) {
		registry.Register(NewFacebook(cfg.Facebook, opts))
	}
	return registry
}

// Register 注册提供方
func (r *Registry) Register(provider Provider) {
	if r.providers == nil {
		r.providers = map[string]Provider{}
	}
	r.providers[provider.Name()] = provider
}

// Get 获取提供方
func (r *Registry) Get(name string) (Provider, bool) {
	if r == nil {
		return nil, false
	}
	provider, ok := r.providers[strings.ToLower(strings.TrimSpace(name))]
	return provider, ok
}

// Supported 是否为支持的提供方名称
func Supported(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case constants.OAuthProviderGoogle, constants.OAuthProviderFacebook:
		return true
	default:
		return false
	}
}

// DisplayName 展示名称
func DisplayName(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case constants.OAuthProviderGoogle:
		return "Google"
	case constants.OAuthProviderFacebook:
		return "Facebook"
	default:
		return name
	}
}

func clientConfigured(cfg config.OAuthClientConfig) bool {
	return strings.TrimSpace(cfg.ClientID) != "" && strings.TrimSpace(cfg.ClientSecret) != ""
}
