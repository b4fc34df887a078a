package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ambava-store/internal/config"
	"github.com/ambava-store/internal/constants"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"
)

var (
	ErrProviderNotConfigured = errors.New("oauth provider not configured")
	ErrExchangeFailed        = errors.New("oauth code exchange failed")
	ErrProfileFailed         = errors.New("oauth profile fetch failed")
)

const (
	defaultTimeout     = 10 * time.Second
	googleProfileURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
	facebookProfileURL = "https://graph.facebook.com/me?fields=id,first_name,last_name,email"
	maxProfileBytes    = 1 << 20
)

// Profile 第三方返回的用户资料
type Profile struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
}

// Provider 第三方登录提供方
type Provider interface {
	Name() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*Profile, error)
}

// Options 提供方端点，测试时可替换
type Options struct {
	Endpoint   oauth2.Endpoint
	ProfileURL string
	Timeout    time.Duration
}

type oauth2Provider struct {
	name       string
	config     *oauth2.Config
	profileURL string
	timeout    time.Duration
	parse      func(body []byte) (*Profile, error)
}

// NewGoogle 创建 Google 登录
func NewGoogle(cfg config.OAuthClientConfig, opts Options) Provider {
	if opts.Endpoint.AuthURL == "" {
		opts.Endpoint = google.Endpoint
	}
	if opts.ProfileURL == "" {
		opts.ProfileURL = googleProfileURL
	}
	return newProvider(constants.OAuthProviderGoogle, cfg, []string{"openid", "email", "profile"}, opts, parseGoogleProfile)
}

// NewFacebook 创建 Facebook 登录
func NewFacebook(cfg config.OAuthClientConfig, opts Options) Provider {
	if opts.Endpoint.AuthURL == "" {
		opts.Endpoint = facebook.Endpoint
	}
	if opts.ProfileURL == "" {
		opts.ProfileURL = facebookProfileURL
	}
	return newProvider(constants.OAuthProviderFacebook, cfg, []string{"email", "public_profile"}, opts, parseFacebookProfile)
}

func newProvider(name string, cfg config.OAuthClientConfig, scopes []string, opts Options, parse func([]byte) (*Profile, error)) *oauth2Provider {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &oauth2Provider{
		name: name,
		config: &oauth2.Config{
			ClientID:     strings.TrimSpace(cfg.ClientID),
			ClientSecret: strings.TrimSpace(cfg.ClientSecret),
			RedirectURL:  strings.TrimSpace(cfg.RedirectURL),
			Scopes:       scopes,
			Endpoint:     opts.Endpoint,
		},
		profileURL: opts.ProfileURL,
		timeout:    timeout,
		parse:      parse,
	}
}

func (p *oauth2Provider) Name() string {
	return p.name
}

func (p *oauth2Provider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// Exchange 用授权码换取 token 并读取用户资料，任一步失败都不产生副作用
func (p *oauth2Provider) Exchange(ctx context.Context, code string) (*Profile, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: empty code", ErrExchangeFailed)
	}
	httpClient := &http.Client{Timeout: p.timeout}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.profileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileFailed, err)
	}
	resp, err := p.config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileFailed, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProfileBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrProfileFailed, resp.StatusCode)
	}
	profile, err := p.parse(body)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(profile.ID) == "" {
		return nil, fmt.Errorf("%w: missing account id", ErrProfileFailed)
	}
	return profile, nil
}

func parseGoogleProfile(body []byte) (*Profile, error) {
	var payload struct {
		ID         string `json:"id"`
		Email      string `json:"email"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileFailed, err)
	}
	return &Profile{
		ID:        strings.TrimSpace(payload.ID),
		Email:     strings.TrimSpace(payload.Email),
		FirstName: strings.TrimSpace(payload.GivenName),
		LastName:  strings.TrimSpace(payload.FamilyName),
	}, nil
}

func parseFacebookProfile(body []byte) (*Profile, error) {
	var payload struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileFailed, err)
	}
	return &Profile{
		ID:        strings.TrimSpace(payload.ID),
		Email:     strings.TrimSpace(payload.Email),
		FirstName: strings.TrimSpace(payload.FirstName),
		LastName:  strings.TrimSpace(payload.LastName),
	}, nil
}
