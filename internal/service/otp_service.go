package service

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"github.com/ambava-store/internal/cache"
	"github.com/ambava-store/internal/config"
	"github.com/ambava-store/internal/logger"
	"github.com/ambava-store/internal/models"
)

const (
	demoOTPCode              = "123456"
	defaultOTPTTLSeconds     = 300
	defaultOTPRateWindowSecs = 60
	defaultOTPLength         = 6
)

// OTPSender 短信验证码投递
type OTPSender interface {
	SendOTP(ctx context.Context, phone, code string) error
}

// LogOTPSender 仅记录日志的投递实现
type LogOTPSender struct{}

// SendOTP 记录验证码下发
func (LogOTPSender) SendOTP(_ context.Context, phone, code string) error {
	logger.Debugw("otp_delivery_logged", "phone", logger.MaskPhone(phone), "code_length", len(code))
	return nil
}

// OTPIssueResult 验证码下发结果
type OTPIssueResult struct {
	Phone     string `json:"phone"`
	ExpiresIn int    `json:"expires_in"`
	DemoCode  string `json:"demo_code,omitempty"`
}

// OTPService 手机验证码服务
type OTPService struct {
	cfg      config.OTPConfig
	store    cache.Store
	sender   OTPSender
	identity *IdentityResolver
}

// NewOTPService 创建验证码服务
func NewOTPService(cfg config.OTPConfig, store cache.Store, sender OTPSender, identity *IdentityResolver) *OTPService {
	if sender == nil {
		sender = LogOTPSender{}
	}
	return &OTPService{cfg: cfg, store: store, sender: sender, identity: identity}
}

func otpKey(phone string) string {
	return "otp:" + phone
}

func otpRateKey(phone string) string {
	return "otp_rate:" + phone
}

// RequestOTP 生成并下发验证码，同一手机号在限流窗口内只能请求一次
func (s *OTPService) RequestOTP(ctx context.Context, rawPhone string) (*OTPIssueResult, error) {
	raw := strings.TrimSpace(rawPhone)
	phone, err := NormalizePhone(raw)
	if err != nil {
		return nil, err
	}

	acquired, err := s.store.SetNX(ctx, otpRateKey(phone), "1", s.rateWindow())
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrOTPRateLimited
	}

	code := demoOTPCode
	if !s.cfg.DemoMode {
		if code, err = randomNumericCode(s.codeLength()); err != nil {
			return nil, err
		}
	}

	ttl := s.ttl()
	if err := s.store.Set(ctx, otpKey(phone), code, ttl); err != nil {
		return nil, err
	}
	if raw != "" && raw != phone {
		if err := s.store.Set(ctx, otpKey(raw), code, ttl); err != nil {
			return nil, err
		}
	}

	if err := s.sender.SendOTP(ctx, phone, code); err != nil {
		logger.Warnw("otp_delivery_failed", "phone", logger.MaskPhone(phone), "error", err)
	}
	logger.Infow("otp_issued", "phone", logger.MaskPhone(phone), "demo", s.cfg.DemoMode)

	result := &OTPIssueResult{Phone: phone, ExpiresIn: int(ttl / time.Second)}
	if s.cfg.DemoMode {
		result.DemoCode = code
	}
	return result, nil
}

// VerifyOTP 校验验证码（一次性），成功后解析或创建对应用户
func (s *OTPService) VerifyOTP(ctx context.Context, rawPhone, code string) (*models.User, error) {
	raw := strings.TrimSpace(rawPhone)
	fields := &ValidationError{}
	if raw == "" {
		fields.Add("phone", "Phone number is required.")
	}
	code = strings.TrimSpace(code)
	if code == "" {
		fields.Add("otp", "OTP is required.")
	}
	var phone string
	if raw != "" {
		normalized, err := NormalizePhone(raw)
		if err != nil {
			fields.Add("phone", "Enter a valid 10-digit phone number.")
		}
		phone = normalized
	}
	if err := fields.OrNil(); err != nil {
		return nil, err
	}

	stored, found, err := s.store.Get(ctx, otpKey(phone))
	if err != nil {
		return nil, err
	}
	if !found && raw != phone {
		if stored, found, err = s.store.Get(ctx, otpKey(raw)); err != nil {
			return nil, err
		}
	}
	if !found || stored != code {
		logger.Infow("otp_verify_failed", "phone", logger.MaskPhone(phone))
		return nil, ErrOTPInvalidOrExpired
	}

	keys := []string{otpKey(phone)}
	if raw != phone {
		keys = append(keys, otpKey(raw))
	}
	if err := s.store.Del(ctx, keys...); err != nil {
		return nil, err
	}

	user, _, err := s.identity.ResolvePhone(phone)
	if err != nil {
		return nil, err
	}
	if user.IsStaff {
		return nil, ErrAdminLoginForbidden
	}
	return user, nil
}

func (s *OTPService) ttl() time.Duration {
	seconds := s.cfg.TTLSeconds
	if seconds <= 0 {
		seconds = defaultOTPTTLSeconds
	}
	return time.Duration(seconds) * time.Second
}

func (s *OTPService) rateWindow() time.Duration {
	seconds := s.cfg.RateWindowSeconds
	if seconds <= 0 {
		seconds = defaultOTPRateWindowSecs
	}
	return time.Duration(seconds) * time.Second
}

func (s *OTPService) codeLength() int {
	if s.cfg.Length < 4 || s.cfg.Length > 10 {
		return defaultOTPLength
	}
	return s.cfg.Length
}

func randomNumericCode(length int) (string, error) {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
