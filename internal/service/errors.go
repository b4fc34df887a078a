package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrNotFound                  = errors.New("not found")
	ErrValidation                = errors.New("validation failed")
	ErrInvalidEmail              = errors.New("invalid email")
	ErrInvalidPhone              = errors.New("invalid phone number")
	ErrWeakPassword              = errors.New("weak password")
	ErrInvalidCredentials        = errors.New("invalid credentials")
	ErrUserDisabled              = errors.New("user disabled")
	ErrAdminLoginForbidden       = errors.New("staff accounts cannot sign in here")
	ErrLoginRateLimited          = errors.New("too many login attempts")
	ErrUsernameExists            = errors.New("username already taken")
	ErrEmailExists               = errors.New("email already registered")
	ErrPhoneExists               = errors.New("phone already linked to another account")
	ErrOTPRateLimited            = errors.New("otp requested too frequently")
	ErrOTPInvalidOrExpired       = errors.New("otp invalid or expired")
	ErrOAuthNotConfigured        = errors.New("oauth provider not configured")
	ErrOAuthProviderUnsupported  = errors.New("oauth provider unsupported")
	ErrOAuthStateInvalid         = errors.New("oauth state invalid")
	ErrOAuthExchange             = errors.New("oauth exchange failed")
	ErrCartEmpty                 = errors.New("cart is empty")
	ErrProductNotFound           = errors.New("product not found")
	ErrInsufficientStock         = errors.New("insufficient stock")
	ErrCouponInvalid             = errors.New("coupon invalid")
	ErrCouponNotFound            = fmt.Errorf("%w: not found", ErrCouponInvalid)
	ErrCouponInactive            = fmt.Errorf("%w: inactive", ErrCouponInvalid)
	ErrCouponNotStarted          = fmt.Errorf("%w: not started", ErrCouponInvalid)
	ErrCouponExpired             = fmt.Errorf("%w: expired", ErrCouponInvalid)
	ErrCouponUsageLimit          = fmt.Errorf("%w: usage limit reached", ErrCouponInvalid)
	ErrCouponPerUserLimit        = fmt.Errorf("%w: per user limit reached", ErrCouponInvalid)
	ErrCouponMinAmount           = fmt.Errorf("%w: order total below minimum", ErrCouponInvalid)
	ErrOrderNotFound             = errors.New("order not found")
	ErrOrderAlreadyShipped       = errors.New("order already shipped")
	ErrOrderCannotCancel         = errors.New("order cannot be cancelled")
	ErrOrderStatusInvalid        = errors.New("invalid order status transition")
	ErrOrderStatusConflict       = fmt.Errorf("%w: order changed concurrently", ErrOrderStatusInvalid)
	ErrPaymentGatewayFailed      = errors.New("payment gateway failed")
	ErrPaymentSignatureInvalid   = errors.New("payment signature invalid")
	ErrPaymentNotPending         = errors.New("order is not awaiting payment")
	ErrPaymentDetailsMissing     = errors.New("missing payment details")
	ErrAddressNotFound           = errors.New("address not found")
	ErrReturnNotAllowed          = errors.New("only delivered orders can be returned")
	ErrReturnExists              = errors.New("return request already open")
	ErrReturnItemInvalid         = errors.New("item does not belong to order")
	ErrReturnNotFound            = errors.New("return request not found")
	ErrReturnStatusInvalid       = errors.New("invalid return status transition")
	ErrReviewNotVerified         = errors.New("only verified purchasers can review")
	ErrReviewRateLimited         = errors.New("too many reviews")
	ErrPasswordResetTooFrequent  = errors.New("password reset requested too frequently")
	ErrResetLinkInvalid          = errors.New("invalid reset link")
	ErrResetTokenInvalid         = errors.New("reset link invalid or expired")
	ErrResetEmailFailed          = errors.New("failed to send reset email")
	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
)

// ValidationError 字段校验错误，一次返回全部字段信息
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+e.Fields[key])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is 匹配 ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Add 追加字段错误，同一字段保留首条
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; exists {
		return
	}
	e.Fields[field] = message
}

// Set 写入字段错误，覆盖已有信息
func (e *ValidationError) Set(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
}

// OrNil 无字段错误时返回 nil
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// StockLine 库存不足的行
type StockLine struct {
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// StockError 库存不足，列出全部不足的商品
type StockError struct {
	Lines []StockLine
}

func (e *StockError) Error() string {
	return "insufficient stock: " + strings.Join(e.Messages(), ", ")
}

// Is 匹配 ErrInsufficientStock
func (e *StockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// Messages 返回展示用文案，如 "Silk Saree (only 2 left)"
func (e *StockError) Messages() []string {
	messages := make([]string, 0, len(e.Lines))
	for _, line := range e.Lines {
		messages = append(messages, fmt.Sprintf("%s (only %d left)", line.Name, line.Available))
	}
	return messages
}

// ProductNotFoundError 购物车中的商品不存在或已下架
type ProductNotFoundError struct {
	Name string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %q not found", e.Name)
}

// Is 匹配 ErrProductNotFound
func (e *ProductNotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}

// LoginRateLimitedError 登录失败次数过多，RetryAfter 为剩余封禁时长
type LoginRateLimitedError struct {
	RetryAfter time.Duration
}

func (e *LoginRateLimitedError) Error() string {
	return fmt.Sprintf("too many login attempts, retry after %s", e.RetryAfter)
}

// Is 匹配 ErrLoginRateLimited
func (e *LoginRateLimitedError) Is(target error) bool {
	return target == ErrLoginRateLimited
}

// RetryMinutes 剩余分钟数，不足一分钟按一分钟
func (e *LoginRateLimitedError) RetryMinutes() int {
	minutes := int(e.RetryAfter / time.Minute)
	if minutes < 1 {
		return 1
	}
	return minutes
}
