package public

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/ambava-store/internal/http/response"
	"github.com/ambava-store/internal/i18n"
	"github.com/ambava-store/internal/logger"
	"github.com/ambava-store/internal/models"
	"github.com/ambava-store/internal/oauth"
	"github.com/ambava-store/internal/service"

	handlershared "github.com/ambava-store/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

// SendOTPRequest 发送验证码请求
type SendOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// VerifyOTPRequest 验证码登录请求
type VerifyOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

// LoginRequest 账号密码登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// PasswordResetRequest 申请重置密码
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required"`
}

// PasswordResetConfirmRequest 确认重置密码
type PasswordResetConfirmRequest struct {
	UID             string `json:"uid" binding:"required"`
	Token           string `json:"token" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// SendOTP 发送手机验证码
func (h *Handler) SendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_phone", nil)
		return
	}
	result, err := h.OTPService.RequestOTP(c.Request.Context(), req.Phone)
	if err != nil {
		respondWithMappedError(c, err, otpErrorRules, response.CodeInternal, "error.internal")
		return
	}
	locale := i18n.ResolveLocale(c)
	response.SuccessWithMsg(c, i18n.Sprintf(locale, "msg.otp_sent", logger.MaskPhone(result.Phone)), result)
}

// VerifyOTP 校验验证码并登录
func (h *Handler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.otp_invalid", nil)
		return
	}
	user, err := h.OTPService.VerifyOTP(c.Request.Context(), req.Phone, req.OTP)
	if err != nil {
		respondWithMappedError(c, err, otpErrorRules, response.CodeInternal, "error.internal")
		return
	}
	h.respondSession(c, user, "msg.login_welcome")
}

// Login 账号密码登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_credentials", nil)
		return
	}
	session, err := h.UserAuthService.Login(c.Request.Context(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		var limited *service.LoginRateLimitedError
		if errors.As(err, &limited) {
			handlershared.RespondErrorf(c, response.CodeTooManyRequests, "error.login_rate_limited", nil, limited.RetryMinutes())
			return
		}
		respondWithMappedError(c, err, loginErrorRules, response.CodeInternal, "error.internal")
		return
	}
	locale := i18n.ResolveLocale(c)
	response.SuccessWithMsg(c, i18n.Sprintf(locale, "msg.login_welcome", displayName(session.User)), session)
}

// Signup 注册并直接登录
func (h *Handler) Signup(c *gin.Context) {
	var req service.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	session, err := h.UserAuthService.Signup(c.Request.Context(), req)
	if err != nil {
		respondWithMappedError(c, err, nil, response.CodeInternal, "error.internal")
		return
	}
	locale := i18n.ResolveLocale(c)
	response.SuccessWithMsg(c, i18n.Sprintf(locale, "msg.signup_welcome", displayName(session.User)), session)
}

// OAuthStart 跳转到第三方授权页
func (h *Handler) OAuthStart(c *gin.Context) {
	providerName := strings.ToLower(c.Param("provider"))
	authURL, err := h.OAuthService.AuthURL(c.Request.Context(), providerName)
	if err != nil {
		if errors.Is(err, service.ErrOAuthNotConfigured) {
			handlershared.RespondErrorf(c, response.CodeBadRequest, "error.oauth_not_configured", nil, oauth.DisplayName(providerName))
			return
		}
		respondWithMappedError(c, err, oauthErrorRules, response.CodeInternal, "error.internal")
		return
	}
	c.Redirect(http.StatusFound, authURL)
}

// OAuthCallback 处理授权回调，签发会话后带 token 跳回前端
func (h *Handler) OAuthCallback(c *gin.Context) {
	providerName := strings.ToLower(c.Param("provider"))
	if errParam := strings.TrimSpace(c.Query("error")); errParam != "" {
		requestLog(c).Infow("oauth_callback_denied", "provider", providerName, "error", errParam)
		h.redirectOAuthFailure(c, providerName)
		return
	}
	user, err := h.OAuthService.CompleteOAuth(c.Request.Context(), providerName, c.Query("state"), c.Query("code"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOAuthProviderUnsupported):
			respondError(c, response.CodeNotFound, "error.oauth_unsupported", nil)
		case errors.Is(err, service.ErrOAuthNotConfigured):
			handlershared.RespondErrorf(c, response.CodeBadRequest, "error.oauth_not_configured", nil, oauth.DisplayName(providerName))
		default:
			requestLog(c).Warnw("oauth_callback_failed", "provider", providerName, "error", err)
			h.redirectOAuthFailure(c, providerName)
		}
		return
	}
	session, err := h.UserAuthService.IssueSession(c.Request.Context(), user)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	target := h.Config.OAuth.FrontendRedirect
	if strings.TrimSpace(target) == "" {
		response.Success(c, session)
		return
	}
	c.Redirect(http.StatusFound, appendQuery(target, url.Values{
		"token":    {session.Token},
		"provider": {providerName},
	}))
}

func (h *Handler) redirectOAuthFailure(c *gin.Context, providerName string) {
	target := h.Config.OAuth.FrontendRedirect
	if strings.TrimSpace(target) == "" {
		handlershared.RespondErrorf(c, response.CodeBadRequest, "error.oauth_failed", nil, oauth.DisplayName(providerName))
		return
	}
	c.Redirect(http.StatusFound, appendQuery(target, url.Values{
		"error":    {"oauth_failed"},
		"provider": {providerName},
	}))
}

// RequestPasswordReset 申请重置密码，邮箱是否存在都返回同一提示
func (h *Handler) RequestPasswordReset(c *gin.Context) {
	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.UserAuthService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		respondWithMappedError(c, err, passwordResetErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "msg.reset_sent"), nil)
}

// ConfirmPasswordReset 使用邮件链接重置密码
func (h *Handler) ConfirmPasswordReset(c *gin.Context) {
	var req PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.reset_link_invalid", nil)
		return
	}
	err := h.UserAuthService.ConfirmPasswordReset(c.Request.Context(), service.PasswordResetConfirmInput{
		UID:             req.UID,
		Token:           req.Token,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		respondWithMappedError(c, err, passwordResetErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "msg.reset_done"), nil)
}

func (h *Handler) respondSession(c *gin.Context, user *models.User, msgKey string) {
	session, err := h.UserAuthService.IssueSession(c.Request.Context(), user)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	locale := i18n.ResolveLocale(c)
	response.SuccessWithMsg(c, i18n.Sprintf(locale, msgKey, displayName(user)), session)
}

func displayName(user *models.User) string {
	if user == nil {
		return ""
	}
	if name := strings.TrimSpace(user.FirstName); name != "" {
		return name
	}
	return user.Username
}

func appendQuery(target string, values url.Values) string {
	parsed, err := url.Parse(target)
	if err != nil {
		return target
	}
	query := parsed.Query()
	for key, vals := range values {
		for _, v := range vals {
			query.Set(key, v)
		}
	}
	parsed.RawQuery = query.Encode()
	return parsed.String()
}
