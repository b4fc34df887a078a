package router

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/ambava-store/internal/authz"
	"github.com/ambava-store/internal/cache"
	"github.com/ambava-store/internal/config"
	"github.com/ambava-store/internal/constants"
	"github.com/ambava-store/internal/http/response"
	"github.com/ambava-store/internal/i18n"
	"github.com/ambava-store/internal/logger"
	"github.com/ambava-store/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
			"X-CSRF-Token",
			"X-Locale",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// UserTokenParser 解析顾客 token 并读取鉴权快照
type UserTokenParser interface {
	ParseUserJWT(tokenString string) (*service.UserJWTClaims, error)
	ResolveAuthState(ctx context.Context, userID uint) (*cache.UserAuthState, error)
}

// StaffTokenParser 解析员工 token
type StaffTokenParser interface {
	ParseJWT(tokenString string) (*service.StaffJWTClaims, error)
}

// StaffEnforcer 员工权限判定
type StaffEnforcer interface {
	EnforceStaff(userID uint, obj, act string) (bool, error)
}

// UserJWTAuthMiddleware 顾客 JWT 鉴权中间件；员工账号不能访问顾客接口
func UserJWTAuthMiddleware(parser UserTokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, key := authenticateUser(c, parser)
		if key != "" {
			abortUnauthorized(c, key)
			return
		}
		c.Set("user_id", userID)
		c.Next()
	}
}

// OptionalUserAuthMiddleware 可选鉴权：带合法 token 时写入 user_id，否则按游客继续
func OptionalUserAuthMiddleware(parser UserTokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.TrimSpace(c.GetHeader("Authorization")) == "" {
			c.Next()
			return
		}
		if userID, key := authenticateUser(c, parser); key == "" {
			c.Set("user_id", userID)
		}
		c.Next()
	}
}

// authenticateUser 校验顾客 token，失败时返回错误文案 key
func authenticateUser(c *gin.Context, parser UserTokenParser) (uint, string) {
	if parser == nil {
		return 0, "error.unauthorized"
	}
	tokenString, ok := bearerToken(c)
	if !ok {
		return 0, "error.unauthorized"
	}
	claims, err := parser.ParseUserJWT(tokenString)
	if err != nil || claims == nil || claims.UserID == 0 {
		return 0, "error.token_invalid"
	}
	state, err := parser.ResolveAuthState(c.Request.Context(), claims.UserID)
	if err != nil || state == nil {
		return 0, "error.token_invalid"
	}
	if state.IsStaff {
		return 0, "error.admin_login_forbidden"
	}
	if !isActiveUserStatus(state.Status) {
		return 0, "error.user_disabled"
	}
	if claims.TokenVersion != state.TokenVersion {
		return 0, "error.token_revoked"
	}
	return claims.UserID, ""
}

// StaffJWTAuthMiddleware 员工 JWT 鉴权中间件
func StaffJWTAuthMiddleware(parser StaffTokenParser, states UserTokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if parser == nil || states == nil {
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		tokenString, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		claims, err := parser.ParseJWT(tokenString)
		if err != nil || claims == nil || claims.StaffID == 0 {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		state, err := states.ResolveAuthState(c.Request.Context(), claims.StaffID)
		if err != nil || state == nil || !state.IsStaff {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		if !isActiveUserStatus(state.Status) {
			abortUnauthorized(c, "error.user_disabled")
			return
		}
		if claims.TokenVersion != state.TokenVersion {
			abortUnauthorized(c, "error.token_revoked")
			return
		}
		c.Set("staff_id", claims.StaffID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

// StaffRBACMiddleware 员工 RBAC 鉴权中间件，资源取路由模板
func StaffRBACMiddleware(enforcer StaffEnforcer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if enforcer == nil {
			logger.Errorw("staff_rbac_service_unavailable")
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		staffIDRaw, exists := c.Get("staff_id")
		staffID, _ := staffIDRaw.(uint)
		if !exists || staffID == 0 {
			abortUnauthorized(c, "error.unauthorized")
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}
		allowed, err := enforcer.EnforceStaff(staffID, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("staff_rbac_enforce_failed",
				"staff_id", staffID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		if !allowed {
			logger.Warnw("staff_rbac_permission_denied",
				"staff_id", staffID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"resource", authz.NormalizeObject(resource),
			)
			response.Forbidden(c, i18n.T(i18n.ResolveLocale(c), "error.forbidden"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func abortUnauthorized(c *gin.Context, key string) {
	response.Unauthorized(c, i18n.T(i18n.ResolveLocale(c), key))
	c.Abort()
}

func isActiveUserStatus(status string) bool {
	return strings.ToLower(strings.TrimSpace(status)) == constants.UserStatusActive
}
