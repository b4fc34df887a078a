package router

import (
	"sort"
	"strings"

	"github.com/ambava-store/internal/authz"
	"github.com/ambava-store/internal/config"
	adminhandlers "github.com/ambava-store/internal/http/handlers/admin"
	publichandlers "github.com/ambava-store/internal/http/handlers/public"
	"github.com/ambava-store/internal/http/response"
	"github.com/ambava-store/internal/logger"
	"github.com/ambava-store/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	authLimit := cfg.Security.AuthRateLimit
	otpRule := RateLimitRule{
		Prefix:        "otp",
		WindowSeconds: authLimit.WindowSeconds,
		MaxRequests:   authLimit.MaxAttempts,
	}
	loginRule := RateLimitRule{
		Prefix:        "login",
		WindowSeconds: authLimit.WindowSeconds,
		MaxRequests:   authLimit.MaxAttempts,
	}
	staffLoginRule := RateLimitRule{
		Prefix:        "staff_login",
		WindowSeconds: authLimit.WindowSeconds,
		MaxRequests:   authLimit.MaxAttempts,
	}
	resetRule := RateLimitRule{
		Prefix:        "password_reset",
		WindowSeconds: authLimit.WindowSeconds,
		MaxRequests:   authLimit.MaxAttempts,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	userAuth := UserJWTAuthMiddleware(c.UserAuthService)
	optionalAuth := OptionalUserAuthMiddleware(c.UserAuthService)

	apiV1 := r.Group("/api/v1")
	{
		// 认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/otp/send", RateLimitMiddleware(c.Store, otpRule, KeyByIPAndJSONField("phone")), publicHandler.SendOTP)
			auth.POST("/otp/verify", RateLimitMiddleware(c.Store, otpRule, KeyByIP), publicHandler.VerifyOTP)
			auth.POST("/login", RateLimitMiddleware(c.Store, loginRule, KeyByIP), publicHandler.Login)
			auth.POST("/signup", RateLimitMiddleware(c.Store, loginRule, KeyByIP), publicHandler.Signup)
			auth.GET("/oauth/:provider", publicHandler.OAuthStart)
			auth.GET("/oauth/:provider/callback", publicHandler.OAuthCallback)
			auth.POST("/password/reset", RateLimitMiddleware(c.Store, resetRule, KeyByIPAndJSONField("email")), publicHandler.RequestPasswordReset)
			auth.POST("/password/reset/confirm", RateLimitMiddleware(c.Store, resetRule, KeyByIP), publicHandler.ConfirmPasswordReset)
		}

		// 公开接口
		apiV1.GET("/products/:id/reviews", publicHandler.ListProductReviews)
		apiV1.GET("/wishlist", optionalAuth, publicHandler.GetWishlist)

		// 顾客接口（需鉴权）
		user := apiV1.Group("")
		user.Use(userAuth)
		{
			user.GET("/me", publicHandler.GetCurrentUser)
			user.PUT("/me/profile", publicHandler.UpdateProfile)
			user.GET("/me/addresses", publicHandler.ListAddresses)
			user.POST("/me/addresses", publicHandler.CreateAddress)
			user.PUT("/me/addresses/:id", publicHandler.UpdateAddress)
			user.DELETE("/me/addresses/:id", publicHandler.DeleteAddress)

			user.POST("/checkout/orders", publicHandler.CreateOrder)
			user.POST("/checkout/payments/verify", publicHandler.VerifyPayment)
			user.POST("/checkout/payments/failed", publicHandler.PaymentFailed)
			user.POST("/coupons/apply", publicHandler.ApplyCoupon)

			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/track", publicHandler.TrackOrder)
			user.POST("/orders/:id/cancel", publicHandler.CancelOrder)

			user.GET("/returns", publicHandler.ListReturns)
			user.POST("/returns", publicHandler.CreateReturn)
			user.POST("/reviews", publicHandler.SubmitReview)
			user.POST("/wishlist/toggle", publicHandler.ToggleWishlist)
		}

		// 员工接口
		admin := apiV1.Group("/admin")
		{
			admin.POST("/auth/login", RateLimitMiddleware(c.Store, staffLoginRule, KeyByIPAndJSONField("username")), adminHandler.StaffLogin)

			authorized := admin.Group("")
			authorized.Use(StaffJWTAuthMiddleware(c.StaffAuthService, c.UserAuthService), StaffRBACMiddleware(c.AuthzService))
			{
				authorized.GET("/me", adminHandler.GetStaffMe)
				authorized.GET("/authz/permissions", func(ctx *gin.Context) {
					response.Success(ctx, buildStaffPermissionCatalog(r))
				})
				authorized.GET("/authz/roles", adminHandler.AdminListRoles)

				// 订单履约
				authorized.GET("/orders", adminHandler.AdminListOrders)
				authorized.GET("/orders/:id", adminHandler.AdminGetOrder)
				authorized.PATCH("/orders/:id/status", adminHandler.AdminUpdateOrderStatus)

				// 退换货
				authorized.GET("/returns", adminHandler.AdminListReturns)
				authorized.PATCH("/returns/:id", adminHandler.AdminReviewReturn)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type staffPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildStaffPermissionCatalog(engine *gin.Engine) []staffPermissionCatalogItem {
	if engine == nil {
		return []staffPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]staffPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		if item.Path == "/api/v1/admin/auth/login" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, staffPermissionCatalogItem{
			Module:     deriveStaffPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveStaffPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	if segments[1] == "authz" {
		return "authz"
	}
	return segments[1]
}
