package provider

import (
	"time"

	"github.com/ambava-store/internal/authz"
	"github.com/ambava-store/internal/cache"
	"github.com/ambava-store/internal/config"
	"github.com/ambava-store/internal/logger"
	"github.com/ambava-store/internal/models"
	"github.com/ambava-store/internal/oauth"
	"github.com/ambava-store/internal/payment/razorpay"
	"github.com/ambava-store/internal/queue"
	"github.com/ambava-store/internal/repository"
	"github.com/ambava-store/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	Store       cache.Store
	QueueClient *queue.Client

	// Repositories
	UserRepo        repository.UserRepository
	ProductRepo     repository.ProductRepository
	OrderRepo       repository.OrderRepository
	AddressRepo     repository.AddressRepository
	CouponRepo      repository.CouponRepository
	CouponUsageRepo repository.CouponUsageRepository
	ReviewRepo      repository.ReviewRepository
	WishlistRepo    repository.WishlistRepository
	ReturnRepo      repository.ReturnRepository

	// Services
	AuthzService        *authz.Service
	StaffAuthService    *service.StaffAuthService
	UserAuthService     *service.UserAuthService
	EmailService        *service.EmailService
	NotificationService *service.NotificationService
	IdentityResolver    *service.IdentityResolver
	OTPService          *service.OTPService
	OAuthService        *service.OAuthService
	CouponService       *service.CouponService
	OrderService        *service.OrderService
	PaymentService      *service.PaymentService
	AddressService      *service.AddressService
	WishlistService     *service.WishlistService
	ReviewService       *service.ReviewService
	ReturnService       *service.ReturnService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// KV 存储：Redis 不可用时退回进程内存储
	store := cache.NewStore(&cfg.Redis)

	// 队列未启用时返回禁用的客户端，通知改为内联发送
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	c := &Container{
		Config:      cfg,
		Store:       store,
		QueueClient: queueClient,
	}
	c.initRepositories()
	c.initServices()
	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.AddressRepo = repository.NewAddressRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.CouponUsageRepo = repository.NewCouponUsageRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
	c.WishlistRepo = repository.NewWishlistRepository(db)
	c.ReturnRepo = repository.NewReturnRepository(db)
}

func (c *Container) initServices() {
	db := models.DB
	cfg := c.Config

	authzService, err := authz.NewService(db)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.EmailService = service.NewEmailService(&cfg.Email, cfg.Site)
	c.NotificationService = service.NewNotificationService(c.EmailService, c.QueueClient, c.OrderRepo, c.UserRepo)
	c.StaffAuthService = service.NewStaffAuthService(cfg, c.UserRepo, c.Store, c.AuthzService)
	c.UserAuthService = service.NewUserAuthService(cfg, c.UserRepo, c.Store, c.EmailService)
	c.IdentityResolver = service.NewIdentityResolver(c.UserRepo, db)
	c.OTPService = service.NewOTPService(cfg.OTP, c.Store, service.LogOTPSender{}, c.IdentityResolver)
	c.OAuthService = service.NewOAuthService(oauth.NewRegistry(cfg.OAuth), c.Store, c.IdentityResolver)
	c.CouponService = service.NewCouponService(c.CouponRepo, c.CouponUsageRepo)
	c.OrderService = service.NewOrderService(db, cfg.Checkout, c.OrderRepo, c.ProductRepo, c.UserRepo, c.AddressRepo, c.CouponRepo, c.CouponUsageRepo, c.NotificationService)
	c.PaymentService = service.NewPaymentService(db, c.paymentGateway(), c.OrderRepo, c.ProductRepo, c.OrderService, c.NotificationService, cfg.Razorpay.MerchantName)
	c.AddressService = service.NewAddressService(db, c.AddressRepo)
	c.WishlistService = service.NewWishlistService(c.WishlistRepo, c.ProductRepo)
	c.ReviewService = service.NewReviewService(cfg.Security.ReviewLimit, c.Store, c.ReviewRepo, c.ProductRepo, c.OrderRepo)
	c.ReturnService = service.NewReturnService(c.ReturnRepo, c.OrderRepo)
}

// paymentGateway 未配置密钥时返回 nil 接口，下单自动转为货到付款
func (c *Container) paymentGateway() service.PaymentGateway {
	rzpCfg := c.Config.Razorpay
	if !rzpCfg.Configured() {
		logger.Infow("provider_razorpay_not_configured", "fallback", "cod")
		return nil
	}
	client, err := razorpay.NewClient(razorpay.Config{
		KeyID:     rzpCfg.KeyID,
		KeySecret: rzpCfg.KeySecret,
		Currency:  rzpCfg.Currency,
		Timeout:   time.Duration(rzpCfg.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		logger.Errorw("provider_init_razorpay_failed", "error", err)
		return nil
	}
	return client
}
