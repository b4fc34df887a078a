package config

import (
	"fmt"
	"strings"

	"github.com/ambava-store/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	UserJWT  JWTConfig      `mapstructure:"user_jwt"`
	StaffJWT JWTConfig      `mapstructure:"staff_jwt"`
	Staff    StaffConfig    `mapstructure:"staff"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Queue    QueueConfig    `mapstructure:"queue"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Security SecurityConfig `mapstructure:"security"`
	OTP      OTPConfig      `mapstructure:"otp"`
	Email    EmailConfig    `mapstructure:"email"`
	Razorpay RazorpayConfig `mapstructure:"razorpay"`
	OAuth    OAuthConfig    `mapstructure:"oauth"`
	Checkout CheckoutConfig `mapstructure:"checkout"`
	Site     SiteConfig     `mapstructure:"site"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host                string `mapstructure:"host"`
	Port                string `mapstructure:"port"`
	Mode                string `mapstructure:"mode"`                  // debug / release
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`  // 读取请求超时
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"` // 需大于 Razorpay 下单超时
}

// Addr 监听地址
func (c ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // sqlite / postgres
	DSN    string             `mapstructure:"dsn"`
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// JWTConfig JWT 配置
type JWTConfig struct {
	SecretKey   string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// StaffConfig 默认员工账号，启动时按环境变量补齐
type StaffConfig struct {
	Username string `mapstructure:"username"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
	Role     string `mapstructure:"role"`
}

// Enabled 用户名与密码都提供时才创建默认员工
func (c StaffConfig) Enabled() bool {
	return strings.TrimSpace(c.Username) != "" && c.Password != ""
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	LoginRateLimit RateLimitConfig      `mapstructure:"login_rate_limit"`
	ReviewLimit    RateLimitConfig      `mapstructure:"review_rate_limit"`
	AuthRateLimit  RateLimitConfig      `mapstructure:"auth_rate_limit"` // 认证接口按 IP 限流
	PasswordReset  PasswordResetConfig  `mapstructure:"password_reset"`
	PasswordPolicy PasswordPolicyConfig `mapstructure:"password_policy"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxAttempts   int `mapstructure:"max_attempts"`
}

// PasswordResetConfig 密码重置配置
type PasswordResetConfig struct {
	Secret          string `mapstructure:"secret"`
	TokenTTLMinutes int    `mapstructure:"token_ttl_minutes"`
	IntervalSeconds int    `mapstructure:"interval_seconds"`
}

// PasswordPolicyConfig 密码策略配置
type PasswordPolicyConfig struct {
	MinLength      int     `mapstructure:"min_length"`
	RequireUpper   bool    `mapstructure:"require_upper"`
	RequireLower   bool    `mapstructure:"require_lower"`
	RequireNumber  bool    `mapstructure:"require_number"`
	RequireSpecial bool    `mapstructure:"require_special"`
	MinEntropyBits float64 `mapstructure:"min_entropy_bits"`
}

// OTPConfig 手机验证码配置
type OTPConfig struct {
	TTLSeconds        int  `mapstructure:"ttl_seconds"`
	RateWindowSeconds int  `mapstructure:"rate_window_seconds"`
	Length            int  `mapstructure:"length"`
	DemoMode          bool `mapstructure:"demo_mode"`
}

// EmailConfig 邮件服务配置
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	FromName string `mapstructure:"from_name"`
	UseTLS   bool   `mapstructure:"use_tls"`
	UseSSL   bool   `mapstructure:"use_ssl"`
}

// RazorpayConfig Razorpay 网关配置
type RazorpayConfig struct {
	KeyID          string `mapstructure:"key_id"`
	KeySecret      string `mapstructure:"key_secret"`
	Currency       string `mapstructure:"currency"`
	MerchantName   string `mapstructure:"merchant_name"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Configured 判断网关凭证是否齐全
func (c RazorpayConfig) Configured() bool {
	return strings.TrimSpace(c.KeyID) != "" && strings.TrimSpace(c.KeySecret) != ""
}

// OAuthConfig 第三方登录配置
type OAuthConfig struct {
	Google           OAuthClientConfig `mapstructure:"google"`
	Facebook         OAuthClientConfig `mapstructure:"facebook"`
	FrontendRedirect string            `mapstructure:"frontend_redirect"`
	TimeoutSeconds   int               `mapstructure:"timeout_seconds"`
}

// OAuthClientConfig 单个 OAuth 客户端配置
type OAuthClientConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

// CheckoutConfig 下单配置
type CheckoutConfig struct {
	FreeShippingThreshold int      `mapstructure:"free_shipping_threshold"`
	ShippingFee           int      `mapstructure:"shipping_fee"`
	OnlineMethods         []string `mapstructure:"online_methods"`
}

// SiteConfig 站点信息
type SiteConfig struct {
	Name    string `mapstructure:"name"`
	BaseURL string `mapstructure:"base_url"`
}

// Load 从 config.yml 加载配置
func Load() *Config {
	// .env 只补充尚未设置的环境变量
	if err := godotenv.Load(); err == nil {
		logger.Infow("config_dotenv_loaded")
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("./etc")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // razorpay.key_id -> RAZORPAY_KEY_ID

	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}

	return &cfg
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("server.read_timeout_seconds", 15)
	viper.SetDefault("server.write_timeout_seconds", 30)
	viper.SetDefault("log.dir", "")
	viper.SetDefault("log.filename", "app.log")
	viper.SetDefault("log.max_size_mb", 100)
	viper.SetDefault("log.max_backups", 7)
	viper.SetDefault("log.max_age_days", 30)
	viper.SetDefault("log.compress", true)
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "./db/ambava.db")
	viper.SetDefault("database.pool.max_open_conns", 1)
	viper.SetDefault("database.pool.max_idle_conns", 1)
	viper.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	viper.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	viper.SetDefault("user_jwt.secret", "user-change-me-in-production")
	viper.SetDefault("user_jwt.expire_hours", 168)
	viper.SetDefault("staff_jwt.secret", "staff-change-me-in-production")
	viper.SetDefault("staff_jwt.expire_hours", 12)
	viper.SetDefault("staff.username", "")
	viper.SetDefault("staff.email", "")
	viper.SetDefault("staff.password", "")
	viper.SetDefault("staff.role", "owner")
	viper.SetDefault("redis.enabled", true)
	viper.SetDefault("redis.host", "127.0.0.1")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.prefix", "hoa")
	viper.SetDefault("queue.enabled", true)
	viper.SetDefault("queue.host", "127.0.0.1")
	viper.SetDefault("queue.port", 6379)
	viper.SetDefault("queue.password", "")
	viper.SetDefault("queue.db", 1)
	viper.SetDefault("queue.concurrency", 10)
	viper.SetDefault("queue.queues", map[string]int{
		"default":  10,
		"critical": 5,
	})
	viper.SetDefault("cors.allowed_origins", []string{"*"})
	viper.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	viper.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Authorization",
		"Cache-Control",
		"X-Requested-With",
		"X-Locale",
	})
	viper.SetDefault("cors.allow_credentials", true)
	viper.SetDefault("cors.max_age", 600)
	viper.SetDefault("security.login_rate_limit.window_seconds", 900)
	viper.SetDefault("security.login_rate_limit.max_attempts", 5)
	viper.SetDefault("security.review_rate_limit.window_seconds", 3600)
	viper.SetDefault("security.review_rate_limit.max_attempts", 5)
	viper.SetDefault("security.auth_rate_limit.window_seconds", 60)
	viper.SetDefault("security.auth_rate_limit.max_attempts", 20)
	viper.SetDefault("security.password_reset.secret", "reset-change-me-in-production")
	viper.SetDefault("security.password_reset.token_ttl_minutes", 60)
	viper.SetDefault("security.password_reset.interval_seconds", 120)
	viper.SetDefault("security.password_policy.min_length", 6)
	viper.SetDefault("security.password_policy.require_upper", false)
	viper.SetDefault("security.password_policy.require_lower", false)
	viper.SetDefault("security.password_policy.require_number", false)
	viper.SetDefault("security.password_policy.require_special", false)
	viper.SetDefault("security.password_policy.min_entropy_bits", 0)
	viper.SetDefault("otp.ttl_seconds", 300)
	viper.SetDefault("otp.rate_window_seconds", 60)
	viper.SetDefault("otp.length", 6)
	viper.SetDefault("otp.demo_mode", false)
	viper.SetDefault("email.enabled", false)
	viper.SetDefault("email.host", "")
	viper.SetDefault("email.port", 587)
	viper.SetDefault("email.username", "")
	viper.SetDefault("email.password", "")
	viper.SetDefault("email.from", "noreply@houseofambava.com")
	viper.SetDefault("email.from_name", "House of Ambava")
	viper.SetDefault("email.use_tls", true)
	viper.SetDefault("email.use_ssl", false)
	viper.SetDefault("razorpay.key_id", "")
	viper.SetDefault("razorpay.key_secret", "")
	viper.SetDefault("razorpay.currency", "INR")
	viper.SetDefault("razorpay.merchant_name", "House of Ambava")
	viper.SetDefault("razorpay.timeout_seconds", 15)
	viper.SetDefault("oauth.google.client_id", "")
	viper.SetDefault("oauth.google.client_secret", "")
	viper.SetDefault("oauth.google.redirect_url", "")
	viper.SetDefault("oauth.facebook.client_id", "")
	viper.SetDefault("oauth.facebook.client_secret", "")
	viper.SetDefault("oauth.facebook.redirect_url", "")
	viper.SetDefault("oauth.frontend_redirect", "/")
	viper.SetDefault("oauth.timeout_seconds", 10)
	viper.SetDefault("checkout.free_shipping_threshold", 5000)
	viper.SetDefault("checkout.shipping_fee", 199)
	viper.SetDefault("checkout.online_methods", []string{"razorpay", "upi", "card", "netbanking"})
	viper.SetDefault("site.name", "House of Ambava")
	viper.SetDefault("site.base_url", "https://houseofambava.com")
}
