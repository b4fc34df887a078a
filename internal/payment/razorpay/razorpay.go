package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	rzp "github.com/razorpay/razorpay-go"
)

var (
	ErrConfigInvalid   = errors.New("razorpay config invalid")
	ErrRequestFailed   = errors.New("razorpay request failed")
	ErrResponseInvalid = errors.New("razorpay response invalid")
)

const (
	defaultCurrency = "INR"
	defaultTimeout  = 15 * time.Second
)

// Config Razorpay 渠道配置。
type Config struct {
	KeyID     string
	KeySecret string
	Currency  string
	Timeout   time.Duration
}

// Configured 密钥齐全才可下单
func (c Config) Configured() bool {
	return strings.TrimSpace(c.KeyID) != "" && strings.TrimSpace(c.KeySecret) != ""
}

// CreateOrderInput 创建网关订单输入。
type CreateOrderInput struct {
	AmountPaise int64
	Currency    string
	Receipt     string
	Notes       map[string]string
}

// CreateOrderResult 创建网关订单返回。
type CreateOrderResult struct {
	OrderID     string
	AmountPaise int64
	Currency    string
	Status      string
	Raw         map[string]interface{}
}

// OrderAPI 网关订单接口，对应 SDK 的 Order 资源
type OrderAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Client Razorpay 客户端
type Client struct {
	cfg    Config
	orders OrderAPI
}

// NewClient 使用官方 SDK 创建客户端，未配置密钥时返回 ErrConfigInvalid
func NewClient(cfg Config) (*Client, error) {
	cfg = normalizeConfig(cfg)
	if !cfg.Configured() {
		return nil, fmt.Errorf("%w: key_id and key_secret are required", ErrConfigInvalid)
	}
	sdk := rzp.NewClient(cfg.KeyID, cfg.KeySecret)
	return &Client{cfg: cfg, orders: sdk.Order}, nil
}

// NewClientWithAPI 使用自定义订单接口创建客户端
func NewClientWithAPI(cfg Config, orders OrderAPI) *Client {
	return &Client{cfg: normalizeConfig(cfg), orders: orders}
}

// KeyID 前端收银台使用的公钥
func (c *Client) KeyID() string {
	return c.cfg.KeyID
}

// Currency 默认币种
func (c *Client) Currency() string {
	return c.cfg.Currency
}

// CreateOrder 创建网关订单。SDK 不支持 context，超时由本方法控制。
func (c *Client) CreateOrder(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	receipt := strings.TrimSpace(input.Receipt)
	if receipt == "" {
		return nil, fmt.Errorf("%w: receipt is required", ErrConfigInvalid)
	}
	if input.AmountPaise <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrConfigInvalid)
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = c.cfg.Currency
	}

	notes := make(map[string]interface{}, len(input.Notes))
	for key, value := range input.Notes {
		notes[key] = value
	}
	data := map[string]interface{}{
		"amount":   input.AmountPaise,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}

	type createResponse struct {
		body map[string]interface{}
		err  error
	}
	done := make(chan createResponse, 1)
	go func() {
		body, err := c.orders.Create(data, nil)
		done <- createResponse{body: body, err: err}
	}()

	timer := time.NewTimer(c.cfg.Timeout)
	defer timer.Stop()
	var resp createResponse
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, ctx.Err())
	case <-timer.C:
		return nil, fmt.Errorf("%w: timeout after %s", ErrRequestFailed, c.cfg.Timeout)
	case resp = <-done:
	}
	if resp.err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, resp.err)
	}
	return parseOrderResponse(resp.body, currency)
}

// VerifySignature 校验收银台回传签名：HMAC-SHA256(secret, order_id|payment_id)
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(c.cfg.KeySecret, orderID, paymentID, signature)
}

// VerifySignature 常量时间比较签名
func VerifySignature(secret, orderID, paymentID, signature string) bool {
	if secret == "" || orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	expected := ComputeSignature(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature))))
}

// ComputeSignature 计算签名（十六进制）
func ComputeSignature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func parseOrderResponse(body map[string]interface{}, currency string) (*CreateOrderResult, error) {
	if body == nil {
		return nil, fmt.Errorf("%w: empty body", ErrResponseInvalid)
	}
	id, _ := body["id"].(string)
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: missing order id", ErrResponseInvalid)
	}
	result := &CreateOrderResult{
		OrderID:  id,
		Currency: currency,
		Raw:      body,
	}
	if value, ok := body["currency"].(string); ok && value != "" {
		result.Currency = value
	}
	if value, ok := body["status"].(string); ok {
		result.Status = value
	}
	switch amount := body["amount"].(type) {
	case float64:
		result.AmountPaise = int64(math.Round(amount))
	case int64:
		result.AmountPaise = amount
	case int:
		result.AmountPaise = int64(amount)
	}
	return result, nil
}

func normalizeConfig(cfg Config) Config {
	cfg.KeyID = strings.TrimSpace(cfg.KeyID)
	cfg.KeySecret = strings.TrimSpace(cfg.KeySecret)
	cfg.Currency = strings.ToUpper(strings.TrimSpace(cfg.Currency))
	if cfg.Currency == "" {
		cfg.Currency = defaultCurrency
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return cfg
}
