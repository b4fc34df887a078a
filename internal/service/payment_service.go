package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ambava-store/internal/constants"
	"github.com/ambava-store/internal/logger"
	"github.com/ambava-store/internal/models"
	"github.com/ambava-store/internal/payment/razorpay"
	"github.com/ambava-store/internal/repository"

	"gorm.io/gorm"
)

const defaultMerchantName = "House of Ambava"

// PaymentGateway 在线支付网关
type PaymentGateway interface {
	KeyID() string
	Currency() string
	CreateOrder(ctx context.Context, input razorpay.CreateOrderInput) (*razorpay.CreateOrderResult, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// RazorpayPrefill 收银台预填信息
type RazorpayPrefill struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

// RazorpayCheckout 前端拉起收银台所需参数
type RazorpayCheckout struct {
	OrderID     string          `json:"order_id"`
	KeyID       string          `json:"key_id"`
	Amount      int64           `json:"amount"`
	Currency    string          `json:"currency"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Prefill     RazorpayPrefill `json:"prefill"`
}

// PaymentIntent 支付意图；Fallback 表示网关未配置已转为货到付款
type PaymentIntent struct {
	Fallback bool
	Checkout *RazorpayCheckout
}

// PaymentVerifyInput 收银台回传参数
type PaymentVerifyInput struct {
	OrderNumber       string `json:"order_number"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// PaymentService 支付服务
type PaymentService struct {
	db           *gorm.DB
	gateway      PaymentGateway
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	orders       *OrderService
	notifier     OrderNotifier
	merchantName string
}

// NewPaymentService 创建支付服务，gateway 为 nil 时在线支付降级为货到付款
func NewPaymentService(db *gorm.DB, gateway PaymentGateway, orderRepo repository.OrderRepository, productRepo repository.ProductRepository, orders *OrderService, notifier OrderNotifier, merchantName string) *PaymentService {
	if strings.TrimSpace(merchantName) == "" {
		merchantName = defaultMerchantName
	}
	return &PaymentService{
		db:           db,
		gateway:      gateway,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		orders:       orders,
		notifier:     notifier,
		merchantName: merchantName,
	}
}

// CreateIntent 为待支付订单创建网关订单
func (s *PaymentService) CreateIntent(ctx context.Context, order *models.Order) (*PaymentIntent, error) {
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if s.gateway == nil {
		order.PaymentMethod = constants.PaymentMethodCOD
		order.Status = constants.OrderStatusConfirmed
		order.PaymentStatus = constants.PaymentStatusPaid
		if err := s.saveAwaitingPayment(s.orderRepo, order); err != nil {
			return nil, err
		}
		logger.Warnw("payment_gateway_not_configured_cod_fallback", "order_number", order.OrderNumber)
		if s.notifier != nil {
			s.notifier.OrderPlaced(ctx, order)
		}
		return &PaymentIntent{Fallback: true}, nil
	}

	amount := order.Total.Paise()
	result, err := s.gateway.CreateOrder(ctx, razorpay.CreateOrderInput{
		AmountPaise: amount,
		Currency:    s.gateway.Currency(),
		Receipt:     order.OrderNumber,
		Notes: map[string]string{
			"order_number":   order.OrderNumber,
			"customer_email": order.ContactEmail,
		},
	})
	if err != nil {
		logger.Errorw("payment_gateway_create_failed",
			"order_number", order.OrderNumber,
			"error", err,
		)
		if delErr := s.orders.DeleteOrder(order.ID); delErr != nil {
			logger.Errorw("payment_gateway_rollback_failed",
				"order_number", order.OrderNumber,
				"error", delErr,
			)
		}
		return nil, fmt.Errorf("%w: %v", ErrPaymentGatewayFailed, err)
	}

	order.RazorpayOrderID = result.OrderID
	if err := s.saveAwaitingPayment(s.orderRepo, order); err != nil {
		return nil, err
	}
	currency := result.Currency
	if currency == "" {
		currency = s.gateway.Currency()
	}
	return &PaymentIntent{
		Checkout: &RazorpayCheckout{
			OrderID:     result.OrderID,
			KeyID:       s.gateway.KeyID(),
			Amount:      amount,
			Currency:    currency,
			Name:        s.merchantName,
			Description: "Order #" + order.OrderNumber,
			Prefill: RazorpayPrefill{
				Name:    order.ShippingFullName,
				Email:   order.ContactEmail,
				Contact: order.ShippingPhone,
			},
		},
	}, nil
}

// Verify 校验支付签名；签名无效时订单终止为 failed/cancelled 且不发邮件
func (s *PaymentService) Verify(ctx context.Context, userID uint, input PaymentVerifyInput) (*models.Order, error) {
	orderNumber := strings.TrimSpace(input.OrderNumber)
	rzpOrderID := strings.TrimSpace(input.RazorpayOrderID)
	paymentID := strings.TrimSpace(input.RazorpayPaymentID)
	signature := strings.TrimSpace(input.RazorpaySignature)
	if orderNumber == "" || rzpOrderID == "" || paymentID == "" || signature == "" {
		return nil, ErrPaymentDetailsMissing
	}

	order, err := s.orderRepo.GetByNumberAndUser(orderNumber, userID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.RazorpayOrderID != rzpOrderID {
		return nil, ErrOrderNotFound
	}
	if order.PaymentStatus == constants.PaymentStatusPaid && order.RazorpayPaymentID == paymentID {
		return order, nil
	}
	if !awaitingPayment(order) {
		return nil, ErrPaymentNotPending
	}
	if s.gateway == nil {
		return nil, fmt.Errorf("%w: gateway not configured", ErrPaymentGatewayFailed)
	}

	if !s.gateway.VerifySignature(rzpOrderID, paymentID, signature) {
		logger.Warnw("payment_signature_invalid",
			"order_number", order.OrderNumber,
			"razorpay_order_id", rzpOrderID,
		)
		if err := s.failOrder(order, ""); err != nil {
			return nil, err
		}
		return nil, ErrPaymentSignatureInvalid
	}

	order.RazorpayPaymentID = paymentID
	order.RazorpaySignature = signature
	order.PaymentStatus = constants.PaymentStatusPaid
	order.Status = constants.OrderStatusConfirmed
	if err := s.saveAwaitingPayment(s.orderRepo, order); err != nil {
		return nil, err
	}
	logger.Infow("payment_verified", "order_number", order.OrderNumber)
	if s.notifier != nil {
		s.notifier.OrderPlaced(ctx, order)
	}
	return order, nil
}

// MarkFailed 收银台支付失败，仅处理待支付订单；找不到订单也视为成功
func (s *PaymentService) MarkFailed(userID uint, orderNumber, description string) error {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil
	}
	order, err := s.orderRepo.GetByNumberAndUser(orderNumber, userID)
	if err != nil {
		logger.Warnw("payment_mark_failed_lookup_error", "order_number", orderNumber, "error", err)
		return nil
	}
	if order == nil || !awaitingPayment(order) {
		return nil
	}
	if err := s.failOrder(order, "Payment failed: "+strings.TrimSpace(description)); err != nil {
		logger.Warnw("payment_mark_failed_update_error", "order_number", orderNumber, "error", err)
	}
	return nil
}

// failOrder 支付失败终止订单，回补库存并释放优惠券核销
func (s *PaymentService) failOrder(order *models.Order, notes string) error {
	now := time.Now()
	order.PaymentStatus = constants.PaymentStatusFailed
	order.Status = constants.OrderStatusCancelled
	order.CancelledAt = &now
	if notes != "" {
		order.Notes = notes
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.saveAwaitingPayment(s.orderRepo.WithTx(tx), order); err != nil {
			return err
		}
		if err := restockItems(s.productRepo.WithTx(tx), order.Items); err != nil {
			return err
		}
		return s.orders.releaseCoupons(tx, order.ID)
	})
}

// awaitingPayment 订单待处理且待支付
func awaitingPayment(order *models.Order) bool {
	return order.Status == constants.OrderStatusPending && order.PaymentStatus == constants.PaymentStatusPending
}

// saveAwaitingPayment 以"待处理/待支付"为前提条件保存，订单已被取消或已支付时返回 ErrPaymentNotPending
func (s *PaymentService) saveAwaitingPayment(repo repository.OrderRepository, order *models.Order) error {
	saved, err := repo.UpdateIfState(order, constants.OrderStatusPending, constants.PaymentStatusPending)
	if err != nil {
		return err
	}
	if !saved {
		return ErrPaymentNotPending
	}
	return nil
}
