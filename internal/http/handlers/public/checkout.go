package public

import (
	"errors"
	"strings"

	"github.com/ambava-store/internal/http/response"
	"github.com/ambava-store/internal/i18n"
	"github.com/ambava-store/internal/models"
	"github.com/ambava-store/internal/service"

	handlershared "github.com/ambava-store/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CheckoutRequest 下单请求，价格以服务端为准
type CheckoutRequest struct {
	Items         []service.CartLine    `json:"items"`
	Shipping      service.ShippingInput `json:"shipping"`
	Email         string                `json:"email"`
	SaveAddress   bool                  `json:"save_address"`
	PaymentMethod string                `json:"payment_method"`
	CouponCode    string                `json:"coupon_code"`
}

// PaymentVerifyRequest 收银台回调参数
type PaymentVerifyRequest struct {
	OrderNumber       string `json:"order_number"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// PaymentFailedRequest 收银台支付失败上报
type PaymentFailedRequest struct {
	OrderNumber string `json:"order_number"`
	Description string `json:"description"`
}

// ApplyCouponRequest 优惠券预览请求
type ApplyCouponRequest struct {
	Code      string          `json:"code" binding:"required"`
	CartTotal decimal.Decimal `json:"cart_total"`
}

// CheckoutResponse 下单响应
type CheckoutResponse struct {
	Order    *models.Order             `json:"order"`
	Razorpay *service.RazorpayCheckout `json:"razorpay,omitempty"`
	Fallback bool                      `json:"cod_fallback,omitempty"`
}

// CreateOrder 下单；在线支付时同时创建网关订单
func (h *Handler) CreateOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	result, err := h.OrderService.CreateOrder(c.Request.Context(), service.CheckoutInput{
		UserID:        userID,
		Items:         req.Items,
		Shipping:      req.Shipping,
		Email:         req.Email,
		SaveAddress:   req.SaveAddress,
		PaymentMethod: req.PaymentMethod,
		CouponCode:    req.CouponCode,
	})
	if err != nil {
		respondCheckoutError(c, err)
		return
	}

	locale := i18n.ResolveLocale(c)
	if !result.Online {
		response.SuccessWithMsg(c, i18n.T(locale, "msg.order_placed"), CheckoutResponse{Order: result.Order})
		return
	}

	intent, err := h.PaymentService.CreateIntent(c.Request.Context(), result.Order)
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.internal")
		return
	}
	if intent.Fallback {
		response.SuccessWithMsg(c, i18n.T(locale, "msg.order_cod_fallback"), CheckoutResponse{
			Order:    result.Order,
			Fallback: true,
		})
		return
	}
	response.SuccessWithMsg(c, i18n.T(locale, "msg.razorpay_created"), CheckoutResponse{
		Order:    result.Order,
		Razorpay: intent.Checkout,
	})
}

func respondCheckoutError(c *gin.Context, err error) {
	var stockErr *service.StockError
	if errors.As(err, &stockErr) {
		handlershared.RespondErrorf(c, response.CodeBadRequest, "error.insufficient_stock", nil, strings.Join(stockErr.Messages(), ", "))
		return
	}
	var missing *service.ProductNotFoundError
	if errors.As(err, &missing) {
		handlershared.RespondErrorf(c, response.CodeBadRequest, "error.product_not_found", nil, missing.Name)
		return
	}
	respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.internal")
}

// VerifyPayment 校验支付签名并确认订单
func (h *Handler) VerifyPayment(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req PaymentVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.payment_details_missing", nil)
		return
	}
	order, err := h.PaymentService.Verify(c.Request.Context(), userID, service.PaymentVerifyInput{
		OrderNumber:       req.OrderNumber,
		RazorpayOrderID:   req.RazorpayOrderID,
		RazorpayPaymentID: req.RazorpayPaymentID,
		RazorpaySignature: req.RazorpaySignature,
	})
	if err != nil {
		respondWithMappedError(c, err, paymentVerifyErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "msg.payment_success"), order)
}

// PaymentFailed 记录收银台支付失败
func (h *Handler) PaymentFailed(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req PaymentFailedRequest
	_ = c.ShouldBindJSON(&req)
	if err := h.PaymentService.MarkFailed(userID, req.OrderNumber, req.Description); err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "msg.payment_not_completed"), nil)
}

// ApplyCoupon 预览优惠券折扣，不核销
func (h *Handler) ApplyCoupon(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.coupon_not_found", nil)
		return
	}
	quote, err := h.CouponService.Preview(req.Code, req.CartTotal, userID)
	if err != nil {
		respondWithMappedError(c, err, couponErrorRules, response.CodeInternal, "error.internal")
		return
	}
	locale := i18n.ResolveLocale(c)
	response.SuccessWithMsg(c, i18n.Sprintf(locale, "msg.coupon_applied", quote.Discount.String()), quote)
}
