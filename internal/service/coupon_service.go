package service

import (
	"strings"
	"time"

	"github.com/ambava-store/internal/constants"
	"github.com/ambava-store/internal/models"
	"github.com/ambava-store/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const maxCouponCodeLength = 30

var maxCouponPreviewTotal = decimal.NewFromInt(10_000_000)

// CouponQuote 优惠券试算结果
type CouponQuote struct {
	Coupon   *models.Coupon `json:"-"`
	Code     string         `json:"code"`
	Discount models.Money   `json:"discount"`
	Summary  string         `json:"description"`
}

// CouponService 优惠券服务
type CouponService struct {
	couponRepo repository.CouponRepository
	usageRepo  repository.CouponUsageRepository
}

// NewCouponService 创建优惠券服务
func NewCouponService(couponRepo repository.CouponRepository, usageRepo repository.CouponUsageRepository) *CouponService {
	return &CouponService{
		couponRepo: couponRepo,
		usageRepo:  usageRepo,
	}
}

// WithTx 绑定事务
func (s *CouponService) WithTx(tx *gorm.DB) *CouponService {
	return &CouponService{
		couponRepo: s.couponRepo.WithTx(tx),
		usageRepo:  s.usageRepo.WithTx(tx),
	}
}

// Preview 前台试算，客户端金额限制在 [0, 10,000,000]，下单时会按服务端小计重算
func (s *CouponService) Preview(code string, clientTotal decimal.Decimal, userID uint) (*CouponQuote, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) > maxCouponCodeLength {
		code = code[:maxCouponCodeLength]
	}
	if code == "" {
		fields := &ValidationError{}
		fields.Add("code", "Please enter a coupon code.")
		return nil, fields
	}
	return s.Apply(code, models.NewMoneyFromDecimal(clampPreviewTotal(clientTotal)), userID)
}

// Apply 校验优惠券并计算折扣，折扣不超过订单金额
func (s *CouponService) Apply(code string, orderTotal models.Money, userID uint) (*CouponQuote, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, ErrCouponNotFound
	}

	coupon, err := s.couponRepo.GetByCode(trimmed)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	if err := s.checkValidity(coupon, orderTotal, userID, time.Now()); err != nil {
		return nil, err
	}

	discount := calculateCouponDiscount(coupon, orderTotal)
	return &CouponQuote{
		Coupon:   coupon,
		Code:     coupon.Code,
		Discount: discount,
		Summary:  couponSummary(coupon),
	}, nil
}

// checkValidity 依次校验：启用、时间窗口、总次数、门槛、每人次数
func (s *CouponService) checkValidity(coupon *models.Coupon, orderTotal models.Money, userID uint, now time.Time) error {
	if !coupon.IsActive {
		return ErrCouponInactive
	}
	if coupon.StartsAt != nil && now.Before(*coupon.StartsAt) {
		return ErrCouponNotStarted
	}
	if coupon.EndsAt != nil && now.After(*coupon.EndsAt) {
		return ErrCouponExpired
	}
	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return ErrCouponUsageLimit
	}
	if orderTotal.LessThan(coupon.MinOrderAmount.Decimal) {
		return ErrCouponMinAmount
	}
	if coupon.PerUserLimit > 0 && userID != 0 {
		count, err := s.usageRepo.CountByUser(coupon.ID, userID)
		if err != nil {
			return err
		}
		if int(count) >= coupon.PerUserLimit {
			return ErrCouponPerUserLimit
		}
	}
	return nil
}

func calculateCouponDiscount(coupon *models.Coupon, orderTotal models.Money) models.Money {
	discount := decimal.Zero
	switch strings.ToLower(strings.TrimSpace(coupon.Type)) {
	case constants.CouponTypePercent:
		discount = orderTotal.Mul(coupon.Value.Decimal).Div(decimal.NewFromInt(100))
		if coupon.MaxDiscount.GreaterThan(decimal.Zero) && discount.GreaterThan(coupon.MaxDiscount.Decimal) {
			discount = coupon.MaxDiscount.Decimal
		}
	case constants.CouponTypeFixed:
		discount = coupon.Value.Decimal
	}
	if discount.LessThan(decimal.Zero) {
		discount = decimal.Zero
	}
	if discount.GreaterThan(orderTotal.Decimal) {
		discount = orderTotal.Decimal
	}
	return models.NewMoneyFromDecimal(discount)
}

func couponSummary(coupon *models.Coupon) string {
	if desc := strings.TrimSpace(coupon.Description); desc != "" {
		return desc
	}
	if strings.EqualFold(coupon.Type, constants.CouponTypePercent) {
		return coupon.Code + " - " + coupon.Value.Decimal.String() + "% off"
	}
	return coupon.Code + " - ₹" + coupon.Value.Decimal.StringFixed(0) + " off"
}

func clampPreviewTotal(total decimal.Decimal) decimal.Decimal {
	if total.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if total.GreaterThan(maxCouponPreviewTotal) {
		return maxCouponPreviewTotal
	}
	return total
}
