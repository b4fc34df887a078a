package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ambava-store/internal/config"
	"github.com/ambava-store/internal/constants"
	"github.com/ambava-store/internal/logger"
	"github.com/ambava-store/internal/models"
	"github.com/ambava-store/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	orderNumberPrefix       = "HOA-"
	OrderHistoryPageSize    = 10
	defaultFreeShippingFrom = 5000
	defaultShippingFee      = 199
)

var defaultOnlineMethods = []string{"razorpay", "upi", "card", "netbanking"}

// ShippingInput 结算收货信息
type ShippingInput struct {
	Label        string `json:"label" validate:"omitempty,oneof=home work other"`
	FullName     string `json:"full_name" validate:"notblank,max=100"`
	Phone        string `json:"phone" validate:"notblank,max=20"`
	AddressLine1 string `json:"address_line1" validate:"notblank,max=255"`
	AddressLine2 string `json:"address_line2" validate:"max=255"`
	City         string `json:"city" validate:"notblank,max=100"`
	State        string `json:"state" validate:"notblank,max=100"`
	Pincode      string `json:"pincode" validate:"pincode,max=10"`
}

// CheckoutInput 下单输入
type CheckoutInput struct {
	UserID        uint
	Items         []CartLine
	Shipping      ShippingInput
	Email         string
	SaveAddress   bool
	PaymentMethod string
	CouponCode    string
}

// CheckoutResult 下单结果，Online 表示需要继续走网关支付
type CheckoutResult struct {
	Order  *models.Order
	Online bool
}

// OrderService 订单账本服务
type OrderService struct {
	db              *gorm.DB
	cfg             config.CheckoutConfig
	orderRepo       repository.OrderRepository
	productRepo     repository.ProductRepository
	userRepo        repository.UserRepository
	addressRepo     repository.AddressRepository
	couponRepo      repository.CouponRepository
	couponUsageRepo repository.CouponUsageRepository
	notifier        OrderNotifier
}

// NewOrderService 创建订单服务
func NewOrderService(
	db *gorm.DB,
	cfg config.CheckoutConfig,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	addressRepo repository.AddressRepository,
	couponRepo repository.CouponRepository,
	couponUsageRepo repository.CouponUsageRepository,
	notifier OrderNotifier,
) *OrderService {
	return &OrderService{
		db:              db,
		cfg:             cfg,
		orderRepo:       orderRepo,
		productRepo:     productRepo,
		userRepo:        userRepo,
		addressRepo:     addressRepo,
		couponRepo:      couponRepo,
		couponUsageRepo: couponUsageRepo,
		notifier:        notifier,
	}
}

// IsOnlineMethod 判断支付方式是否走在线网关
func (s *OrderService) IsOnlineMethod(method string) bool {
	method = strings.ToLower(strings.TrimSpace(method))
	methods := s.cfg.OnlineMethods
	if len(methods) == 0 {
		methods = defaultOnlineMethods
	}
	for _, online := range methods {
		if strings.EqualFold(strings.TrimSpace(online), method) {
			return true
		}
	}
	return false
}

// ShippingCharge 小计达到包邮门槛免运费
func (s *OrderService) ShippingCharge(subtotal decimal.Decimal) decimal.Decimal {
	threshold := positiveOrDefault(s.cfg.FreeShippingThreshold, defaultFreeShippingFrom)
	if subtotal.GreaterThanOrEqual(decimal.NewFromInt(int64(threshold))) {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(positiveOrDefault(s.cfg.ShippingFee, defaultShippingFee)))
}

// CreateOrder 在一个事务内完成校验、定价、落库、扣库存与优惠券核销
func (s *OrderService) CreateOrder(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	if err := validateCheckoutInput(input); err != nil {
		return nil, err
	}
	online := s.IsOnlineMethod(input.PaymentMethod)

	var order *models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		cart, err := NewCartValidator(productRepo).Validate(input.Items)
		if err != nil {
			return err
		}

		if err := s.applyCheckoutSideEffects(tx, input); err != nil {
			return err
		}

		subtotal := cart.Subtotal.Decimal
		shipping := s.ShippingCharge(subtotal)
		quote, err := s.redeemCoupon(tx, input.CouponCode, cart.Subtotal, input.UserID)
		if err != nil {
			return err
		}
		discount := decimal.Zero
		couponCode := ""
		if quote != nil {
			discount = quote.Discount.Decimal
			couponCode = quote.Code
		}
		total := subtotal.Add(shipping).Sub(discount)
		if total.LessThan(decimal.Zero) {
			total = decimal.Zero
		}

		orderRepo := s.orderRepo.WithTx(tx)
		number, err := generateOrderNumber(orderRepo)
		if err != nil {
			return err
		}
		order = buildOrder(input, online)
		order.OrderNumber = number
		order.CouponCode = couponCode
		order.Subtotal = models.NewMoneyFromDecimal(subtotal)
		order.ShippingCharge = models.NewMoneyFromDecimal(shipping)
		order.DiscountAmount = models.NewMoneyFromDecimal(discount)
		order.Total = models.NewMoneyFromDecimal(total)

		items := make([]models.OrderItem, 0, len(cart.Lines))
		for _, line := range cart.Lines {
			productID := line.Product.ID
			items = append(items, models.OrderItem{
				ProductID:   &productID,
				ProductName: line.Name,
				Size:        line.Size,
				Quantity:    line.Quantity,
				Price:       line.UnitPrice,
				Total:       line.Total,
			})
		}
		if err := orderRepo.Create(order, items); err != nil {
			return err
		}

		if err := decrementStock(productRepo, cart.Lines); err != nil {
			return err
		}

		if quote != nil {
			usage := &models.CouponUsage{
				CouponID:       quote.Coupon.ID,
				UserID:         input.UserID,
				OrderID:        order.ID,
				DiscountAmount: quote.Discount,
			}
			if err := s.couponUsageRepo.WithTx(tx).Create(usage); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_created",
		"order_number", order.OrderNumber,
		"user_id", order.UserID,
		"payment_method", order.PaymentMethod,
		"total", order.Total.String(),
	)
	if !online && s.notifier != nil {
		s.notifier.OrderPlaced(ctx, order)
	}
	return &CheckoutResult{Order: order, Online: online}, nil
}

// redeemCoupon 核销优惠券；无效券按原样忽略，只有数据库错误才中断下单
func (s *OrderService) redeemCoupon(tx *gorm.DB, code string, subtotal models.Money, userID uint) (*CouponQuote, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, nil
	}
	coupons := NewCouponService(s.couponRepo, s.couponUsageRepo).WithTx(tx)
	quote, err := coupons.Apply(code, subtotal, userID)
	if err != nil {
		if errors.Is(err, ErrCouponInvalid) {
			logger.Debugw("order_coupon_ignored", "code", code, "reason", err.Error())
			return nil, nil
		}
		return nil, err
	}
	if !quote.Discount.GreaterThan(decimal.Zero) {
		return nil, nil
	}
	ok, err := s.couponRepo.WithTx(tx).IncrementUsedCount(quote.Coupon.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return quote, nil
}

// applyCheckoutSideEffects 回填空白资料、保存手机号与地址
func (s *OrderService) applyCheckoutSideEffects(tx *gorm.DB, input CheckoutInput) error {
	userRepo := s.userRepo.WithTx(tx)
	user, err := userRepo.GetByID(input.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	fields := map[string]interface{}{}
	first, last := splitFullName(input.Shipping.FullName)
	if strings.TrimSpace(user.FirstName) == "" && first != "" {
		fields["first_name"] = first
	}
	if strings.TrimSpace(user.LastName) == "" && last != "" {
		fields["last_name"] = last
	}
	email := strings.TrimSpace(input.Email)
	if strings.TrimSpace(user.Email) == "" && email != "" {
		fields["email"] = email
	}
	if len(fields) > 0 {
		if err := userRepo.UpdateFields(user.ID, fields); err != nil {
			return err
		}
	}

	if phone, err := NormalizePhone(input.Shipping.Phone); err == nil {
		profile, err := ensureProfile(userRepo, user.ID)
		if err != nil {
			return err
		}
		if profile.PhoneValue() == "" {
			taken, err := userRepo.PhoneTakenByOther(phone, user.ID)
			if err != nil {
				return err
			}
			if !taken {
				profile.Phone = &phone
				if err := userRepo.SaveProfile(profile); err != nil {
					return err
				}
			}
		}
	}

	if input.SaveAddress {
		addressRepo := s.addressRepo.WithTx(tx)
		count, err := addressRepo.CountByUser(user.ID)
		if err != nil {
			return err
		}
		label := strings.TrimSpace(input.Shipping.Label)
		if label == "" {
			label = constants.AddressLabelHome
		}
		address := &models.Address{
			UserID:       user.ID,
			Label:        label,
			FullName:     strings.TrimSpace(input.Shipping.FullName),
			Phone:        strings.TrimSpace(input.Shipping.Phone),
			AddressLine1: strings.TrimSpace(input.Shipping.AddressLine1),
			AddressLine2: strings.TrimSpace(input.Shipping.AddressLine2),
			City:         strings.TrimSpace(input.Shipping.City),
			State:        strings.TrimSpace(input.Shipping.State),
			Pincode:      strings.TrimSpace(input.Shipping.Pincode),
			IsDefault:    count == 0,
		}
		if err := addressRepo.Create(address); err != nil {
			return err
		}
	}
	return nil
}

// CancelOrder 用户取消订单，仅待处理/已确认可取消，取消后回补库存
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID uint, reason string) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	updated, events, err := s.applyTransition(order, constants.OrderStatusCancelled, TransitionInput{Reason: reason})
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.OrderEvents(ctx, updated, events)
	}
	return updated, nil
}

// StatusUpdateInput 员工更新订单状态
type StatusUpdateInput struct {
	Status            string     `json:"status" binding:"required"`
	TrackingNumber    string     `json:"tracking_number"`
	CourierName       string     `json:"courier_name"`
	EstimatedDelivery *time.Time `json:"estimated_delivery"`
	Reason            string     `json:"cancellation_reason"`
}

// UpdateStatus 员工推进订单状态，与用户取消共用状态机
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, input StatusUpdateInput) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	reason := input.Reason
	if strings.TrimSpace(reason) == "" {
		reason = "Cancelled by store"
	}
	updated, events, err := s.applyTransition(order, input.Status, TransitionInput{
		Reason:            reason,
		TrackingNumber:    input.TrackingNumber,
		CourierName:       input.CourierName,
		EstimatedDelivery: input.EstimatedDelivery,
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("order_status_updated",
		"order_number", updated.OrderNumber,
		"from", order.Status,
		"to", updated.Status,
	)
	if s.notifier != nil {
		s.notifier.OrderEvents(ctx, updated, events)
	}
	return updated, nil
}

func (s *OrderService) applyTransition(order *models.Order, status string, input TransitionInput) (*models.Order, []OrderEvent, error) {
	updated, events, err := Transition(*order, status, input)
	if err != nil {
		return nil, nil, err
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		saved, err := s.orderRepo.WithTx(tx).UpdateIfState(&updated, order.Status, "")
		if err != nil {
			return err
		}
		if !saved {
			return ErrOrderStatusConflict
		}
		if updated.Status == constants.OrderStatusCancelled && order.Status != constants.OrderStatusCancelled {
			return restockItems(s.productRepo.WithTx(tx), updated.Items)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &updated, events, nil
}

// DeleteOrder 撤销未支付订单：回补库存、回滚优惠券使用并删除订单
func (s *OrderService) DeleteOrder(orderID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		order, err := orderRepo.GetByID(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return nil
		}
		if err := restockItems(s.productRepo.WithTx(tx), order.Items); err != nil {
			return err
		}
		if err := s.releaseCoupons(tx, order.ID); err != nil {
			return err
		}
		return orderRepo.Delete(order.ID)
	})
}

// ListByUser 用户订单历史，每页 10 条
func (s *OrderService) ListByUser(userID uint, page int) ([]models.Order, int64, error) {
	page, pageSize := repository.NormalizePage(page, OrderHistoryPageSize, OrderHistoryPageSize)
	return s.orderRepo.ListByUser(repository.OrderListFilter{
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
	})
}

// Track 按订单号查询（忽略大小写）
func (s *OrderService) Track(userID uint, orderNumber string) (*models.Order, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByNumberAndUser(orderNumber, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListForStaff 员工端订单列表
func (s *OrderService) ListForStaff(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	filter.Page, filter.PageSize = repository.NormalizePage(filter.Page, filter.PageSize, 20)
	return s.orderRepo.ListAdmin(filter)
}

// GetForStaff 员工端订单详情
func (s *OrderService) GetForStaff(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func validateCheckoutInput(input CheckoutInput) error {
	fields := validateStruct(input.Shipping)
	if len(input.Items) == 0 {
		fields.Set("items", "Cart is empty.")
	}
	if strings.TrimSpace(input.Email) == "" {
		fields.Set("email", "Email is required.")
	}
	return fields.OrNil()
}

func buildOrder(input CheckoutInput, online bool) *models.Order {
	order := &models.Order{
		UserID:           input.UserID,
		Status:           constants.OrderStatusConfirmed,
		PaymentStatus:    constants.PaymentStatusPaid,
		PaymentMethod:    constants.PaymentMethodCOD,
		ShippingFullName: strings.TrimSpace(input.Shipping.FullName),
		ShippingPhone:    strings.TrimSpace(input.Shipping.Phone),
		ShippingAddress:  joinAddressLines(input.Shipping.AddressLine1, input.Shipping.AddressLine2),
		ShippingCity:     strings.TrimSpace(input.Shipping.City),
		ShippingState:    strings.TrimSpace(input.Shipping.State),
		ShippingPincode:  strings.TrimSpace(input.Shipping.Pincode),
		ContactEmail:     strings.TrimSpace(input.Email),
	}
	if online {
		order.Status = constants.OrderStatusPending
		order.PaymentStatus = constants.PaymentStatusPending
		order.PaymentMethod = constants.PaymentMethodRazorpay
	}
	return order
}

func decrementStock(productRepo repository.ProductRepository, lines []ValidatedLine) error {
	var shortages []StockLine
	for _, line := range lines {
		ok, err := productRepo.DecrementStock(line.Product.ID, line.Quantity)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		available := 0
		if current, err := productRepo.GetByID(line.Product.ID); err == nil && current != nil {
			available = current.StockQuantity
		}
		shortages = append(shortages, StockLine{
			Name:      line.Name,
			Requested: line.Quantity,
			Available: available,
		})
	}
	if len(shortages) > 0 {
		return &StockError{Lines: shortages}
	}
	return nil
}

func restockItems(productRepo repository.ProductRepository, items []models.OrderItem) error {
	for _, item := range items {
		if item.ProductID == nil {
			continue
		}
		if err := productRepo.IncrementStock(*item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// generateOrderNumber 生成 HOA- 加 8 位大写十六进制的订单号
func generateOrderNumber(orderRepo repository.OrderRepository) (string, error) {
	for i := 0; i < 5; i++ {
		raw := strings.ReplaceAll(uuid.NewString(), "-", "")
		number := orderNumberPrefix + strings.ToUpper(raw[:8])
		existing, err := orderRepo.GetByNumber(number)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return number, nil
		}
	}
	return "", errors.New("order number collision")
}

func joinAddressLines(line1, line2 string) string {
	joined := strings.TrimSpace(line1) + ", " + strings.TrimSpace(line2)
	return strings.TrimRight(joined, ", ")
}

// splitFullName 按首个空白拆分姓名
func splitFullName(fullName string) (string, string) {
	parts := strings.Fields(strings.TrimSpace(fullName))
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(fullName), parts[0]))
	return parts[0], rest
}

// releaseCoupons 删除订单的核销记录并回退对应优惠券的已用次数
func (s *OrderService) releaseCoupons(tx *gorm.DB, orderID uint) error {
	couponIDs, err := s.couponUsageRepo.WithTx(tx).ReleaseByOrder(orderID)
	if err != nil {
		return err
	}
	couponRepo := s.couponRepo.WithTx(tx)
	for _, couponID := range couponIDs {
		if err := couponRepo.DecrementUsedCount(couponID); err != nil {
			return err
		}
	}
	return nil
}
