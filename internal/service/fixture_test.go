package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ambava-store/internal/cache"
	"github.com/ambava-store/internal/config"
	"github.com/ambava-store/internal/constants"
	"github.com/ambava-store/internal/models"
	"github.com/ambava-store/internal/payment/razorpay"
	"github.com/ambava-store/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu     sync.Mutex
	placed []string
	events []OrderEvent
}

func (n *recordingNotifier) OrderPlaced(_ context.Context, order *models.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.placed = append(n.placed, order.OrderNumber)
}

func (n *recordingNotifier) OrderEvents(_ context.Context, _ *models.Order, events []OrderEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, events...)
}

func (n *recordingNotifier) placedCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.placed)
}

type fakeGateway struct {
	createErr  error
	orderID    string
	validSig   bool
	lastCreate razorpay.CreateOrderInput
}

func (g *fakeGateway) KeyID() string    { return "rzp_test_key" }
func (g *fakeGateway) Currency() string { return "INR" }

func (g *fakeGateway) CreateOrder(_ context.Context, input razorpay.CreateOrderInput) (*razorpay.CreateOrderResult, error) {
	g.lastCreate = input
	if g.createErr != nil {
		return nil, g.createErr
	}
	return &razorpay.CreateOrderResult{
		OrderID:     g.orderID,
		AmountPaise: input.AmountPaise,
		Currency:    "INR",
		Status:      "created",
	}, nil
}

func (g *fakeGateway) VerifySignature(_, _, _ string) bool {
	return g.validSig
}

type serviceFixture struct {
	db              *gorm.DB
	store           *cache.MemoryStore
	notifier        *recordingNotifier
	userRepo        *repository.GormUserRepository
	productRepo     *repository.GormProductRepository
	orderRepo       *repository.GormOrderRepository
	addressRepo     *repository.GormAddressRepository
	couponRepo      *repository.GormCouponRepository
	couponUsageRepo *repository.GormCouponUsageRepository
	orders          *OrderService
}

func setupServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Coupon{},
		&models.CouponUsage{},
		&models.Address{},
		&models.Review{},
		&models.Wishlist{},
		&models.ReturnExchange{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	f := &serviceFixture{
		db:              db,
		store:           cache.NewMemoryStore(),
		notifier:        &recordingNotifier{},
		userRepo:        repository.NewUserRepository(db),
		productRepo:     repository.NewProductRepository(db),
		orderRepo:       repository.NewOrderRepository(db),
		addressRepo:     repository.NewAddressRepository(db),
		couponRepo:      repository.NewCouponRepository(db),
		couponUsageRepo: repository.NewCouponUsageRepository(db),
	}
	f.orders = NewOrderService(db, config.CheckoutConfig{}, f.orderRepo, f.productRepo, f.userRepo, f.addressRepo, f.couponRepo, f.couponUsageRepo, f.notifier)
	return f
}

func (f *serviceFixture) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Status: constants.UserStatusActive}
	if err := f.db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func (f *serviceFixture) createProduct(t *testing.T, name string, price int64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:          name,
		Price:         models.NewMoneyFromInt(price),
		StockQuantity: stock,
		IsActive:      true,
	}
	if err := f.db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func (f *serviceFixture) createCoupon(t *testing.T, code, kind string, value int64) *models.Coupon {
	t.Helper()
	coupon := &models.Coupon{
		Code:     code,
		Type:     kind,
		Value:    models.NewMoneyFromInt(value),
		IsActive: true,
	}
	if err := f.db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	return coupon
}

func (f *serviceFixture) stockOf(t *testing.T, productID uint) int {
	t.Helper()
	var product models.Product
	if err := f.db.First(&product, productID).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	return product.StockQuantity
}

// createOrderWithStatus 直接落库一笔订单，绕过结算流程
func (f *serviceFixture) createOrderWithStatus(t *testing.T, userID uint, product *models.Product, quantity int, status string) *models.Order {
	t.Helper()
	total := models.NewMoneyFromDecimal(product.Price.Mul(decimal.NewFromInt(int64(quantity))))
	order := &models.Order{
		OrderNumber:      fmt.Sprintf("HOA-%08X", time.Now().UnixNano()&0xFFFFFFFF),
		UserID:           userID,
		Status:           status,
		PaymentStatus:    constants.PaymentStatusPaid,
		PaymentMethod:    constants.PaymentMethodCOD,
		ShippingFullName: "Priya Sharma",
		ShippingPhone:    "+919876543210",
		ShippingAddress:  "12 MG Road",
		ShippingCity:     "Jaipur",
		ShippingState:    "Rajasthan",
		ShippingPincode:  "302001",
		Subtotal:         total,
		Total:            total,
	}
	productID := product.ID
	items := []models.OrderItem{{
		ProductID:   &productID,
		ProductName: product.Name,
		Quantity:    quantity,
		Price:       product.Price,
		Total:       total,
	}}
	if err := f.orderRepo.Create(order, items); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func testShipping() ShippingInput {
	return ShippingInput{
		FullName:     "Priya Sharma",
		Phone:        "98765 43210",
		AddressLine1: "12 MG Road",
		City:         "Jaipur",
		State:        "Rajasthan",
		Pincode:      "302001",
	}
}
