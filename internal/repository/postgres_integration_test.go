//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"

	"github.com/ambava-store/internal/constants"
	"github.com/ambava-store/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.OrderItem{},
		&models.Order{},
		&models.Coupon{},
		&models.Product{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)

	if err := db.AutoMigrate(
		&models.Product{},
		&models.Coupon{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresOrderKeywordSearchIgnoresCase(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	product := createProduct(t, NewProductRepository(db), "Banarasi Saree", 5, true)
	orderRepo := NewOrderRepository(db)
	createOrder(t, orderRepo, "AMB-PG-0001", 7, constants.OrderStatusPending, product.ID)
	createOrder(t, orderRepo, "AMB-PG-0002", 8, constants.OrderStatusConfirmed, product.ID)

	rows, total, err := orderRepo.ListAdmin(OrderListFilter{Page: 1, PageSize: 20, Keyword: "amb-pg-0002"})
	if err != nil {
		t.Fatalf("list admin orders failed: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].OrderNumber != "AMB-PG-0002" {
		t.Fatalf("keyword search want AMB-PG-0002 got total=%d rows=%+v", total, rows)
	}

	rows, total, err = orderRepo.ListAdmin(OrderListFilter{Page: 1, PageSize: 20, Keyword: "priya"})
	if err != nil {
		t.Fatalf("list admin orders by name failed: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("name search want 2 got total=%d len=%d", total, len(rows))
	}

	found, err := orderRepo.GetByNumberAndUser("amb-pg-0001", 7)
	if err != nil {
		t.Fatalf("get by number failed: %v", err)
	}
	if found == nil || len(found.Items) != 1 {
		t.Fatalf("expected order with one item, got %+v", found)
	}
	other, err := orderRepo.GetByNumberAndUser("AMB-PG-0001", 8)
	if err != nil {
		t.Fatalf("get by number for other user failed: %v", err)
	}
	if other != nil {
		t.Fatalf("order must not be visible to another user")
	}
}

func TestPostgresCouponCodeAndUsageCounter(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	couponRepo := NewCouponRepository(db)
	coupon := &models.Coupon{
		Code:       "FESTIVE500",
		Type:       constants.CouponTypeFixed,
		Value:      models.NewMoneyFromInt(500),
		UsageLimit: 1,
		IsActive:   true,
	}
	if err := couponRepo.Create(coupon); err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	found, err := couponRepo.GetByCode("festive500")
	if err != nil {
		t.Fatalf("get coupon failed: %v", err)
	}
	if found == nil || found.ID != coupon.ID {
		t.Fatalf("expected coupon lookup to ignore case, got %+v", found)
	}

	ok, err := couponRepo.IncrementUsedCount(coupon.ID)
	if err != nil || !ok {
		t.Fatalf("first increment should succeed: ok=%v err=%v", ok, err)
	}
	ok, err = couponRepo.IncrementUsedCount(coupon.ID)
	if err != nil {
		t.Fatalf("second increment returned error: %v", err)
	}
	if ok {
		t.Fatalf("usage limit should block second increment")
	}
}

func TestPostgresDecrementStockIsConditional(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	productRepo := NewProductRepository(db)
	product := createProduct(t, productRepo, "Lehenga Choli", 1, true)

	ok, err := productRepo.DecrementStock(product.ID, 2)
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if ok {
		t.Fatalf("decrement beyond stock should fail")
	}
	ok, err = productRepo.DecrementStock(product.ID, 1)
	if err != nil || !ok {
		t.Fatalf("decrement within stock should succeed: ok=%v err=%v", ok, err)
	}
}
