package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupModelsTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:models_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func TestProductDerivesDiscountedPrice(t *testing.T) {
	product := Product{Name: "Zari Lehenga", Price: NewMoneyFromInt(4999), DiscountPercent: 15}
	product.ApplyDerivedFields()
	if product.DiscountedPrice == nil {
		t.Fatalf("expected discounted price to be derived")
	}
	if product.DiscountedPrice.String() != "4249.15" {
		t.Fatalf("unexpected discounted price: %s", product.DiscountedPrice.String())
	}
	if !product.EffectivePrice().Equal(product.DiscountedPrice.Decimal) {
		t.Fatalf("effective price should use discounted price")
	}
}

func TestProductWithoutDiscountUsesPrice(t *testing.T) {
	product := Product{Name: "Cotton Kurta", Price: NewMoneyFromInt(1200)}
	product.ApplyDerivedFields()
	if product.DiscountedPrice != nil {
		t.Fatalf("expected no discounted price")
	}
	if product.EffectivePrice().String() != "1200.00" {
		t.Fatalf("unexpected effective price: %s", product.EffectivePrice().String())
	}
}

func TestProductRejectsDiscountAbovePrice(t *testing.T) {
	tooHigh := NewMoneyFromInt(2000)
	product := Product{Name: "Silk Saree", Price: NewMoneyFromInt(1000), DiscountPercent: 10, DiscountedPrice: &tooHigh}
	product.ApplyDerivedFields()
	if product.DiscountedPrice.String() != "900.00" {
		t.Fatalf("expected discounted price to be recomputed, got %s", product.DiscountedPrice.String())
	}
}

func TestProductSlugDeduplicates(t *testing.T) {
	db := setupModelsTest(t)
	for i := 0; i < 3; i++ {
		product := Product{Name: "Bridal Lehenga", Price: NewMoneyFromInt(15000), IsActive: true}
		if err := db.Create(&product).Error; err != nil {
			t.Fatalf("create product failed: %v", err)
		}
	}
	var slugs []string
	if err := db.Model(&Product{}).Order("id asc").Pluck("slug", &slugs).Error; err != nil {
		t.Fatalf("pluck slugs failed: %v", err)
	}
	expected := []string{"bridal-lehenga", "bridal-lehenga-1", "bridal-lehenga-2"}
	for i, slug := range expected {
		if slugs[i] != slug {
			t.Fatalf("unexpected slug at %d: got=%s want=%s", i, slugs[i], slug)
		}
	}
}

func TestMoneyPaise(t *testing.T) {
	amount := NewMoneyFromDecimal(decimal.RequireFromString("1099.50"))
	if amount.Paise() != 109950 {
		t.Fatalf("unexpected paise: %d", amount.Paise())
	}
}

func TestCouponCodeStoredUpperCase(t *testing.T) {
	db := setupModelsTest(t)
	coupon := Coupon{Code: " festive10 ", Type: "percent", Value: NewMoneyFromInt(10), IsActive: true}
	if err := db.Create(&coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	var stored Coupon
	if err := db.First(&stored, coupon.ID).Error; err != nil {
		t.Fatalf("load coupon failed: %v", err)
	}
	if stored.Code != "FESTIVE10" {
		t.Fatalf("unexpected code: %s", stored.Code)
	}
}
