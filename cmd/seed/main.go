package main

import (
	"time"

	"github.com/ambava-store/internal/config"
	"github.com/ambava-store/internal/constants"
	"github.com/ambava-store/internal/logger"
	"github.com/ambava-store/internal/models"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加商品
	products := []models.Product{
		{
			Name:           "Banarasi Silk Bridal Lehenga",
			Slug:           "banarasi-silk-bridal-lehenga",
			Category:       constants.ProductCategoryBridal,
			Description:    "Hand-woven Banarasi silk with zari work, paired with a net dupatta.",
			Price:          rupees(45999),
			StockQuantity:  4,
			AvailableSizes: models.StringArray{"S", "M", "L"},
			DisplayOrder:   1,
			IsActive:       true,
		},
		{
			Name:            "Chikankari Anarkali Suit",
			Slug:            "chikankari-anarkali-suit",
			Category:        constants.ProductCategoryDesigner,
			Description:     "Lucknowi chikankari on georgette with a flared silhouette.",
			Price:           rupees(8499),
			DiscountPercent: 15,
			StockQuantity:   12,
			AvailableSizes:  models.StringArray{"XS", "S", "M", "L", "XL"},
			DisplayOrder:    2,
			IsActive:        true,
		},
		{
			Name:            "Bandhani Festive Saree",
			Slug:            "bandhani-festive-saree",
			Category:        constants.ProductCategoryFestival,
			Description:     "Traditional Gujarati tie-dye saree in pure gajji silk.",
			Price:           rupees(5299),
			DiscountPercent: 10,
			StockQuantity:   20,
			AvailableSizes:  models.StringArray{"Free Size"},
			DisplayOrder:    3,
			IsActive:        true,
		},
		{
			Name:           "Sequin Party Sharara Set",
			Slug:           "sequin-party-sharara-set",
			Category:       constants.ProductCategoryParty,
			Description:    "Sequinned kurti with flared sharara and organza dupatta.",
			Price:          rupees(6799),
			StockQuantity:  8,
			AvailableSizes: models.StringArray{"S", "M", "L", "XL"},
			DisplayOrder:   4,
			IsActive:       true,
		},
		{
			Name:           "Cotton Block Print Kurta",
			Slug:           "cotton-block-print-kurta",
			Category:       constants.ProductCategoryCasual,
			Description:    "Jaipuri block printed cotton kurta for everyday wear.",
			Price:          rupees(1299),
			StockQuantity:  50,
			AvailableSizes: models.StringArray{"S", "M", "L", "XL", "XXL"},
			DisplayOrder:   5,
			IsActive:       true,
		},
	}

	for _, product := range products {
		var existing models.Product
		if err := models.DB.Where("slug = ?", product.Slug).First(&existing).Error; err != nil {
			// 不存在则创建
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.Slug, err)
			} else {
				stdLog.Printf("Created product: %s", product.Slug)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.Slug)
		}
	}

	// 添加优惠券
	endsAt := time.Now().AddDate(0, 6, 0)
	coupons := []models.Coupon{
		{
			Code:           "WELCOME10",
			Description:    "10% off your first order, up to ₹500",
			Type:           constants.CouponTypePercent,
			Value:          rupees(10),
			MaxDiscount:    rupees(500),
			MinOrderAmount: rupees(999),
			PerUserLimit:   1,
			EndsAt:         &endsAt,
			IsActive:       true,
		},
		{
			Code:           "FESTIVE500",
			Description:    "Flat ₹500 off on orders above ₹4,999",
			Type:           constants.CouponTypeFixed,
			Value:          rupees(500),
			MinOrderAmount: rupees(4999),
			UsageLimit:     200,
			EndsAt:         &endsAt,
			IsActive:       true,
		},
	}

	for _, coupon := range coupons {
		var existing models.Coupon
		if err := models.DB.Where("code = ?", coupon.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&coupon).Error; err != nil {
				stdLog.Printf("Failed to create coupon %s: %v", coupon.Code, err)
			} else {
				stdLog.Printf("Created coupon: %s", coupon.Code)
			}
		} else {
			stdLog.Printf("Coupon already exists: %s", coupon.Code)
		}
	}

	stdLog.Printf("Seed completed")
}

func rupees(amount int64) models.Money {
	return models.NewMoneyFromInt(amount)
}
