package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product 商品表（前台展示商品）
type Product struct {
	ID              uint        `gorm:"primarykey" json:"id"`
	Name            string      `gorm:"type:varchar(200);index;not null" json:"name"`
	Slug            string      `gorm:"type:varchar(220);uniqueIndex;not null" json:"slug"`
	Category        string      `gorm:"type:varchar(20);index;not null;default:'designer'" json:"category"`
	Description     string      `gorm:"type:text" json:"description"`
	Price           Money       `gorm:"type:decimal(20,2);not null;default:0" json:"price"`
	DiscountPercent int         `gorm:"not null;default:0" json:"discount_percent"`
	DiscountedPrice *Money      `gorm:"type:decimal(20,2)" json:"discounted_price"`
	StockQuantity   int         `gorm:"not null;default:0" json:"stock_quantity"`
	AvailableSizes  StringArray `gorm:"type:text" json:"available_sizes"`
	ImageURL        string      `gorm:"type:varchar(500);not null;default:''" json:"image_url"`
	IsActive        bool        `gorm:"not null;default:true;index" json:"is_active"`
	DisplayOrder    int         `gorm:"not null;default:0;index" json:"display_order"`
	CreatedAt       time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// EffectivePrice 返回结算单价：有折扣价取折扣价，否则取原价
func (p *Product) EffectivePrice() Money {
	if p.DiscountedPrice != nil && p.DiscountedPrice.GreaterThan(decimal.Zero) {
		return *p.DiscountedPrice
	}
	return p.Price
}

// ApplyDerivedFields 计算折扣价并限制折扣范围
func (p *Product) ApplyDerivedFields() {
	if p.DiscountPercent < 0 {
		p.DiscountPercent = 0
	}
	if p.DiscountPercent > 99 {
		p.DiscountPercent = 99
	}
	if p.DiscountPercent == 0 {
		return
	}
	if p.DiscountedPrice == nil || !p.DiscountedPrice.GreaterThan(decimal.Zero) || p.DiscountedPrice.GreaterThan(p.Price.Decimal) {
		factor := decimal.NewFromInt(100 - int64(p.DiscountPercent)).Div(decimal.NewFromInt(100))
		derived := NewMoneyFromDecimal(p.Price.Mul(factor))
		p.DiscountedPrice = &derived
	}
}

// BeforeSave 写库前计算派生字段
func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.ApplyDerivedFields()
	return nil
}

// BeforeCreate 生成唯一 slug
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(p.Slug) != "" {
		return nil
	}
	base := Slugify(p.Name)
	if base == "" {
		base = "product"
	}
	slug := base
	for i := 1; ; i++ {
		var count int64
		if err := tx.Session(&gorm.Session{NewDB: true}).Model(&Product{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			break
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
	p.Slug = slug
	return nil
}

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify 将名称转换为 URL 片段
func Slugify(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	return strings.Trim(slugInvalidChars.ReplaceAllString(lowered, "-"), "-")
}
