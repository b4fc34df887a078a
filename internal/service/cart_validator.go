package service

import (
	"strings"

	"github.com/ambava-store/internal/models"
	"github.com/ambava-store/internal/repository"

	"github.com/shopspring/decimal"
)

// CartLine 客户端提交的购物车行，按商品名引用
type CartLine struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Size     string `json:"size"`
	Image    string `json:"image"`
}

// ValidatedLine 服务端重新定价后的购物车行
type ValidatedLine struct {
	Product   *models.Product
	Name      string
	Size      string
	Quantity  int
	UnitPrice models.Money
	Total     models.Money
}

// ValidatedCart 校验后的购物车
type ValidatedCart struct {
	Lines    []ValidatedLine
	Subtotal models.Money
}

// CartValidator 购物车服务端校验
type CartValidator struct {
	productRepo repository.ProductRepository
}

// NewCartValidator 创建购物车校验器
func NewCartValidator(productRepo repository.ProductRepository) *CartValidator {
	return &CartValidator{productRepo: productRepo}
}

// Validate 按服务端价格与库存重新计算购物车
// 商品不存在立即返回；库存不足的行汇总后一次返回
func (v *CartValidator) Validate(items []CartLine) (*ValidatedCart, error) {
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	cart := &ValidatedCart{Subtotal: models.NewMoneyFromDecimal(decimal.Zero)}
	var shortages []StockLine
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}

		product, err := v.productRepo.GetActiveByName(name)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, &ProductNotFoundError{Name: name}
		}
		if product.StockQuantity < quantity {
			shortages = append(shortages, StockLine{
				Name:      name,
				Requested: quantity,
				Available: product.StockQuantity,
			})
			continue
		}

		unitPrice := product.EffectivePrice()
		lineTotal := models.NewMoneyFromDecimal(unitPrice.Mul(decimal.NewFromInt(int64(quantity))))
		cart.Lines = append(cart.Lines, ValidatedLine{
			Product:   product,
			Name:      name,
			Size:      strings.TrimSpace(item.Size),
			Quantity:  quantity,
			UnitPrice: unitPrice,
			Total:     lineTotal,
		})
		cart.Subtotal = models.NewMoneyFromDecimal(cart.Subtotal.Add(lineTotal.Decimal))
	}

	if len(shortages) > 0 {
		return nil, &StockError{Lines: shortages}
	}
	if len(cart.Lines) == 0 {
		return nil, ErrCartEmpty
	}
	return cart, nil
}
