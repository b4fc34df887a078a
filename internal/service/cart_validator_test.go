package service

import (
	"errors"
	"testing"

	"github.com/ambava-store/internal/models"

	"github.com/shopspring/decimal"
)

func TestCartValidatorUsesServerPrices(t *testing.T) {
	f := setupServiceFixture(t)
	saree := f.createProduct(t, "Silk Saree", 2000, 3)
	discounted := models.NewMoneyFromInt(1500)
	saree.DiscountedPrice = &discounted
	saree.DiscountPercent = 25
	f.db.Save(saree)
	f.createProduct(t, "Kurta", 800, 10)

	cart, err := NewCartValidator(f.productRepo).Validate([]CartLine{
		{Name: " Silk Saree ", Quantity: 2},
		{Name: "Kurta", Quantity: 0},
	})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if len(cart.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(cart.Lines))
	}
	if cart.Lines[1].Quantity != 1 {
		t.Fatalf("quantity should floor at 1, got %d", cart.Lines[1].Quantity)
	}
	if !cart.Subtotal.Equal(decimal.NewFromInt(3800)) {
		t.Fatalf("subtotal want 3800 got %s", cart.Subtotal.String())
	}
}

func TestCartValidatorCollectsShortages(t *testing.T) {
	f := setupServiceFixture(t)
	f.createProduct(t, "Saree", 1000, 1)
	f.createProduct(t, "Lehenga", 5000, 0)

	_, err := NewCartValidator(f.productRepo).Validate([]CartLine{
		{Name: "Saree", Quantity: 2},
		{Name: "Lehenga", Quantity: 1},
	})
	var stockErr *StockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected stock error, got %v", err)
	}
	messages := stockErr.Messages()
	if len(messages) != 2 || messages[0] != "Saree (only 1 left)" || messages[1] != "Lehenga (only 0 left)" {
		t.Fatalf("unexpected shortage messages: %v", messages)
	}

	if _, err := NewCartValidator(f.productRepo).Validate(nil); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("empty cart want ErrCartEmpty, got %v", err)
	}
}
