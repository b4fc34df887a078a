package repository

import (
	"testing"

	"github.com/ambava-store/internal/models"
)

func createOrder(t *testing.T, repo *GormOrderRepository, number string, userID uint, status string, productID uint) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNumber:      number,
		UserID:           userID,
		Status:           status,
		PaymentStatus:    "paid",
		PaymentMethod:    "cod",
		ShippingFullName: "Priya Sharma",
		ShippingPhone:    "9876543210",
		ShippingAddress:  "12 MG Road",
		ShippingCity:     "Jaipur",
		ShippingState:    "Rajasthan",
		ShippingPincode:  "302001",
		Subtotal:         models.NewMoneyFromInt(1000),
		Total:            models.NewMoneyFromInt(1199),
	}
	pid := productID
	items := []models.OrderItem{{ProductID: &pid, ProductName: "Kurta", Size: "M", Quantity: 1, Price: models.NewMoneyFromInt(1000), Total: models.NewMoneyFromInt(1000)}}
	if err := repo.Create(order, items); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestGetByNumberAndUserIgnoresCase(t *testing.T) {
	repo := NewOrderRepository(setupRepositoryTest(t))
	created := createOrder(t, repo, "HOA-ABCD1234", 5, "confirmed", 1)

	order, err := repo.GetByNumberAndUser("hoa-abcd1234", 5)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if order == nil || order.ID != created.ID {
		t.Fatalf("expected order to be found")
	}
	if len(order.Items) != 1 {
		t.Fatalf("expected items preloaded, got %d", len(order.Items))
	}

	other, err := repo.GetByNumberAndUser("HOA-ABCD1234", 6)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if other != nil {
		t.Fatalf("order should not be visible to another user")
	}
}

func TestHasDeliveredItem(t *testing.T) {
	repo := NewOrderRepository(setupRepositoryTest(t))
	createOrder(t, repo, "HOA-00000001", 9, "shipped", 42)

	ok, err := repo.HasDeliveredItem(9, 42)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if ok {
		t.Fatalf("shipped order should not count as delivered")
	}

	createOrder(t, repo, "HOA-00000002", 9, "delivered", 42)
	ok, _ = repo.HasDeliveredItem(9, 42)
	if !ok {
		t.Fatalf("delivered order should count")
	}
}

func TestDeleteOrderRemovesItems(t *testing.T) {
	db := setupRepositoryTest(t)
	repo := NewOrderRepository(db)
	order := createOrder(t, repo, "HOA-DEADBEEF", 3, "pending", 7)

	if err := repo.Delete(order.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	var count int64
	db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&count)
	if count != 0 {
		t.Fatalf("expected items to be deleted, got %d", count)
	}
}

func TestUpdateIfStateIsConditional(t *testing.T) {
	repo := NewOrderRepository(setupRepositoryTest(t))
	order := createOrder(t, repo, "HOA-CAFE0001", 4, "pending", 3)

	stale := *order
	order.Status = "cancelled"
	saved, err := repo.UpdateIfState(order, "pending", "paid")
	if err != nil || !saved {
		t.Fatalf("first update want saved, got %v %v", saved, err)
	}

	stale.Status = "confirmed"
	saved, err = repo.UpdateIfState(&stale, "pending", "")
	if err != nil {
		t.Fatalf("stale update failed: %v", err)
	}
	if saved {
		t.Fatalf("stale update must not be applied")
	}
	stored, _ := repo.GetByID(order.ID)
	if stored.Status != "cancelled" {
		t.Fatalf("status want cancelled got %s", stored.Status)
	}

	stored.Notes = "paid check"
	if saved, _ := repo.UpdateIfState(stored, "cancelled", "pending"); saved {
		t.Fatalf("payment status mismatch must not be applied")
	}
}
