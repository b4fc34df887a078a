package service

import (
	"errors"
	"testing"

	"github.com/ambava-store/internal/models"
	"github.com/ambava-store/internal/repository"
)

func TestWishlistToggle(t *testing.T) {
	f := setupServiceFixture(t)
	user := f.createUser(t, "wisher")
	product := f.createProduct(t, "Saree", 1000, 1)
	svc := NewWishlistService(repository.NewWishlistRepository(f.db), f.productRepo)

	added, err := svc.Toggle(user.ID, product.ID)
	if err != nil || !added {
		t.Fatalf("first toggle should add: %v %v", added, err)
	}
	ids, err := svc.ProductIDs(user.ID)
	if err != nil || len(ids) != 1 || ids[0] != product.ID {
		t.Fatalf("unexpected wishlist ids: %v %v", ids, err)
	}
	added, err = svc.Toggle(user.ID, product.ID)
	if err != nil || added {
		t.Fatalf("second toggle should remove: %v %v", added, err)
	}
	ids, _ = svc.ProductIDs(user.ID)
	if len(ids) != 0 {
		t.Fatalf("wishlist should be empty, got %v", ids)
	}
}

func TestWishlistRequiresActiveProduct(t *testing.T) {
	f := setupServiceFixture(t)
	user := f.createUser(t, "wisher")
	product := f.createProduct(t, "Retired", 1000, 1)
	f.db.Model(&models.Product{}).Where("id = ?", product.ID).Update("is_active", false)
	svc := NewWishlistService(repository.NewWishlistRepository(f.db), f.productRepo)

	if _, err := svc.Toggle(user.ID, product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("inactive product want not found, got %v", err)
	}
	ids, err := svc.ProductIDs(0)
	if err != nil || ids == nil || len(ids) != 0 {
		t.Fatalf("anonymous wishlist should be empty list: %v %v", ids, err)
	}
}
