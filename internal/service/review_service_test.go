package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ambava-store/internal/config"
	"github.com/ambava-store/internal/constants"
	"github.com/ambava-store/internal/repository"
)

func newTestReviewService(f *serviceFixture, max int) *ReviewService {
	return NewReviewService(config.RateLimitConfig{MaxAttempts: max}, f.store, repository.NewReviewRepository(f.db), f.productRepo, f.orderRepo)
}

func TestReviewRequiresDeliveredPurchase(t *testing.T) {
	f := setupServiceFixture(t)
	user := f.createUser(t, "critic")
	product := f.createProduct(t, "Saree", 1000, 5)
	svc := newTestReviewService(f, 0)
	ctx := context.Background()

	f.createOrderWithStatus(t, user.ID, product, 1, constants.OrderStatusShipped)
	if _, _, err := svc.Submit(ctx, user.ID, product.ID, ReviewInput{Rating: 5}); !errors.Is(err, ErrReviewNotVerified) {
		t.Fatalf("undelivered purchase want not verified, got %v", err)
	}

	f.createOrderWithStatus(t, user.ID, product, 1, constants.OrderStatusDelivered)
	review, created, err := svc.Submit(ctx, user.ID, product.ID, ReviewInput{
		Rating:  4,
		Title:   "  " + strings.Repeat("a", 250) + "  ",
		Comment: "Lovely fabric",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if !created || !review.IsApproved {
		t.Fatalf("first review should be created and approved: %+v", review)
	}
	if len(review.Title) != 200 {
		t.Fatalf("title should be cut to 200, got %d", len(review.Title))
	}

	_, created, err = svc.Submit(ctx, user.ID, product.ID, ReviewInput{Rating: 2})
	if err != nil || created {
		t.Fatalf("second submit should update: %v %v", created, err)
	}

	views, err := svc.List(product.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(views) != 1 || views[0].Rating != 2 || !views[0].VerifiedPurchase || views[0].User != "critic" {
		t.Fatalf("unexpected review views: %+v", views)
	}
}

func TestReviewRatingBounds(t *testing.T) {
	f := setupServiceFixture(t)
	user := f.createUser(t, "critic")
	product := f.createProduct(t, "Saree", 1000, 5)
	svc := newTestReviewService(f, 0)

	for _, rating := range []int{0, 6} {
		_, _, err := svc.Submit(context.Background(), user.ID, product.ID, ReviewInput{Rating: rating})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("rating %d want validation error, got %v", rating, err)
		}
	}
	if _, _, err := svc.Submit(context.Background(), user.ID, 999, ReviewInput{Rating: 5}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("unknown product want not found, got %v", err)
	}
}

func TestReviewRateLimited(t *testing.T) {
	f := setupServiceFixture(t)
	user := f.createUser(t, "prolific")
	svc := newTestReviewService(f, 2)
	ctx := context.Background()

	for i, name := range []string{"A", "B", "C"} {
		product := f.createProduct(t, "Product "+name, 1000, 5)
		f.createOrderWithStatus(t, user.ID, product, 1, constants.OrderStatusDelivered)
		_, _, err := svc.Submit(ctx, user.ID, product.ID, ReviewInput{Rating: 5})
		if i < 2 && err != nil {
			t.Fatalf("review %d failed: %v", i, err)
		}
		if i == 2 && !errors.Is(err, ErrReviewRateLimited) {
			t.Fatalf("third review want rate limited, got %v", err)
		}
	}
}
