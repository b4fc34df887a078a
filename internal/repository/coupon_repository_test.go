package repository

import (
	"testing"

	"github.com/ambava-store/internal/models"
)

func TestCouponGetByCodeIgnoresCase(t *testing.T) {
	repo := NewCouponRepository(setupRepositoryTest(t))
	coupon := &models.Coupon{Code: "DIWALI20", Type: "percent", Value: models.NewMoneyFromInt(20), IsActive: true}
	if err := repo.Create(coupon); err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	found, err := repo.GetByCode("diwali20")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if found == nil || found.ID != coupon.ID {
		t.Fatalf("expected coupon to be found case-insensitively")
	}
}

func TestCouponIncrementUsedCountRespectsLimit(t *testing.T) {
	repo := NewCouponRepository(setupRepositoryTest(t))
	coupon := &models.Coupon{Code: "ONCE", Type: "fixed", Value: models.NewMoneyFromInt(100), UsageLimit: 1, IsActive: true}
	if err := repo.Create(coupon); err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	ok, err := repo.IncrementUsedCount(coupon.ID)
	if err != nil || !ok {
		t.Fatalf("first increment should succeed: ok=%v err=%v", ok, err)
	}
	ok, err = repo.IncrementUsedCount(coupon.ID)
	if err != nil {
		t.Fatalf("second increment error: %v", err)
	}
	if ok {
		t.Fatalf("second increment should be rejected by usage limit")
	}

	if err := repo.DecrementUsedCount(coupon.ID); err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	reloaded, _ := repo.GetByID(coupon.ID)
	if reloaded.UsedCount != 0 {
		t.Fatalf("unexpected used count: %d", reloaded.UsedCount)
	}
}
