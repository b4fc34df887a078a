package repository

import (
	"github.com/ambava-store/internal/models"

	"gorm.io/gorm"
)

// CouponUsageRepository 优惠券核销记录
type CouponUsageRepository interface {
	Create(usage *models.CouponUsage) error
	CountByUser(couponID, userID uint) (int64, error)
	ReleaseByOrder(orderID uint) ([]uint, error)
	WithTx(tx *gorm.DB) *GormCouponUsageRepository
}

// GormCouponUsageRepository GORM 实现
type GormCouponUsageRepository struct {
	db *gorm.DB
}

// NewCouponUsageRepository 创建核销记录仓库
func NewCouponUsageRepository(db *gorm.DB) *GormCouponUsageRepository {
	return &GormCouponUsageRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCouponUsageRepository) WithTx(tx *gorm.DB) *GormCouponUsageRepository {
	if tx == nil {
		return r
	}
	return &GormCouponUsageRepository{db: tx}
}

func (r *GormCouponUsageRepository) Create(usage *models.CouponUsage) error {
	return r.db.Create(usage).Error
}

// CountByUser 用户对某张券的核销次数
func (r *GormCouponUsageRepository) CountByUser(couponID, userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.CouponUsage{}).
		Where("coupon_id = ? AND user_id = ?", couponID, userID).
		Count(&count).Error
	return count, err
}

// ReleaseByOrder 删除订单的核销记录，返回被释放的券 ID（每条记录一个，可重复）
func (r *GormCouponUsageRepository) ReleaseByOrder(orderID uint) ([]uint, error) {
	var couponIDs []uint
	scoped := r.db.Model(&models.CouponUsage{}).Where("order_id = ?", orderID)
	if err := scoped.Pluck("coupon_id", &couponIDs).Error; err != nil {
		return nil, err
	}
	if len(couponIDs) == 0 {
		return nil, nil
	}
	if err := r.db.Where("order_id = ?", orderID).Delete(&models.CouponUsage{}).Error; err != nil {
		return nil, err
	}
	return couponIDs, nil
}
