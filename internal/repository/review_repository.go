package repository

import (
	"errors"

	"github.com/ambava-store/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository 评价数据访问接口
type ReviewRepository interface {
	GetByProductAndUser(productID, userID uint) (*models.Review, error)
	Save(review *models.Review) error
	ListApprovedByProduct(productID uint, limit int) ([]models.Review, error)
}

// GormReviewRepository GORM 实现
type GormReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评价仓库
func NewReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// GetByProductAndUser 获取用户对商品的评价
func (r *GormReviewRepository) GetByProductAndUser(productID, userID uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.Where("product_id = ? AND user_id = ?", productID, userID).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

// Save 创建或更新评价
func (r *GormReviewRepository) Save(review *models.Review) error {
	return r.db.Omit("User").Save(review).Error
}

// ListApprovedByProduct 获取商品最新的已审核评价
func (r *GormReviewRepository) ListApprovedByProduct(productID uint, limit int) ([]models.Review, error) {
	var reviews []models.Review
	query := r.db.Preload("User").Where("product_id = ? AND is_approved = ?", productID, true).Order("created_at desc, id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}
