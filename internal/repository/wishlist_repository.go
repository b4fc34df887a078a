package repository

import (
	"errors"

	"github.com/ambava-store/internal/models"

	"gorm.io/gorm"
)

// WishlistRepository 收藏数据访问接口
type WishlistRepository interface {
	Get(userID, productID uint) (*models.Wishlist, error)
	Create(item *models.Wishlist) error
	Delete(id uint) error
	ListProductIDs(userID uint) ([]uint, error)
}

// GormWishlistRepository GORM 实现
type GormWishlistRepository struct {
	db *gorm.DB
}

// NewWishlistRepository 创建收藏仓库
func NewWishlistRepository(db *gorm.DB) *GormWishlistRepository {
	return &GormWishlistRepository{db: db}
}

// Get 获取收藏记录
func (r *GormWishlistRepository) Get(userID, productID uint) (*models.Wishlist, error) {
	var item models.Wishlist
	if err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Create 添加收藏
func (r *GormWishlistRepository) Create(item *models.Wishlist) error {
	return r.db.Create(item).Error
}

// Delete 取消收藏
func (r *GormWishlistRepository) Delete(id uint) error {
	return r.db.Delete(&models.Wishlist{}, id).Error
}

// ListProductIDs 获取用户收藏的商品 ID
func (r *GormWishlistRepository) ListProductIDs(userID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&models.Wishlist{}).Where("user_id = ?", userID).Order("created_at desc, id desc").Pluck("product_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
