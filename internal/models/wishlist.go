package models

import "time"

// Wishlist 收藏
type Wishlist struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_wishlist_user_product;not null" json:"-"`
	ProductID uint      `gorm:"uniqueIndex:idx_wishlist_user_product;not null" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (Wishlist) TableName() string {
	return "wishlists"
}
