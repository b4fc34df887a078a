package models

import "time"

// Review 商品评价，每个用户对每个商品仅一条
type Review struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	ProductID  uint      `gorm:"uniqueIndex:idx_review_product_user;not null" json:"product_id"`
	UserID     uint      `gorm:"uniqueIndex:idx_review_product_user;not null" json:"-"`
	Rating     int       `gorm:"not null" json:"rating"`
	Title      string    `gorm:"type:varchar(200);not null;default:''" json:"title"`
	Comment    string    `gorm:"type:text" json:"comment"`
	IsApproved bool      `gorm:"not null;default:true;index" json:"-"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName 指定表名
func (Review) TableName() string {
	return "reviews"
}
