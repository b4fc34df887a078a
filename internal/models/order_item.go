package models

import "time"

// OrderItem 订单项表，商品删除后保留名称快照
type OrderItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	OrderID     uint      `gorm:"index;not null" json:"order_id"`
	ProductID   *uint     `gorm:"index" json:"product_id"`
	ProductName string    `gorm:"type:varchar(200);not null" json:"product_name"`
	Size        string    `gorm:"type:varchar(10);not null;default:''" json:"size"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	Price       Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`
	Total       Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total"`
	CreatedAt   time.Time `json:"created_at"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL" json:"-"`
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
