package models

import "time"

// ReturnExchange 退换货申请
type ReturnExchange struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	UserID       uint      `gorm:"index;not null" json:"-"`
	OrderID      uint      `gorm:"index;not null" json:"order_id"`
	OrderItemID  *uint     `gorm:"index" json:"order_item_id"`
	RequestType  string    `gorm:"type:varchar(10);not null" json:"request_type"`
	Reason       string    `gorm:"type:varchar(30);not null" json:"reason"`
	Details      string    `gorm:"type:text" json:"details"`
	Status       string    `gorm:"type:varchar(20);index;not null;default:'requested'" json:"status"`
	RefundAmount *Money    `gorm:"type:decimal(20,2)" json:"refund_amount"`
	AdminNotes   string    `gorm:"type:text" json:"admin_notes"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Order     *Order     `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	OrderItem *OrderItem `gorm:"foreignKey:OrderItemID" json:"order_item,omitempty"`
}

// TableName 指定表名
func (ReturnExchange) TableName() string {
	return "return_exchanges"
}
