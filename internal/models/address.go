package models

import (
	"strings"
	"time"
)

// Address 收货地址
type Address struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	UserID       uint      `gorm:"index;not null" json:"-"`
	Label        string    `gorm:"type:varchar(10);not null;default:'home'" json:"label"`
	FullName     string    `gorm:"type:varchar(100);not null" json:"full_name"`
	Phone        string    `gorm:"type:varchar(20);not null;default:''" json:"phone"`
	AddressLine1 string    `gorm:"type:varchar(255);not null" json:"address_line1"`
	AddressLine2 string    `gorm:"type:varchar(255);not null;default:''" json:"address_line2"`
	City         string    `gorm:"type:varchar(100);not null" json:"city"`
	State        string    `gorm:"type:varchar(100);not null" json:"state"`
	Pincode      string    `gorm:"type:varchar(10);not null" json:"pincode"`
	IsDefault    bool      `gorm:"not null;default:false;index" json:"is_default"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Address) TableName() string {
	return "addresses"
}

// StreetLine 合并地址行
func (a *Address) StreetLine() string {
	if strings.TrimSpace(a.AddressLine2) == "" {
		return a.AddressLine1
	}
	return a.AddressLine1 + ", " + a.AddressLine2
}
