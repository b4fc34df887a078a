package models

import "time"

// UserProfile 用户资料，一对一关联 User，按需懒创建
type UserProfile struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	UserID     uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Phone      *string   `gorm:"type:varchar(20);uniqueIndex" json:"phone"` // +91XXXXXXXXXX
	GoogleID   *string   `gorm:"type:varchar(100);uniqueIndex" json:"-"`
	FacebookID *string   `gorm:"type:varchar(100);uniqueIndex" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName 指定表名
func (UserProfile) TableName() string {
	return "user_profiles"
}

// PhoneValue 返回手机号，未设置时为空串
func (p *UserProfile) PhoneValue() string {
	if p == nil || p.Phone == nil {
		return ""
	}
	return *p.Phone
}

// ProviderID 返回指定第三方的账号 ID
func (p *UserProfile) ProviderID(provider string) string {
	if p == nil {
		return ""
	}
	var ref *string
	switch provider {
	case "google":
		ref = p.GoogleID
	case "facebook":
		ref = p.FacebookID
	}
	if ref == nil {
		return ""
	}
	return *ref
}

// SetProviderID 设置第三方账号 ID
func (p *UserProfile) SetProviderID(provider, id string) {
	value := id
	switch provider {
	case "google":
		p.GoogleID = &value
	case "facebook":
		p.FacebookID = &value
	}
}
