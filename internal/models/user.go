package models

import (
	"strings"
	"time"
)

// User 用户表，账号密码、手机号与第三方登录共用同一身份
type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`                                     // 主键
	Username     string     `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`   // 用户名
	Email        string     `gorm:"type:varchar(254);index;not null;default:''" json:"email"` // 邮箱（可为空）
	FirstName    string     `gorm:"type:varchar(150);not null;default:''" json:"first_name"`  // 名
	LastName     string     `gorm:"type:varchar(150);not null;default:''" json:"last_name"`   // 姓
	PasswordHash string     `gorm:"not null;default:''" json:"-"`                             // 密码哈希，空表示不可用密码
	IsStaff      bool       `gorm:"not null;default:false" json:"-"`                          // 员工账号
	StaffRole    string     `gorm:"type:varchar(32);not null;default:''" json:"-"`            // 员工角色
	Status       string     `gorm:"type:varchar(20);not null;default:'active'" json:"status"` // 账号状态
	TokenVersion uint64     `gorm:"not null;default:0" json:"-"`                              // Token 版本（用于全量失效）
	LastLoginAt  *time.Time `json:"last_login_at"`                                            // 最后登录时间
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt    time.Time  `json:"updated_at"`                                               // 更新时间

	Profile *UserProfile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// HasUsablePassword 是否设置了可用密码
func (u *User) HasUsablePassword() bool {
	return u != nil && strings.TrimSpace(u.PasswordHash) != ""
}

// FullName 返回展示用姓名
func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
