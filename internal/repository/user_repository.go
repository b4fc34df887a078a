package repository

import (
	"errors"
	"strings"

	"github.com/ambava-store/internal/models"

	"gorm.io/gorm"
)

// UserRepository 用户与资料数据访问接口
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	UsernameExists(username string) (bool, error)
	EmailTakenByOther(email string, excludeUserID uint) (bool, error)
	Create(user *models.User) error
	Update(user *models.User) error
	UpdateFields(id uint, fields map[string]interface{}) error
	GetProfile(userID uint) (*models.UserProfile, error)
	GetProfileByPhone(phone string) (*models.UserProfile, error)
	GetProfileByProviderID(provider, providerID string) (*models.UserProfile, error)
	PhoneTakenByOther(phone string, excludeUserID uint) (bool, error)
	SaveProfile(profile *models.UserProfile) error
	ListStaff() ([]models.User, error)
	WithTx(tx *gorm.DB) *GormUserRepository
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// WithTx 绑定事务
func (r *GormUserRepository) WithTx(tx *gorm.DB) *GormUserRepository {
	if tx == nil {
		return r
	}
	return &GormUserRepository{db: tx}
}

// GetByID 根据 ID 获取用户
func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername 根据用户名获取用户
func (r *GormUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail 根据邮箱获取用户（忽略大小写，多条时取最早注册）
func (r *GormUserRepository) GetByEmail(email string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, nil
	}
	var user models.User
	if err := r.db.Where(iexactCondition("email"), email).Order("id asc").First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// UsernameExists 判断用户名是否已被占用
func (r *GormUserRepository) UsernameExists(username string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// EmailTakenByOther 判断邮箱是否被其他用户占用
func (r *GormUserRepository) EmailTakenByOther(email string, excludeUserID uint) (bool, error) {
	var count int64
	query := r.db.Model(&models.User{}).Where(iexactCondition("email"), strings.TrimSpace(email))
	if excludeUserID > 0 {
		query = query.Where("id <> ?", excludeUserID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create 创建用户
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Omit("Profile").Create(user).Error
}

// Update 更新用户
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Omit("Profile").Save(user).Error
}

// UpdateFields 按字段更新用户
func (r *GormUserRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	if id == 0 || len(fields) == 0 {
		return nil
	}
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
}

// GetProfile 获取用户资料
func (r *GormUserRepository) GetProfile(userID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// GetProfileByPhone 根据手机号获取资料
func (r *GormUserRepository) GetProfileByPhone(phone string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.Where("phone = ?", phone).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// GetProfileByProviderID 根据第三方账号 ID 获取资料
func (r *GormUserRepository) GetProfileByProviderID(provider, providerID string) (*models.UserProfile, error) {
	column := ""
	switch provider {
	case "google":
		column = "google_id"
	case "facebook":
		column = "facebook_id"
	default:
		return nil, nil
	}
	var profile models.UserProfile
	if err := r.db.Where(column+" = ?", providerID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// PhoneTakenByOther 判断手机号是否被其他用户绑定
func (r *GormUserRepository) PhoneTakenByOther(phone string, excludeUserID uint) (bool, error) {
	var count int64
	query := r.db.Model(&models.UserProfile{}).Where("phone = ?", phone)
	if excludeUserID > 0 {
		query = query.Where("user_id <> ?", excludeUserID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SaveProfile 创建或更新用户资料
func (r *GormUserRepository) SaveProfile(profile *models.UserProfile) error {
	if profile == nil {
		return nil
	}
	return r.db.Save(profile).Error
}

// ListStaff 获取员工账号
func (r *GormUserRepository) ListStaff() ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("is_staff = ?", true).Order("id asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
