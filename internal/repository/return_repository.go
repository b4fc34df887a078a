package repository

import (
	"errors"

	"github.com/ambava-store/internal/models"

	"gorm.io/gorm"
)

// ReturnRepository 退换货数据访问接口
type ReturnRepository interface {
	Create(request *models.ReturnExchange) error
	GetByID(id uint) (*models.ReturnExchange, error)
	Update(request *models.ReturnExchange) error
	HasActiveForOrder(orderID uint) (bool, error)
	List(filter ReturnListFilter) ([]models.ReturnExchange, int64, error)
}

// GormReturnRepository GORM 实现
type GormReturnRepository struct {
	db *gorm.DB
}

// NewReturnRepository 创建退换货仓库
func NewReturnRepository(db *gorm.DB) *GormReturnRepository {
	return &GormReturnRepository{db: db}
}

// Create 创建申请
func (r *GormReturnRepository) Create(request *models.ReturnExchange) error {
	return r.db.Omit("Order", "OrderItem").Create(request).Error
}

// GetByID 获取申请
func (r *GormReturnRepository) GetByID(id uint) (*models.ReturnExchange, error) {
	var request models.ReturnExchange
	if err := r.db.Preload("Order").Preload("OrderItem").First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

// Update 更新申请
func (r *GormReturnRepository) Update(request *models.ReturnExchange) error {
	return r.db.Omit("Order", "OrderItem").Save(request).Error
}

// HasActiveForOrder 订单是否存在进行中的申请
func (r *GormReturnRepository) HasActiveForOrder(orderID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.ReturnExchange{}).
		Where("order_id = ? AND status NOT IN ?", orderID, []string{"completed", "rejected"}).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List 申请列表
func (r *GormReturnRepository) List(filter ReturnListFilter) ([]models.ReturnExchange, int64, error) {
	query := r.db.Model(&models.ReturnExchange{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var requests []models.ReturnExchange
	if err := query.Preload("Order").Preload("OrderItem").Order("created_at desc, id desc").Find(&requests).Error; err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}
