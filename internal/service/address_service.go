package service

import (
	"strings"

	"github.com/ambava-store/internal/constants"
	"github.com/ambava-store/internal/models"
	"github.com/ambava-store/internal/repository"

	"gorm.io/gorm"
)

// AddressInput 地址表单
type AddressInput struct {
	Label        string `json:"label" validate:"omitempty,oneof=home work other"`
	FullName     string `json:"full_name" validate:"notblank,max=100"`
	Phone        string `json:"phone" validate:"max=20"`
	AddressLine1 string `json:"address_line1" validate:"notblank,max=255"`
	AddressLine2 string `json:"address_line2" validate:"max=255"`
	City         string `json:"city" validate:"notblank,max=100"`
	State        string `json:"state" validate:"notblank,max=100"`
	Pincode      string `json:"pincode" validate:"pincode,max=10"`
	IsDefault    bool   `json:"is_default"`
}

// AddressService 收货地址服务
type AddressService struct {
	db          *gorm.DB
	addressRepo repository.AddressRepository
}

// NewAddressService 创建地址服务
func NewAddressService(db *gorm.DB, addressRepo repository.AddressRepository) *AddressService {
	return &AddressService{db: db, addressRepo: addressRepo}
}

// List 用户地址列表
func (s *AddressService) List(userID uint) ([]models.Address, error) {
	return s.addressRepo.ListByUser(userID)
}

// Save 新建或更新地址；addressID 为 0 表示新建。
// 首个地址自动设为默认，设为默认时在同一事务内取消其他默认。
func (s *AddressService) Save(userID, addressID uint, input AddressInput) (*models.Address, error) {
	if err := validateStruct(input).OrNil(); err != nil {
		return nil, err
	}

	var saved *models.Address
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)
		address := &models.Address{UserID: userID}
		if addressID != 0 {
			existing, err := repo.GetByIDAndUser(addressID, userID)
			if err != nil {
				return err
			}
			if existing == nil {
				return ErrAddressNotFound
			}
			address = existing
		}

		label := strings.ToLower(strings.TrimSpace(input.Label))
		if label == "" {
			label = constants.AddressLabelHome
		}
		address.Label = label
		address.FullName = strings.TrimSpace(input.FullName)
		address.Phone = strings.TrimSpace(input.Phone)
		address.AddressLine1 = strings.TrimSpace(input.AddressLine1)
		address.AddressLine2 = strings.TrimSpace(input.AddressLine2)
		address.City = strings.TrimSpace(input.City)
		address.State = strings.TrimSpace(input.State)
		address.Pincode = strings.TrimSpace(input.Pincode)
		address.IsDefault = input.IsDefault

		if address.ID == 0 {
			count, err := repo.CountByUser(userID)
			if err != nil {
				return err
			}
			if count == 0 {
				address.IsDefault = true
			}
			if err := repo.Create(address); err != nil {
				return err
			}
		} else if err := repo.Update(address); err != nil {
			return err
		}

		if address.IsDefault {
			if err := repo.ClearDefault(userID, address.ID); err != nil {
				return err
			}
		}
		saved = address
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// Delete 删除地址
func (s *AddressService) Delete(userID, addressID uint) error {
	existing, err := s.addressRepo.GetByIDAndUser(addressID, userID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrAddressNotFound
	}
	return s.addressRepo.Delete(addressID, userID)
}
