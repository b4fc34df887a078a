package service

import (
	"github.com/ambava-store/internal/models"
	"github.com/ambava-store/internal/repository"
)

// WishlistService 收藏服务
type WishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
}

// NewWishlistService 创建收藏服务
func NewWishlistService(wishlistRepo repository.WishlistRepository, productRepo repository.ProductRepository) *WishlistService {
	return &WishlistService{wishlistRepo: wishlistRepo, productRepo: productRepo}
}

// Toggle 切换收藏状态，返回切换后是否已收藏
func (s *WishlistService) Toggle(userID, productID uint) (bool, error) {
	product, err := s.productRepo.GetActiveByID(productID)
	if err != nil {
		return false, err
	}
	if product == nil {
		return false, ErrProductNotFound
	}
	existing, err := s.wishlistRepo.Get(userID, productID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		if err := s.wishlistRepo.Delete(existing.ID); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := s.wishlistRepo.Create(&models.Wishlist{UserID: userID, ProductID: productID}); err != nil {
		return false, err
	}
	return true, nil
}

// ProductIDs 已收藏商品 ID，未登录返回空列表
func (s *WishlistService) ProductIDs(userID uint) ([]uint, error) {
	if userID == 0 {
		return []uint{}, nil
	}
	ids, err := s.wishlistRepo.ListProductIDs(userID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []uint{}
	}
	return ids, nil
}
