package service

import (
	"context"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ambava-store/internal/cache"
	"github.com/ambava-store/internal/config"
	"github.com/ambava-store/internal/logger"
	"github.com/ambava-store/internal/models"
	"github.com/ambava-store/internal/repository"
)

const (
	defaultReviewRateWindowSeconds = 3600
	defaultReviewRateMax           = 5
	reviewListLimit                = 20
	reviewTitleMaxLen              = 200
	reviewCommentMaxLen            = 5000
	reviewDateLayout               = "Jan 02, 2006"
)

// ReviewInput 评价表单
type ReviewInput struct {
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

// ReviewView 评价展示
type ReviewView struct {
	ID               uint   `json:"id"`
	Rating           int    `json:"rating"`
	Title            string `json:"title"`
	Comment          string `json:"comment"`
	User             string `json:"user"`
	CreatedAt        string `json:"created_at"`
	VerifiedPurchase bool   `json:"verified_purchase"`
}

// ReviewService 商品评价服务
type ReviewService struct {
	cfg         config.RateLimitConfig
	store       cache.Store
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
}

// NewReviewService 创建评价服务
func NewReviewService(cfg config.RateLimitConfig, store cache.Store, reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository, orderRepo repository.OrderRepository) *ReviewService {
	return &ReviewService{
		cfg:         cfg,
		store:       store,
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

func reviewRateKey(userID uint) string {
	return "review_rate:" + strconv.FormatUint(uint64(userID), 10)
}

// Submit 创建或更新评价，返回是否为新建。
// 仅已收货用户可评价，成功提交才计入限流次数。
func (s *ReviewService) Submit(ctx context.Context, userID, productID uint, input ReviewInput) (*models.Review, bool, error) {
	maxReviews := positiveOrDefault(s.cfg.MaxAttempts, defaultReviewRateMax)
	window := time.Duration(positiveOrDefault(s.cfg.WindowSeconds, defaultReviewRateWindowSeconds)) * time.Second
	key := reviewRateKey(userID)

	if raw, ok, err := s.store.Get(ctx, key); err != nil {
		return nil, false, err
	} else if ok {
		if count, _ := strconv.Atoi(raw); count >= maxReviews {
			return nil, false, ErrReviewRateLimited
		}
	}

	product, err := s.productRepo.GetActiveByID(productID)
	if err != nil {
		return nil, false, err
	}
	if product == nil {
		return nil, false, ErrProductNotFound
	}
	if input.Rating < 1 || input.Rating > 5 {
		verr := &ValidationError{}
		verr.Add("rating", fieldMessages["rating"])
		return nil, false, verr
	}

	verified, err := s.orderRepo.HasDeliveredItem(userID, productID)
	if err != nil {
		return nil, false, err
	}
	if !verified {
		return nil, false, ErrReviewNotVerified
	}

	review, err := s.reviewRepo.GetByProductAndUser(productID, userID)
	if err != nil {
		return nil, false, err
	}
	created := review == nil
	if created {
		review = &models.Review{ProductID: productID, UserID: userID}
	}
	review.Rating = input.Rating
	review.Title = truncateRunes(strings.TrimSpace(input.Title), reviewTitleMaxLen)
	review.Comment = truncateRunes(strings.TrimSpace(input.Comment), reviewCommentMaxLen)
	review.IsApproved = verified
	if err := s.reviewRepo.Save(review); err != nil {
		return nil, false, err
	}

	if _, _, err := s.store.Incr(ctx, key, window); err != nil {
		logger.Warnw("review_rate_incr_failed", "user_id", userID, "error", err)
	}
	return review, created, nil
}

// List 商品最新的已审核评价
func (s *ReviewService) List(productID uint) ([]ReviewView, error) {
	reviews, err := s.reviewRepo.ListApprovedByProduct(productID, reviewListLimit)
	if err != nil {
		return nil, err
	}
	views := make([]ReviewView, 0, len(reviews))
	if len(reviews) == 0 {
		return views, nil
	}
	buyerIDs, err := s.orderRepo.DeliveredBuyerIDs(productID)
	if err != nil {
		return nil, err
	}
	buyers := make(map[uint]struct{}, len(buyerIDs))
	for _, id := range buyerIDs {
		buyers[id] = struct{}{}
	}
	for _, review := range reviews {
		_, verified := buyers[review.UserID]
		views = append(views, ReviewView{
			ID:               review.ID,
			Rating:           review.Rating,
			Title:            review.Title,
			Comment:          review.Comment,
			User:             reviewerName(review.User),
			CreatedAt:        review.CreatedAt.Format(reviewDateLayout),
			VerifiedPurchase: verified,
		})
	}
	return views, nil
}

func reviewerName(user *models.User) string {
	if user == nil {
		return ""
	}
	if name := strings.TrimSpace(user.FirstName); name != "" {
		return name
	}
	return user.Username
}

func truncateRunes(value string, limit int) string {
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	return string([]rune(value)[:limit])
}
