package service

import (
	"strings"

	"github.com/ambava-store/internal/constants"
	"github.com/ambava-store/internal/logger"
	"github.com/ambava-store/internal/models"
	"github.com/ambava-store/internal/repository"

	"github.com/shopspring/decimal"
)

const ReturnPageSize = 20

// ReturnInput 退换货申请表单
type ReturnInput struct {
	OrderID     uint   `json:"order_id" validate:"required"`
	OrderItemID *uint  `json:"order_item_id"`
	RequestType string `json:"request_type" validate:"omitempty,oneof=return exchange"`
	Reason      string `json:"reason" validate:"omitempty,oneof=wrong_size defective not_as_described wrong_item change_of_mind other"`
	Details     string `json:"details" validate:"max=5000"`
}

// ReturnReviewInput 后台处理退换货
type ReturnReviewInput struct {
	Status       string           `json:"status" binding:"required"`
	RefundAmount *decimal.Decimal `json:"refund_amount"`
	AdminNotes   *string          `json:"admin_notes"`
}

// returnFlow 允许的状态流转
var returnFlow = map[string][]string{
	constants.ReturnStatusRequested:       {constants.ReturnStatusApproved, constants.ReturnStatusRejected},
	constants.ReturnStatusApproved:        {constants.ReturnStatusPickupScheduled},
	constants.ReturnStatusPickupScheduled: {constants.ReturnStatusPickedUp},
	constants.ReturnStatusPickedUp:        {constants.ReturnStatusCompleted},
}

// CanTransitionReturn 判断退换货状态流转是否合法
func CanTransitionReturn(from, to string) bool {
	for _, next := range returnFlow[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ReturnService 退换货服务
type ReturnService struct {
	returnRepo repository.ReturnRepository
	orderRepo  repository.OrderRepository
}

// NewReturnService 创建退换货服务
func NewReturnService(returnRepo repository.ReturnRepository, orderRepo repository.OrderRepository) *ReturnService {
	return &ReturnService{returnRepo: returnRepo, orderRepo: orderRepo}
}

// Create 提交退换货申请，仅已送达订单可申请，同一订单只允许一个进行中的申请
func (s *ReturnService) Create(userID uint, input ReturnInput) (*models.ReturnExchange, error) {
	if err := validateStruct(input).OrNil(); err != nil {
		return nil, err
	}
	order, err := s.orderRepo.GetByIDAndUser(input.OrderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.Status != constants.OrderStatusDelivered {
		return nil, ErrReturnNotAllowed
	}

	var itemID *uint
	if input.OrderItemID != nil && *input.OrderItemID != 0 {
		item, err := s.orderRepo.GetItem(order.ID, *input.OrderItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, ErrReturnItemInvalid
		}
		id := item.ID
		itemID = &id
	}

	active, err := s.returnRepo.HasActiveForOrder(order.ID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, ErrReturnExists
	}

	requestType := strings.TrimSpace(input.RequestType)
	if requestType == "" {
		requestType = constants.ReturnTypeReturn
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		reason = constants.ReturnReasonOther
	}
	request := &models.ReturnExchange{
		UserID:      userID,
		OrderID:     order.ID,
		OrderItemID: itemID,
		RequestType: requestType,
		Reason:      reason,
		Details:     strings.TrimSpace(input.Details),
		Status:      constants.ReturnStatusRequested,
	}
	if err := s.returnRepo.Create(request); err != nil {
		return nil, err
	}
	logger.Infow("return_requested",
		"return_id", request.ID,
		"order_id", order.ID,
		"user_id", userID,
		"request_type", requestType,
	)
	return request, nil
}

// ListByUser 用户的退换货申请
func (s *ReturnService) ListByUser(userID uint, page int) ([]models.ReturnExchange, int64, error) {
	return s.returnRepo.List(repository.ReturnListFilter{
		Page:     page,
		PageSize: ReturnPageSize,
		UserID:   userID,
	})
}

// ListForStaff 后台退换货列表
func (s *ReturnService) ListForStaff(filter repository.ReturnListFilter) ([]models.ReturnExchange, int64, error) {
	filter.Page, filter.PageSize = repository.NormalizePage(filter.Page, filter.PageSize, ReturnPageSize)
	return s.returnRepo.List(filter)
}

// Review 后台推进退换货状态，可同时记录退款金额与备注
func (s *ReturnService) Review(returnID uint, input ReturnReviewInput) (*models.ReturnExchange, error) {
	request, err := s.returnRepo.GetByID(returnID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrReturnNotFound
	}

	target := strings.ToLower(strings.TrimSpace(input.Status))
	from := request.Status
	if target != from && !CanTransitionReturn(from, target) {
		return nil, ErrReturnStatusInvalid
	}
	request.Status = target
	if input.RefundAmount != nil {
		if input.RefundAmount.IsNegative() {
			verr := &ValidationError{}
			verr.Add("refund_amount", "Refund amount cannot be negative.")
			return nil, verr
		}
		amount := models.NewMoneyFromDecimal(*input.RefundAmount)
		request.RefundAmount = &amount
	}
	if input.AdminNotes != nil {
		request.AdminNotes = strings.TrimSpace(*input.AdminNotes)
	}
	if err := s.returnRepo.Update(request); err != nil {
		return nil, err
	}
	if from != target {
		logger.Infow("return_status_changed",
			"return_id", request.ID,
			"order_id", request.OrderID,
			"from", from,
			"to", target,
		)
	}
	return request, nil
}
