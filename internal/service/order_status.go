package service

import (
	"strings"
	"time"

	"github.com/ambava-store/internal/constants"
	"github.com/ambava-store/internal/models"
)

const defaultCancellationReason = "Cancelled by customer"

// OrderEventKind 订单事件类型
type OrderEventKind string

const (
	OrderEventStatusChanged OrderEventKind = "status_changed"
)

// OrderEvent 状态变更产生的事件，由调用方决定投递通知
type OrderEvent struct {
	Kind        OrderEventKind
	OrderID     uint
	OrderNumber string
	From        string
	To          string
}

// TransitionInput 状态变更附带信息
type TransitionInput struct {
	Reason            string
	TrackingNumber    string
	CourierName       string
	EstimatedDelivery *time.Time
	Now               time.Time
}

// orderFlow 履约主链路，只能向前推进
var orderFlow = []string{
	constants.OrderStatusPending,
	constants.OrderStatusConfirmed,
	constants.OrderStatusShipped,
	constants.OrderStatusOutForDelivery,
	constants.OrderStatusDelivered,
}

func orderFlowIndex(status string) int {
	for i, s := range orderFlow {
		if s == status {
			return i
		}
	}
	return -1
}

// IsValidOrderStatus 是否为已知订单状态
func IsValidOrderStatus(status string) bool {
	return orderFlowIndex(status) >= 0 || status == constants.OrderStatusCancelled
}

// CanCancelOrder 仅待处理与已确认的订单可取消
func CanCancelOrder(status string) bool {
	return status == constants.OrderStatusPending || status == constants.OrderStatusConfirmed
}

func isShippedStatus(status string) bool {
	return status == constants.OrderStatusShipped || status == constants.OrderStatusOutForDelivery
}

// Transition 计算状态变更后的订单与事件，不做任何持久化
func Transition(order models.Order, newStatus string, input TransitionInput) (models.Order, []OrderEvent, error) {
	target := strings.ToLower(strings.TrimSpace(newStatus))
	if !IsValidOrderStatus(target) {
		return order, nil, ErrOrderStatusInvalid
	}
	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}

	applyShippingInfo(&order, input)
	if order.Status == target {
		return order, nil, nil
	}

	if target == constants.OrderStatusCancelled {
		if !CanCancelOrder(order.Status) {
			if isShippedStatus(order.Status) {
				return order, nil, ErrOrderAlreadyShipped
			}
			return order, nil, ErrOrderCannotCancel
		}
		reason := strings.TrimSpace(input.Reason)
		if reason == "" {
			reason = defaultCancellationReason
		}
		order.CancellationReason = reason
		order.CancelledAt = &now
		if order.PaymentStatus == constants.PaymentStatusPaid && !order.IsCOD() {
			order.PaymentStatus = constants.PaymentStatusRefunded
		}
	} else {
		from := orderFlowIndex(order.Status)
		to := orderFlowIndex(target)
		if from < 0 || to <= from {
			return order, nil, ErrOrderStatusInvalid
		}
		if target == constants.OrderStatusDelivered && order.DeliveredAt == nil {
			order.DeliveredAt = &now
		}
	}

	event := OrderEvent{
		Kind:        OrderEventStatusChanged,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		From:        order.Status,
		To:          target,
	}
	order.Status = target
	order.UpdatedAt = now
	return order, []OrderEvent{event}, nil
}

func applyShippingInfo(order *models.Order, input TransitionInput) {
	if tracking := strings.TrimSpace(input.TrackingNumber); tracking != "" {
		order.TrackingNumber = tracking
	}
	if courier := strings.TrimSpace(input.CourierName); courier != "" {
		order.CourierName = courier
	}
	if input.EstimatedDelivery != nil {
		order.EstimatedDelivery = input.EstimatedDelivery
	}
}
