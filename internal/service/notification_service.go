package service

import (
	"context"
	"errors"
	"time"

	"github.com/ambava-store/internal/logger"
	"github.com/ambava-store/internal/models"
	"github.com/ambava-store/internal/queue"
	"github.com/ambava-store/internal/repository"
)

const inlineNotificationTimeout = 30 * time.Second

// OrderNotifier 订单通知投递，失败只记录日志，不影响业务结果
type OrderNotifier interface {
	OrderPlaced(ctx context.Context, order *models.Order)
	OrderEvents(ctx context.Context, order *models.Order, events []OrderEvent)
}

// OrderMailer 订单邮件发送
type OrderMailer interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order, user *models.User) error
	SendOrderStatus(ctx context.Context, order *models.Order, user *models.User) error
}

// NotificationService 订单通知服务：队列可用时入队，否则后台协程直接发送
type NotificationService struct {
	mailer      OrderMailer
	queueClient *queue.Client
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
}

// NewNotificationService 创建通知服务
func NewNotificationService(mailer OrderMailer, queueClient *queue.Client, orderRepo repository.OrderRepository, userRepo repository.UserRepository) *NotificationService {
	return &NotificationService{
		mailer:      mailer,
		queueClient: queueClient,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
	}
}

// OrderPlaced 投递下单确认邮件
func (s *NotificationService) OrderPlaced(ctx context.Context, order *models.Order) {
	if s == nil || order == nil || order.ID == 0 {
		return
	}
	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueueOrderConfirmationEmail(queue.OrderConfirmationEmailPayload{OrderID: order.ID})
		if err == nil {
			return
		}
		logger.Warnw("notification_enqueue_confirmation_failed",
			"order_id", order.ID,
			"error", err,
		)
	}
	s.runInline(ctx, func(inlineCtx context.Context) error {
		return s.DeliverOrderConfirmation(inlineCtx, order.ID)
	})
}

// OrderEvents 投递状态变更邮件
func (s *NotificationService) OrderEvents(ctx context.Context, order *models.Order, events []OrderEvent) {
	if s == nil || order == nil {
		return
	}
	for _, event := range events {
		if event.Kind != OrderEventStatusChanged {
			continue
		}
		payload := queue.OrderStatusEmailPayload{
			OrderID:    event.OrderID,
			FromStatus: event.From,
			Status:     event.To,
		}
		if s.queueClient.Enabled() {
			err := s.queueClient.EnqueueOrderStatusEmail(payload)
			if err == nil {
				continue
			}
			logger.Warnw("notification_enqueue_status_failed",
				"order_id", event.OrderID,
				"status", event.To,
				"error", err,
			)
		}
		s.runInline(ctx, func(inlineCtx context.Context) error {
			return s.DeliverOrderStatus(inlineCtx, payload.OrderID, payload.Status)
		})
	}
}

// DeliverOrderConfirmation 读取订单并发送确认邮件，worker 与内联发送共用
func (s *NotificationService) DeliverOrderConfirmation(ctx context.Context, orderID uint) error {
	order, user, err := s.loadOrderWithUser(orderID)
	if err != nil || order == nil {
		return err
	}
	return s.mailer.SendOrderConfirmation(ctx, order, user)
}

// DeliverOrderStatus 发送状态邮件，订单状态已再次变化时跳过
func (s *NotificationService) DeliverOrderStatus(ctx context.Context, orderID uint, status string) error {
	order, user, err := s.loadOrderWithUser(orderID)
	if err != nil || order == nil {
		return err
	}
	if status != "" && order.Status != status {
		logger.Debugw("notification_status_stale",
			"order_id", orderID,
			"expected", status,
			"actual", order.Status,
		)
		return nil
	}
	return s.mailer.SendOrderStatus(ctx, order, user)
}

func (s *NotificationService) loadOrderWithUser(orderID uint) (*models.Order, *models.User, error) {
	if s.mailer == nil || s.orderRepo == nil {
		return nil, nil, nil
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, nil
	}
	var user *models.User
	if s.userRepo != nil {
		user, err = s.userRepo.GetByID(order.UserID)
		if err != nil {
			return nil, nil, err
		}
	}
	return order, user, nil
}

func (s *NotificationService) runInline(ctx context.Context, send func(context.Context) error) {
	base := context.Background()
	if ctx != nil {
		base = context.WithoutCancel(ctx)
	}
	go func() {
		sendCtx, cancel := context.WithTimeout(base, inlineNotificationTimeout)
		defer cancel()
		if err := send(sendCtx); err != nil {
			logNotificationError(err)
		}
	}()
}

func logNotificationError(err error) {
	if errors.Is(err, ErrEmailServiceDisabled) {
		logger.Debugw("notification_email_disabled")
		return
	}
	logger.Warnw("notification_send_failed", "error", err)
}
