package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ambava-store/internal/logger"
	"github.com/ambava-store/internal/provider"
	"github.com/ambava-store/internal/queue"
	"github.com/ambava-store/internal/service"

	"github.com/hibiken/asynq"
)

// OrderEmailDeliverer 订单邮件投递
type OrderEmailDeliverer interface {
	DeliverOrderConfirmation(ctx context.Context, orderID uint) error
	DeliverOrderStatus(ctx context.Context, orderID uint, status string) error
}

// Consumer 异步任务消费者
type Consumer struct {
	notifications OrderEmailDeliverer
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	if c == nil || c.NotificationService == nil {
		return &Consumer{}
	}
	return &Consumer{notifications: c.NotificationService}
}

// NewConsumerWithDeliverer 使用指定投递实现创建消费者
func NewConsumerWithDeliverer(deliverer OrderEmailDeliverer) *Consumer {
	return &Consumer{notifications: deliverer}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderConfirmationEmail, c.handleOrderConfirmationEmail)
	mux.HandleFunc(queue.TaskOrderStatusEmail, c.handleOrderStatusEmail)
}

func (c *Consumer) handleOrderConfirmationEmail(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_confirmation_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderConfirmationEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_confirmation_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_confirmation_email_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.notifications == nil {
		logger.Warnw("worker_order_confirmation_email_skip_deliverer_nil", "order_id", payload.OrderID)
		return nil
	}
	return handleDeliveryError("worker_order_confirmation_email_send_failed", payload.OrderID, "",
		c.notifications.DeliverOrderConfirmation(ctx, payload.OrderID))
}

func (c *Consumer) handleOrderStatusEmail(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_status_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderStatusEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_status_email_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.notifications == nil {
		logger.Warnw("worker_order_status_email_skip_deliverer_nil", "order_id", payload.OrderID)
		return nil
	}
	return handleDeliveryError("worker_order_status_email_send_failed", payload.OrderID, payload.Status,
		c.notifications.DeliverOrderStatus(ctx, payload.OrderID, payload.Status))
}

// handleDeliveryError 邮件未启用或未配置时吞掉错误，其余错误交给 asynq 归档
func handleDeliveryError(event string, orderID uint, status string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, service.ErrEmailServiceDisabled) || errors.Is(err, service.ErrEmailServiceNotConfigured) {
		logger.Debugw("worker_order_email_skip_disabled", "order_id", orderID)
		return nil
	}
	logger.Warnw(event,
		"order_id", orderID,
		"status", status,
		"error", err,
	)
	return err
}
