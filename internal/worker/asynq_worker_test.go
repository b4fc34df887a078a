package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/ambava-store/internal/queue"
	"github.com/ambava-store/internal/service"

	"github.com/hibiken/asynq"
)

type fakeDeliverer struct {
	confirmations []uint
	statuses      []string
	err           error
}

func (d *fakeDeliverer) DeliverOrderConfirmation(_ context.Context, orderID uint) error {
	d.confirmations = append(d.confirmations, orderID)
	return d.err
}

func (d *fakeDeliverer) DeliverOrderStatus(_ context.Context, orderID uint, status string) error {
	d.statuses = append(d.statuses, status)
	return d.err
}

func TestHandleOrderStatusEmailDelivers(t *testing.T) {
	deliverer := &fakeDeliverer{}
	consumer := NewConsumerWithDeliverer(deliverer)
	task, err := queue.NewOrderStatusEmailTask(queue.OrderStatusEmailPayload{OrderID: 7, FromStatus: "confirmed", Status: "shipped"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleOrderStatusEmail(context.Background(), task); err != nil {
		t.Fatalf("handle task failed: %v", err)
	}
	if len(deliverer.statuses) != 1 || deliverer.statuses[0] != "shipped" {
		t.Fatalf("unexpected deliveries: %v", deliverer.statuses)
	}
}

func TestHandleOrderConfirmationEmailSkipsInvalidPayload(t *testing.T) {
	deliverer := &fakeDeliverer{}
	consumer := NewConsumerWithDeliverer(deliverer)
	if err := consumer.handleOrderConfirmationEmail(context.Background(), asynq.NewTask(queue.TaskOrderConfirmationEmail, []byte(`{"order_id":0}`))); err != nil {
		t.Fatalf("zero order id should be skipped: %v", err)
	}
	if err := consumer.handleOrderConfirmationEmail(context.Background(), asynq.NewTask(queue.TaskOrderConfirmationEmail, []byte(`not-json`))); err == nil {
		t.Fatalf("malformed payload should fail")
	}
	if len(deliverer.confirmations) != 0 {
		t.Fatalf("nothing should be delivered: %v", deliverer.confirmations)
	}
}

func TestHandleDeliveryErrorSwallowsDisabledEmail(t *testing.T) {
	deliverer := &fakeDeliverer{err: service.ErrEmailServiceDisabled}
	consumer := NewConsumerWithDeliverer(deliverer)
	task, _ := queue.NewOrderConfirmationEmailTask(queue.OrderConfirmationEmailPayload{OrderID: 3})
	if err := consumer.handleOrderConfirmationEmail(context.Background(), task); err != nil {
		t.Fatalf("disabled email should not fail task: %v", err)
	}

	deliverer.err = errors.New("smtp down")
	if err := consumer.handleOrderConfirmationEmail(context.Background(), task); err == nil {
		t.Fatalf("smtp failure should be returned")
	}
}

func TestNewServiceRequiresEnabledQueue(t *testing.T) {
	if _, err := NewService(nil, nil); !errors.Is(err, ErrQueueDisabled) {
		t.Fatalf("expected ErrQueueDisabled, got %v", err)
	}
}
