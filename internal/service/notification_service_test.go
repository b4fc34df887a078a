package service

import (
	"context"
	"testing"
	"time"

	"github.com/ambava-store/internal/constants"
	"github.com/ambava-store/internal/models"
	"github.com/ambava-store/internal/queue"
)

type recordingMailer struct {
	confirmations chan string
	statuses      chan string
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{
		confirmations: make(chan string, 4),
		statuses:      make(chan string, 4),
	}
}

func (m *recordingMailer) SendOrderConfirmation(_ context.Context, order *models.Order, _ *models.User) error {
	m.confirmations <- order.OrderNumber
	return nil
}

func (m *recordingMailer) SendOrderStatus(_ context.Context, order *models.Order, _ *models.User) error {
	m.statuses <- order.Status
	return nil
}

func TestNotificationSendsInlineWhenQueueDisabled(t *testing.T) {
	f := setupServiceFixture(t)
	user := f.createUser(t, "notify")
	product := f.createProduct(t, "Saree", 1000, 5)
	order := f.createOrderWithStatus(t, user.ID, product, 1, constants.OrderStatusConfirmed)

	mailer := newRecordingMailer()
	client, _ := queue.NewClient(nil)
	svc := NewNotificationService(mailer, client, f.orderRepo, f.userRepo)

	svc.OrderPlaced(context.Background(), order)
	select {
	case number := <-mailer.confirmations:
		if number != order.OrderNumber {
			t.Fatalf("unexpected confirmation for %s", number)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("confirmation was not sent")
	}
}

func TestDeliverOrderStatusSkipsStaleStatus(t *testing.T) {
	f := setupServiceFixture(t)
	user := f.createUser(t, "notify")
	product := f.createProduct(t, "Saree", 1000, 5)
	order := f.createOrderWithStatus(t, user.ID, product, 1, constants.OrderStatusShipped)

	mailer := newRecordingMailer()
	svc := NewNotificationService(mailer, nil, f.orderRepo, f.userRepo)

	if err := svc.DeliverOrderStatus(context.Background(), order.ID, constants.OrderStatusConfirmed); err != nil {
		t.Fatalf("deliver stale status failed: %v", err)
	}
	select {
	case status := <-mailer.statuses:
		t.Fatalf("stale status should be skipped, sent %s", status)
	default:
	}

	if err := svc.DeliverOrderStatus(context.Background(), order.ID, constants.OrderStatusShipped); err != nil {
		t.Fatalf("deliver status failed: %v", err)
	}
	select {
	case status := <-mailer.statuses:
		if status != constants.OrderStatusShipped {
			t.Fatalf("unexpected status mail %s", status)
		}
	default:
		t.Fatalf("status mail was not sent")
	}

	if err := svc.DeliverOrderStatus(context.Background(), 4242, constants.OrderStatusShipped); err != nil {
		t.Fatalf("missing order should be ignored: %v", err)
	}
}
