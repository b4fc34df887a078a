package service

import (
	"errors"
	"testing"
	"time"

	"github.com/ambava-store/internal/constants"
	"github.com/ambava-store/internal/models"
)

func TestTransitionCancelRefundsOnlinePayment(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	order := models.Order{
		ID:            1,
		OrderNumber:   "HOA-ABCDEF12",
		Status:        constants.OrderStatusConfirmed,
		PaymentStatus: constants.PaymentStatusPaid,
		PaymentMethod: constants.PaymentMethodRazorpay,
	}
	updated, events, err := Transition(order, "cancelled", TransitionInput{Reason: " Changed my mind ", Now: now})
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if updated.PaymentStatus != constants.PaymentStatusRefunded {
		t.Fatalf("online paid order should be refunded, got %s", updated.PaymentStatus)
	}
	if updated.CancelledAt == nil || !updated.CancelledAt.Equal(now) {
		t.Fatalf("cancelled_at not set: %v", updated.CancelledAt)
	}
	if updated.CancellationReason != "Changed my mind" {
		t.Fatalf("unexpected reason %q", updated.CancellationReason)
	}
	if len(events) != 1 || events[0].From != constants.OrderStatusConfirmed || events[0].To != constants.OrderStatusCancelled {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestTransitionCODCancelKeepsPaymentStatus(t *testing.T) {
	order := models.Order{Status: constants.OrderStatusPending, PaymentStatus: constants.PaymentStatusPaid, PaymentMethod: constants.PaymentMethodCOD}
	updated, _, err := Transition(order, constants.OrderStatusCancelled, TransitionInput{})
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if updated.PaymentStatus != constants.PaymentStatusPaid {
		t.Fatalf("cod payment status should stay, got %s", updated.PaymentStatus)
	}
	if updated.CancellationReason != "Cancelled by customer" {
		t.Fatalf("default reason missing: %q", updated.CancellationReason)
	}
}

func TestTransitionSameStatusUpdatesShippingWithoutEvent(t *testing.T) {
	order := models.Order{Status: constants.OrderStatusShipped}
	updated, events, err := Transition(order, constants.OrderStatusShipped, TransitionInput{TrackingNumber: "AWB1"})
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("same status should not emit events")
	}
	if updated.TrackingNumber != "AWB1" {
		t.Fatalf("tracking should update, got %q", updated.TrackingNumber)
	}
}

func TestTransitionRejectsUnknownAndBackward(t *testing.T) {
	order := models.Order{Status: constants.OrderStatusDelivered}
	if _, _, err := Transition(order, "lost", TransitionInput{}); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("unknown status want invalid, got %v", err)
	}
	if _, _, err := Transition(order, constants.OrderStatusShipped, TransitionInput{}); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("backward status want invalid, got %v", err)
	}
	cancelled := models.Order{Status: constants.OrderStatusCancelled}
	if _, _, err := Transition(cancelled, constants.OrderStatusConfirmed, TransitionInput{}); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("cancelled is terminal, got %v", err)
	}
}
