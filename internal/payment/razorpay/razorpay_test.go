package razorpay

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeOrderAPI struct {
	data  map[string]interface{}
	body  map[string]interface{}
	err   error
	delay time.Duration
}

func (f *fakeOrderAPI) Create(data map[string]interface{}, _ map[string]string) (map[string]interface{}, error) {
	f.data = data
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.body, f.err
}

func TestCreateOrderSendsPaiseAndNotes(t *testing.T) {
	api := &fakeOrderAPI{body: map[string]interface{}{
		"id":       "order_Nx1",
		"amount":   float64(109900),
		"currency": "INR",
		"status":   "created",
	}}
	client := NewClientWithAPI(Config{KeyID: "rzp_test_key", KeySecret: "secret"}, api)

	result, err := client.CreateOrder(context.Background(), CreateOrderInput{
		AmountPaise: 109900,
		Receipt:     "HOA-1A2B3C4D",
		Notes:       map[string]string{"order_number": "HOA-1A2B3C4D", "customer_email": "asha@example.com"},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if result.OrderID != "order_Nx1" || result.AmountPaise != 109900 || result.Currency != "INR" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if api.data["amount"] != int64(109900) || api.data["currency"] != "INR" || api.data["receipt"] != "HOA-1A2B3C4D" {
		t.Fatalf("unexpected request data: %+v", api.data)
	}
	notes, ok := api.data["notes"].(map[string]interface{})
	if !ok || notes["customer_email"] != "asha@example.com" {
		t.Fatalf("unexpected notes: %+v", api.data["notes"])
	}
}

func TestCreateOrderWrapsSDKError(t *testing.T) {
	client := NewClientWithAPI(Config{KeyID: "k", KeySecret: "s"}, &fakeOrderAPI{err: errors.New("BAD_REQUEST_ERROR")})
	_, err := client.CreateOrder(context.Background(), CreateOrderInput{AmountPaise: 100, Receipt: "HOA-1"})
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
}

func TestCreateOrderRejectsMissingID(t *testing.T) {
	client := NewClientWithAPI(Config{KeyID: "k", KeySecret: "s"}, &fakeOrderAPI{body: map[string]interface{}{"amount": float64(100)}})
	_, err := client.CreateOrder(context.Background(), CreateOrderInput{AmountPaise: 100, Receipt: "HOA-1"})
	if !errors.Is(err, ErrResponseInvalid) {
		t.Fatalf("expected ErrResponseInvalid, got %v", err)
	}
}

func TestCreateOrderTimesOut(t *testing.T) {
	api := &fakeOrderAPI{delay: 200 * time.Millisecond, body: map[string]interface{}{"id": "order_late"}}
	client := NewClientWithAPI(Config{KeyID: "k", KeySecret: "s", Timeout: 20 * time.Millisecond}, api)
	_, err := client.CreateOrder(context.Background(), CreateOrderInput{AmountPaise: 100, Receipt: "HOA-1"})
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected timeout as ErrRequestFailed, got %v", err)
	}
}

func TestNewClientRequiresKeys(t *testing.T) {
	if _, err := NewClient(Config{KeyID: "rzp_test"}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid, got %v", err)
	}
}

func TestVerifySignature(t *testing.T) {
	secret := "test_secret"
	sig := ComputeSignature(secret, "order_1", "pay_1")
	if !VerifySignature(secret, "order_1", "pay_1", sig) {
		t.Fatalf("expected signature to verify")
	}
	if VerifySignature(secret, "order_1", "pay_2", sig) {
		t.Fatalf("signature for another payment must not verify")
	}
	if VerifySignature(secret, "order_1", "pay_1", "") {
		t.Fatalf("empty signature must not verify")
	}
	if VerifySignature("", "order_1", "pay_1", sig) {
		t.Fatalf("empty secret must not verify")
	}
}
