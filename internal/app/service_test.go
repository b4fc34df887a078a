package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ambava-store/internal/config"
)

type fakeService struct {
	name     string
	startErr error
	blocking bool
	stopped  atomic.Bool
}

func newFakeService(name string, blocking bool, startErr error) *fakeService {
	return &fakeService{name: name, blocking: blocking, startErr: startErr}
}

func (s *fakeService) Name() string { return s.name }

func (s *fakeService) Start(ctx context.Context) error {
	if !s.blocking {
		return s.startErr
	}
	<-ctx.Done()
	return nil
}

func (s *fakeService) Stop(context.Context) error {
	s.stopped.Store(true)
	return nil
}

func TestRunnerStopsAllWhenOneServiceFails(t *testing.T) {
	boom := errors.New("listen failed")
	api := newFakeService("http", false, boom)
	worker := newFakeService("worker", true, nil)

	err := NewRunner(api, worker).Run(context.Background(), time.Second, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected start error, got %v", err)
	}
	if !api.stopped.Load() || !worker.stopped.Load() {
		t.Fatalf("expected every service to be stopped")
	}
}

func TestRunnerReturnsNilOnCancel(t *testing.T) {
	api := newFakeService("http", true, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	if err := NewRunner(api).Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("cancel should end the runner cleanly, got %v", err)
	}
	if !api.stopped.Load() {
		t.Fatalf("expected service to be stopped")
	}
}

func TestRunnerRequiresServices(t *testing.T) {
	if err := NewRunner(nil).Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("expected error for empty runner")
	}
}

func TestNewHTTPServiceAppliesTimeoutFallbacks(t *testing.T) {
	svc := NewHTTPService(config.ServerConfig{Host: "127.0.0.1", Port: "8080", WriteTimeoutSeconds: 5}, nil)
	if svc.server.Addr != "127.0.0.1:8080" {
		t.Fatalf("unexpected addr: %s", svc.server.Addr)
	}
	if svc.server.ReadTimeout != 15*time.Second || svc.server.WriteTimeout != 5*time.Second {
		t.Fatalf("unexpected timeouts: read=%s write=%s", svc.server.ReadTimeout, svc.server.WriteTimeout)
	}
}
