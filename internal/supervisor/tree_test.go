package supervisor

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/lazypower/oracle/internal/logging"
)

type fakeServer struct {
	mu       sync.Mutex
	started  chan struct{}
	stop     chan struct{}
	listens  int
	shutdown bool
	failWith error
}

func newFakeServer() *fakeServer {
	return &fakeServer{started: make(chan struct{}, 10), stop: make(chan struct{})}
}

func (f *fakeServer) ListenAndServe() error {
	f.mu.Lock()
	f.listens++
	f.mu.Unlock()
	f.started <- struct{}{}
	if f.failWith != nil {
		return f.failWith
	}
	<-f.stop
	return http.ErrServerClosed
}

func (f *fakeServer) Shutdown(context.Context) error {
	f.mu.Lock()
	f.shutdown = true
	f.mu.Unlock()
	close(f.stop)
	return nil
}

func TestHTTPServiceShutdown(t *testing.T) {
	srv := newFakeServer()
	svc := NewHTTPService(srv, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()
	<-srv.started
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return")
	}
	if !srv.shutdown {
		t.Error("server not shut down")
	}
}

func TestHTTPServiceListenError(t *testing.T) {
	srv := newFakeServer()
	srv.failWith = errors.New("address in use")
	err := NewHTTPService(srv, 0).Serve(context.Background())
	if err == nil || srv.shutdown {
		t.Errorf("Serve = %v, shutdown = %v", err, srv.shutdown)
	}
}

type flakyService struct {
	mu   sync.Mutex
	runs int
	ok   chan struct{}
}

func (s *flakyService) Serve(ctx context.Context) error {
	s.mu.Lock()
	s.runs++
	runs := s.runs
	s.mu.Unlock()
	if runs == 1 {
		return errors.New("first run fails")
	}
	close(s.ok)
	<-ctx.Done()
	return ctx.Err()
}

func TestTreeRestartsFailedService(t *testing.T) {
	tree := New(logging.NewSlogLogger(), TreeConfig{FailureBackoff: 10 * time.Millisecond})
	svc := &flakyService{ok: make(chan struct{})}
	tree.Add(svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go tree.Serve(ctx)

	select {
	case <-svc.ok:
	case <-time.After(5 * time.Second):
		t.Fatal("service was not restarted")
	}
}
