package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/medicare/medicare-api/internal/testutil"
)

func testConfig() Config {
	return Config{
		Port:            0,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: 2 * time.Second,
	}
}

func TestNew_Addr(t *testing.T) {
	srv := New(http.NotFoundHandler(), Config{Port: 3000}, testutil.DiscardLogger())
	if srv.Addr() != ":3000" {
		t.Errorf("Addr() = %q, want :3000", srv.Addr())
	}
}

func TestServe_GracefulShutdownRunsHooksLIFO(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	srv := New(handler, testConfig(), testutil.DiscardLogger())

	var mu sync.Mutex
	var order []string
	record := func(name string) ShutdownFunc {
		return func(ctx context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return nil
		}
	}
	srv.OnShutdown("storage", record("storage"))
	srv.OnShutdown("redis", record("redis"))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Errorf("body = %q, want ok", body)
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	if strings.Join(order, ",") != "redis,storage" {
		t.Errorf("shutdown order = %v, want [redis storage]", order)
	}
}

func TestServe_ShutdownErrorsAreJoined(t *testing.T) {
	srv := New(http.NotFoundHandler(), testConfig(), testutil.DiscardLogger())

	errStorage := errors.New("flush failed")
	srv.OnShutdown("storage", func(ctx context.Context) error { return errStorage })
	srv.OnShutdown("redis", func(ctx context.Context) error { return nil })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = srv.Serve(ctx, ln)
	if !errors.Is(err, errStorage) {
		t.Fatalf("Serve error = %v, want %v", err, errStorage)
	}
	if !strings.Contains(err.Error(), "storage") {
		t.Errorf("error %q should name the component", err)
	}
}
