package executor

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestSystemExecutor(t *testing.T) {
	e := NewSystemExecutor()

	t.Run("Execute", func(t *testing.T) {
		out, err := e.Execute("echo", "hello")
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if strings.TrimSpace(string(out)) != "hello" {
			t.Errorf("expected hello, got %q", string(out))
		}
	})

	t.Run("Execute unknown command", func(t *testing.T) {
		_, err := e.Execute("definitely-not-a-command-xyz")
		if err == nil {
			t.Error("expected error for unknown command")
		}
	})

	t.Run("ExecuteContext canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := e.ExecuteContext(ctx, "sleep", "10")
		if err == nil {
			t.Error("expected error for canceled context")
		}
	})

	t.Run("LookPath", func(t *testing.T) {
		if _, err := e.LookPath("echo"); err != nil {
			t.Errorf("LookPath echo failed: %v", err)
		}
	})
}

func TestMockExecutor(t *testing.T) {
	t.Run("records calls", func(t *testing.T) {
		mock := &MockExecutor{}

		if _, err := mock.Execute("certbot", "certonly", "-d", "example.org"); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if _, err := mock.ExecuteContext(context.Background(), "docker", "compose", "stop"); err != nil {
			t.Fatalf("ExecuteContext failed: %v", err)
		}

		if len(mock.Calls) != 2 {
			t.Fatalf("expected 2 recorded calls, got %d", len(mock.Calls))
		}
		if mock.Calls[0].Name != "certbot" {
			t.Errorf("expected certbot, got %s", mock.Calls[0].Name)
		}
		if mock.Calls[1].Args[1] != "stop" {
			t.Errorf("expected stop, got %s", mock.Calls[1].Args[1])
		}
	})

	t.Run("delegates to ExecuteFunc", func(t *testing.T) {
		mock := &MockExecutor{
			ExecuteFunc: func(name string, args ...string) ([]byte, error) {
				return []byte("boom"), errors.New("exit status 1")
			},
		}

		out, err := mock.Execute("nginx", "-t")
		if err == nil {
			t.Error("expected error from ExecuteFunc")
		}
		if string(out) != "boom" {
			t.Errorf("expected boom, got %q", string(out))
		}
	})

	t.Run("pre-canceled context", func(t *testing.T) {
		mock := &MockExecutor{}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := mock.ExecuteContext(ctx, "certbot", "renew")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if len(mock.Calls) != 1 {
			t.Errorf("canceled call should still be recorded")
		}
	})
}
