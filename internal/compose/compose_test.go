package compose

import (
	"context"
	"errors"
	"reflect"
	"testing"

	deployerrors "github.com/quizzler/deployctl/internal/errors"
	"github.com/quizzler/deployctl/internal/executor"
)

// pluginExecutor simulates a host with the docker compose v2 plugin.
func pluginExecutor() *executor.MockExecutor {
	return &executor.MockExecutor{
		LookPathFunc: func(file string) (string, error) {
			if file == "docker" {
				return "/usr/bin/docker", nil
			}
			return "", errors.New("not found")
		},
	}
}

func TestDetectCompose(t *testing.T) {
	t.Run("prefers v2 plugin", func(t *testing.T) {
		m, err := NewWithExecutor("docker-compose.yml", pluginExecutor())
		if err != nil {
			t.Fatalf("NewWithExecutor failed: %v", err)
		}
		if !reflect.DeepEqual(m.base, []string{"docker", "compose"}) {
			t.Errorf("expected docker compose plugin, got %v", m.base)
		}
	})

	t.Run("falls back to legacy binary", func(t *testing.T) {
		mock := &executor.MockExecutor{
			LookPathFunc: func(file string) (string, error) {
				if file == "docker-compose" {
					return "/usr/local/bin/docker-compose", nil
				}
				return "", errors.New("not found")
			},
		}

		m, err := NewWithExecutor("docker-compose.yml", mock)
		if err != nil {
			t.Fatalf("NewWithExecutor failed: %v", err)
		}
		if !reflect.DeepEqual(m.base, []string{"docker-compose"}) {
			t.Errorf("expected legacy binary, got %v", m.base)
		}
	})

	t.Run("neither installed", func(t *testing.T) {
		mock := &executor.MockExecutor{
			LookPathFunc: func(file string) (string, error) {
				return "", errors.New("not found")
			},
		}

		_, err := NewWithExecutor("docker-compose.yml", mock)
		if !deployerrors.Is(err, deployerrors.ErrComposeNotInstalled) {
			t.Errorf("expected ErrComposeNotInstalled, got %v", err)
		}
	})

	t.Run("plugin probe fails", func(t *testing.T) {
		mock := &executor.MockExecutor{
			LookPathFunc: func(file string) (string, error) {
				if file == "docker" || file == "docker-compose" {
					return "/usr/bin/" + file, nil
				}
				return "", errors.New("not found")
			},
			ExecuteFunc: func(name string, args ...string) ([]byte, error) {
				// `docker compose version` fails on docker without the plugin
				return []byte("unknown command"), errors.New("exit status 125")
			},
		}

		m, err := NewWithExecutor("docker-compose.yml", mock)
		if err != nil {
			t.Fatalf("NewWithExecutor failed: %v", err)
		}
		if !reflect.DeepEqual(m.base, []string{"docker-compose"}) {
			t.Errorf("expected fallback to legacy binary, got %v", m.base)
		}
	})
}

func TestStopAll(t *testing.T) {
	mock := pluginExecutor()
	m, err := NewWithExecutor("deploy/docker-compose.yml", mock)
	if err != nil {
		t.Fatalf("NewWithExecutor failed: %v", err)
	}

	if err := m.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}

	last := mock.Calls[len(mock.Calls)-1]
	want := []string{"compose", "-f", "deploy/docker-compose.yml", "stop"}
	if last.Name != "docker" || !reflect.DeepEqual(last.Args, want) {
		t.Errorf("unexpected invocation: %s %v", last.Name, last.Args)
	}
}

func TestStart(t *testing.T) {
	t.Run("validation subset", func(t *testing.T) {
		mock := pluginExecutor()
		m, _ := NewWithExecutor("docker-compose.yml", mock)

		if err := m.Start(context.Background(), "backend", "nginx"); err != nil {
			t.Fatalf("Start failed: %v", err)
		}

		last := mock.Calls[len(mock.Calls)-1]
		want := []string{"compose", "-f", "docker-compose.yml", "up", "-d", "backend", "nginx"}
		if !reflect.DeepEqual(last.Args, want) {
			t.Errorf("unexpected args: %v", last.Args)
		}
	})

	t.Run("full set", func(t *testing.T) {
		mock := pluginExecutor()
		m, _ := NewWithExecutor("docker-compose.yml", mock)

		if err := m.Start(context.Background()); err != nil {
			t.Fatalf("Start failed: %v", err)
		}

		last := mock.Calls[len(mock.Calls)-1]
		want := []string{"compose", "-f", "docker-compose.yml", "up", "-d"}
		if !reflect.DeepEqual(last.Args, want) {
			t.Errorf("unexpected args: %v", last.Args)
		}
	})

	t.Run("up failure surfaces output", func(t *testing.T) {
		mock := pluginExecutor()
		m, _ := NewWithExecutor("docker-compose.yml", mock)
		mock.ExecuteFunc = func(name string, args ...string) ([]byte, error) {
			return []byte("no such service: worker"), errors.New("exit status 1")
		}

		err := m.Start(context.Background(), "worker")
		if err == nil {
			t.Fatal("expected error")
		}
		if got := err.Error(); got != "compose up failed: no such service: worker" {
			t.Errorf("unexpected error message: %s", got)
		}
	})
}

func TestRunning(t *testing.T) {
	mock := pluginExecutor()
	m, _ := NewWithExecutor("docker-compose.yml", mock)
	mock.ExecuteFunc = func(name string, args ...string) ([]byte, error) {
		return []byte("backend\nnginx\n"), nil
	}

	services, err := m.Running(context.Background())
	if err != nil {
		t.Fatalf("Running failed: %v", err)
	}
	if !reflect.DeepEqual(services, []string{"backend", "nginx"}) {
		t.Errorf("unexpected services: %v", services)
	}
}

func TestExec(t *testing.T) {
	mock := pluginExecutor()
	m, _ := NewWithExecutor("docker-compose.yml", mock)

	if _, err := m.Exec(context.Background(), "nginx", "nginx", "-t"); err != nil {
		t.Fatalf("Exec failed: %v", err)
	}

	last := mock.Calls[len(mock.Calls)-1]
	want := []string{"compose", "-f", "docker-compose.yml", "exec", "-T", "nginx", "nginx", "-t"}
	if !reflect.DeepEqual(last.Args, want) {
		t.Errorf("unexpected args: %v", last.Args)
	}
}
