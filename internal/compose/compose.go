// Package compose manages the deployment's docker compose service set.
//
// The provisioning pipeline treats the service set as a coarse process
// group: stop everything, start the validation subset, start everything.
// Individual process lifecycles belong to compose, not to this tool. At any
// instant the set is in one of three states (all stopped, validation subset
// running, all running) and the pipeline's strict step order is the only
// thing that moves it between them.
package compose

import (
	"context"
	"fmt"
	"strings"

	"github.com/quizzler/deployctl/internal/errors"
	"github.com/quizzler/deployctl/internal/executor"
	"github.com/quizzler/deployctl/internal/logger"
)

// Manager drives docker compose for one project file.
type Manager struct {
	file string
	base []string // compose invocation prefix, e.g. ["docker", "compose"]
	exec executor.CommandExecutor
}

// New creates a Manager for the given compose file, autodetecting whether
// the host has the `docker compose` plugin or the legacy `docker-compose`
// binary.
func New(file string) (*Manager, error) {
	return NewWithExecutor(file, executor.NewSystemExecutor())
}

// NewWithExecutor creates a Manager with a custom executor (for testing).
func NewWithExecutor(file string, exec executor.CommandExecutor) (*Manager, error) {
	base, err := detectCompose(exec)
	if err != nil {
		return nil, err
	}
	return &Manager{file: file, base: base, exec: exec}, nil
}

// detectCompose finds a usable compose invocation. The v2 plugin is
// preferred; the standalone v1 binary is the fallback.
func detectCompose(exec executor.CommandExecutor) ([]string, error) {
	if _, err := exec.LookPath("docker"); err == nil {
		if _, err := exec.Execute("docker", "compose", "version"); err == nil {
			return []string{"docker", "compose"}, nil
		}
	}
	if _, err := exec.LookPath("docker-compose"); err == nil {
		return []string{"docker-compose"}, nil
	}
	return nil, errors.ErrComposeNotInstalled
}

// run executes a compose subcommand against the project file.
func (m *Manager) run(ctx context.Context, args ...string) ([]byte, error) {
	full := append([]string{}, m.base[1:]...)
	full = append(full, "-f", m.file)
	full = append(full, args...)

	logger.Debug("compose: %s %s", m.base[0], strings.Join(full, " "))
	return m.exec.ExecuteContext(ctx, m.base[0], full...)
}

// StopAll stops the full service set. Idempotent: stopping an already
// stopped set succeeds.
func (m *Manager) StopAll(ctx context.Context) error {
	output, err := m.run(ctx, "stop")
	if err != nil {
		return fmt.Errorf("compose stop failed: %s", strings.TrimSpace(string(output)))
	}
	return nil
}

// Start brings up the named services detached. With no services given it
// brings up the whole set.
func (m *Manager) Start(ctx context.Context, services ...string) error {
	args := append([]string{"up", "-d"}, services...)
	output, err := m.run(ctx, args...)
	if err != nil {
		return fmt.Errorf("compose up failed: %s", strings.TrimSpace(string(output)))
	}
	return nil
}

// Running returns the names of services with running containers.
func (m *Manager) Running(ctx context.Context) ([]string, error) {
	output, err := m.run(ctx, "ps", "--services", "--filter", "status=running")
	if err != nil {
		return nil, fmt.Errorf("compose ps failed: %s", strings.TrimSpace(string(output)))
	}

	var services []string
	for _, line := range strings.Split(string(output), "\n") {
		if s := strings.TrimSpace(line); s != "" {
			services = append(services, s)
		}
	}
	return services, nil
}

// Exec runs a command inside a running service container. Used for the
// post-write `nginx -t` syntax check.
func (m *Manager) Exec(ctx context.Context, service string, cmd ...string) ([]byte, error) {
	args := append([]string{"exec", "-T", service}, cmd...)
	return m.run(ctx, args...)
}
