package cli

import (
	"fmt"
	"os"

	"github.com/quizzler/deployctl/internal/compose"
	"github.com/quizzler/deployctl/internal/config"
	"github.com/quizzler/deployctl/internal/errors"
	"github.com/quizzler/deployctl/internal/input"
	"github.com/quizzler/deployctl/internal/output"
)

// geteuid is swappable for tests.
var geteuid = os.Geteuid

var errRootRequired = errors.Validation("this command must be run as root")

// requireRoot ensures the command can manage system paths and services.
func requireRoot() error {
	if geteuid() != 0 {
		return errRootRequired
	}
	return nil
}

// stdinReader is swappable for tests.
var stdinReader input.Reader

// confirmProceed asks the operator before a disruptive action.
func confirmProceed(prompt string) bool {
	output.Warn("%s [y/N]", prompt)
	r := stdinReader
	if r == nil {
		r = input.NewStdinReader()
	}
	return input.Confirm(r)
}

// loadDeployConfig loads and validates the deploy configuration from the
// --config path.
func loadDeployConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newServiceManager builds the compose manager for the configured project.
func newServiceManager(cfg *config.Config) (*compose.Manager, error) {
	mgr, err := compose.New(cfg.ComposeFile)
	if err != nil {
		return nil, err
	}
	return mgr, nil
}

// outputResult handles JSON or human-readable output
func outputResult(data interface{}, successMsg string, args ...interface{}) error {
	if jsonOutput {
		return output.JSON(data)
	}
	output.Success(successMsg, args...)
	return nil
}
