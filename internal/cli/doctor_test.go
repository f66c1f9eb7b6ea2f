package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func findCheck(t *testing.T, checks []CheckResult, substr string) CheckResult {
	t.Helper()
	for _, c := range checks {
		if strings.Contains(c.Message, substr) {
			return c
		}
	}
	t.Fatalf("no check mentioning %q in %+v", substr, checks)
	return CheckResult{}
}

func TestCheckConfiguration(t *testing.T) {
	defer func() { configPath = "deploy.yaml" }()

	t.Run("valid config with compose file", func(t *testing.T) {
		dir := t.TempDir()
		composeFile := filepath.Join(dir, "docker-compose.yml")
		if err := os.WriteFile(composeFile, []byte("services: {}\n"), 0644); err != nil {
			t.Fatal(err)
		}

		configPath = filepath.Join(dir, "deploy.yaml")
		content := `domain: api.example.org
email: ops@example.org
compose_file: ` + composeFile + `
`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, checks := checkConfiguration()
		if cfg == nil {
			t.Fatalf("expected config, checks: %+v", checks)
		}

		if c := findCheck(t, checks, "Config valid"); c.Status != "success" {
			t.Errorf("config check status = %s", c.Status)
		}
		if c := findCheck(t, checks, "Compose file present"); c.Status != "success" {
			t.Errorf("compose file check status = %s", c.Status)
		}
		if c := findCheck(t, checks, "Certificate files missing"); c.Status != "warning" {
			t.Errorf("certificate check status = %s", c.Status)
		}
	})

	t.Run("missing compose file flagged", func(t *testing.T) {
		dir := t.TempDir()
		configPath = filepath.Join(dir, "deploy.yaml")
		content := `domain: api.example.org
email: ops@example.org
compose_file: ` + filepath.Join(dir, "nope.yml") + `
`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		_, checks := checkConfiguration()
		if c := findCheck(t, checks, "Compose file missing"); c.Status != "error" {
			t.Errorf("compose file check status = %s", c.Status)
		}
	})

	t.Run("invalid config stops checks", func(t *testing.T) {
		configPath = filepath.Join(t.TempDir(), "deploy.yaml")
		if err := os.WriteFile(configPath, []byte("email: not-an-email\n"), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, checks := checkConfiguration()
		if cfg != nil {
			t.Error("expected nil config for invalid file")
		}
		if c := findCheck(t, checks, "Config invalid"); c.Status != "error" {
			t.Errorf("invalid config status = %s", c.Status)
		}
	})
}
