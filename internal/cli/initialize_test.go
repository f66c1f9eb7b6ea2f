package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunInit(t *testing.T) {
	defer func() {
		configPath = "deploy.yaml"
		initForce = false
	}()

	t.Run("writes starter config", func(t *testing.T) {
		configPath = filepath.Join(t.TempDir(), "deploy.yaml")
		initForce = false

		if err := runInit(initCmd, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		data, err := os.ReadFile(configPath)
		if err != nil {
			t.Fatalf("config not written: %v", err)
		}
		if !strings.Contains(string(data), "domain:") {
			t.Error("config missing domain key")
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		configPath = filepath.Join(t.TempDir(), "deploy.yaml")
		initForce = false

		if err := os.WriteFile(configPath, []byte("domain: keep.me\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := runInit(initCmd, nil); err == nil {
			t.Fatal("expected error for existing file")
		}
		data, _ := os.ReadFile(configPath)
		if !strings.Contains(string(data), "keep.me") {
			t.Error("existing file was overwritten")
		}
	})

	t.Run("force overwrites", func(t *testing.T) {
		configPath = filepath.Join(t.TempDir(), "deploy.yaml")
		initForce = true

		if err := os.WriteFile(configPath, []byte("domain: old.example\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := runInit(initCmd, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		data, _ := os.ReadFile(configPath)
		if strings.Contains(string(data), "old.example") {
			t.Error("file was not overwritten")
		}
	})
}
