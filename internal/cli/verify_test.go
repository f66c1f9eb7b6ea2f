package cli

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeVerifyConfig points the deploy config at a test server's host:port so
// the derived health URL resolves to it.
func writeVerifyConfig(t *testing.T, serverURL string) {
	t.Helper()
	host := strings.TrimPrefix(serverURL, "https://")
	configPath = filepath.Join(t.TempDir(), "deploy.yaml")
	content := fmt.Sprintf(`domain: %s
email: ops@example.org
health_path: /realtime/health
`, host)
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestRunVerify(t *testing.T) {
	defer func() {
		configPath = "deploy.yaml"
		verifyWait = false
	}()

	t.Run("healthy endpoint", func(t *testing.T) {
		ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/realtime/health" {
				http.NotFound(w, r)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer ts.Close()

		writeVerifyConfig(t, ts.URL)
		verifyWait = false
		if err := runVerify(verifyCmd, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("unhealthy endpoint", func(t *testing.T) {
		ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer ts.Close()

		writeVerifyConfig(t, ts.URL)
		verifyWait = false
		if err := runVerify(verifyCmd, nil); err == nil {
			t.Fatal("expected error for 503 endpoint")
		}
	})
}
