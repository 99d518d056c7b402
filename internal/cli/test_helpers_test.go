package cli

import (
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/tablemind-ai/tablemind/internal/provider"
)

func createTestHome(t *testing.T) string {
	t.Helper()
	home := filepath.Join(t.TempDir(), ".tablemind")
	t.Setenv("TABLEMIND_HOME", home)
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	return home
}

// unreachableBaseURL returns a URL whose port is no longer listening, so the
// local server probe fails fast and deterministically.
func unreachableBaseURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()
	return url
}

// writeValidConfig pins the cloud provider with a literal key so selection
// never depends on the test host's environment.
func writeValidConfig(t *testing.T, home string) {
	t.Helper()
	configBody := fmt.Sprintf(`
[llm]
provider = "openai"
model = "gpt-4o-mini"
base_url = %q
openai_api_key = "test-key"
`, unreachableBaseURL(t))
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(configBody), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

type fakeProvider struct {
	resp *provider.ChatResponse
	err  error
}

func (p fakeProvider) Chat(_ context.Context, _ provider.ChatRequest) (*provider.ChatResponse, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.resp, nil
}
