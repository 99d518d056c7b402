package modelselect

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/tablemind-ai/tablemind/internal/config"
	"github.com/tablemind-ai/tablemind/internal/logging"
)

// probeTimeout bounds the local server reachability check so startup stays
// fast when no server is running.
const probeTimeout = 2 * time.Second

// OllamaAvailability reports the local server's state.
type OllamaAvailability struct {
	Reachable bool
	// Models are the installed model identifiers, as reported by the server.
	Models []string
}

// Availability maps each provider to its live usability. It is recomputed at
// session start and never cached across process restarts: it reflects a
// running server and present credentials, both of which can change between
// runs.
type Availability struct {
	Ollama OllamaAvailability
	// Cloud availability is credential presence only; a present-but-invalid
	// key surfaces later as a backend error, not here.
	OpenAIKeyPresent    bool
	AnthropicKeyPresent bool
}

// HasAny reports whether at least one provider is usable.
func (a Availability) HasAny() bool {
	return (a.Ollama.Reachable && len(a.Ollama.Models) > 0) || a.OpenAIKeyPresent || a.AnthropicKeyPresent
}

// CheckAvailability probes each configured provider. It never returns an
// error: an unreachable or misbehaving local server degrades to
// Reachable=false so selection can proceed with the remaining providers.
func CheckAvailability(ctx context.Context, cfg config.LLMConfig) Availability {
	return Availability{
		Ollama:              probeOllama(ctx, ollamaBaseURL(cfg)),
		OpenAIKeyPresent:    strings.TrimSpace(cfg.OpenAIAPIKey) != "",
		AnthropicKeyPresent: strings.TrimSpace(cfg.AnthropicAPIKey) != "",
	}
}

func ollamaBaseURL(cfg config.LLMConfig) string {
	if cfg.BaseURL != "" {
		return strings.TrimRight(cfg.BaseURL, "/")
	}
	return DefaultOllamaURL
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// probeOllama checks GET {base}/api/tags and enumerates installed models.
// Timeout, connection refusal, bad status, and malformed bodies all read as
// unreachable.
func probeOllama(ctx context.Context, baseURL string) OllamaAvailability {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, baseURL+"/api/tags", nil)
	if err != nil {
		return OllamaAvailability{}
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		logging.Logger().Debug("ollama probe failed", "url", baseURL, "err", err)
		return OllamaAvailability{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logging.Logger().Debug("ollama probe bad status", "url", baseURL, "status", resp.StatusCode)
		return OllamaAvailability{}
	}

	var tags ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return OllamaAvailability{}
	}

	models := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		if m.Name != "" {
			models = append(models, m.Name)
		}
	}
	return OllamaAvailability{Reachable: true, Models: models}
}
