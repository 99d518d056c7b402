package modelselect

import (
	"errors"
	"testing"

	"github.com/tablemind-ai/tablemind/internal/capacity"
)

func profileWithClass(class capacity.ModelClass) capacity.Profile {
	return capacity.Profile{RecommendedClass: class}
}

func TestSelect_CloudFirstByDefault(t *testing.T) {
	avail := Availability{
		Ollama:              OllamaAvailability{Reachable: true, Models: []string{"qwen2.5:7b"}},
		OpenAIKeyPresent:    true,
		AnthropicKeyPresent: true,
	}

	desc, err := Select(avail, profileWithClass(capacity.Class7B), Options{})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if desc.Provider != KindOpenAI || desc.Model != "gpt-4o-mini" {
		t.Fatalf("expected openai/gpt-4o-mini, got %s/%s", desc.Provider, desc.Model)
	}
}

func TestSelect_PreferLocalOrdersOllamaFirst(t *testing.T) {
	avail := Availability{
		Ollama:           OllamaAvailability{Reachable: true, Models: []string{"qwen2.5:7b"}},
		OpenAIKeyPresent: true,
	}

	desc, err := Select(avail, profileWithClass(capacity.Class7B), Options{PreferLocal: true})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if desc.Provider != KindOllama || desc.Model != "qwen2.5:7b" {
		t.Fatalf("expected ollama/qwen2.5:7b, got %s/%s", desc.Provider, desc.Model)
	}
	if desc.BaseURL != DefaultOllamaURL {
		t.Fatalf("expected default base url, got %q", desc.BaseURL)
	}
	if !desc.SupportsTools {
		t.Fatalf("expected tool support flag set")
	}
}

func TestSelect_PreferLocalFallsBackToCloud(t *testing.T) {
	avail := Availability{
		Ollama:              OllamaAvailability{Reachable: false},
		AnthropicKeyPresent: true,
	}

	desc, err := Select(avail, profileWithClass(capacity.Class7B), Options{PreferLocal: true})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if desc.Provider != KindAnthropic || desc.Model != "claude-3-haiku-20240307" {
		t.Fatalf("expected anthropic fallback, got %s/%s", desc.Provider, desc.Model)
	}
}

func TestSelect_CapacityBoundsLocalModel(t *testing.T) {
	avail := Availability{
		Ollama: OllamaAvailability{
			Reachable: true,
			Models:    []string{"llama3.1:70b", "qwen2.5:14b", "llama3.2:3b"},
		},
	}

	// An 8GB-class host never gets a 70B or 14B model.
	desc, err := Select(avail, profileWithClass(capacity.Class7B), Options{PreferLocal: true})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if desc.Model != "llama3.2:3b" {
		t.Fatalf("expected capacity-bounded llama3.2:3b, got %q", desc.Model)
	}

	// A 70B-class host takes the largest installed model.
	desc, err = Select(avail, profileWithClass(capacity.Class70B), Options{PreferLocal: true})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if desc.Model != "llama3.1:70b" {
		t.Fatalf("expected llama3.1:70b on large host, got %q", desc.Model)
	}
}

func TestSelect_LargeTagNeverSatisfiesUntaggedEntry(t *testing.T) {
	// Only a 70B install is present; the bare "llama3.1" 7B-class catalog
	// entry must not claim it, so a 7B-class host has no usable local model.
	avail := Availability{
		Ollama: OllamaAvailability{Reachable: true, Models: []string{"llama3.1:70b"}},
	}

	_, err := Select(avail, profileWithClass(capacity.Class7B), Options{PreferLocal: true})
	if !errors.Is(err, ErrNoAvailableProvider) {
		t.Fatalf("expected no model under the capacity bound, got %v", err)
	}

	avail.OpenAIKeyPresent = true
	desc, err := Select(avail, profileWithClass(capacity.Class7B), Options{PreferLocal: true})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if desc.Provider != KindOpenAI {
		t.Fatalf("expected cloud fallback, got %s/%s", desc.Provider, desc.Model)
	}
}

func TestMatchesInstalled(t *testing.T) {
	cases := []struct {
		installed string
		catalog   string
		want      bool
	}{
		{"qwen2.5:7b", "qwen2.5:7b", true},
		{"qwen2.5:7b-instruct-q4_K_M", "qwen2.5:7b", true},
		{"qwen2.5:72b", "qwen2.5:7b", false},
		{"llama3.2:latest", "llama3.2", true},
		{"llama3.2", "llama3.2", true},
		{"llama3.1:70b", "llama3.1", false},
		{"llama3.2:3b", "llama3.2", false},
		{"llama3.1:70b", "llama3.1:70b", true},
	}
	for _, tc := range cases {
		if got := matchesInstalled(tc.installed, tc.catalog); got != tc.want {
			t.Errorf("matchesInstalled(%q, %q) = %v, want %v", tc.installed, tc.catalog, got, tc.want)
		}
	}
}

func TestSelect_FamilyPriorityBreaksTies(t *testing.T) {
	avail := Availability{
		Ollama: OllamaAvailability{
			Reachable: true,
			Models:    []string{"mistral:7b-instruct", "llama3.1:8b", "qwen2.5:7b"},
		},
	}

	desc, err := Select(avail, profileWithClass(capacity.Class7B), Options{PreferLocal: true})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if desc.Model != "qwen2.5:7b" {
		t.Fatalf("expected qwen family to win the tie, got %q", desc.Model)
	}
}

func TestSelect_ModelOverrideWinsWithinProvider(t *testing.T) {
	avail := Availability{
		Ollama: OllamaAvailability{
			Reachable: true,
			Models:    []string{"qwen2.5:7b", "llama3.2:1b"},
		},
	}

	desc, err := Select(avail, profileWithClass(capacity.Class70B), Options{PreferLocal: true, Model: "llama3.2:1b"})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if desc.Model != "llama3.2:1b" {
		t.Fatalf("expected requested model regardless of size heuristics, got %q", desc.Model)
	}
}

func TestSelect_MissingModelOverrideFallsBack(t *testing.T) {
	avail := Availability{
		Ollama: OllamaAvailability{
			Reachable: true,
			Models:    []string{"qwen2.5:7b"},
		},
	}

	desc, err := Select(avail, profileWithClass(capacity.Class7B), Options{PreferLocal: true, Model: "command-r:35b"})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if desc.Model != "qwen2.5:7b" {
		t.Fatalf("expected fallback to installed model, got %q", desc.Model)
	}
}

func TestSelect_ExplicitProviderWins(t *testing.T) {
	avail := Availability{
		Ollama:              OllamaAvailability{Reachable: true, Models: []string{"qwen2.5:7b"}},
		OpenAIKeyPresent:    true,
		AnthropicKeyPresent: true,
	}

	desc, err := Select(avail, profileWithClass(capacity.Class7B), Options{Provider: KindAnthropic, Model: "claude-3-opus-20240229"})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if desc.Provider != KindAnthropic || desc.Model != "claude-3-opus-20240229" {
		t.Fatalf("expected explicit override returned unchanged, got %s/%s", desc.Provider, desc.Model)
	}
}

func TestSelect_ExplicitProviderUnavailableFails(t *testing.T) {
	avail := Availability{OpenAIKeyPresent: true}

	_, err := Select(avail, profileWithClass(capacity.Class7B), Options{Provider: KindOllama})
	if !errors.Is(err, ErrNoAvailableProvider) {
		t.Fatalf("expected ErrNoAvailableProvider, got %v", err)
	}
}

func TestSelect_NothingAvailableFails(t *testing.T) {
	_, err := Select(Availability{}, profileWithClass(capacity.Class7B), Options{})
	if !errors.Is(err, ErrNoAvailableProvider) {
		t.Fatalf("expected ErrNoAvailableProvider, got %v", err)
	}
}

func TestSelect_IsDeterministic(t *testing.T) {
	avail := Availability{
		Ollama: OllamaAvailability{
			Reachable: true,
			Models:    []string{"llama3.1:8b", "qwen2.5:7b", "mistral:7b-instruct"},
		},
		OpenAIKeyPresent: true,
	}
	opts := Options{PreferLocal: true}
	profile := profileWithClass(capacity.Class14B)

	first, err := Select(avail, profile, opts)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	for i := 0; i < 10; i++ {
		next, err := Select(avail, profile, opts)
		if err != nil {
			t.Fatalf("select: %v", err)
		}
		if next != first {
			t.Fatalf("expected deterministic selection, got %+v then %+v", first, next)
		}
	}
}
