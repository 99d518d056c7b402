package modelselect

import (
	"fmt"

	"github.com/tablemind-ai/tablemind/internal/capacity"
	"github.com/tablemind-ai/tablemind/internal/config"
)

// Options carries the resolved user preferences that steer selection.
type Options struct {
	// PreferLocal orders local providers before cloud ones.
	PreferLocal bool
	// Provider pins a provider kind; empty means auto-detect.
	Provider Kind
	// Model pins a model identifier within the chosen provider's slot.
	Model string
	// BaseURL overrides the local (or OpenAI-compatible) endpoint.
	BaseURL string
}

// OptionsFromConfig maps the llm config section onto selector options.
func OptionsFromConfig(cfg config.LLMConfig) Options {
	opts := Options{
		PreferLocal: cfg.PreferLocal,
		Model:       cfg.Model,
		BaseURL:     cfg.BaseURL,
	}
	if cfg.Provider != "" && cfg.Provider != config.ProviderAuto {
		opts.Provider = Kind(cfg.Provider)
	}
	return opts
}

// Select picks exactly one (provider, model) pair. The policy is a two-axis
// ordering: provider preference (local-first or cloud-first) crossed with
// model size bounded by the capacity profile's recommended class. Selection
// is deterministic for identical inputs.
func Select(avail Availability, profile capacity.Profile, opts Options) (Descriptor, error) {
	// Explicit configuration always wins over auto-detection.
	if opts.Provider != "" {
		desc, ok := pickForProvider(opts.Provider, avail, profile, opts)
		if !ok {
			return Descriptor{}, fmt.Errorf("%w: configured provider %q is not usable", ErrNoAvailableProvider, opts.Provider)
		}
		return desc, nil
	}

	order := []Kind{KindOpenAI, KindAnthropic, KindOllama}
	if opts.PreferLocal {
		order = []Kind{KindOllama, KindOpenAI, KindAnthropic}
	}

	for _, kind := range order {
		if desc, ok := pickForProvider(kind, avail, profile, opts); ok {
			return desc, nil
		}
	}
	return Descriptor{}, ErrNoAvailableProvider
}

func pickForProvider(kind Kind, avail Availability, profile capacity.Profile, opts Options) (Descriptor, bool) {
	switch kind {
	case KindOllama:
		return pickLocal(avail.Ollama, profile, opts)
	case KindOpenAI:
		if !avail.OpenAIKeyPresent {
			return Descriptor{}, false
		}
		model := defaultOpenAIModel
		if opts.Model != "" {
			model = opts.Model
		}
		desc := Descriptor{Provider: KindOpenAI, Model: model, SupportsTools: true}
		if opts.Provider == KindOpenAI {
			desc.BaseURL = opts.BaseURL
		}
		return desc, true
	case KindAnthropic:
		if !avail.AnthropicKeyPresent {
			return Descriptor{}, false
		}
		model := defaultAnthropicModel
		if opts.Model != "" {
			model = opts.Model
		}
		return Descriptor{Provider: KindAnthropic, Model: model, SupportsTools: true}, true
	default:
		return Descriptor{}, false
	}
}

// pickLocal chooses an installed Ollama model. A requested model wins when
// installed regardless of size heuristics; otherwise the largest catalog
// model whose class fits under the capacity recommendation is taken, walking
// classes downward and families in fixed priority order.
func pickLocal(ollama OllamaAvailability, profile capacity.Profile, opts Options) (Descriptor, bool) {
	if !ollama.Reachable || len(ollama.Models) == 0 {
		return Descriptor{}, false
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}

	if opts.Model != "" {
		for _, installed := range ollama.Models {
			if matchesInstalled(installed, opts.Model) {
				return Descriptor{
					Provider:      KindOllama,
					Model:         installed,
					BaseURL:       baseURL,
					SupportsTools: localToolCapable(installed),
				}, true
			}
		}
		// Requested model not installed: fall through to the capacity pick.
	}

	for class := profile.RecommendedClass; class >= capacity.Class1to3B; class-- {
		for _, entry := range localCatalog {
			if entry.Class != class {
				continue
			}
			for _, installed := range ollama.Models {
				if matchesInstalled(installed, entry.Name) {
					return Descriptor{
						Provider:      KindOllama,
						Model:         installed,
						BaseURL:       baseURL,
						SupportsTools: true,
					}, true
				}
			}
		}
	}
	return Descriptor{}, false
}
