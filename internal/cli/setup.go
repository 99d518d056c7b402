package cli

import (
	"context"
	"fmt"

	"github.com/tablemind-ai/tablemind/internal/agent"
	"github.com/tablemind-ai/tablemind/internal/capacity"
	"github.com/tablemind-ai/tablemind/internal/config"
	"github.com/tablemind-ai/tablemind/internal/logging"
	"github.com/tablemind-ai/tablemind/internal/modelselect"
	"github.com/tablemind-ai/tablemind/internal/provider"
	"github.com/tablemind-ai/tablemind/internal/tools"
)

// providerFactory builds the backend adapter; tests swap it for a fake.
var providerFactory = provider.New

// app bundles the resolved dependencies a command needs: configuration, the
// selected backend, and the tool registry.
type app struct {
	cfg      *config.Config
	desc     modelselect.Descriptor
	backend  provider.Provider
	registry *tools.Registry
}

// newApp loads configuration and resolves the model backend once per command
// invocation. Selection is deterministic for identical host state and config.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	desc, err := selectModel(ctx, cfg)
	if err != nil {
		return nil, err
	}

	backend, err := providerFactory(desc, cfg.LLM)
	if err != nil {
		return nil, err
	}

	registry, err := buildToolRegistry(cfg)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, desc: desc, backend: backend, registry: registry}, nil
}

func selectModel(ctx context.Context, cfg *config.Config) (modelselect.Descriptor, error) {
	profile := capacity.Detect()
	avail := modelselect.CheckAvailability(ctx, cfg.LLM)
	if !avail.HasAny() {
		return modelselect.Descriptor{}, modelselect.ErrNoAvailableProvider
	}

	desc, err := modelselect.Select(avail, profile, modelselect.OptionsFromConfig(cfg.LLM))
	if err != nil {
		return modelselect.Descriptor{}, err
	}

	logging.Logger().Info("model backend selected",
		"provider", desc.Provider,
		"model", desc.Model,
		"capacity_class", profile.RecommendedClass,
	)
	return desc, nil
}

func buildToolRegistry(cfg *config.Config) (*tools.Registry, error) {
	registry := tools.NewRegistry()
	for _, tool := range []tools.Tool{
		tools.ProfileTableTool{DataDir: cfg.DataDir(), OutputLimit: cfg.Agent.ToolOutputLength},
		tools.PlotChartTool{DataDir: cfg.DataDir(), OutputDir: cfg.OutputDir()},
	} {
		if err := registry.Register(tool); err != nil {
			return nil, fmt.Errorf("register tool %q: %w", tool.Name(), err)
		}
	}
	return registry, nil
}

// newSession creates one conversation over the resolved backend, optionally
// seeded with persisted history.
func (a *app) newSession(history []provider.ChatMessage) (*agent.Session, error) {
	return agent.NewSession(a.backend, a.registry, agent.SessionConfig{
		MaxIterations:   a.cfg.Agent.MaxIterations,
		MaxTokens:       a.cfg.LLM.MaxTokens,
		ToolOutputLimit: a.cfg.Agent.ToolOutputLength,
		RequestTimeout:  a.cfg.LLM.RequestTimeout,
		ProviderName:    string(a.desc.Provider),
		History:         history,
	})
}
