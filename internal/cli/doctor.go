package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tablemind-ai/tablemind/internal/capacity"
	"github.com/tablemind-ai/tablemind/internal/config"
	"github.com/tablemind-ai/tablemind/internal/modelselect"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Report host capacity, provider availability, and the model that would be selected",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runDoctor(cmd.Context(), cfg, os.Stdout)
		},
	}
}

func runDoctor(ctx context.Context, cfg *config.Config, out io.Writer) error {
	profile := capacity.Detect()
	fmt.Fprintf(out, "Host capacity\n")
	fmt.Fprintf(out, "  memory:            %.1f GB (%s)\n", profile.MemoryGB, profile.Bucket)
	fmt.Fprintf(out, "  cpu cores:         %d\n", profile.CPUCores)
	if profile.GPUPresent {
		fmt.Fprintf(out, "  gpu:               present (%.1f GB)\n", profile.GPUMemoryGB)
	} else {
		fmt.Fprintf(out, "  gpu:               none detected\n")
	}
	fmt.Fprintf(out, "  recommended class: %s\n\n", profile.RecommendedClass)

	avail := modelselect.CheckAvailability(ctx, cfg.LLM)
	fmt.Fprintf(out, "Provider availability\n")
	if avail.Ollama.Reachable {
		fmt.Fprintf(out, "  ollama:    reachable, %d model(s) installed\n", len(avail.Ollama.Models))
		for _, model := range avail.Ollama.Models {
			fmt.Fprintf(out, "             - %s\n", model)
		}
	} else {
		fmt.Fprintf(out, "  ollama:    unreachable\n")
	}
	fmt.Fprintf(out, "  openai:    key %s\n", presence(avail.OpenAIKeyPresent))
	fmt.Fprintf(out, "  anthropic: key %s\n\n", presence(avail.AnthropicKeyPresent))

	desc, err := modelselect.Select(avail, profile, modelselect.OptionsFromConfig(cfg.LLM))
	if errors.Is(err, modelselect.ErrNoAvailableProvider) {
		fmt.Fprintf(out, "Selection\n  no usable provider: %v\n", err)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Selection\n")
	fmt.Fprintf(out, "  provider: %s\n", desc.Provider)
	fmt.Fprintf(out, "  model:    %s\n", desc.Model)
	if desc.BaseURL != "" {
		fmt.Fprintf(out, "  endpoint: %s\n", desc.BaseURL)
	}
	fmt.Fprintf(out, "  tools:    %s\n", supported(desc.SupportsTools))
	return nil
}

func presence(present bool) string {
	if present {
		return "present"
	}
	return "absent"
}

func supported(ok bool) string {
	if ok {
		return "supported"
	}
	return "not supported"
}
