package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/tablemind-ai/tablemind/internal/config"
	"github.com/tablemind-ai/tablemind/internal/modelselect"
)

func TestSelectModelFailsFastWhenNothingAvailable(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.BaseURL = unreachableBaseURL(t)

	_, err := selectModel(context.Background(), cfg)
	if !errors.Is(err, modelselect.ErrNoAvailableProvider) {
		t.Fatalf("expected ErrNoAvailableProvider, got %v", err)
	}
}
