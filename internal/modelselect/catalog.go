package modelselect

import (
	"strings"

	"github.com/tablemind-ai/tablemind/internal/capacity"
)

// localModel is one tool-capable Ollama model the selector knows about.
type localModel struct {
	Name  string
	Class capacity.ModelClass
}

// localCatalog lists tool-capable local models in selection priority order
// within each class: qwen before llama before mistral. The ordering is the
// documented fallback policy; an explicit llm.model config overrides it.
var localCatalog = []localModel{
	{Name: "qwen2.5:72b", Class: capacity.Class70B},
	{Name: "qwen2.5:32b", Class: capacity.Class70B},
	{Name: "llama3.1:70b", Class: capacity.Class70B},
	{Name: "mixtral:8x7b", Class: capacity.Class70B},
	{Name: "qwen2.5:14b", Class: capacity.Class14B},
	{Name: "qwen2.5:7b", Class: capacity.Class7B},
	{Name: "llama3.1:8b", Class: capacity.Class7B},
	{Name: "llama3.1", Class: capacity.Class7B},
	{Name: "mistral:7b-instruct", Class: capacity.Class7B},
	{Name: "llama3.2:3b", Class: capacity.Class1to3B},
	{Name: "llama3.2:1b", Class: capacity.Class1to3B},
	{Name: "llama3.2", Class: capacity.Class1to3B},
}

// Cloud defaults mirror the fixed per-provider slots: availability is gated
// on credential presence only, and host capacity never filters cloud models.
const (
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultAnthropicModel = "claude-3-haiku-20240307"
)

// toolCapableFamilies are model-name prefixes known to support tool calling.
var toolCapableFamilies = []string{
	"qwen2.5", "llama3.1", "llama3.2", "mistral", "mixtral",
	"command-r", "firefunction", "nous-hermes2",
}

// matchesInstalled reports whether an installed Ollama model name satisfies a
// catalog entry. Installed names may carry a ":latest" tag or a quantization
// suffix. An untagged catalog entry only matches an untagged (or ":latest")
// install: an explicit tag names a specific size whose class is declared by
// its own catalog entry, so "llama3.1:70b" must never satisfy the bare
// "llama3.1" slot.
func matchesInstalled(installed, catalogName string) bool {
	installed = strings.TrimSuffix(installed, ":latest")
	if installed == catalogName {
		return true
	}
	if !strings.Contains(catalogName, ":") {
		return false
	}
	return strings.HasPrefix(installed, catalogName)
}

// localToolCapable reports whether a local model name belongs to a family
// known to support tool calling.
func localToolCapable(model string) bool {
	for _, family := range toolCapableFamilies {
		if strings.HasPrefix(model, family) {
			return true
		}
	}
	return false
}
