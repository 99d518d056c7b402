// Package modelselect decides which language-model backend a session uses.
// It probes provider availability at startup, combines it with the host
// capacity profile and the user's local/cloud preference, and returns exactly
// one immutable (provider, model) descriptor.
package modelselect

import "errors"

// Kind identifies a model provider backend.
type Kind string

const (
	// KindOllama is a local Ollama server.
	KindOllama Kind = "ollama"
	// KindOpenAI is the OpenAI API (or an OpenAI-compatible endpoint).
	KindOpenAI Kind = "openai"
	// KindAnthropic is the Anthropic API.
	KindAnthropic Kind = "anthropic"
)

// DefaultOllamaURL is the local server endpoint used when no override is set.
const DefaultOllamaURL = "http://localhost:11434"

// Descriptor names one selected (provider, model) pair. It is immutable once
// returned for a session.
type Descriptor struct {
	Provider      Kind
	Model         string
	BaseURL       string
	SupportsTools bool
}

// ErrNoAvailableProvider reports that no provider/model combination is usable.
var ErrNoAvailableProvider = errors.New("no language-model provider available (start a local Ollama server or set an API key)")
