package config

import (
	"errors"
	"fmt"
)

// Validatable is implemented by config sections that can self-validate.
type Validatable interface {
	Validate() error
}

// Validate checks LLM section fields.
func (c LLMConfig) Validate() error {
	switch c.Provider {
	case ProviderAuto, ProviderOllama, ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("invalid provider %q (allowed: %q, %q, %q, %q)",
			c.Provider, ProviderAuto, ProviderOllama, ProviderOpenAI, ProviderAnthropic)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request_timeout must be > 0")
	}
	if c.MaxTokens <= 0 {
		return errors.New("max_tokens must be > 0")
	}
	return nil
}

// Validate checks agent loop settings.
func (c AgentConfig) Validate() error {
	if c.MaxIterations <= 0 {
		return errors.New("max_iterations must be > 0")
	}
	if c.ToolOutputLength <= 0 {
		return errors.New("tool_output_length must be > 0")
	}
	return nil
}

// Validate checks data locations.
func (c DataConfig) Validate() error {
	if c.Dir == "" {
		return errors.New("dir is required")
	}
	if c.OutputDir == "" {
		return errors.New("output_dir is required")
	}
	return nil
}

// Validate checks web channel settings.
func (c WebConfig) Validate() error {
	if c.ListenAddr == "" {
		return errors.New("listen_addr is required")
	}
	return nil
}

// Validate validates startup configuration and returns the first fatal error.
func (cfg *Config) Validate() error {
	if err := cfg.LLM.Validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if err := cfg.Agent.Validate(); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := cfg.Data.Validate(); err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if err := cfg.Web.Validate(); err != nil {
		return fmt.Errorf("web: %w", err)
	}
	return nil
}
