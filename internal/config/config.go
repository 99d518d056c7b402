// Package config loads Tablemind runtime configuration from a TOML file,
// exposing typed structs and accessors for all sections. Environment
// variables are only read here; the rest of the program receives the
// resolved Config.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Provider kinds accepted in llm.provider.
const (
	ProviderAuto      = "auto"
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config is the runtime configuration loaded from defaults, config.toml, and
// expanded environment references.
type Config struct {
	// HomeDir is runtime-resolved from TABLEMIND_HOME and not read from config.
	HomeDir string      `mapstructure:"-"`
	LLM     LLMConfig   `mapstructure:"llm"`
	Agent   AgentConfig `mapstructure:"agent"`
	Data    DataConfig  `mapstructure:"data"`
	Web     WebConfig   `mapstructure:"web"`
}

// LLMConfig configures model backend selection and access.
type LLMConfig struct {
	// Provider is "auto" for runtime selection, or an explicit provider kind.
	Provider string `mapstructure:"provider"`
	// Model pins a specific model identifier; empty means capacity-driven.
	Model string `mapstructure:"model"`
	// BaseURL overrides the local server endpoint (or an OpenAI-compatible one).
	BaseURL         string        `mapstructure:"base_url"`
	PreferLocal     bool          `mapstructure:"prefer_local"`
	OpenAIAPIKey    string        `mapstructure:"openai_api_key"`
	AnthropicAPIKey string        `mapstructure:"anthropic_api_key"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	MaxTokens       int           `mapstructure:"max_tokens"`
}

// AgentConfig controls the agent loop.
type AgentConfig struct {
	MaxIterations    int `mapstructure:"max_iterations"`
	ToolOutputLength int `mapstructure:"tool_output_length"`
}

// DataConfig locates CSV inputs and chart outputs.
type DataConfig struct {
	// Dir is the CSV search root; relative paths resolve under HomeDir.
	Dir string `mapstructure:"dir"`
	// OutputDir receives chart artifacts; relative paths resolve under HomeDir.
	OutputDir string `mapstructure:"output_dir"`
}

// WebConfig configures the web channel.
type WebConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

var defaultConfig = Config{
	LLM: LLMConfig{
		Provider:        ProviderAuto,
		Model:           "",
		BaseURL:         "",
		PreferLocal:     false,
		OpenAIAPIKey:    "$OPENAI_API_KEY",
		AnthropicAPIKey: "$ANTHROPIC_API_KEY",
		RequestTimeout:  120 * time.Second,
		MaxTokens:       4096,
	},
	Agent: AgentConfig{
		MaxIterations:    10,
		ToolOutputLength: 4000,
	},
	Data: DataConfig{
		Dir:       "data",
		OutputDir: "outputs",
	},
	Web: WebConfig{
		ListenAddr: ":8000",
	},
}

// Default returns a copy of the built-in configuration with credential
// placeholders cleared. HomeDir is left for the caller to set.
func Default() *Config {
	cfg := defaultConfig
	cfg.LLM.OpenAIAPIKey = ""
	cfg.LLM.AnthropicAPIKey = ""
	return &cfg
}

// homeDir returns the Tablemind home directory.
// Uses TABLEMIND_HOME env var if set, otherwise defaults to ~/.tablemind.
func homeDir() (string, error) {
	if dir := os.Getenv("TABLEMIND_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return defaultHomePath(home), nil
}

// Load merges hardcoded defaults and config file values in that order.
// Config is always at $TABLEMIND_HOME/config.toml.
func Load() (*Config, error) {
	homeDir, err := homeDir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(homeConfigPath(homeDir))
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	decodeHook := mapstructure.ComposeDecodeHookFunc(
		expandEnvStringHook(),
		mapstructure.StringToTimeDurationHookFunc(),
	)

	if err := v.Unmarshal(&cfg, func(c *mapstructure.DecoderConfig) {
		c.DecodeHook = decodeHook
	}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.HomeDir = homeDir

	return &cfg, nil
}

// Write renders the merged configuration (defaults plus config file) as TOML.
func Write(w io.Writer) error {
	if w == nil {
		return errors.New("writer is required")
	}

	homeDir, err := homeDir()
	if err != nil {
		return err
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(homeConfigPath(homeDir))
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read config file: %w", err)
		}
	}

	// Keep duration fields human-readable in generated TOML.
	v.Set("llm.request_timeout", v.GetDuration("llm.request_timeout").String())

	if err := v.WriteConfigTo(w); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", defaultConfig.LLM.Provider)
	v.SetDefault("llm.model", defaultConfig.LLM.Model)
	v.SetDefault("llm.base_url", defaultConfig.LLM.BaseURL)
	v.SetDefault("llm.prefer_local", defaultConfig.LLM.PreferLocal)
	v.SetDefault("llm.openai_api_key", defaultConfig.LLM.OpenAIAPIKey)
	v.SetDefault("llm.anthropic_api_key", defaultConfig.LLM.AnthropicAPIKey)
	v.SetDefault("llm.request_timeout", defaultConfig.LLM.RequestTimeout)
	v.SetDefault("llm.max_tokens", defaultConfig.LLM.MaxTokens)

	v.SetDefault("agent.max_iterations", defaultConfig.Agent.MaxIterations)
	v.SetDefault("agent.tool_output_length", defaultConfig.Agent.ToolOutputLength)

	v.SetDefault("data.dir", defaultConfig.Data.Dir)
	v.SetDefault("data.output_dir", defaultConfig.Data.OutputDir)

	v.SetDefault("web.listen_addr", defaultConfig.Web.ListenAddr)
}

// expandEnvStringHook expands $VAR references so keys like
// openai_api_key = "$OPENAI_API_KEY" resolve at load time. An unset
// variable expands to the empty string, i.e. credential absent.
func expandEnvStringHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to.Kind() != reflect.String {
			return data, nil
		}
		value, ok := data.(string)
		if !ok {
			return data, nil
		}
		return os.ExpandEnv(value), nil
	}
}
