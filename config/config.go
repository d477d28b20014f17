// Package config loads agent configuration from defaults, an optional YAML file and the
// environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/rickchristie/planact"
	"github.com/rickchristie/planact/internal/logging"
	"github.com/spf13/viper"
)

// DefaultPath is read when neither the caller nor CONFIG_PATH names a file.
const DefaultPath = "config.yaml"

// EnvPrefix prefixes the generic environment overrides, e.g. PLANACT_LLM_PROVIDER.
const EnvPrefix = "PLANACT"

// Config holds all configuration for the agent.
type Config struct {
	LLM      LLMConfig     `mapstructure:"llm"`
	Debug    bool          `mapstructure:"debug"`
	LogLevel string        `mapstructure:"log_level"`
	Agent    AgentConfig   `mapstructure:"agent"`
	Metrics  MetricsConfig `mapstructure:"metrics"`
}

// LLMConfig selects and parameterizes the model gateway.
type LLMConfig struct {
	Provider    string  `mapstructure:"provider"` // openai, openai-responses, anthropic, anthropic-sdk, gemini, ollama, github
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
}

// AgentConfig contains orchestrator settings.
type AgentConfig struct {
	MaxTurns int `mapstructure:"max_turns"`
}

// MetricsConfig contains the Prometheus endpoint settings. An empty address disables it.
type MetricsConfig struct {
	Address string `mapstructure:"address"`
}

// Load reads configuration.
//
// The file is path, else $CONFIG_PATH, else DefaultPath. A missing file is not an error;
// defaults apply. Environment overrides, highest precedence first:
//
//	OPENAI_API_KEY  llm.api_key
//	LLM_MODEL       llm.model
//	DEBUG           debug ("true", any case, enables; any other value disables)
//	LOG_LEVEL       log_level
//	PLANACT_*       any key, e.g. PLANACT_AGENT_MAX_TURNS
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = DefaultPath
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range map[string]string{
		"llm.api_key": "OPENAI_API_KEY",
		"llm.model":   "LLM_MODEL",
		"log_level":   "LOG_LEVEL",
	} {
		if err := v.BindEnv(key, env, envName(key)); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if val := os.Getenv("DEBUG"); val != "" {
		cfg.Debug = strings.EqualFold(val, "true")
	}

	return &cfg, nil
}

// Default returns the configuration used when no file or environment is present.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       planact.DefaultModel,
			Temperature: planact.DefaultTemperature,
			MaxTokens:   planact.DefaultMaxTokens,
		},
		LogLevel: "INFO",
		Agent:    AgentConfig{MaxTurns: 5},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.temperature", d.LLM.Temperature)
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("debug", d.Debug)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("agent.max_turns", d.Agent.MaxTurns)
	v.SetDefault("metrics.address", "")
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.LLM.Provider == "" {
		return errors.New("llm.provider is required")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2, got %v", c.LLM.Temperature)
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm.max_tokens must be positive, got %d", c.LLM.MaxTokens)
	}
	if c.Agent.MaxTurns <= 0 {
		return fmt.Errorf("agent.max_turns must be positive, got %d", c.Agent.MaxTurns)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}
