package commands

import (
	"errors"

	"github.com/spf13/viper"
)

type Config struct {
	Dataset        string          `mapstructure:"dataset"`
	Criteria       []string        `mapstructure:"criteria"`
	Workers        int             `mapstructure:"workers"`
	Output         string          `mapstructure:"output"`
	Format         string          `mapstructure:"format"`
	Addr           string          `mapstructure:"addr"`
	Provider       string          `mapstructure:"provider"`
	RateLimitRPS   float64         `mapstructure:"rate_limit_rps"`
	RateLimitBurst int             `mapstructure:"rate_limit_burst"`
	CacheDir       string          `mapstructure:"cache_dir"`
	CacheTTLHours  int             `mapstructure:"cache_ttl_hours"`
	Model          ModelConfig     `mapstructure:"model"`
	OpenAI         ProviderConfig  `mapstructure:"openai"`
	Anthropic      AnthropicConfig `mapstructure:"anthropic"`
	Gemini         ProviderConfig  `mapstructure:"gemini"`
	Ollama         OllamaConfig    `mapstructure:"ollama"`
}

type ModelConfig struct {
	Name         string `mapstructure:"name"`
	MockResponse string `mapstructure:"mock_response"`
}

type ProviderConfig struct {
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxRetries     int    `mapstructure:"max_retries"`
	BackoffMillis  int    `mapstructure:"backoff_millis"`
}

type AnthropicConfig struct {
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxRetries     int    `mapstructure:"max_retries"`
	BackoffMillis  int    `mapstructure:"backoff_millis"`
	MaxTokens      int    `mapstructure:"max_tokens"`
}

type OllamaConfig struct {
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{}
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".gradeval")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
