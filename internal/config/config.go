// README: Config loader; defaults, optional YAML file and CHARTER_* env overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

type Config struct {
	HTTP         HTTPConfig         `mapstructure:"http"`
	DB           DBConfig           `mapstructure:"db"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Conversation ConversationConfig `mapstructure:"conversation"`
	Generation   GenerationConfig   `mapstructure:"generation"`
	Gemini       GeminiConfig       `mapstructure:"gemini"`
	Rules        RulesConfig        `mapstructure:"rules"`
	Availability AvailabilityConfig `mapstructure:"availability"`
	Auth         AuthConfig         `mapstructure:"auth"`
	Handoff      HandoffConfig      `mapstructure:"handoff"`
	Log          LogConfig          `mapstructure:"log"`
	Brand        BrandConfig        `mapstructure:"brand"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// DBConfig: an empty DSN selects the in-memory rate and operator stores.
type DBConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig: an empty address selects the in-memory listing source.
type RedisConfig struct {
	Addr string `mapstructure:"addr"`
}

// ConversationConfig: a zero TTL keeps conversations until they are cleared.
type ConversationConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type ModelsConfig struct {
	Primary   string `mapstructure:"primary"`
	Reasoning string `mapstructure:"reasoning"`
	Summary   string `mapstructure:"summary"`
}

type GenerationConfig struct {
	Provider     string        `mapstructure:"provider"`
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
	Models       ModelsConfig  `mapstructure:"models"`
	Temperature  float64       `mapstructure:"temperature"`
	TopP         float64       `mapstructure:"top_p"`
	MaxTokens    int           `mapstructure:"max_tokens"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type RulesConfig struct {
	Path string `mapstructure:"path"`
}

type AvailabilityConfig struct {
	MaxRepositionNm float64 `mapstructure:"max_reposition_nm"`
}

// AuthConfig: with no project id, roles come from the X-Terminal-Role header.
type AuthConfig struct {
	FirebaseProjectID string `mapstructure:"firebase_project_id"`
	CredentialsFile   string `mapstructure:"credentials_file"`
}

// HandoffConfig: FCM pushes confirmed quotes to the operator's topic and
// needs auth.firebase_project_id. Otherwise hand-offs are only logged.
type HandoffConfig struct {
	FCM bool `mapstructure:"fcm"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type BrandConfig struct {
	Name string `mapstructure:"name"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("db.dsn", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("conversation.ttl", time.Duration(0))
	v.SetDefault("generation.provider", ProviderOllama)
	v.SetDefault("generation.base_url", "http://127.0.0.1:11434")
	v.SetDefault("generation.timeout", 8*time.Second)
	v.SetDefault("generation.probe_timeout", time.Second)
	v.SetDefault("generation.models.primary", "llama3.2")
	v.SetDefault("generation.models.reasoning", "qwen2.5:14b")
	v.SetDefault("generation.models.summary", "llama3.2")
	v.SetDefault("generation.temperature", 0.3)
	v.SetDefault("generation.top_p", 0.9)
	v.SetDefault("generation.max_tokens", 256)
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("rules.path", "")
	v.SetDefault("availability.max_reposition_nm", 150.0)
	v.SetDefault("auth.firebase_project_id", "")
	v.SetDefault("auth.credentials_file", "")
	v.SetDefault("handoff.fcm", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("brand.name", "JetLink")
}

// Load reads configuration from the file named by CHARTER_CONFIG (if any) and
// the environment. Env var overrides use prefix CHARTER_, e.g.
// CHARTER_GENERATION_BASE_URL.
func Load() (Config, error) {
	return LoadFile(os.Getenv("CHARTER_CONFIG"))
}

// LoadFile is Load with an explicit config file path; empty means none.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CHARTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	switch c.Generation.Provider {
	case ProviderOllama:
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return errors.New("config: gemini provider requires gemini.api_key")
		}
	default:
		return fmt.Errorf("config: unknown generation.provider %q", c.Generation.Provider)
	}
	if c.Generation.Timeout <= 0 || c.Generation.ProbeTimeout <= 0 {
		return errors.New("config: generation timeouts must be positive")
	}
	if c.Conversation.TTL < 0 {
		return errors.New("config: conversation.ttl must not be negative")
	}
	if c.Handoff.FCM && c.Auth.FirebaseProjectID == "" {
		return errors.New("config: handoff.fcm requires auth.firebase_project_id")
	}
	if c.Availability.MaxRepositionNm <= 0 {
		return errors.New("config: availability.max_reposition_nm must be positive")
	}
	return nil
}
