package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is the config file read when no path is given.
const DefaultPath = "salescast.toml"

// Config holds application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Client   ClientConfig   `toml:"client"`
	Scoring  ScoringConfig  `toml:"scoring"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig configures the scoring and static asset server.
type ServerConfig struct {
	Addr           string  `toml:"addr"`
	PublicDir      string  `toml:"public_dir"`
	RateLimitRPS   float64 `toml:"rate_limit_rps"`
	RateLimitBurst int     `toml:"rate_limit_burst"`
}

// ClientConfig configures the prediction workflow. Endpoint and StaticURL
// differ between a local backend and a hosted one.
type ClientConfig struct {
	Endpoint        string   `toml:"endpoint"`
	StaticURL       string   `toml:"static_url"`
	SubmitTimeout   Duration `toml:"submit_timeout"`
	RequireFestival bool     `toml:"require_festival"`
}

// ScoringConfig selects the scorer behind POST /predict.
type ScoringConfig struct {
	Backend      string `toml:"backend"`
	ModelPath    string `toml:"model_path"`
	GeminiModel  string `toml:"gemini_model"`
	GeminiAPIKey string `toml:"-"`
}

// DatabaseConfig points precompute at a sales table.
type DatabaseConfig struct {
	URL        string `toml:"url"`
	SalesTable string `toml:"sales_table"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// Duration lets TOML files carry values like "15s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Scoring backends.
const (
	BackendLinear = "linear"
	BackendGemini = "gemini"
)

// DefaultConfig returns a configuration for a local backend on :3000.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":3000",
			PublicDir:      "public",
			RateLimitRPS:   20,
			RateLimitBurst: 40,
		},
		Client: ClientConfig{
			Endpoint:      "http://localhost:3000",
			StaticURL:     "http://localhost:3000",
			SubmitTimeout: Duration{15 * time.Second},
		},
		Scoring: ScoringConfig{
			Backend:     BackendLinear,
			GeminiModel: "gemini-1.5-pro-latest",
		},
		Database: DatabaseConfig{
			SalesTable: "sales",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration: defaults, then the TOML file at path (a
// missing file is fine), then .env, then the process environment.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	// A missing .env is the normal case outside development.
	_ = godotenv.Load()

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Addr, "SALESCAST_ADDR")
	setString(&cfg.Server.PublicDir, "PUBLIC_DIR")
	setString(&cfg.Client.Endpoint, "PREDICT_ENDPOINT")
	setString(&cfg.Client.StaticURL, "STATIC_BASE_URL")
	setString(&cfg.Scoring.Backend, "SCORING_BACKEND")
	setString(&cfg.Scoring.ModelPath, "MODEL_PATH")
	setString(&cfg.Scoring.GeminiModel, "GEMINI_MODEL")
	setString(&cfg.Scoring.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&cfg.Database.URL, "DATABASE_URL")
	setString(&cfg.Database.SalesTable, "SALES_TABLE")
	setString(&cfg.Log.Level, "LOG_LEVEL")

	if v := os.Getenv("SUBMIT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SUBMIT_TIMEOUT: %w", err)
		}
		cfg.Client.SubmitTimeout = Duration{d}
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_RPS: %w", err)
		}
		cfg.Server.RateLimitRPS = f
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_BURST: %w", err)
		}
		cfg.Server.RateLimitBurst = n
	}
	if err := setBool(&cfg.Client.RequireFestival, "REQUIRE_FESTIVAL"); err != nil {
		return err
	}
	return setBool(&cfg.Log.Development, "LOG_DEVELOPMENT")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

// Validate rejects configurations the workflow cannot run with.
func (c *Config) Validate() error {
	if c.Client.Endpoint == "" {
		return errors.New("client.endpoint is not set")
	}
	if c.Client.StaticURL == "" {
		return errors.New("client.static_url is not set")
	}
	if c.Client.SubmitTimeout.Duration <= 0 {
		return errors.New("client.submit_timeout must be positive")
	}
	if c.Server.RateLimitRPS > 0 && c.Server.RateLimitBurst <= 0 {
		return errors.New("server.rate_limit_burst must be positive when rate_limit_rps is set")
	}
	switch c.Scoring.Backend {
	case BackendLinear, BackendGemini:
	default:
		return fmt.Errorf("scoring.backend %q is not one of %s, %s", c.Scoring.Backend, BackendLinear, BackendGemini)
	}
	return nil
}
