package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Server tuning environment variables.
const (
	portKey           = "PORT"
	rateLimitRPSKey   = "RATE_LIMIT_RPS"
	rateLimitBurstKey = "RATE_LIMIT_BURST"
	requestLoggingKey = "REQUEST_LOGGING"
)

const (
	defaultPort           = "8000"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
)

// Config aggregates server tuning and the stage-resolved Settings.
// Server tuning precedence: CLI flags > YAML config > Environment variables > Defaults.
type Config struct {
	Port                 string
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	RateLimitRPS         float64
	RateLimitBurst       int

	Settings Settings
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Port                 string        `yaml:"port"`
	ShutdownGracePeriod  string        `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string        `yaml:"read_header_timeout"`
	WriteTimeout         string        `yaml:"write_timeout"`
	IdleTimeout          string        `yaml:"idle_timeout"`
	EnableRequestLogging *bool         `yaml:"enable_request_logging"`
	RateLimit            yamlRateLimit `yaml:"rate_limit"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   *float64 `yaml:"rps"`
	Burst *int     `yaml:"burst"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile     string
	EnvFile        string
	Stage          *string
	Port           *string
	RateLimitRPS   *float64
	RateLimitBurst *int
}

// Load merges the dotenv file into the environment, resolves server tuning
// from every source and then resolves the stage-scoped Settings.
func Load(overrides *CLIOverrides) (Config, error) {
	if overrides == nil {
		overrides = &CLIOverrides{}
	}

	if err := LoadDotEnv(overrides.EnvFile); err != nil {
		return Config{}, err
	}

	cfg := defaultConfig()

	if overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		if err := applyYAMLConfig(&cfg, yamlCfg); err != nil {
			return Config{}, fmt.Errorf("apply YAML config: %w", err)
		}
	}

	src := sourceWithOverrides(overrides)
	if err := applyEnvConfig(&cfg, src); err != nil {
		return Config{}, err
	}
	applyCLIOverrides(&cfg, overrides)

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	settings, err := ResolveFrom(src)
	if err != nil {
		return Config{}, fmt.Errorf("resolve settings: %w", err)
	}
	cfg.Settings = settings

	return cfg, nil
}

func sourceWithOverrides(overrides *CLIOverrides) Source {
	if overrides.Stage == nil || strings.TrimSpace(*overrides.Stage) == "" {
		return EnvSource{}
	}
	return Layered{MapSource{stageKey: *overrides.Stage}, EnvSource{}}
}

// defaultConfig returns a Config with default server tuning.
func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) error {
	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}

	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"shutdown_grace_period", yamlCfg.ShutdownGracePeriod, &cfg.ShutdownGracePeriod},
		{"read_header_timeout", yamlCfg.ReadHeaderTimeout, &cfg.ReadHeaderTimeout},
		{"write_timeout", yamlCfg.WriteTimeout, &cfg.WriteTimeout},
		{"idle_timeout", yamlCfg.IdleTimeout, &cfg.IdleTimeout},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
		*d.dst = parsed
	}

	if yamlCfg.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *yamlCfg.EnableRequestLogging
	}

	if yamlCfg.RateLimit.RPS != nil && *yamlCfg.RateLimit.RPS >= 0 {
		cfg.RateLimitRPS = *yamlCfg.RateLimit.RPS
	}

	if yamlCfg.RateLimit.Burst != nil && *yamlCfg.RateLimit.Burst >= 0 {
		cfg.RateLimitBurst = *yamlCfg.RateLimit.Burst
	}
	return nil
}

// applyEnvConfig applies server tuning from src. Values that are present
// but cannot be parsed are reported as ErrMalformedValue.
func applyEnvConfig(cfg *Config, src Source) error {
	cfg.Port = stringSetting(src, portKey, cfg.Port)

	if raw, ok := lookupString(src, rateLimitRPSKey); ok {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value < 0 {
			return malformed(rateLimitRPSKey, raw, err)
		}
		cfg.RateLimitRPS = value
	}

	if raw, ok := lookupString(src, rateLimitBurstKey); ok {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			return malformed(rateLimitBurstKey, raw, err)
		}
		cfg.RateLimitBurst = value
	}

	logging, err := boolSetting(src, requestLoggingKey, cfg.EnableRequestLogging)
	if err != nil {
		return err
	}
	cfg.EnableRequestLogging = logging
	return nil
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}
}

// validateConfig validates the final server tuning.
func validateConfig(cfg Config) error {
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return fmt.Errorf("port cannot be empty")
	}
	return nil
}
