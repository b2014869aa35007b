package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/jsonc"

	"github.com/example/room-booking/internal/logging"
)

// Config captures environment driven configuration values for the booking API server.
type Config struct {
	HTTPPort       int
	SQLiteDSN      string
	APIKeyHash     string
	RateLimitRPS   float64
	RateLimitBurst int
	LogLevel       string
}

// Load parses server configuration values from the current process environment.
//
// Defaults apply to every unset key. Invalid values are collected and
// reported together so a misconfigured deployment fails with one message.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:       8080,
		SQLiteDSN:      "file:rooms.db?_pragma=foreign_keys(1)",
		RateLimitRPS:   20,
		RateLimitBurst: 40,
		LogLevel:       "info",
	}

	invalid := make([]string, 0, 4)

	if portValue := env("ROOMS_HTTP_PORT"); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, "ROOMS_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := env("ROOMS_SQLITE_DSN"); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if hash := env("ROOMS_API_KEY_HASH"); hash != "" {
		if !strings.HasPrefix(hash, "$2") {
			invalid = append(invalid, "ROOMS_API_KEY_HASH")
		} else {
			cfg.APIKeyHash = hash
		}
	}

	if rpsValue := env("ROOMS_RATE_LIMIT_RPS"); rpsValue != "" {
		rps, err := strconv.ParseFloat(rpsValue, 64)
		if err != nil || rps < 0 {
			invalid = append(invalid, "ROOMS_RATE_LIMIT_RPS")
		} else {
			cfg.RateLimitRPS = rps
		}
	}

	if burstValue := env("ROOMS_RATE_LIMIT_BURST"); burstValue != "" {
		burst, err := strconv.Atoi(burstValue)
		if err != nil || burst <= 0 {
			invalid = append(invalid, "ROOMS_RATE_LIMIT_BURST")
		} else {
			cfg.RateLimitBurst = burst
		}
	}

	if level := env("ROOMS_LOG_LEVEL"); level != "" {
		if _, err := logging.ParseLevel(level); err != nil {
			invalid = append(invalid, "ROOMS_LOG_LEVEL")
		} else {
			cfg.LogLevel = level
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// Output formats accepted by the command line client.
const (
	OutputAuto  = ""
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// ClientConfig configures roomctl.
type ClientConfig struct {
	BaseURL string        `json:"baseUrl"`
	APIKey  string        `json:"apiKey"`
	Timeout time.Duration `json:"-"`
	Output  string        `json:"output"`

	// TimeoutText carries the file's "timeout" value until it is parsed.
	TimeoutText string `json:"timeout"`
}

// DefaultClientConfig returns the settings used when nothing is configured.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{BaseURL: "http://localhost:8080"}
}

// LoadClient builds the client configuration. Values come from defaults,
// then the optional JSONC file at path, then ROOMCTL_* environment variables.
func LoadClient(path string) (ClientConfig, error) {
	cfg := DefaultClientConfig()
	if path != "" {
		fileCfg, err := LoadClientFile(path)
		if err != nil {
			return ClientConfig{}, err
		}
		cfg = merge(cfg, fileCfg)
	}

	invalid := make([]string, 0, 2)

	if baseURL := env("ROOMCTL_BASE_URL"); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if key := env("ROOMCTL_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	if timeoutValue := env("ROOMCTL_TIMEOUT"); timeoutValue != "" {
		timeout, err := time.ParseDuration(timeoutValue)
		if err != nil || timeout < 0 {
			invalid = append(invalid, "ROOMCTL_TIMEOUT")
		} else {
			cfg.Timeout = timeout
		}
	}
	if output := env("ROOMCTL_OUTPUT"); output != "" {
		if !ValidOutput(output) {
			invalid = append(invalid, "ROOMCTL_OUTPUT")
		} else {
			cfg.Output = output
		}
	}

	if len(invalid) > 0 {
		return ClientConfig{}, fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}
	return cfg, nil
}

// LoadClientFile reads a JSON-with-comments client configuration file.
func LoadClientFile(path string) (ClientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ClientConfig{}, fmt.Errorf("read config file: %w", err)
	}

	var cfg ClientConfig
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		return ClientConfig{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	if cfg.TimeoutText != "" {
		timeout, err := time.ParseDuration(cfg.TimeoutText)
		if err != nil || timeout < 0 {
			return ClientConfig{}, fmt.Errorf("parse config file %s: invalid timeout %q", path, cfg.TimeoutText)
		}
		cfg.Timeout = timeout
	}
	if cfg.Output != "" && !ValidOutput(cfg.Output) {
		return ClientConfig{}, fmt.Errorf("parse config file %s: unknown output %q", path, cfg.Output)
	}
	return cfg, nil
}

// ValidOutput reports whether format names a supported output format.
func ValidOutput(format string) bool {
	switch format {
	case OutputAuto, OutputTable, OutputJSON, OutputYAML:
		return true
	}
	return false
}

func merge(base, override ClientConfig) ClientConfig {
	if override.BaseURL != "" {
		base.BaseURL = override.BaseURL
	}
	if override.APIKey != "" {
		base.APIKey = override.APIKey
	}
	if override.TimeoutText != "" {
		base.Timeout = override.Timeout
	}
	if override.Output != "" {
		base.Output = override.Output
	}
	return base
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
