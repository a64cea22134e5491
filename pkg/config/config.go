// Package config provides centralized configuration for the Firebase MCP server.
package config

import (
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Config holds the complete configuration for the server process.
type Config struct {
	// Firebase backend configuration
	Firebase struct {
		// ServiceAccountKeyPath points at a service account JSON file.
		// When empty, application-default credentials are used.
		ServiceAccountKeyPath string
		ProjectID             string
		StorageBucket         string
	}

	// Transport selection and network settings
	Transport struct {
		Mode     string // "stdio" or "http"
		HTTPHost string
		HTTPPort int
	}

	// Per-call behavior
	Calls struct {
		Timeout       time.Duration
		RetryAttempts int
	}
}

var (
	once   sync.Once
	config *Config
)

// Load initializes and loads the configuration from environment variables.
func Load() *Config {
	once.Do(func() {
		config = load(newViper())
	})
	return config
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("MCP_TRANSPORT", "stdio")
	v.SetDefault("MCP_HTTP_HOST", "localhost")
	v.SetDefault("MCP_HTTP_PORT", 3000)
	v.SetDefault("MCP_CALL_TIMEOUT", "30s")
	v.SetDefault("MCP_RETRY_ATTEMPTS", 3)

	v.AutomaticEnv()
	return v
}

func load(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Firebase.ServiceAccountKeyPath = v.GetString("SERVICE_ACCOUNT_KEY_PATH")
	cfg.Firebase.ProjectID = v.GetString("FIREBASE_PROJECT_ID")
	cfg.Firebase.StorageBucket = v.GetString("FIREBASE_STORAGE_BUCKET")

	cfg.Transport.Mode = v.GetString("MCP_TRANSPORT")
	cfg.Transport.HTTPHost = v.GetString("MCP_HTTP_HOST")
	cfg.Transport.HTTPPort = v.GetInt("MCP_HTTP_PORT")

	cfg.Calls.Timeout = v.GetDuration("MCP_CALL_TIMEOUT")
	cfg.Calls.RetryAttempts = v.GetInt("MCP_RETRY_ATTEMPTS")

	return cfg
}

// Validate checks that the loaded configuration is coherent. Backend
// credential problems are not detected here; they surface when the
// Firebase app is initialized at startup.
func (c *Config) Validate() error {
	switch c.Transport.Mode {
	case "stdio", "http":
	default:
		return fmt.Errorf("invalid MCP_TRANSPORT %q (must be stdio or http)", c.Transport.Mode)
	}

	if c.Transport.Mode == "http" && (c.Transport.HTTPPort < 1 || c.Transport.HTTPPort > 65535) {
		return fmt.Errorf("invalid MCP_HTTP_PORT %d", c.Transport.HTTPPort)
	}

	if c.Calls.Timeout <= 0 {
		return fmt.Errorf("MCP_CALL_TIMEOUT must be positive, got %s", c.Calls.Timeout)
	}

	if c.Calls.RetryAttempts < 0 {
		return fmt.Errorf("MCP_RETRY_ATTEMPTS must not be negative, got %d", c.Calls.RetryAttempts)
	}

	return nil
}

// HTTPAddr returns the listen address for the HTTP transport.
func (c *Config) HTTPAddr() string {
	return net.JoinHostPort(c.Transport.HTTPHost, strconv.Itoa(c.Transport.HTTPPort))
}

// BaseURL returns the externally visible base URL for the HTTP transport.
func (c *Config) BaseURL() string {
	return "http://" + c.HTTPAddr()
}
