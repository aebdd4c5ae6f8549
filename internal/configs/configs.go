/*
Package configs is responsible for loading and parsing the application's configuration settings.

It configures server parameters by reading operating system environment variables,
including the running environment, the chat and HTTP ports, the default room,
CORS allowed origins, and the file storage backend.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// AppConfig contains all configuration parameters required for the application to run.
// All configuration values are loaded from environment variables.
type AppConfig struct {
	// General Server Settings
	Environment string

	// ChatPort is the TCP port the framed chat transport listens on.
	ChatPort int

	// HTTPPort is the port for the HTTP surface (health, websocket transport, file API).
	HTTPPort int

	// DefaultRoom is the room every session is placed in at login.
	DefaultRoom string

	// Security Settings
	AllowedOrigins []string

	// File Storage Settings
	StorageBackend    string
	StorageDir        string
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// LoadConfig reads and parses the application configuration from environment variables.
// It provides default values for each configuration item and performs necessary type
// conversions and validation. It returns a pointer to the AppConfig struct and any
// error encountered.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Server Settings ---
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	chatPort, err := portFromEnv("PORT", 5555)
	if err != nil {
		return nil, err
	}
	cfg.ChatPort = chatPort

	httpPort, err := portFromEnv("HTTP_PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.HTTPPort = httpPort

	if cfg.ChatPort == cfg.HTTPPort {
		return nil, fmt.Errorf("PORT and HTTP_PORT must differ, both are %d", cfg.ChatPort)
	}

	cfg.DefaultRoom = os.Getenv("DEFAULT_ROOM")
	if cfg.DefaultRoom == "" {
		cfg.DefaultRoom = "commons"
	}

	// --- Security Settings ---
	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr != "" {
		origins := strings.Split(originsStr, ",")
		for _, origin := range origins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{}
	}

	// --- File Storage Settings ---
	cfg.StorageBackend = os.Getenv("STORAGE_BACKEND")
	if cfg.StorageBackend == "" {
		cfg.StorageBackend = "disk"
	}

	cfg.StorageDir = os.Getenv("STORAGE_DIR")
	if cfg.StorageDir == "" {
		cfg.StorageDir = "uploads"
	}

	if cfg.StorageBackend == "s3" {
		cfg.S3BucketName = os.Getenv("S3_BUCKET_NAME")
		if cfg.S3BucketName == "" {
			return nil, fmt.Errorf("S3_BUCKET_NAME environment variable is required for the s3 storage backend")
		}

		cfg.S3Endpoint = os.Getenv("S3_ENDPOINT")
		if cfg.S3Endpoint == "" {
			return nil, fmt.Errorf("S3_ENDPOINT environment variable is required for the s3 storage backend")
		}

		cfg.S3AccessKeyID = os.Getenv("S3_ACCESS_KEY_ID")
		if cfg.S3AccessKeyID == "" {
			return nil, fmt.Errorf("S3_ACCESS_KEY_ID environment variable is required for S3 authentication")
		}

		cfg.S3SecretAccessKey = os.Getenv("S3_SECRET_ACCESS_KEY")
		if cfg.S3SecretAccessKey == "" {
			return nil, fmt.Errorf("S3_SECRET_ACCESS_KEY environment variable is required for S3 authentication")
		}
	}

	return cfg, nil
}

// portFromEnv parses a port number from the named environment variable,
// falling back to def when unset.
func portFromEnv(name string, def int) (int, error) {
	portStr := os.Getenv(name)
	if portStr == "" {
		return def, nil
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}

	if port < 1024 || port > 65535 {
		return 0, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", port, 1024, 65535)
	}

	return port, nil
}
