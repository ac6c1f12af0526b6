package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0", cfg.ServerHost)
				assert.Equal(t, 8080, cfg.ServerPort)
				assert.Equal(t, 25, cfg.DBMaxOpenConnections)
				assert.Equal(t, 5, cfg.DBMaxIdleConnections)
				assert.Equal(t, 5*time.Minute, cfg.DBConnMaxLifetime)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, 300*time.Second, cfg.ReauthTokenTTL)
				assert.Equal(t, 60*time.Second, cfg.ReauthSweepInterval)
				assert.Equal(t, 600*time.Second, cfg.OAuthStateTTL)
				assert.Equal(t, 60*time.Minute, cfg.OAuthStateCleanupInterval)
				assert.True(t, cfg.RateLimitEnabled)
				assert.Equal(t, 5.0, cfg.RateLimitRequestsPerSec)
				assert.Equal(t, 10, cfg.RateLimitBurst)
				assert.False(t, cfg.CORSEnabled)
				assert.True(t, cfg.MetricsEnabled)
				assert.Equal(t, "isohub_security", cfg.MetricsNamespace)
				assert.Equal(t, 8081, cfg.MetricsPort)
				assert.Equal(t, 100, cfg.AuditSampleSize)
			},
		},
		{
			name: "load custom server configuration",
			envVars: map[string]string{
				"SERVER_HOST": "localhost",
				"SERVER_PORT": "9090",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "localhost", cfg.ServerHost)
				assert.Equal(t, 9090, cfg.ServerPort)
			},
		},
		{
			name: "load custom token lifetimes",
			envVars: map[string]string{
				"REAUTH_TOKEN_TTL_SECONDS": "120",
				"OAUTH_STATE_TTL_SECONDS":  "300",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 120*time.Second, cfg.ReauthTokenTTL)
				assert.Equal(t, 300*time.Second, cfg.OAuthStateTTL)
			},
		},
		{
			name: "load custom log level",
			envVars: map[string]string{
				"LOG_LEVEL": "debug",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.LogLevel)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			os.Clearenv()

			// Set test environment variables
			for key, value := range tt.envVars {
				err := os.Setenv(key, value)
				require.NoError(t, err)
			}

			// Load configuration
			cfg := Load()

			// Validate
			tt.validate(t, cfg)
		})
	}
}

func TestValidate(t *testing.T) {
	validKey := strings.Repeat("ab", 32)

	base := func() *Config {
		return &Config{
			JWTSecret:        "jwt-secret",
			OAuthStateSecret: "state-secret",
			PIIEncryptionKey: validKey,
		}
	}

	t.Run("valid configuration", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		cfg := base()
		cfg.JWTSecret = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})

	t.Run("missing oauth state secret", func(t *testing.T) {
		cfg := base()
		cfg.OAuthStateSecret = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "OAUTH_STATE_SECRET")
	})

	t.Run("non-hex encryption key", func(t *testing.T) {
		cfg := base()
		cfg.PIIEncryptionKey = "not-hex!"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "hex")
	})

	t.Run("wrong-length encryption key", func(t *testing.T) {
		cfg := base()
		cfg.PIIEncryptionKey = "abcdef"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "32 bytes")
	})

	t.Run("empty encryption key is allowed", func(t *testing.T) {
		cfg := base()
		cfg.PIIEncryptionKey = ""
		assert.NoError(t, cfg.Validate())
	})

	t.Run("kms uri requires wrapped key", func(t *testing.T) {
		cfg := base()
		cfg.PIIKMSKeyURI = "base64key://c21va2V5"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PII_ENCRYPTED_KEY")

		cfg.PIIEncryptedKey = "d29ya2Vk"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("multiple failures are joined", func(t *testing.T) {
		cfg := &Config{}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
		assert.Contains(t, err.Error(), "OAUTH_STATE_SECRET")
	})
}

func TestGetGinMode(t *testing.T) {
	tests := []struct {
		logLevel string
		ginMode  string
	}{
		{logLevel: "debug", ginMode: "debug"},
		{logLevel: "info", ginMode: "release"},
		{logLevel: "warn", ginMode: "release"},
		{logLevel: "error", ginMode: "release"},
		{logLevel: "unknown", ginMode: "release"},
	}

	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.logLevel}
		assert.Equal(t, tt.ginMode, cfg.GetGinMode())
	}
}
