package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("STORE_BACKEND", "SQLite")
	t.Setenv("AVATAR_MAX_BYTES", "not-a-number")

	cfg := Load()
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "sqlite", cfg.StoreBackend)
	assert.Equal(t, "memory", cfg.MediaBackend)
	assert.Equal(t, int64(5<<20), cfg.AvatarMaxBytes)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Env:            "production",
			StoreBackend:   "postgres",
			MediaBackend:   "memory",
			AvatarMaxBytes: 1024,
			JWTSecret:      "0123456789abcdef0123",
		}
	}
	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }, false},
		{"default secret in production", func(c *Config) { c.JWTSecret = "dev-secret-change-me" }, false},
		{"default secret in development", func(c *Config) { c.Env = "development"; c.JWTSecret = "dev-secret-change-me" }, true},
		{"unknown store", func(c *Config) { c.StoreBackend = "mongo" }, false},
		{"gcs without bucket", func(c *Config) { c.MediaBackend = "gcs" }, false},
		{"s3 with bucket", func(c *Config) { c.MediaBackend = "s3"; c.S3Bucket = "avatars" }, true},
		{"unknown media", func(c *Config) { c.MediaBackend = "ftp" }, false},
		{"zero avatar limit", func(c *Config) { c.AvatarMaxBytes = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestSplitLists(t *testing.T) {
	c := &Config{CORSAllowedOrigins: " https://a.com, ,https://b.com ", ElasticsearchAddrs: ""}
	assert.Equal(t, []string{"https://a.com", "https://b.com"}, c.CORSOrigins())
	assert.Empty(t, c.ESAddrs())
	assert.Equal(t, "postgres://u:p@h:1/d?sslmode=disable",
		(&Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "1", DBName: "d", DBSSLMode: "disable"}).PostgresDSN())
}
