package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t, "NODE_ENV", "PORT", "MONGODB_URI", "MONGODB_DB_NAME", "CORS_ORIGINS", "ADMIN_JWT_SECRET")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.False(t, cfg.Server.ServesStaticAssets)
	assert.True(t, cfg.IsDevelopment())

	assert.Equal(t, DefaultMongoURI, cfg.Database.URI)
	assert.Equal(t, DefaultDatabaseName, cfg.Database.Name)
	assert.Equal(t, 30*time.Second, cfg.Database.ServerSelectionTimeout)
	assert.Equal(t, 45*time.Second, cfg.Database.SocketTimeout)
	assert.EqualValues(t, 10, cfg.Database.MaxPoolSize)
	assert.EqualValues(t, 2, cfg.Database.MinPoolSize)
	assert.True(t, cfg.Database.RetryWrites)
	assert.Equal(t, "majority", cfg.Database.WriteConcern)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Empty(t, cfg.Auth.JWTSecret)
}

func TestLoadProduction(t *testing.T) {
	t.Setenv("NODE_ENV", "production")
	t.Setenv("PORT", "8080")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.Server.ServesStaticAssets)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoadRejectsInvalidPool(t *testing.T) {
	t.Setenv("MONGODB_MAX_POOL_SIZE", "1")
	t.Setenv("MONGODB_MIN_POOL_SIZE", "5")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database")
}

func TestLoadEmptyValuesFallBack(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("PORT", "")
	t.Setenv("MONGODB_MAX_POOL_SIZE", " ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultMongoURI, cfg.Database.URI)
	assert.Equal(t, "5000", cfg.Server.Port)
	assert.EqualValues(t, 10, cfg.Database.MaxPoolSize)
}

func TestLoadRejectsZeroMaxPool(t *testing.T) {
	t.Setenv("MONGODB_MAX_POOL_SIZE", "0")
	t.Setenv("MONGODB_MIN_POOL_SIZE", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database")
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"MONGODB_SOCKET_TIMEOUT", "soon"},
		{"RATE_LIMIT_REQUESTS", "lots"},
		{"MONGODB_MAX_POOL_SIZE", "-3"},
		{"MONGODB_RETRY_WRITES", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestParseList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, parseList(" a ,, b "))
	assert.Empty(t, parseList(""))
}

// unsetEnv removes keys for the duration of the test; t.Setenv restores them afterwards.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}
