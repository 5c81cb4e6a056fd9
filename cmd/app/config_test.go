package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.env")

	configData := []byte(`
PORT=8080
ENVIRONMENT=development
VERSION=1.0.0
LOG_LEVEL=debug
TRUSTED_ORIGINS="http://localhost:3000,http://localhost:3001"
TOKEN_TTL=1h
POSTGRES_HOST=localhost
POSTGRES_USER=testuser
POSTGRES_PASSWORD=testpassword
POSTGRES_DB=testdb
MAIL_HOST=smtp.example.com
MAIL_PORT=587
MAIL_USER=testuser@example.com
MAIL_PASSWORD=testpassword
MAIL_SENDER=sender@example.com
MAIL_RECIPIENT=moderator@example.com
RABBITMQ_HOST=rabbitmq.example.com
RABBITMQ_USER=testuser
RABBITMQ_PASSWORD=testpassword
LIMITER_ENABLED=false
LIMITER_RPS=5
LIMITER_BURST=10
`)
	require.NoError(t, os.WriteFile(path, configData, 0o600))

	config, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, config.Port)
	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, "1.0.0", config.Version)
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:3001"}, config.TrustedOrigins)
	assert.Equal(t, time.Hour, config.TokenTTL)
	assert.Equal(t, "localhost", config.DB.Host)
	assert.Equal(t, "5432", config.DB.Port)
	assert.Equal(t, "testuser", config.DB.User)
	assert.Equal(t, "testpassword", config.DB.Password)
	assert.Equal(t, "testdb", config.DB.Name)
	assert.Equal(t, "smtp.example.com", config.Mail.Host)
	assert.Equal(t, 587, config.Mail.Port)
	assert.Equal(t, "testuser@example.com", config.Mail.User)
	assert.Equal(t, "testpassword", config.Mail.Password)
	assert.Equal(t, "sender@example.com", config.Mail.Sender)
	assert.Equal(t, "moderator@example.com", config.Mail.Recipient)
	assert.Equal(t, "rabbitmq.example.com", config.RabbitMQ.Host)
	assert.Equal(t, "5672", config.RabbitMQ.Port)
	assert.Equal(t, "testuser", config.RabbitMQ.User)
	assert.Equal(t, "testpassword", config.RabbitMQ.Password)
	assert.False(t, config.Limiter.Enabled)
	assert.Equal(t, 5.0, config.Limiter.RPS)
	assert.Equal(t, 10, config.Limiter.Burst)
}

func TestLoadConfigDefaultsAndEnv(t *testing.T) {
	t.Setenv("POSTGRES_DB", "fromenv")

	config, err := loadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 3003, config.Port)
	assert.Equal(t, "fromenv", config.DB.Name)
	assert.Equal(t, 7*24*time.Hour, config.TokenTTL)
	assert.True(t, config.Limiter.Enabled)
	assert.Equal(t, []string{"http://localhost:5173"}, config.TrustedOrigins)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	newLogger(&buf, "production", "warn").Info("hidden")
	assert.Empty(t, buf.String())

	newLogger(&buf, "production", "info").Info("shown")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	newLogger(&buf, "development", "bogus").Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}
