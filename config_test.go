package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCmd_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("QUIZBOX_PORT", "")

	cfg := &Config{}
	newCmd(cfg)

	assert.Equal(t, "0.0.0.0", cfg.bind)
	assert.Equal(t, 3000, cfg.port)
	assert.Equal(t, "gusztika007xd", cfg.moderator)
	assert.Equal(t, 500, cfg.maxMessageLength)
	assert.NoError(t, cfg.validate())
}

func TestNewCmd_Environment(t *testing.T) {
	t.Setenv("QUIZBOX_MODERATOR", "quizmaster")
	t.Setenv("QUIZBOX_MAX_MESSAGE_LENGTH", "80")
	t.Setenv("PORT", "4567")

	cfg := &Config{}
	newCmd(cfg)

	assert.Equal(t, "quizmaster", cfg.moderator)
	assert.Equal(t, 80, cfg.maxMessageLength)
	assert.Equal(t, 4567, cfg.port)
}

func TestNewCmd_PrefixedPortWins(t *testing.T) {
	t.Setenv("QUIZBOX_PORT", "5000")
	t.Setenv("PORT", "4567")

	cfg := &Config{}
	newCmd(cfg)

	assert.Equal(t, 5000, cfg.port)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"port too low", func(c *Config) { c.port = 0 }, false},
		{"port too high", func(c *Config) { c.port = 70000 }, false},
		{"half tls", func(c *Config) { c.tlsCert = "cert.pem" }, false},
		{"full tls", func(c *Config) { c.tlsCert, c.tlsKey = "cert.pem", "key.pem" }, true},
		{"negative length", func(c *Config) { c.maxMessageLength = -1 }, false},
		{"blank moderator", func(c *Config) { c.moderator = " " }, false},
		{"reserved moderator", func(c *Config) { c.moderator = "admin" }, false},
		{"folded reserved moderator", func(c *Config) { c.moderator = "S y s t e m" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.ok {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestConfig_Scheme(t *testing.T) {
	cfg := newTestConfig()
	assert.Equal(t, "http", cfg.scheme())

	cfg.tlsCert, cfg.tlsKey = "cert.pem", "key.pem"
	assert.Equal(t, "https", cfg.scheme())
}
