package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		port:            8080,
		minPlayers:      4,
		codeLength:      4,
		maxAnswerLength: 80,
	}
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, validConfig().validate())

	cfg := validConfig()
	cfg.port = 0
	assert.Error(t, cfg.validate())

	cfg = validConfig()
	cfg.tlsCert = "cert.pem"
	assert.Error(t, cfg.validate(), "tls flags must be paired")

	cfg = validConfig()
	cfg.minPlayers = 1
	assert.Error(t, cfg.validate())

	cfg = validConfig()
	cfg.codeLength = 2
	assert.Error(t, cfg.validate())

	cfg = validConfig()
	cfg.maxAnswerLength = 0
	assert.Error(t, cfg.validate())
}

func TestConfigScheme(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "http", cfg.scheme())

	cfg.tlsCert = "cert.pem"
	cfg.tlsKey = "key.pem"
	assert.Equal(t, "https", cfg.scheme())
}
