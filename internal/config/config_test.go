package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "hosts.txt", cfg.HostFile)
	assert.Equal(t, "reports", cfg.OutputDir)
	assert.Equal(t, 5, cfg.Concurrency)
	assert.Equal(t, 5985, cfg.WinRM.Port)
	assert.Equal(t, 587, cfg.SMTP.Port)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("WINRM_USER", "reporter")
	t.Setenv("WINRM_PASSWORD", "secret")
	t.Setenv("WINRM_PORT", "5986")
	t.Setenv("SMTP_HOST", "mail.example.com")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("SMTP_FROM", "defender@example.com")
	t.Setenv("SMTP_TO", "ops@example.com")

	cfg := Load()

	assert.Equal(t, "reporter", cfg.WinRM.User)
	assert.Equal(t, "secret", cfg.WinRM.Password)
	assert.Equal(t, 5986, cfg.WinRM.Port)
	assert.Equal(t, "mail.example.com", cfg.SMTP.Host)
	assert.Equal(t, 465, cfg.SMTP.Port)
	assert.Equal(t, "defender@example.com", cfg.SMTP.From)
	assert.Equal(t, "ops@example.com", cfg.SMTP.To)
}

func TestLoadIgnoresBadPort(t *testing.T) {
	t.Setenv("WINRM_PORT", "not-a-port")
	cfg := Load()
	assert.Equal(t, 5985, cfg.WinRM.Port)
}
