package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything one run needs. It is built once in the command
// layer and passed into constructors; there is no process-wide settings state.
type Config struct {
	HostFile    string
	OutputDir   string
	Concurrency int
	RateLimit   float64 // probe starts per second, 0 = unlimited
	Email       bool
	Debug       bool

	WinRM WinRM
	SMTP  SMTP
}

// WinRM holds the remote query transport settings. The same credentials apply
// to every host in the run.
type WinRM struct {
	Port     int
	User     string
	Password string
	Timeout  time.Duration
}

// SMTP holds the mail delivery settings. Transport security is always
// required, so there is no toggle for it.
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// Load reads the optional .env file and fills server and credential settings
// from the environment. Flag-backed fields keep their defaults here and are
// bound by the command layer.
func Load() Config {
	// .env is optional, the system environment still applies without it
	_ = godotenv.Load()

	cfg := Config{
		HostFile:    "hosts.txt",
		OutputDir:   "reports",
		Concurrency: 5,
		WinRM: WinRM{
			Port:     5985,
			User:     os.Getenv("WINRM_USER"),
			Password: os.Getenv("WINRM_PASSWORD"),
			Timeout:  30 * time.Second,
		},
		SMTP: SMTP{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     587,
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
			To:       os.Getenv("SMTP_TO"),
		},
	}

	if v, ok := intEnv("WINRM_PORT"); ok {
		cfg.WinRM.Port = v
	}
	if v, ok := intEnv("SMTP_PORT"); ok {
		cfg.SMTP.Port = v
	}
	return cfg
}

func intEnv(key string) (int, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
