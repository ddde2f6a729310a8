// Package config reads the environment into one aggregate. Everything has a
// documented default except the record-store and object-store credentials;
// those are checked by the stage that needs them, not at process start, so a
// partially configured environment can still serve the stages it supports.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config aggregates every recognized option.
type Config struct {
	ListenAddr string

	Storage Storage
	Record  Record
	SMTP    SMTP
	Mail    Mail

	// RenderStrategy selects the renderer: "html" or "coordinate".
	RenderStrategy string

	// JWTSecret signs API tokens; APIKeyHash is the bcrypt hash of the
	// shared intake credential. Both empty disables auth entirely.
	JWTSecret  string
	APIKeyHash string

	QueueSize int
	Workers   int
}

type Storage struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

type Record struct {
	APIKey string
	BaseID string
	Table  string
}

type SMTP struct {
	Host     string
	Port     int
	Secure   bool
	Username string
	Password string
}

type Mail struct {
	From    string
	To      string
	AlertTo string
}

// MissingError lists the variables a stage needs but the environment lacks.
// It short-circuits that stage and anything depending on it.
type MissingError struct {
	Stage string
	Vars  []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("config: stage %s missing %s", e.Stage, strings.Join(e.Vars, ", "))
}

// Load reads the environment. It never fails: absent credentials surface
// later through the per-stage Check methods.
func Load() Config {
	return Config{
		ListenAddr: envOr("LISTEN_ADDR", ":8080"),
		Storage: Storage{
			Endpoint:  os.Getenv("STORAGE_ENDPOINT"),
			AccessKey: os.Getenv("STORAGE_ACCESS_KEY"),
			SecretKey: os.Getenv("STORAGE_SECRET_KEY"),
			UseSSL:    envBool("STORAGE_USE_SSL", true),
			Bucket:    envOr("STORAGE_BUCKET", "transaction-documents"),
		},
		Record: Record{
			APIKey: os.Getenv("RECORD_API_KEY"),
			BaseID: os.Getenv("RECORD_BASE_ID"),
			Table:  envOr("RECORD_TABLE", "Transactions"),
		},
		SMTP: SMTP{
			Host:     envOr("SMTP_HOST", "localhost"),
			Port:     envInt("SMTP_PORT", 587),
			Secure:   envBool("SMTP_SECURE", false),
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
		},
		Mail: Mail{
			From:    envOr("MAIL_FROM", os.Getenv("SMTP_USER")),
			To:      os.Getenv("MAIL_TO"),
			AlertTo: os.Getenv("MAIL_ALERT_TO"),
		},
		RenderStrategy: envOr("RENDER_STRATEGY", "html"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		APIKeyHash:     os.Getenv("API_KEY_HASH"),
		QueueSize:      envInt("QUEUE_SIZE", 32),
		Workers:        envInt("WORKERS", 2),
	}
}

// Check reports the storage credentials the upload stage cannot run without.
func (s Storage) Check() error {
	var missing []string
	if s.Endpoint == "" {
		missing = append(missing, "STORAGE_ENDPOINT")
	}
	if s.AccessKey == "" {
		missing = append(missing, "STORAGE_ACCESS_KEY")
	}
	if s.SecretKey == "" {
		missing = append(missing, "STORAGE_SECRET_KEY")
	}
	if len(missing) > 0 {
		return &MissingError{Stage: "storage", Vars: missing}
	}
	return nil
}

// Check reports the record-store credentials the attach stage cannot run
// without.
func (r Record) Check() error {
	var missing []string
	if r.APIKey == "" {
		missing = append(missing, "RECORD_API_KEY")
	}
	if r.BaseID == "" {
		missing = append(missing, "RECORD_BASE_ID")
	}
	if len(missing) > 0 {
		return &MissingError{Stage: "record", Vars: missing}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
