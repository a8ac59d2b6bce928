// Package config loads service settings from the environment.
package config

import (
	"diagform/internal/diagnostic"
	"diagform/internal/dispatch"
	"diagform/internal/report"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
)

// Snapshot backends
const (
	BackendFile  = "file"
	BackendMongo = "mongo"
	BackendRedis = "redis"
)

// Config holds every runtime setting of the service
type Config struct {
	Port    string `validate:"required,numeric"`
	DataDir string `validate:"required"`

	SnapshotBackend string        `validate:"oneof=file mongo redis"`
	MongoURI        string        `validate:"required_if=SnapshotBackend mongo"`
	MongoDatabase   string        `validate:"required_if=SnapshotBackend mongo"`
	RedisURI        string        `validate:"required_if=SnapshotBackend redis"`
	SnapshotTTL     time.Duration `validate:"gte=0"`

	SMTPHost     string
	SMTPPort     int    `validate:"gt=0,lte=65535"`
	SMTPUser     string `validate:"omitempty,email"`
	SMTPPassword string `json:"-"`
	MailFromName string
	// MailFrom defaults to the SMTP user
	MailFrom string `validate:"omitempty,email"`

	AdminRecipients      []string `validate:"dive,email"`
	RespondentFullDetail bool
	UserInfoThemes       []string `validate:"min=1,dive,required"`

	// FeedToken guards the admin live feed when set
	FeedToken string `json:"-"`

	LogLevel     string `validate:"oneof=debug info warn error"`
	MaxBodyBytes int64  `validate:"gt=0"`

	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
}

// Load reads the configuration from environment variables and validates it
func Load() (*Config, error) {
	port, err := cast.ToIntE(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("SMTP_PORT: %w", err)
	}
	maxBody, err := cast.ToInt64E(getEnv("MAX_BODY_BYTES", "1048576"))
	if err != nil {
		return nil, fmt.Errorf("MAX_BODY_BYTES: %w", err)
	}
	ttl, err := cast.ToDurationE(getEnv("SNAPSHOT_TTL", "0s"))
	if err != nil {
		return nil, fmt.Errorf("SNAPSHOT_TTL: %w", err)
	}
	fullDetail, err := cast.ToBoolE(getEnv("RESPONDENT_FULL_DETAIL", "false"))
	if err != nil {
		return nil, fmt.Errorf("RESPONDENT_FULL_DETAIL: %w", err)
	}

	user := os.Getenv("OUTLOOK_USER")
	cfg := &Config{
		Port:    getEnv("PORT", "3000"),
		DataDir: getEnv("DATA_DIR", "./data"),

		SnapshotBackend: strings.ToLower(getEnv("SNAPSHOT_BACKEND", BackendFile)),
		MongoURI:        os.Getenv("MONGO_URI"),
		MongoDatabase:   getEnv("MONGO_DATABASE", "diagform"),
		RedisURI:        os.Getenv("REDIS_URI"),
		SnapshotTTL:     ttl,

		SMTPHost:     getEnv("SMTP_HOST", "smtp.office365.com"),
		SMTPPort:     port,
		SMTPUser:     user,
		SMTPPassword: os.Getenv("OUTLOOK_PASS"),
		MailFromName: getEnv("MAIL_FROM_NAME", "Diagnostic"),
		MailFrom:     getEnv("MAIL_FROM", user),

		AdminRecipients:      splitList(os.Getenv("ADMIN_BCC_EMAIL")),
		RespondentFullDetail: fullDetail,
		UserInfoThemes:       splitList(getEnv("USER_INFO_THEMES", strings.Join(diagnostic.DefaultUserInfoThemes, ","))),

		FeedToken: os.Getenv("FEED_TOKEN"),

		LogLevel:     strings.ToLower(getEnv("LOG_LEVEL", "info")),
		MaxBodyBytes: maxBody,

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		CORSAllowedMethods: splitList(getEnv("CORS_ALLOWED_METHODS", "GET,POST,OPTIONS")),
		CORSAllowedHeaders: splitList(getEnv("CORS_ALLOWED_HEADERS", "Content-Type")),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MailEnabled reports whether an SMTP relay and sender are configured
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPassword != ""
}

// DispatchSettings returns the sender identity used for every envelope
func (c *Config) DispatchSettings() dispatch.Settings {
	return dispatch.Settings{
		FromName:        c.MailFromName,
		FromAddress:     c.MailFrom,
		AdminRecipients: c.AdminRecipients,
	}
}

// SMTP returns the relay settings
func (c *Config) SMTP() dispatch.SMTPConfig {
	return dispatch.SMTPConfig{
		Host:     c.SMTPHost,
		Port:     c.SMTPPort,
		Username: c.SMTPUser,
		Password: c.SMTPPassword,
	}
}

// FieldLabels returns where respondent details are read from
func (c *Config) FieldLabels() diagnostic.FieldLabels {
	labels := diagnostic.DefaultFieldLabels()
	labels.UserInfoThemes = c.UserInfoThemes
	return labels
}

// ReportOptions returns the rendering toggles
func (c *Config) ReportOptions() report.Options {
	return report.Options{IncludeDetailForRespondent: c.RespondentFullDetail}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// splitList splits a comma-separated value, dropping blanks
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
