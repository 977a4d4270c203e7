package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP Server
	Port string

	// Local storage
	SQLiteDBPath string
	StorageKey   string

	// Remote document store
	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	// AMQP (optional sync event publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Auth
	AuthSecret string
	SessionTTL time.Duration

	// Persistence bridge
	DebounceInterval time.Duration
	BackoffWindow    time.Duration

	// Email (Brevo API with SMTP fallback)
	EmailFrom   string
	BrevoAPIKey string
	SMTPHost    string
	SMTPPort    int
	SMTPLogin   string
	SMTPKey     string

	// SMS (Twilio)
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	// Reminders
	RemindersEnabled bool
	ReminderEmail    string
	ReminderPhone    string
	ReminderCronSpec string
	ReminderLeadDays int
}

func Load() *Config {
	// Best-effort .env; the process environment wins either way.
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORT", "8082"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/finance.db"),
		StorageKey:   getEnv("STORAGE_KEY", "pfm:v1"),

		MongoURI:        getEnv("MONGO_URI", ""),
		MongoDatabase:   getEnv("MONGO_DATABASE", "finance"),
		MongoCollection: getEnv("MONGO_COLLECTION", "users"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "finance"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "snapshot_synced"),

		AuthSecret: getEnv("AUTH_SECRET", "dev-secret-change-me"),
		SessionTTL: getEnvDuration("SESSION_TTL", 7*24*time.Hour),

		DebounceInterval: getEnvDuration("SYNC_DEBOUNCE", 1500*time.Millisecond),
		BackoffWindow:    getEnvDuration("SYNC_BACKOFF", 60*time.Second),

		EmailFrom:   getEnv("EMAIL_FROM", ""),
		BrevoAPIKey: getEnv("BREVO_API_KEY", ""),
		SMTPHost:    getEnv("BREVO_SMTP_HOST", "smtp-relay.brevo.com"),
		SMTPPort:    getEnvInt("BREVO_SMTP_PORT", 587),
		SMTPLogin:   getEnv("BREVO_SMTP_LOGIN", ""),
		SMTPKey:     getEnv("BREVO_SMTP_KEY", ""),

		TwilioAccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber: getEnv("TWILIO_FROM_NUMBER", ""),

		RemindersEnabled: getEnvBool("REMINDERS_ENABLED", false),
		ReminderEmail:    getEnv("REMINDER_EMAIL", ""),
		ReminderPhone:    getEnv("REMINDER_PHONE", ""),
		ReminderCronSpec: getEnv("REMINDER_CRON", "0 9 * * *"),
		ReminderLeadDays: getEnvInt("REMINDER_LEAD_DAYS", 3),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.StorageKey == "" {
		errors = append(errors, "storage key cannot be empty")
	}

	if c.AuthSecret == "" {
		errors = append(errors, "auth secret cannot be empty")
	}
	if c.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	}

	if c.MongoURI != "" {
		if parsedURL, err := url.Parse(c.MongoURI); err != nil {
			errors = append(errors, fmt.Sprintf("invalid Mongo URI '%s': %v", c.MongoURI, err))
		} else if parsedURL.Scheme != "mongodb" && parsedURL.Scheme != "mongodb+srv" {
			errors = append(errors, fmt.Sprintf("invalid Mongo URI scheme '%s': must be 'mongodb' or 'mongodb+srv'", parsedURL.Scheme))
		}
		if c.MongoDatabase == "" {
			errors = append(errors, "Mongo database name cannot be empty when MONGO_URI is provided")
		}
		if c.MongoCollection == "" {
			errors = append(errors, "Mongo collection name cannot be empty when MONGO_URI is provided")
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.DebounceInterval < 100*time.Millisecond {
		errors = append(errors, fmt.Sprintf("invalid sync debounce %v: must be at least 100ms", c.DebounceInterval))
	}
	if c.BackoffWindow < time.Second {
		errors = append(errors, fmt.Sprintf("invalid sync backoff %v: must be at least 1 second", c.BackoffWindow))
	}

	if c.RemindersEnabled {
		if c.ReminderEmail == "" && c.ReminderPhone == "" {
			errors = append(errors, "reminders enabled but no reminder email or phone configured")
		}
		if c.ReminderLeadDays < 0 {
			errors = append(errors, fmt.Sprintf("invalid reminder lead days %d: must not be negative", c.ReminderLeadDays))
		}
	}

	if c.SMTPPort < 1 || c.SMTPPort > 65535 {
		errors = append(errors, fmt.Sprintf("invalid SMTP port %d", c.SMTPPort))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// EmailConfigured reports whether any email transport can be used.
func (c *Config) EmailConfigured() bool {
	return c.EmailFrom != "" && (c.BrevoAPIKey != "" || (c.SMTPLogin != "" && c.SMTPKey != ""))
}

// SMSConfigured reports whether the Twilio transport can be used.
func (c *Config) SMSConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioFromNumber != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
