package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`

	// Storage
	KVBackend    string `env:"KV_BACKEND" envDefault:"file"`
	KVFilePath   string `env:"KV_FILE_PATH" envDefault:"data/kv.json"`
	KVSQLitePath string `env:"KV_SQLITE_PATH" envDefault:"data/trips.db"`
	TripsKey     string `env:"TRIPS_KEY" envDefault:"trips"`
	AuditLogPath string `env:"AUDIT_LOG_PATH" envDefault:"logs/audit.jsonl"`

	// Display
	Language       string `env:"LANGUAGE" envDefault:"ja"`
	CurrencySuffix string `env:"CURRENCY_SUFFIX" envDefault:"円"`
	Timezone       string `env:"TIMEZONE" envDefault:"Asia/Tokyo"`

	// Reminders
	ReminderCron   string `env:"REMINDER_CRON" envDefault:"0 8 * * *"`
	ReminderChatID int64  `env:"REMINDER_CHAT_ID"`

	// Formatting
	MessageParseMode string `env:"MESSAGE_PARSE_MODE" envDefault:"HTML"`
}

func New() *Config {
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}

func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("⚠️ unknown timezone %q, using UTC: %v", c.Timezone, err)
		return time.UTC
	}
	return loc
}
