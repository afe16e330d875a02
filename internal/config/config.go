package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	DBPath     string `env:"DB_PATH"`
	RawMailDir string `env:"MAIL_RAW_DIR"`
	UploadDir  string `env:"UPLOAD_DIR"`
	OutputDir  string `env:"OUTPUT_DIR"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	ColumnAliasesFile     string `env:"COLUMN_ALIASES_FILE"`
	ImportUserName        string `env:"IMPORT_USER_NAME" envDefault:"Import Admin"`
	PersonEmailDomain     string `env:"PERSON_EMAIL_DOMAIN" envDefault:"example.com"`
	PersonDefaultPassword string `env:"PERSON_DEFAULT_PASSWORD" envDefault:"password123"`

	GmailClientID     string `env:"GMAIL_CLIENT_ID"`
	GmailClientSecret string `env:"GMAIL_CLIENT_SECRET"`
	GmailRedirectURI  string `env:"GMAIL_REDIRECT_URI" envDefault:"https://developers.google.com/oauthplayground"`
	GmailRefreshToken string `env:"GMAIL_REFRESH_TOKEN"`

	IMAPHost     string `env:"IMAP_HOST"`
	IMAPPort     int    `env:"IMAP_PORT" envDefault:"993"`
	IMAPSecure   bool   `env:"IMAP_SECURE" envDefault:"true"`
	IMAPUser     string `env:"IMAP_USER"`
	IMAPPassword string `env:"IMAP_PASSWORD"`
	IMAPMarkSeen bool   `env:"IMAP_MARK_SEEN" envDefault:"false"`

	MailListenerProvider     string `env:"MAIL_LISTENER_PROVIDER" envDefault:"imap"`
	MailListenerLabel        string `env:"MAIL_LISTENER_LABEL" envDefault:"INBOX"`
	MailListenerIntervalSec  int    `env:"MAIL_LISTENER_INTERVAL_SEC" envDefault:"60"`
	MailListenerFetchMax     int    `env:"MAIL_LISTENER_FETCH_MAX" envDefault:"20"`
	MailListenerProcessBatch int    `env:"MAIL_LISTENER_PROCESS_BATCH" envDefault:"20"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse environment")
	}

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}
	cfg.DBPath = orDefault(cfg.DBPath, filepath.Join(cwd, "data", "app.db"))
	cfg.RawMailDir = orDefault(cfg.RawMailDir, filepath.Join(cwd, "data", "inbox"))
	cfg.UploadDir = orDefault(cfg.UploadDir, filepath.Join(cwd, "data", "uploads"))
	cfg.OutputDir = orDefault(cfg.OutputDir, filepath.Join(cwd, "out"))

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.Errorf("missing required env var: %s", name)
	}
	return nil
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
