package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	defaultSiteName  = "Full Scope Media"
	gmailSMTPHost    = "smtp.gmail.com"
	productionEnvTag = "production"
)

// ErrMissingEmailConfig is returned when neither SMTP variant is configured.
var ErrMissingEmailConfig = errors.New("Missing email configuration. Provide EMAIL_SERVER_* or GMAIL_USER/GMAIL_APP_PASSWORD in env.")

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"NODE_ENV" envDefault:"development"`
	GinMode     string `env:"GIN_MODE" envDefault:"debug"`

	// Direct SMTP
	EmailServerHost     string `env:"EMAIL_SERVER_HOST"`
	EmailServerPort     string `env:"EMAIL_SERVER_PORT"`
	EmailServerUser     string `env:"EMAIL_SERVER_USER"`
	EmailServerPassword string `env:"EMAIL_SERVER_PASSWORD"`

	// Gmail convenience SMTP
	GmailUser        string `env:"GMAIL_USER"`
	GmailAppPassword string `env:"GMAIL_APP_PASSWORD"`
	GmailSMTPPort    int    `env:"GMAIL_SMTP_PORT" envDefault:"465"`

	// Microsoft Graph (client credentials)
	OutlookClientID     string `env:"OUTLOOK_CLIENT_ID"`
	OutlookClientSecret string `env:"OUTLOOK_CLIENT_SECRET"`
	OutlookTenantID     string `env:"OUTLOOK_TENANT_ID"`
	OutlookSender       string `env:"OUTLOOK_SENDER"`
	GraphAuthorityURL   string `env:"GRAPH_AUTHORITY_URL" envDefault:"https://login.microsoftonline.com"`
	GraphAPIURL         string `env:"GRAPH_API_URL" envDefault:"https://graph.microsoft.com"`

	// Addressing and branding
	ContactTo       string   `env:"CONTACT_TO"`
	EmailFrom       string   `env:"EMAIL_FROM"`
	ContactFromName string   `env:"CONTACT_FROM_NAME"`
	SiteName        string   `env:"SITE_NAME" envDefault:"Full Scope Media"`
	SiteURL         string   `env:"SITE_URL" envDefault:"https://fullscope-media.com"`
	SiteServices    []string `env:"SITE_SERVICES" envSeparator:"," envDefault:"Real Estate Photography,Real Estate Videography,Drone Photography,3D Virtual Tours,Virtual Staging,Floor Plans"`

	// Inquiry form
	OptionalFields []string      `env:"CONTACT_OPTIONAL_FIELDS" envSeparator:"," envDefault:"phone,service,budget,date"`
	MailTimeout    time.Duration `env:"MAIL_TIMEOUT" envDefault:"10s"`

	// Rate limiting
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"60s"`
	RateLimitMax    int           `env:"RATE_LIMIT_MAX" envDefault:"8"`
	RedisURL        string        `env:"REDIS_URL"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`

	// Diagnostics throttle (token bucket shared by all callers)
	DiagnosticsRPS   float64 `env:"DIAGNOSTICS_RPS" envDefault:"1"`
	DiagnosticsBurst int     `env:"DIAGNOSTICS_BURST" envDefault:"5"`

	// Portfolio catalog
	PortfolioFile string `env:"PORTFOLIO_FILE" envDefault:"data/portfolio.yaml"`

	// Logging
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile       string `env:"LOG_FILE"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"50"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"28"`
}

// SMTPSettings is the resolved direct-SMTP server, either EMAIL_SERVER_* or Gmail.
type SMTPSettings struct {
	Host     string
	Port     int
	Username string
	Password string
	// ImplicitTLS is set for port 465; other ports use mandatory STARTTLS.
	ImplicitTLS bool
}

func LoadConfig() (*Config, error) {
	// .env is optional; deployed environments inject variables directly
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")
	cfg.GraphAuthorityURL = strings.TrimRight(cfg.GraphAuthorityURL, "/")
	cfg.GraphAPIURL = strings.TrimRight(cfg.GraphAPIURL, "/")
	if strings.TrimSpace(cfg.SiteName) == "" {
		cfg.SiteName = defaultSiteName
	}

	if !cfg.GraphConfigured() {
		if _, err := cfg.ResolveSMTP(); err != nil {
			log.Println("WARNING: no mail provider configured. Contact form submissions will fail.")
		}
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory store.")
	}

	return cfg, nil
}

// IsProduction reports whether error details must be hidden from clients.
func (c *Config) IsProduction() bool {
	return c.Environment == productionEnvTag
}

// GraphConfigured reports whether all four Graph values are present.
func (c *Config) GraphConfigured() bool {
	return c.OutlookClientID != "" &&
		c.OutlookClientSecret != "" &&
		c.OutlookTenantID != "" &&
		c.OutlookSender != ""
}

// ResolveSMTP picks EMAIL_SERVER_* when complete, otherwise the Gmail pair.
func (c *Config) ResolveSMTP() (SMTPSettings, error) {
	if c.EmailServerHost != "" && c.EmailServerPort != "" && c.EmailServerUser != "" && c.EmailServerPassword != "" {
		port, err := strconv.Atoi(strings.TrimSpace(c.EmailServerPort))
		if err != nil || port <= 0 {
			return SMTPSettings{}, fmt.Errorf("invalid EMAIL_SERVER_PORT %q", c.EmailServerPort)
		}
		return SMTPSettings{
			Host:        c.EmailServerHost,
			Port:        port,
			Username:    c.EmailServerUser,
			Password:    c.EmailServerPassword,
			ImplicitTLS: port == 465,
		}, nil
	}

	if c.GmailUser != "" && c.GmailAppPassword != "" {
		return SMTPSettings{
			Host:        gmailSMTPHost,
			Port:        c.GmailSMTPPort,
			Username:    c.GmailUser,
			Password:    c.GmailAppPassword,
			ImplicitTLS: c.GmailSMTPPort == 465,
		}, nil
	}

	return SMTPSettings{}, ErrMissingEmailConfig
}

// Recipient is where inquiries are delivered.
func (c *Config) Recipient() string {
	return firstNonEmpty(c.ContactTo, c.EmailServerUser, c.GmailUser, c.OutlookSender)
}

// FromAddress is the SMTP envelope/header sender.
func (c *Config) FromAddress() string {
	return firstNonEmpty(c.EmailFrom, c.EmailServerUser, c.GmailUser)
}

// FromName is the display name used on outbound inquiry mail.
func (c *Config) FromName() string {
	if c.ContactFromName != "" {
		return c.ContactFromName
	}
	return c.SiteName + " Forms"
}

// EnvCheckKeys is the allowlist reported by the env-check endpoint.
var EnvCheckKeys = []string{
	"EMAIL_SERVER_HOST",
	"EMAIL_SERVER_PORT",
	"EMAIL_SERVER_USER",
	"EMAIL_SERVER_PASSWORD",
	"GMAIL_USER",
	"GMAIL_APP_PASSWORD",
	"OUTLOOK_CLIENT_ID",
	"OUTLOOK_CLIENT_SECRET",
	"OUTLOOK_TENANT_ID",
	"OUTLOOK_SENDER",
	"CONTACT_TO",
	"CONTACT_FROM_NAME",
	"EMAIL_FROM",
	"SITE_NAME",
	"SITE_URL",
	"REDIS_URL",
	"NODE_ENV",
}

// EnvPresence reports, for each key, whether it is set to a non-empty value.
func EnvPresence(keys []string) map[string]bool {
	out := make(map[string]bool, len(keys))
	for _, k := range keys {
		v, ok := os.LookupEnv(k)
		out[k] = ok && v != ""
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
