package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSMTP(t *testing.T) {
	t.Run("Should prefer EMAIL_SERVER settings when complete", func(t *testing.T) {
		cfg := &Config{
			EmailServerHost:     "smtp.office365.com",
			EmailServerPort:     "587",
			EmailServerUser:     "ry@fullscope-media.com",
			EmailServerPassword: "secret",
			GmailUser:           "other@gmail.com",
			GmailAppPassword:    "app-password-123",
			GmailSMTPPort:       465,
		}

		s, err := cfg.ResolveSMTP()
		require.NoError(t, err)
		assert.Equal(t, "smtp.office365.com", s.Host)
		assert.Equal(t, 587, s.Port)
		assert.False(t, s.ImplicitTLS)
	})

	t.Run("Should fall back to Gmail defaults", func(t *testing.T) {
		cfg := &Config{
			EmailServerHost:  "smtp.office365.com", // incomplete set
			GmailUser:        "me@gmail.com",
			GmailAppPassword: "app-password-123",
			GmailSMTPPort:    465,
		}

		s, err := cfg.ResolveSMTP()
		require.NoError(t, err)
		assert.Equal(t, "smtp.gmail.com", s.Host)
		assert.Equal(t, 465, s.Port)
		assert.True(t, s.ImplicitTLS)
		assert.Equal(t, "me@gmail.com", s.Username)
	})

	t.Run("Should fail when nothing is configured", func(t *testing.T) {
		_, err := (&Config{}).ResolveSMTP()
		assert.ErrorIs(t, err, ErrMissingEmailConfig)
	})

	t.Run("Should reject a non-numeric port", func(t *testing.T) {
		cfg := &Config{
			EmailServerHost:     "smtp.example.com",
			EmailServerPort:     "abc",
			EmailServerUser:     "u",
			EmailServerPassword: "p",
		}
		_, err := cfg.ResolveSMTP()
		assert.Error(t, err)
	})
}

func TestGraphConfigured(t *testing.T) {
	cfg := &Config{OutlookClientID: "id", OutlookClientSecret: "secret", OutlookTenantID: "tenant"}
	assert.False(t, cfg.GraphConfigured())

	cfg.OutlookSender = "ry@fullscope-media.com"
	assert.True(t, cfg.GraphConfigured())
}

func TestAddressing(t *testing.T) {
	cfg := &Config{SiteName: "Full Scope Media", EmailServerUser: "smtp@fullscope-media.com", OutlookSender: "graph@fullscope-media.com"}
	assert.Equal(t, "smtp@fullscope-media.com", cfg.Recipient())
	assert.Equal(t, "smtp@fullscope-media.com", cfg.FromAddress())
	assert.Equal(t, "Full Scope Media Forms", cfg.FromName())

	cfg.ContactTo = "inbox@fullscope-media.com"
	cfg.EmailFrom = "forms@fullscope-media.com"
	cfg.ContactFromName = "Website"
	assert.Equal(t, "inbox@fullscope-media.com", cfg.Recipient())
	assert.Equal(t, "forms@fullscope-media.com", cfg.FromAddress())
	assert.Equal(t, "Website", cfg.FromName())
}

func TestEnvPresence(t *testing.T) {
	t.Setenv("SITE_NAME", "Full Scope Media")
	t.Setenv("EMAIL_FROM", "")

	got := EnvPresence([]string{"SITE_NAME", "EMAIL_FROM", "FSM_TEST_UNSET_KEY"})
	assert.Equal(t, map[string]bool{
		"SITE_NAME":          true,
		"EMAIL_FROM":         false,
		"FSM_TEST_UNSET_KEY": false,
	}, got)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("NODE_ENV", "production")
	t.Setenv("SITE_URL", "https://example.com/")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "https://example.com", cfg.SiteURL)
	assert.Equal(t, 8, cfg.RateLimitMax)
	assert.Equal(t, []string{"phone", "service", "budget", "date"}, cfg.OptionalFields)
}
