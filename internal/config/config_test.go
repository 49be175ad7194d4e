package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "0 0 * * *", cfg.LeaguePollCron)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, "gte", cfg.OverComparator)
	assert.Len(t, cfg.ProcessCommands, 5)
	assert.Equal(t, []string{"python3 data/unrivaled/predict/analysis.py"}, cfg.AnalysisCommands)
	assert.Equal(t, ":8080", cfg.HTTPAddr())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "mongo")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("OVER_COMPARATOR", "gt")
	t.Setenv("SCRAPE_COMMANDS", "echo one,echo two")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendMongo, cfg.StoreBackend)
	assert.Equal(t, 9000, cfg.HTTPPort)
	assert.Equal(t, "gt", cfg.OverComparator)
	assert.Equal(t, []string{"echo one", "echo two"}, cfg.ScrapeCommands)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			StoreBackend:      BackendPostgres,
			DatabaseURL:       "postgres://localhost/db",
			OverComparator:    "gte",
			PollInterval:      5 * time.Second,
			RateLimitEnabled:  true,
			RateLimitRequests: 10,
			RateLimitWindow:   time.Minute,
		}
	}

	cfg := base()
	assert.NoError(t, cfg.Validate())

	cfg = base()
	cfg.StoreBackend = "firestore"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.DatabaseURL = ""
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.OverComparator = "lt"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.PollInterval = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.RateLimitRequests = 0
	assert.Error(t, cfg.Validate())
}
