package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationNamesAreOrdered(t *testing.T) {
	names, err := MigrationNames()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"001_create_players.sql",
		"002_create_projections.sql",
		"003_create_games.sql",
		"004_create_analysis_results.sql",
	}, names)
}

// Integration test; set PROPDASH_TEST_DATABASE_URL to run it.
func TestDatabaseMigrateAndHealth(t *testing.T) {
	dsn := os.Getenv("PROPDASH_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("PROPDASH_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := NewDatabase(ctx, dsn, DefaultOptions())
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.RunMigrations(ctx))
	// Second run is a no-op.
	require.NoError(t, db.RunMigrations(ctx))
	assert.NoError(t, db.HealthCheck(ctx))
}
