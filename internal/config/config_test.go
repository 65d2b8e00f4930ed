package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ANDES_DB_HOST", "localhost")
	t.Setenv("ANDES_DB_USER", "andes")
	t.Setenv("ANDES_DB_PASSWORD", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.AndesDBHost)
	assert.Equal(t, 5432, cfg.AndesDBPort)
	assert.Equal(t, "andes", cfg.AndesDBName)
	assert.Equal(t, StoreCSV, cfg.Store)
	assert.Equal(t, "dwca", cfg.OutputDir)
	assert.Equal(t, "obisdb", cfg.OBISDBName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestLoad_CustomEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ANDES_DB_PORT", "5433")
	t.Setenv("ANDES_DB_NAME", "andes_2024")
	t.Setenv("STORE", "postgres")
	t.Setenv("OBIS_DB_HOST", "obis-host")
	t.Setenv("OBIS_DB_USER", "obis")
	t.Setenv("OBIS_DB_PASSWORD", "secret2")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("METRICS_ADDR", ":9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5433, cfg.AndesDBPort)
	assert.Equal(t, "andes_2024", cfg.AndesDBName)
	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, "obis-host", cfg.OBISDBHost)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
}

func TestLoad_MissingRequired(t *testing.T) {
	// t.Setenv registers the restore; the unset makes the variable truly
	// absent, which is what the required tag checks.
	for _, key := range []string{"ANDES_DB_HOST", "ANDES_DB_USER", "ANDES_DB_PASSWORD"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_StoreValidation(t *testing.T) {
	t.Run("postgres store requires obis credentials", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("STORE", "postgres")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "OBIS_DB_HOST")
	})

	t.Run("unknown store rejected", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("STORE", "s3")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown STORE")
	})
}

func TestDSN(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STORE", "postgres")
	t.Setenv("OBIS_DB_HOST", "obis-host")
	t.Setenv("OBIS_DB_USER", "obis")
	t.Setenv("OBIS_DB_PASSWORD", "secret2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t,
		"host=localhost user=andes password=secret dbname=andes port=5432 sslmode=disable",
		cfg.AndesDSN())
	assert.Equal(t,
		"host=obis-host user=obis password=secret2 dbname=obisdb port=5432 sslmode=disable",
		cfg.OBISDSN())
}
