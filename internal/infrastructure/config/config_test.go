package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ledgerEnvKeys = []string{
	"LEDGER_APP_NAME",
	"LEDGER_APP_ENV",
	"LEDGER_DATABASE_HOST",
	"LEDGER_DATABASE_PORT",
	"LEDGER_DATABASE_USER",
	"LEDGER_DATABASE_PASSWORD",
	"LEDGER_DATABASE_DBNAME",
	"LEDGER_DATABASE_SSLMODE",
	"LEDGER_DATABASE_MAX_OPEN_CONNS",
	"LEDGER_DATABASE_MAX_IDLE_CONNS",
	"LEDGER_LEDGER_COMMIT_LOCK_BACKEND",
	"LEDGER_LEDGER_COMMIT_LOCK_TTL",
	"LEDGER_TELEMETRY_SAMPLING_RATIO",
	"LEDGER_TELEMETRY_DB_LOG_FULL_SQL",
}

// clearEnv blanks every variable Load reads; viper ignores empty values
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range ledgerEnvKeys {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "stockledger", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "", cfg.Database.Password)
		assert.Equal(t, "stockledger", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, LockBackendNone, cfg.Ledger.CommitLockBackend)
		assert.Equal(t, 2*time.Minute, cfg.Ledger.CommitLockTTL)
		assert.Equal(t, "stockledger", cfg.Telemetry.ServiceName)
		assert.Equal(t, 200*time.Millisecond, cfg.Telemetry.DBSlowQueryThresh)
	})

	t.Run("loads values from environment variables with LEDGER prefix", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LEDGER_APP_NAME", "test-ledger")
		t.Setenv("LEDGER_DATABASE_HOST", "testdb.local")
		t.Setenv("LEDGER_DATABASE_PORT", "5433")
		t.Setenv("LEDGER_DATABASE_PASSWORD", "testpass")
		t.Setenv("LEDGER_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("LEDGER_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("LEDGER_LEDGER_COMMIT_LOCK_BACKEND", "redis")
		t.Setenv("LEDGER_LEDGER_COMMIT_LOCK_TTL", "30s")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-ledger", cfg.App.Name)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, LockBackendRedis, cfg.Ledger.CommitLockBackend)
		assert.Equal(t, 30*time.Second, cfg.Ledger.CommitLockTTL)
	})

	t.Run("rejects idle connections above open connections", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LEDGER_DATABASE_MAX_OPEN_CONNS", "5")
		t.Setenv("LEDGER_DATABASE_MAX_IDLE_CONNS", "10")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed database.max_open_conns")
	})

	t.Run("rejects unknown lock backend", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LEDGER_LEDGER_COMMIT_LOCK_BACKEND", "etcd")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ledger.commit_lock_backend")
	})

	t.Run("rejects sampling ratio above one", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LEDGER_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LEDGER_APP_ENV", "production")
		t.Setenv("LEDGER_DATABASE_PASSWORD", "secure-password")
		t.Setenv("LEDGER_DATABASE_SSLMODE", "require")
	}

	t.Run("requires database.password in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("LEDGER_DATABASE_PASSWORD", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("LEDGER_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("forbids full SQL tracing in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("LEDGER_TELEMETRY_DB_LOG_FULL_SQL", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db_log_full_sql")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "ledger.toml")
	content := `
[database]
host = "db.internal"
dbname = "ledger_test"

[ledger]
commit_lock_backend = "none"
commit_lock_ttl = "45s"

[telemetry]
enabled = true
service_name = "ledger-cli"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "ledger_test", cfg.Database.DBName)
	assert.Equal(t, LockBackendNone, cfg.Ledger.CommitLockBackend)
	assert.Equal(t, 45*time.Second, cfg.Ledger.CommitLockTTL)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "ledger-cli", cfg.Telemetry.ServiceName)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", cfg.Addr())
}

func TestLoad_ReportsEveryProblem(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEDGER_LEDGER_COMMIT_LOCK_BACKEND", "zookeeper")
	t.Setenv("LEDGER_TELEMETRY_SAMPLING_RATIO", "-0.5")
	t.Setenv("LEDGER_DATABASE_MAX_OPEN_CONNS", "2")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ledger.commit_lock_backend")
	assert.Contains(t, err.Error(), "telemetry.sampling_ratio")
	assert.Contains(t, err.Error(), "cannot exceed database.max_open_conns (2)")
}

func TestLoad_ServiceNameFollowsAppName(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEDGER_APP_NAME", "ledger-eu")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "ledger-eu", cfg.Telemetry.ServiceName)
	assert.Equal(t, time.Minute, cfg.Telemetry.MetricsInterval)
	assert.Equal(t, "localhost:4317", cfg.Telemetry.CollectorEndpoint)
}
