package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "logistics-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "logistics", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, "memory", cfg.Storage.Driver)
		assert.Equal(t, "log", cfg.Mail.Driver)
		assert.Equal(t, 465, cfg.Mail.Port)
		assert.Equal(t, "Логистическая компания", cfg.Mail.DefaultSenderName)
		assert.Equal(t, 16, cfg.Access.MaxBasisDepth)
		assert.Empty(t, cfg.Access.WarehouseVisibleStatuses)
		assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
		assert.Equal(t, "logistics-backend", cfg.Telemetry.ServiceName)
	})

	t.Run("loads values from environment variables with LOGISTICS prefix", func(t *testing.T) {
		t.Setenv("LOGISTICS_APP_PORT", "9000")
		t.Setenv("LOGISTICS_DATABASE_HOST", "testdb.local")
		t.Setenv("LOGISTICS_DATABASE_PORT", "5433")
		t.Setenv("LOGISTICS_REDIS_ENABLED", "true")
		t.Setenv("LOGISTICS_ACCESS_WAREHOUSE_VISIBLE_STATUSES", "at_warehouse in_transit")
		t.Setenv("LOGISTICS_ACCESS_MAX_BASIS_DEPTH", "4")
		t.Setenv("LOGISTICS_IDEMPOTENCY_TTL", "1h")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
		assert.Equal(t, []string{"at_warehouse", "in_transit"}, cfg.Access.WarehouseVisibleStatuses)
		assert.Equal(t, 4, cfg.Access.MaxBasisDepth)
		assert.Equal(t, time.Hour, cfg.Idempotency.TTL)
	})

	t.Run("rejects idle conns above open conns", func(t *testing.T) {
		t.Setenv("LOGISTICS_DATABASE_MAX_OPEN_CONNS", "5")
		t.Setenv("LOGISTICS_DATABASE_MAX_IDLE_CONNS", "10")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects unknown storage driver", func(t *testing.T) {
		t.Setenv("LOGISTICS_STORAGE_DRIVER", "ftp")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.driver")
	})

	t.Run("s3 driver needs a bucket", func(t *testing.T) {
		t.Setenv("LOGISTICS_STORAGE_DRIVER", "s3")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.bucket")
	})

	t.Run("smtp driver needs a host", func(t *testing.T) {
		t.Setenv("LOGISTICS_MAIL_DRIVER", "smtp")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mail.host")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		t.Setenv("LOGISTICS_APP_ENV", "production")
		t.Setenv("LOGISTICS_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		t.Setenv("LOGISTICS_DATABASE_PASSWORD", "secure-password")
		t.Setenv("LOGISTICS_DATABASE_SSLMODE", "require")
		t.Setenv("LOGISTICS_STORAGE_DRIVER", "s3")
		t.Setenv("LOGISTICS_STORAGE_BUCKET", "logistics")
	}

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})

	t.Run("requires jwt.secret at least 32 characters in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("LOGISTICS_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret must be at least 32 characters")
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("LOGISTICS_DATABASE_PASSWORD", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("LOGISTICS_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("rejects in-memory storage in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("LOGISTICS_STORAGE_DRIVER", "memory")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.driver cannot be 'memory'")
	})
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
		cfg := DatabaseConfig{Host: "localhost", Port: 5432, User: "user", Password: "pass@word#123", DBName: "db", SSLMode: "disable"}
		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}
