package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("LOG_FORMAT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "foxnut", cfg.Database.DBName)
	assert.Equal(t, 200*time.Millisecond, cfg.Database.SlowQueryThreshold)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfigFromEnv(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		check func(t *testing.T, cfg *Config)
	}{
		{
			name: "sqlite driver is lower-cased",
			env:  map[string]string{"DB_DRIVER": "SQLite", "DB_PATH": "/tmp/inv.db"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DriverSQLite, cfg.Database.Driver)
				assert.Equal(t, "/tmp/inv.db", cfg.Database.Path)
			},
		},
		{
			name: "invalid numbers fall back to defaults",
			env:  map[string]string{"DB_MAX_OPEN_CONNS": "many", "LOG_MAX_AGE": "7"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 25, cfg.Database.MaxOpenConns)
				assert.Equal(t, 7, cfg.Log.MaxAge)
			},
		},
		{
			name: "durations and booleans",
			env:  map[string]string{"DB_SLOW_QUERY_THRESHOLD": "1s", "LOG_COMPRESS": "FALSE"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, time.Second, cfg.Database.SlowQueryThreshold)
				assert.False(t, cfg.Log.Compress)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := LoadConfig()
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}
