package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Database.DSN)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "localhost:4317", cfg.Telemetry.OTLPEndpoint)
	assert.Equal(t, 30*time.Second, cfg.Telemetry.ExportInterval)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("ENVIRONMENT", "staging")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TELEMETRY_ENABLED", "false")
	t.Setenv("TELEMETRY_SAMPLE_RATE", "0.25")
	t.Setenv("TELEMETRY_EXPORT_INTERVAL_SECONDS", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, 0.25, cfg.Telemetry.SampleRate)
	assert.Equal(t, 5*time.Second, cfg.Telemetry.ExportInterval)
}

func TestProductionRequiresDSN(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("DATABASE_DSN", "app:secret@tcp(db:3306)/app?parseTime=true")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestSampleRateBounds(t *testing.T) {
	t.Setenv("TELEMETRY_SAMPLE_RATE", "1.5")
	_, err := Load()
	assert.Error(t, err)
}

func TestWatcherAppliesLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logLevel: warn\n"), 0o644))

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	watcher, err := NewWatcher(path, level, zap.NewNop())
	require.NoError(t, err)
	defer watcher.Close()

	assert.Equal(t, zapcore.WarnLevel, level.Level(), "the initial file content applies immediately")

	require.NoError(t, os.WriteFile(path, []byte("logLevel: debug\n"), 0o644))
	assert.Eventually(t, func() bool {
		return level.Level() == zapcore.DebugLevel
	}, 3*time.Second, 20*time.Millisecond)
}

func TestWatcherIgnoresMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logLevel: warn\n"), 0o644))

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	watcher, err := NewWatcher(path, level, zap.NewNop())
	require.NoError(t, err)
	defer watcher.Close()

	require.NoError(t, os.WriteFile(path, []byte(":::not yaml:::"), 0o644))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, zapcore.WarnLevel, level.Level(), "a malformed file leaves the level untouched")
}
